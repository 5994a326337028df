package gateway

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/keshavdadhichb/bono-catalog-be/internal/imgproc"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
)

// Cause classifies why a generation attempt failed.
type Cause string

const (
	CauseTimeout         Cause = "timeout"
	CauseNoImageReturned Cause = "no_image_returned"
	CauseInvalidResponse Cause = "invalid_response"
	CauseUpstreamError   Cause = "upstream_error"
)

// GenerationError reports a failed attempt with the model that produced it, so
// callers can distinguish a slow primary from a broken fallback.
type GenerationError struct {
	Model string
	Cause Cause
	Err   error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed (model=%s cause=%s): %v", e.Model, e.Cause, e.Err)
	}
	return fmt.Sprintf("generation failed (model=%s cause=%s)", e.Model, e.Cause)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// ContentGenerator is the slice of the Gemini client the gateway invokes.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, model string, req genai.GenerateContentRequest) (*genai.GenerateContentResponse, error)
}

// FileDownloader fetches files/... resources referenced by fileData parts.
type FileDownloader interface {
	DownloadFile(ctx context.Context, name string) ([]byte, error)
}

// Request is one image generation call: a prompt, its reference images and the
// output geometry.
type Request struct {
	Prompt      string
	Images      [][]byte
	AspectRatio string
	ImageSize   string
}

// Options configures a Gateway.
type Options struct {
	Client         ContentGenerator
	Downloader     FileDownloader
	PrimaryModel   string
	FallbackModel  string
	AttemptTimeout time.Duration
	Logger         infra.Logger
}

// Gateway turns prompts into validated PNG bytes. It tries the primary model
// first and falls back once; each attempt gets its own timeout so a hung
// primary cannot consume the fallback's budget.
type Gateway struct {
	client         ContentGenerator
	downloader     FileDownloader
	primaryModel   string
	fallbackModel  string
	attemptTimeout time.Duration
	logger         infra.Logger
}

// New constructs a Gateway.
func New(opts Options) (*Gateway, error) {
	if opts.Client == nil {
		return nil, errors.New("gateway: content generator is required")
	}
	if opts.PrimaryModel == "" {
		return nil, errors.New("gateway: primary model is required")
	}
	timeout := opts.AttemptTimeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Gateway{
		client:         opts.Client,
		downloader:     opts.Downloader,
		primaryModel:   opts.PrimaryModel,
		fallbackModel:  opts.FallbackModel,
		attemptTimeout: timeout,
		logger:         opts.Logger,
	}, nil
}

// Generate runs the request against the primary model, then the fallback if
// the primary fails. The returned bytes are always canonical PNG. On total
// failure the error from the last attempt is returned.
func (g *Gateway) Generate(ctx context.Context, req Request) ([]byte, error) {
	models := []string{g.primaryModel}
	if g.fallbackModel != "" && g.fallbackModel != g.primaryModel {
		models = append(models, g.fallbackModel)
	}

	var lastErr error
	for _, model := range models {
		png, err := g.attempt(ctx, model, req)
		if err == nil {
			return png, nil
		}
		lastErr = err
		g.logger.Warn().Err(err).Str("model", model).Msg("generation attempt failed")
		if ctx.Err() != nil {
			break
		}
	}
	return nil, lastErr
}

func (g *Gateway) attempt(ctx context.Context, model string, req Request) ([]byte, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, g.attemptTimeout)
	defer cancel()

	parts := make([]genai.Part, 0, len(req.Images)+1)
	parts = append(parts, genai.Part{Text: req.Prompt})
	for _, img := range req.Images {
		parts = append(parts, genai.Part{InlineData: &genai.InlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(img),
		}})
	}

	aspect := req.AspectRatio
	if aspect == "" {
		aspect = "9:16"
	}
	size := req.ImageSize
	if size == "" {
		size = "2K"
	}

	resp, err := g.client.GenerateContent(attemptCtx, model, genai.GenerateContentRequest{
		Contents: []genai.Content{{Role: "user", Parts: parts}},
		GenerationConfig: &genai.GenerationConfig{
			ResponseModalities: []string{"IMAGE"},
			ImageConfig:        &genai.ImageConfig{AspectRatio: aspect, ImageSize: size},
		},
	})
	if err != nil {
		cause := CauseUpstreamError
		if errors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() == context.DeadlineExceeded {
			cause = CauseTimeout
		}
		return nil, &GenerationError{Model: model, Cause: cause, Err: err}
	}

	raw, err := g.extract(attemptCtx, resp)
	if err != nil {
		return nil, &GenerationError{Model: model, Cause: CauseNoImageReturned, Err: err}
	}

	png, err := imgproc.ReencodePNG(raw)
	if err != nil {
		return nil, &GenerationError{Model: model, Cause: CauseInvalidResponse, Err: err}
	}
	return png, nil
}

// extract walks the candidates looking for image bytes. Inline data wins, then
// file references, then base64 dumped into a text part; a strategy that fails
// yields to the next one. Responses that contain only refusal text land in the
// final error.
func (g *Gateway) extract(ctx context.Context, resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, errors.New("response has no candidates")
	}

	var textSeen string
	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil && part.InlineData.Data != "" {
				data, err := base64.StdEncoding.DecodeString(part.InlineData.Data)
				if err != nil {
					return nil, fmt.Errorf("inline data is not valid base64: %w", err)
				}
				return data, nil
			}
		}
	}

	if g.downloader != nil {
		for _, cand := range resp.Candidates {
			for _, part := range cand.Content.Parts {
				if part.FileData != nil && part.FileData.FileURI != "" {
					name := fileNameFromURI(part.FileData.FileURI)
					if name == "" {
						continue
					}
					data, err := g.downloader.DownloadFile(ctx, name)
					if err != nil {
						g.logger.Warn().Err(err).Str("file", name).Msg("referenced file download failed, trying next strategy")
						continue
					}
					return data, nil
				}
			}
		}
	}

	for _, cand := range resp.Candidates {
		for _, part := range cand.Content.Parts {
			if part.Text == "" {
				continue
			}
			textSeen = part.Text
			if data, ok := decodeBase64Image(part.Text); ok {
				return data, nil
			}
		}
	}

	if textSeen != "" {
		return nil, fmt.Errorf("response contained only text: %s", truncate(textSeen, 200))
	}
	return nil, errors.New("response contained no image data")
}

// decodeBase64Image recovers image bytes from a text part holding nothing but
// base64. The decoded bytes must start with a known image magic number.
func decodeBase64Image(text string) ([]byte, bool) {
	compact := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\n', '\r', '\t':
			return -1
		}
		return r
	}, text)
	if len(compact) < 1024 {
		return nil, false
	}
	data, err := base64.StdEncoding.DecodeString(compact)
	if err != nil {
		return nil, false
	}
	if !hasImageMagic(data) {
		return nil, false
	}
	return data, true
}

func hasImageMagic(data []byte) bool {
	if len(data) < 8 {
		return false
	}
	switch {
	case data[0] == 0x89 && string(data[1:4]) == "PNG":
		return true
	case data[0] == 0xFF && data[1] == 0xD8: // JPEG
		return true
	case string(data[:4]) == "RIFF" && len(data) >= 12 && string(data[8:12]) == "WEBP":
		return true
	}
	return false
}

func fileNameFromURI(uri string) string {
	idx := strings.Index(uri, "files/")
	if idx < 0 {
		return ""
	}
	return uri[idx:]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
