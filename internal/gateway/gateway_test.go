package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
)

type stubGenerator struct {
	calls     []string
	responses map[string]*genai.GenerateContentResponse
	errs      map[string]error
}

func (s *stubGenerator) GenerateContent(_ context.Context, model string, _ genai.GenerateContentRequest) (*genai.GenerateContentResponse, error) {
	s.calls = append(s.calls, model)
	if err, ok := s.errs[model]; ok {
		return nil, err
	}
	return s.responses[model], nil
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func inlineResponse(data []byte) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Parts: []genai.Part{{InlineData: &genai.InlineData{
			MimeType: "image/png",
			Data:     base64.StdEncoding.EncodeToString(data),
		}}}},
	}}}
}

func newTestGateway(t *testing.T, stub *stubGenerator) *Gateway {
	t.Helper()
	gw, err := New(Options{
		Client:         stub,
		PrimaryModel:   "primary-model",
		FallbackModel:  "fallback-model",
		AttemptTimeout: time.Second,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)
	return gw
}

func TestGenerateUsesPrimaryWhenHealthy(t *testing.T) {
	valid := testPNG(t)
	stub := &stubGenerator{responses: map[string]*genai.GenerateContentResponse{
		"primary-model": inlineResponse(valid),
	}}
	gw := newTestGateway(t, stub)

	out, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary-model"}, stub.calls)

	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

func TestGenerateFallsBackExactlyOnce(t *testing.T) {
	valid := testPNG(t)
	stub := &stubGenerator{
		errs:      map[string]error{"primary-model": errors.New("boom")},
		responses: map[string]*genai.GenerateContentResponse{"fallback-model": inlineResponse(valid)},
	}
	gw := newTestGateway(t, stub)

	out, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary-model", "fallback-model"}, stub.calls)
	assert.NotEmpty(t, out)
}

func TestGenerateReturnsLastAttemptError(t *testing.T) {
	stub := &stubGenerator{errs: map[string]error{
		"primary-model":  errors.New("primary down"),
		"fallback-model": errors.New("fallback down"),
	}}
	gw := newTestGateway(t, stub)

	_, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	require.Error(t, err)

	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, "fallback-model", genErr.Model)
	assert.Equal(t, CauseUpstreamError, genErr.Cause)
	assert.Equal(t, []string{"primary-model", "fallback-model"}, stub.calls)
}

func TestGenerateTextOnlyResponseFailsClosed(t *testing.T) {
	textResp := &genai.GenerateContentResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Parts: []genai.Part{{Text: "I cannot generate that image."}}},
	}}}
	stub := &stubGenerator{responses: map[string]*genai.GenerateContentResponse{
		"primary-model":  textResp,
		"fallback-model": textResp,
	}}
	gw := newTestGateway(t, stub)

	_, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CauseNoImageReturned, genErr.Cause)
}

func TestGenerateRejectsCorruptImageBytes(t *testing.T) {
	corrupt := inlineResponse([]byte("definitely not a png, just some bytes"))
	stub := &stubGenerator{responses: map[string]*genai.GenerateContentResponse{
		"primary-model":  corrupt,
		"fallback-model": corrupt,
	}}
	gw := newTestGateway(t, stub)

	_, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	var genErr *GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, CauseInvalidResponse, genErr.Cause)
}

// noisyPNG encodes random-looking pixels so the PNG stays large enough to
// clear the base64 length heuristic in decodeBase64Image.
func noisyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 64))
	seed := uint32(1)
	for i := range img.Pix {
		seed = seed*1664525 + 1013904223
		img.Pix[i] = byte(seed >> 24)
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestExtractBase64InTextPart(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Parts: []genai.Part{{Text: base64.StdEncoding.EncodeToString(noisyPNG(t))}}},
	}}}
	stub := &stubGenerator{responses: map[string]*genai.GenerateContentResponse{"primary-model": resp}}
	gw := newTestGateway(t, stub)

	out, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}

type failingDownloader struct{ err error }

func (f *failingDownloader) DownloadFile(context.Context, string) ([]byte, error) {
	return nil, f.err
}

func TestExtractFallsThroughWhenDownloadFails(t *testing.T) {
	resp := &genai.GenerateContentResponse{Candidates: []genai.Candidate{{
		Content: genai.Content{Parts: []genai.Part{
			{FileData: &genai.FileData{FileURI: "https://x/files/expired-1"}},
			{Text: base64.StdEncoding.EncodeToString(noisyPNG(t))},
		}},
	}}}
	stub := &stubGenerator{responses: map[string]*genai.GenerateContentResponse{"primary-model": resp}}
	gw, err := New(Options{
		Client:         stub,
		Downloader:     &failingDownloader{err: errors.New("file expired")},
		PrimaryModel:   "primary-model",
		FallbackModel:  "fallback-model",
		AttemptTimeout: time.Second,
		Logger:         zerolog.Nop(),
	})
	require.NoError(t, err)

	out, err := gw.Generate(context.Background(), Request{Prompt: "a jacket"})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary-model"}, stub.calls)
	_, err = png.Decode(bytes.NewReader(out))
	assert.NoError(t, err)
}
