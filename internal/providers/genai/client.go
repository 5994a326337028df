package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
)

// Options controls how the Gemini client is configured.
type Options struct {
	APIKey            string
	BaseURL           string
	UploadURL         string
	HTTPClient        *http.Client
	Logger            *infra.Logger
	RequestsPerMinute int
}

// Client is a thin facade over the Gemini REST API so that the gateway and the
// batch orchestrator can focus on translating domain requests to API calls.
// Outbound calls share a rate limiter because the API enforces per-key limits.
type Client struct {
	apiKey     string
	baseURL    string
	uploadURL  string
	httpClient *http.Client
	logger     *infra.Logger
	limiter    *rate.Limiter
}

// Content is one conversational turn submitted to generateContent.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts,omitempty"`
}

// Part is a single multimodal fragment: prompt text, inline image bytes or a
// reference to a previously uploaded file.
type Part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *InlineData `json:"inlineData,omitempty"`
	FileData   *FileData   `json:"fileData,omitempty"`
}

// InlineData carries base64-encoded bytes inline with the request/response.
type InlineData struct {
	MimeType string `json:"mimeType,omitempty"`
	Data     string `json:"data,omitempty"`
}

// FileData references an uploaded file by URI.
type FileData struct {
	MimeType string `json:"mimeType,omitempty"`
	FileURI  string `json:"fileUri,omitempty"`
}

// ImageConfig selects output geometry and resolution tier.
type ImageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
	ImageSize   string `json:"imageSize,omitempty"`
}

// GenerationConfig controls response modalities and image output parameters.
type GenerationConfig struct {
	ResponseModalities []string     `json:"responseModalities,omitempty"`
	ImageConfig        *ImageConfig `json:"imageConfig,omitempty"`
}

// GenerateContentRequest is the generateContent payload.
type GenerateContentRequest struct {
	Contents         []Content         `json:"contents"`
	GenerationConfig *GenerationConfig `json:"generationConfig,omitempty"`
}

// Candidate is one model answer.
type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason,omitempty"`
}

// GenerateContentResponse is the generateContent reply envelope.
type GenerateContentResponse struct {
	Candidates []Candidate `json:"candidates"`
}

// BatchJob is the reduced view of a remote batch resource.
type BatchJob struct {
	Name         string
	State        string
	ResultFile   string
	ErrorMessage string
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code,omitempty"`
		Message string `json:"message,omitempty"`
	} `json:"error"`
}

// NewClient constructs a Gemini client with sane defaults. Callers may provide
// a nil HTTP client; a reusable one with a generous timeout will be created.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, fmt.Errorf("genai: api key is required")
	}

	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 180 * time.Second}
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	uploadURL := strings.TrimRight(opts.UploadURL, "/")
	if uploadURL == "" {
		uploadURL = "https://generativelanguage.googleapis.com/upload/v1beta"
	}

	perMinute := opts.RequestsPerMinute
	if perMinute <= 0 {
		perMinute = 20
	}

	return &Client{
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		uploadURL:  uploadURL,
		httpClient: client,
		logger:     opts.Logger,
		limiter:    rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute),
	}, nil
}

// GenerateContent invokes models/{model}:generateContent.
func (c *Client) GenerateContent(ctx context.Context, model string, req GenerateContentRequest) (*GenerateContentResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	var resp GenerateContentResponse
	path := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(model))
	if err := c.invoke(ctx, http.MethodPost, c.baseURL+path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UploadFile uploads raw bytes through the media upload endpoint and returns
// the assigned file name (files/...).
func (c *Client) UploadFile(ctx context.Context, displayName, mimeType string, data []byte) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	endpoint := c.uploadURL + "/files"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("create upload request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Goog-Upload-Protocol", "raw")
	req.Header.Set("X-Goog-File-Name", displayName)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload file: %w", err)
	}
	defer resp.Body.Close()

	if c.logger != nil {
		c.logger.Debug().Str("file", displayName).Int("bytes", len(data)).Int("status", resp.StatusCode).Msg("file uploaded")
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return "", c.decodeError(resp)
	}

	var out struct {
		File struct {
			Name string `json:"name"`
			URI  string `json:"uri"`
		} `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode upload response: %w", err)
	}
	if out.File.Name == "" {
		return "", fmt.Errorf("upload response missing file name")
	}
	return out.File.Name, nil
}

// DownloadFile fetches the raw contents of a files/... resource.
func (c *Client) DownloadFile(ctx context.Context, name string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/%s:download", c.baseURL, strings.TrimLeft(name, "/"))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create download request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	q.Set("alt", "media")
	req.URL.RawQuery = q.Encode()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, c.decodeError(resp)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file body: %w", err)
	}
	return data, nil
}

// CreateBatch submits an uploaded JSONL request file as an asynchronous batch
// against the given model and returns the remote batch name.
func (c *Client) CreateBatch(ctx context.Context, model, srcFileName, displayName string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	payload := map[string]any{
		"batch": map[string]any{
			"displayName": displayName,
			"inputConfig": map[string]any{"fileName": srcFileName},
		},
	}
	var out struct {
		Name string `json:"name"`
	}
	path := fmt.Sprintf("/models/%s:batchGenerateContent", url.PathEscape(model))
	if err := c.invoke(ctx, http.MethodPost, c.baseURL+path, payload, &out); err != nil {
		return "", err
	}
	if out.Name == "" {
		return "", fmt.Errorf("batch create response missing name")
	}
	return out.Name, nil
}

// GetBatch fetches the current state of a batches/... resource.
func (c *Client) GetBatch(ctx context.Context, name string) (*BatchJob, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	var out struct {
		Name     string `json:"name"`
		Metadata struct {
			State string `json:"state"`
			Dest  struct {
				FileName string `json:"fileName"`
			} `json:"dest"`
		} `json:"metadata"`
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	endpoint := c.baseURL + "/" + strings.TrimLeft(name, "/")
	if err := c.invoke(ctx, http.MethodGet, endpoint, nil, &out); err != nil {
		return nil, err
	}
	return &BatchJob{
		Name:         out.Name,
		State:        out.Metadata.State,
		ResultFile:   out.Metadata.Dest.FileName,
		ErrorMessage: out.Error.Message,
	}, nil
}

func (c *Client) invoke(ctx context.Context, method, endpoint string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	q := req.URL.Query()
	q.Set("key", c.apiKey)
	req.URL.RawQuery = q.Encode()
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("invoke gemini: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.decodeError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode gemini response: %w", err)
	}
	return nil
}

func (c *Client) decodeError(resp *http.Response) error {
	var apiErr errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, apiErr.Error.Message)
	}
	data, _ := io.ReadAll(resp.Body)
	if len(data) > 0 {
		return fmt.Errorf("gemini status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return fmt.Errorf("gemini status %d", resp.StatusCode)
}
