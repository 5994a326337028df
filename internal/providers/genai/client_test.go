package genai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(Options{
		APIKey:            "test-key",
		BaseURL:           srv.URL,
		UploadURL:         srv.URL + "/upload",
		RequestsPerMinute: 6000,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(Options{})
	assert.Error(t, err)
}

func TestGenerateContent(t *testing.T) {
	var gotPath, gotKey string
	var gotReq GenerateContentRequest
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		_ = json.NewEncoder(w).Encode(GenerateContentResponse{Candidates: []Candidate{{
			Content: Content{Parts: []Part{{Text: "ok"}}},
		}}})
	}))

	resp, err := client.GenerateContent(context.Background(), "image-model", GenerateContentRequest{
		Contents: []Content{{Role: "user", Parts: []Part{{Text: "a jacket"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, "/models/image-model:generateContent", gotPath)
	assert.Equal(t, "test-key", gotKey)
	assert.Equal(t, "a jacket", gotReq.Contents[0].Parts[0].Text)
	require.Len(t, resp.Candidates, 1)
}

func TestGenerateContentDecodesErrorEnvelope(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted"}}`))
	}))

	_, err := client.GenerateContent(context.Background(), "image-model", GenerateContentRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exhausted")
}

func TestUploadFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/upload/files", r.URL.Path)
		assert.Equal(t, "raw", r.Header.Get("X-Goog-Upload-Protocol"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("jsonl bytes"), body)
		_, _ = w.Write([]byte(`{"file":{"name":"files/abc123","uri":"https://x/files/abc123"}}`))
	}))

	name, err := client.UploadFile(context.Background(), "requests.jsonl", "application/jsonl", []byte("jsonl bytes"))
	require.NoError(t, err)
	assert.Equal(t, "files/abc123", name)
}

func TestCreateAndGetBatch(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/models/batch-model:batchGenerateContent":
			_, _ = w.Write([]byte(`{"name":"batches/b-1"}`))
		case "/batches/b-1":
			_, _ = w.Write([]byte(`{"name":"batches/b-1","metadata":{"state":"JOB_STATE_SUCCEEDED","dest":{"fileName":"files/out-1"}}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))

	name, err := client.CreateBatch(context.Background(), "batch-model", "files/in-1", "my batch")
	require.NoError(t, err)
	assert.Equal(t, "batches/b-1", name)

	job, err := client.GetBatch(context.Background(), name)
	require.NoError(t, err)
	assert.Equal(t, "JOB_STATE_SUCCEEDED", job.State)
	assert.Equal(t, "files/out-1", job.ResultFile)
}

func TestDownloadFile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/files/out-1:download", r.URL.Path)
		assert.Equal(t, "media", r.URL.Query().Get("alt"))
		_, _ = w.Write([]byte("raw result bytes"))
	}))

	data, err := client.DownloadFile(context.Background(), "files/out-1")
	require.NoError(t, err)
	assert.Equal(t, []byte("raw result bytes"), data)
}
