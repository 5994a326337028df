package handlers_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keshavdadhichb/bono-catalog-be/internal/assembler"
	"github.com/keshavdadhichb/bono-catalog-be/internal/batch"
	"github.com/keshavdadhichb/bono-catalog-be/internal/gateway"
	"github.com/keshavdadhichb/bono-catalog-be/internal/http/handlers"
	"github.com/keshavdadhichb/bono-catalog-be/internal/http/httpapi"
	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
	"github.com/keshavdadhichb/bono-catalog-be/internal/registry"
	"github.com/keshavdadhichb/bono-catalog-be/internal/storage"
)

type stubGenerator struct{ output []byte }

func (s *stubGenerator) Generate(context.Context, gateway.Request) ([]byte, error) {
	return s.output, nil
}

type stubGenAI struct{}

func (stubGenAI) UploadFile(context.Context, string, string, []byte) (string, error) {
	return "files/upload-1", nil
}
func (stubGenAI) CreateBatch(context.Context, string, string, string) (string, error) {
	return "batches/remote-1", nil
}
func (stubGenAI) GetBatch(context.Context, string) (*genai.BatchJob, error) {
	return &genai.BatchJob{State: "JOB_STATE_RUNNING"}, nil
}
func (stubGenAI) DownloadFile(context.Context, string) ([]byte, error) {
	return nil, nil
}

func jsonDecode(r io.Reader, v any) error {
	return json.NewDecoder(r).Decode(v)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))))
	return buf.Bytes()
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	gen := &stubGenerator{output: pngBytes(t, 90, 160)}
	reg := registry.New(registry.Options{Logger: zerolog.Nop()})

	asm, err := assembler.New(assembler.Options{
		Generator: gen,
		Registry:  reg,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)

	jobs, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	results, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)
	orchestrator, err := batch.New(batch.Options{
		Client:  stubGenAI{},
		Jobs:    jobs,
		Results: results,
		Model:   "batch-model",
		Logger:  zerolog.Nop(),
	})
	require.NoError(t, err)

	app := &handlers.App{
		Logger:    zerolog.Nop(),
		Assembler: asm,
		Registry:  reg,
		Batch:     orchestrator,
		Generator: gen,
	}
	srv := httptest.NewServer(httpapi.NewRouter(app, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

type upload struct {
	field string
	name  string
	data  []byte
}

func multipartBody(t *testing.T, fields map[string]string, uploads []upload) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	for _, u := range uploads {
		fw, err := mw.CreateFormFile(u.field, u.name)
		require.NoError(t, err)
		_, err = fw.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func postMultipart(t *testing.T, url string, fields map[string]string, uploads []upload) *http.Response {
	t.Helper()
	body, contentType := multipartBody(t, fields, uploads)
	resp, err := http.Post(url, contentType, body)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGenerateCatalogHappyPath(t *testing.T) {
	srv := newTestServer(t)
	garment := pngBytes(t, 120, 160)

	resp := postMultipart(t, srv.URL+"/api/generate-catalog",
		map[string]string{
			"category":        "teen_boy",
			"collection_name": "Street Drop 01",
			"theme":           "urban_street",
		},
		[]upload{
			{"front_images", "f1.png", garment},
			{"back_images", "b1.png", garment},
		})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/zip", resp.Header.Get("Content-Type"))
	jobID := resp.Header.Get("X-Job-ID")
	assert.NotEmpty(t, jobID)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	// 1 product: cover, collage, fabric, thank-you, plus the PDF.
	assert.Contains(t, names, "00_cover.png")
	assert.Contains(t, names, "99_thankyou.png")
	assert.Contains(t, names, "catalog.pdf")

	// The job is pollable afterwards.
	jobResp, err := http.Get(srv.URL + "/api/jobs/" + jobID)
	require.NoError(t, err)
	defer jobResp.Body.Close()
	assert.Equal(t, http.StatusOK, jobResp.StatusCode)
}

func TestGenerateCatalogValidation(t *testing.T) {
	srv := newTestServer(t)
	garment := pngBytes(t, 120, 160)

	cases := []struct {
		name    string
		fields  map[string]string
		uploads []upload
	}{
		{
			name:   "unknown category",
			fields: map[string]string{"category": "aliens", "collection_name": "X"},
			uploads: []upload{
				{"front_images", "f.png", garment},
				{"back_images", "b.png", garment},
			},
		},
		{
			name:   "missing collection name",
			fields: map[string]string{"category": "men"},
			uploads: []upload{
				{"front_images", "f.png", garment},
				{"back_images", "b.png", garment},
			},
		},
		{
			name:   "mismatched image counts",
			fields: map[string]string{"category": "men", "collection_name": "X"},
			uploads: []upload{
				{"front_images", "f1.png", garment},
				{"front_images", "f2.png", garment},
				{"back_images", "b1.png", garment},
			},
		},
		{
			name:   "bad quality tier",
			fields: map[string]string{"category": "men", "collection_name": "X", "image_quality": "16K"},
			uploads: []upload{
				{"front_images", "f.png", garment},
				{"back_images", "b.png", garment},
			},
		},
		{
			name:    "no products",
			fields:  map[string]string{"category": "men", "collection_name": "X"},
			uploads: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postMultipart(t, srv.URL+"/api/generate-catalog", tc.fields, tc.uploads)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestGeneratePhotoMode(t *testing.T) {
	srv := newTestServer(t)
	garment := pngBytes(t, 120, 160)

	resp := postMultipart(t, srv.URL+"/api/generate",
		map[string]string{"mode": "photo", "category": "men"},
		[]upload{
			{"front_images", "f1.png", garment},
			{"back_images", "b1.png", garment},
		})

	require.Equal(t, http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)
	assert.Equal(t, "photo_1_front.png", zr.File[0].Name)
	assert.Equal(t, "photo_1_back.png", zr.File[1].Name)
}

func TestGenerateRequiresMatchingBackImages(t *testing.T) {
	srv := newTestServer(t)
	garment := pngBytes(t, 120, 160)

	resp := postMultipart(t, srv.URL+"/api/generate",
		map[string]string{"mode": "photo", "category": "men"},
		[]upload{{"front_images", "f1.png", garment}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGenerateRejectsBadMode(t *testing.T) {
	srv := newTestServer(t)
	resp := postMultipart(t, srv.URL+"/api/generate",
		map[string]string{"mode": "sculpture", "category": "men"},
		[]upload{{"front_images", "f1.png", pngBytes(t, 120, 160)}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBatchSubmitAndStatus(t *testing.T) {
	srv := newTestServer(t)
	garment := pngBytes(t, 120, 160)

	resp := postMultipart(t, srv.URL+"/api/batch/submit-catalog",
		map[string]string{"category": "women", "collection_name": "Summer"},
		[]upload{
			{"front_images", "f1.png", garment},
			{"back_images", "b1.png", garment},
		})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)

	var submitted struct {
		JobID         string `json:"job_id"`
		Status        string `json:"status"`
		EstimatedTime string `json:"estimated_time"`
	}
	require.NoError(t, jsonDecode(resp.Body, &submitted))
	require.NotEmpty(t, submitted.JobID)
	assert.Equal(t, "pending", submitted.Status)
	assert.NotEmpty(t, submitted.EstimatedTime)

	statusResp, err := http.Get(srv.URL + "/api/batch/status/" + submitted.JobID)
	require.NoError(t, err)
	defer statusResp.Body.Close()
	assert.Equal(t, http.StatusOK, statusResp.StatusCode)

	// Still running, so the download is refused.
	resultsResp, err := http.Get(srv.URL + "/api/batch/download/" + submitted.JobID)
	require.NoError(t, err)
	defer resultsResp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resultsResp.StatusCode)
}

func TestBatchStatusUnknownJob(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/batch/status/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJobsNotFound(t *testing.T) {
	srv := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/jobs/nope")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestConfigEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/api/layouts", "/api/presets"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}
