package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/imgproc"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/providers/genai"
	"github.com/keshavdadhichb/bono-catalog-be/internal/storage"
	"github.com/keshavdadhichb/bono-catalog-be/pkg/zip"
)

// GenAI is the slice of the Gemini client the orchestrator needs.
type GenAI interface {
	UploadFile(ctx context.Context, displayName, mimeType string, data []byte) (string, error)
	CreateBatch(ctx context.Context, model, srcFileName, displayName string) (string, error)
	GetBatch(ctx context.Context, name string) (*genai.BatchJob, error)
	DownloadFile(ctx context.Context, name string) ([]byte, error)
}

// Record is the durable job record. Batches commonly take hours, so records
// are written through to disk on every change and restored by listing the
// jobs directory.
type Record struct {
	ID          string           `json:"id"`
	RemoteName  string           `json:"remote_name"`
	Model       string           `json:"model"`
	Status      domain.JobStatus `json:"status"`
	State       string           `json:"state,omitempty"`
	PageKeys    []string         `json:"page_keys"`
	ResultFile  string           `json:"result_file,omitempty"`
	Error       string           `json:"error,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
}

// Options configures an Orchestrator.
type Options struct {
	Client  GenAI
	Jobs    *storage.FileStore
	Results *storage.FileStore
	Model   string
	Logger  infra.Logger
	Clock   func() time.Time
}

// Orchestrator runs catalogs through the asynchronous batch API: one uploaded
// JSONL file per job, one remote batch, results fetched as a single file once
// the remote side finishes.
type Orchestrator struct {
	client  GenAI
	jobs    *storage.FileStore
	results *storage.FileStore
	model   string
	logger  infra.Logger
	now     func() time.Time
}

// New constructs an Orchestrator.
func New(opts Options) (*Orchestrator, error) {
	if opts.Client == nil {
		return nil, errors.New("batch: genai client is required")
	}
	if opts.Jobs == nil || opts.Results == nil {
		return nil, errors.New("batch: job and result stores are required")
	}
	if opts.Model == "" {
		return nil, errors.New("batch: model is required")
	}
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		client:  opts.Client,
		jobs:    opts.Jobs,
		results: opts.Results,
		model:   opts.Model,
		logger:  opts.Logger,
		now:     now,
	}, nil
}

// MapState reduces the remote job state to the client-facing status. Every
// terminal failure variant collapses to failed.
func MapState(state string) domain.JobStatus {
	switch state {
	case "JOB_STATE_PENDING":
		return domain.JobStatusPending
	case "JOB_STATE_RUNNING":
		return domain.JobStatusRunning
	case "JOB_STATE_SUCCEEDED":
		return domain.JobStatusSucceeded
	case "JOB_STATE_FAILED", "JOB_STATE_CANCELLED", "JOB_STATE_EXPIRED":
		return domain.JobStatusFailed
	default:
		return domain.JobStatusRunning
	}
}

// Submit preprocesses the garments, renders every page request into a JSONL
// file, uploads it and creates the remote batch. The returned record is
// already persisted.
func (o *Orchestrator) Submit(ctx context.Context, req domain.CatalogRequest) (*Record, error) {
	prepared := make([]domain.Product, len(req.Products))
	for i, product := range req.Products {
		front, err := imgproc.PrepareGarment(product.Front)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d front: %v", domain.ErrValidation, i+1, err)
		}
		back, err := imgproc.PrepareGarment(product.Back)
		if err != nil {
			return nil, fmt.Errorf("%w: product %d back: %v", domain.ErrValidation, i+1, err)
		}
		prepared[i] = domain.Product{Front: front, Back: back}
	}

	var logo []byte
	if len(req.Logo) > 0 {
		logo = imgproc.PrepareLogo(req.Logo)
	}

	lines, keys, err := buildRequestLines(req, prepared, logo)
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	fileName, err := o.client.UploadFile(ctx, "batch-"+id+".jsonl", "application/jsonl", lines)
	if err != nil {
		return nil, fmt.Errorf("upload batch requests: %w", err)
	}
	remoteName, err := o.client.CreateBatch(ctx, o.model, fileName, "catalog-"+id)
	if err != nil {
		return nil, fmt.Errorf("create batch: %w", err)
	}

	record := &Record{
		ID:         id,
		RemoteName: remoteName,
		Model:      o.model,
		Status:     domain.JobStatusPending,
		PageKeys:   keys,
		CreatedAt:  o.now().UTC(),
	}
	if err := o.saveRecord(ctx, record); err != nil {
		return nil, err
	}
	o.logger.Info().Str("job_id", id).Str("batch", remoteName).Int("pages", len(keys)).Msg("batch submitted")
	return record, nil
}

// CheckStatus polls the remote batch and updates the stored record. Terminal
// records are returned without touching the API again.
func (o *Orchestrator) CheckStatus(ctx context.Context, id string) (*Record, error) {
	record, err := o.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == domain.JobStatusSucceeded || record.Status == domain.JobStatusFailed {
		return record, nil
	}

	remote, err := o.client.GetBatch(ctx, record.RemoteName)
	if err != nil {
		return nil, fmt.Errorf("poll batch: %w", err)
	}
	record.State = remote.State
	record.Status = MapState(remote.State)
	record.ResultFile = remote.ResultFile
	if remote.ErrorMessage != "" {
		record.Error = remote.ErrorMessage
	}
	if record.Status == domain.JobStatusSucceeded || record.Status == domain.JobStatusFailed {
		now := o.now().UTC()
		record.CompletedAt = &now
	}
	if err := o.saveRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// FetchResults downloads the result file of a finished batch, extracts every
// page image and returns them zipped in key order. Individual failed records
// are skipped; only a batch with zero usable pages is an error.
func (o *Orchestrator) FetchResults(ctx context.Context, id string) ([]byte, error) {
	record, err := o.CheckStatus(ctx, id)
	if err != nil {
		return nil, err
	}
	switch record.Status {
	case domain.JobStatusSucceeded:
	case domain.JobStatusFailed:
		return nil, fmt.Errorf("batch failed: %s", record.Error)
	default:
		return nil, domain.ErrNotReady
	}
	if record.ResultFile == "" {
		return nil, fmt.Errorf("batch succeeded but produced no result file")
	}

	raw, err := o.client.DownloadFile(ctx, record.ResultFile)
	if err != nil {
		return nil, fmt.Errorf("download batch results: %w", err)
	}

	images := parseResultLines(raw, o.logger)
	if len(images) == 0 {
		return nil, fmt.Errorf("batch results contained no images")
	}

	pages := make([]zip.Page, 0, len(record.PageKeys))
	for _, key := range record.PageKeys {
		data, ok := images[key]
		if !ok {
			o.logger.Warn().Str("job_id", id).Str("key", key).Msg("batch result missing page")
			continue
		}
		filename := key + ".png"
		if _, err := o.results.Write(ctx, id+"/"+filename, data); err != nil {
			o.logger.Warn().Err(err).Str("key", key).Msg("result page write failed")
		}
		pages = append(pages, zip.Page{Filename: filename, Data: data})
	}
	return zip.Archive(pages)
}

// List returns every known record, newest first.
func (o *Orchestrator) List(ctx context.Context) ([]*Record, error) {
	keys, err := o.jobs.List("", ".json")
	if err != nil {
		return nil, err
	}
	records := make([]*Record, 0, len(keys))
	for _, key := range keys {
		data, err := o.jobs.Read(ctx, key)
		if err != nil {
			continue
		}
		var record Record
		if err := json.Unmarshal(data, &record); err != nil {
			continue
		}
		records = append(records, &record)
	}
	sort.Slice(records, func(i, j int) bool { return records[i].CreatedAt.After(records[j].CreatedAt) })
	return records, nil
}

func (o *Orchestrator) saveRecord(ctx context.Context, record *Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal batch record: %w", err)
	}
	if _, err := o.jobs.Write(ctx, record.ID+".json", data); err != nil {
		return fmt.Errorf("persist batch record: %w", err)
	}
	return nil
}

func (o *Orchestrator) loadRecord(ctx context.Context, id string) (*Record, error) {
	data, err := o.jobs.Read(ctx, id+".json")
	if err != nil {
		return nil, domain.ErrNotFound
	}
	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("corrupt batch record %s: %w", id, err)
	}
	return &record, nil
}
