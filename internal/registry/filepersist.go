package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/storage"
)

// FilePersister snapshots each job as a JSON document in a FileStore. Batch
// jobs can run for hours, so their records must outlive the process.
type FilePersister struct {
	files *storage.FileStore
}

// NewFilePersister builds a FilePersister over the given store.
func NewFilePersister(files *storage.FileStore) *FilePersister {
	return &FilePersister{files: files}
}

// Save writes the job record as <id>.json.
func (p *FilePersister) Save(job domain.Job) error {
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal job record: %w", err)
	}
	if _, err := p.files.Write(context.Background(), job.ID+".json", data); err != nil {
		return fmt.Errorf("write job record: %w", err)
	}
	return nil
}

// LoadAll reads every job record in the store root. Unparseable records are
// skipped rather than failing the whole restore.
func (p *FilePersister) LoadAll() ([]domain.Job, error) {
	keys, err := p.files.List("", ".json")
	if err != nil {
		return nil, fmt.Errorf("list job records: %w", err)
	}
	var jobs []domain.Job
	for _, key := range keys {
		data, err := p.files.Read(context.Background(), key)
		if err != nil {
			continue
		}
		var job domain.Job
		if err := json.Unmarshal(data, &job); err != nil {
			continue
		}
		if strings.TrimSpace(job.ID) == "" {
			continue
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
