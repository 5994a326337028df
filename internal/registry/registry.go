package registry

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
)

// Persister snapshots job records so long-running jobs survive a restart.
// Saves are best effort; the in-memory registry is authoritative while the
// process lives.
type Persister interface {
	Save(job domain.Job) error
	LoadAll() ([]domain.Job, error)
}

// Options configures a Registry. Clock is injectable for tests.
type Options struct {
	Clock     func() time.Time
	Persister Persister
	Logger    infra.Logger
}

// Registry tracks generation jobs by id for polling clients.
type Registry struct {
	mu      sync.RWMutex
	jobs    map[string]domain.Job
	now     func() time.Time
	persist Persister
	logger  infra.Logger
}

// New builds a Registry, restoring any persisted jobs.
func New(opts Options) *Registry {
	now := opts.Clock
	if now == nil {
		now = time.Now
	}
	r := &Registry{
		jobs:    make(map[string]domain.Job),
		now:     now,
		persist: opts.Persister,
		logger:  opts.Logger,
	}
	if r.persist != nil {
		restored, err := r.persist.LoadAll()
		if err != nil {
			r.logger.Warn().Err(err).Msg("job restore failed")
		}
		for _, job := range restored {
			r.jobs[job.ID] = job
		}
	}
	return r
}

// Create registers a new pending job and returns it.
func (r *Registry) Create(pagesTotal int) domain.Job {
	job := domain.Job{
		ID:         uuid.NewString(),
		Status:     domain.JobStatusPending,
		Stage:      domain.StagePending,
		PagesTotal: pagesTotal,
		CreatedAt:  r.now().UTC(),
	}
	r.mu.Lock()
	r.jobs[job.ID] = job
	r.mu.Unlock()
	r.save(job)
	return job
}

// Get returns the job for id, or domain.ErrNotFound.
func (r *Registry) Get(id string) (domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	job, ok := r.jobs[id]
	if !ok {
		return domain.Job{}, domain.ErrNotFound
	}
	return job, nil
}

// List returns all known jobs, newest first.
func (r *Registry) List() []domain.Job {
	r.mu.RLock()
	jobs := make([]domain.Job, 0, len(r.jobs))
	for _, job := range r.jobs {
		jobs = append(jobs, job)
	}
	r.mu.RUnlock()
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].CreatedAt.After(jobs[j].CreatedAt) })
	return jobs
}

// Update applies fn to the job under the registry lock and returns the updated
// record. Unknown ids return domain.ErrNotFound.
func (r *Registry) Update(id string, fn func(*domain.Job)) (domain.Job, error) {
	r.mu.Lock()
	job, ok := r.jobs[id]
	if !ok {
		r.mu.Unlock()
		return domain.Job{}, domain.ErrNotFound
	}
	fn(&job)
	r.jobs[id] = job
	r.mu.Unlock()
	r.save(job)
	return job, nil
}

// SetStage moves the job to the given stage and marks it running.
func (r *Registry) SetStage(id string, stage domain.Stage) {
	if _, err := r.Update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusRunning
		job.Stage = stage
	}); err != nil {
		r.logger.Warn().Err(err).Str("job_id", id).Msg("stage update for unknown job")
	}
}

// SetPagesTotal records how many pages the job will produce, so progress can
// be read as "page N of M".
func (r *Registry) SetPagesTotal(id string, total int) {
	_, _ = r.Update(id, func(job *domain.Job) {
		job.PagesTotal = total
	})
}

// PageDone increments the progress counter and records the produced filename.
func (r *Registry) PageDone(id, filename string) {
	_, _ = r.Update(id, func(job *domain.Job) {
		job.PagesDone++
		job.Outputs = append(job.Outputs, filename)
	})
}

// Complete marks the job finished.
func (r *Registry) Complete(id string) {
	now := r.now().UTC()
	_, _ = r.Update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusSucceeded
		job.Stage = domain.StageCompleted
		job.CompletedAt = &now
	})
}

// Fail marks the job failed at its current stage with the given reason.
func (r *Registry) Fail(id string, reason string) {
	now := r.now().UTC()
	_, _ = r.Update(id, func(job *domain.Job) {
		job.Status = domain.JobStatusFailed
		job.Stage = domain.StageFailed
		job.Error = reason
		job.CompletedAt = &now
	})
}

func (r *Registry) save(job domain.Job) {
	if r.persist == nil {
		return
	}
	if err := r.persist.Save(job); err != nil {
		r.logger.Warn().Err(err).Str("job_id", job.ID).Msg("job snapshot failed")
	}
}
