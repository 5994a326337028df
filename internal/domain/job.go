package domain

import "time"

// JobStatus enumerates the reduced lifecycle states exposed to clients.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Stage tracks where a catalog job currently is in its pipeline. Failed is
// terminal and reachable from every other stage.
type Stage string

const (
	StagePending            Stage = "pending"
	StagePreprocessing      Stage = "preprocessing"
	StageGeneratingCover    Stage = "generating_cover"
	StageGeneratingPages    Stage = "generating_pages"
	StageGeneratingThankYou Stage = "generating_thankyou"
	StageUpscaling          Stage = "upscaling"
	StagePackaging          Stage = "packaging"
	StageCompleted          Stage = "completed"
	StageFailed             Stage = "failed"
)

// Job is the registry record for an interactive catalog run. Progress counters
// let polling clients render "page N of M" while generation is in flight.
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Stage       Stage      `json:"stage"`
	PagesDone   int        `json:"pages_done"`
	PagesTotal  int        `json:"pages_total"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	Outputs     []string   `json:"outputs,omitempty"`
}
