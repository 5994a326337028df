package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
)

type batchSubmitResponse struct {
	JobID         string           `json:"job_id"`
	Status        domain.JobStatus `json:"status"`
	Message       string           `json:"message"`
	EstimatedTime string           `json:"estimated_time"`
}

// BatchSubmit queues a catalog through the asynchronous batch API. The caller
// gets the job id back immediately and polls for completion.
func (a *App) BatchSubmit(w http.ResponseWriter, r *http.Request) {
	req, err := parseCatalogForm(r, 1, 10)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	record, err := a.Batch.Submit(r.Context(), req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.error(w, http.StatusBadGateway, "batch_submit_failed", err.Error())
		return
	}
	a.json(w, http.StatusAccepted, batchSubmitResponse{
		JobID:         record.ID,
		Status:        record.Status,
		Message:       fmt.Sprintf("batch job submitted, %d pages will be generated", len(record.PageKeys)),
		EstimatedTime: "1-24 hours (typically 1-2 hours)",
	})
}

// BatchStatus polls the remote job and returns the updated record.
func (a *App) BatchStatus(w http.ResponseWriter, r *http.Request) {
	record, err := a.Batch.CheckStatus(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.error(w, http.StatusNotFound, "not_found", "unknown batch job id")
			return
		}
		a.error(w, http.StatusBadGateway, "batch_poll_failed", err.Error())
		return
	}
	a.json(w, http.StatusOK, record)
}

// BatchResults downloads the finished pages as a zip.
func (a *App) BatchResults(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	archive, err := a.Batch.FetchResults(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			a.error(w, http.StatusNotFound, "not_found", "unknown batch job id")
		case errors.Is(err, domain.ErrNotReady):
			a.error(w, http.StatusBadRequest, "not_ready", "batch job has not finished yet")
		default:
			a.error(w, http.StatusBadGateway, "batch_fetch_failed", err.Error())
		}
		return
	}
	a.sendZip(w, "batch_"+id+".zip", archive)
}

// BatchJobs lists every known batch record.
func (a *App) BatchJobs(w http.ResponseWriter, r *http.Request) {
	records, err := a.Batch.List(r.Context())
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to list batch jobs")
		return
	}
	a.json(w, http.StatusOK, map[string]any{"jobs": records})
}
