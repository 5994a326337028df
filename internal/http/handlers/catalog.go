package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/pkg/zip"
)

// GenerateCatalog runs a full catalog synchronously and streams the archive
// back on the same request. Clients poll GET /api/jobs/{id} with the X-Job-ID
// header value to show progress while this request is still streaming.
func (a *App) GenerateCatalog(w http.ResponseWriter, r *http.Request) {
	req, err := parseCatalogForm(r, 1, 20)
	if err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	job := a.Registry.Create(0)
	w.Header().Set("X-Job-ID", job.ID)
	a.Logger.Info().
		Str("job_id", job.ID).
		Int("products", len(req.Products)).
		Str("theme", req.Theme).
		Str("quality", string(req.Quality)).
		Msg("catalog requested")

	result, err := a.Assembler.Assemble(r.Context(), job.ID, req)
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
		return
	}

	pages := make([]zip.Page, 0, len(result.Pages)+1)
	for _, page := range result.Pages {
		pages = append(pages, zip.Page{Filename: page.Filename, Data: page.Data})
	}
	if len(result.PDF) > 0 {
		pages = append(pages, zip.Page{Filename: "catalog.pdf", Data: result.PDF})
	}
	archive, err := zip.Archive(pages)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to package catalog")
		return
	}
	a.sendZip(w, "catalog_"+job.ID+".zip", archive)
}

// GetJob returns the registry record for a catalog job.
func (a *App) GetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	job, err := a.Registry.Get(id)
	if err != nil {
		a.error(w, http.StatusNotFound, "not_found", "unknown job id")
		return
	}
	a.json(w, http.StatusOK, job)
}

// ListJobs returns all registry records, newest first.
func (a *App) ListJobs(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"jobs": a.Registry.List()})
}
