package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/keshavdadhichb/bono-catalog-be/internal/http/handlers"
	"github.com/keshavdadhichb/bono-catalog-be/internal/middleware"
)

// NewRouter wires every endpoint. allowedOrigins feeds the CORS middleware.
func NewRouter(app *handlers.App, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.CORS(allowedOrigins),
		middleware.Logger(app.Logger),
	)

	r.Get("/health", app.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Post("/generate", app.Generate)
		r.Post("/generate-catalog", app.GenerateCatalog)

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", app.ListJobs)
			r.Get("/{id}", app.GetJob)
		})

		r.Route("/batch", func(r chi.Router) {
			r.Post("/submit-catalog", app.BatchSubmit)
			r.Get("/status/{id}", app.BatchStatus)
			r.Get("/download/{id}", app.BatchResults)
			r.Get("/jobs", app.BatchJobs)
		})

		r.Get("/layouts", app.Layouts)
		r.Get("/presets", app.Presets)
	})

	return r
}
