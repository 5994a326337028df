package handlers

import (
	"net/http"

	"github.com/keshavdadhichb/bono-catalog-be/internal/prompt"
)

// Layouts dumps the poster layout catalog for frontend pickers.
func (a *App) Layouts(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"layouts": prompt.LayoutConfigs})
}

// Presets dumps the named style presets.
func (a *App) Presets(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]any{"presets": prompt.StylePresets})
}
