package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/keshavdadhichb/bono-catalog-be/internal/assembler"
	"github.com/keshavdadhichb/bono-catalog-be/internal/batch"
	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/infra"
	"github.com/keshavdadhichb/bono-catalog-be/internal/registry"
)

// maxUploadBytes bounds a whole multipart request. Twenty 4K garment photos
// fit comfortably under this.
const maxUploadBytes = 512 << 20

// App carries the wired services into the HTTP handlers.
type App struct {
	Logger    infra.Logger
	Assembler *assembler.Assembler
	Registry  *registry.Registry
	Batch     *batch.Orchestrator
	Generator assembler.Generator
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]string{"error": code, "message": message})
}

// sendZip streams a finished archive as a download.
func (a *App) sendZip(w http.ResponseWriter, filename string, data []byte) {
	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// parseCatalogForm reads the shared multipart fields for catalog-shaped
// endpoints. Front and back uploads pair up by position.
func parseCatalogForm(r *http.Request, minProducts, maxProducts int) (domain.CatalogRequest, error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return domain.CatalogRequest{}, fmt.Errorf("invalid multipart payload: %w", err)
	}

	category := domain.Category(r.FormValue("category"))
	if !category.Valid() {
		return domain.CatalogRequest{}, fmt.Errorf("unknown category %q", r.FormValue("category"))
	}
	collectionName := strings.TrimSpace(r.FormValue("collection_name"))
	if collectionName == "" {
		return domain.CatalogRequest{}, fmt.Errorf("collection_name is required")
	}

	quality := domain.QualityTier(formValueDefault(r, "image_quality", string(domain.Tier2K)))
	if !quality.Valid() {
		return domain.CatalogRequest{}, fmt.Errorf("unknown image_quality %q", quality)
	}

	fronts := r.MultipartForm.File["front_images"]
	backs := r.MultipartForm.File["back_images"]
	if len(fronts) != len(backs) {
		return domain.CatalogRequest{}, fmt.Errorf("front and back image counts must match (%d vs %d)", len(fronts), len(backs))
	}
	if len(fronts) < minProducts || len(fronts) > maxProducts {
		return domain.CatalogRequest{}, fmt.Errorf("provide %d-%d products, got %d", minProducts, maxProducts, len(fronts))
	}

	products := make([]domain.Product, len(fronts))
	for i := range fronts {
		front, err := readUpload(fronts[i])
		if err != nil {
			return domain.CatalogRequest{}, fmt.Errorf("read front image %d: %w", i+1, err)
		}
		back, err := readUpload(backs[i])
		if err != nil {
			return domain.CatalogRequest{}, fmt.Errorf("read back image %d: %w", i+1, err)
		}
		products[i] = domain.Product{Front: front, Back: back}
	}

	var logo []byte
	if files := r.MultipartForm.File["logo"]; len(files) > 0 {
		data, err := readUpload(files[0])
		if err != nil {
			return domain.CatalogRequest{}, fmt.Errorf("read logo: %w", err)
		}
		logo = data
	}

	return domain.CatalogRequest{
		Category:         category,
		CollectionName:   collectionName,
		CollectionNumber: r.FormValue("collection_number"),
		Theme:            formValueDefault(r, "theme", "studio_minimal"),
		SkinTone:         formValueDefault(r, "skin_tone", "fair"),
		BodyType:         r.FormValue("body_type"),
		Quality:          quality,
		Texts: domain.TextContent{
			Tagline:      r.FormValue("text_tagline"),
			Season:       r.FormValue("text_season"),
			Year:         r.FormValue("text_year"),
			PriceRange:   r.FormValue("text_price_range"),
			Fabric:       r.FormValue("text_fabric"),
			BrandMessage: r.FormValue("text_brand_message"),
			Custom1:      r.FormValue("text_custom_1"),
			Custom2:      r.FormValue("text_custom_2"),
			Custom3:      r.FormValue("text_custom_3"),
			Custom4:      r.FormValue("text_custom_4"),
		},
		Products: products,
		Logo:     logo,
	}, nil
}

func formValueDefault(r *http.Request, key, fallback string) string {
	if v := strings.TrimSpace(r.FormValue(key)); v != "" {
		return v
	}
	return fallback
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
