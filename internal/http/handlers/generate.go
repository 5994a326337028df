package handlers

import (
	"fmt"
	"net/http"

	"github.com/keshavdadhichb/bono-catalog-be/internal/domain"
	"github.com/keshavdadhichb/bono-catalog-be/internal/gateway"
	"github.com/keshavdadhichb/bono-catalog-be/internal/imgproc"
	"github.com/keshavdadhichb/bono-catalog-be/internal/prompt"
	"github.com/keshavdadhichb/bono-catalog-be/pkg/zip"
)

// Generate is the interactive endpoint: 1-5 garments, each rendered either as
// plain try-on photos (front and back views) or as a finished marketing
// poster. Results come back as one zip.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid multipart payload")
		return
	}

	mode := formValueDefault(r, "mode", "photo")
	if mode != "photo" && mode != "poster" {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown mode %q", mode))
		return
	}
	category := domain.Category(r.FormValue("category"))
	if !category.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown category %q", r.FormValue("category")))
		return
	}
	quality := domain.QualityTier(formValueDefault(r, "image_quality", string(domain.Tier2K)))
	if !quality.Valid() {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("unknown image_quality %q", quality))
		return
	}

	fronts := r.MultipartForm.File["front_images"]
	backs := r.MultipartForm.File["back_images"]
	if len(fronts) < 1 || len(fronts) > 5 {
		a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("provide 1-5 garments, got %d", len(fronts)))
		return
	}
	if len(backs) != len(fronts) {
		a.error(w, http.StatusBadRequest, "bad_request", "back image count must match front image count")
		return
	}

	// Style presets override individual selectors when set.
	poseType := r.FormValue("pose_type")
	shotAngle := r.FormValue("shot_angle")
	theme := r.FormValue("theme")
	layoutStyle := r.FormValue("layout_style")
	presetName := r.FormValue("style_preset")
	if preset, ok := prompt.StylePresets[presetName]; ok {
		poseType, shotAngle, theme, layoutStyle = preset.Pose, preset.Angle, preset.Theme, preset.Layout
	}

	var pages []zip.Page
	size := quality.Base()
	for i, header := range fronts {
		upload, err := readUpload(header)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("read garment %d: %v", i+1, err))
			return
		}
		front, err := imgproc.PrepareGarment(upload)
		if err != nil {
			a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("garment %d: %v", i+1, err))
			return
		}

		switch mode {
		case "poster":
			text := prompt.MarketingPoster(prompt.PosterParams{
				Category:    string(category),
				SkinTone:    formValueDefault(r, "skin_tone", "fair"),
				BodyType:    r.FormValue("body_type"),
				Theme:       theme,
				Prop:        r.FormValue("prop"),
				PoseType:    poseType,
				ShotAngle:   shotAngle,
				LayoutStyle: layoutStyle,
				StylePreset: presetName,
				Texts: map[string]string{
					"headline": r.FormValue("text_headline"),
					"subtext":  r.FormValue("text_subtext"),
					"brand":    r.FormValue("text_brand"),
					"price":    r.FormValue("text_price"),
					"cta":      r.FormValue("text_cta"),
					"tagline":  r.FormValue("text_tagline"),
				},
			})
			data, err := a.generateOne(r, text, [][]byte{front}, size, quality)
			if err != nil {
				a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
				return
			}
			pages = append(pages, zip.Page{Filename: fmt.Sprintf("poster_%d.png", i+1), Data: data})

		default:
			photo := prompt.PhotoParams{
				Category:          string(category),
				View:              "front",
				SkinTone:          formValueDefault(r, "skin_tone", "fair"),
				HairType:          r.FormValue("hair_type"),
				BodyType:          r.FormValue("body_type"),
				ShotAngle:         shotAngle,
				PoseType:          poseType,
				CreativeDirection: r.FormValue("creative_direction"),
			}
			data, err := a.generateOne(r, prompt.ModelPhoto(photo), [][]byte{front}, size, quality)
			if err != nil {
				a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
				return
			}
			pages = append(pages, zip.Page{Filename: fmt.Sprintf("photo_%d_front.png", i+1), Data: data})

			backUpload, err := readUpload(backs[i])
			if err != nil {
				a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("read back image %d: %v", i+1, err))
				return
			}
			back, err := imgproc.PrepareGarment(backUpload)
			if err != nil {
				a.error(w, http.StatusBadRequest, "bad_request", fmt.Sprintf("back image %d: %v", i+1, err))
				return
			}
			photo.View = "back"
			photo.ShotAngle = "back_view"
			data, err = a.generateOne(r, prompt.ModelPhoto(photo), [][]byte{back}, size, quality)
			if err != nil {
				a.error(w, http.StatusBadGateway, "generation_failed", err.Error())
				return
			}
			pages = append(pages, zip.Page{Filename: fmt.Sprintf("photo_%d_back.png", i+1), Data: data})
		}
	}

	archive, err := zip.Archive(pages)
	if err != nil {
		a.error(w, http.StatusInternalServerError, "internal", "failed to package results")
		return
	}
	a.sendZip(w, mode+"s.zip", archive)
}

// generateOne runs a single generation and applies the local upscale tiers.
func (a *App) generateOne(r *http.Request, text string, refs [][]byte, size string, quality domain.QualityTier) ([]byte, error) {
	data, err := a.Generator.Generate(r.Context(), gateway.Request{
		Prompt:      text,
		Images:      refs,
		AspectRatio: "9:16",
		ImageSize:   size,
	})
	if err != nil {
		return nil, err
	}
	if target := quality.UpscaleTarget(); target != "" {
		if up, err := imgproc.Upscale(data, target); err == nil {
			data = up
		} else {
			a.Logger.Warn().Err(err).Msg("upscale failed, keeping original")
		}
	}
	return data, nil
}
