// Package pdf renders the ordered page images into a print-format catalog.
package pdf

import (
	"bytes"
	"fmt"
	"image"

	"github.com/go-pdf/fpdf"
)

// Page size in points. 864x1296 is a 12x18 inch sheet, the print format the
// catalogs are produced for.
const (
	pageWidth  = 864.0
	pageHeight = 1296.0
)

// Build lays each PNG onto its own page, scaled to cover the sheet and
// centered, so slight aspect-ratio drift between generations never shows as
// white bands. Returns the finished PDF bytes.
func Build(pages [][]byte) ([]byte, error) {
	if len(pages) == 0 {
		return nil, fmt.Errorf("pdf: no pages to render")
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		UnitStr: "pt",
		Size:    fpdf.SizeType{Wd: pageWidth, Ht: pageHeight},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)

	for i, data := range pages {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("pdf: decode page %d: %w", i, err)
		}

		name := fmt.Sprintf("page-%d", i)
		doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
		if doc.Err() {
			return nil, fmt.Errorf("pdf: register page %d: %v", i, doc.Error())
		}

		x, y, w, h := coverPlacement(cfg.Width, cfg.Height)
		doc.AddPage()
		doc.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf: render: %w", err)
	}
	return buf.Bytes(), nil
}

// coverPlacement scales the image to fully cover the sheet while preserving
// aspect ratio, centering the overflow.
func coverPlacement(imgW, imgH int) (x, y, w, h float64) {
	scaleW := pageWidth / float64(imgW)
	scaleH := pageHeight / float64(imgH)
	scale := scaleW
	if scaleH > scale {
		scale = scaleH
	}
	w = float64(imgW) * scale
	h = float64(imgH) * scale
	x = (pageWidth - w) / 2
	y = (pageHeight - h) / 2
	return x, y, w, h
}
