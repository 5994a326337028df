package imgproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	// Garment photos arrive as phone exports in a handful of formats; webp
	// registration keeps image.Decode able to read all of them.
	_ "golang.org/x/image/webp"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

const (
	// MaxDimension is the largest accepted upload edge in pixels.
	MaxDimension = 4096
	// MinDimension rejects thumbnails that carry too little garment detail.
	MinDimension = 100
	// apiMaxEdge is the largest edge submitted to the generation API.
	apiMaxEdge = 2048
	// logoMaxEdge bounds prepared logo images.
	logoMaxEdge = 512
)

// PrepareGarment validates an uploaded garment image and normalizes it for
// submission: decoded, bounded to apiMaxEdge on the longest side, re-encoded
// as PNG. Invalid uploads fail the whole request, so errors carry the reason.
func PrepareGarment(data []byte) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode garment image: %w", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() < MinDimension || bounds.Dy() < MinDimension {
		return nil, fmt.Errorf("garment image too small (%dx%d, minimum %dpx per side)", bounds.Dx(), bounds.Dy(), MinDimension)
	}
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		return nil, fmt.Errorf("garment image too large (%dx%d, maximum %dpx per side, format %s)", bounds.Dx(), bounds.Dy(), MaxDimension, format)
	}

	if bounds.Dx() > apiMaxEdge || bounds.Dy() > apiMaxEdge {
		img = imaging.Fit(img, apiMaxEdge, apiMaxEdge, imaging.Lanczos)
	}
	return encodePNG(img)
}

// PrepareLogo normalizes a brand logo to at most logoMaxEdge per side. Logo
// handling is lenient: anything that cannot be decoded is passed through
// untouched so a bad logo never sinks a whole catalog.
func PrepareLogo(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}
	bounds := img.Bounds()
	if bounds.Dx() > logoMaxEdge || bounds.Dy() > logoMaxEdge {
		img = imaging.Fit(img, logoMaxEdge, logoMaxEdge, imaging.Lanczos)
	}
	out, err := encodePNG(img)
	if err != nil {
		return data
	}
	return out
}

// ReencodePNG proves that data is a real image by decoding it and re-encoding
// to canonical lossless PNG. Corrupt or non-image bytes return an error.
func ReencodePNG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image bytes: %w", err)
	}
	return encodePNG(img)
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}
