package imgproc

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Upscale targets assume the catalog's 9:16 page format.
var upscaleTargets = map[string][2]int{
	"4K": {2160, 3840},
	"8K": {4320, 7680},
}

// Upscale enlarges an image towards the named target resolution using Lanczos
// resampling with a mild sharpen to recover edge detail. The aspect ratio is
// preserved; the result fits inside the target box.
func Upscale(data []byte, target string) ([]byte, error) {
	box, ok := upscaleTargets[target]
	if !ok {
		box = upscaleTargets["4K"]
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image for upscale: %w", err)
	}

	bounds := img.Bounds()
	targetW, targetH := box[0], box[1]
	origAspect := float64(bounds.Dx()) / float64(bounds.Dy())
	targetAspect := float64(targetW) / float64(targetH)

	var newW, newH int
	if origAspect > targetAspect {
		newW = targetW
		newH = int(float64(targetW) / origAspect)
	} else {
		newH = targetH
		newW = int(float64(targetH) * origAspect)
	}

	up := imaging.Resize(img, newW, newH, imaging.Lanczos)
	up = imaging.Sharpen(up, 0.6)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, up, imaging.PNG); err != nil {
		return nil, fmt.Errorf("encode upscaled image: %w", err)
	}
	return buf.Bytes(), nil
}

// ShouldUpscale reports whether the image height is under minHeight. Undecodable
// bytes report false; the caller will have validated them already.
func ShouldUpscale(data []byte, minHeight int) bool {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return false
	}
	return cfg.Height < minHeight
}
