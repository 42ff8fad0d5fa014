package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// Region is a rectangular area of an image.
//
// Coordinates follow the standard image convention:
//   - (X1, Y1) is the top-left corner (inclusive)
//   - (X2, Y2) is the bottom-right corner (exclusive)
type Region struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2, r.Y2)
}

// Validate checks that the region is non-empty and lies inside bounds.
func (r Region) Validate(bounds image.Rectangle) error {
	if r.X1 >= r.X2 || r.Y1 >= r.Y2 {
		return fmt.Errorf("invalid region: x1 must be < x2, y1 must be < y2")
	}
	if r.X1 < bounds.Min.X || r.Y1 < bounds.Min.Y || r.X2 > bounds.Max.X || r.Y2 > bounds.Max.Y {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside image bounds (%d,%d)-(%d,%d)",
			r.X1, r.Y1, r.X2, r.Y2, bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return nil
}

// Upscaling limits. The result is decoded to NRGBA, so 1<<24 pixels is 64 MiB.
const (
	maxScale        = 8.0
	maxScaledPixels = 1 << 24
)

// cropAndScale extracts region (if any) and then resizes by scale (if not 1).
// The result always has its origin at (0, 0).
func cropAndScale(img image.Image, region *Region, scale float64) (image.Image, error) {
	out := img
	if region != nil {
		if err := region.Validate(img.Bounds()); err != nil {
			return nil, err
		}
		out = imaging.Crop(img, region.Rect())
	}

	if !(scale >= 0) {
		return nil, fmt.Errorf("invalid scale %g: must be positive", scale)
	}
	if scale > maxScale {
		return nil, fmt.Errorf("invalid scale %g: must be at most %g", scale, maxScale)
	}
	if scale != 0 && scale != 1.0 {
		fw := float64(out.Bounds().Dx()) * scale
		fh := float64(out.Bounds().Dy()) * scale
		if scale > 1 && fw*fh > maxScaledPixels {
			return nil, fmt.Errorf("scale %g enlarges %dx%d image beyond %d pixels", scale, out.Bounds().Dx(), out.Bounds().Dy(), maxScaledPixels)
		}
		w, h := int(fw), int(fh)
		if w < 1 || h < 1 {
			return nil, fmt.Errorf("scale %g reduces %dx%d image to nothing", scale, out.Bounds().Dx(), out.Bounds().Dy())
		}
		out = imaging.Resize(out, w, h, imaging.Lanczos)
	}
	return out, nil
}
