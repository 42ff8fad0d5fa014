package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
)

// ITU-R BT.601 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// maxBlurRadius bounds the Gaussian pre-blur; larger radii only wash out edges.
const maxBlurRadius = 50.0

// ToGray converts img to an 8-bit grayscale image with its origin at (0, 0).
//
// *image.Gray inputs that already start at the origin are returned unchanged.
// Everything else is reduced to BT.601 luminance.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}

	bounds := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	if bounds.Empty() {
		return gray
	}

	luma := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	for y := 0; y < bounds.Dy(); y++ {
		src := luma.Pix[y*luma.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			dst[x] = src[x*4]
		}
	}
	return gray
}

// PrepareOptions controls how a source image is turned into the grayscale plane
// handed to an edge operator. The zero value converts the full image unchanged.
type PrepareOptions struct {
	// Region restricts processing to a sub-rectangle of the source.
	Region *Region

	// Scale resizes the (cropped) image before filtering. 0 or 1 keeps the size.
	Scale float64

	// BlurRadius applies a Gaussian blur of this radius before grayscale
	// conversion to suppress noise edges. 0 disables it.
	BlurRadius float64
}

// Prepare applies opts to img and returns the grayscale plane to filter.
//
// Steps run in order: crop to Region, resize by Scale (Lanczos), Gaussian blur,
// grayscale conversion.
func Prepare(img image.Image, opts PrepareOptions) (*image.Gray, error) {
	if opts.BlurRadius < 0 || opts.BlurRadius > maxBlurRadius {
		return nil, fmt.Errorf("invalid blur radius %g: must be in [0, %g]", opts.BlurRadius, maxBlurRadius)
	}

	out, err := cropAndScale(img, opts.Region, opts.Scale)
	if err != nil {
		return nil, err
	}

	if opts.BlurRadius > 0 {
		out = blur.Gaussian(out, opts.BlurRadius)
	}
	return ToGray(out), nil
}
