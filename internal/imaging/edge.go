package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

// MagnitudeOperatorName selects the scratch-plane Sobel magnitude combiner.
const MagnitudeOperatorName = "magnitude"

// Operator computes an edge image from a grayscale plane.
type Operator interface {
	// Name identifies the operator in results and logs.
	Name() string

	// Apply returns the edge image for gray.
	Apply(gray *image.Gray) (*image.Gray, error)
}

// MagnitudeOperator runs a sobel.Combiner. The output has the input's size.
type MagnitudeOperator struct {
	Combiner *sobel.Combiner
}

// Name implements Operator.
func (MagnitudeOperator) Name() string { return MagnitudeOperatorName }

// Apply implements Operator.
func (o MagnitudeOperator) Apply(gray *image.Gray) (*image.Gray, error) {
	return o.Combiner.MagnitudeGray(gray)
}

// KernelOperator runs one of the classic 3x3 kernels. The output is two pixels
// smaller than the input in each dimension.
type KernelOperator struct {
	Kernel sobel.Kernel
}

// Name implements Operator.
func (o KernelOperator) Name() string { return o.Kernel.Name }

// Apply implements Operator.
func (o KernelOperator) Apply(gray *image.Gray) (*image.Gray, error) {
	return sobel.Filter(gray, o.Kernel), nil
}

// NewOperator resolves an operator by name. An empty name or "magnitude" selects
// the combiner; any other name must be a kernel known to sobel.ParseKernel.
func NewOperator(name string, c *sobel.Combiner) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", MagnitudeOperatorName:
		if c == nil {
			return nil, fmt.Errorf("operator %q needs a combiner", MagnitudeOperatorName)
		}
		return MagnitudeOperator{Combiner: c}, nil
	}
	k, err := sobel.ParseKernel(name)
	if err != nil {
		return nil, err
	}
	return KernelOperator{Kernel: k}, nil
}

// OperatorNames lists every name NewOperator accepts.
func OperatorNames() []string {
	return append([]string{MagnitudeOperatorName}, sobel.KernelNames()...)
}

// EdgeOptions configures EdgeDetect.
type EdgeOptions struct {
	PrepareOptions

	// Palette colourises the result. Nil keeps the grayscale magnitude.
	Palette *Palette

	// Threshold is the magnitude at or above which a pixel counts as an edge in
	// the returned statistics.
	Threshold uint8
}

// EdgeResult contains an edge image encoded as base64 PNG.
type EdgeResult struct {
	// Width of the output image in pixels.
	Width int `json:"width"`

	// Height of the output image in pixels.
	Height int `json:"height"`

	// Operator is the name of the edge operator that produced the image.
	Operator string `json:"operator"`

	// Stats summarises the grayscale magnitude before any palette is applied.
	Stats EdgeStats `json:"stats"`

	// ImageBase64 is the edge image encoded as base64 PNG.
	ImageBase64 string `json:"image_base64"`

	// MimeType is always "image/png".
	MimeType string `json:"mime_type"`
}

// Edges prepares img according to opts and applies op.
func Edges(img image.Image, op Operator, opts PrepareOptions) (*image.Gray, error) {
	gray, err := Prepare(img, opts)
	if err != nil {
		return nil, err
	}
	mag, err := op.Apply(gray)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op.Name(), err)
	}
	return mag, nil
}

// Render returns mag as-is, or colourised when palette is non-nil.
func Render(mag *image.Gray, palette *Palette) image.Image {
	if palette == nil {
		return mag
	}
	return palette.Colorize(mag)
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode edge image: %w", err)
	}
	return nil
}

// EdgeDetect runs op on img and returns the result as base64 PNG with statistics.
//
// Parameters:
//   - img: Source image (color or grayscale).
//   - op: Edge operator; see NewOperator.
//   - opts: Preparation, palette and statistics options.
//
// Returns:
//   - *EdgeResult: Edge image and statistics.
//   - error: Non-nil for invalid options, operator failures (including
//     sobel.ErrAllocation) or encoding errors.
func EdgeDetect(img image.Image, op Operator, opts EdgeOptions) (*EdgeResult, error) {
	mag, err := Edges(img, op, opts.PrepareOptions)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := EncodePNG(&buf, Render(mag, opts.Palette)); err != nil {
		return nil, err
	}

	bounds := mag.Bounds()
	return &EdgeResult{
		Width:       bounds.Dx(),
		Height:      bounds.Dy(),
		Operator:    op.Name(),
		Stats:       Stats(mag, opts.Threshold),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// Save writes img to path in the format implied by the file extension.
func Save(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}
