package sobel

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"

	"github.com/charmbracelet/log"
)

// Combiner turns a grayscale image into a clipped Sobel edge-magnitude image.
//
// A Combiner is configured once with a Gradient and an Allocator and can then be
// used concurrently. The zero value is not usable; construct with NewCombiner.
type Combiner struct {
	gradient Gradient
	alloc    Allocator
	logger   *log.Logger
}

// Option configures a Combiner.
type Option func(*Combiner)

// WithGradient sets the gradient primitive. The default is Scalar.
func WithGradient(g Gradient) Option {
	return func(c *Combiner) {
		if g != nil {
			c.gradient = g
		}
	}
}

// WithAllocator sets the scratch plane allocator. The default is an unlimited
// PoolAllocator.
func WithAllocator(a Allocator) Option {
	return func(c *Combiner) {
		if a != nil {
			c.alloc = a
		}
	}
}

// WithLogger sets the logger used for debug output. By default nothing is logged.
func WithLogger(l *log.Logger) Option {
	return func(c *Combiner) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCombiner creates a Combiner with the given options applied over the defaults.
func NewCombiner(opts ...Option) *Combiner {
	c := &Combiner{
		gradient: Scalar{},
		alloc:    NewPoolAllocator(0),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Magnitude computes the edge magnitude of a tightly packed grayscale image.
//
// Parameters:
//   - src: width*height 8-bit samples, row-major, stride == width.
//   - width, height: image dimensions in pixels. Both must be positive.
//   - dst: destination of at least width*height bytes, tightly packed.
//
// Returns:
//   - error: nil on success, in which case the first width*height bytes of dst hold
//     the result. ErrInvalidDimensions, ErrShortBuffer or ErrAllocation otherwise;
//     dst is not modified on failure.
//
// # Algorithm
//
//  1. Acquire two gradient planes of width*height 16-bit samples each, with a row
//     stride of 2*width bytes. If the second acquisition fails the first plane is
//     released before returning.
//  2. Fill the X plane with |d/dx| and the Y plane with |d/dy|.
//  3. For every linear sample i, dst[i] = Combine(X[i], Y[i]).
//  4. Release both planes.
func (c *Combiner) Magnitude(src []byte, width, height int, dst []byte) error {
	if width <= 0 || height <= 0 || width > math.MaxInt/height {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	n := width * height
	if len(src) < n {
		return fmt.Errorf("%w: source has %d samples, need %d", ErrShortBuffer, len(src), n)
	}
	if len(dst) < n {
		return fmt.Errorf("%w: destination has %d bytes, need %d", ErrShortBuffer, len(dst), n)
	}

	planeStride := 2 * width
	gx, gy, release, err := c.acquirePair(n)
	if err != nil {
		c.logger.Debug("scratch acquisition failed", "width", width, "height", height, "err", err)
		return err
	}
	defer release()

	c.gradient.DxAbs(src, width, width, height, gx, planeStride)
	c.gradient.DyAbs(src, width, width, height, gy, planeStride)

	combinePlanes(gx[:n], gy[:n], dst[:n])

	c.logger.Debug("edge magnitude computed", "width", width, "height", height, "plane_stride", planeStride)
	return nil
}

// MagnitudeGray computes the edge magnitude of img and returns it as a new image
// with the same bounds. Images whose stride exceeds their width are packed first.
func (c *Combiner) MagnitudeGray(img *image.Gray) (*image.Gray, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}

	src := packGray(img)
	out := image.NewGray(bounds)
	if err := c.Magnitude(src, width, height, out.Pix); err != nil {
		return nil, err
	}
	return out, nil
}

// acquirePair borrows both gradient planes. On success the returned release
// function hands both back; on failure nothing remains borrowed.
func (c *Combiner) acquirePair(samples int) (gx, gy []uint16, release func(), err error) {
	gx, err = c.alloc.Acquire(samples)
	if err != nil {
		return nil, nil, nil, allocationError(err)
	}
	gy, err = c.alloc.Acquire(samples)
	if err != nil {
		c.alloc.Release(gx)
		return nil, nil, nil, allocationError(err)
	}
	return gx, gy, func() {
		c.alloc.Release(gx)
		c.alloc.Release(gy)
	}, nil
}

func allocationError(err error) error {
	if errors.Is(err, ErrAllocation) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrAllocation, err)
}

func combinePlanes(gx, gy []uint16, dst []byte) {
	for i := range dst {
		dst[i] = Combine(uint32(gx[i]), uint32(gy[i]))
	}
}

// Combine returns the clipped Euclidean magnitude of a gradient pair:
// 255 when sqrt(fx²+fy²) > 255, otherwise the square root truncated toward zero.
// The sum of squares is formed in 64 bits so any pair of 16-bit plane samples is exact.
func Combine(fx, fy uint32) uint8 {
	sum := uint64(fx)*uint64(fx) + uint64(fy)*uint64(fy)
	m := math.Sqrt(float64(sum))
	if m > 255.0 {
		return 255
	}
	return uint8(m)
}

// packGray returns the pixels of img as a tightly packed row-major slice. When
// img is already packed its Pix slice is returned without copying.
func packGray(img *image.Gray) []byte {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if img.Stride == width && len(img.Pix) >= width*height {
		return img.Pix[:width*height]
	}

	packed := make([]byte, width*height)
	for y := 0; y < height; y++ {
		start := img.PixOffset(bounds.Min.X, bounds.Min.Y+y)
		copy(packed[y*width:(y+1)*width], img.Pix[start:start+width])
	}
	return packed
}
