package sobel

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// Kernel is a pair of 3x3 convolution kernels applied to the same neighbourhood.
// The two responses are combined as sqrt(x² + y²). Kernels are stored row-major.
type Kernel struct {
	Name string
	X    [9]int
	Y    [9]int
}

var (
	// SobelKernel is the classic Sobel operator.
	SobelKernel = Kernel{
		Name: "sobel",
		X:    [9]int{-1, 0, 1, -2, 0, 2, -1, 0, 1},
		Y:    [9]int{-1, -2, -1, 0, 0, 0, 1, 2, 1},
	}

	// ScharrKernel weights the centre row and column more heavily than Sobel,
	// giving better rotational symmetry.
	ScharrKernel = Kernel{
		Name: "scharr",
		X:    [9]int{-3, 0, 3, -10, 0, 10, -3, 0, 3},
		Y:    [9]int{3, 10, 3, 0, 0, 0, -3, -10, -3},
	}

	// LaplacianKernel uses the 8-neighbour Laplacian for both responses.
	LaplacianKernel = Kernel{
		Name: "laplacian",
		X:    [9]int{1, 1, 1, 1, -8, 1, 1, 1, 1},
		Y:    [9]int{1, 1, 1, 1, -8, 1, 1, 1, 1},
	}

	// SharpenKernel uses the 4-neighbour sharpening kernel for both responses.
	SharpenKernel = Kernel{
		Name: "sharpen",
		X:    [9]int{0, -1, 0, -1, 5, -1, 0, -1, 0},
		Y:    [9]int{0, -1, 0, -1, 5, -1, 0, -1, 0},
	}
)

var kernels = map[string]Kernel{
	SobelKernel.Name:     SobelKernel,
	ScharrKernel.Name:    ScharrKernel,
	LaplacianKernel.Name: LaplacianKernel,
	SharpenKernel.Name:   SharpenKernel,
}

// ParseKernel looks up a kernel by name (case-insensitive).
func ParseKernel(name string) (Kernel, error) {
	k, ok := kernels[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Kernel{}, fmt.Errorf("unknown kernel %q (want one of %s)", name, strings.Join(KernelNames(), ", "))
	}
	return k, nil
}

// KernelNames returns the registered kernel names in sorted order.
func KernelNames() []string {
	names := make([]string, 0, len(kernels))
	for name := range kernels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Filter applies k to every interior pixel of img.
//
// The result is two pixels narrower and two pixels shorter than img, with its
// origin at (0, 0): output pixel (x, y) is centred on input pixel
// (Min.X+x+1, Min.Y+y+1). Images smaller than 3x3 produce an empty image.
// Each output value is floor(sqrt(x² + y²)) clipped to 255, where x and y are
// the absolute kernel responses.
func Filter(img *image.Gray, k Kernel) *image.Gray {
	bounds := img.Bounds()
	width, height := bounds.Dx()-2, bounds.Dy()-2
	if width <= 0 || height <= 0 {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}

	out := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			fx, fy := respond(img, k, bounds.Min.X+x, bounds.Min.Y+y)
			v := FloorSqrt(fx*fx + fy*fy)
			if v > 255 {
				v = 255
			}
			out.Pix[y*out.Stride+x] = uint8(v)
		}
	}
	return out
}

// respond returns the absolute X and Y responses of k over the 3x3 window whose
// top-left corner is (x0, y0).
func respond(img *image.Gray, k Kernel, x0, y0 int) (uint32, uint32) {
	var sx, sy int
	for ky := 0; ky < 3; ky++ {
		row := img.PixOffset(x0, y0+ky)
		for kx := 0; kx < 3; kx++ {
			p := int(img.Pix[row+kx])
			sx += k.X[ky*3+kx] * p
			sy += k.Y[ky*3+kx] * p
		}
	}
	return abs32(sx), abs32(sy)
}

func abs32(v int) uint32 {
	if v < 0 {
		return uint32(-v)
	}
	return uint32(v)
}
