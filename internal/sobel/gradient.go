package sobel

// Gradient produces absolute first-derivative planes from an 8-bit grayscale source.
//
// Both methods read width x height samples from src, where consecutive rows start
// srcStride bytes apart, and write one 16-bit sample per pixel into dst, where
// consecutive rows start dstStride bytes apart (dstStride/2 samples). Callers must
// supply in-bounds buffers; implementations do not report errors.
type Gradient interface {
	// DxAbs writes |d/dx| of the source.
	DxAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int)

	// DyAbs writes |d/dy| of the source.
	DyAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int)
}

// Scalar is a single-threaded 3x3 Sobel Gradient.
//
// Pixels outside the image are replaced by the nearest edge pixel, so every output
// sample is defined and lies in [0, 1020].
type Scalar struct{}

// DxAbs implements Gradient.
func (Scalar) DxAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int) {
	dxRows(src, srcStride, width, height, dst, dstStride, 0, height)
}

// DyAbs implements Gradient.
func (Scalar) DyAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int) {
	dyRows(src, srcStride, width, height, dst, dstStride, 0, height)
}

// dxRows computes the horizontal derivative for rows [y0, y1).
//
//	-1 0 1
//	-2 0 2
//	-1 0 1
func dxRows(src []byte, srcStride, width, height int, dst []uint16, dstStride, y0, y1 int) {
	dstRow := dstStride / 2
	for y := y0; y < y1; y++ {
		above := src[clamp(y-1, 0, height-1)*srcStride:]
		row := src[y*srcStride:]
		below := src[clamp(y+1, 0, height-1)*srcStride:]
		out := dst[y*dstRow : y*dstRow+width]

		for x := 0; x < width; x++ {
			l := clamp(x-1, 0, width-1)
			r := clamp(x+1, 0, width-1)
			right := int(above[r]) + 2*int(row[r]) + int(below[r])
			left := int(above[l]) + 2*int(row[l]) + int(below[l])
			out[x] = absDiff16(right, left)
		}
	}
}

// dyRows computes the vertical derivative for rows [y0, y1).
//
//	-1 -2 -1
//	 0  0  0
//	 1  2  1
func dyRows(src []byte, srcStride, width, height int, dst []uint16, dstStride, y0, y1 int) {
	dstRow := dstStride / 2
	for y := y0; y < y1; y++ {
		above := src[clamp(y-1, 0, height-1)*srcStride:]
		below := src[clamp(y+1, 0, height-1)*srcStride:]
		out := dst[y*dstRow : y*dstRow+width]

		for x := 0; x < width; x++ {
			l := clamp(x-1, 0, width-1)
			r := clamp(x+1, 0, width-1)
			bottom := int(below[l]) + 2*int(below[x]) + int(below[r])
			top := int(above[l]) + 2*int(above[x]) + int(above[r])
			out[x] = absDiff16(bottom, top)
		}
	}
}

func absDiff16(a, b int) uint16 {
	if a < b {
		return uint16(b - a)
	}
	return uint16(a - b)
}

// clamp constrains val to [lo, hi].
func clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
