package sobel

import (
	"testing"
)

func TestScalar_KnownResponse(t *testing.T) {
	// Single bright pixel at (2,2) in a 5x5 image
	src := make([]byte, 25)
	src[2*5+2] = 100

	dx := make([]uint16, 25)
	dy := make([]uint16, 25)
	Scalar{}.DxAbs(src, 5, 5, 5, dx, 10)
	Scalar{}.DyAbs(src, 5, 5, 5, dy, 10)

	wantDx := []uint16{
		0, 0, 0, 0, 0,
		0, 100, 0, 100, 0,
		0, 200, 0, 200, 0,
		0, 100, 0, 100, 0,
		0, 0, 0, 0, 0,
	}
	wantDy := []uint16{
		0, 0, 0, 0, 0,
		0, 100, 200, 100, 0,
		0, 0, 0, 0, 0,
		0, 100, 200, 100, 0,
		0, 0, 0, 0, 0,
	}
	for i := range wantDx {
		if dx[i] != wantDx[i] {
			t.Errorf("dx[%d,%d]: got %d, want %d", i%5, i/5, dx[i], wantDx[i])
		}
		if dy[i] != wantDy[i] {
			t.Errorf("dy[%d,%d]: got %d, want %d", i%5, i/5, dy[i], wantDy[i])
		}
	}
}

func TestScalar_MaxResponse(t *testing.T) {
	src := []byte{
		0, 255, 255,
		0, 255, 255,
		0, 255, 255,
	}
	dx := make([]uint16, 9)
	Scalar{}.DxAbs(src, 3, 3, 3, dx, 6)

	// Centre column sees 0 on the left and 255 on the right
	for y := 0; y < 3; y++ {
		if got := dx[y*3+1]; got != 1020 {
			t.Errorf("dx[1,%d]: got %d, want 1020", y, got)
		}
	}
}

func TestScalar_RespectsStrides(t *testing.T) {
	width, height := 4, 3
	packed := gradientImage(width, height)

	// Same image with 3 bytes of padding per row
	srcStride := width + 3
	padded := make([]byte, srcStride*height)
	for y := 0; y < height; y++ {
		copy(padded[y*srcStride:], packed[y*width:(y+1)*width])
		for p := width; p < srcStride; p++ {
			padded[y*srcStride+p] = 0xEE
		}
	}

	want := make([]uint16, width*height)
	Scalar{}.DxAbs(packed, width, width, height, want, 2*width)

	// Destination rows of 6 samples (12 bytes)
	got := make([]uint16, 6*height)
	Scalar{}.DxAbs(padded, srcStride, width, height, got, 12)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if got[y*6+x] != want[y*width+x] {
				t.Errorf("(%d,%d): got %d, want %d", x, y, got[y*6+x], want[y*width+x])
			}
		}
	}
}

func TestBanded_MatchesScalar(t *testing.T) {
	sizes := []struct {
		width, height int
	}{
		{1, 1},
		{3, 2},
		{17, 15},
		{64, 100},
		{33, 257},
	}
	workers := []int{0, 1, 3, 8}

	for _, sz := range sizes {
		src := gradientImage(sz.width, sz.height)
		n := sz.width * sz.height
		wantX := make([]uint16, n)
		wantY := make([]uint16, n)
		Scalar{}.DxAbs(src, sz.width, sz.width, sz.height, wantX, 2*sz.width)
		Scalar{}.DyAbs(src, sz.width, sz.width, sz.height, wantY, 2*sz.width)

		for _, w := range workers {
			gotX := make([]uint16, n)
			gotY := make([]uint16, n)
			b := Banded{Workers: w}
			b.DxAbs(src, sz.width, sz.width, sz.height, gotX, 2*sz.width)
			b.DyAbs(src, sz.width, sz.width, sz.height, gotY, 2*sz.width)

			for i := 0; i < n; i++ {
				if gotX[i] != wantX[i] || gotY[i] != wantY[i] {
					t.Fatalf("%dx%d workers=%d sample %d: got (%d,%d), want (%d,%d)",
						sz.width, sz.height, w, i, gotX[i], gotY[i], wantX[i], wantY[i])
				}
			}
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, want int
	}{
		{5, 0, 10, 5},
		{-1, 0, 10, 0},
		{15, 0, 10, 10},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		if got := clamp(tt.val, tt.lo, tt.hi); got != tt.want {
			t.Errorf("clamp(%d, %d, %d): got %d, want %d", tt.val, tt.lo, tt.hi, got, tt.want)
		}
	}
}
