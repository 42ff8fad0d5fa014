package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestToGray_Luma(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want uint8
	}{
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"red", color.RGBA{255, 0, 0, 255}, 76},
		{"green", color.RGBA{0, 255, 0, 255}, 150},
		{"blue", color.RGBA{0, 0, 255, 255}, 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray := ToGray(createInMemoryImage(4, 3, tt.c))
			if gray.Bounds() != image.Rect(0, 0, 4, 3) {
				t.Fatalf("bounds: got %v, want (0,0)-(4,3)", gray.Bounds())
			}
			for i, v := range gray.Pix {
				if v != tt.want {
					t.Fatalf("pixel %d: got %d, want %d", i, v, tt.want)
				}
			}
		})
	}
}

func TestToGray_GrayPassthrough(t *testing.T) {
	src := createHalfImage(8, 8, 4)
	if got := ToGray(src); got != src {
		t.Error("ToGray should return an origin-anchored *image.Gray unchanged")
	}
}

func TestToGray_OffsetOrigin(t *testing.T) {
	src := createPatternImage(20, 20).SubImage(image.Rect(10, 10, 20, 20))

	gray := ToGray(src)
	if gray.Bounds() != image.Rect(0, 0, 10, 10) {
		t.Fatalf("bounds: got %v, want (0,0)-(10,10)", gray.Bounds())
	}
	// Bottom-right quadrant of the pattern is white.
	if v := gray.GrayAt(5, 5).Y; v != 255 {
		t.Errorf("pixel (5,5): got %d, want 255", v)
	}
}

func TestToGray_Empty(t *testing.T) {
	gray := ToGray(image.NewRGBA(image.Rect(0, 0, 0, 0)))
	if !gray.Bounds().Empty() {
		t.Errorf("bounds: got %v, want empty", gray.Bounds())
	}
}

func TestPrepare(t *testing.T) {
	img := createPatternImage(100, 100)

	tests := []struct {
		name         string
		opts         PrepareOptions
		wantW, wantH int
	}{
		{"zero options", PrepareOptions{}, 100, 100},
		{"region", PrepareOptions{Region: &Region{0, 0, 50, 25}}, 50, 25},
		{"scale", PrepareOptions{Scale: 0.5}, 50, 50},
		{"blur", PrepareOptions{BlurRadius: 2}, 100, 100},
		{"all", PrepareOptions{Region: &Region{50, 50, 100, 100}, Scale: 0.2, BlurRadius: 1}, 10, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gray, err := Prepare(img, tt.opts)
			if err != nil {
				t.Fatalf("Prepare failed: %v", err)
			}
			if gray.Bounds() != image.Rect(0, 0, tt.wantW, tt.wantH) {
				t.Errorf("bounds: got %v, want %dx%d at origin", gray.Bounds(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestPrepare_BlurSoftensEdge(t *testing.T) {
	img := createHalfImage(40, 10, 20)

	sharp, err := Prepare(img, PrepareOptions{})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	blurred, err := Prepare(img, PrepareOptions{BlurRadius: 3})
	if err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}

	if sharp.GrayAt(19, 5).Y != 0 {
		t.Errorf("sharp pixel left of edge: got %d, want 0", sharp.GrayAt(19, 5).Y)
	}
	if v := blurred.GrayAt(19, 5).Y; v == 0 || v == 255 {
		t.Errorf("blurred pixel left of edge: got %d, want an intermediate value", v)
	}
}

func TestPrepare_Errors(t *testing.T) {
	img := createPatternImage(10, 10)

	tests := []struct {
		name string
		opts PrepareOptions
	}{
		{"negative blur", PrepareOptions{BlurRadius: -1}},
		{"blur too large", PrepareOptions{BlurRadius: maxBlurRadius + 1}},
		{"negative scale", PrepareOptions{Scale: -0.5}},
		{"scale too large", PrepareOptions{Scale: 400}},
		{"bad region", PrepareOptions{Region: &Region{0, 0, 11, 5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Prepare(img, tt.opts); err == nil {
				t.Error("Prepare should fail")
			}
		})
	}
}
