package imaging

import (
	"image"
	"image/color"
	"testing"
)

func TestStats(t *testing.T) {
	mag := image.NewGray(image.Rect(0, 0, 4, 2))
	copy(mag.Pix, []uint8{0, 31, 32, 100, 200, 255, 255, 7})

	tests := []struct {
		name      string
		threshold uint8
		wantEdges int
	}{
		{"zero threshold counts everything", 0, 8},
		{"inclusive threshold", 200, 3},
		{"above max", 255, 2},
		{"mid", 32, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Stats(mag, tt.threshold)
			if s.Threshold != tt.threshold {
				t.Errorf("threshold: got %d, want %d", s.Threshold, tt.threshold)
			}
			if s.EdgePixels != tt.wantEdges {
				t.Errorf("edge pixels: got %d, want %d", s.EdgePixels, tt.wantEdges)
			}
			if want := float64(tt.wantEdges) / 8; s.EdgeRatio != want {
				t.Errorf("edge ratio: got %v, want %v", s.EdgeRatio, want)
			}
		})
	}

	s := Stats(mag, 0)
	if s.Max != 255 {
		t.Errorf("max: got %d, want 255", s.Max)
	}
	if want := 880.0 / 8; s.Mean != want {
		t.Errorf("mean: got %v, want %v", s.Mean, want)
	}
	wantHist := [8]int{3, 1, 0, 1, 0, 0, 1, 2}
	if s.Histogram != wantHist {
		t.Errorf("histogram: got %v, want %v", s.Histogram, wantHist)
	}
}

func TestStats_SubImage(t *testing.T) {
	full := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range full.Pix {
		full.Pix[i] = 255
	}
	full.SetGray(0, 0, color.Gray{Y: 0})
	full.SetGray(2, 2, color.Gray{Y: 10})
	sub := full.SubImage(image.Rect(2, 2, 4, 4)).(*image.Gray)

	s := Stats(sub, 100)
	if s.EdgePixels != 3 {
		t.Errorf("edge pixels: got %d, want 3", s.EdgePixels)
	}
	if s.Max != 255 {
		t.Errorf("max: got %d, want 255", s.Max)
	}
	if s.Histogram[0] != 1 {
		t.Errorf("histogram[0]: got %d, want 1", s.Histogram[0])
	}
}

func TestStats_Empty(t *testing.T) {
	s := Stats(image.NewGray(image.Rect(0, 0, 0, 0)), 50)
	if s.EdgePixels != 0 || s.EdgeRatio != 0 || s.Mean != 0 {
		t.Errorf("empty stats: got %+v, want zero values", s)
	}
	if s.Threshold != 50 {
		t.Errorf("threshold: got %d, want 50", s.Threshold)
	}
}
