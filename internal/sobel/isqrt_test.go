package sobel

import (
	"math"
	"testing"
)

func TestFloorSqrt(t *testing.T) {
	tests := []struct {
		in, want uint32
	}{
		{0, 0},
		{1, 1},
		{2, 1},
		{3, 1},
		{4, 2},
		{15, 3},
		{16, 4},
		{65025, 255},
		{65024, 254},
		{4356789, 2087},
		{math.MaxUint32, 65535},
	}
	for _, tt := range tests {
		if got := FloorSqrt(tt.in); got != tt.want {
			t.Errorf("FloorSqrt(%d): got %d, want %d", tt.in, got, tt.want)
		}
		if got := ISqrt(tt.in); got != tt.want {
			t.Errorf("ISqrt(%d): got %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFloorSqrt_MatchesMath(t *testing.T) {
	for n := uint32(0); n < 300000; n += 37 {
		want := uint32(math.Sqrt(float64(n)))
		if got := FloorSqrt(n); got != want {
			t.Fatalf("FloorSqrt(%d): got %d, want %d", n, got, want)
		}
		if got := ISqrt(n); got != want {
			t.Fatalf("ISqrt(%d): got %d, want %d", n, got, want)
		}
	}
}

func BenchmarkFloorSqrt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		FloorSqrt(4356789)
	}
}

func BenchmarkISqrt(b *testing.B) {
	for i := 0; i < b.N; i++ {
		ISqrt(4356789)
	}
}
