package sobel

import (
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minBandRows keeps bands large enough that goroutine overhead stays small.
const minBandRows = 16

// Banded is a Gradient that splits the image into horizontal bands and computes
// them concurrently. Its output is identical to Scalar.
//
// Workers bounds the number of bands in flight; zero uses GOMAXPROCS.
type Banded struct {
	Workers int
}

// DxAbs implements Gradient.
func (b Banded) DxAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int) {
	b.run(height, func(y0, y1 int) {
		dxRows(src, srcStride, width, height, dst, dstStride, y0, y1)
	})
}

// DyAbs implements Gradient.
func (b Banded) DyAbs(src []byte, srcStride, width, height int, dst []uint16, dstStride int) {
	b.run(height, func(y0, y1 int) {
		dyRows(src, srcStride, width, height, dst, dstStride, y0, y1)
	})
}

func (b Banded) run(height int, rows func(y0, y1 int)) {
	workers := b.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	bandRows := (height + workers - 1) / workers
	if bandRows < minBandRows {
		bandRows = minBandRows
	}
	if bandRows >= height {
		rows(0, height)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for y0 := 0; y0 < height; y0 += bandRows {
		y0 := y0
		y1 := min(y0+bandRows, height)
		g.Go(func() error {
			rows(y0, y1)
			return nil
		})
	}
	_ = g.Wait()
}
