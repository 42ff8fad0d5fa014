package sobel

import (
	"fmt"
	"math"
	"sync"
	"sync/atomic"
)

// Allocator hands out scratch gradient planes.
//
// Acquire returns a plane of exactly samples 16-bit elements, or an error if the
// plane cannot be provided. Every plane obtained from Acquire must be passed to
// Release exactly once. Contents of an acquired plane are unspecified.
type Allocator interface {
	Acquire(samples int) ([]uint16, error)
	Release(plane []uint16)
}

// PoolAllocator is an Allocator backed by a sync.Pool with an optional byte limit
// per plane.
//
// Released planes are kept for reuse, so repeated calls on images of similar size
// do not allocate. A request whose size in bytes exceeds the limit fails with
// ErrAllocation instead of growing the heap.
type PoolAllocator struct {
	maxBytes    int64
	pool        sync.Pool
	outstanding atomic.Int64
}

// NewPoolAllocator creates a pool allocator. maxBytes caps the size of a single
// plane; zero or a negative value means no limit.
func NewPoolAllocator(maxBytes int64) *PoolAllocator {
	if maxBytes < 0 {
		maxBytes = 0
	}
	return &PoolAllocator{maxBytes: maxBytes}
}

// Acquire returns a plane of samples elements.
func (a *PoolAllocator) Acquire(samples int) ([]uint16, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("%w: %d samples requested", ErrAllocation, samples)
	}
	if int64(samples) > math.MaxInt64/2 {
		return nil, fmt.Errorf("%w: %d samples overflows plane size", ErrAllocation, samples)
	}
	size := int64(samples) * 2
	if a.maxBytes > 0 && size > a.maxBytes {
		return nil, fmt.Errorf("%w: plane of %d bytes exceeds limit of %d bytes", ErrAllocation, size, a.maxBytes)
	}

	var plane []uint16
	if p, ok := a.pool.Get().(*[]uint16); ok && cap(*p) >= samples {
		plane = (*p)[:samples]
	} else {
		plane = make([]uint16, samples)
	}
	a.outstanding.Add(1)
	return plane, nil
}

// Release returns a plane to the pool. A nil plane is ignored.
func (a *PoolAllocator) Release(plane []uint16) {
	if plane == nil {
		return
	}
	a.outstanding.Add(-1)
	plane = plane[:0]
	a.pool.Put(&plane)
}

// Outstanding reports how many acquired planes have not yet been released.
func (a *PoolAllocator) Outstanding() int64 {
	return a.outstanding.Load()
}

// MaxBytes reports the configured per-plane limit (0 = unlimited).
func (a *PoolAllocator) MaxBytes() int64 {
	return a.maxBytes
}
