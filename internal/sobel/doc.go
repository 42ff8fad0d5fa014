// Package sobel computes Sobel edge-magnitude images from 8-bit grayscale planes.
//
// The central type is Combiner. It acquires two scratch gradient planes, asks a
// Gradient primitive to fill them with the absolute horizontal and vertical
// derivatives of the source, and combines the pair into a clipped magnitude:
//
//	pixel = min(255, trunc(sqrt(fx*fx + fy*fy)))
//
// # Scratch Planes
//
// Each gradient plane holds one 16-bit sample per source pixel and uses a row
// stride of 2*width bytes, so the planes can be walked linearly in row-major
// order. Planes are borrowed from an Allocator for the duration of a single call
// and are always returned to it before the call completes, including when the
// second acquisition fails.
//
// # Gradient Primitives
//
// Gradient is the injectable collaborator that produces derivative planes.
// Scalar is a straightforward 3x3 Sobel with replicated borders. Banded splits the
// same work into row bands that run concurrently and produces identical output.
// Tests can substitute a synthetic Gradient to pin exact plane values.
//
// # Classic Kernels
//
// Filter applies one of the fixed 3x3 kernel pairs (Sobel, Scharr, Laplacian,
// Sharpen) directly to the interior of an *image.Gray using exact integer square
// roots. It does not use scratch planes.
//
// # Thread Safety
//
// A Combiner holds no per-call state and may be shared between goroutines as long
// as each call uses its own source and destination buffers. PoolAllocator is safe
// for concurrent use.
package sobel
