package sobel

import "math"

// FloorSqrt returns floor(sqrt(x)) using a binary search over [0, min(x/2+1, 65535)].
func FloorSqrt(x uint32) uint32 {
	if x < 2 {
		return x
	}

	lo, hi := uint32(1), min(x/2+1, math.MaxUint16)
	var ans uint32
	for lo <= hi {
		mid := lo + (hi-lo)/2
		sq := uint64(mid) * uint64(mid)
		switch {
		case sq == uint64(x):
			return mid
		case sq < uint64(x):
			ans = mid
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}
	return ans
}

// ISqrt returns floor(sqrt(n)) using Newton's iteration.
func ISqrt(n uint32) uint32 {
	if n < 2 {
		return n
	}

	x := uint64(n)
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + uint64(n)/x) / 2
	}
	return uint32(x)
}
