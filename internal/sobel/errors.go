package sobel

import "errors"

var (
	// ErrAllocation is returned when a scratch gradient plane cannot be acquired.
	ErrAllocation = errors.New("scratch allocation failed")

	// ErrInvalidDimensions is returned for non-positive or overflowing image sizes.
	ErrInvalidDimensions = errors.New("invalid image dimensions")

	// ErrShortBuffer is returned when a source or destination buffer holds fewer
	// than width*height samples.
	ErrShortBuffer = errors.New("buffer too small for image")
)
