// Package imaging prepares images for edge detection and packages the results.
//
// This package sits between the transport layers (MCP server, HTTP service, CLI)
// and the sobel package. It loads and caches source images, converts them to
// 8-bit luminance, applies optional cropping, scaling and Gaussian pre-blur, runs
// an edge operator, and returns results as base64-encoded PNG.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - For regions, (x1,y1) is inclusive (top-left), (x2,y2) is exclusive (bottom-right)
//
// # Grayscale Conversion
//
// Color images are reduced to luminance with the ITU-R BT.601 weights
// (0.299*R + 0.587*G + 0.114*B). Images that are already *image.Gray are used
// as-is.
//
// # Edge Operators
//
// MagnitudeOperator runs the scratch-plane combiner from the sobel package and
// keeps the input size. KernelOperator runs one of the classic 3x3 kernels and
// returns an image two pixels smaller in each dimension.
//
// # Line Detection
//
// DetectLines runs a Hough transform over the pixels of an edge image at or
// above a threshold and returns the strongest straight segments. Angles are
// reported in degrees from the positive X axis, in (-90, 90].
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and can be called concurrently on different images.
package imaging
