// Package httpapi serves edge detection over HTTP.
//
// # Routes
//
//	GET  /healthz        liveness probe, always "ok"
//	GET  /v1/operators   operator and palette names as JSON
//	POST /v1/edges       image body in, PNG edge image out
//	POST /v1/lines       image body in, straight edge segments out as JSON
//
// POST /v1/edges accepts any image format the imaging package decodes (PNG, JPEG,
// GIF, TIFF, BMP) and these query parameters, all optional:
//
//	kernel     magnitude (default), sobel, scharr, laplacian, sharpen
//	blur       Gaussian pre-blur radius in pixels
//	palette    FROM:TO hex pair or preset name
//	scale      resize factor applied before filtering
//	region     x1,y1,x2,y2 sub-rectangle to process
//
// Omitted parameters take the configured edge defaults. POST /v1/lines takes the
// same parameters except palette, plus threshold (default from the configuration),
// min_length (default 20) and max_lines (default 50).
//
// # Responses
//
// Successful responses are image/png. Every response carries X-Request-ID (echoed
// from the request or freshly generated) and edge responses carry X-Cache (hit or
// miss). Errors are JSON objects {"error": "...", "request_id": "..."} with:
//
//	400  undecodable image or invalid parameter
//	413  body larger than the configured limit
//	507  gradient scratch planes could not be allocated
package httpapi
