// Package server implements the MCP (Model Context Protocol) server for edge detection.
//
// This package provides a JSON-RPC 2.0 server that exposes the Sobel edge-magnitude
// combiner and the classic 3x3 edge kernels through the MCP protocol, so MCP-compatible
// clients can inspect edge structure in image files.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Load image and get metadata
//   - image_dimensions: Get width and height
//
// Edge Operations:
//   - image_edge_magnitude: Sobel magnitude via the scratch-plane combiner
//   - image_edge_filter: Sobel, Scharr, Laplacian or Sharpen kernel on interior pixels
//   - image_edge_stats: Edge statistics without the image payload
//   - image_edge_lines: Straight edge segments found by a Hough transform
//
// Every edge tool accepts an optional region, scale, Gaussian pre-blur radius,
// palette and edge threshold. Omitted values fall back to the [edge] section of
// the configuration.
//
// # Image Caching
//
// The server maintains an in-memory cache of loaded images. Images are cached
// by path and reused across multiple tool calls, avoiding redundant disk I/O.
// The cache persists for the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//     (-32700 parse error, -32601 unknown method, -32602 invalid params)
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// A combiner that cannot obtain its gradient planes reports
// "Insufficient scratch memory" as the message.
//
// # Usage
//
//	srv := server.New(server.WithCombiner(sobel.NewCombiner()))
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
