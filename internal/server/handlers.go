package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/sobel-mcp/internal/imaging"
	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_edge_magnitude").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", "tool", params.Name, "err", err)
		message := "Tool execution failed"
		if errors.Is(err, sobel.ErrAllocation) {
			message = "Insufficient scratch memory"
		}
		return s.errorResponse(req.ID, -32000, message, err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies the server's edge defaults for omitted options
//  3. Loads images from cache
//  4. Calls the appropriate imaging function
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Edge Operations
	case "image_edge_magnitude":
		return s.handleImageEdgeMagnitude(args)
	case "image_edge_filter":
		return s.handleImageEdgeFilter(args)
	case "image_edge_stats":
		return s.handleImageEdgeStats(args)
	case "image_edge_lines":
		return s.handleImageEdgeLines(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Edge Operation Handlers ===

// edgeArgs holds the options shared by the edge tools. Pointer fields
// distinguish "omitted" from an explicit zero.
type edgeArgs struct {
	Path      string          `json:"path"`
	Region    *imaging.Region `json:"region"`
	Scale     float64         `json:"scale"`
	Blur      *float64        `json:"blur"`
	Palette   *string         `json:"palette"`
	Threshold *int            `json:"threshold"`
	Kernel    string          `json:"kernel"`
	Operator  string          `json:"operator"`
}

// options resolves a into EdgeOptions, filling omitted values from the server defaults.
func (s *Server) options(a edgeArgs) (imaging.EdgeOptions, error) {
	opts := imaging.EdgeOptions{
		PrepareOptions: imaging.PrepareOptions{
			Region:     a.Region,
			Scale:      a.Scale,
			BlurRadius: s.defaults.Blur,
		},
		Threshold: s.defaults.Threshold,
	}
	if a.Blur != nil {
		opts.BlurRadius = *a.Blur
	}
	if a.Threshold != nil {
		if *a.Threshold < 0 || *a.Threshold > 255 {
			return opts, fmt.Errorf("invalid threshold %d: must be in [0, 255]", *a.Threshold)
		}
		opts.Threshold = uint8(*a.Threshold)
	}

	paletteSpec := s.defaults.Palette
	if a.Palette != nil {
		paletteSpec = *a.Palette
	}
	palette, err := imaging.ParsePalette(paletteSpec)
	if err != nil {
		return opts, err
	}
	opts.Palette = palette
	return opts, nil
}

// runEdge loads the image and runs the named operator.
func (s *Server) runEdge(a edgeArgs, operator string) (*imaging.EdgeResult, error) {
	op, err := imaging.NewOperator(operator, s.combiner)
	if err != nil {
		return nil, err
	}
	opts, err := s.options(a)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EdgeDetect(img, op, opts)
}

func (s *Server) handleImageEdgeMagnitude(args json.RawMessage) (interface{}, error) {
	var a edgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return s.runEdge(a, imaging.MagnitudeOperatorName)
}

func (s *Server) handleImageEdgeFilter(args json.RawMessage) (interface{}, error) {
	var a edgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Kernel == "" {
		return nil, fmt.Errorf("kernel is required")
	}
	k, err := sobel.ParseKernel(a.Kernel)
	if err != nil {
		return nil, err
	}
	return s.runEdge(a, k.Name)
}

// EdgeStatsResult is returned by image_edge_stats.
type EdgeStatsResult struct {
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Operator string            `json:"operator"`
	Stats    imaging.EdgeStats `json:"stats"`
}

// edgePlane loads the image and returns the grayscale edge image for the operator
// named in a, or the configured default.
func (s *Server) edgePlane(a edgeArgs) (*image.Gray, imaging.Operator, imaging.EdgeOptions, error) {
	operator := a.Operator
	if operator == "" {
		operator = s.defaults.Kernel
	}

	op, err := imaging.NewOperator(operator, s.combiner)
	if err != nil {
		return nil, nil, imaging.EdgeOptions{}, err
	}
	opts, err := s.options(a)
	if err != nil {
		return nil, nil, opts, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, nil, opts, err
	}

	mag, err := imaging.Edges(img, op, opts.PrepareOptions)
	if err != nil {
		return nil, nil, opts, err
	}
	return mag, op, opts, nil
}

func (s *Server) handleImageEdgeStats(args json.RawMessage) (interface{}, error) {
	var a edgeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	mag, op, opts, err := s.edgePlane(a)
	if err != nil {
		return nil, err
	}
	return &EdgeStatsResult{
		Width:    mag.Bounds().Dx(),
		Height:   mag.Bounds().Dy(),
		Operator: op.Name(),
		Stats:    imaging.Stats(mag, opts.Threshold),
	}, nil
}

const (
	defaultMinLineLength = 20
	defaultMaxLines      = 50
)

type edgeLinesArgs struct {
	edgeArgs
	MinLength *int `json:"min_length"`
	MaxLines  *int `json:"max_lines"`
}

// EdgeLinesResult is returned by image_edge_lines.
type EdgeLinesResult struct {
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Operator string `json:"operator"`
	*imaging.LinesResult
}

func (s *Server) handleImageEdgeLines(args json.RawMessage) (interface{}, error) {
	var a edgeLinesArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	lineOpts := imaging.LineOptions{MinLength: defaultMinLineLength, MaxLines: defaultMaxLines}
	if a.MinLength != nil {
		lineOpts.MinLength = *a.MinLength
	}
	if a.MaxLines != nil {
		lineOpts.MaxLines = *a.MaxLines
	}

	mag, op, opts, err := s.edgePlane(a.edgeArgs)
	if err != nil {
		return nil, err
	}
	lineOpts.Threshold = opts.Threshold

	lines, err := imaging.DetectLines(mag, lineOpts)
	if err != nil {
		return nil, err
	}
	return &EdgeLinesResult{
		Width:       mag.Bounds().Dx(),
		Height:      mag.Bounds().Dy(),
		Operator:    op.Name(),
		LinesResult: lines,
	}, nil
}
