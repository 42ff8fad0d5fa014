package server

import (
	"strings"

	"github.com/ironsheep/sobel-mcp/internal/imaging"
	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format, whether it is already grayscale, and the scratch memory an edge-magnitude run on it needs.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
			}, "path"),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: objectSchema(map[string]interface{}{
				"path": pathProperty(),
			}, "path"),
		},

		// Edge Operations
		{
			Name:        "image_edge_magnitude",
			Description: "Compute the Sobel edge magnitude of an image (same size as the input, borders replicated) and return it as base64-encoded PNG with edge statistics.",
			InputSchema: objectSchema(edgeProperties(nil), "path"),
		},
		{
			Name:        "image_edge_filter",
			Description: "Apply a classic 3x3 kernel (sobel, scharr, laplacian, sharpen) to the interior pixels of an image. The result is two pixels smaller in each dimension and is returned as base64-encoded PNG with edge statistics.",
			InputSchema: objectSchema(edgeProperties(map[string]interface{}{
				"kernel": map[string]interface{}{
					"type":        "string",
					"enum":        sobel.KernelNames(),
					"description": "Kernel to apply",
				},
			}), "path", "kernel"),
		},
		{
			Name:        "image_edge_stats",
			Description: "Report edge statistics (mean, max, edge pixel count and ratio, histogram) without returning the image.",
			InputSchema: objectSchema(edgeProperties(map[string]interface{}{
				"operator": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.OperatorNames(),
					"description": "Edge operator. Defaults to the server's configured kernel",
				},
			}), "path"),
		},
		{
			Name:        "image_edge_lines",
			Description: "Find straight edge segments with a Hough transform over the edge image. Returns endpoints, length, angle in degrees (0 = horizontal, 90 = vertical), approximate thickness and vote count, strongest first.",
			InputSchema: objectSchema(edgeProperties(map[string]interface{}{
				"operator": map[string]interface{}{
					"type":        "string",
					"enum":        imaging.OperatorNames(),
					"description": "Edge operator. Defaults to the server's configured kernel",
				},
				"min_length": map[string]interface{}{
					"type":        "integer",
					"description": "Minimum segment length in pixels. Default 20",
					"default":     defaultMinLineLength,
					"minimum":     1,
				},
				"max_lines": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of segments to return. Default 50",
					"default":     defaultMaxLines,
					"minimum":     1,
				},
			}), "path"),
		},
	}
}

func objectSchema(props map[string]interface{}, required ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the image file",
	}
}

// edgeProperties returns the options shared by every edge tool, plus extra.
func edgeProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"path": pathProperty(),
		"region": map[string]interface{}{
			"type":        "object",
			"description": "Optional region to process; (x1,y1) inclusive, (x2,y2) exclusive",
			"properties": map[string]interface{}{
				"x1": map[string]interface{}{"type": "integer"},
				"y1": map[string]interface{}{"type": "integer"},
				"x2": map[string]interface{}{"type": "integer"},
				"y2": map[string]interface{}{"type": "integer"},
			},
			"required": []string{"x1", "y1", "x2", "y2"},
		},
		"scale": map[string]interface{}{
			"type":        "number",
			"description": "Optional scale factor applied before filtering, at most 8. Default 1.0",
			"default":     1.0,
		},
		"blur": map[string]interface{}{
			"type":        "number",
			"description": "Gaussian pre-blur radius in pixels (0-50). 0 disables it",
		},
		"palette": map[string]interface{}{
			"type":        "string",
			"description": "Colour the result: \"FROM:TO\" hex pair (e.g. \"#000000:#ff8800\") or a preset (" + strings.Join(imaging.PaletteNames(), ", ") + ")",
		},
		"threshold": map[string]interface{}{
			"type":        "integer",
			"description": "Magnitude (0-255) at or above which a pixel counts as an edge in the statistics",
			"minimum":     0,
			"maximum":     255,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}
