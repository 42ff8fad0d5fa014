package server

import (
	"testing"

	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

func toolByName(t *testing.T, name string) Tool {
	t.Helper()
	for _, tool := range GetToolDefinitions() {
		if tool.Name == name {
			return tool
		}
	}
	t.Fatalf("tool %s not found", name)
	return Tool{}
}

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	expectedTools := []string{
		"image_load",
		"image_dimensions",
		"image_edge_magnitude",
		"image_edge_filter",
		"image_edge_stats",
		"image_edge_lines",
	}

	if len(tools) != len(expectedTools) {
		t.Errorf("tool count: got %d, want %d", len(tools), len(expectedTools))
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("duplicate tool %s", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}

			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || len(props) == 0 {
				t.Fatal("InputSchema properties missing")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			hasPath := false
			for _, r := range required {
				if _, declared := props[r]; !declared {
					t.Errorf("required parameter %q is not declared", r)
				}
				if r == "path" {
					hasPath = true
				}
			}
			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_EdgeOptions(t *testing.T) {
	for _, name := range []string{"image_edge_magnitude", "image_edge_filter", "image_edge_stats"} {
		t.Run(name, func(t *testing.T) {
			props := toolByName(t, name).InputSchema["properties"].(map[string]interface{})
			for _, opt := range []string{"region", "scale", "blur", "palette", "threshold"} {
				if _, ok := props[opt]; !ok {
					t.Errorf("missing option %q", opt)
				}
			}
		})
	}
}

func TestToolDefinitions_FilterKernelEnum(t *testing.T) {
	tool := toolByName(t, "image_edge_filter")

	required := tool.InputSchema["required"].([]string)
	found := false
	for _, r := range required {
		if r == "kernel" {
			found = true
		}
	}
	if !found {
		t.Error("image_edge_filter should require 'kernel'")
	}

	props := tool.InputSchema["properties"].(map[string]interface{})
	kernelProp, ok := props["kernel"].(map[string]interface{})
	if !ok {
		t.Fatal("kernel property should exist and be a map")
	}
	enum, ok := kernelProp["enum"].([]string)
	if !ok {
		t.Fatal("kernel should have enum")
	}

	want := sobel.KernelNames()
	if len(enum) != len(want) {
		t.Fatalf("kernel enum: got %v, want %v", enum, want)
	}
	for i := range want {
		if enum[i] != want[i] {
			t.Errorf("kernel enum[%d]: got %q, want %q", i, enum[i], want[i])
		}
	}
}
