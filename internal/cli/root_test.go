package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/sobel-mcp/internal/config"
	"github.com/ironsheep/sobel-mcp/internal/sobel"
)

func TestSetVersion(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer func() {
		version, commit, date = origVersion, origCommit, origDate
	}()

	SetVersion("v1.2.3", "abc123", "2025-01-01")

	if version != "v1.2.3" {
		t.Errorf("version = %q, want %q", version, "v1.2.3")
	}
	if commit != "abc123" {
		t.Errorf("commit = %q, want %q", commit, "abc123")
	}
	if date != "2025-01-01" {
		t.Errorf("date = %q, want %q", date, "2025-01-01")
	}
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"mcp", "detect", "serve", "version"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"verbose", "config"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

// runRoot executes the command tree with args and returns stdout and stderr.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestVersionCommand(t *testing.T) {
	origVersion := version
	defer func() { version = origVersion }()
	version = "v9.9.9"

	out, _, err := runRoot(t, "", "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "sobel-mcp v9.9.9") {
		t.Errorf("version output = %q", out)
	}
}

func TestMCPCommand(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n"

	out, _, err := runRoot(t, in, "mcp")
	if err != nil {
		t.Fatalf("mcp failed: %v", err)
	}
	if !strings.Contains(out, "image_edge_magnitude") {
		t.Errorf("tools/list response missing image_edge_magnitude: %s", out)
	}
}

func TestRootDefaultsToMCP(t *testing.T) {
	in := `{"jsonrpc":"2.0","id":7,"method":"ping"}` + "\n"

	out, _, err := runRoot(t, in)
	if err != nil {
		t.Fatalf("root failed: %v", err)
	}
	if !strings.Contains(out, `"id":7`) {
		t.Errorf("ping response missing id: %s", out)
	}
}

func TestConfigFlagErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[edge]\nbogus = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
	}{
		{"missing file", []string{"--config", filepath.Join(dir, "missing.toml"), "version"}},
		{"unknown key", []string{"--config", bad, "version"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runRoot(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestConfigFromContextDefault(t *testing.T) {
	got := configFromContext(context.Background())
	if got != config.Default() {
		t.Errorf("configFromContext without config = %+v, want defaults", got)
	}
}

func TestNewCombinerGradient(t *testing.T) {
	logger := loggerFromContext(context.Background())
	src := []byte{
		0, 0, 255, 255,
		0, 0, 255, 255,
		0, 0, 255, 255,
	}

	for _, workers := range []int{1, 0, 4} {
		cfg := config.Default()
		cfg.Gradient.Workers = workers
		c := newCombiner(cfg, logger)

		dst := make([]byte, len(src))
		if err := c.Magnitude(src, 4, 3, dst); err != nil {
			t.Fatalf("workers=%d: Magnitude failed: %v", workers, err)
		}
		want := make([]byte, len(src))
		if err := sobel.NewCombiner().Magnitude(src, 4, 3, want); err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(dst, want) {
			t.Errorf("workers=%d: got %v, want %v", workers, dst, want)
		}
	}
}

func TestNewCombinerScratchLimit(t *testing.T) {
	cfg := config.Default()
	cfg.Scratch.MaxBytes = 8
	c := newCombiner(cfg, loggerFromContext(context.Background()))

	err := c.Magnitude(make([]byte, 64), 8, 8, make([]byte, 64))
	if err == nil {
		t.Fatal("expected allocation failure")
	}
}

// writeSplitPNG writes a w x h PNG whose left half is black and right half white.
func writeSplitPNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := w / 2; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}
