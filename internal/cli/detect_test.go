package cli

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ironsheep/sobel-mcp/internal/imaging"
)

func loadOutput(t *testing.T, path string) image.Image {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	defer f.Close()
	img, err := imaging.Decode(f)
	if err != nil {
		t.Fatalf("output not decodable: %v", err)
	}
	return img
}

func TestDetectCommand(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeSplitPNG(t, in, 20, 10)

	tests := []struct {
		name       string
		args       []string
		wantWidth  int
		wantHeight int
	}{
		{"magnitude", nil, 20, 10},
		{"sobel kernel", []string{"--kernel", "sobel"}, 18, 8},
		{"scaled", []string{"--scale", "0.5"}, 10, 5},
		{"palette", []string{"--palette", "heat"}, 20, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".png")
			args := append([]string{"detect", "-i", in, "-o", out}, tt.args...)

			_, stderr, err := runRoot(t, "", args...)
			if err != nil {
				t.Fatalf("detect failed: %v", err)
			}
			if !strings.Contains(stderr, "Detected edges") {
				t.Errorf("expected progress log, got %q", stderr)
			}

			img := loadOutput(t, out)
			if b := img.Bounds(); b.Dx() != tt.wantWidth || b.Dy() != tt.wantHeight {
				t.Errorf("output size = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantWidth, tt.wantHeight)
			}
		})
	}
}

func TestDetectMagnitudeFindsEdge(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	writeSplitPNG(t, in, 8, 4)

	if _, _, err := runRoot(t, "", "detect", "-i", in, "-o", out); err != nil {
		t.Fatalf("detect failed: %v", err)
	}

	img := loadOutput(t, out)
	gray := imaging.ToGray(img)
	if got := gray.GrayAt(0, 1).Y; got != 0 {
		t.Errorf("flat region magnitude = %d, want 0", got)
	}
	if got := gray.GrayAt(4, 1).Y; got != 255 {
		t.Errorf("edge magnitude = %d, want 255", got)
	}
}

func TestDetectErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeSplitPNG(t, in, 8, 8)
	out := filepath.Join(dir, "out.png")

	tests := []struct {
		name string
		args []string
	}{
		{"missing input flag", []string{"detect", "-o", out}},
		{"missing output flag", []string{"detect", "-i", in}},
		{"input not found", []string{"detect", "-i", filepath.Join(dir, "none.png"), "-o", out}},
		{"unknown kernel", []string{"detect", "-i", in, "-o", out, "--kernel", "canny"}},
		{"bad palette", []string{"detect", "-i", in, "-o", out, "--palette", "nope"}},
		{"bad blur", []string{"detect", "-i", in, "-o", out, "--blur", "-1"}},
		{"unsupported output", []string{"detect", "-i", in, "-o", filepath.Join(dir, "out.xyz")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := runRoot(t, "", tt.args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestDetectUsesConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	out := filepath.Join(dir, "out.png")
	cfgPath := filepath.Join(dir, "sobel.toml")
	writeSplitPNG(t, in, 12, 12)
	if err := os.WriteFile(cfgPath, []byte("[edge]\nkernel = \"scharr\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, err := runRoot(t, "", "--config", cfgPath, "detect", "-i", in, "-o", out)
	if err != nil {
		t.Fatalf("detect failed: %v", err)
	}
	if !strings.Contains(stderr, "operator=scharr") {
		t.Errorf("expected configured operator in log, got %q", stderr)
	}
	if b := loadOutput(t, out).Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("output size = %dx%d, want 10x10", b.Dx(), b.Dy())
	}
}
