package imaging

import (
	"fmt"
	"image"
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

var palettePresets = map[string]string{
	"heat":   "#000000:#ffcc00",
	"ice":    "#000000:#00e5ff",
	"invert": "#ffffff:#000000",
}

// Palette maps magnitudes 0..255 onto a blend between two colours in L*a*b*
// space, which keeps perceived brightness changing evenly along the ramp.
type Palette struct {
	from, to colorful.Color
	lut      [256][3]uint8
}

// ParsePalette parses "FROM:TO" hex colour pairs (e.g. "#000000:#ff8800") or a
// preset name (heat, ice, invert). An empty string returns a nil palette.
func ParsePalette(value string) (*Palette, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if preset, ok := palettePresets[strings.ToLower(value)]; ok {
		value = preset
	}

	from, to, ok := strings.Cut(value, ":")
	if !ok {
		return nil, fmt.Errorf("invalid palette %q: want FROM:TO or one of %s", value, strings.Join(PaletteNames(), ", "))
	}
	return NewPalette(from, to)
}

// NewPalette builds a palette from two hex colours ("#RRGGBB").
func NewPalette(fromHex, toHex string) (*Palette, error) {
	from, err := colorful.Hex(strings.TrimSpace(fromHex))
	if err != nil {
		return nil, fmt.Errorf("invalid palette colour %q: %w", fromHex, err)
	}
	to, err := colorful.Hex(strings.TrimSpace(toHex))
	if err != nil {
		return nil, fmt.Errorf("invalid palette colour %q: %w", toHex, err)
	}

	p := &Palette{from: from, to: to}
	for i := range p.lut {
		r, g, b := from.BlendLab(to, float64(i)/255).Clamped().RGB255()
		p.lut[i] = [3]uint8{r, g, b}
	}
	return p, nil
}

// String returns the palette as "FROM:TO".
func (p *Palette) String() string {
	return p.from.Hex() + ":" + p.to.Hex()
}

// Colorize returns an opaque colour image in which each pixel of mag is replaced
// by its palette entry.
func (p *Palette) Colorize(mag *image.Gray) *image.NRGBA {
	bounds := mag.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		src := mag.Pix[mag.PixOffset(bounds.Min.X, bounds.Min.Y+y):]
		dst := out.Pix[y*out.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			c := p.lut[src[x]]
			dst[x*4+0] = c[0]
			dst[x*4+1] = c[1]
			dst[x*4+2] = c[2]
			dst[x*4+3] = 0xff
		}
	}
	return out
}

// PaletteNames returns the preset palette names in sorted order.
func PaletteNames() []string {
	names := make([]string, 0, len(palettePresets))
	for name := range palettePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
