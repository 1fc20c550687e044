// Package plotting renders aggregate tables as static PNG figures. Nothing in
// this package keeps global state: every renderer takes the Style it draws with.
package plotting

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Style carries the presentation settings shared by every figure.
type Style struct {
	FontSize    float64
	Width       vg.Length
	Height      vg.Length
	DPI         int
	Transparent bool
	Palette     []color.Color
}

var defaultPalette = []string{"#f4a9b5", "#d68c45", "#4c956c"}

// GreensPalette approximates a dark green sequential palette for posters.
var GreensPalette = []string{"#1b5e34", "#2e8b57", "#6abf83", "#a8dcb4"}

func DefaultStyle() Style {
	palette, _ := ParsePalette(defaultPalette)
	return Style{
		FontSize: 12,
		Width:    6 * vg.Inch,
		Height:   5 * vg.Inch,
		DPI:      96,
		Palette:  palette,
	}
}

// WithFontSize returns a copy of s using size points for text.
func (s Style) WithFontSize(size float64) Style {
	s.FontSize = size
	return s
}

func (s Style) WithSize(width, height vg.Length) Style {
	s.Width = width
	s.Height = height
	return s
}

func (s Style) WithPalette(hex []string) (Style, error) {
	palette, err := ParsePalette(hex)
	if err != nil {
		return s, err
	}
	s.Palette = palette
	return s, nil
}

// Color picks the palette entry for index i, cycling when the palette is
// shorter than the number of series.
func (s Style) Color(i int) color.Color {
	if len(s.Palette) == 0 {
		return color.Gray{Y: 128}
	}
	return s.Palette[i%len(s.Palette)]
}

func (s Style) background() color.Color {
	if s.Transparent {
		return color.Transparent
	}
	return color.White
}

func ParsePalette(hex []string) ([]color.Color, error) {
	out := make([]color.Color, 0, len(hex))
	for _, h := range hex {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// ParseHexColor reads #rrggbb colours.
func ParseHexColor(s string) (color.Color, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return nil, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// newPlot builds a plot whose text follows the style.
func newPlot(s Style, title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = title
	p.BackgroundColor = s.background()
	size := vg.Points(s.FontSize)
	p.Title.TextStyle.Font.Size = size
	p.X.Label.TextStyle.Font.Size = size
	p.Y.Label.TextStyle.Font.Size = size
	p.X.Tick.Label.Font.Size = size * 0.85
	p.Y.Tick.Label.Font.Size = size * 0.85
	p.Legend.TextStyle.Font.Size = size * 0.85
	return p
}
