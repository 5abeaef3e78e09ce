// Package colorutil provides shared color utilities for the PDF annotator.
package colorutil

import (
	"image/color"
)

// Annotation colors offered by the text tool.
var (
	Black   = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White   = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red     = color.RGBA{R: 220, G: 38, B: 38, A: 255}
	Blue    = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	Green   = color.RGBA{R: 22, G: 163, B: 74, A: 255}
	Yellow  = color.RGBA{R: 202, G: 138, B: 4, A: 255}
	Magenta = color.RGBA{R: 192, G: 38, B: 211, A: 255}
)

// Palette lists the selectable text colors in display order.
var Palette = []struct {
	Name  string
	Color color.RGBA
}{
	{"Black", Black},
	{"Red", Red},
	{"Blue", Blue},
	{"Green", Green},
	{"Yellow", Yellow},
	{"Magenta", Magenta},
	{"White", White},
}

// ByName returns the palette color with the given name, or Black if unknown.
func ByName(name string) color.RGBA {
	for _, e := range Palette {
		if e.Name == name {
			return e.Color
		}
	}
	return Black
}

// Normalized converts 8-bit channels to the unit interval used by PDF
// content streams.
func Normalized(c color.RGBA) (r, g, b float64) {
	return float64(c.R) / 255.0, float64(c.G) / 255.0, float64(c.B) / 255.0
}

// WithAlpha returns the color with its alpha channel replaced.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}
