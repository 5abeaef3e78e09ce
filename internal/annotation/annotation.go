// Package annotation holds the in-memory overlay model for the active document.
package annotation

import (
	"image/color"

	"github.com/google/uuid"

	"pdf-annotator/pkg/geometry"
)

// Text is a text label anchored at a document-space point. Positions use the
// page's top-left corner as origin, in document units, independent of zoom.
// A Text is immutable once placed; it can only be removed.
type Text struct {
	ID       string
	Pos      geometry.Point2D
	Value    string
	FontSize int // point units, always > 0
	Color    color.RGBA
}

// Blur is a rectangular occlusion region in document space.
// Width and Height are always strictly positive.
type Blur struct {
	ID   string
	Rect geometry.Rect
}

// NewText creates a text annotation with a fresh identifier.
func NewText(pos geometry.Point2D, value string, fontSize int, col color.RGBA) Text {
	return Text{
		ID:       uuid.NewString(),
		Pos:      pos,
		Value:    value,
		FontSize: fontSize,
		Color:    col,
	}
}

// NewBlur creates a blur region with a fresh identifier.
func NewBlur(rect geometry.Rect) Blur {
	return Blur{
		ID:   uuid.NewString(),
		Rect: rect,
	}
}
