package editor

import (
	"image/color"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/pkg/geometry"
)

// TextLabel is a text annotation projected into screen space.
type TextLabel struct {
	ID       string
	Pos      geometry.Point2D
	Value    string
	FontSize float64 // points, already scaled
	Color    color.RGBA
}

// BlurBox is a blur region projected into screen space.
type BlurBox struct {
	ID   string
	Rect geometry.Rect
}

// Overlay is the screen-space projection of the annotation store at a given
// zoom. It is derived data: recomputed on every scale or collection change,
// never stored.
type Overlay struct {
	Labels []TextLabel
	Boxes  []BlurBox
}

// ProjectOverlay projects annotations into screen space at the given scale.
// Positions and dimensions scale uniformly; stored coordinates are not
// touched.
func ProjectOverlay(texts []annotation.Text, blurs []annotation.Blur, scale float64) Overlay {
	var o Overlay
	for _, t := range texts {
		o.Labels = append(o.Labels, TextLabel{
			ID:       t.ID,
			Pos:      t.Pos.Scale(scale),
			Value:    t.Value,
			FontSize: float64(t.FontSize) * scale,
			Color:    t.Color,
		})
	}
	for _, b := range blurs {
		o.Boxes = append(o.Boxes, BlurBox{
			ID:   b.ID,
			Rect: b.Rect.Scaled(scale),
		})
	}
	return o
}

// Overlay returns the current screen-space projection of the session's
// annotations.
func (s *Session) Overlay() Overlay {
	return ProjectOverlay(s.store.Texts(), s.store.Blurs(), s.Scale())
}
