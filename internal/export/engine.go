package export

import (
	"errors"
	"fmt"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/pkg/colorutil"
)

var (
	// ErrParse means the original document could not be reconstructed.
	ErrParse = errors.New("cannot parse source document")
	// ErrPageRange means the target page does not exist in the document.
	ErrPageRange = errors.New("page out of range")
)

// Blur boxes render as a flat neutral gray at partial opacity so the
// covered region is visibly redacted without looking like a scan defect.
const (
	blurGray    = 0.5
	blurOpacity = 0.7
)

// Engine produces an annotated copy of a document. The original bytes are
// never modified; every export rebuilds the full document and draws the
// overlays for one page on top.
type Engine struct {
	open BuilderFactory
}

func NewEngine() *Engine {
	return &Engine{open: OpenBuilder}
}

// NewEngineWith substitutes the builder factory.
func NewEngineWith(open BuilderFactory) *Engine {
	return &Engine{open: open}
}

// Export renders texts and blurs onto the given 1-based page of the
// original document and returns the complete annotated document.
func (e *Engine) Export(original []byte, page int, texts []annotation.Text, blurs []annotation.Blur) ([]byte, error) {
	builder, err := e.open(original)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if page < 1 || page > builder.PageCount() {
		return nil, fmt.Errorf("%w: page %d of %d", ErrPageRange, page, builder.PageCount())
	}

	// Annotations are stored with a top-left origin; the builder speaks
	// PDF page space with a bottom-left origin, so y flips against the
	// page height. For rects the flipped anchor is the bottom-left
	// corner of the box.
	height := builder.PageHeight(page)
	for _, b := range blurs {
		x := b.Rect.X
		y := height - b.Rect.Y - b.Rect.Height
		builder.FillRect(page, x, y, b.Rect.Width, b.Rect.Height, blurGray, blurOpacity)
	}
	for _, t := range texts {
		r, g, b := colorutil.Normalized(t.Color)
		builder.DrawText(page, t.Pos.X, height-t.Pos.Y, t.Value, float64(t.FontSize), r, g, b)
	}

	return builder.Bytes()
}
