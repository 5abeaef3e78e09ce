package export

import (
	"bytes"
	"errors"
	"image/color"
	"testing"

	"codeberg.org/go-pdf/fpdf"
	ledongthuc "github.com/ledongthuc/pdf"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/pkg/geometry"
)

type drawTextCall struct {
	page    int
	x, y    float64
	text    string
	size    float64
	r, g, b float64
}

type fillRectCall struct {
	page          int
	x, y, w, h    float64
	gray, opacity float64
}

// recordingBuilder captures draw calls so coordinate conversion can be
// checked without parsing output bytes.
type recordingBuilder struct {
	pages  int
	height float64
	texts  []drawTextCall
	rects  []fillRectCall
}

func (rb *recordingBuilder) PageCount() int              { return rb.pages }
func (rb *recordingBuilder) PageHeight(page int) float64 { return rb.height }
func (rb *recordingBuilder) Bytes() ([]byte, error)      { return []byte("built"), nil }
func (rb *recordingBuilder) DrawText(page int, x, y float64, text string, size float64, r, g, b float64) {
	rb.texts = append(rb.texts, drawTextCall{page, x, y, text, size, r, g, b})
}
func (rb *recordingBuilder) FillRect(page int, x, y, w, h float64, gray, opacity float64) {
	rb.rects = append(rb.rects, fillRectCall{page, x, y, w, h, gray, opacity})
}

func recordingFactory(rb *recordingBuilder) BuilderFactory {
	return func([]byte) (DocumentBuilder, error) { return rb, nil }
}

func TestExportFlipsTextIntoPageSpace(t *testing.T) {
	rb := &recordingBuilder{pages: 2, height: 800}
	engine := NewEngineWith(recordingFactory(rb))

	texts := []annotation.Text{{
		Pos:      geometry.NewPoint2D(100, 100),
		Value:    "Confidential",
		FontSize: 14,
		Color:    color.RGBA{R: 255, G: 0, B: 0, A: 255},
	}}
	if _, err := engine.Export([]byte("doc"), 2, texts, nil); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(rb.texts) != 1 {
		t.Fatalf("DrawText calls = %d, want 1", len(rb.texts))
	}
	got := rb.texts[0]
	want := drawTextCall{page: 2, x: 100, y: 700, text: "Confidential", size: 14, r: 1, g: 0, b: 0}
	if got != want {
		t.Errorf("DrawText = %+v, want %+v", got, want)
	}
}

func TestExportFlipsBlurAnchorToBottomLeftCorner(t *testing.T) {
	rb := &recordingBuilder{pages: 1, height: 800}
	engine := NewEngineWith(recordingFactory(rb))

	blurs := []annotation.Blur{{Rect: geometry.NewRect(50, 50, 100, 70)}}
	if _, err := engine.Export([]byte("doc"), 1, nil, blurs); err != nil {
		t.Fatalf("Export: %v", err)
	}

	if len(rb.rects) != 1 {
		t.Fatalf("FillRect calls = %d, want 1", len(rb.rects))
	}
	got := rb.rects[0]
	// Top-left (50,50) with height 70 anchors at PDF y 800-50-70.
	want := fillRectCall{page: 1, x: 50, y: 680, w: 100, h: 70, gray: blurGray, opacity: blurOpacity}
	if got != want {
		t.Errorf("FillRect = %+v, want %+v", got, want)
	}
}

func TestExportRejectsPageOutOfRange(t *testing.T) {
	rb := &recordingBuilder{pages: 3, height: 792}
	engine := NewEngineWith(recordingFactory(rb))

	for _, page := range []int{0, -1, 4} {
		_, err := engine.Export([]byte("doc"), page, nil, nil)
		if !errors.Is(err, ErrPageRange) {
			t.Errorf("page %d: err = %v, want ErrPageRange", page, err)
		}
	}
	if len(rb.texts) != 0 || len(rb.rects) != 0 {
		t.Errorf("draw calls made despite invalid page")
	}
}

func TestExportWrapsFactoryFailure(t *testing.T) {
	engine := NewEngineWith(func([]byte) (DocumentBuilder, error) {
		return nil, errors.New("broken stream")
	})
	_, err := engine.Export([]byte("doc"), 1, nil, nil)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func TestExportRejectsGarbageDocument(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Export([]byte("%PDF-1.4\nnot a real document"), 1, nil, nil)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
}

func fixturePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Text(72, 72, "fixture page")
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("build fixture: %v", err)
	}
	return buf.Bytes()
}

func pageCount(t *testing.T, data []byte) int {
	t.Helper()
	r, err := ledongthuc.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	return r.NumPage()
}

func TestExportRoundTripPreservesAllPages(t *testing.T) {
	original := fixturePDF(t, 3)
	engine := NewEngine()

	texts := []annotation.Text{{
		Pos:      geometry.NewPoint2D(72, 120),
		Value:    "APPROVED",
		FontSize: 24,
		Color:    color.RGBA{R: 0, G: 0, B: 255, A: 255},
	}}
	blurs := []annotation.Blur{{Rect: geometry.NewRect(60, 60, 200, 40)}}

	out, err := engine.Export(original, 2, texts, blurs)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := pageCount(t, out); got != 3 {
		t.Errorf("output pages = %d, want 3", got)
	}
	if bytes.Equal(out, original) {
		t.Errorf("output identical to original, overlays missing")
	}
}

func TestExportWithoutAnnotationsStillRebuildsDocument(t *testing.T) {
	original := fixturePDF(t, 2)
	out, err := NewEngine().Export(original, 1, nil, nil)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if got := pageCount(t, out); got != 2 {
		t.Errorf("output pages = %d, want 2", got)
	}
}
