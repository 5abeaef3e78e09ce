// Package export burns the session's overlays into a copy of the original
// document.
package export

import (
	"bytes"
	"fmt"
	"io"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

// DocumentBuilder is the narrow contract over the document construction
// service. Coordinates are in PDF page space: origin at the bottom-left
// corner, y growing upward. Pages are 1-based. Color and gray components
// are in the unit interval.
type DocumentBuilder interface {
	PageCount() int
	PageHeight(page int) float64
	DrawText(page int, x, y float64, text string, size float64, r, g, b float64)
	FillRect(page int, x, y, w, h float64, gray, opacity float64)
	Bytes() ([]byte, error)
}

// BuilderFactory parses original document bytes into a mutable builder.
type BuilderFactory func(original []byte) (DocumentBuilder, error)

const overlayFont = "Helvetica"

// fpdfBuilder re-creates the original document page by page through gofpdi
// templates and draws overlays with fpdf. fpdf's own origin is the top-left
// corner, so incoming PDF-space coordinates are flipped per page.
type fpdfBuilder struct {
	doc   *fpdf.Fpdf
	tr    func(string) string
	sizes []fpdf.SizeType // indexed by page-1
}

// OpenBuilder imports every page of the original into a fresh document.
// Malformed input surfaces as an error, never a partial document.
func OpenBuilder(original []byte) (b DocumentBuilder, err error) {
	// The importer panics on documents it cannot parse.
	defer func() {
		if r := recover(); r != nil {
			b = nil
			err = fmt.Errorf("import source document: %v", r)
		}
	}()

	doc := fpdf.New("P", "pt", "", "")
	importer := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(original))

	first := importer.ImportPageFromStream(doc, &rs, 1, "/MediaBox")
	pageSizes := importer.GetPageSizes()
	n := len(pageSizes)
	if n < 1 {
		return nil, fmt.Errorf("source document has no pages")
	}

	fb := &fpdfBuilder{
		doc:   doc,
		tr:    doc.UnicodeTranslatorFromDescriptor(""),
		sizes: make([]fpdf.SizeType, n),
	}

	for pageNo := 1; pageNo <= n; pageNo++ {
		box := pageSizes[pageNo]["/MediaBox"]
		size := fpdf.SizeType{Wd: box["w"], Ht: box["h"]}
		fb.sizes[pageNo-1] = size

		tpl := first
		if pageNo > 1 {
			tpl = importer.ImportPageFromStream(doc, &rs, pageNo, "/MediaBox")
		}
		doc.AddPageFormat("P", size)
		importer.UseImportedTemplate(doc, tpl, 0, 0, size.Wd, 0)
	}

	if doc.Err() {
		return nil, fmt.Errorf("import source document: %v", doc.Error())
	}
	return fb, nil
}

func (fb *fpdfBuilder) PageCount() int {
	return len(fb.sizes)
}

func (fb *fpdfBuilder) PageHeight(page int) float64 {
	return fb.sizes[page-1].Ht
}

func (fb *fpdfBuilder) DrawText(page int, x, y float64, text string, size float64, r, g, b float64) {
	fb.doc.SetPage(page)
	fb.doc.SetFont(overlayFont, "", size)
	fb.doc.SetTextColor(to255(r), to255(g), to255(b))
	fb.doc.Text(x, fb.PageHeight(page)-y, fb.tr(text))
}

func (fb *fpdfBuilder) FillRect(page int, x, y, w, h float64, gray, opacity float64) {
	fb.doc.SetPage(page)
	fb.doc.SetFillColor(to255(gray), to255(gray), to255(gray))
	fb.doc.SetAlpha(opacity, "Normal")
	fb.doc.Rect(x, fb.PageHeight(page)-y-h, w, h, "F")
	fb.doc.SetAlpha(1.0, "Normal")
}

func (fb *fpdfBuilder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := fb.doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return buf.Bytes(), nil
}

func to255(unit float64) int {
	v := int(unit*255 + 0.5)
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return v
}
