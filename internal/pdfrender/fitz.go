//go:build fitz

package pdfrender

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"
)

// fitzDocument rasterizes real page content through MuPDF.
type fitzDocument struct {
	doc *fitz.Document
}

func openFitz(data []byte) (Document, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("mupdf: %w", err)
	}
	if doc.NumPage() < 1 {
		doc.Close()
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalid)
	}
	return &fitzDocument{doc: doc}, nil
}

func (d *fitzDocument) NumPages() int {
	return d.doc.NumPage()
}

func (d *fitzDocument) PageSize(page int) (w, h float64, err error) {
	if page < 1 || page > d.doc.NumPage() {
		return 0, 0, ErrPageRange
	}
	bounds, err := d.doc.Bound(page - 1)
	if err != nil {
		return 0, 0, fmt.Errorf("mupdf: %w", err)
	}
	return float64(bounds.Dx()), float64(bounds.Dy()), nil
}

func (d *fitzDocument) RenderPage(page int, scale float64) (image.Image, error) {
	if page < 1 || page > d.doc.NumPage() {
		return nil, ErrPageRange
	}
	if scale <= 0 {
		scale = 1.0
	}
	img, err := d.doc.ImageDPI(page-1, 72.0*scale)
	if err != nil {
		return nil, fmt.Errorf("mupdf: %w", err)
	}
	return img, nil
}

func (d *fitzDocument) Close() error {
	return d.doc.Close()
}
