package pdfrender

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/ledongthuc/pdf"
)

// US Letter, the fallback when a page carries no media box.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// basicDocument reads page structure with ledongthuc/pdf and renders a
// blank white substrate at the page's media box size. Page content is not
// rasterized; the overlay preview is drawn on top by the canvas.
type basicDocument struct {
	reader   *pdf.Reader
	numPages int
}

func openBasic(data []byte) (doc Document, err error) {
	// The underlying parser panics on some malformed structures.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = fmt.Errorf("%w: %v", ErrInvalid, r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	n := reader.NumPage()
	if n < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrInvalid)
	}
	return &basicDocument{reader: reader, numPages: n}, nil
}

func (d *basicDocument) NumPages() int {
	return d.numPages
}

func (d *basicDocument) PageSize(page int) (w, h float64, err error) {
	if page < 1 || page > d.numPages {
		return 0, 0, ErrPageRange
	}

	defer func() {
		if r := recover(); r != nil {
			w, h = defaultPageWidth, defaultPageHeight
			err = nil
		}
	}()

	// MediaBox may be inherited from an ancestor pages node.
	v := d.reader.Page(page).V
	for !v.IsNull() {
		if mb := v.Key("MediaBox"); !mb.IsNull() && mb.Len() == 4 {
			w = mb.Index(2).Float64() - mb.Index(0).Float64()
			h = mb.Index(3).Float64() - mb.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h, nil
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight, nil
}

func (d *basicDocument) RenderPage(page int, scale float64) (image.Image, error) {
	w, h, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1.0
	}

	pxW := int(w*scale + 0.5)
	pxH := int(h*scale + 0.5)
	if pxW < 1 {
		pxW = 1
	}
	if pxH < 1 {
		pxH = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, pxW, pxH))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img, nil
}

func (d *basicDocument) Close() error {
	d.reader = nil
	return nil
}
