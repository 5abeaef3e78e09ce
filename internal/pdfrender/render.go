// Package pdfrender provides the document rendering service: page count,
// page geometry, and page rasters for display. The default build derives
// page geometry from the PDF structure and renders a blank page substrate;
// building with -tags fitz rasterizes real page content through MuPDF.
package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"
)

var (
	// ErrNotPDF means the data does not start with a PDF header.
	ErrNotPDF = errors.New("pdfrender: not a PDF document")

	// ErrInvalid means the document structure could not be parsed.
	ErrInvalid = errors.New("pdfrender: cannot parse document")

	// ErrPageRange means the requested page does not exist.
	ErrPageRange = errors.New("pdfrender: page out of range")

	errFitzUnavailable = errors.New("pdfrender: mupdf renderer not compiled in")
)

var pdfMagic = []byte("%PDF-")

// IsPDF reports whether data carries the PDF magic number.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, pdfMagic)
}

// Document is a loaded, renderable document. Page indices are 1-based.
type Document interface {
	// NumPages returns the page count.
	NumPages() int

	// PageSize returns the page's media box dimensions in points.
	PageSize(page int) (w, h float64, err error)

	// RenderPage rasterizes the page at the given scale, 1.0 meaning one
	// pixel per point.
	RenderPage(page int, scale float64) (image.Image, error)

	// Close releases any resources held by the document.
	Close() error
}

// Open parses document bytes into a renderable Document. The MuPDF
// renderer is preferred when compiled in; otherwise the structural
// renderer serves page geometry with a blank substrate.
func Open(data []byte) (Document, error) {
	if !IsPDF(data) {
		return nil, ErrNotPDF
	}
	if doc, err := openFitz(data); err == nil {
		return doc, nil
	} else if !errors.Is(err, errFitzUnavailable) {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return openBasic(data)
}

// Service keeps the currently open document and implements the editor's
// loader contract. Loading a new document closes the previous one.
type Service struct {
	mu  sync.Mutex
	doc Document
}

// NewService creates a service with no document open.
func NewService() *Service {
	return &Service{}
}

// Load parses the bytes and reports the page count. On failure the
// previously open document is kept.
func (s *Service) Load(data []byte) (int, error) {
	doc, err := Open(data)
	if err != nil {
		return 0, err
	}

	s.mu.Lock()
	old := s.doc
	s.doc = doc
	s.mu.Unlock()

	if old != nil {
		old.Close()
	}
	return doc.NumPages(), nil
}

// RenderPage rasterizes a page of the open document.
func (s *Service) RenderPage(page int, scale float64) (image.Image, error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return nil, ErrInvalid
	}
	return doc.RenderPage(page, scale)
}

// PageSize returns the media box of a page of the open document.
func (s *Service) PageSize(page int) (w, h float64, err error) {
	s.mu.Lock()
	doc := s.doc
	s.mu.Unlock()
	if doc == nil {
		return 0, 0, ErrInvalid
	}
	return doc.PageSize(page)
}

// Close releases the open document, if any.
func (s *Service) Close() error {
	s.mu.Lock()
	doc := s.doc
	s.doc = nil
	s.mu.Unlock()
	if doc != nil {
		return doc.Close()
	}
	return nil
}
