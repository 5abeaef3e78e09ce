package pdfrender

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"codeberg.org/go-pdf/fpdf"
)

// fixturePDF builds a small multi-page A4 document.
func fixturePDF(t *testing.T, pages int) []byte {
	t.Helper()
	doc := fpdf.New("P", "pt", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 1; i <= pages; i++ {
		doc.AddPage()
		doc.Text(72, 72, fmt.Sprintf("Page %d", i))
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	return buf.Bytes()
}

func TestOpenReportsPageCount(t *testing.T) {
	doc, err := Open(fixturePDF(t, 3))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	if got := doc.NumPages(); got != 3 {
		t.Errorf("NumPages = %d, want 3", got)
	}
}

func TestOpenRejectsNonPDF(t *testing.T) {
	if _, err := Open([]byte("GIF89a not a pdf")); !errors.Is(err, ErrNotPDF) {
		t.Errorf("Open(non-pdf) = %v, want ErrNotPDF", err)
	}
}

func TestOpenRejectsGarbageWithHeader(t *testing.T) {
	data := []byte("%PDF-1.4\nthis is not a real document body")
	if _, err := Open(data); err == nil {
		t.Error("Open accepted garbage bytes")
	}
}

func TestPageSize(t *testing.T) {
	doc, err := Open(fixturePDF(t, 1))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	w, h, err := doc.PageSize(1)
	if err != nil {
		t.Fatalf("PageSize: %v", err)
	}
	// A4 in points.
	if w < 595 || w > 596 || h < 841 || h > 842 {
		t.Errorf("PageSize = %vx%v, want ~595.28x841.89", w, h)
	}

	if _, _, err := doc.PageSize(2); !errors.Is(err, ErrPageRange) {
		t.Errorf("PageSize(2) on 1-page doc: %v, want ErrPageRange", err)
	}
	if _, _, err := doc.PageSize(0); !errors.Is(err, ErrPageRange) {
		t.Errorf("PageSize(0): %v, want ErrPageRange", err)
	}
}

func TestRenderPageDimensionsFollowScale(t *testing.T) {
	doc, err := Open(fixturePDF(t, 1))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer doc.Close()

	for _, scale := range []float64{0.5, 1.0, 2.0} {
		img, err := doc.RenderPage(1, scale)
		if err != nil {
			t.Fatalf("RenderPage(1, %v): %v", scale, err)
		}
		wantW := int(595.28*scale + 0.5)
		b := img.Bounds()
		// MuPDF rounds differently from the structural renderer; allow a
		// pixel either way.
		if b.Dx() < wantW-1 || b.Dx() > wantW+1 {
			t.Errorf("scale %v: width %d, want ~%d", scale, b.Dx(), wantW)
		}
	}
}

func TestServiceLoad(t *testing.T) {
	svc := NewService()
	defer svc.Close()

	n, err := svc.Load(fixturePDF(t, 2))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n != 2 {
		t.Errorf("Load reported %d pages, want 2", n)
	}

	if _, err := svc.Load([]byte("junk")); err == nil {
		t.Fatal("Load accepted junk")
	}
	// The previous document must survive a failed load.
	if _, err := svc.RenderPage(1, 1.0); err != nil {
		t.Errorf("RenderPage after failed load: %v", err)
	}
}

func TestServiceWithoutDocument(t *testing.T) {
	svc := NewService()
	if _, err := svc.RenderPage(1, 1.0); err == nil {
		t.Error("RenderPage with no document succeeded")
	}
}
