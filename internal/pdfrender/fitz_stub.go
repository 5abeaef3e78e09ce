//go:build !fitz

package pdfrender

// MuPDF rendering is opt-in; build with -tags fitz to enable it.
func openFitz(data []byte) (Document, error) {
	return nil, errFitzUnavailable
}
