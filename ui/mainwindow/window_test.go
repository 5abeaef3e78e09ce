package mainwindow

import "testing"

func TestAnnotatedName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"report.pdf", "report-annotated.pdf"},
		{"scan.PDF", "scan-annotated.pdf"},
		{"no-extension", "no-extension-annotated.pdf"},
		{"archive.tar.pdf", "archive.tar-annotated.pdf"},
		{"", "document-annotated.pdf"},
	}
	for _, tt := range tests {
		if got := annotatedName(tt.in); got != tt.want {
			t.Errorf("annotatedName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
