// Command pdfinfo prints page count and page sizes for a PDF.
package main

import (
	"flag"
	"fmt"
	"os"

	"pdf-annotator/internal/pdfrender"
)

func main() {
	path := flag.String("in", "", "Path to PDF")
	flag.Parse()

	if *path == "" {
		fmt.Println("Usage: pdfinfo -in <pdf>")
		os.Exit(1)
	}

	data, err := os.ReadFile(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read file: %v\n", err)
		os.Exit(1)
	}

	doc, err := pdfrender.Open(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open document: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	n := doc.NumPages()
	fmt.Printf("%s: %d page(s)\n", *path, n)
	fmt.Printf("%-6s %10s %10s\n", "Page", "Width", "Height")
	for i := 1; i <= n; i++ {
		w, h, err := doc.PageSize(i)
		if err != nil {
			fmt.Printf("%-6d %10s %10s\n", i, "?", "?")
			continue
		}
		fmt.Printf("%-6d %10.2f %10.2f\n", i, w, h)
	}
}
