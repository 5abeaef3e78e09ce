// Command annotate burns a JSON annotation set into a PDF without the GUI.
//
// The annotation file holds one page's overlays:
//
//	{
//	  "page": 1,
//	  "texts": [{"x": 72, "y": 100, "value": "APPROVED", "size": 24, "color": "Red"}],
//	  "blurs": [{"x": 60, "y": 60, "width": 200, "height": 40}]
//	}
//
// Coordinates are document units with the page's top-left corner as origin,
// the same convention the editor stores.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/internal/export"
	"pdf-annotator/pkg/colorutil"
	"pdf-annotator/pkg/geometry"
)

type textItem struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Value string  `json:"value"`
	Size  int     `json:"size"`
	Color string  `json:"color"`
}

type blurItem struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type annotationFile struct {
	Page  int        `json:"page"`
	Texts []textItem `json:"texts"`
	Blurs []blurItem `json:"blurs"`
}

func main() {
	inPath := flag.String("in", "", "Path to source PDF")
	annPath := flag.String("annotations", "", "Path to annotation JSON file")
	outPath := flag.String("out", "", "Path for the annotated PDF")
	flag.Parse()

	if *inPath == "" || *annPath == "" || *outPath == "" {
		fmt.Println("Usage: annotate -in <pdf> -annotations <json> -out <pdf>")
		os.Exit(1)
	}

	original, err := os.ReadFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read PDF: %v\n", err)
		os.Exit(1)
	}

	annData, err := os.ReadFile(*annPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read annotations: %v\n", err)
		os.Exit(1)
	}

	var set annotationFile
	if err := json.Unmarshal(annData, &set); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse annotations: %v\n", err)
		os.Exit(1)
	}
	if set.Page < 1 {
		set.Page = 1
	}

	var texts []annotation.Text
	for _, t := range set.Texts {
		size := t.Size
		if size <= 0 {
			size = 16
		}
		texts = append(texts, annotation.NewText(
			geometry.NewPoint2D(t.X, t.Y), t.Value, size, colorutil.ByName(t.Color)))
	}
	var blurs []annotation.Blur
	for _, b := range set.Blurs {
		blurs = append(blurs, annotation.NewBlur(
			geometry.NewRect(b.X, b.Y, b.Width, b.Height)))
	}

	fmt.Printf("Annotating page %d: %d text(s), %d blur(s)\n", set.Page, len(texts), len(blurs))

	out, err := export.NewEngine().Export(original, set.Page, texts, blurs)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile(*outPath, out, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", *outPath, len(out))
}
