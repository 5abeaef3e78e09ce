// Package canvas provides drawing primitives for the page canvas.
package canvas

import (
	"image"
	"image/color"
	"image/draw"
	"log"
	"sync"

	"pdf-annotator/internal/editor"
	"pdf-annotator/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

const (
	// Blur boxes preview with the same look they export with.
	blurGray    = 0x80
	blurOpacity = 0.7
)

var previewColor = color.RGBA{R: 255, G: 255, B: 0, A: 255}

var (
	fontOnce   sync.Once
	fontParsed *opentype.Font

	faceMu    sync.Mutex
	faceCache = map[int]font.Face{}
)

// faceForSize returns a cached face for the given pixel size.
func faceForSize(size float64) font.Face {
	fontOnce.Do(func() {
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			log.Printf("parse embedded font: %v", err)
			return
		}
		fontParsed = f
	})
	if fontParsed == nil {
		return nil
	}

	key := int(size + 0.5)
	if key < 4 {
		key = 4
	}

	faceMu.Lock()
	defer faceMu.Unlock()
	if face, ok := faceCache[key]; ok {
		return face
	}
	face, err := opentype.NewFace(fontParsed, &opentype.FaceOptions{
		Size:    float64(key),
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		log.Printf("build font face: %v", err)
		return nil
	}
	faceCache[key] = face
	return face
}

// drawPage copies the rendered page bitmap onto the output.
func drawPage(output *image.RGBA, page image.Image) {
	r := page.Bounds().Sub(page.Bounds().Min).Intersect(output.Bounds())
	draw.Draw(output, r, page, page.Bounds().Min, draw.Src)
}

// drawBlurBox fills the rectangle with translucent gray and a solid
// outline, matching the exported appearance.
func drawBlurBox(output *image.RGBA, rect geometry.Rect) {
	x1 := int(rect.X)
	y1 := int(rect.Y)
	x2 := int(rect.X + rect.Width)
	y2 := int(rect.Y + rect.Height)
	bounds := output.Bounds()

	inv := 1 - blurOpacity
	for y := y1; y <= y2; y++ {
		if y < bounds.Min.Y || y >= bounds.Max.Y {
			continue
		}
		for x := x1; x <= x2; x++ {
			if x < bounds.Min.X || x >= bounds.Max.X {
				continue
			}
			existing := output.RGBAAt(x, y)
			r := uint8(blurGray*blurOpacity + float64(existing.R)*inv)
			g := uint8(blurGray*blurOpacity + float64(existing.G)*inv)
			b := uint8(blurGray*blurOpacity + float64(existing.B)*inv)
			output.SetRGBA(x, y, color.RGBA{r, g, b, 255})
		}
	}

	// 2 pixel outline
	outline := color.RGBA{R: 0x60, G: 0x60, B: 0x60, A: 255}
	for t := 0; t < 2; t++ {
		for x := x1; x <= x2; x++ {
			setPixel(output, x, y1+t, outline)
			setPixel(output, x, y2-t, outline)
		}
		for y := y1; y <= y2; y++ {
			setPixel(output, x1+t, y, outline)
			setPixel(output, x2-t, y, outline)
		}
	}
}

// drawTextLabel draws a text annotation with its position as the baseline
// anchor.
func drawTextLabel(output *image.RGBA, label editor.TextLabel) {
	face := faceForSize(label.FontSize)
	if face == nil {
		return
	}
	d := font.Drawer{
		Dst:  output,
		Src:  image.NewUniform(label.Color),
		Face: face,
		Dot:  fixed.P(int(label.Pos.X), int(label.Pos.Y)),
	}
	d.DrawString(label.Value)
}

// drawDashedRect draws the rubber-band preview rectangle with alternating
// pixels.
func drawDashedRect(output *image.RGBA, rect geometry.Rect) {
	x1 := int(rect.X)
	y1 := int(rect.Y)
	x2 := int(rect.X + rect.Width)
	y2 := int(rect.Y + rect.Height)

	for x := x1; x <= x2; x++ {
		if (x+y1)%4 < 2 {
			setPixel(output, x, y1, previewColor)
		}
		if (x+y2)%4 < 2 {
			setPixel(output, x, y2, previewColor)
		}
	}
	for y := y1; y <= y2; y++ {
		if (x1+y)%4 < 2 {
			setPixel(output, x1, y, previewColor)
		}
		if (x2+y)%4 < 2 {
			setPixel(output, x2, y, previewColor)
		}
	}
}

func setPixel(output *image.RGBA, x, y int, col color.RGBA) {
	bounds := output.Bounds()
	if x >= bounds.Min.X && x < bounds.Max.X && y >= bounds.Min.Y && y < bounds.Max.Y {
		output.SetRGBA(x, y, col)
	}
}
