// Package canvas provides the page canvas with zoom, annotation overlays,
// and pointer routing for the editing tools.
package canvas

import (
	"image"

	"pdf-annotator/internal/editor"
	"pdf-annotator/pkg/geometry"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

const (
	minZoom  = editor.MinScale
	maxZoom  = editor.MaxScale
	zoomStep = 1.25
)

// PageCanvas displays one rendered document page with the annotation
// overlay drawn on top. Pointer events are reported in canvas coordinates
// (zoomed page space); the owner decides what they mean for the active
// tool.
type PageCanvas struct {
	widget.BaseWidget

	// Page bitmap, already rendered at the current zoom.
	page image.Image

	// Screen-space annotation projection.
	overlay editor.Overlay

	// Rubber-band preview while a blur drag is active.
	preview *geometry.Rect

	// Display state
	raster *fynecanvas.Raster
	zoom   float64

	// Container
	scroll  *zoomScroll
	content *pageContent
	imgSize fyne.Size

	// Callbacks, all in canvas coordinates.
	onZoomChange func(zoom float64)
	onTapped     func(x, y float64)
	onPressed    func(x, y float64)
	onDrag       func(x, y float64)
	onDragEnd    func(x, y float64)
}

// zoomScroll wraps a scroll container but intercepts the wheel for zoom.
type zoomScroll struct {
	widget.BaseWidget
	scroll *container.Scroll
	canvas *PageCanvas
}

func newZoomScroll(content fyne.CanvasObject, canvas *PageCanvas) *zoomScroll {
	scroll := container.NewScroll(content)
	scroll.Direction = container.ScrollBoth
	zs := &zoomScroll{scroll: scroll, canvas: canvas}
	zs.ExtendBaseWidget(zs)
	return zs
}

func (zs *zoomScroll) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		zs.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		zs.canvas.ZoomOut()
	}
}

func (zs *zoomScroll) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(zs.scroll)
}

func (zs *zoomScroll) Offset() fyne.Position {
	return zs.scroll.Offset
}

func (zs *zoomScroll) Size() fyne.Size {
	return zs.scroll.Size()
}

func (zs *zoomScroll) Refresh() {
	zs.scroll.Refresh()
	zs.BaseWidget.Refresh()
}

func (zs *zoomScroll) Resize(size fyne.Size) {
	zs.scroll.Resize(size)
	zs.BaseWidget.Resize(size)
}

// pageContent wraps the raster to handle pointer events.
type pageContent struct {
	widget.BaseWidget
	canvas *PageCanvas
	raster *fynecanvas.Raster

	dragging bool
	dragLast fyne.Position
}

func newPageContent(pc *PageCanvas, raster *fynecanvas.Raster) *pageContent {
	c := &pageContent{canvas: pc, raster: raster}
	c.ExtendBaseWidget(c)
	return c
}

func (c *pageContent) CreateRenderer() fyne.WidgetRenderer {
	return &pageContentRenderer{content: c}
}

func (c *pageContent) MinSize() fyne.Size {
	return c.raster.MinSize()
}

// contentPos converts a viewport-relative event position into canvas
// coordinates by adding the scroll offset.
func (c *pageContent) contentPos(pos fyne.Position) (float64, float64) {
	offset := c.canvas.scroll.Offset()
	return float64(pos.X + offset.X), float64(pos.Y + offset.Y)
}

func (c *pageContent) Dragged(ev *fyne.DragEvent) {
	x, y := c.contentPos(ev.Position)
	c.dragging = true
	c.dragLast = ev.Position
	if c.canvas.onDrag != nil {
		c.canvas.onDrag(x, y)
	}
}

func (c *pageContent) DragEnd() {
	if !c.dragging {
		return
	}
	c.dragging = false
	x, y := c.contentPos(c.dragLast)
	if c.canvas.onDragEnd != nil {
		c.canvas.onDragEnd(x, y)
	}
}

func (c *pageContent) Scrolled(ev *fyne.ScrollEvent) {
	if ev.Scrolled.DY > 0 {
		c.canvas.ZoomIn()
	} else if ev.Scrolled.DY < 0 {
		c.canvas.ZoomOut()
	}
}

// Tapped handles left-click release events.
func (c *pageContent) Tapped(ev *fyne.PointEvent) {
	if c.canvas.onTapped == nil {
		return
	}

	// Reject clicks outside widget bounds; Fyne occasionally delivers them.
	size := c.Size()
	if ev.Position.X < 0 || ev.Position.Y < 0 ||
		ev.Position.X > size.Width || ev.Position.Y > size.Height {
		return
	}

	x, y := c.contentPos(ev.Position)
	c.canvas.onTapped(x, y)
}

// MouseDown fires on press, before any tap or drag resolves. The erase
// tool acts on press, not release.
func (c *pageContent) MouseDown(ev *desktop.MouseEvent) {
	if c.canvas.onPressed == nil || ev.Button != desktop.MouseButtonPrimary {
		return
	}
	x, y := c.contentPos(ev.Position)
	c.canvas.onPressed(x, y)
}

func (c *pageContent) MouseUp(*desktop.MouseEvent) {}

type pageContentRenderer struct {
	content *pageContent
}

func (r *pageContentRenderer) Layout(size fyne.Size) {
	r.content.raster.Resize(size)
}

func (r *pageContentRenderer) MinSize() fyne.Size {
	return r.content.raster.MinSize()
}

func (r *pageContentRenderer) Refresh() {
	r.content.raster.Refresh()
}

func (r *pageContentRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.content.raster}
}

func (r *pageContentRenderer) Destroy() {}

// NewPageCanvas creates an empty page canvas at 100% zoom.
func NewPageCanvas() *PageCanvas {
	pc := &PageCanvas{
		zoom:    editor.DefaultScale,
		imgSize: fyne.NewSize(400, 520),
	}

	pc.raster = fynecanvas.NewRaster(pc.draw)
	pc.raster.ScaleMode = fynecanvas.ImageScalePixels
	pc.raster.SetMinSize(pc.imgSize)

	pc.content = newPageContent(pc, pc.raster)
	pc.scroll = newZoomScroll(pc.content, pc)

	pc.ExtendBaseWidget(pc)
	return pc
}

func (pc *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(pc.scroll)
}

// Container returns the canvas container for embedding in layouts.
func (pc *PageCanvas) Container() fyne.CanvasObject {
	return pc.scroll
}

// SetPage sets the rendered page bitmap. The bitmap is expected to be
// rendered at the current zoom already.
func (pc *PageCanvas) SetPage(img image.Image) {
	pc.page = img
	pc.updateContentSize()
}

// SetOverlay replaces the screen-space annotation projection.
func (pc *PageCanvas) SetOverlay(o editor.Overlay) {
	pc.overlay = o
	pc.Refresh()
}

// SetPreview sets or clears the rubber-band rectangle, in canvas
// coordinates.
func (pc *PageCanvas) SetPreview(r *geometry.Rect) {
	pc.preview = r
	pc.Refresh()
}

// SetZoom sets the zoom level, clamped to the supported range. The owner
// is expected to re-render the page at the new zoom.
func (pc *PageCanvas) SetZoom(zoom float64) {
	if zoom < minZoom {
		zoom = minZoom
	}
	if zoom > maxZoom {
		zoom = maxZoom
	}
	pc.zoom = zoom
	pc.updateContentSize()

	if pc.onZoomChange != nil {
		pc.onZoomChange(zoom)
	}
}

// Zoom returns the current zoom level.
func (pc *PageCanvas) Zoom() float64 {
	return pc.zoom
}

func (pc *PageCanvas) ZoomIn() {
	pc.SetZoom(pc.zoom * zoomStep)
}

func (pc *PageCanvas) ZoomOut() {
	pc.SetZoom(pc.zoom / zoomStep)
}

// OnZoomChange sets a callback for zoom changes.
func (pc *PageCanvas) OnZoomChange(callback func(zoom float64)) {
	pc.onZoomChange = callback
}

// OnTapped sets a callback for left-click release, in canvas coordinates.
func (pc *PageCanvas) OnTapped(callback func(x, y float64)) {
	pc.onTapped = callback
}

// OnPressed sets a callback for primary button press, in canvas
// coordinates.
func (pc *PageCanvas) OnPressed(callback func(x, y float64)) {
	pc.onPressed = callback
}

// OnDrag sets a callback for drag motion, in canvas coordinates.
func (pc *PageCanvas) OnDrag(callback func(x, y float64)) {
	pc.onDrag = callback
}

// OnDragEnd sets a callback for drag release, in canvas coordinates.
func (pc *PageCanvas) OnDragEnd(callback func(x, y float64)) {
	pc.onDragEnd = callback
}

// Refresh refreshes the canvas display.
func (pc *PageCanvas) Refresh() {
	pc.raster.Refresh()
}

func (pc *PageCanvas) pageBounds() image.Rectangle {
	if pc.page == nil {
		return image.Rectangle{}
	}
	return pc.page.Bounds()
}

func (pc *PageCanvas) updateContentSize() {
	bounds := pc.pageBounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		pc.imgSize = fyne.NewSize(400, 520)
	} else {
		pc.imgSize = fyne.NewSize(float32(bounds.Dx()), float32(bounds.Dy()))
	}

	pc.raster.SetMinSize(pc.imgSize)
	pc.raster.Resize(pc.imgSize)
	if pc.content != nil {
		pc.content.Resize(pc.imgSize)
		pc.content.Refresh()
	}
	pc.raster.Refresh()
	if pc.scroll != nil {
		pc.scroll.Refresh()
	}
}

// draw is the raster drawing function.
func (pc *PageCanvas) draw(w, h int) image.Image {
	output := image.NewRGBA(image.Rect(0, 0, w, h))

	// Neutral backdrop behind the page.
	for i := 0; i < len(output.Pix); i += 4 {
		output.Pix[i] = 0x40
		output.Pix[i+1] = 0x40
		output.Pix[i+2] = 0x44
		output.Pix[i+3] = 0xff
	}

	if pc.page != nil {
		drawPage(output, pc.page)
	}

	for _, box := range pc.overlay.Boxes {
		drawBlurBox(output, box.Rect)
	}
	for _, label := range pc.overlay.Labels {
		drawTextLabel(output, label)
	}

	if pc.preview != nil {
		drawDashedRect(output, *pc.preview)
	}

	return output
}
