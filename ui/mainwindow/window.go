// Package mainwindow provides the main application window.
package mainwindow

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"pdf-annotator/internal/editor"
	"pdf-annotator/internal/pdfrender"
	"pdf-annotator/internal/version"
	"pdf-annotator/pkg/colorutil"
	"pdf-annotator/pkg/geometry"
	"pdf-annotator/ui/canvas"
	"pdf-annotator/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "PDF Annotator"

var fontSizes = []string{"10", "12", "14", "16", "18", "24", "32", "48"}

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app      fyne.App
	session  *editor.Session
	renderer *pdfrender.Service
	canvas   *canvas.PageCanvas
	prefs    *prefs.Prefs

	statusBar *widget.Label
	pageLabel *widget.Label
	zoomLabel *widget.Label

	// Tool buttons, indexed by tool for highlight updates.
	toolButtons map[editor.Tool]*widget.Button

	// Text tool configuration
	textEntry   *widget.Entry
	sizeSelect  *widget.Select
	colorSelect *widget.Select

	// Controls disabled while no document is loaded or an operation is
	// in flight.
	docControls []fyne.Disableable
}

// New creates the main window wired to the session.
func New(fyneApp fyne.App, session *editor.Session, renderer *pdfrender.Service, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window:      win,
		app:         fyneApp,
		session:     session,
		renderer:    renderer,
		prefs:       p,
		toolButtons: make(map[editor.Tool]*widget.Button),
	}

	mw.setupUI()
	mw.setupMenus()
	mw.setupEventHandlers()
	mw.restorePrefs()
	mw.updateDocControls()

	win.SetOnClosed(func() {
		_ = p.Save()
	})

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewPageCanvas()
	mw.statusBar = widget.NewLabel("No document loaded")
	mw.pageLabel = widget.NewLabel("Page -/-")
	mw.zoomLabel = widget.NewLabel("100%")

	mw.setupPointerRouting()

	toolbar := mw.createToolbar()
	textBar := mw.createTextBar()

	content := container.NewBorder(
		container.NewVBox(toolbar, textBar),
		container.NewPadded(mw.statusBar),
		nil,
		nil,
		mw.canvas.Container(),
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(900, 700))
}

// createToolbar creates the toolbar with tool, page, and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	tools := []editor.Tool{editor.ToolSelect, editor.ToolText, editor.ToolBlur, editor.ToolErase}
	items := []fyne.CanvasObject{widget.NewLabel("Tool:")}
	for _, tool := range tools {
		t := tool
		btn := widget.NewButton(t.String(), func() {
			mw.session.SetTool(t)
		})
		mw.toolButtons[t] = btn
		mw.docControls = append(mw.docControls, btn)
		items = append(items, btn)
	}
	mw.highlightTool(mw.session.Tool())

	prevBtn := widget.NewButton("<", func() { mw.session.PrevPage() })
	nextBtn := widget.NewButton(">", func() { mw.session.NextPage() })
	zoomOutBtn := widget.NewButton("-", func() { mw.canvas.ZoomOut() })
	zoomInBtn := widget.NewButton("+", func() { mw.canvas.ZoomIn() })
	actualBtn := widget.NewButton("1:1", func() { mw.canvas.SetZoom(1.0) })
	mw.docControls = append(mw.docControls, prevBtn, nextBtn, zoomOutBtn, zoomInBtn, actualBtn)

	items = append(items,
		widget.NewSeparator(),
		prevBtn, mw.pageLabel, nextBtn,
		widget.NewSeparator(),
		widget.NewLabel("Zoom:"), zoomOutBtn, mw.zoomLabel, zoomInBtn, actualBtn,
	)
	return container.NewHBox(items...)
}

// createTextBar creates the text tool configuration row.
func (mw *MainWindow) createTextBar() fyne.CanvasObject {
	mw.textEntry = widget.NewEntry()
	mw.textEntry.SetPlaceHolder("Text to place...")
	mw.textEntry.OnChanged = func(value string) {
		mw.session.SetPendingText(value)
	}

	mw.sizeSelect = widget.NewSelect(fontSizes, func(value string) {
		size, err := strconv.Atoi(value)
		if err != nil {
			return
		}
		mw.session.SetFontSize(size)
		mw.prefs.SetFloat(prefs.KeyFontSize, float64(size))
	})

	var colorNames []string
	for _, e := range colorutil.Palette {
		colorNames = append(colorNames, e.Name)
	}
	mw.colorSelect = widget.NewSelect(colorNames, func(name string) {
		mw.session.SetTextColor(colorutil.ByName(name))
		mw.prefs.SetString(prefs.KeyTextColor, name)
	})

	mw.docControls = append(mw.docControls, mw.textEntry, mw.sizeSelect, mw.colorSelect)

	return container.NewBorder(nil, nil,
		widget.NewLabel("Text:"),
		container.NewHBox(widget.NewLabel("Size:"), mw.sizeSelect, widget.NewLabel("Color:"), mw.colorSelect),
		mw.textEntry,
	)
}

// setupPointerRouting forwards canvas pointer events to the tool that owns
// them. All canvas coordinates map to document space through the session's
// current zoom; the page sits at the canvas origin.
func (mw *MainWindow) setupPointerRouting() {
	origin := geometry.Point2D{}

	mw.canvas.OnTapped(func(x, y float64) {
		if mw.session.Tool() != editor.ToolText {
			return
		}
		_, err := mw.session.PlaceText(geometry.NewPoint2D(x, y), origin)
		switch {
		case errors.Is(err, editor.ErrEmptyText):
			mw.updateStatus("Enter text before placing")
		case err != nil:
			mw.updateStatus(err.Error())
		default:
			mw.textEntry.SetText("")
		}
	})

	mw.canvas.OnPressed(func(x, y float64) {
		if mw.session.Tool() != editor.ToolErase {
			return
		}
		texts, blurs, err := mw.session.Erase(geometry.NewPoint2D(x, y), origin)
		if err != nil {
			return
		}
		if texts+blurs > 0 {
			mw.updateStatus(fmt.Sprintf("Removed %d annotation(s)", texts+blurs))
		}
	})

	mw.canvas.OnDrag(func(x, y float64) {
		if mw.session.Tool() != editor.ToolBlur {
			return
		}
		p := geometry.NewPoint2D(x, y)
		if !mw.session.DragActive() {
			if err := mw.session.BeginBlurDrag(p, origin); err != nil {
				return
			}
		}
		if rect, ok := mw.session.DragRect(p, origin); ok {
			preview := rect.Scaled(mw.session.Scale())
			mw.canvas.SetPreview(&preview)
		}
	})

	mw.canvas.OnDragEnd(func(x, y float64) {
		if mw.session.Tool() != editor.ToolBlur {
			return
		}
		mw.canvas.SetPreview(nil)
		_, err := mw.session.EndBlurDrag(geometry.NewPoint2D(x, y), origin)
		if errors.Is(err, editor.ErrBlurTooSmall) {
			mw.updateStatus("Blur region too small")
		}
	})

	mw.canvas.OnZoomChange(func(zoom float64) {
		mw.session.SetScale(zoom)
	})
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open PDF...", mw.onOpen),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Export Annotated PDF...", mw.onExport),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() { mw.app.Quit() }),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Zoom In", func() { mw.canvas.ZoomIn() }),
		fyne.NewMenuItem("Zoom Out", func() { mw.canvas.ZoomOut() }),
		fyne.NewMenuItem("Actual Size", func() { mw.canvas.SetZoom(1.0) }),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Next Page", func() { mw.session.NextPage() }),
		fyne.NewMenuItem("Previous Page", func() { mw.session.PrevPage() }),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, viewMenu, helpMenu))
}

// setupEventHandlers registers for session events.
func (mw *MainWindow) setupEventHandlers() {
	mw.session.On(editor.EventDocumentLoaded, func(data interface{}) {
		mw.SetTitle(appTitle + " - " + mw.session.DocName())
		mw.updateStatus(fmt.Sprintf("Loaded %s (%d pages)", mw.session.DocName(), mw.session.NumPages()))
		mw.renderPage()
		mw.syncOverlay()
		mw.updatePageLabel()
		mw.updateDocControls()
	})

	mw.session.On(editor.EventDocumentFailed, func(data interface{}) {
		if err, ok := data.(error); ok {
			dialog.ShowError(err, mw.Window)
		}
		mw.updateStatus("Failed to load document")
		mw.canvas.SetPage(nil)
		mw.updatePageLabel()
		mw.updateDocControls()
	})

	mw.session.On(editor.EventAnnotationsChanged, func(data interface{}) {
		mw.syncOverlay()
	})

	mw.session.On(editor.EventToolChanged, func(data interface{}) {
		if tool, ok := data.(editor.Tool); ok {
			mw.highlightTool(tool)
			mw.updateStatus(tool.String() + " tool")
		}
	})

	mw.session.On(editor.EventPageChanged, func(data interface{}) {
		mw.renderPage()
		mw.updatePageLabel()
	})

	mw.session.On(editor.EventScaleChanged, func(data interface{}) {
		mw.renderPage()
		mw.syncOverlay()
		mw.zoomLabel.SetText(fmt.Sprintf("%.0f%%", mw.session.Scale()*100))
		mw.prefs.SetFloat(prefs.KeyZoom, mw.session.Scale())
	})

	mw.session.On(editor.EventBusyChanged, func(data interface{}) {
		mw.updateDocControls()
	})
}

// renderPage re-renders the current page at the current zoom.
func (mw *MainWindow) renderPage() {
	if mw.session.State() != editor.StateReady {
		return
	}
	img, err := mw.renderer.RenderPage(mw.session.Page(), mw.session.Scale())
	if err != nil {
		mw.updateStatus("Render failed: " + err.Error())
		return
	}
	mw.canvas.SetPage(img)
}

func (mw *MainWindow) syncOverlay() {
	mw.canvas.SetOverlay(mw.session.Overlay())
}

func (mw *MainWindow) highlightTool(active editor.Tool) {
	for tool, btn := range mw.toolButtons {
		if tool == active {
			btn.Importance = widget.HighImportance
		} else {
			btn.Importance = widget.MediumImportance
		}
		btn.Refresh()
	}
}

func (mw *MainWindow) updatePageLabel() {
	if mw.session.State() == editor.StateReady {
		mw.pageLabel.SetText(fmt.Sprintf("Page %d/%d", mw.session.Page(), mw.session.NumPages()))
	} else {
		mw.pageLabel.SetText("Page -/-")
	}
}

// updateDocControls enables or disables the editing controls depending on
// whether a document is loaded and idle.
func (mw *MainWindow) updateDocControls() {
	enabled := mw.session.State() == editor.StateReady && !mw.session.Busy()
	for _, c := range mw.docControls {
		if enabled {
			c.Enable()
		} else {
			c.Disable()
		}
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

// restorePrefs applies persisted text tool and zoom settings.
func (mw *MainWindow) restorePrefs() {
	size := int(mw.prefs.FloatWithFallback(prefs.KeyFontSize, float64(editor.DefaultFontSize)))
	mw.session.SetFontSize(size)
	mw.sizeSelect.SetSelected(strconv.Itoa(size))

	colorName := mw.prefs.StringWithFallback(prefs.KeyTextColor, "Black")
	mw.session.SetTextColor(colorutil.ByName(colorName))
	mw.colorSelect.SetSelected(colorName)

	zoom := mw.prefs.FloatWithFallback(prefs.KeyZoom, editor.DefaultScale)
	mw.canvas.SetZoom(zoom)
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	uri := storage.NewFileURI(path)
	listable, err := storage.ListerForURI(uri)
	if err != nil {
		return nil
	}
	return listable
}

// saveLastDir saves the directory of the given file path.
func (mw *MainWindow) saveLastDir(filePath string) {
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(filePath))
}

// OpenFile loads the document at the given path, as if chosen from the
// open dialog.
func (mw *MainWindow) OpenFile(path string) {
	uri := storage.NewFileURI(path)
	reader, err := storage.Reader(uri)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	mw.loadFrom(reader)
}

// Menu action handlers

func (mw *MainWindow) onOpen() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		mw.loadFrom(reader)
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) loadFrom(reader fyne.URIReadCloser) {
	defer reader.Close()
	path := reader.URI().Path()

	data, err := io.ReadAll(reader)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}

	// Reject non-PDF files before touching the session.
	if !pdfrender.IsPDF(data) {
		dialog.ShowError(editor.ErrInvalidFileType, mw.Window)
		return
	}

	mw.saveLastDir(path)
	mw.updateStatus("Loading " + filepath.Base(path) + "...")
	// Errors surface through EventDocumentFailed.
	_ = mw.session.Load(data, filepath.Base(path))
}

func (mw *MainWindow) onExport() {
	if mw.session.State() != editor.StateReady {
		mw.updateStatus("Load a document first")
		return
	}

	fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		mw.saveLastDir(path)

		data, err := mw.session.Export()
		if err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		if _, err := writer.Write(data); err != nil {
			dialog.ShowError(err, mw.Window)
			return
		}
		mw.updateStatus("Exported " + filepath.Base(path))
	}, mw.Window)

	fd.SetFileName(annotatedName(mw.session.DocName()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

// annotatedName derives the default export file name from the source name.
func annotatedName(docName string) string {
	base := strings.TrimSuffix(docName, filepath.Ext(docName))
	if base == "" {
		base = "document"
	}
	return base + "-annotated.pdf"
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"A visual PDF annotation tool.\n\n"+
			"Place text, blur regions, and export a flattened copy.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
