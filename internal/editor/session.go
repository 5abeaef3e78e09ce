// Package editor holds the session state and the tool state machine for the
// annotation editor.
package editor

import (
	"fmt"
	"image/color"
	"sync"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/pkg/colorutil"
)

// Zoom bounds and defaults for the page view.
const (
	MinScale     = 0.5
	MaxScale     = 3.0
	DefaultScale = 1.0
)

// DefaultFontSize is the initial text-tool font size in points.
const DefaultFontSize = 16

// DocState tracks the document lifecycle.
type DocState int

const (
	StateNoDocument DocState = iota
	StateLoading
	StateReady
	StateLoadFailed
)

// EventType identifies session events.
type EventType int

const (
	EventDocumentLoaded EventType = iota
	EventDocumentFailed
	EventAnnotationsChanged
	EventToolChanged
	EventPageChanged
	EventScaleChanged
	EventBusyChanged
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// Loader is the narrow contract over the document rendering service: parse
// the bytes and report the page count, or fail on malformed input.
type Loader interface {
	Load(data []byte) (numPages int, err error)
}

// Exporter produces new document bytes with the overlays drawn into the
// page content.
type Exporter interface {
	Export(original []byte, page int, texts []annotation.Text, blurs []annotation.Blur) ([]byte, error)
}

// Session holds all editor state for one loaded document: lifecycle,
// current page and zoom, the active tool with its transient state, the
// pending text configuration, and the annotation store.
type Session struct {
	mu sync.RWMutex

	loader   Loader
	exporter Exporter
	store    *annotation.Store

	state    DocState
	docBytes []byte
	docName  string
	numPages int
	page     int
	scale    float64
	busy     bool

	tool        Tool
	dragStart   *dragState
	pendingText string
	fontSize    int
	textColor   color.RGBA

	listeners map[EventType][]EventListener
}

// NewSession creates a session with no document loaded.
func NewSession(loader Loader, exporter Exporter) *Session {
	return &Session{
		loader:    loader,
		exporter:  exporter,
		store:     annotation.NewStore(),
		page:      1,
		scale:     DefaultScale,
		tool:      ToolSelect,
		fontSize:  DefaultFontSize,
		textColor: colorutil.Black,
		listeners: make(map[EventType][]EventListener),
	}
}

// On registers an event listener for the specified event type.
func (s *Session) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *Session) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// Load replaces the current document. The previous document's annotations
// are discarded whether or not the load succeeds; on failure the session is
// left with no document. Returns ErrBusy when a load or export is running.
func (s *Session) Load(data []byte, name string) error {
	if err := s.beginBusy(); err != nil {
		return err
	}
	defer s.endBusy()

	s.mu.Lock()
	s.state = StateLoading
	s.dragStart = nil
	s.mu.Unlock()
	s.store.Clear()

	numPages, err := s.loader.Load(data)
	if err != nil {
		s.mu.Lock()
		s.state = StateNoDocument
		s.docBytes = nil
		s.docName = ""
		s.numPages = 0
		s.page = 1
		s.mu.Unlock()
		wrapped := fmt.Errorf("load %s: %w", name, err)
		s.Emit(EventDocumentFailed, wrapped)
		return wrapped
	}

	s.mu.Lock()
	s.state = StateReady
	s.docBytes = data
	s.docName = name
	s.numPages = numPages
	s.page = 1
	s.mu.Unlock()

	s.Emit(EventDocumentLoaded, name)
	s.Emit(EventAnnotationsChanged, nil)
	return nil
}

// Export burns the current overlays into the active page and returns the
// new document bytes. Only valid in the ready state.
func (s *Session) Export() ([]byte, error) {
	if err := s.beginBusy(); err != nil {
		return nil, err
	}
	defer s.endBusy()

	s.mu.RLock()
	ready := s.state == StateReady
	data := s.docBytes
	page := s.page
	s.mu.RUnlock()
	if !ready {
		return nil, ErrNoDocument
	}

	out, err := s.exporter.Export(data, page, s.store.Texts(), s.store.Blurs())
	if err != nil {
		return nil, fmt.Errorf("export page %d: %w", page, err)
	}
	return out, nil
}

func (s *Session) beginBusy() error {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return ErrBusy
	}
	s.busy = true
	s.mu.Unlock()
	s.Emit(EventBusyChanged, true)
	return nil
}

func (s *Session) endBusy() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
	s.Emit(EventBusyChanged, false)
}

// Busy reports whether a load or export is in flight.
func (s *Session) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.busy
}

// State returns the document lifecycle state.
func (s *Session) State() DocState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Store exposes the annotation store.
func (s *Session) Store() *annotation.Store {
	return s.store
}

// DocName returns the file name of the loaded document, if any.
func (s *Session) DocName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docName
}

// NumPages returns the page count of the loaded document, 0 when none.
func (s *Session) NumPages() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.numPages
}

// Page returns the current 1-based page index.
func (s *Session) Page() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.page
}

// SetPage switches to the given 1-based page, clamped to the document's
// range. Without a document the page stays at 1.
func (s *Session) SetPage(n int) {
	s.mu.Lock()
	if s.numPages == 0 {
		n = 1
	} else if n < 1 {
		n = 1
	} else if n > s.numPages {
		n = s.numPages
	}
	changed := n != s.page
	s.page = n
	s.mu.Unlock()

	if changed {
		s.Emit(EventPageChanged, n)
	}
}

// NextPage advances to the next page if there is one.
func (s *Session) NextPage() { s.SetPage(s.Page() + 1) }

// PrevPage goes back one page if possible.
func (s *Session) PrevPage() { s.SetPage(s.Page() - 1) }

// Scale returns the current zoom factor.
func (s *Session) Scale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// SetScale sets the zoom factor, clamped to [MinScale, MaxScale]. Scale
// affects only the screen projection, never stored coordinates.
func (s *Session) SetScale(scale float64) {
	if scale < MinScale {
		scale = MinScale
	}
	if scale > MaxScale {
		scale = MaxScale
	}

	s.mu.Lock()
	changed := scale != s.scale
	s.scale = scale
	s.mu.Unlock()

	if changed {
		s.Emit(EventScaleChanged, scale)
	}
}
