package editor

import (
	"image/color"
	"strings"

	"pdf-annotator/internal/annotation"
	"pdf-annotator/pkg/geometry"
)

// Tool represents the active editing mode.
type Tool int

const (
	ToolSelect Tool = iota
	ToolText
	ToolBlur
	ToolErase
)

// String returns the tool's display name.
func (t Tool) String() string {
	switch t {
	case ToolSelect:
		return "Select"
	case ToolText:
		return "Text"
	case ToolBlur:
		return "Blur"
	case ToolErase:
		return "Erase"
	}
	return "Unknown"
}

// MinBlurSize is the threshold a blur drag must exceed in both dimensions,
// in document units. Exactly MinBlurSize is rejected.
const MinBlurSize = 10

// EraseRadius is the erase tool's pick distance for text anchors, in
// document units. The boundary is inclusive.
const EraseRadius = 30

type dragState struct {
	start geometry.Point2D // document space
}

// Tool returns the active tool.
func (s *Session) Tool() Tool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tool
}

// SetTool switches the editing mode. Leaving the blur tool while a drag is
// in progress discards the pending drag without creating a region.
func (s *Session) SetTool(t Tool) {
	s.mu.Lock()
	if s.tool == ToolBlur && t != ToolBlur {
		s.dragStart = nil
	}
	changed := t != s.tool
	s.tool = t
	s.mu.Unlock()

	if changed {
		s.Emit(EventToolChanged, t)
	}
}

// SetPendingText sets the text value used by the next placement click.
func (s *Session) SetPendingText(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingText = value
}

// PendingText returns the pending text value.
func (s *Session) PendingText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pendingText
}

// SetFontSize sets the text-tool font size in points. Non-positive sizes
// are ignored.
func (s *Session) SetFontSize(size int) {
	if size <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fontSize = size
}

// FontSize returns the text-tool font size.
func (s *Session) FontSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.fontSize
}

// SetTextColor sets the text-tool color.
func (s *Session) SetTextColor(c color.RGBA) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.textColor = c
}

// TextColor returns the text-tool color.
func (s *Session) TextColor() color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.textColor
}

// PlaceText handles a primary click in text mode. The screen point is
// mapped to document space; a text annotation is created from the pending
// configuration and the pending value is cleared. A click with an empty
// pending value is rejected with ErrEmptyText and mutates nothing.
func (s *Session) PlaceText(screen, origin geometry.Point2D) (annotation.Text, error) {
	s.mu.Lock()
	if s.state != StateReady {
		s.mu.Unlock()
		return annotation.Text{}, ErrNoDocument
	}
	if strings.TrimSpace(s.pendingText) == "" {
		s.mu.Unlock()
		return annotation.Text{}, ErrEmptyText
	}
	value := s.pendingText
	size := s.fontSize
	col := s.textColor
	scale := s.scale
	s.pendingText = ""
	s.mu.Unlock()

	pos := geometry.ToDocumentSpace(screen, origin, scale)
	t := annotation.NewText(pos, value, size, col)
	s.store.AddText(t)
	s.Emit(EventAnnotationsChanged, nil)
	return t, nil
}

// BeginBlurDrag records the document-space start point of a blur drag.
func (s *Session) BeginBlurDrag(screen, origin geometry.Point2D) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateReady {
		return ErrNoDocument
	}
	if s.tool != ToolBlur {
		return nil
	}
	start := geometry.ToDocumentSpace(screen, origin, s.scale)
	s.dragStart = &dragState{start: start}
	return nil
}

// DragActive reports whether a blur drag is in progress.
func (s *Session) DragActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dragStart != nil
}

// DragRect returns the document-space rectangle between the drag start and
// the given screen point, for rubber-band preview. The second return is
// false when no drag is in progress.
func (s *Session) DragRect(screen, origin geometry.Point2D) (geometry.Rect, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dragStart == nil {
		return geometry.Rect{}, false
	}
	end := geometry.ToDocumentSpace(screen, origin, s.scale)
	return geometry.BoundingRect(s.dragStart.start, end), true
}

// EndBlurDrag completes a blur drag at the given screen point. The drag
// state is cleared unconditionally. A blur region is created only when the
// dragged rectangle exceeds MinBlurSize in both dimensions; otherwise the
// gesture is discarded with ErrBlurTooSmall. Calling without an active
// drag is a no-op returning a zero Blur.
func (s *Session) EndBlurDrag(screen, origin geometry.Point2D) (annotation.Blur, error) {
	s.mu.Lock()
	if s.dragStart == nil {
		s.mu.Unlock()
		return annotation.Blur{}, nil
	}
	start := s.dragStart.start
	scale := s.scale
	s.dragStart = nil
	s.mu.Unlock()

	end := geometry.ToDocumentSpace(screen, origin, scale)
	rect := geometry.BoundingRect(start, end)
	if rect.Width <= MinBlurSize || rect.Height <= MinBlurSize {
		return annotation.Blur{}, ErrBlurTooSmall
	}

	b := annotation.NewBlur(rect)
	s.store.AddBlur(b)
	s.Emit(EventAnnotationsChanged, nil)
	return b, nil
}

// CancelBlurDrag discards a pending blur drag, if any.
func (s *Session) CancelBlurDrag() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dragStart = nil
}

// Erase handles a pointer press in erase mode. Every text annotation whose
// anchor lies within EraseRadius of the click and every blur region whose
// rectangle contains the click is removed. Both rules fire independently;
// zero matches is a no-op, not an error.
func (s *Session) Erase(screen, origin geometry.Point2D) (removedTexts, removedBlurs int, err error) {
	s.mu.RLock()
	ready := s.state == StateReady
	scale := s.scale
	s.mu.RUnlock()
	if !ready {
		return 0, 0, ErrNoDocument
	}

	p := geometry.ToDocumentSpace(screen, origin, scale)
	for _, t := range s.store.TextsNear(p, EraseRadius) {
		s.store.RemoveText(t.ID)
		removedTexts++
	}
	for _, b := range s.store.BlursAt(p) {
		s.store.RemoveBlur(b.ID)
		removedBlurs++
	}

	if removedTexts+removedBlurs > 0 {
		s.Emit(EventAnnotationsChanged, nil)
	}
	return removedTexts, removedBlurs, nil
}
