package annotation

import (
	"sync"

	"pdf-annotator/pkg/geometry"
)

// Store holds the overlay collections for the active session. Entries keep
// creation order, which determines render stacking. All methods are safe for
// concurrent use; the UI thread and async load/export completions share it.
type Store struct {
	mu    sync.RWMutex
	texts []Text
	blurs []Blur
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// AddText appends a text annotation.
func (s *Store) AddText(t Text) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = append(s.texts, t)
}

// AddBlur appends a blur region.
func (s *Store) AddBlur(b Blur) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blurs = append(s.blurs, b)
}

// RemoveText deletes the text annotation with the given id. Unknown ids are
// a no-op.
func (s *Store) RemoveText(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.texts {
		if t.ID == id {
			s.texts = append(s.texts[:i], s.texts[i+1:]...)
			return
		}
	}
}

// RemoveBlur deletes the blur region with the given id. Unknown ids are a
// no-op.
func (s *Store) RemoveBlur(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.blurs {
		if b.ID == id {
			s.blurs = append(s.blurs[:i], s.blurs[i+1:]...)
			return
		}
	}
}

// Clear empties both collections. Called whenever a new document replaces
// the current one.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.texts = nil
	s.blurs = nil
}

// Texts returns a snapshot of the text annotations in creation order.
func (s *Store) Texts() []Text {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Text(nil), s.texts...)
}

// Blurs returns a snapshot of the blur regions in creation order.
func (s *Store) Blurs() []Blur {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Blur(nil), s.blurs...)
}

// Counts returns the number of stored texts and blurs.
func (s *Store) Counts() (texts, blurs int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.texts), len(s.blurs)
}

// TextsNear returns the texts whose anchor lies within radius of p,
// inclusive of the boundary.
func (s *Store) TextsNear(p geometry.Point2D, radius float64) []Text {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []Text
	for _, t := range s.texts {
		if t.Pos.Distance(p) <= radius {
			hits = append(hits, t)
		}
	}
	return hits
}

// BlursAt returns the blur regions whose rectangle contains p, edges
// included.
func (s *Store) BlursAt(p geometry.Point2D) []Blur {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var hits []Blur
	for _, b := range s.blurs {
		if b.Rect.Contains(p) {
			hits = append(hits, b)
		}
	}
	return hits
}
