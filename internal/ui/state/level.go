package state

import (
	"github.com/atomicstack/pulse-dash/internal/selector"
)

// Level encapsulates the view state of one stage list: cursor position,
// filter text and viewport.
type Level struct {
	ID             string
	Title          string
	Items          []selector.Entity
	Full           []selector.Entity
	Filter         string
	FilterCursor   int
	Cursor         int
	LastCursor     int
	ViewportOffset int
}

// NewLevel constructs a Level over the provided candidates.
func NewLevel(id, title string, items []selector.Entity) *Level {
	l := &Level{
		ID:         id,
		Title:      title,
		LastCursor: -1,
	}
	l.UpdateItems(items)
	return l
}

// IndexOf returns the visible index of the entity with key.
func (l *Level) IndexOf(key string) int {
	if key == "" {
		return -1
	}
	for i, item := range l.Items {
		if item.Key == key {
			return i
		}
	}
	return -1
}

// Current returns the entity under the cursor.
func (l *Level) Current() (selector.Entity, bool) {
	if l.Cursor < 0 || l.Cursor >= len(l.Items) {
		return selector.Entity{}, false
	}
	return l.Items[l.Cursor], true
}

// UpdateItems replaces the candidates while keeping the viewport if possible.
func (l *Level) UpdateItems(items []selector.Entity) {
	prevOffset := l.ViewportOffset
	l.Full = selector.CloneEntities(items)
	l.applyFilter()
	if len(l.Items) == 0 {
		l.ViewportOffset = 0
		return
	}
	if prevOffset < 0 {
		prevOffset = 0
	}
	if prevOffset > len(l.Items)-1 {
		l.ViewportOffset = 0
		return
	}
	l.ViewportOffset = prevOffset
}

// SameItems reports whether items matches the level's current candidates.
func (l *Level) SameItems(items []selector.Entity) bool {
	if len(items) != len(l.Full) {
		return false
	}
	for i := range items {
		if items[i] != l.Full[i] {
			return false
		}
	}
	return true
}
