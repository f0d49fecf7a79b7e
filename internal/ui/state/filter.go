package state

import (
	"strings"
	"unicode"

	"github.com/atomicstack/pulse-dash/internal/selector"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// SetFilter replaces the filter text and caret. Starting a filter remembers
// the cursor so clearing it again returns there; while a filter is active the
// cursor follows the best match.
func (l *Level) SetFilter(query string, caret int) {
	active := strings.TrimSpace(query)
	wasActive := strings.TrimSpace(l.Filter) != ""
	l.Filter = query
	l.FilterCursor = clamp(caret, 0, len([]rune(query)))

	switch {
	case active != "":
		if !wasActive {
			l.LastCursor = l.Cursor
		}
		l.applyFilter()
		l.Cursor = max(BestMatchIndex(l.Items, active), 0)
	case wasActive:
		l.applyFilter()
		l.Cursor = 0
		if l.LastCursor >= 0 && l.LastCursor < len(l.Items) {
			l.Cursor = l.LastCursor
		}
		l.LastCursor = -1
	default:
		l.applyFilter()
	}
}

// applyFilter recomputes the visible items from Full and keeps the cursor
// and window inside them.
func (l *Level) applyFilter() {
	l.Items = selector.Filter(l.Full, l.Filter)
	l.Cursor = clamp(l.Cursor, 0, len(l.Items)-1)
	if l.ViewportOffset >= len(l.Items) {
		l.ViewportOffset = 0
	}
}

// FilterCursorPos returns the caret as a rune offset clamped to the filter.
func (l *Level) FilterCursorPos() int {
	return clamp(l.FilterCursor, 0, len([]rune(l.Filter)))
}

// InsertFilterText inserts text at the caret.
func (l *Level) InsertFilterText(text string) bool {
	insert := []rune(text)
	if len(insert) == 0 {
		return false
	}
	runes, pos := l.caret()
	updated := make([]rune, 0, len(runes)+len(insert))
	updated = append(append(append(updated, runes[:pos]...), insert...), runes[pos:]...)
	l.SetFilter(string(updated), pos+len(insert))
	return true
}

// DeleteFilterRuneBackward removes the rune before the caret.
func (l *Level) DeleteFilterRuneBackward() bool {
	runes, pos := l.caret()
	if pos == 0 {
		return false
	}
	return l.cut(runes, pos-1, pos)
}

// DeleteFilterWordBackward removes the word before the caret along with any
// spaces between it and the caret.
func (l *Level) DeleteFilterWordBackward() bool {
	runes, pos := l.caret()
	if pos == 0 {
		return false
	}
	return l.cut(runes, wordLeft(runes, pos), pos)
}

func (l *Level) MoveFilterCursorStart() bool {
	return l.moveCaret(0)
}

func (l *Level) MoveFilterCursorEnd() bool {
	return l.moveCaret(len([]rune(l.Filter)))
}

// MoveFilterCursorWordBackward jumps to the start of the previous word.
func (l *Level) MoveFilterCursorWordBackward() bool {
	runes, pos := l.caret()
	return l.moveCaret(wordLeft(runes, pos))
}

// MoveFilterCursorWordForward jumps past the next word and its trailing
// spaces.
func (l *Level) MoveFilterCursorWordForward() bool {
	runes, pos := l.caret()
	return l.moveCaret(wordRight(runes, pos))
}

func (l *Level) MoveFilterCursorRuneBackward() bool {
	return l.moveCaret(l.FilterCursorPos() - 1)
}

func (l *Level) MoveFilterCursorRuneForward() bool {
	return l.moveCaret(l.FilterCursorPos() + 1)
}

func (l *Level) caret() ([]rune, int) {
	return []rune(l.Filter), l.FilterCursorPos()
}

// cut removes runes[from:to] and leaves the caret at from.
func (l *Level) cut(runes []rune, from, to int) bool {
	if from >= to {
		return false
	}
	updated := append(append([]rune(nil), runes[:from]...), runes[to:]...)
	l.SetFilter(string(updated), from)
	return true
}

// moveCaret places the caret at pos, clamped, without touching the filter.
func (l *Level) moveCaret(pos int) bool {
	old := l.FilterCursorPos()
	pos = clamp(pos, 0, len([]rune(l.Filter)))
	if pos == old {
		return false
	}
	l.FilterCursor = pos
	return true
}

func wordLeft(runes []rune, pos int) int {
	for pos > 0 && unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	for pos > 0 && !unicode.IsSpace(runes[pos-1]) {
		pos--
	}
	return pos
}

func wordRight(runes []rune, pos int) int {
	for pos < len(runes) && !unicode.IsSpace(runes[pos]) {
		pos++
	}
	for pos < len(runes) && unicode.IsSpace(runes[pos]) {
		pos++
	}
	return pos
}

// BestMatchIndex picks the entity the cursor should land on for query:
// exact label or key, then label prefix, then key prefix, then the closest
// fuzzy match. Visible items already contain query as a substring, so the
// fuzzy pass only ranks them.
func BestMatchIndex(items []selector.Entity, query string) int {
	if len(items) == 0 {
		return -1
	}
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return 0
	}
	lower := strings.ToLower(trimmed)
	passes := []func(selector.Entity) bool{
		func(e selector.Entity) bool {
			return strings.EqualFold(e.DisplayLabel(), trimmed) || strings.EqualFold(e.Key, trimmed)
		},
		func(e selector.Entity) bool { return strings.HasPrefix(strings.ToLower(e.DisplayLabel()), lower) },
		func(e selector.Entity) bool { return strings.HasPrefix(strings.ToLower(e.Key), lower) },
	}
	for _, match := range passes {
		for i, item := range items {
			if match(item) {
				return i
			}
		}
	}
	labels := make([]string, len(items))
	for i, item := range items {
		labels[i] = item.DisplayLabel()
	}
	ranks := fuzzy.RankFindNormalizedFold(trimmed, labels)
	if len(ranks) == 0 {
		return 0
	}
	best := ranks[0]
	for _, rank := range ranks[1:] {
		if rank.Distance < best.Distance || (rank.Distance == best.Distance && rank.OriginalIndex < best.OriginalIndex) {
			best = rank
		}
	}
	if best.OriginalIndex < 0 || best.OriginalIndex >= len(items) {
		return 0
	}
	return best.OriginalIndex
}
