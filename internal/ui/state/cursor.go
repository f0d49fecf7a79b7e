package state

// MoveCursorUp steps to the previous candidate, wrapping to the last one.
func (l *Level) MoveCursorUp() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	if l.Cursor > 0 && l.Cursor < n {
		return l.setCursor(l.Cursor - 1)
	}
	return l.setCursor(n - 1)
}

// MoveCursorDown steps to the next candidate, wrapping to the first one.
func (l *Level) MoveCursorDown() bool {
	n := len(l.Items)
	if n == 0 {
		l.Cursor = 0
		return false
	}
	if l.Cursor >= 0 && l.Cursor < n-1 {
		return l.setCursor(l.Cursor + 1)
	}
	return l.setCursor(0)
}

// MoveCursorHome moves the cursor to the first candidate.
func (l *Level) MoveCursorHome() bool {
	return l.setCursor(0)
}

// MoveCursorEnd moves the cursor to the last candidate.
func (l *Level) MoveCursorEnd() bool {
	return l.setCursor(len(l.Items) - 1)
}

// MoveCursorPageUp moves up by one screenful of visible rows. Paging never
// wraps.
func (l *Level) MoveCursorPageUp(visible int) bool {
	return l.setCursor(l.Cursor - l.page(visible))
}

// MoveCursorPageDown moves down by one screenful of visible rows.
func (l *Level) MoveCursorPageDown(visible int) bool {
	return l.setCursor(l.Cursor + l.page(visible))
}

// setCursor clamps pos into the candidate list and reports whether the
// cursor moved.
func (l *Level) setCursor(pos int) bool {
	old := l.Cursor
	l.Cursor = clamp(pos, 0, len(l.Items)-1)
	return len(l.Items) > 0 && l.Cursor != old
}

func (l *Level) page(visible int) int {
	n := len(l.Items)
	if visible <= 0 || visible > n {
		visible = n
	}
	return max(visible, 1)
}

// EnsureCursorVisible scrolls the list window so the cursor row is inside
// the visible rows. A non-positive visible count disables windowing.
func (l *Level) EnsureCursorVisible(visible int) {
	n := len(l.Items)
	l.Cursor = clamp(l.Cursor, 0, n-1)
	if n == 0 || visible <= 0 {
		l.ViewportOffset = 0
		return
	}
	offset := clamp(l.ViewportOffset, 0, max(n-visible, 0))
	switch {
	case l.Cursor < offset:
		offset = l.Cursor
	case l.Cursor >= offset+visible:
		offset = l.Cursor - visible + 1
	}
	l.ViewportOffset = offset
}

// clamp bounds v to [lo, hi]; an empty range (hi < lo) yields lo.
func clamp(v, lo, hi int) int {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}
