package ui

import (
	"fmt"
	"strings"

	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m *Model) handleKeyMsg(msg tea.Msg) tea.Cmd {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}
	if handled, cmd := m.handleTextInput(keyMsg); handled {
		return cmd
	}
	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		return tea.Quit
	case key.Matches(keyMsg, m.keys.Back):
		return m.handleEscapeKey()
	case key.Matches(keyMsg, m.keys.Commit):
		return m.handleEnterKey()
	case key.Matches(keyMsg, m.keys.NextTab):
		return m.switchTab(1)
	case key.Matches(keyMsg, m.keys.PrevTab):
		return m.switchTab(-1)
	case key.Matches(keyMsg, m.keys.Refresh):
		return m.handleRefreshKey()
	case key.Matches(keyMsg, m.keys.Search):
		return m.handleSearchKey()
	case key.Matches(keyMsg, m.keys.Reset):
		return m.handleResetKey()
	case key.Matches(keyMsg, m.keys.Up):
		m.moveCursorUp()
	case key.Matches(keyMsg, m.keys.Down):
		m.moveCursorDown()
	case key.Matches(keyMsg, m.keys.PageUp):
		m.moveCursorPageUp()
	case key.Matches(keyMsg, m.keys.PageDown):
		m.moveCursorPageDown()
	case key.Matches(keyMsg, m.keys.Home):
		m.moveCursorHome()
	case key.Matches(keyMsg, m.keys.End):
		m.moveCursorEnd()
	case key.Matches(keyMsg, m.keys.ScrollUp):
		m.scrollBody(-1)
	case key.Matches(keyMsg, m.keys.ScrollDown):
		m.scrollBody(1)
	}
	return nil
}

// activate starts the panel at idx the first time it is shown.
func (m *Model) activate(idx int) tea.Cmd {
	p := m.registry.At(idx)
	if p == nil || idx >= len(m.views) {
		return nil
	}
	view := m.views[idx]
	if view.started {
		return nil
	}
	view.started = true
	jobs := p.Start()
	m.syncPanel(idx)
	return m.runJobs(jobs)
}

func (m *Model) switchTab(delta int) tea.Cmd {
	n := m.registry.Len()
	if n <= 1 {
		return nil
	}
	m.active = ((m.active+delta)%n + n) % n
	m.errMsg = ""
	m.forceClearInfo()
	p := m.registry.At(m.active)
	events.UI.Tab(p.ID())
	return m.activate(m.active)
}

func (m *Model) handleEscapeKey() tea.Cmd {
	p, view := m.activePanel()
	if p == nil || view.focus == 0 {
		return tea.Quit
	}
	view.focus--
	events.UI.Focus(p.ID(), view.focus)
	m.errMsg = ""
	m.forceClearInfo()
	m.syncViewport(view.levels[view.focus])
	return nil
}

func (m *Model) handleEnterKey() tea.Cmd {
	p, view := m.activePanel()
	if p == nil {
		return nil
	}
	current := m.focusedLevel()
	if current == nil {
		return nil
	}
	entity, ok := current.Current()
	if !ok {
		if st := p.Chain().Stage(view.focus); st != nil && st.Loading {
			m.setInfo(fmt.Sprintf("Still loading %s options.", current.Title))
		}
		return nil
	}
	events.UI.Commit(p.ID(), current.ID, entity.Key, current.Filter)
	m.errMsg = ""
	m.forceClearInfo()
	jobs := p.Commit(view.focus, entity)
	if committed, ok := p.Chain().Committed(view.focus); ok && committed.Key == entity.Key {
		if view.focus < len(view.levels)-1 {
			view.focus++
			events.UI.Focus(p.ID(), view.focus)
		}
	}
	m.syncPanel(m.active)
	return m.runJobs(jobs)
}

// handleRefreshKey retries a failed lookup on the focused stage, otherwise
// refetches the panel's current query key.
func (m *Model) handleRefreshKey() tea.Cmd {
	p, view := m.activePanel()
	if p == nil {
		return nil
	}
	m.errMsg = ""
	jobs := p.Retry(view.focus)
	if len(jobs) == 0 {
		jobs = p.Refresh()
	}
	if len(jobs) == 0 {
		if hint := p.Hint(); hint != "" {
			m.setInfo(hint)
		}
		return nil
	}
	m.syncPanel(m.active)
	return m.runJobs(jobs)
}

func (m *Model) handleSearchKey() tea.Cmd {
	p, view := m.activePanel()
	current := m.focusedLevel()
	if p == nil || current == nil {
		return nil
	}
	if strings.TrimSpace(current.Filter) == "" {
		m.setInfo("Type something to search for first.")
		return nil
	}
	jobs := p.Search(view.focus, current.Filter)
	if len(jobs) == 0 {
		// Panels that answered from cached matches have cleared the text.
		if st := p.Chain().Stage(view.focus); st != nil && st.SearchText != "" {
			m.setInfo(fmt.Sprintf("Search is not available for %s.", strings.ToLower(current.Title)))
		}
		m.syncPanel(m.active)
		return nil
	}
	m.errMsg = ""
	m.setInfo(fmt.Sprintf("Searching for %q…", current.Filter))
	return m.runJobs(jobs)
}

func (m *Model) handleResetKey() tea.Cmd {
	p, view := m.activePanel()
	if p == nil {
		return nil
	}
	m.errMsg = ""
	m.forceClearInfo()
	jobs := p.Reset(view.focus)
	m.syncPanel(m.active)
	return m.runJobs(jobs)
}

// syncPanel copies the chain's candidates and search text into the view
// levels and keeps the body scroll tied to the slot key.
func (m *Model) syncPanel(idx int) {
	p := m.registry.At(idx)
	if p == nil || idx >= len(m.views) {
		return
	}
	view := m.views[idx]
	chain := p.Chain()
	for i, lvl := range view.levels {
		st := chain.Stage(i)
		if st == nil {
			continue
		}
		if !lvl.SameItems(st.Candidates) {
			lvl.UpdateItems(st.Candidates)
		}
		if lvl.Filter != st.SearchText {
			lvl.SetFilter(st.SearchText, len([]rune(st.SearchText)))
		}
		if committed, ok := st.Committed(); ok && lvl.Filter == committed.DisplayLabel() {
			if j := lvl.IndexOf(committed.Key); j >= 0 {
				lvl.Cursor = j
			}
		}
		m.syncViewport(lvl)
	}
	if slot := p.Slot(); slot.Key != view.bodyKey {
		view.bodyKey = slot.Key
		view.scroll = 0
	}
}

func (m *Model) moveCursorUp() {
	m.moveCursorWith((*level).MoveCursorUp)
}

func (m *Model) moveCursorDown() {
	m.moveCursorWith((*level).MoveCursorDown)
}

func (m *Model) moveCursorPageUp() {
	m.moveCursorWith(func(l *level) bool { return l.MoveCursorPageUp(m.maxVisibleItems()) })
}

func (m *Model) moveCursorPageDown() {
	m.moveCursorWith(func(l *level) bool { return l.MoveCursorPageDown(m.maxVisibleItems()) })
}

func (m *Model) moveCursorHome() {
	m.moveCursorWith((*level).MoveCursorHome)
}

func (m *Model) moveCursorEnd() {
	m.moveCursorWith((*level).MoveCursorEnd)
}

func (m *Model) moveCursorWith(move func(*level) bool) {
	if current := m.focusedLevel(); current != nil {
		if move(current) {
			events.UI.Cursor(current.ID, current.Cursor)
		}
		m.syncViewport(current)
	}
}

func (m *Model) scrollBody(delta int) {
	p, view := m.activePanel()
	if p == nil {
		return
	}
	view.scroll += delta
	maxOffset := 0
	if room := m.bodyRoom(); room > 0 {
		maxOffset = len(p.Body(m.bodyWidth())) - room
	}
	if maxOffset < 0 {
		maxOffset = 0
	}
	if view.scroll > maxOffset {
		view.scroll = maxOffset
	}
	if view.scroll < 0 {
		view.scroll = 0
	}
}

func (m *Model) syncViewport(l *level) {
	if l == nil {
		return
	}
	l.EnsureCursorVisible(m.maxVisibleItems())
}
