package ui

import (
	"unicode"

	"github.com/atomicstack/pulse-dash/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func (m *Model) updateFilterCursorModel(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.filterCursor, cmd = m.filterCursor.Update(msg)
	return cmd
}

func (m *Model) noteFilterCursorChange(l *level, before int) {
	if l == nil {
		return
	}
	if before != l.FilterCursorPos() {
		m.filterCursorDirty = true
	}
}

// handleTextInput applies filter edits to the focused stage. Every edit is
// mirrored into the chain's search text so a later commit sees it.
func (m *Model) handleTextInput(msg tea.KeyMsg) (bool, tea.Cmd) {
	current := m.focusedLevel()
	if current == nil {
		return false, nil
	}
	switch msg.String() {
	case "ctrl+u":
		if current.Filter == "" {
			return false, nil
		}
		before := current.FilterCursorPos()
		current.SetFilter("", 0)
		m.filterEdited(current, before)
		events.Filter.Cleared(current.ID)
		return true, nil
	case "ctrl+w":
		before := current.FilterCursorPos()
		if !current.DeleteFilterWordBackward() {
			return false, nil
		}
		m.filterEdited(current, before)
		events.Filter.WordBackspace(current.ID, current.Filter)
		return true, nil
	case "ctrl+a":
		return m.moveFilterCaret(current, current.MoveFilterCursorStart, false), nil
	case "ctrl+e":
		return m.moveFilterCaret(current, current.MoveFilterCursorEnd, false), nil
	case "alt+b":
		return m.moveFilterCaret(current, current.MoveFilterCursorWordBackward, true), nil
	case "alt+f":
		return m.moveFilterCaret(current, current.MoveFilterCursorWordForward, true), nil
	}
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyCtrlH:
		return m.removeFilterRune(), nil
	case tea.KeyRunes:
		if msg.Alt || len(msg.Runes) == 0 {
			return false, nil
		}
		for _, r := range msg.Runes {
			if unicode.IsControl(r) {
				return false, nil
			}
		}
		return m.appendToFilter(string(msg.Runes)), nil
	case tea.KeySpace:
		return m.appendToFilter(" "), nil
	case tea.KeyLeft:
		return m.moveFilterCaret(current, current.MoveFilterCursorRuneBackward, false), nil
	case tea.KeyRight:
		return m.moveFilterCaret(current, current.MoveFilterCursorRuneForward, false), nil
	}
	return false, nil
}

func (m *Model) moveFilterCaret(current *level, move func() bool, word bool) bool {
	before := current.FilterCursorPos()
	if !move() {
		return false
	}
	m.noteFilterCursorChange(current, before)
	if word {
		events.Filter.CursorWord(current.ID, current.FilterCursor)
	} else {
		events.Filter.Cursor(current.ID, current.FilterCursor)
	}
	return true
}

// filterEdited pushes the focused level's filter into the chain.
func (m *Model) filterEdited(current *level, before int) {
	m.noteFilterCursorChange(current, before)
	m.forceClearInfo()
	m.errMsg = ""
	if p, view := m.activePanel(); p != nil {
		p.Chain().SetSearchText(view.focus, current.Filter)
	}
	m.syncViewport(current)
}

func (m *Model) appendToFilter(text string) bool {
	current := m.focusedLevel()
	if current == nil || text == "" {
		return false
	}
	before := current.FilterCursorPos()
	if !current.InsertFilterText(text) {
		return false
	}
	m.filterEdited(current, before)
	events.Filter.Append(current.ID, current.Filter)
	return true
}

func (m *Model) removeFilterRune() bool {
	current := m.focusedLevel()
	if current == nil {
		return false
	}
	before := current.FilterCursorPos()
	if !current.DeleteFilterRuneBackward() {
		return false
	}
	m.filterEdited(current, before)
	events.Filter.Backspace(current.ID, current.Filter)
	return true
}

// filterPrompt renders the focused level's filter with the caret.
func (m *Model) filterPrompt(current *level) string {
	st := m.styles
	render := func(style *lipgloss.Style, value string) string {
		if style == nil || value == "" {
			return value
		}
		return style.Render(value)
	}
	if st.Cursor != nil {
		m.filterCursor.Style = st.Cursor.Copy()
	}
	if st.Filter != nil {
		m.filterCursor.TextStyle = st.Filter.Copy()
	} else {
		m.filterCursor.TextStyle = lipgloss.Style{}
	}
	prompt := render(st.FilterPrompt, "» ")
	if current == nil {
		return prompt
	}
	if current.Filter == "" {
		runes := []rune("(type to filter)")
		if st.FilterPlaceholder != nil {
			m.filterCursor.TextStyle = st.FilterPlaceholder.Copy()
		}
		return prompt + m.renderFilterCursor(string(runes[0])) + render(st.FilterPlaceholder, string(runes[1:]))
	}
	runes := []rune(current.Filter)
	pos := current.FilterCursorPos()
	caret, after := " ", ""
	if pos < len(runes) {
		caret = string(runes[pos])
		after = render(st.Filter, string(runes[pos+1:]))
	}
	return prompt + render(st.Filter, string(runes[:pos])) + m.renderFilterCursor(caret) + after
}

func (m *Model) renderFilterCursor(char string) string {
	if char == "" {
		char = " "
	}
	m.filterCursor.SetChar(char)
	base := m.filterCursor.TextStyle.Copy().Inline(true)
	if m.filterCursor.Blink {
		return base.Render(char)
	}
	if m.styles.Cursor != nil {
		return base.Inherit(m.styles.Cursor.Copy().Inline(true)).Blink(false).Render(char)
	}
	return base.Reverse(true).Render(char)
}
