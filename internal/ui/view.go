package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/remote"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

const (
	stageColumnMin      = 24
	stageColumnMax      = 40
	stageColumnFraction = 0.35
	columnGap           = 2
	headerRows          = 2 // tab bar + blank
	slotHeaderRows      = 2 // slot title + blank
)

type styledLine struct {
	text          string
	style         *lipgloss.Style
	prefixStyle   *lipgloss.Style
	highlightFrom int
	raw           bool // text already carries ANSI escapes
}

// View implements tea.Model.
func (m *Model) View() string {
	p, view := m.activePanel()
	if p == nil {
		return renderLines([]styledLine{{text: "No panels configured.", style: m.styles.Info}})
	}
	header := applyWidth([]styledLine{{text: m.tabBar(), raw: true}, {}}, m.width)

	bodyH := m.bodyHeight()
	left := m.stageColumn(p, view)
	if bodyH > 0 {
		left = limitHeight(left, bodyH, m.stageColumnWidth())
	}
	left = applyWidth(left, m.stageColumnWidth())
	leftStr := padColumn(renderLines(left), m.stageColumnWidth(), bodyH)

	right := applyWidth(m.slotColumn(p, view), m.bodyWidth())
	rightStr := padColumn(renderLines(right), m.bodyWidth(), bodyH)

	gap := strings.Repeat(" ", columnGap)
	columns := lipgloss.JoinHorizontal(lipgloss.Top, leftStr, gap, rightStr)

	bottom := applyWidth(m.bottomLines(), m.width)
	return renderLines(header) + "\n" + columns + "\n" + renderLines(bottom)
}

func (m *Model) tabBar() string {
	panels := m.registry.Panels()
	tabs := make([]string, 0, len(panels))
	for i, p := range panels {
		style := m.styles.TabInactive
		if i == m.active {
			style = m.styles.TabActive
		}
		if style == nil {
			tabs = append(tabs, " "+p.Title()+" ")
			continue
		}
		tabs = append(tabs, style.Render(p.Title()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// stageColumn lists every stage of the panel: committed ones collapse to
// their title and value, the focused one expands into its filter prompt and
// candidate list.
func (m *Model) stageColumn(p panel.Panel, view *panelView) []styledLine {
	chain := p.Chain()
	lines := make([]styledLine, 0, 16)
	for i, lvl := range view.levels {
		st := chain.Stage(i)
		focused := i == view.focus
		marker := "  "
		if focused {
			marker = "› "
		}
		title := styledLine{text: marker + lvl.Title, style: m.styles.StageTitle}
		if committed, ok := st.Committed(); ok {
			title.text = fmt.Sprintf("%s%s: %s", marker, lvl.Title, committed.DisplayLabel())
			title.style = m.styles.StageCommitted
		} else if !focused {
			title.style = m.styles.StagePending
		}
		lines = append(lines, title)

		switch {
		case st.Loading:
			lines = append(lines, styledLine{text: "  " + m.spinner.View() + " loading…", raw: true})
			continue
		case st.Err != nil:
			lines = append(lines, styledLine{text: "  " + st.Err.Error(), style: m.styles.Error})
			if focused {
				lines = append(lines, styledLine{text: "  ctrl+r to retry", style: m.styles.Muted})
			}
			continue
		}
		if !focused {
			continue
		}
		lines = append(lines, styledLine{text: m.filterPrompt(lvl), raw: true})
		lines = append(lines, m.itemLines(lvl)...)
	}
	return lines
}

func (m *Model) itemLines(lvl *level) []styledLine {
	if len(lvl.Items) == 0 {
		msg := "(no entries)"
		if lvl.Filter != "" {
			msg = fmt.Sprintf("No matches for %q", lvl.Filter)
		}
		return []styledLine{{text: "  " + msg, style: m.styles.Info}}
	}
	m.syncViewport(lvl)
	start := 0
	display := lvl.Items
	if maxItems := m.maxVisibleItems(); maxItems > 0 && len(display) > maxItems {
		start = lvl.ViewportOffset
		if start+maxItems > len(display) {
			start = len(display) - maxItems
		}
		if start < 0 {
			start = 0
		}
		display = display[start : start+maxItems]
	}
	width := m.stageColumnWidth()
	lines := make([]styledLine, 0, len(display))
	for i, item := range display {
		lineStyle := m.styles.Item
		indicatorStyle := m.styles.ItemIndicator
		if start+i == lvl.Cursor {
			lineStyle = m.styles.SelectedItem
			indicatorStyle = m.styles.SelectedItemIndicator
		}
		text := "▌ " + item.DisplayLabel()
		if pad := width - len([]rune(text)); width > 0 && pad > 0 {
			text += strings.Repeat(" ", pad)
		}
		lines = append(lines, styledLine{text: text, style: lineStyle, prefixStyle: indicatorStyle, highlightFrom: 1})
	}
	return lines
}

// slotColumn renders the fetch slot: the body when Ready, a spinner while
// Loading, the error styled by kind when Failed and the hint when Idle.
func (m *Model) slotColumn(p panel.Panel, view *panelView) []styledLine {
	slot := p.Slot()
	title := p.Title()
	if slot.Key != "" {
		title = fmt.Sprintf("%s · %s", p.Title(), slot.Key)
	}
	lines := []styledLine{{text: title, style: m.styles.BodyTitle}, {}}
	switch slot.Status {
	case fetch.Loading:
		lines = append(lines, styledLine{text: m.spinner.View() + " Loading " + slot.Key + "…", raw: true})
	case fetch.Failed:
		lines = append(lines, styledLine{text: slot.Message, style: m.errorStyle(slot.ErrKind)})
		lines = append(lines, styledLine{}, styledLine{text: "ctrl+r to retry", style: m.styles.Muted})
	case fetch.Ready:
		body := p.Body(m.bodyWidth())
		room := m.bodyRoom()
		offset := view.scroll
		if room > 0 && len(body) > room {
			if offset > len(body)-room {
				offset = len(body) - room
			}
			body = body[offset : offset+room]
		}
		for _, line := range body {
			lines = append(lines, styledLine{text: line, style: m.styles.Body})
		}
	default:
		lines = append(lines, styledLine{text: p.Hint(), style: m.styles.Muted})
	}
	return lines
}

func (m *Model) errorStyle(kind remote.Kind) *lipgloss.Style {
	switch kind {
	case remote.KindNetwork:
		return m.styles.NetworkError
	case remote.KindUpstream:
		return m.styles.UpstreamError
	case remote.KindEmpty:
		return m.styles.EmptyResult
	default:
		return m.styles.Error
	}
}

func (m *Model) bottomLines() []styledLine {
	lines := make([]styledLine, 0, 3)
	if m.errMsg != "" {
		lines = append(lines, styledLine{text: "Error: " + m.errMsg, style: m.styles.Error})
	} else if info := m.currentInfo(); info != "" {
		lines = append(lines, styledLine{text: info, style: m.styles.Info})
	} else {
		lines = append(lines, styledLine{})
	}
	if m.showFooter {
		m.help.Width = m.width
		lines = append(lines, styledLine{text: m.help.View(m.keys), raw: true})
	}
	return lines
}

func (m *Model) bottomRows() int {
	if m.showFooter {
		return 2
	}
	return 1
}

// bodyHeight is the number of rows shared by the stage and slot columns.
func (m *Model) bodyHeight() int {
	if m.height <= 0 {
		return -1
	}
	h := m.height - headerRows - m.bottomRows()
	if h < 1 {
		return 1
	}
	return h
}

// bodyRoom is the number of rows left for a Ready body under the slot title.
func (m *Model) bodyRoom() int {
	h := m.bodyHeight()
	if h <= 0 {
		return -1
	}
	if h-slotHeaderRows < 1 {
		return 1
	}
	return h - slotHeaderRows
}

func (m *Model) stageColumnWidth() int {
	if m.width <= 0 {
		return stageColumnMax
	}
	w := int(float64(m.width) * stageColumnFraction)
	if w < stageColumnMin {
		w = stageColumnMin
	}
	if w > stageColumnMax {
		w = stageColumnMax
	}
	return w
}

func (m *Model) bodyWidth() int {
	if m.width <= 0 {
		return 0
	}
	w := m.width - m.stageColumnWidth() - columnGap
	if w < 1 {
		return 1
	}
	return w
}

// maxVisibleItems is the room left for the focused candidate list once the
// stage titles and the filter prompt are placed.
func (m *Model) maxVisibleItems() int {
	h := m.bodyHeight()
	if h <= 0 {
		return -1
	}
	_, view := m.activePanel()
	used := 1
	if view != nil {
		used += len(view.levels)
	}
	remain := h - used
	if remain < 1 {
		return 1
	}
	return remain
}

func (m *Model) handleWindowSizeMsg(msg tea.Msg) tea.Cmd {
	resize, ok := msg.(tea.WindowSizeMsg)
	if !ok {
		return nil
	}
	if !m.fixedWidth {
		m.width = resize.Width
	}
	if !m.fixedHeight {
		m.height = resize.Height
	}
	if current := m.focusedLevel(); current != nil {
		m.syncViewport(current)
	}
	return nil
}

func (m *Model) setInfo(message string) {
	m.infoMsg = message
	m.infoExpire = time.Now().Add(5 * time.Second)
}

func (m *Model) forceClearInfo() {
	m.infoMsg = ""
	m.infoExpire = time.Time{}
}

func (m *Model) currentInfo() string {
	if m.infoMsg != "" && !m.infoExpire.IsZero() && time.Now().After(m.infoExpire) {
		m.infoMsg = ""
		m.infoExpire = time.Time{}
	}
	return m.infoMsg
}

// padColumn pads every row to width visible columns and the block to
// height rows so JoinHorizontal keeps the columns aligned.
func padColumn(block string, width, height int) string {
	rows := strings.Split(block, "\n")
	for height > 0 && len(rows) < height {
		rows = append(rows, "")
	}
	if width <= 0 {
		return strings.Join(rows, "\n")
	}
	for i, row := range rows {
		w := lipgloss.Width(row)
		if w > width {
			rows[i] = truncate.StringWithTail(row, uint(width-1), "…")
		} else if w < width {
			rows[i] = row + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(rows, "\n")
}

func limitHeight(lines []styledLine, height, width int) []styledLine {
	if height <= 0 || len(lines) <= height {
		return lines
	}
	if height == 1 {
		return []styledLine{{text: truncateText("…", width)}}
	}
	trimmed := make([]styledLine, 0, height)
	trimmed = append(trimmed, lines[:height-1]...)
	trimmed = append(trimmed, styledLine{text: truncateText("…", width)})
	return trimmed
}

func applyWidth(lines []styledLine, width int) []styledLine {
	if width <= 0 {
		return lines
	}
	result := make([]styledLine, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			if lipgloss.Width(text) > width {
				text = truncate.StringWithTail(text, uint(width-1), "…")
			}
		} else {
			text = truncateText(text, width)
		}
		line.text = text
		result[i] = line
	}
	return result
}

func renderLines(lines []styledLine) string {
	out := make([]string, len(lines))
	for i, line := range lines {
		text := line.text
		if line.raw {
			out[i] = text
			continue
		}
		runes := []rune(text)
		if line.highlightFrom > 0 && line.highlightFrom < len(runes) {
			head := string(runes[:line.highlightFrom])
			tail := string(runes[line.highlightFrom:])
			if line.prefixStyle != nil {
				head = line.prefixStyle.Render(head)
			}
			if line.style != nil {
				tail = line.style.Render(tail)
			}
			text = head + tail
		} else if line.style != nil && text != "" {
			text = line.style.Render(text)
		}
		out[i] = text
	}
	return strings.Join(out, "\n")
}

func truncateText(text string, width int) string {
	if width <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= width {
		return text
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}
