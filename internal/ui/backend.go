package ui

import (
	"github.com/atomicstack/pulse-dash/internal/backend"
	"github.com/atomicstack/pulse-dash/internal/fetch"
	tea "github.com/charmbracelet/bubbletea"
)

func waitForBackendEvent(w *backend.Watcher) tea.Cmd {
	return func() tea.Msg {
		evt, ok := <-w.Events()
		if !ok {
			return backendDoneMsg{}
		}
		return backendEventMsg{event: evt}
	}
}

type backendEventMsg struct {
	event backend.Event
}

type backendDoneMsg struct{}

func (m *Model) handleBackendEventMsg(msg tea.Msg) tea.Cmd {
	eventMsg, ok := msg.(backendEventMsg)
	if !ok {
		return nil
	}
	cmd := m.applyBackendEvent(eventMsg.event)
	if m.backend != nil {
		waitCmd := waitForBackendEvent(m.backend)
		if cmd != nil {
			return tea.Batch(cmd, waitCmd)
		}
		return waitCmd
	}
	return cmd
}

func (m *Model) handleBackendDoneMsg(tea.Msg) tea.Cmd {
	m.backend = nil
	return nil
}

// applyBackendEvent refetches the active panel on a refresh tick. Panels
// that are idle or still busy are left alone so ticks never pile up
// requests.
func (m *Model) applyBackendEvent(backend.Event) tea.Cmd {
	p, view := m.activePanel()
	if p == nil || !view.started || m.inflight[p.ID()] > 0 {
		return nil
	}
	switch p.Slot().Status {
	case fetch.Ready, fetch.Failed:
	default:
		return nil
	}
	jobs := p.Refresh()
	m.syncPanel(m.active)
	return m.runJobs(jobs)
}
