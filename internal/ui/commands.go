package ui

import (
	"context"

	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"github.com/atomicstack/pulse-dash/internal/panel"
	"github.com/atomicstack/pulse-dash/internal/ui/command"
	tea "github.com/charmbracelet/bubbletea"
)

// jobDoneMsg carries a finished panel job back to the UI goroutine.
type jobDoneMsg struct {
	job     panel.Job
	outcome panel.Outcome
}

// runJobs schedules panel jobs on the command bus.
func (m *Model) runJobs(jobs []panel.Job) tea.Cmd {
	if len(jobs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(jobs))
	for _, job := range jobs {
		if job.Run == nil {
			continue
		}
		job := job
		m.inflight[job.Panel]++
		cmds = append(cmds, m.bus.Execute(command.Request{
			ID:    job.Panel + "." + job.Kind.String(),
			Label: job.Label,
			Handler: func(ctx context.Context) tea.Msg {
				return jobDoneMsg{job: job, outcome: job.Run(ctx)}
			},
		}))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleJobDoneMsg(msg tea.Msg) tea.Cmd {
	done, ok := msg.(jobDoneMsg)
	if !ok {
		return nil
	}
	if m.inflight[done.job.Panel] > 0 {
		m.inflight[done.job.Panel]--
	}
	if done.outcome == nil {
		return nil
	}
	follow, err := done.outcome()
	if err != nil {
		m.errMsg = err.Error()
		events.UI.Error(err)
	}
	if idx := m.registry.Index(done.job.Panel); idx >= 0 {
		if done.job.Kind == panel.KindSearch && idx == m.active {
			m.forceClearInfo()
		}
		m.syncPanel(idx)
	}
	return m.runJobs(follow)
}

