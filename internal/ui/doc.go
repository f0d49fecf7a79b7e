// Package ui contains the Bubble Tea program that renders the dashboard.
// The Model type focuses on message orchestration, while dedicated helpers
// own navigation, filter input, rendering and background jobs.
//
// Message flow:
//   - Bubble Tea invokes Model.Update with incoming messages, which are
//     routed through a typed handler registry so each tea.Msg is handled by
//     a focused function (key presses, window size, finished jobs, refresh
//     ticks, spinner frames).
//   - Key handling first offers the key to the filter editor of the focused
//     stage (internal/ui/input.go); anything it does not consume is matched
//     against the key map (internal/ui/keys.go) by navigation.go.
//
// State ownership:
//   - Each tab is a panel.Panel that owns its selector chain and fetcher.
//     The UI never mutates them directly except through the Panel methods
//     and Chain.SetSearchText.
//   - Per-stage cursor, filter caret and viewport live in
//     internal/ui/state.Level. syncPanel copies candidates and search text
//     from the chain into the levels after every change.
//
// Background work:
//   - Panel methods return panel.Job values. runJobs hands them to the
//     command bus (internal/ui/command), which runs each under a timeout and
//     reports back as a jobDoneMsg. The job's Outcome is then applied on the
//     UI goroutine, where stale results are discarded by the panel itself.
//   - A backend.Watcher emits periodic ticks; each tick refetches the active
//     panel when it is showing a Ready or Failed slot.
package ui
