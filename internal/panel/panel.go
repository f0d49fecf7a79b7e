// Package panel composes a selector chain with a fetcher for each dashboard
// tab. Panels are driven from the UI goroutine: every mutating call returns
// the background Jobs it needs, and each Job yields an Outcome that is
// applied back on the UI goroutine.
package panel

import (
	"context"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/remote"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

// JobKind distinguishes the background work a panel requests.
type JobKind int

const (
	KindLookup JobKind = iota
	KindFetch
	KindSearch
)

func (k JobKind) String() string {
	switch k {
	case KindLookup:
		return "lookup"
	case KindFetch:
		return "fetch"
	case KindSearch:
		return "search"
	default:
		return "unknown"
	}
}

// Outcome applies a finished job. It must run on the UI goroutine and
// returns any follow-up jobs plus an error worth showing to the user.
type Outcome func() ([]Job, error)

// Job is one unit of background work. Run must not touch panel state other
// than through the Outcome it returns.
type Job struct {
	Panel string
	Kind  JobKind
	Label string
	Run   func(ctx context.Context) Outcome
}

// SlotView is the type-erased state of a panel's fetch slot.
type SlotView struct {
	Key     string
	Status  fetch.Status
	ErrKind remote.Kind
	Message string
}

// Panel is one dashboard tab.
type Panel interface {
	ID() string
	Title() string
	Chain() *selector.Chain
	// Start issues the first stage lookup.
	Start() []Job
	// Commit confirms e at stage and cascades.
	Commit(stage int, e selector.Entity) []Job
	// Reset clears stages from onwards and reloads stage from.
	Reset(from int) []Job
	// Retry re-runs the failed lookup at stage, or the fetch when stage is
	// the last one and the chain is complete.
	Retry(stage int) []Job
	// Refresh re-issues the current fetch.
	Refresh() []Job
	// Search resolves free text at stage into a commitment. Panels that do
	// not support search return nil.
	Search(stage int, text string) []Job
	QueryKey() (string, bool)
	Slot() SlotView
	// Body renders the Ready slot as plain lines.
	Body(width int) []string
	// Hint describes what the panel waits for while Idle.
	Hint() string
}
