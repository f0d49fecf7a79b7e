package command

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atomicstack/pulse-dash/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// Handler performs the background half of a request and reports back as a
// Bubble Tea message.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates one background invocation.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// Bus turns requests into traced Bubble Tea commands, each bounded by the
// bus timeout.
type Bus struct {
	timeout time.Duration
}

// New initialises a command bus. A non-positive timeout leaves handlers
// unbounded.
func New(timeout time.Duration) *Bus {
	return &Bus{timeout: timeout}
}

// Timeout returns the per-request deadline.
func (b *Bus) Timeout() time.Duration {
	if b == nil {
		return 0
	}
	return b.timeout
}

// Execute wraps req into a Bubble Tea command while emitting trace logs.
func (b *Bus) Execute(req Request) tea.Cmd {
	events.Command.Queue(req.ID, req.Label)
	if req.Handler == nil {
		events.Command.Skip(req.ID, req.Label)
		return nil
	}
	timeout := b.Timeout()
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		msg := req.Handler(ctx)
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			events.Command.Timeout(req.ID, req.Label)
		}
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return msg
	}
}
