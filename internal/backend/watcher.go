package backend

import (
	"context"
	"sync"
	"time"
)

// Event is one refresh tick. Seq counts ticks from 1.
type Event struct {
	Seq int
	At  time.Time
}

// Watcher emits a refresh tick every interval until stopped. The UI turns
// each tick into a refetch of the active panel.
type Watcher struct {
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher starts a watcher ticking every interval. A non-positive
// interval disables automatic refresh and returns nil.
func NewWatcher(interval time.Duration) *Watcher {
	if interval <= 0 {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 1),
	}
	w.wg.Add(1)
	go w.run()
	go func() {
		w.wg.Wait()
		close(w.events)
	}()
	return w
}

// Interval returns the tick period.
func (w *Watcher) Interval() time.Duration {
	if w == nil {
		return 0
	}
	return w.interval
}

// Events returns the channel of refresh ticks. It is closed after Stop.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher.
func (w *Watcher) Stop() {
	if w == nil {
		return
	}
	w.cancel()
}

// Wait blocks until the ticker goroutine has exited and the events channel
// is closed.
func (w *Watcher) Wait() {
	if w == nil {
		return
	}
	w.wg.Wait()
}

func (w *Watcher) run() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	seq := 0
	for {
		select {
		case <-w.ctx.Done():
			return
		case now := <-ticker.C:
			seq++
			// A slow consumer drops ticks rather than queueing a backlog
			// of refreshes.
			select {
			case w.events <- Event{Seq: seq, At: now}:
			case <-w.ctx.Done():
				return
			default:
			}
		}
	}
}
