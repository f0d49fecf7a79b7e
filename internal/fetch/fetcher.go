package fetch

import (
	"context"
	"errors"
	"fmt"

	"github.com/atomicstack/pulse-dash/internal/remote"
)

// ErrStaleResult reports a response whose request was superseded before it
// arrived. Callers treat it as a silent no-op.
var ErrStaleResult = errors.New("fetch: stale result discarded")

// Source loads the payload for one query key.
type Source[T any] func(ctx context.Context, key string) (T, error)

// Transform composes a source with a per-domain response transformer.
func Transform[A, B any](src Source[A], fn func(key string, in A) (B, error)) Source[B] {
	return func(ctx context.Context, key string) (B, error) {
		in, err := src(ctx, key)
		if err != nil {
			var zero B
			return zero, err
		}
		return fn(key, in)
	}
}

// Request identifies one issued fetch.
type Request struct {
	Key string
	Seq uint64
}

// Result carries the outcome of a Request.
type Result[T any] struct {
	Request
	Data T
	Err  error
}

// Fetcher maps a query key onto a single displayed Slot. Only the response
// to the latest issued request may change the slot. A Fetcher is owned by
// one goroutine; only Load may run elsewhere.
type Fetcher[T any] struct {
	source Source[T]
	seq    uint64
	slot   Slot[T]
}

// New builds an idle fetcher over source.
func New[T any](source Source[T]) *Fetcher[T] {
	return &Fetcher[T]{source: source}
}

// OnQueryKeyChanged issues a fetch for key. It is a no-op when key is
// already loading or displayed. Loading clears any previous data.
func (f *Fetcher[T]) OnQueryKeyChanged(key string) (Request, bool) {
	if key == f.slot.Key && (f.slot.Status == Loading || f.slot.Status == Ready) {
		return Request{}, false
	}
	return f.issue(key), true
}

// Refresh re-issues the current key regardless of status.
func (f *Fetcher[T]) Refresh() (Request, bool) {
	if f.slot.Status == Idle && f.slot.Key == "" {
		return Request{}, false
	}
	return f.issue(f.slot.Key), true
}

func (f *Fetcher[T]) issue(key string) Request {
	f.seq++
	f.slot = Slot[T]{Key: key, Status: Loading}
	return Request{Key: key, Seq: f.seq}
}

// Load runs the source for req without touching fetcher state.
func (f *Fetcher[T]) Load(ctx context.Context, req Request) (res Result[T]) {
	res.Request = req
	if f.source == nil {
		res.Err = fmt.Errorf("fetch: no source configured")
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			var zero T
			res.Data = zero
			res.Err = fmt.Errorf("fetch: source panicked for %q: %v", req.Key, r)
		}
	}()
	res.Data, res.Err = f.source(ctx, req.Key)
	return res
}

// Apply installs res when it answers the latest issued request.
func (f *Fetcher[T]) Apply(res Result[T]) error {
	if res.Seq != f.seq || f.slot.Status != Loading {
		return ErrStaleResult
	}
	if res.Err != nil {
		f.slot = Slot[T]{
			Key:     res.Key,
			Status:  Failed,
			Err:     res.Err,
			ErrKind: remote.KindOf(res.Err),
			Message: res.Err.Error(),
		}
		return nil
	}
	f.slot = Slot[T]{Key: res.Key, Status: Ready, Data: res.Data}
	return nil
}

// Slot returns a copy of the current slot.
func (f *Fetcher[T]) Slot() Slot[T] {
	return f.slot
}

// Seq returns the latest issued sequence number.
func (f *Fetcher[T]) Seq() uint64 {
	return f.seq
}

// Reset returns the slot to Idle and discards anything in flight.
func (f *Fetcher[T]) Reset() {
	f.seq++
	f.slot = Slot[T]{}
}
