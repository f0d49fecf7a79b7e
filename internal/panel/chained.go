package panel

import (
	"context"
	"fmt"
	"strings"

	"github.com/atomicstack/pulse-dash/internal/fetch"
	"github.com/atomicstack/pulse-dash/internal/logging/events"
	"github.com/atomicstack/pulse-dash/internal/selector"
)

// chained is the shared Panel implementation: one selector chain whose
// complete commitment forms the query key of one fetcher.
type chained[T any] struct {
	id       string
	title    string
	hint     string
	chain    *selector.Chain
	fetcher  *fetch.Fetcher[T]
	keyOf    func(committed []selector.Entity) string
	render   func(data T, width int) []string
	defaults map[int]string
}

func newChained[T any](id, title string, stages []selector.StageDef, source fetch.Source[T]) *chained[T] {
	return &chained[T]{
		id:       id,
		title:    title,
		chain:    selector.New(stages...),
		fetcher:  fetch.New(source),
		defaults: map[int]string{},
	}
}

func (p *chained[T]) ID() string               { return p.id }
func (p *chained[T]) Title() string            { return p.title }
func (p *chained[T]) Chain() *selector.Chain   { return p.chain }
func (p *chained[T]) Search(int, string) []Job { return nil }

func (p *chained[T]) Start() []Job {
	req, ok := p.chain.Start()
	if !ok {
		return nil
	}
	return []Job{p.lookupJob(req)}
}

func (p *chained[T]) Commit(stage int, e selector.Entity) []Job {
	var jobs []Job
	if req, ok := p.chain.Commit(stage, e); ok {
		jobs = append(jobs, p.lookupJob(req))
	}
	return append(jobs, p.sync()...)
}

func (p *chained[T]) Reset(from int) []Job {
	if from < 0 {
		from = 0
	}
	events.Chain.Reset(p.id, from)
	p.chain.Reset(from)
	var jobs []Job
	if req, ok := p.chain.Retry(from); ok {
		jobs = append(jobs, p.lookupJob(req))
	}
	return append(jobs, p.sync()...)
}

func (p *chained[T]) Retry(stage int) []Job {
	if st := p.chain.Stage(stage); st != nil && st.Err != nil {
		if req, ok := p.chain.Retry(stage); ok {
			return []Job{p.lookupJob(req)}
		}
		return nil
	}
	if p.fetcher.Slot().Status == fetch.Failed {
		return p.Refresh()
	}
	return nil
}

func (p *chained[T]) Refresh() []Job {
	if !p.chain.Complete() {
		return nil
	}
	req, ok := p.fetcher.Refresh()
	if !ok {
		return nil
	}
	return []Job{p.fetchJob(req)}
}

func (p *chained[T]) QueryKey() (string, bool) {
	if !p.chain.Complete() {
		return "", false
	}
	return p.keyOf(p.committed()), true
}

func (p *chained[T]) Slot() SlotView {
	slot := p.fetcher.Slot()
	return SlotView{Key: slot.Key, Status: slot.Status, ErrKind: slot.ErrKind, Message: slot.Message}
}

func (p *chained[T]) Body(width int) []string {
	slot := p.fetcher.Slot()
	if slot.Status != fetch.Ready || p.render == nil {
		return nil
	}
	return p.render(slot.Data, width)
}

func (p *chained[T]) Hint() string {
	if p.hint != "" && !p.chain.Complete() {
		return p.hint
	}
	for i := 0; i < p.chain.Len(); i++ {
		if _, ok := p.chain.Committed(i); !ok {
			return fmt.Sprintf("Select a %s to continue.", strings.ToLower(p.chain.Stage(i).Def.Title))
		}
	}
	return ""
}

func (p *chained[T]) committed() []selector.Entity {
	out := make([]selector.Entity, 0, p.chain.Len())
	for i := 0; i < p.chain.Len(); i++ {
		e, ok := p.chain.Committed(i)
		if !ok {
			break
		}
		out = append(out, e)
	}
	return out
}

// sync aligns the fetcher with the chain: a complete chain drives its query
// key, an incomplete one leaves the slot idle.
func (p *chained[T]) sync() []Job {
	if !p.chain.Complete() {
		if slot := p.fetcher.Slot(); slot.Status != fetch.Idle || slot.Key != "" {
			p.fetcher.Reset()
		}
		return nil
	}
	req, ok := p.fetcher.OnQueryKeyChanged(p.keyOf(p.committed()))
	if !ok {
		return nil
	}
	return []Job{p.fetchJob(req)}
}

// afterLookup commits a configured default once its stage has candidates.
func (p *chained[T]) afterLookup(stage int) []Job {
	key, ok := p.defaults[stage]
	if !ok {
		return nil
	}
	st := p.chain.Stage(stage)
	if st == nil || st.Err != nil {
		return nil
	}
	if _, committed := st.Committed(); committed {
		return nil
	}
	for _, e := range st.Candidates {
		if e.Key == key {
			return p.Commit(stage, e)
		}
	}
	return nil
}

func (p *chained[T]) lookupJob(req selector.LookupRequest) Job {
	stageID := p.chain.Stage(req.Stage).Def.ID
	events.Chain.Lookup(p.id, stageID, req.Seq)
	return Job{
		Panel: p.id,
		Kind:  KindLookup,
		Label: stageID,
		Run: func(ctx context.Context) Outcome {
			res := p.chain.Load(ctx, req)
			return func() ([]Job, error) {
				if err := p.chain.Apply(res); err != nil {
					events.Chain.Stale(p.id, stageID, req.Seq)
					return nil, nil
				}
				events.Chain.Loaded(p.id, stageID, len(res.Candidates), res.Err)
				return p.afterLookup(req.Stage), nil
			}
		},
	}
}

func (p *chained[T]) fetchJob(req fetch.Request) Job {
	events.Fetch.Issue(p.id, req.Key, req.Seq)
	return Job{
		Panel: p.id,
		Kind:  KindFetch,
		Label: req.Key,
		Run: func(ctx context.Context) Outcome {
			res := p.fetcher.Load(ctx, req)
			return func() ([]Job, error) {
				if err := p.fetcher.Apply(res); err != nil {
					events.Fetch.Stale(p.id, req.Key, req.Seq)
					return nil, nil
				}
				slot := p.fetcher.Slot()
				if slot.Status == fetch.Failed {
					events.Fetch.Failed(p.id, req.Key, req.Seq, slot.ErrKind.String(), slot.Err)
				} else {
					events.Fetch.Ready(p.id, req.Key, req.Seq)
				}
				return nil, nil
			}
		},
	}
}
