package selector

import (
	"context"
	"errors"
	"fmt"
)

// ErrStaleLookup reports a lookup result that was superseded by a later
// commit or reset of an upstream stage.
var ErrStaleLookup = errors.New("selector: stale lookup result")

// LookupFunc loads the candidates for a stage given the committed entities of
// every upstream stage, in order.
type LookupFunc func(ctx context.Context, parents []Entity) ([]Entity, error)

// StageDef describes one rung of a chain.
type StageDef struct {
	ID     string
	Title  string
	Lookup LookupFunc
}

// Stage holds the mutable state of one rung.
type Stage struct {
	Def        StageDef
	committed  Entity
	hasCommit  bool
	SearchText string
	Candidates []Entity
	Loading    bool
	Err        error
	seq        uint64
}

// Committed returns the committed entity, if any.
func (s *Stage) Committed() (Entity, bool) {
	return s.committed, s.hasCommit
}

func (s *Stage) clear() {
	s.committed = Entity{}
	s.hasCommit = false
	s.SearchText = ""
	s.Candidates = nil
	s.Loading = false
	s.Err = nil
	// Invalidate anything still in flight for this stage.
	s.seq++
}

// LookupRequest identifies one candidate lookup for a stage.
type LookupRequest struct {
	Stage   int
	Seq     uint64
	Parents []Entity
}

// LookupResult carries the outcome of a LookupRequest.
type LookupResult struct {
	LookupRequest
	Candidates []Entity
	Err        error
}

// Chain coordinates ordered stages where each stage's candidates depend on
// the commitment of the stage before it. A Chain is owned by one goroutine;
// only Load may run elsewhere.
type Chain struct {
	stages []*Stage
}

// New builds a chain from the provided stage definitions.
func New(defs ...StageDef) *Chain {
	stages := make([]*Stage, len(defs))
	for i, def := range defs {
		stages[i] = &Stage{Def: def}
	}
	return &Chain{stages: stages}
}

// Len returns the number of stages.
func (c *Chain) Len() int {
	return len(c.stages)
}

// Stage returns the stage at index i, or nil when out of range.
func (c *Chain) Stage(i int) *Stage {
	if i < 0 || i >= len(c.stages) {
		return nil
	}
	return c.stages[i]
}

// Start issues the lookup for the first stage.
func (c *Chain) Start() (LookupRequest, bool) {
	return c.issue(0)
}

// SetSearchText updates the free-text filter of one stage. Candidates and
// commitments are untouched.
func (c *Chain) SetSearchText(i int, text string) {
	if st := c.Stage(i); st != nil {
		st.SearchText = text
	}
}

// Visible returns stage i's candidates filtered by its search text.
func (c *Chain) Visible(i int) []Entity {
	st := c.Stage(i)
	if st == nil {
		return nil
	}
	return Filter(st.Candidates, st.SearchText)
}

// Commit confirms entity at stage i, clears every downstream stage and returns
// the lookup request for stage i+1 when one exists. Re-committing the current
// key only refreshes the stored entity and its label, unless the downstream
// lookup failed, in which case that lookup is re-issued.
func (c *Chain) Commit(i int, e Entity) (LookupRequest, bool) {
	st := c.Stage(i)
	if st == nil {
		return LookupRequest{}, false
	}
	for _, up := range c.stages[:i] {
		if !up.hasCommit {
			return LookupRequest{}, false
		}
	}
	if st.hasCommit && st.committed.Key == e.Key {
		st.committed = e
		st.SearchText = e.DisplayLabel()
		if next := c.Stage(i + 1); next != nil && next.Err != nil {
			return c.issue(i + 1)
		}
		return LookupRequest{}, false
	}
	st.committed = e
	st.hasCommit = true
	st.SearchText = e.DisplayLabel()
	for _, down := range c.stages[i+1:] {
		down.clear()
	}
	return c.issue(i + 1)
}

// Reset clears every stage from index from onwards.
func (c *Chain) Reset(from int) {
	if from < 0 {
		from = 0
	}
	for i := from; i < len(c.stages); i++ {
		c.stages[i].clear()
	}
}

// Offer replaces stage i's candidates with entities that did not come from
// its own lookup. Any lookup in flight for the stage is superseded, the
// search text is cleared and the commitment is kept. It fails when an
// upstream stage is uncommitted.
func (c *Chain) Offer(i int, candidates []Entity) bool {
	st := c.Stage(i)
	if st == nil {
		return false
	}
	for _, up := range c.stages[:i] {
		if !up.hasCommit {
			return false
		}
	}
	st.seq++
	st.Loading = false
	st.Err = nil
	st.SearchText = ""
	st.Candidates = CloneEntities(candidates)
	if st.Candidates == nil {
		st.Candidates = []Entity{}
	}
	return true
}

// Retry re-issues the lookup for stage i when its parent is committed.
func (c *Chain) Retry(i int) (LookupRequest, bool) {
	return c.issue(i)
}

func (c *Chain) issue(i int) (LookupRequest, bool) {
	st := c.Stage(i)
	if st == nil {
		return LookupRequest{}, false
	}
	parents := make([]Entity, 0, i)
	for _, up := range c.stages[:i] {
		e, ok := up.Committed()
		if !ok {
			return LookupRequest{}, false
		}
		parents = append(parents, e)
	}
	st.seq++
	st.Loading = true
	st.Err = nil
	st.Candidates = nil
	return LookupRequest{Stage: i, Seq: st.seq, Parents: parents}, true
}

// Load performs the lookup described by req. It reads only the immutable
// stage definition and may run on any goroutine.
func (c *Chain) Load(ctx context.Context, req LookupRequest) (res LookupResult) {
	res.LookupRequest = req
	st := c.Stage(req.Stage)
	if st == nil {
		res.Err = fmt.Errorf("selector: stage %d out of range", req.Stage)
		return res
	}
	if st.Def.Lookup == nil {
		return res
	}
	defer func() {
		if r := recover(); r != nil {
			res.Candidates = nil
			res.Err = fmt.Errorf("selector: %s lookup panicked: %v", st.Def.ID, r)
		}
	}()
	candidates, err := st.Def.Lookup(ctx, CloneEntities(req.Parents))
	if err != nil {
		res.Err = err
		return res
	}
	res.Candidates = CloneEntities(candidates)
	return res
}

// Apply installs a lookup result when it belongs to the stage's latest
// request. Superseded results are dropped with ErrStaleLookup.
func (c *Chain) Apply(res LookupResult) error {
	st := c.Stage(res.Stage)
	if st == nil || res.Seq != st.seq || !st.Loading {
		return ErrStaleLookup
	}
	st.Loading = false
	if res.Err != nil {
		st.Candidates = nil
		st.Err = res.Err
		return nil
	}
	st.Err = nil
	st.Candidates = CloneEntities(res.Candidates)
	if st.Candidates == nil {
		st.Candidates = []Entity{}
	}
	return nil
}

// Committed returns the committed entity at stage i.
func (c *Chain) Committed(i int) (Entity, bool) {
	st := c.Stage(i)
	if st == nil {
		return Entity{}, false
	}
	return st.Committed()
}

// Keys returns the committed keys from the first stage up to the first
// uncommitted one.
func (c *Chain) Keys() []string {
	keys := make([]string, 0, len(c.stages))
	for _, st := range c.stages {
		e, ok := st.Committed()
		if !ok {
			break
		}
		keys = append(keys, e.Key)
	}
	return keys
}

// Complete reports whether every stage has a committed entity.
func (c *Chain) Complete() bool {
	return len(c.stages) > 0 && len(c.Keys()) == len(c.stages)
}
