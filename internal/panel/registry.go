package panel

// Registry keeps the panels in tab order.
type Registry struct {
	panels []Panel
	index  map[string]int
}

// NewRegistry registers panels in the order given. Later duplicates of an
// ID are ignored.
func NewRegistry(panels ...Panel) *Registry {
	r := &Registry{index: map[string]int{}}
	for _, p := range panels {
		if p == nil {
			continue
		}
		if _, dup := r.index[p.ID()]; dup {
			continue
		}
		r.index[p.ID()] = len(r.panels)
		r.panels = append(r.panels, p)
	}
	return r
}

func (r *Registry) Len() int {
	return len(r.panels)
}

// At returns the panel at tab position i, or nil.
func (r *Registry) At(i int) Panel {
	if i < 0 || i >= len(r.panels) {
		return nil
	}
	return r.panels[i]
}

// Index returns the tab position of id, or -1.
func (r *Registry) Index(id string) int {
	if i, ok := r.index[id]; ok {
		return i
	}
	return -1
}

func (r *Registry) Get(id string) (Panel, bool) {
	i := r.Index(id)
	if i < 0 {
		return nil, false
	}
	return r.panels[i], true
}

// Panels returns the panels in tab order.
func (r *Registry) Panels() []Panel {
	out := make([]Panel, len(r.panels))
	copy(out, r.panels)
	return out
}
