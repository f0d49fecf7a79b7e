package selector

import (
	"strings"
)

// Entity is a selectable option produced by a lookup. Key is the stable
// identifier (ISO code, symbol, name) and Label is what the user sees.
type Entity struct {
	Key   string
	Label string
}

// DisplayLabel returns the label, falling back to the key.
func (e Entity) DisplayLabel() string {
	if strings.TrimSpace(e.Label) != "" {
		return e.Label
	}
	return e.Key
}

// Filter returns the candidates whose label contains text, ignoring case.
// Whitespace in text is significant, so "new " excludes "Newark". Blank
// text matches everything. The input slice is never modified.
func Filter(candidates []Entity, text string) []Entity {
	all := strings.TrimSpace(text) == ""
	needle := strings.ToLower(text)
	out := make([]Entity, 0, len(candidates))
	for _, c := range candidates {
		if all || strings.Contains(strings.ToLower(c.DisplayLabel()), needle) {
			out = append(out, c)
		}
	}
	return out
}

// CloneEntities produces a shallow copy of the provided entities.
func CloneEntities(entities []Entity) []Entity {
	if entities == nil {
		return nil
	}
	dup := make([]Entity, len(entities))
	copy(dup, entities)
	return dup
}

// Keys returns the keys of the provided entities in order.
func Keys(entities []Entity) []string {
	keys := make([]string, len(entities))
	for i, e := range entities {
		keys[i] = e.Key
	}
	return keys
}
