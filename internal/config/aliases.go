package config

import "switchboard/internal/textnorm"

// AliasMap resolves user-provided target names to canonical tracked names.
// Keys are normalized; the canonical name is its own alias.
type AliasMap struct {
	canonical map[string]string
	pinned    map[string]*int
}

// BuildAliasMap indexes the tracked-target list.
func BuildAliasMap(tracked []TrackedTarget) *AliasMap {
	m := &AliasMap{
		canonical: make(map[string]string),
		pinned:    make(map[string]*int),
	}
	for _, t := range tracked {
		if t.Canonical == "" {
			continue
		}
		m.canonical[textnorm.Normalize(t.Canonical)] = t.Canonical
		if t.ResultIndex != nil {
			idx := *t.ResultIndex
			m.pinned[t.Canonical] = &idx
		}
		for _, a := range t.Aliases {
			if a != "" {
				m.canonical[textnorm.Normalize(a)] = t.Canonical
			}
		}
	}
	return m
}

// Resolve maps a spoken target to its canonical name. ok is false for
// targets outside the tracked list.
func (m *AliasMap) Resolve(target string) (canonical string, ok bool) {
	canonical, ok = m.canonical[textnorm.Normalize(target)]
	return canonical, ok
}

// Pinned returns the pinned result ordinal for a canonical name, or nil when
// the target should be located visually.
func (m *AliasMap) Pinned(canonical string) *int {
	return m.pinned[canonical]
}

// Len returns the number of known aliases.
func (m *AliasMap) Len() int { return len(m.canonical) }
