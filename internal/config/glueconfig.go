package config

import "fmt"

// Model is the top-level persisted aggregate: platforms keyed by name with
// insertion order preserved, so listing and serialization are deterministic.
type Model struct {
	names  []string
	byName map[string]*Platform
}

// NewModel returns an empty configuration model.
func NewModel() *Model {
	return &Model{byName: make(map[string]*Platform)}
}

// Len returns the number of configured platforms, tombstones included.
func (m *Model) Len() int {
	return len(m.names)
}

// Get looks up a platform by its case-sensitive name.
func (m *Model) Get(name string) (*Platform, bool) {
	p, ok := m.byName[name]
	return p, ok
}

// Add appends a new platform. A live record under the same name is rejected
// with ErrDuplicatePlatform; a Removed tombstone is displaced in place, giving
// the re-added name a fresh lifecycle independent of the old one.
func (m *Model) Add(p *Platform) error {
	if existing, ok := m.byName[p.Name]; ok {
		if existing.Status != StatusRemoved {
			return fmt.Errorf("platform %q: %w", p.Name, ErrDuplicatePlatform)
		}
		m.byName[p.Name] = p
		return nil
	}
	m.names = append(m.names, p.Name)
	m.byName[p.Name] = p
	return nil
}

// Put installs p under its name, replacing any existing record. Used by the
// validator to commit a finished working copy back into the aggregate.
func (m *Model) Put(p *Platform) {
	if _, ok := m.byName[p.Name]; !ok {
		m.names = append(m.names, p.Name)
	}
	m.byName[p.Name] = p
}

// Delete drops a record entirely. Only reconciliation may call this; ordinary
// removal tombstones the record instead (see Store.Remove).
func (m *Model) Delete(name string) {
	if _, ok := m.byName[name]; !ok {
		return
	}
	delete(m.byName, name)
	for i, n := range m.names {
		if n == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			break
		}
	}
}

// Names returns the platform names in insertion order.
func (m *Model) Names() []string {
	return append([]string(nil), m.names...)
}

// Platforms returns the platform records in insertion order.
func (m *Model) Platforms() []*Platform {
	out := make([]*Platform, 0, len(m.names))
	for _, n := range m.names {
		out = append(out, m.byName[n])
	}
	return out
}

// Clone deep-copies the whole aggregate for a mutation-then-replace cycle.
func (m *Model) Clone() *Model {
	c := NewModel()
	for _, n := range m.names {
		c.names = append(c.names, n)
		c.byName[n] = m.byName[n].Clone()
	}
	return c
}
