package wad

import (
	"fmt"
	"log/slog"
)

// Policy decides which archive wins when several contain the same lump name.
type Policy int

const (
	// FirstWins scans archives in load order; the earliest added wins.
	FirstWins Policy = iota
	// LastWins scans archives in reverse load order, so a later patch
	// archive overrides the base archive.
	LastWins
)

func (p Policy) String() string {
	switch p {
	case FirstWins:
		return "first"
	case LastWins:
		return "last"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy converts "first" or "last" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "first":
		return FirstWins, nil
	case "last":
		return LastWins, nil
	default:
		return FirstWins, fmt.Errorf("unknown override policy %q: must be first or last", s)
	}
}

// Manager is an append-only, ordered set of archives resolving lump names
// across all of them. Since archives are never removed or reordered, a
// LumpIndex stays valid for the life of the Manager.
type Manager struct {
	archives []*Archive
	policy   Policy
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the override policy. Defaults to FirstWins.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		m.policy = p
	}
}

// NewManager creates an empty Manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{policy: FirstWins}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Policy returns the configured override policy.
func (m *Manager) Policy() Policy {
	return m.policy
}

// AddArchive opens path and appends it to the load order. On failure the
// Manager is left unchanged.
func (m *Manager) AddArchive(path string) error {
	a, err := Open(path)
	if err != nil {
		return err
	}
	m.archives = append(m.archives, a)
	slog.Debug("Archive added", "path", path, "load_order", len(m.archives)-1, "policy", m.policy)
	return nil
}

// Len returns the number of archives in the set.
func (m *Manager) Len() int {
	return len(m.archives)
}

// Archive returns the archive at load-order position i.
func (m *Manager) Archive(i int) (*Archive, error) {
	if i < 0 || i >= len(m.archives) {
		return nil, fmt.Errorf("%w: archive %d not in [0, %d)", ErrOutOfRange, i, len(m.archives))
	}
	return m.archives[i], nil
}

// search returns the winning handle for name under the configured policy.
func (m *Manager) search(name string) (LumpIndex, bool) {
	n := len(m.archives)
	for k := 0; k < n; k++ {
		i := k
		if m.policy == LastWins {
			i = n - 1 - k
		}
		if lump, ok := m.archives[i].Find(name); ok {
			return LumpIndex{Archive: i, Lump: int32(lump)}, true
		}
	}
	return LumpIndex{}, false
}

// Contains reports whether any archive has a lump called name.
func (m *Manager) Contains(name string) bool {
	_, ok := m.search(name)
	return ok
}

// Resolve returns the handle of the lump called name that wins under the
// configured policy.
func (m *Manager) Resolve(name string) (LumpIndex, error) {
	idx, ok := m.search(name)
	if !ok {
		return LumpIndex{}, &LumpError{Op: "resolve", Name: name, Err: ErrNotFound}
	}
	return idx, nil
}

// Lump returns the directory entry identified by idx.
func (m *Manager) Lump(idx LumpIndex) (Lump, error) {
	a, err := m.Archive(idx.Archive)
	if err != nil {
		return Lump{}, err
	}
	return a.Lump(int(idx.Lump))
}

// Data reads the bytes of the lump identified by idx.
func (m *Manager) Data(idx LumpIndex) ([]byte, error) {
	a, err := m.Archive(idx.Archive)
	if err != nil {
		return nil, err
	}
	return a.Data(int(idx.Lump))
}

// DataByName resolves name and reads its bytes.
func (m *Manager) DataByName(name string) ([]byte, error) {
	idx, err := m.Resolve(name)
	if err != nil {
		return nil, err
	}
	return m.Data(idx)
}

// Close closes every archive and returns the first error encountered.
func (m *Manager) Close() error {
	var firstErr error
	for _, a := range m.archives {
		if err := a.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
