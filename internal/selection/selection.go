// Package selection tracks the set of people chosen for bulk operations.
//
// Selections are ephemeral and session-scoped: one set per owner (user),
// held in memory only, cleared whenever the owner's filter changes and after
// every bulk action completes. Selection is independent of filtering — a
// selected person leaving the visible set is handled by the clearing policy,
// not by intersecting.
package selection

import "sync"

// Manager holds per-owner selections behind a RWMutex. One HTTP request at a
// time mutates a given owner's set, but different owners may act concurrently.
type Manager struct {
	mu   sync.RWMutex
	sets map[string]map[string]struct{}
}

// NewManager creates an empty selection manager.
func NewManager() *Manager {
	return &Manager{sets: make(map[string]map[string]struct{})}
}

// Toggle flips a person in and out of the owner's selection and reports
// whether the person is selected afterwards.
func (m *Manager) Toggle(owner, personID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	set, ok := m.sets[owner]
	if !ok {
		set = make(map[string]struct{})
		m.sets[owner] = set
	}

	if _, selected := set[personID]; selected {
		delete(set, personID)
		return false
	}
	set[personID] = struct{}{}
	return true
}

// SelectAll replaces the owner's selection with the given ids.
func (m *Manager) SelectAll(owner string, personIDs []string) {
	set := make(map[string]struct{}, len(personIDs))
	for _, id := range personIDs {
		set[id] = struct{}{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets[owner] = set
}

// Clear empties the owner's selection.
func (m *Manager) Clear(owner string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sets, owner)
}

// IsSelected reports whether a person is in the owner's selection.
func (m *Manager) IsSelected(owner, personID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sets[owner][personID]
	return ok
}

// Snapshot returns the owner's selected ids as a new slice.
func (m *Manager) Snapshot(owner string) []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	set := m.sets[owner]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Count returns the size of the owner's selection.
func (m *Manager) Count(owner string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sets[owner])
}
