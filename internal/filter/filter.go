// Package filter computes the generation subset of people from tag
// include/exclude state and solicitation thresholds.
//
// A person is part of the result when all four criteria hold: at least one
// included tag is present, no excluded tag is present, the solicitation count
// does not exceed the configured maximum, and the last solicitation date is
// absent or on/before the configured cutoff. With no included tag the result
// is always empty; generation requires at least one positive criterion.
package filter

import (
	"strings"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
)

// TagState is a tag's role in the current filter.
type TagState string

// Tag filter states. Neutral tags are simply absent from the state map.
const (
	StateNeutral  TagState = ""
	StateIncluded TagState = "include"
	StateExcluded TagState = "exclude"
)

// State holds one generation session's filter criteria.
// It is a plain value holder; callers own synchronization.
type State struct {
	tagStates        map[string]TagState
	maxSolicitations *int
	solicitedBefore  *time.Time
}

// NewState returns an empty filter: every tag neutral, no thresholds.
func NewState() *State {
	return &State{tagStates: make(map[string]TagState)}
}

// Toggle advances a tag through the three-state cycle
// neutral → included → excluded → neutral and returns the new state.
func (s *State) Toggle(name string) TagState {
	switch s.tagStates[name] {
	case StateIncluded:
		s.tagStates[name] = StateExcluded
		return StateExcluded
	case StateExcluded:
		delete(s.tagStates, name)
		return StateNeutral
	default:
		s.tagStates[name] = StateIncluded
		return StateIncluded
	}
}

// TagState returns the current state of a tag.
func (s *State) TagState(name string) TagState {
	return s.tagStates[name]
}

// TagStates returns a copy of all non-neutral tag states.
func (s *State) TagStates() map[string]TagState {
	out := make(map[string]TagState, len(s.tagStates))
	for name, st := range s.tagStates {
		out[name] = st
	}
	return out
}

// SetMaxSolicitations sets or clears the maximum solicitation count.
func (s *State) SetMaxSolicitations(n *int) {
	s.maxSolicitations = n
}

// MaxSolicitations returns the configured maximum, or nil.
func (s *State) MaxSolicitations() *int {
	return s.maxSolicitations
}

// SetSolicitedBefore sets or clears the last-solicitation cutoff date.
func (s *State) SetSolicitedBefore(t *time.Time) {
	s.solicitedBefore = t
}

// SolicitedBefore returns the configured cutoff, or nil.
func (s *State) SolicitedBefore() *time.Time {
	return s.solicitedBefore
}

// Reset returns the filter to its initial empty state.
func (s *State) Reset() {
	s.tagStates = make(map[string]TagState)
	s.maxSolicitations = nil
	s.solicitedBefore = nil
}

// HasIncluded reports whether any tag is currently included.
func (s *State) HasIncluded() bool {
	for _, st := range s.tagStates {
		if st == StateIncluded {
			return true
		}
	}
	return false
}

// Apply returns the people matching the filter, preserving input order.
// Returns an empty slice, never nil, and never an error: a filter with no
// included tag simply matches nobody.
func (s *State) Apply(people []*domain.Person) []*domain.Person {
	result := []*domain.Person{}
	if !s.HasIncluded() {
		return result
	}

	for _, p := range people {
		if s.matches(p) {
			result = append(result, p)
		}
	}
	return result
}

// matches evaluates the four-part predicate for one person.
func (s *State) matches(p *domain.Person) bool {
	hasIncluded := false
	for _, name := range p.Tags {
		switch s.tagStates[name] {
		case StateExcluded:
			return false
		case StateIncluded:
			hasIncluded = true
		}
	}
	if !hasIncluded {
		return false
	}

	if s.maxSolicitations != nil && p.SolicitationCount > *s.maxSolicitations {
		return false
	}

	if s.solicitedBefore != nil && p.LastSolicitedAt != nil && p.LastSolicitedAt.After(*s.solicitedBefore) {
		return false
	}

	return true
}

// Handles renders people as "@Firstname Lastname" tokens joined by single
// spaces, in slice order. This exact format feeds the copy-to-clipboard
// workflow and must not change.
func Handles(people []*domain.Person) string {
	parts := make([]string, len(people))
	for i, p := range people {
		parts[i] = p.Handle()
	}
	return strings.Join(parts, " ")
}
