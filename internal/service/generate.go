package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	"github.com/roloapp/rolo-server/internal/filter"
	"github.com/roloapp/rolo-server/internal/selection"
	"github.com/roloapp/rolo-server/internal/store"
)

// GenerateService owns per-user filter state and produces the handle output.
// Any change to the filter clears that user's selection, so bulk actions only
// ever see a selection made against the current visible set.
type GenerateService struct {
	store     store.Store
	selection *selection.Manager
	logger    *slog.Logger

	mu     sync.Mutex
	states map[string]*filter.State
}

// NewGenerateService creates a new generation service.
func NewGenerateService(store store.Store, sel *selection.Manager, logger *slog.Logger) *GenerateService {
	return &GenerateService{
		store:     store,
		selection: sel,
		logger:    logger,
		states:    map[string]*filter.State{},
	}
}

// StateFor returns the filter state for a user, creating it on first use.
func (s *GenerateService) StateFor(userID string) *filter.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[userID]
	if !ok {
		st = filter.NewState()
		s.states[userID] = st
	}
	return st
}

// ToggleTag cycles a tag through neutral, included, excluded for the user's
// filter and returns its new state. The user's selection is cleared.
func (s *GenerateService) ToggleTag(userID, tagName string) filter.TagState {
	next := s.StateFor(userID).Toggle(tagName)
	s.selection.Clear(userID)
	return next
}

// SetMaxSolicitations sets or clears the solicitation-count ceiling and
// clears the user's selection.
func (s *GenerateService) SetMaxSolicitations(userID string, n *int) {
	s.StateFor(userID).SetMaxSolicitations(n)
	s.selection.Clear(userID)
}

// SetSolicitedBefore sets or clears the "not solicited since" cutoff and
// clears the user's selection.
func (s *GenerateService) SetSolicitedBefore(userID string, t *time.Time) {
	s.StateFor(userID).SetSolicitedBefore(t)
	s.selection.Clear(userID)
}

// Reset drops the user's filter state and selection.
func (s *GenerateService) Reset(userID string) {
	s.StateFor(userID).Reset()
	s.selection.Clear(userID)
}

// FilteredPeople returns the people matching the user's current filter, in
// list order. Empty when no tag is included.
func (s *GenerateService) FilteredPeople(ctx context.Context, userID string) ([]*domain.Person, error) {
	people, err := s.store.ListPeople(ctx)
	if err != nil {
		return nil, err
	}
	return s.StateFor(userID).Apply(people), nil
}

// PreviewResult is the generation output before or after copying.
type PreviewResult struct {
	People  []*domain.Person
	Handles string
}

// Preview computes the filtered people and their handle string without
// recording a solicitation.
func (s *GenerateService) Preview(ctx context.Context, userID string) (*PreviewResult, error) {
	people, err := s.FilteredPeople(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &PreviewResult{People: people, Handles: filter.Handles(people)}, nil
}

// Copy computes the handle string and records a solicitation against every
// person in the result. The bump is best effort: the handles are already on
// their way to the user's clipboard, so persistence failures are logged and
// do not fail the call.
func (s *GenerateService) Copy(ctx context.Context, userID string) (*PreviewResult, error) {
	result, err := s.Preview(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, p := range result.People {
		if err := s.store.IncrementSolicitation(ctx, p.ID, now); err != nil {
			s.logger.Warn("failed to record solicitation",
				"person_id", p.ID,
				"error", err,
			)
			continue
		}
		p.SolicitationCount++
		t := now
		p.LastSolicitedAt = &t
	}

	s.logger.Info("handles copied",
		"user_id", userID,
		"count", len(result.People),
	)

	return result, nil
}
