package service

import (
	"context"
	"log/slog"

	"github.com/roloapp/rolo-server/internal/selection"
	"github.com/roloapp/rolo-server/internal/store"
)

// SelectionService exposes the per-user selection used by bulk operations.
// "Select all" means all people visible under the user's current filter, not
// the whole book.
type SelectionService struct {
	store     store.Store
	selection *selection.Manager
	generate  *GenerateService
	logger    *slog.Logger
}

// NewSelectionService creates a new selection service.
func NewSelectionService(store store.Store, sel *selection.Manager, generate *GenerateService, logger *slog.Logger) *SelectionService {
	return &SelectionService{
		store:     store,
		selection: sel,
		generate:  generate,
		logger:    logger,
	}
}

// Toggle flips one person in and out of the user's selection. The person
// must exist; reports whether they are selected afterwards.
func (s *SelectionService) Toggle(ctx context.Context, userID, personID string) (bool, error) {
	if _, err := s.store.GetPerson(ctx, personID); err != nil {
		return false, err
	}
	return s.selection.Toggle(userID, personID), nil
}

// SelectAll replaces the user's selection with everyone matching their
// current filter. With no included tag the filter result is empty, so this
// clears the selection.
func (s *SelectionService) SelectAll(ctx context.Context, userID string) (int, error) {
	people, err := s.generate.FilteredPeople(ctx, userID)
	if err != nil {
		return 0, err
	}

	ids := make([]string, len(people))
	for i, p := range people {
		ids[i] = p.ID
	}
	s.selection.SelectAll(userID, ids)
	return len(ids), nil
}

// Clear empties the user's selection.
func (s *SelectionService) Clear(userID string) {
	s.selection.Clear(userID)
}

// Snapshot returns the selected person IDs.
func (s *SelectionService) Snapshot(userID string) []string {
	return s.selection.Snapshot(userID)
}

// IsSelected reports whether one person is in the user's selection.
func (s *SelectionService) IsSelected(userID, personID string) bool {
	return s.selection.IsSelected(userID, personID)
}

// Count returns the selection size.
func (s *SelectionService) Count(userID string) int {
	return s.selection.Count(userID)
}
