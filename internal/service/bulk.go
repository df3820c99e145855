package service

import (
	"context"
	"log/slog"

	domainerrors "github.com/roloapp/rolo-server/internal/errors"
	"github.com/roloapp/rolo-server/internal/selection"
	"github.com/roloapp/rolo-server/internal/store"
)

// BulkMode selects the direction of a bulk tag edit.
type BulkMode string

// Bulk edit modes.
const (
	BulkAdd    BulkMode = "add"
	BulkRemove BulkMode = "remove"
)

// BulkResult reports the outcome of a bulk tag edit.
type BulkResult struct {
	Updated int      `json:"updated"`
	Failed  []string `json:"failed,omitempty"`
}

// BulkService applies tag changes across the current selection.
type BulkService struct {
	store     store.Store
	tags      *TagService
	selection *selection.Manager
	logger    *slog.Logger
}

// NewBulkService creates a new bulk tag editor.
func NewBulkService(store store.Store, tags *TagService, sel *selection.Manager, logger *slog.Logger) *BulkService {
	return &BulkService{
		store:     store,
		tags:      tags,
		selection: sel,
		logger:    logger,
	}
}

// ApplyToSelection adds tagNames to, or removes them from, every selected
// person. For add, unknown tags are created first (Uncategorized); remove
// never creates tags. The selection is cleared afterwards either way, so a
// retry after a partial failure starts from a fresh, re-read state.
//
// On partial failure the error lists the person IDs that were not updated;
// people updated before the failure keep their changes.
func (s *BulkService) ApplyToSelection(ctx context.Context, userID string, tagNames []string, mode BulkMode) (*BulkResult, error) {
	if mode != BulkAdd && mode != BulkRemove {
		return nil, domainerrors.Validationf("unknown bulk mode %q", mode)
	}

	selected := s.selection.Snapshot(userID)
	if len(selected) == 0 {
		return nil, domainerrors.Validation("selection is empty")
	}

	names := tagNames
	if mode == BulkAdd {
		canonical, err := s.tags.EnsureExist(ctx, tagNames)
		if err != nil {
			return nil, err
		}
		names = canonical
	}
	if len(names) == 0 {
		return nil, domainerrors.Validation("no tag names given")
	}

	// The selection is consumed by the attempt, successful or not.
	defer s.selection.Clear(userID)

	var failed []string
	var lastErr error
	for _, personID := range selected {
		if err := s.applyToPerson(ctx, personID, names, mode); err != nil {
			failed = append(failed, personID)
			lastErr = err
		}
	}

	result := &BulkResult{Updated: len(selected) - len(failed), Failed: failed}
	if len(failed) > 0 {
		s.logger.Warn("bulk tag edit partially failed",
			"user_id", userID,
			"mode", mode,
			"failed", len(failed),
			"error", lastErr,
		)
		return result, domainerrors.PartialFailure("bulk tag edit incomplete", failed, lastErr)
	}

	s.logger.Info("bulk tag edit applied",
		"user_id", userID,
		"mode", mode,
		"people", result.Updated,
		"tags", len(names),
	)

	return result, nil
}

func (s *BulkService) applyToPerson(ctx context.Context, personID string, names []string, mode BulkMode) error {
	for _, name := range names {
		var err error
		if mode == BulkAdd {
			err = s.store.AddPersonTag(ctx, personID, name)
		} else {
			err = s.store.RemovePersonTag(ctx, personID, name)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
