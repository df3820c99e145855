package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/roloapp/rolo-server/internal/domain"
	domainerrors "github.com/roloapp/rolo-server/internal/errors"
	"github.com/roloapp/rolo-server/internal/id"
	"github.com/roloapp/rolo-server/internal/store"
)

// NamePair is one imported (first name, last name) row.
type NamePair struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// MergeResult reports what an import produced.
type MergeResult struct {
	Added      []*domain.Person `json:"added"`
	Duplicates int              `json:"duplicates"`
	Skipped    int              `json:"skipped"`
}

// ImportService reconciles externally supplied name lists against the
// person store. Rows are matched case-insensitively on trimmed
// (first, last); collisions with existing people or with earlier rows in the
// same batch count as duplicates.
type ImportService struct {
	store  store.Store
	logger *slog.Logger
}

// NewImportService creates a new import service.
func NewImportService(store store.Store, logger *slog.Logger) *ImportService {
	return &ImportService{store: store, logger: logger}
}

// Merge decides which pairs would be added against the given existing name
// keys, without touching the store. Pure: inputs are not mutated. Rows with
// an empty first or last name after trimming are skipped, not duplicates.
func Merge(existingKeys map[string]string, pairs []NamePair) *MergeResult {
	result := &MergeResult{Added: []*domain.Person{}}
	seen := map[string]bool{}

	for _, pair := range pairs {
		first := strings.TrimSpace(pair.FirstName)
		last := strings.TrimSpace(pair.LastName)
		if first == "" || last == "" {
			result.Skipped++
			continue
		}

		key := domain.NameKey(first, last)
		if _, exists := existingKeys[key]; exists || seen[key] {
			result.Duplicates++
			continue
		}
		seen[key] = true

		// Imported people start with no tags and no solicitations.
		result.Added = append(result.Added, domain.NewPerson("", first, last, nil))
	}

	return result
}

// Import merges pairs against the current store contents and persists the
// new people. A persistence failure partway through is reported as an
// aggregate error naming the rows that were not written.
func (s *ImportService) Import(ctx context.Context, pairs []NamePair) (*MergeResult, error) {
	existing, err := s.store.ListNameKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list name keys: %w", err)
	}

	result := Merge(existing, pairs)

	persisted := make([]*domain.Person, 0, len(result.Added))
	var failed []string
	var lastErr error
	for _, p := range result.Added {
		p.ID, err = id.Generate("per")
		if err != nil {
			return nil, fmt.Errorf("generate person id: %w", err)
		}
		if err := s.store.CreatePerson(ctx, p); err != nil {
			failed = append(failed, p.FirstName+" "+p.LastName)
			lastErr = err
			continue
		}
		persisted = append(persisted, p)
	}

	result.Added = persisted
	if len(failed) > 0 {
		return result, domainerrors.PartialFailure("import incomplete", failed, lastErr)
	}

	s.logger.Info("import complete",
		"added", len(result.Added),
		"duplicates", result.Duplicates,
		"skipped", result.Skipped,
	)

	return result, nil
}
