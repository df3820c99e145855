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
	"github.com/roloapp/rolo-server/internal/validation"
)

// validate is a shared validator instance for request validation.
var validate = validation.New()

// TagService orchestrates tag operations. Tags are identified by name with
// case-insensitive duplicate detection; the stored casing is canonical.
type TagService struct {
	store  store.Store
	logger *slog.Logger
}

// NewTagService creates a new tag service.
func NewTagService(store store.Store, logger *slog.Logger) *TagService {
	return &TagService{store: store, logger: logger}
}

// CreateTag creates a tag with the given name and category.
// Returns errors.ErrAlreadyExists when a tag with the same name exists under
// case folding; callers that only need the tag to exist can treat that as
// success.
func (s *TagService) CreateTag(ctx context.Context, name string, category domain.Category, isPriority bool) (*domain.Tag, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domainerrors.Validation("tag name must not be empty")
	}
	if category != "" && !category.IsValid() {
		return nil, domainerrors.Validationf("unknown category %q", category)
	}

	tagID, err := id.Generate("tag")
	if err != nil {
		return nil, fmt.Errorf("generate tag id: %w", err)
	}

	tag := domain.NewTag(tagID, name, category)
	tag.IsPriority = isPriority

	if err := s.store.CreateTag(ctx, tag); err != nil {
		return nil, err
	}

	s.logger.Info("tag created",
		"tag_id", tag.ID,
		"name", tag.Name,
		"category", tag.Category,
	)

	return tag, nil
}

// EnsureExist makes sure a tag exists for every given name, creating missing
// ones as Uncategorized and non-priority. Returns the canonical names: when a
// name matches an existing tag under case folding, the stored casing wins.
// Blank names are dropped.
func (s *TagService) EnsureExist(ctx context.Context, names []string) ([]string, error) {
	canonical := make([]string, 0, len(names))
	seen := map[string]bool{}

	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		folded := domain.FoldName(name)
		if seen[folded] {
			continue
		}
		seen[folded] = true

		existing, err := s.store.GetTagByName(ctx, name)
		if err == nil {
			canonical = append(canonical, existing.Name)
			continue
		}
		if !domainerrors.Is(err, domainerrors.ErrNotFound) {
			return nil, err
		}

		created, err := s.CreateTag(ctx, name, domain.CategoryUncategorized, false)
		if domainerrors.Is(err, domainerrors.ErrAlreadyExists) {
			// Raced with a concurrent create; use whatever is stored now.
			existing, err := s.store.GetTagByName(ctx, name)
			if err != nil {
				return nil, err
			}
			canonical = append(canonical, existing.Name)
			continue
		}
		if err != nil {
			return nil, err
		}
		canonical = append(canonical, created.Name)
	}

	return canonical, nil
}

// GetTag returns a tag by ID.
func (s *TagService) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	return s.store.GetTag(ctx, tagID)
}

// ListTags returns all tags ordered by category, then priority-first, then
// name.
func (s *TagService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	tags, err := s.store.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	domain.SortTags(tags)
	return tags, nil
}

// ListTagsByCategory returns tags grouped by category, in category order.
// Empty categories are omitted.
func (s *TagService) ListTagsByCategory(ctx context.Context) (map[domain.Category][]*domain.Tag, error) {
	tags, err := s.ListTags(ctx)
	if err != nil {
		return nil, err
	}

	grouped := map[domain.Category][]*domain.Tag{}
	for _, t := range tags {
		grouped[t.Category] = append(grouped[t.Category], t)
	}
	return grouped, nil
}

// RenameTag changes a tag's name, updating every person reference in the
// same transaction. Fails with errors.ErrAlreadyExists when the new name
// collides with a different tag under case folding.
func (s *TagService) RenameTag(ctx context.Context, tagID, newName string) (*domain.Tag, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return nil, domainerrors.Validation("tag name must not be empty")
	}

	// Renaming to the same name under folding (a casing fix) is allowed;
	// the store's unique index only rejects collisions with other tags.
	current, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if current.Name == newName {
		return current, nil
	}
	if existing, err := s.store.GetTagByName(ctx, newName); err == nil && existing.ID != tagID {
		return nil, domainerrors.AlreadyExistsf("tag %q already exists", newName)
	}

	tag, err := s.store.RenameTag(ctx, tagID, newName)
	if err != nil {
		return nil, err
	}

	s.logger.Info("tag renamed",
		"tag_id", tagID,
		"old_name", current.Name,
		"new_name", newName,
	)

	return tag, nil
}

// SetPriority toggles a tag's priority flag.
func (s *TagService) SetPriority(ctx context.Context, tagID string, isPriority bool) (*domain.Tag, error) {
	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	tag.IsPriority = isPriority
	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// SetCategory moves a tag to another category.
func (s *TagService) SetCategory(ctx context.Context, tagID string, category domain.Category) (*domain.Tag, error) {
	if !category.IsValid() {
		return nil, domainerrors.Validationf("unknown category %q", category)
	}

	tag, err := s.store.GetTag(ctx, tagID)
	if err != nil {
		return nil, err
	}

	tag.Category = category
	tag.Touch()
	if err := s.store.UpdateTag(ctx, tag); err != nil {
		return nil, err
	}
	return tag, nil
}

// DeleteTag removes a tag and strips it from every person carrying it.
// Deleting an unknown tag is a silent no-op.
func (s *TagService) DeleteTag(ctx context.Context, tagID string) error {
	if err := s.store.DeleteTag(ctx, tagID); err != nil {
		return err
	}
	s.logger.Info("tag deleted", "tag_id", tagID)
	return nil
}
