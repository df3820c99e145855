package domain

import (
	"slices"
	"strings"
	"time"
)

// Tag is a named label attachable to any number of people.
// The name is the identity people reference; it is stored case-sensitively,
// while duplicate detection on create and rename is case-insensitive.
type Tag struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	IsPriority bool      `json:"is_priority"`
	Category   Category  `json:"category"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// NewTag creates a tag with the given identity. An empty category defaults
// to Uncategorized.
func NewTag(id, name string, category Category) *Tag {
	if category == "" {
		category = CategoryUncategorized
	}
	now := time.Now()
	return &Tag{
		ID:        id,
		Name:      name,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (t *Tag) Touch() {
	t.UpdatedAt = time.Now()
}

// SortTags orders tags by category display order, then priority tags first,
// then name ascending. The slice is sorted in place.
func SortTags(tags []*Tag) {
	slices.SortStableFunc(tags, func(a, b *Tag) int {
		if ra, rb := a.Category.Rank(), b.Category.Rank(); ra != rb {
			return ra - rb
		}
		if a.IsPriority != b.IsPriority {
			if a.IsPriority {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name, b.Name)
	})
}
