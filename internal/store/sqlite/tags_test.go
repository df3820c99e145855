package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	domainerrors "github.com/roloapp/rolo-server/internal/errors"
)

// makeTestTag creates a domain.Tag with sensible defaults for testing.
func makeTestTag(id, name string) *domain.Tag {
	now := time.Now()
	return &domain.Tag{
		ID:        id,
		Name:      name,
		Category:  domain.CategoryUncategorized,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestCreateAndGetTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-1", "Photography")
	tag.IsPriority = true
	tag.Category = domain.CategoryInterest

	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}

	if got.Name != "Photography" {
		t.Errorf("Name: got %q, want %q", got.Name, "Photography")
	}
	if !got.IsPriority {
		t.Error("IsPriority: expected true")
	}
	if got.Category != domain.CategoryInterest {
		t.Errorf("Category: got %q, want %q", got.Category, domain.CategoryInterest)
	}

	// Timestamps should round-trip through RFC3339Nano.
	if got.CreatedAt.Unix() != tag.CreatedAt.Unix() {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, tag.CreatedAt)
	}
}

func TestGetTagByName_CaseInsensitive(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-name-1", "Paris")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	got, err := s.GetTagByName(ctx, "PARIS")
	if err != nil {
		t.Fatalf("GetTagByName: %v", err)
	}

	// Stored casing is preserved.
	if got.Name != "Paris" {
		t.Errorf("Name: got %q, want %q", got.Name, "Paris")
	}
}

func TestGetTag_NotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetTag(ctx, "nonexistent")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	_, err = s.GetTagByName(ctx, "nonexistent")
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for name lookup, got %v", err)
	}
}

func TestCreateTag_DuplicateFoldedName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t1 := makeTestTag("tag-dup-1", "Paris")
	if err := s.CreateTag(ctx, t1); err != nil {
		t.Fatalf("CreateTag t1: %v", err)
	}

	// Different ID, same name under folding should fail.
	t2 := makeTestTag("tag-dup-2", "paris")
	err := s.CreateTag(ctx, t2)
	if err == nil {
		t.Fatal("expected error for duplicate name, got nil")
	}
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestRenameTag_CascadesToPeople(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-ren-1", "Cinema")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	p := makeTestPerson("per-ren-1", "Ada", "Lovelace")
	p.Tags = []string{"Cinema"}
	if err := s.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	updated, err := s.RenameTag(ctx, "tag-ren-1", "Movies")
	if err != nil {
		t.Fatalf("RenameTag: %v", err)
	}
	if updated.Name != "Movies" {
		t.Errorf("Name: got %q, want %q", updated.Name, "Movies")
	}

	got, err := s.GetPerson(ctx, "per-ren-1")
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if len(got.Tags) != 1 || got.Tags[0] != "Movies" {
		t.Errorf("person tags after rename: got %v, want [Movies]", got.Tags)
	}

	// Old name no longer resolves.
	if _, err := s.GetTagByName(ctx, "Cinema"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for old name, got %v", err)
	}
}

func TestRenameTag_DuplicateTarget(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-rd-1", "Work")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}
	if err := s.CreateTag(ctx, makeTestTag("tag-rd-2", "Hobby")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	_, err := s.RenameTag(ctx, "tag-rd-2", "work")
	if !errors.Is(err, domainerrors.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestDeleteTag_RemovesReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-del-1", "Running")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	p := makeTestPerson("per-del-1", "Grace", "Hopper")
	p.Tags = []string{"Running"}
	if err := s.CreatePerson(ctx, p); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	if err := s.DeleteTag(ctx, "tag-del-1"); err != nil {
		t.Fatalf("DeleteTag: %v", err)
	}

	got, err := s.GetPerson(ctx, "per-del-1")
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if len(got.Tags) != 0 {
		t.Errorf("person tags after tag delete: got %v, want empty", got.Tags)
	}

	// Deleting again is a silent no-op.
	if err := s.DeleteTag(ctx, "tag-del-1"); err != nil {
		t.Errorf("second DeleteTag: %v", err)
	}
}

func TestUpdateTag(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tag := makeTestTag("tag-up-1", "Lyon")
	if err := s.CreateTag(ctx, tag); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	tag.IsPriority = true
	tag.Category = domain.CategoryCity
	tag.UpdatedAt = time.Now()
	if err := s.UpdateTag(ctx, tag); err != nil {
		t.Fatalf("UpdateTag: %v", err)
	}

	got, err := s.GetTag(ctx, "tag-up-1")
	if err != nil {
		t.Fatalf("GetTag: %v", err)
	}
	if !got.IsPriority {
		t.Error("IsPriority: expected true after update")
	}
	if got.Category != domain.CategoryCity {
		t.Errorf("Category: got %q, want %q", got.Category, domain.CategoryCity)
	}

	missing := makeTestTag("tag-up-missing", "Nope")
	if err := s.UpdateTag(ctx, missing); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing tag, got %v", err)
	}
}

func TestCountTagRefs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateTag(ctx, makeTestTag("tag-cnt-1", "Mentor")); err != nil {
		t.Fatalf("CreateTag: %v", err)
	}

	for i, id := range []string{"per-cnt-1", "per-cnt-2"} {
		p := makeTestPerson(id, "Person", string(rune('A'+i)))
		p.Tags = []string{"Mentor"}
		if err := s.CreatePerson(ctx, p); err != nil {
			t.Fatalf("CreatePerson(%s): %v", id, err)
		}
	}

	n, err := s.CountTagRefs(ctx, "Mentor")
	if err != nil {
		t.Fatalf("CountTagRefs: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 refs, got %d", n)
	}
}
