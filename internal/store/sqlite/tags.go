package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	"github.com/roloapp/rolo-server/internal/errors"
)

// tagColumns is the ordered list of columns selected in tag queries.
// Must match the scan order in scanTag.
const tagColumns = `id, name, is_priority, category, created_at, updated_at`

// scanTag scans a sql.Row (or sql.Rows via its Scan method) into a domain.Tag.
func scanTag(scanner interface{ Scan(dest ...any) error }) (*domain.Tag, error) {
	var t domain.Tag

	var (
		isPriority int
		category   string
		createdAt  string
		updatedAt  string
	)

	err := scanner.Scan(
		&t.ID,
		&t.Name,
		&isPriority,
		&category,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	t.IsPriority = isPriority != 0
	t.Category = domain.Category(category)

	t.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	t.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &t, nil
}

// CreateTag inserts a new tag.
// Returns errors.ErrAlreadyExists when a tag with the same name already
// exists under case folding.
func (s *Store) CreateTag(ctx context.Context, t *domain.Tag) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tags (id, name, name_folded, is_priority, category, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.ID,
		t.Name,
		domain.FoldName(t.Name),
		boolToInt(t.IsPriority),
		string(t.Category),
		formatTime(t.CreatedAt),
		formatTime(t.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.AlreadyExistsf("tag %q already exists", t.Name)
		}
		return err
	}
	return nil
}

// GetTag retrieves a tag by its ID.
func (s *Store) GetTag(ctx context.Context, tagID string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("tag %s not found", tagID)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// GetTagByName retrieves a tag by name under case folding, so "Paris" finds a
// tag stored as "paris". The returned tag carries its stored casing.
func (s *Store) GetTagByName(ctx context.Context, name string) (*domain.Tag, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE name_folded = ?`, domain.FoldName(name))

	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("tag %q not found", name)
	}
	if err != nil {
		return nil, err
	}
	return t, nil
}

// ListTags returns all tags. Ordering is left to the caller; the service
// layer sorts by category, priority, then name.
func (s *Store) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+tagColumns+` FROM tags`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if tags == nil {
		tags = []*domain.Tag{}
	}

	return tags, nil
}

// RenameTag changes a tag's display name and rewrites every person reference
// to the new name in the same transaction. Returns the updated tag.
func (s *Store) RenameTag(ctx context.Context, tagID, newName string) (*domain.Tag, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx,
		`SELECT `+tagColumns+` FROM tags WHERE id = ?`, tagID)
	t, err := scanTag(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("tag %s not found", tagID)
	}
	if err != nil {
		return nil, err
	}

	oldName := t.Name
	now := time.Now().UTC()

	_, err = tx.ExecContext(ctx, `
		UPDATE tags SET name = ?, name_folded = ?, updated_at = ? WHERE id = ?`,
		newName,
		domain.FoldName(newName),
		formatTime(now),
		tagID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return nil, errors.AlreadyExistsf("tag %q already exists", newName)
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE person_tags SET tag_name = ? WHERE tag_name = ?`, newName, oldName); err != nil {
		return nil, fmt.Errorf("cascade rename: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	t.Name = newName
	t.UpdatedAt = now
	return t, nil
}

// UpdateTag persists a tag's priority and category. The name is not touched;
// use RenameTag for that so references cascade.
func (s *Store) UpdateTag(ctx context.Context, t *domain.Tag) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tags SET is_priority = ?, category = ?, updated_at = ? WHERE id = ?`,
		boolToInt(t.IsPriority),
		string(t.Category),
		formatTime(t.UpdatedAt),
		t.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("tag %s not found", t.ID)
	}
	return nil
}

// DeleteTag removes a tag and every person reference to it. Deleting a tag
// that does not exist is a no-op.
func (s *Store) DeleteTag(ctx context.Context, tagID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var name string
	err = tx.QueryRowContext(ctx, `SELECT name FROM tags WHERE id = ?`, tagID).Scan(&name)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}

	// References go first so a failure leaves the tag intact.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM person_tags WHERE tag_name = ?`, name); err != nil {
		return fmt.Errorf("delete person_tags: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	return tx.Commit()
}

// CountTagRefs returns how many people carry the given tag name.
func (s *Store) CountTagRefs(ctx context.Context, name string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM person_tags WHERE tag_name = ?`, name).Scan(&n)
	if err != nil {
		return 0, err
	}
	return n, nil
}
