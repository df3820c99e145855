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

// personColumns is the ordered list of columns selected in person queries.
// Must match the scan order in scanPerson.
const personColumns = `id, first_name, last_name, solicitation_count,
	last_solicited_at, created_at, updated_at`

// scanPerson scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.Person. Tags are loaded separately.
func scanPerson(scanner interface{ Scan(dest ...any) error }) (*domain.Person, error) {
	var p domain.Person

	var (
		lastSolicited sql.NullString
		createdAt     string
		updatedAt     string
	)

	err := scanner.Scan(
		&p.ID,
		&p.FirstName,
		&p.LastName,
		&p.SolicitationCount,
		&lastSolicited,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.LastSolicitedAt, err = parseNullableTime(lastSolicited)
	if err != nil {
		return nil, err
	}
	p.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	p.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &p, nil
}

// CreatePerson inserts a person and their tag references in one transaction.
func (s *Store) CreatePerson(ctx context.Context, p *domain.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO people (id, first_name, last_name, solicitation_count,
			last_solicited_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.FirstName,
		p.LastName,
		p.SolicitationCount,
		nullTimeString(p.LastSolicitedAt),
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errors.AlreadyExistsf("person %s already exists", p.ID)
		}
		return err
	}

	if err := insertPersonTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// insertPersonTags writes person_tags rows for the given tag names.
func insertPersonTags(ctx context.Context, tx *sql.Tx, personID string, tags []string) error {
	now := formatTime(time.Now().UTC())
	for _, name := range tags {
		_, err := tx.ExecContext(ctx, `
			INSERT OR IGNORE INTO person_tags (person_id, tag_name, created_at)
			VALUES (?, ?, ?)`,
			personID, name, now,
		)
		if err != nil {
			return fmt.Errorf("insert person_tag: %w", err)
		}
	}
	return nil
}

// GetPerson retrieves a person by ID, with their tags loaded.
func (s *Store) GetPerson(ctx context.Context, personID string) (*domain.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+personColumns+` FROM people WHERE id = ?`, personID)

	p, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, errors.NotFoundf("person %s not found", personID)
	}
	if err != nil {
		return nil, err
	}

	p.Tags, err = s.getPersonTags(ctx, personID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// getPersonTags returns the tag names for one person, sorted by name.
func (s *Store) getPersonTags(ctx context.Context, personID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT tag_name FROM person_tags WHERE person_id = ? ORDER BY tag_name`, personID)
	if err != nil {
		return nil, fmt.Errorf("query person_tags: %w", err)
	}
	defer rows.Close()

	tags := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan person_tag: %w", err)
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

// ListPeople returns all people, newest first, with tags loaded.
func (s *Store) ListPeople(ctx context.Context) ([]*domain.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+personColumns+` FROM people ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	people := []*domain.Person{}
	byID := map[string]*domain.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		p.Tags = []string{}
		people = append(people, p)
		byID[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Single pass over person_tags instead of a query per person.
	tagRows, err := s.db.QueryContext(ctx,
		`SELECT person_id, tag_name FROM person_tags ORDER BY tag_name`)
	if err != nil {
		return nil, fmt.Errorf("query person_tags: %w", err)
	}
	defer tagRows.Close()

	for tagRows.Next() {
		var personID, name string
		if err := tagRows.Scan(&personID, &name); err != nil {
			return nil, fmt.Errorf("scan person_tag: %w", err)
		}
		if p, ok := byID[personID]; ok {
			p.Tags = append(p.Tags, name)
		}
	}
	if err := tagRows.Err(); err != nil {
		return nil, err
	}

	return people, nil
}

// UpdatePerson replaces a person's fields and tag set in one transaction.
func (s *Store) UpdatePerson(ctx context.Context, p *domain.Person) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE people SET first_name = ?, last_name = ?, solicitation_count = ?,
			last_solicited_at = ?, updated_at = ?
		WHERE id = ?`,
		p.FirstName,
		p.LastName,
		p.SolicitationCount,
		nullTimeString(p.LastSolicitedAt),
		formatTime(p.UpdatedAt),
		p.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("person %s not found", p.ID)
	}

	// Full replace of the tag set.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM person_tags WHERE person_id = ?`, p.ID); err != nil {
		return fmt.Errorf("delete person_tags: %w", err)
	}
	if err := insertPersonTags(ctx, tx, p.ID, p.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeletePerson removes a person. Deleting a person that does not exist is a
// no-op; person_tags rows go with the row via ON DELETE CASCADE.
func (s *Store) DeletePerson(ctx context.Context, personID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, personID)
	return err
}

// AddPersonTag attaches a tag name to a person. Adding a tag the person
// already has is a no-op. Returns errors.ErrNotFound for a missing person.
func (s *Store) AddPersonTag(ctx context.Context, personID, tagName string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE id = ?`, personID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return errors.NotFoundf("person %s not found", personID)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO person_tags (person_id, tag_name, created_at)
		VALUES (?, ?, ?)`,
		personID, tagName, formatTime(time.Now().UTC()),
	)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE people SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()), personID)
	return err
}

// RemovePersonTag detaches a tag name from a person. Removing a tag the
// person does not have is a no-op. Returns errors.ErrNotFound for a missing
// person.
func (s *Store) RemovePersonTag(ctx context.Context, personID, tagName string) error {
	var exists int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM people WHERE id = ?`, personID).Scan(&exists)
	if err != nil {
		return err
	}
	if exists == 0 {
		return errors.NotFoundf("person %s not found", personID)
	}

	_, err = s.db.ExecContext(ctx,
		`DELETE FROM person_tags WHERE person_id = ? AND tag_name = ?`,
		personID, tagName)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE people SET updated_at = ? WHERE id = ?`,
		formatTime(time.Now().UTC()), personID)
	return err
}

// IncrementSolicitation bumps a person's solicitation count by one and
// records the solicitation time.
func (s *Store) IncrementSolicitation(ctx context.Context, personID string, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE people SET solicitation_count = solicitation_count + 1,
			last_solicited_at = ?, updated_at = ?
		WHERE id = ?`,
		formatTime(at),
		formatTime(at),
		personID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.NotFoundf("person %s not found", personID)
	}
	return nil
}

// ListNameKeys returns a map from each person's folded name key to their ID.
// Used by import reconciliation to match incoming rows against existing
// people without loading full records.
func (s *Store) ListNameKeys(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name FROM people`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	keys := map[string]string{}
	for rows.Next() {
		var id, first, last string
		if err := rows.Scan(&id, &first, &last); err != nil {
			return nil, err
		}
		keys[domain.NameKey(first, last)] = id
	}
	return keys, rows.Err()
}
