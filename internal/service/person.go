package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	domainerrors "github.com/roloapp/rolo-server/internal/errors"
	"github.com/roloapp/rolo-server/internal/id"
	"github.com/roloapp/rolo-server/internal/store"
)

// PersonService orchestrates person CRUD. Tag names attached to a person are
// guaranteed to exist in the tag store before the person record is written.
type PersonService struct {
	store  store.Store
	tags   *TagService
	logger *slog.Logger
}

// NewPersonService creates a new person service.
func NewPersonService(store store.Store, tags *TagService, logger *slog.Logger) *PersonService {
	return &PersonService{store: store, tags: tags, logger: logger}
}

// AddPerson creates a person. Unknown tag names are created first as
// Uncategorized so a person never references a tag that does not exist.
func (s *PersonService) AddPerson(ctx context.Context, firstName, lastName string, tagNames []string) (*domain.Person, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, domainerrors.Validation("first and last name must not be empty")
	}

	// Tags go in before the person so the reference invariant holds.
	canonical, err := s.tags.EnsureExist(ctx, tagNames)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}

	personID, err := id.Generate("per")
	if err != nil {
		return nil, fmt.Errorf("generate person id: %w", err)
	}

	person := domain.NewPerson(personID, firstName, lastName, canonical)
	if err := s.store.CreatePerson(ctx, person); err != nil {
		return nil, err
	}

	s.logger.Info("person added",
		"person_id", person.ID,
		"tags", len(person.Tags),
	)

	return person, nil
}

// GetPerson returns one person by ID.
func (s *PersonService) GetPerson(ctx context.Context, personID string) (*domain.Person, error) {
	return s.store.GetPerson(ctx, personID)
}

// ListPeople returns all people, newest first.
func (s *PersonService) ListPeople(ctx context.Context) ([]*domain.Person, error) {
	return s.store.ListPeople(ctx)
}

// UpdatePerson replaces a person's names and full tag set. Unknown tag names
// are created first, like AddPerson.
func (s *PersonService) UpdatePerson(ctx context.Context, personID, firstName, lastName string, tagNames []string) (*domain.Person, error) {
	firstName = strings.TrimSpace(firstName)
	lastName = strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, domainerrors.Validation("first and last name must not be empty")
	}

	person, err := s.store.GetPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	canonical, err := s.tags.EnsureExist(ctx, tagNames)
	if err != nil {
		return nil, fmt.Errorf("ensure tags: %w", err)
	}

	person.FirstName = firstName
	person.LastName = lastName
	person.Tags = canonical
	person.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdatePerson(ctx, person); err != nil {
		return nil, err
	}
	return person, nil
}

// DeletePerson removes a person. Deleting an already-absent person is a
// silent success.
func (s *PersonService) DeletePerson(ctx context.Context, personID string) error {
	if err := s.store.DeletePerson(ctx, personID); err != nil {
		return err
	}
	s.logger.Info("person deleted", "person_id", personID)
	return nil
}

// DeletePeople removes a batch of people. Absent IDs are no-ops; store
// failures are aggregated so callers see exactly which IDs were not deleted.
func (s *PersonService) DeletePeople(ctx context.Context, personIDs []string) error {
	var failed []string
	var lastErr error
	for _, pid := range personIDs {
		if err := s.store.DeletePerson(ctx, pid); err != nil {
			failed = append(failed, pid)
			lastErr = err
		}
	}
	if len(failed) > 0 {
		return domainerrors.PartialFailure("bulk delete incomplete", failed, lastErr)
	}

	s.logger.Info("people deleted", "count", len(personIDs))
	return nil
}
