// Package store defines the persistence interface for the Rolo server.
package store

import (
	"context"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
)

// Store defines the interface for all persistence operations.
//
// Implementations return errors from internal/errors so callers can branch on
// the code: ErrNotFound for missing records, ErrAlreadyExists for unique
// constraint violations.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	CountUsers(ctx context.Context) (int, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteAllUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)

	// Tags
	CreateTag(ctx context.Context, tag *domain.Tag) error
	GetTag(ctx context.Context, id string) (*domain.Tag, error)
	GetTagByName(ctx context.Context, name string) (*domain.Tag, error)
	ListTags(ctx context.Context) ([]*domain.Tag, error)
	RenameTag(ctx context.Context, id, newName string) (*domain.Tag, error)
	UpdateTag(ctx context.Context, tag *domain.Tag) error
	DeleteTag(ctx context.Context, id string) error
	CountTagRefs(ctx context.Context, name string) (int, error)

	// People
	CreatePerson(ctx context.Context, person *domain.Person) error
	GetPerson(ctx context.Context, id string) (*domain.Person, error)
	ListPeople(ctx context.Context) ([]*domain.Person, error)
	UpdatePerson(ctx context.Context, person *domain.Person) error
	DeletePerson(ctx context.Context, id string) error
	AddPersonTag(ctx context.Context, personID, tagName string) error
	RemovePersonTag(ctx context.Context, personID, tagName string) error
	IncrementSolicitation(ctx context.Context, personID string, at time.Time) error
	ListNameKeys(ctx context.Context) (map[string]string, error)
}
