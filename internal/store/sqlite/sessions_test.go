package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/roloapp/rolo-server/internal/domain"
	domainerrors "github.com/roloapp/rolo-server/internal/errors"
)

func makeTestSession(id, userID, tokenHash string, expiresAt time.Time) *domain.Session {
	now := time.Now()
	return &domain.Session{
		ID:               id,
		UserID:           userID,
		RefreshTokenHash: tokenHash,
		ExpiresAt:        expiresAt,
		CreatedAt:        now,
		LastUsedAt:       now,
	}
}

func TestCreateAndGetSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-s1", "s1@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	sess := makeTestSession("sess-1", "usr-s1", "hash-abc", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	got, err := s.GetSessionByRefreshToken(ctx, "hash-abc")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken: %v", err)
	}
	if got.ID != "sess-1" || got.UserID != "usr-s1" {
		t.Errorf("session: got ID=%q UserID=%q", got.ID, got.UserID)
	}

	_, err = s.GetSessionByRefreshToken(ctx, "no-such-hash")
	if !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSession_RotatesToken(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-s2", "s2@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	sess := makeTestSession("sess-2", "usr-s2", "hash-old", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, sess); err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	sess.RefreshTokenHash = "hash-new"
	sess.LastUsedAt = time.Now()
	if err := s.UpdateSession(ctx, sess); err != nil {
		t.Fatalf("UpdateSession: %v", err)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-old"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("old hash should not resolve, got %v", err)
	}
	got, err := s.GetSessionByRefreshToken(ctx, "hash-new")
	if err != nil {
		t.Fatalf("GetSessionByRefreshToken (new): %v", err)
	}
	if got.ID != "sess-2" {
		t.Errorf("ID: got %q", got.ID)
	}
}

func TestDeleteSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-s3", "s3@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	for i, id := range []string{"sess-d1", "sess-d2"} {
		sess := makeTestSession(id, "usr-s3", "hash-"+id, time.Now().Add(time.Duration(i+1)*time.Hour))
		if err := s.CreateSession(ctx, sess); err != nil {
			t.Fatalf("CreateSession(%s): %v", id, err)
		}
	}

	if err := s.DeleteSession(ctx, "sess-d1"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-sess-d1"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("deleted session should not resolve, got %v", err)
	}

	if err := s.DeleteAllUserSessions(ctx, "usr-s3"); err != nil {
		t.Fatalf("DeleteAllUserSessions: %v", err)
	}
	if _, err := s.GetSessionByRefreshToken(ctx, "hash-sess-d2"); !errors.Is(err, domainerrors.ErrNotFound) {
		t.Errorf("remaining session should be gone, got %v", err)
	}
}

func TestDeleteExpiredSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.CreateUser(ctx, makeTestUser("usr-s4", "s4@example.com")); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	expired := makeTestSession("sess-e1", "usr-s4", "hash-expired", time.Now().Add(-time.Hour))
	live := makeTestSession("sess-e2", "usr-s4", "hash-live", time.Now().Add(time.Hour))
	if err := s.CreateSession(ctx, expired); err != nil {
		t.Fatalf("CreateSession expired: %v", err)
	}
	if err := s.CreateSession(ctx, live); err != nil {
		t.Fatalf("CreateSession live: %v", err)
	}

	n, err := s.DeleteExpiredSessions(ctx)
	if err != nil {
		t.Fatalf("DeleteExpiredSessions: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deleted, got %d", n)
	}

	if _, err := s.GetSessionByRefreshToken(ctx, "hash-live"); err != nil {
		t.Errorf("live session should remain: %v", err)
	}
}
