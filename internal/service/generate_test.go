package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roloapp/rolo-server/internal/filter"
)

const testUser = "usr-test"

func TestGenerateService_ToggleClearsSelection(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	p, err := svc.people.AddPerson(ctx, "Ada", "Lovelace", []string{"paris"})
	require.NoError(t, err)

	_, err = svc.selection.Toggle(ctx, testUser, p.ID)
	require.NoError(t, err)
	require.Equal(t, 1, svc.selection.Count(testUser))

	// Any filter change drops the selection.
	state := svc.generate.ToggleTag(testUser, "paris")
	assert.Equal(t, filter.StateIncluded, state)
	assert.Equal(t, 0, svc.selection.Count(testUser))
}

func TestGenerateService_FilterScenario(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	alice, err := svc.people.AddPerson(ctx, "Alice", "Martin", []string{"vip", "paris"})
	require.NoError(t, err)
	bob, err := svc.people.AddPerson(ctx, "Bob", "Durand", []string{"paris"})
	require.NoError(t, err)

	now := time.Now().UTC()
	require.NoError(t, svc.store.IncrementSolicitation(ctx, alice.ID, now))
	require.NoError(t, svc.store.IncrementSolicitation(ctx, alice.ID, now))
	for i := 0; i < 5; i++ {
		require.NoError(t, svc.store.IncrementSolicitation(ctx, bob.ID, now))
	}

	// No included tag: empty result, not an error.
	people, err := svc.generate.FilteredPeople(ctx, testUser)
	require.NoError(t, err)
	assert.Empty(t, people)

	svc.generate.ToggleTag(testUser, "paris")
	maxSol := 3
	svc.generate.SetMaxSolicitations(testUser, &maxSol)

	people, err = svc.generate.FilteredPeople(ctx, testUser)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Alice", people[0].FirstName)
}

func TestGenerateService_PreviewHandles(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	// Listing is newest-first, so Ada (created second) comes first.
	_, err := svc.people.AddPerson(ctx, "Grace", "Hopper", []string{"pioneers"})
	require.NoError(t, err)
	_, err = svc.people.AddPerson(ctx, "Ada", "Lovelace", []string{"pioneers"})
	require.NoError(t, err)

	svc.generate.ToggleTag(testUser, "pioneers")

	result, err := svc.generate.Preview(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "@Ada Lovelace @Grace Hopper", result.Handles)
}

func TestGenerateService_CopyRecordsSolicitations(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	p, err := svc.people.AddPerson(ctx, "Ada", "Lovelace", []string{"vip"})
	require.NoError(t, err)

	svc.generate.ToggleTag(testUser, "vip")

	result, err := svc.generate.Copy(ctx, testUser)
	require.NoError(t, err)
	assert.Equal(t, "@Ada Lovelace", result.Handles)

	got, err := svc.people.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SolicitationCount)
	require.NotNil(t, got.LastSolicitedAt)

	// Preview does not record anything.
	_, err = svc.generate.Preview(ctx, testUser)
	require.NoError(t, err)
	got, err = svc.people.GetPerson(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.SolicitationCount)
}

func TestGenerateService_ResetClearsFilterAndSelection(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.people.AddPerson(ctx, "Ada", "Lovelace", []string{"vip"})
	require.NoError(t, err)

	svc.generate.ToggleTag(testUser, "vip")
	n, err := svc.selection.SelectAll(ctx, testUser)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	svc.generate.Reset(testUser)

	assert.False(t, svc.generate.StateFor(testUser).HasIncluded())
	assert.Equal(t, 0, svc.selection.Count(testUser))
}

func TestGenerateService_StatesArePerUser(t *testing.T) {
	svc := newTestServices(t)

	svc.generate.ToggleTag("usr-a", "vip")

	assert.Equal(t, filter.StateIncluded, svc.generate.StateFor("usr-a").TagState("vip"))
	assert.Equal(t, filter.StateNeutral, svc.generate.StateFor("usr-b").TagState("vip"))
}
