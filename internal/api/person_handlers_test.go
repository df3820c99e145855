package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createPerson creates a person via the API and returns its response.
func (ts *testServer) createPerson(t *testing.T, token, first, last string, tags []string) PersonResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/people",
		map[string]any{"firstname": first, "lastname": last, "tags": tags},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestCreatePerson_WithImplicitTags(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	p := ts.createPerson(t, token, "  Ada ", " Lovelace ", []string{"Engineer", "Paris"})

	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.Equal(t, "@Ada Lovelace", p.Handle)
	assert.Regexp(t, `^#[0-9A-F]{6}$`, p.AvatarColor)
	assert.ElementsMatch(t, []string{"Engineer", "Paris"}, p.Tags)
	assert.Equal(t, 0, p.SolicitationCount)
	assert.Nil(t, p.LastSolicitedAt)

	// The unknown tags were created on the fly.
	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var tags testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &tags))
	assert.Len(t, tags.Data.Tags, 2)
}

func TestCreatePerson_EmptyNameRejected(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/people",
		map[string]any{"firstname": "   ", "lastname": "Lovelace"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListPeople_NewestFirst(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createPerson(t, token, "Grace", "Hopper", nil)
	ts.createPerson(t, token, "Ada", "Lovelace", nil)

	resp := ts.api.Get("/api/v1/people", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListPeopleResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Equal(t, 2, envelope.Data.Total)
	assert.Equal(t, "Ada", envelope.Data.People[0].FirstName)
	assert.Equal(t, "Grace", envelope.Data.People[1].FirstName)
}

func TestUpdatePerson_ReplacesTagSet(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	p := ts.createPerson(t, token, "Ada", "Lovelace", []string{"Paris"})

	resp := ts.api.Put("/api/v1/people/"+p.ID,
		map[string]any{"firstname": "Ada", "lastname": "King", "tags": []string{"London"}},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.Equal(t, "King", envelope.Data.LastName)
	assert.Equal(t, []string{"London"}, envelope.Data.Tags)
}

func TestUpdatePerson_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	resp := ts.api.Put("/api/v1/people/per-missing",
		map[string]any{"firstname": "Ada", "lastname": "Lovelace", "tags": []string{}},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeletePerson_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	p := ts.createPerson(t, token, "Ada", "Lovelace", nil)

	resp := ts.api.Delete("/api/v1/people/"+p.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Deleting again is a silent success.
	resp = ts.api.Delete("/api/v1/people/"+p.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/people/"+p.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBulkDeletePeople(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	a := ts.createPerson(t, token, "Ada", "Lovelace", nil)
	b := ts.createPerson(t, token, "Grace", "Hopper", nil)

	resp := ts.api.Post("/api/v1/people/bulk-delete",
		map[string]any{"ids": []string{a.ID, b.ID, "per-missing"}},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/people", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListPeopleResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, 0, envelope.Data.Total)
}

func TestImportPeople_DedupesAndSkipsBlanks(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createPerson(t, token, "Jean", "Dupont", nil)

	resp := ts.api.Post("/api/v1/people/import",
		map[string]any{"people": []map[string]any{
			{"firstname": "jean", "lastname": "dupont"}, // existing, case-insensitive
			{"firstname": "Marie", "lastname": "Curie"},
			{"firstname": " marie ", "lastname": " CURIE "}, // within-batch duplicate
			{"firstname": "", "lastname": "Durand"},         // blank row
		}},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ImportResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Added, 1)
	assert.Equal(t, "Marie", envelope.Data.Added[0].FirstName)
	assert.Equal(t, 2, envelope.Data.Duplicates)
	assert.Equal(t, 1, envelope.Data.Skipped)

	// Imported people start unsolicited and untagged.
	assert.Empty(t, envelope.Data.Added[0].Tags)
	assert.Equal(t, 0, envelope.Data.Added[0].SolicitationCount)
}
