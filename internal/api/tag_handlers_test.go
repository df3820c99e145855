package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTag creates a tag via the API and returns its response.
func (ts *testServer) createTag(t *testing.T, token, name, category string, priority bool) TagResponse {
	t.Helper()

	body := map[string]any{"name": name, "is_priority": priority}
	if category != "" {
		body["category"] = category
	}

	resp := ts.api.Post("/api/v1/tags", body, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	return envelope.Data
}

func TestListTags_EmptyInitially(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.Empty(t, envelope.Data.Tags)
}

func TestCreateTag_DefaultsToUncategorized(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	tag := ts.createTag(t, token, "Paris", "", false)

	assert.NotEmpty(t, tag.ID)
	assert.Equal(t, "Paris", tag.Name)
	assert.Equal(t, "uncategorized", tag.Category)
	assert.False(t, tag.IsPriority)
}

func TestCreateTag_DuplicateNameConflicts(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createTag(t, token, "Paris", "city", false)

	// Same name with different casing is still a duplicate.
	resp := ts.api.Post("/api/v1/tags",
		map[string]any{"name": "paris"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "ALREADY_EXISTS", envelope.Code)
}

func TestCreateTag_InvalidCategory(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/tags",
		map[string]any{"name": "Paris", "category": "planet"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestListTags_OrderedByCategoryPriorityName(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createTag(t, token, "Lyon", "city", false)
	ts.createTag(t, token, "Paris", "city", true)
	ts.createTag(t, token, "Engineer", "role", false)

	resp := ts.api.Get("/api/v1/tags", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListTagsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Tags, 3)
	// city before role, priority first within a category.
	assert.Equal(t, "Paris", envelope.Data.Tags[0].Name)
	assert.Equal(t, "Lyon", envelope.Data.Tags[1].Name)
	assert.Equal(t, "Engineer", envelope.Data.Tags[2].Name)
}

func TestListTagsByCategory(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createTag(t, token, "Paris", "city", false)
	ts.createTag(t, token, "Engineer", "role", false)
	ts.createTag(t, token, "Cinema", "", false)

	resp := ts.api.Get("/api/v1/tags/by-category", "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[TagGroupsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	require.Len(t, envelope.Data.Groups["city"], 1)
	assert.Equal(t, "Paris", envelope.Data.Groups["city"][0].Name)
	require.Len(t, envelope.Data.Groups["role"], 1)
	require.Len(t, envelope.Data.Groups["uncategorized"], 1)
}

func TestGetTag_NotFound(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	resp := ts.api.Get("/api/v1/tags/tag-missing", "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateTag_RenameCascadesToPeople(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	tag := ts.createTag(t, token, "Pari", "city", false)

	resp := ts.api.Post("/api/v1/people",
		map[string]any{"firstname": "Ada", "lastname": "Lovelace", "tags": []string{"Pari"}},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.api.Patch("/api/v1/tags/"+tag.ID,
		map[string]any{"name": "Paris"},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var renamed testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &renamed))
	assert.Equal(t, "Paris", renamed.Data.Name)

	// The person now carries the new name.
	resp = ts.api.Get("/api/v1/people/"+created.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var person testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &person))
	assert.Equal(t, []string{"Paris"}, person.Data.Tags)
}

func TestUpdateTag_RenameCollision(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	ts.createTag(t, token, "Paris", "city", false)
	lyon := ts.createTag(t, token, "Lyon", "city", false)

	resp := ts.api.Patch("/api/v1/tags/"+lyon.ID,
		map[string]any{"name": "paris"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusConflict, resp.Code)
}

func TestUpdateTag_PriorityAndCategory(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	tag := ts.createTag(t, token, "Cinema", "", false)

	resp := ts.api.Patch("/api/v1/tags/"+tag.ID,
		map[string]any{"category": "interest", "is_priority": true},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[TagResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "interest", envelope.Data.Category)
	assert.True(t, envelope.Data.IsPriority)
}

func TestDeleteTag_RemovesFromPeopleAndIsIdempotent(t *testing.T) {
	ts := setupTestServer(t)
	token := ts.createTestUser(t)

	tag := ts.createTag(t, token, "Paris", "city", false)

	resp := ts.api.Post("/api/v1/people",
		map[string]any{"firstname": "Ada", "lastname": "Lovelace", "tags": []string{"Paris"}},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.api.Delete("/api/v1/tags/"+tag.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// Second delete of the same ID still succeeds.
	resp = ts.api.Delete("/api/v1/tags/"+tag.ID, "Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/people/"+created.Data.ID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var person testEnvelope[PersonResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &person))
	assert.Empty(t, person.Data.Tags)
}
