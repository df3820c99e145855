package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_CreatesAccountAndSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "owner@example.com",
		"password":     "TestPassword123!",
		"display_name": "Owner",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.AccessToken)
	assert.NotEmpty(t, envelope.Data.RefreshToken)
	assert.NotEmpty(t, envelope.Data.SessionID)
	assert.Equal(t, "Bearer", envelope.Data.TokenType)
	assert.Equal(t, "owner@example.com", envelope.Data.User.Email)
	assert.Equal(t, "Owner", envelope.Data.User.DisplayName)
}

func TestSetup_OnlyOnce(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "second@example.com",
		"password":     "TestPassword123!",
		"display_name": "Second",
	})
	assert.Equal(t, http.StatusConflict, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "ALREADY_CONFIGURED", envelope.Code)
}

func TestSetup_ValidationFailure(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "not-an-email",
		"password":     "short",
		"display_name": "",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "VALIDATION", envelope.Code)
}

func TestLogin_Success(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "owner@example.com",
		"password": "TestPassword123!",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data.AccessToken)

	// The fresh token authenticates protected routes.
	resp = ts.api.Get("/api/v1/tags", "Authorization: Bearer "+envelope.Data.AccessToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTestUser(t)

	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "owner@example.com",
		"password": "WrongPassword!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestLogin_UnknownEmailSameCode(t *testing.T) {
	ts := setupTestServer(t)
	ts.createTestUser(t)

	// Unknown email must be indistinguishable from a wrong password.
	resp := ts.api.Post("/api/v1/auth/login", map[string]any{
		"email":    "nobody@example.com",
		"password": "TestPassword123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	var envelope testEnvelope[struct{}]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_CREDENTIALS", envelope.Code)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "owner@example.com",
		"password":     "TestPassword123!",
		"display_name": "Owner",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setup))

	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var refreshed testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &refreshed))
	assert.NotEmpty(t, refreshed.Data.RefreshToken)
	assert.NotEqual(t, setup.Data.RefreshToken, refreshed.Data.RefreshToken)

	// Rotation invalidates the old refresh token.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestLogout_RevokesSession(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/auth/setup", map[string]any{
		"email":        "owner@example.com",
		"password":     "TestPassword123!",
		"display_name": "Owner",
	})
	require.Equal(t, http.StatusOK, resp.Code)

	var setup testEnvelope[AuthResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &setup))

	resp = ts.api.Post("/api/v1/auth/logout", map[string]any{
		"session_id": setup.Data.SessionID,
	})
	assert.Equal(t, http.StatusOK, resp.Code)

	// Refresh no longer works for the revoked session.
	resp = ts.api.Post("/api/v1/auth/refresh", map[string]any{
		"refresh_token": setup.Data.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}
