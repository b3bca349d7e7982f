package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/lmarques/goaltrack-be/internal/auth"
	"github.com/lmarques/goaltrack-be/internal/config"
	"github.com/lmarques/goaltrack-be/internal/database"
	"github.com/lmarques/goaltrack-be/internal/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		AllowedOrigins: []string{"http://localhost:3000"},
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		BcryptCost:     bcrypt.MinCost,
	}

	db, err := database.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Migrate(db))

	tokens := auth.NewTokenService(cfg)
	userService := services.NewUserService(db, cfg)
	goalService := services.NewGoalService(db)
	targetService := services.NewTargetService(db)

	srv := httptest.NewServer(NewRouter(cfg, tokens, userService, goalService, targetService))
	t.Cleanup(srv.Close)
	return srv
}

// doJSON sends a request and decodes the JSON response body into a map.
func doJSON(t *testing.T, srv *httptest.Server, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, srv.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded), "body: %s", raw)
	}
	return resp.StatusCode, decoded
}

func registerAndLogin(t *testing.T, srv *httptest.Server, username, email string) string {
	t.Helper()

	status, _ := doJSON(t, srv, http.MethodPost, "/api/v1/user", "", map[string]interface{}{
		"email": email, "username": username, "password": "Passw0rd1",
	})
	require.Equal(t, http.StatusCreated, status)

	status, body := doJSON(t, srv, http.MethodPost, "/api/v1/user/token", "", map[string]interface{}{
		"username": username, "password": "Passw0rd1",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestPrivateGoalVisibilityScenario(t *testing.T) {
	srv := newTestServer(t)

	alice := registerAndLogin(t, srv, "alice", "alice@x.com")

	status, goal := doJSON(t, srv, http.MethodPost, "/api/v1/goal", alice, map[string]interface{}{
		"title": "Run", "description": "5k", "private": true,
		"targets": []map[string]interface{}{{"title": "km", "target": 5, "progress": 0}},
	})
	require.Equal(t, http.StatusCreated, status)
	require.NotNil(t, goal["id"])
	require.NotNil(t, goal["user_id"])

	targets, ok := goal["targets"].([]interface{})
	require.True(t, ok)
	require.Len(t, targets, 1)
	target := targets[0].(map[string]interface{})
	assert.NotNil(t, target["id"])
	assert.Equal(t, float64(5), target["target"])

	goalPath := fmt.Sprintf("/api/v1/goal/%v", goal["id"])

	// Anonymous: the private goal does not exist.
	status, _ = doJSON(t, srv, http.MethodGet, goalPath, "", nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Another user: still does not exist.
	bob := registerAndLogin(t, srv, "bob", "bob@x.com")
	status, _ = doJSON(t, srv, http.MethodGet, goalPath, bob, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// The owner gets the full payload.
	status, body := doJSON(t, srv, http.MethodGet, goalPath, alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Run", body["title"])
	assert.Equal(t, "5k", body["description"])
	assert.Equal(t, true, body["private"])
	assert.Len(t, body["targets"].([]interface{}), 1)
}

func TestTargetInvariantScenario(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice", "alice@x.com")

	status, goal := doJSON(t, srv, http.MethodPost, "/api/v1/goal", alice, map[string]interface{}{
		"title": "Run", "description": "5k", "private": false,
		"targets": []map[string]interface{}{{"title": "km", "target": 5, "progress": 0}},
	})
	require.Equal(t, http.StatusCreated, status)
	targetID := goal["targets"].([]interface{})[0].(map[string]interface{})["id"]

	targetPath := fmt.Sprintf("/api/v1/goal/%v/target/%v", goal["id"], targetID)

	// progress > target is rejected before persistence.
	status, _ = doJSON(t, srv, http.MethodPut, targetPath, alice, map[string]interface{}{
		"title": "km", "target": 5, "progress": 10,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	// The row is unchanged.
	status, body := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/v1/goal/%v", goal["id"]), alice, nil)
	require.Equal(t, http.StatusOK, status)
	target := body["targets"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, float64(0), target["progress"])
	assert.Equal(t, float64(5), target["target"])
}

func TestStatusCodeMapping(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice", "alice@x.com")
	bob := registerAndLogin(t, srv, "bob", "bob@x.com")

	// Conflict on duplicate registration.
	status, _ := doJSON(t, srv, http.MethodPost, "/api/v1/user", "", map[string]interface{}{
		"email": "alice@x.com", "username": "alice2", "password": "Passw0rd1",
	})
	assert.Equal(t, http.StatusConflict, status)

	// Unauthenticated on a protected route without a token.
	status, _ = doJSON(t, srv, http.MethodPost, "/api/v1/goal", "", map[string]interface{}{"title": "x"})
	assert.Equal(t, http.StatusUnauthorized, status)

	// Forbidden on writing someone else's public goal.
	status, goal := doJSON(t, srv, http.MethodPost, "/api/v1/goal", alice, map[string]interface{}{
		"title": "Run", "private": false,
	})
	require.Equal(t, http.StatusCreated, status)
	goalPath := fmt.Sprintf("/api/v1/goal/%v", goal["id"])

	status, _ = doJSON(t, srv, http.MethodPut, goalPath, bob, map[string]interface{}{"title": "mine now"})
	assert.Equal(t, http.StatusForbidden, status)

	// NotFound on a missing goal.
	status, _ = doJSON(t, srv, http.MethodGet, "/api/v1/goal/9999", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)

	// Bad credentials on login.
	status, _ = doJSON(t, srv, http.MethodPost, "/api/v1/user/token", "", map[string]interface{}{
		"username": "alice", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestDeletedUserTokenRejected(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice", "alice@x.com")

	status, _ := doJSON(t, srv, http.MethodDelete, "/api/v1/user", alice, nil)
	require.Equal(t, http.StatusNoContent, status)

	// The token is still unexpired but its subject is gone.
	status, _ = doJSON(t, srv, http.MethodGet, "/api/v1/user", alice, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestPublicGoalListing(t *testing.T) {
	srv := newTestServer(t)
	alice := registerAndLogin(t, srv, "alice", "alice@x.com")

	for i, private := range []bool{false, true, false} {
		status, _ := doJSON(t, srv, http.MethodPost, "/api/v1/goal", alice, map[string]interface{}{
			"title": fmt.Sprintf("goal-%d", i), "private": private,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, body := doJSON(t, srv, http.MethodGet, "/api/v1/goal/public", "", nil)
	require.Equal(t, http.StatusOK, status)
	goals := body["goals"].([]interface{})
	assert.Len(t, goals, 2)

	status, body = doJSON(t, srv, http.MethodGet, "/api/v1/goal", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, body["goals"].([]interface{}), 3)
}
