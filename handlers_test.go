package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func newTestServer(t *testing.T) (*gin.Engine, *memStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := &Config{JWTSecret: "test-secret", ReceiptBase: t.TempDir()}
	store := newMemStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := NewServer(cfg, nil, store, logger)
	return srv.router(), store
}

func TestAuthFlow(t *testing.T) {
	r, store := newTestServer(t)

	// register
	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var regResp struct {
		User map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &regResp))
	assert.Equal(t, "jane@x.com", regResp.User["email"])
	assert.NotContains(t, regResp.User, "password_hash")
	assert.NotContains(t, resp.Body.String(), "session_marker")

	// duplicate register
	resp = performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, 1, store.count())

	// login
	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))
	t1 := loginResp.Token
	require.NotEmpty(t, t1)

	// /me with the fresh token
	resp = performRequest(r, http.MethodGet, "/me", nil, t1, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "jane@x.com")

	// regenerate: old token becomes stale, new one authorizes
	resp = performRequest(r, http.MethodPost, "/regenerate-token", nil, t1, "")
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))
	t2 := loginResp.Token
	require.NotEmpty(t, t2)
	require.NotEqual(t, t1, t2)

	resp = performRequest(r, http.MethodGet, "/me", nil, t1, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "invalidated")

	resp = performRequest(r, http.MethodGet, "/me", nil, t2, "")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestLoginErrors(t *testing.T) {
	r, _ := newTestServer(t)

	resp := performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "ghost@x.com", "password": "whatever"}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Not Found")

	resp = performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "jane@x.com", "password": "wrongpw"}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid credentials")
}

func TestChangePasswordEndpoint(t *testing.T) {
	r, _ := newTestServer(t)

	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusCreated, resp.Code)

	resp = performRequest(r, http.MethodPost, "/change-password",
		jsonBody(t, gin.H{"email": "jane@x.com", "current_password": "wrongpw", "new_password": "secret2"}), "", "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = performRequest(r, http.MethodPost, "/change-password",
		jsonBody(t, gin.H{"email": "jane@x.com", "current_password": "secret1", "new_password": "secret2"}), "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "jane@x.com", "password": "secret2"}), "", "application/json")
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestMeUpdateAndDelete(t *testing.T) {
	r, store := newTestServer(t)

	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code)
	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))
	token := loginResp.Token

	// empty patch rejected
	resp = performRequest(r, http.MethodPatch, "/me", jsonBody(t, gin.H{}), token, "application/json")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "No data to update")

	resp = performRequest(r, http.MethodPatch, "/me",
		jsonBody(t, gin.H{"full_name": "Jane Q. Doe"}), token, "application/json")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = performRequest(r, http.MethodGet, "/me", nil, token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "Jane Q. Doe")

	resp = performRequest(r, http.MethodDelete, "/me", nil, token, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, 0, store.count())

	// the token no longer resolves to a user
	resp = performRequest(r, http.MethodGet, "/me", nil, token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestDeactivatedAccountRejected(t *testing.T) {
	r, store := newTestServer(t)

	resp := performRequest(r, http.MethodPost, "/register",
		jsonBody(t, gin.H{"full_name": "Jane Doe", "email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusCreated, resp.Code)
	resp = performRequest(r, http.MethodPost, "/login",
		jsonBody(t, gin.H{"email": "jane@x.com", "password": "secret1"}), "", "application/json")
	require.Equal(t, http.StatusOK, resp.Code)
	var loginResp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &loginResp))

	user, err := store.FindByEmail("jane@x.com")
	require.NoError(t, err)
	store.setActive(user.ID, false)

	resp = performRequest(r, http.MethodGet, "/me", nil, loginResp.Token, "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "not active")
}

func TestProtectedEndpointsRequireToken(t *testing.T) {
	r, _ := newTestServer(t)

	for _, path := range []string{"/me", "/vehicles", "/transactions", "/receipts"} {
		resp := performRequest(r, http.MethodGet, path, nil, "", "")
		assert.Equal(t, http.StatusUnauthorized, resp.Code, path)
	}

	resp := performRequest(r, http.MethodPost, "/regenerate-token", nil, "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestPing(t *testing.T) {
	r, _ := newTestServer(t)
	resp := performRequest(r, http.MethodGet, "/ping", nil, "", "")
	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "pong")
}
