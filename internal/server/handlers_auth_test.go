package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireAdmin_NoSession(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, nil)
	assert.Equal(t, 401, rec.Code)
}

func TestHandleLogin_Success(t *testing.T) {
	srv := newTestServer(t)

	cookies := login(t, srv)

	// The session cookie authorizes admin routes.
	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, cookies)
	assert.Equal(t, 201, rec.Code)
}

func TestHandleLogin_WrongPassword(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/auth/login",
		`{"username": "alice", "password": "wrong"}`, nil)
	assert.Equal(t, 401, rec.Code)
}

func TestHandleLogin_UnknownUser(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/auth/login",
		`{"username": "mallory", "password": "correct horse"}`, nil)
	assert.Equal(t, 401, rec.Code, "unknown user and wrong password are indistinguishable")
}

func TestHandleLogin_MissingFields(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodPost, "/auth/login", `{"username": "alice"}`, nil)
	assert.Equal(t, 400, rec.Code)
}

func TestHandleLogout_ClearsSession(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/auth/logout", "", cookies)
	require.Equal(t, 200, rec.Code)

	// The logout response carries the expired cookie.
	expired := rec.Result().Cookies()
	require.NotEmpty(t, expired)

	rec = doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, expired)
	assert.Equal(t, 401, rec.Code)
}
