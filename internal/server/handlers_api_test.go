package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1996Rosy/server-app/internal/debate"
)

func TestHandleCreateDebate(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates",
		`{"title": "Climate", "description": "evening debate"}`, cookies)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var resp createDebateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(1), resp.ID)
	assert.Equal(t, "Climate", resp.Title)
	assert.Equal(t, testAdminUser, resp.Administrator, "creator becomes the debate administrator")

	rec = doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Energy"}`, cookies)
	require.Equal(t, 201, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.ID, "debate ids are monotonic")
}

func TestHandleCreateDebate_EmptyTitle(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": ""}`, cookies)
	assert.Equal(t, 400, rec.Code)
}

func TestHandlePublishQuestion(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, cookies)
	require.Equal(t, 201, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/debates/1/questions",
		`{"title": "Pick a color", "answers": ["red", "blue"]}`, cookies)
	require.Equal(t, 201, rec.Code, rec.Body.String())

	var view debate.FormattedQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, int64(1), view.ID)
	assert.Equal(t, []string{"red", "blue"}, view.Answers)
	assert.False(t, view.IsOpenQuestion)
}

func TestHandlePublishQuestion_UnknownDebate(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates/99/questions",
		`{"title": "Pick"}`, cookies)
	assert.Equal(t, 404, rec.Code)
}

func TestHandlePublishQuestion_InvalidID(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates/banana/questions",
		`{"title": "Pick"}`, cookies)
	assert.Equal(t, 400, rec.Code)
}

func TestHandleListQuestions_Public(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, cookies)
	require.Equal(t, 201, rec.Code)
	rec = doJSON(srv, http.MethodPost, "/api/debates/1/questions",
		`{"title": "Comments?", "isOpenQuestion": true}`, cookies)
	require.Equal(t, 201, rec.Code)

	// Listing requires no login.
	rec = doJSON(srv, http.MethodGet, "/api/debates/1/questions", "", nil)
	require.Equal(t, 200, rec.Code)

	var questions []debate.FormattedQuestion
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &questions))
	require.Len(t, questions, 1)
	assert.True(t, questions[0].IsOpenQuestion)
	assert.Empty(t, questions[0].Answers, "open answers stay private")
}

func TestHandlePersistDebate(t *testing.T) {
	srv := newTestServer(t)
	cookies := login(t, srv)

	rec := doJSON(srv, http.MethodPost, "/api/debates", `{"title": "Climate"}`, cookies)
	require.Equal(t, 201, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/debates/1/persist", "", cookies)
	assert.Equal(t, 204, rec.Code)

	rec = doJSON(srv, http.MethodPost, "/api/debates/42/persist", "", cookies)
	assert.Equal(t, 404, rec.Code)
}

func TestHandleHealthAndVersion(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(srv, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, 200, rec.Code)

	rec = doJSON(srv, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, 200, rec.Code)

	rec = doJSON(srv, http.MethodGet, "/version", "", nil)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_version")
}
