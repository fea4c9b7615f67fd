package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/1996Rosy/server-app/internal/app"
	"github.com/1996Rosy/server-app/internal/broadcast"
	"github.com/1996Rosy/server-app/internal/config"
	"github.com/1996Rosy/server-app/internal/debate"
	"github.com/1996Rosy/server-app/internal/domain"
	"github.com/1996Rosy/server-app/internal/router"
)

// --- Test doubles ---

type stubDebateRepo struct{}

func (stubDebateRepo) LastDebateID(context.Context) (int64, error) { return 0, nil }

func (stubDebateRepo) SaveDebate(context.Context, domain.DebateRecord) error { return nil }

func (stubDebateRepo) SaveQuestion(context.Context, domain.QuestionRecord) error { return nil }

func (stubDebateRepo) SaveAnswer(context.Context, domain.AnswerRecord) error { return nil }

type stubAdminRepo struct {
	username string
	hash     string
}

func (r stubAdminRepo) AdministratorID(_ context.Context, username string) (int64, error) {
	if username != r.username {
		return 0, domain.ErrAdministratorNotFound
	}
	return 1, nil
}

func (r stubAdminRepo) AdministratorPasswordHash(_ context.Context, username string) (string, error) {
	if username != r.username {
		return "", domain.ErrAdministratorNotFound
	}
	return r.hash, nil
}

type okPinger struct{}

func (okPinger) Ping(context.Context) error { return nil }

// --- Setup helpers ---

const (
	testAdminUser     = "alice"
	testAdminPassword = "correct horse"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(testAdminPassword), bcrypt.MinCost)
	require.NoError(t, err)

	hub := broadcast.NewHub(clockwork.NewRealClock(), 16)
	t.Cleanup(hub.Stop)

	service := app.NewService(debate.NewRegistry(0), stubDebateRepo{}, hub)
	rt := router.NewRouter(service, hub)

	cfg := &config.Config{
		AppEnv:               "test",
		Port:                 "0",
		SessionSecret:        "test-secret",
		MaxClientsPerChannel: 16,
		InstanceID:           "test-instance",
	}

	return NewServer(cfg, service, hub, rt, stubAdminRepo{username: testAdminUser, hash: string(hash)}, okPinger{}, nil)
}

// login performs the login request and returns the session cookies.
func login(t *testing.T, srv *Server) []*http.Cookie {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username": "alice", "password": "correct horse"}`))
	req.Header.Set(echoContentType, "application/json")
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code, rec.Body.String())
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies
}

const echoContentType = "Content-Type"

func doJSON(srv *Server, method, path, body string, cookies []*http.Cookie) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echoContentType, "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	srv.echo.ServeHTTP(rec, req)
	return rec
}

// waitForClientCount polls until the channel reaches the expected size.
func waitForClientCount(t *testing.T, hub *broadcast.Hub, channel string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(channel) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("channel %q never reached %d clients", channel, want)
}
