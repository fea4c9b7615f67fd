package broadcast

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestConnPair upgrades a single connection and returns both ends.
func newTestConnPair(t *testing.T) (server, client *websocket.Conn) {
	t.Helper()

	connCh := make(chan *websocket.Conn, 1)
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		connCh <- conn
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	select {
	case server = <-connCh:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for server connection")
	}
	return server, client
}

func TestClientWriter_IdleTimeout(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	server, client := newTestConnPair(t)
	t.Cleanup(func() { client.Close() })

	cw := newClientWriter(server, fakeClock)
	t.Cleanup(cw.stop)

	assert.False(t, cw.checkIdleTimeout())

	fakeClock.Advance(idleWarningTime)

	assert.False(t, cw.checkIdleTimeout(), "warning threshold must not disconnect")

	cw.activityMutex.Lock()
	warningSent := cw.warningSent
	cw.activityMutex.Unlock()
	assert.True(t, warningSent)

	fakeClock.Advance(1*time.Minute + 10*time.Second)

	assert.True(t, cw.checkIdleTimeout(), "idle beyond timeout must disconnect")
}

func TestClientWriter_ActivityResetsIdleTimer(t *testing.T) {
	fakeClock := clockwork.NewFakeClock()
	server, client := newTestConnPair(t)
	t.Cleanup(func() { client.Close() })

	cw := newClientWriter(server, fakeClock)
	t.Cleanup(cw.stop)

	fakeClock.Advance(3 * time.Minute)
	cw.recordActivity()

	fakeClock.Advance(3 * time.Minute)
	assert.False(t, cw.checkIdleTimeout(), "activity resets the idle timer")

	fakeClock.Advance(3 * time.Minute)
	assert.True(t, cw.checkIdleTimeout())
}

func TestClientWriter_GracefulStopSendsCloseFrame(t *testing.T) {
	hub := NewHub(clockwork.NewRealClock(), 10)

	server, client := newTestConnPair(t)
	require.NoError(t, hub.Register("audience:1", server))

	hub.Stop()

	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := client.ReadMessage()

	if closeErr, ok := err.(*websocket.CloseError); ok {
		assert.Equal(t, websocket.CloseNormalClosure, closeErr.Code)
		assert.Contains(t, closeErr.Text, "shutting down")
	} else {
		assert.Error(t, err, "connection should be closed")
	}
}

func TestClientWriter_StopIdempotent(t *testing.T) {
	server, client := newTestConnPair(t)
	t.Cleanup(func() { client.Close() })

	cw := newClientWriter(server, clockwork.NewRealClock())

	cw.stop()
	cw.stop()
}
