package debugws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/appengine-ltd/mine-anything/internal/debugcmd"
	"github.com/appengine-ltd/mine-anything/internal/game"
	"github.com/appengine-ltd/mine-anything/internal/logging"
	"github.com/appengine-ltd/mine-anything/internal/store"
)

func dial(t *testing.T, h http.Handler, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + Path
	conn, resp, err := websocket.DefaultDialer.Dial(u, header)
	if conn != nil {
		t.Cleanup(func() {
			conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			conn.Close()
		})
	}
	if resp != nil && resp.Body != nil {
		t.Cleanup(func() { resp.Body.Close() })
	}
	return conn, resp, err
}

func send(t *testing.T, conn *websocket.Conn, line string) Reply {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(line)))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)
	var r Reply
	require.NoError(t, json.Unmarshal(payload, &r))
	return r
}

func TestConsoleRunsDispatcherCommands(t *testing.T) {
	e := game.New(game.Options{
		Store: store.NewMemory(),
		Clock: game.NewManualClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
		Rand:  &game.FixedRand{Default: 0.99},
	})
	require.NoError(t, e.Load(context.Background()))
	log := logging.Nop()
	h := NewHandler(debugcmd.New(e, log), log)

	conn, _, err := dial(t, h, nil)
	require.NoError(t, err)

	r := send(t, conn, "add-xp 42")
	assert.True(t, r.OK)
	assert.Equal(t, []string{"Added 42 XP. Total: 42"}, r.Lines)
	assert.Equal(t, 42, e.Profile().XP)

	r = send(t, conn, "force-pet nobody")
	assert.False(t, r.OK)
	assert.Contains(t, r.Error, "invalid arguments")
	assert.NotEmpty(t, r.Lines)
}

type stubRunner struct{}

func (stubRunner) Run(line string) ([]string, error) {
	if line == "boom" {
		return nil, errors.New("boom")
	}
	return []string{"echo " + line}, nil
}

func TestConsoleReplyShape(t *testing.T) {
	conn, _, err := dial(t, NewHandler(stubRunner{}, logging.Nop()), nil)
	require.NoError(t, err)

	r := send(t, conn, "boom")
	assert.Equal(t, Reply{Command: "boom", OK: false, Lines: []string{}, Error: "boom"}, r)
	r = send(t, conn, "hi")
	assert.Equal(t, Reply{Command: "hi", OK: true, Lines: []string{"echo hi"}}, r)
}

func TestConsoleRejectsForeignOrigin(t *testing.T) {
	header := http.Header{"Origin": []string{"https://evil.example"}}
	_, resp, err := dial(t, NewHandler(stubRunner{}, logging.Nop()), header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	header = http.Header{"Origin": []string{"http://127.0.0.1:3000"}}
	_, _, err = dial(t, NewHandler(stubRunner{}, logging.Nop()), header)
	require.NoError(t, err)
}
