package ws

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobhub/internal/pkg/jwt"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokens struct {
	userID uuid.UUID
}

func (s stubTokens) ValidateAccessToken(token string) (jwt.Claims, error) {
	if token != "good" {
		return jwt.Claims{}, errors.New("bad token")
	}
	return jwt.Claims{UserID: s.userID, TokenType: jwt.TokenTypeAccess}, nil
}

func startServer(t *testing.T, userID uuid.UUID) (*Hub, *httptest.Server) {
	t.Helper()
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	srv := httptest.NewServer(NewServeMux(NewHandler(hub, stubTokens{userID: userID}, nil)))
	t.Cleanup(func() {
		srv.Close()
		cancel()
	})
	return hub, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestHandler_RejectsBadToken(t *testing.T) {
	_, srv := startServer(t, uuid.New())

	_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, "nope"), nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestNotifier_DeliversOnlyToOwner(t *testing.T) {
	owner := uuid.New()
	hub, srv := startServer(t, owner)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, "good"), nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.UserConnected(owner) }, 2*time.Second, 10*time.Millisecond)

	n := NewNotifier(hub)
	require.NoError(t, n.Publish(context.Background(), uuid.New(), "interview_invited", map[string]string{"x": "other"}))
	require.NoError(t, n.Publish(context.Background(), owner, "application_status_changed", map[string]string{"status": "SHORTLISTED"}))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var evt struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(msg, &evt))
	assert.Equal(t, "application_status_changed", evt.Type)
	assert.Equal(t, "SHORTLISTED", evt.Data["status"])
}

func TestHub_NilSafe(t *testing.T) {
	var h *Hub
	assert.False(t, h.SendTo(uuid.New(), []byte("x")))
	assert.Equal(t, 0, h.ClientCount())

	var n *Notifier
	assert.NoError(t, n.Publish(context.Background(), uuid.New(), "x", nil))
}
