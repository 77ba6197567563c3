package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itaymdigi/Family-Navigator/internal/middleware"
	"github.com/itaymdigi/Family-Navigator/internal/models"
)

func newHubServer(t *testing.T) (*Hub, *redis.Client, *middleware.JWTAuth, *httptest.Server) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	auth := middleware.NewJWTAuth("hub-test-secret")
	hub := NewHub(client, auth)
	srv := httptest.NewServer(http.HandlerFunc(hub.HandleWebSocket))
	t.Cleanup(func() {
		hub.Shutdown()
		srv.Close()
	})
	return hub, client, auth, srv
}

func wsURL(srv *httptest.Server, token string) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
}

func TestHub_RejectsMissingOrBadToken(t *testing.T) {
	_, _, _, srv := newHubServer(t)

	for _, token := range []string{"", "garbage"} {
		_, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
		require.Error(t, err)
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
}

func TestHub_DeliversPublishedUpdates(t *testing.T) {
	hub, client, auth, srv := newHubServer(t)
	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID, "dana@example.com", models.UserRoleViewer)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	defer conn.Close()

	channel := UpdatePrefix + userID.String()
	require.Eventually(t, func() bool {
		if hub.Connected(userID) != 1 {
			return false
		}
		subs, err := client.PubSubNumSub(context.Background(), channel).Result()
		return err == nil && subs[channel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, client.Publish(context.Background(), channel, `{"type":"weather_updated"}`).Err())

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"weather_updated"}`, string(data))
}

func TestHub_BroadcastReachesEveryUser(t *testing.T) {
	hub, client, auth, srv := newHubServer(t)

	var conns []*websocket.Conn
	for _, email := range []string{"dana@example.com", "yoni@example.com"} {
		userID := uuid.New()
		token, err := auth.GenerateAccessToken(userID, email, models.UserRoleViewer)
		require.NoError(t, err)
		conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
		require.NoError(t, err)
		defer conn.Close()
		require.Eventually(t, func() bool { return hub.Connected(userID) == 1 }, 2*time.Second, 10*time.Millisecond)
		conns = append(conns, conn)
	}
	require.Eventually(t, func() bool {
		subs, err := client.PubSubNumSub(context.Background(), BroadcastChannel).Result()
		return err == nil && subs[BroadcastChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, client.Publish(context.Background(), BroadcastChannel, `{"type":"weather_updated"}`).Err())

	for _, conn := range conns {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"weather_updated"}`, string(data))
	}
}

func TestHub_UnregistersOnClose(t *testing.T) {
	hub, _, auth, srv := newHubServer(t)
	userID := uuid.New()
	token, err := auth.GenerateAccessToken(userID, "dana@example.com", models.UserRoleViewer)
	require.NoError(t, err)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, token), nil)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return hub.Connected(userID) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Connected(userID) == 0 }, 2*time.Second, 10*time.Millisecond)
}
