package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func wsServerURL(t *testing.T, handler func(conn *websocket.Conn)) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestStreamClientSubscribes(t *testing.T) {
	subscribed := make(chan wsRequest, 1)

	url := wsServerURL(t, func(conn *websocket.Conn) {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var req wsRequest
		require.NoError(t, json.Unmarshal(msg, &req))
		subscribed <- req

		// Keep the connection open until the client hangs up.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client, err := NewStreamClient(context.Background(), url, []string{"wallet-a", "wallet-b"}, nil, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case req := <-subscribed:
		assert.Equal(t, "transactionSubscribe", req.Method)
		assert.Equal(t, "2.0", req.JSONRPC)
		require.Len(t, req.Params, 2)
		filter, ok := req.Params[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, []interface{}{"wallet-a", "wallet-b"}, filter["accountInclude"])
	case <-time.After(2 * time.Second):
		t.Fatal("server never received subscribe request")
	}
}

func TestStreamClientDeliversNotifications(t *testing.T) {
	url := wsServerURL(t, func(conn *websocket.Conn) {
		// Read subscribe request, confirm, then push one notification.
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0", "id": 1, "result": 4242,
		}))
		require.NoError(t, conn.WriteJSON(map[string]interface{}{
			"jsonrpc": "2.0",
			"method":  "transactionNotification",
			"params": map[string]interface{}{
				"subscription": 4242,
				"result":       map[string]interface{}{"signature": "stream-sig"},
			},
		}))

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client, err := NewStreamClient(context.Background(), url, []string{"wallet-a"}, nil, nil)
	require.NoError(t, err)
	defer client.Close()

	select {
	case payload := <-client.Transactions():
		assert.JSONEq(t, `{"signature":"stream-sig"}`, string(payload))
	case <-time.After(2 * time.Second):
		t.Fatal("no notification delivered")
	}
}

func TestStreamClientCloseIsIdempotent(t *testing.T) {
	url := wsServerURL(t, func(conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})

	client, err := NewStreamClient(context.Background(), url, []string{"wallet-a"}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())

	_, open := <-client.Transactions()
	assert.False(t, open, "transactions channel should be closed")
}

func TestStreamClientDialFailure(t *testing.T) {
	_, err := NewStreamClient(context.Background(), "ws://127.0.0.1:1", []string{"wallet-a"}, nil, nil)
	assert.Error(t, err)
}
