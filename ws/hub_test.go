package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardReceivesChangeNotifications(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/dashboard", HandleDashboardWebSocket)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/dashboard"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"connected"}`, string(msg))
	assert.Equal(t, 1, H.GetStats()["clients"])

	H.NotifyChange("materials_changed")

	_, msg, err = conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"materials_changed"}`, string(msg))
}

func TestBroadcastSkipsFullClients(t *testing.T) {
	h := NewHub()
	full := &Client{Send: make(chan []byte, 1)}
	full.Send <- []byte("pending")
	h.Clients[&websocket.Conn{}] = full

	done := make(chan struct{})
	go func() {
		h.NotifyChange("subjects_changed")
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Broadcast bị chặn bởi client đầy hàng đợi")
	}
	assert.Equal(t, "pending", string(<-full.Send))
}
