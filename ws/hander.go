package ws

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // chỉ để phát triển, nên giới hạn ở production
	},
}

// HandleDashboardWebSocket đăng ký dashboard nhận thông báo subjects_changed / materials_changed
func HandleDashboardWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("WebSocket upgrade thất bại:", err)
		return
	}
	client := H.Register(conn)
	defer H.Unregister(conn)

	client.Send <- []byte(`{"type":"connected"}`)
	log.Println("Dashboard WS connected")

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	log.Println("Dashboard WS disconnected")
}
