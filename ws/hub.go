package ws

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub giữ các dashboard đang mở để báo khi dữ liệu thay đổi
type Hub struct {
	Clients map[*websocket.Conn]*Client
	Mutex   sync.RWMutex
}

var H = NewHub()

func NewHub() *Hub {
	return &Hub{Clients: make(map[*websocket.Conn]*Client)}
}

// ChangeMessage báo cho client cần fetch lại danh sách
type ChangeMessage struct {
	Type string `json:"type"`
}

func (h *Hub) Register(conn *websocket.Conn) *Client {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	client := &Client{
		Conn: conn,
		Send: make(chan []byte, 256),
	}
	h.Clients[conn] = client

	go h.writePump(client)
	return client
}

func (h *Hub) Unregister(conn *websocket.Conn) {
	h.Mutex.Lock()
	defer h.Mutex.Unlock()

	if client, ok := h.Clients[conn]; ok {
		close(client.Send)
		delete(h.Clients, conn)
	}
}

// Broadcast gửi cho mọi client; client đầy hàng đợi thì bỏ qua message
func (h *Hub) Broadcast(data []byte) {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()

	for _, client := range h.Clients {
		select {
		case client.Send <- data:
		default:
		}
	}
}

// NotifyChange phù hợp với services.ChangeNotifier
func (h *Hub) NotifyChange(kind string) {
	data, err := json.Marshal(ChangeMessage{Type: kind})
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	h.Broadcast(data)
}

func (h *Hub) GetStats() map[string]int {
	h.Mutex.RLock()
	defer h.Mutex.RUnlock()
	return map[string]int{"clients": len(h.Clients)}
}

func (h *Hub) writePump(client *Client) {
	defer func() {
		client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
		client.Conn.Close()
	}()
	for msg := range client.Send {
		if err := client.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			break
		}
	}
}
