package notifyws

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	websocket "github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/zezo1233/life-makers-pirates-app-v2-sub002/internal/models"
)

var ErrNoConnectedRecipients = errors.New("no target user is connected")

const (
	writeWait  = 10 * time.Second
	pingPeriod = 50 * time.Second
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcast
	logger     *zap.Logger
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte

	// mu guards send against a close racing a reply from ReadPump.
	mu     sync.Mutex
	closed bool
}

type Message struct {
	Type         string                      `json:"type"`
	Notification *models.NotificationPayload `json:"notification,omitempty"`
	Content      string                      `json:"content,omitempty"`
	Timestamp    string                      `json:"timestamp"`
}

type broadcast struct {
	userIDs   []string
	payload   []byte
	delivered chan int
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *broadcast, 64),
		logger:     logger,
	}
}

func NewClient(hub *Hub, conn *websocket.Conn, userID string) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 32),
	}
}

func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case client := <-h.register:
			set, ok := h.clients[client.userID]
			if !ok {
				set = make(map[*Client]struct{})
				h.clients[client.userID] = set
			}
			set[client] = struct{}{}
		case client := <-h.unregister:
			set, ok := h.clients[client.userID]
			if !ok {
				continue
			}
			if _, exists := set[client]; exists {
				delete(set, client)
				client.shutdown()
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case message := <-h.broadcast:
			count := 0
			for _, userID := range message.userIDs {
				count += h.sendToUser(userID, message.payload)
			}
			message.delivered <- count
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Push delivers the payload to every open connection of the target users.
// It fails when none of them is connected.
func (h *Hub) Push(ctx context.Context, payload models.NotificationPayload) error {
	encoded, err := json.Marshal(Message{
		Type:         "notification",
		Notification: &payload,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}

	message := &broadcast{
		userIDs:   uniqueIDs(payload.TargetUserIDs),
		payload:   encoded,
		delivered: make(chan int, 1),
	}
	select {
	case h.broadcast <- message:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case count := <-message.delivered:
		if count == 0 {
			return ErrNoConnectedRecipients
		}
		h.logger.Debug("notification pushed over websocket", zap.Int("connections", count))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) int {
	set, ok := h.clients[userID]
	if !ok {
		return 0
	}

	sent := 0
	for client := range set {
		if ok, _ := client.enqueue(payload); ok {
			sent++
			continue
		}
		delete(set, client)
		client.shutdown()
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
	return sent
}

// enqueue reports whether the payload was queued and whether the client is
// still open. A full buffer leaves the client open but drops the payload.
func (c *Client) enqueue(payload []byte) (sent, open bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, false
	}
	select {
	case c.send <- payload:
		return true, true
	default:
		return false, true
	}
}

func (c *Client) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ReadPump drains the connection until the client goes away. The stream is
// server to client only, so anything but a ping is answered with an error.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil || incoming.Type != "ping" {
			writeMessage(c, Message{Type: "error", Content: "unsupported message type"})
			continue
		}
		writeMessage(c, Message{Type: "pong"})
	}
}

func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeMessage(client *Client, message Message) {
	message.Timestamp = time.Now().UTC().Format(time.RFC3339)
	payload, err := json.Marshal(message)
	if err != nil {
		return
	}
	if sent, open := client.enqueue(payload); !sent && open {
		client.hub.Unregister(client)
	}
}
