package chatws

import (
	"context"
	"encoding/json"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/Gebril-Amor/HealMe/internal/models"
	"github.com/Gebril-Amor/HealMe/internal/services"
	websocket "github.com/gofiber/contrib/websocket"
)

type Hub struct {
	clients    map[string]map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *delivery
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string

	mu     sync.Mutex
	closed bool
	send   chan []byte
}

type sender interface {
	SendMessage(
		ctx context.Context,
		patientID int64,
		therapistID int64,
		content string,
		senderRole string,
	) (*services.ChatDelivery, error)
}

// Message is the wire frame exchanged with connected clients.
type Message struct {
	Type        string `json:"type"`
	PatientID   string `json:"patient_id,omitempty"`
	TherapistID string `json:"therapist_id,omitempty"`
	SenderRole  string `json:"sender_role,omitempty"`
	Content     string `json:"content"`
	Timestamp   string `json:"timestamp"`
}

type delivery struct {
	frame      *Message
	recipients []string
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *delivery, 64),
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

func (h *Hub) Run() {
	for {
		select {
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
				client.closeSend()
			}
			if len(set) == 0 {
				delete(h.clients, client.userID)
			}
		case d := <-h.broadcast:
			h.deliver(d)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Publish pushes a persisted message to both sides of its conversation.
// Safe to call from HTTP handlers as well as the read pump.
func (h *Hub) Publish(d *services.ChatDelivery) {
	h.broadcast <- &delivery{
		frame: &Message{
			Type:        "message",
			PatientID:   strconv.FormatInt(d.Message.PatientID, 10),
			TherapistID: strconv.FormatInt(d.Message.TherapistID, 10),
			SenderRole:  d.Message.SenderRole,
			Content:     d.Message.Content,
			Timestamp:   services.FormatChatTimestamp(d.Message.CreatedAt),
		},
		recipients: []string{
			strconv.FormatInt(d.PatientUserID, 10),
			strconv.FormatInt(d.TherapistUserID, 10),
		},
	}
}

func (h *Hub) deliver(d *delivery) {
	encoded, err := json.Marshal(d.frame)
	if err != nil {
		log.Printf("chat hub encode message: %v", err)
		return
	}

	sent := make(map[string]struct{}, len(d.recipients))
	for _, userID := range d.recipients {
		if _, done := sent[userID]; done {
			continue
		}
		sent[userID] = struct{}{}
		h.sendToUser(userID, encoded)
	}
}

func (h *Hub) sendToUser(userID string, payload []byte) {
	set, ok := h.clients[userID]
	if !ok {
		return
	}

	for client := range set {
		if !client.trySend(payload) {
			delete(set, client)
			client.closeSend()
		}
	}
	if len(set) == 0 {
		delete(h.clients, userID)
	}
}

// trySend queues a frame for the write pump. It reports false when the
// buffer is full or the client has already been dropped; it never panics,
// even if the hub closed the channel concurrently.
func (c *Client) trySend(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

// closeSend shuts down the write pump. Idempotent; the flag keeps late
// trySend calls from hitting the closed channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

func (c *Client) ReadPump(service sender, role string) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	if role != models.RolePatient && role != models.RoleTherapist {
		writeError(c, "chat not available for this role")
		return
	}

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var incoming struct {
			Type        string `json:"type"`
			PatientID   string `json:"patient_id"`
			TherapistID string `json:"therapist_id"`
			Content     string `json:"content"`
		}
		if err := json.Unmarshal(payload, &incoming); err != nil {
			writeError(c, "invalid message payload")
			continue
		}
		if incoming.Type != "message" {
			writeError(c, "unsupported message type")
			continue
		}

		patientID, err := strconv.ParseInt(incoming.PatientID, 10, 64)
		if err != nil || patientID <= 0 {
			writeError(c, "invalid patient id")
			continue
		}
		therapistID, err := strconv.ParseInt(incoming.TherapistID, 10, 64)
		if err != nil || therapistID <= 0 {
			writeError(c, "invalid therapist id")
			continue
		}

		delivery, err := service.SendMessage(
			context.Background(),
			patientID,
			therapistID,
			incoming.Content,
			role,
		)
		if err != nil {
			writeError(c, "failed to send message")
			continue
		}

		c.hub.Publish(delivery)
	}
}

func (c *Client) WritePump() {
	defer func() {
		_ = c.conn.Close()
	}()

	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func writeError(client *Client, message string) {
	payload, err := json.Marshal(Message{
		Type:      "error",
		Content:   message,
		Timestamp: services.FormatChatTimestamp(time.Now().UTC()),
	})
	if err != nil {
		return
	}
	if !client.trySend(payload) {
		client.hub.Unregister(client)
	}
}
