package ws

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Gampa15/foundin-backend/internal/middleware"
	"github.com/Gampa15/foundin-backend/internal/models"
)

// Event is the wire format for both directions of the socket.
type Event struct {
	Type string          `json:"type"`
	Room string          `json:"room,omitempty"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Client event types.
const (
	EventJoin        = "join-conversation"
	EventLeave       = "leave-conversation"
	EventTyping      = "typing"
	EventStopTyping  = "stop-typing"
	EventSendMessage = "send-message"
)

// Server event types.
const (
	EventNewMessage   = "message:new"
	EventMessagesSeen = "message:seen"
)

// MessageSender persists a chat message sent over the socket. Membership
// enforcement lives behind this interface.
type MessageSender interface {
	SendMessage(ctx context.Context, conversationID, sender, content string) (*models.Message, error)
}

// Hub tracks connected clients and their room membership. Every client
// always belongs to a personal room named by its user id; conversation
// rooms are joined explicitly.
type Hub struct {
	mu        sync.RWMutex
	clients   map[*Client]bool
	rooms     map[string]map[*Client]bool
	jwtSecret string
	messages  MessageSender

	upgrader websocket.Upgrader
}

func NewHub(jwtSecret string) *Hub {
	return &Hub{
		clients:   make(map[*Client]bool),
		rooms:     make(map[string]map[*Client]bool),
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// AttachMessages enables the send-message socket event. Without it, socket
// sends are rejected and clients must use the REST endpoint.
func (h *Hub) AttachMessages(messages MessageSender) {
	h.messages = messages
}

// ServeWS upgrades an authenticated connection. The handshake token travels
// in the query string because browser websocket clients cannot set headers.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	userID, _, err := middleware.ParseToken(token, h.jwtSecret)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		userID: userID,
		send:   make(chan []byte, 64),
		rooms:  make(map[string]bool),
	}

	h.addClient(client)
	h.joinRoom(client, userID) // personal room

	log.Printf("[ws] user connected: %s", userID)
	go client.writePump()
	go client.readPump()
}

func (h *Hub) addClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c] = true
}

func (h *Hub) removeClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.clients[c] {
		return
	}
	delete(h.clients, c)
	for room := range c.rooms {
		h.leaveRoomLocked(c, room)
	}
	close(c.send)
}

func (h *Hub) joinRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
	c.rooms[room] = true
}

func (h *Hub) leaveRoom(c *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveRoomLocked(c, room)
}

func (h *Hub) leaveRoomLocked(c *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// BroadcastToRoom sends an event to every client in the room.
func (h *Hub) BroadcastToRoom(room string, eventType string, data interface{}) {
	h.broadcast(room, eventType, data, nil)
}

// broadcast sends an event to the room, optionally skipping one client so
// typing relays don't echo back to the typist.
func (h *Hub) broadcast(room string, eventType string, data interface{}, skip *Client) {
	payload, err := json.Marshal(data)
	if err != nil {
		log.Printf("[ws] marshal failed type=%s: %v", eventType, err)
		return
	}
	raw, err := json.Marshal(Event{Type: eventType, Room: room, Data: payload})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[room] {
		if client == skip {
			continue
		}
		select {
		case client.send <- raw:
		default:
			// Slow consumer; drop the event rather than block the hub.
		}
	}
}

// SendToUser sends an event to the user's personal room.
func (h *Hub) SendToUser(userID string, eventType string, data interface{}) {
	h.broadcast(userID, eventType, data, nil)
}

// RoomSize reports current membership, for diagnostics and tests.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) handleEvent(c *Client, evt Event) {
	switch evt.Type {
	case EventJoin:
		if evt.Room != "" {
			h.joinRoom(c, evt.Room)
		}
	case EventLeave:
		if evt.Room != "" {
			h.leaveRoom(c, evt.Room)
		}
	case EventTyping, EventStopTyping:
		h.broadcast(evt.Room, evt.Type, map[string]string{
			"user_id":         c.userID,
			"conversation_id": evt.Room,
		}, c)
	case EventSendMessage:
		h.handleSendMessage(c, evt)
	default:
		log.Printf("[ws] unknown event type=%q user=%s", evt.Type, c.userID)
	}
}

func (h *Hub) handleSendMessage(c *Client, evt Event) {
	if h.messages == nil {
		return
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(evt.Data, &req); err != nil || evt.Room == "" || req.Content == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	msg, err := h.messages.SendMessage(ctx, evt.Room, c.userID, req.Content)
	if err != nil {
		log.Printf("[ws] send-message failed user=%s conv=%s: %v", c.userID, evt.Room, err)
		return
	}

	h.BroadcastToRoom(evt.Room, EventNewMessage, msg)
}
