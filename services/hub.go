package services

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub is the websocket-backed Notifier implementation. It tracks every
// connected client plus per-table interest groups that clients join by
// sending a join message.
type Hub struct {
	mu      sync.RWMutex
	clients map[*wsClient]bool
	rooms   map[string]map[*wsClient]bool // table room key -> members
}

// NewHub creates an empty hub
func NewHub() *Hub {
	return &Hub{
		clients: make(map[*wsClient]bool),
		rooms:   make(map[string]map[*wsClient]bool),
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser clients connect from the POS frontend on another origin
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsClient is one connected realtime client
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// HandleConnection upgrades an HTTP request to a websocket and runs the
// client's read/write pumps until it disconnects.
func (h *Hub) HandleConnection(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Websocket upgrade failed: %v", err)
		return
	}

	client := &wsClient{hub: h, conn: conn, send: make(chan []byte, 64)}

	h.mu.Lock()
	h.clients[client] = true
	h.mu.Unlock()

	go client.writePump()
	client.readPump()
}

// Publish broadcasts an event to all clients, and re-emits it into the
// table's interest group when the payload carries a tableNumber.
func (h *Hub) Publish(event string, payload map[string]interface{}) error {
	message, err := json.Marshal(map[string]interface{}{
		"event":   event,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event, err)
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		client.trySend(message)
	}

	if key, ok := tableRoomKey(payload["tableNumber"]); ok {
		for client := range h.rooms[key] {
			client.trySend(message)
		}
	}

	return nil
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// join adds a client to a table's interest group
func (h *Hub) join(client *wsClient, key string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[key] == nil {
		h.rooms[key] = make(map[*wsClient]bool)
	}
	h.rooms[key][client] = true
}

// remove drops a client from the hub and every room it joined
func (h *Hub) remove(client *wsClient) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	for key, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, key)
		}
	}
	close(client.send)
}

// trySend queues a message without blocking. A client whose send buffer
// is full simply misses the event; it reconciles by refetching.
func (c *wsClient) trySend(message []byte) {
	select {
	case c.send <- message:
	default:
	}
}

// readPump consumes inbound messages, treating any recognized join shape
// as a request to enter a table's interest group.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.remove(c)
		if err := c.conn.Close(); err != nil {
			log.Printf("Failed to close websocket: %v", err)
		}
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var message map[string]interface{}
		if err := json.Unmarshal(data, &message); err != nil {
			continue
		}

		if key, ok := parseJoinMessage(message); ok {
			c.hub.join(c, key)
		}
	}
}

// writePump flushes queued messages to the connection
func (c *wsClient) writePump() {
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
}

// parseJoinMessage normalizes the accepted join message shapes onto one
// table room key:
//
//	{"type": "join", "tableNumber": 5}
//	{"event": "join_table", "table": 5}
//	{"join": 5}
//
// Table numbers may arrive as JSON numbers or strings.
func parseJoinMessage(message map[string]interface{}) (string, bool) {
	if t, _ := message["type"].(string); t == "join" {
		if key, ok := tableRoomKey(message["tableNumber"]); ok {
			return key, true
		}
	}
	if e, _ := message["event"].(string); e == "join_table" {
		if key, ok := tableRoomKey(message["table"]); ok {
			return key, true
		}
	}
	if v, ok := message["join"]; ok {
		return tableRoomKey(v)
	}
	return "", false
}

// tableRoomKey converts a table number value into its room key
func tableRoomKey(v interface{}) (string, bool) {
	switch n := v.(type) {
	case float64:
		return fmt.Sprintf("table:%d", int(n)), true
	case int:
		return fmt.Sprintf("table:%d", n), true
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return fmt.Sprintf("table:%d", parsed), true
		}
	}
	return "", false
}
