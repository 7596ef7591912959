package relay

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sachinsingh018/networkqy/utils"
)

// Event types pushed to clients.
const (
	EventNewMessage   = "new_message"
	EventMessageSent  = "message_sent"
	EventUserTyping   = "user_typing"
	EventMessagesRead = "messages_read"
	EventUserOnline   = "user_online"
	EventUserOffline  = "user_offline"
	EventMessageError = "message_error"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Conn is the subset of *websocket.Conn the hub needs. Tests substitute a
// fake; production passes gorilla connections straight through.
type Conn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub tracks which sockets belong to which user. It is constructed at
// startup and handed to the websocket handler; it is not a package global.
// A user may hold several sockets at once (multiple tabs), so presence is
// the set of users with at least one socket, not a per-socket flag.
// Every socket write happens under mu: gorilla connections allow at most
// one concurrent writer, and handlers push to each other's sockets.
type Hub struct {
	mu    sync.Mutex
	users map[Conn]uint
	rooms map[uint]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		users: make(map[Conn]uint),
		rooms: make(map[uint]map[Conn]bool),
	}
}

// Authenticate binds a socket to a user's room. It reports whether this is
// the user's first live socket, in which case the caller should announce
// the user online. A socket that is already bound gets evicted from its
// previous room first; re-binding to the same user is a no-op.
func (h *Hub) Authenticate(conn Conn, userID uint) (firstSocket bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, bound := h.users[conn]; bound {
		if prev == userID {
			return false
		}
		room := h.rooms[prev]
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, prev)
		}
	}

	h.users[conn] = userID
	room := h.rooms[userID]
	if room == nil {
		room = make(map[Conn]bool)
		h.rooms[userID] = room
	}
	room[conn] = true
	return len(room) == 1
}

// Unregister drops a socket. It reports the user the socket belonged to (0
// if it never authenticated) and whether it was the user's last socket.
func (h *Hub) Unregister(conn Conn) (userID uint, lastSocket bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.users[conn]
	delete(h.users, conn)
	conn.Close()
	if !ok {
		return 0, false
	}

	room := h.rooms[userID]
	delete(room, conn)
	if len(room) == 0 {
		delete(h.rooms, userID)
		return userID, true
	}
	return userID, false
}

// Online reports whether the user has at least one live socket.
func (h *Hub) Online(userID uint) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[userID]) > 0
}

// SendToUser pushes an event to every socket in a user's room and returns
// how many sockets were reached. Zero is not an error: delivery is
// best-effort and the durable copy lives in the database.
func (h *Hub) SendToUser(userID uint, msg Message) int {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("relay: marshal %s event: %v", msg.Event, err)
		return 0
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for conn := range h.rooms[userID] {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("relay: send %s to user %d: %v", msg.Event, userID, err)
			continue
		}
		sent++
	}
	return sent
}

// SendTo pushes an event to a single socket.
func (h *Hub) SendTo(conn Conn, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteMessage(websocket.TextMessage, data)
}

// Broadcast pushes an event to every authenticated socket except the
// originator. Used for presence changes.
func (h *Hub) Broadcast(msg Message, except Conn) {
	data, err := json.Marshal(msg)
	if err != nil {
		utils.ErrorLogger.Printf("relay: marshal %s event: %v", msg.Event, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.users {
		if conn == except {
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			utils.ErrorLogger.Printf("relay: broadcast %s: %v", msg.Event, err)
		}
	}
}
