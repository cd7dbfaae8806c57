package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dominionboardgame/server/internal/engine"
	"github.com/dominionboardgame/server/internal/platform/metrics"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10
	// Maximum message size allowed from peer.
	maxMessageSize = 4096
	// Minimum spacing between commands from one connection.
	commandCooldown = 100 * time.Millisecond
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Cross-origin policy is enforced at the reverse proxy.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ClientMessage is an incoming frame from the frontend.
type ClientMessage struct {
	Type    string          `json:"type"` // "command" or "ping"
	Command *engine.Command `json:"command,omitempty"`
}

// Client represents one active WebSocket connection, bound to a single
// game and, for players, a single seat. Spectator connections have an
// empty playerID and may not issue commands.
type Client struct {
	hub      *Hub
	room     *Room
	conn     *websocket.Conn
	send     chan []byte
	gameID   string
	playerID string

	lastCommandTime time.Time
}

// NewClient wraps an upgraded connection.
func NewClient(hub *Hub, room *Room, conn *websocket.Conn, playerID string) *Client {
	return &Client{
		hub:      hub,
		room:     room,
		conn:     conn,
		send:     make(chan []byte, 64),
		gameID:   room.ID(),
		playerID: playerID,
	}
}

// Register adds the client to the hub.
func (c *Client) Register() {
	c.hub.register <- c
}

// ReadPump pumps messages from the websocket connection to the room.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error("WebSocket read error: " + err.Error())
				metrics.Get().RecordWSError()
			}
			break
		}
		metrics.Get().RecordWSMessage(true)

		var msg ClientMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			c.hub.logger.Warn("Failed to parse client message: " + err.Error())
			c.sendMessage(Message{
				Type:      MsgTypeError,
				Timestamp: time.Now().Unix(),
				Payload:   map[string]string{"error": "malformed message"},
			})
			continue
		}

		c.handleMessage(msg)
	}
}

func (c *Client) handleMessage(msg ClientMessage) {
	switch msg.Type {
	case "command":
		c.handleCommand(msg.Command)
	case "ping":
		// Application-level keepalive, nothing to do.
	default:
		c.hub.logger.Warn("Unknown client message type: " + msg.Type)
	}
}

func (c *Client) handleCommand(cmd *engine.Command) {
	if cmd == nil {
		c.sendMessage(Message{
			Type:      MsgTypeError,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]string{"error": "command frame without command"},
		})
		return
	}
	if c.playerID == "" {
		c.sendMessage(Message{
			Type:      MsgTypeError,
			Timestamp: time.Now().Unix(),
			Payload:   map[string]string{"error": "spectators cannot issue commands"},
		})
		return
	}
	if time.Since(c.lastCommandTime) < commandCooldown {
		c.hub.logger.Warn("Rate limit exceeded for player " + c.playerID)
		return
	}
	c.lastCommandTime = time.Now()

	// The seat is fixed at connection time; clients cannot act for
	// other players by forging the command's player field.
	cmd.Player = c.playerID

	if _, err := c.room.Apply(*cmd); err != nil {
		// Rejections go only to the issuing client. Accepted commands
		// reach everyone through the room's snapshot broadcast.
		c.sendMessage(Message{
			Type:      MsgTypeRejection,
			Timestamp: time.Now().Unix(),
			Payload: map[string]string{
				"command": string(cmd.Type),
				"error":   err.Error(),
			},
		})
	}
}

func (c *Client) sendMessage(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.hub.logger.Error("Failed to serialize client message: " + err.Error())
		return
	}
	select {
	case c.send <- data:
		metrics.Get().RecordWSMessage(false)
	default:
		metrics.Get().RecordWSError()
	}
}

// WritePump pumps messages from the hub to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWS upgrades an HTTP request to a WebSocket connection and joins
// it to a room. GET /ws?game_id=XXX&player_id=YYY; omitting player_id
// opens a read-only spectator connection.
func ServeWS(hub *Hub, rooms *Registry, w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("game_id")
	room, ok := rooms.Get(gameID)
	if !ok {
		http.Error(w, "unknown game_id", http.StatusNotFound)
		return
	}
	playerID := r.URL.Query().Get("player_id")

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.logger.Error("WebSocket upgrade failed: " + err.Error())
		return
	}

	client := NewClient(hub, room, conn, playerID)
	client.Register()

	go client.WritePump()
	go client.ReadPump()

	// A fresh connection gets the current state immediately instead of
	// waiting for the next applied command.
	client.sendMessage(Message{
		Type:      MsgTypeSnapshot,
		Timestamp: time.Now().Unix(),
		Payload:   room.Snapshot(),
	})
}
