// Package network carries the transport layer of the server: the
// WebSocket hub that fans state snapshots out to connected players, the
// per-match rooms that serialize command application, and the REST
// endpoints for spectators and replays.
package network

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/dominionboardgame/server/internal/events"
	"github.com/dominionboardgame/server/internal/platform/logger"
	"github.com/dominionboardgame/server/internal/platform/metrics"
)

// MessageType tags an outgoing WebSocket envelope.
type MessageType string

const (
	MsgTypeSnapshot  MessageType = "snapshot"
	MsgTypeEvent     MessageType = "event"
	MsgTypeRejection MessageType = "rejection"
	MsgTypeError     MessageType = "error"
)

// Message is the envelope for every server-to-client frame.
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

type gameMessage struct {
	gameID string // empty means all games
	data   []byte
}

// Hub maintains the set of active clients and routes messages to the
// clients watching each game.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan gameMessage
	register   chan *Client
	unregister chan *Client
	mu         sync.Mutex
	logger     *logger.Logger
}

// NewHub initializes a new WebSocket Hub.
func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan gameMessage, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		logger:     log,
	}
}

// Run starts the Hub's main loop to handle client connections and broadcasts.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.logger.Info("WebSocket Hub shutting down.")
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			metrics.Get().RecordWSConnection(1)
			h.logger.Info("WebSocket client connected to game " + client.gameID)
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.Get().RecordWSConnection(-1)
				h.logger.Info("WebSocket client disconnected from game " + client.gameID)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if msg.gameID != "" && client.gameID != msg.gameID {
					continue
				}
				select {
				case client.send <- msg.data:
					metrics.Get().RecordWSMessage(false)
				default:
					close(client.send)
					delete(h.clients, client)
					metrics.Get().RecordWSConnection(-1)
					metrics.Get().RecordWSError()
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastToGame serializes a message and queues it for every client
// watching the given game.
func (h *Hub) BroadcastToGame(gameID string, msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to serialize message for WebSocket broadcast: " + err.Error())
		return
	}
	h.broadcast <- gameMessage{gameID: gameID, data: data}
}

// Broadcast sends a message to every connected client regardless of game.
func (h *Hub) Broadcast(msg Message) {
	h.BroadcastToGame("", msg)
}

// ConnectedPlayers lists the player ids with a live connection to one
// game. Spectator connections carry no player id and are skipped.
func (h *Hub) ConnectedPlayers(gameID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	var ids []string
	for client := range h.clients {
		if client.gameID == gameID && client.playerID != "" {
			ids = append(ids, client.playerID)
		}
	}
	return ids
}

// StartEventPoller spawns a goroutine that tails the audit log and
// pushes new events to the clients of the game they belong to. The hub
// stays decoupled from the rooms' apply paths while surfacing the same
// history the persistence layer sees.
func (h *Hub) StartEventPoller(ctx context.Context, eventLog *events.EventLog) {
	go func() {
		pollInterval := time.NewTicker(200 * time.Millisecond)
		defer pollInterval.Stop()

		lastProcessed := 0

		for {
			select {
			case <-ctx.Done():
				return
			case <-pollInterval.C:
				all := eventLog.Replay()
				if len(all) <= lastProcessed {
					continue
				}
				for _, event := range all[lastProcessed:] {
					h.BroadcastToGame(event.GameID, Message{
						Type:      MsgTypeEvent,
						Timestamp: event.Timestamp.Unix(),
						Payload:   event,
					})
				}
				lastProcessed = len(all)
			}
		}
	}()
}
