// Package events provides the append-only audit log of a match. Every
// accepted command, every rejection and every lifecycle transition is
// recorded here, so a finished game can be replayed step by step.
package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// EventType categorizes an audit record.
type EventType string

const (
	EventTypeGameCreated     EventType = "GAME_CREATED"
	EventTypePlayerJoined    EventType = "PLAYER_JOINED"
	EventTypePlayerLeft      EventType = "PLAYER_LEFT"
	EventTypeCommandApplied  EventType = "COMMAND_APPLIED"
	EventTypeCommandRejected EventType = "COMMAND_REJECTED"
	EventTypeTurnAdvanced    EventType = "TURN_ADVANCED"
	EventTypeBankruptcy      EventType = "BANKRUPTCY"
	EventTypeGameEnded       EventType = "GAME_ENDED"
)

// GameEvent is one immutable record of the audit log.
type GameEvent struct {
	ID        string      `json:"id"`
	GameID    string      `json:"game_id"`
	Timestamp time.Time   `json:"timestamp"`
	Type      EventType   `json:"type"`
	ActorID   string      `json:"actor_id"`
	Turn      int         `json:"turn"`
	Payload   interface{} `json:"payload,omitempty"`
}

// CommandPayload records the command that produced an applied or
// rejected event, plus the rejection reason when there is one.
type CommandPayload struct {
	Command interface{} `json:"command"`
	Error   string      `json:"error,omitempty"`
}

// EventPersister defines how an event is durably stored.
type EventPersister interface {
	Append(event GameEvent) error
}

// EventLog is the in-memory append-only log, optionally written through
// to a persister. Persisted rows keep append order: a single writer
// goroutine drains a queue that is fed under the same lock that orders
// the in-memory slice.
type EventLog struct {
	mu        sync.RWMutex
	events    []GameEvent
	persister EventPersister
	queue     chan GameEvent
	done      chan struct{}
}

// persistQueueSize bounds the write-behind backlog. A full queue makes
// Append block until the persister catches up.
const persistQueueSize = 256

// NewEventLog creates an event log. A nil persister keeps the log
// memory-only.
func NewEventLog(persister EventPersister) *EventLog {
	el := &EventLog{
		events:    make([]GameEvent, 0),
		persister: persister,
	}
	if persister != nil {
		el.queue = make(chan GameEvent, persistQueueSize)
		el.done = make(chan struct{})
		go el.drain(el.queue)
	}
	return el
}

func (el *EventLog) drain(queue chan GameEvent) {
	for e := range queue {
		_ = el.persister.Append(e)
	}
	close(el.done)
}

// Append adds one event. Events are immutable once appended; the
// write-through to storage is best-effort but preserves append order.
func (el *EventLog) Append(event GameEvent) {
	el.mu.Lock()
	el.events = append(el.events, event)
	if el.queue != nil {
		el.queue <- event
	}
	el.mu.Unlock()
}

// Close flushes all queued events to the persister and stops the
// writer. Events appended afterwards stay in memory only.
func (el *EventLog) Close() {
	el.mu.Lock()
	queue := el.queue
	el.queue = nil
	el.mu.Unlock()
	if queue == nil {
		return
	}
	close(queue)
	<-el.done
}

// GetByActor returns all events recorded for one player.
func (el *EventLog) GetByActor(actorID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.ActorID == actorID {
			result = append(result, e)
		}
	}
	return result
}

// GetByGame returns all events of one match in append order.
func (el *EventLog) GetByGame(gameID string) []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()

	var result []GameEvent
	for _, e := range el.events {
		if e.GameID == gameID {
			result = append(result, e)
		}
	}
	return result
}

// Replay returns a copy of the full history in append order.
func (el *EventLog) Replay() []GameEvent {
	el.mu.RLock()
	defer el.mu.RUnlock()
	out := make([]GameEvent, len(el.events))
	copy(out, el.events)
	return out
}

// Len reports the number of recorded events.
func (el *EventLog) Len() int {
	el.mu.RLock()
	defer el.mu.RUnlock()
	return len(el.events)
}

// GenerateEventID creates a unique event identifier.
func GenerateEventID() string {
	return uuid.NewString()
}
