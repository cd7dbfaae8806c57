// Package storage provides the persistence layer for the game server.
// This package implements the repository pattern to keep the domain pure.
package storage

import (
	"context"
	"time"
)

// GameEvent mirrors the audit event structure for persistence.
// The engine package should NOT import this; use interfaces instead.
type GameEvent struct {
	ID        string                 `json:"id" db:"id"`
	GameID    string                 `json:"game_id" db:"game_id"`
	Timestamp time.Time              `json:"timestamp" db:"timestamp"`
	EventType string                 `json:"event_type" db:"event_type"`
	ActorID   string                 `json:"actor_id" db:"actor_id"`
	Turn      int                    `json:"turn" db:"turn"`
	Payload   map[string]interface{} `json:"payload" db:"payload"`
}

// EventRepository defines the interface for event persistence.
// The room layer uses this interface; the implementation is in infra.
type EventRepository interface {
	// Append adds a new event to the immutable ledger.
	Append(ctx context.Context, event GameEvent) error

	// GetByGameID retrieves all events for a specific game (for replay).
	GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error)

	// GetByActorID retrieves all events performed by one player.
	GetByActorID(ctx context.Context, gameID, actorID string) ([]GameEvent, error)

	// GetByTurn retrieves all events of a specific game turn.
	GetByTurn(ctx context.Context, gameID string, turn int) ([]GameEvent, error)

	// GetByEventType retrieves all events of a specific type.
	GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error)
}

// GameRecord is the durable header row of one match.
type GameRecord struct {
	GameID      string    `json:"game_id" db:"game_id"`
	Seed        int64     `json:"seed" db:"seed"`
	Phase       string    `json:"phase" db:"phase"`
	Turn        int       `json:"turn" db:"turn"`
	Winner      string    `json:"winner" db:"winner"`
	WinReason   string    `json:"win_reason" db:"win_reason"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// PlayerSnapshot represents the current state of one player for quick
// reads. The event log stays the source of truth.
type PlayerSnapshot struct {
	PlayerID    string    `json:"player_id" db:"player_id"`
	GameID      string    `json:"game_id" db:"game_id"`
	Name        string    `json:"name" db:"name"`
	CharacterID string    `json:"character_id" db:"character_id"`
	Money       int       `json:"money" db:"money"`
	Position    int       `json:"position" db:"position"`
	NetWorth    int       `json:"net_worth" db:"net_worth"`
	InJail      bool      `json:"in_jail" db:"in_jail"`
	Bankrupt    bool      `json:"bankrupt" db:"bankrupt"`
	LastUpdated time.Time `json:"last_updated" db:"last_updated"`
}

// SnapshotRepository defines the interface for match and player
// snapshots.
type SnapshotRepository interface {
	// UpsertGame updates or inserts a match header.
	UpsertGame(ctx context.Context, record GameRecord) error

	// GetGame retrieves one match header, nil when absent.
	GetGame(ctx context.Context, gameID string) (*GameRecord, error)

	// ListGames retrieves all match headers.
	ListGames(ctx context.Context) ([]GameRecord, error)

	// UpsertPlayer updates or inserts a player snapshot.
	UpsertPlayer(ctx context.Context, snapshot PlayerSnapshot) error

	// GetByPlayerID retrieves a specific player's snapshot.
	GetByPlayerID(ctx context.Context, playerID string) (*PlayerSnapshot, error)

	// GetByGameID retrieves all player snapshots for a game.
	GetByGameID(ctx context.Context, gameID string) ([]PlayerSnapshot, error)
}
