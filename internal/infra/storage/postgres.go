// Package storage - postgres.go
// PostgreSQL implementation of EventRepository for deployments with a
// shared database.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// InitPostgres opens the shared PostgreSQL database and ensures the
// event log table exists.
func InitPostgres(databaseURL string) (*sql.DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres database: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS event_log (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			payload JSONB NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_event_log_game_id ON event_log(game_id);
		CREATE INDEX IF NOT EXISTS idx_event_log_actor_id ON event_log(actor_id);
	`
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create event_log schema: %w", err)
	}
	return db, nil
}

// PostgresEventRepository implements EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	db *sql.DB
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(db *sql.DB) *PostgresEventRepository {
	return &PostgresEventRepository{db: db}
}

// Append inserts a new event into the immutable ledger.
func (r *PostgresEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadJSON, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO event_log (id, game_id, timestamp, event_type, actor_id, turn, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID,
		event.GameID,
		event.Timestamp,
		event.EventType,
		event.ActorID,
		event.Turn,
		payloadJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

// GetByGameID retrieves all events for a game in chronological order.
func (r *PostgresEventRepository) GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error) {
	query := `
		SELECT id, game_id, timestamp, event_type, actor_id, turn, payload
		FROM event_log
		WHERE game_id = $1
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, gameID)
}

// GetByActorID retrieves all events performed by one player.
func (r *PostgresEventRepository) GetByActorID(ctx context.Context, gameID, actorID string) ([]GameEvent, error) {
	query := `
		SELECT id, game_id, timestamp, event_type, actor_id, turn, payload
		FROM event_log
		WHERE game_id = $1 AND actor_id = $2
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, gameID, actorID)
}

// GetByTurn retrieves all events of a specific game turn.
func (r *PostgresEventRepository) GetByTurn(ctx context.Context, gameID string, turn int) ([]GameEvent, error) {
	query := `
		SELECT id, game_id, timestamp, event_type, actor_id, turn, payload
		FROM event_log
		WHERE game_id = $1 AND turn = $2
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, gameID, turn)
}

// GetByEventType retrieves all events of a specific type.
func (r *PostgresEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error) {
	query := `
		SELECT id, game_id, timestamp, event_type, actor_id, turn, payload
		FROM event_log
		WHERE game_id = $1 AND event_type = $2
		ORDER BY timestamp ASC
	`
	return r.queryEvents(ctx, query, gameID, eventType)
}

// queryEvents is a helper to execute queries and scan results.
func (r *PostgresEventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadJSON []byte

		err := rows.Scan(
			&e.ID,
			&e.GameID,
			&e.Timestamp,
			&e.EventType,
			&e.ActorID,
			&e.Turn,
			&payloadJSON,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		if err := json.Unmarshal(payloadJSON, &e.Payload); err != nil {
			return nil, fmt.Errorf("failed to unmarshal payload: %w", err)
		}

		events = append(events, e)
	}

	return events, rows.Err()
}

// Ensure PostgresEventRepository implements EventRepository
var _ EventRepository = (*PostgresEventRepository)(nil)
