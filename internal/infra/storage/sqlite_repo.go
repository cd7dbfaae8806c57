package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// SQLiteEventRepository implements EventRepository for SQLite.
type SQLiteEventRepository struct {
	db *sql.DB
}

func NewSQLiteEventRepository(db *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{db: db}
}

func (r *SQLiteEventRepository) Append(ctx context.Context, event GameEvent) error {
	payloadBytes, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	query := `
		INSERT INTO events (id, game_id, timestamp, event_type, actor_id, turn, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = r.db.ExecContext(ctx, query,
		event.ID, event.GameID, event.Timestamp, event.EventType, event.ActorID,
		event.Turn, string(payloadBytes),
	)
	if err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}

func (r *SQLiteEventRepository) getMany(ctx context.Context, query string, args ...interface{}) ([]GameEvent, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []GameEvent
	for rows.Next() {
		var e GameEvent
		var payloadStr string
		err := rows.Scan(
			&e.ID, &e.GameID, &e.Timestamp, &e.EventType, &e.ActorID,
			&e.Turn, &payloadStr,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(payloadStr), &e.Payload); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *SQLiteEventRepository) GetByGameID(ctx context.Context, gameID string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, turn, payload FROM events WHERE game_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID)
}

func (r *SQLiteEventRepository) GetByActorID(ctx context.Context, gameID, actorID string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, turn, payload FROM events WHERE game_id = ? AND actor_id = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, actorID)
}

func (r *SQLiteEventRepository) GetByTurn(ctx context.Context, gameID string, turn int) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, turn, payload FROM events WHERE game_id = ? AND turn = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, turn)
}

func (r *SQLiteEventRepository) GetByEventType(ctx context.Context, gameID string, eventType string) ([]GameEvent, error) {
	query := `SELECT id, game_id, timestamp, event_type, actor_id, turn, payload FROM events WHERE game_id = ? AND event_type = ? ORDER BY timestamp ASC`
	return r.getMany(ctx, query, gameID, eventType)
}

var _ EventRepository = (*SQLiteEventRepository)(nil)

// ---------------------------------------------------------
// SQLiteSnapshotRepository
// ---------------------------------------------------------

type SQLiteSnapshotRepository struct {
	db *sql.DB
}

func NewSQLiteSnapshotRepository(db *sql.DB) *SQLiteSnapshotRepository {
	return &SQLiteSnapshotRepository{db: db}
}

func (r *SQLiteSnapshotRepository) UpsertGame(ctx context.Context, record GameRecord) error {
	query := `
		INSERT INTO games (game_id, seed, phase, turn, winner, win_reason, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(game_id) DO UPDATE SET
			seed=excluded.seed,
			phase=excluded.phase,
			turn=excluded.turn,
			winner=excluded.winner,
			win_reason=excluded.win_reason,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		record.GameID, record.Seed, record.Phase, record.Turn,
		record.Winner, record.WinReason, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetGame(ctx context.Context, gameID string) (*GameRecord, error) {
	query := `SELECT game_id, seed, phase, turn, winner, win_reason, last_updated FROM games WHERE game_id = ?`
	var g GameRecord
	err := r.db.QueryRowContext(ctx, query, gameID).Scan(
		&g.GameID, &g.Seed, &g.Phase, &g.Turn, &g.Winner, &g.WinReason, &g.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &g, nil
}

func (r *SQLiteSnapshotRepository) ListGames(ctx context.Context) ([]GameRecord, error) {
	query := `SELECT game_id, seed, phase, turn, winner, win_reason, last_updated FROM games ORDER BY game_id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var g GameRecord
		if err := rows.Scan(&g.GameID, &g.Seed, &g.Phase, &g.Turn, &g.Winner, &g.WinReason, &g.LastUpdated); err != nil {
			return nil, err
		}
		records = append(records, g)
	}
	return records, rows.Err()
}

func (r *SQLiteSnapshotRepository) UpsertPlayer(ctx context.Context, snapshot PlayerSnapshot) error {
	query := `
		INSERT INTO players (player_id, game_id, name, character_id, money, position, net_worth, in_jail, bankrupt, last_updated)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(player_id) DO UPDATE SET
			name=excluded.name,
			character_id=excluded.character_id,
			money=excluded.money,
			position=excluded.position,
			net_worth=excluded.net_worth,
			in_jail=excluded.in_jail,
			bankrupt=excluded.bankrupt,
			last_updated=excluded.last_updated
	`
	_, err := r.db.ExecContext(ctx, query,
		snapshot.PlayerID, snapshot.GameID, snapshot.Name, snapshot.CharacterID,
		snapshot.Money, snapshot.Position, snapshot.NetWorth, snapshot.InJail,
		snapshot.Bankrupt, time.Now(),
	)
	return err
}

func (r *SQLiteSnapshotRepository) GetByPlayerID(ctx context.Context, playerID string) (*PlayerSnapshot, error) {
	query := `SELECT player_id, game_id, name, character_id, money, position, net_worth, in_jail, bankrupt, last_updated FROM players WHERE player_id = ?`
	var p PlayerSnapshot
	err := r.db.QueryRowContext(ctx, query, playerID).Scan(
		&p.PlayerID, &p.GameID, &p.Name, &p.CharacterID, &p.Money, &p.Position,
		&p.NetWorth, &p.InJail, &p.Bankrupt, &p.LastUpdated,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *SQLiteSnapshotRepository) GetByGameID(ctx context.Context, gameID string) ([]PlayerSnapshot, error) {
	query := `SELECT player_id, game_id, name, character_id, money, position, net_worth, in_jail, bankrupt, last_updated FROM players WHERE game_id = ?`
	rows, err := r.db.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snaps []PlayerSnapshot
	for rows.Next() {
		var p PlayerSnapshot
		if err := rows.Scan(&p.PlayerID, &p.GameID, &p.Name, &p.CharacterID, &p.Money, &p.Position, &p.NetWorth, &p.InJail, &p.Bankrupt, &p.LastUpdated); err != nil {
			return nil, err
		}
		snaps = append(snaps, p)
	}
	return snaps, rows.Err()
}

var _ SnapshotRepository = (*SQLiteSnapshotRepository)(nil)
