package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite initializes the local SQLite database and creates the
// schemas for match headers, player snapshots and the immutable event
// log.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS games (
			game_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL DEFAULT 0,
			phase TEXT NOT NULL DEFAULT 'select',
			turn INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT '',
			win_reason TEXT NOT NULL DEFAULT '',
			last_updated DATETIME NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS players (
			player_id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			name TEXT,
			character_id TEXT,
			money INTEGER NOT NULL,
			position INTEGER NOT NULL DEFAULT 0,
			net_worth INTEGER NOT NULL DEFAULT 0,
			in_jail BOOLEAN NOT NULL DEFAULT 0,
			bankrupt BOOLEAN NOT NULL DEFAULT 0,
			last_updated DATETIME NOT NULL,
			FOREIGN KEY (game_id) REFERENCES games(game_id)
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id TEXT PRIMARY KEY,
			game_id TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			event_type TEXT NOT NULL,
			actor_id TEXT NOT NULL,
			turn INTEGER NOT NULL,
			payload TEXT NOT NULL,
			FOREIGN KEY (game_id) REFERENCES games(game_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_game_id ON events(game_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_actor_id ON events(actor_id);`,
		`CREATE INDEX IF NOT EXISTS idx_events_turn ON events(turn);`,
		`CREATE INDEX IF NOT EXISTS idx_players_game_id ON players(game_id);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
