// Package archive persists finished matches as compressed replay
// bundles. Each bundle holds the final snapshot and the full audit
// event stream, plus a small plain-JSON metadata file for listing
// without decompression.
package archive

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Meta describes one archived match.
type Meta struct {
	GameID     string    `json:"game_id"`
	Seed       int64     `json:"seed"`
	Players    []string  `json:"players"`
	Winner     string    `json:"winner"`
	WinReason  string    `json:"win_reason"`
	Turns      int       `json:"turns"`
	EventCount int       `json:"event_count"`
	ArchivedAt time.Time `json:"archived_at"`
}

// Store writes replay bundles under a base directory.
type Store struct {
	dir string
}

// NewStore creates the archive directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create archive directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Save compresses the replay document and writes it next to its
// metadata. The data file is written atomically via a rename.
func (s *Store) Save(meta Meta, doc interface{}) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal replay document: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	enc.Close()

	tmp := s.dataPath(meta.GameID) + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0644); err != nil {
		return fmt.Errorf("failed to write replay data: %w", err)
	}
	if err := os.Rename(tmp, s.dataPath(meta.GameID)); err != nil {
		return fmt.Errorf("failed to finalize replay data: %w", err)
	}

	meta.ArchivedAt = time.Now().UTC()
	metaRaw, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal replay meta: %w", err)
	}
	if err := os.WriteFile(s.metaPath(meta.GameID), metaRaw, 0644); err != nil {
		return fmt.Errorf("failed to write replay meta: %w", err)
	}
	return nil
}

// Load decompresses one archived replay into dst.
func (s *Store) Load(gameID string, dst interface{}) (*Meta, error) {
	metaRaw, err := os.ReadFile(s.metaPath(gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to read replay meta: %w", err)
	}
	var meta Meta
	if err := json.Unmarshal(metaRaw, &meta); err != nil {
		return nil, fmt.Errorf("failed to parse replay meta: %w", err)
	}

	compressed, err := os.ReadFile(s.dataPath(gameID))
	if err != nil {
		return nil, fmt.Errorf("failed to read replay data: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress replay data: %w", err)
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return nil, fmt.Errorf("failed to parse replay document: %w", err)
	}
	return &meta, nil
}

// List returns metadata for every archived match, newest first by
// archive time.
func (s *Store) List() ([]Meta, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}

	var metas []Meta
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(s.dir, e.Name()))
		if err != nil {
			continue
		}
		var m Meta
		if err := json.Unmarshal(raw, &m); err != nil {
			continue
		}
		metas = append(metas, m)
	}

	for i := 0; i < len(metas); i++ {
		for j := i + 1; j < len(metas); j++ {
			if metas[j].ArchivedAt.After(metas[i].ArchivedAt) {
				metas[i], metas[j] = metas[j], metas[i]
			}
		}
	}
	return metas, nil
}

func (s *Store) dataPath(gameID string) string {
	return filepath.Join(s.dir, gameID+".events.zst")
}

func (s *Store) metaPath(gameID string) string {
	return filepath.Join(s.dir, gameID+".json")
}
