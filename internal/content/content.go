// Package content loads game data from YAML files: the board layout,
// the card decks, the character roster and the rule configuration.
// Missing files fall back to the built-in defaults, so a bare server
// starts with the standard game.
package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

// Bundle is the full static content of a match.
type Bundle struct {
	Board  board.Board
	Decks  card.Decks
	Roster []character.Character
	Rules  rules.Config
}

// File names looked up inside the data directory.
const (
	boardFile      = "board.yaml"
	cardsFile      = "cards.yaml"
	charactersFile = "characters.yaml"
	rulesFile      = "rules.yaml"
)

// Load reads the bundle from dir. An empty dir, or any individually
// missing file, falls back to defaults; malformed files are errors.
func Load(dir string) (*Bundle, error) {
	b := &Bundle{
		Board:  *board.Default(),
		Decks:  card.DefaultDecks(),
		Roster: character.DefaultRoster(),
		Rules:  rules.Default(),
	}
	if dir == "" {
		return b, nil
	}

	if err := loadYAML(filepath.Join(dir, boardFile), &b.Board); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, cardsFile), &b.Decks); err != nil {
		return nil, err
	}
	if err := loadRoster(filepath.Join(dir, charactersFile), &b.Roster); err != nil {
		return nil, err
	}
	if err := loadYAML(filepath.Join(dir, rulesFile), &b.Rules); err != nil {
		return nil, err
	}

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("content in %s: %w", dir, err)
	}
	return b, nil
}

// Validate cross-checks the loaded pieces.
func (b *Bundle) Validate() error {
	if err := b.Board.Validate(); err != nil {
		return fmt.Errorf("board: %w", err)
	}
	if len(b.Decks.Chance) == 0 || len(b.Decks.Community) == 0 {
		return errors.New("cards: both decks need at least one card")
	}
	if len(b.Roster) == 0 {
		return errors.New("characters: empty roster")
	}
	seen := make(map[string]bool, len(b.Roster))
	for _, c := range b.Roster {
		if c.ID == "" {
			return errors.New("characters: character without id")
		}
		if seen[c.ID] {
			return fmt.Errorf("characters: duplicate id %q", c.ID)
		}
		seen[c.ID] = true
	}
	if b.Rules.Core.BoardSize != len(b.Board.Spaces) {
		return fmt.Errorf("rules: board_size %d does not match board with %d spaces",
			b.Rules.Core.BoardSize, len(b.Board.Spaces))
	}
	return nil
}

// rosterFile is the YAML shape of characters.yaml.
type rosterFile struct {
	Characters []character.Character `yaml:"characters"`
}

func loadRoster(path string, dst *[]character.Character) error {
	var rf rosterFile
	if err := loadYAML(path, &rf); err != nil {
		return err
	}
	if len(rf.Characters) > 0 {
		*dst = rf.Characters
	}
	return nil
}

// loadYAML decodes path into dst, leaving dst untouched when the file
// does not exist.
func loadYAML(path string, dst interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
