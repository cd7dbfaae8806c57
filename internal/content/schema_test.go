package content_test

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

// The schemas describe the canonical JSON form of the content bundle.
// The built-in defaults are the reference documents: if they stop
// validating, either the schema or the content drifted.
func TestSchemas_ValidateDefaults(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		p := filepath.Join("..", "..", "schemas", name)
		s, err := jsonschema.Compile(p)
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	toDoc := func(v interface{}) interface{} {
		t.Helper()
		data, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var doc interface{}
		if err := json.Unmarshal(data, &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		return doc
	}

	validate := func(s *jsonschema.Schema, v interface{}) {
		t.Helper()
		if err := s.Validate(toDoc(v)); err != nil {
			t.Fatalf("validate: %v", err)
		}
	}

	rulesSchema := compile("rules.schema.json")
	boardSchema := compile("board.schema.json")
	cardsSchema := compile("cards.schema.json")
	charactersSchema := compile("characters.schema.json")

	validate(rulesSchema, rules.Default())
	validate(boardSchema, board.Default())
	validate(cardsSchema, card.DefaultDecks())
	validate(charactersSchema, map[string]interface{}{
		"characters": character.DefaultRoster(),
	})
}

func TestSchemas_RejectInvalidDocuments(t *testing.T) {
	compile := func(name string) *jsonschema.Schema {
		t.Helper()
		s, err := jsonschema.Compile(filepath.Join("..", "..", "schemas", name))
		if err != nil {
			t.Fatalf("compile %s: %v", name, err)
		}
		return s
	}

	reject := func(s *jsonschema.Schema, raw string) {
		t.Helper()
		var doc interface{}
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if err := s.Validate(doc); err == nil {
			t.Fatalf("expected validation failure for %s", raw)
		}
	}

	// Unknown card action
	reject(compile("cards.schema.json"), `{
	  "chance":[{"text":"Teleport home.","action":"teleport"}],
	  "community":[{"text":"Gain $10.","action":"gain","value":10}]
	}`)

	// Stat outside the 1-10 range
	reject(compile("characters.schema.json"), `{
	  "characters":[{
	    "id":"test-char","name":"Test",
	    "stats":{"capital":11,"luck":5,"negotiation":5,"charisma":5,"tech":5,"stamina":5},
	    "passive":{"id":"financier"}
	  }]
	}`)

	// Space without a name
	reject(compile("board.schema.json"), `{
	  "spaces":[{"id":0,"type":"go"},{"id":1,"type":"property","name":"A"},
	            {"id":2,"type":"chance","name":"B"},{"id":3,"type":"tax","name":"C"}]
	}`)
}
