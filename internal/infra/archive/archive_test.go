package archive

import (
	"testing"
)

type replayEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	// Setup
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	events := []replayEvent{
		{ID: "e1", Type: "GAME_CREATED"},
		{ID: "e2", Type: "COMMAND_APPLIED"},
		{ID: "e3", Type: "GAME_ENDED"},
	}
	meta := Meta{GameID: "g1", Seed: 42, Players: []string{"p1", "p2"}, Winner: "p1", WinReason: "elimination", Turns: 30, EventCount: 3}

	// Act
	if err := store.Save(meta, events); err != nil {
		t.Fatalf("Save: %v", err)
	}
	var loaded []replayEvent
	gotMeta, err := store.Load("g1", &loaded)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	// Assert
	if len(loaded) != 3 || loaded[0].ID != "e1" || loaded[2].Type != "GAME_ENDED" {
		t.Errorf("Expected events back in order, got %v", loaded)
	}
	if gotMeta.Seed != 42 || gotMeta.Winner != "p1" {
		t.Errorf("Expected metadata preserved, got %+v", gotMeta)
	}
	if gotMeta.ArchivedAt.IsZero() {
		t.Error("Expected archive timestamp set")
	}
}

func TestLoadMissingGameFails(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}

	var dst []replayEvent
	if _, err := store.Load("nope", &dst); err == nil {
		t.Error("Expected an error for a missing archive")
	}
}

func TestListReturnsArchivedGames(t *testing.T) {
	// Setup
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	_ = store.Save(Meta{GameID: "g1"}, []replayEvent{})
	_ = store.Save(Meta{GameID: "g2"}, []replayEvent{})

	// Act
	metas, err := store.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	// Assert
	if len(metas) != 2 {
		t.Fatalf("Expected 2 archives, got %d", len(metas))
	}
	seen := map[string]bool{}
	for _, m := range metas {
		seen[m.GameID] = true
	}
	if !seen["g1"] || !seen["g2"] {
		t.Errorf("Expected g1 and g2 listed, got %v", metas)
	}
}
