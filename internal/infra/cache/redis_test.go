package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// fakeClient is an in-memory RedisClient for tests.
type fakeClient struct {
	kv     map[string]string
	hashes map[string]map[string]string
}

func newFakeClient() *fakeClient {
	return &fakeClient{kv: map[string]string{}, hashes: map[string]map[string]string{}}
}

func (f *fakeClient) Get(ctx context.Context, key string) (string, error) {
	v, ok := f.kv[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return v, nil
}

func (f *fakeClient) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		f.kv[key] = string(v)
	case string:
		f.kv[key] = v
	}
	return nil
}

func (f *fakeClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.kv, k)
		delete(f.hashes, k)
	}
	return nil
}

func (f *fakeClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return f.hashes[key], nil
}

func (f *fakeClient) HSet(ctx context.Context, key string, values ...interface{}) error {
	if f.hashes[key] == nil {
		f.hashes[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		f.hashes[key][values[i].(string)] = values[i+1].(string)
	}
	return nil
}

func TestGameSnapshotRoundTrip(t *testing.T) {
	// Setup
	c := NewSnapshotCache(newFakeClient())
	ctx := context.Background()
	in := map[string]interface{}{"id": "g1", "turn": float64(7)}

	// Act
	if err := c.SetGameSnapshot(ctx, "g1", in); err != nil {
		t.Fatalf("SetGameSnapshot: %v", err)
	}
	var out map[string]interface{}
	if err := c.GetGameSnapshot(ctx, "g1", &out); err != nil {
		t.Fatalf("GetGameSnapshot: %v", err)
	}

	// Assert
	if out["id"] != "g1" || out["turn"] != float64(7) {
		t.Errorf("Expected cached snapshot back, got %v", out)
	}
}

func TestPlayerSummariesRoundTrip(t *testing.T) {
	// Setup
	c := NewSnapshotCache(newFakeClient())
	ctx := context.Background()
	in := map[string]PlayerSummary{
		"p1": {PlayerID: "p1", Name: "Ana", CharacterID: "albert-victor", Money: 1500},
		"p2": {PlayerID: "p2", Name: "Ben", Money: 1200, InJail: true},
	}

	// Act
	if err := c.SetPlayerSummaries(ctx, "g1", in); err != nil {
		t.Fatalf("SetPlayerSummaries: %v", err)
	}
	out, err := c.GetPlayerSummaries(ctx, "g1")
	if err != nil {
		t.Fatalf("GetPlayerSummaries: %v", err)
	}

	// Assert
	if len(out) != 2 {
		t.Fatalf("Expected 2 summaries, got %d", len(out))
	}
	if out["p1"].CharacterID != "albert-victor" {
		t.Errorf("Expected p1 character preserved, got %+v", out["p1"])
	}
	if out["p2"].Money != 1200 || !out["p2"].InJail {
		t.Errorf("Expected p2 summary preserved, got %+v", out["p2"])
	}
}

func TestInvalidateGameClearsBothKeys(t *testing.T) {
	// Setup
	c := NewSnapshotCache(newFakeClient())
	ctx := context.Background()
	_ = c.SetGameSnapshot(ctx, "g1", map[string]string{"id": "g1"})
	_ = c.SetPlayerSummaries(ctx, "g1", map[string]PlayerSummary{"p1": {PlayerID: "p1"}})

	// Act
	if err := c.InvalidateGame(ctx, "g1"); err != nil {
		t.Fatalf("InvalidateGame: %v", err)
	}

	// Assert
	var out map[string]interface{}
	if err := c.GetGameSnapshot(ctx, "g1", &out); err == nil {
		t.Error("Expected a cache miss after invalidation")
	}
	if got, _ := c.GetPlayerSummaries(ctx, "g1"); len(got) != 0 {
		t.Errorf("Expected empty summaries, got %v", got)
	}
}
