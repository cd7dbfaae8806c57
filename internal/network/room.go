package network

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dominionboardgame/server/internal/content"
	"github.com/dominionboardgame/server/internal/engine"
	"github.com/dominionboardgame/server/internal/events"
	"github.com/dominionboardgame/server/internal/infra/cache"
	"github.com/dominionboardgame/server/internal/infra/storage"
	"github.com/dominionboardgame/server/internal/platform/logger"
	"github.com/dominionboardgame/server/internal/platform/metrics"
)

// Room hosts one match. All command application goes through the room's
// mutex; the engine itself is not safe for concurrent use.
type Room struct {
	id   string
	seed int64

	mu   sync.Mutex
	game *engine.Game

	hub      *Hub
	eventLog *events.EventLog
	logger   *logger.Logger

	// Shadow passive: whether true cash balances are masked in
	// spectator views.
	hideShadowMoney bool

	// Optional write-through targets, nil when not configured.
	snapshots storage.SnapshotRepository
	snapCache *cache.SnapshotCache
}

// NewRoom builds a fresh match from a content bundle and a seed. The
// seed fully determines dice and card draws, so the same seed plus the
// same command sequence reproduces the same game.
func NewRoom(id string, seed int64, bundle *content.Bundle, seats []engine.Seat, hub *Hub, eventLog *events.EventLog, log *logger.Logger) (*Room, error) {
	r, err := newRoom(id, seed, bundle, seats, hub, eventLog, log)
	if err != nil {
		return nil, err
	}

	metrics.Get().RecordGameStart()
	r.recordEvent(events.EventTypeGameCreated, "", nil)
	for _, s := range seats {
		r.recordEvent(events.EventTypePlayerJoined, s.ID, map[string]interface{}{"name": s.Name})
	}
	return r, nil
}

// ResumeRoom rebuilds an interrupted match from its recorded seed and
// accepted-command script. The seats must come back in their original
// order; replaying consumes the random source exactly as the first run
// did. Nothing is appended to the audit log while restoring.
func ResumeRoom(id string, seed int64, bundle *content.Bundle, seats []engine.Seat, script []storage.ScriptEntry, hub *Hub, eventLog *events.EventLog, log *logger.Logger) (*Room, error) {
	r, err := newRoom(id, seed, bundle, seats, hub, eventLog, log)
	if err != nil {
		return nil, err
	}

	for i, entry := range script {
		data, err := json.Marshal(entry.Command)
		if err != nil {
			return nil, fmt.Errorf("resume %s: encode command %d: %w", id, i, err)
		}
		var cmd engine.Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			return nil, fmt.Errorf("resume %s: decode command %d: %w", id, i, err)
		}
		if err := r.game.Apply(cmd); err != nil {
			return nil, fmt.Errorf("resume %s: replay command %d (%s): %w", id, i, cmd.Type, err)
		}
	}

	log.Info("Resumed game " + id + " from " + fmt.Sprintf("%d", len(script)) + " recorded commands")
	return r, nil
}

func newRoom(id string, seed int64, bundle *content.Bundle, seats []engine.Seat, hub *Hub, eventLog *events.EventLog, log *logger.Logger) (*Room, error) {
	game, err := engine.New(id, bundle.Rules, &bundle.Board, bundle.Decks, bundle.Roster, engine.NewSeededSource(seed), seats)
	if err != nil {
		return nil, fmt.Errorf("create game %s: %w", id, err)
	}

	return &Room{
		id:              id,
		seed:            seed,
		game:            game,
		hub:             hub,
		eventLog:        eventLog,
		logger:          log,
		hideShadowMoney: bundle.Rules.Passives.Shadow.HideMoney,
	}, nil
}

// SetPersistence attaches the snapshot repository and cache the room
// writes through to after each accepted command.
func (r *Room) SetPersistence(repo storage.SnapshotRepository, snapCache *cache.SnapshotCache) {
	r.mu.Lock()
	r.snapshots = repo
	r.snapCache = snapCache
	r.mu.Unlock()
}

// ID returns the room identifier.
func (r *Room) ID() string { return r.id }

// Seed returns the deterministic seed the match was created with.
func (r *Room) Seed() int64 { return r.seed }

// HidesShadowMoney reports whether spectator views must mask the cash
// of players holding the shadow passive.
func (r *Room) HidesShadowMoney() bool { return r.hideShadowMoney }

// Snapshot returns a deep copy of the current game state.
func (r *Room) Snapshot() *engine.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Snapshot()
}

// Apply runs one command against the engine. On rejection the returned
// error carries the engine's reason and no state changed; on success
// the new snapshot is broadcast to the room's clients and written
// through to persistence.
func (r *Room) Apply(cmd engine.Command) (*engine.Snapshot, error) {
	r.mu.Lock()

	wasOver := r.game.Over()
	bankruptBefore := make(map[string]bool)
	for _, p := range r.game.Snapshot().Players {
		if p.Bankrupt {
			bankruptBefore[p.ID] = true
		}
	}
	start := time.Now()
	err := r.game.Apply(cmd)
	metrics.Get().RecordCommand(time.Since(start), err != nil)

	if err != nil {
		r.record(events.EventTypeCommandRejected, cmd.Player, events.CommandPayload{Command: cmd, Error: err.Error()}, r.game.TotalTurns())
		r.mu.Unlock()
		return nil, err
	}

	snap := r.game.Snapshot()
	worth := make(map[string]int, len(snap.Players))
	for _, p := range snap.Players {
		worth[p.ID] = r.game.NetWorth(p.ID)
	}
	justEnded := !wasOver && r.game.Over()

	// Recorded before the lock drops: the audit order must match the
	// order commands were accepted in, or replaying the script produces
	// a different game.
	r.record(events.EventTypeCommandApplied, cmd.Player, events.CommandPayload{Command: cmd}, snap.TotalTurns)
	if cmd.Type == engine.CmdEndTurn {
		r.record(events.EventTypeTurnAdvanced, cmd.Player, map[string]interface{}{"turn": snap.TotalTurns}, snap.TotalTurns)
	}
	for _, p := range snap.Players {
		if p.Bankrupt && !bankruptBefore[p.ID] {
			r.record(events.EventTypeBankruptcy, p.ID, map[string]interface{}{"turn": snap.TotalTurns}, snap.TotalTurns)
		}
	}
	if justEnded {
		metrics.Get().RecordGameEnd()
		r.record(events.EventTypeGameEnded, snap.Winner, map[string]interface{}{"reason": snap.WinReason}, snap.TotalTurns)
		r.logger.Event("GAME_ENDED", snap.Winner, "Game "+r.id+" over: "+snap.WinReason)
	}
	r.mu.Unlock()

	r.hub.BroadcastToGame(r.id, Message{
		Type:      MsgTypeSnapshot,
		Timestamp: time.Now().Unix(),
		Payload:   snap,
	})
	go r.persistSnapshot(snap, worth)

	return snap, nil
}

// recordEvent is the unlocked variant for lifecycle events outside
// Apply. Inside Apply use record with the turn already at hand.
func (r *Room) recordEvent(t events.EventType, actorID string, payload interface{}) {
	r.record(t, actorID, payload, r.turn())
}

func (r *Room) record(t events.EventType, actorID string, payload interface{}, turn int) {
	r.eventLog.Append(events.GameEvent{
		ID:        events.GenerateEventID(),
		GameID:    r.id,
		Timestamp: time.Now(),
		Type:      t,
		ActorID:   actorID,
		Turn:      turn,
		Payload:   payload,
	})
}

func (r *Room) turn() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.TotalTurns()
}

// persistSnapshot is best-effort: the in-memory game stays authoritative
// even when the database or cache is unreachable.
func (r *Room) persistSnapshot(snap *engine.Snapshot, worth map[string]int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if r.snapshots != nil {
		rec := storage.GameRecord{
			GameID: r.id,
			Seed:   r.seed,
			Phase:  string(snap.Phase),
			Turn:   snap.TotalTurns,
		}
		if snap.Winner != "" {
			rec.Winner = snap.Winner
			rec.WinReason = snap.WinReason
		}
		if err := r.snapshots.UpsertGame(ctx, rec); err != nil {
			r.logger.Warn("Snapshot write failed for game " + r.id + ": " + err.Error())
		}
		for _, p := range snap.Players {
			ps := storage.PlayerSnapshot{
				PlayerID: p.ID,
				GameID:   r.id,
				Name:     p.Name,
				Money:    p.Money,
				Position: p.Position,
				NetWorth: worth[p.ID],
				InJail:   p.InJail,
				Bankrupt: p.Bankrupt,
			}
			if p.Character != nil {
				ps.CharacterID = p.Character.ID
			}
			if err := r.snapshots.UpsertPlayer(ctx, ps); err != nil {
				r.logger.Warn("Player snapshot write failed for " + p.ID + ": " + err.Error())
			}
		}
	}

	if r.snapCache != nil {
		if err := r.snapCache.SetGameSnapshot(ctx, r.id, snap); err != nil {
			r.logger.Warn("Snapshot cache write failed for game " + r.id + ": " + err.Error())
		}
		summaries := make(map[string]cache.PlayerSummary, len(snap.Players))
		for _, p := range snap.Players {
			s := cache.PlayerSummary{
				PlayerID: p.ID,
				Name:     p.Name,
				Money:    p.Money,
				Position: p.Position,
				NetWorth: worth[p.ID],
				InJail:   p.InJail,
				Bankrupt: p.Bankrupt,
			}
			if p.Character != nil {
				s.CharacterID = p.Character.ID
			}
			summaries[p.ID] = s
		}
		if err := r.snapCache.SetPlayerSummaries(ctx, r.id, summaries); err != nil {
			r.logger.Warn("Player summary cache write failed for game " + r.id + ": " + err.Error())
		}
	}
}

// Registry is the set of live rooms, keyed by game id.
type Registry struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty room registry.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// Add registers a room. Adding an id twice is an error.
func (reg *Registry) Add(room *Room) error {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if _, exists := reg.rooms[room.ID()]; exists {
		return fmt.Errorf("room %s already exists", room.ID())
	}
	reg.rooms[room.ID()] = room
	return nil
}

// Get looks a room up by game id.
func (reg *Registry) Get(gameID string) (*Room, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	room, ok := reg.rooms[gameID]
	return room, ok
}

// Remove drops a room from the registry.
func (reg *Registry) Remove(gameID string) {
	reg.mu.Lock()
	delete(reg.rooms, gameID)
	reg.mu.Unlock()
}

// IDs lists the registered game ids in sorted order.
func (reg *Registry) IDs() []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	ids := make([]string, 0, len(reg.rooms))
	for id := range reg.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
