package network

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/dominionboardgame/server/internal/engine"
	"github.com/dominionboardgame/server/internal/events"
	"github.com/dominionboardgame/server/internal/infra/archive"
	"github.com/dominionboardgame/server/internal/infra/storage"
	"github.com/dominionboardgame/server/internal/platform/logger"
)

// ReplayHandler exposes the audit history of finished and running
// matches: raw event timelines, the command script needed to replay a
// game deterministically, and per-player recaps.
type ReplayHandler struct {
	eventLog      *events.EventLog
	reconstructor *storage.Reconstructor
	archive       *archive.Store
	logger        *logger.Logger
}

// NewReplayHandler creates a replay handler. The reconstructor and
// archive are optional; without them only the in-memory log is served.
func NewReplayHandler(el *events.EventLog, rec *storage.Reconstructor, arc *archive.Store, log *logger.Logger) *ReplayHandler {
	return &ReplayHandler{
		eventLog:      el,
		reconstructor: rec,
		archive:       arc,
		logger:        log,
	}
}

// ArchiveDocument is the compressed payload stored per finished match:
// the full audit history plus the final state.
type ArchiveDocument struct {
	Snapshot *engine.Snapshot   `json:"snapshot"`
	Events   []events.GameEvent `json:"events"`
}

// ReplayEvent is a sanitized event for public viewing. Command payloads
// are omitted so hidden information (such as masked cash amounts) never
// leaks through the replay API.
type ReplayEvent struct {
	ID        string `json:"id"`
	Timestamp string `json:"timestamp"`
	Turn      int    `json:"turn"`
	Type      string `json:"type"`
	ActorID   string `json:"actor_id,omitempty"`
	Summary   string `json:"summary"`
}

// ReplayResponse is the API response for a replay timeline.
type ReplayResponse struct {
	GameID      string        `json:"game_id"`
	TotalEvents int           `json:"total_events"`
	FilteredBy  string        `json:"filtered_by,omitempty"`
	GeneratedAt string        `json:"generated_at"`
	Events      []ReplayEvent `json:"events"`
}

// HandleReplay returns the event timeline for a game.
// GET /api/replay?game_id=XXX&turn=N&type=COMMAND_APPLIED
func (rh *ReplayHandler) HandleReplay(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		rh.jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}

	// Optional filters
	turnStr := r.URL.Query().Get("turn")
	eventType := r.URL.Query().Get("type")

	all := rh.eventLog.GetByGame(gameID)

	var replayEvents []ReplayEvent
	filterDesc := ""

	for _, e := range all {
		if turnStr != "" {
			turn, _ := strconv.Atoi(turnStr)
			if e.Turn != turn {
				continue
			}
			filterDesc = "Turn " + turnStr
		}
		if eventType != "" && string(e.Type) != eventType {
			continue
		}
		replayEvents = append(replayEvents, toReplayEvent(e))
	}

	response := ReplayResponse{
		GameID:      gameID,
		TotalEvents: len(replayEvents),
		FilteredBy:  filterDesc,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Events:      replayEvents,
	}

	rh.logger.Event("REPLAY", "SPECTATOR", "GameID:"+gameID+" Events:"+strconv.Itoa(len(replayEvents)))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandleScript returns the accepted-command script of a game. Together
// with the seed from the games table, feeding the script back through a
// fresh engine reproduces the exact final state.
// GET /api/replay/script?game_id=XXX
func (rh *ReplayHandler) HandleScript(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		rh.jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}

	var script []storage.ScriptEntry
	if rh.reconstructor != nil {
		var err error
		script, err = rh.reconstructor.CommandScript(r.Context(), gameID)
		if err != nil {
			rh.jsonError(w, "Failed to load command script", http.StatusInternalServerError)
			return
		}
	} else {
		for _, e := range rh.eventLog.GetByGame(gameID) {
			if e.Type != events.EventTypeCommandApplied {
				continue
			}
			entry := storage.ScriptEntry{ActorID: e.ActorID, Turn: e.Turn}
			if p, ok := e.Payload.(events.CommandPayload); ok {
				// In-memory payloads carry the typed command; the
				// script uses its generic JSON form.
				if raw, err := json.Marshal(p.Command); err == nil {
					var cmd map[string]interface{}
					if json.Unmarshal(raw, &cmd) == nil {
						entry.Command = cmd
					}
				}
			}
			script = append(script, entry)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"game_id":  gameID,
		"commands": len(script),
		"script":   script,
	})
}

// HandleRecap returns the lifecycle summary one player would want after
// reconnecting: what happened since the given turn, phrased from the
// outside without hidden details.
// GET /api/replay/recap?game_id=XXX&player_id=YYY&since_turn=N
func (rh *ReplayHandler) HandleRecap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if rh.reconstructor == nil {
		rh.jsonError(w, "Recap requires persistent storage", http.StatusNotImplemented)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	playerID := r.URL.Query().Get("player_id")
	if gameID == "" || playerID == "" {
		rh.jsonError(w, "Missing game_id or player_id", http.StatusBadRequest)
		return
	}
	sinceTurn, _ := strconv.Atoi(r.URL.Query().Get("since_turn"))

	recap, err := rh.reconstructor.GenerateRecap(r.Context(), gameID, playerID, sinceTurn)
	if err != nil {
		rh.jsonError(w, "Failed to generate recap", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"game_id":    gameID,
		"player_id":  playerID,
		"since_turn": sinceTurn,
		"recap":      recap,
	})
}

// HandleArchive serves the compressed history of an archived match.
// GET /api/replay/archive?game_id=XXX
func (rh *ReplayHandler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		rh.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if rh.archive == nil {
		rh.jsonError(w, "Archive not configured", http.StatusNotImplemented)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		rh.jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}

	var doc ArchiveDocument
	meta, err := rh.archive.Load(gameID, &doc)
	if err != nil {
		rh.jsonError(w, "Archived game not found", http.StatusNotFound)
		return
	}

	sanitized := make([]ReplayEvent, 0, len(doc.Events))
	for _, e := range doc.Events {
		sanitized = append(sanitized, toReplayEvent(e))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"meta":     meta,
		"snapshot": doc.Snapshot,
		"events":   sanitized,
	})
}

// RegisterRoutes sets up the replay API routes.
func (rh *ReplayHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/replay", rh.HandleReplay)
	mux.HandleFunc("/api/replay/script", rh.HandleScript)
	mux.HandleFunc("/api/replay/recap", rh.HandleRecap)
	mux.HandleFunc("/api/replay/archive", rh.HandleArchive)
}

func toReplayEvent(e events.GameEvent) ReplayEvent {
	return ReplayEvent{
		ID:        e.ID,
		Timestamp: e.Timestamp.Format(time.RFC3339),
		Turn:      e.Turn,
		Type:      string(e.Type),
		ActorID:   e.ActorID,
		Summary:   summarizeEvent(e),
	}
}

func summarizeEvent(e events.GameEvent) string {
	switch e.Type {
	case events.EventTypeGameCreated:
		return "The match was created"
	case events.EventTypePlayerJoined:
		return e.ActorID + " joined the table"
	case events.EventTypePlayerLeft:
		return e.ActorID + " left the table"
	case events.EventTypeCommandApplied:
		return e.ActorID + " acted"
	case events.EventTypeCommandRejected:
		return "A command by " + e.ActorID + " was rejected"
	case events.EventTypeTurnAdvanced:
		return "The turn advanced"
	case events.EventTypeBankruptcy:
		return e.ActorID + " went bankrupt"
	case events.EventTypeGameEnded:
		return "The match ended"
	default:
		return string(e.Type)
	}
}

func (rh *ReplayHandler) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
