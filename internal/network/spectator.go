package network

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/engine"
	"github.com/dominionboardgame/server/internal/platform/logger"
)

// SpectatorBridge serves read-only REST views of running matches for
// lobby screens and stream overlays. Views are masked: a player holding
// the shadow passive keeps their true cash balance hidden.
type SpectatorBridge struct {
	rooms  *Registry
	hub    *Hub
	logger *logger.Logger
}

// NewSpectatorBridge creates a spectator view handler.
func NewSpectatorBridge(rooms *Registry, hub *Hub, log *logger.Logger) *SpectatorBridge {
	return &SpectatorBridge{
		rooms:  rooms,
		hub:    hub,
		logger: log,
	}
}

// PlayerStatus is the public view of one seat.
type PlayerStatus struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CharacterID string `json:"character_id,omitempty"`
	Money       int    `json:"money"`
	MoneyHidden bool   `json:"money_hidden,omitempty"`
	Position    int    `json:"position"`
	Properties  []int  `json:"properties"`
	InJail      bool   `json:"in_jail"`
	Bankrupt    bool   `json:"bankrupt"`
}

// GameStatus is the public view of one match.
type GameStatus struct {
	GameID        string         `json:"game_id"`
	Phase         string         `json:"phase"`
	CurrentPlayer string         `json:"current_player"`
	Turn          int            `json:"turn"`
	SeasonIndex   int            `json:"season_index"`
	Winner        string         `json:"winner,omitempty"`
	WinReason     string         `json:"win_reason,omitempty"`
	Players       []PlayerStatus `json:"players"`
	Owners        map[int]string `json:"owners"`
	Buildings     map[int]int    `json:"buildings"`
	Mortgaged     []int          `json:"mortgaged"`
	ParkingPot    int            `json:"parking_pot"`
	OnlinePlayers []string       `json:"online_players"`
	Timestamp     int64          `json:"timestamp"`
}

// GameListEntry is one row of the lobby listing.
type GameListEntry struct {
	GameID      string `json:"game_id"`
	Phase       string `json:"phase"`
	Turn        int    `json:"turn"`
	Players     int    `json:"players"`
	Winner      string `json:"winner,omitempty"`
	OnlineCount int    `json:"online_count"`
}

// HandleGameList lists the running matches.
// GET /api/games
func (sb *SpectatorBridge) HandleGameList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var listing []GameListEntry
	for _, id := range sb.rooms.IDs() {
		room, ok := sb.rooms.Get(id)
		if !ok {
			continue
		}
		snap := room.Snapshot()
		listing = append(listing, GameListEntry{
			GameID:      id,
			Phase:       string(snap.Phase),
			Turn:        snap.TotalTurns,
			Players:     len(snap.Players),
			Winner:      snap.Winner,
			OnlineCount: len(sb.hub.ConnectedPlayers(id)),
		})
	}

	sb.jsonSuccess(w, map[string]interface{}{
		"games":     listing,
		"count":     len(listing),
		"timestamp": time.Now().Unix(),
	})
}

// HandleGameStatus returns the masked state of one match.
// GET /api/games/status?game_id=XXX
func (sb *SpectatorBridge) HandleGameStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		sb.jsonError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	gameID := r.URL.Query().Get("game_id")
	if gameID == "" {
		sb.jsonError(w, "Missing game_id", http.StatusBadRequest)
		return
	}

	room, ok := sb.rooms.Get(gameID)
	if !ok {
		sb.jsonError(w, "Game not found", http.StatusNotFound)
		return
	}

	snap := room.Snapshot()
	status := GameStatus{
		GameID:        gameID,
		Phase:         string(snap.Phase),
		CurrentPlayer: snap.CurrentPlayer,
		Turn:          snap.TotalTurns,
		SeasonIndex:   snap.SeasonIndex,
		Winner:        snap.Winner,
		WinReason:     snap.WinReason,
		Owners:        snap.Owners,
		Buildings:     snap.Buildings,
		Mortgaged:     snap.Mortgaged,
		ParkingPot:    snap.ParkingPot,
		OnlinePlayers: sb.hub.ConnectedPlayers(gameID),
		Timestamp:     time.Now().Unix(),
	}
	hide := room.HidesShadowMoney() && snap.Winner == ""
	for i := range snap.Players {
		status.Players = append(status.Players, maskPlayer(&snap.Players[i], hide))
	}

	sb.jsonSuccess(w, status)
}

// maskPlayer builds the public view of a seat. Once the game is over
// there is nothing left to protect, but during play shadow-passive
// players show a hidden balance.
func maskPlayer(p *engine.Player, hideShadow bool) PlayerStatus {
	status := PlayerStatus{
		ID:         p.ID,
		Name:       p.DisplayName(),
		Money:      p.Money,
		Position:   p.Position,
		Properties: p.Properties,
		InJail:     p.InJail,
		Bankrupt:   p.Bankrupt,
	}
	if p.Character != nil {
		status.CharacterID = p.Character.ID
		if hideShadow && p.Character.Passive.ID == character.PassiveShadow {
			status.Money = 0
			status.MoneyHidden = true
		}
	}
	return status
}

// RegisterRoutes sets up the spectator API routes.
func (sb *SpectatorBridge) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/games", sb.HandleGameList)
	mux.HandleFunc("/api/games/status", sb.HandleGameStatus)
}

// jsonError sends an error response.
func (sb *SpectatorBridge) jsonError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// jsonSuccess sends a success response.
func (sb *SpectatorBridge) jsonSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(data)
}
