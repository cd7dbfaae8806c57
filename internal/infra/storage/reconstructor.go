// Package storage - reconstructor.go
// Rebuilds a match from the event log. A finished game is a function of
// its seed and its accepted commands, so the ledger alone is enough to
// replay it.
package storage

import (
	"context"
	"fmt"
)

// Reconstructor extracts replayable command scripts and match recaps
// from the event log. This is used for:
// 1. Rejoin recaps - show a player what happened while disconnected
// 2. Full deterministic replays of a finished match
// 3. Auditing and debugging
type Reconstructor struct {
	eventRepo EventRepository
}

// NewReconstructor creates a new reconstructor over an event ledger.
func NewReconstructor(eventRepo EventRepository) *Reconstructor {
	return &Reconstructor{eventRepo: eventRepo}
}

// ScriptEntry is one accepted command of the replay script.
type ScriptEntry struct {
	ActorID string                 `json:"actor_id"`
	Turn    int                    `json:"turn"`
	Command map[string]interface{} `json:"command"`
}

// RecapEvent is a simplified event for the rejoin recap screen.
type RecapEvent struct {
	Timestamp string `json:"timestamp"`
	EventType string `json:"event_type"`
	Turn      int    `json:"turn"`
	Summary   string `json:"summary"`
}

// CommandScript returns the ordered list of accepted commands of a
// match. Replaying them against a fresh engine with the recorded seed
// reproduces the final state bit for bit.
func (r *Reconstructor) CommandScript(ctx context.Context, gameID string) ([]ScriptEntry, error) {
	events, err := r.eventRepo.GetByEventType(ctx, gameID, "COMMAND_APPLIED")
	if err != nil {
		return nil, fmt.Errorf("failed to load applied commands: %w", err)
	}

	script := make([]ScriptEntry, 0, len(events))
	for _, e := range events {
		cmd, _ := e.Payload["command"].(map[string]interface{})
		script = append(script, ScriptEntry{
			ActorID: e.ActorID,
			Turn:    e.Turn,
			Command: cmd,
		})
	}
	return script, nil
}

// GenerateRecap creates the rejoin recap for a player from a given turn
// onwards. Lifecycle events are always included; command noise from
// other players is filtered down to the actor's own moves.
func (r *Reconstructor) GenerateRecap(ctx context.Context, gameID, playerID string, sinceTurn int) ([]RecapEvent, error) {
	allEvents, err := r.eventRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return nil, err
	}

	var recap []RecapEvent
	for _, e := range allEvents {
		if e.Turn < sinceTurn {
			continue
		}
		if !isLifecycleEvent(e.EventType) && e.ActorID != playerID {
			continue
		}

		recap = append(recap, RecapEvent{
			Timestamp: e.Timestamp.Format("15:04:05"),
			EventType: e.EventType,
			Turn:      e.Turn,
			Summary:   summarizeEvent(e, playerID),
		})
	}
	return recap, nil
}

func isLifecycleEvent(eventType string) bool {
	switch eventType {
	case "GAME_CREATED", "PLAYER_JOINED", "PLAYER_LEFT", "TURN_ADVANCED", "BANKRUPTCY", "GAME_ENDED":
		return true
	}
	return false
}

// summarizeEvent creates a human-readable one-liner.
func summarizeEvent(event GameEvent, observerID string) string {
	switch event.EventType {
	case "PLAYER_JOINED":
		return fmt.Sprintf("%s joined the game.", event.ActorID)
	case "PLAYER_LEFT":
		return fmt.Sprintf("%s left the game.", event.ActorID)
	case "BANKRUPTCY":
		if event.ActorID == observerID {
			return "You went bankrupt."
		}
		return fmt.Sprintf("%s went bankrupt.", event.ActorID)
	case "TURN_ADVANCED":
		return fmt.Sprintf("Turn %d began.", event.Turn)
	case "GAME_ENDED":
		// The winner is the event's actor.
		if event.ActorID != "" {
			return fmt.Sprintf("Game over. %s won.", event.ActorID)
		}
		return "Game over."
	case "COMMAND_APPLIED":
		if cmd, ok := event.Payload["command"].(map[string]interface{}); ok {
			if typ, ok := cmd["type"].(string); ok {
				return fmt.Sprintf("You played %s.", typ)
			}
		}
		return "You played a move."
	case "COMMAND_REJECTED":
		if reason, ok := event.Payload["error"].(string); ok {
			return "Move rejected: " + reason
		}
		return "Move rejected."
	default:
		return "Something happened at the table."
	}
}
