// Package main runs seeded self-play matches without any network layer.
// Running the same seed twice must produce byte-identical final states;
// the binary exits non-zero when determinism is broken.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/dominionboardgame/server/internal/content"
	"github.com/dominionboardgame/server/internal/engine"
)

const maxSteps = 200000

func main() {
	seed := flag.Int64("seed", 1, "random seed for dice and card draws")
	players := flag.Int("players", 4, "number of seats (2-6)")
	dataDir := flag.String("data", "", "content directory, empty for built-in defaults")
	verbose := flag.Bool("v", false, "print the engine's message feed")
	flag.Parse()

	if *players < 2 || *players > 6 {
		fmt.Fprintln(os.Stderr, "players must be between 2 and 6")
		os.Exit(2)
	}

	bundle, err := content.Load(*dataDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load content:", err)
		os.Exit(1)
	}
	if err := bundle.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid content:", err)
		os.Exit(1)
	}

	first, err := playout(bundle, *seed, *players, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, "playout failed:", err)
		os.Exit(1)
	}
	second, err := playout(bundle, *seed, *players, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay failed:", err)
		os.Exit(1)
	}

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		fmt.Fprintln(os.Stderr, "DETERMINISM BROKEN: same seed produced different final states")
		os.Exit(1)
	}

	fmt.Printf("seed=%d players=%d turns=%d winner=%s (%s)\n",
		*seed, *players, first.TotalTurns, first.Winner, first.WinReason)
	fmt.Println("determinism check passed")
}

// playout drives one match with a fixed policy: buy whatever is
// affordable, accept every card, pass every auction, reject every
// trade. The policy only reads the snapshot, so two runs with the same
// seed consume the random source identically.
func playout(bundle *content.Bundle, seed int64, players int, verbose bool) (*engine.Snapshot, error) {
	seats := make([]engine.Seat, 0, players)
	for i := 0; i < players; i++ {
		seats = append(seats, engine.Seat{
			ID:   fmt.Sprintf("p%d", i+1),
			Name: fmt.Sprintf("Player %d", i+1),
		})
	}

	game, err := engine.New("sim", bundle.Rules, &bundle.Board, bundle.Decks, bundle.Roster, engine.NewSeededSource(seed), seats)
	if err != nil {
		return nil, err
	}

	seen := 0
	for step := 0; step < maxSteps; step++ {
		snap := game.Snapshot()
		if verbose {
			for ; seen < len(snap.Messages); seen++ {
				fmt.Println("  " + snap.Messages[seen])
			}
		}
		if snap.Phase == engine.PhaseGameOver {
			return snap, nil
		}

		cmd, ok := nextCommand(snap, bundle)
		if !ok {
			return nil, fmt.Errorf("no command available in phase %s at step %d", snap.Phase, step)
		}
		if err := game.Apply(cmd); err != nil {
			return nil, fmt.Errorf("step %d: %s by %s rejected: %w", step, cmd.Type, cmd.Player, err)
		}
	}
	return nil, fmt.Errorf("game did not finish within %d steps", maxSteps)
}

func nextCommand(snap *engine.Snapshot, bundle *content.Bundle) (engine.Command, bool) {
	switch snap.Phase {
	case engine.PhaseSelect:
		for i, p := range snap.Players {
			if p.Character == nil {
				return engine.Command{
					Type:      engine.CmdSelectCharacter,
					Player:    p.ID,
					Character: bundle.Roster[i%len(bundle.Roster)].ID,
				}, true
			}
		}
		return engine.Command{}, false

	case engine.PhaseRolling:
		return engine.Command{Type: engine.CmdRollDice, Player: snap.CurrentPlayer}, true

	case engine.PhaseAwaitingBuy:
		cmd := engine.Command{Type: engine.CmdPassProperty, Player: snap.CurrentPlayer}
		for _, p := range snap.Players {
			if p.ID == snap.CurrentPlayer && snap.BuyOffer != nil && p.Money >= snap.BuyOffer.Price {
				cmd.Type = engine.CmdBuyProperty
			}
		}
		return cmd, true

	case engine.PhaseCardPending:
		return engine.Command{Type: engine.CmdAcceptCard, Player: snap.CurrentPlayer}, true

	case engine.PhaseAuction:
		if snap.Auction == nil || snap.Auction.Cursor >= len(snap.Auction.Ring) {
			return engine.Command{}, false
		}
		bidder := snap.Auction.Ring[snap.Auction.Cursor].PlayerID
		return engine.Command{Type: engine.CmdPassAuction, Player: bidder}, true

	case engine.PhaseTrade:
		if snap.Trade == nil {
			return engine.Command{}, false
		}
		return engine.Command{Type: engine.CmdRejectTrade, Player: snap.Trade.TargetID}, true

	case engine.PhaseTurnComplete:
		return engine.Command{Type: engine.CmdEndTurn, Player: snap.CurrentPlayer}, true
	}
	return engine.Command{}, false
}
