package engine

import (
	"errors"
	"testing"
)

func TestRollMovesAndOffersPurchase(t *testing.T) {
	// Setup: dice scripted to 1+2 -> Baltic Ave (unowned property)
	g := newBareGame(t, 0, 1)

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert
	p1 := g.playerByID("p1")
	if p1.Position != 3 {
		t.Errorf("Expected position 3, got %d", p1.Position)
	}
	if g.Phase() != PhaseAwaitingBuy {
		t.Fatalf("Expected awaitingBuy, got %s", g.Phase())
	}
	if g.state.offer.SpaceID != 3 || g.state.offer.Price != 60 {
		t.Errorf("Expected offer for space 3 at $60, got %+v", g.state.offer)
	}
}

func TestSalaryPaidOnceWhenCrossingStart(t *testing.T) {
	// Setup: p1 one space before GO; 1+2 lands on space 2 (community).
	// Scripted draws: dice 1,2 then card index 3 ($20 refund).
	g := newBareGame(t, 0, 1, 3)
	p1 := g.playerByID("p1")
	p1.Position = 39
	moneyBefore := p1.Money

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: exactly one salary credit plus the card gain
	if p1.Position != 2 {
		t.Fatalf("Expected position 2, got %d", p1.Position)
	}
	if got := p1.Money - moneyBefore; got != 200+20 {
		t.Errorf("Expected +220 (salary + card), got %+d", got)
	}
}

func TestTripleDoublesForcesJail(t *testing.T) {
	// Setup: doubles streak already at two from earlier turns
	g := newBareGame(t, 4, 4) // 5+5
	p1 := g.playerByID("p1")
	p1.DoublesStreak = 2

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: jailed without movement, turn complete
	if !p1.InJail {
		t.Fatal("Expected player in jail after third consecutive doubles")
	}
	if p1.Position != 10 {
		t.Errorf("Expected jail position 10, got %d", p1.Position)
	}
	if p1.DoublesStreak != 0 {
		t.Errorf("Expected streak reset, got %d", p1.DoublesStreak)
	}
	if g.Phase() != PhaseTurnComplete {
		t.Errorf("Expected turnComplete, got %s", g.Phase())
	}
}

func TestNonDoublesResetsStreak(t *testing.T) {
	g := newBareGame(t, 0, 3) // 1+4
	p1 := g.playerByID("p1")
	p1.DoublesStreak = 2

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	if p1.DoublesStreak != 0 {
		t.Errorf("Expected streak reset on non-doubles, got %d", p1.DoublesStreak)
	}
}

func TestJailDoublesRelease(t *testing.T) {
	// Setup: jailed player rolls 3+3
	g := newBareGame(t, 2, 2)
	p1 := g.playerByID("p1")
	p1.Position = 10
	p1.InJail = true
	p1.JailTurns = 1
	p1.DoublesStreak = 0

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: released and moved by the roll
	if p1.InJail {
		t.Fatal("Expected release on doubles")
	}
	if p1.Position != 16 {
		t.Errorf("Expected position 16, got %d", p1.Position)
	}
}

func TestJailMaxTurnsForcesFine(t *testing.T) {
	// Setup: third failed attempt; 1+4 is not doubles
	g := newBareGame(t, 0, 3)
	p1 := g.playerByID("p1")
	p1.Position = 10
	p1.InJail = true
	p1.JailTurns = 2
	moneyBefore := p1.Money

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: fine charged, released, and the roll still moves
	if p1.InJail {
		t.Fatal("Expected forced release after max jail turns")
	}
	if p1.Position != 15 {
		t.Errorf("Expected position 15, got %d", p1.Position)
	}
	// -50 fine, then landed on Pennsylvania RR (unowned -> offer)
	if got := moneyBefore - p1.Money; got != 50 {
		t.Errorf("Expected $50 fine, got %d", got)
	}
}

func TestJailNonDoublesKeepsPlayerIn(t *testing.T) {
	g := newBareGame(t, 0, 3)
	p1 := g.playerByID("p1")
	p1.Position = 10
	p1.InJail = true
	p1.JailTurns = 0

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	if !p1.InJail || p1.JailTurns != 1 {
		t.Errorf("Expected still jailed with 1 turn, got inJail=%v turns=%d", p1.InJail, p1.JailTurns)
	}
	if g.Phase() != PhaseTurnComplete {
		t.Errorf("Expected turnComplete, got %s", g.Phase())
	}
}

func TestPayJailFineBeforeRolling(t *testing.T) {
	// Setup
	g := newBareGame(t, 0, 3)
	p1 := g.playerByID("p1")
	p1.Position = 10
	p1.InJail = true
	moneyBefore := p1.Money

	// Act
	mustApply(t, g, Command{Type: CmdPayJailFine, Player: "p1"})

	// Assert
	if p1.InJail {
		t.Fatal("Expected release after paying fine")
	}
	if moneyBefore-p1.Money != 50 {
		t.Errorf("Expected $50 fine, got %d", moneyBefore-p1.Money)
	}
	if g.Phase() != PhaseRolling {
		t.Errorf("Expected rolling phase to continue, got %s", g.Phase())
	}

	// Broke players cannot buy their way out
	p1.InJail = true
	p1.Money = 10
	if err := g.Apply(Command{Type: CmdPayJailFine, Player: "p1"}); !errors.Is(err, ErrFunds) {
		t.Errorf("Expected ErrFunds, got %v", err)
	}
}

func TestRerollRevertsPositionOnly(t *testing.T) {
	// Setup: p2 owns space 3; p1 rolls onto it and pays rent
	g := newBareGame(t, 0, 1, 2, 2)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	g.owners[3] = "p2"
	p2.Properties = []int{3}
	p1.RerollsLeft = 1
	moneyAfterRent := p1.Money - 8

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})
	if p1.Money != moneyAfterRent {
		t.Fatalf("Expected rent paid, money %d", p1.Money)
	}

	// Act
	mustApply(t, g, Command{Type: CmdUseReroll, Player: "p1"})

	// Assert: position back, rent not refunded, rolling again
	if p1.Position != 0 {
		t.Errorf("Expected position reverted to 0, got %d", p1.Position)
	}
	if p1.Money != moneyAfterRent {
		t.Errorf("Expected rent to stand after reroll, money %d", p1.Money)
	}
	if p1.RerollsLeft != 0 {
		t.Errorf("Expected reroll consumed, got %d", p1.RerollsLeft)
	}
	if g.Phase() != PhaseRolling {
		t.Fatalf("Expected rolling, got %s", g.Phase())
	}

	// Second roll proceeds from the reverted position: 3+3 -> space 6
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})
	if p1.Position != 6 {
		t.Errorf("Expected position 6 after reroll, got %d", p1.Position)
	}
}

func TestRerollRejectedWithoutCharge(t *testing.T) {
	g := newBareGame(t, 0, 3)
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	if err := g.Apply(Command{Type: CmdUseReroll, Player: "p1"}); !errors.Is(err, ErrCharge) {
		t.Errorf("Expected ErrCharge, got %v", err)
	}
}

func TestRerollRejectedAfterJailBoundRoll(t *testing.T) {
	// Setup: landing on Go To Jail (position 30) via 4+6 from 20
	g := newBareGame(t, 3, 5)
	p1 := g.playerByID("p1")
	p1.Position = 20
	p1.RerollsLeft = 1

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})
	if !p1.InJail {
		t.Fatal("Expected jail landing")
	}

	if err := g.Apply(Command{Type: CmdUseReroll, Player: "p1"}); !errors.Is(err, ErrPhase) {
		t.Errorf("Expected ErrPhase for jail-bound roll, got %v", err)
	}
}

func TestEndTurnRotatesToNextPlayer(t *testing.T) {
	// Setup: roll lands p1 on chance (7 from 0 via 3+4), card is a gain
	g := newBareGame(t, 2, 3, 3)
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})
	if g.Phase() != PhaseTurnComplete {
		t.Fatalf("Expected turnComplete, got %s", g.Phase())
	}

	// Act
	mustApply(t, g, Command{Type: CmdEndTurn, Player: "p1"})

	// Assert
	if g.CurrentPlayerID() != "p2" {
		t.Errorf("Expected p2's turn, got %s", g.CurrentPlayerID())
	}
	if g.Phase() != PhaseRolling {
		t.Errorf("Expected rolling, got %s", g.Phase())
	}
}

func TestSeasonAdvancesAtTurnBoundary(t *testing.T) {
	// Setup
	g := newBareGame(t)
	g.totalTurns = 9
	g.state = stateTurnComplete()

	// Act: boundary turn 10 enters autumn
	mustApply(t, g, Command{Type: CmdEndTurn, Player: "p1"})

	// Assert
	if g.totalTurns != 10 {
		t.Fatalf("Expected totalTurns 10, got %d", g.totalTurns)
	}
	if g.seasonIndex != 1 {
		t.Errorf("Expected autumn (index 1), got %d", g.seasonIndex)
	}
}
