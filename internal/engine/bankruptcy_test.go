package engine

import (
	"testing"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

func TestRentBankruptcyHandsEstateToCreditor(t *testing.T) {
	// Setup: p2 holds the dark blue monopoly with a tier-4 Boardwalk;
	// its rent of $2000 ruins p1, whose own estate carries a building
	// and a mortgage flag
	g := newBareGame(t, 0, 1)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	for _, id := range []int{37, 39} {
		g.owners[id] = "p2"
		p2.Properties = append(p2.Properties, id)
	}
	g.buildings[39] = 4
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.buildings[1] = 2
	g.mortgaged[3] = true
	p1.Position = 36
	p1.Money = 500

	// Act: 1+2 lands on Boardwalk
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: cash zeroed, estate set empty
	if !p1.Bankrupt || p1.Money != 0 || len(p1.Properties) != 0 {
		t.Fatalf("Expected p1 ruined, bankrupt=%v money=%d props=%v", p1.Bankrupt, p1.Money, p1.Properties)
	}
	// The creditor inherits deeds with buildings and mortgage intact
	if g.owners[1] != "p2" || g.owners[3] != "p2" {
		t.Errorf("Expected estate transferred to creditor, owners=%v", g.owners)
	}
	if g.buildings[1] != 2 {
		t.Errorf("Expected building level preserved, buildings=%v", g.buildings)
	}
	if !g.mortgaged[3] {
		t.Error("Expected mortgage flag preserved")
	}
	if !p2.ownsProperty(1) || !p2.ownsProperty(3) {
		t.Errorf("Creditor's property list missing inherited deeds: %v", p2.Properties)
	}
	// Two players, one standing
	winner, _ := g.Winner()
	if !g.Over() || winner != "p2" {
		t.Errorf("Expected elimination win for p2, over=%v winner=%q", g.Over(), winner)
	}
}

func TestBankDebtReturnsEstateToTheBank(t *testing.T) {
	// Setup: p1 owns a built-up, part-mortgaged estate and cannot cover
	// the luxury tax at space 38
	g := newBareGame(t, 0, 1)
	p1 := g.playerByID("p1")
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.buildings[1] = 2
	g.mortgaged[3] = true
	p1.Position = 35
	p1.Money = 50

	// Act
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: deeds, buildings and mortgage flags all cleared
	if !p1.Bankrupt {
		t.Fatal("Expected bankruptcy from unpayable tax")
	}
	for _, id := range []int{1, 3} {
		if _, owned := g.owners[id]; owned {
			t.Errorf("Expected space %d back at the bank, owners=%v", id, g.owners)
		}
	}
	if len(g.buildings) != 0 || len(g.mortgaged) != 0 {
		t.Errorf("Expected bank reclaim to clear flags, buildings=%v mortgaged=%v", g.buildings, g.mortgaged)
	}
}

func TestArbitrageurCollectsOnEveryBankruptcy(t *testing.T) {
	// Setup
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	char, _ := character.ByID(g.roster, "sophia-ember")
	p2.Character = &char
	moneyBefore := p2.Money

	// Act
	g.bankrupt(p1, nil)

	// Assert
	if p2.Money-moneyBefore != 100 {
		t.Errorf("Expected $100 crisis bonus, got %d", p2.Money-moneyBefore)
	}
}

func TestCurrentPlayerBankruptcyRotatesTurn(t *testing.T) {
	// Setup: three players so the match survives one elimination; p2's
	// hoteled Boardwalk ruins p1 mid-turn
	g, err := New("test-game", rules.Default(), board.Default(), card.DefaultDecks(), character.DefaultRoster(),
		&scriptSource{vals: []int{0, 1}},
		[]Seat{{ID: "p1", Name: "Ana"}, {ID: "p2", Name: "Ben"}, {ID: "p3", Name: "Cora"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	g.state = stateRolling()
	g.totalTurns = 1
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	for _, id := range []int{37, 39} {
		g.owners[id] = "p2"
		p2.Properties = append(p2.Properties, id)
	}
	g.buildings[39] = 4
	p1.Position = 36
	p1.Money = 500

	// Act: 1+2 lands on Boardwalk and ruins p1
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert: the eliminated player's turn rotates by itself, since no
	// endTurn of theirs would ever be accepted
	if !p1.Bankrupt {
		t.Fatal("Expected p1 ruined by the rent charge")
	}
	if g.Over() {
		t.Fatal("Expected the match to continue with two players standing")
	}
	if g.CurrentPlayerID() != "p2" {
		t.Errorf("Expected the turn handed to p2, current is %s", g.CurrentPlayerID())
	}
	if g.Phase() != PhaseRolling {
		t.Errorf("Expected rolling phase for the next player, got %s", g.Phase())
	}
	if err := g.Apply(Command{Type: CmdEndTurn, Player: "p1"}); err == nil {
		t.Error("Expected rejection for the eliminated player")
	}
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p2"})
}

func TestBankruptPlayerCannotAct(t *testing.T) {
	// Setup
	g := newBareGame(t)
	g.playerByID("p2").Bankrupt = true

	// Act / Assert
	if err := g.Apply(Command{Type: CmdEndTurn, Player: "p2"}); err == nil {
		t.Error("Expected rejection for a bankrupt actor")
	}
}
