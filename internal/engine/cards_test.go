package engine

import (
	"errors"
	"testing"

	"github.com/dominionboardgame/server/internal/domain/card"
	"github.com/dominionboardgame/server/internal/domain/character"
)

func TestNegativeCardPausesForRedrawDecision(t *testing.T) {
	// Setup: p1 holds a redraw charge; chance draw index 4 is goToJail
	g := newBareGame(t, 2, 3, 4)
	p1 := g.playerByID("p1")
	p1.LuckRedraws = 1

	// Act: 3+4 lands on Chance (7)
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Assert
	if g.Phase() != PhaseCardPending {
		t.Fatalf("Expected cardPending, got %s", g.Phase())
	}
	if g.state.card.Card.Action != card.ActionGoToJail {
		t.Errorf("Expected pending goToJail card, got %s", g.state.card.Card.Action)
	}
	if p1.InJail {
		t.Error("Card must not apply before the decision")
	}
}

func TestPositiveCardAppliesImmediately(t *testing.T) {
	// Setup: charge held, but chance index 3 is a $50 gain (not negative)
	g := newBareGame(t, 2, 3, 3)
	p1 := g.playerByID("p1")
	p1.LuckRedraws = 1
	moneyBefore := p1.Money

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	if g.Phase() != PhaseTurnComplete {
		t.Fatalf("Expected immediate application, got %s", g.Phase())
	}
	if p1.Money != moneyBefore+50 {
		t.Errorf("Expected +50, got %d", p1.Money-moneyBefore)
	}
	if p1.LuckRedraws != 1 {
		t.Errorf("Expected charge untouched, got %d", p1.LuckRedraws)
	}
}

func TestAcceptCardAppliesPending(t *testing.T) {
	// Setup
	g := newBareGame(t, 2, 3, 4)
	p1 := g.playerByID("p1")
	p1.LuckRedraws = 1
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Act
	mustApply(t, g, Command{Type: CmdAcceptCard, Player: "p1"})

	// Assert: goToJail applied, charge kept
	if !p1.InJail || p1.Position != 10 {
		t.Errorf("Expected jailed at 10, got inJail=%v pos=%d", p1.InJail, p1.Position)
	}
	if p1.LuckRedraws != 1 {
		t.Errorf("Accepting must not consume a charge, got %d", p1.LuckRedraws)
	}
	if g.Phase() != PhaseTurnComplete {
		t.Errorf("Expected turnComplete, got %s", g.Phase())
	}
}

func TestRedrawConsumesChargeAndAppliesNewCard(t *testing.T) {
	// Setup: first draw goToJail (index 4), redraw index 3 ($50 gain)
	g := newBareGame(t, 2, 3, 4, 3)
	p1 := g.playerByID("p1")
	p1.LuckRedraws = 1
	moneyBefore := p1.Money
	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})

	// Act
	mustApply(t, g, Command{Type: CmdRedrawCard, Player: "p1"})

	// Assert
	if p1.InJail {
		t.Error("Discarded card must not apply")
	}
	if p1.Money != moneyBefore+50 {
		t.Errorf("Expected replacement card gain of 50, got %d", p1.Money-moneyBefore)
	}
	if p1.LuckRedraws != 0 {
		t.Errorf("Expected charge consumed, got %d", p1.LuckRedraws)
	}
	if g.Phase() != PhaseTurnComplete {
		t.Errorf("Expected turnComplete after redraw, got %s", g.Phase())
	}
}

func TestMerchantRedrawsWithoutCharges(t *testing.T) {
	// Setup: merchant, zero charges; community draw index 2 goToJail,
	// redraw index 3 ($20 gain). 1+1 lands on space 2.
	g := newBareGame(t, 0, 0, 2, 3)
	p1 := g.playerByID("p1")
	char, _ := character.ByID(g.roster, "cassian-echo")
	p1.Character = &char

	mustApply(t, g, Command{Type: CmdRollDice, Player: "p1"})
	if g.Phase() != PhaseCardPending {
		t.Fatalf("Expected merchant decision, got %s", g.Phase())
	}

	// Act
	mustApply(t, g, Command{Type: CmdRedrawCard, Player: "p1"})

	// Assert
	if p1.InJail {
		t.Error("Expected redraw to discard the jail card")
	}
	if p1.LuckRedraws != 0 {
		t.Errorf("Merchant redraw must not touch charges, got %d", p1.LuckRedraws)
	}
}

func TestMoveToCreditsSalaryAndResolvesLanding(t *testing.T) {
	// Setup: p1 beyond Illinois; card moves to GO (value 0 < position)
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p1.Position = 30
	g.state = stateTurnComplete()
	moneyBefore := p1.Money

	// Act
	g.applyCard(p1, card.Card{Text: "to go", Action: card.ActionMoveTo, Value: 0})

	// Assert
	if p1.Position != 0 {
		t.Errorf("Expected position 0, got %d", p1.Position)
	}
	if p1.Money != moneyBefore+200 {
		t.Errorf("Expected salary credit, got %+d", p1.Money-moneyBefore)
	}
}

func TestMoveToJailPositionSkipsSalary(t *testing.T) {
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p1.Position = 30
	g.state = stateTurnComplete()
	moneyBefore := p1.Money

	g.applyCard(p1, card.Card{Text: "to visiting", Action: card.ActionMoveTo, Value: 10})

	if p1.Money != moneyBefore {
		t.Errorf("Expected no salary for a jail-position move, got %+d", p1.Money-moneyBefore)
	}
}

func TestPayPercentChargesNetWorth(t *testing.T) {
	// Setup: cash 500 + Boardwalk 400 + tier-1 cost 200 = 1100 assets
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p1.Money = 500
	g.owners[39] = "p1"
	p1.Properties = []int{39}
	g.buildings[39] = 1
	g.state = stateTurnComplete()

	// Act: pay 10%
	g.applyCard(p1, card.Card{Text: "black swan", Action: card.ActionPayPercent, Value: 10})

	// Assert
	if p1.Money != 500-110 {
		t.Errorf("Expected payment of 110, money %d", p1.Money)
	}
}

func TestGainAllPaysEveryActivePlayer(t *testing.T) {
	g := newBareGame(t)
	g.state = stateTurnComplete()
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	m1, m2 := p1.Money, p2.Money

	g.applyCard(p1, card.Card{Text: "stimulus", Action: card.ActionGainAll, Value: 100})

	if p1.Money != m1+100 || p2.Money != m2+100 {
		t.Errorf("Expected both players +100, got %d and %d", p1.Money-m1, p2.Money-m2)
	}
}

func TestFreeUpgradePicksCheapestEligible(t *testing.T) {
	// Setup: p1 holds the brown monopoly (60/60) and the dark blue
	// monopoly (350/400); brown is cheapest and level-even
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	for _, id := range []int{1, 3, 37, 39} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.state = stateTurnComplete()

	// Act
	g.applyCard(p1, card.Card{Text: "grant", Action: card.ActionFreeUpgrade})

	// Assert: space 1 (cheapest, first acquired) gains a tier for free
	if g.buildings[1] != 1 {
		t.Errorf("Expected free tier on space 1, buildings=%v", g.buildings)
	}
}

func TestFreeUpgradePriceTieBreaksByAcquisitionOrder(t *testing.T) {
	// Setup: both brown deeds cost 60; p1 bought Baltic (3) before
	// Mediterranean (1)
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	for _, id := range []int{3, 1} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.state = stateTurnComplete()

	// Act
	g.applyCard(p1, card.Card{Text: "grant", Action: card.ActionFreeUpgrade})

	// Assert: the earlier acquisition wins the tie, not the lower id
	if g.buildings[3] != 1 {
		t.Errorf("Expected free tier on space 3, buildings=%v", g.buildings)
	}
	if g.buildings[1] != 0 {
		t.Errorf("Expected space 1 untouched, buildings=%v", g.buildings)
	}
}

func TestFreeUpgradeSkipsMortgagedGroups(t *testing.T) {
	// Setup: only monopoly is brown, but one deed is mortgaged
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.mortgaged[3] = true
	g.state = stateTurnComplete()

	g.applyCard(p1, card.Card{Text: "grant", Action: card.ActionFreeUpgrade})

	if len(g.buildings) != 0 {
		t.Errorf("Expected no eligible upgrade, buildings=%v", g.buildings)
	}
}

func TestDowngradeHitsHighestBuilding(t *testing.T) {
	// Setup
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.buildings[1] = 1
	g.buildings[3] = 3
	g.state = stateTurnComplete()

	// Act
	g.applyCard(p1, card.Card{Text: "crash", Action: card.ActionDowngrade})

	// Assert
	if g.buildings[3] != 2 || g.buildings[1] != 1 {
		t.Errorf("Expected highest building downgraded, buildings=%v", g.buildings)
	}
}

func TestForceBuyTransfersCheapestOpponentProperty(t *testing.T) {
	// Setup: p2 owns Baltic (60) and Boardwalk (400)
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	for _, id := range []int{3, 39} {
		g.owners[id] = "p2"
		p2.Properties = append(p2.Properties, id)
	}
	g.state = stateTurnComplete()
	m1, m2 := p1.Money, p2.Money

	// Act: 150% markup on the $60 deed = $90
	g.applyCard(p1, card.Card{Text: "takeover", Action: card.ActionForceBuy, Value: 150})

	// Assert
	if g.owners[3] != "p1" {
		t.Fatalf("Expected space 3 transferred, owners=%v", g.owners)
	}
	if g.owners[39] != "p2" {
		t.Errorf("Expected space 39 untouched")
	}
	if m1-p1.Money != 90 || p2.Money-m2 != 90 {
		t.Errorf("Expected $90 to change hands, got -%d/+%d", m1-p1.Money, p2.Money-m2)
	}
	if !p1.ownsProperty(3) || p2.ownsProperty(3) {
		t.Errorf("Property lists out of sync after force buy")
	}
}

func TestAcceptCardWithoutPendingRejected(t *testing.T) {
	g := newBareGame(t)
	g.state = stateTurnComplete()

	if err := g.Apply(Command{Type: CmdAcceptCard, Player: "p1"}); !errors.Is(err, ErrPhase) {
		t.Errorf("Expected ErrPhase, got %v", err)
	}
}
