package engine

import (
	"testing"

	"github.com/dominionboardgame/server/internal/domain/character"
)

func TestEffectiveBuyPriceWithoutCharacter(t *testing.T) {
	// Setup: summer (all mods 1.0), no character
	g := newBareGame(t)
	sp, _ := g.board.Space(39) // Boardwalk, $400

	if got := g.effectiveBuyPrice(g.playerByID("p1"), sp); got != 400 {
		t.Errorf("Expected base price 400, got %d", got)
	}

	// Autumn: price mod 0.90
	g.seasonIndex = 1
	if got := g.effectiveBuyPrice(g.playerByID("p1"), sp); got != 360 {
		t.Errorf("Expected autumn price 360, got %d", got)
	}
}

func TestEffectiveBuyPriceStacksDiscounts(t *testing.T) {
	// Setup: financier with negotiation 8 -> 8% stat discount + 10% passive
	g := newBareGame(t)
	p := g.playerByID("p1")
	char, _ := character.ByID(g.roster, "albert-victor")
	p.Character = &char
	sp, _ := g.board.Space(39) // $400

	// 400 * 0.92 * 0.90 = 331.2 -> 331, floored only at the end
	if got := g.effectiveBuyPrice(p, sp); got != 331 {
		t.Errorf("Expected discounted price 331, got %d", got)
	}
}

func TestNegotiationDiscountIsCapped(t *testing.T) {
	// Setup: negotiation 8 gives 8%; cap is 10%, so a hypothetical 15
	// would still give 10%
	g := newBareGame(t)
	p := g.playerByID("p1")
	char, _ := character.ByID(g.roster, "marcus-grayline") // negotiation 7
	char.Stats.Negotiation = 15
	p.Character = &char
	sp, _ := g.board.Space(39)

	// 400 * 0.90 = 360
	if got := g.effectiveBuyPrice(p, sp); got != 360 {
		t.Errorf("Expected cap-limited price 360, got %d", got)
	}
}

func TestUpgradeCostUsesTierMultiplier(t *testing.T) {
	// Setup: no character, summer
	g := newBareGame(t)
	p := g.playerByID("p1")
	sp, _ := g.board.Space(39) // $400

	// Tier 1: 400*0.5, tier 4: 400*1.5
	if got := g.upgradeCost(p, sp, 1); got != 200 {
		t.Errorf("Expected tier-1 cost 200, got %d", got)
	}
	if got := g.upgradeCost(p, sp, 4); got != 600 {
		t.Errorf("Expected tier-4 cost 600, got %d", got)
	}

	// Pioneer with tech 9: 400*0.5 * 0.82 * 0.80 = 131.2 -> 131
	char, _ := character.ByID(g.roster, "lia-startrace")
	p.Character = &char
	if got := g.upgradeCost(p, sp, 1); got != 131 {
		t.Errorf("Expected pioneer tier-1 cost 131, got %d", got)
	}
}

func TestMonopolyDoublesBaseRent(t *testing.T) {
	// Setup: p1 owns the full brown group, no buildings
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	sp, _ := g.board.Space(3) // base rent 8

	// Assert: exactly double base rent for a characterless visitor
	if got := g.rentFor(sp, 7, p2); got != 16 {
		t.Errorf("Expected monopoly rent 16, got %d", got)
	}

	// Single property of the group: base rent only
	delete(g.owners, 1)
	p1.Properties = []int{3}
	if got := g.rentFor(sp, 7, p2); got != 8 {
		t.Errorf("Expected base rent 8, got %d", got)
	}
}

func TestBuildingRentReplacesMonopolyBonus(t *testing.T) {
	// Setup: full group plus a level-2 building
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	for _, id := range []int{1, 3} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	g.buildings[3] = 2
	sp, _ := g.board.Space(3)

	// rent = 8 * multiplier[2] (7) = 56; no extra doubling
	if got := g.rentFor(sp, 7, g.playerByID("p2")); got != 56 {
		t.Errorf("Expected building rent 56, got %d", got)
	}
}

func TestRailroadRentDoublesPerRailroad(t *testing.T) {
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	sp, _ := g.board.Space(5)

	g.owners[5] = "p1"
	p1.Properties = []int{5}
	if got := g.rentFor(sp, 7, g.playerByID("p2")); got != 25 {
		t.Errorf("Expected 1-railroad rent 25, got %d", got)
	}

	for _, id := range []int{15, 25, 35} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	if got := g.rentFor(sp, 7, g.playerByID("p2")); got != 200 {
		t.Errorf("Expected 4-railroad rent 200, got %d", got)
	}
}

func TestUtilityRentScalesWithDice(t *testing.T) {
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	sp, _ := g.board.Space(12)

	g.owners[12] = "p1"
	p1.Properties = []int{12}
	if got := g.rentFor(sp, 9, g.playerByID("p2")); got != 36 {
		t.Errorf("Expected single-utility rent 36, got %d", got)
	}

	g.owners[28] = "p1"
	p1.Properties = append(p1.Properties, 28)
	if got := g.rentFor(sp, 9, g.playerByID("p2")); got != 90 {
		t.Errorf("Expected both-utilities rent 90, got %d", got)
	}
}

func TestMortgagedPropertyCollectsNoRent(t *testing.T) {
	g := newBareGame(t)
	g.owners[39] = "p1"
	g.playerByID("p1").Properties = []int{39}
	g.mortgaged[39] = true
	sp, _ := g.board.Space(39)

	if got := g.rentFor(sp, 7, g.playerByID("p2")); got != 0 {
		t.Errorf("Expected no rent on mortgaged property, got %d", got)
	}
}

func TestRentModifierOrder(t *testing.T) {
	// Setup: winter (rent x1.20), regulated property, breaker visitor
	// with charisma 6, full dark-blue monopoly. Order: base*2 monopoly,
	// season, charisma, regulated, breaker, floor.
	g := newBareGame(t)
	p1 := g.playerByID("p1")
	p2 := g.playerByID("p2")

	enforcer, _ := character.ByID(g.roster, "knox-ironlaw")
	p1.Character = &enforcer
	breaker, _ := character.ByID(g.roster, "renn-chainbreaker") // charisma 6
	p2.Character = &breaker

	for _, id := range []int{37, 39} {
		g.owners[id] = "p1"
		p1.Properties = append(p1.Properties, id)
	}
	p1.RegulatedProperty = 39
	g.seasonIndex = 2 // winter
	sp, _ := g.board.Space(39) // base rent 100

	// 100*2 = 200; *1.20 = 240; *0.94 = 225.6; *1.20 = 270.72;
	// *0.75 = 203.04; floor = 203
	if got := g.rentFor(sp, 7, p2); got != 203 {
		t.Errorf("Expected layered rent 203, got %d", got)
	}
}

func TestNetWorthCountsInvestedBuildingCost(t *testing.T) {
	// Setup
	g := newBareGame(t)
	p := g.playerByID("p1")
	p.Money = 500
	g.owners[39] = "p1"
	p.Properties = []int{39}
	g.buildings[39] = 2

	// 500 + 400 + floor(400*0.5) + floor(400*0.75) = 1400
	if got := g.netWorth(p); got != 1400 {
		t.Errorf("Expected net worth 1400, got %d", got)
	}
}
