package engine

import (
	"fmt"
	"math"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
)

func (g *Game) drawCard(deck []card.Card) card.Card {
	return deck[g.rng.Intn(len(deck))]
}

// canRedraw reports whether the player may send the drawn card back:
// either through the unlimited-redraw passive, or by spending a redraw
// charge against a configured negative action.
func (g *Game) canRedraw(p *Player, c card.Card) bool {
	if hooksFor(p).unlimitedRedraws && g.cfg.Passives.Merchant.UnlimitedRedraws {
		return true
	}
	return p.LuckRedraws > 0 && g.cfg.IsNegativeCardAction(string(c.Action))
}

// resolveCardSpace draws from the named deck. Redraw-eligible players
// get a pending decision; everyone else has the card applied at once.
func (g *Game) resolveCardSpace(p *Player, deck card.DeckName) {
	drawn := g.drawCard(g.decks.Deck(deck))
	label := "COMMUNITY CHEST"
	if deck == card.DeckChance {
		label = "CHANCE"
	}
	g.say(label + ": " + drawn.Text)

	if g.canRedraw(p, drawn) {
		g.state = stateCardPending(&PendingCard{Card: drawn, Deck: deck})
		g.say("You may accept or redraw this card.")
		return
	}
	g.applyCard(p, drawn)
}

// acceptCard applies the pending card as drawn.
func (g *Game) acceptCard(p *Player) error {
	if g.state.phase != PhaseCardPending {
		return fmt.Errorf("%w: no card pending", ErrPhase)
	}
	pending := g.state.card
	g.state = stateTurnComplete()
	g.applyCard(p, pending.Card)
	return nil
}

// redrawCard consumes a charge (unless unlimited), draws a replacement
// and applies it immediately. No redraw chaining.
func (g *Game) redrawCard(p *Player) error {
	if g.state.phase != PhaseCardPending {
		return fmt.Errorf("%w: no card pending", ErrPhase)
	}

	unlimited := hooksFor(p).unlimitedRedraws && g.cfg.Passives.Merchant.UnlimitedRedraws
	if !unlimited {
		if p.LuckRedraws <= 0 {
			return fmt.Errorf("%w: no redraws left", ErrCharge)
		}
		p.LuckRedraws--
	}

	pending := g.state.card
	g.state = stateTurnComplete()

	deck := g.decks.Deck(pending.Deck)
	drawn := g.drawCard(deck)
	label := "COMMUNITY CHEST"
	if pending.Deck == card.DeckChance {
		label = "CHANCE"
	}
	g.say("Redraw! " + label + ": " + drawn.Text)
	g.applyCard(p, drawn)
	return nil
}

// applyCard executes one card effect against the drawing player.
func (g *Game) applyCard(p *Player, c card.Card) {
	switch c.Action {
	case card.ActionGain:
		p.Money += c.Value

	case card.ActionPay:
		amount := c.Value
		if h := hooksFor(p); h.financialLoss != nil {
			amount = h.financialLoss(amount, &g.cfg)
			g.say(fmt.Sprintf("Financial expertise reduces loss to $%d.", amount))
		}
		p.Money -= amount
		if g.cfg.Core.FreeParkingPot {
			g.parkingPot += amount
		}
		if p.Money <= 0 {
			g.bankrupt(p, nil)
		}

	case card.ActionMoveTo:
		oldPos := p.Position
		p.Position = c.Value
		if c.Value < oldPos && c.Value != g.cfg.Core.JailPosition {
			g.creditSalary(p)
		}
		g.handleLanding(p)

	case card.ActionGoToJail:
		g.sendToJail(p)

	case card.ActionPayPercent:
		assets := g.netWorth(p)
		amount := int(math.Floor(float64(assets) * float64(c.Value) / 100))
		if h := hooksFor(p); h.financialLoss != nil {
			amount = h.financialLoss(amount, &g.cfg)
			g.say(fmt.Sprintf("Financial expertise reduces loss to $%d.", amount))
		}
		p.Money -= amount
		if g.cfg.Core.FreeParkingPot {
			g.parkingPot += amount
		}
		g.say(fmt.Sprintf("Total assets: $%d. Paid $%d (%d%%).", assets, amount, c.Value))
		if p.Money <= 0 {
			g.bankrupt(p, nil)
		}

	case card.ActionGainAll:
		for _, other := range g.players {
			if !other.Bankrupt {
				other.Money += c.Value
			}
		}
		g.say(fmt.Sprintf("All players receive $%d!", c.Value))

	case card.ActionGainPerProperty:
		amount := c.Value * len(p.Properties)
		p.Money += amount
		g.say(fmt.Sprintf("%d properties x $%d = $%d earned!", len(p.Properties), c.Value, amount))

	case card.ActionFreeUpgrade:
		g.applyFreeUpgrade(p)

	case card.ActionDowngrade:
		g.applyDowngrade(p)

	case card.ActionForceBuy:
		g.applyForceBuy(p, c.Value)
	}
}

// applyFreeUpgrade raises the cheapest eligible property one tier at no
// cost. Eligible: monopoly-held colored property, group unmortgaged,
// below max tier, at or below the group's minimum tier.
func (g *Game) applyFreeUpgrade(p *Player) {
	var eligible []int
	for _, id := range p.Properties {
		sp, ok := g.board.Space(id)
		if !ok || sp.Type != board.TypeProperty || sp.Color == "" {
			continue
		}
		if !g.ownsColorGroup(p.ID, sp.Color) {
			continue
		}
		level := g.buildings[id]
		if level >= g.cfg.Core.MaxBuildingLevel {
			continue
		}
		group := g.board.Group(sp.Color)
		blocked := false
		minLevel := g.cfg.Core.MaxBuildingLevel
		for _, gid := range group {
			if g.mortgaged[gid] {
				blocked = true
				break
			}
			if g.buildings[gid] < minLevel {
				minLevel = g.buildings[gid]
			}
		}
		if blocked || level > minLevel {
			continue
		}
		eligible = append(eligible, id)
	}

	if len(eligible) == 0 {
		g.say("No properties eligible for free upgrade.")
		return
	}

	// Price ties break by acquisition order: eligible was filled by
	// walking the player's deed list, so the first minimum wins.
	id := eligible[0]
	cheapest := math.MaxInt
	for _, candidate := range eligible {
		sp, _ := g.board.Space(candidate)
		if sp.Price < cheapest {
			cheapest = sp.Price
			id = candidate
		}
	}
	g.buildings[id]++
	sp, _ := g.board.Space(id)
	g.say(fmt.Sprintf("Free upgrade! %s upgraded to %s!", sp.Name, g.cfg.Buildings.Names[g.buildings[id]]))
}

// applyDowngrade removes one tier from the player's highest building.
func (g *Game) applyDowngrade(p *Player) {
	best := -1
	bestLevel := 0
	for _, id := range p.Properties {
		if level := g.buildings[id]; level > bestLevel {
			best, bestLevel = id, level
		}
	}
	if best < 0 {
		g.say("No buildings to downgrade.")
		return
	}

	g.buildings[best]--
	if g.buildings[best] == 0 {
		delete(g.buildings, best)
	}
	sp, _ := g.board.Space(best)
	g.say(fmt.Sprintf("Market Crash! %s downgraded to %s.", sp.Name, g.cfg.Buildings.Names[g.buildings[best]]))
}

// applyForceBuy transfers the globally cheapest opponent property at a
// percentage markup, if the player can afford it. Building levels and
// mortgage flags travel with the property.
func (g *Game) applyForceBuy(p *Player, percent int) {
	var target *Player
	targetSpace := -1
	cheapest := math.MaxInt
	for _, opp := range g.players {
		if opp.ID == p.ID || opp.Bankrupt {
			continue
		}
		for _, id := range opp.Properties {
			if sp, ok := g.board.Space(id); ok && sp.Price < cheapest {
				cheapest = sp.Price
				targetSpace = id
				target = opp
			}
		}
	}

	if target == nil {
		g.say("No opponents with properties for hostile takeover.")
		return
	}

	cost := int(math.Floor(float64(cheapest) * float64(percent) / 100))
	if p.Money < cost {
		g.say(fmt.Sprintf("Can't afford hostile takeover ($%d needed).", cost))
		return
	}

	p.Money -= cost
	target.Money += cost
	target.removeProperty(targetSpace)
	p.Properties = append(p.Properties, targetSpace)
	g.owners[targetSpace] = p.ID
	sp, _ := g.board.Space(targetSpace)
	g.say(fmt.Sprintf("Hostile Takeover! Bought %s from %s for $%d!", sp.Name, target.DisplayName(), cost))
}
