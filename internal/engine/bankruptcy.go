package engine

import "fmt"

// bankrupt marks the player out of the game and routes their assets.
// With a creditor, properties transfer with building levels and
// mortgage flags intact; bank debts return properties to the bank with
// both cleared. Surviving players are then notified so bankruptcy
// passives fire exactly once per event.
func (g *Game) bankrupt(p *Player, creditor *Player) {
	p.Bankrupt = true
	p.Money = 0
	g.say(p.DisplayName() + " is BANKRUPT!")

	if creditor != nil {
		for _, id := range p.Properties {
			g.owners[id] = creditor.ID
			creditor.Properties = append(creditor.Properties, id)
		}
	} else {
		for _, id := range p.Properties {
			delete(g.owners, id)
			delete(g.buildings, id)
			delete(g.mortgaged, id)
		}
	}
	p.Properties = []int{}

	for _, other := range g.players {
		if other.ID == p.ID || other.Bankrupt {
			continue
		}
		if h := hooksFor(other); h.bankruptcyBonus != nil {
			bonus := h.bankruptcyBonus(&g.cfg)
			other.Money += bonus
			g.say(fmt.Sprintf("%s gains $%d from crisis arbitrage!", other.DisplayName(), bonus))
		}
	}

	// An eliminated player can no longer issue endTurn, so a bankrupt
	// current player's turn rotates here.
	if g.state.phase != PhaseSelect && g.state.phase != PhaseGameOver && g.currentPlayer().ID == p.ID {
		g.advanceTurn()
	}
}
