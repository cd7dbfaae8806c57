package engine

import (
	"fmt"
	"math"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
)

// rollDice consumes exactly two values from the random source (die one,
// then die two), applies jail and doubles rules, moves the player, and
// resolves the landing.
func (g *Game) rollDice(p *Player) error {
	if g.state.phase != PhaseRolling {
		return fmt.Errorf("%w: not in rolling phase", ErrPhase)
	}

	d1 := g.rng.Intn(g.cfg.Core.DiceSides) + 1
	d2 := g.rng.Intn(g.cfg.Core.DiceSides) + 1
	roll := &Roll{
		Die1:        d1,
		Die2:        d2,
		Total:       d1 + d2,
		Doubles:     d1 == d2,
		PrePosition: p.Position,
	}
	g.lastRoll = roll
	g.messages = []string{fmt.Sprintf("%s rolled %d + %d = %d", p.DisplayName(), d1, d2, roll.Total)}

	// Tentative resolution target; the landing may override it with a
	// buy offer or a pending card.
	g.state = stateTurnComplete()

	if roll.Doubles {
		p.DoublesStreak++
		if p.DoublesStreak >= g.cfg.Core.DoublesJailThreshold {
			p.DoublesStreak = 0
			g.sendToJail(p)
			g.say("Triple doubles! Go to Jail!")
			return nil
		}
	} else {
		p.DoublesStreak = 0
	}

	if p.InJail {
		if roll.Doubles {
			p.InJail = false
			p.JailTurns = 0
			g.say("Doubles! You're free from jail!")
		} else {
			p.JailTurns++
			if p.JailTurns >= g.cfg.Core.JailMaxTurns {
				p.Money -= g.cfg.Core.JailFine
				p.InJail = false
				p.JailTurns = 0
				g.say(fmt.Sprintf("%d turns in jail. Paid $%d fine.", g.cfg.Core.JailMaxTurns, g.cfg.Core.JailFine))
				if p.Money <= 0 {
					g.bankrupt(p, nil)
					return nil
				}
			} else {
				g.say(fmt.Sprintf("Still in jail. Turn %d/%d.", p.JailTurns, g.cfg.Core.JailMaxTurns))
				return nil
			}
		}
	}

	oldPos := p.Position
	p.Position = (p.Position + roll.Total) % g.cfg.Core.BoardSize

	landed, _ := g.board.Space(p.Position)
	if p.Position < oldPos && landed.Type != board.TypeGoToJail {
		g.creditSalary(p)
	}

	g.say("Landed on " + landed.Name + ".")
	g.handleLanding(p)
	return nil
}

// creditSalary pays the GO salary plus any passive bonus.
func (g *Game) creditSalary(p *Player) {
	salary := g.cfg.Core.GoSalary
	if h := hooksFor(p); h.salaryBonus != nil {
		salary += h.salaryBonus(&g.cfg)
	}
	p.Money += salary
	g.say(fmt.Sprintf("Passed GO! Collect $%d.", salary))
}

// sendToJail relocates directly to jail. The move never credits salary.
func (g *Game) sendToJail(p *Player) {
	p.Position = g.cfg.Core.JailPosition
	p.InJail = true
	p.JailTurns = 0
	if g.lastRoll != nil {
		g.lastRoll.SentToJail = true
	}
}

// handleLanding resolves the current player's position exactly once per
// roll. moveTo card effects re-enter it for the new position.
func (g *Game) handleLanding(p *Player) {
	sp, ok := g.board.Space(p.Position)
	if !ok {
		return
	}

	switch sp.Type {
	case board.TypeGo:
		// Salary is credited on the wrap, not here.

	case board.TypeProperty, board.TypeRailroad, board.TypeUtility:
		ownerID, owned := g.owners[sp.ID]
		if !owned {
			price := g.effectiveBuyPrice(p, sp)
			if p.Money >= price {
				g.state = stateAwaitingBuy(&BuyOffer{SpaceID: sp.ID, Price: price})
				if price < sp.Price {
					g.say(fmt.Sprintf("%s available! Listed $%d, your price $%d. Buy or pass?", sp.Name, sp.Price, price))
				} else {
					g.say(fmt.Sprintf("%s is available for $%d. Buy or pass?", sp.Name, price))
				}
			} else {
				g.say(fmt.Sprintf("%s costs $%d but you only have $%d.", sp.Name, price, p.Money))
			}
		} else if ownerID != p.ID {
			diceTotal := 0
			if g.lastRoll != nil {
				diceTotal = g.lastRoll.Total
			}
			rent := g.rentFor(sp, diceTotal, p)
			owner := g.playerByID(ownerID)
			p.Money -= rent
			owner.Money += rent
			g.say(fmt.Sprintf("Paid $%d rent to %s for %s.", rent, owner.DisplayName(), sp.Name))
			if p.Money <= 0 {
				g.bankrupt(p, owner)
			}
		} else {
			g.say("You own " + sp.Name + ".")
		}

	case board.TypeTax:
		tax := int(math.Floor(float64(sp.Rent) * g.season().TaxMod))
		if h := hooksFor(p); h.financialLoss != nil {
			tax = h.financialLoss(tax, &g.cfg)
			g.say(fmt.Sprintf("Financial expertise reduces tax to $%d.", tax))
		}
		p.Money -= tax
		if g.cfg.Core.FreeParkingPot {
			g.parkingPot += tax
		}
		g.say(fmt.Sprintf("Paid $%d in %s.", tax, sp.Name))
		if p.Money <= 0 {
			g.bankrupt(p, nil)
		}

	case board.TypeChance:
		g.resolveCardSpace(p, card.DeckChance)

	case board.TypeCommunity:
		g.resolveCardSpace(p, card.DeckCommunity)

	case board.TypeGoToJail:
		g.sendToJail(p)
		g.say("Go to Jail!")

	case board.TypeJail:
		g.say("Just visiting jail.")

	case board.TypeParking:
		if g.cfg.Core.FreeParkingPot && g.parkingPot > 0 {
			p.Money += g.parkingPot
			g.say(fmt.Sprintf("Free Parking jackpot! Collected $%d!", g.parkingPot))
			g.parkingPot = 0
		} else {
			g.say("Free Parking - relax!")
		}
	}
}

// useReroll discards the last roll and reopens the rolling phase. Only
// board position reverts; cash and property changes caused by the
// discarded landing stand, and a pending buy offer is dropped. A roll
// that put the player in jail cannot be discarded.
func (g *Game) useReroll(p *Player) error {
	if g.state.phase != PhaseAwaitingBuy && g.state.phase != PhaseTurnComplete {
		return fmt.Errorf("%w: nothing to reroll", ErrPhase)
	}
	if g.lastRoll == nil {
		return fmt.Errorf("%w: no roll this turn", ErrPhase)
	}
	if g.lastRoll.SentToJail {
		return fmt.Errorf("%w: cannot reroll a jail-bound roll", ErrPhase)
	}
	if p.RerollsLeft <= 0 {
		return fmt.Errorf("%w: no rerolls left", ErrCharge)
	}

	p.RerollsLeft--
	p.Position = g.lastRoll.PrePosition
	g.lastRoll = nil
	g.state = stateRolling()
	g.say(fmt.Sprintf("%s uses a reroll! (%d left)", p.DisplayName(), p.RerollsLeft))
	return nil
}

// payJailFine buys release before rolling.
func (g *Game) payJailFine(p *Player) error {
	if g.state.phase != PhaseRolling {
		return fmt.Errorf("%w: fine can only be paid before rolling", ErrPhase)
	}
	if !p.InJail {
		return fmt.Errorf("%w: not in jail", ErrPhase)
	}
	if p.Money < g.cfg.Core.JailFine {
		return fmt.Errorf("%w: need $%d for the fine", ErrFunds, g.cfg.Core.JailFine)
	}

	p.Money -= g.cfg.Core.JailFine
	p.InJail = false
	p.JailTurns = 0
	g.messages = []string{fmt.Sprintf("%s paid $%d to get out of jail.", p.DisplayName(), g.cfg.Core.JailFine)}
	return nil
}

// endTurn closes the turn-complete phase and rotates to the next
// non-bankrupt player.
func (g *Game) endTurn(p *Player) error {
	if g.state.phase != PhaseTurnComplete {
		return fmt.Errorf("%w: turn is not complete", ErrPhase)
	}
	g.advanceTurn()
	return nil
}
