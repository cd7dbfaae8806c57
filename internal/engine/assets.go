package engine

import (
	"fmt"
	"math"

	"github.com/dominionboardgame/server/internal/domain/board"
)

// requireActionPhase gates the opportunistic asset commands: they are
// legal while a buy decision is open or after the turn's roll resolved,
// never inside an auction, trade or card decision.
func (g *Game) requireActionPhase() error {
	if g.state.phase != PhaseAwaitingBuy && g.state.phase != PhaseTurnComplete {
		return fmt.Errorf("%w: asset commands only between roll and end of turn", ErrPhase)
	}
	return nil
}

// buyProperty takes the open buy offer at the locked effective price.
func (g *Game) buyProperty(p *Player) error {
	if g.state.phase != PhaseAwaitingBuy {
		return fmt.Errorf("%w: no purchase pending", ErrPhase)
	}
	offer := g.state.offer
	if _, owned := g.owners[offer.SpaceID]; owned {
		return fmt.Errorf("%w: space %d already owned", ErrOwnership, offer.SpaceID)
	}
	if p.Money < offer.Price {
		return fmt.Errorf("%w: need $%d", ErrFunds, offer.Price)
	}

	p.Money -= offer.Price
	p.Properties = append(p.Properties, offer.SpaceID)
	g.owners[offer.SpaceID] = p.ID
	sp, _ := g.board.Space(offer.SpaceID)
	g.say(fmt.Sprintf("Bought %s for $%d!", sp.Name, offer.Price))
	g.state = stateTurnComplete()
	return nil
}

// passProperty declines the purchase. With auctions enabled the
// property immediately goes under the hammer for all non-bankrupt
// players, in seat order.
func (g *Game) passProperty(p *Player) error {
	if g.state.phase != PhaseAwaitingBuy {
		return fmt.Errorf("%w: no purchase pending", ErrPhase)
	}
	spaceID := g.state.offer.SpaceID

	if g.cfg.Auction.Enabled && g.cfg.Auction.AuctionOnPass {
		var ring []Bidder
		for _, pl := range g.players {
			if !pl.Bankrupt {
				ring = append(ring, Bidder{PlayerID: pl.ID})
			}
		}
		if len(ring) > 0 {
			g.state = stateAuction(&Auction{PropertyID: spaceID, Ring: ring})
			sp, _ := g.board.Space(spaceID)
			g.say(fmt.Sprintf("%s goes to auction! Bidding starts at $%d.", sp.Name, g.cfg.Auction.StartingBid))
			g.say(g.playerByID(ring[0].PlayerID).DisplayName() + "'s turn to bid.")
			return nil
		}
	}

	g.say("Passed on buying.")
	g.state = stateTurnComplete()
	return nil
}

// regulateProperty flags one owned property for bonus rent. Enforcer
// passive only; re-regulating moves the flag.
func (g *Game) regulateProperty(p *Player, spaceID int) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	if !hooksFor(p).canRegulate {
		return fmt.Errorf("%w: no regulation ability", ErrStructure)
	}
	if g.owners[spaceID] != p.ID {
		return fmt.Errorf("%w: space %d is not yours", ErrOwnership, spaceID)
	}

	p.RegulatedProperty = spaceID
	sp, _ := g.board.Space(spaceID)
	g.say(fmt.Sprintf("%s regulates %s! (+%.0f%% rent)", p.DisplayName(), sp.Name, g.cfg.Passives.Enforcer.RegulatedRentBonus*100))
	return nil
}

// upgradeProperty builds one tier on a monopoly-held property.
func (g *Game) upgradeProperty(p *Player, spaceID int) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	sp, ok := g.board.Space(spaceID)
	if !ok || sp.Type != board.TypeProperty {
		return fmt.Errorf("%w: space %d is not a buildable property", ErrTarget, spaceID)
	}
	if g.owners[spaceID] != p.ID {
		return fmt.Errorf("%w: space %d is not yours", ErrOwnership, spaceID)
	}
	if sp.Color == "" || !g.ownsColorGroup(p.ID, sp.Color) {
		return fmt.Errorf("%w: full color group required", ErrStructure)
	}

	group := g.board.Group(sp.Color)
	minLevel := g.cfg.Core.MaxBuildingLevel
	for _, gid := range group {
		if g.mortgaged[gid] {
			return fmt.Errorf("%w: group has a mortgaged property", ErrStructure)
		}
		if g.buildings[gid] < minLevel {
			minLevel = g.buildings[gid]
		}
	}

	level := g.buildings[spaceID]
	if level >= g.cfg.Core.MaxBuildingLevel {
		return fmt.Errorf("%w: already at max tier", ErrStructure)
	}
	if g.cfg.Buildings.EvenBuildingRule && level > minLevel {
		return fmt.Errorf("%w: build evenly across the group", ErrStructure)
	}

	target := level + 1
	cost := g.upgradeCost(p, sp, target)
	if p.Money < cost {
		return fmt.Errorf("%w: need $%d", ErrFunds, cost)
	}

	p.Money -= cost
	g.buildings[spaceID] = target
	g.say(fmt.Sprintf("Built %s on %s for $%d!", g.cfg.Buildings.Names[target], sp.Name, cost))
	return nil
}

// sellBuilding removes one tier and refunds a fraction of the current
// upgrade cost. The even-building rule applies in reverse: only the
// highest tier in the group may be sold from.
func (g *Game) sellBuilding(p *Player, spaceID int) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	sp, ok := g.board.Space(spaceID)
	if !ok || sp.Type != board.TypeProperty {
		return fmt.Errorf("%w: space %d is not a buildable property", ErrTarget, spaceID)
	}
	if g.owners[spaceID] != p.ID {
		return fmt.Errorf("%w: space %d is not yours", ErrOwnership, spaceID)
	}

	level := g.buildings[spaceID]
	if level <= 0 {
		return fmt.Errorf("%w: nothing built on space %d", ErrStructure, spaceID)
	}

	if g.cfg.Buildings.EvenBuildingRule && sp.Color != "" {
		maxLevel := 0
		for _, gid := range g.board.Group(sp.Color) {
			if g.buildings[gid] > maxLevel {
				maxLevel = g.buildings[gid]
			}
		}
		if level < maxLevel {
			return fmt.Errorf("%w: sell from the highest tier in the group first", ErrStructure)
		}
	}

	refund := int(math.Floor(float64(g.upgradeCost(p, sp, level)) * g.cfg.Buildings.SellbackRate))
	g.buildings[spaceID] = level - 1
	if g.buildings[spaceID] == 0 {
		delete(g.buildings, spaceID)
	}
	p.Money += refund
	g.say(fmt.Sprintf("Sold %s on %s for $%d. Now: %s.", g.cfg.Buildings.Names[level], sp.Name, refund, g.cfg.Buildings.Names[g.buildings[spaceID]]))
	return nil
}

// mortgageProperty trades the deed for cash at the mortgage rate.
// Mortgaging is blocked while any building stands in the color group.
func (g *Game) mortgageProperty(p *Player, spaceID int) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	sp, ok := g.board.Space(spaceID)
	if !ok || !sp.Ownable() {
		return fmt.Errorf("%w: space %d cannot be mortgaged", ErrTarget, spaceID)
	}
	if g.owners[spaceID] != p.ID {
		return fmt.Errorf("%w: space %d is not yours", ErrOwnership, spaceID)
	}
	if g.mortgaged[spaceID] {
		return fmt.Errorf("%w: already mortgaged", ErrStructure)
	}
	if g.buildings[spaceID] > 0 {
		return fmt.Errorf("%w: demolish buildings first", ErrStructure)
	}
	if sp.Color != "" {
		for _, gid := range g.board.Group(sp.Color) {
			if g.buildings[gid] > 0 {
				return fmt.Errorf("%w: group has buildings", ErrStructure)
			}
		}
	}

	value := int(math.Floor(float64(sp.Price) * g.cfg.Core.MortgageRate * g.season().PriceMod))
	g.mortgaged[spaceID] = true
	p.Money += value
	g.say(fmt.Sprintf("Mortgaged %s for $%d.", sp.Name, value))
	return nil
}

// unmortgageProperty buys the deed back at the unmortgage rate.
func (g *Game) unmortgageProperty(p *Player, spaceID int) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	sp, ok := g.board.Space(spaceID)
	if !ok || !sp.Ownable() {
		return fmt.Errorf("%w: space %d cannot be unmortgaged", ErrTarget, spaceID)
	}
	if g.owners[spaceID] != p.ID {
		return fmt.Errorf("%w: space %d is not yours", ErrOwnership, spaceID)
	}
	if !g.mortgaged[spaceID] {
		return fmt.Errorf("%w: not mortgaged", ErrStructure)
	}

	cost := int(math.Floor(float64(sp.Price) * g.cfg.Core.UnmortgageRate * g.season().PriceMod))
	if p.Money < cost {
		return fmt.Errorf("%w: need $%d", ErrFunds, cost)
	}

	p.Money -= cost
	delete(g.mortgaged, spaceID)
	g.say(fmt.Sprintf("Unmortgaged %s for $%d.", sp.Name, cost))
	return nil
}
