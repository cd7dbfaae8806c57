package engine

import (
	"math"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

// The formulas below keep the exact operation order of the rule book:
// all modifiers apply as float factors and the result is floored to an
// integer only as the final step. Reordering changes rounding.

func (g *Game) season() rules.SeasonSpec {
	return g.cfg.Season(g.seasonIndex)
}

// ownsColorGroup reports whether the player owns every space of the
// given color group.
func (g *Game) ownsColorGroup(playerID, color string) bool {
	ids := g.board.Group(color)
	if len(ids) == 0 {
		return false
	}
	for _, id := range ids {
		if g.owners[id] != playerID {
			return false
		}
	}
	return true
}

// effectiveBuyPrice is base price, scaled by the season price modifier,
// the capped negotiation discount, and the financier passive.
func (g *Game) effectiveBuyPrice(p *Player, sp board.Space) int {
	price := float64(sp.Price) * g.season().PriceMod

	if p.Character == nil {
		return int(math.Floor(price))
	}

	disc := float64(p.Character.Stats.Negotiation) * g.cfg.Stats.Negotiation.BuyDiscountPerPoint
	if disc > g.cfg.Stats.Negotiation.BuyDiscountMax {
		disc = g.cfg.Stats.Negotiation.BuyDiscountMax
	}
	price *= 1 - disc

	if h := hooksFor(p); h.buyPrice != nil {
		price = h.buyPrice(price, &g.cfg)
	}
	return int(math.Floor(price))
}

// upgradeCost prices one building tier: base price times the tier cost
// multiplier, season-adjusted, with tech and pioneer discounts.
func (g *Game) upgradeCost(p *Player, sp board.Space, targetLevel int) int {
	cost := float64(sp.Price) * g.cfg.Buildings.UpgradeCostMultipliers[targetLevel-1]
	cost *= g.season().PriceMod

	if p.Character != nil {
		disc := float64(p.Character.Stats.Tech) * g.cfg.Stats.Tech.UpgradeDiscountPerPoint
		if disc > g.cfg.Stats.Tech.UpgradeDiscountMax {
			disc = g.cfg.Stats.Tech.UpgradeDiscountMax
		}
		cost *= 1 - disc

		if h := hooksFor(p); h.upgradeCost != nil {
			cost = h.upgradeCost(cost, &g.cfg)
		}
	}
	return int(math.Floor(cost))
}

func (g *Game) countOwnedOfType(ownerID string, t board.SpaceType) int {
	owner := g.playerByID(ownerID)
	if owner == nil {
		return 0
	}
	n := 0
	for _, id := range owner.Properties {
		if sp, ok := g.board.Space(id); ok && sp.Type == t {
			n++
		}
	}
	return n
}

// rentFor computes what the visitor owes for landing on the space.
// Returns 0 for unowned or mortgaged spaces. Order: base formula per
// space type, season rent modifier, charisma discount, regulated bonus,
// anti-monopoly reduction, floor.
func (g *Game) rentFor(sp board.Space, diceTotal int, visitor *Player) int {
	ownerID, owned := g.owners[sp.ID]
	if !owned {
		return 0
	}
	if g.mortgaged[sp.ID] {
		return 0
	}

	var rent float64
	switch sp.Type {
	case board.TypeRailroad:
		count := g.countOwnedOfType(ownerID, board.TypeRailroad)
		rent = float64(g.cfg.Rent.RailroadBase) * math.Pow(float64(g.cfg.Rent.RailroadExponent), float64(count-1))
	case board.TypeUtility:
		count := g.countOwnedOfType(ownerID, board.TypeUtility)
		if count == 1 {
			rent = float64(diceTotal * g.cfg.Rent.UtilityMultiplierSingle)
		} else {
			rent = float64(diceTotal * g.cfg.Rent.UtilityMultiplierBoth)
		}
	default:
		level := g.buildings[sp.ID]
		if level > 0 {
			// Building rent replaces the monopoly bonus.
			rent = float64(sp.Rent) * g.cfg.Buildings.RentMultipliers[level]
		} else {
			rent = float64(sp.Rent)
			if sp.Color != "" && g.ownsColorGroup(ownerID, sp.Color) {
				rent *= g.cfg.Core.MonopolyRentMultiplier
			}
		}
	}

	rent *= g.season().RentMod

	if visitor != nil && visitor.Character != nil {
		disc := float64(visitor.Character.Stats.Charisma) * g.cfg.Stats.Charisma.RentDiscountPerPoint
		if disc > g.cfg.Stats.Charisma.RentDiscountMax {
			disc = g.cfg.Stats.Charisma.RentDiscountMax
		}
		rent *= 1 - disc

		if owner := g.playerByID(ownerID); owner != nil && owner.RegulatedProperty == sp.ID {
			rent *= 1 + g.cfg.Passives.Enforcer.RegulatedRentBonus
		}

		if h := hooksFor(visitor); h.visitorRent != nil {
			onMonopoly := sp.Color != "" && g.ownsColorGroup(ownerID, sp.Color)
			rent = h.visitorRent(rent, onMonopoly, &g.cfg)
		}
	}

	return int(math.Floor(rent))
}

// netWorth is cash plus base purchase prices plus the cumulative
// invested (base-price) building cost per tier. Used by payPercent
// cards and the turn-limit win condition.
func (g *Game) netWorth(p *Player) int {
	total := p.Money
	for _, id := range p.Properties {
		sp, ok := g.board.Space(id)
		if !ok {
			continue
		}
		total += sp.Price
		level := g.buildings[id]
		for l := 1; l <= level; l++ {
			total += int(math.Floor(float64(sp.Price) * g.cfg.Buildings.UpgradeCostMultipliers[l-1]))
		}
	}
	return total
}

// NetWorth reports the net worth of one player, or 0 for an unknown id.
func (g *Game) NetWorth(playerID string) int {
	p := g.playerByID(playerID)
	if p == nil {
		return 0
	}
	return g.netWorth(p)
}
