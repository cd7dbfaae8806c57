package engine

import (
	"math"

	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

// passiveHooks collects the places a passive ability can plug into the
// rules. Adding a passive means adding a table entry, not editing the
// formula sites. A zero value means "no effect".
type passiveHooks struct {
	// buyPrice adjusts the effective purchase price, pre-floor.
	buyPrice func(price float64, cfg *rules.Config) float64
	// upgradeCost adjusts a building upgrade cost, pre-floor.
	upgradeCost func(cost float64, cfg *rules.Config) float64
	// visitorRent adjusts rent owed by the holder, pre-floor.
	// onMonopoly is true when the owner holds the full color group.
	visitorRent func(rent float64, onMonopoly bool, cfg *rules.Config) float64
	// financialLoss adjusts a bank-bound debit (tax, card penalty).
	financialLoss func(amount int, cfg *rules.Config) int
	// salaryBonus is added on top of the GO salary.
	salaryBonus func(cfg *rules.Config) int
	// bankruptcyBonus pays out when any other player goes bankrupt.
	bankruptcyBonus func(cfg *rules.Config) int
	// extraRedraws grants card-redraw charges at character selection.
	extraRedraws func(cfg *rules.Config) int

	unlimitedRedraws bool
	canRegulate      bool
	hidesMoney       bool
}

var passiveTable = map[character.PassiveID]passiveHooks{
	character.PassiveFinancier: {
		buyPrice: func(price float64, cfg *rules.Config) float64 {
			return price * (1 - cfg.Passives.Financier.BuyDiscount)
		},
		financialLoss: func(amount int, cfg *rules.Config) int {
			return int(math.Floor(float64(amount) * (1 - cfg.Passives.Financier.NegativeEventReduction)))
		},
	},
	character.PassivePioneer: {
		upgradeCost: func(cost float64, cfg *rules.Config) float64 {
			return cost * (1 - cfg.Passives.Pioneer.UpgradeCostDiscount)
		},
	},
	character.PassiveBreaker: {
		visitorRent: func(rent float64, onMonopoly bool, cfg *rules.Config) float64 {
			if !onMonopoly {
				return rent
			}
			return rent * (1 - cfg.Passives.Breaker.MonopolyRentReduction)
		},
	},
	character.PassiveIdealist: {
		salaryBonus: func(cfg *rules.Config) int { return cfg.Passives.Idealist.GoBonus },
	},
	character.PassiveArbitrageur: {
		bankruptcyBonus: func(cfg *rules.Config) int { return cfg.Passives.Arbitrageur.BankruptcyBonus },
	},
	character.PassiveSpeculator: {
		extraRedraws: func(cfg *rules.Config) int { return cfg.Passives.Speculator.ExtraRedraws },
	},
	character.PassiveMerchant: {unlimitedRedraws: true},
	character.PassiveEnforcer: {canRegulate: true},
	character.PassiveShadow:   {hidesMoney: true},
	// Operator's alliance/voting effects live outside the core rules.
	character.PassiveOperator: {},
}

// hooksFor returns the hook set for the player's passive. Players
// without a character get the zero set.
func hooksFor(p *Player) passiveHooks {
	return passiveTable[p.passive()]
}
