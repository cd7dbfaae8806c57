// Package rules holds the numeric rule configuration for a match.
// This package is PURE and must NOT import any infrastructure packages.
// A Config value is built once per game instance and passed by reference;
// nothing in here is package-level mutable state.
package rules

// CoreRules covers money, movement and jail constants.
type CoreRules struct {
	BaseStartingMoney      int     `yaml:"base_starting_money" json:"baseStartingMoney"`
	GoSalary               int     `yaml:"go_salary" json:"goSalary"`
	JailPosition           int     `yaml:"jail_position" json:"jailPosition"`
	JailFine               int     `yaml:"jail_fine" json:"jailFine"`
	JailMaxTurns           int     `yaml:"jail_max_turns" json:"jailMaxTurns"`
	BoardSize              int     `yaml:"board_size" json:"boardSize"`
	DoublesJailThreshold   int     `yaml:"doubles_jail_threshold" json:"doublesJailThreshold"`
	MortgageRate           float64 `yaml:"mortgage_rate" json:"mortgageRate"`
	UnmortgageRate         float64 `yaml:"unmortgage_rate" json:"unmortgageRate"`
	MaxBuildingLevel       int     `yaml:"max_building_level" json:"maxBuildingLevel"`
	MonopolyRentMultiplier float64 `yaml:"monopoly_rent_multiplier" json:"monopolyRentMultiplier"`
	DiceSides              int     `yaml:"dice_sides" json:"diceSides"`
	MaxTurns               int     `yaml:"max_turns" json:"maxTurns"` // 0 = unlimited
	FreeParkingPot         bool    `yaml:"free_parking_pot" json:"freeParkingPot"`
}

// BuildingRules covers the construction tier system.
type BuildingRules struct {
	Names                  []string  `yaml:"names" json:"names"` // index 0 = no building
	UpgradeCostMultipliers []float64 `yaml:"upgrade_cost_multipliers" json:"upgradeCostMultipliers"`
	RentMultipliers        []float64 `yaml:"rent_multipliers" json:"rentMultipliers"`
	EvenBuildingRule       bool      `yaml:"even_building_rule" json:"evenBuildingRule"`
	SellbackRate           float64   `yaml:"sellback_rate" json:"sellbackRate"`
}

// RentRules covers the special-space rent formulas.
type RentRules struct {
	RailroadBase            int `yaml:"railroad_base" json:"railroadBase"`
	RailroadExponent        int `yaml:"railroad_exponent" json:"railroadExponent"`
	UtilityMultiplierSingle int `yaml:"utility_multiplier_single" json:"utilityMultiplierSingle"`
	UtilityMultiplierBoth   int `yaml:"utility_multiplier_both" json:"utilityMultiplierBoth"`
}

// SeasonSpec is one entry of the cyclic season list.
type SeasonSpec struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	PriceMod float64 `yaml:"price_mod" json:"priceMod"`
	RentMod  float64 `yaml:"rent_mod" json:"rentMod"`
	TaxMod   float64 `yaml:"tax_mod" json:"taxMod"`
}

// SeasonRules drives the cyclic season system.
type SeasonRules struct {
	Enabled        bool         `yaml:"enabled" json:"enabled"`
	ChangeInterval int          `yaml:"change_interval" json:"changeInterval"`
	List           []SeasonSpec `yaml:"list" json:"list"`
}

// StatRules maps the six character stats to their mechanical effects.
type StatRules struct {
	Capital struct {
		StartingMoneyBonus int `yaml:"starting_money_bonus" json:"startingMoneyBonus"`
	} `yaml:"capital" json:"capital"`
	Negotiation struct {
		BuyDiscountPerPoint float64 `yaml:"buy_discount_per_point" json:"buyDiscountPerPoint"`
		BuyDiscountMax      float64 `yaml:"buy_discount_max" json:"buyDiscountMax"`
	} `yaml:"negotiation" json:"negotiation"`
	Tech struct {
		UpgradeDiscountPerPoint float64 `yaml:"upgrade_discount_per_point" json:"upgradeDiscountPerPoint"`
		UpgradeDiscountMax      float64 `yaml:"upgrade_discount_max" json:"upgradeDiscountMax"`
	} `yaml:"tech" json:"tech"`
	Charisma struct {
		RentDiscountPerPoint float64 `yaml:"rent_discount_per_point" json:"rentDiscountPerPoint"`
		RentDiscountMax      float64 `yaml:"rent_discount_max" json:"rentDiscountMax"`
	} `yaml:"charisma" json:"charisma"`
	Luck struct {
		RedrawThreshold int `yaml:"redraw_threshold" json:"redrawThreshold"`
		RedrawCount     int `yaml:"redraw_count" json:"redrawCount"`
	} `yaml:"luck" json:"luck"`
	Stamina struct {
		RerollThreshold int `yaml:"reroll_threshold" json:"rerollThreshold"`
		RerollCount     int `yaml:"reroll_count" json:"rerollCount"`
	} `yaml:"stamina" json:"stamina"`
}

// PassiveRules holds the magnitude of every passive ability.
type PassiveRules struct {
	Financier struct {
		BuyDiscount            float64 `yaml:"buy_discount" json:"buyDiscount"`
		NegativeEventReduction float64 `yaml:"negative_event_reduction" json:"negativeEventReduction"`
	} `yaml:"financier" json:"financier"`
	Pioneer struct {
		UpgradeCostDiscount float64 `yaml:"upgrade_cost_discount" json:"upgradeCostDiscount"`
	} `yaml:"pioneer" json:"pioneer"`
	Enforcer struct {
		RegulatedRentBonus float64 `yaml:"regulated_rent_bonus" json:"regulatedRentBonus"`
	} `yaml:"enforcer" json:"enforcer"`
	Arbitrageur struct {
		BankruptcyBonus int `yaml:"bankruptcy_bonus" json:"bankruptcyBonus"`
	} `yaml:"arbitrageur" json:"arbitrageur"`
	Idealist struct {
		GoBonus int `yaml:"go_bonus" json:"goBonus"`
	} `yaml:"idealist" json:"idealist"`
	Breaker struct {
		MonopolyRentReduction float64 `yaml:"monopoly_rent_reduction" json:"monopolyRentReduction"`
	} `yaml:"breaker" json:"breaker"`
	Speculator struct {
		ExtraRedraws int `yaml:"extra_redraws" json:"extraRedraws"`
	} `yaml:"speculator" json:"speculator"`
	Merchant struct {
		UnlimitedRedraws bool `yaml:"unlimited_redraws" json:"unlimitedRedraws"`
	} `yaml:"merchant" json:"merchant"`
	Operator struct {
		AllianceIncomeShare  float64 `yaml:"alliance_income_share" json:"allianceIncomeShare"`
		VotingInfluenceBonus int     `yaml:"voting_influence_bonus" json:"votingInfluenceBonus"`
	} `yaml:"operator" json:"operator"`
	Shadow struct {
		HideMoney bool `yaml:"hide_money" json:"hideMoney"`
	} `yaml:"shadow" json:"shadow"`
}

// CardRules configures the event-card engine.
type CardRules struct {
	// Actions a redraw charge may be spent against.
	NegativeActions []string `yaml:"negative_actions" json:"negativeActions"`
}

// TradingRules toggles the trade subsystem.
type TradingRules struct {
	Enabled                  bool `yaml:"enabled" json:"enabled"`
	AllowMoneyInTrade        bool `yaml:"allow_money_in_trade" json:"allowMoneyInTrade"`
	AllowMortgagedProperties bool `yaml:"allow_mortgaged_properties" json:"allowMortgagedProperties"`
	CanTradeInJail           bool `yaml:"can_trade_in_jail" json:"canTradeInJail"`
}

// AuctionRules toggles the auction subsystem.
type AuctionRules struct {
	Enabled          bool `yaml:"enabled" json:"enabled"`
	StartingBid      int  `yaml:"starting_bid" json:"startingBid"`
	MinimumIncrement int  `yaml:"minimum_increment" json:"minimumIncrement"`
	AuctionOnPass    bool `yaml:"auction_on_pass" json:"auctionOnPass"`
}

// Config is the full rule set for one match.
type Config struct {
	Core      CoreRules     `yaml:"core" json:"core"`
	Buildings BuildingRules `yaml:"buildings" json:"buildings"`
	Rent      RentRules     `yaml:"rent" json:"rent"`
	Seasons   SeasonRules   `yaml:"seasons" json:"seasons"`
	Stats     StatRules     `yaml:"stats" json:"stats"`
	Passives  PassiveRules  `yaml:"passives" json:"passives"`
	Cards     CardRules     `yaml:"cards" json:"cards"`
	Trading   TradingRules  `yaml:"trading" json:"trading"`
	Auction   AuctionRules  `yaml:"auction" json:"auction"`
}

// Default returns the standard rule set.
func Default() Config {
	var c Config

	c.Core = CoreRules{
		BaseStartingMoney:      1500,
		GoSalary:               200,
		JailPosition:           10,
		JailFine:               50,
		JailMaxTurns:           3,
		BoardSize:              40,
		DoublesJailThreshold:   3,
		MortgageRate:           0.5,
		UnmortgageRate:         0.55,
		MaxBuildingLevel:       4,
		MonopolyRentMultiplier: 2,
		DiceSides:              6,
		MaxTurns:               0,
		FreeParkingPot:         false,
	}

	c.Buildings = BuildingRules{
		Names:                  []string{"Vacant", "House", "Hotel", "Skyscraper", "Landmark"},
		UpgradeCostMultipliers: []float64{0.5, 0.75, 1.0, 1.5},
		RentMultipliers:        []float64{1, 3, 7, 12, 20},
		EvenBuildingRule:       true,
		SellbackRate:           0.5,
	}

	c.Rent = RentRules{
		RailroadBase:            25,
		RailroadExponent:        2,
		UtilityMultiplierSingle: 4,
		UtilityMultiplierBoth:   10,
	}

	c.Seasons = SeasonRules{
		Enabled:        true,
		ChangeInterval: 10,
		List: []SeasonSpec{
			{ID: "summer", Name: "Summer", PriceMod: 1.0, RentMod: 1.0, TaxMod: 1.0},
			{ID: "autumn", Name: "Autumn", PriceMod: 0.90, RentMod: 1.0, TaxMod: 1.0},
			{ID: "winter", Name: "Winter", PriceMod: 1.0, RentMod: 1.20, TaxMod: 2.0},
			{ID: "spring", Name: "Spring", PriceMod: 1.10, RentMod: 1.0, TaxMod: 1.0},
		},
	}

	c.Stats.Capital.StartingMoneyBonus = 50
	c.Stats.Negotiation.BuyDiscountPerPoint = 0.01
	c.Stats.Negotiation.BuyDiscountMax = 0.10
	c.Stats.Tech.UpgradeDiscountPerPoint = 0.02
	c.Stats.Tech.UpgradeDiscountMax = 0.20
	c.Stats.Charisma.RentDiscountPerPoint = 0.01
	c.Stats.Charisma.RentDiscountMax = 0.10
	c.Stats.Luck.RedrawThreshold = 8
	c.Stats.Luck.RedrawCount = 1
	c.Stats.Stamina.RerollThreshold = 7
	c.Stats.Stamina.RerollCount = 1

	c.Passives.Financier.BuyDiscount = 0.10
	c.Passives.Financier.NegativeEventReduction = 0.20
	c.Passives.Pioneer.UpgradeCostDiscount = 0.20
	c.Passives.Enforcer.RegulatedRentBonus = 0.20
	c.Passives.Arbitrageur.BankruptcyBonus = 100
	c.Passives.Idealist.GoBonus = 50
	c.Passives.Breaker.MonopolyRentReduction = 0.25
	c.Passives.Speculator.ExtraRedraws = 1
	c.Passives.Merchant.UnlimitedRedraws = true
	c.Passives.Operator.AllianceIncomeShare = 0.10
	c.Passives.Operator.VotingInfluenceBonus = 1
	c.Passives.Shadow.HideMoney = true

	c.Cards.NegativeActions = []string{"pay", "payPercent", "downgrade", "goToJail"}

	c.Trading = TradingRules{
		Enabled:                  true,
		AllowMoneyInTrade:        true,
		AllowMortgagedProperties: false,
		CanTradeInJail:           false,
	}

	c.Auction = AuctionRules{
		Enabled:          true,
		StartingBid:      1,
		MinimumIncrement: 1,
		AuctionOnPass:    true,
	}

	return c
}

// Season returns the season spec for the given index. When seasons are
// disabled a neutral spec is returned so all multipliers collapse to 1.
func (c *Config) Season(index int) SeasonSpec {
	if !c.Seasons.Enabled || len(c.Seasons.List) == 0 {
		return SeasonSpec{ID: "none", Name: "None", PriceMod: 1, RentMod: 1, TaxMod: 1}
	}
	return c.Seasons.List[index%len(c.Seasons.List)]
}

// IsNegativeCardAction reports whether a redraw charge may be spent on
// a card carrying the given action tag.
func (c *Config) IsNegativeCardAction(action string) bool {
	for _, a := range c.Cards.NegativeActions {
		if a == action {
			return true
		}
	}
	return false
}
