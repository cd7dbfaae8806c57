// Package character defines the playable roster: six bounded stats and
// one passive ability per character.
// This package is PURE and must NOT import any infrastructure packages.
package character

// PassiveID identifies a passive ability. The engine resolves behavior
// through a hook table keyed by this id.
type PassiveID string

const (
	PassiveFinancier   PassiveID = "financier"   // cheaper purchases, softer financial hits
	PassivePioneer     PassiveID = "pioneer"     // cheaper upgrades
	PassiveOperator    PassiveID = "operator"    // alliance/voting influence
	PassiveSpeculator  PassiveID = "speculator"  // extra card redraws
	PassiveEnforcer    PassiveID = "enforcer"    // may regulate one property
	PassiveArbitrageur PassiveID = "arbitrageur" // profits from bankruptcies
	PassiveMerchant    PassiveID = "merchant"    // unlimited card redraws
	PassiveIdealist    PassiveID = "idealist"    // bonus salary at GO
	PassiveBreaker     PassiveID = "breaker"     // pays less monopoly rent
	PassiveShadow      PassiveID = "shadow"      // hidden cash balance
)

// Stats are the six character attributes, each in the range 1-10.
type Stats struct {
	Capital     int `yaml:"capital" json:"capital"`
	Luck        int `yaml:"luck" json:"luck"`
	Negotiation int `yaml:"negotiation" json:"negotiation"`
	Charisma    int `yaml:"charisma" json:"charisma"`
	Tech        int `yaml:"tech" json:"tech"`
	Stamina     int `yaml:"stamina" json:"stamina"`
}

// Passive is a character's single passive ability.
type Passive struct {
	ID          PassiveID `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
}

// Character is one playable identity.
type Character struct {
	ID      string  `yaml:"id" json:"id"`
	Name    string  `yaml:"name" json:"name"`
	Title   string  `yaml:"title" json:"title"`
	Stats   Stats   `yaml:"stats" json:"stats"`
	Passive Passive `yaml:"passive" json:"passive"`
	Color   string  `yaml:"color" json:"color"`
}

// ByID finds a character in a roster.
func ByID(roster []Character, id string) (Character, bool) {
	for _, c := range roster {
		if c.ID == id {
			return c, true
		}
	}
	return Character{}, false
}

// DefaultRoster returns the standard ten characters.
func DefaultRoster() []Character {
	return []Character{
		{
			ID: "albert-victor", Name: "Albert Victor", Title: "Council Financier",
			Stats:   Stats{Capital: 9, Luck: 4, Negotiation: 8, Charisma: 6, Tech: 5, Stamina: 4},
			Passive: Passive{ID: PassiveFinancier, Name: "Financial Expertise", Description: "Property purchase price -10%. Financial negative event losses -20%."},
			Color:   "#c9a44a",
		},
		{
			ID: "lia-startrace", Name: "Lia Startrace", Title: "Interstellar Pioneer",
			Stats:   Stats{Capital: 5, Luck: 8, Negotiation: 4, Charisma: 5, Tech: 9, Stamina: 6},
			Passive: Passive{ID: PassivePioneer, Name: "Tech Pioneer", Description: "Property upgrade cost -20%."},
			Color:   "#5ba3cf",
		},
		{
			ID: "marcus-grayline", Name: "Marcus Grayline", Title: "Political Operator",
			Stats:   Stats{Capital: 6, Luck: 4, Negotiation: 7, Charisma: 9, Tech: 4, Stamina: 5},
			Passive: Passive{ID: PassiveOperator, Name: "Political Influence", Description: "Alliance income share +10%. Voting phase +1 influence."},
			Color:   "#7a5c8a",
		},
		{
			ID: "evelyn-zero", Name: "Evelyn Zero", Title: "Probability Speculator",
			Stats:   Stats{Capital: 4, Luck: 10, Negotiation: 3, Charisma: 6, Tech: 5, Stamina: 6},
			Passive: Passive{ID: PassiveSpeculator, Name: "Lucky Draw", Description: "Extra event card redraw."},
			Color:   "#d4af37",
		},
		{
			ID: "knox-ironlaw", Name: "Knox Ironlaw", Title: "Order Enforcer",
			Stats:   Stats{Capital: 7, Luck: 3, Negotiation: 6, Charisma: 4, Tech: 6, Stamina: 6},
			Passive: Passive{ID: PassiveEnforcer, Name: "Regulation", Description: "Can set regulated status on one property. Opponents pay +20% rent there."},
			Color:   "#8b8b8b",
		},
		{
			ID: "sophia-ember", Name: "Sophia Ember", Title: "Crisis Arbitrageur",
			Stats:   Stats{Capital: 5, Luck: 6, Negotiation: 5, Charisma: 5, Tech: 4, Stamina: 8},
			Passive: Passive{ID: PassiveArbitrageur, Name: "Crisis Profit", Description: "Gain $100 when any player goes bankrupt."},
			Color:   "#cf5b5b",
		},
		{
			ID: "cassian-echo", Name: "Cassian Echo", Title: "Information Merchant",
			Stats:   Stats{Capital: 6, Luck: 5, Negotiation: 6, Charisma: 6, Tech: 6, Stamina: 5},
			Passive: Passive{ID: PassiveMerchant, Name: "Intel Network", Description: "Unlimited event card redraws."},
			Color:   "#4a9e7a",
		},
		{
			ID: "mira-dawnlight", Name: "Mira Dawnlight", Title: "Idealist Council Member",
			Stats:   Stats{Capital: 4, Luck: 6, Negotiation: 5, Charisma: 8, Tech: 5, Stamina: 6},
			Passive: Passive{ID: PassiveIdealist, Name: "Growth Vision", Description: "Gain +$50 bonus each time passing GO."},
			Color:   "#e8a0bf",
		},
		{
			ID: "renn-chainbreaker", Name: "Renn Chainbreaker", Title: "Rule Breaker",
			Stats:   Stats{Capital: 5, Luck: 5, Negotiation: 4, Charisma: 6, Tech: 7, Stamina: 7},
			Passive: Passive{ID: PassiveBreaker, Name: "Anti-Monopoly", Description: "Pays 25% less rent on full color set properties."},
			Color:   "#cf8f4a",
		},
		{
			ID: "ophelia-nightveil", Name: "Ophelia Nightveil", Title: "Shadow Council Member",
			Stats:   Stats{Capital: 6, Luck: 7, Negotiation: 5, Charisma: 7, Tech: 3, Stamina: 6},
			Passive: Passive{ID: PassiveShadow, Name: "Shadow Veil", Description: "True money amount hidden from other players."},
			Color:   "#3d3d5c",
		},
	}
}
