// Package card defines the event cards and the two standard decks.
// This package is PURE and must NOT import any infrastructure packages.
package card

// Action tags what a card does when applied.
type Action string

const (
	ActionGain            Action = "gain"
	ActionPay             Action = "pay"
	ActionMoveTo          Action = "moveTo"
	ActionGoToJail        Action = "goToJail"
	ActionPayPercent      Action = "payPercent"
	ActionGainAll         Action = "gainAll"
	ActionGainPerProperty Action = "gainPerProperty"
	ActionFreeUpgrade     Action = "freeUpgrade"
	ActionDowngrade       Action = "downgrade"
	ActionForceBuy        Action = "forceBuy"
)

// Card is one event card. Value's meaning depends on the action:
// a cash amount, a target space id, or a percentage.
type Card struct {
	Text   string `yaml:"text" json:"text"`
	Action Action `yaml:"action" json:"action"`
	Value  int    `yaml:"value" json:"value"`
}

// DeckName identifies which deck a pending card was drawn from.
type DeckName string

const (
	DeckChance    DeckName = "chance"
	DeckCommunity DeckName = "community"
)

// Decks bundles the two draw piles of a match.
type Decks struct {
	Chance    []Card `yaml:"chance" json:"chance"`
	Community []Card `yaml:"community" json:"community"`
}

// Deck returns the pile for the given name.
func (d *Decks) Deck(name DeckName) []Card {
	if name == DeckChance {
		return d.Chance
	}
	return d.Community
}

// DefaultDecks returns the standard chance and community piles.
func DefaultDecks() Decks {
	return Decks{
		Chance: []Card{
			{Text: "Advance to GO! Collect $200.", Action: ActionMoveTo, Value: 0},
			{Text: "Advance to Illinois Ave.", Action: ActionMoveTo, Value: 24},
			{Text: "Advance to St. Charles Place.", Action: ActionMoveTo, Value: 11},
			{Text: "Bank pays you dividend of $50.", Action: ActionGain, Value: 50},
			{Text: "Go to Jail. Do not pass GO.", Action: ActionGoToJail},
			{Text: "Black Swan Event! Pay 10% of your total assets.", Action: ActionPayPercent, Value: 10},
			{Text: "Market Boom! Collect $50 per property you own.", Action: ActionGainPerProperty, Value: 50},
			{Text: "Tech Breakthrough! Free upgrade on one of your properties.", Action: ActionFreeUpgrade},
			{Text: "Hostile Takeover! Force-buy an opponent's cheapest property at 150% price.", Action: ActionForceBuy, Value: 150},
			{Text: "Stimulus Package! All players receive $100.", Action: ActionGainAll, Value: 100},
		},
		Community: []Card{
			{Text: "Advance to GO! Collect $200.", Action: ActionMoveTo, Value: 0},
			{Text: "Bank error in your favor. Collect $200.", Action: ActionGain, Value: 200},
			{Text: "Go to Jail. Do not pass GO.", Action: ActionGoToJail},
			{Text: "Income tax refund. Collect $20.", Action: ActionGain, Value: 20},
			{Text: "Life insurance matures. Collect $100.", Action: ActionGain, Value: 100},
			{Text: "Tax Audit! Pay 15% of your total assets.", Action: ActionPayPercent, Value: 15},
			{Text: "Infrastructure Grant! Free upgrade on a property.", Action: ActionFreeUpgrade},
			{Text: "Market Crash! Your best building loses 1 level.", Action: ActionDowngrade},
			{Text: "Insurance Payout! Collect $200.", Action: ActionGain, Value: 200},
			{Text: "Community Fund! All players receive $50.", Action: ActionGainAll, Value: 50},
		},
	}
}
