package engine

import "github.com/dominionboardgame/server/internal/domain/character"

// Player is one seat at the table. Bankrupt players stay in the slice
// but are skipped by turn rotation and excluded from auctions/trades.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Money      int    `json:"money"`
	Position   int    `json:"position"`
	Properties []int  `json:"properties"` // space ids, insertion order

	InJail        bool `json:"inJail"`
	JailTurns     int  `json:"jailTurns"`
	DoublesStreak int  `json:"doublesStreak"`
	Bankrupt      bool `json:"bankrupt"`

	Character *character.Character `json:"character,omitempty"`

	RerollsLeft       int `json:"rerollsLeft"`
	LuckRedraws       int `json:"luckRedraws"`
	RegulatedProperty int `json:"regulatedProperty"` // -1 when unset
}

func newPlayer(id, name string, startingMoney int) *Player {
	return &Player{
		ID:                id,
		Name:              name,
		Money:             startingMoney,
		Properties:        []int{},
		RegulatedProperty: -1,
	}
}

// DisplayName prefers the character name once one is selected.
func (p *Player) DisplayName() string {
	if p.Character != nil {
		return p.Character.Name
	}
	return p.Name
}

func (p *Player) passive() character.PassiveID {
	if p.Character == nil {
		return ""
	}
	return p.Character.Passive.ID
}

func (p *Player) ownsProperty(spaceID int) bool {
	for _, id := range p.Properties {
		if id == spaceID {
			return true
		}
	}
	return false
}

func (p *Player) removeProperty(spaceID int) {
	for i, id := range p.Properties {
		if id == spaceID {
			p.Properties = append(p.Properties[:i], p.Properties[i+1:]...)
			return
		}
	}
}
