// Package board defines the spaces a match is played on.
// This package is PURE and must NOT import any infrastructure packages.
package board

import "fmt"

// SpaceType classifies what happens when a player lands on a space.
type SpaceType string

const (
	TypeGo        SpaceType = "go"
	TypeProperty  SpaceType = "property"
	TypeRailroad  SpaceType = "railroad"
	TypeUtility   SpaceType = "utility"
	TypeTax       SpaceType = "tax"
	TypeChance    SpaceType = "chance"
	TypeCommunity SpaceType = "community"
	TypeJail      SpaceType = "jail" // just visiting
	TypeGoToJail  SpaceType = "goToJail"
	TypeParking   SpaceType = "parking"
)

// Space is one board position. For tax spaces Rent carries the tax amount.
type Space struct {
	ID    int       `yaml:"id" json:"id"`
	Name  string    `yaml:"name" json:"name"`
	Type  SpaceType `yaml:"type" json:"type"`
	Color string    `yaml:"color,omitempty" json:"color,omitempty"`
	Price int       `yaml:"price" json:"price"`
	Rent  int       `yaml:"rent" json:"rent"`
}

// Ownable reports whether the space can be bought, rented and traded.
func (s Space) Ownable() bool {
	return s.Type == TypeProperty || s.Type == TypeRailroad || s.Type == TypeUtility
}

// Board is an ordered list of spaces plus the color-group membership map.
type Board struct {
	Spaces []Space          `yaml:"spaces" json:"spaces"`
	Groups map[string][]int `yaml:"groups" json:"groups"` // color tag -> space ids
}

// Space returns the space with the given id, or false when out of range.
func (b *Board) Space(id int) (Space, bool) {
	if id < 0 || id >= len(b.Spaces) {
		return Space{}, false
	}
	return b.Spaces[id], true
}

// Group returns the space ids sharing the given color tag.
func (b *Board) Group(color string) []int {
	if color == "" {
		return nil
	}
	return b.Groups[color]
}

// Validate checks structural consistency: sequential ids and group
// membership referencing colored property spaces only.
func (b *Board) Validate() error {
	if len(b.Spaces) == 0 {
		return fmt.Errorf("board has no spaces")
	}
	for i, s := range b.Spaces {
		if s.ID != i {
			return fmt.Errorf("space %q has id %d at index %d", s.Name, s.ID, i)
		}
	}
	for color, ids := range b.Groups {
		for _, id := range ids {
			sp, ok := b.Space(id)
			if !ok {
				return fmt.Errorf("group %s references unknown space %d", color, id)
			}
			if sp.Type != TypeProperty {
				return fmt.Errorf("group %s references non-property space %d (%s)", color, id, sp.Type)
			}
			if sp.Color != color {
				return fmt.Errorf("group %s references space %d tagged %q", color, id, sp.Color)
			}
		}
	}
	return nil
}

// Default returns the classic 40-space layout.
func Default() *Board {
	return &Board{
		Spaces: []Space{
			{ID: 0, Name: "GO", Type: TypeGo},
			{ID: 1, Name: "Mediterranean Ave", Type: TypeProperty, Color: "#8B4513", Price: 60, Rent: 4},
			{ID: 2, Name: "Community Chest", Type: TypeCommunity},
			{ID: 3, Name: "Baltic Ave", Type: TypeProperty, Color: "#8B4513", Price: 60, Rent: 8},
			{ID: 4, Name: "Income Tax", Type: TypeTax, Rent: 200},
			{ID: 5, Name: "Reading Railroad", Type: TypeRailroad, Price: 200, Rent: 25},
			{ID: 6, Name: "Oriental Ave", Type: TypeProperty, Color: "#87CEEB", Price: 100, Rent: 12},
			{ID: 7, Name: "Chance", Type: TypeChance},
			{ID: 8, Name: "Vermont Ave", Type: TypeProperty, Color: "#87CEEB", Price: 100, Rent: 12},
			{ID: 9, Name: "Connecticut Ave", Type: TypeProperty, Color: "#87CEEB", Price: 120, Rent: 16},
			{ID: 10, Name: "Just Visiting", Type: TypeJail},
			{ID: 11, Name: "St. Charles Place", Type: TypeProperty, Color: "#FF69B4", Price: 140, Rent: 20},
			{ID: 12, Name: "Electric Company", Type: TypeUtility, Price: 150},
			{ID: 13, Name: "States Ave", Type: TypeProperty, Color: "#FF69B4", Price: 140, Rent: 20},
			{ID: 14, Name: "Virginia Ave", Type: TypeProperty, Color: "#FF69B4", Price: 160, Rent: 24},
			{ID: 15, Name: "Pennsylvania RR", Type: TypeRailroad, Price: 200, Rent: 25},
			{ID: 16, Name: "St. James Place", Type: TypeProperty, Color: "#FFA500", Price: 180, Rent: 28},
			{ID: 17, Name: "Community Chest", Type: TypeCommunity},
			{ID: 18, Name: "Tennessee Ave", Type: TypeProperty, Color: "#FFA500", Price: 180, Rent: 28},
			{ID: 19, Name: "New York Ave", Type: TypeProperty, Color: "#FFA500", Price: 200, Rent: 32},
			{ID: 20, Name: "Free Parking", Type: TypeParking},
			{ID: 21, Name: "Kentucky Ave", Type: TypeProperty, Color: "#FF0000", Price: 220, Rent: 36},
			{ID: 22, Name: "Chance", Type: TypeChance},
			{ID: 23, Name: "Indiana Ave", Type: TypeProperty, Color: "#FF0000", Price: 220, Rent: 36},
			{ID: 24, Name: "Illinois Ave", Type: TypeProperty, Color: "#FF0000", Price: 240, Rent: 40},
			{ID: 25, Name: "B&O Railroad", Type: TypeRailroad, Price: 200, Rent: 25},
			{ID: 26, Name: "Atlantic Ave", Type: TypeProperty, Color: "#FFFF00", Price: 260, Rent: 44},
			{ID: 27, Name: "Ventnor Ave", Type: TypeProperty, Color: "#FFFF00", Price: 260, Rent: 44},
			{ID: 28, Name: "Water Works", Type: TypeUtility, Price: 150},
			{ID: 29, Name: "Marvin Gardens", Type: TypeProperty, Color: "#FFFF00", Price: 280, Rent: 48},
			{ID: 30, Name: "Go To Jail", Type: TypeGoToJail},
			{ID: 31, Name: "Pacific Ave", Type: TypeProperty, Color: "#00AA00", Price: 300, Rent: 52},
			{ID: 32, Name: "North Carolina Ave", Type: TypeProperty, Color: "#00AA00", Price: 300, Rent: 52},
			{ID: 33, Name: "Community Chest", Type: TypeCommunity},
			{ID: 34, Name: "Pennsylvania Ave", Type: TypeProperty, Color: "#00AA00", Price: 320, Rent: 56},
			{ID: 35, Name: "Short Line", Type: TypeRailroad, Price: 200, Rent: 25},
			{ID: 36, Name: "Chance", Type: TypeChance},
			{ID: 37, Name: "Park Place", Type: TypeProperty, Color: "#0000CC", Price: 350, Rent: 70},
			{ID: 38, Name: "Luxury Tax", Type: TypeTax, Rent: 100},
			{ID: 39, Name: "Boardwalk", Type: TypeProperty, Color: "#0000CC", Price: 400, Rent: 100},
		},
		Groups: map[string][]int{
			"#8B4513": {1, 3},
			"#87CEEB": {6, 8, 9},
			"#FF69B4": {11, 13, 14},
			"#FFA500": {16, 18, 19},
			"#FF0000": {21, 23, 24},
			"#FFFF00": {26, 27, 29},
			"#00AA00": {31, 32, 34},
			"#0000CC": {37, 39},
		},
	}
}
