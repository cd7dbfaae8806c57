package engine

import (
	"fmt"
	"sort"

	"github.com/dominionboardgame/server/internal/domain/board"
	"github.com/dominionboardgame/server/internal/domain/card"
	"github.com/dominionboardgame/server/internal/domain/character"
	"github.com/dominionboardgame/server/internal/domain/rules"
)

// Phase is the active sub-mode of the turn state machine.
type Phase string

const (
	PhaseSelect       Phase = "select"       // one-time character selection pre-phase
	PhaseRolling      Phase = "rolling"      // current player must roll
	PhaseAwaitingBuy  Phase = "awaitingBuy"  // buy-or-pass decision pending
	PhaseCardPending  Phase = "cardPending"  // accept-or-redraw decision pending
	PhaseAuction      Phase = "auction"      // auction ring active
	PhaseTrade        Phase = "trade"        // trade proposal pending
	PhaseTurnComplete Phase = "turnComplete" // only endTurn and opportunistic commands left
	PhaseGameOver     Phase = "gameOver"
)

// Roll records one dice throw and what it led to.
type Roll struct {
	Die1        int  `json:"die1"`
	Die2        int  `json:"die2"`
	Total       int  `json:"total"`
	Doubles     bool `json:"doubles"`
	PrePosition int  `json:"prePosition"`
	SentToJail  bool `json:"sentToJail"`
}

// BuyOffer is the pending buy-or-pass decision of the awaitingBuy phase.
type BuyOffer struct {
	SpaceID int `json:"spaceId"`
	Price   int `json:"price"` // effective price locked at landing time
}

// PendingCard is the accept-or-redraw decision of the cardPending phase.
type PendingCard struct {
	Card card.Card     `json:"card"`
	Deck card.DeckName `json:"deck"`
}

// Bidder is one ring entry of an auction.
type Bidder struct {
	PlayerID string `json:"playerId"`
	Passed   bool   `json:"passed"`
}

// Auction is the sub-state of the auction phase.
type Auction struct {
	PropertyID int      `json:"propertyId"`
	CurrentBid int      `json:"currentBid"`
	Leader     string   `json:"leader,omitempty"` // empty until a first bid lands
	Ring       []Bidder `json:"ring"`
	Cursor     int      `json:"cursor"`
}

// Trade is the sub-state of the trade phase. Return carries a buy offer
// that was interrupted by the proposal and is restored on resolution.
type Trade struct {
	ProposerID     string    `json:"proposerId"`
	TargetID       string    `json:"targetId"`
	Offered        []int     `json:"offered"`
	Requested      []int     `json:"requested"`
	OfferedMoney   int       `json:"offeredMoney"`
	RequestedMoney int       `json:"requestedMoney"`
	Return         *BuyOffer `json:"return,omitempty"`
}

// phaseState is the single tagged turn-state value. Each constructor
// builds a whole new value, so a payload can never outlive its phase.
type phaseState struct {
	phase   Phase
	offer   *BuyOffer
	card    *PendingCard
	auction *Auction
	trade   *Trade
}

func stateSelect() phaseState                 { return phaseState{phase: PhaseSelect} }
func stateRolling() phaseState                { return phaseState{phase: PhaseRolling} }
func stateAwaitingBuy(o *BuyOffer) phaseState { return phaseState{phase: PhaseAwaitingBuy, offer: o} }
func stateCardPending(c *PendingCard) phaseState {
	return phaseState{phase: PhaseCardPending, card: c}
}
func stateAuction(a *Auction) phaseState  { return phaseState{phase: PhaseAuction, auction: a} }
func stateTrade(t *Trade) phaseState      { return phaseState{phase: PhaseTrade, trade: t} }
func stateTurnComplete() phaseState       { return phaseState{phase: PhaseTurnComplete} }
func stateGameOver() phaseState           { return phaseState{phase: PhaseGameOver} }

// Seat names one participant at setup time.
type Seat struct {
	ID   string
	Name string
}

// Game is the full authoritative state of one match. It is not safe for
// concurrent use; the caller serializes command application.
type Game struct {
	cfg    rules.Config
	board  *board.Board
	decks  card.Decks
	roster []character.Character
	rng    Source

	id          string
	players     []*Player
	owners      map[int]string // space id -> player id
	buildings   map[int]int    // space id -> level, absent = 0
	mortgaged   map[int]bool
	current     int
	state       phaseState
	lastRoll    *Roll
	totalTurns  int
	seasonIndex int
	parkingPot  int
	winner      string
	winReason   string
	messages    []string
}

// New builds a match in the character-selection pre-phase. The config,
// board, decks and roster are treated as immutable for the game's
// lifetime; the random source is consumed in command order only.
func New(id string, cfg rules.Config, b *board.Board, decks card.Decks, roster []character.Character, rng Source, seats []Seat) (*Game, error) {
	if len(seats) < 2 {
		return nil, fmt.Errorf("need at least 2 players, got %d", len(seats))
	}
	if b == nil || rng == nil {
		return nil, fmt.Errorf("board and random source are required")
	}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	g := &Game{
		cfg:       cfg,
		board:     b,
		decks:     decks,
		roster:    roster,
		rng:       rng,
		id:        id,
		owners:    make(map[int]string),
		buildings: make(map[int]int),
		mortgaged: make(map[int]bool),
		state:     stateSelect(),
		messages:  []string{"Select your characters!"},
	}
	for _, s := range seats {
		g.players = append(g.players, newPlayer(s.ID, s.Name, cfg.Core.BaseStartingMoney))
	}
	return g, nil
}

// ID returns the game identifier.
func (g *Game) ID() string { return g.id }

// Phase returns the active sub-mode.
func (g *Game) Phase() Phase { return g.state.phase }

// Over reports whether a winner has been decided.
func (g *Game) Over() bool { return g.state.phase == PhaseGameOver }

// Winner returns the winning player id and the reason once the game is
// over, empty strings before that.
func (g *Game) Winner() (string, string) { return g.winner, g.winReason }

// CurrentPlayerID returns the id of the player whose turn it is.
func (g *Game) CurrentPlayerID() string { return g.players[g.current].ID }

// TotalTurns reports how many full turns have elapsed.
func (g *Game) TotalTurns() int { return g.totalTurns }

func (g *Game) playerByID(id string) *Player {
	for _, p := range g.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (g *Game) currentPlayer() *Player { return g.players[g.current] }

func (g *Game) say(msg string) { g.messages = append(g.messages, msg) }

// beginTurn runs at every turn boundary: it bumps the elapsed-turn
// counter, recomputes the season index, and opens the rolling phase.
func (g *Game) beginTurn() {
	g.totalTurns++

	if g.cfg.Seasons.Enabled && g.cfg.Seasons.ChangeInterval > 0 && len(g.cfg.Seasons.List) > 0 {
		idx := (g.totalTurns / g.cfg.Seasons.ChangeInterval) % len(g.cfg.Seasons.List)
		if idx != g.seasonIndex {
			g.seasonIndex = idx
			g.say("Season changed to " + g.cfg.Seasons.List[idx].Name + "!")
		}
	}

	g.lastRoll = nil
	g.state = stateRolling()

	p := g.currentPlayer()
	if p.InJail {
		g.say(fmt.Sprintf("%s is in jail. Pay $%d or try to roll doubles.", p.DisplayName(), g.cfg.Core.JailFine))
	}
}

// advanceTurn hands the turn to the next non-bankrupt player.
func (g *Game) advanceTurn() {
	for i := 1; i <= len(g.players); i++ {
		next := (g.current + i) % len(g.players)
		if !g.players[next].Bankrupt {
			g.current = next
			g.beginTurn()
			return
		}
	}
}

// Snapshot is the fully serializable view of a match, consumed by the
// transport, persistence and archive layers.
type Snapshot struct {
	GameID        string           `json:"gameId"`
	Phase         Phase            `json:"phase"`
	CurrentPlayer string           `json:"currentPlayer"`
	Players       []Player         `json:"players"`
	Owners        map[int]string   `json:"owners"`
	Buildings     map[int]int      `json:"buildings"`
	Mortgaged     []int            `json:"mortgaged"`
	LastRoll      *Roll            `json:"lastRoll,omitempty"`
	BuyOffer      *BuyOffer        `json:"buyOffer,omitempty"`
	PendingCard   *PendingCard     `json:"pendingCard,omitempty"`
	Auction       *Auction         `json:"auction,omitempty"`
	Trade         *Trade           `json:"trade,omitempty"`
	TotalTurns    int              `json:"totalTurns"`
	SeasonIndex   int              `json:"seasonIndex"`
	Season        rules.SeasonSpec `json:"season"`
	ParkingPot    int              `json:"parkingPot"`
	Winner        string           `json:"winner,omitempty"`
	WinReason     string           `json:"winReason,omitempty"`
	Messages      []string         `json:"messages"`
}

// Snapshot returns a deep copy of the observable state.
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		GameID:        g.id,
		Phase:         g.state.phase,
		CurrentPlayer: g.CurrentPlayerID(),
		Owners:        make(map[int]string, len(g.owners)),
		Buildings:     make(map[int]int, len(g.buildings)),
		TotalTurns:    g.totalTurns,
		SeasonIndex:   g.seasonIndex,
		Season:        g.cfg.Season(g.seasonIndex),
		ParkingPot:    g.parkingPot,
		Winner:        g.winner,
		WinReason:     g.winReason,
		Messages:      append([]string(nil), g.messages...),
	}
	for _, p := range g.players {
		cp := *p
		cp.Properties = append([]int(nil), p.Properties...)
		s.Players = append(s.Players, cp)
	}
	for k, v := range g.owners {
		s.Owners[k] = v
	}
	for k, v := range g.buildings {
		s.Buildings[k] = v
	}
	for id, m := range g.mortgaged {
		if m {
			s.Mortgaged = append(s.Mortgaged, id)
		}
	}
	sort.Ints(s.Mortgaged)

	if g.lastRoll != nil {
		r := *g.lastRoll
		s.LastRoll = &r
	}
	if g.state.offer != nil {
		o := *g.state.offer
		s.BuyOffer = &o
	}
	if g.state.card != nil {
		c := *g.state.card
		s.PendingCard = &c
	}
	if g.state.auction != nil {
		a := *g.state.auction
		a.Ring = append([]Bidder(nil), g.state.auction.Ring...)
		s.Auction = &a
	}
	if g.state.trade != nil {
		t := *g.state.trade
		t.Offered = append([]int(nil), g.state.trade.Offered...)
		t.Requested = append([]int(nil), g.state.trade.Requested...)
		if g.state.trade.Return != nil {
			r := *g.state.trade.Return
			t.Return = &r
		}
		s.Trade = &t
	}
	return s
}
