package engine

import (
	"fmt"

	"github.com/dominionboardgame/server/internal/domain/character"
)

// CommandType names one entry of the command surface.
type CommandType string

const (
	CmdSelectCharacter    CommandType = "selectCharacter"
	CmdRollDice           CommandType = "rollDice"
	CmdUseReroll          CommandType = "useReroll"
	CmdAcceptCard         CommandType = "acceptCard"
	CmdRedrawCard         CommandType = "redrawCard"
	CmdBuyProperty        CommandType = "buyProperty"
	CmdPassProperty       CommandType = "passProperty"
	CmdPayJailFine        CommandType = "payJailFine"
	CmdRegulateProperty   CommandType = "regulateProperty"
	CmdUpgradeProperty    CommandType = "upgradeProperty"
	CmdSellBuilding       CommandType = "sellBuilding"
	CmdMortgageProperty   CommandType = "mortgageProperty"
	CmdUnmortgageProperty CommandType = "unmortgageProperty"
	CmdProposeTrade       CommandType = "proposeTrade"
	CmdAcceptTrade        CommandType = "acceptTrade"
	CmdRejectTrade        CommandType = "rejectTrade"
	CmdCancelTrade        CommandType = "cancelTrade"
	CmdPlaceBid           CommandType = "placeBid"
	CmdPassAuction        CommandType = "passAuction"
	CmdEndTurn            CommandType = "endTurn"
)

// TradeProposal is the payload of a proposeTrade command.
type TradeProposal struct {
	Target         string `json:"target"`
	Offered        []int  `json:"offered,omitempty"`
	Requested      []int  `json:"requested,omitempty"`
	OfferedMoney   int    `json:"offeredMoney,omitempty"`
	RequestedMoney int    `json:"requestedMoney,omitempty"`
}

// Command is one player input. Unused fields are ignored by commands
// that do not need them.
type Command struct {
	Type      CommandType    `json:"type"`
	Player    string         `json:"player"`
	Character string         `json:"character,omitempty"`
	Space     int            `json:"space,omitempty"`
	Amount    int            `json:"amount,omitempty"`
	Trade     *TradeProposal `json:"trade,omitempty"`
}

// Apply runs one command as an atomic transition. A non-nil error means
// the command was rejected and the state is unchanged. After every
// applied command the win condition is evaluated.
func (g *Game) Apply(cmd Command) error {
	if g.state.phase == PhaseGameOver {
		return fmt.Errorf("%w: game is over", ErrPhase)
	}
	p := g.playerByID(cmd.Player)
	if p == nil {
		return fmt.Errorf("%w: unknown player %q", ErrTarget, cmd.Player)
	}
	if p.Bankrupt {
		return fmt.Errorf("%w: player %s is bankrupt", ErrTarget, cmd.Player)
	}

	var err error
	switch cmd.Type {
	case CmdSelectCharacter:
		err = g.selectCharacter(p, cmd.Character)
	case CmdRollDice:
		err = g.requireCurrent(p, func() error { return g.rollDice(p) })
	case CmdUseReroll:
		err = g.requireCurrent(p, func() error { return g.useReroll(p) })
	case CmdAcceptCard:
		err = g.requireCurrent(p, func() error { return g.acceptCard(p) })
	case CmdRedrawCard:
		err = g.requireCurrent(p, func() error { return g.redrawCard(p) })
	case CmdBuyProperty:
		err = g.requireCurrent(p, func() error { return g.buyProperty(p) })
	case CmdPassProperty:
		err = g.requireCurrent(p, func() error { return g.passProperty(p) })
	case CmdPayJailFine:
		err = g.requireCurrent(p, func() error { return g.payJailFine(p) })
	case CmdRegulateProperty:
		err = g.requireCurrent(p, func() error { return g.regulateProperty(p, cmd.Space) })
	case CmdUpgradeProperty:
		err = g.requireCurrent(p, func() error { return g.upgradeProperty(p, cmd.Space) })
	case CmdSellBuilding:
		err = g.requireCurrent(p, func() error { return g.sellBuilding(p, cmd.Space) })
	case CmdMortgageProperty:
		err = g.requireCurrent(p, func() error { return g.mortgageProperty(p, cmd.Space) })
	case CmdUnmortgageProperty:
		err = g.requireCurrent(p, func() error { return g.unmortgageProperty(p, cmd.Space) })
	case CmdProposeTrade:
		err = g.requireCurrent(p, func() error { return g.proposeTrade(p, cmd.Trade) })
	case CmdAcceptTrade:
		err = g.acceptTrade(p)
	case CmdRejectTrade:
		err = g.rejectTrade(p)
	case CmdCancelTrade:
		err = g.cancelTrade(p)
	case CmdPlaceBid:
		err = g.placeBid(p, cmd.Amount)
	case CmdPassAuction:
		err = g.passAuction(p)
	case CmdEndTurn:
		err = g.requireCurrent(p, func() error { return g.endTurn(p) })
	default:
		err = fmt.Errorf("%w: unknown command %q", ErrTarget, cmd.Type)
	}
	if err != nil {
		return err
	}

	g.checkGameOver()
	return nil
}

// requireCurrent gates commands that only the player whose turn it is
// may issue.
func (g *Game) requireCurrent(p *Player, fn func() error) error {
	if p.ID != g.CurrentPlayerID() {
		return fmt.Errorf("%w: not %s's turn", ErrPhase, p.ID)
	}
	return fn()
}

// selectCharacter assigns a roster character to the current player and
// applies starting money plus the stat-threshold ability charges.
func (g *Game) selectCharacter(p *Player, characterID string) error {
	if g.state.phase != PhaseSelect {
		return fmt.Errorf("%w: character selection is closed", ErrPhase)
	}
	if p.ID != g.CurrentPlayerID() {
		return fmt.Errorf("%w: not %s's turn to select", ErrPhase, p.ID)
	}
	if p.Character != nil {
		return fmt.Errorf("%w: character already selected", ErrPhase)
	}

	char, ok := character.ByID(g.roster, characterID)
	if !ok {
		return fmt.Errorf("%w: unknown character %q", ErrTarget, characterID)
	}
	for _, other := range g.players {
		if other.Character != nil && other.Character.ID == characterID {
			return fmt.Errorf("%w: character %q already taken", ErrTarget, characterID)
		}
	}

	p.Character = &char
	p.Money = g.cfg.Core.BaseStartingMoney + char.Stats.Capital*g.cfg.Stats.Capital.StartingMoneyBonus

	if char.Stats.Luck >= g.cfg.Stats.Luck.RedrawThreshold {
		p.LuckRedraws = g.cfg.Stats.Luck.RedrawCount
	}
	if h := hooksFor(p); h.extraRedraws != nil {
		p.LuckRedraws += h.extraRedraws(&g.cfg)
	}
	if char.Stats.Stamina >= g.cfg.Stats.Stamina.RerollThreshold {
		p.RerollsLeft = g.cfg.Stats.Stamina.RerollCount
	}

	g.say(fmt.Sprintf("%s joins the game! ($%d)", p.DisplayName(), p.Money))

	for _, other := range g.players {
		if other.Character == nil {
			g.current = (g.current + 1) % len(g.players)
			return nil
		}
	}

	// Everyone picked: open play with the first seat.
	g.current = 0
	g.messages = []string{"All characters selected! Game begins! " + g.players[0].DisplayName() + " rolls first."}
	g.beginTurn()
	return nil
}

// checkGameOver runs the win-condition evaluator after every applied
// command: last player standing, or highest net worth at the turn limit.
func (g *Game) checkGameOver() {
	if g.state.phase == PhaseSelect || g.state.phase == PhaseGameOver {
		return
	}

	var active []*Player
	for _, p := range g.players {
		if !p.Bankrupt {
			active = append(active, p)
		}
	}
	if len(active) == 1 {
		g.winner = active[0].ID
		g.winReason = "elimination"
		g.state = stateGameOver()
		g.say(active[0].DisplayName() + " wins!")
		return
	}

	if g.cfg.Core.MaxTurns > 0 && g.totalTurns >= g.cfg.Core.MaxTurns {
		best := active[0]
		bestWorth := g.netWorth(best)
		for _, p := range active[1:] {
			if w := g.netWorth(p); w > bestWorth {
				best, bestWorth = p, w
			}
		}
		g.winner = best.ID
		g.winReason = "turnLimit"
		g.state = stateGameOver()
		g.say(fmt.Sprintf("Turn limit reached. %s wins with $%d in assets!", best.DisplayName(), bestWorth))
	}
}
