package engine

import "fmt"

// proposeTrade validates both sides of a proposal and opens the trade
// phase. An interrupted buy offer is restored once the trade resolves.
func (g *Game) proposeTrade(p *Player, proposal *TradeProposal) error {
	if err := g.requireActionPhase(); err != nil {
		return err
	}
	if !g.cfg.Trading.Enabled {
		return fmt.Errorf("%w: trading is disabled", ErrPhase)
	}
	if proposal == nil {
		return fmt.Errorf("%w: empty trade proposal", ErrTarget)
	}
	if !g.cfg.Trading.CanTradeInJail && p.InJail {
		return fmt.Errorf("%w: cannot trade from jail", ErrPhase)
	}

	target := g.playerByID(proposal.Target)
	if target == nil || target.Bankrupt || target.ID == p.ID {
		return fmt.Errorf("%w: invalid trade partner %q", ErrTarget, proposal.Target)
	}

	if err := g.validateTradeSide(p, proposal.Offered); err != nil {
		return err
	}
	if err := g.validateTradeSide(target, proposal.Requested); err != nil {
		return err
	}

	if !g.cfg.Trading.AllowMoneyInTrade && (proposal.OfferedMoney > 0 || proposal.RequestedMoney > 0) {
		return fmt.Errorf("%w: money is not tradeable", ErrStructure)
	}
	if proposal.OfferedMoney < 0 || proposal.RequestedMoney < 0 {
		return fmt.Errorf("%w: negative cash amount", ErrStructure)
	}
	if proposal.OfferedMoney > p.Money {
		return fmt.Errorf("%w: offered cash exceeds balance", ErrFunds)
	}
	if proposal.RequestedMoney > target.Money {
		return fmt.Errorf("%w: requested cash exceeds partner balance", ErrFunds)
	}

	g.state = stateTrade(&Trade{
		ProposerID:     p.ID,
		TargetID:       target.ID,
		Offered:        append([]int(nil), proposal.Offered...),
		Requested:      append([]int(nil), proposal.Requested...),
		OfferedMoney:   proposal.OfferedMoney,
		RequestedMoney: proposal.RequestedMoney,
		Return:         g.state.offer,
	})
	g.say(fmt.Sprintf("%s proposes a trade to %s!", p.DisplayName(), target.DisplayName()))
	return nil
}

// validateTradeSide checks one party's property list: owned by that
// party, buildingless, and unmortgaged unless configuration allows.
func (g *Game) validateTradeSide(owner *Player, spaceIDs []int) error {
	for _, id := range spaceIDs {
		if g.owners[id] != owner.ID {
			return fmt.Errorf("%w: %s does not own space %d", ErrOwnership, owner.ID, id)
		}
		if g.buildings[id] > 0 {
			return fmt.Errorf("%w: space %d carries buildings", ErrStructure, id)
		}
		if !g.cfg.Trading.AllowMortgagedProperties && g.mortgaged[id] {
			return fmt.Errorf("%w: space %d is mortgaged", ErrStructure, id)
		}
	}
	return nil
}

// closeTrade restores the phase the proposal interrupted.
func (g *Game) closeTrade(t *Trade) {
	if t.Return != nil {
		g.state = stateAwaitingBuy(t.Return)
		return
	}
	g.state = stateTurnComplete()
}

// acceptTrade performs the atomic bilateral swap. Only the target may
// accept.
func (g *Game) acceptTrade(p *Player) error {
	if g.state.phase != PhaseTrade {
		return fmt.Errorf("%w: no trade pending", ErrPhase)
	}
	t := g.state.trade
	if p.ID != t.TargetID {
		return fmt.Errorf("%w: only %s may accept", ErrPhase, t.TargetID)
	}

	proposer := g.playerByID(t.ProposerID)
	target := g.playerByID(t.TargetID)

	for _, id := range t.Offered {
		proposer.removeProperty(id)
		target.Properties = append(target.Properties, id)
		g.owners[id] = target.ID
	}
	for _, id := range t.Requested {
		target.removeProperty(id)
		proposer.Properties = append(proposer.Properties, id)
		g.owners[id] = proposer.ID
	}
	if t.OfferedMoney > 0 {
		proposer.Money -= t.OfferedMoney
		target.Money += t.OfferedMoney
	}
	if t.RequestedMoney > 0 {
		target.Money -= t.RequestedMoney
		proposer.Money += t.RequestedMoney
	}

	g.say(fmt.Sprintf("Trade accepted! %s and %s completed a trade.", proposer.DisplayName(), target.DisplayName()))
	g.closeTrade(t)
	return nil
}

// rejectTrade clears the proposal. Only the target may reject.
func (g *Game) rejectTrade(p *Player) error {
	if g.state.phase != PhaseTrade {
		return fmt.Errorf("%w: no trade pending", ErrPhase)
	}
	t := g.state.trade
	if p.ID != t.TargetID {
		return fmt.Errorf("%w: only %s may reject", ErrPhase, t.TargetID)
	}
	g.say(p.DisplayName() + " rejected the trade.")
	g.closeTrade(t)
	return nil
}

// cancelTrade withdraws the proposal. Only the proposer may cancel.
func (g *Game) cancelTrade(p *Player) error {
	if g.state.phase != PhaseTrade {
		return fmt.Errorf("%w: no trade pending", ErrPhase)
	}
	t := g.state.trade
	if p.ID != t.ProposerID {
		return fmt.Errorf("%w: only %s may cancel", ErrPhase, t.ProposerID)
	}
	g.say("Trade cancelled.")
	g.closeTrade(t)
	return nil
}
