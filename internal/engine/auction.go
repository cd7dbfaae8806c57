package engine

import "fmt"

// placeBid accepts a bid from the bidder the ring cursor points at. A
// first bid must meet the starting bid; later bids must beat the
// current bid by the minimum increment; no bid may exceed cash.
func (g *Game) placeBid(p *Player, amount int) error {
	if g.state.phase != PhaseAuction {
		return fmt.Errorf("%w: no auction running", ErrPhase)
	}
	a := g.state.auction
	if a.Ring[a.Cursor].PlayerID != p.ID {
		return fmt.Errorf("%w: not %s's turn to bid", ErrPhase, p.ID)
	}

	minBid := g.cfg.Auction.StartingBid
	if a.Leader != "" {
		minBid = a.CurrentBid + g.cfg.Auction.MinimumIncrement
	}
	if amount < minBid {
		return fmt.Errorf("%w: bid must be at least $%d", ErrStructure, minBid)
	}
	if amount > p.Money {
		return fmt.Errorf("%w: bid exceeds cash", ErrFunds)
	}

	a.CurrentBid = amount
	a.Leader = p.ID
	g.say(fmt.Sprintf("%s bids $%d!", p.DisplayName(), amount))
	g.advanceAuction()
	return nil
}

// passAuction marks the cursor's bidder out of the ring.
func (g *Game) passAuction(p *Player) error {
	if g.state.phase != PhaseAuction {
		return fmt.Errorf("%w: no auction running", ErrPhase)
	}
	a := g.state.auction
	if a.Ring[a.Cursor].PlayerID != p.ID {
		return fmt.Errorf("%w: not %s's turn to bid", ErrPhase, p.ID)
	}

	a.Ring[a.Cursor].Passed = true
	g.say(p.DisplayName() + " passes.")

	remaining := 0
	for _, b := range a.Ring {
		if !b.Passed {
			remaining++
		}
	}
	switch {
	case remaining <= 1 && a.Leader != "":
		g.resolveAuction()
	case remaining == 0:
		sp, _ := g.board.Space(a.PropertyID)
		g.say(fmt.Sprintf("No bids. %s remains unowned.", sp.Name))
		g.state = stateTurnComplete()
	default:
		g.advanceAuction()
	}
	return nil
}

// advanceAuction moves the cursor to the next non-passed bidder. Coming
// back around to the leading bidder closes the auction.
func (g *Game) advanceAuction() {
	a := g.state.auction
	next := a.Cursor
	for i := 0; i < len(a.Ring); i++ {
		next = (next + 1) % len(a.Ring)
		b := a.Ring[next]
		if b.Passed {
			continue
		}
		if b.PlayerID == a.Leader {
			g.resolveAuction()
			return
		}
		a.Cursor = next
		g.say(g.playerByID(b.PlayerID).DisplayName() + "'s turn to bid.")
		return
	}

	// Everybody passed.
	if a.Leader != "" {
		g.resolveAuction()
		return
	}
	sp, _ := g.board.Space(a.PropertyID)
	g.say(fmt.Sprintf("No bids. %s remains unowned.", sp.Name))
	g.state = stateTurnComplete()
}

// resolveAuction transfers the property to the leading bidder at the
// winning bid.
func (g *Game) resolveAuction() {
	a := g.state.auction
	winner := g.playerByID(a.Leader)
	sp, _ := g.board.Space(a.PropertyID)

	winner.Money -= a.CurrentBid
	winner.Properties = append(winner.Properties, a.PropertyID)
	g.owners[a.PropertyID] = winner.ID
	g.say(fmt.Sprintf("%s wins the auction for %s at $%d!", winner.DisplayName(), sp.Name, a.CurrentBid))
	g.state = stateTurnComplete()
}
