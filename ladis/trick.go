package ladis

import (
	"fmt"

	"ladis-lite/card"
)

// IsValidPlay applies follow-suit-if-able. hasLead=false means c leads the trick.
func IsValidPlay(c card.Card, hand card.CardList, lead card.Suit, hasLead bool) bool {
	if !hasLead {
		return true
	}
	if !hand.HasSuit(lead) {
		return true
	}
	return c.Suit() == lead
}

// TrickWinner returns the index of the winning play. Trump beats everything
// else; otherwise only lead-suit cards compete.
func TrickWinner(plays []TrickCard, trump Trump) int {
	if len(plays) == 0 {
		return -1
	}
	lead := plays[0].Card.Suit()
	best := 0
	for i := 1; i < len(plays); i++ {
		if cardBeats(plays[i].Card, plays[best].Card, lead, trump) {
			best = i
		}
	}
	return best
}

func cardBeats(a, b card.Card, lead card.Suit, trump Trump) bool {
	aTrump, bTrump := trump.Is(a.Suit()), trump.Is(b.Suit())
	switch {
	case aTrump && !bTrump:
		return true
	case bTrump && !aTrump:
		return false
	case aTrump && bTrump:
		return a.Beats(b)
	}
	if a.Suit() == lead && b.Suit() != lead {
		return true
	}
	if a.Suit() == lead && b.Suit() == lead {
		return a.Beats(b)
	}
	return false
}

func (g *Game) leadSuitLocked() (card.Suit, bool) {
	if len(g.trick) == 0 {
		return 0, false
	}
	return g.trick[0].Card.Suit(), true
}

// trickSizeLocked is 3 while a seat is benched, 4 otherwise.
func (g *Game) trickSizeLocked() int {
	if g.benched != InvalidSeat {
		return NumSeats - 1
	}
	return NumSeats
}

// nextSeatLocked advances clockwise, skipping the benched seat.
func (g *Game) nextSeatLocked(seat uint16) uint16 {
	next := (seat + 1) % NumSeats
	if next == g.benched {
		next = (next + 1) % NumSeats
	}
	return next
}

// playCardLocked moves c from p's hand into the current trick. Nothing is
// mutated when it returns an error.
func (g *Game) playCardLocked(p *Player, c card.Card) error {
	if p.hand.Index(c) < 0 {
		return ErrCardNotInHand
	}
	lead, hasLead := g.leadSuitLocked()
	if !IsValidPlay(c, p.hand, lead, hasLead) {
		return ErrMustFollowSuit
	}
	if len(g.trick) == 0 {
		g.lastTrick = nil
	}
	p.hand.Remove(c)
	g.trick = append(g.trick, TrickCard{PlayerID: p.ID, Seat: p.Seat, Card: c})
	return nil
}

// resolveTrickLocked awards the full trick and hands the lead to its winner.
func (g *Game) resolveTrickLocked() (uint16, error) {
	if len(g.trick) != g.trickSizeLocked() {
		return InvalidSeat, ErrInternal(fmt.Sprintf("resolving trick with %d cards, expected %d", len(g.trick), g.trickSizeLocked()))
	}
	idx := TrickWinner(g.trick, g.trump)
	winner := g.trick[idx].Seat
	g.tricks[TeamOf(winner)]++
	g.currentSeat = winner

	for _, tc := range g.trick {
		g.discard.Add(tc.Card)
	}
	g.lastTrick = &CompletedTrick{Cards: g.trick, Winner: winner}
	g.trick = nil
	g.trickNumber++
	return winner, nil
}
