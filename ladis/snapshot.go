package ladis

import "ladis-lite/card"

type PlayerSnapshot struct {
	ID        string
	Name      string
	Seat      uint16
	Team      Team
	Away      bool
	HandCount int
	// HandCards is nil when hidden from the viewer.
	HandCards []card.Card
}

type Snapshot struct {
	Phase       Phase
	Round       int
	TrickNumber int

	CurrentSeat   uint16
	ShufflingTeam Team
	HukumCaller   uint16
	Trump         Trump

	CurrentTrick []TrickCard
	LeadSuit     card.Suit
	HasLead      bool
	LastTrick    *CompletedTrick

	Tricks  [2]int
	Targets [2]int
	Scores  [2]TeamScore

	Bet         *VakhaaiCall
	Countdown   int
	BenchedSeat uint16

	DeckRemaining int
	Players       []PlayerSnapshot

	LastResult *RoundResult
}

// Snapshot returns a copy of the full state with every hand visible.
func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Phase:         g.phase,
		Round:         g.round,
		TrickNumber:   g.trickNumber,
		CurrentSeat:   g.currentSeat,
		ShufflingTeam: g.shufflingTeam,
		HukumCaller:   g.hukumCaller,
		Trump:         g.trump,
		CurrentTrick:  append([]TrickCard{}, g.trick...),
		Tricks:        g.tricks,
		Targets:       g.targets,
		Scores:        g.scores,
		Countdown:     g.countdown,
		BenchedSeat:   g.benched,
		DeckRemaining: len(g.deck) - g.dealt,
	}
	s.LeadSuit, s.HasLead = g.leadSuitLocked()
	if g.lastTrick != nil {
		lt := CompletedTrick{Cards: append([]TrickCard{}, g.lastTrick.Cards...), Winner: g.lastTrick.Winner}
		s.LastTrick = &lt
	}
	if g.bet != nil {
		call := *g.bet
		s.Bet = &call
	}
	if g.lastResult != nil {
		res := *g.lastResult
		s.LastResult = &res
	}
	if s.DeckRemaining < 0 {
		s.DeckRemaining = 0
	}

	for seat := uint16(0); seat < NumSeats; seat++ {
		p := g.players[seat]
		if p == nil {
			continue
		}
		s.Players = append(s.Players, PlayerSnapshot{
			ID:        p.ID,
			Name:      p.Name,
			Seat:      p.Seat,
			Team:      p.Team,
			Away:      p.Away,
			HandCount: len(p.hand),
			HandCards: append([]card.Card{}, p.hand...),
		})
	}
	return s
}

// ForSeat masks every hand except the viewer's own and the benched seat's.
func (s Snapshot) ForSeat(viewer uint16) Snapshot {
	out := s
	out.Players = make([]PlayerSnapshot, len(s.Players))
	for i, ps := range s.Players {
		if ps.Seat != viewer && ps.Seat != s.BenchedSeat {
			ps.HandCards = nil
		}
		out.Players[i] = ps
	}
	return out
}

// PlayerBySeat looks up a seated player in the snapshot.
func (s Snapshot) PlayerBySeat(seat uint16) (PlayerSnapshot, bool) {
	for _, ps := range s.Players {
		if ps.Seat == seat {
			return ps, true
		}
	}
	return PlayerSnapshot{}, false
}
