package codec

import (
	"strings"

	"ladis-lite/card"
	"ladis-lite/ladis"
)

// StateFromSnapshot converts an engine snapshot into the wire state. Hands
// should already be masked for the receiving viewer (Snapshot.ForSeat).
func StateFromSnapshot(snap ladis.Snapshot) *GameState {
	st := &GameState{
		Phase:         snap.Phase.String(),
		Players:       make([]Player, 0, len(snap.Players)),
		ShufflingTeam: int(snap.ShufflingTeam),
		HukumState:    trumpStateName(snap.Trump.State),
		CurrentTrick:  trickToWire(snap.CurrentTrick),
		Tricks:        TeamPair{Team0: snap.Tricks[0], Team1: snap.Tricks[1]},
		TeamScores: TeamScores{
			Team0: scoreToWire(snap.Scores[0]),
			Team1: scoreToWire(snap.Scores[1]),
		},
		RoundNumber:   snap.Round,
		HandNumber:    snap.TrickNumber,
		TargetTricks:  TeamPair{Team0: snap.Targets[0], Team1: snap.Targets[1]},
		DeckRemaining: snap.DeckRemaining,
	}

	st.CurrentPlayer = seatPtr(snap.CurrentSeat)
	st.HukumCaller = seatPtr(snap.HukumCaller)
	st.BenchedPlayer = seatPtr(snap.BenchedSeat)
	if snap.Trump.State == ladis.TrumpChosen {
		s := snap.Trump.Suit.Symbol()
		st.Hukum = &s
	}
	if snap.HasLead {
		s := snap.LeadSuit.Symbol()
		st.LeadSuit = &s
	}
	if snap.Countdown > 0 {
		n := snap.Countdown
		st.VakhaaiCountdown = &n
	}
	if snap.Bet != nil {
		st.VakhaaiCall = &VakhaaiCall{
			PlayerID:       snap.Bet.PlayerID,
			PlayerPosition: int(snap.Bet.Seat),
			Bet:            int(snap.Bet.Bet),
			Active:         snap.Bet.Active,
		}
	}
	if snap.LastTrick != nil {
		st.LastTrick = &CompletedTrick{
			Cards:  trickToWire(snap.LastTrick.Cards),
			Winner: int(snap.LastTrick.Winner),
		}
	}
	if snap.LastResult != nil {
		st.LastResult = resultToWire(snap.LastResult)
	}

	for _, p := range snap.Players {
		wp := Player{
			ID:        p.ID,
			Name:      p.Name,
			Position:  int(p.Seat),
			Team:      int(p.Team),
			HandCount: p.HandCount,
			Away:      p.Away,
		}
		if p.HandCards != nil {
			wp.Hand = cardsToWire(p.HandCards)
		}
		st.Players = append(st.Players, wp)
	}
	return st
}

func CardToWire(c card.Card) Card {
	id := c.ID()
	return Card{
		Suit: c.Suit().Symbol(),
		Rank: strings.TrimPrefix(id, c.Suit().Symbol()),
		ID:   id,
	}
}

func cardsToWire(cards []card.Card) []Card {
	out := make([]Card, 0, len(cards))
	for _, c := range cards {
		out = append(out, CardToWire(c))
	}
	return out
}

func trickToWire(trick []ladis.TrickCard) []TrickCard {
	out := make([]TrickCard, 0, len(trick))
	for _, tc := range trick {
		out = append(out, TrickCard{
			PlayerID: tc.PlayerID,
			Position: int(tc.Seat),
			Card:     CardToWire(tc.Card),
		})
	}
	return out
}

func scoreToWire(s ladis.TeamScore) TeamScore {
	return TeamScore{Points: s.Deficit, Laddos: s.Laddos()}
}

func resultToWire(r *ladis.RoundResult) *RoundSummary {
	out := &RoundSummary{
		Round:         r.Round,
		ShufflingTeam: int(r.ShufflingTeam),
		Settled:       r.Settled,
		Tricks:        TeamPair{Team0: r.Tricks[0], Team1: r.Tricks[1]},
		TeamScores: TeamScores{
			Team0: scoreToWire(r.After[0]),
			Team1: scoreToWire(r.After[1]),
		},
	}
	if r.WinnerTeam != ladis.NoTeam {
		w := int(r.WinnerTeam)
		out.WinnerTeam = &w
	}
	if r.Bet != nil {
		out.Bet = int(r.Bet.Bet)
		won := r.BetWon
		out.BetWon = &won
	}
	return out
}

func seatPtr(seat uint16) *int {
	if seat >= ladis.NumSeats {
		return nil
	}
	n := int(seat)
	return &n
}

func trumpStateName(s ladis.TrumpState) string {
	switch s {
	case ladis.TrumpChosen:
		return "chosen"
	case ladis.TrumpNone:
		return "none"
	default:
		return "pending"
	}
}
