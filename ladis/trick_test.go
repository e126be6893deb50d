package ladis

import (
	"testing"

	"ladis-lite/card"
)

func plays(cards ...card.Card) []TrickCard {
	out := make([]TrickCard, len(cards))
	for i, c := range cards {
		out[i] = TrickCard{PlayerID: pid(i), Seat: uint16(i), Card: c}
	}
	return out
}

func TestTrickWinner(t *testing.T) {
	spades := Trump{State: TrumpChosen, Suit: card.Spade}
	cases := []struct {
		name  string
		plays []TrickCard
		trump Trump
		want  int
	}{
		{
			name:  "single trump beats lead ace",
			plays: plays(card.CardHeart7, card.CardSpade8, card.CardHeartA, card.CardClubK),
			trump: spades,
			want:  1,
		},
		{
			name:  "higher trump wins",
			plays: plays(card.CardHeart7, card.CardSpade8, card.CardSpadeJ, card.CardHeartA),
			trump: spades,
			want:  2,
		},
		{
			name:  "off-suit ace never wins",
			plays: plays(card.CardHeart7, card.CardClubA, card.CardHeart9, card.CardDiamondA),
			trump: spades,
			want:  2,
		},
		{
			name:  "no trump in bet mode",
			plays: plays(card.CardHeart7, card.CardSpadeA, card.CardHeart8),
			trump: Trump{State: TrumpNone},
			want:  2,
		},
		{
			name:  "leader keeps it when nobody follows",
			plays: plays(card.CardDiamond7, card.CardClubA, card.CardHeartA, card.CardClubK),
			trump: Trump{State: TrumpChosen, Suit: card.Spade},
			want:  0,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrickWinner(tc.plays, tc.trump); got != tc.want {
				t.Fatalf("TrickWinner = %d, want %d", got, tc.want)
			}
		})
	}
	if got := TrickWinner(nil, spades); got != -1 {
		t.Fatalf("empty trick winner = %d", got)
	}
}

func TestIsValidPlay_FollowSuitIfAble(t *testing.T) {
	hand := card.CardList{card.CardHeart7, card.CardClub9, card.CardSpadeA}

	if !IsValidPlay(card.CardSpadeA, hand, card.Heart, false) {
		t.Fatalf("any card may lead")
	}
	if IsValidPlay(card.CardClub9, hand, card.Heart, true) {
		t.Fatalf("club must not be playable while holding a heart")
	}
	if !IsValidPlay(card.CardHeart7, hand, card.Heart, true) {
		t.Fatalf("following suit must be allowed")
	}
	if !IsValidPlay(card.CardSpadeA, hand, card.Diamond, true) {
		t.Fatalf("void in lead suit may play anything")
	}
}

func TestLastTrick_KeptUntilNextCard(t *testing.T) {
	g := newSeatedGame(t, Config{})
	closeWithoutBet(t, g)
	caller := g.Snapshot().HukumCaller
	if err := g.ChooseTrump(pid(int(caller)), card.Spade); err != nil {
		t.Fatalf("ChooseTrump err: %v", err)
	}

	var res PlayResult
	for i := 0; i < NumSeats; i++ {
		res = playFirstLegal(t, g)
	}
	if !res.TrickComplete {
		t.Fatalf("expected the fourth card to complete the trick")
	}
	snap := g.Snapshot()
	if snap.LastTrick == nil || len(snap.LastTrick.Cards) != NumSeats {
		t.Fatalf("expected last trick with 4 cards, got %+v", snap.LastTrick)
	}
	if snap.LastTrick.Winner != res.TrickWinner || snap.CurrentSeat != res.TrickWinner {
		t.Fatalf("winner mismatch: last=%d res=%d current=%d", snap.LastTrick.Winner, res.TrickWinner, snap.CurrentSeat)
	}
	if len(snap.CurrentTrick) != 0 || snap.HasLead {
		t.Fatalf("expected an empty trick after resolution")
	}

	playFirstLegal(t, g)
	if g.Snapshot().LastTrick != nil {
		t.Fatalf("expected last trick cleared by the next lead")
	}
}
