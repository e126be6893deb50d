package ladis

import (
	"fmt"
	"math/rand"
	"testing"

	"ladis-lite/card"
)

func newSeatedGame(t *testing.T, cfg Config) *Game {
	t.Helper()
	if cfg.Seed == 0 {
		cfg.Seed = 7
	}
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	for i := 0; i < NumSeats; i++ {
		seat, err := g.Join(pid(i), fmt.Sprintf("player-%d", i))
		if err != nil {
			t.Fatalf("Join %d err: %v", i, err)
		}
		if seat != uint16(i) {
			t.Fatalf("expected seat %d, got %d", i, seat)
		}
	}
	return g
}

func pid(seat int) string { return fmt.Sprintf("p%d", seat) }

// rigHands replaces every hand and rebuilds the deck so that the 32-card
// accounting still holds: hands first, undealt remainder after g.dealt.
func rigHands(t *testing.T, g *Game, hands [NumSeats]card.CardList) {
	t.Helper()
	used := make(map[card.Card]bool)
	deck := make(card.CardList, 0, card.DeckSize)
	for seat, h := range hands {
		for _, c := range h {
			if used[c] {
				t.Fatalf("card %s rigged twice", c)
			}
			used[c] = true
			deck = append(deck, c)
		}
		g.players[seat].hand = append(card.CardList{}, h...)
	}
	g.dealt = len(deck)
	for _, c := range card.Deck {
		if !used[c] {
			deck = append(deck, c)
		}
	}
	g.deck = deck
	g.discard = nil
	if err := g.Verify(); err != nil {
		t.Fatalf("rigged state invalid: %v", err)
	}
}

func suitCards(s card.Suit, ranks ...byte) card.CardList {
	out := make(card.CardList, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, card.New(s, r))
	}
	return out
}

func concat(lists ...card.CardList) card.CardList {
	var out card.CardList
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}

var allRanks = []byte{
	card.RankSeven, card.RankEight, card.RankNine, card.RankTen,
	card.RankJack, card.RankQueen, card.RankKing, card.RankAce,
}

// legalCards lists the cards seat may play right now.
func legalCards(g *Game, seat uint16) card.CardList {
	g.mu.Lock()
	defer g.mu.Unlock()
	lead, hasLead := g.leadSuitLocked()
	var out card.CardList
	for _, c := range g.players[seat].hand {
		if IsValidPlay(c, g.players[seat].hand, lead, hasLead) {
			out = append(out, c)
		}
	}
	return out
}

// playFirstLegal plays the first legal card of the seat to act.
func playFirstLegal(t *testing.T, g *Game) PlayResult {
	t.Helper()
	snap := g.Snapshot()
	legal := legalCards(g, snap.CurrentSeat)
	if len(legal) == 0 {
		t.Fatalf("seat %d has no legal card", snap.CurrentSeat)
	}
	res, err := g.PlayCard(pid(int(snap.CurrentSeat)), legal[0])
	if err != nil {
		t.Fatalf("PlayCard seat=%d card=%s err: %v", snap.CurrentSeat, legal[0], err)
	}
	return res
}

func playRandomLegal(t *testing.T, g *Game, rng *rand.Rand) PlayResult {
	t.Helper()
	snap := g.Snapshot()
	legal := legalCards(g, snap.CurrentSeat)
	if len(legal) == 0 {
		t.Fatalf("seat %d has no legal card", snap.CurrentSeat)
	}
	c := legal[rng.Intn(len(legal))]
	res, err := g.PlayCard(pid(int(snap.CurrentSeat)), c)
	if err != nil {
		t.Fatalf("PlayCard seat=%d card=%s err: %v", snap.CurrentSeat, c, err)
	}
	return res
}

// expireCountdown ticks a running betting countdown down until the window
// closes.
func expireCountdown(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; i <= g.cfg.CountdownTicks; i++ {
		if ev, _ := g.CountdownTick(); ev == BettingClosed {
			return
		}
	}
	t.Fatalf("countdown never closed the window, phase %v", g.Phase())
}

func closeWithoutBet(t *testing.T, g *Game) {
	t.Helper()
	if _, err := g.SkipBet(pid(0)); err != nil {
		t.Fatalf("SkipBet err: %v", err)
	}
	expireCountdown(t, g)
	if g.Phase() != PhaseChoosingHukum {
		t.Fatalf("expected choosing_hukum, got %v", g.Phase())
	}
}
