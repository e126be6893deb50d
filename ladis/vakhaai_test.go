package ladis

import (
	"errors"
	"testing"

	"ladis-lite/card"
)

func TestPlaceBet_RestartsCountdownOnHigherBid(t *testing.T) {
	g := newSeatedGame(t, Config{})

	ev, err := g.PlaceBet(pid(0), Bet4)
	if err != nil || ev != BettingCountdownStarted {
		t.Fatalf("PlaceBet(4) = %v, %v", ev, err)
	}
	if ev, left := g.CountdownTick(); ev != BettingTicked || left != DefaultCountdownTicks-1 {
		t.Fatalf("tick = %v, %d", ev, left)
	}
	g.CountdownTick()

	if _, err := g.PlaceBet(pid(2), Bet4); !errors.Is(err, ErrBetNotHigher) {
		t.Fatalf("expected ErrBetNotHigher, got %v", err)
	}
	if _, err := g.PlaceBet(pid(2), BetLevel(5)); !errors.Is(err, ErrInvalidBet) {
		t.Fatalf("expected ErrInvalidBet, got %v", err)
	}
	if got := g.Snapshot().Countdown; got != DefaultCountdownTicks-2 {
		t.Fatalf("rejected bid touched countdown: %d", got)
	}

	ev, err = g.PlaceBet(pid(1), Bet8)
	if err != nil || ev != BettingCountdownStarted {
		t.Fatalf("PlaceBet(8) = %v, %v", ev, err)
	}
	snap := g.Snapshot()
	if snap.Countdown != DefaultCountdownTicks {
		t.Fatalf("expected countdown restarted, got %d", snap.Countdown)
	}
	if snap.Bet == nil || snap.Bet.Seat != 1 || snap.Bet.Bet != Bet8 || snap.Bet.Active {
		t.Fatalf("unexpected bet %+v", snap.Bet)
	}
}

func TestSkipBet_StartsIdleCountdownOnly(t *testing.T) {
	g := newSeatedGame(t, Config{})

	ev, err := g.SkipBet(pid(0))
	if err != nil || ev != BettingCountdownStarted {
		t.Fatalf("first skip = %v, %v", ev, err)
	}
	g.CountdownTick()
	ev, err = g.SkipBet(pid(1))
	if err != nil || ev != BettingAck {
		t.Fatalf("second skip = %v, %v", ev, err)
	}
	if got := g.Snapshot().Countdown; got != DefaultCountdownTicks-1 {
		t.Fatalf("skip restarted countdown: %d", got)
	}
}

func TestCountdownExpiry(t *testing.T) {
	t.Run("no bid moves to trump selection", func(t *testing.T) {
		g := newSeatedGame(t, Config{CountdownTicks: 2})
		if _, err := g.SkipBet(pid(0)); err != nil {
			t.Fatalf("SkipBet err: %v", err)
		}
		if ev, left := g.CountdownTick(); ev != BettingTicked || left != 1 {
			t.Fatalf("tick = %v, %d", ev, left)
		}
		if ev, _ := g.CountdownTick(); ev != BettingClosed {
			t.Fatalf("expected closed, got %v", ev)
		}
		snap := g.Snapshot()
		if snap.Phase != PhaseChoosingHukum || snap.Bet != nil {
			t.Fatalf("unexpected state %v bet=%+v", snap.Phase, snap.Bet)
		}
		if ev, _ := g.CountdownTick(); ev != BettingStale {
			t.Fatalf("tick after close should be stale, got %v", ev)
		}
	})

	t.Run("bid activates bet mode", func(t *testing.T) {
		g := newSeatedGame(t, Config{CountdownTicks: 1})
		if _, err := g.PlaceBet(pid(2), Bet16); err != nil {
			t.Fatalf("PlaceBet err: %v", err)
		}
		if ev, _ := g.CountdownTick(); ev != BettingClosed {
			t.Fatalf("expected closed, got %v", ev)
		}
		snap := g.Snapshot()
		if snap.Phase != PhasePlaying || snap.BenchedSeat != 0 || snap.CurrentSeat != 2 {
			t.Fatalf("unexpected state phase=%v benched=%d current=%d", snap.Phase, snap.BenchedSeat, snap.CurrentSeat)
		}
		if snap.Trump.State != TrumpNone {
			t.Fatalf("expected no trump in bet mode, got %+v", snap.Trump)
		}
		if snap.Targets != [2]int{4, 4} {
			t.Fatalf("unexpected targets %v", snap.Targets)
		}
	})
}

func TestPlaceBet_MaxBetClosesAtOnce(t *testing.T) {
	g := newSeatedGame(t, Config{})
	if _, err := g.SkipBet(pid(0)); err != nil {
		t.Fatalf("SkipBet err: %v", err)
	}
	ev, err := g.PlaceBet(pid(3), Bet32)
	if err != nil || ev != BettingClosed {
		t.Fatalf("PlaceBet(32) = %v, %v", ev, err)
	}
	snap := g.Snapshot()
	if snap.Phase != PhasePlaying || snap.Countdown != 0 {
		t.Fatalf("expected playing with idle countdown, got %v/%d", snap.Phase, snap.Countdown)
	}
	if snap.Bet == nil || !snap.Bet.Active || snap.BenchedSeat != 1 {
		t.Fatalf("unexpected bet %+v benched=%d", snap.Bet, snap.BenchedSeat)
	}
	if ev, _ := g.CountdownTick(); ev != BettingStale {
		t.Fatalf("late tick should be stale, got %v", ev)
	}
	if _, err := g.PlaceBet(pid(0), Bet32); !errors.Is(err, ErrWrongPhase) {
		t.Fatalf("expected ErrWrongPhase, got %v", err)
	}
	if _, err := g.PlayCard(pid(1), g.Snapshot().Players[1].HandCards[0]); !errors.Is(err, ErrBenched) {
		t.Fatalf("expected ErrBenched, got %v", err)
	}
}

func TestSkipBet_NeverClosesOrResetsRunningCountdown(t *testing.T) {
	g := newSeatedGame(t, Config{})
	if _, err := g.PlaceBet(pid(0), Bet8); err != nil {
		t.Fatalf("PlaceBet err: %v", err)
	}
	if _, remaining := g.CountdownTick(); remaining != DefaultCountdownTicks-1 {
		t.Fatalf("remaining = %d", remaining)
	}
	for _, seat := range []int{1, 2, 3} {
		ev, err := g.SkipBet(pid(seat))
		if err != nil || ev != BettingAck {
			t.Fatalf("skip %d = %v, %v", seat, ev, err)
		}
		snap := g.Snapshot()
		if snap.Phase != PhaseVakhaaiCheck || snap.Countdown != DefaultCountdownTicks-1 {
			t.Fatalf("skip %d moved the window: phase=%v countdown=%d", seat, snap.Phase, snap.Countdown)
		}
	}
	// every seat skipping without a bid still waits for the countdown
	fresh := newSeatedGame(t, Config{})
	for seat := 0; seat < NumSeats; seat++ {
		if _, err := fresh.SkipBet(pid(seat)); err != nil {
			t.Fatalf("SkipBet err: %v", err)
		}
	}
	if snap := fresh.Snapshot(); snap.Phase != PhaseVakhaaiCheck || snap.Countdown != DefaultCountdownTicks {
		t.Fatalf("unexpected state %v countdown=%d", snap.Phase, snap.Countdown)
	}

	expireCountdown(t, g)
	snap := g.Snapshot()
	if snap.Phase != PhasePlaying || snap.Bet.Seat != 0 || snap.BenchedSeat != 2 {
		t.Fatalf("unexpected state %v bet=%+v benched=%d", snap.Phase, snap.Bet, snap.BenchedSeat)
	}
}

func TestBetMode_WonPaysDownDeficitAndSpillsShortfall(t *testing.T) {
	g := newSeatedGame(t, Config{})
	rigHands(t, g, [NumSeats]card.CardList{
		suitCards(card.Diamond, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
		suitCards(card.Heart, card.RankJack, card.RankQueen, card.RankKing, card.RankAce),
		suitCards(card.Club, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
		suitCards(card.Spade, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
	})
	g.scores = [2]TeamScore{{Deficit: 10}, {Deficit: 6}}

	if _, err := g.PlaceBet(pid(1), Bet16); err != nil {
		t.Fatalf("PlaceBet err: %v", err)
	}
	expireCountdown(t, g)
	if g.Phase() != PhasePlaying {
		t.Fatalf("expected playing, got %v", g.Phase())
	}

	var last PlayResult
	for !last.RoundOver {
		last = playFirstLegal(t, g)
		if last.TrickComplete && last.TrickWinner != 1 {
			t.Fatalf("expected bidder to win every trick, got %d", last.TrickWinner)
		}
		if err := g.Verify(); err != nil {
			t.Fatalf("Verify err: %v", err)
		}
	}
	res := last.Result
	if !res.BetWon || res.WinnerTeam != TeamB || res.Tricks[TeamB] != 4 {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.After[TeamB].Deficit != 0 || res.After[TeamA].Deficit != 20 {
		t.Fatalf("unexpected scores %+v", res.After)
	}
	if snap := g.Snapshot(); snap.DeckRemaining != 16 {
		t.Fatalf("bet mode must not deal the second batch, %d left", snap.DeckRemaining)
	}
}

func TestBetMode_LostEndsAsSoonAsTargetUnreachable(t *testing.T) {
	g := newSeatedGame(t, Config{})
	rigHands(t, g, [NumSeats]card.CardList{
		suitCards(card.Diamond, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
		suitCards(card.Heart, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
		concat(suitCards(card.Heart, card.RankAce), suitCards(card.Club, card.RankSeven, card.RankEight, card.RankNine)),
		suitCards(card.Spade, card.RankSeven, card.RankEight, card.RankNine, card.RankTen),
	})
	g.scores = [2]TeamScore{{Deficit: 10}, {Deficit: 6}}

	if _, err := g.PlaceBet(pid(1), Bet16); err != nil {
		t.Fatalf("PlaceBet err: %v", err)
	}
	expireCountdown(t, g)

	last := playFirstLegal(t, g) // bidder leads ♥7
	if last.TrickComplete {
		t.Fatalf("trick completed after one card")
	}
	if next := g.Snapshot().CurrentSeat; next != 2 {
		t.Fatalf("expected seat 2 next, got %d", next)
	}
	// seat 2 must follow with ♥A, then seat 0 closes the trick since seat 3 sits out
	playFirstLegal(t, g)
	last = playFirstLegal(t, g)
	if !last.TrickComplete || last.TrickWinner != 2 {
		t.Fatalf("expected seat 2 to take the trick, got %+v", last)
	}
	if !last.RoundOver {
		t.Fatalf("round should end once the bidder cannot reach 4 tricks")
	}
	res := last.Result
	if res.BetWon || res.WinnerTeam != TeamA {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.After[TeamB].Deficit != 22 || res.After[TeamA].Deficit != 0 {
		t.Fatalf("unexpected scores %+v", res.After)
	}
}

func TestSettleBet_LostClampsAtZero(t *testing.T) {
	scores := settleBet([2]TeamScore{{Deficit: 40}, {Deficit: 3}}, TeamB, Bet4, false)
	if scores[TeamB].Deficit != 0 || scores[TeamA].Deficit != 0 {
		t.Fatalf("unexpected scores %+v", scores)
	}
	scores = settleBet([2]TeamScore{{Deficit: 40}, {Deficit: 3}}, TeamA, Bet8, true)
	if scores[TeamA].Deficit != 32 || scores[TeamB].Deficit != 3 {
		t.Fatalf("unexpected scores %+v", scores)
	}
}
