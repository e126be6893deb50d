package replay

import (
	"errors"

	"ladis-lite/card"
	"ladis-lite/ladis"
)

const tapeVersion = 1

var errStaleTick = errors.New("countdown is not running")

// GenerateReplayTape seats four players, then feeds every action of script to
// a fresh engine. The same script always yields the same tape.
func GenerateReplayTape(script RoundScript) (*ReplayTape, error) {
	ns, err := normalizeScript(script)
	if err != nil {
		return nil, err
	}

	game, err := ladis.NewGame(ladis.Config{
		CountdownTicks: ns.ticks,
		CarryOverHands: ns.carry,
		Seed:           ns.seed,
		DeckOverride:   ns.deck,
	})
	if err != nil {
		return nil, &ReplayError{StepIndex: -1, Reason: "engine_init_failed", Message: err.Error()}
	}
	for i, name := range ns.players {
		if _, err := game.Join(seatID(uint16(i)), name); err != nil {
			return nil, &ReplayError{StepIndex: -1, Reason: "seat_init_failed", Message: err.Error()}
		}
	}

	b := &tapeBuilder{events: make([]ReplayEvent, 0, 64)}
	b.add(ReplayEvent{Type: EventRoundStart, Step: -1}, game.Snapshot())

	for i, a := range ns.actions {
		before := game.Snapshot()
		if err := applyAction(game, b, int32(i), a); err != nil {
			return nil, rejection(int32(i), err, before)
		}
	}

	return &ReplayTape{
		TapeVersion: tapeVersion,
		Seed:        ns.seed,
		Events:      b.events,
	}, nil
}

func applyAction(game *ladis.Game, b *tapeBuilder, step int32, a normalizedAction) error {
	id := seatID(a.seat)
	action := a.script
	recordAction := func() {
		b.add(ReplayEvent{Type: EventAction, Step: step, Action: &action}, game.Snapshot())
	}
	recordBetting := func(ev ladis.BettingEvent) {
		recordAction()
		if ev == ladis.BettingClosed {
			b.add(ReplayEvent{Type: EventBettingClosed, Step: step}, game.Snapshot())
		}
	}

	switch a.kind {
	case ActionBet:
		ev, err := game.PlaceBet(id, a.bet)
		if err != nil {
			return err
		}
		recordBetting(ev)
	case ActionSkip:
		ev, err := game.SkipBet(id)
		if err != nil {
			return err
		}
		recordBetting(ev)
	case ActionTick:
		ev, _ := game.CountdownTick()
		if ev == ladis.BettingStale {
			return errStaleTick
		}
		recordBetting(ev)
	case ActionTrump:
		if err := game.ChooseTrump(id, a.suit); err != nil {
			return err
		}
		recordAction()
	case ActionPlay:
		res, err := game.PlayCard(id, a.card)
		if err != nil {
			return err
		}
		recordAction()
		if res.TrickComplete {
			winner := res.TrickWinner
			b.add(ReplayEvent{Type: EventTrickComplete, Step: step, TrickWinner: &winner}, game.Snapshot())
		}
		if res.RoundOver {
			b.add(ReplayEvent{Type: EventRoundEnd, Step: step, Result: toResultView(res.Result)}, game.Snapshot())
		}
	case ActionNextRound:
		if _, err := game.StartNextRound(); err != nil {
			return err
		}
		b.add(ReplayEvent{Type: EventRoundStart, Step: step, Action: &action}, game.Snapshot())
	}
	return nil
}

func rejection(step int32, err error, before ladis.Snapshot) *ReplayError {
	expected := &ExpectedState{
		Phase:       before.Phase.String(),
		ActionSeat:  seatInt(before.CurrentSeat),
		HukumCaller: seatInt(before.HukumCaller),
	}
	if before.HasLead {
		expected.LeadSuit = before.LeadSuit.Symbol()
	}
	return &ReplayError{
		StepIndex: step,
		Reason:    reasonFor(err),
		Message:   err.Error(),
		Expected:  expected,
	}
}

func reasonFor(err error) string {
	switch {
	case errors.Is(err, ladis.ErrOutOfTurn):
		return "out_of_turn"
	case errors.Is(err, ladis.ErrWrongPhase):
		return "wrong_phase"
	case errors.Is(err, ladis.ErrNotHukumCaller):
		return "not_hukum_caller"
	case errors.Is(err, ladis.ErrBenched):
		return "benched"
	case errors.Is(err, ladis.ErrInvalidBet):
		return "invalid_bet"
	case errors.Is(err, ladis.ErrBetNotHigher):
		return "bet_not_higher"
	case errors.Is(err, ladis.ErrCardNotInHand):
		return "card_not_in_hand"
	case errors.Is(err, ladis.ErrMustFollowSuit):
		return "must_follow_suit"
	case errors.Is(err, errStaleTick):
		return "stale_tick"
	}
	return "action_rejected"
}

type tapeBuilder struct {
	seq    uint64
	events []ReplayEvent
}

func (b *tapeBuilder) add(e ReplayEvent, snap ladis.Snapshot) {
	b.seq++
	e.Seq = b.seq
	e.State = toStateView(snap)
	b.events = append(b.events, e)
}

func toStateView(s ladis.Snapshot) StateView {
	v := StateView{
		Phase:       s.Phase.String(),
		Round:       s.Round,
		Trick:       s.TrickNumber,
		CurrentSeat: seatInt(s.CurrentSeat),
		HukumCaller: seatInt(s.HukumCaller),
		Trump:       trumpLabel(s.Trump),
		BidderSeat:  -1,
		Countdown:   s.Countdown,
		BenchedSeat: seatInt(s.BenchedSeat),
		Tricks:      s.Tricks,
		Targets:     s.Targets,
	}
	if s.Bet != nil {
		v.Bet = int(s.Bet.Bet)
		v.BidderSeat = int(s.Bet.Seat)
	}
	for i, sc := range s.Scores {
		v.Deficits[i] = sc.Deficit
		v.Laddos[i] = sc.Laddos()
	}
	for _, p := range s.Players {
		if int(p.Seat) < len(v.Hands) {
			v.Hands[p.Seat] = card.CardList(p.HandCards).IDs()
		}
	}
	for _, tc := range s.CurrentTrick {
		v.CurrentTrick = append(v.CurrentTrick, tc.Card.ID())
	}
	return v
}

func toResultView(r *ladis.RoundResult) *ResultView {
	if r == nil {
		return nil
	}
	out := &ResultView{
		Settled:    r.Settled,
		WinnerTeam: -1,
		BetWon:     r.BetWon,
		Tricks:     r.Tricks,
		Before:     [2]int{r.Before[0].Deficit, r.Before[1].Deficit},
		After:      [2]int{r.After[0].Deficit, r.After[1].Deficit},
	}
	if r.WinnerTeam != ladis.NoTeam {
		out.WinnerTeam = int(r.WinnerTeam)
	}
	if r.Bet != nil {
		out.Bet = int(r.Bet.Bet)
	}
	return out
}

func trumpLabel(t ladis.Trump) string {
	switch t.State {
	case ladis.TrumpChosen:
		return t.Suit.Symbol()
	case ladis.TrumpNone:
		return "none"
	}
	return "pending"
}

func seatInt(seat uint16) int {
	if seat == ladis.InvalidSeat {
		return -1
	}
	return int(seat)
}
