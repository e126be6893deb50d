package replay

import (
	"fmt"
	"strings"

	"ladis-lite/card"
	"ladis-lite/ladis"
)

const defaultSeed = 1

type normalizedAction struct {
	kind string
	seat uint16
	bet  ladis.BetLevel
	suit card.Suit
	card card.Card
	script ScriptAction
}

type normalizedScript struct {
	players []string
	deck    card.CardList
	seed    int64
	ticks   int
	carry   bool
	actions []normalizedAction
}

func normalizeScript(script RoundScript) (normalizedScript, error) {
	var out normalizedScript
	out.seed = seedFromScript(script.RNG)
	out.ticks = script.CountdownTicks
	out.carry = script.CarryOverHands

	if len(script.Players) != ladis.NumSeats {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_players", Message: fmt.Sprintf("exactly %d players are required", ladis.NumSeats)}
	}
	if script.CountdownTicks < 0 {
		return out, &ReplayError{StepIndex: -1, Reason: "invalid_countdown", Message: "countdown_ticks must be >= 0"}
	}
	for i, name := range script.Players {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Seat %d", i)
		}
		out.players = append(out.players, name)
	}

	if len(script.Deck) > 0 {
		deck, err := parseCards(script.Deck)
		if err != nil {
			return out, &ReplayError{StepIndex: -1, Reason: "invalid_deck", Message: err.Error()}
		}
		out.deck = deck
	}

	for i, a := range script.Actions {
		na, err := normalizeAction(a)
		if err != nil {
			return out, &ReplayError{StepIndex: int32(i), Reason: err.reason, Message: err.msg}
		}
		out.actions = append(out.actions, na)
	}
	return out, nil
}

type scriptError struct {
	reason string
	msg    string
}

func normalizeAction(a ScriptAction) (normalizedAction, *scriptError) {
	na := normalizedAction{
		kind: strings.ToLower(strings.TrimSpace(a.Type)),
		seat: a.Seat,
		script: a,
	}
	na.script.Type = na.kind

	switch na.kind {
	case ActionTick, ActionNextRound:
		return na, nil
	case ActionBet, ActionSkip, ActionTrump, ActionPlay:
	default:
		return na, &scriptError{reason: "invalid_action", msg: fmt.Sprintf("unknown action type %q", a.Type)}
	}
	if int(a.Seat) >= ladis.NumSeats {
		return na, &scriptError{reason: "invalid_seat", msg: fmt.Sprintf("seat %d out of range", a.Seat)}
	}

	switch na.kind {
	case ActionBet:
		na.bet = ladis.BetLevel(a.Bet)
	case ActionTrump:
		s, err := card.ParseSuit(a.Suit)
		if err != nil {
			return na, &scriptError{reason: "invalid_suit", msg: err.Error()}
		}
		na.suit = s
	case ActionPlay:
		c, err := card.Parse(a.Card)
		if err != nil {
			return na, &scriptError{reason: "invalid_card", msg: err.Error()}
		}
		na.card = c
	}
	return na, nil
}

func parseCards(ids []string) (card.CardList, error) {
	out := make(card.CardList, 0, len(ids))
	for _, id := range ids {
		c, err := card.Parse(id)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func seedFromScript(rng *RNGScript) int64 {
	if rng == nil || rng.Seed == 0 {
		return defaultSeed
	}
	return rng.Seed
}

// seatID is the synthetic player id of a replayed seat.
func seatID(seat uint16) string {
	return fmt.Sprintf("seat-%d", seat)
}
