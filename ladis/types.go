package ladis

import (
	"ladis-lite/card"
)

const (
	NumSeats = 4

	InvalidSeat uint16 = 65535
)

// Phase is where a round stands in its state machine.
type Phase byte

const (
	PhaseWaiting       Phase = 0
	PhaseDealingFirst  Phase = 1
	PhaseVakhaaiCheck  Phase = 2
	PhaseChoosingHukum Phase = 3
	PhaseDealingSecond Phase = 4
	PhasePlaying       Phase = 5
	PhaseRoundEnd      Phase = 6
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseWaiting:       "waiting",
	PhaseDealingFirst:  "dealing_first",
	PhaseVakhaaiCheck:  "vakhaai_check",
	PhaseChoosingHukum: "choosing_hukum",
	PhaseDealingSecond: "dealing_second",
	PhasePlaying:       "playing",
	PhaseRoundEnd:      "round_end",
}

func (p Phase) String() string {
	if s, ok := PhaseTypeDictionary[p]; ok {
		return s
	}
	return "unknown"
}

// Team is seat parity: even seats are team A (0), odd seats team B (1).
type Team byte

const (
	TeamA Team = 0
	TeamB Team = 1

	NoTeam Team = 255
)

func TeamOf(seat uint16) Team { return Team(seat % 2) }

func (t Team) Other() Team { return 1 - t }

// Seats returns the two seats belonging to t, lower seat first.
func (t Team) Seats() [2]uint16 {
	return [2]uint16{uint16(t), uint16(t) + 2}
}

// Teammate returns the other seat of the same team.
func Teammate(seat uint16) uint16 { return (seat + 2) % NumSeats }

// BetLevel is one of the four vakhaai stakes.
type BetLevel int

const (
	BetNone BetLevel = 0
	Bet4    BetLevel = 4
	Bet8    BetLevel = 8
	Bet16   BetLevel = 16
	Bet32   BetLevel = 32
)

var BetLevels = []BetLevel{Bet4, Bet8, Bet16, Bet32}

func (b BetLevel) Valid() bool {
	switch b {
	case Bet4, Bet8, Bet16, Bet32:
		return true
	}
	return false
}

// TrumpState separates "not chosen yet" from "no trump this round".
type TrumpState byte

const (
	TrumpPending TrumpState = iota
	TrumpChosen
	TrumpNone // bet mode: trump selection skipped
)

type Trump struct {
	State TrumpState
	Suit  card.Suit // meaningful only when State == TrumpChosen
}

// Is reports whether s is the trump suit of a round that has one.
func (t Trump) Is(s card.Suit) bool {
	return t.State == TrumpChosen && t.Suit == s
}

// VakhaaiCall is the single live bid of a round.
type VakhaaiCall struct {
	PlayerID string
	Seat     uint16
	Bet      BetLevel
	Active   bool // betting locked in and bet-mode live
}

type TrickCard struct {
	PlayerID string
	Seat     uint16
	Card     card.Card
}

// CompletedTrick keeps the last resolved trick for display.
type CompletedTrick struct {
	Cards  []TrickCard
	Winner uint16
}

// Trick sizes and targets.
const (
	cardsPerDeal      = 4
	firstDealSize     = NumSeats * cardsPerDeal
	shuffleTarget     = 4
	nonShuffleTarget  = 5
	betModeTarget     = 4
	shuffleWinCredit  = 10
	nonShuffleWinDebt = 5
	laddoSize         = 32
)
