package replay

// RoundScript describes a table of four players and the exact sequence of
// intents to feed the engine.
type RoundScript struct {
	Players        []string     `json:"players"`
	Deck           []string     `json:"deck,omitempty"`
	CountdownTicks int          `json:"countdown_ticks,omitempty"`
	CarryOverHands bool         `json:"carry_over_hands,omitempty"`
	Actions        []ScriptAction `json:"actions"`
	RNG            *RNGScript     `json:"rng,omitempty"`
}

// ScriptAction is one intent. Seat is ignored for tick and next_round.
type ScriptAction struct {
	Type string `json:"type"`
	Seat uint16 `json:"seat"`
	Bet  int    `json:"bet,omitempty"`
	Suit string `json:"suit,omitempty"`
	Card string `json:"card,omitempty"`
}

type RNGScript struct {
	Seed int64 `json:"seed"`
}

const (
	ActionBet       = "bet"
	ActionSkip      = "skip"
	ActionTick      = "tick"
	ActionTrump     = "trump"
	ActionPlay      = "play"
	ActionNextRound = "next_round"
)

const (
	EventRoundStart    = "roundStart"
	EventAction        = "action"
	EventBettingClosed = "bettingClosed"
	EventTrickComplete = "trickComplete"
	EventRoundEnd      = "roundEnd"
)

type ReplayTape struct {
	TapeVersion int           `json:"tape_version"`
	Seed        int64         `json:"seed"`
	Events      []ReplayEvent `json:"events"`
}

type ReplayEvent struct {
	Seq         uint64      `json:"seq"`
	Type        string      `json:"type"`
	Step        int32       `json:"step"`
	Action      *ScriptAction `json:"action,omitempty"`
	TrickWinner *uint16     `json:"trick_winner,omitempty"`
	Result      *ResultView `json:"result,omitempty"`
	State       StateView   `json:"state"`
}

// StateView is the full, unmasked table state after an event.
type StateView struct {
	Phase        string      `json:"phase"`
	Round        int         `json:"round"`
	Trick        int         `json:"trick"`
	CurrentSeat  int         `json:"current_seat"`
	HukumCaller  int         `json:"hukum_caller"`
	Trump        string      `json:"trump"`
	Bet          int         `json:"bet,omitempty"`
	BidderSeat   int         `json:"bidder_seat"`
	Countdown    int         `json:"countdown,omitempty"`
	BenchedSeat  int         `json:"benched_seat"`
	Tricks       [2]int      `json:"tricks"`
	Targets      [2]int      `json:"targets"`
	Deficits     [2]int      `json:"deficits"`
	Laddos       [2]int      `json:"laddos"`
	Hands        [4][]string `json:"hands"`
	CurrentTrick []string    `json:"current_trick,omitempty"`
}

type ResultView struct {
	Settled    bool   `json:"settled"`
	WinnerTeam int    `json:"winner_team"`
	Bet        int    `json:"bet,omitempty"`
	BetWon     bool   `json:"bet_won,omitempty"`
	Tricks     [2]int `json:"tricks"`
	Before     [2]int `json:"deficits_before"`
	After      [2]int `json:"deficits_after"`
}
