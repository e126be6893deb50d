package codec

// Client message types.
const (
	TypeCreateRoom  = "create_room"
	TypeJoinRoom    = "join_room"
	TypePlaceBet    = "place_bet"
	TypeSkipBet     = "skip_bet"
	TypeChooseTrump = "choose_trump"
	TypePlayCard    = "play_card"
)

// Server message types.
const (
	TypeRoomCreated = "room_created"
	TypeState       = "state"
	TypePlayerLeft  = "player_left"
	TypeError       = "error"
)

// ClientMessage is the flat envelope of every inbound intent.
type ClientMessage struct {
	Type       string `json:"type"`
	RoomCode   string `json:"roomCode,omitempty"`
	PlayerName string `json:"playerName,omitempty"`
	Bet        int    `json:"bet,omitempty"`
	Suit       string `json:"suit,omitempty"`
	CardID     string `json:"cardId,omitempty"`
}

type ServerMessage struct {
	Type     string     `json:"type"`
	RoomCode string     `json:"roomCode,omitempty"`
	PlayerID string     `json:"playerId,omitempty"`
	State    *GameState `json:"state,omitempty"`
	Message  string     `json:"message,omitempty"`
}

func StateMessage(roomCode string, st *GameState) ServerMessage {
	return ServerMessage{Type: TypeState, RoomCode: roomCode, State: st}
}

func ErrorMessage(roomCode, msg string) ServerMessage {
	return ServerMessage{Type: TypeError, RoomCode: roomCode, Message: msg}
}

type Card struct {
	Suit string `json:"suit"`
	Rank string `json:"rank"`
	ID   string `json:"id"`
}

type Player struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Position  int    `json:"position"`
	Team      int    `json:"team"`
	HandCount int    `json:"handCount"`
	Away      bool   `json:"away,omitempty"`
	// Hand is omitted for seats hidden from the receiver.
	Hand []Card `json:"hand,omitempty"`
}

type TrickCard struct {
	PlayerID string `json:"playerId"`
	Position int    `json:"position"`
	Card     Card   `json:"card"`
}

type CompletedTrick struct {
	Cards  []TrickCard `json:"cards"`
	Winner int         `json:"winner"`
}

type TeamPair struct {
	Team0 int `json:"team0"`
	Team1 int `json:"team1"`
}

type TeamScore struct {
	Points int `json:"points"`
	Laddos int `json:"laddos"`
}

type TeamScores struct {
	Team0 TeamScore `json:"team0"`
	Team1 TeamScore `json:"team1"`
}

type VakhaaiCall struct {
	PlayerID       string `json:"playerId"`
	PlayerPosition int    `json:"playerPosition"`
	Bet            int    `json:"bet"`
	Active         bool   `json:"active"`
}

type RoundSummary struct {
	Round         int        `json:"round"`
	ShufflingTeam int        `json:"shufflingTeam"`
	Settled       bool       `json:"settled"`
	WinnerTeam    *int       `json:"winnerTeam"`
	Bet           int        `json:"bet,omitempty"`
	BetWon        *bool      `json:"betWon,omitempty"`
	Tricks        TeamPair   `json:"tricks"`
	TeamScores    TeamScores `json:"teamScores"`
}

// GameState is the full room state as seen by one receiver.
type GameState struct {
	Phase            string          `json:"phase"`
	Players          []Player        `json:"players"`
	CurrentPlayer    *int            `json:"currentPlayer"`
	ShufflingTeam    int             `json:"shufflingTeam"`
	Hukum            *string         `json:"hukum"`
	HukumState       string          `json:"hukumState"`
	HukumCaller      *int            `json:"hukumCaller"`
	CurrentTrick     []TrickCard     `json:"currentTrick"`
	LeadSuit         *string         `json:"leadSuit"`
	LastTrick        *CompletedTrick `json:"lastTrick,omitempty"`
	Tricks           TeamPair        `json:"tricks"`
	TeamScores       TeamScores      `json:"teamScores"`
	VakhaaiCall      *VakhaaiCall    `json:"vakhaaiCall"`
	VakhaaiCountdown *int            `json:"vakhaaiCountdown,omitempty"`
	BenchedPlayer    *int            `json:"benchedPlayer"`
	RoundNumber      int             `json:"roundNumber"`
	HandNumber       int             `json:"handNumber"`
	TargetTricks     TeamPair        `json:"targetTricks"`
	DeckRemaining    int             `json:"deckRemaining"`
	LastResult       *RoundSummary   `json:"lastResult,omitempty"`
}
