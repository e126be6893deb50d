package ladis

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"ladis-lite/card"
)

type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	// seats
	players [NumSeats]*Player
	seated  int

	// round state
	phase       Phase
	round       int
	trickNumber int
	carried     bool

	deck    card.CardList
	dealt   int
	discard card.CardList

	shufflingTeam Team
	hukumCaller   uint16
	trump         Trump
	currentSeat   uint16

	trick     []TrickCard
	lastTrick *CompletedTrick
	tricks    [2]int
	targets   [2]int
	scores    [2]TeamScore

	bet       *VakhaaiCall
	benched   uint16
	countdown int

	lastResult *RoundResult
}

// PlayResult reports what a card play caused beyond moving the card.
type PlayResult struct {
	TrickComplete bool
	TrickWinner   uint16
	RoundOver     bool
	Result        *RoundResult
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.CountdownTicks == 0 {
		cfg.CountdownTicks = DefaultCountdownTicks
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Game{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(seed)),
		phase:       PhaseWaiting,
		round:       1,
		trickNumber: 1,
		hukumCaller: InvalidSeat,
		currentSeat: InvalidSeat,
		benched:     InvalidSeat,
	}, nil
}

// Join seats a player in the lowest free seat. The fourth join deals the
// first round.
func (g *Game) Join(playerID, name string) (uint16, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseWaiting {
		return InvalidSeat, ErrRoomFull
	}
	if g.playerByIDLocked(playerID) != nil {
		return InvalidSeat, ErrAlreadySeated
	}
	seat := InvalidSeat
	for s := uint16(0); s < NumSeats; s++ {
		if g.players[s] == nil {
			seat = s
			break
		}
	}
	if seat == InvalidSeat {
		return InvalidSeat, ErrRoomFull
	}

	p := &Player{ID: playerID, Name: name, Seat: seat, Team: TeamOf(seat)}
	p.clearHand()
	g.players[seat] = p
	g.seated++

	if g.seated == NumSeats {
		g.startRoundLocked(true)
	}
	return seat, nil
}

// Leave frees the seat while waiting; once the game runs the seat is only
// marked away since the round cannot continue without it.
func (g *Game) Leave(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.playerByIDLocked(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if g.phase == PhaseWaiting {
		g.players[p.Seat] = nil
		g.seated--
		return nil
	}
	p.Away = true
	return nil
}

// ChooseTrump is only accepted from the designated caller. In a freshly
// dealt round it also deals the second four cards from the same deck.
func (g *Game) ChooseTrump(playerID string, suit card.Suit) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseChoosingHukum {
		return ErrWrongPhase
	}
	p := g.playerByIDLocked(playerID)
	if p == nil {
		return ErrPlayerNotFound
	}
	if p.Seat != g.hukumCaller {
		return ErrNotHukumCaller
	}
	if suit > card.Spade {
		return ErrInvalidSuit
	}

	g.trump = Trump{State: TrumpChosen, Suit: suit}
	g.phase = PhaseDealingSecond
	if !g.carried && g.dealt == firstDealSize {
		dealSecond(g.deck, g.players)
		g.dealt = card.DeckSize
	}
	g.currentSeat = g.hukumCaller
	g.phase = PhasePlaying
	return nil
}

// PlayCard plays cardID for the seat whose turn it is, resolving the trick
// and settling the round when a boundary is crossed.
func (g *Game) PlayCard(playerID string, c card.Card) (PlayResult, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return PlayResult{}, ErrWrongPhase
	}
	p := g.playerByIDLocked(playerID)
	if p == nil {
		return PlayResult{}, ErrPlayerNotFound
	}
	if p.Seat == g.benched {
		return PlayResult{}, ErrBenched
	}
	if p.Seat != g.currentSeat {
		return PlayResult{}, ErrOutOfTurn
	}
	if err := g.playCardLocked(p, c); err != nil {
		return PlayResult{}, err
	}

	if len(g.trick) < g.trickSizeLocked() {
		g.currentSeat = g.nextSeatLocked(g.currentSeat)
		return PlayResult{}, nil
	}

	winner, err := g.resolveTrickLocked()
	if err != nil {
		return PlayResult{}, err
	}
	res := PlayResult{TrickComplete: true, TrickWinner: winner}
	if decided, winnerTeam := g.roundDecidedLocked(); decided {
		res.RoundOver = true
		res.Result = g.settleRoundLocked(winnerTeam)
		g.phase = PhaseRoundEnd
	}
	return res, nil
}

// StartNextRound resets the round counters and either keeps the leftover
// hands (carry-over policy) or deals a freshly shuffled deck. It reports
// whether a fresh deck was dealt.
func (g *Game) StartNextRound() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseRoundEnd {
		return false, ErrWrongPhase
	}
	g.round++
	fresh := !(g.cfg.CarryOverHands && g.handsCarryLocked())
	g.startRoundLocked(fresh)
	return fresh, nil
}

func (g *Game) startRoundLocked(fresh bool) {
	g.trickNumber = 1
	g.tricks = [2]int{}
	g.trick = nil
	g.lastTrick = nil
	g.trump = Trump{State: TrumpPending}
	g.bet = nil
	g.benched = InvalidSeat
	g.countdown = 0
	g.currentSeat = InvalidSeat

	g.shufflingTeam = determineShufflingTeam(g.scores, g.round)
	g.hukumCaller = determineHukumCaller(g.shufflingTeam, g.round)
	g.targets = targetTricks(g.shufflingTeam)
	g.carried = !fresh

	if fresh {
		g.phase = PhaseDealingFirst
		for _, p := range g.players {
			p.clearHand()
		}
		g.discard = nil
		if g.round == 1 && len(g.cfg.DeckOverride) > 0 {
			g.deck = append(card.CardList(nil), g.cfg.DeckOverride...)
		} else {
			g.deck = card.NewDeck().Shuffled(g.rng)
		}
		dealFirst(g.deck, g.players)
		g.dealt = firstDealSize
	}
	g.phase = PhaseVakhaaiCheck
}

// handsCarryLocked: every hand holds the same non-zero number of cards.
func (g *Game) handsCarryLocked() bool {
	n := len(g.players[0].hand)
	if n == 0 {
		return false
	}
	for _, p := range g.players[1:] {
		if len(p.hand) != n {
			return false
		}
	}
	return true
}

// roundDecidedLocked checks the round-end condition after a trick.
func (g *Game) roundDecidedLocked() (bool, Team) {
	remaining := len(g.players[g.currentSeat].hand)

	if g.bet != nil && g.bet.Active {
		bidder := TeamOf(g.bet.Seat)
		if g.tricks[bidder] >= g.targets[bidder] {
			return true, bidder
		}
		if g.tricks[bidder]+remaining < g.targets[bidder] {
			return true, bidder.Other()
		}
		return false, NoTeam
	}

	for _, t := range []Team{TeamA, TeamB} {
		if g.tricks[t] >= g.targets[t] {
			return true, t
		}
	}
	if remaining == 0 {
		return true, NoTeam
	}
	return false, NoTeam
}

func (g *Game) settleRoundLocked(winner Team) *RoundResult {
	res := &RoundResult{
		Round:         g.round,
		ShufflingTeam: g.shufflingTeam,
		WinnerTeam:    winner,
		Tricks:        g.tricks,
		Targets:       g.targets,
		Before:        g.scores,
	}
	switch {
	case g.bet != nil && g.bet.Active:
		bidder := TeamOf(g.bet.Seat)
		call := *g.bet
		res.Bet = &call
		res.BetWon = winner == bidder
		res.Settled = true
		g.scores = settleBet(g.scores, bidder, g.bet.Bet, res.BetWon)
	case winner != NoTeam:
		res.Settled = true
		g.scores = settleNormal(g.scores, g.shufflingTeam, winner)
	}
	res.After = g.scores
	g.lastResult = res
	return res
}

func (g *Game) playerByIDLocked(playerID string) *Player {
	for _, p := range g.players {
		if p != nil && p.ID == playerID {
			return p
		}
	}
	return nil
}

// SeatOf returns the seat of playerID, or InvalidSeat.
func (g *Game) SeatOf(playerID string) uint16 {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.playerByIDLocked(playerID); p != nil {
		return p.Seat
	}
	return InvalidSeat
}

func (g *Game) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// cardAccountingLocked counts every card across hands, discard, current
// trick and deck remainder. Each of the 32 cards must appear exactly once.
func (g *Game) cardAccountingLocked() error {
	counts := make(map[card.Card]int, card.DeckSize)
	for _, p := range g.players {
		if p == nil {
			continue
		}
		for _, c := range p.hand {
			counts[c]++
		}
	}
	for _, c := range g.discard {
		counts[c]++
	}
	for _, tc := range g.trick {
		counts[tc.Card]++
	}
	if g.dealt < len(g.deck) {
		for _, c := range g.deck[g.dealt:] {
			counts[c]++
		}
	}
	for _, c := range card.Deck {
		if counts[c] != 1 {
			return ErrInternal(fmt.Sprintf("card %s accounted %d times", c, counts[c]))
		}
	}
	return nil
}

// Verify checks the card-conservation and turn invariants. A non-nil error
// is always an InternalError.
func (g *Game) Verify() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.seated < NumSeats || g.phase == PhaseWaiting {
		return nil
	}
	if err := g.cardAccountingLocked(); err != nil {
		return err
	}
	if len(g.trick) > g.trickSizeLocked() {
		return ErrInternal(fmt.Sprintf("trick holds %d cards", len(g.trick)))
	}
	if g.phase == PhasePlaying {
		if g.currentSeat >= NumSeats || g.currentSeat == g.benched {
			return ErrInternal(fmt.Sprintf("current seat %d cannot act", g.currentSeat))
		}
		if len(g.players[g.currentSeat].hand) == 0 {
			return ErrInternal(fmt.Sprintf("current seat %d has no cards", g.currentSeat))
		}
	}
	for _, s := range g.scores {
		if s.Deficit < 0 {
			return ErrInternal("negative deficit")
		}
	}
	return nil
}
