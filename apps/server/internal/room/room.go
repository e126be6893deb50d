package room

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"ladis-lite/apps/server/internal/codec"
	"ladis-lite/apps/server/internal/ledger"
	"ladis-lite/card"
	"ladis-lite/ladis"
)

// Room is one game session run as an actor: every mutation goes through the
// events channel and is handled on the run goroutine.
type Room struct {
	Code string

	cfg Config
	log logrus.FieldLogger

	mu       sync.RWMutex
	game     *ladis.Game
	members  map[string]uint16 // playerID -> seat
	closed   bool
	stopOnce sync.Once

	events chan Event
	done   chan struct{}

	// Owned by the run goroutine; nil when idle.
	countdown *time.Ticker
	roundEnd  *time.Timer

	deliver  Deliver
	ledger   ledger.Service
	onClosed func(*Room)
}

type Config struct {
	Game              ladis.Config
	CountdownInterval time.Duration
	RoundEndDelay     time.Duration
}

// Deliver hands one outbound message to the connection of playerID. It must
// not block.
type Deliver func(playerID string, msg codec.ServerMessage)

type Deps struct {
	Deliver Deliver
	Ledger  ledger.Service
	Logger  logrus.FieldLogger
	// OnClosed runs on the room goroutine once the room has shut down.
	OnClosed func(*Room)
}

type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventPlaceBet
	EventSkipBet
	EventChooseTrump
	EventPlayCard
	EventClose
)

var eventTypeNames = map[EventType]string{
	EventJoin:        "join",
	EventLeave:       "leave",
	EventPlaceBet:    "place_bet",
	EventSkipBet:     "skip_bet",
	EventChooseTrump: "choose_trump",
	EventPlayCard:    "play_card",
	EventClose:       "close",
}

func (t EventType) String() string {
	if s, ok := eventTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("event(%d)", int(t))
}

// Event is a message to the room actor.
type Event struct {
	Type     EventType
	PlayerID string
	Name     string
	// Creator marks the join of the player who created the room.
	Creator  bool
	Bet      ladis.BetLevel
	Suit     card.Suit
	Card     card.Card
	Response chan error
}

const (
	defaultCountdownInterval = time.Second
	defaultRoundEndDelay     = 3 * time.Second
	maxNameRunes             = 24
)

// New creates the room and starts its actor goroutine.
func New(code string, cfg Config, deps Deps) (*Room, error) {
	if cfg.CountdownInterval <= 0 {
		cfg.CountdownInterval = defaultCountdownInterval
	}
	if cfg.RoundEndDelay <= 0 {
		cfg.RoundEndDelay = defaultRoundEndDelay
	}
	game, err := ladis.NewGame(cfg.Game)
	if err != nil {
		return nil, err
	}
	logger := deps.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	r := &Room{
		Code:     code,
		cfg:      cfg,
		log:      logger.WithField("room", code),
		game:     game,
		members:  make(map[string]uint16),
		events:   make(chan Event, 256),
		done:     make(chan struct{}),
		deliver:  deps.Deliver,
		ledger:   deps.Ledger,
		onClosed: deps.OnClosed,
	}

	go r.run()

	r.log.Info("room created")
	return r, nil
}

// run is the main actor loop
func (r *Room) run() {
	defer r.stopTimers()

	for {
		select {
		case event := <-r.events:
			err := r.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-tickerC(r.countdown):
			r.handleCountdownTick()
		case <-timerC(r.roundEnd):
			r.handleRoundEndTimer()
		case <-r.done:
			r.log.Info("room closed")
			if r.onClosed != nil {
				r.onClosed(r)
			}
			return
		}
	}
}

func (r *Room) handleEvent(e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed && e.Type != EventClose {
		return ladis.ErrRoomClosed
	}

	var err error
	switch e.Type {
	case EventJoin:
		err = r.handleJoin(e.PlayerID, e.Name, e.Creator)
	case EventLeave:
		err = r.handleLeave(e.PlayerID)
	case EventPlaceBet:
		err = r.handlePlaceBet(e.PlayerID, e.Bet)
	case EventSkipBet:
		err = r.handleSkipBet(e.PlayerID)
	case EventChooseTrump:
		err = r.handleChooseTrump(e.PlayerID, e.Suit)
	case EventPlayCard:
		err = r.handlePlayCard(e.PlayerID, e.Card)
	case EventClose:
		r.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}

	if err != nil {
		var internal ladis.InternalError
		if errors.As(err, &internal) {
			r.failLocked(err)
			return err
		}
		r.log.WithFields(logrus.Fields{
			"player": e.PlayerID,
			"event":  e.Type.String(),
		}).WithError(err).Debug("intent rejected")
		return err
	}
	return r.verifyLocked()
}

func (r *Room) handleJoin(playerID, name string, creator bool) error {
	if _, exists := r.members[playerID]; exists {
		return ladis.ErrAlreadySeated
	}
	seat, err := r.game.Join(playerID, normalizeName(name, playerID))
	if err != nil {
		return err
	}
	r.members[playerID] = seat
	r.log.WithFields(logrus.Fields{"player": playerID, "seat": seat}).Info("player joined")

	if creator {
		r.sendLocked(playerID, codec.ServerMessage{
			Type:     codec.TypeRoomCreated,
			RoomCode: r.Code,
			PlayerID: playerID,
			State:    r.stateForLocked(r.game.Snapshot(), seat),
		})
		return nil
	}
	if r.game.Phase() == ladis.PhaseVakhaaiCheck {
		r.log.WithField("round", r.game.Snapshot().Round).Info("round started")
	}
	r.broadcastLocked(codec.TypeState)
	return nil
}

func (r *Room) handleLeave(playerID string) error {
	seat, ok := r.members[playerID]
	if !ok {
		return ladis.ErrPlayerNotFound
	}
	if err := r.game.Leave(playerID); err != nil {
		return err
	}
	delete(r.members, playerID)
	r.log.WithFields(logrus.Fields{"player": playerID, "seat": seat}).Info("player left")

	if len(r.members) == 0 {
		r.stopLocked()
		return nil
	}
	r.broadcastLocked(codec.TypePlayerLeft)
	return nil
}

func (r *Room) handlePlaceBet(playerID string, bet ladis.BetLevel) error {
	ev, err := r.game.PlaceBet(playerID, bet)
	if err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"player": playerID, "bet": int(bet)}).Debug("bet accepted")
	r.applyBettingEventLocked(ev)
	r.broadcastLocked(codec.TypeState)
	return nil
}

func (r *Room) handleSkipBet(playerID string) error {
	ev, err := r.game.SkipBet(playerID)
	if err != nil {
		return err
	}
	r.applyBettingEventLocked(ev)
	r.broadcastLocked(codec.TypeState)
	return nil
}

func (r *Room) handleChooseTrump(playerID string, suit card.Suit) error {
	if err := r.game.ChooseTrump(playerID, suit); err != nil {
		return err
	}
	r.log.WithFields(logrus.Fields{"player": playerID, "trump": suit.Symbol()}).Info("trump chosen")
	r.broadcastLocked(codec.TypeState)
	return nil
}

func (r *Room) handlePlayCard(playerID string, c card.Card) error {
	res, err := r.game.PlayCard(playerID, c)
	if err != nil {
		return err
	}
	r.broadcastLocked(codec.TypeState)
	if res.RoundOver {
		r.handleRoundOverLocked(res.Result)
	}
	return nil
}

func (r *Room) handleRoundOverLocked(result *ladis.RoundResult) {
	snap := r.game.Snapshot()
	fields := logrus.Fields{
		"round":    result.Round,
		"settled":  result.Settled,
		"deficits": fmt.Sprintf("%d/%d", result.After[0].Deficit, result.After[1].Deficit),
	}
	if result.Bet != nil {
		fields["bet"] = int(result.Bet.Bet)
		fields["bet_won"] = result.BetWon
	}
	r.log.WithFields(fields).Info("round settled")

	r.recordRound(snap, result)
	r.roundEnd = time.NewTimer(r.cfg.RoundEndDelay)
}

// handleCountdownTick advances the vakhaai countdown. A tick that arrives
// after the window closed stops the ticker without touching the game.
func (r *Room) handleCountdownTick() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}

	ev, left := r.game.CountdownTick()
	switch ev {
	case ladis.BettingStale:
		r.stopCountdown()
		return
	case ladis.BettingClosed:
		r.stopCountdown()
		r.logBettingClosedLocked()
	case ladis.BettingTicked:
		r.log.WithField("left", left).Debug("countdown tick")
	}
	r.broadcastLocked(codec.TypeState)
	_ = r.verifyLocked()
}

func (r *Room) handleRoundEndTimer() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roundEnd = nil
	if r.closed {
		return
	}

	fresh, err := r.game.StartNextRound()
	if err != nil {
		r.log.WithError(err).Warn("next round not started")
		return
	}
	r.log.WithFields(logrus.Fields{
		"round": r.game.Snapshot().Round,
		"fresh": fresh,
	}).Info("round started")
	r.broadcastLocked(codec.TypeState)
	_ = r.verifyLocked()
}

func (r *Room) applyBettingEventLocked(ev ladis.BettingEvent) {
	switch ev {
	case ladis.BettingCountdownStarted:
		r.restartCountdown()
	case ladis.BettingClosed:
		r.stopCountdown()
		r.logBettingClosedLocked()
	case ladis.BettingStale:
		r.stopCountdown()
	}
}

func (r *Room) logBettingClosedLocked() {
	snap := r.game.Snapshot()
	if snap.Bet != nil && snap.Bet.Active {
		r.log.WithFields(logrus.Fields{
			"bidder":  snap.Bet.Seat,
			"bet":     int(snap.Bet.Bet),
			"benched": snap.BenchedSeat,
		}).Info("vakhaai activated")
		return
	}
	r.log.WithField("caller", snap.HukumCaller).Info("betting closed without a bid")
}

// restartCountdown replaces any running ticker; at most one is live.
func (r *Room) restartCountdown() {
	r.stopCountdown()
	r.countdown = time.NewTicker(r.cfg.CountdownInterval)
}

func (r *Room) stopCountdown() {
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
}

func (r *Room) stopTimers() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopCountdown()
	if r.roundEnd != nil {
		r.roundEnd.Stop()
		r.roundEnd = nil
	}
}

func (r *Room) verifyLocked() error {
	if r.closed {
		return nil
	}
	if err := r.game.Verify(); err != nil {
		r.failLocked(err)
		return err
	}
	return nil
}

// failLocked handles a broken invariant: the room cannot continue.
func (r *Room) failLocked(err error) {
	r.log.WithError(err).Error("room state inconsistent, closing")
	for playerID := range r.members {
		r.sendLocked(playerID, codec.ErrorMessage(r.Code, err.Error()))
	}
	r.stopLocked()
}

// SubmitEvent queues e and waits for the actor to handle it.
func (r *Room) SubmitEvent(e Event) error {
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return ladis.ErrRoomClosed
	}

	select {
	case r.events <- e:
	case <-r.done:
		return ladis.ErrRoomClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-r.done:
		return ladis.ErrRoomClosed
	}
}

// Close shuts the room down and cancels its timers.
func (r *Room) Close() {
	if err := r.SubmitEvent(Event{Type: EventClose}); err != nil && !errors.Is(err, ladis.ErrRoomClosed) {
		r.log.WithError(err).Warn("close failed")
	}
}

func (r *Room) stopLocked() {
	r.closed = true
	r.stopOnce.Do(func() {
		close(r.done)
	})
}

func (r *Room) Done() <-chan struct{} { return r.done }

func (r *Room) IsClosed() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.closed
}

func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.members)
}

// Snapshot returns the unmasked engine state. It waits for any in-flight
// event, including its broadcast, to finish.
func (r *Room) Snapshot() ladis.Snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.game.Snapshot()
}

// StateFor returns the wire state as seen by playerID.
func (r *Room) StateFor(playerID string) (*codec.GameState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seat, ok := r.members[playerID]
	if !ok {
		return nil, ladis.ErrPlayerNotFound
	}
	return r.stateForLocked(r.game.Snapshot(), seat), nil
}

func (r *Room) stateForLocked(snap ladis.Snapshot, seat uint16) *codec.GameState {
	return codec.StateFromSnapshot(snap.ForSeat(seat))
}

func (r *Room) sendLocked(playerID string, msg codec.ServerMessage) {
	if r.deliver != nil {
		r.deliver(playerID, msg)
	}
}

// broadcastLocked sends msgType with a per-viewer state to every member.
func (r *Room) broadcastLocked(msgType string) {
	snap := r.game.Snapshot()
	for playerID, seat := range r.members {
		r.sendLocked(playerID, codec.ServerMessage{
			Type:     msgType,
			RoomCode: r.Code,
			PlayerID: playerID,
			State:    r.stateForLocked(snap, seat),
		})
	}
}

func normalizeName(raw, playerID string) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		short := playerID
		if len(short) > 6 {
			short = short[:6]
		}
		return "Player-" + short
	}
	if utf8.RuneCountInString(name) > maxNameRunes {
		name = string([]rune(name)[:maxNameRunes])
	}
	return name
}

func tickerC(t *time.Ticker) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}

func timerC(t *time.Timer) <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.C
}
