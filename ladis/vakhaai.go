package ladis

// BettingEvent tells the caller what to do with its countdown timer.
type BettingEvent byte

const (
	// BettingAck: accepted, countdown untouched.
	BettingAck BettingEvent = iota
	// BettingCountdownStarted: (re)start the countdown from the full length.
	BettingCountdownStarted
	// BettingTicked: countdown decremented and still running.
	BettingTicked
	// BettingClosed: window closed, phase moved on; stop the countdown.
	BettingClosed
	// BettingStale: tick arrived after the window closed; stop the countdown.
	BettingStale
)

// PlaceBet submits a vakhaai bid. Only strictly higher bids are accepted;
// the maximum bid closes the window at once.
func (g *Game) PlaceBet(playerID string, bet BetLevel) (BettingEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseVakhaaiCheck {
		return BettingAck, ErrWrongPhase
	}
	p := g.playerByIDLocked(playerID)
	if p == nil {
		return BettingAck, ErrPlayerNotFound
	}
	if !bet.Valid() {
		return BettingAck, ErrInvalidBet
	}
	if bet <= g.currentBetLocked() {
		return BettingAck, ErrBetNotHigher
	}

	g.bet = &VakhaaiCall{PlayerID: p.ID, Seat: p.Seat, Bet: bet}
	if bet == Bet32 {
		g.closeBettingLocked()
		return BettingClosed, nil
	}
	g.countdown = g.cfg.CountdownTicks
	return BettingCountdownStarted, nil
}

// SkipBet passes. A skip only starts an idle countdown; it never resets a
// running one and never closes the window. The window closes on expiry.
func (g *Game) SkipBet(playerID string) (BettingEvent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseVakhaaiCheck {
		return BettingAck, ErrWrongPhase
	}
	if g.playerByIDLocked(playerID) == nil {
		return BettingAck, ErrPlayerNotFound
	}
	if g.countdown == 0 {
		g.countdown = g.cfg.CountdownTicks
		return BettingCountdownStarted, nil
	}
	return BettingAck, nil
}

// CountdownTick advances the betting countdown by one tick. It re-reads the
// phase first, so a tick that lost a race with a max bid is a no-op.
func (g *Game) CountdownTick() (BettingEvent, int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseVakhaaiCheck || g.countdown <= 0 {
		return BettingStale, 0
	}
	g.countdown--
	if g.countdown > 0 {
		return BettingTicked, g.countdown
	}
	g.closeBettingLocked()
	return BettingClosed, 0
}

func (g *Game) currentBetLocked() BetLevel {
	if g.bet == nil {
		return BetNone
	}
	return g.bet.Bet
}

func (g *Game) closeBettingLocked() {
	g.countdown = 0
	if g.bet == nil {
		g.phase = PhaseChoosingHukum
		return
	}
	g.activateBetLocked()
}

// activateBetLocked benches the bidder's teammate, drops trump, sets both
// targets to 4 and lets the bidder lead.
func (g *Game) activateBetLocked() {
	g.bet.Active = true
	g.benched = Teammate(g.bet.Seat)
	g.trump = Trump{State: TrumpNone}
	g.targets = [2]int{betModeTarget, betModeTarget}
	g.currentSeat = g.bet.Seat
	g.phase = PhasePlaying
}
