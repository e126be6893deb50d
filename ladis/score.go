package ladis

// TeamScore holds a team's running deficit. Laddos are always derived from it.
type TeamScore struct {
	Deficit int
}

// Laddos is floor(deficit / 32).
func (s TeamScore) Laddos() int {
	if s.Deficit <= 0 {
		return 0
	}
	return s.Deficit / laddoSize
}

// RoundResult describes one settled (or unsettled) round.
type RoundResult struct {
	Round         int
	ShufflingTeam Team
	Settled       bool
	WinnerTeam    Team
	Bet           *VakhaaiCall
	BetWon        bool
	Tricks        [2]int
	Targets       [2]int
	Before        [2]TeamScore
	After         [2]TeamScore
}

// determineShufflingTeam: the team with the strictly larger deficit shuffles;
// on a tie the round number parity decides.
func determineShufflingTeam(scores [2]TeamScore, round int) Team {
	switch {
	case scores[TeamA].Deficit > scores[TeamB].Deficit:
		return TeamA
	case scores[TeamB].Deficit > scores[TeamA].Deficit:
		return TeamB
	default:
		return Team(round % 2)
	}
}

// determineHukumCaller alternates between the two non-shuffling seats:
// odd rounds the lower seat, even rounds the higher one.
func determineHukumCaller(shuffling Team, round int) uint16 {
	seats := shuffling.Other().Seats()
	if round%2 == 1 {
		return seats[0]
	}
	return seats[1]
}

func targetTricks(shuffling Team) [2]int {
	var t [2]int
	t[shuffling] = shuffleTarget
	t[shuffling.Other()] = nonShuffleTarget
	return t
}

// settleNormal applies the no-bet formulas for the team that reached its target.
func settleNormal(scores [2]TeamScore, shuffling, winner Team) [2]TeamScore {
	if winner == shuffling {
		scores[shuffling].Deficit = clampZero(scores[shuffling].Deficit - shuffleWinCredit)
	} else {
		scores[shuffling].Deficit += nonShuffleWinDebt
	}
	return scores
}

// settleBet applies the vakhaai formulas. A won bet pays down the bidder's
// deficit and spills any shortfall onto the opponent. A lost bet charges
// 2*bet netted against the opponent's deficit, which is then cleared.
func settleBet(scores [2]TeamScore, bidder Team, bet BetLevel, won bool) [2]TeamScore {
	opp := bidder.Other()
	amount := int(bet)
	if won {
		if scores[bidder].Deficit >= amount {
			scores[bidder].Deficit -= amount
		} else {
			shortfall := amount - scores[bidder].Deficit
			scores[bidder].Deficit = 0
			scores[opp].Deficit += shortfall
		}
		return scores
	}
	scores[bidder].Deficit = clampZero(2*amount - scores[opp].Deficit)
	scores[opp].Deficit = 0
	return scores
}

func clampZero(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
