package room

import (
	"context"
	"encoding/base64"
	"time"

	"ladis-lite/apps/server/internal/codec"
	"ladis-lite/apps/server/internal/ledger"
	"ladis-lite/ladis"
)

const ledgerWriteTimeout = 3 * time.Second

// recordRound persists the settled round off the actor goroutine so the room
// never waits on storage.
func (r *Room) recordRound(snap ladis.Snapshot, result *ladis.RoundResult) {
	if r.ledger == nil || result == nil {
		return
	}
	rec := roundRecord(r.Code, snap, result)
	if data, err := codec.Marshal(codec.StateFromSnapshot(snap), codec.EncodingProto); err != nil {
		r.log.WithError(err).Warn("encode round snapshot failed")
	} else {
		rec.SnapshotB64 = base64.StdEncoding.EncodeToString(data)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ledgerWriteTimeout)
		defer cancel()
		if err := r.ledger.RecordRound(ctx, rec); err != nil {
			r.log.WithError(err).Warn("record round failed")
		}
	}()
}

func roundRecord(code string, snap ladis.Snapshot, result *ladis.RoundResult) ledger.RoundRecord {
	rec := ledger.RoundRecord{
		RoomCode:      code,
		Round:         result.Round,
		PlayedAt:      time.Now().UTC(),
		ShufflingTeam: int(result.ShufflingTeam),
		Settled:       result.Settled,
		WinnerTeam:    -1,
		BidderSeat:    -1,
		Tricks:        result.Tricks,
	}
	if result.WinnerTeam != ladis.NoTeam {
		rec.WinnerTeam = int(result.WinnerTeam)
	}
	if result.Bet != nil {
		rec.Bet = int(result.Bet.Bet)
		rec.BetWon = result.BetWon
		rec.BidderSeat = int(result.Bet.Seat)
	}
	for i, s := range result.After {
		rec.Deficits[i] = s.Deficit
		rec.Laddos[i] = s.Laddos()
	}
	for _, p := range snap.Players {
		rec.Players = append(rec.Players, p.Name)
	}
	return rec
}
