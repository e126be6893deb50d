package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type PostgresService struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewPostgresService(dsn string, logger logrus.FieldLogger) (*PostgresService, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, postgresSchema); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &PostgresService{db: db, log: logger.WithField("component", "ledger")}, nil
}

const postgresSchema = `
CREATE TABLE IF NOT EXISTS round_history (
    id BIGSERIAL PRIMARY KEY,
    room_code TEXT NOT NULL,
    round INTEGER NOT NULL,
    played_at TIMESTAMPTZ NOT NULL,
    shuffling_team SMALLINT NOT NULL,
    settled BOOLEAN NOT NULL DEFAULT FALSE,
    winner_team SMALLINT NOT NULL DEFAULT -1,
    bet INTEGER NOT NULL DEFAULT 0,
    bet_won BOOLEAN NOT NULL DEFAULT FALSE,
    bidder_seat SMALLINT NOT NULL DEFAULT -1,
    tricks INTEGER[] NOT NULL,
    deficits INTEGER[] NOT NULL,
    laddos INTEGER[] NOT NULL,
    players TEXT[] NOT NULL DEFAULT '{}',
    snapshot_b64 TEXT NOT NULL DEFAULT '',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS idx_round_history_room ON round_history(room_code, id DESC);
`

func (s *PostgresService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *PostgresService) RecordRound(ctx context.Context, rec RoundRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO round_history (
    room_code, round, played_at, shuffling_team, settled, winner_team,
    bet, bet_won, bidder_seat, tricks, deficits, laddos, players, snapshot_b64
)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
`,
		normalizeRoomCode(rec.RoomCode), rec.Round, playedAtOrNow(rec.PlayedAt),
		rec.ShufflingTeam, rec.Settled, rec.WinnerTeam,
		rec.Bet, rec.BetWon, rec.BidderSeat,
		arrayFromPair(rec.Tricks), arrayFromPair(rec.Deficits), arrayFromPair(rec.Laddos),
		pq.Array(nonNilPlayers(rec.Players)), rec.SnapshotB64,
	)
	if err != nil {
		s.log.WithError(err).WithField("room", rec.RoomCode).Error("record round failed")
	}
	return err
}

func (s *PostgresService) ListRecent(ctx context.Context, roomCode string, limit int) ([]RoundRecord, error) {
	limit = clampLimit(limit)
	roomCode = normalizeRoomCode(roomCode)

	rows, err := s.db.QueryContext(ctx, `
SELECT room_code, round, played_at, shuffling_team, settled, winner_team,
       bet, bet_won, bidder_seat, tricks, deficits, laddos, players, snapshot_b64
FROM round_history
WHERE ($1 = '' OR room_code = $1)
ORDER BY id DESC
LIMIT $2
`, roomCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var rec RoundRecord
		var tricks, deficits, laddos pq.Int64Array
		if err := rows.Scan(
			&rec.RoomCode, &rec.Round, &rec.PlayedAt, &rec.ShufflingTeam, &rec.Settled, &rec.WinnerTeam,
			&rec.Bet, &rec.BetWon, &rec.BidderSeat, &tricks, &deficits, &laddos,
			pq.Array(&rec.Players), &rec.SnapshotB64,
		); err != nil {
			return nil, err
		}
		rec.Tricks = pairFromArray(tricks)
		rec.Deficits = pairFromArray(deficits)
		rec.Laddos = pairFromArray(laddos)
		items = append(items, rec)
	}
	return items, rows.Err()
}

func pairFromArray(a pq.Int64Array) [2]int {
	var out [2]int
	for i := 0; i < len(a) && i < 2; i++ {
		out[i] = int(a[i])
	}
	return out
}

func arrayFromPair(p [2]int) pq.Int64Array {
	return pq.Int64Array{int64(p[0]), int64(p[1])}
}
