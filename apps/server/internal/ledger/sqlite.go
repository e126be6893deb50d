package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const defaultLocalDBPath = "data/ladis_local.db"

type SQLiteService struct {
	db          *sql.DB
	log         logrus.FieldLogger
	recentLimit int
}

func NewSQLiteServiceFromEnv(logger logrus.FieldLogger) (*SQLiteService, error) {
	return NewSQLiteService(ledgerLocalDatabasePathFromEnv(), logger)
}

func NewSQLiteService(dbPath string, logger logrus.FieldLogger) (*SQLiteService, error) {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return nil, fmt.Errorf("empty sqlite database path")
	}
	if dbPath != ":memory:" {
		parent := filepath.Dir(dbPath)
		if parent != "" && parent != "." {
			if err := os.MkdirAll(parent, 0o755); err != nil {
				return nil, err
			}
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := db.ExecContext(ctx, `PRAGMA busy_timeout = 5000;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := ensureSQLiteLedgerSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &SQLiteService{
		db:          db,
		log:         logger.WithField("component", "ledger"),
		recentLimit: envIntOrDefault("LEDGER_RECENT_LIMIT", defaultRecentLimit),
	}, nil
}

func (s *SQLiteService) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *SQLiteService) RecordRound(ctx context.Context, rec RoundRecord) error {
	if err := rec.validate(); err != nil {
		return err
	}
	playersRaw, err := json.Marshal(nonNilPlayers(rec.Players))
	if err != nil {
		return err
	}
	nowMs := time.Now().UTC().UnixMilli()

	_, err = s.db.ExecContext(ctx, `
INSERT INTO round_history (
    room_code, round, played_at_ms, shuffling_team, settled, winner_team,
    bet, bet_won, bidder_seat, tricks_a, tricks_b, deficit_a, deficit_b,
    laddos_a, laddos_b, players_json, snapshot_b64, created_at_ms
)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`,
		normalizeRoomCode(rec.RoomCode), rec.Round, playedAtOrNow(rec.PlayedAt).UnixMilli(),
		rec.ShufflingTeam, boolToInt(rec.Settled), rec.WinnerTeam,
		rec.Bet, boolToInt(rec.BetWon), rec.BidderSeat,
		rec.Tricks[0], rec.Tricks[1], rec.Deficits[0], rec.Deficits[1],
		rec.Laddos[0], rec.Laddos[1], string(playersRaw), rec.SnapshotB64, nowMs,
	)
	if err != nil {
		s.log.WithError(err).WithField("room", rec.RoomCode).Error("record round failed")
		return err
	}
	s.trim(ctx)
	return nil
}

// trim keeps only the most recent recentLimit rows.
func (s *SQLiteService) trim(ctx context.Context) {
	_, err := s.db.ExecContext(ctx, `
DELETE FROM round_history
WHERE id NOT IN (
    SELECT id FROM round_history ORDER BY id DESC LIMIT ?
)`, s.recentLimit)
	if err != nil {
		s.log.WithError(err).Warn("trim round history failed")
	}
}

func (s *SQLiteService) ListRecent(ctx context.Context, roomCode string, limit int) ([]RoundRecord, error) {
	limit = clampLimit(limit)
	roomCode = normalizeRoomCode(roomCode)

	rows, err := s.db.QueryContext(ctx, `
SELECT room_code, round, played_at_ms, shuffling_team, settled, winner_team,
       bet, bet_won, bidder_seat, tricks_a, tricks_b, deficit_a, deficit_b,
       laddos_a, laddos_b, players_json, snapshot_b64
FROM round_history
WHERE (? = '' OR room_code = ?)
ORDER BY id DESC
LIMIT ?
`, roomCode, roomCode, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]RoundRecord, 0, limit)
	for rows.Next() {
		var rec RoundRecord
		var playedAtMs, settled, betWon int64
		var playersRaw string
		if err := rows.Scan(
			&rec.RoomCode, &rec.Round, &playedAtMs, &rec.ShufflingTeam, &settled, &rec.WinnerTeam,
			&rec.Bet, &betWon, &rec.BidderSeat, &rec.Tricks[0], &rec.Tricks[1],
			&rec.Deficits[0], &rec.Deficits[1], &rec.Laddos[0], &rec.Laddos[1],
			&playersRaw, &rec.SnapshotB64,
		); err != nil {
			return nil, err
		}
		rec.PlayedAt = time.UnixMilli(playedAtMs).UTC()
		rec.Settled = settled != 0
		rec.BetWon = betWon != 0
		if playersRaw != "" {
			_ = json.Unmarshal([]byte(playersRaw), &rec.Players)
		}
		items = append(items, rec)
	}
	return items, rows.Err()
}

func ensureSQLiteLedgerSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`
CREATE TABLE IF NOT EXISTS round_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    room_code TEXT NOT NULL,
    round INTEGER NOT NULL,
    played_at_ms INTEGER NOT NULL,
    shuffling_team INTEGER NOT NULL,
    settled INTEGER NOT NULL DEFAULT 0,
    winner_team INTEGER NOT NULL DEFAULT -1,
    bet INTEGER NOT NULL DEFAULT 0,
    bet_won INTEGER NOT NULL DEFAULT 0,
    bidder_seat INTEGER NOT NULL DEFAULT -1,
    tricks_a INTEGER NOT NULL DEFAULT 0,
    tricks_b INTEGER NOT NULL DEFAULT 0,
    deficit_a INTEGER NOT NULL DEFAULT 0,
    deficit_b INTEGER NOT NULL DEFAULT 0,
    laddos_a INTEGER NOT NULL DEFAULT 0,
    laddos_b INTEGER NOT NULL DEFAULT 0,
    players_json TEXT NOT NULL DEFAULT '[]',
    snapshot_b64 TEXT NOT NULL DEFAULT '',
    created_at_ms INTEGER NOT NULL
)`,
		`CREATE INDEX IF NOT EXISTS idx_round_history_room ON round_history(room_code, id)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func ledgerLocalDatabasePathFromEnv() string {
	candidates := []string{
		strings.TrimSpace(os.Getenv("LEDGER_SQLITE_PATH")),
		strings.TrimSpace(os.Getenv("LOCAL_DATABASE_PATH")),
	}
	for _, candidate := range candidates {
		if candidate != "" {
			return filepath.Clean(candidate)
		}
	}
	return defaultLocalDBPath
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func nonNilPlayers(players []string) []string {
	if players == nil {
		return []string{}
	}
	return players
}
