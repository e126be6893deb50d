package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord(room string, round int) RoundRecord {
	return RoundRecord{
		RoomCode:      room,
		Round:         round,
		PlayedAt:      time.UnixMilli(1_700_000_000_000 + int64(round)).UTC(),
		ShufflingTeam: 1,
		Settled:       true,
		WinnerTeam:    1,
		Bet:           16,
		BetWon:        true,
		BidderSeat:    1,
		Tricks:        [2]int{0, 4},
		Deficits:      [2]int{20, 0},
		Laddos:        [2]int{0, 0},
		Players:       []string{"ann", "bob", "cid", "dee"},
		SnapshotB64:   "CgA=",
	}
}

func newTestSQLite(t *testing.T) *SQLiteService {
	t.Helper()
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	s, err := NewSQLiteService(":memory:", logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func exerciseService(t *testing.T, s Service) {
	ctx := context.Background()
	require.NoError(t, s.RecordRound(ctx, sampleRecord("ROOM01", 1)))
	require.NoError(t, s.RecordRound(ctx, sampleRecord("room02", 1)))
	require.NoError(t, s.RecordRound(ctx, sampleRecord("ROOM01", 2)))

	assert.Error(t, s.RecordRound(ctx, RoundRecord{Round: 1}))
	assert.Error(t, s.RecordRound(ctx, RoundRecord{RoomCode: "X"}))

	items, err := s.ListRecent(ctx, "room01", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Round, "newest first")
	assert.Equal(t, 1, items[1].Round)
	assert.Equal(t, sampleRecord("ROOM01", 2), items[0])

	all, err := s.ListRecent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, "ROOM02", all[1].RoomCode)

	one, err := s.ListRecent(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, one, 1)
}

func TestMemoryService(t *testing.T) {
	exerciseService(t, NewMemoryService(10))
}

func TestMemoryService_DropsOldest(t *testing.T) {
	s := NewMemoryService(2)
	ctx := context.Background()
	for round := 1; round <= 3; round++ {
		require.NoError(t, s.RecordRound(ctx, sampleRecord("R", round)))
	}
	items, err := s.ListRecent(ctx, "R", 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 3, items[0].Round)
	assert.Equal(t, 2, items[1].Round)
}

func TestSQLiteService(t *testing.T) {
	exerciseService(t, newTestSQLite(t))
}

func TestNewServiceFromEnv(t *testing.T) {
	t.Setenv("LEDGER_MODE", "")
	s, mode, err := NewServiceFromEnv(logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, "memory", mode)
	assert.IsType(t, &MemoryService{}, s)

	t.Setenv("LEDGER_MODE", "sqlite")
	t.Setenv("LEDGER_SQLITE_PATH", t.TempDir()+"/nested/ladis.db")
	s, mode, err = NewServiceFromEnv(logrus.StandardLogger())
	require.NoError(t, err)
	assert.Equal(t, "sqlite", mode)
	require.NoError(t, s.Close())

	t.Setenv("LEDGER_MODE", "cassandra")
	_, _, err = NewServiceFromEnv(logrus.StandardLogger())
	assert.Error(t, err)
}

func TestHTTPHandler_History(t *testing.T) {
	s := NewMemoryService(10)
	ctx := context.Background()
	require.NoError(t, s.RecordRound(ctx, sampleRecord("ROOM01", 1)))
	require.NoError(t, s.RecordRound(ctx, sampleRecord("ROOM02", 1)))

	mux := http.NewServeMux()
	NewHTTPHandler(s).RegisterRoutes(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/history?room=room02&limit=5", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Items []RoundRecord `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Items, 1)
	assert.Equal(t, "ROOM02", body.Items[0].RoomCode)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/history", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 20, parseLimit(""))
	assert.Equal(t, 20, parseLimit("abc"))
	assert.Equal(t, 7, parseLimit("7"))
	assert.Equal(t, 100, parseLimit("1000"))
}
