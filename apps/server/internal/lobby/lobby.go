package lobby

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"ladis-lite/apps/server/internal/ledger"
	"ladis-lite/apps/server/internal/room"
	"ladis-lite/ladis"
)

const (
	codeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeAttempts = 16
)

// Lobby is the registry of live rooms keyed by room code.
type Lobby struct {
	mu    sync.RWMutex
	rooms map[string]*room.Room

	cfg     room.Config
	ledger  ledger.Service
	log     logrus.FieldLogger
	newCode func() (string, error)
}

func New(cfg room.Config, ledgerService ledger.Service, logger logrus.FieldLogger) *Lobby {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Lobby{
		rooms:   make(map[string]*room.Room),
		cfg:     cfg,
		ledger:  ledgerService,
		log:     logger.WithField("component", "lobby"),
		newCode: randomCode,
	}
}

// Create registers a room under a fresh unique code. deliver routes the
// room's outbound messages.
func (l *Lobby) Create(deliver room.Deliver) (*room.Room, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == codeAttempts {
			return nil, fmt.Errorf("lobby: no free room code after %d attempts", codeAttempts)
		}
		c, err := l.newCode()
		if err != nil {
			return nil, err
		}
		if _, taken := l.rooms[c]; !taken {
			code = c
			break
		}
	}

	r, err := room.New(code, l.cfg, room.Deps{
		Deliver:  deliver,
		Ledger:   l.ledger,
		Logger:   l.log.WithField("component", "room"),
		OnClosed: l.removeRoom,
	})
	if err != nil {
		return nil, err
	}
	l.rooms[code] = r
	l.log.WithFields(logrus.Fields{"room": code, "rooms": len(l.rooms)}).Info("room registered")
	return r, nil
}

// Get returns the live room for code.
func (l *Lobby) Get(code string) (*room.Room, error) {
	code = NormalizeCode(code)
	l.mu.RLock()
	defer l.mu.RUnlock()
	r, ok := l.rooms[code]
	if !ok || r.IsClosed() {
		return nil, ladis.ErrRoomNotFound
	}
	return r, nil
}

func (l *Lobby) Count() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.rooms)
}

// ListRooms returns the codes of all registered rooms, sorted.
func (l *Lobby) ListRooms() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	codes := make([]string, 0, len(l.rooms))
	for code := range l.rooms {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// Close shuts down every room.
func (l *Lobby) Close() {
	l.mu.RLock()
	rooms := make([]*room.Room, 0, len(l.rooms))
	for _, r := range l.rooms {
		rooms = append(rooms, r)
	}
	l.mu.RUnlock()

	for _, r := range rooms {
		r.Close()
	}
}

// removeRoom evicts r unless its code was already reused.
func (l *Lobby) removeRoom(r *room.Room) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if cur, ok := l.rooms[r.Code]; ok && cur == r {
		delete(l.rooms, r.Code)
		l.log.WithFields(logrus.Fields{"room": r.Code, "rooms": len(l.rooms)}).Info("room evicted")
	}
}

func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func randomCode() (string, error) {
	var b strings.Builder
	base := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, base)
		if err != nil {
			return "", err
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String(), nil
}
