package gateway

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"ladis-lite/apps/server/internal/codec"
	"ladis-lite/apps/server/internal/lobby"
	"ladis-lite/apps/server/internal/room"
	"ladis-lite/card"
	"ladis-lite/ladis"
)

const (
	readLimit    = 65536
	pongWait     = 60 * time.Second
	pingPeriod   = 30 * time.Second
	writeWait    = 10 * time.Second
	sendBufferSz = 256
)

var (
	errAlreadyInRoom = errors.New("already in a room")
	errNotInRoom     = errors.New("not in a room")
	errUnknownType   = errors.New("unknown message type")
	errInvalidCard   = errors.New("invalid card id")
)

type frame struct {
	messageType int
	data        []byte
}

// Connection represents a WebSocket client connection. Each connection is
// exactly one player.
type Connection struct {
	ID       string
	PlayerID string
	Conn     *websocket.Conn
	Send     chan frame
	Gateway  *Gateway

	log  logrus.FieldLogger
	quit chan struct{}

	mu       sync.Mutex
	encoding codec.Encoding
	room     *room.Room
}

// Gateway manages WebSocket connections
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	players     map[string]*Connection // playerID -> connection

	lobby    *lobby.Lobby
	upgrader websocket.Upgrader
	log      logrus.FieldLogger
}

// New creates a gateway. allowOrigin may be nil to accept every origin.
func New(lby *lobby.Lobby, allowOrigin func(origin string) bool, logger logrus.FieldLogger) *Gateway {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	g := &Gateway{
		connections: make(map[string]*Connection),
		players:     make(map[string]*Connection),
		lobby:       lby,
		log:         logger.WithField("component", "gateway"),
	}
	g.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if allowOrigin == nil {
				return true
			}
			return allowOrigin(r.Header.Get("Origin"))
		},
	}
	return g
}

// HandleWebSocket handles WebSocket upgrade and connection
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.WithError(err).Warn("upgrade failed")
		return
	}

	c := &Connection{
		ID:       uuid.NewString(),
		PlayerID: uuid.NewString(),
		Conn:     conn,
		Send:     make(chan frame, sendBufferSz),
		Gateway:  g,
		quit:     make(chan struct{}),
	}
	c.log = g.log.WithFields(logrus.Fields{"conn": c.ID, "player": c.PlayerID})

	g.mu.Lock()
	g.connections[c.ID] = c
	g.players[c.PlayerID] = c
	total := len(g.connections)
	g.mu.Unlock()

	c.log.WithField("total", total).Info("client connected")

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		close(c.quit)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(readLimit)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Warn("read error")
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			c.handleMessage(message, codec.EncodingJSON)
		case websocket.BinaryMessage:
			c.handleMessage(message, codec.EncodingProto)
		}
	}
}

func (c *Connection) handleMessage(data []byte, enc codec.Encoding) {
	c.mu.Lock()
	c.encoding = enc
	c.mu.Unlock()

	msg, err := codec.DecodeClient(data, enc)
	if err != nil {
		c.log.WithError(err).Debug("bad frame")
		c.sendError("", err)
		return
	}
	c.log.WithFields(logrus.Fields{"type": msg.Type, "room": msg.RoomCode}).Debug("message received")

	switch msg.Type {
	case codec.TypeCreateRoom:
		c.handleCreateRoom(msg)
	case codec.TypeJoinRoom:
		c.handleJoinRoom(msg)
	case codec.TypePlaceBet:
		c.submit(msg, room.Event{Type: room.EventPlaceBet, Bet: ladis.BetLevel(msg.Bet)})
	case codec.TypeSkipBet:
		c.submit(msg, room.Event{Type: room.EventSkipBet})
	case codec.TypeChooseTrump:
		suit, err := card.ParseSuit(msg.Suit)
		if err != nil {
			c.sendError(msg.RoomCode, ladis.ErrInvalidSuit)
			return
		}
		c.submit(msg, room.Event{Type: room.EventChooseTrump, Suit: suit})
	case codec.TypePlayCard:
		cd, err := card.Parse(msg.CardID)
		if err != nil {
			c.sendError(msg.RoomCode, errInvalidCard)
			return
		}
		c.submit(msg, room.Event{Type: room.EventPlayCard, Card: cd})
	default:
		c.sendError(msg.RoomCode, errUnknownType)
	}
}

func (c *Connection) handleCreateRoom(msg codec.ClientMessage) {
	if c.currentRoom() != nil {
		c.sendError("", errAlreadyInRoom)
		return
	}
	r, err := c.Gateway.lobby.Create(c.Gateway.deliver)
	if err != nil {
		c.log.WithError(err).Error("create room failed")
		c.sendError("", err)
		return
	}
	if err := r.SubmitEvent(room.Event{
		Type:     room.EventJoin,
		PlayerID: c.PlayerID,
		Name:     msg.PlayerName,
		Creator:  true,
	}); err != nil {
		r.Close()
		c.sendError(r.Code, err)
		return
	}
	c.setRoom(r)
}

func (c *Connection) handleJoinRoom(msg codec.ClientMessage) {
	if c.currentRoom() != nil {
		c.sendError(msg.RoomCode, errAlreadyInRoom)
		return
	}
	r, err := c.Gateway.lobby.Get(msg.RoomCode)
	if err != nil {
		c.sendError(msg.RoomCode, err)
		return
	}
	if err := r.SubmitEvent(room.Event{
		Type:     room.EventJoin,
		PlayerID: c.PlayerID,
		Name:     msg.PlayerName,
	}); err != nil {
		c.sendError(msg.RoomCode, err)
		return
	}
	c.setRoom(r)
}

// submit routes a room-scoped intent to the room this connection joined.
func (c *Connection) submit(msg codec.ClientMessage, e room.Event) {
	r := c.currentRoom()
	if r == nil {
		c.sendError(msg.RoomCode, errNotInRoom)
		return
	}
	if msg.RoomCode != "" && lobby.NormalizeCode(msg.RoomCode) != r.Code {
		c.sendError(msg.RoomCode, ladis.ErrRoomNotFound)
		return
	}
	e.PlayerID = c.PlayerID
	if err := r.SubmitEvent(e); err != nil {
		c.sendError(r.Code, err)
	}
}

// currentRoom returns the joined room, forgetting it once the room has shut
// down so the connection can create or join another.
func (c *Connection) currentRoom() *room.Room {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.room != nil && c.room.IsClosed() {
		c.room = nil
	}
	return c.room
}

func (c *Connection) setRoom(r *room.Room) {
	c.mu.Lock()
	c.room = r
	c.mu.Unlock()
}

func (c *Connection) sendError(roomCode string, err error) {
	c.send(codec.ErrorMessage(roomCode, err.Error()))
}

func (c *Connection) send(msg codec.ServerMessage) {
	c.mu.Lock()
	enc := c.encoding
	c.mu.Unlock()

	data, err := codec.EncodeServer(msg, enc)
	if err != nil {
		c.log.WithError(err).Error("encode failed")
		return
	}
	f := frame{messageType: websocket.TextMessage, data: data}
	if enc == codec.EncodingProto {
		f.messageType = websocket.BinaryMessage
	}
	select {
	case c.Send <- f:
	default:
		c.log.WithField("type", msg.Type).Warn("send buffer full, dropping message")
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case f := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(f.messageType, f.data); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.quit:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// removeConnection unregisters c and leaves its room.
func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	delete(g.players, c.PlayerID)
	total := len(g.connections)
	g.mu.Unlock()

	if r := c.currentRoom(); r != nil {
		if err := r.SubmitEvent(room.Event{Type: room.EventLeave, PlayerID: c.PlayerID}); err != nil && !errors.Is(err, ladis.ErrRoomClosed) {
			c.log.WithError(err).Warn("leave failed")
		}
		c.setRoom(nil)
	}
	c.log.WithField("total", total).Info("client disconnected")
}

// deliver sends a room message to one player's connection.
func (g *Gateway) deliver(playerID string, msg codec.ServerMessage) {
	g.mu.RLock()
	c := g.players[playerID]
	g.mu.RUnlock()

	if c != nil {
		c.send(msg)
	}
}

func (g *Gateway) ConnectionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.connections)
}
