// Package gateway owns the websocket edge: connection lifecycle,
// frame decoding, and routing of client messages to table actors.
package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/auth"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/codec"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/lobby"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/table"
	"github.com/Ultimatthi/bridge-delta-null/bridge"
	"github.com/Ultimatthi/bridge-delta-null/card"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: Restrict in production
	},
}

// Connection represents a WebSocket client connection.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Gateway *Gateway

	// Set once the join handshake succeeds.
	Name    string
	Seat    bridge.Seat
	TableID string
	Table   *table.Table
}

// Gateway manages WebSocket connections.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	seatConns   map[string]map[bridge.Seat]*Connection // tableID -> seat
	nextConnID  uint64
	errSeq      uint64
	lobby       *lobby.Lobby
	auth        auth.Service // nil when auth is disabled
}

// New creates a new Gateway instance. The lobby must be wired to
// this gateway's SendToSeat afterwards.
func New(authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		seatConns:   make(map[string]map[bridge.Seat]*Connection),
		auth:        authService,
	}
}

// SetLobby attaches the lobby. Called once during startup wiring.
func (g *Gateway) SetLobby(lby *lobby.Lobby) {
	g.lobby = lby
}

// SendToSeat delivers a table broadcast frame to the connection
// occupying a seat. Frames to unseated or stalled connections are
// dropped.
func (g *Gateway) SendToSeat(tableID string, seat bridge.Seat, data []byte) {
	g.mu.RLock()
	var c *Connection
	if seats := g.seatConns[tableID]; seats != nil {
		c = seats[seat]
	}
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
			// Drop if buffer full
		}
	}
}

// HandleWebSocket handles WebSocket upgrade and connection.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	connID := fmt.Sprintf("conn_%d", g.nextConnID)
	c := &Connection{
		ID:      connID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Gateway: g,
		Seat:    bridge.SeatNone,
	}
	g.connections[connID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", connID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	msg, err := codec.DecodeClientMessage(data)
	if err != nil {
		log.Printf("[Gateway] Failed to decode: %v", err)
		c.sendError("bad_message", "invalid message format")
		return
	}

	switch msg.Type {
	case codec.TypeJoin:
		c.handleJoin(msg)
	case codec.TypeLockBid:
		c.handleLockBid(msg)
	case codec.TypePlayCard:
		c.handlePlayCard(msg)
	case codec.TypeTakeTrick:
		c.handleTakeTrick(msg)
	case codec.TypeLeaveGame:
		c.handleLeave()
	default:
		log.Printf("[Gateway] Unknown message type %q from %s", msg.Type, c.ID)
		c.sendError("bad_message", fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// handleJoin runs the seat handshake. It must be the first message on
// a connection; everything else is rejected until it succeeds.
func (c *Connection) handleJoin(msg codec.ClientMessage) {
	if c.Table != nil {
		c.sendError("already_joined", "already seated")
		return
	}

	name := msg.PlayerName
	if c.Gateway.auth != nil && msg.SessionToken != "" {
		_, username, ok := c.Gateway.auth.ResolveSession(msg.SessionToken)
		if !ok {
			c.sendError("invalid_session", "session token not recognized")
			return
		}
		name = username
	}
	if name == "" {
		name = "guest"
	}

	seat := bridge.SeatNone
	if msg.PlayerPosition != "" {
		parsed, err := bridge.ParseSeat(msg.PlayerPosition)
		if err != nil {
			c.sendError("bad_position", err.Error())
			return
		}
		seat = parsed
	}

	t, chosenSeat, err := c.Gateway.lobby.QuickStart(seat)
	if err != nil {
		c.sendError("lobby", err.Error())
		return
	}

	// Register the route before joining so the join broadcast reaches
	// this connection too.
	prev := c.Gateway.bindSeat(t.ID, chosenSeat, c)

	err = t.SubmitEvent(table.Event{Type: table.EventJoin, Seat: chosenSeat, Name: name})
	if errors.Is(err, bridge.ErrSeatTaken) {
		// The seat's human dropped without standing up. Take the seat
		// over as a reconnect; the table refuses while the previous
		// connection is still live.
		err = t.SubmitEvent(table.Event{Type: table.EventConnResume, Seat: chosenSeat, Name: name})
	}
	if err != nil {
		c.Gateway.restoreSeat(t.ID, chosenSeat, c, prev)
		c.sendError("join", err.Error())
		return
	}

	c.Name = name
	c.Seat = chosenSeat
	c.TableID = t.ID
	c.Table = t
	log.Printf("[Gateway] %s joined table %s at %s", name, t.ID, chosenSeat)
}

func (c *Connection) handleLockBid(msg codec.ClientMessage) {
	if c.Table == nil {
		c.sendError("not_joined", "join a table first")
		return
	}

	bt, err := bridge.ParseBidType(msg.BidType)
	if err != nil {
		c.sendError("bad_bid", err.Error())
		return
	}
	strain := bridge.StrainNone
	if bt == bridge.BidNormal {
		strain, err = bridge.ParseStrain(msg.BidSuit)
		if err != nil {
			c.sendError("bad_bid", err.Error())
			return
		}
	}

	c.Table.SubmitEvent(table.Event{
		Type:      table.EventLockBid,
		Seat:      c.Seat,
		BidType:   bt,
		BidLevel:  msg.BidLevel,
		BidStrain: strain,
	})
}

func (c *Connection) handlePlayCard(msg codec.ClientMessage) {
	if c.Table == nil {
		c.sendError("not_joined", "join a table first")
		return
	}

	played, err := card.Parse(msg.CardSuit, msg.CardValue)
	if err != nil {
		c.sendError("bad_card", err.Error())
		return
	}

	c.Table.SubmitEvent(table.Event{
		Type: table.EventPlayCard,
		Seat: c.Seat,
		Card: played,
	})
}

func (c *Connection) handleTakeTrick(msg codec.ClientMessage) {
	if c.Table == nil {
		c.sendError("not_joined", "join a table first")
		return
	}
	c.Table.SubmitEvent(table.Event{Type: table.EventTakeTrick, Seat: c.Seat})
}

func (c *Connection) handleLeave() {
	if c.Table == nil {
		return
	}
	c.Table.SubmitEvent(table.Event{Type: table.EventLeave, Seat: c.Seat})
	c.Gateway.unbindSeat(c.TableID, c.Seat, c)
	c.Table = nil
	c.TableID = ""
	c.Seat = bridge.SeatNone
}

func (c *Connection) sendError(code, msg string) {
	seq := atomic.AddUint64(&c.Gateway.errSeq, 1)
	env := codec.WrapError(seq, code, msg)
	data, err := json.Marshal(env)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// bindSeat routes a seat's frames to c and returns whichever
// connection held the route before, so a failed join can put it back.
func (g *Gateway) bindSeat(tableID string, seat bridge.Seat, c *Connection) *Connection {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.seatConns[tableID] == nil {
		g.seatConns[tableID] = make(map[bridge.Seat]*Connection)
	}
	prev := g.seatConns[tableID][seat]
	g.seatConns[tableID][seat] = c
	return prev
}

// restoreSeat undoes a provisional bind after a failed join.
func (g *Gateway) restoreSeat(tableID string, seat bridge.Seat, c, prev *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	seats := g.seatConns[tableID]
	if seats == nil || seats[seat] != c {
		return
	}
	if prev != nil {
		seats[seat] = prev
		return
	}
	delete(seats, seat)
	if len(seats) == 0 {
		delete(g.seatConns, tableID)
	}
}

func (g *Gateway) unbindSeat(tableID string, seat bridge.Seat, c *Connection) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if seats := g.seatConns[tableID]; seats != nil && seats[seat] == c {
		delete(seats, seat)
		if len(seats) == 0 {
			delete(g.seatConns, tableID)
		}
	}
}

func (g *Gateway) removeConnection(c *Connection) {
	g.mu.Lock()
	delete(g.connections, c.ID)
	remaining := len(g.connections)
	g.mu.Unlock()

	if c.Table != nil {
		// Keep the seat reserved briefly; the table reverts it to a
		// bot if the player does not come back.
		c.Table.SubmitEvent(table.Event{Type: table.EventConnLost, Seat: c.Seat})
		c.Gateway.unbindSeat(c.TableID, c.Seat, c)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, remaining)
}
