package table

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/codec"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/ledger"
	"github.com/Ultimatthi/bridge-delta-null/bridge"
	"github.com/Ultimatthi/bridge-delta-null/bridge/bot"
	"github.com/Ultimatthi/bridge-delta-null/card"
)

// Table represents a single bridge table with an actor model. All
// game mutations happen on the actor goroutine; callers talk to it
// through SubmitEvent.
type Table struct {
	ID     string
	Config TableConfig

	mu       sync.RWMutex
	game     *bridge.Game
	conns    map[bridge.Seat]*PlayerConn
	closed   bool
	stopOnce sync.Once

	// Event channel for actor pattern
	events chan Event
	done   chan struct{}

	// Server sequence for event ordering
	serverSeq uint64

	// Timers and lifecycle metadata.
	botActAt   time.Time
	emptySince time.Time

	// Callback delivering an encoded frame to a seat's connection.
	send   func(seat bridge.Seat, data []byte)
	ledger ledger.Service

	// Fallback players, one per seat.
	brains [4]bot.Decider

	// Optional callbacks invoked after each deal is scored.
	dealEndHooks []DealEndHook
}

// TableConfig contains table settings.
type TableConfig struct {
	TotalDeals    int
	MinHumanSeats int
	Seed          int64
	PlayDelay     time.Duration // bot think time before a call or card
	TrickDelay    time.Duration // pause before a bot gathers a trick
	TickInterval  time.Duration
}

func (c *TableConfig) fillDefaults() {
	if c.MinHumanSeats <= 0 {
		c.MinHumanSeats = 1
	}
	if c.PlayDelay <= 0 {
		c.PlayDelay = 500 * time.Millisecond
	}
	if c.TrickDelay <= 0 {
		c.TrickDelay = time.Second
	}
	if c.TickInterval <= 0 {
		c.TickInterval = 50 * time.Millisecond
	}
}

// PlayerConn represents a connected player at the table.
type PlayerConn struct {
	Seat     bridge.Seat
	Name     string
	Online   bool
	LastSeen time.Time
}

// Event types for the actor message queue.
type EventType int

const (
	EventJoin EventType = iota
	EventLeave
	EventLockBid
	EventPlayCard
	EventTakeTrick
	EventConnLost
	EventConnResume
	EventClose
)

// Event represents a message to the table actor.
type Event struct {
	Type EventType
	Seat bridge.Seat
	Name string

	BidType   bridge.BidType
	BidLevel  int
	BidStrain bridge.Strain

	Card card.Card

	Timestamp time.Time
	Response  chan error
}

// DealEndInfo is emitted when a deal has been scored.
type DealEndInfo struct {
	TableID string
	Result  bridge.DealResult
}

// DealEndHook is a post-scoring callback.
type DealEndHook func(info DealEndInfo)

var ErrTableClosed = errors.New("table closed")

const offlineSeatTTL = 30 * time.Second

// New creates a new table.
func New(
	id string,
	cfg TableConfig,
	sendFn func(seat bridge.Seat, data []byte),
	ledgerService ledger.Service,
) *Table {
	cfg.fillDefaults()
	t := &Table{
		ID:         id,
		Config:     cfg,
		conns:      make(map[bridge.Seat]*PlayerConn),
		events:     make(chan Event, 256),
		done:       make(chan struct{}),
		send:       sendFn,
		ledger:     ledgerService,
		emptySince: time.Now(),
	}

	game, err := bridge.NewGame(bridge.Config{
		TotalDeals: cfg.TotalDeals,
		Seed:       cfg.Seed,
	})
	if err != nil {
		log.Printf("[Table %s] Failed to create game: %v", id, err)
		return nil
	}
	t.game = game

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	for i, seat := range bridge.Seats {
		t.brains[seat] = bot.NewRuleBrain(seed + int64(i))
	}

	// Start actor goroutine
	go t.run()

	log.Printf("[Table %s] Created (deals=%d, min_humans=%d)", id, cfg.TotalDeals, cfg.MinHumanSeats)
	return t
}

// run is the main actor loop.
func (t *Table) run() {
	ticker := time.NewTicker(t.Config.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case event := <-t.events:
			err := t.handleEvent(event)
			if event.Response != nil {
				event.Response <- err
			}
		case <-ticker.C:
			t.tick()
		case <-t.done:
			log.Printf("[Table %s] Actor stopped", t.ID)
			return
		}
	}
}

// handleEvent processes a single event.
func (t *Table) handleEvent(e Event) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed && e.Type != EventClose {
		return ErrTableClosed
	}

	switch e.Type {
	case EventJoin:
		return t.handleJoin(e.Seat, e.Name)
	case EventLeave:
		return t.handleLeave(e.Seat)
	case EventLockBid:
		return t.handleLockBid(e.Seat, e.BidType, e.BidLevel, e.BidStrain)
	case EventPlayCard:
		return t.handlePlayCard(e.Seat, e.Card)
	case EventTakeTrick:
		return t.handleTakeTrick(e.Seat)
	case EventConnLost:
		return t.handleConnLost(e.Seat, e.Timestamp)
	case EventConnResume:
		return t.handleConnResume(e.Seat, e.Name, e.Timestamp)
	case EventClose:
		t.stopLocked()
		return nil
	default:
		return fmt.Errorf("unknown event type: %d", e.Type)
	}
}

func (t *Table) handleJoin(seat bridge.Seat, name string) error {
	if err := t.game.SitDown(seat, name); err != nil {
		return err
	}
	now := time.Now()
	t.conns[seat] = &PlayerConn{Seat: seat, Name: name, Online: true, LastSeen: now}
	t.emptySince = time.Time{}

	t.game.ClearSound()
	t.broadcastState()
	log.Printf("[Table %s] %s sat down at %s", t.ID, name, seat)
	return nil
}

func (t *Table) handleLeave(seat bridge.Seat) error {
	conn := t.conns[seat]
	if conn == nil {
		return bridge.ErrSeatEmpty
	}
	if err := t.game.StandUp(seat); err != nil {
		return err
	}
	delete(t.conns, seat)
	t.updateEmptySinceLocked(time.Now())

	t.game.ClearSound()
	t.broadcastState()
	log.Printf("[Table %s] %s stood up from %s", t.ID, conn.Name, seat)
	return nil
}

// Illegal in-game actions are dropped without a reply; the server is
// the final authority and the client is expected to prevent them.
func (t *Table) handleLockBid(seat bridge.Seat, bt bridge.BidType, level int, strain bridge.Strain) error {
	t.game.ClearSound()
	if err := t.game.SubmitBid(seat, bt, level, strain); err != nil {
		log.Printf("[Table %s] dropped bid from %s: %v", t.ID, seat, err)
		return err
	}
	t.botActAt = time.Time{}
	t.broadcastState()
	return nil
}

func (t *Table) handlePlayCard(seat bridge.Seat, c card.Card) error {
	t.game.ClearSound()
	if err := t.game.PlayCard(seat, c); err != nil {
		log.Printf("[Table %s] dropped play from %s: %v", t.ID, seat, err)
		return err
	}
	t.botActAt = time.Time{}
	t.broadcastState()
	return nil
}

func (t *Table) handleTakeTrick(seat bridge.Seat) error {
	t.game.ClearSound()
	if err := t.game.ClaimTrick(seat); err != nil {
		log.Printf("[Table %s] dropped trick claim from %s: %v", t.ID, seat, err)
		return err
	}
	t.botActAt = time.Time{}
	t.broadcastState()
	return nil
}

func (t *Table) handleConnLost(seat bridge.Seat, ts time.Time) error {
	conn := t.conns[seat]
	if conn == nil {
		return nil
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	conn.Online = false
	conn.LastSeen = ts
	log.Printf("[Table %s] %s connection lost", t.ID, seat)
	return nil
}

func (t *Table) handleConnResume(seat bridge.Seat, name string, ts time.Time) error {
	conn := t.conns[seat]
	if conn == nil {
		return bridge.ErrSeatEmpty
	}
	// Only a dropped connection may be resumed. A seat whose player
	// is still online cannot be taken over.
	if conn.Online {
		return bridge.ErrSeatTaken
	}
	if name != "" {
		conn.Name = name
	}
	if ts.IsZero() {
		ts = time.Now()
	}
	conn.Online = true
	conn.LastSeen = ts
	t.sendState(seat)
	log.Printf("[Table %s] %s connection resumed", t.ID, seat)
	return nil
}

func (t *Table) tick() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return
	}
	now := time.Now()
	t.releaseOfflineSeats(now)

	// The table idles until enough humans are seated. An in-flight
	// deal freezes in place when they leave.
	if t.humanCountLocked() < t.Config.MinHumanSeats {
		return
	}

	snap := t.game.Snapshot()
	switch snap.Phase {
	case bridge.PhaseDealing, bridge.PhaseScoring, bridge.PhaseResetting:
		t.stepPhaseMachine()
	case bridge.PhaseBidding:
		if ended := t.stepPhaseMachine(); ended {
			return
		}
		t.runBotTurn(now)
	case bridge.PhasePlaying:
		if ended := t.stepPhaseMachine(); ended {
			return
		}
		t.runBotTurn(now)
	}
}

// stepPhaseMachine advances the deal lifecycle one step and reports
// whether state changed.
func (t *Table) stepPhaseMachine() bool {
	result, changed := t.game.Advance()
	if result != nil {
		t.dispatchDealEnd(*result)
	}
	if changed {
		t.game.ClearSound()
		t.broadcastState()
	}
	return changed
}

// runBotTurn lets the fallback player act when the awaited seat is
// bot-controlled. The move fires one think-delay after the turn
// first comes around, so humans can follow the table.
func (t *Table) runBotTurn(now time.Time) {
	snap := t.game.Snapshot()
	if !snap.Players[snap.CurrentTurn].Robot {
		t.botActAt = time.Time{}
		return
	}

	delay := t.Config.PlayDelay
	if snap.Phase == bridge.PhasePlaying && len(snap.TableCards()) == 4 {
		delay = t.Config.TrickDelay
	}
	if t.botActAt.IsZero() {
		t.botActAt = now.Add(delay)
		return
	}
	if now.Before(t.botActAt) {
		return
	}
	t.botActAt = time.Time{}

	seat := snap.CurrentTurn
	brain := t.brains[seat]

	switch snap.Phase {
	case bridge.PhaseBidding:
		call := brain.Bid(bot.ViewFor(snap, seat))
		t.game.ClearSound()
		if err := t.game.SubmitBid(seat, call.Type, call.Level, call.Strain); err != nil {
			log.Printf("[Table %s] bot bid rejected for %s: %v", t.ID, seat, err)
			return
		}
		t.broadcastState()

	case bridge.PhasePlaying:
		if len(snap.TableCards()) == 4 {
			t.game.ClearSound()
			if err := t.game.ClaimTrick(seat); err != nil {
				log.Printf("[Table %s] bot trick claim rejected for %s: %v", t.ID, seat, err)
				return
			}
			t.broadcastState()
			return
		}
		c, ok := brain.Play(bot.ViewFor(snap, seat))
		if !ok {
			return
		}
		t.game.ClearSound()
		if err := t.game.PlayCard(seat, c); err != nil {
			log.Printf("[Table %s] bot play rejected for %s: %v", t.ID, seat, err)
			return
		}
		t.broadcastState()
	}
}

func (t *Table) releaseOfflineSeats(now time.Time) {
	for seat, conn := range t.conns {
		if conn == nil || conn.Online {
			continue
		}
		if now.Sub(conn.LastSeen) < offlineSeatTTL {
			continue
		}
		if err := t.handleLeave(seat); err != nil {
			conn.LastSeen = now
			log.Printf("[Table %s] auto-standup failed for offline seat %s: %v", t.ID, seat, err)
			continue
		}
		log.Printf("[Table %s] Auto-stood offline seat %s after %s", t.ID, seat, offlineSeatTTL)
	}
}

func (t *Table) dispatchDealEnd(result bridge.DealResult) {
	if t.ledger != nil {
		rec := ledger.DealRecord{
			TableID:       t.ID,
			DealNumber:    result.DealNumber,
			Vulnerability: result.Vulnerability.String(),
			Declarer:      result.Declarer.String(),
			ContractLevel: result.Contract.Level,
			ContractSuit:  result.Contract.Strain.String(),
			Doubled:       result.Contract.Doubled,
			ContractTeam:  result.Contract.Team.String(),
			TricksMade:    result.TricksMade,
			DealScore:     result.SignedTotal,
			RunningScore:  result.RunningScore,
			PlayedAt:      time.Now(),
		}
		if err := t.ledger.RecordDeal(rec); err != nil {
			log.Printf("[Table %s] failed to record deal %d: %v", t.ID, result.DealNumber, err)
		}
	}

	hooks := append([]DealEndHook(nil), t.dealEndHooks...)
	info := DealEndInfo{TableID: t.ID, Result: result}
	go func() {
		for _, hook := range hooks {
			hook(info)
		}
	}()
}

// SubmitEvent sends an event to the actor and waits for the result.
func (t *Table) SubmitEvent(e Event) error {
	e.Timestamp = time.Now()
	if e.Response == nil {
		e.Response = make(chan error, 1)
	}

	t.mu.RLock()
	closed := t.closed
	t.mu.RUnlock()
	if closed {
		return ErrTableClosed
	}

	select {
	case t.events <- e:
	case <-t.done:
		return ErrTableClosed
	}

	select {
	case err := <-e.Response:
		return err
	case <-t.done:
		return ErrTableClosed
	}
}

// Stop shuts down the table actor.
func (t *Table) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.stopLocked()
}

func (t *Table) stopLocked() {
	t.stopOnce.Do(func() {
		t.closed = true
		close(t.done)
	})
}

func (t *Table) updateEmptySinceLocked(now time.Time) {
	if len(t.conns) == 0 && t.emptySince.IsZero() {
		t.emptySince = now
	}
}

func (t *Table) humanCountLocked() int {
	n := 0
	for _, conn := range t.conns {
		if conn != nil {
			n++
		}
	}
	return n
}

// IsIdleFor reports whether the table has had no connected players
// for at least ttl.
func (t *Table) IsIdleFor(ttl time.Duration) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if len(t.conns) > 0 {
		return false
	}
	if t.emptySince.IsZero() {
		return false
	}
	return time.Since(t.emptySince) >= ttl
}

func (t *Table) IsClosed() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.closed
}

// Snapshot returns the current game state (thread-safe).
func (t *Table) Snapshot() bridge.Snapshot {
	return t.game.Snapshot()
}

// SeatFree reports whether a seat is available for a joining player.
func (t *Table) SeatFree(seat bridge.Seat) bool {
	return t.game.IsRobot(seat)
}

// AddDealEndHook registers a post-scoring callback.
func (t *Table) AddDealEndHook(hook DealEndHook) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dealEndHooks = append(t.dealEndHooks, hook)
}

func (t *Table) nextSeq() uint64 {
	t.serverSeq++
	return t.serverSeq
}

// broadcastState sends each connected seat its own redacted view.
func (t *Table) broadcastState() {
	snap := t.game.Snapshot()
	seq := t.nextSeq()
	for seat, conn := range t.conns {
		if conn == nil || !conn.Online {
			continue
		}
		env := codec.WrapState(seq, codec.BuildGameState(snap, seat))
		data, err := json.Marshal(env)
		if err != nil {
			log.Printf("[Table %s] failed to encode state: %v", t.ID, err)
			return
		}
		t.send(seat, data)
	}
}

// sendState sends the current state to a single seat.
func (t *Table) sendState(seat bridge.Seat) {
	conn := t.conns[seat]
	if conn == nil {
		return
	}
	snap := t.game.Snapshot()
	env := codec.WrapState(t.nextSeq(), codec.BuildGameState(snap, seat))
	data, err := json.Marshal(env)
	if err != nil {
		log.Printf("[Table %s] failed to encode state: %v", t.ID, err)
		return
	}
	t.send(seat, data)
}
