// Package lobby manages table lifecycle and seat assignment.
package lobby

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/ledger"
	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/table"
	"github.com/Ultimatthi/bridge-delta-null/bridge"
)

// SendFunc delivers an encoded frame to one seat of one table.
type SendFunc func(tableID string, seat bridge.Seat, data []byte)

// Lobby manages all tables and player assignments.
type Lobby struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
	nextID uint64

	send   SendFunc
	ledger ledger.Service

	// Default table config
	defaultConfig table.TableConfig
}

// New creates a new lobby.
func New(cfg table.TableConfig, send SendFunc, ledgerService ledger.Service) *Lobby {
	return &Lobby{
		tables:        make(map[string]*table.Table),
		send:          send,
		ledger:        ledgerService,
		defaultConfig: cfg,
	}
}

// QuickStart finds a table where the requested seat is free, or
// creates a new one. SeatNone means any free seat; the chosen seat is
// returned.
func (l *Lobby) QuickStart(seat bridge.Seat) (*table.Table, bridge.Seat, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, t := range l.tables {
		if t.IsClosed() {
			continue
		}
		if seat == bridge.SeatNone {
			for _, s := range bridge.Seats {
				if t.SeatFree(s) {
					log.Printf("[Lobby] QuickStart: joining existing table %s at %s", t.ID, s)
					return t, s, nil
				}
			}
			continue
		}
		if t.SeatFree(seat) {
			log.Printf("[Lobby] QuickStart: joining existing table %s at %s", t.ID, seat)
			return t, seat, nil
		}
	}

	l.nextID++
	tableID := fmt.Sprintf("table_%d", l.nextID)
	t := table.New(tableID, l.defaultConfig, func(s bridge.Seat, data []byte) {
		l.send(tableID, s, data)
	}, l.ledger)
	if t == nil {
		return nil, bridge.SeatNone, fmt.Errorf("failed to create table")
	}
	l.tables[tableID] = t

	chosen := seat
	if chosen == bridge.SeatNone {
		chosen = bridge.North
	}
	log.Printf("[Lobby] QuickStart: created new table %s, seat %s", tableID, chosen)
	return t, chosen, nil
}

// GetTable returns a table by ID.
func (l *Lobby) GetTable(tableID string) *table.Table {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.tables[tableID]
}

// ListTables returns all table IDs.
func (l *Lobby) ListTables() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	ids := make([]string, 0, len(l.tables))
	for id := range l.tables {
		ids = append(ids, id)
	}
	return ids
}

// ReapIdleTables stops and removes tables that have sat empty for at
// least ttl. Intended to run on a timer from main.
func (l *Lobby) ReapIdleTables(ttl time.Duration) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	reaped := 0
	for id, t := range l.tables {
		if !t.IsIdleFor(ttl) {
			continue
		}
		t.Stop()
		delete(l.tables, id)
		reaped++
		log.Printf("[Lobby] Reaped idle table %s", id)
	}
	return reaped
}
