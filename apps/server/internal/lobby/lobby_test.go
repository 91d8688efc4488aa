package lobby

import (
	"testing"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/table"
	"github.com/Ultimatthi/bridge-delta-null/bridge"
)

func newTestLobby(t *testing.T) *Lobby {
	t.Helper()
	cfg := table.TableConfig{
		TotalDeals:    16,
		MinHumanSeats: 4,
		Seed:          1,
		TickInterval:  5 * time.Millisecond,
	}
	l := New(cfg, func(tableID string, seat bridge.Seat, data []byte) {}, nil)
	t.Cleanup(func() {
		for _, id := range l.ListTables() {
			l.GetTable(id).Stop()
		}
	})
	return l
}

func TestQuickStartCreatesAndReusesTables(t *testing.T) {
	l := newTestLobby(t)

	t1, seat, err := l.QuickStart(bridge.North)
	if err != nil {
		t.Fatalf("first QuickStart err: %v", err)
	}
	if seat != bridge.North {
		t.Fatalf("seat = %v, want north", seat)
	}
	if err := t1.SubmitEvent(table.Event{Type: table.EventJoin, Seat: seat, Name: "alice"}); err != nil {
		t.Fatalf("join err: %v", err)
	}

	// A different seat at the same table is still free.
	t2, seat, err := l.QuickStart(bridge.South)
	if err != nil {
		t.Fatalf("second QuickStart err: %v", err)
	}
	if t2 != t1 || seat != bridge.South {
		t.Fatalf("expected to reuse %s at south, got %s at %v", t1.ID, t2.ID, seat)
	}
	if err := t2.SubmitEvent(table.Event{Type: table.EventJoin, Seat: seat, Name: "bob"}); err != nil {
		t.Fatalf("join err: %v", err)
	}

	// North is taken everywhere, so a fresh table opens.
	t3, seat, err := l.QuickStart(bridge.North)
	if err != nil {
		t.Fatalf("third QuickStart err: %v", err)
	}
	if t3 == t1 {
		t.Fatalf("expected a new table for a taken seat")
	}
	if seat != bridge.North {
		t.Fatalf("seat = %v, want north", seat)
	}
	if len(l.ListTables()) != 2 {
		t.Fatalf("table count = %d, want 2", len(l.ListTables()))
	}
}

func TestQuickStartAnySeat(t *testing.T) {
	l := newTestLobby(t)

	tbl, seat, err := l.QuickStart(bridge.SeatNone)
	if err != nil {
		t.Fatalf("QuickStart err: %v", err)
	}
	if seat == bridge.SeatNone {
		t.Fatalf("expected a concrete seat assignment")
	}
	if !tbl.SeatFree(seat) {
		t.Fatalf("assigned seat should still be free until the join lands")
	}
}

func TestReapIdleTables(t *testing.T) {
	l := newTestLobby(t)

	tbl, _, err := l.QuickStart(bridge.SeatNone)
	if err != nil {
		t.Fatalf("QuickStart err: %v", err)
	}
	// Nobody ever joined, so the table has been empty since creation.
	if n := l.ReapIdleTables(0); n != 1 {
		t.Fatalf("reaped %d tables, want 1", n)
	}
	if !tbl.IsClosed() {
		t.Fatalf("reaped table should be stopped")
	}
	if got := l.GetTable(tbl.ID); got != nil {
		t.Fatalf("reaped table still listed")
	}
}
