package table

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/apps/server/internal/codec"
	"github.com/Ultimatthi/bridge-delta-null/bridge"
)

// frameRecorder collects decoded outbound frames per seat.
type frameRecorder struct {
	mu     sync.Mutex
	frames map[bridge.Seat][]codec.ServerEnvelope
}

func newFrameRecorder() *frameRecorder {
	return &frameRecorder{frames: make(map[bridge.Seat][]codec.ServerEnvelope)}
}

func (r *frameRecorder) send(seat bridge.Seat, data []byte) {
	var env codec.ServerEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames[seat] = append(r.frames[seat], env)
}

func (r *frameRecorder) last(seat bridge.Seat) (codec.ServerEnvelope, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	frames := r.frames[seat]
	if len(frames) == 0 {
		return codec.ServerEnvelope{}, false
	}
	return frames[len(frames)-1], true
}

// newIdleTable makes a table that never progresses on its own: four
// humans are required, so bots and the phase machine stay parked.
func newIdleTable(t *testing.T, rec *frameRecorder) *Table {
	t.Helper()
	tbl := New("table_test", TableConfig{
		TotalDeals:    16,
		MinHumanSeats: 4,
		Seed:          1,
		TickInterval:  5 * time.Millisecond,
	}, rec.send, nil)
	if tbl == nil {
		t.Fatalf("New returned nil")
	}
	t.Cleanup(tbl.Stop)
	return tbl
}

func TestJoinAndLeave(t *testing.T) {
	rec := newFrameRecorder()
	tbl := newIdleTable(t, rec)

	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "alice"}); err != nil {
		t.Fatalf("join err: %v", err)
	}
	if tbl.SeatFree(bridge.North) {
		t.Fatalf("north should be occupied")
	}
	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "bob"}); err != bridge.ErrSeatTaken {
		t.Fatalf("second join err = %v, want ErrSeatTaken", err)
	}

	snap := tbl.Snapshot()
	if snap.Players[bridge.North].Name != "alice" || snap.Players[bridge.North].Robot {
		t.Fatalf("north player = %+v", snap.Players[bridge.North])
	}

	if err := tbl.SubmitEvent(Event{Type: EventLeave, Seat: bridge.North}); err != nil {
		t.Fatalf("leave err: %v", err)
	}
	if !tbl.SeatFree(bridge.North) {
		t.Fatalf("north should be free again")
	}
	if err := tbl.SubmitEvent(Event{Type: EventLeave, Seat: bridge.North}); err != bridge.ErrSeatEmpty {
		t.Fatalf("second leave err = %v, want ErrSeatEmpty", err)
	}
}

func TestJoinBroadcastsState(t *testing.T) {
	rec := newFrameRecorder()
	tbl := newIdleTable(t, rec)

	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.South, Name: "carol"}); err != nil {
		t.Fatalf("join err: %v", err)
	}
	env, ok := rec.last(bridge.South)
	if !ok {
		t.Fatalf("no frame delivered to south after joining")
	}
	if env.Type != codec.TypeState || env.State == nil {
		t.Fatalf("frame = %+v, want a state frame", env)
	}
	if env.State.GamePhase != "dealing" {
		t.Fatalf("game phase = %q, want dealing while idle", env.State.GamePhase)
	}
}

func TestRejectedActionIsDroppedSilently(t *testing.T) {
	rec := newFrameRecorder()
	tbl := newIdleTable(t, rec)

	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "alice"}); err != nil {
		t.Fatalf("join err: %v", err)
	}
	before := tbl.Snapshot()

	// The table idles in the dealing phase, so any bid is premature.
	err := tbl.SubmitEvent(Event{
		Type:      EventLockBid,
		Seat:      bridge.North,
		BidType:   bridge.BidNormal,
		BidLevel:  1,
		BidStrain: bridge.Clubs,
	})
	if err != bridge.ErrWrongPhase {
		t.Fatalf("bid err = %v, want ErrWrongPhase", err)
	}
	// No error frame ever goes out and no state changes.
	env, ok := rec.last(bridge.North)
	if !ok || env.Type != codec.TypeState {
		t.Fatalf("last frame = %+v, want the join state frame", env)
	}
	after := tbl.Snapshot()
	if after.Phase != before.Phase || len(after.History) != 0 {
		t.Fatalf("rejected bid mutated state: %v/%d", after.Phase, len(after.History))
	}
}

func TestSeatResumeOnlyWhenOffline(t *testing.T) {
	rec := newFrameRecorder()
	tbl := newIdleTable(t, rec)

	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "alice"}); err != nil {
		t.Fatalf("join err: %v", err)
	}

	// While the seat's connection is live, neither a join nor a
	// resume may displace it.
	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "mallory"}); err != bridge.ErrSeatTaken {
		t.Fatalf("join over live seat err = %v, want ErrSeatTaken", err)
	}
	if err := tbl.SubmitEvent(Event{Type: EventConnResume, Seat: bridge.North, Name: "mallory"}); err != bridge.ErrSeatTaken {
		t.Fatalf("resume of live seat err = %v, want ErrSeatTaken", err)
	}
	if snap := tbl.Snapshot(); snap.Players[bridge.North].Name != "alice" {
		t.Fatalf("seat renamed to %q by rejected takeover", snap.Players[bridge.North].Name)
	}

	// Once the connection drops, the player can pick the seat back up.
	if err := tbl.SubmitEvent(Event{Type: EventConnLost, Seat: bridge.North}); err != nil {
		t.Fatalf("conn lost err: %v", err)
	}
	if err := tbl.SubmitEvent(Event{Type: EventConnResume, Seat: bridge.North, Name: "alice"}); err != nil {
		t.Fatalf("resume of dropped seat err: %v", err)
	}
	// A resume with no seated player has nothing to pick up.
	if err := tbl.SubmitEvent(Event{Type: EventConnResume, Seat: bridge.East}); err != bridge.ErrSeatEmpty {
		t.Fatalf("resume of empty seat err = %v, want ErrSeatEmpty", err)
	}
}

func TestClosedTableRefusesEvents(t *testing.T) {
	rec := newFrameRecorder()
	tbl := newIdleTable(t, rec)
	tbl.Stop()
	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.North, Name: "alice"}); err != ErrTableClosed {
		t.Fatalf("join after stop err = %v, want ErrTableClosed", err)
	}
}

// TestGameRunsWithOneHuman seats a single player and lets the bots
// carry the table into the auction.
func TestGameRunsWithOneHuman(t *testing.T) {
	rec := newFrameRecorder()
	tbl := New("table_live", TableConfig{
		TotalDeals:    16,
		MinHumanSeats: 1,
		Seed:          1,
		PlayDelay:     time.Millisecond,
		TrickDelay:    time.Millisecond,
		TickInterval:  time.Millisecond,
	}, rec.send, nil)
	if tbl == nil {
		t.Fatalf("New returned nil")
	}
	t.Cleanup(tbl.Stop)

	if err := tbl.SubmitEvent(Event{Type: EventJoin, Seat: bridge.West, Name: "dave"}); err != nil {
		t.Fatalf("join err: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap := tbl.Snapshot()
		if snap.DealNumber >= 1 && snap.Phase != bridge.PhaseDealing {
			if snap.Phase != bridge.PhaseBidding && snap.Phase != bridge.PhasePlaying &&
				snap.Phase != bridge.PhaseScoring && snap.Phase != bridge.PhaseResetting {
				t.Fatalf("unexpected phase %v", snap.Phase)
			}
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("table never dealt: phase=%v deal=%d", snap.Phase, snap.DealNumber)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
