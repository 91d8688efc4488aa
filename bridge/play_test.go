package bridge

import (
	"testing"

	"github.com/Ultimatthi/bridge-delta-null/card"
)

// newPlayGame builds a game already in the play phase with a level-1
// contract for declarer's side, each seat holding one whole suit.
func newPlayGame(t *testing.T, strain Strain, declarer Seat, suits map[Seat]card.Suit) *Game {
	t.Helper()
	g, err := NewGame(Config{TotalDeals: 16, Seed: 1})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	g.phase = PhasePlaying
	g.contractLevel = 1
	g.contractStrain = strain
	g.contractTeam = declarer.Team()
	g.declarer = declarer
	g.dummy = declarer.Partner()
	g.currentTurn = declarer.Next()
	g.leadSeat = g.currentTurn
	g.dealNumber = 1
	for _, dc := range g.cards {
		dc.Location = LocHand
		for seat, suit := range suits {
			if dc.Card.Suit() == suit {
				dc.Owner = seat
			}
		}
	}
	return g
}

var suitPerSeat = map[Seat]card.Suit{
	North: card.Spade,
	East:  card.Heart,
	South: card.Club,
	West:  card.Diamond,
}

// setTable puts cards straight onto the table in play order,
// bypassing hand checks.
func setTable(g *Game, plays []struct {
	seat Seat
	c    card.Card
}) {
	for _, p := range plays {
		dc := g.findCardLocked(p.c)
		dc.Location = LocTable
		dc.Owner = p.seat
		g.moveToTopLocked(dc)
	}
}

func TestDealPartitionsDeck(t *testing.T) {
	g, err := NewGame(Config{TotalDeals: 16, Seed: 7})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	g.Advance()

	snap := g.Snapshot()
	seen := make(map[card.Card]bool)
	for _, seat := range Seats {
		hand := snap.Hand(seat)
		if len(hand) != 13 {
			t.Fatalf("%v holds %d cards, want 13", seat, len(hand))
		}
		for _, c := range hand {
			if seen[c] {
				t.Fatalf("card %v dealt twice", c)
			}
			seen[c] = true
		}
	}
	if len(seen) != 52 {
		t.Fatalf("dealt %d distinct cards, want 52", len(seen))
	}
}

func TestTrickWonByHighestOfLedSuit(t *testing.T) {
	g := newPlayGame(t, NoTrump, North, suitPerSeat)
	setTable(g, []struct {
		seat Seat
		c    card.Card
	}{
		{West, card.New(card.Diamond, 5)},
		{North, card.New(card.Diamond, 9)},
		{East, card.New(card.Diamond, 2)},
		{South, card.New(card.Diamond, 11)},
	})
	g.resolveTrickLocked()
	if g.currentTurn != South {
		t.Fatalf("trick winner = %v, want south", g.currentTurn)
	}
}

func TestTrumpWinsOverLedSuit(t *testing.T) {
	g := newPlayGame(t, Hearts, South, suitPerSeat)
	setTable(g, []struct {
		seat Seat
		c    card.Card
	}{
		{West, card.New(card.Diamond, 13)},
		{North, card.New(card.Diamond, 5)},
		{East, card.New(card.Heart, 2)},
		{South, card.New(card.Diamond, 14)},
	})
	g.resolveTrickLocked()
	if g.currentTurn != East {
		t.Fatalf("trick winner = %v, want east on a small trump", g.currentTurn)
	}
}

func TestHigherTrumpOvertrumps(t *testing.T) {
	g := newPlayGame(t, Hearts, South, suitPerSeat)
	setTable(g, []struct {
		seat Seat
		c    card.Card
	}{
		{North, card.New(card.Club, 5)},
		{East, card.New(card.Heart, 3)},
		{South, card.New(card.Heart, 9)},
		{West, card.New(card.Club, 9)},
	})
	g.resolveTrickLocked()
	if g.currentTurn != South {
		t.Fatalf("trick winner = %v, want south with the higher trump", g.currentTurn)
	}
}

func TestFollowSuitEnforced(t *testing.T) {
	g := newPlayGame(t, NoTrump, South, suitPerSeat)
	// Swap one low card between North and West so North can follow a
	// diamond lead but could try not to.
	g.findCardLocked(card.New(card.Diamond, 2)).Owner = North
	g.findCardLocked(card.New(card.Spade, 2)).Owner = West

	if err := g.PlayCard(West, card.New(card.Diamond, 3)); err != nil {
		t.Fatalf("lead err: %v", err)
	}
	if err := g.PlayCard(North, card.New(card.Spade, 3)); err != ErrRevoke {
		t.Fatalf("discard while holding lead suit err = %v, want ErrRevoke", err)
	}
	if err := g.PlayCard(North, card.New(card.Diamond, 2)); err != nil {
		t.Fatalf("follow err: %v", err)
	}
	// East is out of diamonds entirely, any card goes.
	if err := g.PlayCard(East, card.New(card.Heart, 8)); err != nil {
		t.Fatalf("discard with void err: %v", err)
	}
}

func TestPlayRejectsBadActions(t *testing.T) {
	g := newPlayGame(t, Spades, North, suitPerSeat)

	if err := g.PlayCard(South, card.New(card.Club, 2)); err != ErrOutOfTurn {
		t.Fatalf("out-of-turn play err = %v, want ErrOutOfTurn", err)
	}
	// East leading a card North holds.
	if err := g.PlayCard(East, card.New(card.Spade, 4)); err != ErrCardNotHeld {
		t.Fatalf("foreign card err = %v, want ErrCardNotHeld", err)
	}
	if err := g.ClaimTrick(East); err != ErrTrickPartial {
		t.Fatalf("claim of empty table err = %v, want ErrTrickPartial", err)
	}

	plays := []card.Card{
		card.New(card.Heart, 4),   // East leads
		card.New(card.Club, 4),    // South
		card.New(card.Diamond, 4), // West
		card.New(card.Spade, 4),   // North trumps
	}
	for i, c := range plays {
		seats := [4]Seat{East, South, West, North}
		if err := g.PlayCard(seats[i], c); err != nil {
			t.Fatalf("play %d err: %v", i, err)
		}
	}
	if g.currentTurn != North {
		t.Fatalf("winner = %v, want north", g.currentTurn)
	}
	// A fifth card cannot land before the trick is gathered.
	if err := g.PlayCard(North, card.New(card.Spade, 5)); err != ErrTrickFull {
		t.Fatalf("fifth card err = %v, want ErrTrickFull", err)
	}
	if err := g.ClaimTrick(East); err != ErrOutOfTurn {
		t.Fatalf("claim by loser err = %v, want ErrOutOfTurn", err)
	}
	if err := g.ClaimTrick(North); err != nil {
		t.Fatalf("claim err: %v", err)
	}

	snap := g.Snapshot()
	captured := 0
	for _, cs := range snap.Cards {
		if cs.Location == LocTricks {
			captured++
			if cs.Facing != FaceDown || cs.WonBy != NorthSouth {
				t.Fatalf("captured card %v facing=%v wonby=%v", cs.Card, cs.Facing, cs.WonBy)
			}
		}
	}
	if captured != 4 {
		t.Fatalf("captured %d cards, want 4", captured)
	}
	if snap.LeadSeat != North {
		t.Fatalf("next lead = %v, want north", snap.LeadSeat)
	}
}

func TestDeclarerClaimsForDummy(t *testing.T) {
	g := newPlayGame(t, NoTrump, North, suitPerSeat)
	// South is dummy. Hand South the trick by direct placement.
	setTable(g, []struct {
		seat Seat
		c    card.Card
	}{
		{East, card.New(card.Club, 3)},
		{South, card.New(card.Club, 14)},
		{West, card.New(card.Diamond, 2)},
		{North, card.New(card.Spade, 2)},
	})
	g.resolveTrickLocked()
	if g.currentTurn != South {
		t.Fatalf("winner = %v, want the dummy", g.currentTurn)
	}
	if err := g.ClaimTrick(West); err != ErrOutOfTurn {
		t.Fatalf("claim by opponent err = %v, want ErrOutOfTurn", err)
	}
	if err := g.ClaimTrick(North); err != nil {
		t.Fatalf("declarer claiming for dummy err: %v", err)
	}
}

// TestFullDealReachesScoring drives a seeded deal from auction to
// score with naive legal plays.
func TestFullDealReachesScoring(t *testing.T) {
	g, err := NewGame(Config{TotalDeals: 16, Seed: 42})
	if err != nil {
		t.Fatalf("NewGame err: %v", err)
	}
	g.Advance() // deal

	if err := g.SubmitBid(North, BidNormal, 1, Clubs); err != nil {
		t.Fatalf("opening bid err: %v", err)
	}
	for _, seat := range []Seat{East, South, West} {
		if err := g.SubmitBid(seat, BidPass, 0, StrainNone); err != nil {
			t.Fatalf("pass err: %v", err)
		}
	}
	g.Advance() // auction ends
	if snap := g.Snapshot(); snap.Phase != PhasePlaying {
		t.Fatalf("phase = %v, want playing", snap.Phase)
	}

	var result *DealResult
	for steps := 0; steps < 300; steps++ {
		snap := g.Snapshot()
		if snap.Phase == PhaseScoring {
			result, _ = g.Advance()
			break
		}
		if len(snap.TableCards()) == 4 {
			if err := g.ClaimTrick(snap.CurrentTurn); err != nil {
				t.Fatalf("claim err: %v", err)
			}
			g.Advance()
			continue
		}
		turn := snap.CurrentTurn
		hand := snap.Hand(turn)
		play := hand[0]
		if lead, ok := snap.LeadSuit(); ok {
			for _, c := range hand {
				if c.Suit() == lead {
					play = c
					break
				}
			}
		}
		if err := g.PlayCard(turn, play); err != nil {
			t.Fatalf("play %v by %v err: %v", play, turn, err)
		}
		g.Advance()
	}

	if result == nil {
		t.Fatalf("deal never reached scoring")
	}
	if result.TricksMade < 0 || result.TricksMade > 13 {
		t.Fatalf("tricks made = %d", result.TricksMade)
	}
	if result.Contract.Level != 1 || result.Contract.Strain != Clubs {
		t.Fatalf("scored contract = %+v", result.Contract)
	}
	if result.RunningScore != result.SignedTotal {
		t.Fatalf("running score = %d, want %d after one deal", result.RunningScore, result.SignedTotal)
	}
	if snap := g.Snapshot(); snap.Phase != PhaseResetting {
		t.Fatalf("phase after scoring = %v, want resetting", snap.Phase)
	}
}
