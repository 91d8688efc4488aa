package bridge

import "github.com/Ultimatthi/bridge-delta-null/card"

// PlayCard validates and applies one card play. The card moves from
// the seat's hand onto the table (keeping its owner) and renders on
// top of the trick pile. When the fourth card lands the trick is
// resolved immediately and the turn passes to the winner.
func (g *Game) PlayCard(seat Seat, c card.Card) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if seat != g.currentTurn {
		return ErrOutOfTurn
	}

	table := g.tableLocked()
	if len(table) == 4 {
		return ErrTrickFull
	}

	dc := g.findCardLocked(c)
	if dc == nil || dc.Location != LocHand || dc.Owner != seat {
		return ErrCardNotHeld
	}

	// Follow suit when possible.
	if len(table) > 0 {
		leadSuit := table[0].Card.Suit()
		if dc.Card.Suit() != leadSuit {
			for _, hc := range g.handLocked(seat) {
				if hc.Card.Suit() == leadSuit {
					return ErrRevoke
				}
			}
		}
	} else {
		g.leadSeat = seat
	}

	dc.Location = LocTable
	g.moveToTopLocked(dc)
	g.sound = SoundPlayCard

	if len(g.tableLocked()) < 4 {
		g.advanceTurnLocked()
	} else {
		g.resolveTrickLocked()
	}
	return nil
}

// resolveTrickLocked determines the trick winner: highest card of the
// led suit, unless trump was played, then the highest trump. The
// winner's seat becomes the current turn.
func (g *Game) resolveTrickLocked() {
	table := g.tableLocked()
	if len(table) != 4 {
		return
	}

	trump, hasTrump := g.contractStrain.TrumpSuit()

	high := table[0]
	for _, dc := range table[1:] {
		switch {
		case dc.Card.Suit() == high.Card.Suit():
			if dc.Card.Ordinal() > high.Card.Ordinal() {
				high = dc
			}
		case hasTrump && dc.Card.Suit() == trump:
			high = dc
		}
	}
	g.currentTurn = high.Owner
}

// ClaimTrick moves a completed trick face-down to the tricks pile,
// tagged with the winning team. The winner (already in currentTurn)
// leads the next trick. The declarer may claim on the dummy's behalf.
func (g *Game) ClaimTrick(seat Seat) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhasePlaying {
		return ErrWrongPhase
	}
	if seat != g.currentTurn {
		if !(g.currentTurn == g.dummy && seat == g.declarer) {
			return ErrOutOfTurn
		}
	}

	table := g.tableLocked()
	if len(table) != 4 {
		return ErrTrickPartial
	}

	winners := g.currentTurn.Team()
	for _, dc := range table {
		dc.Facing = FaceDown
		dc.Location = LocTricks
		dc.WonBy = winners
	}
	g.leadSeat = g.currentTurn
	g.sound = SoundTakeTrick
	return nil
}
