package bridge

// BidOrdinal gives the strict total order over all 35 normal bids:
// rank(strain) + (level-1)*5. No contract maps to -1, below every
// real bid.
func BidOrdinal(level int, strain Strain) int {
	if level == 0 || strain == StrainNone {
		return -1
	}
	return int(strain) + (level-1)*5
}

// SubmitBid validates and records one auction call for seat. Illegal
// calls return an error and leave the state untouched; the caller is
// expected to drop them silently.
func (g *Game) SubmitBid(seat Seat, bt BidType, level int, strain Strain) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.phase != PhaseBidding {
		return ErrWrongPhase
	}
	if seat != g.currentTurn {
		return ErrOutOfTurn
	}

	switch bt {
	case BidNormal:
		if level < 1 || level > 7 || strain < Clubs || strain > NoTrump {
			return ErrIllegalBid
		}
		if BidOrdinal(level, strain) <= BidOrdinal(g.contractLevel, g.contractStrain) {
			return ErrIllegalBid
		}
	case BidDouble:
		// No double before any contract, of an already doubled
		// contract, or of one's own side's contract.
		if g.contractLevel == 0 {
			return ErrIllegalBid
		}
		if g.contractDoubled {
			return ErrIllegalBid
		}
		if g.contractTeam == seat.Team() {
			return ErrIllegalBid
		}
	case BidPass:
		// always legal on your turn
	default:
		return ErrIllegalBid
	}

	player := g.players[seat]
	player.setBid(bt, level, strain)

	switch bt {
	case BidNormal:
		g.contractLevel = level
		g.contractStrain = strain
		g.contractTeam = seat.Team()
		g.contractDoubled = false
	case BidDouble:
		g.contractDoubled = true
		level = 0
		strain = StrainNone
	case BidPass:
		level = 0
		strain = StrainNone
	}

	g.history = append(g.history, Bid{
		Seat:   seat,
		Type:   bt,
		Level:  level,
		Strain: strain,
		Team:   seat.Team(),
	})

	g.advanceTurnLocked()
	return nil
}

// advanceBiddingLocked drives auction end detection, called on every
// dispatcher tick while the phase is bidding.
func (g *Game) advanceBiddingLocked() bool {
	if len(g.history) >= 4 && g.contractLevel > 0 && g.lastAllPassLocked(3) {
		declarer := g.declarerSeatLocked()
		g.declarer = declarer
		g.dummy = declarer.Partner()
		g.currentTurn = declarer.Next()
		g.leadSeat = g.currentTurn
		g.phase = PhasePlaying
		return true
	}

	// Passed out: nobody bid, redeal.
	if len(g.history) >= 4 && g.contractLevel == 0 && g.lastAllPassLocked(4) {
		g.phase = PhaseResetting
		return true
	}
	return false
}

func (g *Game) lastAllPassLocked(n int) bool {
	if len(g.history) < n {
		return false
	}
	for _, b := range g.history[len(g.history)-n:] {
		if b.Type != BidPass {
			return false
		}
	}
	return true
}

// declarerSeatLocked finds the seat that first bid the contract
// strain for the contract side.
func (g *Game) declarerSeatLocked() Seat {
	for _, b := range g.history {
		if b.Type == BidNormal && b.Strain == g.contractStrain && b.Team == g.contractTeam {
			return b.Seat
		}
	}
	// Unreachable while a contract stands; keep the turn stable.
	return g.currentTurn
}
