package bridge

import "github.com/Ultimatthi/bridge-delta-null/card"

type CardSnapshot struct {
	Card     card.Card
	Facing   Facing
	Location Location
	Owner    Seat
	WonBy    Team
}

type PlayerSnapshot struct {
	Name      string
	Seat      Seat
	Team      Team
	Robot     bool
	BidType   BidType
	BidLevel  int
	BidStrain Strain
	HasBid    bool
}

// Snapshot is a consistent copy of the full table state, taken under
// the game lock. Cards appear in render order (last = top of pile).
type Snapshot struct {
	Phase       Phase
	CurrentTurn Seat
	LeadSeat    Seat
	Dummy       Seat
	Declarer    Seat

	Contract Contract

	Score         int
	DealNumber    int
	TotalDeals    int
	Vulnerability Vulnerability
	Sound         string

	Cards   []CardSnapshot
	History []Bid
	Players [4]PlayerSnapshot
}

func (g *Game) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := Snapshot{
		Phase:       g.phase,
		CurrentTurn: g.currentTurn,
		LeadSeat:    g.leadSeat,
		Dummy:       g.dummy,
		Declarer:    g.declarer,
		Contract: Contract{
			Level:   g.contractLevel,
			Strain:  g.contractStrain,
			Doubled: g.contractDoubled,
			Team:    g.contractTeam,
		},
		Score:         g.score,
		DealNumber:    g.dealNumber,
		TotalDeals:    g.cfg.TotalDeals,
		Vulnerability: g.vulnerability,
		Sound:         g.sound,
		History:       append([]Bid{}, g.history...),
	}
	for _, dc := range g.cards {
		s.Cards = append(s.Cards, CardSnapshot{
			Card:     dc.Card,
			Facing:   dc.Facing,
			Location: dc.Location,
			Owner:    dc.Owner,
			WonBy:    dc.WonBy,
		})
	}
	for _, seat := range Seats {
		p := g.players[seat]
		s.Players[seat] = PlayerSnapshot{
			Name:      p.Name,
			Seat:      p.Seat,
			Team:      p.Team,
			Robot:     p.Robot,
			BidType:   p.bidType,
			BidLevel:  p.bidLevel,
			BidStrain: p.bidStrain,
			HasBid:    p.hasBid,
		}
	}
	return s
}

// Hand returns the cards a seat currently holds, in render order.
func (s Snapshot) Hand(seat Seat) []card.Card {
	hand := make([]card.Card, 0, 13)
	for _, cs := range s.Cards {
		if cs.Location == LocHand && cs.Owner == seat {
			hand = append(hand, cs.Card)
		}
	}
	return hand
}

// TableCards returns the active trick in play order.
func (s Snapshot) TableCards() []CardSnapshot {
	table := make([]CardSnapshot, 0, 4)
	for _, cs := range s.Cards {
		if cs.Location == LocTable {
			table = append(table, cs)
		}
	}
	return table
}

// LeadSuit returns the suit led to the active trick, ok=false when
// the table is empty.
func (s Snapshot) LeadSuit() (card.Suit, bool) {
	table := s.TableCards()
	if len(table) == 0 {
		return 0, false
	}
	return table[0].Card.Suit(), true
}
