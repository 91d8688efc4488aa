package bridge

import (
	"math/rand"
	"sync"
	"time"

	"github.com/Ultimatthi/bridge-delta-null/card"
)

// Game is the authoritative state of one table. All state mutations
// go through its methods; the mutex is held for the duration of a
// single action or phase step.
type Game struct {
	cfg Config
	rng *rand.Rand

	mu sync.Mutex

	phase   Phase
	players [4]*Player // indexed by Seat

	// cards holds all 52 cards. Slice order is render order: a played
	// card moves to the end so it sits on top of the trick pile.
	cards []*DealCard

	currentTurn Seat // seat whose action is awaited
	leadSeat    Seat // seat that led the active trick
	dummy       Seat
	declarer    Seat

	contractLevel   int // 0 = no contract
	contractStrain  Strain
	contractDoubled bool
	contractTeam    Team

	history []Bid

	score         int // positive favors northsouth
	dealNumber    int
	vulnerability Vulnerability

	sound string
}

// DealResult is emitted by Advance when a deal has just been scored.
type DealResult struct {
	DealNumber    int
	Contract      Contract
	Declarer      Seat
	Vulnerability Vulnerability
	Vulnerable    bool
	TricksMade    int
	Breakdown     Breakdown
	SignedTotal   int // breakdown total signed toward northsouth
	RunningScore  int
}

// Contract is the standing auction result.
type Contract struct {
	Level   int
	Strain  Strain
	Doubled bool
	Team    Team
}

func NewGame(cfg Config) (*Game, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	g := &Game{
		cfg:            cfg,
		rng:            rand.New(rand.NewSource(seed)),
		phase:          PhaseDealing,
		currentTurn:    North,
		leadSeat:       SeatNone,
		dummy:          SeatNone,
		declarer:       SeatNone,
		contractStrain: StrainNone,
		contractTeam:   TeamNone,
		vulnerability:  VulnNone,
	}
	for _, seat := range Seats {
		g.players[seat] = newBotPlayer(seat)
	}
	for _, c := range card.Deck() {
		g.cards = append(g.cards, &DealCard{
			Card:     c,
			Facing:   FaceUp,
			Location: LocDeck,
			Owner:    SeatNone,
			WonBy:    TeamNone,
		})
	}
	return g, nil
}

// SitDown hands a seat to a connected player. The seat must currently
// be bot-controlled.
func (g *Game) SitDown(seat Seat, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.players[seat]
	if !p.Robot {
		return ErrSeatTaken
	}
	p.Robot = false
	p.Name = name
	return nil
}

// StandUp releases a seat back to bot control. Deal state is left
// untouched so an in-flight trick or auction continues unharmed.
func (g *Game) StandUp(seat Seat) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	p := g.players[seat]
	if p.Robot {
		return ErrSeatEmpty
	}
	p.Robot = true
	p.Name = seat.String() + "(Bot)"
	return nil
}

// IsRobot reports whether a seat is currently bot-controlled.
func (g *Game) IsRobot(seat Seat) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.players[seat].Robot
}

// TotalDeals returns the configured rotation length.
func (g *Game) TotalDeals() int {
	return g.cfg.TotalDeals
}

// ClearSound drops the pending sound hint. Called before processing
// an inbound client action so the next broadcast carries only the
// sound of that action.
func (g *Game) ClearSound() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sound = ""
}

// Advance performs at most one phase-machine step. It returns a
// DealResult when a deal was just scored, and whether state changed
// (so the caller knows to broadcast).
func (g *Game) Advance() (*DealResult, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	switch g.phase {
	case PhaseDealing:
		g.dealLocked()
		return nil, true

	case PhaseBidding:
		return nil, g.advanceBiddingLocked()

	case PhasePlaying:
		if g.countLocked(LocTricks) == 52 {
			g.phase = PhaseScoring
			return nil, true
		}
		return nil, false

	case PhaseScoring:
		res := g.scoreDealLocked()
		g.phase = PhaseResetting
		return res, true

	case PhaseResetting:
		g.resetDealLocked()
		return nil, true
	}
	return nil, false
}

// dealLocked shuffles and deals 13 cards to each seat.
func (g *Game) dealLocked() {
	g.rng.Shuffle(len(g.cards), func(i, j int) {
		g.cards[i], g.cards[j] = g.cards[j], g.cards[i]
	})
	for i, dc := range g.cards {
		dc.Facing = FaceUp
		dc.Location = LocHand
		dc.Owner = Seats[i/13]
		dc.WonBy = TeamNone
	}
	g.dealNumber++
	g.phase = PhaseBidding
}

func (g *Game) scoreDealLocked() *DealResult {
	tricksMade := 0
	for _, dc := range g.cards {
		if dc.WonBy == g.contractTeam {
			tricksMade++
		}
	}
	tricksMade /= 4

	vulnerable := g.vulnerability.AppliesTo(g.contractTeam)
	doubling := NotDoubled
	if g.contractDoubled {
		doubling = Doubled
	}
	breakdown := ScoreContract(g.contractLevel, g.contractStrain, doubling, vulnerable, tricksMade)

	signed := breakdown.Total
	if g.contractTeam != NorthSouth {
		signed = -signed
	}
	g.score += signed

	return &DealResult{
		DealNumber: g.dealNumber,
		Contract: Contract{
			Level:   g.contractLevel,
			Strain:  g.contractStrain,
			Doubled: g.contractDoubled,
			Team:    g.contractTeam,
		},
		Declarer:      g.declarer,
		Vulnerability: g.vulnerability,
		Vulnerable:    vulnerable,
		TricksMade:    tricksMade,
		Breakdown:     breakdown,
		SignedTotal:   signed,
		RunningScore:  g.score,
	}
}

// resetDealLocked clears all per-deal state and rotates dealer and
// vulnerability for the next deal. The new dealer opens the bidding.
func (g *Game) resetDealLocked() {
	g.contractLevel = 0
	g.contractStrain = StrainNone
	g.contractDoubled = false
	g.contractTeam = TeamNone
	g.history = nil
	g.dummy = SeatNone
	g.declarer = SeatNone
	g.leadSeat = SeatNone

	for _, p := range g.players {
		p.resetForDeal()
	}

	dealer, vuln := Rotate(g.dealNumber + 1)
	g.currentTurn = dealer
	g.vulnerability = vuln
	g.phase = PhaseDealing
}

func (g *Game) countLocked(loc Location) int {
	n := 0
	for _, dc := range g.cards {
		if dc.Location == loc {
			n++
		}
	}
	return n
}

// tableLocked returns the cards of the active trick in play order.
func (g *Game) tableLocked() []*DealCard {
	table := make([]*DealCard, 0, 4)
	for _, dc := range g.cards {
		if dc.Location == LocTable {
			table = append(table, dc)
		}
	}
	return table
}

func (g *Game) handLocked(seat Seat) []*DealCard {
	hand := make([]*DealCard, 0, 13)
	for _, dc := range g.cards {
		if dc.Location == LocHand && dc.Owner == seat {
			hand = append(hand, dc)
		}
	}
	return hand
}

func (g *Game) findCardLocked(c card.Card) *DealCard {
	for _, dc := range g.cards {
		if dc.Card == c {
			return dc
		}
	}
	return nil
}

// moveToTopLocked reorders a card to the end of the slice so it
// renders on top of the pile.
func (g *Game) moveToTopLocked(target *DealCard) {
	for i, dc := range g.cards {
		if dc == target {
			g.cards = append(g.cards[:i], g.cards[i+1:]...)
			g.cards = append(g.cards, target)
			return
		}
	}
}

func (g *Game) advanceTurnLocked() {
	g.currentTurn = g.currentTurn.Next()
}
