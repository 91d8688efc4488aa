package bridge

import (
	"fmt"

	"github.com/Ultimatthi/bridge-delta-null/card"
)

// Seat is one of the four fixed positions at the table, clockwise.
type Seat int8

const (
	SeatNone Seat = iota - 1
	North
	East
	South
	West
)

// Seats in clockwise turn order.
var Seats = [4]Seat{North, East, South, West}

func (s Seat) String() string {
	switch s {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	}
	return ""
}

func ParseSeat(name string) (Seat, error) {
	switch name {
	case "north":
		return North, nil
	case "east":
		return East, nil
	case "south":
		return South, nil
	case "west":
		return West, nil
	default:
		return SeatNone, fmt.Errorf("invalid seat %q", name)
	}
}

// Next returns the seat to this seat's left (clockwise).
func (s Seat) Next() Seat {
	return Seats[(int(s)+1)%4]
}

// Partner returns the seat two positions away.
func (s Seat) Partner() Seat {
	return Seats[(int(s)+2)%4]
}

// Team returns the fixed partnership this seat belongs to.
func (s Seat) Team() Team {
	switch s {
	case North, South:
		return NorthSouth
	case East, West:
		return EastWest
	}
	return TeamNone
}

// Team is one of the two fixed partnerships.
type Team int8

const (
	TeamNone Team = iota - 1
	NorthSouth
	EastWest
)

func (t Team) String() string {
	switch t {
	case NorthSouth:
		return "northsouth"
	case EastWest:
		return "eastwest"
	}
	return ""
}

// Phase is the deal lifecycle state.
type Phase byte

const (
	PhaseDealing Phase = iota
	PhaseBidding
	PhasePlaying
	PhaseScoring
	PhaseResetting
)

func (p Phase) String() string {
	switch p {
	case PhaseDealing:
		return "dealing"
	case PhaseBidding:
		return "bidding"
	case PhasePlaying:
		return "playing"
	case PhaseScoring:
		return "scoring"
	case PhaseResetting:
		return "resetting"
	}
	return "unknown"
}

// Strain is a biddable denomination. Its integer value is the strain
// rank used by bid ordinals: clubs lowest, notrump highest.
type Strain int8

const (
	StrainNone Strain = iota - 1
	Clubs
	Diamonds
	Hearts
	Spades
	NoTrump
)

func (s Strain) String() string {
	switch s {
	case Clubs:
		return "clubs"
	case Diamonds:
		return "diamonds"
	case Hearts:
		return "hearts"
	case Spades:
		return "spades"
	case NoTrump:
		return "notrump"
	}
	return ""
}

func ParseStrain(name string) (Strain, error) {
	switch name {
	case "clubs":
		return Clubs, nil
	case "diamonds":
		return Diamonds, nil
	case "hearts":
		return Hearts, nil
	case "spades":
		return Spades, nil
	case "notrump":
		return NoTrump, nil
	default:
		return StrainNone, fmt.Errorf("invalid strain %q", name)
	}
}

// TrumpSuit maps a strain onto its card suit. ok is false for notrump.
func (s Strain) TrumpSuit() (card.Suit, bool) {
	switch s {
	case Clubs:
		return card.Club, true
	case Diamonds:
		return card.Diamond, true
	case Hearts:
		return card.Heart, true
	case Spades:
		return card.Spade, true
	}
	return 0, false
}

// BidType classifies a call in the auction.
type BidType byte

const (
	BidPass BidType = iota
	BidDouble
	BidNormal
)

func (b BidType) String() string {
	switch b {
	case BidPass:
		return "pass"
	case BidDouble:
		return "double"
	case BidNormal:
		return "normal"
	}
	return ""
}

func ParseBidType(name string) (BidType, error) {
	switch name {
	case "pass":
		return BidPass, nil
	case "double":
		return BidDouble, nil
	case "normal":
		return BidNormal, nil
	default:
		return BidPass, fmt.Errorf("invalid bid type %q", name)
	}
}

// Bid is one call in the auction, immutable once recorded.
type Bid struct {
	Seat   Seat
	Type   BidType
	Level  int
	Strain Strain
	Team   Team
}

// Doubling is the doubling status fed into scoring.
type Doubling byte

const (
	NotDoubled Doubling = iota
	Doubled
	Redoubled
)

func (d Doubling) String() string {
	switch d {
	case Doubled:
		return "double"
	case Redoubled:
		return "redouble"
	}
	return "none"
}

// Vulnerability is the per-deal scoring modifier.
type Vulnerability byte

const (
	VulnNone Vulnerability = iota
	VulnNorthSouth
	VulnEastWest
	VulnBoth
)

func (v Vulnerability) String() string {
	switch v {
	case VulnNorthSouth:
		return "northsouth"
	case VulnEastWest:
		return "eastwest"
	case VulnBoth:
		return "both"
	}
	return "none"
}

// AppliesTo reports whether the given team is vulnerable.
func (v Vulnerability) AppliesTo(t Team) bool {
	switch v {
	case VulnBoth:
		return true
	case VulnNorthSouth:
		return t == NorthSouth
	case VulnEastWest:
		return t == EastWest
	}
	return false
}

// Facing is the face-up/face-down state of a card.
type Facing byte

const (
	FaceUp Facing = iota
	FaceDown
)

func (f Facing) String() string {
	if f == FaceDown {
		return "down"
	}
	return "up"
}

// Location is where a card currently sits.
type Location byte

const (
	LocDeck Location = iota
	LocHand
	LocTable
	LocTricks
)

func (l Location) String() string {
	switch l {
	case LocHand:
		return "hand"
	case LocTable:
		return "table"
	case LocTricks:
		return "tricks"
	}
	return "deck"
}

// DealCard is one of the 52 cards with its mutable per-deal state.
// The instances are created once per Game and reset every deal.
type DealCard struct {
	Card     card.Card
	Facing   Facing
	Location Location
	Owner    Seat // seat that holds or played the card, SeatNone in deck
	WonBy    Team // team that captured the trick, TeamNone until claimed
}

// Sound hints attached to broadcasts after state-changing actions.
const (
	SoundPlayCard  = "play_card"
	SoundTakeTrick = "take_trick"
)
