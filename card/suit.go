package card

import "fmt"

type Suit byte

const (
	Spade Suit = iota // ♠️
	Heart             // ♥️
	Club              // ♣️
	Diamond           // ♦️
)

func (s Suit) String() string {
	switch s {
	case Diamond:
		return "♦️"
	case Club:
		return "♣️"
	case Heart:
		return "♥️"
	case Spade:
		return "♠️"
	}
	return "?"
}

// Name returns the wire name of the suit.
func (s Suit) Name() string {
	switch s {
	case Diamond:
		return "diamonds"
	case Club:
		return "clubs"
	case Heart:
		return "hearts"
	case Spade:
		return "spades"
	}
	return ""
}

func ParseSuit(name string) (Suit, error) {
	switch name {
	case "diamonds":
		return Diamond, nil
	case "clubs":
		return Club, nil
	case "hearts":
		return Heart, nil
	case "spades":
		return Spade, nil
	default:
		return 0, fmt.Errorf("invalid suit %q", name)
	}
}
