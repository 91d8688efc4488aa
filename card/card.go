package card

import "fmt"

// Card is a single playing card packed into one byte.
//
// Encoding:
// - high nibble: suit (0:Spade, 1:Heart, 2:Club, 3:Diamond)
// - low nibble: rank (2..10, 11:J, 12:Q, 13:K, 14:A)
type Card byte

const CardInvalid Card = 0

// New builds a Card from a suit and a rank in 2..14 (A=14).
func New(s Suit, rank byte) Card {
	if rank < 2 || rank > 14 {
		return CardInvalid
	}
	return Card(byte(s)<<4 | rank)
}

// Rank returns the card rank 2..14 (A=14).
func (c Card) Rank() byte {
	if c == CardInvalid {
		return 0
	}
	return byte(c & 0x0F)
}

func (c Card) Suit() Suit {
	return Suit(c >> 4)
}

// Ordinal is the trick-comparison value, 0 for a deuce up to 12 for an ace.
func (c Card) Ordinal() int {
	return int(c.Rank()) - 2
}

// ValueName returns the wire name of the rank: "2".."10", "J", "Q", "K", "A".
func (c Card) ValueName() string {
	r := c.Rank()
	switch r {
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	case 14:
		return "A"
	case 0:
		return ""
	default:
		return fmt.Sprintf("%d", r)
	}
}

func (c Card) String() string {
	if c == CardInvalid {
		return "Invalid"
	}
	return fmt.Sprintf("%s%s", c.Suit(), c.ValueName())
}

// Parse converts wire names (e.g. "spades", "10") back into a Card.
func Parse(suitName, valueName string) (Card, error) {
	s, err := ParseSuit(suitName)
	if err != nil {
		return CardInvalid, err
	}
	var rank byte
	switch valueName {
	case "J":
		rank = 11
	case "Q":
		rank = 12
	case "K":
		rank = 13
	case "A":
		rank = 14
	case "2", "3", "4", "5", "6", "7", "8", "9":
		rank = valueName[0] - '0'
	case "10":
		rank = 10
	default:
		return CardInvalid, fmt.Errorf("invalid card value %q", valueName)
	}
	return New(s, rank), nil
}

// Deck returns all 52 cards, suit-major in constant order.
func Deck() []Card {
	deck := make([]Card, 0, 52)
	for _, s := range []Suit{Spade, Heart, Club, Diamond} {
		for rank := byte(2); rank <= 14; rank++ {
			deck = append(deck, New(s, rank))
		}
	}
	return deck
}
