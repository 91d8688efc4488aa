package bot

import (
	"github.com/Ultimatthi/bridge-delta-null/bridge"
	"github.com/Ultimatthi/bridge-delta-null/card"
)

// View is a read-only projection of the table visible to the bot's seat.
type View struct {
	Phase bridge.Phase
	Seat  bridge.Seat
	Hand  []card.Card
	Table []card.Card

	LeadSuit card.Suit
	HasLead  bool

	ContractLevel  int // 0 = no contract yet
	ContractStrain bridge.Strain
}

// Call is what a Decider returns for its turn in the auction.
type Call struct {
	Type   bridge.BidType
	Level  int
	Strain bridge.Strain
}

// Decider is the core interface all bot types implement.
type Decider interface {
	// Bid is called when it's the bot's turn in the auction.
	Bid(view View) Call
	// Play is called when it's the bot's turn in trick play. ok is
	// false when the seat holds no cards.
	Play(view View) (c card.Card, ok bool)
	// Name returns a human-readable identifier for debugging.
	Name() string
}

// ViewFor builds the bot-visible projection for a seat from a full
// table snapshot.
func ViewFor(snap bridge.Snapshot, seat bridge.Seat) View {
	v := View{
		Phase:          snap.Phase,
		Seat:           seat,
		Hand:           snap.Hand(seat),
		ContractLevel:  snap.Contract.Level,
		ContractStrain: snap.Contract.Strain,
	}
	for _, cs := range snap.TableCards() {
		v.Table = append(v.Table, cs.Card)
	}
	if suit, ok := snap.LeadSuit(); ok {
		v.LeadSuit = suit
		v.HasLead = true
	}
	return v
}
