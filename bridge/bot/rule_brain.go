package bot

import (
	"math/rand"

	"github.com/Ultimatthi/bridge-delta-null/bridge"
	"github.com/Ultimatthi/bridge-delta-null/card"
)

// RuleBrain is the default fallback player. It makes legal but
// unsophisticated calls: a coin flip between passing and the cheapest
// overcall, and in play the lowest-indexed card that follows suit.
type RuleBrain struct {
	rng *rand.Rand
}

func NewRuleBrain(seed int64) *RuleBrain {
	return &RuleBrain{rng: rand.New(rand.NewSource(seed))}
}

func (b *RuleBrain) Name() string { return "rule" }

// Bid implements Decider. With no standing contract the bot opens one
// club; otherwise it overcalls the next strain up, bumping the level
// when the strain ladder wraps. At level four and above it gives up
// and passes.
func (b *RuleBrain) Bid(view View) Call {
	if b.rng.Intn(2) == 0 {
		return Call{Type: bridge.BidPass, Strain: bridge.StrainNone}
	}

	if view.ContractLevel == 0 {
		return Call{Type: bridge.BidNormal, Level: 1, Strain: bridge.Clubs}
	}
	if view.ContractLevel < 4 {
		strain := (view.ContractStrain + 1) % 5
		level := view.ContractLevel
		if strain == bridge.Clubs {
			level++
		}
		return Call{Type: bridge.BidNormal, Level: level, Strain: strain}
	}
	return Call{Type: bridge.BidPass, Strain: bridge.StrainNone}
}

// Play implements Decider. It returns the first card in hand matching
// the led suit, or failing that the first card in hand.
func (b *RuleBrain) Play(view View) (card.Card, bool) {
	if len(view.Hand) == 0 {
		return 0, false
	}
	if view.HasLead {
		for _, c := range view.Hand {
			if c.Suit() == view.LeadSuit {
				return c, true
			}
		}
	}
	return view.Hand[0], true
}
