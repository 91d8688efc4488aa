package bridge

// Breakdown is the per-deal score decomposition. Total is always
// ContractPoints + Overtricks + Bonuses + Penalty; Penalty is zero
// when the contract made, all bonuses are zero when it went down.
type Breakdown struct {
	ContractPoints int
	Overtricks     int
	Bonuses        int
	InsultBonus    int
	SlamBonus      int
	GameBonus      int
	PartScoreBonus int
	Penalty        int
	Total          int
}

// ScoreContract computes the Chicago (per-deal) score for a finished
// contract. Pure and deterministic: no state is read or written.
func ScoreContract(level int, strain Strain, doubled Doubling, vulnerable bool, tricksMade int) Breakdown {
	trickValue := 30
	if strain == Clubs || strain == Diamonds {
		trickValue = 20
	}
	multiplier := 1
	switch doubled {
	case Doubled:
		multiplier = 2
	case Redoubled:
		multiplier = 4
	}

	required := 6 + level
	overtricks := tricksMade - required

	var b Breakdown

	if overtricks >= 0 {
		firstTrickBonus := 0
		if strain == NoTrump {
			firstTrickBonus = 10
		}
		b.ContractPoints = level*trickValue*multiplier + firstTrickBonus*multiplier

		switch doubled {
		case NotDoubled:
			b.Overtricks = overtricks * trickValue
		case Doubled:
			if vulnerable {
				b.Overtricks = overtricks * 200
			} else {
				b.Overtricks = overtricks * 100
			}
		case Redoubled:
			if vulnerable {
				b.Overtricks = overtricks * 400
			} else {
				b.Overtricks = overtricks * 200
			}
		}

		if b.ContractPoints < 100 {
			b.PartScoreBonus = 50
		} else if vulnerable {
			b.GameBonus = 500
		} else {
			b.GameBonus = 300
		}

		switch level {
		case 6:
			if vulnerable {
				b.SlamBonus = 750
			} else {
				b.SlamBonus = 500
			}
		case 7:
			if vulnerable {
				b.SlamBonus = 1500
			} else {
				b.SlamBonus = 1000
			}
		}

		switch doubled {
		case Doubled:
			b.InsultBonus = 50
		case Redoubled:
			b.InsultBonus = 100
		}
	} else {
		down := -overtricks
		if doubled == NotDoubled {
			if vulnerable {
				b.Penalty = -down * 100
			} else {
				b.Penalty = -down * 50
			}
		} else {
			penalty := 0
			if vulnerable {
				// 200, 300, 300, ...
				penalty = 200 + (down-1)*300
			} else {
				// 100, 200, 200, ...
				penalty = 100 + (down-1)*200
			}
			if doubled == Redoubled {
				penalty *= 2
			}
			b.Penalty = -penalty
		}
	}

	b.Bonuses = b.PartScoreBonus + b.GameBonus + b.SlamBonus + b.InsultBonus
	b.Total = b.ContractPoints + b.Overtricks + b.Bonuses + b.Penalty
	return b
}
