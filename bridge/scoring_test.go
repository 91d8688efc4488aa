package bridge

import "testing"

func TestScoreContractMadeContracts(t *testing.T) {
	cases := []struct {
		name       string
		level      int
		strain     Strain
		doubled    Doubling
		vulnerable bool
		tricksMade int
		total      int
	}{
		{"major game just made", 4, Spades, NotDoubled, false, 10, 420},
		{"major game vulnerable", 4, Hearts, NotDoubled, true, 10, 620},
		{"notrump part score with overtricks", 1, NoTrump, NotDoubled, false, 9, 150},
		{"minor part score", 2, Diamonds, NotDoubled, false, 8, 90},
		{"minor game", 5, Clubs, NotDoubled, false, 11, 400},
		{"doubled part score becomes game", 2, Hearts, Doubled, false, 8, 470},
		{"small slam", 6, Spades, NotDoubled, false, 12, 980},
		{"small slam vulnerable", 6, Spades, NotDoubled, true, 12, 1430},
		{"grand slam notrump vulnerable", 7, NoTrump, NotDoubled, true, 13, 2220},
		{"redoubled minor", 1, Clubs, Redoubled, false, 7, 230},
	}

	for _, tc := range cases {
		b := ScoreContract(tc.level, tc.strain, tc.doubled, tc.vulnerable, tc.tricksMade)
		if b.Total != tc.total {
			t.Errorf("%s: total = %d, want %d (%+v)", tc.name, b.Total, tc.total, b)
		}
		if b.Penalty != 0 {
			t.Errorf("%s: penalty = %d on a made contract", tc.name, b.Penalty)
		}
		if b.Total != b.ContractPoints+b.Overtricks+b.Bonuses+b.Penalty {
			t.Errorf("%s: breakdown does not sum to total: %+v", tc.name, b)
		}
	}
}

func TestScoreContractDownContracts(t *testing.T) {
	cases := []struct {
		name       string
		level      int
		strain     Strain
		doubled    Doubling
		vulnerable bool
		tricksMade int
		total      int
	}{
		{"down one", 3, Hearts, NotDoubled, false, 8, -50},
		{"down one vulnerable", 3, Hearts, NotDoubled, true, 8, -100},
		{"down two doubled vulnerable", 3, Hearts, Doubled, true, 7, -500},
		{"down two doubled", 3, Hearts, Doubled, false, 7, -300},
		{"down three redoubled", 4, Spades, Redoubled, false, 7, -1000},
		{"down one redoubled vulnerable", 2, NoTrump, Redoubled, true, 7, -400},
	}

	for _, tc := range cases {
		b := ScoreContract(tc.level, tc.strain, tc.doubled, tc.vulnerable, tc.tricksMade)
		if b.Total != tc.total {
			t.Errorf("%s: total = %d, want %d (%+v)", tc.name, b.Total, tc.total, b)
		}
		if b.ContractPoints != 0 || b.Overtricks != 0 || b.Bonuses != 0 {
			t.Errorf("%s: down contract carries made-contract points: %+v", tc.name, b)
		}
	}
}

func TestScoreContractIsPure(t *testing.T) {
	first := ScoreContract(4, Spades, Doubled, true, 11)
	second := ScoreContract(4, Spades, Doubled, true, 11)
	if first != second {
		t.Fatalf("repeated scoring differs: %+v vs %+v", first, second)
	}
}
