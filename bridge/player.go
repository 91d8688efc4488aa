package bridge

// Player is the occupant of one seat: a connected human or the
// built-in fallback player. The slot itself never leaves the table;
// only Name and Robot flip when a human joins or leaves.
type Player struct {
	Name  string
	Seat  Seat
	Team  Team
	Robot bool

	// Current auction call, shown on the table until the next deal.
	bidType   BidType
	bidLevel  int
	bidStrain Strain
	hasBid    bool
}

func newBotPlayer(seat Seat) *Player {
	return &Player{
		Name:  seat.String() + "(Bot)",
		Seat:  seat,
		Team:  seat.Team(),
		Robot: true,
	}
}

func (p *Player) setBid(bt BidType, level int, strain Strain) {
	p.bidType = bt
	p.bidLevel = level
	p.bidStrain = strain
	p.hasBid = true
}

func (p *Player) resetForDeal() {
	p.bidType = BidPass
	p.bidLevel = 0
	p.bidStrain = StrainNone
	p.hasBid = false
}
