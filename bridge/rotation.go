package bridge

// Rotate returns dealer and vulnerability for a deal number (>= 1)
// under the extended Chicago rotation: after every 4-deal block the
// dealer skips one position, so the full pattern repeats every 16
// deals. Position 0 of a block is never vulnerable, position 3 is
// always both; in between the dealer's own side is vulnerable.
func Rotate(dealNumber int) (Seat, Vulnerability) {
	index := dealNumber - 1
	block := index / 4 % 4
	position := index % 4

	dealer := Seats[(block+position)%4]

	var vuln Vulnerability
	switch position {
	case 0:
		vuln = VulnNone
	case 3:
		vuln = VulnBoth
	default:
		if dealer.Team() == NorthSouth {
			vuln = VulnNorthSouth
		} else {
			vuln = VulnEastWest
		}
	}
	return dealer, vuln
}
