package bridge

import "fmt"

type Config struct {
	// TotalDeals is the advertised length of the Chicago rotation
	// (the rotation pattern itself repeats every 16 deals).
	TotalDeals int

	// RNG seed (0 => time-based)
	Seed int64
}

func (c Config) validate() error {
	if c.TotalDeals <= 0 {
		return fmt.Errorf("TotalDeals must be > 0")
	}
	return nil
}
