package player

import "fmt"

// Player is a footballer as identified by the feed's external player id.
// Height and weight are absent for some players in older reports.
type Player struct {
	ID         int64
	ExternalID int64
	Name       string
	Height     *float64
	Weight     *float64
}

func (p Player) Validate() error {
	if p.ExternalID == 0 {
		return fmt.Errorf("player external id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
