package team

import "fmt"

// Team is a club as identified by the feed's external team id.
type Team struct {
	ID         int64
	ExternalID int64
	Name       string
	Country    string
}

func (t Team) Validate() error {
	if t.ExternalID == 0 {
		return fmt.Errorf("team external id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
