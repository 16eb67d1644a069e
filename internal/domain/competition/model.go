package competition

import "fmt"

// Competition is a league identified by its name and country.
type Competition struct {
	ID      int64
	Name    string
	Country string
}

func (c Competition) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("competition name is required")
	}
	if c.Country == "" {
		return fmt.Errorf("competition country is required")
	}

	return nil
}

// Season is one edition of a competition, e.g. "2025/2026".
type Season struct {
	ID            int64
	CompetitionID int64
	Name          string
	IsCurrent     bool
}

func (s Season) Validate() error {
	if s.CompetitionID == 0 {
		return fmt.Errorf("season competition id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}

	return nil
}
