package match

import (
	"fmt"
	"strconv"
	"strings"
)

// Score is a goal tally pair parsed from the feed's "H:A" encoding.
type Score struct {
	Home int
	Away int
}

// ParseScore parses a score string such as "2:1" or "2 : 1".
func ParseScore(s string) (Score, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return Score{}, fmt.Errorf("invalid score format: %q", s)
	}

	home, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Score{}, fmt.Errorf("invalid score format: %q", s)
	}
	away, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Score{}, fmt.Errorf("invalid score format: %q", s)
	}

	return Score{Home: home, Away: away}, nil
}

func (s Score) String() string {
	return fmt.Sprintf("%d:%d", s.Home, s.Away)
}
