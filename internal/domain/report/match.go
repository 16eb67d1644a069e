// Package report models the scraped match-report payload as it arrives from
// the feed, before any validation or normalization.
package report

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

type Match struct {
	MatchID    int64      `json:"matchId"`
	League     string     `json:"league"`
	Region     string     `json:"region"`
	Season     string     `json:"season"`
	StartDate  string     `json:"startDate"`
	StartTime  string     `json:"startTime"`
	VenueName  string     `json:"venueName"`
	Attendance *int       `json:"attendance"`
	Referee    *Referee   `json:"referee"`
	Score      string     `json:"score"`
	HTScore    string     `json:"htScore"`
	FTScore    string     `json:"ftScore"`
	ETScore    string     `json:"etScore"`
	Home       *TeamSheet `json:"home"`
	Away       *TeamSheet `json:"away"`
	Events     []Event    `json:"events"`

	present map[string]struct{}
}

type Referee struct {
	OfficialID int64  `json:"officialId"`
	Name       string `json:"name"`
}

type TeamSheet struct {
	TeamID      int64            `json:"teamId"`
	Name        string           `json:"name"`
	AverageAge  float64          `json:"averageAge"`
	ManagerName string           `json:"managerName"`
	CountryName string           `json:"countryName"`
	Scores      TeamScores       `json:"scores"`
	Stats       json.RawMessage  `json:"stats"`
	Formations  []FormationSheet `json:"formations"`
	Players     []PlayerSheet    `json:"players"`

	present map[string]struct{}
}

type TeamScores struct {
	Running Value `json:"running"`
}

type FormationSheet struct {
	FormationID         int64           `json:"formationId"`
	FormationName       string          `json:"formationName"`
	Period              int             `json:"period"`
	CaptainPlayerID     int64           `json:"captainPlayerId"`
	StartMinuteExpanded int             `json:"startMinuteExpanded"`
	EndMinuteExpanded   int             `json:"endMinuteExpanded"`
	JerseyNumbers       json.RawMessage `json:"jerseyNumbers"`
	PlayerIDs           []int64         `json:"playerIds"`
	FormationSlots      json.RawMessage `json:"formationSlots"`
	FormationPositions  json.RawMessage `json:"formationPositions"`
}

type PlayerSheet struct {
	PlayerID        int64           `json:"playerId"`
	Name            string          `json:"name"`
	ShirtNo         int             `json:"shirtNo"`
	Position        string          `json:"position"`
	Field           string          `json:"field"`
	IsFirstEleven   bool            `json:"isFirstEleven"`
	IsManOfTheMatch bool            `json:"isManOfTheMatch"`
	Age             int             `json:"age"`
	Height          float64         `json:"height"`
	Weight          float64         `json:"weight"`
	Stats           json.RawMessage `json:"stats"`
}

func (m *Match) UnmarshalJSON(data []byte) error {
	type plain Match
	var p plain
	if err := sonic.Unmarshal(data, &p); err != nil {
		return err
	}

	keys, err := presentKeys(data)
	if err != nil {
		return err
	}

	*m = Match(p)
	m.present = keys
	return nil
}

// Has reports whether the payload carried the given top-level key, which is
// how required-field validation distinguishes a missing key from a zero value.
func (m *Match) Has(field string) bool {
	_, ok := m.present[field]
	return ok
}

func (t *TeamSheet) UnmarshalJSON(data []byte) error {
	type plain TeamSheet
	var p plain
	if err := sonic.Unmarshal(data, &p); err != nil {
		return err
	}

	keys, err := presentKeys(data)
	if err != nil {
		return err
	}

	*t = TeamSheet(p)
	t.present = keys
	return nil
}

func (t *TeamSheet) Has(field string) bool {
	_, ok := t.present[field]
	return ok
}

func presentKeys(data []byte) (map[string]struct{}, error) {
	var raw map[string]json.RawMessage
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	keys := make(map[string]struct{}, len(raw))
	for k := range raw {
		keys[k] = struct{}{}
	}
	return keys, nil
}
