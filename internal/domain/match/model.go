package match

import (
	"encoding/json"
	"time"
)

// Match is one played fixture keyed by the feed's external match id.
type Match struct {
	ID          int64
	ExternalID  int64
	SeasonID    int64
	HomeTeamID  int64
	AwayTeamID  int64
	StartAt     time.Time
	Venue       string
	Attendance  *int
	RefereeID   *int64
	RefereeName string
	ScoreRaw    string
	HTScore     Score
	FTScore     Score
	ETScore     *Score
}

// TeamStats is the per-side sheet-level record of a match.
type TeamStats struct {
	ID           int64
	MatchID      int64
	TeamID       int64
	IsHome       bool
	Field        string
	AverageAge   float64
	ManagerName  string
	CountryName  string
	RunningScore json.RawMessage
	Stats        json.RawMessage
}

// Formation is one tactical shape a side used during a match.
type Formation struct {
	ID                  int64
	MatchTeamStatsID    int64
	TeamID              int64
	FormationID         int64
	Period              int
	FormationName       string
	CaptainPlayerID     int64
	StartMinuteExpanded int
	EndMinuteExpanded   int
	JerseyNumbers       json.RawMessage
	PlayerIDs           json.RawMessage
	FormationSlots      json.RawMessage
	FormationPositions  json.RawMessage
}

// RosterEntry is one player's appearance on a match sheet, carrying both the
// player identity fields and the match-specific ones.
type RosterEntry struct {
	PlayerExternalID int64
	PlayerName       string
	TeamID           int64
	ShirtNo          int
	Position         string
	Field            string
	IsFirstEleven    bool
	IsManOfMatch     bool
	Age              int
	Height           *float64
	Weight           *float64
	Stats            json.RawMessage
}

// MatchPlayer is a persisted roster row.
type MatchPlayer struct {
	ID            int64
	MatchID       int64
	PlayerID      int64
	TeamID        int64
	ShirtNo       int
	Position      string
	Field         string
	IsFirstEleven bool
	IsManOfMatch  bool
	Age           int
	Height        float64
	Weight        float64
	Stats         json.RawMessage
}

// Bundle is the unit of work one loaded report produces. The repository
// persists the whole bundle in a single transaction so a re-ingest either
// fully lands or leaves the previous state untouched.
type Bundle struct {
	Match      Match
	TeamStats  []TeamStats
	Formations []Formation
	Roster     []RosterEntry
}

// Appearance is a compact roster row used for season aggregation.
type Appearance struct {
	MatchID       int64
	StartAt       time.Time
	TeamID        int64
	Position      string
	IsFirstEleven bool
}

// TeamSeasonContext carries sheet details of a team's latest match in a
// season, used to decorate season aggregates.
type TeamSeasonContext struct {
	ManagerName   string
	FormationName string
}
