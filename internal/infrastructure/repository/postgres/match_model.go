package postgres

import (
	"database/sql"
	"time"
)

type matchTableModel struct {
	ID          int64         `db:"id"`
	ExternalID  int64         `db:"external_id"`
	SeasonID    int64         `db:"season_id"`
	HomeTeamID  int64         `db:"home_team_id"`
	AwayTeamID  int64         `db:"away_team_id"`
	StartAt     time.Time     `db:"start_at"`
	Venue       string        `db:"venue"`
	Attendance  sql.NullInt64 `db:"attendance"`
	RefereeID   sql.NullInt64 `db:"referee_id"`
	RefereeName string        `db:"referee_name"`
	ScoreRaw    string        `db:"score_raw"`
	HomeScoreHT int           `db:"home_score_ht"`
	AwayScoreHT int           `db:"away_score_ht"`
	HomeScoreFT int           `db:"home_score_ft"`
	AwayScoreFT int           `db:"away_score_ft"`
	HomeScoreET sql.NullInt64 `db:"home_score_et"`
	AwayScoreET sql.NullInt64 `db:"away_score_et"`
	CreatedAt   time.Time     `db:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at"`
}

type matchInsertModel struct {
	ExternalID  int64         `db:"external_id"`
	SeasonID    int64         `db:"season_id"`
	HomeTeamID  int64         `db:"home_team_id"`
	AwayTeamID  int64         `db:"away_team_id"`
	StartAt     time.Time     `db:"start_at"`
	Venue       string        `db:"venue"`
	Attendance  sql.NullInt64 `db:"attendance"`
	RefereeID   sql.NullInt64 `db:"referee_id"`
	RefereeName string        `db:"referee_name"`
	ScoreRaw    string        `db:"score_raw"`
	HomeScoreHT int           `db:"home_score_ht"`
	AwayScoreHT int           `db:"away_score_ht"`
	HomeScoreFT int           `db:"home_score_ft"`
	AwayScoreFT int           `db:"away_score_ft"`
	HomeScoreET sql.NullInt64 `db:"home_score_et"`
	AwayScoreET sql.NullInt64 `db:"away_score_et"`
}

type teamStatsInsertModel struct {
	MatchID      int64   `db:"match_id"`
	TeamID       int64   `db:"team_id"`
	IsHome       bool    `db:"is_home"`
	Field        string  `db:"field"`
	AverageAge   float64 `db:"average_age"`
	ManagerName  string  `db:"manager_name"`
	CountryName  string  `db:"country_name"`
	RunningScore any     `db:"running_score"`
	Stats        any     `db:"stats"`
}

type formationInsertModel struct {
	MatchTeamStatsID    int64  `db:"match_team_stats_id"`
	FormationID         int64  `db:"formation_id"`
	Period              int    `db:"period"`
	FormationName       string `db:"formation_name"`
	CaptainPlayerID     int64  `db:"captain_player_id"`
	StartMinuteExpanded int    `db:"start_minute_expanded"`
	EndMinuteExpanded   int    `db:"end_minute_expanded"`
	JerseyNumbers       any    `db:"jersey_numbers"`
	PlayerIDs           any    `db:"player_ids"`
	FormationSlots      any    `db:"formation_slots"`
	FormationPositions  any    `db:"formation_positions"`
}

type matchPlayerInsertModel struct {
	MatchID       int64   `db:"match_id"`
	PlayerID      int64   `db:"player_id"`
	TeamID        int64   `db:"team_id"`
	ShirtNo       int     `db:"shirt_no"`
	Position      string  `db:"position"`
	Field         string  `db:"field"`
	IsFirstEleven bool    `db:"is_first_eleven"`
	IsManOfMatch  bool    `db:"is_man_of_match"`
	Age           int     `db:"age"`
	Height        float64 `db:"height"`
	Weight        float64 `db:"weight"`
	Stats         any     `db:"stats"`
}

type matchPlayerTableModel struct {
	ID            int64   `db:"id"`
	MatchID       int64   `db:"match_id"`
	PlayerID      int64   `db:"player_id"`
	TeamID        int64   `db:"team_id"`
	ShirtNo       int     `db:"shirt_no"`
	Position      string  `db:"position"`
	Field         string  `db:"field"`
	IsFirstEleven bool    `db:"is_first_eleven"`
	IsManOfMatch  bool    `db:"is_man_of_match"`
	Age           int     `db:"age"`
	Height        float64 `db:"height"`
	Weight        float64 `db:"weight"`
	Stats         []byte  `db:"stats"`
}

type appearanceRow struct {
	MatchID       int64     `db:"match_id"`
	StartAt       time.Time `db:"start_at"`
	TeamID        int64     `db:"team_id"`
	Position      string    `db:"position"`
	IsFirstEleven bool      `db:"is_first_eleven"`
}

type teamSeasonContextRow struct {
	MatchTeamStatsID int64  `db:"id"`
	ManagerName      string `db:"manager_name"`
}
