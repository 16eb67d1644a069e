package postgres

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmarchuk/matchfeed/internal/domain/event"
)

// eventInsertBase holds the columns shared by all six event tables.
type eventInsertBase struct {
	MatchID         int64           `db:"match_id"`
	SourceID        int64           `db:"source_id"`
	EventID         int64           `db:"event_id"`
	TeamID          int64           `db:"team_id"`
	PlayerID        sql.NullInt64   `db:"player_id"`
	PlayerName      string          `db:"player_name"`
	Minute          int             `db:"minute"`
	Second          sql.NullFloat64 `db:"second"`
	ExpandedMinute  int             `db:"expanded_minute"`
	Period          string          `db:"period"`
	MaxMinute       int             `db:"max_minute"`
	X               float64         `db:"x"`
	Y               float64         `db:"y"`
	EndX            sql.NullFloat64 `db:"end_x"`
	EndY            sql.NullFloat64 `db:"end_y"`
	IsTouch         bool            `db:"is_touch"`
	Touches         bool            `db:"touches"`
	DefensiveThird  bool            `db:"defensive_third"`
	MidThird        bool            `db:"mid_third"`
	FinalThird      bool            `db:"final_third"`
	Type            string          `db:"type"`
	OutcomeType     string          `db:"outcome_type"`
	RelatedEventID  sql.NullFloat64 `db:"related_event_id"`
	RelatedPlayerID sql.NullFloat64 `db:"related_player_id"`
	Side            string          `db:"side"`
	Situation       string          `db:"situation"`
}

type eventInsertModel struct {
	eventInsertBase
	Qualifiers      any    `db:"qualifiers"`
	SatisfiedEvents any    `db:"satisfied_events"`
	Attrs           []byte `db:"attrs"`
}

type eventTableModel struct {
	ID int64 `db:"id"`
	eventInsertBase
	Qualifiers      []byte    `db:"qualifiers"`
	SatisfiedEvents []byte    `db:"satisfied_events"`
	Attrs           []byte    `db:"attrs"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func eventInsertFromBase(b event.Base) eventInsertBase {
	return eventInsertBase{
		MatchID:         b.MatchID,
		SourceID:        b.SourceID,
		EventID:         b.EventID,
		TeamID:          b.TeamID,
		PlayerID:        ptrToNullInt64(b.PlayerID),
		PlayerName:      b.PlayerName,
		Minute:          b.Minute,
		Second:          ptrToNullFloat64(b.Second),
		ExpandedMinute:  b.ExpandedMinute,
		Period:          b.Period,
		MaxMinute:       b.MaxMinute,
		X:               b.X,
		Y:               b.Y,
		EndX:            ptrToNullFloat64(b.EndX),
		EndY:            ptrToNullFloat64(b.EndY),
		IsTouch:         b.IsTouch,
		Touches:         b.Touches,
		DefensiveThird:  b.DefensiveThird,
		MidThird:        b.MidThird,
		FinalThird:      b.FinalThird,
		Type:            b.Type,
		OutcomeType:     b.OutcomeType,
		RelatedEventID:  ptrToNullFloat64(b.RelatedEventID),
		RelatedPlayerID: ptrToNullFloat64(b.RelatedPlayerID),
		Side:            b.Side,
		Situation:       b.Situation,
	}
}

func baseFromEventRow(row eventTableModel) event.Base {
	return event.Base{
		ID:              row.ID,
		MatchID:         row.MatchID,
		SourceID:        row.SourceID,
		EventID:         row.EventID,
		TeamID:          row.TeamID,
		PlayerID:        nullInt64ToPtr(row.PlayerID),
		PlayerName:      row.PlayerName,
		Minute:          row.Minute,
		Second:          nullFloat64ToPtr(row.Second),
		ExpandedMinute:  row.ExpandedMinute,
		Period:          row.Period,
		MaxMinute:       row.MaxMinute,
		X:               row.X,
		Y:               row.Y,
		EndX:            nullFloat64ToPtr(row.EndX),
		EndY:            nullFloat64ToPtr(row.EndY),
		IsTouch:         row.IsTouch,
		Touches:         row.Touches,
		DefensiveThird:  row.DefensiveThird,
		MidThird:        row.MidThird,
		FinalThird:      row.FinalThird,
		Type:            row.Type,
		OutcomeType:     row.OutcomeType,
		RelatedEventID:  nullFloat64ToPtr(row.RelatedEventID),
		RelatedPlayerID: nullFloat64ToPtr(row.RelatedPlayerID),
		Side:            row.Side,
		Situation:       row.Situation,
		Qualifiers:      json.RawMessage(row.Qualifiers),
		SatisfiedEvents: json.RawMessage(row.SatisfiedEvents),
	}
}
