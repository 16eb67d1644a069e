package report

import (
	"encoding/json"

	"github.com/bytedance/sonic"
)

// Event is one raw match event. The shared attributes are lifted into typed
// fields; everything else stays in Attrs for category-specific handling.
type Event struct {
	SourceID        int64
	EventID         int64
	Type            string
	OutcomeType     string
	PlayerID        *int64
	PlayerName      string
	Minute          int
	Second          *float64
	ExpandedMinute  int
	Period          string
	MaxMinute       int
	X               float64
	Y               float64
	EndX            *float64
	EndY            *float64
	IsTouch         bool
	Touches         bool
	DefensiveThird  bool
	MidThird        bool
	FinalThird      bool
	RelatedEventID  *float64
	RelatedPlayerID *float64
	Side            string
	Situation       string
	Qualifiers      json.RawMessage
	SatisfiedEvents json.RawMessage

	Attrs map[string]Value
}

func (e *Event) UnmarshalJSON(data []byte) error {
	attrs := make(map[string]Value)
	if err := sonic.Unmarshal(data, &attrs); err != nil {
		return err
	}

	e.SourceID, _ = take(attrs, "id").Int64()
	e.EventID, _ = take(attrs, "eventId").Int64()
	e.Type, _ = take(attrs, "type").Str()
	e.OutcomeType, _ = take(attrs, "outcomeType").Str()
	e.PlayerID = takeInt64Ptr(attrs, "playerId")
	e.PlayerName, _ = take(attrs, "playerName").Str()
	e.Minute = takeInt(attrs, "minute")
	e.Second = takeFloatPtr(attrs, "second")
	e.ExpandedMinute = takeInt(attrs, "expandedMinute")
	e.Period, _ = take(attrs, "period").Str()
	e.MaxMinute = takeInt(attrs, "maxMinute")
	e.X = takeFloat(attrs, "x")
	e.Y = takeFloat(attrs, "y")
	e.EndX = takeFloatPtr(attrs, "endX")
	e.EndY = takeFloatPtr(attrs, "endY")
	e.IsTouch = take(attrs, "isTouch").Truthy()
	e.Touches = take(attrs, "touches").Truthy()
	e.DefensiveThird = take(attrs, "defensiveThird").Truthy()
	e.MidThird = take(attrs, "midThird").Truthy()
	e.FinalThird = take(attrs, "finalThird").Truthy()
	e.RelatedEventID = takeFloatPtr(attrs, "relatedEventId")
	e.RelatedPlayerID = takeFloatPtr(attrs, "relatedPlayerId")
	e.Side, _ = take(attrs, "h_a").Str()
	e.Situation, _ = take(attrs, "situation").Str()
	e.Qualifiers = rawOrNil(take(attrs, "qualifiers"))
	e.SatisfiedEvents = rawOrNil(take(attrs, "satisfiedEventsTypes"))

	e.Attrs = attrs
	return nil
}

// Attr returns a category-specific attribute; absent keys return an absent
// Value, matching how the feed omits unset flags.
func (e Event) Attr(key string) Value {
	return e.Attrs[key]
}

// Flag reports whether a category-specific boolean attribute is set.
func (e Event) Flag(key string) bool {
	return e.Attrs[key].Truthy()
}

func take(attrs map[string]Value, key string) Value {
	v, ok := attrs[key]
	if !ok {
		return Value{}
	}
	delete(attrs, key)
	return v
}

func takeInt(attrs map[string]Value, key string) int {
	n, _ := take(attrs, key).Int64()
	return int(n)
}

func takeFloat(attrs map[string]Value, key string) float64 {
	n, _ := take(attrs, key).Float64()
	return n
}

func takeFloatPtr(attrs map[string]Value, key string) *float64 {
	n, ok := take(attrs, key).Float64()
	if !ok {
		return nil
	}
	return &n
}

func takeInt64Ptr(attrs map[string]Value, key string) *int64 {
	n, ok := take(attrs, key).Int64()
	if !ok {
		return nil
	}
	return &n
}

func rawOrNil(v Value) json.RawMessage {
	if !v.Present() {
		return nil
	}
	return json.RawMessage(v.Raw())
}
