// Package event holds the classified match-event model: every raw feed event
// lands in exactly one of six categories, each with its own attribute set.
package event

import "encoding/json"

type Category string

const (
	CategoryPassing     Category = "passing"
	CategoryShooting    Category = "shooting"
	CategoryDefending   Category = "defending"
	CategoryGoalkeeping Category = "goalkeeping"
	CategoryPossession  Category = "possession"
	CategorySummary     Category = "summary"
)

// Categories lists all event categories in classification order.
func Categories() []Category {
	return []Category{
		CategoryPassing,
		CategoryDefending,
		CategoryGoalkeeping,
		CategoryShooting,
		CategoryPossession,
		CategorySummary,
	}
}

// Base carries the attributes shared by every event category. SourceID is
// the feed's unique row id; EventID groups related actions and may repeat.
type Base struct {
	ID              int64
	MatchID         int64
	SourceID        int64
	EventID         int64
	TeamID          int64
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
	Type            string
	OutcomeType     string
	RelatedEventID  *float64
	RelatedPlayerID *float64
	Side            string
	Situation       string
	Qualifiers      json.RawMessage
	SatisfiedEvents json.RawMessage
}

type PassingAttrs struct {
	PassAccurate              bool `json:"pass_accurate"`
	PassInaccurate            bool `json:"pass_inaccurate"`
	PassAccuracy              bool `json:"pass_accuracy"`
	Assist                    bool `json:"assist"`
	AssistCorner              bool `json:"assist_corner"`
	AssistCross               bool `json:"assist_cross"`
	AssistFreekick            bool `json:"assist_freekick"`
	AssistOther               bool `json:"assist_other"`
	AssistThroughball         bool `json:"assist_throughball"`
	AssistThrowin             bool `json:"assist_throwin"`
	IntentionalAssist         bool `json:"intentional_assist"`
	KeyPassCorner             bool `json:"key_pass_corner"`
	KeyPassCross              bool `json:"key_pass_cross"`
	KeyPassFreekick           bool `json:"key_pass_freekick"`
	KeyPassLong               bool `json:"key_pass_long"`
	KeyPassOther              bool `json:"key_pass_other"`
	KeyPassShort              bool `json:"key_pass_short"`
	KeyPassThroughball        bool `json:"key_pass_throughball"`
	KeyPassThrowin            bool `json:"key_pass_throwin"`
	PassKey                   bool `json:"pass_key"`
	PassCorner                bool `json:"pass_corner"`
	PassCornerAccurate        bool `json:"pass_corner_accurate"`
	PassCornerInaccurate      bool `json:"pass_corner_inaccurate"`
	PassCrossAccurate         bool `json:"pass_cross_accurate"`
	PassCrossBlockedDefensive bool `json:"pass_cross_blocked_defensive"`
	PassCrossInaccurate       bool `json:"pass_cross_inaccurate"`
	PassFreekick              bool `json:"pass_freekick"`
	PassFreekickAccurate      bool `json:"pass_freekick_accurate"`
	PassFreekickInaccurate    bool `json:"pass_freekick_inaccurate"`
	PassBack                  bool `json:"pass_back"`
	PassBackZoneInaccurate    bool `json:"pass_back_zone_inaccurate"`
	PassForward               bool `json:"pass_forward"`
	PassForwardZoneAccurate   bool `json:"pass_forward_zone_accurate"`
	PassLeft                  bool `json:"pass_left"`
	PassRight                 bool `json:"pass_right"`
	PassChipped               bool `json:"pass_chipped"`
	PassHead                  bool `json:"pass_head"`
	PassLeftFoot              bool `json:"pass_left_foot"`
	PassRightFoot             bool `json:"pass_right_foot"`
	PassLongBallAccurate      bool `json:"pass_long_ball_accurate"`
	PassLongBallInaccurate    bool `json:"pass_long_ball_inaccurate"`
	ShortPassAccurate         bool `json:"short_pass_accurate"`
	ShortPassInaccurate       bool `json:"short_pass_inaccurate"`
	PassThroughBallAccurate   bool `json:"pass_through_ball_accurate"`
	PassThroughBallInaccurate bool `json:"pass_through_ball_inaccurate"`
	BigChanceCreated          bool `json:"big_chance_created"`
	SuccessfulFinalThirdPass  bool `json:"successful_final_third_passes"`
	ThrowIn                   bool `json:"throw_in"`
}

type ShootingAttrs struct {
	BigChanceMissed                bool     `json:"big_chance_missed"`
	BigChanceScored                bool     `json:"big_chance_scored"`
	CloseMissHigh                  bool     `json:"close_miss_high"`
	CloseMissHighLeft              bool     `json:"close_miss_high_left"`
	CloseMissHighRight             bool     `json:"close_miss_high_right"`
	CloseMissLeft                  bool     `json:"close_miss_left"`
	CloseMissRight                 bool     `json:"close_miss_right"`
	IsGoal                         bool     `json:"is_goal"`
	GoalCounter                    bool     `json:"goal_counter"`
	GoalHead                       bool     `json:"goal_head"`
	GoalLeftFoot                   bool     `json:"goal_left_foot"`
	GoalRightFoot                  bool     `json:"goal_right_foot"`
	GoalNormal                     bool     `json:"goal_normal"`
	GoalOpenPlay                   bool     `json:"goal_open_play"`
	GoalSetPiece                   bool     `json:"goal_set_piece"`
	GoalObox                       bool     `json:"goal_obox"`
	GoalObp                        bool     `json:"goal_obp"`
	GoalPenaltyArea                bool     `json:"goal_penalty_area"`
	GoalSixYardBox                 bool     `json:"goal_six_yard_box"`
	GoalMouthY                     *float64 `json:"goal_mouth_y"`
	GoalMouthZ                     *float64 `json:"goal_mouth_z"`
	IsShot                         bool     `json:"is_shot"`
	ShotBlocked                    bool     `json:"shot_blocked"`
	ShotCounter                    bool     `json:"shot_counter"`
	ShotDirectCorner               bool     `json:"shot_direct_corner"`
	ShotOnPost                     bool     `json:"shot_on_post"`
	ShotOnTarget                   bool     `json:"shot_on_target"`
	ShotOffTarget                  bool     `json:"shot_off_target"`
	ShotOffTargetInsideBox         bool     `json:"shot_off_target_inside_box"`
	ShotsTotal                     bool     `json:"shots_total"`
	ShotBodyType                   *string  `json:"shot_body_type"`
	ShotHead                       bool     `json:"shot_head"`
	ShotLeftFoot                   bool     `json:"shot_left_foot"`
	ShotRightFoot                  bool     `json:"shot_right_foot"`
	ShotOboxTotal                  bool     `json:"shot_obox_total"`
	ShotObp                        bool     `json:"shot_obp"`
	ShotPenaltyArea                bool     `json:"shot_penalty_area"`
	ShotSixYardBox                 bool     `json:"shot_six_yard_box"`
	ShotOpenPlay                   bool     `json:"shot_open_play"`
	ShotSetPiece                   bool     `json:"shot_set_piece"`
	PenaltyMissed                  bool     `json:"penalty_missed"`
	PenaltyScored                  bool     `json:"penalty_scored"`
	PenaltyShootoutMissedOffTarget bool     `json:"penalty_shootout_missed_off_target"`
	PenaltyShootoutScored          bool     `json:"penalty_shootout_scored"`
}

type DefendingAttrs struct {
	IsTackle              bool     `json:"is_tackle"`
	IsInterception        bool     `json:"is_interception"`
	IsClearance           bool     `json:"is_clearance"`
	IsBallRecovery        bool     `json:"is_ball_recovery"`
	AerialSuccess         bool     `json:"aerial_success"`
	DuelAerialLost        bool     `json:"duel_aerial_lost"`
	DuelAerialWon         bool     `json:"duel_aerial_won"`
	BlockedX              *float64 `json:"blocked_x"`
	BlockedY              *float64 `json:"blocked_y"`
	ClearanceEffective    bool     `json:"clearance_effective"`
	ClearanceHead         bool     `json:"clearance_head"`
	ClearanceOffTheLine   bool     `json:"clearance_off_the_line"`
	ClearanceTotal        bool     `json:"clearance_total"`
	ChallengeLost         bool     `json:"challenge_lost"`
	DefensiveDuel         bool     `json:"defensive_duel"`
	OffensiveDuel         bool     `json:"offensive_duel"`
	ErrorLeadsToGoal      bool     `json:"error_leads_to_goal"`
	ErrorLeadsToShot      bool     `json:"error_leads_to_shot"`
	GoalOwn               bool     `json:"goal_own"`
	InterceptionAll       bool     `json:"interception_all"`
	InterceptionInTheBox  bool     `json:"interception_in_the_box"`
	InterceptionWon       bool     `json:"interception_won"`
	OutfielderBlock       bool     `json:"outfielder_block"`
	OutfielderBlockedPass bool     `json:"outfielder_blocked_pass"`
	SixYardBlock          bool     `json:"six_yard_block"`
	TackleLastMan         bool     `json:"tackle_last_man"`
	TackleLost            bool     `json:"tackle_lost"`
	TackleWon             bool     `json:"tackle_won"`
	PenaltyConceded       bool     `json:"penalty_conceded"`
}

type GoalkeepingAttrs struct {
	IsCollected               bool `json:"is_collected"`
	KeeperClaimHighLost       bool `json:"keeper_claim_high_lost"`
	KeeperClaimHighWon        bool `json:"keeper_claim_high_won"`
	KeeperClaimLost           bool `json:"keeper_claim_lost"`
	KeeperClaimWon            bool `json:"keeper_claim_won"`
	KeeperDivingSave          bool `json:"keeper_diving_save"`
	KeeperMissed              bool `json:"keeper_missed"`
	KeeperOneToOneWon         bool `json:"keeper_one_to_one_won"`
	StandingSave              bool `json:"standing_save"`
	SaveFeet                  bool `json:"save_feet"`
	SaveHands                 bool `json:"save_hands"`
	SaveHighCentre            bool `json:"save_high_centre"`
	SaveHighLeft              bool `json:"save_high_left"`
	SaveHighRight             bool `json:"save_high_right"`
	SaveLowCentre             bool `json:"save_low_centre"`
	SaveLowLeft               bool `json:"save_low_left"`
	SaveLowRight              bool `json:"save_low_right"`
	SaveObox                  bool `json:"save_obox"`
	SaveObp                   bool `json:"save_obp"`
	SavePenaltyArea           bool `json:"save_penalty_area"`
	SaveSixYardBox            bool `json:"save_six_yard_box"`
	KeeperSaveInTheBox        bool `json:"keeper_save_in_the_box"`
	KeeperSaveTotal           bool `json:"keeper_save_total"`
	KeeperPenaltySaved        bool `json:"keeper_penalty_saved"`
	PenaltyShootoutSaved      bool `json:"penalty_shootout_saved"`
	PenaltyShootoutSavedGK    bool `json:"penalty_shootout_saved_gk"`
	PenaltyShootoutConcededGK bool `json:"penalty_shootout_conceded_gk"`
	KeeperSmother             bool `json:"keeper_smother"`
	KeeperSweeperLost         bool `json:"keeper_sweeper_lost"`
	ParriedDanger             bool `json:"parried_danger"`
	ParriedSafe               bool `json:"parried_safe"`
	Punches                   bool `json:"punches"`
}

type PossessionAttrs struct {
	CornerAwarded   bool `json:"corner_awarded"`
	Dispossessed    bool `json:"dispossessed"`
	Touches         bool `json:"touches"`
	Turnover        bool `json:"turnover"`
	Overrun         bool `json:"overrun"`
	IsTouch         bool `json:"is_touch"`
	DribbleLastman  bool `json:"dribble_lastman"`
	DribbleLost     bool `json:"dribble_lost"`
	DribbleWon      bool `json:"dribble_won"`
	FoulCommitted   bool `json:"foul_committed"`
	FoulGiven       bool `json:"foul_given"`
	PenaltyWon      bool `json:"penalty_won"`
	OffsideGiven    bool `json:"offside_given"`
	OffsideProvoked bool `json:"offside_provoked"`
}

type SummaryAttrs struct {
	CardType       *string `json:"card_type"`
	YellowCard     bool    `json:"yellow_card"`
	RedCard        bool    `json:"red_card"`
	SecondYellow   bool    `json:"second_yellow"`
	VoidYellowCard bool    `json:"void_yellow_card"`
	SubOn          bool    `json:"sub_on"`
	SubOff         bool    `json:"sub_off"`
}

// Classified is one event routed to its category. Exactly one attrs pointer
// matching Category is non-nil.
type Classified struct {
	Category Category
	Base     Base

	Passing     *PassingAttrs
	Shooting    *ShootingAttrs
	Defending   *DefendingAttrs
	Goalkeeping *GoalkeepingAttrs
	Possession  *PossessionAttrs
	Summary     *SummaryAttrs
}

// LoadOutcome reports what one batch ingest did.
type LoadOutcome struct {
	Loaded  map[Category]int
	Skipped []SkippedEvent
}

func (o LoadOutcome) TotalLoaded() int {
	total := 0
	for _, n := range o.Loaded {
		total += n
	}
	return total
}

// SkippedEvent records one event that was not stored and why.
type SkippedEvent struct {
	SourceID int64
	EventID  int64
	Type     string
	Reason   string
}
