package event

import (
	"fmt"

	"github.com/dmarchuk/matchfeed/internal/domain/report"
)

// ErrUnknownType marks events whose type matches no category rule.
var ErrUnknownType = fmt.Errorf("unknown event type")

var defendingTypes = map[string]struct{}{
	"Tackle":       {},
	"Interception": {},
	"Clearance":    {},
	"BallRecovery": {},
	"Aerial":       {},
	"Challenge":    {},
}

var possessionTypes = map[string]struct{}{
	"BallTouch":    {},
	"TakeOn":       {},
	"Dispossessed": {},
	"Foul":         {},
}

var summaryTypes = map[string]struct{}{
	"Card":            {},
	"SubstitutionOn":  {},
	"SubstitutionOff": {},
}

// Classify routes a raw event into its category and builds the typed
// attribute payload. The rule order is significant: a keeper's save on a
// shot must land in goalkeeping, not shooting.
func Classify(raw report.Event) (Classified, error) {
	base := baseFromReport(raw)

	switch {
	case raw.Type == "Pass":
		attrs := buildPassing(raw)
		return Classified{Category: CategoryPassing, Base: base, Passing: &attrs}, nil

	case typeIn(raw.Type, defendingTypes):
		attrs := buildDefending(raw)
		return Classified{Category: CategoryDefending, Base: base, Defending: &attrs}, nil

	case raw.Type == "Save" || raw.Type == "SavedShot" ||
		raw.Flag("keeper_save") || raw.Flag("keeper_claim") || raw.Flag("keeper_punch"):
		attrs := buildGoalkeeping(raw)
		return Classified{Category: CategoryGoalkeeping, Base: base, Goalkeeping: &attrs}, nil

	case raw.Type == "Shot" || raw.Flag("isShot"):
		attrs := buildShooting(raw)
		return Classified{Category: CategoryShooting, Base: base, Shooting: &attrs}, nil

	case typeIn(raw.Type, possessionTypes):
		attrs := buildPossession(raw)
		return Classified{Category: CategoryPossession, Base: base, Possession: &attrs}, nil

	case typeIn(raw.Type, summaryTypes):
		attrs := buildSummary(raw)
		return Classified{Category: CategorySummary, Base: base, Summary: &attrs}, nil

	default:
		return Classified{}, fmt.Errorf("%w: %q", ErrUnknownType, raw.Type)
	}
}

func typeIn(t string, set map[string]struct{}) bool {
	_, ok := set[t]
	return ok
}

func baseFromReport(raw report.Event) Base {
	return Base{
		SourceID:        raw.SourceID,
		EventID:         raw.EventID,
		PlayerName:      raw.PlayerName,
		Minute:          raw.Minute,
		Second:          raw.Second,
		ExpandedMinute:  raw.ExpandedMinute,
		Period:          raw.Period,
		MaxMinute:       raw.MaxMinute,
		X:               raw.X,
		Y:               raw.Y,
		EndX:            raw.EndX,
		EndY:            raw.EndY,
		IsTouch:         raw.IsTouch,
		Touches:         raw.Touches,
		DefensiveThird:  raw.DefensiveThird,
		MidThird:        raw.MidThird,
		FinalThird:      raw.FinalThird,
		Type:            raw.Type,
		OutcomeType:     raw.OutcomeType,
		RelatedEventID:  raw.RelatedEventID,
		RelatedPlayerID: raw.RelatedPlayerID,
		Side:            raw.Side,
		Situation:       raw.Situation,
		Qualifiers:      raw.Qualifiers,
		SatisfiedEvents: raw.SatisfiedEvents,
	}
}

func buildPassing(e report.Event) PassingAttrs {
	return PassingAttrs{
		PassAccurate:              e.Flag("passAccurate"),
		PassInaccurate:            e.Flag("passInaccurate"),
		PassAccuracy:              e.Flag("passAccuracy"),
		Assist:                    e.Flag("assist"),
		AssistCorner:              e.Flag("assistCorner"),
		AssistCross:               e.Flag("assistCross"),
		AssistFreekick:            e.Flag("assistFreekick"),
		AssistOther:               e.Flag("assistOther"),
		AssistThroughball:         e.Flag("assistThroughball"),
		AssistThrowin:             e.Flag("assistThrowin"),
		IntentionalAssist:         e.Flag("intentionalAssist"),
		KeyPassCorner:             e.Flag("keyPassCorner"),
		KeyPassCross:              e.Flag("keyPassCross"),
		KeyPassFreekick:           e.Flag("keyPassFreekick"),
		KeyPassLong:               e.Flag("keyPassLong"),
		KeyPassOther:              e.Flag("keyPassOther"),
		KeyPassShort:              e.Flag("keyPassShort"),
		KeyPassThroughball:        e.Flag("keyPassThroughball"),
		KeyPassThrowin:            e.Flag("keyPassThrowin"),
		PassKey:                   e.Flag("passKey"),
		PassCorner:                e.Flag("passCorner"),
		PassCornerAccurate:        e.Flag("passCornerAccurate"),
		PassCornerInaccurate:      e.Flag("passCornerInaccurate"),
		PassCrossAccurate:         e.Flag("passCrossAccurate"),
		PassCrossBlockedDefensive: e.Flag("passCrossBlockedDefensive"),
		PassCrossInaccurate:       e.Flag("passCrossInaccurate"),
		PassFreekick:              e.Flag("passFreekick"),
		PassFreekickAccurate:      e.Flag("passFreekickAccurate"),
		PassFreekickInaccurate:    e.Flag("passFreekickInaccurate"),
		PassBack:                  e.Flag("passBack"),
		PassBackZoneInaccurate:    e.Flag("passBackZoneInaccurate"),
		PassForward:               e.Flag("passForward"),
		PassForwardZoneAccurate:   e.Flag("passForwardZoneAccurate"),
		PassLeft:                  e.Flag("passLeft"),
		PassRight:                 e.Flag("passRight"),
		PassChipped:               e.Flag("passChipped"),
		PassHead:                  e.Flag("passHead"),
		PassLeftFoot:              e.Flag("passLeftFoot"),
		PassRightFoot:             e.Flag("passRightFoot"),
		PassLongBallAccurate:      e.Flag("passLongBallAccurate"),
		PassLongBallInaccurate:    e.Flag("passLongBallInaccurate"),
		ShortPassAccurate:         e.Flag("shortPassAccurate"),
		ShortPassInaccurate:       e.Flag("shortPassInaccurate"),
		PassThroughBallAccurate:   e.Flag("passThroughBallAccurate"),
		PassThroughBallInaccurate: e.Flag("passThroughBallInaccurate"),
		BigChanceCreated:          e.Flag("bigChanceCreated"),
		SuccessfulFinalThirdPass:  e.Flag("successfulFinalThirdPasses"),
		ThrowIn:                   e.Flag("throwIn"),
	}
}

func buildDefending(e report.Event) DefendingAttrs {
	return DefendingAttrs{
		IsTackle:              e.Type == "Tackle",
		IsInterception:        e.Type == "Interception",
		IsClearance:           e.Type == "Clearance",
		IsBallRecovery:        e.Type == "BallRecovery",
		AerialSuccess:         e.Flag("aerialSuccess"),
		DuelAerialLost:        e.Flag("duelAerialLost"),
		DuelAerialWon:         e.Flag("duelAerialWon"),
		BlockedX:              floatPtr(e.Attr("blockedX")),
		BlockedY:              floatPtr(e.Attr("blockedY")),
		ClearanceEffective:    e.Flag("clearanceEffective"),
		ClearanceHead:         e.Flag("clearanceHead"),
		ClearanceOffTheLine:   e.Flag("clearanceOffTheLine"),
		ClearanceTotal:        e.Flag("clearanceTotal"),
		ChallengeLost:         e.Flag("challengeLost"),
		DefensiveDuel:         e.Flag("defensiveDuel"),
		OffensiveDuel:         e.Flag("offensiveDuel"),
		ErrorLeadsToGoal:      e.Flag("errorLeadsToGoal"),
		ErrorLeadsToShot:      e.Flag("errorLeadsToShot"),
		GoalOwn:               e.Flag("goalOwn"),
		InterceptionAll:       e.Flag("interceptionAll"),
		InterceptionInTheBox:  e.Flag("interceptionIntheBox"),
		InterceptionWon:       e.Flag("interceptionWon"),
		OutfielderBlock:       e.Flag("outfielderBlock"),
		OutfielderBlockedPass: e.Flag("outfielderBlockedPass"),
		SixYardBlock:          e.Flag("sixYardBlock"),
		TackleLastMan:         e.Flag("tackleLastMan"),
		TackleLost:            e.Flag("tackleLost"),
		TackleWon:             e.Flag("tackleWon"),
		PenaltyConceded:       e.Flag("penaltyConceded"),
	}
}

func buildShooting(e report.Event) ShootingAttrs {
	return ShootingAttrs{
		BigChanceMissed:                e.Flag("bigChanceMissed"),
		BigChanceScored:                e.Flag("bigChanceScored"),
		CloseMissHigh:                  e.Flag("closeMissHigh"),
		CloseMissHighLeft:              e.Flag("closeMissHighLeft"),
		CloseMissHighRight:             e.Flag("closeMissHighRight"),
		CloseMissLeft:                  e.Flag("closeMissLeft"),
		CloseMissRight:                 e.Flag("closeMissRight"),
		IsGoal:                         e.Flag("isGoal"),
		GoalCounter:                    e.Flag("goalCounter"),
		GoalHead:                       e.Flag("goalHead"),
		GoalLeftFoot:                   e.Flag("goalLeftFoot"),
		GoalRightFoot:                  e.Flag("goalRightFoot"),
		GoalNormal:                     e.Flag("goalNormal"),
		GoalOpenPlay:                   e.Flag("goalOpenPlay"),
		GoalSetPiece:                   e.Flag("goalSetPiece"),
		GoalObox:                       e.Flag("goalObox"),
		GoalObp:                        e.Flag("goalObp"),
		GoalPenaltyArea:                e.Flag("goalPenaltyArea"),
		GoalSixYardBox:                 e.Flag("goalSixYardBox"),
		GoalMouthY:                     floatPtr(e.Attr("goalMouthY")),
		GoalMouthZ:                     floatPtr(e.Attr("goalMouthZ")),
		IsShot:                         e.Flag("isShot"),
		ShotBlocked:                    e.Flag("shotBlocked"),
		ShotCounter:                    e.Flag("shotCounter"),
		ShotDirectCorner:               e.Flag("shotDirectCorner"),
		ShotOnPost:                     e.Flag("shotOnPost"),
		ShotOnTarget:                   e.Flag("shotOnTarget"),
		ShotOffTarget:                  e.Flag("shotOffTarget"),
		ShotOffTargetInsideBox:         e.Flag("shotOffTargetInsideBox"),
		ShotsTotal:                     e.Flag("shotsTotal"),
		ShotBodyType:                   strPtr(e.Attr("shotBodyType")),
		ShotHead:                       e.Flag("shotHead"),
		ShotLeftFoot:                   e.Flag("shotLeftFoot"),
		ShotRightFoot:                  e.Flag("shotRightFoot"),
		ShotOboxTotal:                  e.Flag("shotOboxTotal"),
		ShotObp:                        e.Flag("shotObp"),
		ShotPenaltyArea:                e.Flag("shotPenaltyArea"),
		ShotSixYardBox:                 e.Flag("shotSixYardBox"),
		ShotOpenPlay:                   e.Flag("shotOpenPlay"),
		ShotSetPiece:                   e.Flag("shotSetPiece"),
		PenaltyMissed:                  e.Flag("penaltyMissed"),
		PenaltyScored:                  e.Flag("penaltyScored"),
		PenaltyShootoutMissedOffTarget: e.Flag("penaltyShootoutMissedOffTarget"),
		PenaltyShootoutScored:          e.Flag("penaltyShootoutScored"),
	}
}

func buildGoalkeeping(e report.Event) GoalkeepingAttrs {
	return GoalkeepingAttrs{
		IsCollected:               e.Flag("collected"),
		KeeperClaimHighLost:       e.Flag("keeperClaimHighLost"),
		KeeperClaimHighWon:        e.Flag("keeperClaimHighWon"),
		KeeperClaimLost:           e.Flag("keeperClaimLost"),
		KeeperClaimWon:            e.Flag("keeperClaimWon"),
		KeeperDivingSave:          e.Flag("keeperDivingSave"),
		KeeperMissed:              e.Flag("keeperMissed"),
		KeeperOneToOneWon:         e.Flag("keeperOneToOneWon"),
		StandingSave:              e.Flag("standingSave"),
		SaveFeet:                  e.Flag("saveFeet"),
		SaveHands:                 e.Flag("saveHands"),
		SaveHighCentre:            e.Flag("saveHighCentre"),
		SaveHighLeft:              e.Flag("saveHighLeft"),
		SaveHighRight:             e.Flag("saveHighRight"),
		SaveLowCentre:             e.Flag("saveLowCentre"),
		SaveLowLeft:               e.Flag("saveLowLeft"),
		SaveLowRight:              e.Flag("saveLowRight"),
		SaveObox:                  e.Flag("saveObox"),
		SaveObp:                   e.Flag("saveObp"),
		SavePenaltyArea:           e.Flag("savePenaltyArea"),
		SaveSixYardBox:            e.Flag("saveSixYardBox"),
		KeeperSaveInTheBox:        e.Flag("keeperSaveInTheBox"),
		KeeperSaveTotal:           e.Flag("keeperSaveTotal"),
		KeeperPenaltySaved:        e.Flag("keeperPenaltySaved"),
		PenaltyShootoutSaved:      e.Flag("penaltyShootoutSaved"),
		PenaltyShootoutSavedGK:    e.Flag("penaltyShootoutSavedGK"),
		PenaltyShootoutConcededGK: e.Flag("penaltyShootoutConcededGK"),
		KeeperSmother:             e.Flag("keeperSmother"),
		KeeperSweeperLost:         e.Flag("keeperSweeperLost"),
		ParriedDanger:             e.Flag("parriedDanger"),
		ParriedSafe:               e.Flag("parriedSafe"),
		Punches:                   e.Flag("punches"),
	}
}

func buildPossession(e report.Event) PossessionAttrs {
	return PossessionAttrs{
		CornerAwarded:   e.Flag("cornerAwarded"),
		Dispossessed:    e.Flag("dispossessed"),
		Touches:         e.Touches,
		Turnover:        e.Flag("turnover"),
		Overrun:         e.Flag("overrun"),
		IsTouch:         e.IsTouch,
		DribbleLastman:  e.Flag("dribbleLastman"),
		DribbleLost:     e.Flag("dribbleLost"),
		DribbleWon:      e.Flag("dribbleWon"),
		FoulCommitted:   e.Flag("foulCommitted"),
		FoulGiven:       e.Flag("foulGiven"),
		PenaltyWon:      e.Flag("penaltyWon"),
		OffsideGiven:    e.Flag("offsideGiven"),
		OffsideProvoked: e.Flag("offsideProvoked"),
	}
}

func buildSummary(e report.Event) SummaryAttrs {
	return SummaryAttrs{
		CardType:       cardTypePtr(e.Attr("cardType")),
		YellowCard:     e.Flag("yellowCard"),
		RedCard:        e.Flag("redCard"),
		SecondYellow:   e.Flag("secondYellow"),
		VoidYellowCard: e.Flag("voidYellowCard"),
		SubOn:          e.Flag("subOn"),
		SubOff:         e.Flag("subOff"),
	}
}

func floatPtr(v report.Value) *float64 {
	n, ok := v.Float64()
	if !ok {
		return nil
	}
	return &n
}

func strPtr(v report.Value) *string {
	s, ok := v.Str()
	if !ok {
		return nil
	}
	return &s
}

// Some feeds serialize an unset card type as the string "False".
func cardTypePtr(v report.Value) *string {
	s, ok := v.Str()
	if !ok || s == "False" {
		return nil
	}
	return &s
}
