package models

import "fmt"

// Level is one of five ordered community tiers derived from XP.
type Level string

const (
	LevelNewcomer Level = "newcomer"
	LevelBronze   Level = "bronze"
	LevelSilver   Level = "silver"
	LevelGold     Level = "gold"
	LevelPlatinum Level = "platinum"
)

// levelThresholds is ordered by ascending XP. An exact threshold match belongs
// to the tier it defines (inclusive lower bound).
var levelThresholds = []struct {
	Level Level
	MinXP int
}{
	{LevelNewcomer, 0},
	{LevelBronze, 1},
	{LevelSilver, 250},
	{LevelGold, 750},
	{LevelPlatinum, 1500},
}

// XPAction identifies an XP-granting event.
type XPAction string

const (
	ActionFirstBooking    XPAction = "first_booking"
	ActionBookingComplete XPAction = "booking_complete"
	ActionGroupJoin       XPAction = "group_join"
	ActionGroupCreate     XPAction = "group_create"
	ActionReviewGiven     XPAction = "review_given"
	ActionReviewReceived  XPAction = "review_received"
	ActionReferral        XPAction = "referral"
	ActionReportValidated XPAction = "report_validated"
)

var xpRewards = map[XPAction]int{
	ActionFirstBooking:    100,
	ActionBookingComplete: 50,
	ActionGroupJoin:       30,
	ActionGroupCreate:     75,
	ActionReviewGiven:     15,
	ActionReviewReceived:  25,
	ActionReferral:        50,
	ActionReportValidated: 10,
}

// XPRewardFor returns the XP granted for an action. An unknown action is a
// programming error, not a runtime condition, so it panics.
func XPRewardFor(action XPAction) int {
	reward, ok := xpRewards[action]
	if !ok {
		panic(fmt.Sprintf("unknown XP action: %q", action))
	}
	return reward
}

// KnownXPAction reports whether action has a reward entry. Callers handling
// untrusted input should check this before calling XPRewardFor.
func KnownXPAction(action XPAction) bool {
	_, ok := xpRewards[action]
	return ok
}

// LevelForXP returns the highest tier whose threshold is <= xp.
func LevelForXP(xp int) Level {
	level := LevelNewcomer
	for _, t := range levelThresholds {
		if xp >= t.MinXP {
			level = t.Level
		}
	}
	return level
}

// ThresholdFor returns the minimum XP of a tier.
func ThresholdFor(level Level) int {
	for _, t := range levelThresholds {
		if t.Level == level {
			return t.MinXP
		}
	}
	panic(fmt.Sprintf("unknown level: %q", level))
}

// NextLevel returns the linear successor of a tier. ok is false for platinum,
// which is terminal.
func NextLevel(level Level) (Level, bool) {
	for i, t := range levelThresholds {
		if t.Level == level {
			if i+1 < len(levelThresholds) {
				return levelThresholds[i+1].Level, true
			}
			return "", false
		}
	}
	panic(fmt.Sprintf("unknown level: %q", level))
}

// ProgressPercent returns how far xp has advanced from level's threshold toward
// the next tier, clamped to [0, 100]. Platinum always reports 100.
func ProgressPercent(xp int, level Level) int {
	next, ok := NextLevel(level)
	if !ok {
		return 100
	}
	lo := ThresholdFor(level)
	hi := ThresholdFor(next)
	if xp <= lo {
		return 0
	}
	pct := (xp - lo) * 100 / (hi - lo)
	if pct > 100 {
		pct = 100
	}
	return pct
}

// CanAccessCommunity reports whether a tier may browse the community area.
func CanAccessCommunity(level Level) bool {
	return level == LevelSilver || level == LevelGold || level == LevelPlatinum
}

// CanJoinGroups reports whether a tier may request to join trip groups.
func CanJoinGroups(level Level) bool {
	return CanAccessCommunity(level)
}

// CanCreateGroups reports whether a tier may create trip groups.
func CanCreateGroups(level Level) bool {
	return level == LevelGold || level == LevelPlatinum
}

// CanCreatePrivateGroups reports whether a tier may create invite-only groups.
func CanCreatePrivateGroups(level Level) bool {
	return level == LevelPlatinum
}

// MaxGroupSize returns the member cap a creator of the given tier may set.
// Tiers below gold cannot create groups at all.
func MaxGroupSize(level Level) int {
	switch level {
	case LevelPlatinum:
		return 20
	case LevelGold:
		return 10
	default:
		return 0
	}
}
