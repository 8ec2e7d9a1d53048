// internal/levels/formula.go
package levels

import (
	"math"
)

// MEE6-style curve: Level = floor(0.1 * sqrt(XP))
const levelCurve = 0.1

// LevelForXP derives the level from total XP.
func LevelForXP(xp int64) int {
	if xp <= 0 {
		return 0
	}
	return int(levelCurve * math.Sqrt(float64(xp)))
}

// XPForLevel returns the total XP at which a level starts:
// (L / 0.1)^2, which is exactly 100*L*L.
func XPForLevel(level int) int64 {
	if level <= 0 {
		return 0
	}
	return int64(level) * int64(level) * 100
}

// Progress describes how far into the current level a user is.
type Progress struct {
	Level       int
	XP          int64
	IntoLevel   int64 // XP earned past the current level's start
	Needed      int64 // XP between this level's start and the next
	NextLevelXP int64 // total XP at which the next level starts
	Percentage  int   // floored, clamped to [0, 100]
}

// ProgressForXP computes level progress for a given XP total and its derived
// level. It is the inverse of LevelForXP and must stay numerically consistent
// with it.
func ProgressForXP(xp int64, level int) Progress {
	floor := XPForLevel(level)
	next := XPForLevel(level + 1)

	into := xp - floor
	if into < 0 {
		into = 0
	}
	needed := next - floor

	pct := int(100 * into / needed)
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return Progress{
		Level:       level,
		XP:          xp,
		IntoLevel:   into,
		Needed:      needed,
		NextLevelXP: next,
		Percentage:  pct,
	}
}
