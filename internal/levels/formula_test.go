// internal/levels/formula_test.go
package levels

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelForXP(t *testing.T) {
	assert.Equal(t, 0, LevelForXP(0))
	assert.Equal(t, 0, LevelForXP(99))
	assert.Equal(t, 1, LevelForXP(100))
	assert.Equal(t, 1, LevelForXP(399))
	assert.Equal(t, 2, LevelForXP(400))
	assert.Equal(t, 5, LevelForXP(2500))
	assert.Equal(t, 0, LevelForXP(-10))
}

func TestLevelMonotonic(t *testing.T) {
	prev := 0
	for xp := int64(0); xp <= 50_000; xp += 7 {
		lvl := LevelForXP(xp)
		require.GreaterOrEqual(t, lvl, prev, "level decreased at xp=%d", xp)
		prev = lvl
	}
}

func TestFormulaRoundTrip(t *testing.T) {
	// level(xpForLevel(L)) == L for every level
	for level := 0; level <= 200; level++ {
		xp := XPForLevel(level)
		require.Equal(t, level, LevelForXP(xp), "round trip failed at level %d (xp=%d)", level, xp)
		if level > 0 {
			// one XP short of the threshold stays on the previous level
			require.Equal(t, level-1, LevelForXP(xp-1))
		}
	}
}

func TestXPForLevel(t *testing.T) {
	assert.Equal(t, int64(0), XPForLevel(0))
	assert.Equal(t, int64(100), XPForLevel(1))
	assert.Equal(t, int64(2500), XPForLevel(5))
	assert.Equal(t, int64(0), XPForLevel(-3))
}

func TestProgressForXP(t *testing.T) {
	// Level 1 spans [100, 400): 150 XP is 50/300 into the level.
	p := ProgressForXP(150, 1)
	assert.Equal(t, int64(50), p.IntoLevel)
	assert.Equal(t, int64(300), p.Needed)
	assert.Equal(t, int64(400), p.NextLevelXP)
	assert.Equal(t, 16, p.Percentage) // floor(100*50/300)

	// Fresh user
	p = ProgressForXP(0, 0)
	assert.Equal(t, int64(0), p.IntoLevel)
	assert.Equal(t, int64(100), p.Needed)
	assert.Equal(t, 0, p.Percentage)

	// Exactly at the next threshold the percentage clamps to 100
	p = ProgressForXP(400, 1)
	assert.Equal(t, 100, p.Percentage)
}

func TestProgressClamped(t *testing.T) {
	for xp := int64(0); xp <= 10_000; xp += 13 {
		p := ProgressForXP(xp, LevelForXP(xp))
		require.GreaterOrEqual(t, p.Percentage, 0)
		require.LessOrEqual(t, p.Percentage, 100)
		require.GreaterOrEqual(t, p.IntoLevel, int64(0))
	}
}
