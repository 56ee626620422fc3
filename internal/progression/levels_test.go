package progression_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/pokedex/internal/progression"
)

func TestBuildLevelThresholds(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()

	require.Len(t, thresholds, progression.MaxLevel)
	assert.Equal(t, 0, thresholds[0])
	assert.Equal(t, 100, thresholds[1])

	for i := 1; i < len(thresholds); i++ {
		assert.Greater(t, thresholds[i], thresholds[i-1], "threshold %d must exceed threshold %d", i, i-1)
	}

	// gaps never shrink across the growth bands
	for i := 2; i < len(thresholds); i++ {
		prevGap := thresholds[i-1] - thresholds[i-2]
		gap := thresholds[i] - thresholds[i-1]
		assert.GreaterOrEqual(t, gap, prevGap, "gap before level %d", i+1)
	}
}

func TestDefaultThresholdsReturnsCopy(t *testing.T) {
	first := progression.DefaultThresholds()
	first[1] = 999999

	second := progression.DefaultThresholds()
	assert.Equal(t, 100, second[1])
}

func TestLevelForPoints(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()
	top := thresholds[progression.MaxLevel-1]

	testCases := []struct {
		name     string
		points   int
		expected int
	}{
		{name: "zero points", points: 0, expected: 1},
		{name: "negative points clamp", points: -50, expected: 1},
		{name: "just below level 2", points: 99, expected: 1},
		{name: "exactly level 2", points: 100, expected: 2},
		{name: "between level 2 and 3", points: 150, expected: 2},
		{name: "exactly level 3", points: thresholds[2], expected: 3},
		{name: "at max threshold", points: top, expected: progression.MaxLevel},
		{name: "far above max threshold", points: top * 10, expected: progression.MaxLevel},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, progression.LevelForPoints(tc.points, thresholds))
		})
	}
}

func TestLevelForPointsIsMonotonic(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()
	top := thresholds[progression.MaxLevel-1]

	prev := progression.LevelForPoints(0, thresholds)
	for points := 1; points <= top+500; points += 7 {
		level := progression.LevelForPoints(points, thresholds)
		require.GreaterOrEqual(t, level, prev, "level dropped at %d points", points)
		require.LessOrEqual(t, level, progression.MaxLevel)
		prev = level
	}
}

func TestLevelForPointsDegenerateThresholds(t *testing.T) {
	assert.Equal(t, 1, progression.LevelForPoints(500, nil))
	assert.Equal(t, 1, progression.LevelForPoints(500, []int{0}))
}

func TestProgressToNextLevel(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()
	top := thresholds[progression.MaxLevel-1]

	assert.Equal(t, 0, progression.ProgressToNextLevel(0, thresholds))
	assert.Equal(t, 50, progression.ProgressToNextLevel(50, thresholds))
	assert.Equal(t, 0, progression.ProgressToNextLevel(100, thresholds))
	assert.Equal(t, 100, progression.ProgressToNextLevel(top, thresholds))
	assert.Equal(t, 100, progression.ProgressToNextLevel(top+1, thresholds))
	assert.Equal(t, 0, progression.ProgressToNextLevel(-10, thresholds))
	assert.Equal(t, 100, progression.ProgressToNextLevel(10, nil))

	for points := 0; points <= top+100; points += 13 {
		pct := progression.ProgressToNextLevel(points, thresholds)
		require.GreaterOrEqual(t, pct, 0)
		require.LessOrEqual(t, pct, 100)
	}
}

func TestPointsToNextLevel(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()
	top := thresholds[progression.MaxLevel-1]

	assert.Equal(t, 100, progression.PointsToNextLevel(0, thresholds))
	assert.Equal(t, 20, progression.PointsToNextLevel(80, thresholds))
	assert.Equal(t, thresholds[2]-100, progression.PointsToNextLevel(100, thresholds))
	assert.Equal(t, 0, progression.PointsToNextLevel(top, thresholds))
	assert.Equal(t, 0, progression.PointsToNextLevel(top+1000, thresholds))
}

func TestTitleForLevel(t *testing.T) {
	testCases := []struct {
		level    int
		expected string
	}{
		{level: 1, expected: "Pokémon Novice"},
		{level: 10, expected: "Pokémon Novice"},
		{level: 11, expected: "Pokémon Beginner"},
		{level: 55, expected: "Pokémon Ace Trainer"},
		{level: 100, expected: "Pokémon Legend"},
		{level: 0, expected: "Pokémon Novice"},
		{level: -3, expected: "Pokémon Novice"},
		{level: 250, expected: "Pokémon Legend"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, progression.TitleForLevel(tc.level), "level %d", tc.level)
	}
}

func TestStreakBonus(t *testing.T) {
	assert.Equal(t, 5, progression.StreakBonus(0))
	assert.Equal(t, 10, progression.StreakBonus(1))
	assert.Equal(t, 20, progression.StreakBonus(3))
	assert.Equal(t, 25, progression.StreakBonus(4))
	assert.Equal(t, 25, progression.StreakBonus(365))
	assert.Equal(t, 5, progression.StreakBonus(-2))
}

func TestSummarize(t *testing.T) {
	thresholds := progression.BuildLevelThresholds()

	s := progression.Summarize(80, thresholds)
	assert.Equal(t, 80, s.Points)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, "Pokémon Novice", s.Title)
	assert.Equal(t, 80, s.Progress)
	assert.Equal(t, 20, s.PointsRemaining)
	assert.Equal(t, 100, s.NextThreshold)
	assert.False(t, s.MaxLevel)

	top := progression.Summarize(thresholds[progression.MaxLevel-1], thresholds)
	assert.True(t, top.MaxLevel)
	assert.Equal(t, progression.MaxLevel, top.Level)
	assert.Equal(t, 0, top.NextThreshold)
	assert.Equal(t, 100, top.Progress)
}
