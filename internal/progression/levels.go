// Package progression maps accumulated points to levels, titles and rewards.
//
// Everything here is pure and total: invalid input is clamped, never reported.
package progression

import "math"

const (
	// MaxLevel is the highest reachable level
	MaxLevel = 100

	// DiscoveryBonus is awarded the first time a creature is opened
	DiscoveryBonus = 10

	// PointsPerCorrectAnswer is awarded once per quiz question ever answered correctly
	PointsPerCorrectAnswer = 20

	// FirstDayBonus is awarded when a streak starts (first visit or after a gap)
	FirstDayBonus = 5

	// StreakPerDayRate is the per-day multiplier for consecutive-day visits
	StreakPerDayRate = 5

	// StreakCap bounds the daily streak bonus
	StreakCap = 25
)

// Threshold growth regimes. The gap before level i+1 depends on which band i falls in.
const (
	earlyBandEnd  = 20
	middleBandEnd = 60

	earlyBaseGap  = 100
	earlyStep     = 10
	middleBaseGap = 300
	middleStep    = 25
	lateBaseGap   = 1300
	lateStep      = 60
)

var levelTitles = [...]string{
	"Pokémon Novice",
	"Pokémon Beginner",
	"Pokémon Enthusiast",
	"Pokémon Collector",
	"Pokémon Researcher",
	"Pokémon Ace Trainer",
	"Pokémon Expert",
	"Pokémon Master",
	"Pokémon Champion",
	"Pokémon Legend",
}

// defaultThresholds is generated once and never mutated; DefaultThresholds hands out copies.
var defaultThresholds = BuildLevelThresholds()

// BuildLevelThresholds generates MaxLevel strictly increasing thresholds starting at 0.
// thresholds[i] is the minimum cumulative points needed to be at level i+1.
func BuildLevelThresholds() []int {
	thresholds := make([]int, MaxLevel)
	for i := 1; i < MaxLevel; i++ {
		thresholds[i] = thresholds[i-1] + levelGap(i)
	}
	return thresholds
}

// levelGap returns the points between thresholds[i-1] and thresholds[i]
func levelGap(i int) int {
	switch {
	case i < earlyBandEnd:
		return earlyBaseGap + earlyStep*(i-1)
	case i < middleBandEnd:
		return middleBaseGap + middleStep*(i-earlyBandEnd)
	default:
		return lateBaseGap + lateStep*(i-middleBandEnd)
	}
}

// DefaultThresholds returns a copy of the process-wide thresholds
func DefaultThresholds() []int {
	out := make([]int, len(defaultThresholds))
	copy(out, defaultThresholds)
	return out
}

// LevelForPoints returns the 1-based level for a point total
func LevelForPoints(points int, thresholds []int) int {
	if points < 0 {
		points = 0
	}
	for i := len(thresholds) - 1; i > 0; i-- {
		if points >= thresholds[i] {
			return i + 1
		}
	}
	return 1
}

// ProgressToNextLevel returns the rounded percentage [0,100] between the current
// level's threshold and the next one. At the top level it is always 100.
func ProgressToNextLevel(points int, thresholds []int) int {
	if len(thresholds) < 2 {
		return 100
	}
	if points < 0 {
		points = 0
	}

	level := LevelForPoints(points, thresholds)
	if level >= len(thresholds) {
		return 100
	}

	current := thresholds[level-1]
	next := thresholds[level]
	span := next - current
	if span <= 0 {
		return 100
	}

	pct := int(math.Round(float64(points-current) / float64(span) * 100))
	return clamp(pct, 0, 100)
}

// PointsToNextLevel returns how many points are missing to reach the next level, 0 at the top
func PointsToNextLevel(points int, thresholds []int) int {
	if points < 0 {
		points = 0
	}
	level := LevelForPoints(points, thresholds)
	if level >= len(thresholds) {
		return 0
	}
	remaining := thresholds[level] - points
	if remaining < 0 {
		return 0
	}
	return remaining
}

// TitleForLevel maps a level to its rank name. Titles cover bands of
// MaxLevel/len(titles) levels; out-of-range levels are clamped.
func TitleForLevel(level int) string {
	level = clamp(level, 1, MaxLevel)
	idx := (level - 1) * len(levelTitles) / MaxLevel
	return levelTitles[idx]
}

// StreakBonus returns the capped bonus for continuing a streak of currentStreakDays
func StreakBonus(currentStreakDays int) int {
	if currentStreakDays < 0 {
		currentStreakDays = 0
	}
	return min(StreakCap, (currentStreakDays+1)*StreakPerDayRate)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
