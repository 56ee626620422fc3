package progression

// Summary bundles the derived values the presentation layer shows for a point total
type Summary struct {
	Points          int
	Level           int
	Title           string
	Progress        int
	PointsRemaining int
	// NextThreshold is 0 when already at the top level
	NextThreshold int
	MaxLevel      bool
}

// Summarize derives a Summary from a point total
func Summarize(points int, thresholds []int) Summary {
	if points < 0 {
		points = 0
	}
	level := LevelForPoints(points, thresholds)

	s := Summary{
		Points:          points,
		Level:           level,
		Title:           TitleForLevel(level),
		Progress:        ProgressToNextLevel(points, thresholds),
		PointsRemaining: PointsToNextLevel(points, thresholds),
		MaxLevel:        level >= len(thresholds),
	}
	if !s.MaxLevel {
		s.NextThreshold = thresholds[level]
	}
	return s
}
