package scoring

// Level buckets a category percentage for narrative feedback.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// LevelFor returns the feedback level for a category percentage.
func LevelFor(pct int) Level {
	switch {
	case pct >= 80:
		return LevelHigh
	case pct >= 60:
		return LevelMedium
	default:
		return LevelLow
	}
}

// Rating classifies a respondent as a sales lead by overall percentage.
type Rating string

const (
	RatingHot  Rating = "Hot"
	RatingWarm Rating = "Warm"
	RatingCold Rating = "Cold"
)

// RatingFor returns the lead rating for an overall percentage.
func RatingFor(overall int) Rating {
	switch {
	case overall >= 75:
		return RatingHot
	case overall >= 50:
		return RatingWarm
	default:
		return RatingCold
	}
}
