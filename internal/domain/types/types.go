// Package types contains enumerations shared across the engine.
//
// Every enum has a Parse helper that rejects unknown strings at the boundary
// instead of defaulting mid-pipeline.
package types

import "fmt"

// ExperienceLevel classifies a user's overall seniority.
type ExperienceLevel string

const (
	LevelEntry     ExperienceLevel = "entry"
	LevelJunior    ExperienceLevel = "junior"
	LevelMid       ExperienceLevel = "mid"
	LevelSenior    ExperienceLevel = "senior"
	LevelPrincipal ExperienceLevel = "principal"
)

// experienceLevels orders levels from least to most senior.
var experienceLevels = []ExperienceLevel{
	LevelEntry, LevelJunior, LevelMid, LevelSenior, LevelPrincipal,
}

// ParseExperienceLevel validates a level string.
func ParseExperienceLevel(s string) (ExperienceLevel, error) {
	for _, l := range experienceLevels {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("unknown experience level: %q", s)
}

// Index returns the ordinal position of the level, entry = 0.
// Unknown levels return -1; parse at the boundary to avoid that.
func (l ExperienceLevel) Index() int {
	for i, k := range experienceLevels {
		if k == l {
			return i
		}
	}
	return -1
}

// PerformanceLevel buckets a percentile rank against an industry benchmark.
type PerformanceLevel string

const (
	PerformanceBelowAverage PerformanceLevel = "below_average"
	PerformanceAverage      PerformanceLevel = "average"
	PerformanceAboveAverage PerformanceLevel = "above_average"
	PerformanceExceptional  PerformanceLevel = "exceptional"
)

// PerformanceLevelForPercentile maps a percentile rank to its bucket.
func PerformanceLevelForPercentile(p float64) PerformanceLevel {
	switch {
	case p >= 90:
		return PerformanceExceptional
	case p >= 75:
		return PerformanceAboveAverage
	case p >= 25:
		return PerformanceAverage
	default:
		return PerformanceBelowAverage
	}
}

// RelativePerformance buckets a percentile against a peer cohort. It extends
// the industry split with extreme bands at the 10/90 boundaries.
type RelativePerformance string

const (
	RelativeWellBelow RelativePerformance = "well_below"
	RelativeBelow     RelativePerformance = "below"
	RelativeAverage   RelativePerformance = "average"
	RelativeAbove     RelativePerformance = "above"
	RelativeWellAbove RelativePerformance = "well_above"
)

// RelativePerformanceForPercentile maps a peer percentile to its band.
func RelativePerformanceForPercentile(p float64) RelativePerformance {
	switch {
	case p >= 90:
		return RelativeWellAbove
	case p >= 75:
		return RelativeAbove
	case p >= 25:
		return RelativeAverage
	case p >= 10:
		return RelativeBelow
	default:
		return RelativeWellBelow
	}
}

// DistributionType is a heuristic label for a sample's shape. It is a UX
// hint derived from skewness/kurtosis bands, not a goodness-of-fit test.
type DistributionType string

const (
	DistributionNormal      DistributionType = "normal"
	DistributionSkewedLeft  DistributionType = "skewed_left"
	DistributionSkewedRight DistributionType = "skewed_right"
	DistributionBimodal     DistributionType = "bimodal"
	DistributionUniform     DistributionType = "uniform"
)

// Difficulty bands the effort to close a percentile gap.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "easy"
	DifficultyModerate    Difficulty = "moderate"
	DifficultyChallenging Difficulty = "challenging"
	DifficultyDifficult   Difficulty = "difficult"
)

// DifficultyForPercentileGap bands the absolute percentile gap.
func DifficultyForPercentileGap(gap float64) Difficulty {
	if gap < 0 {
		gap = -gap
	}
	switch {
	case gap > 30:
		return DifficultyDifficult
	case gap > 20:
		return DifficultyChallenging
	case gap > 10:
		return DifficultyModerate
	default:
		return DifficultyEasy
	}
}

// GapPriority ranks how urgently a skill gap should be addressed.
type GapPriority string

const (
	PriorityMedium   GapPriority = "medium"
	PriorityHigh     GapPriority = "high"
	PriorityCritical GapPriority = "critical"
)

// GapPriorityForScoreGap bands the benchmark score gap.
func GapPriorityForScoreGap(gap float64) GapPriority {
	switch {
	case gap > 20:
		return PriorityCritical
	case gap > 10:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// MarketValue ranks how marketable a strength is.
type MarketValue string

const (
	MarketValueLow         MarketValue = "low"
	MarketValueMedium      MarketValue = "medium"
	MarketValueHigh        MarketValue = "high"
	MarketValueExceptional MarketValue = "exceptional"
)

// MarketValueForPercentile bands the percentile rank of a strength.
func MarketValueForPercentile(p float64) MarketValue {
	switch {
	case p > 90:
		return MarketValueExceptional
	case p > 75:
		return MarketValueHigh
	case p > 50:
		return MarketValueMedium
	default:
		return MarketValueLow
	}
}

// ActionType classifies a recommended action.
type ActionType string

const (
	ActionSkillDevelopment ActionType = "skill_development"
	ActionNetworking       ActionType = "networking"
	ActionMentoring        ActionType = "mentoring"
)
