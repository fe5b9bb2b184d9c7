// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/skillbench/skillbench/internal/domain/types"
)

// Observation is a single skill progress report submitted by clients.
// Fields mirror the OpenAPI schema for POST /observations.
type Observation struct {
	ObservationID    string    // unique id for idempotency
	UserID           string    // subject identifier
	SkillID          string    // skill identifier, e.g., "javascript"
	Level            int       // proficiency level, 1..5
	ExperiencePoints int       // accumulated XP for the skill
	TS               time.Time // observation timestamp
}

// SkillObservation is one entry of a user's skill snapshot: the immutable
// per-skill state an assessment run works from.
type SkillObservation struct {
	SkillID          string `json:"skill_id"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experience_points"`
}

// PercentileRange is one row of a benchmark curve. Ranges are kept sorted
// ascending by MinScore.
type PercentileRange struct {
	Percentile float64 `json:"percentile" koanf:"percentile"`
	MinScore   float64 `json:"min_score" koanf:"min_score"`
	MaxScore   float64 `json:"max_score" koanf:"max_score"`
}

// IndustryBenchmark is static reference data describing how an experience
// level performs on a skill across the industry.
type IndustryBenchmark struct {
	SkillID          string                `json:"skill_id" koanf:"skill_id"`
	ExperienceLevel  types.ExperienceLevel `json:"experience_level" koanf:"experience_level"`
	PercentileRanges []PercentileRange     `json:"percentile_ranges" koanf:"percentile_ranges"`
	AverageScore     float64               `json:"average_score" koanf:"average_score"`
	SampleSize       int                   `json:"sample_size" koanf:"sample_size"`
	ValidUntil       time.Time             `json:"valid_until" koanf:"valid_until"`
}

// GapAnalysis quantifies the distance between a user score and the
// benchmark's 75th-percentile target.
type GapAnalysis struct {
	ScoreGap          float64          `json:"score_gap"`
	PercentileGap     float64          `json:"percentile_gap"`
	TargetScore       float64          `json:"target_score"`
	TimeToTargetWeeks int              `json:"time_to_target_weeks"`
	Difficulty        types.Difficulty `json:"difficulty"`
}

// BenchmarkComparison is the append-only result of comparing one user score
// against an industry benchmark curve.
type BenchmarkComparison struct {
	UserID           string                 `json:"user_id"`
	SkillID          string                 `json:"skill_id"`
	UserScore        float64                `json:"user_score"`
	PercentileRank   float64                `json:"percentile_rank"`
	PerformanceLevel types.PerformanceLevel `json:"performance_level"`
	GapAnalysis      GapAnalysis            `json:"gap_analysis"`
	Recommendations  []string               `json:"recommendations"`
}

// ScoreRange bounds a distribution.
type ScoreRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SkillDistribution is the five-point summary exposed for a cohort. It is
// never reconstructible into individual data points.
type SkillDistribution struct {
	P25    float64    `json:"p25"`
	P50    float64    `json:"p50"`
	P75    float64    `json:"p75"`
	P90    float64    `json:"p90"`
	StdDev float64    `json:"std_dev"`
	Range  ScoreRange `json:"range"`
}

// PeerCohort is a materialized, anonymized aggregate over a
// (skill, experience level, region) bucket.
type PeerCohort struct {
	SkillID         string                `json:"skill_id"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	Region          string                `json:"region,omitempty"`
	MemberCount     int                   `json:"member_count"`
	Distribution    SkillDistribution     `json:"distribution"`
}

// PeerGroupStats is the read shape for cohort statistics queries.
type PeerGroupStats struct {
	SkillID         string                `json:"skill_id"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level"`
	Region          string                `json:"region,omitempty"`
	GroupSize       int                   `json:"group_size"`
	AverageScore    float64               `json:"average_score"`
	Distribution    SkillDistribution     `json:"distribution"`
}

// AnonymizedPeerComparison compares one user score against a peer cohort.
// No string in AnonymizedInsights may contain a user identifier.
type AnonymizedPeerComparison struct {
	UserID               string                    `json:"user_id"`
	SkillID              string                    `json:"skill_id"`
	UserPercentile       float64                   `json:"user_percentile"`
	PeerGroupStats       PeerGroupStats            `json:"peer_group_stats"`
	RelativePerformance  types.RelativePerformance `json:"relative_performance"`
	ImprovementPotential float64                   `json:"improvement_potential"`
	AnonymizedInsights   []string                  `json:"anonymized_insights"`
}

// PeerRanking is a user's percentile rank within a cohort with a confidence
// interval derived from the cohort size.
type PeerRanking struct {
	SkillID         string  `json:"skill_id"`
	Percentile      float64 `json:"percentile"`
	ConfidenceLower float64 `json:"confidence_lower"`
	ConfidenceUpper float64 `json:"confidence_upper"`
	GroupSize       int     `json:"group_size"`
}

// Interval is a closed numeric interval.
type Interval struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// StatisticalAnalysis is a pure function of an input sample.
type StatisticalAnalysis struct {
	SampleSize           int                    `json:"sample_size"`
	Mean                 float64                `json:"mean"`
	Median               float64                `json:"median"`
	StandardDeviation    float64                `json:"standard_deviation"`
	Variance             float64                `json:"variance"`
	Skewness             float64                `json:"skewness"`
	Kurtosis             float64                `json:"kurtosis"`
	ConfidenceInterval95 Interval               `json:"confidence_interval_95"`
	OutlierThresholds    Interval               `json:"outlier_thresholds"`
	DistributionType     types.DistributionType `json:"distribution_type"`
}

// SkillGap is a skill where the user performs below average.
type SkillGap struct {
	SkillID          string            `json:"skill_id"`
	UserScore        float64           `json:"user_score"`
	BenchmarkAverage float64           `json:"benchmark_average"`
	ScoreGap         float64           `json:"score_gap"`
	Percentile       float64           `json:"percentile"`
	Priority         types.GapPriority `json:"priority"`
	// TimeToTargetWeeks estimates how long closing the percentile gap takes
	// at the standard improvement pace. Always at least one week.
	TimeToTargetWeeks int `json:"time_to_target_weeks"`
}

// SkillStrength is a skill where the user performs above average.
type SkillStrength struct {
	SkillID          string                 `json:"skill_id"`
	UserScore        float64                `json:"user_score"`
	Percentile       float64                `json:"percentile"`
	PerformanceLevel types.PerformanceLevel `json:"performance_level"`
	MarketValue      types.MarketValue      `json:"market_value"`
}

// RecommendedAction is a concrete next step derived from gaps and strengths.
type RecommendedAction struct {
	Type                 types.ActionType `json:"type"`
	SkillID              string           `json:"skill_id,omitempty"`
	Description          string           `json:"description"`
	EstimatedEffortHours int              `json:"estimated_effort_hours"`
	// ExpectedImpact is expressed in benchmark score points on the 0-100
	// scale, not as a proficiency level delta.
	ExpectedImpact float64 `json:"expected_impact"`
}

// SkillRequirement is one skill demanded by a job opportunity.
type SkillRequirement struct {
	SkillID      string  `json:"skill_id" koanf:"skill_id"`
	MinimumLevel int     `json:"minimum_level" koanf:"minimum_level"`
	Weight       float64 `json:"weight" koanf:"weight"`
}

// JobOpportunity is a catalog entry plus computed match fields.
type JobOpportunity struct {
	ID              string                `json:"id" koanf:"id"`
	Title           string                `json:"title" koanf:"title"`
	Industry        string                `json:"industry,omitempty" koanf:"industry"`
	ExperienceLevel types.ExperienceLevel `json:"experience_level" koanf:"experience_level"`
	RequiredSkills  []SkillRequirement    `json:"required_skills" koanf:"required_skills"`
	OptionalSkills  []SkillRequirement    `json:"optional_skills,omitempty" koanf:"optional_skills"`

	// Computed per request, ephemeral.
	MatchScore      float64 `json:"match_score"`
	SkillsMatch     float64 `json:"skills_match"`
	ExperienceMatch float64 `json:"experience_match"`
}

// MarketReadinessAssessment is the consolidated output of one assessment run.
// A skill appears in at most one of SkillGaps and Strengths.
type MarketReadinessAssessment struct {
	UserID             string                `json:"user_id"`
	OverallReadiness   float64               `json:"overall_readiness"`
	ExperienceLevel    types.ExperienceLevel `json:"experience_level"`
	SkillGaps          []SkillGap            `json:"skill_gaps"`
	Strengths          []SkillStrength       `json:"strengths"`
	RecommendedActions []RecommendedAction   `json:"recommended_actions"`
	JobOpportunities   []JobOpportunity      `json:"job_opportunities"`
	AssessmentDate     time.Time             `json:"assessment_date"`
	NextReviewDate     time.Time             `json:"next_review_date"`
}
