// Package benchmark compares normalized skill scores against industry
// benchmark curves.
package benchmark

import (
	"fmt"
	"math"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Default comparison constants.
const (
	// floorPercentile is assigned when a score falls below every range.
	floorPercentile = 10.0

	// targetPercentile is the rank gap analysis aims the user at.
	targetPercentile = 75.0

	// percentilesPerWeek converts a percentile gap to an effort estimate.
	percentilesPerWeek = 5.0
)

// Option applies a configuration option to the Comparator.
type Option func(*Comparator)

// WithTargetPercentile sets the percentile rank gap analysis aims at.
func WithTargetPercentile(p float64) Option {
	return func(c *Comparator) {
		if p > 0 && p <= 100 {
			c.target = p
		}
	}
}

// Comparator evaluates user scores against benchmark curves. It is
// stateless; one instance is safe for concurrent use.
type Comparator struct {
	target float64
}

// New creates a Comparator with configuration options.
func New(opts ...Option) *Comparator {
	c := &Comparator{target: targetPercentile}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compare evaluates one user score against a benchmark curve. The result is
// append-only; it is never mutated after creation.
func (c *Comparator) Compare(userID, skillID string, score float64, bench model.IndustryBenchmark) model.BenchmarkComparison {
	percentile := PercentileRank(score, bench.PercentileRanges)
	level := types.PerformanceLevelForPercentile(percentile)
	gap := c.gapAnalysis(score, percentile, bench)

	return model.BenchmarkComparison{
		UserID:           userID,
		SkillID:          skillID,
		UserScore:        score,
		PercentileRank:   percentile,
		PerformanceLevel: level,
		GapAnalysis:      gap,
		Recommendations:  recommendations(skillID, level, gap),
	}
}

// PercentileRank walks the ranges from highest to lowest and returns the
// percentile of the first range whose MinScore the score reaches. Ranges
// must be sorted ascending by MinScore; ties resolve to the
// highest-percentile range satisfied. Scores below every range floor at 10.
func PercentileRank(score float64, ranges []model.PercentileRange) float64 {
	for i := len(ranges) - 1; i >= 0; i-- {
		if score >= ranges[i].MinScore {
			return ranges[i].Percentile
		}
	}
	return floorPercentile
}

// gapAnalysis measures the distance to the target percentile threshold.
func (c *Comparator) gapAnalysis(score, percentile float64, bench model.IndustryBenchmark) model.GapAnalysis {
	percentileGap := c.target - percentile
	weeks := int(math.Ceil(math.Abs(percentileGap) / percentilesPerWeek))
	if weeks < 1 {
		weeks = 1
	}

	return model.GapAnalysis{
		ScoreGap:          bench.AverageScore - score,
		PercentileGap:     percentileGap,
		TargetScore:       targetScore(bench, c.target),
		TimeToTargetWeeks: weeks,
		Difficulty:        types.DifficultyForPercentileGap(percentileGap),
	}
}

// targetScore returns the entry threshold of the target percentile range,
// falling back to the benchmark average when the curve lacks that row.
func targetScore(bench model.IndustryBenchmark, target float64) float64 {
	for _, r := range bench.PercentileRanges {
		if r.Percentile == target {
			return r.MinScore
		}
	}
	return bench.AverageScore
}

// recommendations renders deterministic template strings keyed on the gap
// sign. Only skill identifiers ever appear in the text.
func recommendations(skillID string, level types.PerformanceLevel, gap model.GapAnalysis) []string {
	if level == types.PerformanceBelowAverage || gap.ScoreGap > 0 {
		return []string{
			fmt.Sprintf("Strengthen %s fundamentals through structured practice to close a %.0f-point gap to the industry average", skillID, gap.ScoreGap),
			fmt.Sprintf("Plan roughly %d weeks of focused work to reach the %s target threshold", gap.TimeToTargetWeeks, skillID),
		}
	}
	return []string{
		fmt.Sprintf("Maintain your edge in %s; you currently score above the industry average", skillID),
		fmt.Sprintf("Showcase %s in your portfolio and consider sharing knowledge to consolidate it", skillID),
	}
}
