// Package peer compares user scores against anonymized peer cohorts.
//
// Privacy model: individual scores are never surfaced, only five-point
// summaries and counts. Observations are perturbed with zero-mean uniform
// noise before aggregation. The noise obscures individual contributions but
// is not a formally bounded differential-privacy mechanism; callers wanting
// rigorous guarantees need a calibrated Laplace/Gaussian mechanism instead.
package peer

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Default engine constants.
const (
	// defaultNoiseAmplitude bounds the uniform perturbation applied to raw
	// observations before they enter an aggregate.
	defaultNoiseAmplitude = 5.0

	z95      = 1.96
	maxScore = 100.0

	// Percentiles anchoring the piecewise-linear interpolation.
	pMin = 0.0
	p25  = 25.0
	p50  = 50.0
	p75  = 75.0
	p90  = 90.0
	pMax = 100.0

	largeCohort = 100
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithNoiseAmplitude sets the half-width of the uniform perturbation.
func WithNoiseAmplitude(a float64) Option {
	return func(e *Engine) {
		if a >= 0 {
			e.noiseAmplitude = a
		}
	}
}

// WithRandSource seeds the perturbation RNG, for reproducible tests.
func WithRandSource(src rand.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = rand.New(src) //nolint:gosec // statistical noise, not key material
		}
	}
}

// Engine performs anonymized peer comparisons. Safe for concurrent use.
type Engine struct {
	noiseAmplitude float64

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates an Engine with configuration options.
func New(opts ...Option) *Engine {
	e := &Engine{
		noiseAmplitude: defaultNoiseAmplitude,
		rng:            rand.New(rand.NewSource(rand.Int63())), //nolint:gosec // statistical noise, not key material
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Perturb adds zero-mean uniform noise to a raw observation score before it
// enters a cohort aggregate, clamped back to the valid score range.
func (e *Engine) Perturb(score float64) float64 {
	e.mu.Lock()
	noise := (e.rng.Float64()*2 - 1) * e.noiseAmplitude
	e.mu.Unlock()

	return math.Max(0, math.Min(maxScore, score+noise))
}

// Compare evaluates one user score against a cohort. The caller is
// responsible for only passing cohorts that satisfy the minimum group size.
func (e *Engine) Compare(userID string, score float64, cohort model.PeerCohort) model.AnonymizedPeerComparison {
	percentile := Interpolate(cohort.Distribution, score)
	relative := types.RelativePerformanceForPercentile(percentile)

	return model.AnonymizedPeerComparison{
		UserID:               userID,
		SkillID:              cohort.SkillID,
		UserPercentile:       percentile,
		PeerGroupStats:       GroupStats(cohort),
		RelativePerformance:  relative,
		ImprovementPotential: improvementPotential(score, cohort.Distribution),
		AnonymizedInsights:   insights(relative, percentile, cohort.MemberCount),
	}
}

// Ranking returns the user's percentile with a normal-approximation
// confidence interval shrinking with cohort size, clamped to [0,100].
func (e *Engine) Ranking(skillID string, score float64, cohort model.PeerCohort) model.PeerRanking {
	percentile := Interpolate(cohort.Distribution, score)
	half := z95 * math.Sqrt(percentile*(maxScore-percentile)/float64(cohort.MemberCount))

	return model.PeerRanking{
		SkillID:         skillID,
		Percentile:      percentile,
		ConfidenceLower: math.Max(0, percentile-half),
		ConfidenceUpper: math.Min(maxScore, percentile+half),
		GroupSize:       cohort.MemberCount,
	}
}

// GroupStats projects a cohort into its exposed read shape.
func GroupStats(cohort model.PeerCohort) model.PeerGroupStats {
	return model.PeerGroupStats{
		SkillID:         cohort.SkillID,
		ExperienceLevel: cohort.ExperienceLevel,
		Region:          cohort.Region,
		GroupSize:       cohort.MemberCount,
		AverageScore:    cohort.Distribution.P50,
		Distribution:    cohort.Distribution,
	}
}

// Interpolate computes a percentile by piecewise-linear interpolation
// between the five known points of a cohort distribution, treating the range
// bounds as the 0th and 100th percentile boundaries.
func Interpolate(dist model.SkillDistribution, score float64) float64 {
	type point struct {
		score      float64
		percentile float64
	}
	points := []point{
		{dist.Range.Min, pMin},
		{dist.P25, p25},
		{dist.P50, p50},
		{dist.P75, p75},
		{dist.P90, p90},
		{dist.Range.Max, pMax},
	}

	if score <= points[0].score {
		return pMin
	}
	for i := 1; i < len(points); i++ {
		if score > points[i].score {
			continue
		}
		lo, hi := points[i-1], points[i]
		width := hi.score - lo.score
		if width <= 0 {
			// Zero-width interval; the lower percentile stands.
			return lo.percentile
		}
		return lo.percentile + (score-lo.score)/width*(hi.percentile-lo.percentile)
	}
	return pMax
}

// improvementPotential measures headroom toward the cohort's 75th
// percentile, normalized by the room left on the score scale.
func improvementPotential(score float64, dist model.SkillDistribution) float64 {
	gap := math.Max(0, dist.P75-score)
	room := math.Max(1, maxScore-score)
	return math.Min(maxScore, maxScore*gap/room)
}

// insights renders parametrized templates keyed only on the percentile band
// and the cohort size. No user or peer identifier ever reaches the output.
func insights(relative types.RelativePerformance, percentile float64, memberCount int) []string {
	out := make([]string, 0, 3)

	switch relative {
	case types.RelativeWellAbove:
		out = append(out, fmt.Sprintf("You score higher than roughly %.0f%% of a peer group of %d", percentile, memberCount))
		out = append(out, "You are among the strongest performers in this cohort")
	case types.RelativeAbove:
		out = append(out, fmt.Sprintf("You score higher than roughly %.0f%% of a peer group of %d", percentile, memberCount))
		out = append(out, "You perform above the typical member of this cohort")
	case types.RelativeAverage:
		out = append(out, fmt.Sprintf("Your score sits near the middle of a peer group of %d", memberCount))
	case types.RelativeBelow:
		out = append(out, fmt.Sprintf("Most of a peer group of %d currently scores above you", memberCount))
		out = append(out, "Consistent practice would move you toward the cohort median")
	case types.RelativeWellBelow:
		out = append(out, fmt.Sprintf("You are in the lower band of a peer group of %d", memberCount))
		out = append(out, "Foundational work on this skill would have the largest effect")
	}

	if memberCount >= largeCohort {
		out = append(out, "This comparison is based on a large cohort and is statistically stable")
	}
	return out
}
