// Package readiness consolidates benchmark and peer comparisons into a
// market readiness assessment.
package readiness

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/skillbench/skillbench/internal/domain/benchmark"
	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/normalize"
	"github.com/skillbench/skillbench/internal/domain/types"
	"github.com/skillbench/skillbench/pkg/logger"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// Default assessment constants.
const (
	maxGapActions      = 3
	maxStrengthActions = 2
	hoursPerWeek       = 10
	gapPenalty         = 5.0
	strengthBonus      = 3.0
	reviewInterval     = 90 * 24 * time.Hour
)

// SnapshotProvider fetches a user's immutable skill snapshot. Failure here
// is fatal to the whole assessment.
type SnapshotProvider interface {
	SkillSnapshot(ctx context.Context, userID string) (map[string]model.SkillObservation, error)
}

// BenchmarkProvider looks up a benchmark curve for a skill and level.
// A false return means "no benchmark"; the affected skill is skipped.
type BenchmarkProvider interface {
	Benchmark(ctx context.Context, skillID string, level types.ExperienceLevel) (model.IndustryBenchmark, bool)
}

// JobCatalog exposes the static job opportunity catalog.
type JobCatalog interface {
	Jobs(ctx context.Context) []model.JobOpportunity
}

// Option applies a configuration option to the Assessor.
type Option func(*Assessor)

// WithLogger sets a custom logger for the assessor.
func WithLogger(log logger.Logger) Option {
	return func(a *Assessor) {
		if log != nil {
			a.logger = log
		}
	}
}

// WithNormalizer overrides the score normalizer.
func WithNormalizer(n *normalize.Normalizer) Option {
	return func(a *Assessor) {
		if n != nil {
			a.normalizer = n
		}
	}
}

// WithComparator overrides the benchmark comparator.
func WithComparator(c *benchmark.Comparator) Option {
	return func(a *Assessor) {
		if c != nil {
			a.comparator = c
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(a *Assessor) {
		if now != nil {
			a.now = now
		}
	}
}

// AssessOption narrows a single assessment run.
type AssessOption func(*assessParams)

type assessParams struct {
	targetRole     string
	targetIndustry string
}

// WithTargetRole filters job matching to a role keyword.
func WithTargetRole(role string) AssessOption {
	return func(p *assessParams) { p.targetRole = role }
}

// WithTargetIndustry filters job matching to an industry.
func WithTargetIndustry(industry string) AssessOption {
	return func(p *assessParams) { p.targetIndustry = industry }
}

// Assessor orchestrates comparisons across all of a user's skills. It is
// stateless between calls; every assessment is a single-pass pipeline from
// snapshot to result.
type Assessor struct {
	snapshots  SnapshotProvider
	benchmarks BenchmarkProvider
	catalog    JobCatalog
	normalizer *normalize.Normalizer
	comparator *benchmark.Comparator
	matcher    *Matcher
	now        func() time.Time
	logger     logger.Logger
}

// New constructs an Assessor over the given collaborators.
func New(snapshots SnapshotProvider, benchmarks BenchmarkProvider, catalog JobCatalog, opts ...Option) *Assessor {
	a := &Assessor{
		snapshots:  snapshots,
		benchmarks: benchmarks,
		catalog:    catalog,
		normalizer: normalize.New(),
		comparator: benchmark.New(),
		matcher:    NewMatcher(),
		now:        time.Now,
		logger:     logger.Get().Named("readiness"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// CompareAll runs the benchmark comparator for every skill in the snapshot,
// fanning out one goroutine per skill and gathering before returning. Skills
// without a benchmark are dropped, never failed.
func (a *Assessor) CompareAll(ctx context.Context, userID string, snapshot map[string]model.SkillObservation, level types.ExperienceLevel) []model.BenchmarkComparison {
	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results = make([]model.BenchmarkComparison, 0, len(snapshot))
	)

	for _, obs := range snapshot {
		wg.Add(1)
		go func(obs model.SkillObservation) {
			defer wg.Done()

			bench, ok := a.benchmarks.Benchmark(ctx, obs.SkillID, level)
			if !ok {
				metrics.RecordSkillSkipped()
				a.logger.Debug(ctx, "no benchmark for skill; skipping",
					logger.String("skillID", obs.SkillID),
					logger.String("experienceLevel", string(level)),
				)
				return
			}

			score := a.normalizer.Score(obs.Level, obs.ExperiencePoints)
			cmp := a.comparator.Compare(userID, obs.SkillID, score, bench)
			metrics.RecordComparison("industry")

			mu.Lock()
			results = append(results, cmp)
			mu.Unlock()
		}(obs)
	}
	wg.Wait()

	// Deterministic order for callers regardless of goroutine scheduling.
	sort.Slice(results, func(i, j int) bool { return results[i].SkillID < results[j].SkillID })
	return results
}

// Assess produces a consolidated market readiness assessment for a user.
func (a *Assessor) Assess(ctx context.Context, userID string, opts ...AssessOption) (model.MarketReadinessAssessment, error) {
	start := time.Now()
	defer func() {
		metrics.RecordAssessmentLatency(float64(time.Since(start).Milliseconds()))
	}()

	var params assessParams
	for _, opt := range opts {
		opt(&params)
	}

	snapshot, err := a.snapshots.SkillSnapshot(ctx, userID)
	if err != nil {
		return model.MarketReadinessAssessment{}, fmt.Errorf("fetch skill snapshot: %w", err)
	}

	level := ClassifyExperience(snapshot)
	comparisons := a.CompareAll(ctx, userID, snapshot, level)
	gaps, strengths := partition(comparisons)
	actions := a.recommendActions(gaps, strengths)

	jobs := a.matcher.Match(snapshot, level, a.filterCatalog(ctx, params))

	assessment := model.MarketReadinessAssessment{
		UserID:             userID,
		OverallReadiness:   overallReadiness(comparisons, len(gaps), len(strengths)),
		ExperienceLevel:    level,
		SkillGaps:          gaps,
		Strengths:          strengths,
		RecommendedActions: actions,
		JobOpportunities:   jobs,
		AssessmentDate:     a.now(),
		NextReviewDate:     a.now().Add(reviewInterval),
	}

	metrics.RecordAssessment()
	a.logger.Info(ctx, "assessment generated",
		logger.Int("skills", len(snapshot)),
		logger.Int("comparisons", len(comparisons)),
		logger.Int("gaps", len(gaps)),
		logger.Int("strengths", len(strengths)),
		logger.Int("jobMatches", len(jobs)),
		logger.Float64("overallReadiness", assessment.OverallReadiness),
	)
	return assessment, nil
}

func (a *Assessor) filterCatalog(ctx context.Context, params assessParams) []model.JobOpportunity {
	jobs := a.catalog.Jobs(ctx)
	if params.targetRole == "" && params.targetIndustry == "" {
		return jobs
	}
	filtered := make([]model.JobOpportunity, 0, len(jobs))
	for _, job := range jobs {
		if params.targetRole != "" && !containsFold(job.Title, params.targetRole) {
			continue
		}
		if params.targetIndustry != "" && !containsFold(job.Industry, params.targetIndustry) {
			continue
		}
		filtered = append(filtered, job)
	}
	return filtered
}

// Experience level classification thresholds on (average level, total XP).
var experienceBands = []struct {
	level    types.ExperienceLevel
	minAvg   float64
	minTotal int
}{
	{types.LevelPrincipal, 4.0, 2000},
	{types.LevelSenior, 3.5, 1200},
	{types.LevelMid, 2.5, 600},
	{types.LevelJunior, 1.5, 200},
}

// ClassifyExperience derives an experience level from the average skill
// level and the total experience points across all skills.
func ClassifyExperience(snapshot map[string]model.SkillObservation) types.ExperienceLevel {
	if len(snapshot) == 0 {
		return types.LevelEntry
	}

	totalLevel, totalXP := 0, 0
	for _, obs := range snapshot {
		totalLevel += obs.Level
		totalXP += obs.ExperiencePoints
	}
	avg := float64(totalLevel) / float64(len(snapshot))

	for _, band := range experienceBands {
		if avg >= band.minAvg && totalXP >= band.minTotal {
			return band.level
		}
	}
	return types.LevelEntry
}

// partition splits comparisons into gaps and strengths. A skill lands in at
// most one of the two lists; average performers appear in neither.
func partition(comparisons []model.BenchmarkComparison) ([]model.SkillGap, []model.SkillStrength) {
	gaps := make([]model.SkillGap, 0, len(comparisons))
	strengths := make([]model.SkillStrength, 0, len(comparisons))

	for _, cmp := range comparisons {
		switch cmp.PerformanceLevel {
		case types.PerformanceBelowAverage:
			gaps = append(gaps, model.SkillGap{
				SkillID:           cmp.SkillID,
				UserScore:         cmp.UserScore,
				BenchmarkAverage:  cmp.UserScore + cmp.GapAnalysis.ScoreGap,
				ScoreGap:          cmp.GapAnalysis.ScoreGap,
				Percentile:        cmp.PercentileRank,
				Priority:          types.GapPriorityForScoreGap(cmp.GapAnalysis.ScoreGap),
				TimeToTargetWeeks: cmp.GapAnalysis.TimeToTargetWeeks,
			})
		case types.PerformanceAboveAverage, types.PerformanceExceptional:
			strengths = append(strengths, model.SkillStrength{
				SkillID:          cmp.SkillID,
				UserScore:        cmp.UserScore,
				Percentile:       cmp.PercentileRank,
				PerformanceLevel: cmp.PerformanceLevel,
				MarketValue:      types.MarketValueForPercentile(cmp.PercentileRank),
			})
		}
	}

	sort.Slice(gaps, func(i, j int) bool { return gaps[i].ScoreGap > gaps[j].ScoreGap })
	sort.Slice(strengths, func(i, j int) bool { return strengths[i].Percentile > strengths[j].Percentile })
	return gaps, strengths
}

// recommendActions generates one development action per top gap plus up to
// two networking/mentoring actions for highly rated strengths.
func (a *Assessor) recommendActions(gaps []model.SkillGap, strengths []model.SkillStrength) []model.RecommendedAction {
	actions := make([]model.RecommendedAction, 0, maxGapActions+maxStrengthActions)

	for i, gap := range gaps {
		if i >= maxGapActions {
			break
		}
		actions = append(actions, model.RecommendedAction{
			Type:                 types.ActionSkillDevelopment,
			SkillID:              gap.SkillID,
			Description:          fmt.Sprintf("Close the %s gap with a structured practice plan", gap.SkillID),
			EstimatedEffortHours: gap.TimeToTargetWeeks * hoursPerWeek,
			ExpectedImpact:       math.Min(100, math.Max(0, gap.ScoreGap)),
		})
	}

	added := 0
	for _, strength := range strengths {
		if added >= maxStrengthActions {
			break
		}
		if strength.MarketValue != types.MarketValueHigh && strength.MarketValue != types.MarketValueExceptional {
			continue
		}
		actionType := types.ActionNetworking
		description := fmt.Sprintf("Highlight %s in your network; it is a marketable strength", strength.SkillID)
		if strength.MarketValue == types.MarketValueExceptional {
			actionType = types.ActionMentoring
			description = fmt.Sprintf("Mentor others in %s to consolidate an exceptional strength", strength.SkillID)
		}
		actions = append(actions, model.RecommendedAction{
			Type:                 actionType,
			SkillID:              strength.SkillID,
			Description:          description,
			EstimatedEffortHours: hoursPerWeek,
			ExpectedImpact:       strength.Percentile,
		})
		added++
	}

	return actions
}

// overallReadiness blends the average percentile with gap and strength
// counts, clamped to [0,100].
func overallReadiness(comparisons []model.BenchmarkComparison, gapCount, strengthCount int) float64 {
	if len(comparisons) == 0 {
		return 0
	}
	sum := 0.0
	for _, cmp := range comparisons {
		sum += cmp.PercentileRank
	}
	avg := sum / float64(len(comparisons))
	score := avg - gapPenalty*float64(gapCount) + strengthBonus*float64(strengthCount)
	return math.Max(0, math.Min(100, score))
}
