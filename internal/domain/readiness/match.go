package readiness

import (
	"sort"
	"strings"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Default matching constants.
const (
	defaultSkillsWeight     = 0.7
	defaultExperienceWeight = 0.3
	defaultMatchThreshold   = 60.0
	experiencePenalty       = 25.0
)

// MatcherOption applies a configuration option to the Matcher.
type MatcherOption func(*Matcher)

// WithWeights sets the blend of skills match and experience match.
func WithWeights(skills, experience float64) MatcherOption {
	return func(m *Matcher) {
		if skills > 0 && experience > 0 {
			m.skillsWeight = skills
			m.experienceWeight = experience
		}
	}
}

// WithMatchThreshold sets the minimum match score returned.
func WithMatchThreshold(threshold float64) MatcherOption {
	return func(m *Matcher) {
		if threshold >= 0 && threshold <= 100 {
			m.threshold = threshold
		}
	}
}

// Matcher scores job opportunities against a user's skill snapshot.
type Matcher struct {
	skillsWeight     float64
	experienceWeight float64
	threshold        float64
}

// NewMatcher creates a Matcher with configuration options.
func NewMatcher(opts ...MatcherOption) *Matcher {
	m := &Matcher{
		skillsWeight:     defaultSkillsWeight,
		experienceWeight: defaultExperienceWeight,
		threshold:        defaultMatchThreshold,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Match scores every catalog opportunity and returns those at or above the
// threshold, sorted descending by match score. The sort is stable: ties
// preserve catalog order.
func (m *Matcher) Match(snapshot map[string]model.SkillObservation, level types.ExperienceLevel, catalog []model.JobOpportunity) []model.JobOpportunity {
	matched := make([]model.JobOpportunity, 0, len(catalog))

	for _, job := range catalog {
		job.SkillsMatch = skillsMatch(snapshot, job)
		job.ExperienceMatch = experienceMatch(level, job.ExperienceLevel)
		job.MatchScore = m.skillsWeight*job.SkillsMatch + m.experienceWeight*job.ExperienceMatch

		if job.MatchScore >= m.threshold {
			matched = append(matched, job)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].MatchScore > matched[j].MatchScore
	})
	return matched
}

// skillsMatch computes the weighted fraction of requirements the user meets
// over the union of required and optional skills. A skill the user lacks
// entirely counts as unmet.
func skillsMatch(snapshot map[string]model.SkillObservation, job model.JobOpportunity) float64 {
	totalWeight, metWeight := 0.0, 0.0

	score := func(reqs []model.SkillRequirement) {
		for _, req := range reqs {
			weight := req.Weight
			if weight <= 0 {
				weight = 1
			}
			totalWeight += weight
			if obs, ok := snapshot[req.SkillID]; ok && obs.Level >= req.MinimumLevel {
				metWeight += weight
			}
		}
	}
	score(job.RequiredSkills)
	score(job.OptionalSkills)

	if totalWeight == 0 {
		return 0
	}
	return 100 * metWeight / totalWeight
}

// experienceMatch compares level ordinals: meeting or exceeding the
// requirement scores 100, each missing level costs 25 points.
func experienceMatch(user, required types.ExperienceLevel) float64 {
	gap := required.Index() - user.Index()
	if gap <= 0 {
		return 100
	}
	score := 100 - experiencePenalty*float64(gap)
	if score < 0 {
		return 0
	}
	return score
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
