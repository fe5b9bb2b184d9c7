// Package normalize maps a skill's (level, experience points) pair to a
// single comparable score on the 0-100 scale.
package normalize

import "math"

// Default normalization constants. Level dominates with five buckets of
// twenty points; XP contributes a bounded bonus so two users at the same
// level remain distinguishable.
const (
	defaultLevelWeight = 20.0
	defaultXPDivisor   = 50.0
	defaultXPBonusCap  = 20.0
	maxScore           = 100.0
	maxLevel           = 5
)

// Option applies a configuration option to the Normalizer.
type Option func(*Normalizer)

// WithLevelWeight sets the points awarded per proficiency level.
func WithLevelWeight(weight float64) Option {
	return func(n *Normalizer) {
		if weight > 0 {
			n.levelWeight = weight
		}
	}
}

// WithXPBonus sets the XP divisor and the cap on the XP bonus.
func WithXPBonus(divisor, cap float64) Option {
	return func(n *Normalizer) {
		if divisor > 0 && cap >= 0 {
			n.xpDivisor = divisor
			n.xpBonusCap = cap
		}
	}
}

// Normalizer computes normalized scores. The zero configuration implements
// score = min(100, level*20 + min(20, xp/50)).
type Normalizer struct {
	levelWeight float64
	xpDivisor   float64
	xpBonusCap  float64
}

// New creates a Normalizer with configuration options.
func New(opts ...Option) *Normalizer {
	n := &Normalizer{
		levelWeight: defaultLevelWeight,
		xpDivisor:   defaultXPDivisor,
		xpBonusCap:  defaultXPBonusCap,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Score normalizes a (level, xp) pair. Out-of-range inputs are clamped,
// never rejected: upstream data may legitimately contain a freshly
// initialized skill at level 0 / XP 0, which scores 0.
func (n *Normalizer) Score(level, xp int) float64 {
	if level < 0 {
		level = 0
	}
	if level > maxLevel {
		level = maxLevel
	}
	if xp < 0 {
		xp = 0
	}

	bonus := math.Min(n.xpBonusCap, float64(xp)/n.xpDivisor)
	return math.Min(maxScore, float64(level)*n.levelWeight+bonus)
}

// Score normalizes a (level, xp) pair with the default configuration.
func Score(level, xp int) float64 {
	return defaultNormalizer.Score(level, xp)
}

var defaultNormalizer = New()
