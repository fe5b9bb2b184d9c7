package seeder

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/skillbench/skillbench/pkg/logger"
)

// skillPool matches the skills covered by the bundled benchmark curves so
// seeded cohorts line up with industry comparisons.
var skillPool = []string{"javascript", "go", "python", "sql", "kubernetes"}

// Level distribution weights; mid-career levels dominate realistic cohorts.
const (
	levelWeightTotal = 100
	randomFloatScale = 1000000
)

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatScale))
	return float64(n.Int64()) / float64(randomFloatScale)
}

func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomLevel draws a proficiency level with a distribution skewed toward
// the middle bands.
func randomLevel() int {
	switch roll := randomInt(levelWeightTotal); {
	case roll < 15:
		return 1
	case roll < 45:
		return 2
	case roll < 75:
		return 3
	case roll < 92:
		return 4
	default:
		return 5
	}
}

// randomExperiencePoints generates experience points loosely correlated
// with the level, so classified cohorts look plausible.
func randomExperiencePoints(level int) int {
	base := level * 250
	jitter := int(randomFloat() * 400)
	return base + jitter
}

// generateObservations creates NumUsers * SkillsPerUser observations with
// unique user IDs, fanned out across a worker pool.
func generateObservations(ctx context.Context, config *Config, stats *Stats) ([]Observation, error) {
	total := config.NumUsers * config.SkillsPerUser
	logger.Get().Info(ctx, "generating observations",
		logger.Int("users", config.NumUsers),
		logger.Int("skillsPerUser", config.SkillsPerUser),
		logger.Int("total", total))

	userIDs := make([]string, config.NumUsers)
	for i := range userIDs {
		userIDs[i] = uuid.New().String()
	}

	type result struct {
		index int
		obs   Observation
		err   error
	}

	results := make(chan result, total)

	workerCount := config.Workers
	if workerCount > total {
		workerCount = total
	}
	perWorker := total / workerCount

	for w := 0; w < workerCount; w++ {
		start := w * perWorker
		end := start + perWorker
		if w == workerCount-1 {
			end = total
		}

		go func(start, end int) {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					results <- result{index: i, err: ctx.Err()}
					return
				default:
					userID := userIDs[i/config.SkillsPerUser]
					results <- result{index: i, obs: generateSingleObservation(userID, i%config.SkillsPerUser)}
				}
			}
		}(start, end)
	}

	observations := make([]Observation, total)
	for i := 0; i < total; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("context cancelled during generation: %w", ctx.Err())
		case r := <-results:
			if r.err != nil {
				return nil, fmt.Errorf("generate observation %d: %w", r.index, r.err)
			}
			observations[r.index] = r.obs
		}
	}

	stats.ObservationsGenerated = len(observations)
	logger.Get().Info(ctx, "generated observations", logger.Int("count", len(observations)))
	return observations, nil
}

// generateSingleObservation builds one observation for the given user. The
// skill offset rotates through the pool so a user's skills stay distinct as
// long as SkillsPerUser does not exceed the pool size.
func generateSingleObservation(userID string, skillOffset int) Observation {
	level := randomLevel()
	return Observation{
		ObservationID:    "obs_" + uuid.New().String(),
		UserID:           userID,
		SkillID:          skillPool[skillOffset%len(skillPool)],
		Level:            level,
		ExperiencePoints: randomExperiencePoints(level),
		TS:               time.Now().UTC().Format(time.RFC3339),
	}
}
