package repository

import (
	"context"
	"math"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/stats"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// DefaultMinGroupSize is the k-anonymity floor for aggregate reads.
const DefaultMinGroupSize = 10

// bucket holds one cohort's scores keyed by user. Each bucket carries its
// own mutex so updates to different cohorts never contend.
type bucket struct {
	mu     sync.Mutex
	scores map[string]float64
}

// snapshot copies the bucket's scores so aggregation can run unlocked.
func (b *bucket) snapshot() []float64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]float64, 0, len(b.scores))
	for _, score := range b.scores {
		out = append(out, score)
	}
	return out
}

// CohortStore is an in-memory Store implementation. The top-level map is
// guarded by a read-write mutex and grows monotonically; score writes take
// only the owning bucket's lock.
type CohortStore struct {
	mu           sync.RWMutex
	buckets      map[Key]*bucket
	minGroupSize int
	members      atomic.Int64
}

// NewCohortStore creates an in-memory cohort store with configuration
// options.
func NewCohortStore(opts ...Option) *CohortStore {
	s := &CohortStore{
		buckets:      make(map[Key]*bucket),
		minGroupSize: DefaultMinGroupSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddScore records a user's latest score in a bucket, replacing any
// previous score for the same user.
func (s *CohortStore) AddScore(_ context.Context, key Key, userID string, score float64) error {
	if math.IsNaN(score) || score < 0 || score > 100 {
		return ErrInvalidScore
	}

	start := time.Now()
	b := s.bucketFor(key)

	b.mu.Lock()
	_, existed := b.scores[userID]
	b.scores[userID] = score
	b.mu.Unlock()

	if !existed {
		metrics.UpdateCohortMembers(int(s.members.Add(1)))
	}
	metrics.RecordCohortUpdateLatency(float64(time.Since(start).Milliseconds()))
	return nil
}

// bucketFor returns the bucket for key, creating it on first use.
func (s *CohortStore) bucketFor(key Key) *bucket {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if ok {
		return b
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok = s.buckets[key]; ok {
		return b
	}
	b = &bucket{scores: make(map[string]float64)}
	s.buckets[key] = b
	metrics.UpdateCohortBuckets(len(s.buckets))
	return b
}

// Cohort returns the anonymized aggregate for a bucket.
func (s *CohortStore) Cohort(ctx context.Context, key Key) (model.PeerCohort, error) {
	sample, err := s.Sample(ctx, key)
	if err != nil {
		return model.PeerCohort{}, err
	}
	return model.PeerCohort{
		SkillID:         key.SkillID,
		ExperienceLevel: key.ExperienceLevel,
		Region:          key.Region,
		MemberCount:     len(sample),
		Distribution:    distributionOf(sample),
	}, nil
}

// GroupStats returns the read shape for cohort statistics queries.
func (s *CohortStore) GroupStats(ctx context.Context, key Key) (model.PeerGroupStats, error) {
	sample, err := s.Sample(ctx, key)
	if err != nil {
		return model.PeerGroupStats{}, err
	}
	return model.PeerGroupStats{
		SkillID:         key.SkillID,
		ExperienceLevel: key.ExperienceLevel,
		Region:          key.Region,
		GroupSize:       len(sample),
		AverageScore:    meanOf(sample),
		Distribution:    distributionOf(sample),
	}, nil
}

// Sample returns a copy of the bucket's scores, gated on the minimum group
// size so no small-cohort data ever leaves the store.
func (s *CohortStore) Sample(_ context.Context, key Key) ([]float64, error) {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	sample := b.snapshot()
	if len(sample) < s.minGroupSize {
		metrics.RecordCohortRejection()
		return nil, ErrInsufficientData
	}
	return sample, nil
}

// Members returns the member count of a bucket, zero when unknown.
func (s *CohortStore) Members(_ context.Context, key Key) int {
	s.mu.RLock()
	b, ok := s.buckets[key]
	s.mu.RUnlock()
	if !ok {
		return 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.scores)
}

// Buckets returns the number of tracked buckets.
func (s *CohortStore) Buckets(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buckets)
}

// Count returns the total membership across all buckets.
func (s *CohortStore) Count(_ context.Context) int {
	return int(s.members.Load())
}

// MinGroupSize exposes the configured k-anonymity floor.
func (s *CohortStore) MinGroupSize() int {
	return s.minGroupSize
}

// distributionOf builds the five-point summary for a sample.
func distributionOf(sample []float64) model.SkillDistribution {
	sorted := make([]float64, len(sample))
	copy(sorted, sample)
	sort.Float64s(sorted)

	mean := meanOf(sorted)
	variance := 0.0
	if len(sorted) > 1 {
		for _, x := range sorted {
			d := x - mean
			variance += d * d
		}
		variance /= float64(len(sorted) - 1)
	}

	return model.SkillDistribution{
		P25:    stats.Quantile(sorted, 0.25),
		P50:    stats.Quantile(sorted, 0.50),
		P75:    stats.Quantile(sorted, 0.75),
		P90:    stats.Quantile(sorted, 0.90),
		StdDev: math.Sqrt(variance),
		Range: model.ScoreRange{
			Min: sorted[0],
			Max: sorted[len(sorted)-1],
		},
	}
}

func meanOf(sample []float64) float64 {
	if len(sample) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range sample {
		sum += x
	}
	return sum / float64(len(sample))
}
