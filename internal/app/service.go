// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/skillbench/skillbench/internal/adapters/dataset"
	obsqueue "github.com/skillbench/skillbench/internal/adapters/mq/queue"
	workerpool "github.com/skillbench/skillbench/internal/adapters/mq/worker"
	"github.com/skillbench/skillbench/internal/adapters/progress"
	"github.com/skillbench/skillbench/internal/adapters/repository"
	"github.com/skillbench/skillbench/internal/domain/benchmark"
	"github.com/skillbench/skillbench/internal/domain/dedupe"
	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/normalize"
	"github.com/skillbench/skillbench/internal/domain/peer"
	"github.com/skillbench/skillbench/internal/domain/readiness"
	"github.com/skillbench/skillbench/internal/domain/stats"
	"github.com/skillbench/skillbench/internal/domain/types"
	"github.com/skillbench/skillbench/pkg/logger"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// Service wires the ingestion pipeline and comparison engines together and
// implements the API dependencies.
type Service struct {
	mu sync.RWMutex

	// Core components
	cohorts    *repository.CohortStore
	deduper    dedupe.Deduper
	queue      obsqueue.Queue
	pool       *workerpool.Pool
	progress   *progress.Store
	benchmarks *dataset.Benchmarks
	catalog    *dataset.Catalog
	normalizer *normalize.Normalizer
	comparator *benchmark.Comparator
	peers      *peer.Engine
	assessor   *readiness.Assessor

	// Configuration
	workerCount    int
	queueSize      int
	dedupeSize     int
	minGroupSize   int
	noiseAmplitude float64
	benchmarksPath string
	jobsPath       string

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the observation queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMinGroupSize sets the k-anonymity floor for cohort reads.
func WithMinGroupSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.minGroupSize = size
		}
	}
}

// WithNoiseAmplitude sets the uniform noise bound for cohort scores.
func WithNoiseAmplitude(amplitude float64) Option {
	return func(s *Service) {
		if amplitude >= 0 {
			s.noiseAmplitude = amplitude
		}
	}
}

// WithBenchmarksPath points the benchmark dataset at a file instead of the
// embedded defaults.
func WithBenchmarksPath(path string) Option {
	return func(s *Service) {
		s.benchmarksPath = path
	}
}

// WithJobsPath points the job catalog at a file instead of the embedded
// defaults.
func WithJobsPath(path string) Option {
	return func(s *Service) {
		s.jobsPath = path
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:    runtime.NumCPU() * 4,
		queueSize:      50_000,
		dedupeSize:     50_000,
		minGroupSize:   repository.DefaultMinGroupSize,
		noiseAmplitude: 5,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start loads the reference datasets and starts the ingestion pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.logger.Info(ctx, "starting benchmarking service...")

	benchmarks, err := dataset.LoadBenchmarks(s.benchmarksPath)
	if err != nil {
		return fmt.Errorf("load benchmarks: %w", err)
	}
	catalog, err := dataset.LoadJobs(s.jobsPath)
	if err != nil {
		return fmt.Errorf("load job catalog: %w", err)
	}
	s.benchmarks = benchmarks
	s.catalog = catalog

	s.cohorts = repository.NewCohortStore(
		repository.WithMinGroupSize(s.minGroupSize),
	)
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)
	s.queue = obsqueue.NewInMemoryQueue(
		obsqueue.WithCapacity(s.queueSize),
	)
	s.progress = progress.NewStore()
	s.normalizer = normalize.New()
	s.comparator = benchmark.New()
	s.peers = peer.New(
		peer.WithNoiseAmplitude(s.noiseAmplitude),
	)
	s.assessor = readiness.New(s.progress, s.benchmarks, s.catalog,
		readiness.WithNormalizer(s.normalizer),
		readiness.WithComparator(s.comparator),
	)

	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.progress, s.normalizer, s.peers, s.cohorts)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "benchmarking service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("minGroupSize", s.minGroupSize),
		logger.Int("benchmarks", s.benchmarks.Len()),
		logger.Int("jobs", s.catalog.Len()),
	)
	return nil
}

// Stop gracefully shuts down the service, draining in-flight observations.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s.logger.Info(ctx, "stopping benchmarking service...")

	if q, ok := s.queue.(*obsqueue.InMemoryQueue); ok {
		_ = q.Close()
	}
	if s.pool != nil {
		if err := s.pool.Shutdown(ctx); err != nil {
			s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Info(ctx, "benchmarking service stopped")
}

// Submit accepts one observation for asynchronous processing. Duplicate
// observation IDs and queue backpressure surface as sentinel errors.
func (s *Service) Submit(ctx context.Context, obs model.Observation) error {
	if obs.ObservationID == "" || obs.UserID == "" || obs.SkillID == "" {
		return ErrInvalidObservation
	}

	if s.deduper.SeenAndRecord(ctx, obs.ObservationID) {
		metrics.RecordObservationDuplicate()
		s.logger.Debug(ctx, "duplicate observation, skipping",
			logger.String("observationID", obs.ObservationID),
		)
		return ErrDuplicate
	}

	if !s.queue.Enqueue(ctx, obs) {
		// The ID was recorded but nothing will process it; allow a retry.
		s.deduper.Unrecord(ctx, obs.ObservationID)
		metrics.RecordObservationDropped()
		return ErrBackpressure
	}
	return nil
}

// skillState resolves a user's current score and experience level for one
// skill.
func (s *Service) skillState(ctx context.Context, userID, skillID string) (float64, types.ExperienceLevel, error) {
	snapshot, err := s.progress.SkillSnapshot(ctx, userID)
	if err != nil {
		return 0, "", fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	obs, ok := snapshot[skillID]
	if !ok {
		return 0, "", fmt.Errorf("%w: %s", ErrSkillNotTracked, skillID)
	}
	level := readiness.ClassifyExperience(snapshot)
	return s.normalizer.Score(obs.Level, obs.ExperiencePoints), level, nil
}

// CompareToIndustry compares a user's skill against the industry benchmark
// for their experience level.
func (s *Service) CompareToIndustry(ctx context.Context, userID, skillID string) (model.BenchmarkComparison, error) {
	score, level, err := s.skillState(ctx, userID, skillID)
	if err != nil {
		return model.BenchmarkComparison{}, err
	}

	bench, ok := s.benchmarks.Benchmark(ctx, skillID, level)
	if !ok {
		return model.BenchmarkComparison{}, fmt.Errorf("%w: %s/%s", ErrBenchmarkNotFound, skillID, level)
	}

	metrics.RecordComparison("industry")
	return s.comparator.Compare(userID, skillID, score, bench), nil
}

// CompareToIndustryAll runs the industry comparison for every skill the
// user tracks. Skills without a benchmark curve are skipped. A non-empty
// level overrides the classified experience level.
func (s *Service) CompareToIndustryAll(ctx context.Context, userID string, level types.ExperienceLevel) ([]model.BenchmarkComparison, error) {
	snapshot, err := s.progress.SkillSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if level == "" {
		level = readiness.ClassifyExperience(snapshot)
	}

	// CompareAll records the per-skill comparison metrics itself.
	return s.assessor.CompareAll(ctx, userID, snapshot, level), nil
}

// CompareToPeers compares a user's skill against their anonymized peer
// cohort.
func (s *Service) CompareToPeers(ctx context.Context, userID, skillID string) (model.AnonymizedPeerComparison, error) {
	score, level, err := s.skillState(ctx, userID, skillID)
	if err != nil {
		return model.AnonymizedPeerComparison{}, err
	}

	cohort, err := s.cohorts.Cohort(ctx, repository.Key{SkillID: skillID, ExperienceLevel: level})
	if err != nil {
		return model.AnonymizedPeerComparison{}, err
	}

	metrics.RecordComparison("peer")
	return s.peers.Compare(userID, score, cohort), nil
}

// CompareToPeersAll compares every tracked skill against its peer cohort.
// Skills whose cohorts are unknown or under the minimum group size are
// skipped rather than failing the request.
func (s *Service) CompareToPeersAll(ctx context.Context, userID string, level types.ExperienceLevel) ([]model.AnonymizedPeerComparison, error) {
	snapshot, err := s.progress.SkillSnapshot(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, userID)
	}
	if level == "" {
		level = readiness.ClassifyExperience(snapshot)
	}

	skills := make([]string, 0, len(snapshot))
	for skillID := range snapshot {
		skills = append(skills, skillID)
	}
	sort.Strings(skills)

	out := make([]model.AnonymizedPeerComparison, 0, len(skills))
	for _, skillID := range skills {
		cohort, err := s.cohorts.Cohort(ctx, repository.Key{SkillID: skillID, ExperienceLevel: level})
		if err != nil {
			continue
		}
		obs := snapshot[skillID]
		out = append(out, s.peers.Compare(userID, s.normalizer.Score(obs.Level, obs.ExperiencePoints), cohort))
	}

	metrics.RecordComparison("peer")
	return out, nil
}

// PeerGroupStats returns aggregate statistics for a cohort. Cohorts below
// the minimum group size are never exposed.
func (s *Service) PeerGroupStats(ctx context.Context, skillID string, level types.ExperienceLevel, region string) (model.PeerGroupStats, error) {
	return s.cohorts.GroupStats(ctx, repository.Key{
		SkillID:         skillID,
		ExperienceLevel: level,
		Region:          region,
	})
}

// GenerateAnonymizedRanking places a user's skill within their cohort with
// a group-size-derived confidence interval.
func (s *Service) GenerateAnonymizedRanking(ctx context.Context, userID, skillID string) (model.PeerRanking, error) {
	score, level, err := s.skillState(ctx, userID, skillID)
	if err != nil {
		return model.PeerRanking{}, err
	}

	cohort, err := s.cohorts.Cohort(ctx, repository.Key{SkillID: skillID, ExperienceLevel: level})
	if err != nil {
		return model.PeerRanking{}, err
	}

	metrics.RecordComparison("ranking")
	return s.peers.Ranking(skillID, score, cohort), nil
}

// PerformStatisticalAnalysis computes descriptive statistics over a cohort's
// scores. The cohort gate applies before any score leaves the store.
func (s *Service) PerformStatisticalAnalysis(ctx context.Context, skillID string, level types.ExperienceLevel, region string) (model.StatisticalAnalysis, error) {
	sample, err := s.cohorts.Sample(ctx, repository.Key{
		SkillID:         skillID,
		ExperienceLevel: level,
		Region:          region,
	})
	if err != nil {
		return model.StatisticalAnalysis{}, err
	}

	analysis, ok := stats.Analyze(sample)
	if !ok {
		return model.StatisticalAnalysis{}, ErrSampleTooSmall
	}
	metrics.RecordComparison("analysis")
	return analysis, nil
}

// AnalyzeSample computes descriptive statistics over a caller-provided
// sample, independent of any cohort.
func (s *Service) AnalyzeSample(_ context.Context, sample []float64) (model.StatisticalAnalysis, error) {
	analysis, ok := stats.Analyze(sample)
	if !ok {
		return model.StatisticalAnalysis{}, ErrSampleTooSmall
	}
	metrics.RecordComparison("analysis")
	return analysis, nil
}

// GenerateMarketReadinessAssessment produces the consolidated readiness
// assessment for a user.
func (s *Service) GenerateMarketReadinessAssessment(ctx context.Context, userID string, opts ...readiness.AssessOption) (model.MarketReadinessAssessment, error) {
	assessment, err := s.assessor.Assess(ctx, userID, opts...)
	if err != nil {
		if errors.Is(err, progress.ErrNotFound) {
			return model.MarketReadinessAssessment{}, fmt.Errorf("%w: %s: %w", ErrUserNotFound, userID, err)
		}
		return model.MarketReadinessAssessment{}, fmt.Errorf("assess user %s: %w", userID, err)
	}
	return assessment, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	out := map[string]interface{}{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"dedupeSize":   s.dedupeSize,
		"minGroupSize": s.minGroupSize,
	}

	if s.started {
		out["queueLength"] = s.queue.Len(ctx)
		out["trackedUsers"] = s.progress.Users(ctx)
		out["cohortBuckets"] = s.cohorts.Buckets(ctx)
		out["cohortMembers"] = s.cohorts.Count(ctx)
		out["dedupeEntries"] = s.deduper.Size()

		metrics.UpdateTrackedUsers(s.progress.Users(ctx))
	}
	return out
}
