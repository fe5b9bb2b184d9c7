package seeder

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/skillbench/skillbench/pkg/logger"
)

const directoryPermission = 0750

// Run executes a complete seeding run: health check, generation,
// concurrent submission, settle, and verification of the read path.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting cohort seeding run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("users", config.NumUsers),
		logger.Int("skillsPerUser", config.SkillsPerUser),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.String("wait", config.Wait.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	observations, err := generateObservations(ctx, config, stats)
	if err != nil {
		return fmt.Errorf("observation generation failed: %w", err)
	}

	if err := submitObservations(ctx, config, observations, stats); err != nil {
		return fmt.Errorf("observation submission failed: %w", err)
	}

	logger.Get().Info(ctx, "waiting for observations to drain")
	select {
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting: %w", ctx.Err())
	case <-time.After(config.Wait):
	}

	if err := verifyCohorts(ctx, config, stats); err != nil {
		return fmt.Errorf("cohort verification failed: %w", err)
	}

	if len(observations) > 0 {
		if err := verifySampleUser(ctx, config, observations[0]); err != nil {
			return fmt.Errorf("sample user verification failed: %w", err)
		}
	}

	if err := saveObservationsToFile(ctx, config, observations); err != nil {
		logger.Get().Warn(ctx, "failed to save observations to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding run completed successfully")
	return nil
}

// checkServiceHealth verifies the service is up before seeding.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config.Timeout)
	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check returned status %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// saveObservationsToFile writes the generated observations as a JSON array
// so a run can be replayed or inspected later.
func saveObservationsToFile(ctx context.Context, config *Config, observations []Observation) error {
	if len(observations) == 0 {
		return fmt.Errorf("no observations to save")
	}

	filename := config.OutputFile
	if filename == "" {
		filename = "seeded_observations_" + time.Now().Format("20060102_150405") + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(observations, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}
	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "observations saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var successRate, observationsPerSecond float64

	if stats.ObservationsSubmitted > 0 {
		successRate = float64(stats.ObservationsAccepted) / float64(stats.ObservationsSubmitted) * 100
	}
	if stats.Duration > 0 {
		observationsPerSecond = float64(stats.ObservationsSubmitted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("generated", stats.ObservationsGenerated),
		logger.Int("submitted", stats.ObservationsSubmitted),
		logger.Int("accepted", stats.ObservationsAccepted),
		logger.Int("duplicate", stats.ObservationsDuplicate),
		logger.Int("failed", stats.ObservationsFailed),
		logger.Int("cohortsVerified", stats.CohortsVerified),
		logger.Int("cohortsBelowMinimum", stats.CohortsBelowMinimum),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("observationsPerSecond", observationsPerSecond))
}
