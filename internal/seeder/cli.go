package seeder

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/skillbench/skillbench/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		logFile = "seed_log_" + time.Now().Format("20060102_150405") + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	log.SetOutput(io.MultiWriter(os.Stdout, file))
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the seeding tool.
func ShowHelp() {
	os.Stdout.WriteString(`SkillBench Cohort Seeder
========================

A concurrent tool for seeding a running SkillBench instance with synthetic
skill observations and verifying the comparison read path.

Usage:
  go run cmd/seed-observations/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -users int
        Number of synthetic users to generate (default 500)
  -skills int
        Number of skills observed per user (default 3)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -wait duration
        Settle time before verification (default 5s)
  -output string
        Output file for generated observations (default: seeded_observations_TIMESTAMP.json)
  -log string
        Log file for run output (default: seed_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Seed with default settings
  go run cmd/seed-observations/main.go

  # Seed a larger population
  go run cmd/seed-observations/main.go -users 5000 -skills 4 -workers 16

  # Point at a non-default address
  go run cmd/seed-observations/main.go -url http://localhost:8080 -verbose
`)
}
