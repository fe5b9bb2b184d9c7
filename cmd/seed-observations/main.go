package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"time"

	"github.com/skillbench/skillbench/internal/seeder"
)

// Default configuration constants.
const (
	defaultUsers         = 500
	defaultSkillsPerUser = 3
	defaultWorkers       = 2 // multiplier for runtime.NumCPU()
	defaultTimeout       = 30 * time.Second
	defaultWait          = 5 * time.Second
	defaultRunTimeout    = 10 * time.Minute
)

func main() {
	var (
		baseURL       = flag.String("url", "http://localhost:9090", "Base URL of the service")
		users         = flag.Int("users", defaultUsers, "Number of synthetic users to generate")
		skillsPerUser = flag.Int("skills", defaultSkillsPerUser, "Number of skills observed per user")
		workers       = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout       = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		wait          = flag.Duration("wait", defaultWait, "Settle time before verification")
		outputFile    = flag.String("output", "", "Output file for generated observations (default: seeded_observations_TIMESTAMP.json)")
		logFile       = flag.String("log", "", "Log file for run output (default: seed_log_TIMESTAMP.log)")
		verbose       = flag.Bool("verbose", false, "Enable verbose logging")
		help          = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		seeder.ShowHelp()
		return
	}

	if err := seeder.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultRunTimeout)
	defer cancel()

	config := &seeder.Config{
		BaseURL:       *baseURL,
		NumUsers:      *users,
		SkillsPerUser: *skillsPerUser,
		Workers:       *workers,
		Timeout:       *timeout,
		Wait:          *wait,
		OutputFile:    *outputFile,
		LogFile:       *logFile,
		Verbose:       *verbose,
	}

	if err := seeder.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Seeding run failed: " + err.Error() + "\n")
		return
	}
}
