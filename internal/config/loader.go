package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if SKILLBENCH_CONFIG is set
//  3. env (prefix SKILLBENCH_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv("SKILLBENCH_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: SKILLBENCH_ADDR, SKILLBENCH_QUEUE_SIZE, ...
	// Keys keep their underscores to match the koanf tags on Config.
	envProvider := env.Provider("SKILLBENCH_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "skillbench_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if cfg.QueueSize < 1 {
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	}
	if cfg.WorkerCount < 1 {
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	if cfg.MinGroupSize < 1 {
		return fmt.Errorf("%w: min_group_size must be positive", ErrInvalidConfig)
	}
	if cfg.NoiseAmplitude < 0 {
		return fmt.Errorf("%w: noise_amplitude must not be negative", ErrInvalidConfig)
	}
	return nil
}
