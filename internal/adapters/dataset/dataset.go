// Package dataset loads the static reference data the engine compares
// against: industry benchmark curves and the job opportunity catalog.
//
// Both datasets ship as embedded YAML defaults and can be replaced by
// pointing the loader at a file. Reference data is immutable after load.
package dataset

import (
	_ "embed"
	"fmt"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

//go:embed benchmarks.yaml
var defaultBenchmarks []byte

//go:embed jobs.yaml
var defaultJobs []byte

// load reads YAML from path when non-empty, otherwise from the embedded
// defaults, and unmarshals the given top-level key.
func load(path string, fallback []byte, key string, out any) error {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("load %s dataset from %s: %w", key, path, err)
		}
	} else {
		if err := k.Load(rawbytes.Provider(fallback), yaml.Parser()); err != nil {
			return fmt.Errorf("load embedded %s dataset: %w", key, err)
		}
	}

	if err := k.UnmarshalWithConf(key, out, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return fmt.Errorf("unmarshal %s dataset: %w", key, err)
	}
	return nil
}

// validLevel fails fast on experience levels the engine does not know.
func validLevel(level types.ExperienceLevel, where string) error {
	if _, err := types.ParseExperienceLevel(string(level)); err != nil {
		return fmt.Errorf("%s: %w", where, err)
	}
	return nil
}

// validRanges checks that a benchmark curve is usable: sorted ascending by
// minimum score with no negative spans.
func validRanges(ranges []model.PercentileRange, where string) error {
	if len(ranges) == 0 {
		return fmt.Errorf("%s: %w", where, ErrEmptyCurve)
	}
	prev := -1.0
	for _, r := range ranges {
		if r.MaxScore < r.MinScore {
			return fmt.Errorf("%s: percentile %.0f: %w", where, r.Percentile, ErrInvalidRange)
		}
		if r.MinScore < prev {
			return fmt.Errorf("%s: percentile %.0f: %w", where, r.Percentile, ErrUnsortedCurve)
		}
		prev = r.MinScore
	}
	return nil
}
