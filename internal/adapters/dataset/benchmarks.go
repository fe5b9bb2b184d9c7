package dataset

import (
	"context"
	"fmt"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Benchmarks is the loaded industry benchmark dataset, indexed by skill and
// experience level.
type Benchmarks struct {
	byKey map[benchmarkKey]model.IndustryBenchmark
}

type benchmarkKey struct {
	skillID string
	level   types.ExperienceLevel
}

// LoadBenchmarks reads the benchmark dataset from path, or from the
// embedded defaults when path is empty. Every entry is validated on load;
// a bad dataset fails the whole process rather than one comparison later.
func LoadBenchmarks(path string) (*Benchmarks, error) {
	var entries []model.IndustryBenchmark
	if err := load(path, defaultBenchmarks, "benchmarks", &entries); err != nil {
		return nil, err
	}

	b := &Benchmarks{byKey: make(map[benchmarkKey]model.IndustryBenchmark, len(entries))}
	for _, bench := range entries {
		where := fmt.Sprintf("benchmark %s/%s", bench.SkillID, bench.ExperienceLevel)
		if err := validLevel(bench.ExperienceLevel, where); err != nil {
			return nil, err
		}
		if err := validRanges(bench.PercentileRanges, where); err != nil {
			return nil, err
		}

		key := benchmarkKey{skillID: bench.SkillID, level: bench.ExperienceLevel}
		if _, exists := b.byKey[key]; exists {
			return nil, fmt.Errorf("%s: %w", where, ErrDuplicate)
		}
		b.byKey[key] = bench
	}
	return b, nil
}

// Benchmark returns the curve for a skill and level. The second return is
// false when no benchmark exists for the pair.
func (b *Benchmarks) Benchmark(_ context.Context, skillID string, level types.ExperienceLevel) (model.IndustryBenchmark, bool) {
	bench, ok := b.byKey[benchmarkKey{skillID: skillID, level: level}]
	return bench, ok
}

// Len returns the number of loaded benchmark curves.
func (b *Benchmarks) Len() int {
	return len(b.byKey)
}
