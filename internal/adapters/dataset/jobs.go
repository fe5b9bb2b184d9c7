package dataset

import (
	"context"
	"fmt"

	"github.com/skillbench/skillbench/internal/domain/model"
)

// Catalog is the loaded job opportunity dataset.
type Catalog struct {
	jobs []model.JobOpportunity
}

// LoadJobs reads the job catalog from path, or from the embedded defaults
// when path is empty.
func LoadJobs(path string) (*Catalog, error) {
	var entries []model.JobOpportunity
	if err := load(path, defaultJobs, "jobs", &entries); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(entries))
	for _, job := range entries {
		where := fmt.Sprintf("job %s", job.ID)
		if err := validLevel(job.ExperienceLevel, where); err != nil {
			return nil, err
		}
		if _, exists := seen[job.ID]; exists {
			return nil, fmt.Errorf("%s: %w", where, ErrDuplicate)
		}
		seen[job.ID] = struct{}{}
	}
	return &Catalog{jobs: entries}, nil
}

// Jobs returns a copy of the catalog so callers can attach match scores
// without mutating shared state.
func (c *Catalog) Jobs(_ context.Context) []model.JobOpportunity {
	out := make([]model.JobOpportunity, len(c.jobs))
	copy(out, c.jobs)
	return out
}

// Len returns the number of catalog entries.
func (c *Catalog) Len() int {
	return len(c.jobs)
}
