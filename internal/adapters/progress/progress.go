// Package progress keeps the per-user skill snapshots that assessments and
// cohort updates work from.
package progress

import (
	"context"
	"sync"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/readiness"
	"github.com/skillbench/skillbench/internal/domain/types"
	"github.com/skillbench/skillbench/pkg/metrics"
)

// Store is an in-memory snapshot store. It implements the snapshot side of
// both the worker pipeline and assessment reads.
type Store struct {
	mu    sync.RWMutex
	users map[string]map[string]model.SkillObservation
}

// NewStore creates an empty snapshot store.
func NewStore() *Store {
	return &Store{
		users: make(map[string]map[string]model.SkillObservation),
	}
}

// Record applies an observation to the user's snapshot and returns the
// user's experience level classified over the updated snapshot. Later
// observations for the same skill replace earlier ones; queue ordering is
// the ordering of record.
func (s *Store) Record(_ context.Context, obs model.Observation) (types.ExperienceLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.users[obs.UserID]
	if !ok {
		snapshot = make(map[string]model.SkillObservation)
		s.users[obs.UserID] = snapshot
		metrics.UpdateTrackedUsers(len(s.users))
	}
	snapshot[obs.SkillID] = model.SkillObservation{
		SkillID:          obs.SkillID,
		Level:            obs.Level,
		ExperiencePoints: obs.ExperiencePoints,
	}

	return readiness.ClassifyExperience(snapshot), nil
}

// SkillSnapshot returns a copy of the user's snapshot. Returns ErrNotFound
// for a user with no recorded observations.
func (s *Store) SkillSnapshot(_ context.Context, userID string) (map[string]model.SkillObservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, ok := s.users[userID]
	if !ok {
		return nil, ErrNotFound
	}

	out := make(map[string]model.SkillObservation, len(snapshot))
	for skillID, obs := range snapshot {
		out[skillID] = obs
	}
	return out, nil
}

// Users returns the number of tracked users.
func (s *Store) Users(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
