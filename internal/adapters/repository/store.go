// Package repository defines the peer cohort store interface and errors.
package repository

import (
	"context"

	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Key identifies a cohort bucket. Region may be empty for global cohorts.
type Key struct {
	SkillID         string
	ExperienceLevel types.ExperienceLevel
	Region          string
}

// Store provides read/write access to anonymized peer cohort state.
//
// Reads only ever expose aggregates, never individual scores, and every
// aggregate read is gated on the minimum group size. Sample is the one
// exception: it returns raw scores for statistical analysis and is gated
// the same way.
type Store interface {
	// AddScore records a user's latest normalized score in a bucket,
	// replacing any previous score for the same user.
	AddScore(ctx context.Context, key Key, userID string, score float64) error

	// Cohort returns the anonymized aggregate for a bucket.
	// Returns ErrNotFound for an unknown bucket and ErrInsufficientData
	// when the bucket holds fewer members than the minimum group size.
	Cohort(ctx context.Context, key Key) (model.PeerCohort, error)

	// GroupStats returns the read shape for cohort statistics queries,
	// gated like Cohort.
	GroupStats(ctx context.Context, key Key) (model.PeerGroupStats, error)

	// Sample returns a copy of the bucket's scores for analysis, gated
	// like Cohort.
	Sample(ctx context.Context, key Key) ([]float64, error)

	// Members returns the member count of a bucket, zero when unknown.
	Members(ctx context.Context, key Key) int

	// Buckets returns the number of tracked buckets.
	Buckets(ctx context.Context) int

	// Count returns the total membership across all buckets.
	Count(ctx context.Context) int
}
