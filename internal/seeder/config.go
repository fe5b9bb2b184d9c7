package seeder

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumUsers      int           // Number of synthetic users to generate
	SkillsPerUser int           // Number of skills observed per user
	Workers       int           // Number of concurrent submitters
	Timeout       time.Duration // HTTP request timeout
	Wait          time.Duration // Settle time before verification
	OutputFile    string        // Output file for generated observations
	LogFile       string        // Log file for run output
	Verbose       bool          // Enable verbose logging
}

// Observation is the wire form accepted by POST /observations.
type Observation struct {
	ObservationID    string `json:"observation_id"`
	UserID           string `json:"user_id"`
	SkillID          string `json:"skill_id"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experience_points"`
	TS               string `json:"ts"`
}

// AckResponse is the response from observation submission.
type AckResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

// GroupStatsResponse mirrors the cohort stats payload fields the
// verification step cares about.
type GroupStatsResponse struct {
	SkillID         string `json:"skill_id"`
	ExperienceLevel string `json:"experience_level"`
	GroupSize       int    `json:"group_size"`
}

// Stats holds run statistics.
type Stats struct {
	ObservationsGenerated int
	ObservationsSubmitted int
	ObservationsAccepted  int
	ObservationsDuplicate int
	ObservationsFailed    int
	CohortsVerified       int
	CohortsBelowMinimum   int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
