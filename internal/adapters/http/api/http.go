// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/skillbench/skillbench/internal/adapters/repository"
	service "github.com/skillbench/skillbench/internal/app"
	"github.com/skillbench/skillbench/internal/domain/model"
	"github.com/skillbench/skillbench/internal/domain/readiness"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	// Submit pushes an observation for async processing.
	Submit(ctx context.Context, obs model.Observation) error

	// Read operations expose comparison results and cohort aggregates.
	// The All variants fan out across every skill the user tracks; an
	// empty level means "use the classified experience level".
	CompareToIndustry(ctx context.Context, userID, skillID string) (model.BenchmarkComparison, error)
	CompareToIndustryAll(ctx context.Context, userID string, level types.ExperienceLevel) ([]model.BenchmarkComparison, error)
	CompareToPeers(ctx context.Context, userID, skillID string) (model.AnonymizedPeerComparison, error)
	CompareToPeersAll(ctx context.Context, userID string, level types.ExperienceLevel) ([]model.AnonymizedPeerComparison, error)
	GenerateAnonymizedRanking(ctx context.Context, userID, skillID string) (model.PeerRanking, error)
	GenerateMarketReadinessAssessment(ctx context.Context, userID string, opts ...readiness.AssessOption) (model.MarketReadinessAssessment, error)
	PeerGroupStats(ctx context.Context, skillID string, level types.ExperienceLevel, region string) (model.PeerGroupStats, error)
	PerformStatisticalAnalysis(ctx context.Context, skillID string, level types.ExperienceLevel, region string) (model.StatisticalAnalysis, error)
	AnalyzeSample(ctx context.Context, sample []float64) (model.StatisticalAnalysis, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	observationsHandler *ObservationsHandler
	usersHandler        *UsersHandler
	cohortsHandler      *CohortsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:       NewHealthHandler(),
		statsHandler:        NewStatsHandler(statsProvider),
		observationsHandler: NewObservationsHandler(deps),
		usersHandler:        NewUsersHandler(deps),
		cohortsHandler:      NewCohortsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/observations", MetricsMiddleware(s.observationsHandler.HandlePostObservation, "observations"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUserRoute, "users"))
	mux.HandleFunc("/cohorts/stats", MetricsMiddleware(s.cohortsHandler.HandleGroupStats, "cohort_stats"))
	mux.HandleFunc("/analysis", MetricsMiddleware(s.cohortsHandler.HandleAnalysis, "analysis"))
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service sentinel errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSkillNotTracked),
		errors.Is(err, service.ErrBenchmarkNotFound),
		errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, repository.ErrInsufficientData):
		writeError(w, http.StatusUnprocessableEntity, "insufficient_cohort", err)
	case errors.Is(err, service.ErrSampleTooSmall):
		writeError(w, http.StatusUnprocessableEntity, "sample_too_small", err)
	case errors.Is(err, service.ErrBackpressure):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, service.ErrInvalidObservation):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
