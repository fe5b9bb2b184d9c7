package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	service "github.com/skillbench/skillbench/internal/app"
	"github.com/skillbench/skillbench/internal/domain/model"
)

// observationRequest mirrors the OpenAPI schema for POST /observations.
type observationRequest struct {
	ObservationID    string `json:"observation_id"`
	UserID           string `json:"user_id"`
	SkillID          string `json:"skill_id"`
	Level            int    `json:"level"`
	ExperiencePoints int    `json:"experience_points"`
	TS               string `json:"ts"`
}

func (o observationRequest) validate() error {
	switch {
	case strings.TrimSpace(o.UserID) == "":
		return errors.New("missing user_id")
	case strings.TrimSpace(o.SkillID) == "":
		return errors.New("missing skill_id")
	case o.Level < 1 || o.Level > 5:
		return errors.New("level must be between 1 and 5")
	case o.ExperiencePoints < 0:
		return errors.New("experience_points must not be negative")
	}
	if o.TS != "" {
		if _, err := time.Parse(time.RFC3339, o.TS); err != nil {
			return errors.New("invalid ts; must be RFC3339")
		}
	}
	return nil
}

// ObservationsHandler handles observation intake requests.
type ObservationsHandler struct {
	deps Dependencies
}

// NewObservationsHandler creates a new observations handler.
func NewObservationsHandler(deps Dependencies) *ObservationsHandler {
	return &ObservationsHandler{deps: deps}
}

// HandlePostObservation handles POST /observations requests. Requests
// without an observation_id get a minted one; clients that retry must send
// their own ID to benefit from idempotency.
func (h *ObservationsHandler) HandlePostObservation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req observationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	if req.ObservationID == "" {
		req.ObservationID = uuid.NewString()
	}
	ts := time.Now()
	if req.TS != "" {
		ts, _ = time.Parse(time.RFC3339, req.TS)
	}

	err := h.deps.Submit(r.Context(), model.Observation{
		ObservationID:    req.ObservationID,
		UserID:           req.UserID,
		SkillID:          req.SkillID,
		Level:            req.Level,
		ExperiencePoints: req.ExperiencePoints,
		TS:               ts,
	})
	switch {
	case err == nil:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted"})
	case errors.Is(err, service.ErrDuplicate):
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
	default:
		writeServiceError(w, err)
	}
}
