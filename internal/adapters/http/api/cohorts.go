package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/skillbench/skillbench/internal/domain/types"
)

// CohortsHandler handles cohort aggregate and analysis requests.
type CohortsHandler struct {
	deps Dependencies
}

// NewCohortsHandler creates a new cohorts handler.
func NewCohortsHandler(deps Dependencies) *CohortsHandler {
	return &CohortsHandler{deps: deps}
}

// cohortParams extracts ?skill=, ?level= and the optional ?region= query
// parameters shared by the cohort routes.
func cohortParams(w http.ResponseWriter, r *http.Request) (string, types.ExperienceLevel, string, bool) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingSkill)
		return "", "", "", false
	}
	level, err := types.ParseExperienceLevel(strings.TrimSpace(r.URL.Query().Get("level")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return "", "", "", false
	}
	region := strings.TrimSpace(r.URL.Query().Get("region"))
	return skill, level, region, true
}

// HandleGroupStats handles GET /cohorts/stats requests.
func (h *CohortsHandler) HandleGroupStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	skill, level, region, ok := cohortParams(w, r)
	if !ok {
		return
	}

	stats, err := h.deps.PeerGroupStats(r.Context(), skill, level, region)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleAnalysis handles /analysis requests. GET analyzes a live cohort;
// POST analyzes a caller-supplied sample.
func (h *CohortsHandler) HandleAnalysis(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.handleCohortAnalysis(w, r)
	case http.MethodPost:
		h.handleSampleAnalysis(w, r)
	default:
		http.NotFound(w, r)
	}
}

func (h *CohortsHandler) handleCohortAnalysis(w http.ResponseWriter, r *http.Request) {
	skill, level, region, ok := cohortParams(w, r)
	if !ok {
		return
	}

	analysis, err := h.deps.PerformStatisticalAnalysis(r.Context(), skill, level, region)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}

type sampleAnalysisRequest struct {
	Sample []float64 `json:"sample"`
}

func (h *CohortsHandler) handleSampleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req sampleAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(req.Sample) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("sample must not be empty"))
		return
	}

	analysis, err := h.deps.AnalyzeSample(r.Context(), req.Sample)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analysis)
}
