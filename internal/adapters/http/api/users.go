package api

import (
	"net/http"
	"strings"

	"github.com/skillbench/skillbench/internal/domain/readiness"
	"github.com/skillbench/skillbench/internal/domain/types"
)

// UsersHandler handles per-user comparison and assessment requests.
type UsersHandler struct {
	deps Dependencies
}

// NewUsersHandler creates a new users handler.
func NewUsersHandler(deps Dependencies) *UsersHandler {
	return &UsersHandler{deps: deps}
}

// HandleUserRoute dispatches GET /users/{user_id}/{operation} requests.
// Operations: industry-comparison, peer-comparison, ranking, readiness.
func (h *UsersHandler) HandleUserRoute(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	rest := strings.TrimPrefix(r.URL.Path, "/users/")
	parts := strings.Split(rest, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRoute)
		return
	}
	userID, op := parts[0], parts[1]

	switch op {
	case "industry-comparison":
		h.handleIndustryComparison(w, r, userID)
	case "peer-comparison":
		h.handlePeerComparison(w, r, userID)
	case "ranking":
		h.handleRanking(w, r, userID)
	case "readiness":
		h.handleReadiness(w, r, userID)
	default:
		http.NotFound(w, r)
	}
}

// skillParam extracts the mandatory ?skill= query parameter.
func skillParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill == "" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrMissingSkill)
		return "", false
	}
	return skill, true
}

// levelParam extracts the optional ?level= experience level override.
// An empty value is valid and means "use the classified level".
func levelParam(w http.ResponseWriter, r *http.Request) (types.ExperienceLevel, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("level"))
	if raw == "" {
		return "", true
	}
	level, err := types.ParseExperienceLevel(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return "", false
	}
	return level, true
}

// handleIndustryComparison serves a single-skill comparison when ?skill=
// is given, or fans out across all tracked skills when it is absent.
func (h *UsersHandler) handleIndustryComparison(w http.ResponseWriter, r *http.Request, userID string) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill != "" {
		cmp, err := h.deps.CompareToIndustry(r.Context(), userID, skill)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
		return
	}

	level, ok := levelParam(w, r)
	if !ok {
		return
	}
	comparisons, err := h.deps.CompareToIndustryAll(r.Context(), userID, level)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparisons)
}

// handlePeerComparison mirrors handleIndustryComparison against the peer
// cohorts instead of the industry curves.
func (h *UsersHandler) handlePeerComparison(w http.ResponseWriter, r *http.Request, userID string) {
	skill := strings.TrimSpace(r.URL.Query().Get("skill"))
	if skill != "" {
		cmp, err := h.deps.CompareToPeers(r.Context(), userID, skill)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, cmp)
		return
	}

	level, ok := levelParam(w, r)
	if !ok {
		return
	}
	comparisons, err := h.deps.CompareToPeersAll(r.Context(), userID, level)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comparisons)
}

func (h *UsersHandler) handleRanking(w http.ResponseWriter, r *http.Request, userID string) {
	skill, ok := skillParam(w, r)
	if !ok {
		return
	}
	ranking, err := h.deps.GenerateAnonymizedRanking(r.Context(), userID, skill)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ranking)
}

func (h *UsersHandler) handleReadiness(w http.ResponseWriter, r *http.Request, userID string) {
	var opts []readiness.AssessOption
	if role := strings.TrimSpace(r.URL.Query().Get("role")); role != "" {
		opts = append(opts, readiness.WithTargetRole(role))
	}
	if industry := strings.TrimSpace(r.URL.Query().Get("industry")); industry != "" {
		opts = append(opts, readiness.WithTargetIndustry(industry))
	}

	assessment, err := h.deps.GenerateMarketReadinessAssessment(r.Context(), userID, opts...)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assessment)
}
