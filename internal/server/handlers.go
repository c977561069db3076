package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dhalvorsen/focal/internal/attention"
	"github.com/dhalvorsen/focal/internal/data"
)

// analyzeRequest is the body for POST /api/v1/analyze.
type analyzeRequest struct {
	Items       []attention.Item      `json:"items"`
	Preferences attention.Preferences `json:"preferences"`
	Date        string                `json:"date,omitempty"` // "2006-01-02"; defaults to today
	UserID      string                `json:"user_id,omitempty"`
}

// analyzeResponse wraps the engine's analysis with request bookkeeping.
type analyzeResponse struct {
	RequestID string                   `json:"requestId"`
	Analysis  attention.BudgetAnalysis `json:"analysis"`
}

// validateRequest is the body for POST /api/v1/validate.
type validateRequest struct {
	Proposed    attention.Item        `json:"proposed_event"`
	Existing    []attention.Item      `json:"existing_events"`
	Preferences attention.Preferences `json:"preferences"`
	Date        string                `json:"date,omitempty"`
	UserID      string                `json:"user_id,omitempty"`
}

type validateResponse struct {
	RequestID   string              `json:"requestId"`
	Warnings    []attention.Warning `json:"warnings"`
	HasBlocking bool                `json:"hasBlocking"`
}

// optimizeRequest is the body for POST /api/v1/optimize.
type optimizeRequest struct {
	Items       []attention.Item      `json:"items"`
	Preferences attention.Preferences `json:"preferences"`
}

type optimizeResponse struct {
	RequestID string           `json:"requestId"`
	Items     []attention.Item `json:"items"`
}

// roleCheckRequest is the body for POST /api/v1/rolecheck.
type roleCheckRequest struct {
	Items       []attention.Item      `json:"items"`
	Preferences attention.Preferences `json:"preferences"`
}

type roleCheckResponse struct {
	RequestID  string                   `json:"requestId"`
	Validation attention.RoleValidation `json:"validation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRequest("analyze", time.Since(start), true)
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prefs := s.applyDefaults(req.Preferences)
	day := s.resolveDay(req.Date, req.Items)

	analysis := attention.AnalyzeBudget(req.Items, prefs, day)

	s.persistWarnings(r, requestID, req.UserID, "analyze", analysis.Warnings)
	s.recordWarnings(analysis.Warnings)
	s.metrics.RecordRequest("analyze", time.Since(start), false)

	s.log.Debug().
		Str("request_id", requestID).
		Int("items", len(req.Items)).
		Int("warnings", len(analysis.Warnings)).
		Int("score", analysis.OverallScore).
		Msg("analyze request")

	s.writeJSON(w, http.StatusOK, analyzeResponse{RequestID: requestID, Analysis: analysis})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRequest("validate", time.Since(start), true)
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Proposed.ID == "" {
		s.metrics.RecordRequest("validate", time.Since(start), true)
		s.writeError(w, http.StatusBadRequest, "proposed_event.id is required")
		return
	}

	prefs := s.applyDefaults(req.Preferences)
	day := s.resolveDay(req.Date, append([]attention.Item{req.Proposed}, req.Existing...))

	warnings := attention.ValidateNewEvent(req.Proposed, req.Existing, prefs, day)
	if warnings == nil {
		warnings = []attention.Warning{}
	}

	hasBlocking := false
	for _, wng := range warnings {
		if wng.Level == attention.LevelBlocking {
			hasBlocking = true
			break
		}
	}

	userID := req.UserID
	if userID == "" {
		userID = req.Proposed.UserID
	}
	s.persistWarnings(r, requestID, userID, "validate", warnings)
	s.recordWarnings(warnings)
	s.metrics.RecordRequest("validate", time.Since(start), false)

	s.log.Debug().
		Str("request_id", requestID).
		Str("proposed", req.Proposed.ID).
		Int("warnings", len(warnings)).
		Bool("blocking", hasBlocking).
		Msg("validate request")

	s.writeJSON(w, http.StatusOK, validateResponse{
		RequestID:   requestID,
		Warnings:    warnings,
		HasBlocking: hasBlocking,
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req optimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRequest("optimize", time.Since(start), true)
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prefs := s.applyDefaults(req.Preferences)
	items := attention.OptimizeForRole(req.Items, prefs)
	if items == nil {
		items = []attention.Item{}
	}

	s.metrics.RecordRequest("optimize", time.Since(start), false)

	s.log.Debug().
		Str("request_id", requestID).
		Int("items", len(items)).
		Msg("optimize request")

	s.writeJSON(w, http.StatusOK, optimizeResponse{RequestID: requestID, Items: items})
}

func (s *Server) handleRoleCheck(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := uuid.NewString()

	var req roleCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.metrics.RecordRequest("rolecheck", time.Since(start), true)
		s.writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	prefs := s.applyDefaults(req.Preferences)
	validation := attention.ValidateRoleRequirements(req.Items, prefs)

	s.metrics.RecordRequest("rolecheck", time.Since(start), false)

	s.writeJSON(w, http.StatusOK, roleCheckResponse{RequestID: requestID, Validation: validation})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if s.store == nil {
		s.metrics.RecordRequest("audit", time.Since(start), true)
		s.writeError(w, http.StatusServiceUnavailable, "audit store not configured")
		return
	}

	q := r.URL.Query()
	filter := data.AuditFilter{
		UserID:      q.Get("user_id"),
		Operation:   q.Get("operation"),
		WarningType: q.Get("type"),
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			s.metrics.RecordRequest("audit", time.Since(start), true)
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		filter.Limit = n
	}
	if raw := q.Get("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			s.metrics.RecordRequest("audit", time.Since(start), true)
			s.writeError(w, http.StatusBadRequest, "invalid since, expected RFC3339")
			return
		}
		filter.Since = since
	}

	records, err := s.store.ListWarnings(r.Context(), filter)
	if err != nil {
		s.metrics.RecordRequest("audit", time.Since(start), true)
		s.log.Error().Err(err).Msg("audit query failed")
		s.writeError(w, http.StatusInternalServerError, "audit query failed")
		return
	}
	if records == nil {
		records = []data.AuditRecord{}
	}

	s.metrics.RecordRequest("audit", time.Since(start), false)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "disabled"

	code := http.StatusOK
	if s.store != nil {
		if err := s.store.Health(); err != nil {
			status = "degraded"
			dbStatus = err.Error()
			code = http.StatusServiceUnavailable
		} else {
			dbStatus = "ok"
		}
	}

	s.writeJSON(w, code, map[string]string{
		"status":    status,
		"database":  dbStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	s.writeJSON(w, http.StatusOK, s.metrics.GetSnapshot())
}

// applyDefaults fills unset preference fields from the engine config.
func (s *Server) applyDefaults(prefs attention.Preferences) attention.Preferences {
	if prefs.Role == attention.RoleUnknown && s.engineCfg.DefaultRole != "" {
		prefs.Role = attention.ParseRole(s.engineCfg.DefaultRole)
	}
	if prefs.PeakStart == "" && prefs.PeakEnd == "" {
		prefs.PeakStart = s.engineCfg.DefaultPeakStart
		prefs.PeakEnd = s.engineCfg.DefaultPeakEnd
	}
	return prefs
}

// resolveDay picks the analysis day: an explicit date wins, then the first
// item's day, then today in UTC.
func (s *Server) resolveDay(date string, items []attention.Item) time.Time {
	if date != "" {
		if day, err := time.Parse("2006-01-02", date); err == nil {
			return day
		}
		s.log.Warn().Str("date", date).Msg("unparsable date, falling back")
	}
	for _, it := range items {
		if !it.Start.IsZero() {
			y, m, d := it.Start.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, it.Start.Location())
		}
	}
	now := time.Now().UTC()
	y, m, d := now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// persistWarnings writes warnings to the audit store when one is configured.
// Persistence failures are logged, not surfaced; the analysis result is
// still valid.
func (s *Server) persistWarnings(r *http.Request, requestID, userID, operation string, warnings []attention.Warning) {
	if s.store == nil || len(warnings) == 0 {
		return
	}
	if err := s.store.SaveWarnings(r.Context(), requestID, userID, operation, warnings); err != nil {
		s.log.Error().Err(err).Str("request_id", requestID).Msg("failed to persist warnings")
	}
}

func (s *Server) recordWarnings(warnings []attention.Warning) {
	if len(warnings) == 0 {
		return
	}
	levels := make([]string, len(warnings))
	for i, w := range warnings {
		levels[i] = w.Level.String()
	}
	s.metrics.RecordWarnings(levels)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, errorResponse{Error: msg})
}
