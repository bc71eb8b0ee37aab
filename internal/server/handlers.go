package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/auto-applier/internal/db"
	"github.com/jonathan/auto-applier/internal/pipeline"
	"github.com/jonathan/auto-applier/internal/schemas"
	"github.com/jonathan/auto-applier/internal/server/middleware"
	"github.com/jonathan/auto-applier/internal/types"
)

// RunStatus tracks the lifecycle of one background apply run.
type RunStatus struct {
	RunID     string              `json:"run_id"`
	Status    string              `json:"status"` // running, completed, failed
	Error     string              `json:"error,omitempty"`
	Report    *pipeline.RunReport `json:"report,omitempty"`
	StartedAt time.Time           `json:"started_at"`
}

// StartApplyResponse is the response for /apply/start
type StartApplyResponse struct {
	RunID  string `json:"run_id"`
	Status string `json:"status"`
}

// handleStartApply kicks off an apply run in the background and returns
// immediately with a run ID the client can poll.
func (s *Server) handleStartApply(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts, err := s.buildRunOptions(r, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	runID := uuid.New().String()
	status := &RunStatus{RunID: runID, Status: "running", StartedAt: time.Now()}
	s.runsMu.Lock()
	s.runs[runID] = status
	s.runsMu.Unlock()

	log.Printf("[SERVER] Starting apply run %s for user %s", runID, userID)

	go func() {
		report, err := s.runPipeline(context.Background(), *opts)
		s.runsMu.Lock()
		defer s.runsMu.Unlock()
		status.Report = report
		if err != nil {
			log.Printf("[SERVER] Apply run %s failed: %v", runID, err)
			status.Status = "failed"
			status.Error = err.Error()
			return
		}
		status.Status = "completed"
	}()

	s.jsonResponse(w, http.StatusAccepted, StartApplyResponse{
		RunID:  runID,
		Status: "started",
	})
}

// handleStartApplyStream runs an apply run synchronously and streams
// progress via SSE.
func (s *Server) handleStartApplyStream(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	opts, err := s.buildRunOptions(r, userID)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	runID := uuid.New().String()
	opts.OnProgress = func(event pipeline.ProgressEvent) {
		if err := sse.WriteEvent("step", event); err != nil {
			log.Printf("Error writing SSE event: %v", err)
		}
	}

	log.Printf("[SERVER] Starting streaming apply run %s for user %s", runID, userID)

	if _, err := s.runPipeline(r.Context(), *opts); err != nil {
		log.Printf("[SERVER] Apply run %s failed: %v", runID, err)
		sse.WriteError(err.Error())
		return
	}

	sse.WriteComplete(runID, "completed")
}

// buildRunOptions decodes and validates a StartApplyRequest and resolves
// it against the profile registry.
func (s *Server) buildRunOptions(r *http.Request, userID uuid.UUID) (*pipeline.RunOptions, error) {
	var req types.StartApplyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, &ErrValidation{Field: "body", Message: "invalid request body"}
	}
	if err := req.Validate(); err != nil {
		return nil, &ErrValidation{Field: "request", Message: err.Error()}
	}

	prof := s.profiles.Get(req.ProfileID)
	if prof == nil {
		return nil, &ErrProfileNotFound{ProfileID: req.ProfileID}
	}

	platform := types.PlatformLinkedIn
	if req.Platform != "" {
		parsed, ok := types.ParsePlatform(req.Platform)
		if !ok {
			return nil, &ErrValidation{Field: "platform", Message: "unknown platform: " + req.Platform}
		}
		platform = parsed
	}

	settings := types.ApplySettings{MaxApplicationsPerRun: 5, DelaySeconds: 30, OnlyEasyApply: true, SkipAppliedJobs: true}
	if req.Settings != nil {
		settings = *req.Settings
		// JSON cannot distinguish an omitted int from zero, and a zero
		// quota would admit no attempts. Unset ints get the defaults.
		if settings.MaxApplicationsPerRun == 0 {
			settings.MaxApplicationsPerRun = 5
		}
		if settings.DelaySeconds == 0 {
			settings.DelaySeconds = 30
		}
	}

	opts := &pipeline.RunOptions{
		Profile:     prof,
		Criteria:    req.SearchCriteria,
		Platform:    platform,
		Settings:    settings,
		UserID:      userID.String(),
		DatabaseURL: s.databaseURL,
		Stats:       s.stats,
		SessionDir:  s.sessionDir,
		APIKey:      s.apiKey,
		Headless:    s.headless,
	}
	if req.Credentials != nil {
		opts.Identity = req.Credentials.Email
		opts.Password = req.Credentials.Password
	}
	return opts, nil
}

// handleGetRun returns the status of a background apply run.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runID := r.PathValue("id")
	if runID == "" {
		s.errorResponse(w, http.StatusBadRequest, "Run ID is required")
		return
	}

	s.runsMu.RLock()
	status, ok := s.runs[runID]
	s.runsMu.RUnlock()
	if !ok {
		s.errorResponse(w, http.StatusNotFound, "Run not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, status)
}

// handleSearchJobs runs a search-only scrape pass, no applications.
func (s *Server) handleSearchJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := types.SearchCriteria{
		Keywords:        q.Get("keywords"),
		Location:        q.Get("location"),
		DateRange:       q.Get("date_range"),
		ExperienceLevel: q.Get("experience_level"),
		JobType:         q.Get("job_type"),
	}
	if criteria.Keywords == "" {
		s.errorResponse(w, http.StatusBadRequest, "keywords is required")
		return
	}

	platform := types.PlatformLinkedIn
	if p := q.Get("platform"); p != "" {
		parsed, ok := types.ParsePlatform(p)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, "unknown platform: "+p)
			return
		}
		platform = parsed
	}

	jobs, err := s.searchJobs(r.Context(), platform, criteria, s.headless, false)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Search failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"platform": platform,
		"count":    len(jobs),
		"jobs":     jobs,
	})
}

// handleCreateProfile validates and stores a candidate profile.
func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	prof, err := decodeProfile(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.profiles.Create(*prof)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, created)
}

// handleListProfiles returns every stored candidate profile.
func (s *Server) handleListProfiles(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.profiles.List())
}

// handleGetProfile returns a candidate profile by ID.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	prof := s.profiles.Get(id)
	if prof == nil {
		s.errorResponse(w, http.StatusNotFound, (&ErrProfileNotFound{ProfileID: id}).Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, prof)
}

// handleUpdateProfile replaces a stored candidate profile.
func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	prof, err := decodeProfile(r)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	updated, err := s.profiles.Update(id, *prof)
	if err != nil {
		s.errorResponse(w, http.StatusNotFound, err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteProfile removes a stored candidate profile.
func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	s.profiles.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// decodeProfile reads the request body, validates it against the profile
// schema, and unmarshals it.
func decodeProfile(r *http.Request) (*types.UserProfile, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, errors.New("failed to read request body")
	}

	if err := schemas.ValidateProfileJSON(string(body)); err != nil {
		return nil, err
	}

	var prof types.UserProfile
	if err := json.Unmarshal(body, &prof); err != nil {
		return nil, errors.New("invalid profile JSON: " + err.Error())
	}
	return &prof, nil
}

// handleListApplications returns the authenticated user's application
// history, newest first.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	if s.db == nil {
		s.errorResponse(w, http.StatusServiceUnavailable, "Application history requires a database")
		return
	}

	q := r.URL.Query()
	filters := db.ApplicationFilters{
		Company: q.Get("company"),
	}
	if p := q.Get("platform"); p != "" {
		parsed, ok := types.ParsePlatform(p)
		if !ok {
			s.errorResponse(w, http.StatusBadRequest, "unknown platform: "+p)
			return
		}
		filters.Platform = parsed
	}
	if res := q.Get("result"); res != "" {
		filters.Result = types.ApplyStatus(res)
	}
	if limit := q.Get("limit"); limit != "" {
		if n, err := strconv.Atoi(limit); err == nil {
			filters.Limit = n
		}
	}
	if offset := q.Get("offset"); offset != "" {
		if n, err := strconv.Atoi(offset); err == nil {
			filters.Offset = n
		}
	}

	records, err := s.db.ListApplications(r.Context(), userID.String(), filters)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":        len(records),
		"applications": records,
	})
}

// handleGetStats returns aggregate application stats for the
// authenticated user.
func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.jsonResponse(w, http.StatusOK, s.stats.Get(userID.String()))
}

// handleClearStats resets the authenticated user's in-memory stats.
func (s *Server) handleClearStats(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	s.stats.Clear(userID.String())
	w.WriteHeader(http.StatusNoContent)
}
