package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	campaignwizard "brandpilot/contexts/campaign-planning/campaign-wizard"
	wizarderrors "brandpilot/contexts/campaign-planning/campaign-wizard/domain/errors"
	wizardhttp "brandpilot/contexts/campaign-planning/campaign-wizard/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "brandpilot/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	wizard campaignwizard.Module
}

func New(wizard campaignwizard.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		wizard: wizard,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("POST /api/wizard/v1/sessions", s.handleStartSession)
	s.mux.HandleFunc("GET /api/wizard/v1/sessions/{session_id}", s.handleGetSession)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/steps", s.handleCompleteStep)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/navigate", s.handleNavigate)
	s.mux.HandleFunc("PUT /api/wizard/v1/sessions/{session_id}/preview", s.handleUpdatePreview)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/strategy/generate", s.handleGenerateStrategy)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/calendar/generate", s.handleGenerateCalendar)
	s.mux.HandleFunc("PATCH /api/wizard/v1/sessions/{session_id}/calendar/items/{item_id}", s.handleEditCalendarItem)
	s.mux.HandleFunc("GET /api/wizard/v1/sessions/{session_id}/funnel", s.handleFunnelDistribution)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/content", s.handleCreateContent)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/schedule", s.handleSchedulePosts)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/schedule/{item_id}/retry", s.handleRetrySchedule)
	s.mux.HandleFunc("DELETE /api/wizard/v1/sessions/{session_id}/schedule/{item_id}", s.handleRemoveSchedule)
	s.mux.HandleFunc("POST /api/wizard/v1/sessions/{session_id}/measurements", s.handleCaptureMeasurements)
	s.mux.HandleFunc("GET /api/wizard/v1/drafts", s.handleListDrafts)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.StartSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	if strings.TrimSpace(req.CompanyID) == "" {
		writeWizardError(w, http.StatusBadRequest, "missing_company_id", "company_id is required")
		return
	}

	resp, err := s.wizard.Handler.StartSessionHandler(r.Context(), req)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.GetSessionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCompleteStep(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.CompleteStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.wizard.Handler.CompleteStepHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.NavigateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.wizard.Handler.NavigateHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdatePreview(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	if err := s.wizard.Handler.UpdatePreviewHandler(r.Context(), r.PathValue("session_id"), req); err != nil {
		writeWizardDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerateStrategy(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.GenerateStrategyHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateCalendar(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.GenerateCalendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.wizard.Handler.GenerateCalendarHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEditCalendarItem(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.EditCalendarItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.wizard.Handler.EditCalendarItemHandler(
		r.Context(),
		r.PathValue("session_id"),
		r.PathValue("item_id"),
		req,
	)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFunnelDistribution(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.FunnelDistributionHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var req wizardhttp.CreateContentRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeWizardError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
			return
		}
	}

	resp, err := s.wizard.Handler.CreateContentHandler(r.Context(), r.PathValue("session_id"), req)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSchedulePosts(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.SchedulePostsHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRetrySchedule(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.RetryScheduleHandler(
		r.Context(),
		r.PathValue("session_id"),
		r.PathValue("item_id"),
	)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveSchedule(w http.ResponseWriter, r *http.Request) {
	err := s.wizard.Handler.RemoveScheduleHandler(
		r.Context(),
		r.PathValue("session_id"),
		r.PathValue("item_id"),
	)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCaptureMeasurements(w http.ResponseWriter, r *http.Request) {
	resp, err := s.wizard.Handler.CaptureMeasurementsHandler(r.Context(), r.PathValue("session_id"))
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDrafts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	companyID := query.Get("company_id")
	if strings.TrimSpace(companyID) == "" {
		writeWizardError(w, http.StatusBadRequest, "missing_company_id", "company_id query parameter is required")
		return
	}

	var completed *bool
	if raw := query.Get("completed"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			writeWizardError(w, http.StatusBadRequest, "invalid_completed", "completed must be a boolean")
			return
		}
		completed = &parsed
	}

	resp, err := s.wizard.Handler.ListDraftsHandler(r.Context(), companyID, completed)
	if err != nil {
		writeWizardDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeWizardDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wizarderrors.ErrSessionNotFound):
		writeWizardError(w, http.StatusNotFound, "session_not_found", err.Error())
	case errors.Is(err, wizarderrors.ErrDraftNotFound):
		writeWizardError(w, http.StatusNotFound, "draft_not_found", err.Error())
	case errors.Is(err, wizarderrors.ErrCalendarItemNotFound):
		writeWizardError(w, http.StatusNotFound, "calendar_item_not_found", err.Error())
	case errors.Is(err, wizarderrors.ErrScheduleItemNotFound):
		writeWizardError(w, http.StatusNotFound, "schedule_item_not_found", err.Error())
	case errors.Is(err, wizarderrors.ErrSessionCompleted):
		writeWizardError(w, http.StatusConflict, "session_completed", err.Error())
	case errors.Is(err, wizarderrors.ErrStepNotReachable):
		writeWizardError(w, http.StatusConflict, "step_not_reachable", err.Error())
	case errors.Is(err, wizarderrors.ErrRetryNotFailed):
		writeWizardError(w, http.StatusConflict, "retry_not_failed", err.Error())
	case errors.Is(err, wizarderrors.ErrStepKindMismatch),
		errors.Is(err, wizarderrors.ErrInvalidStepPayload):
		writeWizardError(w, http.StatusBadRequest, "invalid_step_payload", err.Error())
	case errors.Is(err, wizarderrors.ErrMissingObjective),
		errors.Is(err, wizarderrors.ErrMissingCompanyProfile),
		errors.Is(err, wizarderrors.ErrNoAudienceSelected),
		errors.Is(err, wizarderrors.ErrNoPlatformSelected),
		errors.Is(err, wizarderrors.ErrUnsupportedPlatform),
		errors.Is(err, wizarderrors.ErrNoContentCreated),
		errors.Is(err, wizarderrors.ErrUnsupportedContentType):
		writeWizardError(w, http.StatusUnprocessableEntity, "precondition_failed", err.Error())
	case errors.Is(err, wizarderrors.ErrRateLimited):
		writeWizardError(w, http.StatusTooManyRequests, "rate_limited", err.Error())
	case errors.Is(err, wizarderrors.ErrGenerationFailed),
		errors.Is(err, wizarderrors.ErrSchedulingFailed):
		writeWizardError(w, http.StatusBadGateway, "upstream_failed", err.Error())
	default:
		writeWizardError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeWizardError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, wizardhttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
