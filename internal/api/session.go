package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
	"github.com/doguseltetik/ai-social-content-creator/internal/identity"
	"github.com/doguseltetik/ai-social-content-creator/internal/persona"
	"github.com/doguseltetik/ai-social-content-creator/internal/pipeline"
	"github.com/doguseltetik/ai-social-content-creator/internal/session"
)

// SessionHandler serves the persisted wizard session.
type SessionHandler struct {
	svc *session.Service
}

// NewSessionHandler creates a session handler.
func NewSessionHandler(svc *session.Service) *SessionHandler {
	return &SessionHandler{svc: svc}
}

// RegisterRoutes registers the session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/session", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/start", h.Start)
		r.Get("/brief/question", h.Question)
		r.Post("/brief/answer", h.Answer)
		r.Post("/brief/back", h.Back)
		r.Post("/persona", h.SelectPersona)
		r.Post("/persona/confirm", h.ConfirmPersona)
		r.Post("/chat", h.Chat)
		r.Post("/generate", h.Generate)
		r.Post("/bulk", h.Bulk)
		r.Post("/navigate", h.Navigate)
		r.Post("/reset", h.Reset)
		r.Get("/analytics", h.Analytics)
		r.Get("/export", h.Export)
		r.Post("/artifacts/{id}/status", h.SetStatus)
		r.Post("/artifacts/{id}/schedule", h.Schedule)
		r.Get("/artifacts/{id}/export", h.ExportArtifact)
	})
}

// writeSessionError maps session-layer sentinel errors onto HTTP statuses.
func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, session.ErrBriefIncomplete),
		errors.Is(err, session.ErrNotEnoughHistory):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrNoPersona),
		errors.Is(err, session.ErrAnswerRequired),
		errors.Is(err, session.ErrNotOptional),
		errors.Is(err, session.ErrInvalidAnswer):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, persona.ErrNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, pipeline.ErrNotConfigured):
		Error(w, http.StatusInternalServerError, "OpenAI API key is not configured")
	default:
		slog.Error("Session operation failed", "error", err)
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func sessionResponse(s *domain.Session) map[string]interface{} {
	return map[string]interface{}{"session": s}
}

// Get restores the caller's session, creating one on first visit.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Load(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Start begins brief collection.
func (h *SessionHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Start(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Question returns the current brief question and wizard progress.
func (h *SessionHandler) Question(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Load(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	q := session.CurrentQuestion(s)
	JSON(w, http.StatusOK, map[string]interface{}{
		"question": q,
		"index":    s.BriefCursor,
		"total":    len(session.Questions),
		"progress": float64(s.BriefCursor+1) / float64(len(session.Questions)) * 100,
	})
}

// Answer records a brief answer or an explicit skip.
func (h *SessionHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Answer string `json:"answer"`
		Skip   bool   `json:"skip"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.svc.Answer(r.Context(), identity.SessionIDFromContext(r.Context()), req.Answer, req.Skip)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Back steps the brief wizard to the previous question.
func (h *SessionHandler) Back(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Back(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// SelectPersona records a persona choice without transitioning.
func (h *SessionHandler) SelectPersona(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PersonaID string `json:"personaId"`
	}
	if err := decodeBody(w, r, &req); err != nil || req.PersonaID == "" {
		Error(w, http.StatusBadRequest, "persona id is required")
		return
	}
	s, err := h.svc.SelectPersona(r.Context(), identity.SessionIDFromContext(r.Context()), req.PersonaID)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// ConfirmPersona enters the chat step with the selected persona.
func (h *SessionHandler) ConfirmPersona(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.ConfirmPersona(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Chat appends a user message and the persona's reply.
func (h *SessionHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, err := h.svc.SendMessage(r.Context(), identity.SessionIDFromContext(r.Context()), req.Message)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Generate produces one artifact from the conversation.
func (h *SessionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"contentType"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s, artifact, err := h.svc.GenerateContent(r.Context(), identity.SessionIDFromContext(r.Context()), req.ContentType)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"session":  s,
		"artifact": artifact,
	})
}

// Bulk produces artifacts for several request tuples at once.
func (h *SessionHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Requests []pipeline.Request `json:"requests"`
	}
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Requests) == 0 {
		Error(w, http.StatusBadRequest, "at least one content request is required")
		return
	}
	s, artifacts, err := h.svc.BulkGenerate(r.Context(), identity.SessionIDFromContext(r.Context()), req.Requests)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"session":   s,
		"artifacts": artifacts,
	})
}

// Navigate moves between the content step and its peer views.
func (h *SessionHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step domain.Step `json:"step"`
	}
	if err := decodeBody(w, r, &req); err != nil || req.Step == "" {
		Error(w, http.StatusBadRequest, "step is required")
		return
	}
	s, err := h.svc.Navigate(r.Context(), identity.SessionIDFromContext(r.Context()), req.Step)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Reset restores the session to its freshly-initialized default.
func (h *SessionHandler) Reset(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Reset(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Analytics summarizes the session's artifacts.
func (h *SessionHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Load(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, s.Stats())
}

// SetStatus applies a review action to one artifact.
func (h *SessionHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.ArtifactStatus `json:"status"`
	}
	if err := decodeBody(w, r, &req); err != nil || !domain.ValidArtifactStatus(req.Status) {
		Error(w, http.StatusBadRequest, "a valid status is required")
		return
	}
	s, err := h.svc.SetArtifactStatus(r.Context(), identity.SessionIDFromContext(r.Context()), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// Schedule marks an artifact as scheduled for a date.
func (h *SessionHandler) Schedule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ScheduledAt time.Time `json:"scheduledAt"`
	}
	if err := decodeBody(w, r, &req); err != nil || req.ScheduledAt.IsZero() {
		Error(w, http.StatusBadRequest, "a scheduled date is required")
		return
	}
	s, err := h.svc.ScheduleArtifact(r.Context(), identity.SessionIDFromContext(r.Context()), chi.URLParam(r, "id"), req.ScheduledAt)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	JSON(w, http.StatusOK, sessionResponse(s))
}

// ExportArtifact downloads one artifact as plain text.
func (h *SessionHandler) ExportArtifact(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Load(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	a, err := s.Artifact(chi.URLParam(r, "id"))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", a.Title+".txt"))
	_, _ = w.Write([]byte(session.ExportArtifact(*a)))
}

// Export downloads every artifact of the session as one text document.
func (h *SessionHandler) Export(w http.ResponseWriter, r *http.Request) {
	s, err := h.svc.Load(r.Context(), identity.SessionIDFromContext(r.Context()))
	if err != nil {
		writeSessionError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="content-export.txt"`)
	_, _ = w.Write([]byte(session.ExportArtifacts(s.GeneratedArtifacts)))
}
