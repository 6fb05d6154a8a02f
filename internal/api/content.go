package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
	"github.com/doguseltetik/ai-social-content-creator/internal/persona"
	"github.com/doguseltetik/ai-social-content-creator/internal/pipeline"
)

// Pipeline is the part of the content pipeline the boundary handlers drive.
type Pipeline interface {
	Ready() bool
	Converse(ctx context.Context, p domain.Persona, brief domain.Brief, history []domain.ChatMessage, message string) (string, error)
	Generate(ctx context.Context, p domain.Persona, brief domain.Brief, history []domain.ChatMessage, req pipeline.Request) (pipeline.Content, error)
	Illustrate(ctx context.Context, p domain.Persona, brief domain.Brief, content, visualStyle string) (string, error)
}

// ContentHandler serves the three stateless boundary operations: chat,
// content generation and image generation.
type ContentHandler struct {
	catalog  *persona.Catalog
	pipe     Pipeline
	validate *validator.Validate
}

// NewContentHandler creates a content handler.
func NewContentHandler(catalog *persona.Catalog, pipe Pipeline) *ContentHandler {
	return &ContentHandler{
		catalog:  catalog,
		pipe:     pipe,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the boundary operation routes.
func (h *ContentHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/personas", h.ListPersonas)
		r.Post("/chat", h.Chat)
		r.Post("/generate-content", h.GenerateContent)
		r.Post("/generate-image", h.GenerateImage)
	})
}

// ListPersonas returns the persona catalog in its fixed order.
func (h *ContentHandler) ListPersonas(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{"personas": h.catalog.List()})
}

type chatRequest struct {
	Message     string               `json:"message" validate:"required"`
	PersonaID   string               `json:"personaId" validate:"required"`
	Brief       domain.Brief         `json:"brief"`
	ChatHistory []domain.ChatMessage `json:"chatHistory"`
}

// Chat produces one in-character assistant reply.
func (h *ContentHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, "message and persona id are required")
		return
	}
	if !h.pipe.Ready() {
		Error(w, http.StatusInternalServerError, "OpenAI API key is not configured")
		return
	}

	p, err := h.catalog.Get(req.PersonaID)
	if err != nil {
		Error(w, http.StatusNotFound, "persona not found")
		return
	}

	reply, err := h.pipe.Converse(r.Context(), p, req.Brief, req.ChatHistory, req.Message)
	if err != nil {
		slog.Error("Chat request failed", "persona_id", req.PersonaID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to generate response")
		return
	}

	JSON(w, http.StatusOK, map[string]string{
		"content":   reply,
		"personaId": req.PersonaID,
	})
}

type generateRequest struct {
	PersonaID   string               `json:"personaId" validate:"required"`
	Brief       *domain.Brief        `json:"brief" validate:"required"`
	ChatHistory []domain.ChatMessage `json:"chatHistory"`
	ContentType string               `json:"contentType"`
	Topic       string               `json:"topic"`
	Platform    string               `json:"platform"`
	Description string               `json:"description"`
}

// GenerateContent produces one structured content payload, chaining into
// image generation when a visual style came back.
func (h *ContentHandler) GenerateContent(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, "persona id and brief are required")
		return
	}
	if !h.pipe.Ready() {
		Error(w, http.StatusInternalServerError, "OpenAI API key is not configured")
		return
	}

	p, err := h.catalog.Get(req.PersonaID)
	if err != nil {
		Error(w, http.StatusNotFound, "persona not found")
		return
	}

	content, err := h.pipe.Generate(r.Context(), p, *req.Brief, req.ChatHistory, pipeline.Request{
		ContentType: req.ContentType,
		Topic:       req.Topic,
		Platform:    req.Platform,
		Description: req.Description,
	})
	if err != nil {
		slog.Error("Content generation failed", "persona_id", req.PersonaID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to generate content")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"content":   content,
		"personaId": req.PersonaID,
	})
}

type illustrateRequest struct {
	PersonaID   string       `json:"personaId" validate:"required"`
	Content     string       `json:"content" validate:"required"`
	Brief       domain.Brief `json:"brief"`
	VisualStyle string       `json:"visualStyle"`
}

// GenerateImage produces an image for already-generated content. This is
// the one operation with no safe fallback, so failures are surfaced.
func (h *ContentHandler) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req illustrateRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		Error(w, http.StatusBadRequest, "persona id and content are required")
		return
	}

	p, err := h.catalog.Get(req.PersonaID)
	if err != nil {
		Error(w, http.StatusNotFound, "persona not found")
		return
	}

	imageURL, err := h.pipe.Illustrate(r.Context(), p, req.Brief, req.Content, req.VisualStyle)
	if err != nil {
		if errors.Is(err, pipeline.ErrNotConfigured) {
			Error(w, http.StatusInternalServerError, "OpenAI API key is not configured")
			return
		}
		slog.Error("Image generation failed", "persona_id", req.PersonaID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to generate image")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"imageUrl":  imageURL,
		"personaId": req.PersonaID,
	})
}
