// Package pipeline transforms a persona, brief and conversation into
// assistant replies and generated artifacts by delegating to external text
// and image generation collaborators. All recoverable collaborator failures
// are absorbed here: conversation always yields a reply, generation parse
// failures yield a deterministic fallback payload, and a failed image step
// only omits the image.
package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

// ErrNotConfigured is returned when no collaborator credential is
// configured. It maps to a server error at the API boundary and is checked
// before any network call.
var ErrNotConfigured = errors.New("generation collaborator is not configured")

// ErrNoImage is returned when the image collaborator produced no image.
var ErrNoImage = errors.New("no image produced")

// Turn is one message handed to the text collaborator.
type Turn struct {
	Role    domain.MessageRole
	Content string
}

// CompletionRequest is a single text-generation call.
type CompletionRequest struct {
	System      string
	Turns       []Turn
	MaxTokens   int64
	Temperature float64
}

// TextGenerator is the external text-generation collaborator.
type TextGenerator interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ImageGenerator is the external image-generation collaborator.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// Request describes one piece of content to generate.
type Request struct {
	ContentType string `json:"contentType"`
	Topic       string `json:"topic,omitempty"`
	Platform    string `json:"platform,omitempty"`
	Description string `json:"description,omitempty"`
}

// Content is the structured payload returned by a generate call.
type Content struct {
	Title       string   `json:"title"`
	Body        string   `json:"content"`
	Hashtags    []string `json:"hashtags"`
	VisualStyle string   `json:"visualStyle"`
	Platform    string   `json:"platform"`
	ImageURL    string   `json:"imageUrl,omitempty"`
}

// fallbackReplies is the fixed pool substituted when the text collaborator
// fails during conversation. Replies are content-agnostic so the
// conversation never visibly breaks.
var fallbackReplies = []string{
	"That's a great idea! I love the direction you're going with this. Let me create something that captures that essence.",
	"Perfect! I can definitely work with that. I'll create content that aligns with your vision and brand voice.",
	"Excellent choice! I'm already thinking of some creative ways to bring this to life in my signature style.",
	"I'm excited about this! Let me craft something that will really resonate with your audience.",
	"That sounds fantastic! I'll create content that's both engaging and true to your brand's personality.",
}

// Options configures a Pipeline.
type Options struct {
	// AppBaseURL is the base URL used when the generate step internally
	// invokes the image endpoint.
	AppBaseURL string
	// ImagesEnabled controls whether generation attempts the image
	// sub-step at all.
	ImagesEnabled bool
	// CallTimeout bounds each collaborator call.
	CallTimeout time.Duration
}

// Pipeline implements the content pipeline over the configured
// collaborators.
type Pipeline struct {
	text          TextGenerator
	images        ImageGenerator
	appBaseURL    string
	imagesEnabled bool
	callTimeout   time.Duration
	httpClient    *http.Client
}

// New creates a pipeline. Either collaborator may be nil, in which case the
// corresponding operations report ErrNotConfigured.
func New(text TextGenerator, images ImageGenerator, opts Options) *Pipeline {
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Pipeline{
		text:          text,
		images:        images,
		appBaseURL:    strings.TrimRight(opts.AppBaseURL, "/"),
		imagesEnabled: opts.ImagesEnabled,
		callTimeout:   timeout,
		httpClient:    &http.Client{Timeout: timeout},
	}
}

// Ready reports whether a text collaborator is configured.
func (p *Pipeline) Ready() bool {
	return p.text != nil
}

func (p *Pipeline) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, p.callTimeout)
}

// Converse produces one in-character assistant reply. Collaborator failure
// is absorbed with a generic fallback reply; only a missing credential is
// surfaced as an error.
func (p *Pipeline) Converse(ctx context.Context, persona domain.Persona, brief domain.Brief, history []domain.ChatMessage, message string) (string, error) {
	if p.text == nil {
		return "", ErrNotConfigured
	}

	turns := make([]Turn, 0, len(history)+1)
	for _, m := range history {
		turns = append(turns, Turn{Role: m.Role, Content: m.Content})
	}
	turns = append(turns, Turn{Role: domain.RoleUser, Content: message})

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	reply, err := p.text.Complete(callCtx, CompletionRequest{
		System:      conversationSystemPrompt(persona, brief),
		Turns:       turns,
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil || strings.TrimSpace(reply) == "" {
		slog.Warn("Text collaborator failed, substituting fallback reply",
			"persona_id", persona.ID, "error", err)
		return fallbackReplies[rand.IntN(len(fallbackReplies))], nil
	}
	return reply, nil
}

// Generate produces one structured content payload and, when a visual style
// came back, chains into the image endpoint. A non-parseable collaborator
// reply degrades to a deterministic fallback payload; only transport-level
// failure is returned as an error so bulk callers can isolate it.
func (p *Pipeline) Generate(ctx context.Context, persona domain.Persona, brief domain.Brief, history []domain.ChatMessage, req Request) (Content, error) {
	if p.text == nil {
		return Content{}, ErrNotConfigured
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	raw, err := p.text.Complete(callCtx, CompletionRequest{
		System:      "You are a creative content generator. Always respond with valid JSON.",
		Turns:       []Turn{{Role: domain.RoleUser, Content: generationPrompt(persona, brief, history, req)}},
		MaxTokens:   800,
		Temperature: 0.8,
	})
	if err != nil {
		return Content{}, fmt.Errorf("generate content: %w", err)
	}

	content := parseContent(raw, brief, req)

	if content.VisualStyle != "" && p.imagesEnabled {
		if url, imgErr := p.requestImage(ctx, persona.ID, brief, content.Body, content.VisualStyle); imgErr != nil {
			slog.Warn("Image sub-step failed, continuing without image",
				"persona_id", persona.ID, "error", imgErr)
		} else {
			content.ImageURL = url
		}
	}

	return content, nil
}

// parseContent decodes the collaborator reply, falling back to a
// deterministic default payload when the reply is not valid JSON.
func parseContent(raw string, brief domain.Brief, req Request) Content {
	contentType := req.ContentType
	if contentType == "" {
		contentType = "social media"
	}

	var content Content
	if err := json.Unmarshal([]byte(raw), &content); err != nil {
		return Content{
			Title:       "Content for " + brief.BusinessName,
			Body:        raw,
			Hashtags:    []string{"#content", "#socialmedia"},
			VisualStyle: "Designer-specific style",
			Platform:    contentType,
		}
	}
	if content.Platform == "" {
		content.Platform = contentType
	}
	return content
}

// Illustrate produces an image for already-generated text content. Failure
// here is surfaced: a pure image request has no artifact to fall back to.
func (p *Pipeline) Illustrate(ctx context.Context, persona domain.Persona, brief domain.Brief, content, visualStyle string) (string, error) {
	if p.images == nil {
		return "", ErrNotConfigured
	}

	callCtx, cancel := p.callContext(ctx)
	defer cancel()

	url, err := p.images.GenerateImage(callCtx, imagePrompt(persona, brief, content, visualStyle))
	if err != nil {
		return "", fmt.Errorf("generate image: %w", err)
	}
	if url == "" {
		return "", ErrNoImage
	}
	return url, nil
}

// requestImage invokes the image endpoint over HTTP against the configured
// app base URL, mirroring how the generate operation chains into the
// illustrate operation.
func (p *Pipeline) requestImage(ctx context.Context, personaID string, brief domain.Brief, content, visualStyle string) (string, error) {
	if p.appBaseURL == "" {
		return "", fmt.Errorf("app base URL is not configured")
	}

	body, err := json.Marshal(map[string]any{
		"personaId":   personaID,
		"content":     content,
		"brief":       brief,
		"visualStyle": visualStyle,
	})
	if err != nil {
		return "", fmt.Errorf("marshal image request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.appBaseURL+"/api/generate-image", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create image request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("execute image request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image endpoint returned status %d", resp.StatusCode)
	}

	var payload struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode image response: %w", err)
	}
	return payload.ImageURL, nil
}
