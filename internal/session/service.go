package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
	"github.com/doguseltetik/ai-social-content-creator/internal/persona"
	"github.com/doguseltetik/ai-social-content-creator/internal/pipeline"
	"github.com/doguseltetik/ai-social-content-creator/internal/store"
	"github.com/google/uuid"
)

// fallbackArtifactText is the canned body used when the collaborator fails
// outright during single generation; producing an artifact is mandatory.
const fallbackArtifactText = "This is a sample generated content that would be created based on the conversation and designer style."

var defaultArtifactTags = []string{"social media", "content", "ai-generated"}

// ContentPipeline is the part of the pipeline the session service drives.
type ContentPipeline interface {
	Converse(ctx context.Context, persona domain.Persona, brief domain.Brief, history []domain.ChatMessage, message string) (string, error)
	Generate(ctx context.Context, persona domain.Persona, brief domain.Brief, history []domain.ChatMessage, req pipeline.Request) (pipeline.Content, error)
}

// Service orchestrates the session state machine, the content pipeline and
// persistence. Every successful mutation persists the whole aggregate; a
// failed operation leaves the stored session untouched.
type Service struct {
	repo    store.Repository
	catalog *persona.Catalog
	pipe    ContentPipeline
}

// NewService creates a session service.
func NewService(repo store.Repository, catalog *persona.Catalog, pipe ContentPipeline) *Service {
	return &Service{repo: repo, catalog: catalog, pipe: pipe}
}

// Load restores the session for the given id, creating and persisting a
// fresh welcome-state session on first visit.
func (s *Service) Load(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.repo.GetSession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sess != nil {
		return sess, nil
	}

	sess = domain.NewSession(sessionID)
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	slog.Info("Session created", "session_id", sessionID)
	return sess, nil
}

func (s *Service) persist(ctx context.Context, sess *domain.Session) error {
	if err := s.repo.SaveSession(ctx, sess); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

// Start moves a fresh session from welcome into brief collection.
func (s *Service) Start(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := Navigate(sess, domain.StepBrief); err != nil {
		return nil, err
	}
	return sess, s.persist(ctx, sess)
}

// Answer records a brief answer (or an explicit skip) and advances the
// wizard.
func (s *Service) Answer(ctx context.Context, sessionID, answer string, skip bool) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := AnswerBrief(sess, strings.TrimSpace(answer), skip); err != nil {
		return nil, err
	}
	return sess, s.persist(ctx, sess)
}

// Back steps the brief wizard to the previous question.
func (s *Service) Back(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	BriefBack(sess)
	return sess, s.persist(ctx, sess)
}

// SelectPersona records a persona choice. Selection alone does not
// transition; confirmation does.
func (s *Service) SelectPersona(ctx context.Context, sessionID, personaID string) (*domain.Session, error) {
	if _, err := s.catalog.Get(personaID); err != nil {
		return nil, err
	}
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.SelectedPersonaID = personaID
	sess.UpdatedAt = time.Now().UTC()
	return sess, s.persist(ctx, sess)
}

// ConfirmPersona enters the chat step with the selected persona, seeding
// the welcome message on an empty transcript.
func (s *Service) ConfirmPersona(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SelectedPersonaID == "" {
		return nil, ErrNoPersona
	}
	p, err := s.catalog.Get(sess.SelectedPersonaID)
	if err != nil {
		// Selected persona vanished from the catalog: back to selection.
		sess.SelectedPersonaID = ""
		return nil, ErrNoPersona
	}
	if err := EnterChat(sess, p); err != nil {
		return nil, err
	}
	return sess, s.persist(ctx, sess)
}

// SendMessage appends the user's message and the persona's reply to the
// transcript. The reply may come from the fallback pool; the conversation
// never visibly breaks.
func (s *Service) SendMessage(ctx context.Context, sessionID, text string) (*domain.Session, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrAnswerRequired
	}
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.SelectedPersonaID == "" {
		return nil, ErrNoPersona
	}
	p, err := s.catalog.Get(sess.SelectedPersonaID)
	if err != nil {
		return nil, err
	}

	reply, err := s.pipe.Converse(ctx, p, sess.Brief, sess.ChatHistory, text)
	if err != nil {
		return nil, err
	}

	sess.AddMessage(domain.NewUserMessage(text))
	sess.AddMessage(domain.NewAssistantMessage(reply, p.ID))
	return sess, s.persist(ctx, sess)
}

// GenerateContent produces one artifact from the conversation and moves the
// session to the content step. Generation always yields an artifact: a
// collaborator failure degrades to the canned fallback artifact.
func (s *Service) GenerateContent(ctx context.Context, sessionID, contentType string) (*domain.Session, *domain.GeneratedArtifact, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.SelectedPersonaID == "" {
		return nil, nil, ErrNoPersona
	}
	if !CanGenerate(sess) {
		return nil, nil, ErrNotEnoughHistory
	}
	p, err := s.catalog.Get(sess.SelectedPersonaID)
	if err != nil {
		return nil, nil, err
	}

	var artifact domain.GeneratedArtifact
	content, err := s.pipe.Generate(ctx, p, sess.Brief, sess.ChatHistory, pipeline.Request{ContentType: contentType})
	if err != nil {
		if errors.Is(err, pipeline.ErrNotConfigured) {
			return nil, nil, err
		}
		slog.Warn("Content generation failed, substituting fallback artifact",
			"session_id", sessionID, "error", err)
		artifact = fallbackArtifact(p, sess.Brief)
	} else {
		artifact = artifactFromContent(p, sess.Brief, content)
	}

	sess.AddArtifact(artifact)
	if sess.CurrentStep == domain.StepChat {
		sess.CurrentStep = domain.StepContent
	}
	if err := s.persist(ctx, sess); err != nil {
		return nil, nil, err
	}
	return sess, &artifact, nil
}

// BulkGenerate produces one artifact per request tuple. Tuples with an
// empty topic are skipped entirely and a failure on one tuple does not
// abort the rest. Calls run sequentially, one tuple at a time.
func (s *Service) BulkGenerate(ctx context.Context, sessionID string, requests []pipeline.Request) (*domain.Session, []domain.GeneratedArtifact, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	if sess.SelectedPersonaID == "" {
		return nil, nil, ErrNoPersona
	}
	p, err := s.catalog.Get(sess.SelectedPersonaID)
	if err != nil {
		return nil, nil, err
	}

	produced := make([]domain.GeneratedArtifact, 0, len(requests))
	for _, req := range requests {
		if strings.TrimSpace(req.Topic) == "" {
			continue
		}
		content, err := s.pipe.Generate(ctx, p, sess.Brief, nil, req)
		if err != nil {
			if errors.Is(err, pipeline.ErrNotConfigured) {
				return nil, nil, err
			}
			slog.Warn("Bulk item failed, continuing with remaining items",
				"session_id", sessionID, "topic", req.Topic, "error", err)
			continue
		}
		artifact := bulkArtifactFromContent(p, req, content)
		sess.AddArtifact(artifact)
		produced = append(produced, artifact)
		if err := s.persist(ctx, sess); err != nil {
			return nil, nil, err
		}
	}
	return sess, produced, nil
}

// Navigate moves the session between the content step and its peer views.
func (s *Service) Navigate(ctx context.Context, sessionID string, to domain.Step) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := Navigate(sess, to); err != nil {
		return nil, err
	}
	sess.UpdatedAt = time.Now().UTC()
	return sess, s.persist(ctx, sess)
}

// Reset atomically restores the session to its freshly-initialized default.
func (s *Service) Reset(ctx context.Context, sessionID string) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Reset()
	return sess, s.persist(ctx, sess)
}

// SetArtifactStatus applies a review action to one artifact.
func (s *Service) SetArtifactStatus(ctx context.Context, sessionID, artifactID string, status domain.ArtifactStatus) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.SetArtifactStatus(artifactID, status); err != nil {
		return nil, err
	}
	return sess, s.persist(ctx, sess)
}

// ScheduleArtifact marks an artifact as scheduled for a date.
func (s *Service) ScheduleArtifact(ctx context.Context, sessionID, artifactID string, at time.Time) (*domain.Session, error) {
	sess, err := s.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := sess.ScheduleArtifact(artifactID, at); err != nil {
		return nil, err
	}
	return sess, s.persist(ctx, sess)
}

func artifactFromContent(p domain.Persona, brief domain.Brief, content pipeline.Content) domain.GeneratedArtifact {
	title := content.Title
	if title == "" {
		title = "Content for " + brief.BusinessName
	}
	description := content.Platform
	if description == "" {
		description = "AI-generated social media content"
	}
	tags := content.Hashtags
	if len(tags) == 0 {
		tags = append([]string(nil), defaultArtifactTags...)
	}
	return domain.GeneratedArtifact{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		TextContent: content.Body,
		ImageURL:    content.ImageURL,
		VisualStyle: content.VisualStyle,
		PersonaName: p.DisplayName,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.StatusDraft,
		Tags:        tags,
	}
}

func bulkArtifactFromContent(p domain.Persona, req pipeline.Request, content pipeline.Content) domain.GeneratedArtifact {
	title := content.Title
	if title == "" {
		title = "Content for " + req.Topic
	}
	tags := content.Hashtags
	if len(tags) == 0 {
		tags = []string{req.Platform, req.ContentType, "bulk-generated"}
	}
	return domain.GeneratedArtifact{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(req.Platform + " " + req.ContentType),
		TextContent: content.Body,
		ImageURL:    content.ImageURL,
		VisualStyle: content.VisualStyle,
		PersonaName: p.DisplayName,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.StatusDraft,
		Tags:        tags,
	}
}

func fallbackArtifact(p domain.Persona, brief domain.Brief) domain.GeneratedArtifact {
	return domain.GeneratedArtifact{
		ID:          uuid.NewString(),
		Title:       "Content for " + brief.BusinessName,
		Description: "AI-generated social media content",
		TextContent: fallbackArtifactText,
		PersonaName: p.DisplayName,
		CreatedAt:   time.Now().UTC(),
		Status:      domain.StatusDraft,
		Tags:        append([]string(nil), defaultArtifactTags...),
	}
}
