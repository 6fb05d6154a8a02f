package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
	"github.com/doguseltetik/ai-social-content-creator/internal/identity"
	"github.com/doguseltetik/ai-social-content-creator/internal/persona"
	"github.com/doguseltetik/ai-social-content-creator/internal/pipeline"
	"github.com/doguseltetik/ai-social-content-creator/internal/session"
)

// memRepo keeps session documents in memory for handler tests.
type memRepo struct {
	docs map[string][]byte
}

func (r *memRepo) GetSession(_ context.Context, id string) (*domain.Session, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, nil
	}
	var s domain.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *memRepo) SaveSession(_ context.Context, s *domain.Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return err
	}
	r.docs[s.SessionID] = doc
	return nil
}

func (r *memRepo) DeleteSession(_ context.Context, id string) error {
	delete(r.docs, id)
	return nil
}

func (r *memRepo) CleanupExpiredSessions(context.Context, time.Duration) (int64, error) {
	return 0, nil
}

func (r *memRepo) Ping(context.Context) error { return nil }
func (r *memRepo) Close() error               { return nil }

type scriptedPipe struct {
	reply   string
	content pipeline.Content
}

func (p *scriptedPipe) Converse(context.Context, domain.Persona, domain.Brief, []domain.ChatMessage, string) (string, error) {
	return p.reply, nil
}

func (p *scriptedPipe) Generate(context.Context, domain.Persona, domain.Brief, []domain.ChatMessage, pipeline.Request) (pipeline.Content, error) {
	return p.content, nil
}

// sessionClient drives the session API as one identified caller.
type sessionClient struct {
	t      *testing.T
	router chi.Router
}

const testAnonID = "anon_0123456789abcdef0123456789abcdef"

func newSessionClient(t *testing.T, pipe session.ContentPipeline) *sessionClient {
	t.Helper()
	catalog, err := persona.NewCatalog()
	if err != nil {
		t.Fatalf("Failed to build catalog: %v", err)
	}
	svc := session.NewService(&memRepo{docs: map[string][]byte{}}, catalog, pipe)

	r := chi.NewRouter()
	r.Use(identity.Middleware(true))
	NewSessionHandler(svc).RegisterRoutes(r)
	return &sessionClient{t: t, router: r}
}

func (c *sessionClient) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("Failed to marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader([]byte(`{}`))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: identity.AnonCookieName, Value: testAnonID})
	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	return w
}

func (c *sessionClient) mustDo(method, path string, body interface{}) map[string]json.RawMessage {
	c.t.Helper()
	w := c.do(method, path, body)
	if w.Code != http.StatusOK {
		c.t.Fatalf("%s %s: expected status 200, got %d: %s", method, path, w.Code, w.Body.String())
	}
	var resp map[string]json.RawMessage
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		c.t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func (c *sessionClient) session(resp map[string]json.RawMessage) *domain.Session {
	c.t.Helper()
	var s domain.Session
	if err := json.Unmarshal(resp["session"], &s); err != nil {
		c.t.Fatalf("Failed to decode session: %v", err)
	}
	return &s
}

// toChat walks the wizard to the chat step.
func (c *sessionClient) toChat() {
	c.t.Helper()
	c.mustDo(http.MethodPost, "/api/session/start", nil)
	answers := []map[string]interface{}{
		{"answer": "Acme"},
		{"answer": "Technology"},
		{"answer": "Developers"},
		{"skip": true},
		{"answer": "friendly"},
		{"skip": true},
		{"skip": true},
		{"skip": true},
		{"answer": "weekly"},
	}
	for _, a := range answers {
		c.mustDo(http.MethodPost, "/api/session/brief/answer", a)
	}
	c.mustDo(http.MethodPost, "/api/session/persona", map[string]string{"personaId": "artiya"})
	c.mustDo(http.MethodPost, "/api/session/persona/confirm", nil)
}

func TestSessionGetCreates(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{})

	s := c.session(c.mustDo(http.MethodGet, "/api/session", nil))
	if s.SessionID != testAnonID {
		t.Errorf("Expected anon id as session id, got %q", s.SessionID)
	}
	if s.CurrentStep != domain.StepWelcome {
		t.Errorf("Expected welcome step, got %q", s.CurrentStep)
	}
}

func TestSessionWizardFlow(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{reply: "Great idea!"})
	c.toChat()

	s := c.session(c.mustDo(http.MethodGet, "/api/session", nil))
	if s.CurrentStep != domain.StepChat {
		t.Errorf("Expected chat step, got %q", s.CurrentStep)
	}
	if len(s.ChatHistory) != 1 {
		t.Fatalf("Expected seeded welcome, got %d messages", len(s.ChatHistory))
	}

	s = c.session(c.mustDo(http.MethodPost, "/api/session/chat", map[string]string{"message": "make a post"}))
	if len(s.ChatHistory) != 3 {
		t.Errorf("Expected 3 messages after exchange, got %d", len(s.ChatHistory))
	}
}

func TestSessionQuestionProgress(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{})
	c.mustDo(http.MethodPost, "/api/session/start", nil)

	resp := c.mustDo(http.MethodGet, "/api/session/brief/question", nil)
	var q session.Question
	if err := json.Unmarshal(resp["question"], &q); err != nil {
		t.Fatalf("Failed to decode question: %v", err)
	}
	if q.Field != domain.FieldBusinessName {
		t.Errorf("Expected first question, got %q", q.Field)
	}
	var total int
	if err := json.Unmarshal(resp["total"], &total); err != nil || total != len(session.Questions) {
		t.Errorf("Expected total %d, got %d", len(session.Questions), total)
	}
}

func TestSessionAnswerErrors(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{})
	c.mustDo(http.MethodPost, "/api/session/start", nil)

	w := c.do(http.MethodPost, "/api/session/brief/answer", map[string]string{"answer": ""})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty required answer, got %d", w.Code)
	}

	w = c.do(http.MethodPost, "/api/session/brief/answer", map[string]bool{"skip": true})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for skipping required question, got %d", w.Code)
	}
}

func TestSessionInvalidTransition(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{})

	w := c.do(http.MethodPost, "/api/session/navigate", map[string]string{"step": "content"})
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 for invalid transition, got %d", w.Code)
	}
}

func TestSessionGenerateTooEarly(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{})
	c.toChat()

	w := c.do(http.MethodPost, "/api/session/generate", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409 before first exchange, got %d", w.Code)
	}
}

func TestSessionGenerateAndReview(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{
		reply: "Great!",
		content: pipeline.Content{
			Title:    "Morning Brew",
			Body:     "Start your day right",
			Platform: "instagram",
		},
	})
	c.toChat()
	c.mustDo(http.MethodPost, "/api/session/chat", map[string]string{"message": "coffee post"})

	resp := c.mustDo(http.MethodPost, "/api/session/generate", map[string]string{"contentType": "Instagram post"})
	var artifact domain.GeneratedArtifact
	if err := json.Unmarshal(resp["artifact"], &artifact); err != nil {
		t.Fatalf("Failed to decode artifact: %v", err)
	}
	if artifact.Title != "Morning Brew" || artifact.Status != domain.StatusDraft {
		t.Errorf("Unexpected artifact: %+v", artifact)
	}

	s := c.session(c.mustDo(http.MethodPost, "/api/session/artifacts/"+artifact.ID+"/status",
		map[string]string{"status": "approved"}))
	a, err := s.Artifact(artifact.ID)
	if err != nil || a.Status != domain.StatusApproved {
		t.Errorf("Expected approved artifact, got %+v (%v)", a, err)
	}

	when := time.Now().UTC().Add(24 * time.Hour).Format(time.RFC3339)
	s = c.session(c.mustDo(http.MethodPost, "/api/session/artifacts/"+artifact.ID+"/schedule",
		map[string]string{"scheduledAt": when}))
	a, _ = s.Artifact(artifact.ID)
	if a.Status != domain.StatusScheduled || a.ScheduledAt == nil {
		t.Errorf("Expected scheduled artifact, got %+v", a)
	}

	w := c.do(http.MethodPost, "/api/session/artifacts/missing/status", map[string]string{"status": "approved"})
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown artifact, got %d", w.Code)
	}

	w = c.do(http.MethodPost, "/api/session/artifacts/"+artifact.ID+"/status", map[string]string{"status": "published"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for unknown status, got %d", w.Code)
	}
}

func TestSessionBulk(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{content: pipeline.Content{Title: "T", Body: "B"}})
	c.toChat()

	resp := c.mustDo(http.MethodPost, "/api/session/bulk", map[string]interface{}{
		"requests": []map[string]string{
			{"topic": "launch", "platform": "instagram", "contentType": "post"},
			{"topic": "", "platform": "facebook", "contentType": "ad"},
		},
	})
	var artifacts []domain.GeneratedArtifact
	if err := json.Unmarshal(resp["artifacts"], &artifacts); err != nil {
		t.Fatalf("Failed to decode artifacts: %v", err)
	}
	if len(artifacts) != 1 {
		t.Errorf("Expected blank topic skipped, got %d artifacts", len(artifacts))
	}

	w := c.do(http.MethodPost, "/api/session/bulk", map[string]interface{}{"requests": []map[string]string{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for empty request list, got %d", w.Code)
	}
}

func TestSessionAnalytics(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{reply: "ok", content: pipeline.Content{Title: "T"}})
	c.toChat()
	c.mustDo(http.MethodPost, "/api/session/chat", map[string]string{"message": "hi"})
	c.mustDo(http.MethodPost, "/api/session/generate", nil)

	w := c.do(http.MethodGet, "/api/session/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var stats domain.SessionStats
	if err := json.NewDecoder(w.Body).Decode(&stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.Total != 1 || stats.Draft != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestSessionExport(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{reply: "ok", content: pipeline.Content{Title: "Morning Brew", Body: "text"}})
	c.toChat()
	c.mustDo(http.MethodPost, "/api/session/chat", map[string]string{"message": "hi"})
	c.mustDo(http.MethodPost, "/api/session/generate", nil)

	w := c.do(http.MethodGet, "/api/session/export", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Expected text/plain export, got %q", ct)
	}
	if !strings.Contains(w.Body.String(), "Title: Morning Brew") {
		t.Errorf("Expected artifact in export, got %q", w.Body.String())
	}
}

func TestSessionReset(t *testing.T) {
	c := newSessionClient(t, &scriptedPipe{reply: "ok"})
	c.toChat()

	s := c.session(c.mustDo(http.MethodPost, "/api/session/reset", nil))
	if s.CurrentStep != domain.StepWelcome || len(s.ChatHistory) != 0 {
		t.Errorf("Expected fresh session after reset, got %+v", s)
	}
}
