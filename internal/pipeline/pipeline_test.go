package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

type stubText struct {
	reply string
	err   error
	last  CompletionRequest
}

func (s *stubText) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.last = req
	return s.reply, s.err
}

type stubImages struct {
	url string
	err error
}

func (s *stubImages) GenerateImage(context.Context, string) (string, error) {
	return s.url, s.err
}

func TestConverseNotConfigured(t *testing.T) {
	p := New(nil, nil, Options{})
	if _, err := p.Converse(context.Background(), testPersona, domain.Brief{}, nil, "hi"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestConverseReturnsReply(t *testing.T) {
	text := &stubText{reply: "Let's make something bold!"}
	p := New(text, nil, Options{})

	history := []domain.ChatMessage{{Role: domain.RoleAssistant, Content: "Hi!"}}
	reply, err := p.Converse(context.Background(), testPersona, domain.Brief{}, history, "make a post")
	if err != nil {
		t.Fatalf("Converse failed: %v", err)
	}
	if reply != "Let's make something bold!" {
		t.Errorf("Expected collaborator reply, got %q", reply)
	}

	if len(text.last.Turns) != 2 {
		t.Fatalf("Expected history plus new message, got %d turns", len(text.last.Turns))
	}
	if text.last.Turns[1].Role != domain.RoleUser || text.last.Turns[1].Content != "make a post" {
		t.Errorf("Expected user message as final turn, got %+v", text.last.Turns[1])
	}
	if text.last.System == "" {
		t.Error("Expected a system prompt")
	}
}

func TestConverseFallsBackOnError(t *testing.T) {
	p := New(&stubText{err: errors.New("boom")}, nil, Options{})

	reply, err := p.Converse(context.Background(), testPersona, domain.Brief{}, nil, "hi")
	if err != nil {
		t.Fatalf("Expected fallback instead of error, got %v", err)
	}
	if !containsReply(fallbackReplies, reply) {
		t.Errorf("Expected a reply from the fallback pool, got %q", reply)
	}
}

func TestConverseFallsBackOnBlankReply(t *testing.T) {
	p := New(&stubText{reply: "   \n"}, nil, Options{})

	reply, err := p.Converse(context.Background(), testPersona, domain.Brief{}, nil, "hi")
	if err != nil {
		t.Fatalf("Expected fallback instead of error, got %v", err)
	}
	if !containsReply(fallbackReplies, reply) {
		t.Errorf("Expected a reply from the fallback pool, got %q", reply)
	}
}

func containsReply(pool []string, reply string) bool {
	for _, r := range pool {
		if r == reply {
			return true
		}
	}
	return false
}

func TestGenerateNotConfigured(t *testing.T) {
	p := New(nil, nil, Options{})
	if _, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{}); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}
}

func TestGenerateReturnsTransportError(t *testing.T) {
	p := New(&stubText{err: errors.New("connection refused")}, nil, Options{})
	if _, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{}); err == nil {
		t.Error("Expected transport error to surface")
	}
}

func TestGenerateParsesValidJSON(t *testing.T) {
	payload := `{"title":"Morning Brew","content":"Start your day right","hashtags":["#coffee"],"visualStyle":"","platform":"instagram"}`
	p := New(&stubText{reply: payload}, nil, Options{})

	content, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{ContentType: "Instagram post"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content.Title != "Morning Brew" || content.Body != "Start your day right" {
		t.Errorf("Unexpected content: %+v", content)
	}
	if content.Platform != "instagram" {
		t.Errorf("Expected platform from payload, got %q", content.Platform)
	}
}

func TestGenerateFallsBackOnUnparseableReply(t *testing.T) {
	p := New(&stubText{reply: "not json"}, nil, Options{})

	content, err := p.Generate(context.Background(), testPersona, domain.Brief{BusinessName: "Acme"}, nil, Request{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content.Title != "Content for Acme" {
		t.Errorf("Expected fallback title, got %q", content.Title)
	}
	if content.Body != "not json" {
		t.Errorf("Expected raw reply preserved as body, got %q", content.Body)
	}
	if len(content.Hashtags) == 0 {
		t.Error("Expected non-empty fallback hashtags")
	}
	if content.VisualStyle == "" {
		t.Error("Expected non-empty fallback visual style")
	}
	if content.Platform != "social media" {
		t.Errorf("Expected default platform, got %q", content.Platform)
	}
}

func TestGenerateChainsIntoImageEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate-image" {
			t.Errorf("Expected image endpoint path, got %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode image request: %v", err)
		}
		if body["visualStyle"] != "warm tones" {
			t.Errorf("Expected visual style forwarded, got %v", body["visualStyle"])
		}
		json.NewEncoder(w).Encode(map[string]string{"imageUrl": "https://img.example/1.png"})
	}))
	defer srv.Close()

	payload := `{"title":"T","content":"C","hashtags":["#x"],"visualStyle":"warm tones","platform":"instagram"}`
	p := New(&stubText{reply: payload}, nil, Options{AppBaseURL: srv.URL, ImagesEnabled: true})

	content, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content.ImageURL != "https://img.example/1.png" {
		t.Errorf("Expected image url from endpoint, got %q", content.ImageURL)
	}
}

func TestGenerateSkipsImageWhenDisabled(t *testing.T) {
	payload := `{"title":"T","content":"C","hashtags":["#x"],"visualStyle":"warm tones","platform":"instagram"}`
	p := New(&stubText{reply: payload}, nil, Options{AppBaseURL: "http://127.0.0.1:1", ImagesEnabled: false})

	content, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if content.ImageURL != "" {
		t.Errorf("Expected no image url with images disabled, got %q", content.ImageURL)
	}
}

func TestGenerateContinuesWhenImageStepFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	payload := `{"title":"T","content":"C","hashtags":["#x"],"visualStyle":"warm tones","platform":"instagram"}`
	p := New(&stubText{reply: payload}, nil, Options{AppBaseURL: srv.URL, ImagesEnabled: true})

	content, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{})
	if err != nil {
		t.Fatalf("Expected image failure to be absorbed, got %v", err)
	}
	if content.Title != "T" || content.ImageURL != "" {
		t.Errorf("Expected content without image, got %+v", content)
	}
}

func TestIllustrate(t *testing.T) {
	p := New(nil, &stubImages{url: "https://img.example/2.png"}, Options{})

	url, err := p.Illustrate(context.Background(), testPersona, domain.Brief{}, "content", "style")
	if err != nil {
		t.Fatalf("Illustrate failed: %v", err)
	}
	if url != "https://img.example/2.png" {
		t.Errorf("Expected collaborator url, got %q", url)
	}
}

func TestIllustrateErrors(t *testing.T) {
	p := New(nil, nil, Options{})
	if _, err := p.Illustrate(context.Background(), testPersona, domain.Brief{}, "c", "s"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("Expected ErrNotConfigured, got %v", err)
	}

	p = New(nil, &stubImages{err: errors.New("quota")}, Options{})
	if _, err := p.Illustrate(context.Background(), testPersona, domain.Brief{}, "c", "s"); err == nil {
		t.Error("Expected image collaborator error to surface")
	}

	p = New(nil, &stubImages{url: ""}, Options{})
	if _, err := p.Illustrate(context.Background(), testPersona, domain.Brief{}, "c", "s"); !errors.Is(err, ErrNoImage) {
		t.Errorf("Expected ErrNoImage for empty url, got %v", err)
	}
}

func TestGenerateCallParameters(t *testing.T) {
	text := &stubText{reply: `{}`}
	p := New(text, nil, Options{})

	if _, err := p.Generate(context.Background(), testPersona, domain.Brief{}, nil, Request{}); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if text.last.MaxTokens != 800 {
		t.Errorf("Expected 800 max tokens for generation, got %d", text.last.MaxTokens)
	}
	if !strings.Contains(text.last.System, "valid JSON") {
		t.Errorf("Expected JSON instruction in system prompt, got %q", text.last.System)
	}
}
