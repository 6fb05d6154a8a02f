// Package session implements the wizard state machine and the service that
// drives a persisted session through it.
package session

import (
	"errors"
	"fmt"
	"strings"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

var (
	// ErrInvalidTransition is returned when a step change is not in the
	// transition table.
	ErrInvalidTransition = errors.New("invalid step transition")
	// ErrNoPersona is returned when an operation requires a selected
	// persona.
	ErrNoPersona = errors.New("no persona selected")
	// ErrNotEnoughHistory is returned when content generation is requested
	// before the first exchange happened.
	ErrNotEnoughHistory = errors.New("not enough chat history to generate content")
	// ErrBriefIncomplete is returned when leaving the brief step with
	// required fields still empty.
	ErrBriefIncomplete = errors.New("required brief fields are incomplete")
)

// minChatMessages gates the chat -> content transition. The auto-seeded
// welcome message counts, so one real user message is enough.
const minChatMessages = 2

// transitions is the step transition table. The welcome step is reachable
// only through an explicit reset, which bypasses the table.
var transitions = map[domain.Step][]domain.Step{
	domain.StepWelcome:           {domain.StepBrief},
	domain.StepBrief:             {domain.StepBrief, domain.StepDesignerSelection},
	domain.StepDesignerSelection: {domain.StepChat},
	domain.StepChat:              {domain.StepContent, domain.StepDesignerSelection},
	domain.StepContent:           {domain.StepAnalytics, domain.StepCalendar, domain.StepBulk, domain.StepSettings, domain.StepChat},
	domain.StepAnalytics:         {domain.StepContent},
	domain.StepCalendar:          {domain.StepContent},
	domain.StepBulk:              {domain.StepContent},
	domain.StepSettings:          {domain.StepContent},
}

// CanTransition reports whether the table allows moving from one step to
// another.
func CanTransition(from, to domain.Step) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// CanGenerate reports whether the session has enough chat history for the
// chat -> content transition.
func CanGenerate(s *domain.Session) bool {
	return len(s.ChatHistory) >= minChatMessages
}

// Navigate moves the session to another step, enforcing the transition
// table and the per-transition gates.
func Navigate(s *domain.Session, to domain.Step) error {
	if !CanTransition(s.CurrentStep, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.CurrentStep, to)
	}
	switch {
	case s.CurrentStep == domain.StepBrief && to == domain.StepDesignerSelection:
		if !s.Brief.IsComplete(domain.RequiredBriefFields) {
			return ErrBriefIncomplete
		}
	case s.CurrentStep == domain.StepDesignerSelection && to == domain.StepChat:
		if s.SelectedPersonaID == "" {
			return ErrNoPersona
		}
	case s.CurrentStep == domain.StepChat && to == domain.StepContent:
		if !CanGenerate(s) {
			return ErrNotEnoughHistory
		}
	}
	s.CurrentStep = to
	return nil
}

// EnterChat transitions into the chat step and seeds the transcript with the
// persona's welcome message iff the transcript is empty. The welcome message
// is generated locally, never by a collaborator call.
func EnterChat(s *domain.Session, p domain.Persona) error {
	if err := Navigate(s, domain.StepChat); err != nil {
		return err
	}
	if len(s.ChatHistory) == 0 {
		s.AddMessage(domain.NewAssistantMessage(welcomeMessage(p, s.Brief.BusinessName), p.ID))
	}
	return nil
}

func welcomeMessage(p domain.Persona, businessName string) string {
	if businessName == "" {
		businessName = "your business"
	}
	return fmt.Sprintf(`Hi! I'm %s, your %s. I'm excited to help you create amazing content for %s!

Let me ask you a few questions to understand your needs better:

1. What type of content would you like to create today? (e.g., Instagram post, Facebook ad, Twitter thread)
2. Do you have any specific topics or themes in mind?
3. Would you like me to generate both visual and text content?

Feel free to share any ideas or preferences you have!`,
		p.DisplayName, strings.ToLower(p.Title), businessName)
}
