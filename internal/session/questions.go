package session

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

var (
	// ErrAnswerRequired is returned when a required question gets an empty
	// answer.
	ErrAnswerRequired = errors.New("an answer is required for this question")
	// ErrNotOptional is returned when a required question is skipped.
	ErrNotOptional = errors.New("this question cannot be skipped")
	// ErrInvalidAnswer is returned when an answer fails field validation.
	ErrInvalidAnswer = errors.New("invalid answer")
)

var validate = validator.New()

// Option is one choice of a select question.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Question is one step of the brief wizard.
type Question struct {
	Field       string   `json:"field"`
	Prompt      string   `json:"prompt"`
	Placeholder string   `json:"placeholder"`
	Kind        string   `json:"kind"` // text, select, file
	Optional    bool     `json:"optional"`
	Options     []Option `json:"options,omitempty"`
	rule        string   // validator rule applied to non-empty answers
}

// Questions is the fixed brief wizard sequence.
var Questions = []Question{
	{
		Field:       domain.FieldBusinessName,
		Prompt:      "What is your business name?",
		Placeholder: "Enter your business name",
		Kind:        "text",
	},
	{
		Field:       domain.FieldIndustry,
		Prompt:      "Which industry do you operate in?",
		Placeholder: "e.g., Technology, Fashion, Food & Beverage, etc.",
		Kind:        "text",
	},
	{
		Field:       domain.FieldTargetAudience,
		Prompt:      "How would you define your target audience?",
		Placeholder: "e.g., Young professionals aged 25-35, interested in fitness",
		Kind:        "text",
	},
	{
		Field:       domain.FieldSocialMediaAccounts,
		Prompt:      "Do you have social media accounts? (You can share an Instagram link)",
		Placeholder: "https://instagram.com/yourbusiness",
		Kind:        "text",
		Optional:    true,
	},
	{
		Field:       domain.FieldBrandVoice,
		Prompt:      "What should your brand voice be?",
		Placeholder: "Select your brand voice",
		Kind:        "select",
		rule:        "oneof=corporate friendly humorous spiritual professional casual luxury edgy",
		Options: []Option{
			{Value: domain.VoiceCorporate, Label: "Corporate & Professional"},
			{Value: domain.VoiceFriendly, Label: "Friendly & Approachable"},
			{Value: domain.VoiceHumorous, Label: "Humorous & Witty"},
			{Value: domain.VoiceSpiritual, Label: "Spiritual & Inspirational"},
			{Value: domain.VoiceProfessional, Label: "Professional & Trustworthy"},
			{Value: domain.VoiceCasual, Label: "Casual & Relaxed"},
			{Value: domain.VoiceLuxury, Label: "Luxury & Premium"},
			{Value: domain.VoiceEdgy, Label: "Edgy & Bold"},
		},
	},
	{
		Field:       domain.FieldCampaigns,
		Prompt:      "Do you have regular campaigns or content series?",
		Placeholder: "e.g., Weekly tips, Monthly promotions, etc.",
		Kind:        "text",
		Optional:    true,
	},
	{
		Field:       domain.FieldStylePreferences,
		Prompt:      "Do you have any color, style, or font preferences?",
		Placeholder: "e.g., Blue and white, minimalist style, sans-serif fonts",
		Kind:        "text",
		Optional:    true,
	},
	{
		Field:       domain.FieldLogo,
		Prompt:      "Would you like to upload your logo?",
		Placeholder: "Upload your logo (optional)",
		Kind:        "file",
		Optional:    true,
	},
	{
		Field:       domain.FieldContentFrequency,
		Prompt:      "Do you want daily, weekly, or monthly content?",
		Placeholder: "Select content frequency",
		Kind:        "select",
		rule:        "oneof=daily weekly monthly",
		Options: []Option{
			{Value: domain.FrequencyDaily, Label: "Daily Content"},
			{Value: domain.FrequencyWeekly, Label: "Weekly Content"},
			{Value: domain.FrequencyMonthly, Label: "Monthly Content"},
		},
	},
}

// CurrentQuestion returns the question at the session's brief cursor.
func CurrentQuestion(s *domain.Session) Question {
	i := s.BriefCursor
	if i < 0 {
		i = 0
	}
	if i >= len(Questions) {
		i = len(Questions) - 1
	}
	return Questions[i]
}

// AcceptAnswer reports whether the answer may advance past the question.
// It is a pure function of the question's optionality and the answer's
// non-emptiness.
func AcceptAnswer(q Question, answer string) bool {
	return q.Optional || answer != ""
}

// AnswerBrief records an answer for the current question and advances the
// cursor. Advancing past the final question transitions the session to
// designer selection. Skipping is only allowed on optional questions.
func AnswerBrief(s *domain.Session, answer string, skip bool) error {
	if s.CurrentStep != domain.StepBrief {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, s.CurrentStep, domain.StepBrief)
	}
	q := CurrentQuestion(s)

	if skip {
		if !q.Optional {
			return ErrNotOptional
		}
	} else {
		if !AcceptAnswer(q, answer) {
			return ErrAnswerRequired
		}
		if answer != "" && q.rule != "" {
			if err := validate.Var(answer, q.rule); err != nil {
				return fmt.Errorf("%w: %q is not a valid %s", ErrInvalidAnswer, answer, q.Field)
			}
		}
		s.Brief.Set(q.Field, answer)
	}

	if s.BriefCursor >= len(Questions)-1 {
		return Navigate(s, domain.StepDesignerSelection)
	}
	s.BriefCursor++
	return nil
}

// BriefBack steps the wizard back to the previous question.
func BriefBack(s *domain.Session) {
	if s.BriefCursor > 0 {
		s.BriefCursor--
	}
}
