package domain

import (
	"errors"
	"time"
)

// Step is the active wizard screen of a session.
type Step string

const (
	StepWelcome           Step = "welcome"
	StepBrief             Step = "brief"
	StepDesignerSelection Step = "designer-selection"
	StepChat              Step = "chat"
	StepContent           Step = "content"
	StepAnalytics         Step = "analytics"
	StepCalendar          Step = "calendar"
	StepBulk              Step = "bulk"
	StepSettings          Step = "settings"
)

// ErrArtifactNotFound is returned when an artifact id is not part of the
// session.
var ErrArtifactNotFound = errors.New("artifact not found")

// Session is the aggregate root for one user's interaction: the brief, the
// selected persona, the transcript, the generated artifacts and the active
// wizard step. It is persisted as a whole on every mutation.
type Session struct {
	SessionID          string              `json:"sessionId"`
	Brief              Brief               `json:"brief"`
	BriefCursor        int                 `json:"briefCursor"`
	SelectedPersonaID  string              `json:"selectedPersonaId,omitempty"`
	ChatHistory        []ChatMessage       `json:"chatHistory"`
	GeneratedArtifacts []GeneratedArtifact `json:"generatedArtifacts"`
	CurrentStep        Step                `json:"currentStep"`
	CreatedAt          time.Time           `json:"createdAt"`
	UpdatedAt          time.Time           `json:"updatedAt"`
}

// NewSession creates a fresh session at the welcome step.
func NewSession(sessionID string) *Session {
	now := time.Now().UTC()
	return &Session{
		SessionID:          sessionID,
		ChatHistory:        []ChatMessage{},
		GeneratedArtifacts: []GeneratedArtifact{},
		CurrentStep:        StepWelcome,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// Reset clears the brief, persona selection, transcript and artifacts and
// re-enters the welcome step. SessionID and CreatedAt are kept.
func (s *Session) Reset() {
	s.Brief = Brief{}
	s.BriefCursor = 0
	s.SelectedPersonaID = ""
	s.ChatHistory = []ChatMessage{}
	s.GeneratedArtifacts = []GeneratedArtifact{}
	s.CurrentStep = StepWelcome
	s.UpdatedAt = time.Now().UTC()
}

// AddMessage appends a chat message to the transcript.
func (s *Session) AddMessage(m ChatMessage) {
	s.ChatHistory = append(s.ChatHistory, m)
	s.UpdatedAt = time.Now().UTC()
}

// AddArtifact appends a generated artifact.
func (s *Session) AddArtifact(a GeneratedArtifact) {
	s.GeneratedArtifacts = append(s.GeneratedArtifacts, a)
	s.UpdatedAt = time.Now().UTC()
}

// Artifact returns a pointer to the artifact with the given id.
func (s *Session) Artifact(id string) (*GeneratedArtifact, error) {
	for i := range s.GeneratedArtifacts {
		if s.GeneratedArtifacts[i].ID == id {
			return &s.GeneratedArtifacts[i], nil
		}
	}
	return nil, ErrArtifactNotFound
}

// SetArtifactStatus applies an explicit review action to one artifact.
func (s *Session) SetArtifactStatus(id string, status ArtifactStatus) error {
	a, err := s.Artifact(id)
	if err != nil {
		return err
	}
	a.Status = status
	if status != StatusScheduled {
		a.ScheduledAt = nil
	}
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// ScheduleArtifact marks an artifact as scheduled for the given date.
func (s *Session) ScheduleArtifact(id string, at time.Time) error {
	a, err := s.Artifact(id)
	if err != nil {
		return err
	}
	a.Status = StatusScheduled
	a.ScheduledAt = &at
	s.UpdatedAt = time.Now().UTC()
	return nil
}

// SessionStats summarizes the artifact set for the analytics view.
type SessionStats struct {
	Total          int            `json:"total"`
	Draft          int            `json:"draft"`
	Approved       int            `json:"approved"`
	Rejected       int            `json:"rejected"`
	Scheduled      int            `json:"scheduled"`
	ApprovalRate   float64        `json:"approvalRate"`
	PerPersona     map[string]int `json:"perPersona"`
	CreatedLast7d  int            `json:"createdLast7Days"`
}

// Stats computes analytics over the session's artifacts.
func (s *Session) Stats() SessionStats {
	stats := SessionStats{PerPersona: map[string]int{}}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	for _, a := range s.GeneratedArtifacts {
		stats.Total++
		switch a.Status {
		case StatusDraft:
			stats.Draft++
		case StatusApproved:
			stats.Approved++
		case StatusRejected:
			stats.Rejected++
		case StatusScheduled:
			stats.Scheduled++
		}
		stats.PerPersona[a.PersonaName]++
		if a.CreatedAt.After(weekAgo) {
			stats.CreatedLast7d++
		}
	}
	if stats.Total > 0 {
		stats.ApprovalRate = float64(stats.Approved) / float64(stats.Total) * 100
	}
	return stats
}
