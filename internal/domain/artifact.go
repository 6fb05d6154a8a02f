package domain

import (
	"time"
)

// ArtifactStatus is the review state of a generated artifact. Status only
// changes through explicit user review actions.
type ArtifactStatus string

const (
	StatusDraft     ArtifactStatus = "draft"
	StatusApproved  ArtifactStatus = "approved"
	StatusRejected  ArtifactStatus = "rejected"
	StatusScheduled ArtifactStatus = "scheduled"
)

// ValidArtifactStatus reports whether s is a known review status.
func ValidArtifactStatus(s ArtifactStatus) bool {
	switch s {
	case StatusDraft, StatusApproved, StatusRejected, StatusScheduled:
		return true
	}
	return false
}

// GeneratedArtifact is one generated piece of content. PersonaName is a
// snapshot of the producing persona's display name at creation time, not a
// reference into the catalog, so artifacts stay valid if the catalog changes.
type GeneratedArtifact struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	TextContent string         `json:"textContent"`
	ImageURL    string         `json:"imageUrl,omitempty"`
	VisualStyle string         `json:"visualStyle,omitempty"`
	PersonaName string         `json:"personaName"`
	CreatedAt   time.Time      `json:"createdAt"`
	Status      ArtifactStatus `json:"status"`
	Tags        []string       `json:"tags"`
	ScheduledAt *time.Time     `json:"scheduledAt,omitempty"`
}
