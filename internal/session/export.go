package session

import (
	"fmt"
	"strings"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

// ExportArtifact renders one artifact as plain text for download.
func ExportArtifact(a domain.GeneratedArtifact) string {
	return fmt.Sprintf("Title: %s\nPlatform: %s\nContent:\n%s\n", a.Title, a.Description, a.TextContent)
}

// ExportArtifacts renders all artifacts as one plain-text document,
// separated by dividers.
func ExportArtifacts(artifacts []domain.GeneratedArtifact) string {
	var sb strings.Builder
	for _, a := range artifacts {
		sb.WriteString(ExportArtifact(a))
		sb.WriteString("\n---\n\n")
	}
	return sb.String()
}
