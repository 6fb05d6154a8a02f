package pipeline

import (
	"fmt"
	"strings"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
)

// notSpecified is the literal token printed for blank brief fields.
const notSpecified = "Not specified"

func briefLine(label, value string) string {
	if value == "" {
		value = notSpecified
	}
	return fmt.Sprintf("- %s: %s", label, value)
}

func renderBrief(b domain.Brief) string {
	lines := []string{
		"Business Information:",
		briefLine("Business Name", b.BusinessName),
		briefLine("Industry", b.Industry),
		briefLine("Target Audience", b.TargetAudience),
		briefLine("Brand Voice", b.BrandVoice),
		briefLine("Content Frequency", b.ContentFrequency),
	}
	return strings.Join(lines, "\n")
}

// renderHistory renders transcript turns as "role: content" lines.
func renderHistory(history []domain.ChatMessage) string {
	lines := make([]string, 0, len(history))
	for _, m := range history {
		lines = append(lines, fmt.Sprintf("%s: %s", m.Role, m.Content))
	}
	return strings.Join(lines, "\n")
}

// conversationSystemPrompt steers the text collaborator for a chat turn:
// the persona template, the rendered brief, and the in-character
// instruction.
func conversationSystemPrompt(p domain.Persona, b domain.Brief) string {
	var sb strings.Builder
	sb.WriteString(p.PromptTemplate)
	sb.WriteString("\n\n")
	sb.WriteString(renderBrief(b))
	sb.WriteString("\n\nPlease respond in character as the AI designer, maintaining the style and personality described above.")
	return sb.String()
}

// generationPrompt builds the instruction for producing one artifact. The
// collaborator is asked to answer with a single JSON object carrying title,
// content, hashtags and visual style.
func generationPrompt(p domain.Persona, b domain.Brief, history []domain.ChatMessage, req Request) string {
	contentType := req.ContentType
	if contentType == "" {
		contentType = "social media post"
	}

	var sb strings.Builder
	sb.WriteString(p.PromptTemplate)
	sb.WriteString("\n\nBased on the business information below, create a ")
	sb.WriteString(contentType)
	sb.WriteString(" that matches my style and the business requirements.\n\n")
	sb.WriteString(renderBrief(b))
	if b.Campaigns != "" {
		sb.WriteString("\n" + briefLine("Campaigns", b.Campaigns))
	}
	if b.StylePreferences != "" {
		sb.WriteString("\n" + briefLine("Style Preferences", b.StylePreferences))
	}

	if req.Topic != "" {
		sb.WriteString("\n\nSpecific Topic: " + req.Topic)
	}
	if req.Platform != "" {
		sb.WriteString("\nPlatform: " + req.Platform)
	}
	if req.Description != "" {
		sb.WriteString("\nAdditional Context: " + req.Description)
	}

	if len(history) > 0 {
		sb.WriteString("\n\nConversation Context:\n")
		sb.WriteString(renderHistory(history))
	}

	sb.WriteString("\n\nPlease create:\n")
	sb.WriteString("1. A compelling title\n")
	sb.WriteString("2. Engaging content text (appropriate length for " + contentType + ")\n")
	sb.WriteString("3. Relevant hashtags\n")
	sb.WriteString("4. A brief description of the visual style that would complement this content\n\n")
	sb.WriteString("Format your response as JSON:\n")
	sb.WriteString(`{
  "title": "Your title here",
  "content": "Your content text here",
  "hashtags": ["#hashtag1", "#hashtag2"],
  "visualStyle": "Description of visual style",
  "platform": "` + contentType + `"
}`)
	return sb.String()
}

// imagePrompt builds the image-generation instruction from the persona's
// identity, the target text content, and the visual style. Only the first
// five guideline lines of the persona template are included.
func imagePrompt(p domain.Persona, b domain.Brief, content, visualStyle string) string {
	business := b.BusinessName
	if business == "" {
		business = "a business"
	}
	if visualStyle == "" {
		visualStyle = p.Description
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create a social media image for %s in the style of %s: %s.\n\n",
		business, p.DisplayName, p.Style())
	fmt.Fprintf(&sb, "Content: %s\nVisual Style: %s\n\n", content, visualStyle)
	sb.WriteString("Style Guidelines:\n")
	for _, line := range p.StyleGuidelines(5) {
		sb.WriteString("- " + line + "\n")
	}
	sb.WriteString("\nCreate a visually appealing social media image that matches the designer's aesthetic and complements the content.")
	return sb.String()
}
