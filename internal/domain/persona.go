package domain

import "strings"

// ColorScheme is a persona's color identity as RGB hex strings.
type ColorScheme struct {
	Primary   string `json:"primary" yaml:"primary"`
	Secondary string `json:"secondary" yaml:"secondary"`
	Accent    string `json:"accent" yaml:"accent"`
}

// Persona is a named content-generation style profile. Personas are defined
// at process start and never mutated.
type Persona struct {
	ID             string      `json:"id" yaml:"id"`
	DisplayName    string      `json:"displayName" yaml:"displayName"`
	Title          string      `json:"title" yaml:"title"`
	Description    string      `json:"description" yaml:"description"`
	StyleTags      []string    `json:"styleTags" yaml:"styleTags"`
	ColorScheme    ColorScheme `json:"colorScheme" yaml:"colorScheme"`
	PromptTemplate string      `json:"promptTemplate" yaml:"promptTemplate"`
}

// Style renders the persona's style tags as a single descriptive string.
func (p Persona) Style() string {
	return strings.Join(p.StyleTags, ", ")
}

// StyleGuidelines returns up to max guideline lines from the prompt
// template, skipping the leading identity line.
func (p Persona) StyleGuidelines(max int) []string {
	lines := strings.Split(p.PromptTemplate, "\n")
	if len(lines) <= 1 {
		return nil
	}
	lines = lines[1:]
	if len(lines) > max {
		lines = lines[:max]
	}
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "- ")))
	}
	return out
}
