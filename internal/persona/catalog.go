// Package persona provides the static registry of AI designer personas.
package persona

import (
	_ "embed"
	"errors"
	"fmt"

	"github.com/doguseltetik/ai-social-content-creator/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed personas.yaml
var personasYAML []byte

// ErrNotFound is returned when a persona id is not in the catalog. Callers
// must treat it as "no persona selected" and route the user back to
// selection.
var ErrNotFound = errors.New("persona not found")

// Catalog is the immutable registry of designer personas. It is built once
// at startup and safe for concurrent use.
type Catalog struct {
	ordered []domain.Persona
	byID    map[string]domain.Persona
}

// NewCatalog parses the embedded persona definitions.
func NewCatalog() (*Catalog, error) {
	var doc struct {
		Personas []domain.Persona `yaml:"personas"`
	}
	if err := yaml.Unmarshal(personasYAML, &doc); err != nil {
		return nil, fmt.Errorf("parse persona catalog: %w", err)
	}
	if len(doc.Personas) == 0 {
		return nil, fmt.Errorf("persona catalog is empty")
	}

	byID := make(map[string]domain.Persona, len(doc.Personas))
	for _, p := range doc.Personas {
		if p.ID == "" {
			return nil, fmt.Errorf("persona %q has no id", p.DisplayName)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, fmt.Errorf("duplicate persona id %q", p.ID)
		}
		byID[p.ID] = p
	}

	return &Catalog{ordered: doc.Personas, byID: byID}, nil
}

// List returns all personas in their fixed catalog order.
func (c *Catalog) List() []domain.Persona {
	out := make([]domain.Persona, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get returns the persona with the given id.
func (c *Catalog) Get(id string) (domain.Persona, error) {
	p, ok := c.byID[id]
	if !ok {
		return domain.Persona{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return p, nil
}
