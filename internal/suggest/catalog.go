package suggest

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Template is one candidate habit for a (mood, category) pair. Reason is a
// lower-case sentence fragment the generator folds into the prompt text.
type Template struct {
	Title           string `yaml:"title"`
	Description     string `yaml:"description"`
	DurationMinutes int    `yaml:"duration_minutes"`
	Reason          string `yaml:"reason"`
}

// Catalog is the static template table. It is populated once and never
// mutated afterwards, so it is safe to share across goroutines.
type Catalog struct {
	templates map[models.Mood]map[models.Category][]Template
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the process-wide catalog parsed from the embedded
// YAML. The embedded catalog is validated at build time by tests, so a
// parse failure here means a broken binary and panics.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := ParseCatalog(catalogYAML)
		if err != nil {
			panic(fmt.Sprintf("embedded suggestion catalog is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// ParseCatalog parses catalog YAML and validates full (mood, category) coverage.
func ParseCatalog(data []byte) (*Catalog, error) {
	var raw map[string]map[string][]Template
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	templates := make(map[models.Mood]map[models.Category][]Template, len(raw))
	for moodKey, byCategory := range raw {
		mood := models.Mood(moodKey)
		if !mood.IsValid() {
			return nil, fmt.Errorf("catalog contains unknown mood %q", moodKey)
		}
		templates[mood] = make(map[models.Category][]Template, len(byCategory))
		for categoryKey, candidates := range byCategory {
			category := models.Category(categoryKey)
			if !category.IsValid() {
				return nil, fmt.Errorf("catalog contains unknown category %q under mood %q", categoryKey, moodKey)
			}
			for i, tmpl := range candidates {
				if tmpl.Title == "" || tmpl.Description == "" || tmpl.Reason == "" || tmpl.DurationMinutes <= 0 {
					return nil, fmt.Errorf("catalog template %d for (%s, %s) has missing fields", i, moodKey, categoryKey)
				}
			}
			templates[mood][category] = candidates
		}
	}

	c := &Catalog{templates: templates}
	if err := c.validateCoverage(); err != nil {
		return nil, err
	}
	return c, nil
}

// validateCoverage enforces the catalog invariant: every (mood, category)
// combination resolves to at least one template.
func (c *Catalog) validateCoverage() error {
	for _, mood := range models.Moods {
		byCategory, ok := c.templates[mood]
		if !ok {
			return fmt.Errorf("catalog has no templates for mood %q", mood)
		}
		for _, category := range models.Categories {
			if len(byCategory[category]) == 0 {
				return fmt.Errorf("catalog has no templates for (%s, %s)", mood, category)
			}
		}
	}
	return nil
}

// Candidates returns the templates for a (mood, category) pair. The
// returned slice must not be modified by the caller.
func (c *Catalog) Candidates(mood models.Mood, category models.Category) []Template {
	return c.templates[mood][category]
}

// Size returns the total number of templates in the catalog.
func (c *Catalog) Size() int {
	n := 0
	for _, byCategory := range c.templates {
		for _, candidates := range byCategory {
			n += len(candidates)
		}
	}
	return n
}
