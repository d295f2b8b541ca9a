package suggest

import (
	"testing"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

func TestDefaultCatalog_CoversEveryMoodCategoryPair(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	for _, mood := range models.Moods {
		for _, category := range models.Categories {
			if len(c.Candidates(mood, category)) == 0 {
				t.Errorf("no templates for (%s, %s)", mood, category)
			}
		}
	}
}

func TestDefaultCatalog_TemplatesAreWellFormed(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	for _, mood := range models.Moods {
		for _, category := range models.Categories {
			for i, tmpl := range c.Candidates(mood, category) {
				if tmpl.Title == "" || tmpl.Description == "" || tmpl.Reason == "" {
					t.Errorf("template %d for (%s, %s) has empty fields: %+v", i, mood, category, tmpl)
				}
				if tmpl.DurationMinutes <= 0 {
					t.Errorf("template %d for (%s, %s) has non-positive duration", i, mood, category)
				}
			}
		}
	}
}

func TestParseCatalog_RejectsBadInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		yaml string
	}{
		{"not yaml", "{{{"},
		{"unknown mood", "furious:\n  mindfulness:\n    - title: a\n      description: b\n      duration_minutes: 5\n      reason: c\n"},
		{"unknown category", "stressed:\n  finance:\n    - title: a\n      description: b\n      duration_minutes: 5\n      reason: c\n"},
		{"missing coverage", "stressed:\n  mindfulness:\n    - title: a\n      description: b\n      duration_minutes: 5\n      reason: c\n"},
		{"missing fields", "stressed:\n  mindfulness:\n    - title: a\n      duration_minutes: 5\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, err := ParseCatalog([]byte(tt.yaml)); err == nil {
				t.Error("ParseCatalog accepted invalid catalog")
			}
		})
	}
}

func TestDefaultCatalog_Size(t *testing.T) {
	t.Parallel()

	c := DefaultCatalog()
	// 6 moods x 5 categories, at least one template each.
	if c.Size() < len(models.Moods)*len(models.Categories) {
		t.Errorf("catalog size %d is below full coverage minimum %d", c.Size(), len(models.Moods)*len(models.Categories))
	}
}
