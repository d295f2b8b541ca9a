package suggest

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// defaultCategoryForMood picks the fallback category when the caller has no
// preferred categories. The default is derived from the mood rather than a
// single global constant, so an empty preference list still produces a
// suggestion that fits the moment.
var defaultCategoryForMood = map[models.Mood]models.Category{
	models.MoodStressed:  models.CategoryMindfulness,
	models.MoodEnergized: models.CategoryPhysical,
	models.MoodTired:     models.CategoryRelaxation,
	models.MoodHappy:     models.CategorySocial,
	models.MoodCalm:      models.CategoryProductivity,
	models.MoodAnxious:   models.CategoryMindfulness,
}

// Generator produces habit suggestions from the static template catalog.
// Repeated calls with identical inputs may return different templates; that
// randomness is deliberate, to keep the suggestion card from going stale.
type Generator struct {
	catalog *Catalog

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator over the default embedded catalog.
func NewGenerator() *Generator {
	return NewGeneratorWithSource(DefaultCatalog(), rand.NewSource(time.Now().UnixNano()))
}

// NewGeneratorWithSource creates a generator with an explicit catalog and
// randomness source. Tests use a fixed seed here.
func NewGeneratorWithSource(catalog *Catalog, src rand.Source) *Generator {
	return &Generator{
		catalog: catalog,
		rng:     rand.New(src),
	}
}

// Generate returns a suggestion for the given mood and preferred
// categories. It is total over its input domain: out-of-range moods and
// categories fall back to safe defaults and the empty preference list falls
// back to a mood-derived category, so the caller never has to handle an
// error on this path.
func (g *Generator) Generate(mood models.Mood, preferred []models.Category) models.Suggestion {
	if !mood.IsValid() {
		mood = models.MoodStressed
	}

	category := g.chooseCategory(mood, preferred)

	candidates := g.catalog.Candidates(mood, category)
	if len(candidates) == 0 {
		// Catalog coverage is validated at startup, so this only happens
		// with a hand-built partial catalog. Fall back to the pair that is
		// always present.
		category = models.CategoryMindfulness
		candidates = g.catalog.Candidates(models.MoodStressed, category)
	}

	tmpl := candidates[g.intn(len(candidates))]

	return models.Suggestion{
		Title:           tmpl.Title,
		Description:     tmpl.Description,
		Category:        category,
		DurationMinutes: tmpl.DurationMinutes,
		Prompt:          buildPrompt(mood, tmpl),
		Source:          models.SuggestionSourceLocal,
	}
}

// chooseCategory picks uniformly among the valid preferred categories, or
// derives a default from the mood when none are usable.
func (g *Generator) chooseCategory(mood models.Mood, preferred []models.Category) models.Category {
	valid := make([]models.Category, 0, len(preferred))
	for _, c := range preferred {
		if c.IsValid() {
			valid = append(valid, c)
		}
	}

	if len(valid) == 0 {
		return defaultCategoryForMood[mood]
	}
	return valid[g.intn(len(valid))]
}

func (g *Generator) intn(n int) int {
	if n <= 1 {
		return 0
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// buildPrompt composes the human-readable reasoning for a suggestion. The
// lowercase mood name always appears verbatim in the result.
func buildPrompt(mood models.Mood, tmpl Template) string {
	return fmt.Sprintf("You're feeling %s right now, and %s.",
		strings.ToLower(string(mood)), tmpl.Reason)
}
