package ai

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
)

type stubProvider struct {
	suggestion *models.Suggestion
	err        error
	calls      int
}

func (s *stubProvider) GenerateSuggestion(ctx context.Context, req *SuggestionRequest) (*models.Suggestion, error) {
	s.calls++
	return s.suggestion, s.err
}

func newLocalGenerator() *suggest.Generator {
	return suggest.NewGeneratorWithSource(suggest.DefaultCatalog(), rand.NewSource(7))
}

func TestCoachService_UsesRemoteWhenItSucceeds(t *testing.T) {
	t.Parallel()

	remote := &models.Suggestion{
		Title:           "Evening journaling",
		Description:     "Write three sentences about the day before bed.",
		Category:        models.CategoryMindfulness,
		DurationMinutes: 5,
		Prompt:          "You mentioned feeling stressed, and writing it down helps.",
		Source:          models.SuggestionSourceAI,
	}
	provider := &stubProvider{suggestion: remote}
	coach := NewCoachService(provider, newLocalGenerator(), nil)

	got := coach.Generate(context.Background(), &SuggestionRequest{Mood: models.MoodStressed})
	if got.Title != remote.Title {
		t.Errorf("Generate() title = %q, want remote title %q", got.Title, remote.Title)
	}
	if got.Source != models.SuggestionSourceAI {
		t.Errorf("Generate() source = %q, want %q", got.Source, models.SuggestionSourceAI)
	}
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestCoachService_FallsBackOnError(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("connection refused")}
	coach := NewCoachService(provider, newLocalGenerator(), nil)

	got := coach.Generate(context.Background(), &SuggestionRequest{
		Mood:                models.MoodTired,
		PreferredCategories: []models.Category{models.CategoryRelaxation},
	})

	if !got.IsComplete() {
		t.Fatalf("fallback suggestion is incomplete: %+v", got)
	}
	if got.Source != models.SuggestionSourceLocal {
		t.Errorf("Generate() source = %q, want %q", got.Source, models.SuggestionSourceLocal)
	}
	if !strings.Contains(got.Prompt, "tired") {
		t.Errorf("fallback prompt %q does not mention the mood", got.Prompt)
	}
	// Exactly one attempt against the remote backend: no retries.
	if provider.calls != 1 {
		t.Errorf("provider called %d times, want 1", provider.calls)
	}
}

func TestCoachService_FallsBackOnIncompleteRemoteSuggestion(t *testing.T) {
	t.Parallel()

	// Missing description and prompt: the response shape contract is violated.
	provider := &stubProvider{suggestion: &models.Suggestion{
		Title:    "Half a suggestion",
		Category: models.CategoryPhysical,
	}}
	coach := NewCoachService(provider, newLocalGenerator(), nil)

	got := coach.Generate(context.Background(), &SuggestionRequest{Mood: models.MoodEnergized})
	if !got.IsComplete() {
		t.Fatalf("fallback suggestion is incomplete: %+v", got)
	}
	if got.Source != models.SuggestionSourceLocal {
		t.Errorf("Generate() source = %q, want local fallback", got.Source)
	}
}

func TestCoachService_NilProviderGoesStraightToLocal(t *testing.T) {
	t.Parallel()

	coach := NewCoachService(nil, newLocalGenerator(), nil)

	got := coach.Generate(context.Background(), &SuggestionRequest{Mood: models.MoodHappy})
	if !got.IsComplete() {
		t.Fatalf("local suggestion is incomplete: %+v", got)
	}
	if got.Source != models.SuggestionSourceLocal {
		t.Errorf("Generate() source = %q, want %q", got.Source, models.SuggestionSourceLocal)
	}
}
