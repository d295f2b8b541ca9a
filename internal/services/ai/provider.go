package ai

import (
	"context"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// SuggestionRequest carries everything the remote backend may use to bias
// phrasing. Only Mood is required; the rest enriches the prompt.
type SuggestionRequest struct {
	Mood                models.Mood       `json:"mood"`
	PreferredCategories []models.Category `json:"preferred_categories,omitempty"`
	ProfileSummary      string            `json:"profile_summary,omitempty"`
	RecentHabits        []string          `json:"recent_habits,omitempty"`
	StreakCount         int               `json:"streak_count"`
}

// SuggestionProvider is the interface for remote suggestion backends.
// Implementations must return either a complete suggestion or an error;
// the caller falls back to the local template generator on any error.
type SuggestionProvider interface {
	GenerateSuggestion(ctx context.Context, req *SuggestionRequest) (*models.Suggestion, error)
}
