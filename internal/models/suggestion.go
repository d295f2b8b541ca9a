package models

import (
	"time"

	"github.com/google/uuid"
)

// SuggestionSource identifies which path produced a suggestion
type SuggestionSource string

const (
	// SuggestionSourceLocal means the suggestion came from the in-process template generator
	SuggestionSourceLocal SuggestionSource = "local"
	// SuggestionSourceAI means the suggestion came from the remote generative backend
	SuggestionSourceAI SuggestionSource = "ai"
)

// Suggestion is a proposed habit, either from the template catalog or from
// the AI backend. Every field is populated on every successful generation.
type Suggestion struct {
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Category        Category         `json:"category"`
	DurationMinutes int              `json:"duration_minutes"`
	Prompt          string           `json:"prompt"`
	Source          SuggestionSource `json:"source,omitempty"`
}

// IsComplete reports whether every required field carries a usable value.
// Responses from the remote backend are discarded when this is false.
func (s *Suggestion) IsComplete() bool {
	return s != nil &&
		s.Title != "" &&
		s.Description != "" &&
		s.Category.IsValid() &&
		s.DurationMinutes > 0 &&
		s.Prompt != ""
}

// StoredSuggestion is a suggestion persisted for a user, typically the
// precomputed daily suggestion written by the refresh worker.
type StoredSuggestion struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"user_id"`
	Suggestion Suggestion `json:"suggestion"`
	Mood       Mood       `json:"mood"`
	CreatedAt  time.Time  `json:"created_at"`
}
