package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a user in the system
type User struct {
	ID         uuid.UUID `json:"id"`
	Email      string    `json:"email"`
	ProviderID *string   `json:"provider_id,omitempty"`
	Name       *string   `json:"name,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// UserProfile carries the preferences the suggestion paths read: the
// categories the user wants suggestions from, their most recent mood, and
// when they like to be nudged.
type UserProfile struct {
	UserID              uuid.UUID  `json:"user_id"`
	PreferredCategories []Category `json:"preferred_categories"`
	CurrentMood         Mood       `json:"current_mood"`
	ReminderHour        int        `json:"reminder_hour"`
	Summary             string     `json:"summary,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}
