package models

import (
	"time"

	"github.com/google/uuid"
)

// Habit represents a small recurring habit a user tracks
type Habit struct {
	ID              uuid.UUID  `json:"id"`
	UserID          uuid.UUID  `json:"user_id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        Category   `json:"category"`
	DurationMinutes int        `json:"duration_minutes"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	ArchivedAt      *time.Time `json:"archived_at,omitempty"`
}

// HabitCompletion records one check-in for a habit on a given day.
// A habit can only be completed once per day; repeats are idempotent.
type HabitCompletion struct {
	ID          uuid.UUID `json:"id"`
	HabitID     uuid.UUID `json:"habit_id"`
	UserID      uuid.UUID `json:"user_id"`
	CompletedOn time.Time `json:"completed_on"`
	Mood        Mood      `json:"mood,omitempty"`
	Note        string    `json:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// StreakInfo summarizes a habit's completion history
type StreakInfo struct {
	HabitID        uuid.UUID `json:"habit_id"`
	CurrentStreak  int       `json:"current_streak"`
	LongestStreak  int       `json:"longest_streak"`
	CompletionRate float64   `json:"completion_rate"`
	LastCompleted  *time.Time `json:"last_completed,omitempty"`
}
