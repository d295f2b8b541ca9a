package database

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// HabitRepositoryInterface defines the interface for habit repository operations.
// Interfaces here exist so handlers and workers can be tested against mocks.
type HabitRepositoryInterface interface {
	Create(ctx context.Context, habit *models.Habit) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error)
	GetByUserID(ctx context.Context, userID uuid.UUID, category *models.Category, activeOnly bool) ([]*models.Habit, error)
	Update(ctx context.Context, habit *models.Habit) error
	Archive(ctx context.Context, id uuid.UUID) error
}

// CompletionRepositoryInterface defines the interface for completion repository operations
type CompletionRepositoryInterface interface {
	Record(ctx context.Context, completion *models.HabitCompletion) error
	RecentTitles(ctx context.Context, userID uuid.UUID, days int) ([]string, error)
	Streak(ctx context.Context, habitID uuid.UUID) (*models.StreakInfo, error)
	UserStreak(ctx context.Context, userID uuid.UUID) (int, error)
	CountOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
}

// ProfileRepositoryInterface defines the interface for profile repository operations
type ProfileRepositoryInterface interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile) error
	UserIDsWithProfiles(ctx context.Context) ([]uuid.UUID, error)
}

// SuggestionRepositoryInterface defines the interface for suggestion repository operations
type SuggestionRepositoryInterface interface {
	Save(ctx context.Context, stored *models.StoredSuggestion) error
	GetLatest(ctx context.Context, userID uuid.UUID) (*models.StoredSuggestion, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Ensure concrete types implement the interfaces
var (
	_ HabitRepositoryInterface      = (*HabitRepository)(nil)
	_ CompletionRepositoryInterface = (*CompletionRepository)(nil)
	_ ProfileRepositoryInterface    = (*ProfileRepository)(nil)
	_ SuggestionRepositoryInterface = (*SuggestionRepository)(nil)
)
