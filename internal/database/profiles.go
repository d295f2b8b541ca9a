package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// ProfileRepository handles user profile database operations
type ProfileRepository struct {
	db *DB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID retrieves a user's profile
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	var categoriesJSON []byte

	query := `
		SELECT user_id, preferred_categories, current_mood, reminder_hour, summary, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID,
		&categoriesJSON,
		&profile.CurrentMood,
		&profile.ReminderHour,
		&profile.Summary,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("profile not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	if err := json.Unmarshal(categoriesJSON, &profile.PreferredCategories); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferred categories: %w", err)
	}

	return profile, nil
}

// Upsert creates or replaces a user's profile
func (r *ProfileRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	categoriesJSON, err := json.Marshal(profile.PreferredCategories)
	if err != nil {
		return fmt.Errorf("failed to marshal preferred categories: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO user_profiles (user_id, preferred_categories, current_mood, reminder_hour, summary, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			preferred_categories = EXCLUDED.preferred_categories,
			current_mood = EXCLUDED.current_mood,
			reminder_hour = EXCLUDED.reminder_hour,
			summary = EXCLUDED.summary,
			updated_at = EXCLUDED.updated_at
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRowContext(ctx, query,
		profile.UserID,
		categoriesJSON,
		profile.CurrentMood,
		profile.ReminderHour,
		profile.Summary,
		now,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert profile: %w", err)
	}

	return nil
}

// UserIDsWithProfiles returns all user IDs that have a profile, used by
// the worker to fan out daily suggestion refresh jobs.
func (r *ProfileRepository) UserIDsWithProfiles(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id FROM user_profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query profiles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return ids, nil
}
