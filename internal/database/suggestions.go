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

// SuggestionRepository persists generated suggestions, primarily the
// precomputed daily suggestion written by the refresh worker.
type SuggestionRepository struct {
	db *DB
}

// NewSuggestionRepository creates a new suggestion repository
func NewSuggestionRepository(db *DB) *SuggestionRepository {
	return &SuggestionRepository{db: db}
}

// Save stores a generated suggestion for a user
func (r *SuggestionRepository) Save(ctx context.Context, stored *models.StoredSuggestion) error {
	suggestionJSON, err := json.Marshal(stored.Suggestion)
	if err != nil {
		return fmt.Errorf("failed to marshal suggestion: %w", err)
	}

	query := `
		INSERT INTO suggestions (id, user_id, suggestion, mood, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err = r.db.QueryRowContext(ctx, query,
		stored.ID,
		stored.UserID,
		suggestionJSON,
		stored.Mood,
		time.Now(),
	).Scan(&stored.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}

	return nil
}

// GetLatest retrieves the most recent stored suggestion for a user
func (r *SuggestionRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*models.StoredSuggestion, error) {
	stored := &models.StoredSuggestion{}
	var suggestionJSON []byte

	query := `
		SELECT id, user_id, suggestion, mood, created_at
		FROM suggestions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&stored.ID,
		&stored.UserID,
		&suggestionJSON,
		&stored.Mood,
		&stored.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("no stored suggestion: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get suggestion: %w", err)
	}

	if err := json.Unmarshal(suggestionJSON, &stored.Suggestion); err != nil {
		return nil, fmt.Errorf("failed to unmarshal suggestion: %w", err)
	}

	return stored, nil
}

// DeleteOlderThan removes stored suggestions older than the cutoff,
// keeping the table from growing without bound.
func (r *SuggestionRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM suggestions WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to delete old suggestions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete result: %w", err)
	}
	return rows, nil
}
