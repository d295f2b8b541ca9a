package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// HabitRepository handles habit database operations
type HabitRepository struct {
	db *DB
}

// NewHabitRepository creates a new habit repository
func NewHabitRepository(db *DB) *HabitRepository {
	return &HabitRepository{db: db}
}

// Create creates a new habit
func (r *HabitRepository) Create(ctx context.Context, habit *models.Habit) error {
	query := `
		INSERT INTO habits (id, user_id, title, description, category, duration_minutes, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		habit.ID,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.DurationMinutes,
		habit.Active,
		now,
		now,
	).Scan(&habit.CreatedAt, &habit.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create habit: %w", err)
	}

	return nil
}

// GetByID retrieves a habit by ID
func (r *HabitRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Habit, error) {
	habit := &models.Habit{}
	var archivedAt sql.NullTime

	query := `
		SELECT id, user_id, title, description, category, duration_minutes, active, created_at, updated_at, archived_at
		FROM habits
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&habit.ID,
		&habit.UserID,
		&habit.Title,
		&habit.Description,
		&habit.Category,
		&habit.DurationMinutes,
		&habit.Active,
		&habit.CreatedAt,
		&habit.UpdatedAt,
		&archivedAt,
	)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("habit not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get habit: %w", err)
	}

	if archivedAt.Valid {
		habit.ArchivedAt = &archivedAt.Time
	}

	return habit, nil
}

// GetByUserID retrieves habits for a user, optionally filtered by category
// and active state, newest first.
func (r *HabitRepository) GetByUserID(ctx context.Context, userID uuid.UUID, category *models.Category, activeOnly bool) ([]*models.Habit, error) {
	query := `
		SELECT id, user_id, title, description, category, duration_minutes, active, created_at, updated_at, archived_at
		FROM habits
		WHERE user_id = $1
	`
	args := []any{userID}
	argIndex := 2

	if category != nil {
		query += fmt.Sprintf(" AND category = $%d", argIndex)
		args = append(args, string(*category))
		argIndex++
	}

	if activeOnly {
		query += " AND active = true AND archived_at IS NULL"
	}

	query += " ORDER BY created_at DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	var habits []*models.Habit
	for rows.Next() {
		habit := &models.Habit{}
		var archivedAt sql.NullTime

		err := rows.Scan(
			&habit.ID,
			&habit.UserID,
			&habit.Title,
			&habit.Description,
			&habit.Category,
			&habit.DurationMinutes,
			&habit.Active,
			&habit.CreatedAt,
			&habit.UpdatedAt,
			&archivedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan habit: %w", err)
		}

		if archivedAt.Valid {
			habit.ArchivedAt = &archivedAt.Time
		}
		habits = append(habits, habit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate habits: %w", err)
	}

	return habits, nil
}

// Update updates a habit's mutable fields
func (r *HabitRepository) Update(ctx context.Context, habit *models.Habit) error {
	query := `
		UPDATE habits
		SET title = $1, description = $2, category = $3, duration_minutes = $4, active = $5, updated_at = $6
		WHERE id = $7
		RETURNING updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.DurationMinutes,
		habit.Active,
		time.Now(),
		habit.ID,
	).Scan(&habit.UpdatedAt)

	if err == sql.ErrNoRows {
		return fmt.Errorf("habit not found: %w", err)
	}
	if err != nil {
		return fmt.Errorf("failed to update habit: %w", err)
	}

	return nil
}

// Archive soft-deletes a habit. Completion history is kept.
func (r *HabitRepository) Archive(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE habits
		SET active = false, archived_at = $1, updated_at = $1
		WHERE id = $2 AND archived_at IS NULL
	`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to archive habit: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check archive result: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("habit not found or already archived")
	}

	return nil
}
