package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

// CompletionRepository handles habit completion records
type CompletionRepository struct {
	db *DB
}

// NewCompletionRepository creates a new completion repository
func NewCompletionRepository(db *DB) *CompletionRepository {
	return &CompletionRepository{db: db}
}

// Record stores a completion for a habit on a given day. Recording the
// same day twice is idempotent: the first record wins and no error is
// returned.
func (r *CompletionRepository) Record(ctx context.Context, completion *models.HabitCompletion) error {
	query := `
		INSERT INTO habit_completions (id, habit_id, user_id, completed_on, mood, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (habit_id, completed_on) DO NOTHING
	`

	day := completion.CompletedOn.UTC().Truncate(24 * time.Hour)
	_, err := r.db.ExecContext(ctx, query,
		completion.ID,
		completion.HabitID,
		completion.UserID,
		day,
		completion.Mood,
		completion.Note,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	completion.CompletedOn = day
	return nil
}

// RecentTitles returns the titles of habits the user completed within the
// last `days` days, most recent first. Used to bias AI suggestion phrasing.
func (r *CompletionRepository) RecentTitles(ctx context.Context, userID uuid.UUID, days int) ([]string, error) {
	query := `
		SELECT DISTINCT h.title, MAX(c.completed_on) AS last_done
		FROM habit_completions c
		JOIN habits h ON h.id = c.habit_id
		WHERE c.user_id = $1 AND c.completed_on >= $2
		GROUP BY h.title
		ORDER BY last_done DESC
	`

	since := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := r.db.QueryContext(ctx, query, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		var lastDone time.Time
		if err := rows.Scan(&title, &lastDone); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completions: %w", err)
	}

	return titles, nil
}

// completionDays returns the distinct completion days for a habit, newest first.
func (r *CompletionRepository) completionDays(ctx context.Context, habitID uuid.UUID) ([]time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT completed_on
		FROM habit_completions
		WHERE habit_id = $1
		ORDER BY completed_on DESC
	`, habitID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completion days: %w", err)
	}
	defer rows.Close()

	var days []time.Time
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan completion day: %w", err)
		}
		days = append(days, day.UTC().Truncate(24*time.Hour))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate completion days: %w", err)
	}

	return days, nil
}

// Streak computes current streak, longest streak, and 30-day completion
// rate for a habit. The current streak tolerates a missing "today" so a
// user who has not checked in yet does not see their streak drop to zero.
func (r *CompletionRepository) Streak(ctx context.Context, habitID uuid.UUID) (*models.StreakInfo, error) {
	days, err := r.completionDays(ctx, habitID)
	if err != nil {
		return nil, err
	}

	info := &models.StreakInfo{HabitID: habitID}
	if len(days) == 0 {
		return info, nil
	}

	last := days[0]
	info.LastCompleted = &last

	today := time.Now().UTC().Truncate(24 * time.Hour)
	info.CurrentStreak = currentStreak(days, today)
	info.LongestStreak = longestStreak(days)

	// 30-day completion rate, counting today.
	cutoff := today.AddDate(0, 0, -29)
	recent := 0
	for _, d := range days {
		if !d.Before(cutoff) && !d.After(today) {
			recent++
		}
	}
	info.CompletionRate = float64(recent) / 30.0

	return info, nil
}

// currentStreak counts consecutive days ending today or yesterday.
// days must be distinct, truncated to UTC midnight, newest first.
func currentStreak(days []time.Time, today time.Time) int {
	if len(days) == 0 {
		return 0
	}

	expect := today
	if !days[0].Equal(today) {
		// Not completed today yet; the streak survives if yesterday was done.
		expect = today.AddDate(0, 0, -1)
	}

	streak := 0
	for _, d := range days {
		if !d.Equal(expect) {
			break
		}
		streak++
		expect = expect.AddDate(0, 0, -1)
	}
	return streak
}

// longestStreak finds the longest run of consecutive days.
// days must be distinct, truncated to UTC midnight, newest first.
func longestStreak(days []time.Time) int {
	longest, run := 0, 0
	var prev time.Time

	for i, d := range days {
		if i == 0 || prev.AddDate(0, 0, -1).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = d
	}
	return longest
}

// UserStreak returns the best current streak across the user's active
// habits. Used to bias AI suggestion phrasing.
func (r *CompletionRepository) UserStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id FROM habits
		WHERE user_id = $1 AND active = true AND archived_at IS NULL
	`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to query active habits: %w", err)
	}
	defer rows.Close()

	var habitIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("failed to scan habit id: %w", err)
		}
		habitIDs = append(habitIDs, id)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate habits: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	best := 0
	for _, habitID := range habitIDs {
		days, err := r.completionDays(ctx, habitID)
		if err != nil {
			return 0, err
		}
		if s := currentStreak(days, today); s > best {
			best = s
		}
	}
	return best, nil
}

// CountOnDay returns how many habits the user completed on the given day.
func (r *CompletionRepository) CountOnDay(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM habit_completions
		WHERE user_id = $1 AND completed_on = $2
	`, userID, day.UTC().Truncate(24*time.Hour)).Scan(&count)
	if err != nil && err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}
