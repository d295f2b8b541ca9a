package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"github.com/iyad07/micro-habit-coach-sub001/internal/services/ai"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
	"go.uber.org/zap"
)

// SuggestionRefresher processes suggestion refresh and streak recalc jobs.
// The remote provider may be nil, in which case every refresh uses the
// local template generator.
type SuggestionRefresher struct {
	provider       ai.SuggestionProvider
	local          *suggest.Generator
	profileRepo    database.ProfileRepositoryInterface
	suggestionRepo database.SuggestionRepositoryInterface
	completionRepo database.CompletionRepositoryInterface
	habitRepo      database.HabitRepositoryInterface
	jobQueue       queue.JobQueue // for re-enqueueing delayed retries
	logger         *zap.Logger
}

// NewSuggestionRefresher creates a new suggestion refresher
func NewSuggestionRefresher(
	provider ai.SuggestionProvider,
	local *suggest.Generator,
	profileRepo database.ProfileRepositoryInterface,
	suggestionRepo database.SuggestionRepositoryInterface,
	completionRepo database.CompletionRepositoryInterface,
	habitRepo database.HabitRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *SuggestionRefresher {
	return &SuggestionRefresher{
		provider:       provider,
		local:          local,
		profileRepo:    profileRepo,
		suggestionRepo: suggestionRepo,
		completionRepo: completionRepo,
		habitRepo:      habitRepo,
		jobQueue:       jobQueue,
		logger:         logger,
	}
}

// ProcessSuggestionRefreshJob generates and stores a fresh suggestion for
// the user. Retryable provider errors (rate limit, quota) propagate so the
// job can be re-enqueued with a delay; anything else falls back to the
// local generator since a template suggestion beats no suggestion.
func (w *SuggestionRefresher) ProcessSuggestionRefreshJob(ctx context.Context, job *queue.Job) error {
	ctx = context.WithValue(ctx, ai.UserIDContextKey(), job.UserID)
	ctx = context.WithValue(ctx, ai.RequestIDContextKey(), job.ID.String())
	req := w.buildRequest(ctx, job.UserID)

	var suggestion models.Suggestion
	generated := false

	if w.provider != nil {
		remote, err := w.provider.GenerateSuggestion(ctx, req)
		switch {
		case err != nil && (ai.IsRateLimitError(err) || ai.IsQuotaError(err)):
			return err
		case err != nil:
			w.logger.Warn("remote_suggestion_failed_falling_back",
				zap.String("user_id", job.UserID.String()),
				zap.Error(err),
			)
		case !remote.IsComplete():
			w.logger.Warn("remote_suggestion_incomplete_falling_back",
				zap.String("user_id", job.UserID.String()),
			)
		default:
			suggestion = *remote
			generated = true
		}
	}

	if !generated {
		suggestion = w.local.Generate(req.Mood, req.PreferredCategories)
	}

	stored := &models.StoredSuggestion{
		ID:         uuid.New(),
		UserID:     job.UserID,
		Suggestion: suggestion,
		Mood:       req.Mood,
		CreatedAt:  time.Now(),
	}
	if err := w.suggestionRepo.Save(ctx, stored); err != nil {
		return fmt.Errorf("failed to save suggestion: %w", err)
	}

	w.logger.Info("suggestion_refreshed",
		zap.String("user_id", job.UserID.String()),
		zap.String("category", string(suggestion.Category)),
		zap.String("source", string(suggestion.Source)),
	)
	return nil
}

// buildRequest assembles the generation request from whatever profile and
// history exist. Missing data degrades to defaults rather than failing.
func (w *SuggestionRefresher) buildRequest(ctx context.Context, userID uuid.UUID) *ai.SuggestionRequest {
	req := &ai.SuggestionRequest{
		Mood: models.MoodStressed,
	}

	profile, err := w.profileRepo.GetByUserID(ctx, userID)
	if err == nil && profile != nil {
		if profile.CurrentMood.IsValid() {
			req.Mood = profile.CurrentMood
		}
		req.PreferredCategories = profile.PreferredCategories
		req.ProfileSummary = profile.Summary
	}

	if recent, err := w.completionRepo.RecentTitles(ctx, userID, 7); err == nil {
		req.RecentHabits = recent
	}

	if streak, err := w.completionRepo.UserStreak(ctx, userID); err == nil {
		req.StreakCount = streak
	}

	return req
}

// ProcessStreakRecalcJob recomputes streaks for a user's habits. When a
// streak has just broken, a suggestion refresh is enqueued so the next
// nudge reflects the reset.
func (w *SuggestionRefresher) ProcessStreakRecalcJob(ctx context.Context, job *queue.Job) error {
	var habits []*models.Habit
	if job.HabitID != nil {
		habit, err := w.habitRepo.GetByID(ctx, *job.HabitID)
		if err != nil {
			return fmt.Errorf("failed to get habit: %w", err)
		}
		if habit.UserID != job.UserID {
			return fmt.Errorf("habit does not belong to user")
		}
		habits = []*models.Habit{habit}
	} else {
		var err error
		habits, err = w.habitRepo.GetByUserID(ctx, job.UserID, nil, true)
		if err != nil {
			return fmt.Errorf("failed to get habits: %w", err)
		}
	}

	broken := 0
	for _, habit := range habits {
		streak, err := w.completionRepo.Streak(ctx, habit.ID)
		if err != nil {
			w.logger.Warn("failed_to_compute_streak",
				zap.String("habit_id", habit.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if streak.CurrentStreak == 0 && streak.LongestStreak > 0 {
			broken++
		}
	}

	if broken > 0 && w.jobQueue != nil {
		refresh := queue.NewJob(queue.JobTypeSuggestionRefresh, job.UserID, nil)
		if err := w.jobQueue.Enqueue(ctx, refresh); err != nil {
			w.logger.Warn("failed_to_enqueue_refresh_after_broken_streak",
				zap.String("user_id", job.UserID.String()),
				zap.Error(err),
			)
		}
	}

	w.logger.Info("streaks_recalculated",
		zap.String("user_id", job.UserID.String()),
		zap.Int("habit_count", len(habits)),
		zap.Int("broken_streaks", broken),
	)
	return nil
}

// ProcessJob processes a job based on its type
func (w *SuggestionRefresher) ProcessJob(ctx context.Context, msg *queue.Message) error {
	job := msg.Job

	if !job.ShouldProcess() {
		w.logger.Info("job_not_ready_skipping",
			zap.String("job_id", job.ID.String()),
		)
		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("failed_to_ack_deferred_job", zap.Error(ackErr))
		}
		return nil
	}

	switch job.Type {
	case queue.JobTypeSuggestionRefresh:
		if err := w.ProcessSuggestionRefreshJob(ctx, job); err != nil {
			return w.handleJobError(ctx, msg, job, err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack job: %w", ackErr)
		}
		return nil

	case queue.JobTypeStreakRecalc:
		if err := w.ProcessStreakRecalcJob(ctx, job); err != nil {
			// Streak recalc is best-effort, don't requeue
			if nackErr := msg.Nack(false); nackErr != nil {
				w.logger.Warn("failed_to_nack_streak_job", zap.Error(nackErr))
			}
			return fmt.Errorf("streak recalc failed: %w", err)
		}
		if ackErr := msg.Ack(); ackErr != nil {
			return fmt.Errorf("failed to ack streak job: %w", ackErr)
		}
		return nil

	default:
		// Unknown job type goes to the DLQ
		if nackErr := msg.Nack(false); nackErr != nil {
			w.logger.Warn("failed_to_nack_unknown_job", zap.Error(nackErr))
		}
		return fmt.Errorf("unknown job type: %s", job.Type)
	}
}

// handleJobError applies retry policy based on the error class
func (w *SuggestionRefresher) handleJobError(ctx context.Context, msg *queue.Message, job *queue.Job, err error) error {
	// Quota and rate-limit errors are re-enqueued with a delay so the
	// delayed exchange handles the wait instead of the worker
	if ai.IsQuotaError(err) || ai.IsRateLimitError(err) {
		retryDelay := ai.GetRetryDelay(err, job.RetryCount)
		notBefore := time.Now().Add(retryDelay)

		w.logger.Warn("provider_throttled_delaying_job",
			zap.String("job_id", job.ID.String()),
			zap.Duration("retry_delay", retryDelay),
			zap.Error(err),
		)

		delayedJob := &queue.Job{
			ID:         job.ID,
			Type:       job.Type,
			UserID:     job.UserID,
			HabitID:    job.HabitID,
			NotBefore:  &notBefore,
			NotAfter:   job.NotAfter,
			Metadata:   job.Metadata,
			CreatedAt:  job.CreatedAt,
			RetryCount: job.RetryCount + 1,
			MaxRetries: job.MaxRetries,
		}

		if ackErr := msg.Ack(); ackErr != nil {
			w.logger.Warn("failed_to_ack_before_reenqueue", zap.Error(ackErr))
		}

		if w.jobQueue != nil {
			if enqueueErr := w.jobQueue.Enqueue(ctx, delayedJob); enqueueErr != nil {
				return fmt.Errorf("throttled, failed to re-enqueue: %w", enqueueErr)
			}
			return nil
		}

		return fmt.Errorf("throttled (job %s): %w", job.ID, err)
	}

	if job.CanRetry() {
		job.IncrementRetry()
		w.logger.Warn("job_failed_will_retry",
			zap.String("job_id", job.ID.String()),
			zap.Int("attempt", job.RetryCount),
			zap.Int("max_retries", job.MaxRetries),
			zap.Error(err),
		)
		if nackErr := msg.Nack(true); nackErr != nil {
			w.logger.Warn("failed_to_nack_job", zap.Error(nackErr))
		}
		return fmt.Errorf("job failed (will retry): %w", err)
	}

	w.logger.Error("job_failed_sending_to_dlq",
		zap.String("job_id", job.ID.String()),
		zap.Int("max_retries", job.MaxRetries),
		zap.Error(err),
	)
	if nackErr := msg.Nack(false); nackErr != nil {
		w.logger.Warn("failed_to_nack_job_to_dlq", zap.Error(nackErr))
	}
	return fmt.Errorf("job failed (max retries): %w", err)
}
