package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"go.uber.org/zap"
)

// Scheduler enqueues daily suggestion refresh jobs at each user's
// reminder hour.
type Scheduler struct {
	jobQueue    queue.JobQueue
	profileRepo database.ProfileRepositoryInterface
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(jobQueue queue.JobQueue, profileRepo database.ProfileRepositoryInterface, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		jobQueue:    jobQueue,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// ScheduleRefreshJobs creates one delayed refresh job per profiled user,
// timed to their next reminder hour.
func (s *Scheduler) ScheduleRefreshJobs(ctx context.Context) error {
	userIDs, err := s.profileRepo.UserIDsWithProfiles(ctx)
	if err != nil {
		return fmt.Errorf("failed to list profiled users: %w", err)
	}

	scheduled := 0
	for _, userID := range userIDs {
		profile, err := s.profileRepo.GetByUserID(ctx, userID)
		if err != nil {
			s.logger.Warn("failed_to_load_profile_for_scheduling",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}

		notBefore := nextReminderTime(time.Now(), profile.ReminderHour)
		if err := s.createRefreshJob(ctx, userID, notBefore); err != nil {
			s.logger.Warn("failed_to_schedule_refresh_job",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			continue
		}
		scheduled++
	}

	s.logger.Info("scheduled_refresh_jobs",
		zap.Int("user_count", len(userIDs)),
		zap.Int("scheduled", scheduled),
	)
	return nil
}

func (s *Scheduler) createRefreshJob(ctx context.Context, userID uuid.UUID, notBefore time.Time) error {
	job := queue.NewJob(queue.JobTypeSuggestionRefresh, userID, nil)
	job.NotBefore = &notBefore

	// Expire undelivered jobs after a day so they don't pile up
	notAfter := notBefore.Add(24 * time.Hour)
	job.NotAfter = &notAfter

	if err := s.jobQueue.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to enqueue refresh job: %w", err)
	}
	return nil
}

// nextReminderTime returns the next occurrence of the given hour. Hours
// outside 0-23 clamp to 8am.
func nextReminderTime(now time.Time, hour int) time.Time {
	if hour < 0 || hour > 23 {
		hour = 8
	}
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
