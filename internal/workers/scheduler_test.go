package workers

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"go.uber.org/zap"
)

func TestNextReminderTime(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		hour int
		want time.Time
	}{
		{"later today", 20, time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)},
		{"already passed rolls to tomorrow", 8, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)},
		{"current hour rolls to tomorrow", 12, time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)},
		{"negative clamps to 8am tomorrow", -1, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)},
		{"out of range clamps to 8am tomorrow", 24, time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := nextReminderTime(base, tt.hour); !got.Equal(tt.want) {
				t.Errorf("nextReminderTime(%v, %d) = %v, want %v", base, tt.hour, got, tt.want)
			}
		})
	}
}

func TestScheduleRefreshJobs(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	profiles := &stubProfileRepo{
		userIDs: []uuid.UUID{userID},
		profile: &models.UserProfile{UserID: userID, ReminderHour: 7},
	}
	jobQueue := &stubJobQueue{}

	s := NewScheduler(jobQueue, profiles, zap.NewNop())
	if err := s.ScheduleRefreshJobs(context.Background()); err != nil {
		t.Fatalf("ScheduleRefreshJobs() error = %v", err)
	}

	if len(jobQueue.enqueued) != 1 {
		t.Fatalf("Expected 1 job enqueued, got %d", len(jobQueue.enqueued))
	}

	job := jobQueue.enqueued[0]
	if job.Type != queue.JobTypeSuggestionRefresh {
		t.Errorf("Expected suggestion refresh job, got %q", job.Type)
	}
	if job.UserID != userID {
		t.Errorf("Expected user %v, got %v", userID, job.UserID)
	}
	if job.NotBefore == nil {
		t.Fatal("Expected NotBefore to be set")
	}
	if job.NotBefore.Hour() != 7 {
		t.Errorf("Expected NotBefore at hour 7, got %d", job.NotBefore.Hour())
	}
	if job.NotAfter == nil {
		t.Fatal("Expected NotAfter to be set")
	}
	if got := job.NotAfter.Sub(*job.NotBefore); got != 24*time.Hour {
		t.Errorf("Expected 24h expiry window, got %v", got)
	}
}

func TestScheduleRefreshJobsNoUsers(t *testing.T) {
	t.Parallel()

	jobQueue := &stubJobQueue{}
	s := NewScheduler(jobQueue, &stubProfileRepo{}, zap.NewNop())

	if err := s.ScheduleRefreshJobs(context.Background()); err != nil {
		t.Fatalf("ScheduleRefreshJobs() error = %v", err)
	}
	if len(jobQueue.enqueued) != 0 {
		t.Errorf("Expected no jobs enqueued, got %d", len(jobQueue.enqueued))
	}
}
