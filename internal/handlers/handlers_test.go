package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
)

// Shared stubs for handler tests.

type stubProfileRepo struct {
	profile *models.UserProfile
	saved   *models.UserProfile
	err     error
}

func (r *stubProfileRepo) GetByUserID(_ context.Context, _ uuid.UUID) (*models.UserProfile, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.profile == nil {
		return nil, errors.New("profile not found")
	}
	return r.profile, nil
}

func (r *stubProfileRepo) Upsert(_ context.Context, profile *models.UserProfile) error {
	r.saved = profile
	return nil
}

func (r *stubProfileRepo) UserIDsWithProfiles(_ context.Context) ([]uuid.UUID, error) {
	return nil, nil
}

type stubSuggestionRepo struct {
	latest *models.StoredSuggestion
	saved  []*models.StoredSuggestion
}

func (r *stubSuggestionRepo) Save(_ context.Context, stored *models.StoredSuggestion) error {
	r.saved = append(r.saved, stored)
	return nil
}

func (r *stubSuggestionRepo) GetLatest(_ context.Context, _ uuid.UUID) (*models.StoredSuggestion, error) {
	if r.latest == nil {
		return nil, errors.New("no suggestion stored")
	}
	return r.latest, nil
}

func (r *stubSuggestionRepo) DeleteOlderThan(_ context.Context, _ time.Time) (int64, error) {
	return 0, nil
}

type stubCompletionRepo struct {
	recorded   []*models.HabitCompletion
	titles     []string
	streak     *models.StreakInfo
	userStreak int
	doneToday  int
}

func (r *stubCompletionRepo) Record(_ context.Context, completion *models.HabitCompletion) error {
	r.recorded = append(r.recorded, completion)
	return nil
}

func (r *stubCompletionRepo) RecentTitles(_ context.Context, _ uuid.UUID, _ int) ([]string, error) {
	return r.titles, nil
}

func (r *stubCompletionRepo) Streak(_ context.Context, habitID uuid.UUID) (*models.StreakInfo, error) {
	if r.streak != nil {
		return r.streak, nil
	}
	return &models.StreakInfo{HabitID: habitID}, nil
}

func (r *stubCompletionRepo) UserStreak(_ context.Context, _ uuid.UUID) (int, error) {
	return r.userStreak, nil
}

func (r *stubCompletionRepo) CountOnDay(_ context.Context, _ uuid.UUID, _ time.Time) (int, error) {
	return r.doneToday, nil
}

type stubHabitRepo struct {
	habits   map[uuid.UUID]*models.Habit
	created  []*models.Habit
	archived []uuid.UUID
}

func newStubHabitRepo(habits ...*models.Habit) *stubHabitRepo {
	m := make(map[uuid.UUID]*models.Habit)
	for _, h := range habits {
		m[h.ID] = h
	}
	return &stubHabitRepo{habits: m}
}

func (r *stubHabitRepo) Create(_ context.Context, habit *models.Habit) error {
	r.created = append(r.created, habit)
	r.habits[habit.ID] = habit
	return nil
}

func (r *stubHabitRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Habit, error) {
	if h, ok := r.habits[id]; ok {
		return h, nil
	}
	return nil, errors.New("habit not found")
}

func (r *stubHabitRepo) GetByUserID(_ context.Context, userID uuid.UUID, category *models.Category, activeOnly bool) ([]*models.Habit, error) {
	var out []*models.Habit
	for _, h := range r.habits {
		if h.UserID != userID {
			continue
		}
		if category != nil && h.Category != *category {
			continue
		}
		if activeOnly && !h.Active {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

func (r *stubHabitRepo) Update(_ context.Context, habit *models.Habit) error {
	r.habits[habit.ID] = habit
	return nil
}

func (r *stubHabitRepo) Archive(_ context.Context, id uuid.UUID) error {
	r.archived = append(r.archived, id)
	return nil
}

type stubJobQueue struct {
	enqueued []*queue.Job
}

func (q *stubJobQueue) Enqueue(_ context.Context, job *queue.Job) error {
	q.enqueued = append(q.enqueued, job)
	return nil
}

func (q *stubJobQueue) Consume(_ context.Context, _ int) (<-chan *queue.Message, <-chan error, error) {
	return nil, nil, errors.New("not implemented")
}

func (q *stubJobQueue) Close() error                        { return nil }
func (q *stubJobQueue) HealthCheck(_ context.Context) error { return nil }

// withUser attaches a test user to the request context
func withUser(r *http.Request, user *models.User) *http.Request {
	return r.WithContext(request.WithUser(r.Context(), user))
}

func testUser() *models.User {
	return &models.User{ID: uuid.New(), Email: "tester@example.com"}
}
