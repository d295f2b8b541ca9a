package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"go.uber.org/zap"
)

func newHabitTestRouter(habits *stubHabitRepo, completions *stubCompletionRepo, jobQueue *stubJobQueue) *mux.Router {
	handler := NewHabitHandler(habits, completions, jobQueue, zap.NewNop())

	r := mux.NewRouter()
	handler.RegisterRoutes(r.PathPrefix("/api/v1/habits").Subrouter())
	return r
}

func TestCreateHabit(t *testing.T) {
	t.Parallel()

	habits := newStubHabitRepo()
	router := newHabitTestRouter(habits, &stubCompletionRepo{}, &stubJobQueue{})

	payload := `{"title":"Morning stretch","description":"Five minutes of light stretching.","category":"physical","duration_minutes":5}`
	req := httptest.NewRequest("POST", "/api/v1/habits", strings.NewReader(payload))
	req = withUser(req, testUser())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d", resp.StatusCode)
	}
	if len(habits.created) != 1 {
		t.Fatalf("Expected 1 habit created, got %d", len(habits.created))
	}
	created := habits.created[0]
	if created.Category != models.CategoryPhysical {
		t.Errorf("Expected category physical, got %q", created.Category)
	}
	if !created.Active {
		t.Error("Expected new habit to be active")
	}
}

func TestListHabitsIncludesDailyProgress(t *testing.T) {
	t.Parallel()

	user := testUser()
	habit := &models.Habit{ID: uuid.New(), UserID: user.ID, Title: "Stretch", Category: models.CategoryPhysical, Active: true}
	completions := &stubCompletionRepo{doneToday: 2}
	router := newHabitTestRouter(newStubHabitRepo(habit), completions, &stubJobQueue{})

	req := httptest.NewRequest("GET", "/api/v1/habits", nil)
	req = withUser(req, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data ListHabitsResponse `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Data.Habits) != 1 {
		t.Fatalf("Expected 1 habit, got %d", len(body.Data.Habits))
	}
	if body.Data.CompletedToday != 2 {
		t.Errorf("Expected 2 completions today, got %d", body.Data.CompletedToday)
	}
}

func TestCreateHabitValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"missing title", `{"category":"physical","duration_minutes":5}`},
		{"invalid category", `{"title":"Stretch","category":"finance","duration_minutes":5}`},
		{"zero duration", `{"title":"Stretch","category":"physical","duration_minutes":0}`},
		{"duration too long", `{"title":"Stretch","category":"physical","duration_minutes":90}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newHabitTestRouter(newStubHabitRepo(), &stubCompletionRepo{}, &stubJobQueue{})

			req := httptest.NewRequest("POST", "/api/v1/habits", strings.NewReader(tt.payload))
			req = withUser(req, testUser())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			resp := w.Result()
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", resp.StatusCode)
			}
		})
	}
}

func TestCompleteHabitRecordsAndEnqueues(t *testing.T) {
	t.Parallel()

	user := testUser()
	habit := &models.Habit{ID: uuid.New(), UserID: user.ID, Title: "Evening walk", Category: models.CategoryPhysical, Active: true}
	completions := &stubCompletionRepo{}
	jobQueue := &stubJobQueue{}
	router := newHabitTestRouter(newStubHabitRepo(habit), completions, jobQueue)

	payload := `{"mood":"calm","note":"Felt good today."}`
	req := httptest.NewRequest("POST", "/api/v1/habits/"+habit.ID.String()+"/complete", strings.NewReader(payload))
	req = withUser(req, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(completions.recorded) != 1 {
		t.Fatalf("Expected 1 completion recorded, got %d", len(completions.recorded))
	}
	if completions.recorded[0].Mood != models.MoodCalm {
		t.Errorf("Expected mood calm, got %q", completions.recorded[0].Mood)
	}
	if len(jobQueue.enqueued) != 1 {
		t.Fatalf("Expected 1 streak recalc job, got %d", len(jobQueue.enqueued))
	}
	job := jobQueue.enqueued[0]
	if job.Type != queue.JobTypeStreakRecalc {
		t.Errorf("Expected streak recalc job, got %q", job.Type)
	}
	if job.HabitID == nil || *job.HabitID != habit.ID {
		t.Errorf("Expected job habit ID %v, got %v", habit.ID, job.HabitID)
	}
}

func TestHabitOwnershipHidesForeignHabits(t *testing.T) {
	t.Parallel()

	owner := testUser()
	habit := &models.Habit{ID: uuid.New(), UserID: owner.ID, Title: "Read", Category: models.CategoryProductivity, Active: true}
	router := newHabitTestRouter(newStubHabitRepo(habit), &stubCompletionRepo{}, &stubJobQueue{})

	// A different user probing the owner's habit
	req := httptest.NewRequest("GET", "/api/v1/habits/"+habit.ID.String(), nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404 for foreign habit, got %d", resp.StatusCode)
	}
}

func TestGetStreak(t *testing.T) {
	t.Parallel()

	user := testUser()
	habit := &models.Habit{ID: uuid.New(), UserID: user.ID, Title: "Meditate", Category: models.CategoryMindfulness, Active: true}
	completions := &stubCompletionRepo{streak: &models.StreakInfo{
		HabitID:        habit.ID,
		CurrentStreak:  4,
		LongestStreak:  9,
		CompletionRate: 0.5,
	}}
	router := newHabitTestRouter(newStubHabitRepo(habit), completions, &stubJobQueue{})

	req := httptest.NewRequest("GET", "/api/v1/habits/"+habit.ID.String()+"/streak", nil)
	req = withUser(req, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data models.StreakInfo `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Data.CurrentStreak != 4 || body.Data.LongestStreak != 9 {
		t.Errorf("Unexpected streak data: %+v", body.Data)
	}
}

func TestArchiveHabit(t *testing.T) {
	t.Parallel()

	user := testUser()
	habit := &models.Habit{ID: uuid.New(), UserID: user.ID, Title: "Journal", Category: models.CategoryMindfulness, Active: true}
	habits := newStubHabitRepo(habit)
	router := newHabitTestRouter(habits, &stubCompletionRepo{}, &stubJobQueue{})

	req := httptest.NewRequest("DELETE", "/api/v1/habits/"+habit.ID.String(), nil)
	req = withUser(req, user)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if len(habits.archived) != 1 || habits.archived[0] != habit.ID {
		t.Errorf("Expected habit archived, got %v", habits.archived)
	}
}
