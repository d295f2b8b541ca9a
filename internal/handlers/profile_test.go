package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
)

func newProfileTestRouter(profiles *stubProfileRepo) *mux.Router {
	handler := NewProfileHandler(profiles)
	r := mux.NewRouter()
	handler.RegisterRoutes(r.PathPrefix("/api/v1/profile").Subrouter())
	return r
}

func TestUpsertProfile(t *testing.T) {
	t.Parallel()

	profiles := &stubProfileRepo{}
	router := newProfileTestRouter(profiles)

	payload := `{"preferred_categories":["mindfulness","social"],"current_mood":"anxious","reminder_hour":9,"summary":"Prefers short morning habits."}`
	req := httptest.NewRequest("PUT", "/api/v1/profile", strings.NewReader(payload))
	req = withUser(req, testUser())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}
	if profiles.saved == nil {
		t.Fatal("Expected profile to be saved")
	}
	if profiles.saved.CurrentMood != models.MoodAnxious {
		t.Errorf("Expected mood anxious, got %q", profiles.saved.CurrentMood)
	}
	if profiles.saved.ReminderHour != 9 {
		t.Errorf("Expected reminder hour 9, got %d", profiles.saved.ReminderHour)
	}
	if len(profiles.saved.PreferredCategories) != 2 {
		t.Errorf("Expected 2 categories, got %v", profiles.saved.PreferredCategories)
	}
}

func TestUpsertProfileValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		payload string
	}{
		{"invalid mood", `{"current_mood":"furious","reminder_hour":8}`},
		{"invalid category", `{"preferred_categories":["finance"],"reminder_hour":8}`},
		{"reminder hour out of range", `{"reminder_hour":24}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			router := newProfileTestRouter(&stubProfileRepo{})

			req := httptest.NewRequest("PUT", "/api/v1/profile", strings.NewReader(tt.payload))
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

func TestGetProfile(t *testing.T) {
	t.Parallel()

	profiles := &stubProfileRepo{profile: &models.UserProfile{
		CurrentMood:  models.MoodCalm,
		ReminderHour: 7,
	}}
	router := newProfileTestRouter(profiles)

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Data models.UserProfile `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Data.CurrentMood != models.MoodCalm {
		t.Errorf("Expected mood calm, got %q", body.Data.CurrentMood)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	t.Parallel()

	router := newProfileTestRouter(&stubProfileRepo{})

	req := httptest.NewRequest("GET", "/api/v1/profile", nil)
	req = withUser(req, testUser())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", resp.StatusCode)
	}
}
