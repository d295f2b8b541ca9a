package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/queue"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
	"github.com/iyad07/micro-habit-coach-sub001/internal/validation"
	"go.uber.org/zap"
)

const (
	// MaxHabitTitleLength is the maximum length for habit titles
	MaxHabitTitleLength = 200
	// MaxHabitDescriptionLength is the maximum length for habit descriptions
	MaxHabitDescriptionLength = 2000
	// MaxHabitDurationMinutes caps habit duration; micro-habits stay short
	MaxHabitDurationMinutes = 60
)

// HabitHandler handles habit-related requests
type HabitHandler struct {
	habitRepo      database.HabitRepositoryInterface
	completionRepo database.CompletionRepositoryInterface
	jobQueue       queue.JobQueue // may be nil; streak recalc is then skipped
	logger         *zap.Logger
}

// NewHabitHandler creates a new habit handler
func NewHabitHandler(
	habitRepo database.HabitRepositoryInterface,
	completionRepo database.CompletionRepositoryInterface,
	jobQueue queue.JobQueue,
	logger *zap.Logger,
) *HabitHandler {
	return &HabitHandler{
		habitRepo:      habitRepo,
		completionRepo: completionRepo,
		jobQueue:       jobQueue,
		logger:         logger,
	}
}

// RegisterRoutes registers habit routes on the given router.
// The router should already have the /habits prefix.
func (h *HabitHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.ListHabits).Methods("GET")
	r.HandleFunc("", h.CreateHabit).Methods("POST")
	r.HandleFunc("/{id}", h.GetHabit).Methods("GET")
	r.HandleFunc("/{id}", h.UpdateHabit).Methods("PATCH")
	r.HandleFunc("/{id}", h.ArchiveHabit).Methods("DELETE")
	r.HandleFunc("/{id}/complete", h.CompleteHabit).Methods("POST")
	r.HandleFunc("/{id}/streak", h.GetStreak).Methods("GET")
}

// CreateHabitRequest represents a create habit request
type CreateHabitRequest struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Description     string `json:"description" validate:"max=2000"`
	Category        string `json:"category" validate:"required,habit_category"`
	DurationMinutes int    `json:"duration_minutes" validate:"required,min=1,max=60"`
}

// UpdateHabitRequest represents an update habit request
type UpdateHabitRequest struct {
	Title           *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string `json:"description,omitempty" validate:"omitempty,max=2000"`
	Category        *string `json:"category,omitempty" validate:"omitempty,habit_category"`
	DurationMinutes *int    `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=60"`
	Active          *bool   `json:"active,omitempty"`
}

// CompleteHabitRequest represents a habit completion check-in
type CompleteHabitRequest struct {
	Mood string `json:"mood" validate:"omitempty,mood"`
	Note string `json:"note" validate:"max=2000"`
}

// ListHabitsResponse carries the habit list plus the day's progress so the
// client can render "N done today" without a second round trip
type ListHabitsResponse struct {
	Habits         []*models.Habit `json:"habits"`
	CompletedToday int             `json:"completed_today"`
}

// ListHabits lists habits for the authenticated user
func (h *HabitHandler) ListHabits(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var category *models.Category
	if c := r.URL.Query().Get("category"); c != "" {
		if err := validation.ValidateCategory(c); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
		cEnum := models.Category(c)
		category = &cEnum
	}

	activeOnly := r.URL.Query().Get("include_archived") != "true"

	habits, err := h.habitRepo.GetByUserID(r.Context(), user.ID, category, activeOnly)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to retrieve habits")
		return
	}

	completedToday, err := h.completionRepo.CountOnDay(r.Context(), user.ID, time.Now().UTC())
	if err != nil {
		h.logger.Warn("failed_to_count_todays_completions",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		completedToday = 0
	}

	respondJSON(w, http.StatusOK, ListHabitsResponse{
		Habits:         habits,
		CompletedToday: completedToday,
	})
}

// CreateHabit creates a new habit
func (h *HabitHandler) CreateHabit(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req CreateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validateStruct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	req.Title = validation.SanitizeText(req.Title)
	req.Description = validation.SanitizeText(req.Description)
	if req.Title == "" {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title is required and cannot be empty after sanitization")
		return
	}

	habit := &models.Habit{
		ID:              uuid.New(),
		UserID:          user.ID,
		Title:           req.Title,
		Description:     req.Description,
		Category:        models.Category(req.Category),
		DurationMinutes: req.DurationMinutes,
		Active:          true,
	}

	if err := h.habitRepo.Create(r.Context(), habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to create habit")
		return
	}

	respondJSON(w, http.StatusCreated, habit)
}

// GetHabit returns a single habit
func (h *HabitHandler) GetHabit(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.loadOwnedHabit(w, r, user.ID)
	if !ok {
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// UpdateHabit updates habit fields
func (h *HabitHandler) UpdateHabit(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.loadOwnedHabit(w, r, user.ID)
	if !ok {
		return
	}

	var req UpdateHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validateStruct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	if req.Title != nil {
		title := validation.SanitizeText(*req.Title)
		if title == "" {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Title cannot be empty after sanitization")
			return
		}
		habit.Title = title
	}
	if req.Description != nil {
		habit.Description = validation.SanitizeText(*req.Description)
	}
	if req.Category != nil {
		habit.Category = models.Category(*req.Category)
	}
	if req.DurationMinutes != nil {
		habit.DurationMinutes = *req.DurationMinutes
	}
	if req.Active != nil {
		habit.Active = *req.Active
	}

	if err := h.habitRepo.Update(r.Context(), habit); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to update habit")
		return
	}

	respondJSON(w, http.StatusOK, habit)
}

// ArchiveHabit soft-deletes a habit
func (h *HabitHandler) ArchiveHabit(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.loadOwnedHabit(w, r, user.ID)
	if !ok {
		return
	}

	if err := h.habitRepo.Archive(r.Context(), habit.ID); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to archive habit")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "archived"})
}

// CompleteHabit records a check-in for today. Completing twice on the same
// day is a no-op. A streak recalc job is enqueued after each check-in.
func (h *HabitHandler) CompleteHabit(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.loadOwnedHabit(w, r, user.ID)
	if !ok {
		return
	}

	var req CompleteHabitRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
			return
		}
		if err := validateStruct(req); err != nil {
			respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
			return
		}
	}

	completion := &models.HabitCompletion{
		ID:          uuid.New(),
		HabitID:     habit.ID,
		UserID:      user.ID,
		CompletedOn: time.Now().UTC(),
		Mood:        models.Mood(req.Mood),
		Note:        validation.SanitizeText(req.Note),
	}

	ctx := r.Context()
	if err := h.completionRepo.Record(ctx, completion); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to record completion")
		return
	}

	if h.jobQueue != nil {
		job := queue.NewJob(queue.JobTypeStreakRecalc, user.ID, &habit.ID)
		if err := h.jobQueue.Enqueue(ctx, job); err != nil {
			h.logger.Warn("failed_to_enqueue_streak_recalc",
				zap.String("habit_id", habit.ID.String()),
				zap.Error(err),
			)
		}
	}

	respondJSON(w, http.StatusOK, completion)
}

// GetStreak returns streak stats for a habit
func (h *HabitHandler) GetStreak(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	habit, ok := h.loadOwnedHabit(w, r, user.ID)
	if !ok {
		return
	}

	streak, err := h.completionRepo.Streak(r.Context(), habit.ID)
	if err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to compute streak")
		return
	}

	respondJSON(w, http.StatusOK, streak)
}

// loadOwnedHabit parses the path ID, loads the habit, and enforces
// ownership. It writes the error response itself on failure.
func (h *HabitHandler) loadOwnedHabit(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Habit, bool) {
	idStr := mux.Vars(r)["id"]
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid habit ID")
		return nil, false
	}

	habit, err := h.habitRepo.GetByID(r.Context(), id)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
		return nil, false
	}

	// Return 404 rather than 403 so habit IDs aren't probeable
	if habit.UserID != userID {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Habit not found")
		return nil, false
	}

	return habit, true
}

// validateStruct runs the shared validator and flattens the first field
// error into something readable
func validateStruct(v any) error {
	err := validation.Validate.Struct(v)
	if err == nil {
		return nil
	}
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			return fmt.Errorf("validation failed: %s", fieldError.Error())
		}
	}
	return fmt.Errorf("validation failed")
}
