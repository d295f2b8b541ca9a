package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
	"github.com/iyad07/micro-habit-coach-sub001/internal/services/ai"
	"github.com/iyad07/micro-habit-coach-sub001/internal/validation"
	"go.uber.org/zap"
)

// SuggestionHandler handles suggestion-related requests
type SuggestionHandler struct {
	coach          *ai.CoachService
	suggestionRepo database.SuggestionRepositoryInterface
	profileRepo    database.ProfileRepositoryInterface
	completionRepo database.CompletionRepositoryInterface
	logger         *zap.Logger
}

// NewSuggestionHandler creates a new suggestion handler
func NewSuggestionHandler(
	coach *ai.CoachService,
	suggestionRepo database.SuggestionRepositoryInterface,
	profileRepo database.ProfileRepositoryInterface,
	completionRepo database.CompletionRepositoryInterface,
	logger *zap.Logger,
) *SuggestionHandler {
	return &SuggestionHandler{
		coach:          coach,
		suggestionRepo: suggestionRepo,
		profileRepo:    profileRepo,
		completionRepo: completionRepo,
		logger:         logger,
	}
}

// RegisterRoutes registers suggestion routes on the given router.
// The router should already have the /suggestions prefix.
func (h *SuggestionHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/generate", h.GenerateSuggestion).Methods("POST")
	r.HandleFunc("/daily", h.GetDailySuggestion).Methods("GET")
}

// GenerateSuggestionRequest represents a generate suggestion request
type GenerateSuggestionRequest struct {
	Mood                string   `json:"mood" validate:"required,mood"`
	PreferredCategories []string `json:"preferred_categories" validate:"omitempty,dive,habit_category"`
}

// GenerateSuggestion generates a suggestion for the current mood. Category
// preferences come from the request, falling back to the user's stored
// profile when omitted.
func (h *SuggestionHandler) GenerateSuggestion(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req GenerateSuggestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if maxBytesErr, ok := err.(*http.MaxBytesError); ok {
			respondJSONError(w, http.StatusRequestEntityTooLarge, "Request Entity Too Large", fmt.Sprintf("Request body exceeds maximum size of %d bytes", maxBytesErr.Limit))
			return
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validation.Validate.Struct(req); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, fieldError := range validationErrors {
				respondJSONError(w, http.StatusBadRequest, "Bad Request", fmt.Sprintf("Validation failed: %s", fieldError.Error()))
				return
			}
		}
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Validation failed")
		return
	}

	// User ID rides along in the context so provider debug logs can
	// correlate LLM calls with the requesting user
	ctx := context.WithValue(r.Context(), ai.UserIDContextKey(), user.ID)
	mood, _ := models.ParseMood(req.Mood)

	categories := make([]models.Category, 0, len(req.PreferredCategories))
	for _, c := range req.PreferredCategories {
		category, ok := models.ParseCategory(c)
		if !ok {
			continue
		}
		categories = append(categories, category)
	}

	genReq := &ai.SuggestionRequest{
		Mood:                mood,
		PreferredCategories: categories,
	}

	if profile, err := h.profileRepo.GetByUserID(ctx, user.ID); err == nil && profile != nil {
		if len(genReq.PreferredCategories) == 0 {
			genReq.PreferredCategories = profile.PreferredCategories
		}
		genReq.ProfileSummary = profile.Summary
	}

	if recent, err := h.completionRepo.RecentTitles(ctx, user.ID, 7); err == nil {
		genReq.RecentHabits = recent
	}

	if streak, err := h.completionRepo.UserStreak(ctx, user.ID); err == nil {
		genReq.StreakCount = streak
	}

	suggestion := h.coach.Generate(ctx, genReq)

	stored := &models.StoredSuggestion{
		ID:         uuid.New(),
		UserID:     user.ID,
		Suggestion: suggestion,
		Mood:       mood,
		CreatedAt:  time.Now(),
	}
	if err := h.suggestionRepo.Save(ctx, stored); err != nil {
		// Persisting is best-effort; the user still gets their suggestion
		h.logger.Warn("failed_to_save_suggestion",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	respondJSON(w, http.StatusOK, suggestion)
}

// GetDailySuggestion returns the most recent stored suggestion for the
// user, generating a fresh one when none exists yet.
func (h *SuggestionHandler) GetDailySuggestion(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	ctx := context.WithValue(r.Context(), ai.UserIDContextKey(), user.ID)

	stored, err := h.suggestionRepo.GetLatest(ctx, user.ID)
	if err == nil && stored != nil {
		respondJSON(w, http.StatusOK, stored)
		return
	}

	genReq := &ai.SuggestionRequest{Mood: models.MoodStressed}
	if profile, perr := h.profileRepo.GetByUserID(ctx, user.ID); perr == nil && profile != nil {
		if profile.CurrentMood.IsValid() {
			genReq.Mood = profile.CurrentMood
		}
		genReq.PreferredCategories = profile.PreferredCategories
		genReq.ProfileSummary = profile.Summary
	}

	if streak, err := h.completionRepo.UserStreak(ctx, user.ID); err == nil {
		genReq.StreakCount = streak
	}

	suggestion := h.coach.Generate(ctx, genReq)

	fresh := &models.StoredSuggestion{
		ID:         uuid.New(),
		UserID:     user.ID,
		Suggestion: suggestion,
		Mood:       genReq.Mood,
		CreatedAt:  time.Now(),
	}
	if err := h.suggestionRepo.Save(ctx, fresh); err != nil {
		h.logger.Warn("failed_to_save_suggestion",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
	}

	respondJSON(w, http.StatusOK, fresh)
}
