package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
	"github.com/iyad07/micro-habit-coach-sub001/internal/validation"
)

// ProfileHandler handles user profile requests
type ProfileHandler struct {
	profileRepo database.ProfileRepositoryInterface
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profileRepo database.ProfileRepositoryInterface) *ProfileHandler {
	return &ProfileHandler{profileRepo: profileRepo}
}

// RegisterRoutes registers profile routes on the given router.
// The router should already have the /profile prefix.
func (h *ProfileHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("", h.GetProfile).Methods("GET")
	r.HandleFunc("", h.UpsertProfile).Methods("PUT")
}

// UpsertProfileRequest represents a profile update
type UpsertProfileRequest struct {
	PreferredCategories []string `json:"preferred_categories" validate:"omitempty,dive,habit_category"`
	CurrentMood         string   `json:"current_mood" validate:"omitempty,mood"`
	ReminderHour        int      `json:"reminder_hour" validate:"min=0,max=23"`
	Summary             string   `json:"summary" validate:"max=2000"`
}

// GetProfile returns the user's profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	profile, err := h.profileRepo.GetByUserID(r.Context(), user.ID)
	if err != nil {
		respondJSONError(w, http.StatusNotFound, "Not Found", "Profile not found")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}

// UpsertProfile creates or replaces the user's profile
func (h *ProfileHandler) UpsertProfile(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	var req UpsertProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", "Invalid request body")
		return
	}

	if err := validateStruct(req); err != nil {
		respondJSONError(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}

	categories := make([]models.Category, 0, len(req.PreferredCategories))
	for _, c := range req.PreferredCategories {
		if category, ok := models.ParseCategory(c); ok {
			categories = append(categories, category)
		}
	}

	profile := &models.UserProfile{
		UserID:              user.ID,
		PreferredCategories: categories,
		CurrentMood:         models.Mood(req.CurrentMood),
		ReminderHour:        req.ReminderHour,
		Summary:             validation.SanitizeText(req.Summary),
	}

	if err := h.profileRepo.Upsert(r.Context(), profile); err != nil {
		respondJSONError(w, http.StatusInternalServerError, "Internal Server Error", "Failed to save profile")
		return
	}

	respondJSON(w, http.StatusOK, profile)
}
