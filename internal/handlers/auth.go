package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
	"github.com/iyad07/micro-habit-coach-sub001/internal/services/auth"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	oauthClient *auth.OAuthClient
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(oauthClient *auth.OAuthClient) *AuthHandler {
	return &AuthHandler{oauthClient: oauthClient}
}

// RegisterRoutes registers auth routes on the given router.
// The router should already have the /auth prefix.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/login", h.GetLogin).Methods("GET")
}

// LoginResponse carries the authorization URL the client should open
type LoginResponse struct {
	AuthURL string `json:"auth_url"`
	State   string `json:"state"`
}

// GetLogin returns the provider authorization URL for the login flow
func (h *AuthHandler) GetLogin(w http.ResponseWriter, r *http.Request) {
	state := uuid.NewString()
	respondJSON(w, http.StatusOK, LoginResponse{
		AuthURL: h.oauthClient.AuthCodeURL(state),
		State:   state,
	})
}

// MeHandler returns the current authenticated user
func MeHandler(w http.ResponseWriter, r *http.Request) {
	user := request.UserFromContext(r)
	if user == nil {
		respondJSONError(w, http.StatusUnauthorized, "Unauthorized", "User not found in context")
		return
	}

	respondJSON(w, http.StatusOK, user)
}
