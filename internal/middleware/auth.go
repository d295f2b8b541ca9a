package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/iyad07/micro-habit-coach-sub001/internal/database"
	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/request"
	"github.com/iyad07/micro-habit-coach-sub001/internal/services/auth"
	"go.uber.org/zap"
)

// Auth creates authentication middleware that validates bearer tokens and
// resolves them to a user record, creating one on first sight.
func Auth(db *database.DB, verifier *auth.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	userRepo := database.NewUserRepository(db)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Missing Authorization header", logger)
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondError(w, http.StatusUnauthorized, "Invalid Authorization header format", logger)
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				logger.Warn("token_verification_failed", zap.Error(err))
				respondError(w, http.StatusUnauthorized, "Invalid or expired token", logger)
				return
			}

			user, err := userRepo.GetByProviderID(ctx, claims.Sub)
			if err != nil {
				if database.IsNotFound(err) {
					name := claims.Name
					user = &models.User{
						ID:         uuid.New(),
						Email:      claims.Email,
						ProviderID: &claims.Sub,
					}
					if name != "" {
						user.Name = &name
					}
					if err := userRepo.Create(ctx, user); err != nil {
						logger.Error("failed_to_create_user", zap.Error(err))
						respondError(w, http.StatusInternalServerError, "Failed to create user", logger)
						return
					}
				} else {
					logger.Error("failed_to_fetch_user", zap.Error(err))
					respondError(w, http.StatusInternalServerError, "Database error", logger)
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

func respondError(w http.ResponseWriter, status int, message string, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]any{
		"success": false,
		"error":   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Error("failed_to_encode_error_response", zap.Error(err))
	}
}
