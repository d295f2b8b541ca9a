package ai

import (
	"context"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/iyad07/micro-habit-coach-sub001/internal/suggest"
	"go.uber.org/zap"
)

// CoachService produces habit suggestions, preferring the remote backend
// and falling back to the local template generator on any failure. The
// fallback is a single try-then-substitute: no retries, no backoff, and
// the caller never sees the remote failure.
type CoachService struct {
	provider SuggestionProvider
	local    *suggest.Generator
	logger   *zap.Logger
}

// NewCoachService creates a coach service. provider may be nil, in which
// case every suggestion comes from the local generator.
func NewCoachService(provider SuggestionProvider, local *suggest.Generator, logger *zap.Logger) *CoachService {
	return &CoachService{
		provider: provider,
		local:    local,
		logger:   logger,
	}
}

// Generate returns a suggestion for the request. It never returns an
// error: any remote failure is logged and replaced with a template
// suggestion, matching the never-crash-the-client design of the app.
func (s *CoachService) Generate(ctx context.Context, req *SuggestionRequest) models.Suggestion {
	if s.provider != nil {
		suggestion, err := s.provider.GenerateSuggestion(ctx, req)
		if err == nil && suggestion.IsComplete() {
			return *suggestion
		}

		if s.logger != nil {
			s.logger.Warn("remote_suggestion_failed_falling_back",
				zap.String("mood", string(req.Mood)),
				zap.Error(err),
			)
		}
	}

	return s.local.Generate(req.Mood, req.PreferredCategories)
}
