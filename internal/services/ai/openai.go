package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/iyad07/micro-habit-coach-sub001/internal/models"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second

	// MaxRecentHabitsInPrompt caps how many recent completions go into the prompt
	MaxRecentHabitsInPrompt = 10

	// ErrNoChoicesInResponse is returned when the API response has no choices
	ErrNoChoicesInResponse = "no choices in response"
)

const suggestionSystemMessage = "You are a habit coach that suggests one small, concrete daily habit " +
	"matched to the user's mood. Respond with valid JSON only, with keys: " +
	"title, description, category, duration_minutes, prompt."

// OpenAIProvider implements SuggestionProvider using OpenAI's API
type OpenAIProvider struct {
	client    openai.Client
	model     string
	logger    *zap.Logger
	debugMode bool
}

// NewOpenAIProvider creates a new OpenAI provider with defaults
func NewOpenAIProvider(apiKey string, model string) *OpenAIProvider {
	return NewOpenAIProviderWithLogger(apiKey, DefaultOpenAIBaseURL, model, nil, false)
}

// NewOpenAIProviderWithLogger creates a new OpenAI provider with logger support
func NewOpenAIProviderWithLogger(apiKey string, baseURL string, model string, logger *zap.Logger, debugMode bool) *OpenAIProvider {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIProvider{
		client:    client,
		model:     model,
		logger:    logger,
		debugMode: debugMode,
	}
}

// GenerateSuggestion asks the model for one habit suggestion shaped like
// the local generator's output. Any transport error, empty response, or
// response missing required fields is returned as an error so the caller
// can fall back to the template catalog.
func (p *OpenAIProvider) GenerateSuggestion(ctx context.Context, req *SuggestionRequest) (*models.Suggestion, error) {
	prompt := buildSuggestionPrompt(req)
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(suggestionSystemMessage),
		openai.UserMessage(prompt),
	}
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(p.model),
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}

	requestID := ExtractRequestID(ctx)
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_request",
			zap.String("operation", "generate_suggestion"),
			zap.String("model", p.model),
			zap.Int("prompt_length", len(prompt)),
			zap.String("prompt_preview", SanitizePrompt(prompt, true)),
			zap.String("request_id", requestID),
			zap.String("user_id", ExtractUserID(ctx)),
		)
	}

	start := time.Now()
	resp, err := p.client.Chat.Completions.New(ctx, params)
	latency := time.Since(start)
	if err != nil {
		if p.logger != nil && p.debugMode {
			p.logger.Debug("llm_api_error",
				zap.String("operation", "generate_suggestion"),
				zap.String("model", p.model),
				zap.Error(err),
				zap.String("request_id", requestID),
				zap.Duration("latency_ms", latency),
			)
		}
		if apiErr := ExtractAPIError(err); apiErr != nil {
			return nil, fmt.Errorf("failed to generate suggestion: %w", apiErr)
		}
		return nil, fmt.Errorf("failed to generate suggestion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New(ErrNoChoicesInResponse)
	}

	content := resp.Choices[0].Message.Content
	if p.logger != nil && p.debugMode {
		p.logger.Debug("llm_api_response",
			zap.String("operation", "generate_suggestion"),
			zap.String("model", p.model),
			zap.Int("response_length", len(content)),
			zap.String("response_preview", SanitizeResponse(content, true)),
			zap.String("request_id", requestID),
			zap.Int64("latency_ms", latency.Milliseconds()),
		)
	}

	return parseSuggestionResponse(content)
}

// buildSuggestionPrompt assembles the user message from the request fields.
func buildSuggestionPrompt(req *SuggestionRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "The user is feeling %s.\n", strings.ToLower(string(req.Mood)))

	if len(req.PreferredCategories) > 0 {
		names := make([]string, 0, len(req.PreferredCategories))
		for _, c := range req.PreferredCategories {
			names = append(names, string(c))
		}
		fmt.Fprintf(&b, "Preferred habit categories: %s.\n", strings.Join(names, ", "))
	} else {
		b.WriteString("The user has no category preference; pick whatever fits the mood.\n")
	}

	if req.ProfileSummary != "" {
		fmt.Fprintf(&b, "About the user: %s\n", req.ProfileSummary)
	}

	if len(req.RecentHabits) > 0 {
		recent := req.RecentHabits
		if len(recent) > MaxRecentHabitsInPrompt {
			recent = recent[:MaxRecentHabitsInPrompt]
		}
		fmt.Fprintf(&b, "Habits completed recently: %s.\n", strings.Join(recent, ", "))
	}

	if req.StreakCount > 0 {
		fmt.Fprintf(&b, "Current streak: %d days. Acknowledge the streak in the prompt text.\n", req.StreakCount)
	}

	b.WriteString("Suggest one new small habit. The category must be one of: ")
	names := make([]string, 0, len(models.Categories))
	for _, c := range models.Categories {
		names = append(names, string(c))
	}
	b.WriteString(strings.Join(names, ", "))
	b.WriteString(". The prompt field must mention the user's mood by name in lowercase.")

	return b.String()
}

// parseSuggestionResponse parses the model output into a Suggestion.
// Models occasionally wrap the JSON in prose; extract the outermost braces
// before giving up.
func parseSuggestionResponse(content string) (*models.Suggestion, error) {
	var parsed struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		Category        string `json:"category"`
		DurationMinutes int    `json:"duration_minutes"`
		Prompt          string `json:"prompt"`
	}

	raw := content
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		start := strings.Index(raw, "{")
		end := strings.LastIndex(raw, "}")
		if start == -1 || end == -1 || end <= start {
			return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
		}
		raw = raw[start : end+1]
		if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse suggestion response: %w", err)
		}
	}

	category, ok := models.ParseCategory(parsed.Category)
	if !ok {
		return nil, fmt.Errorf("suggestion response has unknown category %q", parsed.Category)
	}

	suggestion := &models.Suggestion{
		Title:           strings.TrimSpace(parsed.Title),
		Description:     strings.TrimSpace(parsed.Description),
		Category:        category,
		DurationMinutes: parsed.DurationMinutes,
		Prompt:          strings.TrimSpace(parsed.Prompt),
		Source:          models.SuggestionSourceAI,
	}
	if !suggestion.IsComplete() {
		return nil, fmt.Errorf("suggestion response is missing required fields")
	}

	return suggestion, nil
}
