package ai

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestIsRateLimitError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"429 in message", errors.New("status 429 too many requests"), true},
		{"rate limit text", errors.New("rate limit exceeded"), true},
		{"api error 429", &APIError{StatusCode: 429}, true},
		{"api error permanent", &APIError{StatusCode: 429, IsPermanent: true}, false},
		{"wrapped api error", fmt.Errorf("outer: %w", &APIError{StatusCode: 429}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsRateLimitError(tt.err); got != tt.want {
				t.Errorf("IsRateLimitError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsQuotaError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("boom"), false},
		{"quota text", errors.New("insufficient_quota for account"), true},
		{"billing text", errors.New("billing hard limit reached"), true},
		{"permanent api error", &APIError{IsPermanent: true}, true},
		{"quota code", &APIError{Code: "insufficient_quota"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsQuotaError(tt.err); got != tt.want {
				t.Errorf("IsQuotaError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestExtractAPIError(t *testing.T) {
	t.Parallel()

	t.Run("non-429 returns nil", func(t *testing.T) {
		t.Parallel()
		if got := ExtractAPIError(errors.New("500 internal")); got != nil {
			t.Errorf("ExtractAPIError = %+v, want nil", got)
		}
	})

	t.Run("parses embedded json", func(t *testing.T) {
		t.Parallel()
		err := errors.New(`429 {"message":"quota gone","type":"insufficient_quota","code":"insufficient_quota"}`)
		got := ExtractAPIError(err)
		if got == nil {
			t.Fatal("ExtractAPIError returned nil")
		}
		if !got.IsPermanent {
			t.Error("expected quota error to be permanent")
		}
		if got.RetryAfter == nil || *got.RetryAfter != time.Hour {
			t.Errorf("RetryAfter = %v, want 1h", got.RetryAfter)
		}
	})

	t.Run("plain 429 gets minute retry", func(t *testing.T) {
		t.Parallel()
		got := ExtractAPIError(errors.New("429 too many requests"))
		if got == nil {
			t.Fatal("ExtractAPIError returned nil")
		}
		if got.RetryAfter == nil || *got.RetryAfter != 60*time.Second {
			t.Errorf("RetryAfter = %v, want 60s", got.RetryAfter)
		}
	})
}

func TestGetRetryDelay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		attempt int
		want    time.Duration
	}{
		{"generic first attempt", errors.New("boom"), 0, 5 * time.Second},
		{"generic capped", errors.New("boom"), 20, 5 * time.Minute},
		{"rate limit first attempt", &APIError{StatusCode: 429}, 0, 60 * time.Second},
		{"rate limit capped", &APIError{StatusCode: 429}, 20, 15 * time.Minute},
		{"quota first attempt", &APIError{IsPermanent: true}, 0, time.Hour},
		{"quota capped", &APIError{IsPermanent: true}, 20, 24 * time.Hour},
		{"negative attempt treated as zero", errors.New("boom"), -3, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := GetRetryDelay(tt.err, tt.attempt); got != tt.want {
				t.Errorf("GetRetryDelay(%v, %d) = %v, want %v", tt.err, tt.attempt, got, tt.want)
			}
		})
	}
}

func TestSanitizeAPIKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"empty", "", ""},
		{"short", "abc", RedactedValue},
		{"long", "sk-abcdef123456", "sk-a" + RedactedValue + "3456"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := SanitizeAPIKey(tt.key); got != tt.want {
				t.Errorf("SanitizeAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
