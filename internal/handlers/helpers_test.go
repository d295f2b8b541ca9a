package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRespondJSON(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSON(w, http.StatusOK, map[string]string{"hello": "world"})

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %q", ct)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["success"] != true {
		t.Error("Expected success=true")
	}
	if body["timestamp"] == nil {
		t.Error("Expected timestamp to be set")
	}
	data, ok := body["data"].(map[string]any)
	if !ok || data["hello"] != "world" {
		t.Errorf("Expected data payload, got %v", body["data"])
	}
}

func TestRespondJSONError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	respondJSONError(w, http.StatusBadRequest, "Bad Request", "mood is invalid")

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.StatusCode)
	}

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["success"] != false {
		t.Error("Expected success=false")
	}
	if body["error"] != "Bad Request" {
		t.Errorf("Expected error 'Bad Request', got %v", body["error"])
	}
	if body["message"] != "mood is invalid" {
		t.Errorf("Expected message 'mood is invalid', got %v", body["message"])
	}
}

func TestSanitizeErrorMessage(t *testing.T) {
	t.Parallel()

	short := "short message"
	if got := sanitizeErrorMessage(short); got != short {
		t.Errorf("Expected short message unchanged, got %q", got)
	}

	long := strings.Repeat("x", 300)
	got := sanitizeErrorMessage(long)
	if len(got) != 203 {
		t.Errorf("Expected truncated message of 203 chars, got %d", len(got))
	}
	if !strings.HasSuffix(got, "...") {
		t.Error("Expected truncated message to end with ellipsis")
	}
}
