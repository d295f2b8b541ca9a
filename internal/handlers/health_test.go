package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHealthCheckBasicMode(t *testing.T) {
	t.Parallel()

	// Basic mode never touches the dependencies
	checker := NewHealthChecker(nil, nil, nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	checker.HealthCheck(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", resp.StatusCode)
	}

	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("Expected status healthy, got %q", body.Status)
	}
	if body.Checks != nil {
		t.Errorf("Expected no checks in basic mode, got %v", body.Checks)
	}
	if body.Timestamp == "" {
		t.Error("Expected timestamp to be set")
	}
}

func TestHealthResponseJSON(t *testing.T) {
	t.Parallel()

	response := HealthResponse{
		Status:    "unhealthy",
		Timestamp: "2026-03-10T12:00:00Z",
		Checks: map[string]string{
			"database": "healthy",
			"queue":    "unhealthy: connection closed",
		},
	}

	data, err := json.Marshal(response)
	if err != nil {
		t.Fatalf("Failed to marshal: %v", err)
	}

	var decoded HealthResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	if decoded.Status != "unhealthy" {
		t.Errorf("Expected status unhealthy, got %q", decoded.Status)
	}
	if decoded.Checks["queue"] != "unhealthy: connection closed" {
		t.Errorf("Unexpected checks: %v", decoded.Checks)
	}
}
