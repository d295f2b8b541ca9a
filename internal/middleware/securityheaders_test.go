package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSecurityHeaders(t *testing.T) {
	t.Parallel()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mw := SecurityHeaders(false)(handler)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()
	mw.ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()

	want := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'none'",
	}
	for header, value := range want {
		if got := resp.Header.Get(header); got != value {
			t.Errorf("Expected %s %q, got %q", header, value, got)
		}
	}

	// No HSTS over plain HTTP
	if got := resp.Header.Get("Strict-Transport-Security"); got != "" {
		t.Errorf("Expected no HSTS header over HTTP, got %q", got)
	}
}
