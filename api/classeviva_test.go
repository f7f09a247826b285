// ABOUTME: Tests for the serverless function entry point
// ABOUTME: Exercises cold-start setup against an httptest upstream

package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"grades":[{"subjectDesc":"Storia","decimalValue":7}]}`))
	}))
	defer upstream.Close()

	t.Setenv("UPSTREAM_URL", upstream.URL)
	t.Setenv("UPSTREAM_ALL_PROXY", "")
	t.Setenv("UPSTREAM_TIMEOUT_SECONDS", "5")

	tests := []struct {
		name       string
		method     string
		body       string
		wantStatus int
		wantBody   string
	}{
		{"preflight", http.MethodOptions, "", http.StatusOK, ""},
		{"invalid action", http.MethodPost, `{"action":"nope"}`, http.StatusBadRequest, "{\"error\":\"Invalid action\"}\n"},
		{"grades", http.MethodPost, `{"action":"voti","userId":"1","token":"t"}`, http.StatusOK, `[{"subjectDesc":"Storia","decimalValue":7}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/classeviva", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			Handler(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if w.Body.String() != tt.wantBody {
				t.Errorf("Expected body %q, got %q", tt.wantBody, w.Body.String())
			}
			if w.Header().Get("Access-Control-Allow-Origin") != "*" {
				t.Error("Expected CORS header on every response")
			}
		})
	}
}
