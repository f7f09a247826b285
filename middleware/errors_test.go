package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRecover_ConvertsPanicToJSONError(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"string panic", "something broke", "something broke"},
		{"error panic", errors.New("unexpected end of JSON input"), "unexpected end of JSON input"},
		{"other panic", 42, "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Recover(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			})

			req := httptest.NewRequest(http.MethodPost, "/api/classeviva", nil)
			rec := httptest.NewRecorder()
			handler(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("Status = %d, want 500", rec.Code)
			}

			var body map[string]string
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode body: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
}

func TestRecover_PassesThrough(t *testing.T) {
	handler := Recover(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusTeapot {
		t.Errorf("Status = %d, want %d", rec.Code, http.StatusTeapot)
	}
}

func TestRecover_DoesNotRewriteStartedResponse(t *testing.T) {
	handler := Recover(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("[1,"))
		panic("mid-write")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("Status = %d, want 200 (already written)", rec.Code)
	}
	if rec.Body.String() != "[1," {
		t.Errorf("Body = %q, want partial body untouched", rec.Body.String())
	}
}
