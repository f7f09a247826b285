// ABOUTME: Shared fixtures for command tests
// ABOUTME: Fake gateway server and session setup

package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// withGateway points the CLI at a fake gateway that answers each action
// with the given raw JSON, and sets a session.
func withGateway(t *testing.T, replies map[string]string) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if body["token"] != "tok" || body["userId"] != "1234567" {
			t.Errorf("expected session in request, got %v", body)
		}

		reply, ok := replies[body["action"]]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"Invalid action"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(reply))
	}))
	t.Cleanup(server.Close)

	apiURL, token, userID = server.URL, "tok", "1234567"
	t.Cleanup(func() {
		apiURL, token, userID = "", "", ""
		jsonOutput, listGrades = false, false
	})
}
