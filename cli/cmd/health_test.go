// ABOUTME: Tests for the health command
// ABOUTME: Verifies health check output formatting and exit codes

package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markalston/classeviva-gateway/cli/internal/client"
)

func TestFormatHealthHuman(t *testing.T) {
	resp := &client.HealthResponse{
		Status:   "ok",
		Upstream: "https://web.spaggiari.eu",
	}

	output := formatHealthHuman("http://localhost:8080", resp)

	if !bytes.Contains([]byte(output), []byte("http://localhost:8080")) {
		t.Error("expected output to contain gateway URL")
	}
	if !bytes.Contains([]byte(output), []byte("Upstream:")) {
		t.Error("expected output to contain Upstream label")
	}
	if !bytes.Contains([]byte(output), []byte("ok")) {
		t.Error("expected output to contain ok status")
	}
}

func TestFormatHealthJSON(t *testing.T) {
	resp := &client.HealthResponse{
		Status:   "ok",
		Upstream: "https://web.spaggiari.eu",
	}

	output := formatHealthJSON("http://localhost:8080", resp)

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if parsed["gateway"] != "http://localhost:8080" {
		t.Errorf("expected gateway URL in JSON, got %v", parsed["gateway"])
	}
	if parsed["upstream"] != "https://web.spaggiari.eu" {
		t.Errorf("expected upstream URL in JSON, got %v", parsed["upstream"])
	}
}

func TestHealthCommand_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(client.HealthResponse{
			Status:   "ok",
			Upstream: "https://web.spaggiari.eu",
		})
	}))
	defer server.Close()

	apiURL = server.URL
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 0 {
		t.Errorf("expected exit code 0, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("ok")) {
		t.Error("expected ok in output")
	}
}

func TestHealthCommand_ConnectionError(t *testing.T) {
	apiURL = "http://localhost:99999"
	defer func() { apiURL = "" }()

	var buf bytes.Buffer
	exitCode := runHealth(context.Background(), &buf)

	if exitCode != 2 {
		t.Errorf("expected exit code 2, got %d", exitCode)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Error:")) {
		t.Error("expected error message in output")
	}
}
