// ABOUTME: HTTP handlers for the Classeviva gateway
// ABOUTME: Holds the upstream client and shared JSON response helpers

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/markalston/classeviva-gateway/config"
	"github.com/markalston/classeviva-gateway/models"
	"github.com/markalston/classeviva-gateway/services"
)

// Upstream is the subset of the Classeviva client the handlers depend on.
type Upstream interface {
	Login(ctx context.Context, uid, pass string) (*services.UpstreamResponse, error)
	Card(ctx context.Context, userID, token string) (*services.UpstreamResponse, error)
	Grades(ctx context.Context, userID, token string) (*services.UpstreamResponse, error)
	Absences(ctx context.Context, userID, token string) (*services.UpstreamResponse, error)
}

type Handler struct {
	cfg      *config.Config
	upstream Upstream
}

// NewHandler wires the handlers to an upstream client. cfg may be nil in tests.
func NewHandler(cfg *config.Config, upstream Upstream) *Handler {
	return &Handler{
		cfg:      cfg,
		upstream: upstream,
	}
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeRawJSON writes an upstream JSON fragment with insignificant whitespace removed.
func writeRawJSON(w http.ResponseWriter, code int, raw []byte) {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		// Fragments come from bodies already validated as JSON.
		slog.Error("Failed to compact upstream JSON", "error", err)
		buf.Reset()
		buf.Write(raw)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, message string, code int) {
	writeJSON(w, code, models.ErrorResponse{Error: message})
}

// Unavailable answers every request with a 500 carrying err's message. It
// stands in for the gateway when startup configuration failed.
func Unavailable(err error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeError(w, err.Error(), http.StatusInternalServerError)
	}
}
