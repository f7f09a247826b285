// ABOUTME: Action-dispatching gateway handler for the Classeviva API
// ABOUTME: Performs one upstream call per request and reshapes its JSON for the frontend

package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/markalston/classeviva-gateway/metrics"
	"github.com/markalston/classeviva-gateway/models"
	"github.com/markalston/classeviva-gateway/services"
	"github.com/tidwall/gjson"
)

const maxRequestBytes = 1 << 20

// Error bodies the frontend matches on.
const (
	msgInvalidJSON   = "Invalid JSON"
	msgInvalidAction = "Invalid action"
	msgMissingFields = "Missing required fields"
	msgLoginFailed   = "Login failed"
)

var (
	errIdentNotText = errors.New("upstream ident is not a string")
	errNullBody     = errors.New("upstream response body is null")
)

// Gateway dispatches on the body's action field. OPTIONS preflight is answered
// by the CORS middleware before this handler runs.
func (h *Handler) Gateway(w http.ResponseWriter, r *http.Request) {
	req, err := decodeGatewayRequest(w, r)
	if err != nil {
		slog.Debug("Rejecting gateway request", "error", err)
		h.fail(w, models.ActionInvalid, msgInvalidJSON, http.StatusBadRequest)
		return
	}

	action := models.ParseAction(string(req.Action))

	switch {
	case action == models.ActionLogin:
		if req.Username == "" || req.Password == "" {
			h.fail(w, action, msgMissingFields, http.StatusBadRequest)
			return
		}
		h.login(w, r, req)
	case action.RequiresSession():
		if req.UserID == "" || req.Token == "" {
			h.fail(w, action, msgMissingFields, http.StatusBadRequest)
			return
		}
		h.studentData(w, r, action, req)
	default:
		h.fail(w, action, msgInvalidAction, http.StatusBadRequest)
	}
}

// decodeGatewayRequest reads the JSON body. An empty body or a literal null
// decodes to the zero request.
func decodeGatewayRequest(w http.ResponseWriter, r *http.Request) (models.GatewayRequest, error) {
	var req models.GatewayRequest
	if r.Body == nil {
		return req, nil
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		return req, fmt.Errorf("failed to read body: %w", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return req, nil
	}

	if err := json.Unmarshal(body, &req); err != nil {
		return req, fmt.Errorf("failed to parse body: %w", err)
	}
	return req, nil
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, req models.GatewayRequest) {
	resp, err := h.upstream.Login(r.Context(), string(req.Username), string(req.Password))
	if err != nil {
		slog.Error("Upstream login failed", "error", err)
		h.fail(w, models.ActionLogin, err.Error(), http.StatusInternalServerError)
		return
	}

	if !resp.OK() {
		slog.Info("Upstream rejected login", "status", resp.StatusCode)
		h.fail(w, models.ActionLogin, msgLoginFailed, resp.StatusCode)
		return
	}

	if resp.IsNull() {
		slog.Error("Unexpected login response", "error", errNullBody)
		h.fail(w, models.ActionLogin, errNullBody.Error(), http.StatusInternalServerError)
		return
	}

	userID, err := numericUserID(resp.Field("ident"))
	if err != nil {
		slog.Error("Unexpected login response", "error", err)
		h.fail(w, models.ActionLogin, err.Error(), http.StatusInternalServerError)
		return
	}

	out := models.LoginResponse{UserID: userID}
	if token := resp.Field("token"); token.Exists() {
		out.Token = json.RawMessage(token.Raw)
	}

	metrics.RecordRequest(models.ActionLogin.String(), http.StatusOK)
	writeJSON(w, http.StatusOK, out)
}

// studentData serves carta, voti and assenze. The upstream status is not
// propagated: any valid JSON body other than null yields 200 with the field
// or its default.
func (h *Handler) studentData(w http.ResponseWriter, r *http.Request, action models.Action, req models.GatewayRequest) {
	var (
		resp     *services.UpstreamResponse
		err      error
		field    string
		fallback string
	)

	userID, token := string(req.UserID), string(req.Token)

	switch action {
	case models.ActionCard:
		resp, err = h.upstream.Card(r.Context(), userID, token)
		field, fallback = "card", "{}"
	case models.ActionGrades:
		resp, err = h.upstream.Grades(r.Context(), userID, token)
		field, fallback = "grades", "[]"
	case models.ActionAbsences:
		resp, err = h.upstream.Absences(r.Context(), userID, token)
		field, fallback = "events", "[]"
	}

	if err != nil {
		slog.Error("Upstream fetch failed", "action", action.String(), "error", err)
		h.fail(w, action, err.Error(), http.StatusInternalServerError)
		return
	}

	if resp.IsNull() {
		slog.Error("Unexpected upstream response", "action", action.String(), "error", errNullBody)
		h.fail(w, action, errNullBody.Error(), http.StatusInternalServerError)
		return
	}

	if !resp.OK() {
		slog.Warn("Upstream returned non-success status, serving default",
			"action", action.String(),
			"status", resp.StatusCode,
		)
	}

	payload := []byte(fallback)
	if value := resp.Field(field); truthy(value) {
		payload = []byte(value.Raw)
	}

	metrics.RecordRequest(action.String(), http.StatusOK)
	writeRawJSON(w, http.StatusOK, payload)
}

func (h *Handler) fail(w http.ResponseWriter, action models.Action, message string, code int) {
	metrics.RecordRequest(action.String(), code)
	writeError(w, message, code)
}

// truthy reports whether a JSON value counts as present: missing members,
// null, false, 0 and "" do not.
func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null:
		// also the zero Result returned for missing members
		return false
	case gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return true
	}
}

// numericUserID keeps only the ASCII digits of the upstream ident
// ("S1234567X" becomes "1234567"). A missing or falsy ident yields "".
func numericUserID(ident gjson.Result) (string, error) {
	if !truthy(ident) {
		return "", nil
	}
	if ident.Type != gjson.String {
		return "", errIdentNotText
	}

	var b strings.Builder
	for _, c := range ident.Str {
		if c >= '0' && c <= '9' {
			b.WriteRune(c)
		}
	}
	return b.String(), nil
}
