// ABOUTME: Request and response shapes for the gateway API
// ABOUTME: JSON-serializable structures matching the frontend's expectations

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Field is a request value that may arrive as a JSON string or number.
// Numbers are rendered the way a browser stringifies them (userId: 1234567
// becomes "1234567", 1e3 becomes "1000").
// null and an absent key are both the empty Field.
type Field string

func (f *Field) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}

	if v, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = Field(formatNumber(v))
		return nil
	}

	return fmt.Errorf("expected string or number, got %s", data)
}

// formatNumber renders v in shortest round-trip form: plain decimal for
// magnitudes in [1e-6, 1e21), exponent form outside it.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}

	abs := math.Abs(v)
	if abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}

	// Go pads the exponent to two digits ("1e-07"); drop the padding.
	s := strconv.FormatFloat(v, 'e', -1, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// GatewayRequest is the body of every gateway call.
type GatewayRequest struct {
	Action   Field `json:"action"`
	Username Field `json:"username"`
	Password Field `json:"password"`
	Token    Field `json:"token"`
	UserID   Field `json:"userId"`
}

// LoginResponse is returned after a successful upstream login.
// Token carries the upstream value verbatim and is omitted when upstream sent none.
type LoginResponse struct {
	Token  json.RawMessage `json:"token,omitempty"`
	UserID string          `json:"userId"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is served by the standalone server's health endpoint.
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
}
