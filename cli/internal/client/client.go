// ABOUTME: HTTP client for the Classeviva gateway
// ABOUTME: Wraps the action endpoint and health check with CLI-friendly errors

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// GatewayPath is where the gateway function is mounted.
const GatewayPath = "/api/classeviva"

// Client is the API client for the Classeviva gateway
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client with the given base URL
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Session identifies an authenticated student for data actions.
type Session struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

// HealthResponse represents the /api/health endpoint response
type HealthResponse struct {
	Status   string `json:"status"`
	Upstream string `json:"upstream"`
}

// ErrorResponse represents a gateway error body
type ErrorResponse struct {
	Error string `json:"error"`
}

// Card is the student's registry card.
type Card struct {
	Ident          string `json:"ident"`
	UsrType        string `json:"usrType"`
	UsrID          int    `json:"usrId"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	BirthDate      string `json:"birthDate"`
	FiscalCode     string `json:"fiscalCode"`
	SchCode        string `json:"schCode"`
	SchName        string `json:"schName"`
	SchDedication  string `json:"schDedication"`
	SchCity        string `json:"schCity"`
	SchProv        string `json:"schProv"`
	MiurSchoolCode string `json:"miurSchoolCode"`
}

// Grade is a single mark. DecimalValue is nil for marks without a numeric
// value; SubjectDesc is nil when the key is absent.
type Grade struct {
	EvtID          int      `json:"evtId"`
	EvtDate        string   `json:"evtDate"`
	SubjectDesc    *string  `json:"subjectDesc"`
	DecimalValue   *float64 `json:"decimalValue"`
	DisplayValue   string   `json:"displayValue"`
	Color          string   `json:"color"`
	ComponentDesc  string   `json:"componentDesc"`
	NotesForFamily string   `json:"notesForFamily"`
}

// AbsenceEvent is an absence, late entry or early exit.
type AbsenceEvent struct {
	EvtID            int    `json:"evtId"`
	EvtCode          string `json:"evtCode"`
	EvtDate          string `json:"evtDate"`
	EvtHPos          *int   `json:"evtHPos"`
	EvtValue         *int   `json:"evtValue"`
	IsJustified      bool   `json:"isJustified"`
	JustifReasonCode string `json:"justifReasonCode"`
	JustifReasonDesc string `json:"justifReasonDesc"`
}

type gatewayRequest struct {
	Action   string `json:"action"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
	Token    string `json:"token,omitempty"`
	UserID   string `json:"userId,omitempty"`
}

// Health calls the /api/health endpoint
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var health HealthResponse
	if err := c.do(ctx, req, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// Login exchanges credentials for a session.
func (c *Client) Login(ctx context.Context, username, password string) (*Session, error) {
	var session Session
	err := c.post(ctx, gatewayRequest{Action: "login", Username: username, Password: password}, &session)
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// Card calls the carta action
func (c *Client) Card(ctx context.Context, s Session) (*Card, error) {
	var card Card
	if err := c.post(ctx, sessionRequest("carta", s), &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// Grades calls the voti action
func (c *Client) Grades(ctx context.Context, s Session) ([]Grade, error) {
	var grades []Grade
	if err := c.post(ctx, sessionRequest("voti", s), &grades); err != nil {
		return nil, err
	}
	return grades, nil
}

// Absences calls the assenze action
func (c *Client) Absences(ctx context.Context, s Session) ([]AbsenceEvent, error) {
	var events []AbsenceEvent
	if err := c.post(ctx, sessionRequest("assenze", s), &events); err != nil {
		return nil, err
	}
	return events, nil
}

func sessionRequest(action string, s Session) gatewayRequest {
	return gatewayRequest{Action: action, Token: s.Token, UserID: s.UserID}
}

// post sends an action body to the gateway and decodes the reply into out.
func (c *Client) post(ctx context.Context, body gatewayRequest, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+GatewayPath, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(ctx, req, out)
}

func (c *Client) do(ctx context.Context, req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.handleRequestError(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.handleErrorResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("invalid response from backend: %w", err)
	}
	return nil
}

// handleRequestError converts context errors to user-friendly messages
func (c *Client) handleRequestError(ctx context.Context, err error) error {
	if ctx.Err() == context.Canceled {
		return fmt.Errorf("request canceled")
	}
	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("request timed out")
	}
	return fmt.Errorf("cannot connect to backend at %s: %w", c.baseURL, err)
}

// handleErrorResponse parses API error responses
func (c *Client) handleErrorResponse(resp *http.Response) error {
	var errResp ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("backend returned status %d", resp.StatusCode)
	}
	return fmt.Errorf("backend error: %s", errResp.Error)
}
