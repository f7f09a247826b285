// ABOUTME: Classeviva REST API client for login and student data
// ABOUTME: Sends the static app headers and validates that every body is JSON

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/markalston/classeviva-gateway/metrics"
	"github.com/tidwall/gjson"
)

const (
	headerAPIKey    = "Z-Dev-Apikey"
	headerAuthToken = "Z-Auth-Token"
)

var utf8BOM = []byte("\xef\xbb\xbf")

// UpstreamResponse is a completed upstream call whose body is known to be valid JSON.
type UpstreamResponse struct {
	StatusCode int
	Body       []byte
}

// OK reports a 2xx status.
func (r *UpstreamResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Field returns a top-level member of the body. key is a plain member name,
// not a path expression. When the key repeats, the last occurrence wins.
func (r *UpstreamResponse) Field(key string) gjson.Result {
	var found gjson.Result

	root := gjson.ParseBytes(r.Body)
	if !root.IsObject() {
		return found
	}
	root.ForEach(func(k, v gjson.Result) bool {
		if k.String() == key {
			found = v
		}
		return true
	})
	return found
}

// IsNull reports a body that is the JSON literal null. Such a body has no
// members to read.
func (r *UpstreamResponse) IsNull() bool {
	return gjson.ParseBytes(r.Body).Type == gjson.Null
}

type ClasseVivaClient struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client
}

// NewClasseVivaClient creates a client for the REST API at baseURL. A zero
// timeout leaves the HTTP client without a deadline. allProxy, when set, routes
// every connection through an SSH+SOCKS5 tunnel.
func NewClasseVivaClient(baseURL, apiKey, userAgent string, timeout time.Duration, allProxy string) (*ClasseVivaClient, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if allProxy != "" {
		dial, err := newProxyDialContext(allProxy)
		if err != nil {
			return nil, fmt.Errorf("invalid UPSTREAM_ALL_PROXY: %w", err)
		}
		transport.Proxy = nil
		transport.DialContext = dial
	}

	return &ClasseVivaClient{
		baseURL:   baseURL,
		apiKey:    apiKey,
		userAgent: userAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}, nil
}

// SetHTTPClient allows overriding the HTTP client (useful for testing)
func (c *ClasseVivaClient) SetHTTPClient(client *http.Client) {
	c.client = client
}

// BaseURL returns the upstream root this client talks to.
func (c *ClasseVivaClient) BaseURL() string {
	return c.baseURL
}

type loginRequest struct {
	Ident *string `json:"ident"`
	Pass  string  `json:"pass"`
	UID   string  `json:"uid"`
}

// Login posts the student's credentials. Non-2xx statuses are not errors; the
// caller decides what to do with them.
func (c *ClasseVivaClient) Login(ctx context.Context, uid, pass string) (*UpstreamResponse, error) {
	payload, err := json.Marshal(loginRequest{Pass: pass, UID: uid})
	if err != nil {
		return nil, fmt.Errorf("failed to encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/rest/v1/auth/login", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, "login")
}

// Card fetches GET /rest/v1/students/{userID}/card.
func (c *ClasseVivaClient) Card(ctx context.Context, userID, token string) (*UpstreamResponse, error) {
	return c.fetchStudent(ctx, "carta", userID, token, "card")
}

// Grades fetches GET /rest/v1/students/{userID}/grades.
func (c *ClasseVivaClient) Grades(ctx context.Context, userID, token string) (*UpstreamResponse, error) {
	return c.fetchStudent(ctx, "voti", userID, token, "grades")
}

// Absences fetches GET /rest/v1/students/{userID}/absences/details.
func (c *ClasseVivaClient) Absences(ctx context.Context, userID, token string) (*UpstreamResponse, error) {
	return c.fetchStudent(ctx, "assenze", userID, token, "absences/details")
}

// fetchStudent performs an authenticated read. Every call is its own
// upstream request, cancelled with ctx.
func (c *ClasseVivaClient) fetchStudent(ctx context.Context, action, userID, token, resource string) (*UpstreamResponse, error) {
	endpoint := c.baseURL + "/rest/v1/students/" + url.PathEscape(userID) + "/" + resource

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s request: %w", action, err)
	}
	req.Header.Set(headerAuthToken, token)

	return c.do(req, action)
}

// do sends req with the static app headers and reads a JSON body.
func (c *ClasseVivaClient) do(req *http.Request, action string) (resp *UpstreamResponse, err error) {
	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	defer func() {
		metrics.RecordUpstream(action, time.Since(start), err)
	}()

	httpResp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", action, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", action, err)
	}

	slog.Debug("Upstream call completed",
		"action", action,
		"status", httpResp.StatusCode,
		"bytes", len(body),
		"latency_ms", time.Since(start).Milliseconds(),
	)

	body = bytes.TrimPrefix(body, utf8BOM)
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON in %s response (status %d)", action, httpResp.StatusCode)
	}

	return &UpstreamResponse{StatusCode: httpResp.StatusCode, Body: body}, nil
}
