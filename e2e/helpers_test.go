// ABOUTME: Test helpers for e2e tests
// ABOUTME: Builds the full server stack against a fake upstream

package e2e

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/markalston/classeviva-gateway/config"
	"github.com/markalston/classeviva-gateway/handlers"
	"github.com/markalston/classeviva-gateway/middleware"
	"github.com/markalston/classeviva-gateway/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// withTestEnv points the gateway at upstreamURL plus additional vars,
// returning a cleanup function that restores all original values.
func withTestEnv(t *testing.T, upstreamURL string, extra map[string]string) func() {
	t.Helper()

	vars := map[string]string{
		"UPSTREAM_URL":             upstreamURL,
		"UPSTREAM_API_KEY":         "e2e-api-key",
		"UPSTREAM_USER_AGENT":      "e2e-agent/1.0",
		"UPSTREAM_TIMEOUT_SECONDS": "5",
		"UPSTREAM_ALL_PROXY":       "",
	}
	for key, value := range extra {
		vars[key] = value
	}

	originals := make(map[string]*string, len(vars))
	for key, value := range vars {
		if old, ok := os.LookupEnv(key); ok {
			originals[key] = &old
		} else {
			originals[key] = nil
		}
		os.Setenv(key, value)
	}

	return func() {
		for key, old := range originals {
			if old == nil {
				os.Unsetenv(key)
			} else {
				os.Setenv(key, *old)
			}
		}
	}
}

// newGatewayServer loads config from the environment and serves the same
// routes as main.go.
func newGatewayServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}

	client, err := services.NewClasseVivaClient(
		cfg.UpstreamURL,
		cfg.UpstreamAPIKey,
		cfg.UpstreamUserAgent,
		time.Duration(cfg.UpstreamTimeout)*time.Second,
		cfg.UpstreamAllProxy,
	)
	if err != nil {
		t.Fatalf("NewClasseVivaClient returned error: %v", err)
	}

	h := handlers.NewHandler(cfg, client)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Pattern(), middleware.Gateway(route.Handler))
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}
