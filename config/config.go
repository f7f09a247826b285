// ABOUTME: Configuration loader for the Classeviva gateway
// ABOUTME: Loads settings from environment variables (and an optional .env file) with defaults

package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultUpstreamURL       = "https://web.spaggiari.eu"
	DefaultUpstreamAPIKey    = "Tg1NWEwNGIgIC0K"
	DefaultUpstreamUserAgent = "CVVS/std/4.2.3 Android/12"
)

type Config struct {
	// Server
	Port string

	// Upstream (Classeviva REST API)
	UpstreamURL       string
	UpstreamAPIKey    string
	UpstreamUserAgent string
	UpstreamTimeout   int    // seconds, 0 disables the client timeout
	UpstreamAllProxy  string // ssh+socks5://user@host:port?private-key=/path/to/key
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to read .env file", "error", err)
	}

	cfg := &Config{
		Port: getEnv("PORT", "8080"),

		UpstreamURL:       ensureScheme(strings.TrimRight(getEnv("UPSTREAM_URL", DefaultUpstreamURL), "/")),
		UpstreamAPIKey:    getEnv("UPSTREAM_API_KEY", DefaultUpstreamAPIKey),
		UpstreamUserAgent: getEnv("UPSTREAM_USER_AGENT", DefaultUpstreamUserAgent),
		UpstreamTimeout:   getEnvInt("UPSTREAM_TIMEOUT_SECONDS", 30),
		UpstreamAllProxy:  os.Getenv("UPSTREAM_ALL_PROXY"),
	}

	if cfg.UpstreamTimeout < 0 || cfg.UpstreamTimeout > 600 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be between 0 and 600, got %d", cfg.UpstreamTimeout)
	}

	if cfg.UpstreamAllProxy != "" && !strings.Contains(cfg.UpstreamAllProxy, "socks5://") {
		return nil, fmt.Errorf("UPSTREAM_ALL_PROXY must use the ssh+socks5:// scheme")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// ensureScheme adds https:// prefix if the URL has no scheme
func ensureScheme(url string) string {
	if url == "" {
		return url
	}
	if !strings.Contains(url, "://") {
		return "https://" + url
	}
	return url
}
