// ABOUTME: Serverless function entry point for /api/classeviva
// ABOUTME: Builds the gateway once per cold start and serves each invocation through it

package handler

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/markalston/classeviva-gateway/config"
	"github.com/markalston/classeviva-gateway/handlers"
	"github.com/markalston/classeviva-gateway/logger"
	"github.com/markalston/classeviva-gateway/middleware"
	"github.com/markalston/classeviva-gateway/services"
)

var (
	gateway http.HandlerFunc
	once    sync.Once
)

// setup runs on cold start. A configuration failure is logged once and every
// invocation of this instance then answers 500 with the reason.
func setup() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		gateway = middleware.Gateway(handlers.Unavailable(err))
		return
	}

	client, err := services.NewClasseVivaClient(
		cfg.UpstreamURL,
		cfg.UpstreamAPIKey,
		cfg.UpstreamUserAgent,
		time.Duration(cfg.UpstreamTimeout)*time.Second,
		cfg.UpstreamAllProxy,
	)
	if err != nil {
		slog.Error("Failed to create upstream client", "error", err)
		gateway = middleware.Gateway(handlers.Unavailable(err))
		return
	}

	gateway = middleware.Gateway(handlers.NewHandler(cfg, client).Gateway)
}

// Handler is invoked by the platform for every request to /api/classeviva.
func Handler(w http.ResponseWriter, r *http.Request) {
	once.Do(setup)
	gateway(w, r)
}
