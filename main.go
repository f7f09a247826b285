// ABOUTME: Entry point for the standalone Classeviva gateway server
// ABOUTME: Serves the gateway, a health check, and Prometheus metrics over HTTP

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/markalston/classeviva-gateway/config"
	"github.com/markalston/classeviva-gateway/handlers"
	"github.com/markalston/classeviva-gateway/logger"
	"github.com/markalston/classeviva-gateway/middleware"
	"github.com/markalston/classeviva-gateway/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownGrace = 10 * time.Second

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	slog.Info("Starting Classeviva Gateway")
	slog.Info("Upstream configured", "url", cfg.UpstreamURL, "timeout_seconds", cfg.UpstreamTimeout)
	if cfg.UpstreamAllProxy != "" {
		slog.Info("Upstream traffic tunnelled through SOCKS5 proxy")
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
		os.Exit(1)
	}

	h := handlers.NewHandler(cfg, client)

	mux := http.NewServeMux()
	for _, route := range h.Routes() {
		mux.HandleFunc(route.Pattern(), middleware.Gateway(route.Handler))
	}
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", server.Addr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
	}
}
