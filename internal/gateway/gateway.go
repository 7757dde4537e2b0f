// Package gateway provides the HTTP API for canonicalization, emission,
// and the tool registry. It binds to loopback by default.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/invincible-jha/aumai-toolcanon/internal/config"
	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// Gateway is the HTTP gateway. It exposes health, metrics, canonicalization,
// and registry endpoints plus a WebSocket event stream.
type Gateway struct {
	config    config.ServerConfig
	logger    *slog.Logger
	canon     *canon.Canonicalizer
	store     *registry.Store
	metrics   *Metrics
	hub       *EventHub
	server    *http.Server
	startedAt time.Time
}

// New constructs a gateway. The store may be nil, in which case the
// registry endpoints respond 503.
func New(cfg config.ServerConfig, store *registry.Store, logger *slog.Logger) *Gateway {
	return &Gateway{
		config:  cfg,
		logger:  logger,
		canon:   canon.NewCanonicalizer(),
		store:   store,
		metrics: NewMetrics(),
		hub:     NewEventHub(logger),
	}
}

// Events returns the gateway's event hub so other components (the refresh
// job, the CLI server command) can publish to connected subscribers.
func (g *Gateway) Events() *EventHub {
	return g.hub
}

// Start binds the listener and serves in a background goroutine.
func (g *Gateway) Start(ctx context.Context) error {
	g.startedAt = time.Now()

	g.server = &http.Server{
		Addr:         g.config.Bind,
		Handler:      g.buildRouter(),
		ReadTimeout:  g.config.ReadTimeout,
		WriteTimeout: g.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", g.config.Bind)
	if err != nil {
		return errors.New("gateway: listen failed: " + err.Error())
	}

	go func() {
		g.logger.Info("gateway listening", "addr", g.config.Bind)
		if err := g.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			g.logger.Error("gateway serve error", "error", err)
		}
	}()

	return nil
}

// Stop shuts the server down gracefully with the configured timeout.
func (g *Gateway) Stop(ctx context.Context) error {
	if g.server == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, g.config.ShutdownTimeout)
	defer cancel()

	g.logger.Info("gateway shutting down")
	g.hub.Close()
	return g.server.Shutdown(shutdownCtx)
}
