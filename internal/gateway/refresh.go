package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// Refresher periodically re-canonicalizes every stored tool from its
// retained original definition, so inference vocabulary changes propagate
// to stored capability tags without re-ingesting documents.
type Refresher struct {
	store  *registry.Store
	canon  *canon.Canonicalizer
	hub    *EventHub
	logger *slog.Logger
	cron   *cron.Cron
}

// NewRefresher constructs a refresher. The hub may be nil.
func NewRefresher(store *registry.Store, hub *EventHub, logger *slog.Logger) *Refresher {
	return &Refresher{
		store:  store,
		canon:  canon.NewCanonicalizer(),
		hub:    hub,
		logger: logger,
	}
}

// Start schedules the refresh job. The schedule uses standard cron syntax
// or descriptors like @hourly.
func (r *Refresher) Start(schedule string) error {
	c := cron.New()
	if _, err := c.AddFunc(schedule, func() {
		if err := r.Run(context.Background()); err != nil {
			r.logger.Error("registry refresh failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("refresh: invalid schedule %q: %w", schedule, err)
	}

	c.Start()
	r.cron = c
	r.logger.Info("registry refresh scheduled", "schedule", schedule)
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (r *Refresher) Stop() {
	if r.cron != nil {
		<-r.cron.Stop().Done()
	}
}

// Run refreshes every stored tool once. Tools whose original definition is
// empty (non-object sources) are left untouched.
func (r *Refresher) Run(ctx context.Context) error {
	tools, err := r.store.List(ctx, 0, 0)
	if err != nil {
		return fmt.Errorf("refresh: list tools: %w", err)
	}

	refreshed := 0
	for _, stored := range tools {
		if len(stored.Tool.OriginalDefinition) == 0 {
			continue
		}

		res := r.canon.CanonicalizeAs(stored.Tool.OriginalDefinition, stored.Tool.SourceFormat)
		if res.Tool.Name != stored.Tool.Name {
			// The stored name is the registry key; a rename would orphan
			// the row, so keep the old entry and flag it.
			r.logger.Warn("refresh skipped tool: name changed",
				"tool", stored.Tool.Name, "new_name", res.Tool.Name)
			continue
		}

		tool := res.Tool
		if stored.Tool.Security != nil {
			tool = tool.WithSecurity(*stored.Tool.Security)
		}

		if _, err := r.store.Save(ctx, tool); err != nil {
			return fmt.Errorf("refresh: save %s: %w", stored.Tool.Name, err)
		}
		refreshed++

		if r.hub != nil {
			r.hub.Publish(Event{
				Type:         "tool.refreshed",
				Tool:         tool.Name,
				SourceFormat: string(tool.SourceFormat),
				At:           time.Now().UTC(),
			})
		}
	}

	r.logger.Info("registry refresh complete", "total", len(tools), "refreshed", refreshed)
	return nil
}
