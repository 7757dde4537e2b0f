package gateway

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/invincible-jha/aumai-toolcanon/internal/registry"
	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

func TestRefresher_RunReappliesInference(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	store, err := registry.Open(filepath.Join(t.TempDir(), "registry.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	res := canon.NewCanonicalizer().Canonicalize(map[string]any{
		"name":         "delete_record",
		"description":  "Delete a database record",
		"input_schema": map[string]any{"type": "object"},
	})

	// Store a stale copy with the capability tags blanked out, simulating
	// a tool saved before the current vocabulary.
	stale := res.Tool
	stale.Capabilities = canon.NewToolCapability()
	if _, err := store.Save(ctx, stale); err != nil {
		t.Fatalf("save: %v", err)
	}

	r := NewRefresher(store, nil, logger)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := store.Get(ctx, "delete_record")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tool.Capabilities.Action != "write" {
		t.Errorf("action = %q, want write after refresh", got.Tool.Capabilities.Action)
	}
	if !got.Tool.Capabilities.SideEffects {
		t.Error("side_effects = false, want true after refresh")
	}
}

func TestRefresher_RunPreservesSecurityMetadata(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	store, err := registry.Open(filepath.Join(t.TempDir(), "registry.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	res := canon.NewCanonicalizer().Canonicalize(map[string]any{
		"name":         "lookup",
		"description":  "find an entry",
		"input_schema": map[string]any{"type": "object"},
	})

	sec := canon.NewToolSecurity()
	sec.DataClassification = canon.ClassificationRestricted
	if _, err := store.Save(ctx, res.Tool.WithSecurity(sec)); err != nil {
		t.Fatalf("save: %v", err)
	}

	r := NewRefresher(store, nil, logger)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := store.Get(ctx, "lookup")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tool.Security == nil {
		t.Fatal("refresh dropped security metadata")
	}
	if got.Tool.Security.DataClassification != canon.ClassificationRestricted {
		t.Errorf("classification = %q, want restricted", got.Tool.Security.DataClassification)
	}
}

func TestRefresher_SkipsEmptyOriginalDefinition(t *testing.T) {
	t.Parallel()

	logger := testLogger()
	store, err := registry.Open(filepath.Join(t.TempDir(), "registry.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	tool, err := canon.DecodeTool([]byte(`{"name": "opaque"}`))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, err := store.Save(ctx, tool); err != nil {
		t.Fatalf("save: %v", err)
	}

	r := NewRefresher(store, nil, logger)
	if err := r.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := store.Get(ctx, "opaque")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Tool.Name != "opaque" {
		t.Errorf("name = %q, want opaque", got.Tool.Name)
	}
}
