package registry

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := Open(filepath.Join(t.TempDir(), "registry.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	return store
}

func testTool(name, description string) canon.CanonicalTool {
	res := canon.NewCanonicalizer().Canonicalize(map[string]any{
		"name":         name,
		"description":  description,
		"input_schema": map[string]any{"type": "object", "properties": map[string]any{}},
	})
	return res.Tool
}

func TestStore_SaveAndGet(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	saved, err := store.Save(ctx, testTool("read_file", "Read a file from disk"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" {
		t.Error("saved tool has empty ID")
	}
	if saved.CreatedAt.IsZero() {
		t.Error("saved tool has zero created_at")
	}

	got, err := store.Get(ctx, "read_file")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != saved.ID {
		t.Errorf("ID = %q, want %q", got.ID, saved.ID)
	}
	if got.Tool.Name != "read_file" {
		t.Errorf("name = %q, want read_file", got.Tool.Name)
	}
	if got.Tool.Capabilities.Action != "read" {
		t.Errorf("action = %q, want read", got.Tool.Capabilities.Action)
	}
	if got.Tool.Capabilities.Domain != "filesystem" {
		t.Errorf("domain = %q, want filesystem", got.Tool.Capabilities.Domain)
	}
}

func TestStore_SaveReplacesKeepingID(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	first, err := store.Save(ctx, testTool("lookup", "find an entry"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	second, err := store.Save(ctx, testTool("lookup", "find an entry quickly"))
	if err != nil {
		t.Fatalf("save replacement: %v", err)
	}

	if second.ID != first.ID {
		t.Errorf("replacement ID = %q, want original %q", second.ID, first.ID)
	}
	if second.Tool.Description != "find an entry quickly" {
		t.Errorf("description = %q, want updated text", second.Tool.Description)
	}

	count, err := store.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestStore_GetNotFound(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)

	_, err := store.Get(context.Background(), "missing")
	if !errors.Is(err, ErrToolNotFound) {
		t.Errorf("err = %v, want ErrToolNotFound", err)
	}
}

func TestStore_Delete(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	if _, err := store.Save(ctx, testTool("temp", "temporary tool")); err != nil {
		t.Fatalf("save: %v", err)
	}

	if err := store.Delete(ctx, "temp"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Delete(ctx, "temp"); !errors.Is(err, ErrToolNotFound) {
		t.Errorf("second delete err = %v, want ErrToolNotFound", err)
	}
}

func TestStore_ListOrderedByName(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := store.Save(ctx, testTool(name, "a tool")); err != nil {
			t.Fatalf("save %s: %v", name, err)
		}
	}

	tools, err := store.List(ctx, 0, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []string{"alpha", "mid", "zeta"}
	if len(tools) != len(want) {
		t.Fatalf("len = %d, want %d", len(tools), len(want))
	}
	for i, name := range want {
		if tools[i].Tool.Name != name {
			t.Errorf("tools[%d] = %q, want %q", i, tools[i].Tool.Name, name)
		}
	}

	page, err := store.List(ctx, 1, 1)
	if err != nil {
		t.Fatalf("list page: %v", err)
	}
	if len(page) != 1 || page[0].Tool.Name != "mid" {
		t.Errorf("page = %v, want only mid", page)
	}
}

func TestStore_FindByCapability(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	seed := []struct{ name, description string }{
		{"search_web", "Search the web for a query"},
		{"fetch_page", "Fetch a web page over http"},
		{"delete_record", "Delete a database record"},
	}
	for _, s := range seed {
		if _, err := store.Save(ctx, testTool(s.name, s.description)); err != nil {
			t.Fatalf("save %s: %v", s.name, err)
		}
	}

	web, err := store.FindByCapability(ctx, "", "web")
	if err != nil {
		t.Fatalf("find by domain: %v", err)
	}
	if len(web) != 2 {
		t.Errorf("web tools = %d, want 2", len(web))
	}

	writes, err := store.FindByCapability(ctx, "write", "")
	if err != nil {
		t.Fatalf("find by action: %v", err)
	}
	if len(writes) != 1 || writes[0].Tool.Name != "delete_record" {
		t.Errorf("write tools = %v, want only delete_record", writes)
	}

	all, err := store.FindByCapability(ctx, "", "")
	if err != nil {
		t.Fatalf("find with no filters: %v", err)
	}
	if len(all) != len(seed) {
		t.Errorf("unfiltered tools = %d, want %d", len(all), len(seed))
	}
}

func TestStore_FindBySecurityAndPIITags(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	plain := testTool("plain", "an ordinary tool")
	if _, err := store.Save(ctx, plain); err != nil {
		t.Fatalf("save plain: %v", err)
	}

	sec := canon.NewToolSecurity()
	sec.DataClassification = canon.ClassificationConfidential
	sec.PIIHandling = canon.PIIProcesses
	tagged := testTool("tagged", "a sensitive tool").WithSecurity(sec)
	if _, err := store.Save(ctx, tagged); err != nil {
		t.Fatalf("save tagged: %v", err)
	}

	confidential, err := store.FindBySecurityTag(ctx, canon.ClassificationConfidential)
	if err != nil {
		t.Fatalf("find by security tag: %v", err)
	}
	if len(confidential) != 1 || confidential[0].Tool.Name != "tagged" {
		t.Errorf("confidential tools = %v, want only tagged", confidential)
	}

	pii, err := store.FindByPIITag(ctx, canon.PIIProcesses)
	if err != nil {
		t.Fatalf("find by pii tag: %v", err)
	}
	if len(pii) != 1 || pii[0].Tool.Name != "tagged" {
		t.Errorf("pii tools = %v, want only tagged", pii)
	}

	if pii[0].Tool.Security == nil {
		t.Fatal("stored tool lost its security metadata")
	}
	if pii[0].Tool.Security.DataClassification != canon.ClassificationConfidential {
		t.Errorf("classification = %q, want %q",
			pii[0].Tool.Security.DataClassification, canon.ClassificationConfidential)
	}
}

func TestStore_FindBySourceFormat(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	anth := testTool("anth_tool", "described")
	if _, err := store.Save(ctx, anth); err != nil {
		t.Fatalf("save: %v", err)
	}

	rawRes := canon.NewCanonicalizer().Canonicalize(map[string]any{
		"name":        "raw_tool",
		"description": "no recognisable shape",
	})
	if _, err := store.Save(ctx, rawRes.Tool); err != nil {
		t.Fatalf("save raw: %v", err)
	}

	anthropic, err := store.FindBySourceFormat(ctx, canon.FormatAnthropic)
	if err != nil {
		t.Fatalf("find by source format: %v", err)
	}
	if len(anthropic) != 1 || anthropic[0].Tool.Name != "anth_tool" {
		t.Errorf("anthropic tools = %v, want only anth_tool", anthropic)
	}
}

func TestStore_SearchName(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	seed := []struct{ name, description string }{
		{"search_web", "Search the web for pages"},
		{"read_file", "Read a file from disk"},
		{"send_email", "Send an email message"},
	}
	for _, s := range seed {
		if _, err := store.Save(ctx, testTool(s.name, s.description)); err != nil {
			t.Fatalf("save %s: %v", s.name, err)
		}
	}

	// Matches against the description column too.
	hits, err := store.SearchName(ctx, "disk", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(hits) != 1 || hits[0].Tool.Name != "read_file" {
		t.Errorf("hits = %v, want only read_file", hits)
	}

	none, err := store.SearchName(ctx, "", 10)
	if err != nil {
		t.Fatalf("empty search: %v", err)
	}
	if none != nil {
		t.Errorf("empty query hits = %v, want nil", none)
	}
}
