package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// Save stores a canonical tool under its name. Saving a name that already
// exists replaces the stored definition but keeps the original ID and
// creation time (FTS5 index is updated via triggers).
func (s *Store) Save(ctx context.Context, tool canon.CanonicalTool) (StoredTool, error) {
	canonicalJSON, err := json.Marshal(tool)
	if err != nil {
		return StoredTool{}, fmt.Errorf("registry: marshal tool: %w", err)
	}

	var classification, pii string
	if tool.Security != nil {
		classification = tool.Security.DataClassification
		pii = tool.Security.PIIHandling
	}

	sideEffects := 0
	if tool.Capabilities.SideEffects {
		sideEffects = 1
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO tools (id, name, description, source_format, action, domain,
			side_effects, data_classification, pii_handling, canonical, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			description         = excluded.description,
			source_format       = excluded.source_format,
			action              = excluded.action,
			domain              = excluded.domain,
			side_effects        = excluded.side_effects,
			data_classification = excluded.data_classification,
			pii_handling        = excluded.pii_handling,
			canonical           = excluded.canonical`,
		uuid.NewString(), tool.Name, tool.Description, string(tool.SourceFormat),
		tool.Capabilities.Action, tool.Capabilities.Domain, sideEffects,
		classification, pii, string(canonicalJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return StoredTool{}, fmt.Errorf("registry: save tool: %w", err)
	}

	return s.Get(ctx, tool.Name)
}

// Get retrieves a stored tool by name. Returns ErrToolNotFound if no tool
// with that name exists.
func (s *Store) Get(ctx context.Context, name string) (StoredTool, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, canonical, created_at FROM tools WHERE name = ?`, name)

	stored, err := scanTool(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return StoredTool{}, ErrToolNotFound
	}
	if err != nil {
		return StoredTool{}, err
	}
	return stored, nil
}

// Delete removes a stored tool by name. Returns ErrToolNotFound if the
// tool does not exist.
func (s *Store) Delete(ctx context.Context, name string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM tools WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("registry: delete tool: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("registry: rows affected: %w", err)
	}
	if n == 0 {
		return ErrToolNotFound
	}

	return nil
}

// List returns stored tools ordered by name. A limit <= 0 means no limit;
// offset skips the first N rows.
func (s *Store) List(ctx context.Context, limit, offset int) ([]StoredTool, error) {
	if limit <= 0 {
		limit = -1 // SQLite treats a negative LIMIT as unbounded.
	}
	if offset < 0 {
		offset = 0
	}
	return s.query(ctx, `
		SELECT id, canonical, created_at FROM tools
		ORDER BY name LIMIT ? OFFSET ?`, limit, offset)
}

// Count returns the total number of stored tools.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM tools").Scan(&count); err != nil {
		return 0, fmt.Errorf("registry: count tools: %w", err)
	}
	return count, nil
}

// FindByCapability returns tools matching the given action and/or domain.
// Empty arguments match everything, so FindByCapability(ctx, "", "web")
// returns every tool in the web domain regardless of action.
func (s *Store) FindByCapability(ctx context.Context, action, domain string) ([]StoredTool, error) {
	return s.query(ctx, `
		SELECT id, canonical, created_at FROM tools
		WHERE (? = '' OR action = ?) AND (? = '' OR domain = ?)
		ORDER BY name`,
		action, action, domain, domain)
}

// FindBySecurityTag returns tools whose data classification matches.
func (s *Store) FindBySecurityTag(ctx context.Context, classification string) ([]StoredTool, error) {
	return s.query(ctx, `
		SELECT id, canonical, created_at FROM tools
		WHERE data_classification = ? ORDER BY name`, classification)
}

// FindByPIITag returns tools whose PII handling tag matches.
func (s *Store) FindByPIITag(ctx context.Context, handling string) ([]StoredTool, error) {
	return s.query(ctx, `
		SELECT id, canonical, created_at FROM tools
		WHERE pii_handling = ? ORDER BY name`, handling)
}

// FindBySourceFormat returns tools ingested from the given format.
func (s *Store) FindBySourceFormat(ctx context.Context, format canon.SourceFormat) ([]StoredTool, error) {
	return s.query(ctx, `
		SELECT id, canonical, created_at FROM tools
		WHERE source_format = ? ORDER BY name`, string(format))
}

// SearchName retrieves the top-K tools whose name or description matches
// the query using FTS5 full-text search.
func (s *Store) SearchName(ctx context.Context, query string, topK int) ([]StoredTool, error) {
	if query == "" || topK <= 0 {
		return nil, nil
	}

	return s.query(ctx, `
		SELECT t.id, t.canonical, t.created_at
		FROM tools_fts
		JOIN tools t ON t.rowid = tools_fts.rowid
		WHERE tools_fts MATCH ?
		ORDER BY rank
		LIMIT ?`,
		query, topK)
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]StoredTool, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("registry: query tools: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tools []StoredTool
	for rows.Next() {
		stored, err := scanTool(rows.Scan)
		if err != nil {
			return nil, err
		}
		tools = append(tools, stored)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("registry: scan tool rows: %w", err)
	}

	return tools, nil
}

func scanTool(scan func(...any) error) (StoredTool, error) {
	var (
		stored        StoredTool
		canonicalJSON string
		createdAtStr  string
	)

	if err := scan(&stored.ID, &canonicalJSON, &createdAtStr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredTool{}, err
		}
		return StoredTool{}, fmt.Errorf("registry: scan tool: %w", err)
	}

	tool, err := canon.DecodeTool([]byte(canonicalJSON))
	if err != nil {
		return StoredTool{}, fmt.Errorf("registry: unmarshal tool: %w", err)
	}
	stored.Tool = tool

	if createdAtStr != "" {
		t, err := time.Parse(time.RFC3339Nano, createdAtStr)
		if err != nil {
			return StoredTool{}, fmt.Errorf("registry: parse created_at %q: %w", createdAtStr, err)
		}
		stored.CreatedAt = t
	}

	return stored, nil
}
