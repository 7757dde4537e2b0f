// Package registry persists canonical tool definitions in SQLite and
// exposes lookups over their capability and security metadata.
package registry

import (
	"errors"
	"time"

	"github.com/invincible-jha/aumai-toolcanon/pkg/canon"
)

// ErrToolNotFound is returned when a lookup or delete references a tool
// name that is not in the registry.
var ErrToolNotFound = errors.New("registry: tool not found")

// StoredTool is a canonical tool plus the registry bookkeeping attached
// to it when it was saved.
type StoredTool struct {
	ID        string              `json:"id"`
	Tool      canon.CanonicalTool `json:"tool"`
	CreatedAt time.Time           `json:"created_at"`
}
