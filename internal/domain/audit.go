package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuditEntry is an immutable record of a successful state-changing action.
// Entries are append-only: the application never updates or deletes them.
type AuditEntry struct {
	ID         uuid.UUID      `json:"id"`
	ActorID    *uuid.UUID     `json:"actor_id,omitempty"` // nil for anonymous actions
	ActorName  string         `json:"actor_name,omitempty"` // joined on read
	Action     string         `json:"action"`
	Resource   string         `json:"resource,omitempty"`
	ResourceID string         `json:"resource_id,omitempty"` // uuid string or file name
	Details    map[string]any `json:"details,omitempty"`
	OriginIP   string         `json:"origin_ip"`
	CreatedAt  time.Time      `json:"created_at"`
}

// ActivityStats is a one-day aggregate over the audit log.
type ActivityStats struct {
	Date         string `json:"date"`
	TotalActions int64  `json:"total_actions"`
	UniqueActors int64  `json:"unique_actors"`
	Logins       int64  `json:"logins"`
	Creations    int64  `json:"creations"`
	Updates      int64  `json:"updates"`
	Deletions    int64  `json:"deletions"`
}

type AuditRepository interface {
	Record(ctx context.Context, e *AuditEntry) error
	List(ctx context.Context, limit, offset int) ([]*AuditEntry, error)
	ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]*AuditEntry, error)
	Stats(ctx context.Context, days int) ([]*ActivityStats, error)
}
