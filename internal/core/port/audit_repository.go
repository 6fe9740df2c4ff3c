package port

import (
	"context"
	"time"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// AuditFilter narrows audit trail listings.
type AuditFilter struct {
	ActorID string
	Action  string
	Since   *time.Time
	Until   *time.Time
	Limit   int
	Offset  int
}

// AuditRepository persists the append-only gateway action trail.
type AuditRepository interface {
	Append(ctx context.Context, entry domain.AuditEntry) error
	List(ctx context.Context, filter AuditFilter) ([]domain.AuditEntry, error)
	Count(ctx context.Context, filter AuditFilter) (int, error)
}
