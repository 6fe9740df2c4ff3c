package port

import (
	"context"

	"github.com/telvana/fleet-console/internal/core/domain"
)

// ListQuery carries the pagination and filter parameters accepted by the
// upstream list endpoints.
type ListQuery struct {
	Page   int
	Limit  int
	Status string
	Search string
	UserID string
}

// InventoryReader fetches the paginated upstream collections, normalized into
// flat slices regardless of which response envelope the upstream used.
type InventoryReader interface {
	ListUsers(ctx context.Context, q ListQuery) ([]domain.User, error)
	ListPhones(ctx context.Context, q ListQuery) ([]domain.Phone, error)
	ListSimCards(ctx context.Context, q ListQuery) ([]domain.SimCard, error)
	ListAttributions(ctx context.Context, q ListQuery) ([]domain.Attribution, error)

	FetchAllUsers(ctx context.Context) ([]domain.User, error)
	FetchAllPhones(ctx context.Context) ([]domain.Phone, error)
	FetchAllSimCards(ctx context.Context) ([]domain.SimCard, error)
	FetchAllAttributions(ctx context.Context) ([]domain.Attribution, error)
}

// AttributionWriter performs attribution mutations against the upstream API.
type AttributionWriter interface {
	CreateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error)
	UpdateAttribution(ctx context.Context, attribution domain.Attribution) (*domain.Attribution, error)
	ReturnAttribution(ctx context.Context, id string) (*domain.Attribution, error)
	DeleteAttribution(ctx context.Context, id string) error
}

// SimAssigner performs direct SIM assignment mutations, bypassing the
// attribution flow the way the standalone SIM-management page does.
type SimAssigner interface {
	AssignSim(ctx context.Context, simID, userID string) error
	UnassignSim(ctx context.Context, simID string) error
}

// FleetAPI is the full upstream surface the gateway depends on.
type FleetAPI interface {
	InventoryReader
	AttributionWriter
	SimAssigner
}
