package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	"github.com/telvana/fleet-console/internal/usecase"
)

// APIFactory builds a fleet API client bound to one session's upstream token.
// Handlers resolve the token from the request context and never from shared
// process state.
type APIFactory func(token string) port.FleetAPI

// ServiceSet groups the shared dependencies handlers use to assemble
// per-session services.
type ServiceSet struct {
	Factory     APIFactory
	Cache       port.SnapshotCache
	SnapshotTTL time.Duration
	Audit       port.AuditRepository
	Events      port.EventPublisher
	Logger      *zap.Logger
}

func (s ServiceSet) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s ServiceSet) inventoryFor(token string) *usecase.InventoryService {
	inventory := usecase.NewInventoryService(s.Factory(token), s.logger())
	if s.Cache != nil {
		inventory = inventory.WithSnapshotCache(s.Cache, s.SnapshotTTL).ScopeCacheToToken(token)
	}
	return inventory
}

func (s ServiceSet) attributionFor(token string) *usecase.AttributionService {
	attribution := usecase.NewAttributionService(s.Factory(token), s.inventoryFor(token), s.logger())
	if s.Audit != nil {
		attribution = attribution.WithAuditTrail(s.Audit)
	}
	if s.Events != nil {
		attribution = attribution.WithEventPublisher(s.Events)
	}
	return attribution
}

// sessionToken pulls the upstream token resolved by the auth middleware. A
// missing token means the middleware chain was misconfigured for this route.
func sessionToken(c *gin.Context) (string, bool) {
	token, ok := middleware.GetUpstreamToken(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, NewErrorResponse(c, "Session expirée, veuillez vous reconnecter"))
		return "", false
	}
	return token, true
}
