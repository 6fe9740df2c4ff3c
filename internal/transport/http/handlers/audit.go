package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telvana/fleet-console/internal/core/port"
)

// AuditHandler exposes the gateway action trail to administrators.
type AuditHandler struct {
	audit port.AuditRepository
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(audit port.AuditRepository) *AuditHandler {
	return &AuditHandler{audit: audit}
}

// RegisterRoutes wires audit endpoints into the provided router group.
func (h *AuditHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/audit", h.List)
}

// List returns a filtered page of audit entries with the total match count.
func (h *AuditHandler) List(c *gin.Context) {
	filter, ok := auditFilterFromRequest(c)
	if !ok {
		return
	}

	entries, err := h.audit.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "Erreur serveur"))
		return
	}

	total, err := h.audit.Count(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, NewErrorResponse(c, "Erreur serveur"))
		return
	}

	views := make([]AuditEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, toAuditEntryView(entry))
	}

	c.JSON(http.StatusOK, AuditListResponse{Entries: views, Total: total})
}

func auditFilterFromRequest(c *gin.Context) (port.AuditFilter, bool) {
	filter := port.AuditFilter{
		ActorID: c.Query("actor_id"),
		Action:  c.Query("action"),
	}

	if raw := c.Query("since"); raw != "" {
		since, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
			return port.AuditFilter{}, false
		}
		filter.Since = &since
	}

	if raw := c.Query("until"); raw != "" {
		until, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
			return port.AuditFilter{}, false
		}
		filter.Until = &until
	}

	filter.Limit, _ = strconv.Atoi(c.Query("limit"))
	if filter.Limit <= 0 || filter.Limit > 200 {
		filter.Limit = 50
	}
	filter.Offset, _ = strconv.Atoi(c.Query("offset"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return filter, true
}
