package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/telvana/fleet-console/internal/core/domain"
	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	"github.com/telvana/fleet-console/internal/usecase"
)

// AttributionHandler serves the attribution lifecycle: listings,
// current-assignment resolution, conflict-aware submits, returns, deletes,
// and the direct SIM assignment path.
type AttributionHandler struct {
	services ServiceSet
}

// NewAttributionHandler constructs an AttributionHandler.
func NewAttributionHandler(services ServiceSet) *AttributionHandler {
	return &AttributionHandler{services: services}
}

// RegisterReadRoutes wires endpoints available to every authenticated role.
func (h *AttributionHandler) RegisterReadRoutes(group *gin.RouterGroup) {
	group.GET("/attributions", h.List)
	group.GET("/users/:id/current-assignments", h.CurrentAssignments)
}

// RegisterManageRoutes wires endpoints for roles that manage assignments.
func (h *AttributionHandler) RegisterManageRoutes(group *gin.RouterGroup) {
	group.POST("/attributions", h.Submit)
	group.PUT("/attributions/:id", h.Update)
	group.POST("/attributions/:id/return", h.Return)
	group.POST("/simcards/:id/assign", h.AssignSim)
	group.POST("/simcards/:id/unassign", h.UnassignSim)
}

// RegisterAdminRoutes wires endpoints restricted to administrators.
func (h *AttributionHandler) RegisterAdminRoutes(group *gin.RouterGroup) {
	group.DELETE("/attributions/:id", h.Delete)
}

var submitErrorCases = []ErrorCase{
	{Err: usecase.ErrUserRequired, Status: http.StatusBadRequest, Message: "Données invalides"},
	{Err: usecase.ErrAttributionNotFound, Status: http.StatusNotFound, Message: "Ressource introuvable"},
	{Err: usecase.ErrLifecycleViolation, Status: http.StatusConflict, Message: "Conflit de données"},
}

// List returns one page of attributions.
func (h *AttributionHandler) List(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	attributions, err := h.services.Factory(token).ListAttributions(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	views := make([]AttributionView, 0, len(attributions))
	for _, attribution := range attributions {
		views = append(views, toAttributionView(attribution))
	}
	c.JSON(http.StatusOK, views)
}

// CurrentAssignments resolves what the user currently holds.
func (h *AttributionHandler) CurrentAssignments(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	current, err := h.services.attributionFor(token).ResolveCurrentAssignments(c.Request.Context(), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	c.JSON(http.StatusOK, toCurrentAssignmentsView(current))
}

// Submit creates a new attribution, rejecting unconfirmed replacements.
func (h *AttributionHandler) Submit(c *gin.Context) {
	h.submit(c, "")
}

// Update edits an existing attribution with the same conflict handling.
func (h *AttributionHandler) Update(c *gin.Context) {
	h.submit(c, c.Param("id"))
}

func (h *AttributionHandler) submit(c *gin.Context, attributionID string) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	var req SubmitAttributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
		return
	}

	assignmentDate, ok := parseAssignmentDate(c, req.AssignmentDate)
	if !ok {
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)
	if attributionID == "" {
		attributionID = req.ID
	}

	input := usecase.SubmitInput{
		ID:                 attributionID,
		UserID:             req.UserID,
		PhoneID:            req.PhoneID,
		SimCardID:          req.SimCardID,
		AssignmentDate:     assignmentDate,
		Status:             domain.AttributionStatus(req.Status),
		Notes:              req.Notes,
		ActorID:            actorID,
		ConfirmReplacement: req.ConfirmReplacement,
	}

	stored, err := h.services.attributionFor(token).Submit(c.Request.Context(), input)
	if err != nil {
		var conflict *usecase.ReplacementConfirmationError
		if errors.As(err, &conflict) {
			c.JSON(http.StatusConflict, ReplacementConflictResponse{
				Error:                "Cet utilisateur a déjà un équipement attribué",
				RequiresConfirmation: true,
				Current:              toCurrentAssignmentsView(conflict.Current),
				NewPhoneID:           conflict.NewPhoneID,
				NewSimCardID:         conflict.NewSimCardID,
				TraceID:              middleware.GetTraceID(c),
			})
			return
		}
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	status := http.StatusCreated
	if input.ID != "" {
		status = http.StatusOK
	}
	if stored == nil {
		c.Status(status)
		return
	}
	c.JSON(status, toAttributionView(*stored))
}

// Return marks an attribution as returned.
func (h *AttributionHandler) Return(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	stored, err := h.services.attributionFor(token).Return(c.Request.Context(), actorID, c.Query("user_id"), c.Param("id"))
	if err != nil {
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	if stored == nil {
		c.Status(http.StatusOK)
		return
	}
	c.JSON(http.StatusOK, toAttributionView(*stored))
}

// Delete removes an attribution entirely.
func (h *AttributionHandler) Delete(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.services.attributionFor(token).Delete(c.Request.Context(), actorID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Attribution supprimée"})
}

// AssignSim attaches a SIM directly to a user.
func (h *AttributionHandler) AssignSim(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	var req AssignSimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.services.attributionFor(token).AssignSim(c.Request.Context(), actorID, c.Param("id"), req.UserID); err != nil {
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Carte SIM attribuée"})
}

// UnassignSim detaches a SIM from its holder.
func (h *AttributionHandler) UnassignSim(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	actorID, _ := middleware.GetAuthenticatedUserID(c)

	if err := h.services.attributionFor(token).UnassignSim(c.Request.Context(), actorID, c.Param("id")); err != nil {
		RespondWithMappedError(c, err, submitErrorCases, http.StatusBadGateway, "Erreur serveur")
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Carte SIM libérée"})
}

// parseAssignmentDate accepts RFC3339 timestamps or bare dates. An empty value
// defers to the service clock.
func parseAssignmentDate(c *gin.Context, raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}

	c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
	return time.Time{}, false
}
