package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/telvana/fleet-console/internal/core/port"
	"github.com/telvana/fleet-console/internal/usecase"
)

// InventoryHandler serves the normalized inventory collections and the
// eligibility views backing the assignment pickers.
type InventoryHandler struct {
	services ServiceSet
}

// NewInventoryHandler constructs an InventoryHandler.
func NewInventoryHandler(services ServiceSet) *InventoryHandler {
	return &InventoryHandler{services: services}
}

// RegisterRoutes wires inventory endpoints into the provided router group.
func (h *InventoryHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/users", h.ListUsers)
	group.GET("/phones", h.ListPhones)
	group.GET("/phones/eligible", h.EligiblePhones)
	group.GET("/simcards", h.ListSimCards)
	group.GET("/simcards/eligible", h.EligibleSims)
}

// ListUsers returns one page of fleet users.
func (h *InventoryHandler) ListUsers(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	users, err := h.services.Factory(token).ListUsers(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	views := make([]UserView, 0, len(users))
	for _, user := range users {
		views = append(views, toUserView(user))
	}
	c.JSON(http.StatusOK, views)
}

// ListPhones returns one page of phone inventory.
func (h *InventoryHandler) ListPhones(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	phones, err := h.services.Factory(token).ListPhones(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	views := make([]PhoneView, 0, len(phones))
	for _, phone := range phones {
		views = append(views, toPhoneView(phone))
	}
	c.JSON(http.StatusOK, views)
}

// ListSimCards returns one page of SIM inventory.
func (h *InventoryHandler) ListSimCards(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	sims, err := h.services.Factory(token).ListSimCards(c.Request.Context(), listQueryFromRequest(c))
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	views := make([]SimCardView, 0, len(sims))
	for _, sim := range sims {
		views = append(views, toSimCardView(sim))
	}
	c.JSON(http.StatusOK, views)
}

// EligiblePhones returns phones free for assignment, filtered by the search term.
func (h *InventoryHandler) EligiblePhones(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	snapshot, err := h.services.inventoryFor(token).LoadSnapshot(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	eligible := usecase.EligiblePhones(c.Query("search"), snapshot.Phones, snapshot.Index())

	views := make([]PhoneView, 0, len(eligible))
	for _, phone := range eligible {
		views = append(views, toPhoneView(phone))
	}
	c.JSON(http.StatusOK, views)
}

// EligibleSims returns SIMs free for assignment to the target user, filtered
// by the search term.
func (h *InventoryHandler) EligibleSims(c *gin.Context) {
	token, ok := sessionToken(c)
	if !ok {
		return
	}

	snapshot, err := h.services.inventoryFor(token).LoadSnapshot(c.Request.Context())
	if err != nil {
		RespondWithMappedError(c, err, nil, http.StatusBadGateway, "Erreur serveur")
		return
	}

	eligible := usecase.EligibleSims(c.Query("search"), snapshot.Sims, snapshot.Index(), c.Query("user_id"))

	views := make([]SimCardView, 0, len(eligible))
	for _, sim := range eligible {
		views = append(views, toSimCardView(sim))
	}
	c.JSON(http.StatusOK, views)
}

func listQueryFromRequest(c *gin.Context) port.ListQuery {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	return port.ListQuery{
		Page:   page,
		Limit:  limit,
		Status: c.Query("status"),
		Search: c.Query("search"),
		UserID: c.Query("user_id"),
	}
}
