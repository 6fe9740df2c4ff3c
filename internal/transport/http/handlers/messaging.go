package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/telvana/fleet-console/internal/transport/http/middleware"
	"github.com/telvana/fleet-console/internal/usecase"
)

// MessagingHandler serves the per-conversation message feeds.
type MessagingHandler struct {
	messaging *usecase.MessagingService
}

// NewMessagingHandler constructs a MessagingHandler.
func NewMessagingHandler(messaging *usecase.MessagingService) *MessagingHandler {
	return &MessagingHandler{messaging: messaging}
}

// RegisterRoutes wires messaging endpoints into the provided router group.
func (h *MessagingHandler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/conversations/:id/open", h.Open)
	group.POST("/conversations/:id/close", h.Close)
	group.GET("/conversations/:id/messages", h.Messages)
	group.POST("/conversations/:id/messages", h.Send)
}

// Open starts streaming the conversation into the local feed.
func (h *MessagingHandler) Open(c *gin.Context) {
	if err := h.messaging.Open(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "Erreur serveur"))
		return
	}
	c.JSON(http.StatusOK, MessageResponse{Message: "Conversation ouverte"})
}

// Close tears down the conversation subscription.
func (h *MessagingHandler) Close(c *gin.Context) {
	h.messaging.Close(c.Param("id"))
	c.JSON(http.StatusOK, MessageResponse{Message: "Conversation fermée"})
}

// Messages returns the feed, optionally filtered by a body search term.
func (h *MessagingHandler) Messages(c *gin.Context) {
	conversationID := c.Param("id")

	var feed []MessageView
	for _, message := range h.messaging.Search(conversationID, c.Query("search")) {
		feed = append(feed, toMessageView(message))
	}
	if feed == nil {
		feed = []MessageView{}
	}

	c.JSON(http.StatusOK, feed)
}

// Send publishes a message authored by the authenticated actor.
func (h *MessagingHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, NewErrorResponse(c, "Données invalides"))
		return
	}

	senderID, _ := middleware.GetAuthenticatedUserID(c)

	message, err := h.messaging.Send(c.Request.Context(), c.Param("id"), senderID, req.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, NewErrorResponse(c, "Erreur serveur"))
		return
	}

	c.JSON(http.StatusCreated, toMessageView(message))
}
