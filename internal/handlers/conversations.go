package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"msg-api/internal/models"
	"msg-api/internal/repositories"
)

// ConversationHandler manages conversation creation and listing.
type ConversationHandler struct {
	conversations repositories.ConversationRepository
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(conversations repositories.ConversationRepository) *ConversationHandler {
	return &ConversationHandler{conversations: conversations}
}

// Create starts a conversation with the given participants. The caller
// becomes the owner; no membership check applies because creation is what
// establishes membership.
func (h *ConversationHandler) Create(c *gin.Context) {
	var req struct {
		Title          string  `json:"title"`
		ParticipantIDs []int64 `json:"participant_ids" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt64("userID")
	conv, err := h.conversations.Create(c.Request.Context(), userID, req.Title, req.ParticipantIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create conversation"})
		return
	}

	c.JSON(http.StatusCreated, conv)
}

// List returns the caller's conversations ordered by last activity. The
// query itself is membership-scoped, so no extra gate is consulted.
func (h *ConversationHandler) List(c *gin.Context) {
	userID := c.GetInt64("userID")

	convs, err := h.conversations.ListForUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load conversations"})
		return
	}
	if convs == nil {
		convs = []models.ConversationSummary{}
	}

	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}
