package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
)

// ConversationHandler manages private conversation endpoints.
type ConversationHandler struct {
	messenger *services.Messenger
}

// NewConversationHandler builds a ConversationHandler.
func NewConversationHandler(messenger *services.Messenger) *ConversationHandler {
	return &ConversationHandler{messenger: messenger}
}

// ListConversations returns the caller's conversations, most recent first.
func (h *ConversationHandler) ListConversations(c *gin.Context) {
	convs, err := h.messenger.ListConversations(c.Request.Context(), identityFromContext(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversations": convs})
}

// GetConversationMessages returns the history of one conversation.
func (h *ConversationHandler) GetConversationMessages(c *gin.Context) {
	conversationID, ok := intParam(c, "conversation_id")
	if !ok {
		return
	}
	msgs, err := h.messenger.History(c.Request.Context(), identityFromContext(c).UserID, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// GetMessagesWithPartner returns the history with a partner; empty when they never talked.
func (h *ConversationHandler) GetMessagesWithPartner(c *gin.Context) {
	partnerID, ok := intParam(c, "partner_id")
	if !ok {
		return
	}
	msgs, err := h.messenger.HistoryWithPartner(c.Request.Context(), identityFromContext(c).UserID, partnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": msgs})
}

// SendMessage is the fallback for send_private_message.
func (h *ConversationHandler) SendMessage(c *gin.Context) {
	partnerID, ok := intParam(c, "partner_id")
	if !ok {
		return
	}
	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	msg, err := h.messenger.SendPrivateMessage(c.Request.Context(), identityFromContext(c).UserID, partnerID, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}
