package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/telemetry"
)

// TicketHandler is the fallback transport for support tickets.
type TicketHandler struct {
	tickets *services.TicketService
	audit   *telemetry.AuditEmitter
}

// NewTicketHandler builds a TicketHandler.
func NewTicketHandler(tickets *services.TicketService, audit *telemetry.AuditEmitter) *TicketHandler {
	return &TicketHandler{tickets: tickets, audit: audit}
}

type createTicketRequest struct {
	Subject     string             `json:"subject"`
	Category    string             `json:"category"`
	Description string             `json:"description"`
	Attachment  *models.Attachment `json:"attachment"`
}

// CreateTicket opens a ticket for the caller.
func (h *TicketHandler) CreateTicket(c *gin.Context) {
	var req createTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	identity := identityFromContext(c)
	ticket, err := h.tickets.Create(c.Request.Context(), identity, services.NewTicket{
		Subject:     req.Subject,
		Category:    req.Category,
		Description: req.Description,
		Attachment:  req.Attachment,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "ticket created", fmt.Sprintf("ticket_id=%d category=%s", ticket.ID, ticket.Category), requestIDFromContext(c), identity.UserID)
	c.JSON(http.StatusCreated, ticket)
}

// ListMyTickets returns the caller's tickets.
func (h *TicketHandler) ListMyTickets(c *gin.Context) {
	tickets, err := h.tickets.ListMine(c.Request.Context(), identityFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// GetTicket returns one ticket with its thread.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	ticketID, ok := intParam(c, "ticket_id")
	if !ok {
		return
	}
	ticket, err := h.tickets.Get(c.Request.Context(), identityFromContext(c), ticketID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ticket)
}

type replyRequest struct {
	Sender     string             `json:"sender"`
	Text       string             `json:"text"`
	Attachment *models.Attachment `json:"attachment"`
}

// PostReply appends a reply over the fallback channel. Sender defaults to the
// caller's role.
func (h *TicketHandler) PostReply(c *gin.Context) {
	ticketID, ok := intParam(c, "ticket_id")
	if !ok {
		return
	}
	var req replyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	identity := identityFromContext(c)
	sender := models.SenderUser
	if identity.IsAdmin() {
		sender = models.SenderAdmin
	}
	if req.Sender != "" {
		parsed, err := models.ParseSenderRole(req.Sender)
		if err != nil {
			respondError(c, err)
			return
		}
		sender = parsed
	}

	ticket, entry, err := h.tickets.PostMessage(c.Request.Context(), identity, ticketID, services.TicketMessage{
		Sender:     sender,
		Text:       req.Text,
		Attachment: req.Attachment,
	}, models.ChannelFallback)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ticket": ticket, "message": entry})
}

// ListAllTickets returns every ticket for the admin console.
func (h *TicketHandler) ListAllTickets(c *gin.Context) {
	tickets, err := h.tickets.ListAll(c.Request.Context(), identityFromContext(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tickets": tickets})
}

// UpdateStatus lets an admin resolve, close or reopen a ticket.
func (h *TicketHandler) UpdateStatus(c *gin.Context) {
	ticketID, ok := intParam(c, "ticket_id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	status, err := models.ParseTicketStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	identity := identityFromContext(c)
	ticket, err := h.tickets.SetStatus(c.Request.Context(), identity, ticketID, status)
	if err != nil {
		respondError(c, err)
		return
	}

	h.audit.Emit(c.Request.Context(), "INFO", "ticket status changed", fmt.Sprintf("ticket_id=%d status=%s", ticket.ID, ticket.Status), requestIDFromContext(c), identity.UserID)
	c.JSON(http.StatusOK, ticket)
}
