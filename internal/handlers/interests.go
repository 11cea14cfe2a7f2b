package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hackwithroshan/atootbandhan-sub000/internal/models"
	"github.com/hackwithroshan/atootbandhan-sub000/internal/services"
)

// InterestHandler manages interest endpoints.
type InterestHandler struct {
	interests *services.InterestService
}

// NewInterestHandler builds an InterestHandler.
func NewInterestHandler(interests *services.InterestService) *InterestHandler {
	return &InterestHandler{interests: interests}
}

// ListInterests returns the caller's received and sent interests.
func (h *InterestHandler) ListInterests(c *gin.Context) {
	list, err := h.interests.List(c.Request.Context(), identityFromContext(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// SendInterest expresses interest in another user.
func (h *InterestHandler) SendInterest(c *gin.Context) {
	var req struct {
		ToUserID int `json:"to_user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	interest, err := h.interests.Send(c.Request.Context(), identityFromContext(c).UserID, req.ToUserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, interest)
}

// UpdateInterest accepts or declines an interest.
func (h *InterestHandler) UpdateInterest(c *gin.Context) {
	interestID, ok := intParam(c, "interest_id")
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
	interest, err := h.interests.UpdateStatus(c.Request.Context(), interestID, identityFromContext(c).UserID, models.InterestStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, interest)
}
