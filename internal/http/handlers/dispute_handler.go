package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// DisputeHandler отвечает за споры и их разрешение арбитром.
type DisputeHandler struct {
	ledger *ledger.Ledger
}

// NewDisputeHandler создаёт новый хэндлер.
func NewDisputeHandler(l *ledger.Ledger) *DisputeHandler {
	return &DisputeHandler{ledger: l}
}

// RaiseDispute обрабатывает POST /api/milestones/:id/dispute.
func (h *DisputeHandler) RaiseDispute(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	milestoneID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.ledger.RaiseDispute(userID, milestoneID, req.Reason)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, dispute)
}

// GetDispute обрабатывает GET /api/disputes/:id.
func (h *DisputeHandler) GetDispute(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	dispute, err := h.ledger.DisputeByID(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, dispute)
}

// ResolveDispute обрабатывает POST /api/disputes/:id/resolve.
// Доступно только арбитру.
func (h *DisputeHandler) ResolveDispute(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		FavorFreelancer *bool `json:"favor_freelancer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.ledger.ResolveDispute(userID, id, *req.FavorFreelancer); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "resolved"})
}
