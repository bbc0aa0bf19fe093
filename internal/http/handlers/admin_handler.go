package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// AdminHandler отвечает за операции арбитра: комиссию, паузу и
// аварийный вывод средств.
type AdminHandler struct {
	ledger *ledger.Ledger
}

// NewAdminHandler создаёт новый хэндлер.
func NewAdminHandler(l *ledger.Ledger) *AdminHandler {
	return &AdminHandler{ledger: l}
}

// UpdateFee обрабатывает PUT /api/admin/fee.
func (h *AdminHandler) UpdateFee(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		FeeBps *uint64 `json:"fee_bps" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.ledger.UpdateFeeBps(userID, *req.FeeBps); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"fee_bps": *req.FeeBps})
}

// TogglePause обрабатывает POST /api/admin/pause.
func (h *AdminHandler) TogglePause(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	paused, err := h.ledger.TogglePause(userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"paused": paused})
}

// EmergencyWithdraw обрабатывает POST /api/admin/withdraw.
// Выводит удержанные средства получателю, работает и во время паузы.
func (h *AdminHandler) EmergencyWithdraw(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Recipient uuid.UUID `json:"recipient" binding:"required"`
		Amount    uint64    `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.ledger.EmergencyWithdraw(userID, req.Recipient, req.Amount); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "withdrawn"})
}
