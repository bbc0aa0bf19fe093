package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/wallet"
)

// WalletHandler отвечает за пополнение и просмотр баланса кошелька.
type WalletHandler struct {
	wallet *wallet.Wallet
}

// NewWalletHandler создаёт новый хэндлер.
func NewWalletHandler(w *wallet.Wallet) *WalletHandler {
	return &WalletHandler{wallet: w}
}

// Deposit обрабатывает POST /api/wallet/deposit.
func (h *WalletHandler) Deposit(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Amount uint64 `json:"amount" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.wallet.Deposit(userID, req.Amount); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": h.wallet.Balance(userID)})
}

// Balance обрабатывает GET /api/wallet/balance.
func (h *WalletHandler) Balance(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": h.wallet.Balance(userID)})
}
