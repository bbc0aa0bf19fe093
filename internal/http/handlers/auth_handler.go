package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/service"
)

// AuthHandler выпускает идентификаторы участников и токены доступа.
// Идентичность на платформе — это UUID, владение подтверждается токенами.
type AuthHandler struct {
	tokens          *service.TokenManager
	arbitratorID    uuid.UUID
	operatorKeyHash string
}

// NewAuthHandler создаёт новый хэндлер.
func NewAuthHandler(tokens *service.TokenManager, arbitratorID uuid.UUID, operatorKeyHash string) *AuthHandler {
	return &AuthHandler{
		tokens:          tokens,
		arbitratorID:    arbitratorID,
		operatorKeyHash: operatorKeyHash,
	}
}

// CreateIdentity обрабатывает POST /api/auth/identity.
// Выпускает новый UUID и пару токенов для него.
func (h *AuthHandler) CreateIdentity(c *gin.Context) {
	userID := uuid.New()

	pair, err := h.tokens.GeneratePair(userID, service.RoleUser)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"user_id": userID,
		"tokens":  pair,
	})
}

// Refresh обрабатывает POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	userID, role, err := h.tokens.ParseRefresh(req.RefreshToken)
	if err != nil || userID == uuid.Nil {
		common.RespondUnauthorized(c, "refresh токен невалиден")
		return
	}

	pair, err := h.tokens.GeneratePair(userID, role)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"tokens":  pair,
	})
}

// ArbitratorLogin обрабатывает POST /api/auth/arbitrator.
// Ключ оператора сверяется с bcrypt хэшем из конфигурации, в ответ
// выдаются токены арбитра.
func (h *AuthHandler) ArbitratorLogin(c *gin.Context) {
	var req struct {
		OperatorKey string `json:"operator_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if h.operatorKeyHash == "" {
		common.RespondUnauthorized(c, "вход арбитра не настроен")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.operatorKeyHash), []byte(req.OperatorKey)); err != nil {
		common.RespondUnauthorized(c, "неверный ключ оператора")
		return
	}

	pair, err := h.tokens.GeneratePair(h.arbitratorID, service.RoleArbitrator)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": h.arbitratorID,
		"tokens":  pair,
	})
}
