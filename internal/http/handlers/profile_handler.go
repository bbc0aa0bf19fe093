package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// ProfileHandler отвечает за регистрацию и профили участников.
type ProfileHandler struct {
	ledger *ledger.Ledger
}

// NewProfileHandler создаёт новый хэндлер.
func NewProfileHandler(l *ledger.Ledger) *ProfileHandler {
	return &ProfileHandler{ledger: l}
}

// Register обрабатывает POST /api/users.
func (h *ProfileHandler) Register(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ProfileRef string `json:"profile_ref" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	user, err := h.ledger.Register(userID, req.ProfileRef)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UpdateProfile обрабатывает PUT /api/users/me.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		ProfileRef string `json:"profile_ref" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.ledger.UpdateProfile(userID, req.ProfileRef); err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.ledger.UserByID(userID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetUser обрабатывает GET /api/users/:id.
func (h *ProfileHandler) GetUser(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	user, err := h.ledger.UserByID(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// IsRegistered обрабатывает GET /api/users/:id/registered.
func (h *ProfileHandler) IsRegistered(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"registered": h.ledger.IsRegistered(id)})
}

// GetUserStats обрабатывает GET /api/users/:id/stats.
func (h *ProfileHandler) GetUserStats(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	stats, err := h.ledger.UserStats(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// GetUserJobs обрабатывает GET /api/users/:id/jobs.
func (h *ProfileHandler) GetUserJobs(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"job_ids": h.ledger.UserJobs(id)})
}

// GetUserProposals обрабатывает GET /api/users/:id/proposals.
func (h *ProfileHandler) GetUserProposals(c *gin.Context) {
	id, err := common.ParseUUIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal_ids": h.ledger.UserProposals(id)})
}
