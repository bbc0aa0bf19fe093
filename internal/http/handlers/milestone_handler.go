package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// MilestoneHandler отвечает за этапы работ и эскроу.
type MilestoneHandler struct {
	ledger *ledger.Ledger
}

// NewMilestoneHandler создаёт новый хэндлер.
func NewMilestoneHandler(l *ledger.Ledger) *MilestoneHandler {
	return &MilestoneHandler{ledger: l}
}

// CreateMilestone обрабатывает POST /api/jobs/:id/milestones.
// Депозит списывается с кошелька клиента и должен точно равняться сумме этапа.
func (h *MilestoneHandler) CreateMilestone(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	jobID, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	var req struct {
		Title          string    `json:"title" binding:"required"`
		DescriptionRef string    `json:"description_ref" binding:"required"`
		Amount         uint64    `json:"amount" binding:"required"`
		Deposit        uint64    `json:"deposit" binding:"required"`
		DeadlineAt     time.Time `json:"deadline_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestone, err := h.ledger.CreateMilestone(userID, jobID, req.Title, req.DescriptionRef, req.Amount, req.Deposit, req.DeadlineAt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, milestone)
}

// GetMilestone обрабатывает GET /api/milestones/:id.
func (h *MilestoneHandler) GetMilestone(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	milestone, escrow, err := h.ledger.MilestoneWithEscrow(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"milestone": milestone,
		"escrow":    escrow,
	})
}

// StartMilestone обрабатывает POST /api/milestones/:id/start.
func (h *MilestoneHandler) StartMilestone(c *gin.Context) {
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

	if err := h.ledger.StartMilestone(userID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "in_progress"})
}

// SubmitMilestone обрабатывает POST /api/milestones/:id/submit.
func (h *MilestoneHandler) SubmitMilestone(c *gin.Context) {
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

	if err := h.ledger.SubmitMilestone(userID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "submitted"})
}

// ApproveMilestone обрабатывает POST /api/milestones/:id/approve.
// Оценка от 1 до 10 обновляет репутацию фрилансера.
func (h *MilestoneHandler) ApproveMilestone(c *gin.Context) {
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
		Rating uint64 `json:"rating" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	if err := h.ledger.ApproveMilestone(userID, id, req.Rating); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "approved"})
}
