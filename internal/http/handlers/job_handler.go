package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// JobHandler отвечает за заказы и их жизненный цикл.
type JobHandler struct {
	ledger *ledger.Ledger
}

// NewJobHandler создаёт новый хэндлер.
func NewJobHandler(l *ledger.Ledger) *JobHandler {
	return &JobHandler{ledger: l}
}

// PostJob обрабатывает POST /api/jobs.
func (h *JobHandler) PostJob(c *gin.Context) {
	userID, err := common.CurrentUserID(c)
	if err != nil {
		common.RespondUnauthorized(c, err.Error())
		return
	}

	var req struct {
		Title          string    `json:"title" binding:"required"`
		DescriptionRef string    `json:"description_ref" binding:"required"`
		RequiredSkills []string  `json:"required_skills"`
		Budget         uint64    `json:"budget" binding:"required"`
		DeadlineAt     time.Time `json:"deadline_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.ledger.PostJob(userID, req.Title, req.DescriptionRef, req.RequiredSkills, req.Budget, req.DeadlineAt)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, job)
}

// ListActiveJobs обрабатывает GET /api/jobs?limit=&offset=.
func (h *JobHandler) ListActiveJobs(c *gin.Context) {
	limit, offset := common.GetPagination(c)

	ids, total := h.ledger.ActiveJobs(offset, limit)
	c.JSON(http.StatusOK, gin.H{
		"job_ids": ids,
		"total":   total,
	})
}

// GetJob обрабатывает GET /api/jobs/:id.
func (h *JobHandler) GetJob(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	job, err := h.ledger.JobByID(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// BatchJobs обрабатывает GET /api/jobs/batch?ids=1,2,3.
// Отсутствующие идентификаторы молча пропускаются.
func (h *JobHandler) BatchJobs(c *gin.Context) {
	raw := c.Query("ids")
	if raw == "" {
		common.RespondBadRequest(c, "параметр ids обязателен")
		return
	}

	parts := strings.Split(raw, ",")
	if len(parts) > 100 {
		common.RespondBadRequest(c, "слишком много идентификаторов, максимум 100")
		return
	}

	ids := make([]uint64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil {
			common.RespondBadRequest(c, "параметр ids содержит невалидное значение")
			return
		}
		ids = append(ids, id)
	}

	c.JSON(http.StatusOK, gin.H{"jobs": h.ledger.JobsByIDs(ids)})
}

// CancelJob обрабатывает POST /api/jobs/:id/cancel.
func (h *JobHandler) CancelJob(c *gin.Context) {
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

	if err := h.ledger.CancelJob(userID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// CompleteJob обрабатывает POST /api/jobs/:id/complete.
func (h *JobHandler) CompleteJob(c *gin.Context) {
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

	if err := h.ledger.CompleteJob(userID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "completed"})
}

// GetJobProposals обрабатывает GET /api/jobs/:id/proposals.
func (h *JobHandler) GetJobProposals(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ids, err := h.ledger.JobProposals(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal_ids": ids})
}

// GetJobMilestones обрабатывает GET /api/jobs/:id/milestones.
func (h *JobHandler) GetJobMilestones(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	ids, err := h.ledger.JobMilestones(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"milestone_ids": ids})
}
