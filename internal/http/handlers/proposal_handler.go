package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/http/handlers/common"
	"github.com/Lynndabel/Bloconnect/internal/ledger"
)

// ProposalHandler отвечает за предложения фрилансеров.
type ProposalHandler struct {
	ledger *ledger.Ledger
}

// NewProposalHandler создаёт новый хэндлер.
func NewProposalHandler(l *ledger.Ledger) *ProposalHandler {
	return &ProposalHandler{ledger: l}
}

// SubmitProposal обрабатывает POST /api/jobs/:id/proposals.
func (h *ProposalHandler) SubmitProposal(c *gin.Context) {
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
		ProposalRef      string `json:"proposal_ref" binding:"required"`
		ProposedBudget   uint64 `json:"proposed_budget" binding:"required"`
		ProposedDuration uint64 `json:"proposed_duration" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.ledger.SubmitProposal(userID, jobID, req.ProposalRef, req.ProposedBudget, req.ProposedDuration)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, proposal)
}

// GetProposal обрабатывает GET /api/proposals/:id.
func (h *ProposalHandler) GetProposal(c *gin.Context) {
	id, err := common.ParseIDParam(c, "id")
	if err != nil {
		common.RespondBadRequest(c, err.Error())
		return
	}

	proposal, err := h.ledger.ProposalByID(id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// AcceptProposal обрабатывает POST /api/proposals/:id/accept.
func (h *ProposalHandler) AcceptProposal(c *gin.Context) {
	h.transition(c, h.ledger.AcceptProposal, "accepted")
}

// RejectProposal обрабатывает POST /api/proposals/:id/reject.
func (h *ProposalHandler) RejectProposal(c *gin.Context) {
	h.transition(c, h.ledger.RejectProposal, "rejected")
}

// WithdrawProposal обрабатывает POST /api/proposals/:id/withdraw.
func (h *ProposalHandler) WithdrawProposal(c *gin.Context) {
	h.transition(c, h.ledger.WithdrawProposal, "withdrawn")
}

func (h *ProposalHandler) transition(c *gin.Context, op func(caller uuid.UUID, proposalID uint64) error, status string) {
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

	if err := op(userID, id); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": status})
}
