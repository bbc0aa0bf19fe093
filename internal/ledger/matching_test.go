package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

func TestPostJob(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Разработка API", "ref:desc", []string{"go", "postgres"}, 100, e.deadline())
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), job.ID)
	assert.Equal(t, models.JobStatusOpen, job.Status)
	assert.Nil(t, job.AssignedFreelancer)
	assert.Equal(t, uint64(100), job.Budget)

	user, err := e.ledger.UserByID(e.client)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), user.PostedJobs)
}

func TestPostJob_Validation(t *testing.T) {
	e := newEnv(t)

	_, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 0, e.deadline())
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, err = e.ledger.PostJob(e.client, "Заказ", "", nil, 100, e.deadline())
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, err = e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.now)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, err = e.ledger.PostJob(uuid.New(), "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))
}

func TestSubmitProposal(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)

	proposal, err := e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:proposal", 80, 5)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), proposal.ID)
	assert.Equal(t, models.ProposalStatusPending, proposal.Status)

	user, err := e.ledger.UserByID(e.freelancer)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), user.SubmittedProposals)
}

func TestSubmitProposal_Validation(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)

	// Клиент не может откликнуться на собственный заказ.
	_, err = e.ledger.SubmitProposal(e.client, job.ID, "ref:p", 80, 5)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	_, err = e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p", 0, 5)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	_, err = e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p", 80, 0)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	// Нулевой и невыданный id отклоняются.
	_, err = e.ledger.SubmitProposal(e.freelancer, 0, "ref:p", 80, 5)
	assert.True(t, apperror.IsNotFound(err))
	_, err = e.ledger.SubmitProposal(e.freelancer, 999, "ref:p", 80, 5)
	assert.True(t, apperror.IsNotFound(err))
}

// Сценарий: клиент публикует заказ с бюджетом 100, фрилансер подаёт
// предложение на 80, клиент принимает. Заказ в работе, бюджет перезаписан,
// остальные ожидающие предложения отклонены тем же вызовом.
func TestAcceptProposal_Atomic(t *testing.T) {
	e := newEnv(t)

	rival := uuid.New()
	_, err := e.ledger.Register(rival, "ref:rival")
	assert.NoError(t, err)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)

	winning, err := e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p1", 80, 5)
	assert.NoError(t, err)
	losing, err := e.ledger.SubmitProposal(rival, job.ID, "ref:p2", 90, 7)
	assert.NoError(t, err)

	assert.NoError(t, e.ledger.AcceptProposal(e.client, winning.ID))

	updated, err := e.ledger.JobByID(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusInProgress, updated.Status)
	assert.Equal(t, uint64(80), updated.Budget)
	assert.NotNil(t, updated.AssignedFreelancer)
	assert.Equal(t, e.freelancer, *updated.AssignedFreelancer)

	accepted, err := e.ledger.ProposalByID(winning.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusAccepted, accepted.Status)

	rejected, err := e.ledger.ProposalByID(losing.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, rejected.Status)

	// Первый принятый побеждает: заказ больше не открыт.
	err = e.ledger.AcceptProposal(e.client, losing.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestAcceptProposal_OnlyClient(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	proposal, err := e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p", 80, 5)
	assert.NoError(t, err)

	err = e.ledger.AcceptProposal(e.freelancer, proposal.ID)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))
}

func TestRejectProposal(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	proposal, err := e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p", 80, 5)
	assert.NoError(t, err)

	assert.NoError(t, e.ledger.RejectProposal(e.client, proposal.ID))

	rejected, err := e.ledger.ProposalByID(proposal.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusRejected, rejected.Status)

	// Повторная обработка невозможна.
	err = e.ledger.RejectProposal(e.client, proposal.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestWithdrawProposal(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	proposal, err := e.ledger.SubmitProposal(e.freelancer, job.ID, "ref:p", 80, 5)
	assert.NoError(t, err)

	// Отозвать может только автор предложения.
	err = e.ledger.WithdrawProposal(e.client, proposal.ID)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	assert.NoError(t, e.ledger.WithdrawProposal(e.freelancer, proposal.ID))

	withdrawn, err := e.ledger.ProposalByID(proposal.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.ProposalStatusWithdrawn, withdrawn.Status)
}

func TestCancelJob(t *testing.T) {
	e := newEnv(t)

	job, err := e.ledger.PostJob(e.client, "Заказ", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)

	err = e.ledger.CancelJob(e.freelancer, job.ID)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	assert.NoError(t, e.ledger.CancelJob(e.client, job.ID))

	cancelled, err := e.ledger.JobByID(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCancelled, cancelled.Status)

	// Терминальное состояние.
	err = e.ledger.CancelJob(e.client, job.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestCancelJob_OnlyOpen(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	err := e.ledger.CancelJob(e.client, job.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestCompleteJob(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	// Нет ни одного этапа — завершить нельзя.
	err := e.ledger.CompleteJob(e.client, job.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))

	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	// Этап ещё не принят.
	err = e.ledger.CompleteJob(e.client, job.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))

	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))
	assert.NoError(t, e.ledger.CompleteJob(e.client, job.ID))

	completed, err := e.ledger.JobByID(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, completed.Status)
	// Назначенный фрилансер сохраняется в терминальном состоянии.
	assert.NotNil(t, completed.AssignedFreelancer)
}
