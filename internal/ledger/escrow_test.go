package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

func TestCreateMilestone(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	milestone := e.fundMilestone(t, job.ID, 80)
	assert.Equal(t, uint64(1), milestone.ID)
	assert.Equal(t, models.MilestoneStatusCreated, milestone.Status)
	assert.Equal(t, uint64(80), milestone.Amount)
	assert.False(t, milestone.Paid)

	// Депозит списан со счёта клиента и удерживается леджером.
	assert.Equal(t, uint64(10_000-80), e.wallet.Balance(e.client))
	assert.Equal(t, uint64(80), e.ledger.HeldTotal())

	fetched, escrow, err := e.ledger.MilestoneWithEscrow(milestone.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(80), escrow)
	assert.Equal(t, models.MilestoneStatusCreated, fetched.Status)

	updated, err := e.ledger.JobByID(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), updated.MilestoneCount)
}

// Сценарий: депозит не равен сумме этапа — операция отказывает, этап не
// создан, счётчик не инкрементирован, средства не списаны.
func TestCreateMilestone_DepositMismatch(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	for _, deposit := range []uint64{0, 79, 81} {
		_, err := e.ledger.CreateMilestone(e.client, job.ID, "Этап", "ref:m", 80, deposit, e.deadline())
		assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err), "deposit=%d", deposit)
	}

	assert.Equal(t, uint64(0), e.ledger.Counters().Milestones)
	assert.Equal(t, uint64(10_000), e.wallet.Balance(e.client))
	assert.Equal(t, uint64(0), e.ledger.HeldTotal())

	updated, err := e.ledger.JobByID(job.ID)
	assert.NoError(t, err)
	assert.Zero(t, updated.MilestoneCount)
}

func TestCreateMilestone_Preconditions(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	// Только клиент заказа.
	_, err := e.ledger.CreateMilestone(e.freelancer, job.ID, "Этап", "ref:m", 80, 80, e.deadline())
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	// Сумма и срок валидируются.
	_, err = e.ledger.CreateMilestone(e.client, job.ID, "Этап", "ref:m", 0, 0, e.deadline())
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	_, err = e.ledger.CreateMilestone(e.client, job.ID, "Этап", "ref:m", 80, 80, e.now)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	// Открытый заказ без назначенного фрилансера этапов не имеет.
	open, err := e.ledger.PostJob(e.client, "Открытый", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	_, err = e.ledger.CreateMilestone(e.client, open.ID, "Этап", "ref:m", 80, 80, e.deadline())
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

func TestCreateMilestone_InsufficientFunds(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)

	_, err := e.ledger.CreateMilestone(e.client, job.ID, "Этап", "ref:m", 50_000, 50_000, e.deadline())
	assert.Equal(t, apperror.ErrCodeTransferFailed, apperror.CodeOf(err))
	assert.Equal(t, uint64(0), e.ledger.Counters().Milestones)
}

func TestStartAndSubmitMilestone(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)

	// Начать и отправить может только назначенный фрилансер.
	err := e.ledger.StartMilestone(e.client, milestone.ID)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	assert.NoError(t, e.ledger.StartMilestone(e.freelancer, milestone.ID))
	fetched, escrow, err := e.ledger.MilestoneWithEscrow(milestone.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusInProgress, fetched.Status)
	// Эскроу равен сумме на всём пути до оплаты или возврата.
	assert.Equal(t, uint64(80), escrow)

	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))
	fetched, escrow, err = e.ledger.MilestoneWithEscrow(milestone.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusSubmitted, fetched.Status)
	assert.NotNil(t, fetched.CompletedAt)
	assert.Equal(t, uint64(80), escrow)
}

func TestSubmitMilestone_FromCreated(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)

	// Отправка допустима и из Created, минуя InProgress.
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	// Повторная отправка из Submitted запрещена.
	err := e.ledger.SubmitMilestone(e.freelancer, milestone.ID)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

// Сценарий: этап на 80 принят с оценкой 8 при комиссии 250 bps —
// комиссия 2, выплата 78, эскроу обнулён, заработок и счётчик фрилансера
// обновлены, рейтинг пересчитан по взвешенной формуле.
func TestApproveMilestone(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))

	fetched, escrow, err := e.ledger.MilestoneWithEscrow(milestone.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusApproved, fetched.Status)
	assert.True(t, fetched.Paid)
	assert.Equal(t, uint64(0), escrow)

	assert.Equal(t, uint64(78), e.wallet.Balance(e.freelancer))

	freelancer, err := e.ledger.UserByID(e.freelancer)
	assert.NoError(t, err)
	assert.Equal(t, uint64(78), freelancer.TotalEarned)
	assert.Equal(t, uint64(1), freelancer.TotalJobsCompleted)
	// (500*1 + 8*100) / (1+1) = 650: вес уже включает текущий заказ.
	assert.Equal(t, uint64(650), freelancer.Reputation)

	// Комиссия остаётся удержанной леджером.
	assert.Equal(t, uint64(2), e.ledger.HeldTotal())
}

func TestApproveMilestone_Preconditions(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)

	// Ещё не отправлен на приёмку.
	err := e.ledger.ApproveMilestone(e.client, milestone.ID, 8)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))

	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	// Оценка вне [1, 10].
	err = e.ledger.ApproveMilestone(e.client, milestone.ID, 0)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
	err = e.ledger.ApproveMilestone(e.client, milestone.ID, 11)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))

	// Только клиент заказа.
	err = e.ledger.ApproveMilestone(e.freelancer, milestone.ID, 8)
	assert.Equal(t, apperror.ErrCodeForbidden, apperror.CodeOf(err))

	// Повторная приёмка уже оплаченного этапа.
	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))
	err = e.ledger.ApproveMilestone(e.client, milestone.ID, 8)
	assert.Equal(t, apperror.ErrCodeInvalidState, apperror.CodeOf(err))
}

// Отказ исходящего перевода откатывает операцию целиком: никакой
// частичной выплаты не наблюдается.
func TestApproveMilestone_TransferFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	e.wallet.Freeze(e.freelancer)

	err := e.ledger.ApproveMilestone(e.client, milestone.ID, 8)
	assert.Equal(t, apperror.ErrCodeTransferFailed, apperror.CodeOf(err))

	fetched, escrow, err := e.ledger.MilestoneWithEscrow(milestone.ID)
	assert.NoError(t, err)
	assert.Equal(t, models.MilestoneStatusSubmitted, fetched.Status)
	assert.False(t, fetched.Paid)
	assert.Equal(t, uint64(80), escrow)
	assert.Equal(t, uint64(80), e.ledger.HeldTotal())

	freelancer, err := e.ledger.UserByID(e.freelancer)
	assert.NoError(t, err)
	assert.Zero(t, freelancer.TotalEarned)
	assert.Zero(t, freelancer.TotalJobsCompleted)
	assert.Equal(t, uint64(models.InitialReputation), freelancer.Reputation)

	// После разморозки счёта приёмка проходит.
	e.wallet.Unfreeze(e.freelancer)
	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))
}

// Повторный вход через банк во время выплаты отклоняется немедленно, а
// этап к этому моменту уже помечен оплаченным.
func TestApproveMilestone_ReentrancyBlocked(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))

	var nested error
	e.bank.onCredit = func() {
		nested = e.ledger.SubmitMilestone(e.freelancer, milestone.ID)
	}

	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))
	assert.Equal(t, apperror.ErrCodeReentrancy, apperror.CodeOf(nested))
}
