package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
	"github.com/Lynndabel/Bloconnect/internal/validation"
)

// splitFee делит сумму на комиссию площадки и выплату фрилансеру.
// Целочисленное деление с округлением вниз: fee + payout == amount
// при любой комиссии в [0, 1000] bps. Разложение на частное и остаток
// не переполняется на суммах вблизи верхней границы uint64.
func splitFee(amount, feeBps uint64) (fee, payout uint64) {
	fee = amount/10000*feeBps + amount%10000*feeBps/10000
	payout = amount - fee
	return fee, payout
}

// CreateMilestone создаёт этап и депонирует под него средства клиента.
// Прилагаемый депозит обязан в точности равняться сумме этапа: ни
// переплата, ни недоплата не принимаются.
func (l *Ledger) CreateMilestone(caller uuid.UUID, jobID uint64, title, descriptionRef string, amount, deposit uint64, deadline time.Time) (*models.Milestone, error) {
	if err := l.checkReentrancy(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	milestone, events, err := l.createMilestone(caller, jobID, title, descriptionRef, amount, deposit, deadline)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l.emit(events)
	return milestone, nil
}

func (l *Ledger) createMilestone(caller uuid.UUID, jobID uint64, title, descriptionRef string, amount, deposit uint64, deadline time.Time) (*models.Milestone, []pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, nil, err
	}
	job, err := l.st.JobByID(jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.ClientID != caller {
		return nil, nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusInProgress {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState, "заказ не в работе")
	}
	if err := validation.ValidateLength("заголовок этапа", title, validation.MinMilestoneTitleLength, validation.MaxMilestoneTitleLength); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateContentRef("описание этапа", descriptionRef); err != nil {
		return nil, nil, err
	}
	if amount == 0 {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "сумма этапа должна быть положительной")
	}
	if deposit != amount {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "депозит должен в точности равняться сумме этапа")
	}
	if !deadline.After(l.now()) {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "срок должен быть в будущем")
	}

	// Списание средств клиента — до первой мутации состояния: если оно
	// отказало, операция не оставляет следов.
	if err := l.bank.Debit(caller, deposit); err != nil {
		return nil, nil, apperror.Wrap(err, apperror.ErrCodeTransferFailed, "не удалось депонировать средства")
	}

	milestone := &models.Milestone{
		ID:             l.st.IDs.NextMilestone(),
		JobID:          jobID,
		Title:          title,
		DescriptionRef: descriptionRef,
		Amount:         amount,
		DeadlineAt:     deadline,
		Status:         models.MilestoneStatusCreated,
		CreatedAt:      l.now(),
	}
	l.st.PutMilestone(milestone)
	l.st.Escrow[milestone.ID] = amount
	l.st.HeldTotal += amount
	job.MilestoneCount++

	events := []pendingEvent{{caller, models.EventMilestoneCreated, map[string]any{
		"milestone_id": milestone.ID,
		"job_id":       jobID,
		"amount":       amount,
	}}}
	if job.AssignedFreelancer != nil {
		events = append(events, pendingEvent{*job.AssignedFreelancer, models.EventMilestoneCreated, map[string]any{
			"milestone_id": milestone.ID,
			"job_id":       jobID,
			"amount":       amount,
		}})
	}
	return milestone, events, nil
}

// StartMilestone — назначенный фрилансер помечает начало работы над этапом.
func (l *Ledger) StartMilestone(caller uuid.UUID, milestoneID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.startMilestone(caller, milestoneID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) startMilestone(caller uuid.UUID, milestoneID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	milestone, job, err := l.milestoneWithJob(milestoneID)
	if err != nil {
		return nil, err
	}
	if job.AssignedFreelancer == nil || *job.AssignedFreelancer != caller {
		return nil, apperror.ErrForbidden
	}
	if milestone.Status != models.MilestoneStatusCreated {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "этап не в статусе Created")
	}

	milestone.Status = models.MilestoneStatusInProgress

	return []pendingEvent{{job.ClientID, models.EventMilestoneStarted, map[string]any{
		"milestone_id": milestone.ID,
		"job_id":       job.ID,
	}}}, nil
}

// SubmitMilestone отправляет этап на приёмку клиенту.
func (l *Ledger) SubmitMilestone(caller uuid.UUID, milestoneID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.submitMilestone(caller, milestoneID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) submitMilestone(caller uuid.UUID, milestoneID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	milestone, job, err := l.milestoneWithJob(milestoneID)
	if err != nil {
		return nil, err
	}
	if job.AssignedFreelancer == nil || *job.AssignedFreelancer != caller {
		return nil, apperror.ErrForbidden
	}
	if milestone.Status != models.MilestoneStatusCreated && milestone.Status != models.MilestoneStatusInProgress {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "этап нельзя отправить на приёмку из текущего статуса")
	}

	milestone.Status = models.MilestoneStatusSubmitted
	completedAt := l.now()
	milestone.CompletedAt = &completedAt

	return []pendingEvent{{job.ClientID, models.EventMilestoneSubmitted, map[string]any{
		"milestone_id": milestone.ID,
		"job_id":       job.ID,
	}}}, nil
}

// ApproveMilestone принимает отправленный этап и выплачивает средства.
// Состояние фиксируется до исходящего перевода: повторный вход через банк
// увидит этап уже оплаченным. Отказ перевода откатывает операцию целиком.
func (l *Ledger) ApproveMilestone(caller uuid.UUID, milestoneID uint64, rating uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.approveMilestone(caller, milestoneID, rating)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) approveMilestone(caller uuid.UUID, milestoneID uint64, rating uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	milestone, job, err := l.milestoneWithJob(milestoneID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != caller {
		return nil, apperror.ErrForbidden
	}
	if milestone.Status != models.MilestoneStatusSubmitted || milestone.Paid {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "этап не отправлен на приёмку либо уже оплачен")
	}
	// Депозит обязан лежать в эскроу целиком. Этап, возвращённый клиенту
	// по решению арбитра, без нового депозита оплатить нельзя.
	if l.st.Escrow[milestone.ID] != milestone.Amount {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "под этап не зарезервирован депозит")
	}
	if rating < 1 || rating > 10 {
		return nil, apperror.New(apperror.ErrCodeValidation, "оценка должна быть от 1 до 10")
	}
	if job.AssignedFreelancer == nil {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "у заказа нет назначенного фрилансера")
	}
	freelancerID := *job.AssignedFreelancer
	freelancer, err := l.st.UserByID(freelancerID)
	if err != nil {
		return nil, err
	}

	fee, payout := splitFee(milestone.Amount, l.feeBps)

	// Копии для компенсирующего отката при отказе перевода.
	milestoneBefore := *milestone
	freelancerBefore := *freelancer
	escrowBefore := l.st.Escrow[milestone.ID]
	heldBefore := l.st.HeldTotal

	milestone.Status = models.MilestoneStatusApproved
	milestone.Paid = true
	l.st.Escrow[milestone.ID] = 0
	l.st.HeldTotal -= payout
	freelancer.TotalEarned += payout
	freelancer.TotalJobsCompleted++
	l.applyReputation(freelancer, rating)

	// Перевод — последним шагом, когда этап уже помечен оплаченным.
	l.payoutLock.Store(true)
	err = l.bank.Credit(freelancerID, payout)
	l.payoutLock.Store(false)
	if err != nil {
		*milestone = milestoneBefore
		*freelancer = freelancerBefore
		l.st.Escrow[milestone.ID] = escrowBefore
		l.st.HeldTotal = heldBefore
		return nil, apperror.Wrap(err, apperror.ErrCodeTransferFailed, "не удалось выплатить средства фрилансеру")
	}

	return []pendingEvent{
		{freelancerID, models.EventMilestoneApproved, map[string]any{
			"milestone_id": milestone.ID,
			"job_id":       job.ID,
			"amount":       payout,
			"fee":          fee,
			"rating":       rating,
		}},
		{caller, models.EventMilestoneApproved, map[string]any{
			"milestone_id": milestone.ID,
			"job_id":       job.ID,
		}},
		{freelancerID, models.EventReputationUpdated, map[string]any{
			"reputation": freelancer.Reputation,
		}},
	}, nil
}

// milestoneWithJob загружает этап вместе с его заказом.
func (l *Ledger) milestoneWithJob(milestoneID uint64) (*models.Milestone, *models.Job, error) {
	milestone, err := l.st.MilestoneByID(milestoneID)
	if err != nil {
		return nil, nil, err
	}
	job, err := l.st.JobByID(milestone.JobID)
	if err != nil {
		return nil, nil, err
	}
	return milestone, job, nil
}
