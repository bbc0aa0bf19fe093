package ledger

import (
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
	"github.com/Lynndabel/Bloconnect/internal/validation"
)

// arbitrationRating — нейтральная оценка, применяемая к рейтингу при
// выплате по решению арбитра: сам арбитр качество работы не оценивает.
const arbitrationRating = 5

// RaiseDispute открывает спор по отправленному на приёмку этапу.
// Инициатор — клиент или назначенный фрилансер. Этап и заказ переходят в
// Disputed; Disputed у заказа — временный оверлей, снимаемый при
// разрешении.
func (l *Ledger) RaiseDispute(caller uuid.UUID, milestoneID uint64, reason string) (*models.Dispute, error) {
	if err := l.checkReentrancy(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	dispute, events, err := l.raiseDispute(caller, milestoneID, reason)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l.emit(events)
	return dispute, nil
}

func (l *Ledger) raiseDispute(caller uuid.UUID, milestoneID uint64, reason string) (*models.Dispute, []pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, nil, err
	}
	milestone, job, err := l.milestoneWithJob(milestoneID)
	if err != nil {
		return nil, nil, err
	}
	isClient := job.ClientID == caller
	isFreelancer := job.AssignedFreelancer != nil && *job.AssignedFreelancer == caller
	if !isClient && !isFreelancer {
		return nil, nil, apperror.ErrForbidden
	}
	if milestone.Status != models.MilestoneStatusSubmitted {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState, "спор возможен только по этапу на приёмке")
	}
	if err := validation.ValidateLength("причина спора", reason, validation.MinDisputeReasonLength, validation.MaxDisputeReasonLength); err != nil {
		return nil, nil, err
	}

	dispute := &models.Dispute{
		ID:          l.st.IDs.NextDispute(),
		JobID:       job.ID,
		MilestoneID: milestone.ID,
		InitiatorID: caller,
		Reason:      reason,
		Status:      models.DisputeStatusOpen,
		CreatedAt:   l.now(),
	}
	l.st.PutDispute(dispute)
	milestone.Status = models.MilestoneStatusDisputed
	job.Status = models.JobStatusDisputed

	events := []pendingEvent{{job.ClientID, models.EventDisputeRaised, map[string]any{
		"dispute_id":   dispute.ID,
		"milestone_id": milestone.ID,
		"job_id":       job.ID,
	}}}
	if job.AssignedFreelancer != nil {
		events = append(events, pendingEvent{*job.AssignedFreelancer, models.EventDisputeRaised, map[string]any{
			"dispute_id":   dispute.ID,
			"milestone_id": milestone.ID,
			"job_id":       job.ID,
		}})
	}
	return dispute, events, nil
}

// ResolveDispute — привилегированное разрешение спора арбитром, ровно
// один раз. В пользу фрилансера — выплата с тем же разбиением комиссии,
// что при обычной приёмке; иначе — полный возврат клиенту, этап снова
// становится Created и может быть отправлен повторно. В обоих случаях
// эскроу обнуляется, а заказ возвращается в InProgress.
func (l *Ledger) ResolveDispute(caller uuid.UUID, disputeID uint64, favorFreelancer bool) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.resolveDispute(caller, disputeID, favorFreelancer)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) resolveDispute(caller uuid.UUID, disputeID uint64, favorFreelancer bool) ([]pendingEvent, error) {
	if caller != l.arbitrator {
		return nil, apperror.ErrForbidden
	}
	if l.paused {
		return nil, apperror.ErrPaused
	}
	dispute, err := l.st.DisputeByID(disputeID)
	if err != nil {
		return nil, err
	}
	if dispute.Status != models.DisputeStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "спор уже разрешён")
	}
	milestone, job, err := l.milestoneWithJob(dispute.MilestoneID)
	if err != nil {
		return nil, err
	}

	// Обе ветки полностью валидируются до первой мутации состояния.
	var freelancer *models.User
	var freelancerID uuid.UUID
	if favorFreelancer {
		if job.AssignedFreelancer == nil {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "у заказа нет назначенного фрилансера")
		}
		freelancerID = *job.AssignedFreelancer
		freelancer, err = l.st.UserByID(freelancerID)
		if err != nil {
			return nil, err
		}
	}

	held := l.st.Escrow[milestone.ID]
	resolvedAt := l.now()
	arbitrator := caller

	// Копии для компенсирующего отката при отказе перевода.
	disputeBefore := *dispute
	milestoneBefore := *milestone
	jobBefore := *job
	escrowBefore := held
	heldBefore := l.st.HeldTotal

	dispute.Status = models.DisputeStatusResolved
	dispute.ArbitratorID = &arbitrator
	dispute.ResolvedAt = &resolvedAt
	l.st.Escrow[milestone.ID] = 0
	// Оверлей спора снимается независимо от исхода.
	job.Status = models.JobStatusInProgress

	var events []pendingEvent

	if favorFreelancer {
		freelancerBefore := *freelancer

		fee, payout := splitFee(held, l.feeBps)

		milestone.Status = models.MilestoneStatusApproved
		milestone.Paid = true
		l.st.HeldTotal -= payout
		// Счётчик завершённых заказов здесь не инкрементируется —
		// асимметрия с обычной приёмкой сохранена как есть.
		freelancer.TotalEarned += payout
		l.applyReputation(freelancer, arbitrationRating)

		l.payoutLock.Store(true)
		err = l.bank.Credit(freelancerID, payout)
		l.payoutLock.Store(false)
		if err != nil {
			*dispute = disputeBefore
			*milestone = milestoneBefore
			*job = jobBefore
			*freelancer = freelancerBefore
			l.st.Escrow[milestone.ID] = escrowBefore
			l.st.HeldTotal = heldBefore
			return nil, apperror.Wrap(err, apperror.ErrCodeTransferFailed, "не удалось выплатить средства фрилансеру")
		}

		events = []pendingEvent{
			{freelancerID, models.EventDisputeResolved, map[string]any{
				"dispute_id":       dispute.ID,
				"favor_freelancer": true,
				"amount":           payout,
				"fee":              fee,
			}},
			{job.ClientID, models.EventDisputeResolved, map[string]any{
				"dispute_id":       dispute.ID,
				"favor_freelancer": true,
			}},
			{freelancerID, models.EventReputationUpdated, map[string]any{
				"reputation": freelancer.Reputation,
			}},
		}
	} else {
		// Полный возврат клиенту; этап можно отправить на приёмку заново.
		milestone.Status = models.MilestoneStatusCreated
		milestone.Paid = false
		milestone.CompletedAt = nil
		l.st.HeldTotal -= held

		l.payoutLock.Store(true)
		err = l.bank.Credit(job.ClientID, held)
		l.payoutLock.Store(false)
		if err != nil {
			*dispute = disputeBefore
			*milestone = milestoneBefore
			*job = jobBefore
			l.st.Escrow[milestone.ID] = escrowBefore
			l.st.HeldTotal = heldBefore
			return nil, apperror.Wrap(err, apperror.ErrCodeTransferFailed, "не удалось вернуть средства клиенту")
		}

		events = []pendingEvent{{job.ClientID, models.EventDisputeResolved, map[string]any{
			"dispute_id":       dispute.ID,
			"favor_freelancer": false,
			"refund":           held,
		}}}
		if job.AssignedFreelancer != nil {
			events = append(events, pendingEvent{*job.AssignedFreelancer, models.EventDisputeResolved, map[string]any{
				"dispute_id":       dispute.ID,
				"favor_freelancer": false,
			}})
		}
	}

	return events, nil
}
