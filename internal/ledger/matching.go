package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
	"github.com/Lynndabel/Bloconnect/internal/validation"
)

// PostJob публикует заказ со статусом Open.
func (l *Ledger) PostJob(caller uuid.UUID, title, descriptionRef string, skills []string, budget uint64, deadline time.Time) (*models.Job, error) {
	if err := l.checkReentrancy(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	job, events, err := l.postJob(caller, title, descriptionRef, skills, budget, deadline)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l.emit(events)
	return job, nil
}

func (l *Ledger) postJob(caller uuid.UUID, title, descriptionRef string, skills []string, budget uint64, deadline time.Time) (*models.Job, []pendingEvent, error) {
	user, err := l.guardMutate(caller)
	if err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateLength("заголовок", title, validation.MinJobTitleLength, validation.MaxJobTitleLength); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateContentRef("описание", descriptionRef); err != nil {
		return nil, nil, err
	}
	if err := validation.ValidateSkills(skills); err != nil {
		return nil, nil, err
	}
	if budget == 0 {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть положительным")
	}
	if !deadline.After(l.now()) {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "срок должен быть в будущем")
	}

	job := &models.Job{
		ID:             l.st.IDs.NextJob(),
		ClientID:       caller,
		Title:          title,
		DescriptionRef: descriptionRef,
		RequiredSkills: skills,
		Budget:         budget,
		DeadlineAt:     deadline,
		Status:         models.JobStatusOpen,
		CreatedAt:      l.now(),
	}
	l.st.PutJob(job)
	user.PostedJobs++

	events := []pendingEvent{{caller, models.EventJobPosted, map[string]any{
		"job_id": job.ID,
		"budget": budget,
	}}}
	return job, events, nil
}

// SubmitProposal подаёт предложение на открытый заказ. Количество
// предложений на заказ не ограничено; клиент не может откликаться на
// собственный заказ.
func (l *Ledger) SubmitProposal(caller uuid.UUID, jobID uint64, proposalRef string, budget, duration uint64) (*models.Proposal, error) {
	if err := l.checkReentrancy(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	proposal, events, err := l.submitProposal(caller, jobID, proposalRef, budget, duration)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l.emit(events)
	return proposal, nil
}

func (l *Ledger) submitProposal(caller uuid.UUID, jobID uint64, proposalRef string, budget, duration uint64) (*models.Proposal, []pendingEvent, error) {
	user, err := l.guardMutate(caller)
	if err != nil {
		return nil, nil, err
	}
	job, err := l.st.JobByID(jobID)
	if err != nil {
		return nil, nil, err
	}
	if job.Status != models.JobStatusOpen {
		return nil, nil, apperror.New(apperror.ErrCodeInvalidState, "заказ не открыт для предложений")
	}
	if job.ClientID == caller {
		return nil, nil, apperror.New(apperror.ErrCodeForbidden, "нельзя откликнуться на собственный заказ")
	}
	if err := validation.ValidateContentRef("предложение", proposalRef); err != nil {
		return nil, nil, err
	}
	if budget == 0 {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "бюджет должен быть положительным")
	}
	if duration == 0 {
		return nil, nil, apperror.New(apperror.ErrCodeValidation, "срок выполнения должен быть положительным")
	}

	proposal := &models.Proposal{
		ID:               l.st.IDs.NextProposal(),
		JobID:            jobID,
		FreelancerID:     caller,
		ProposalRef:      proposalRef,
		ProposedBudget:   budget,
		ProposedDuration: duration,
		Status:           models.ProposalStatusPending,
		CreatedAt:        l.now(),
	}
	l.st.PutProposal(proposal)
	user.SubmittedProposals++

	events := []pendingEvent{
		{caller, models.EventProposalSubmitted, map[string]any{"proposal_id": proposal.ID, "job_id": jobID}},
		{job.ClientID, models.EventProposalSubmitted, map[string]any{"proposal_id": proposal.ID, "job_id": jobID}},
	}
	return proposal, events, nil
}

// AcceptProposal атомарно принимает предложение: заказ переходит в
// InProgress с назначенным фрилансером и бюджетом предложения, все
// остальные ожидающие предложения на этот заказ отклоняются тем же
// линейным проходом. Первый принятый побеждает: заказ перестаёт быть
// открытым, и повторные вызовы отказывают.
func (l *Ledger) AcceptProposal(caller uuid.UUID, proposalID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.acceptProposal(caller, proposalID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) acceptProposal(caller uuid.UUID, proposalID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	proposal, err := l.st.ProposalByID(proposalID)
	if err != nil {
		return nil, err
	}
	job, err := l.st.JobByID(proposal.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != caller {
		return nil, apperror.ErrForbidden
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "предложение уже обработано")
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "заказ уже не открыт")
	}

	proposal.Status = models.ProposalStatusAccepted
	freelancerID := proposal.FreelancerID
	job.Status = models.JobStatusInProgress
	job.AssignedFreelancer = &freelancerID
	job.Budget = proposal.ProposedBudget

	events := []pendingEvent{
		{freelancerID, models.EventProposalAccepted, map[string]any{"proposal_id": proposal.ID, "job_id": job.ID}},
		{caller, models.EventProposalAccepted, map[string]any{"proposal_id": proposal.ID, "job_id": job.ID}},
	}

	// Остальные ожидающие предложения отклоняются в этой же операции.
	for _, otherID := range l.st.JobProposals[job.ID] {
		other := l.st.Proposals[otherID]
		if other.ID == proposal.ID || other.Status != models.ProposalStatusPending {
			continue
		}
		other.Status = models.ProposalStatusRejected
		events = append(events, pendingEvent{other.FreelancerID, models.EventProposalRejected, map[string]any{
			"proposal_id": other.ID,
			"job_id":      job.ID,
		}})
	}
	return events, nil
}

// RejectProposal отклоняет одно ожидающее предложение без принятия другого.
func (l *Ledger) RejectProposal(caller uuid.UUID, proposalID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.rejectProposal(caller, proposalID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) rejectProposal(caller uuid.UUID, proposalID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	proposal, err := l.st.ProposalByID(proposalID)
	if err != nil {
		return nil, err
	}
	job, err := l.st.JobByID(proposal.JobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != caller {
		return nil, apperror.ErrForbidden
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "предложение уже обработано")
	}

	proposal.Status = models.ProposalStatusRejected

	return []pendingEvent{{proposal.FreelancerID, models.EventProposalRejected, map[string]any{
		"proposal_id": proposal.ID,
		"job_id":      job.ID,
	}}}, nil
}

// WithdrawProposal отзывает собственное ожидающее предложение.
// Заказ при этом не обязан оставаться открытым.
func (l *Ledger) WithdrawProposal(caller uuid.UUID, proposalID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.withdrawProposal(caller, proposalID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) withdrawProposal(caller uuid.UUID, proposalID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	proposal, err := l.st.ProposalByID(proposalID)
	if err != nil {
		return nil, err
	}
	if proposal.FreelancerID != caller {
		return nil, apperror.ErrForbidden
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "предложение уже обработано")
	}

	proposal.Status = models.ProposalStatusWithdrawn

	return []pendingEvent{{caller, models.EventProposalWithdrawn, map[string]any{
		"proposal_id": proposal.ID,
		"job_id":      proposal.JobID,
	}}}, nil
}

// CancelJob отменяет открытый заказ. Терминально.
func (l *Ledger) CancelJob(caller uuid.UUID, jobID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.cancelJob(caller, jobID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) cancelJob(caller uuid.UUID, jobID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	job, err := l.st.JobByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != caller {
		return nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusOpen {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "отменить можно только открытый заказ")
	}

	job.Status = models.JobStatusCancelled

	return []pendingEvent{{caller, models.EventJobCancelled, map[string]any{"job_id": job.ID}}}, nil
}

// CompleteJob завершает заказ: требуется хотя бы один этап, и все этапы
// должны быть приняты. Терминально.
func (l *Ledger) CompleteJob(caller uuid.UUID, jobID uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.completeJob(caller, jobID)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) completeJob(caller uuid.UUID, jobID uint64) ([]pendingEvent, error) {
	if _, err := l.guardMutate(caller); err != nil {
		return nil, err
	}
	job, err := l.st.JobByID(jobID)
	if err != nil {
		return nil, err
	}
	if job.ClientID != caller {
		return nil, apperror.ErrForbidden
	}
	if job.Status != models.JobStatusInProgress {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "заказ не в работе")
	}
	milestoneIDs := l.st.JobMilestones[job.ID]
	if len(milestoneIDs) == 0 {
		return nil, apperror.New(apperror.ErrCodeInvalidState, "у заказа нет ни одного этапа")
	}
	for _, mid := range milestoneIDs {
		if l.st.Milestones[mid].Status != models.MilestoneStatusApproved {
			return nil, apperror.New(apperror.ErrCodeInvalidState, "не все этапы приняты")
		}
	}

	job.Status = models.JobStatusCompleted

	events := []pendingEvent{{caller, models.EventJobCompleted, map[string]any{"job_id": job.ID}}}
	if job.AssignedFreelancer != nil {
		events = append(events, pendingEvent{*job.AssignedFreelancer, models.EventJobCompleted, map[string]any{"job_id": job.ID}})
	}
	return events, nil
}
