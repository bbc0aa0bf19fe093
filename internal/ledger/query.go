package ledger

import (
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
)

// Читающие операции не мутируют состояние и продолжают работать под
// паузой. Сущности возвращаются копиями: состояние принадлежит леджеру.

// JobByID возвращает заказ.
func (l *Ledger) JobByID(id uint64) (*models.Job, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	job, err := l.st.JobByID(id)
	if err != nil {
		return nil, err
	}
	copied := *job
	return &copied, nil
}

// JobsByIDs возвращает заказы пакетно; несуществующие id пропускаются.
func (l *Ledger) JobsByIDs(ids []uint64) []models.Job {
	l.mu.RLock()
	defer l.mu.RUnlock()
	jobs := make([]models.Job, 0, len(ids))
	for _, id := range ids {
		if job, err := l.st.JobByID(id); err == nil {
			jobs = append(jobs, *job)
		}
	}
	return jobs
}

// ProposalByID возвращает предложение.
func (l *Ledger) ProposalByID(id uint64) (*models.Proposal, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	proposal, err := l.st.ProposalByID(id)
	if err != nil {
		return nil, err
	}
	copied := *proposal
	return &copied, nil
}

// DisputeByID возвращает спор.
func (l *Ledger) DisputeByID(id uint64) (*models.Dispute, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	dispute, err := l.st.DisputeByID(id)
	if err != nil {
		return nil, err
	}
	copied := *dispute
	return &copied, nil
}

// MilestoneWithEscrow возвращает этап вместе с удерживаемой суммой.
func (l *Ledger) MilestoneWithEscrow(id uint64) (*models.Milestone, uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	milestone, err := l.st.MilestoneByID(id)
	if err != nil {
		return nil, 0, err
	}
	copied := *milestone
	return &copied, l.st.Escrow[id], nil
}

// JobProposals возвращает id предложений заказа в порядке подачи.
func (l *Ledger) JobProposals(jobID uint64) ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, err := l.st.JobByID(jobID); err != nil {
		return nil, err
	}
	return append([]uint64(nil), l.st.JobProposals[jobID]...), nil
}

// JobMilestones возвращает id этапов заказа в порядке создания.
func (l *Ledger) JobMilestones(jobID uint64) ([]uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if _, err := l.st.JobByID(jobID); err != nil {
		return nil, err
	}
	return append([]uint64(nil), l.st.JobMilestones[jobID]...), nil
}

// UserJobs возвращает id заказов, опубликованных идентичностью.
func (l *Ledger) UserJobs(id uuid.UUID) []uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]uint64(nil), l.st.UserJobs[id]...)
}

// UserProposals возвращает id предложений, поданных идентичностью.
func (l *Ledger) UserProposals(id uuid.UUID) []uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]uint64(nil), l.st.UserProposals[id]...)
}

// ActiveJobs постранично возвращает id открытых заказов по возрастанию
// id: первый проход считает открытые заказы, второй собирает страницу
// начиная с offset. Страница может быть короче limit.
func (l *Ledger) ActiveJobs(offset, limit uint64) ([]uint64, uint64) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var total uint64
	for id := uint64(1); id <= l.st.IDs.Jobs; id++ {
		if l.st.Jobs[id].Status == models.JobStatusOpen {
			total++
		}
	}

	page := make([]uint64, 0, limit)
	var skipped uint64
	for id := uint64(1); id <= l.st.IDs.Jobs && uint64(len(page)) < limit; id++ {
		if l.st.Jobs[id].Status != models.JobStatusOpen {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		page = append(page, id)
	}
	return page, total
}

// PlatformStats собирает агрегированную статистику линейными проходами.
// «Собранные комиссии» аппроксимируются разницей между всем удерживаемым
// объёмом и суммой эскроу-балансов; оценка точна, пока мимо леджера не
// проходят посторонние переводы.
func (l *Ledger) PlatformStats() models.PlatformStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var active uint64
	for id := uint64(1); id <= l.st.IDs.Jobs; id++ {
		switch l.st.Jobs[id].Status {
		case models.JobStatusOpen, models.JobStatusInProgress:
			active++
		}
	}

	escrowed := l.st.TotalEscrowed()

	return models.PlatformStats{
		TotalUsers:       uint64(len(l.st.Users)),
		TotalJobs:        l.st.IDs.Jobs,
		ActiveJobs:       active,
		TotalProposals:   l.st.IDs.Proposals,
		TotalMilestones:  l.st.IDs.Milestones,
		TotalDisputes:    l.st.IDs.Disputes,
		TotalEscrowed:    escrowed,
		FeesCollected:    l.st.HeldTotal - escrowed,
		TotalValueLocked: l.st.HeldTotal,
	}
}

// UserStats возвращает статистику участника. Формула среднего рейтинга
// воспроизведена как в исходной системе: (reputation * completed) /
// (completed * 10), что алгебраически сводится к reputation/10 при любом
// ненулевом completed. См. DESIGN.md.
func (l *Ledger) UserStats(id uuid.UUID) (*models.UserStats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	user, err := l.st.UserByID(id)
	if err != nil {
		return nil, err
	}

	var avg uint64
	if user.TotalJobsCompleted > 0 {
		avg = (user.Reputation * user.TotalJobsCompleted) / (user.TotalJobsCompleted * 10)
	}

	return &models.UserStats{
		Reputation:         user.Reputation,
		TotalJobsCompleted: user.TotalJobsCompleted,
		TotalEarned:        user.TotalEarned,
		PostedJobs:         user.PostedJobs,
		SubmittedProposals: user.SubmittedProposals,
		AverageRating:      avg,
	}, nil
}

// TotalEscrowed возвращает сумму всех эскроу-балансов.
func (l *Ledger) TotalEscrowed() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.TotalEscrowed()
}

// HeldTotal возвращает весь объём средств под управлением леджера.
func (l *Ledger) HeldTotal() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.HeldTotal
}

// Counters возвращает снимок счётчиков идентификаторов.
func (l *Ledger) Counters() models.Counters {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return models.Counters{
		Jobs:       l.st.IDs.Jobs,
		Proposals:  l.st.IDs.Proposals,
		Milestones: l.st.IDs.Milestones,
		Disputes:   l.st.IDs.Disputes,
	}
}
