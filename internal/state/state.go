package state

import (
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

// State владеет всеми таблицами леджера. Доступ снаружи только через
// операции леджера: сам State не синхронизирован и не проверяет права.
//
// Пять основных таблиц (User по идентичности, остальные по
// последовательному id), четыре вторичных индекса и таблица эскроу-балансов
// по id этапа. Индексы append-only: записи из них никогда не удаляются.
type State struct {
	Users      map[uuid.UUID]*models.User
	Jobs       map[uint64]*models.Job
	Proposals  map[uint64]*models.Proposal
	Milestones map[uint64]*models.Milestone
	Disputes   map[uint64]*models.Dispute

	JobProposals  map[uint64][]uint64
	JobMilestones map[uint64][]uint64
	UserJobs      map[uuid.UUID][]uint64
	UserProposals map[uuid.UUID][]uint64

	// Escrow хранит сумму, удерживаемую под каждый этап.
	Escrow map[uint64]uint64

	// HeldTotal — весь объём средств под управлением леджера
	// (эскроу-балансы плюс накопленная невостребованная комиссия).
	HeldTotal uint64

	IDs Allocator
}

// New создаёт пустое состояние леджера.
func New() *State {
	return &State{
		Users:         make(map[uuid.UUID]*models.User),
		Jobs:          make(map[uint64]*models.Job),
		Proposals:     make(map[uint64]*models.Proposal),
		Milestones:    make(map[uint64]*models.Milestone),
		Disputes:      make(map[uint64]*models.Dispute),
		JobProposals:  make(map[uint64][]uint64),
		JobMilestones: make(map[uint64][]uint64),
		UserJobs:      make(map[uuid.UUID][]uint64),
		UserProposals: make(map[uuid.UUID][]uint64),
		Escrow:        make(map[uint64]uint64),
	}
}

// UserByID возвращает пользователя по идентичности.
func (s *State) UserByID(id uuid.UUID) (*models.User, error) {
	u, ok := s.Users[id]
	if !ok {
		return nil, apperror.ErrUserNotFound
	}
	return u, nil
}

// JobByID возвращает заказ по идентификатору. Нулевой и невыданный id отклоняются.
func (s *State) JobByID(id uint64) (*models.Job, error) {
	if id == 0 || id > s.IDs.Jobs {
		return nil, apperror.ErrJobNotFound
	}
	j, ok := s.Jobs[id]
	if !ok {
		return nil, apperror.ErrJobNotFound
	}
	return j, nil
}

// ProposalByID возвращает предложение по идентификатору.
func (s *State) ProposalByID(id uint64) (*models.Proposal, error) {
	if id == 0 || id > s.IDs.Proposals {
		return nil, apperror.ErrProposalNotFound
	}
	p, ok := s.Proposals[id]
	if !ok {
		return nil, apperror.ErrProposalNotFound
	}
	return p, nil
}

// MilestoneByID возвращает этап по идентификатору.
func (s *State) MilestoneByID(id uint64) (*models.Milestone, error) {
	if id == 0 || id > s.IDs.Milestones {
		return nil, apperror.ErrMilestoneNotFound
	}
	m, ok := s.Milestones[id]
	if !ok {
		return nil, apperror.ErrMilestoneNotFound
	}
	return m, nil
}

// DisputeByID возвращает спор по идентификатору.
func (s *State) DisputeByID(id uint64) (*models.Dispute, error) {
	if id == 0 || id > s.IDs.Disputes {
		return nil, apperror.ErrDisputeNotFound
	}
	d, ok := s.Disputes[id]
	if !ok {
		return nil, apperror.ErrDisputeNotFound
	}
	return d, nil
}

// PutJob сохраняет заказ и обновляет индекс клиента.
func (s *State) PutJob(j *models.Job) {
	s.Jobs[j.ID] = j
	s.UserJobs[j.ClientID] = append(s.UserJobs[j.ClientID], j.ID)
}

// PutProposal сохраняет предложение и обновляет индексы заказа и фрилансера.
func (s *State) PutProposal(p *models.Proposal) {
	s.Proposals[p.ID] = p
	s.JobProposals[p.JobID] = append(s.JobProposals[p.JobID], p.ID)
	s.UserProposals[p.FreelancerID] = append(s.UserProposals[p.FreelancerID], p.ID)
}

// PutMilestone сохраняет этап и обновляет индекс заказа.
func (s *State) PutMilestone(m *models.Milestone) {
	s.Milestones[m.ID] = m
	s.JobMilestones[m.JobID] = append(s.JobMilestones[m.JobID], m.ID)
}

// PutDispute сохраняет спор.
func (s *State) PutDispute(d *models.Dispute) {
	s.Disputes[d.ID] = d
}

// EscrowBalance возвращает удерживаемую под этап сумму.
func (s *State) EscrowBalance(milestoneID uint64) uint64 {
	return s.Escrow[milestoneID]
}

// TotalEscrowed суммирует все эскроу-балансы.
func (s *State) TotalEscrowed() uint64 {
	var total uint64
	for _, amount := range s.Escrow {
		total += amount
	}
	return total
}
