package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

func TestActiveJobs_Pagination(t *testing.T) {
	e := newEnv(t)

	// Пять открытых заказов, один отменён.
	var ids []uint64
	for i := 0; i < 5; i++ {
		job, err := e.ledger.PostJob(e.client, "Открытый заказ", "ref:desc", nil, 100, e.deadline())
		assert.NoError(t, err)
		ids = append(ids, job.ID)
	}
	cancelled, err := e.ledger.PostJob(e.client, "Отменённый", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	assert.NoError(t, e.ledger.CancelJob(e.client, cancelled.ID))

	page, total := e.ledger.ActiveJobs(0, 3)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, ids[:3], page)

	// Страница короче limit, если открытых заказов осталось меньше.
	page, total = e.ledger.ActiveJobs(3, 10)
	assert.Equal(t, uint64(5), total)
	assert.Equal(t, ids[3:], page)

	page, _ = e.ledger.ActiveJobs(10, 10)
	assert.Empty(t, page)
}

func TestPlatformStats(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))
	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))

	e.fundMilestone(t, job.ID, 40)

	stats := e.ledger.PlatformStats()
	assert.Equal(t, uint64(2), stats.TotalUsers)
	assert.Equal(t, uint64(1), stats.TotalJobs)
	assert.Equal(t, uint64(1), stats.ActiveJobs)
	assert.Equal(t, uint64(2), stats.TotalMilestones)
	// Эскроу под вторым этапом плюс комиссия с первой выплаты.
	assert.Equal(t, uint64(40), stats.TotalEscrowed)
	assert.Equal(t, uint64(2), stats.FeesCollected)
	assert.Equal(t, uint64(42), stats.TotalValueLocked)
}

func TestUserStats_AverageRating(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)
	assert.NoError(t, e.ledger.SubmitMilestone(e.freelancer, milestone.ID))
	assert.NoError(t, e.ledger.ApproveMilestone(e.client, milestone.ID, 8))

	stats, err := e.ledger.UserStats(e.freelancer)
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), stats.TotalJobsCompleted)
	assert.Equal(t, uint64(78), stats.TotalEarned)
	assert.Equal(t, uint64(650), stats.Reputation)
	// Формула исходной системы сводится к reputation/10 при completed > 0.
	assert.Equal(t, uint64(65), stats.AverageRating)
}

func TestUserStats_NoCompletedJobs(t *testing.T) {
	e := newEnv(t)

	stats, err := e.ledger.UserStats(e.freelancer)
	assert.NoError(t, err)
	assert.Zero(t, stats.AverageRating)
	assert.Equal(t, uint64(500), stats.Reputation)
}

func TestIndexesAndLookups(t *testing.T) {
	e := newEnv(t)
	job := e.matchJob(t, 80)
	milestone := e.fundMilestone(t, job.ID, 80)

	proposals, err := e.ledger.JobProposals(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{1}, proposals)

	milestones, err := e.ledger.JobMilestones(job.ID)
	assert.NoError(t, err)
	assert.Equal(t, []uint64{milestone.ID}, milestones)

	assert.Equal(t, []uint64{job.ID}, e.ledger.UserJobs(e.client))
	assert.Equal(t, []uint64{1}, e.ledger.UserProposals(e.freelancer))
	assert.Empty(t, e.ledger.UserJobs(uuid.New()))

	jobs := e.ledger.JobsByIDs([]uint64{job.ID, 0, 999})
	assert.Len(t, jobs, 1)
	assert.Equal(t, job.ID, jobs[0].ID)

	_, err = e.ledger.JobProposals(999)
	assert.True(t, apperror.IsNotFound(err))
}

func TestCounters_MonotonicFromOne(t *testing.T) {
	e := newEnv(t)

	assert.Equal(t, uint64(0), e.ledger.Counters().Jobs)

	job, err := e.ledger.PostJob(e.client, "Первый", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	assert.Equal(t, uint64(1), job.ID)

	second, err := e.ledger.PostJob(e.client, "Второй", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), second.ID)

	// Отмена не освобождает идентификатор.
	assert.NoError(t, e.ledger.CancelJob(e.client, second.ID))
	third, err := e.ledger.PostJob(e.client, "Третий", "ref:desc", nil, 100, e.deadline())
	assert.NoError(t, err)
	assert.Equal(t, uint64(3), third.ID)

	counters := e.ledger.Counters()
	assert.Equal(t, uint64(3), counters.Jobs)
	assert.Equal(t, uint64(0), counters.Disputes)

	// Нулевой id — «не существует».
	_, err = e.ledger.JobByID(0)
	assert.True(t, apperror.IsNotFound(err))
}
