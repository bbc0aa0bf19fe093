package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/models"
)

func TestApplyReputation_WeightedFormula(t *testing.T) {
	l := New(nil, uuid.Nil, 0)

	cases := []struct {
		rep       uint64
		completed uint64
		rating    uint64
		expected  uint64
	}{
		// Вес — счётчик в том виде, в каком он хранится на момент вычисления.
		{500, 1, 8, 650},  // (500*1 + 800) / 2
		{650, 2, 10, 766}, // (650*2 + 1000) / 3
		{500, 0, 1, 100},  // (500*0 + 100) / 1
		{1000, 5, 10, 1000},
	}

	for _, tc := range cases {
		user := &models.User{Reputation: tc.rep, TotalJobsCompleted: tc.completed}
		l.applyReputation(user, tc.rating)
		assert.Equal(t, tc.expected, user.Reputation,
			"rep=%d completed=%d rating=%d", tc.rep, tc.completed, tc.rating)
	}
}

func TestApplyReputation_StaysInRange(t *testing.T) {
	l := New(nil, uuid.Nil, 0)
	user := &models.User{Reputation: models.InitialReputation}

	// Любая последовательность оценок из [1, 10] держит рейтинг в [0, 1000].
	ratings := []uint64{10, 10, 10, 1, 1, 10, 5, 1, 10, 10, 1, 1, 1, 10, 7, 3, 10, 10, 10, 10}
	for i, rating := range ratings {
		user.TotalJobsCompleted = uint64(i + 1)
		l.applyReputation(user, rating)
		assert.LessOrEqual(t, user.Reputation, uint64(models.MaxReputation))
	}
}

func TestApplyReputation_ClampsAtMax(t *testing.T) {
	l := New(nil, uuid.Nil, 0)

	// Вес 0: новый рейтинг — это rating*100, без вклада прежнего.
	user := &models.User{Reputation: 999, TotalJobsCompleted: 0}
	l.applyReputation(user, 10)
	assert.Equal(t, uint64(1000), user.Reputation)
}
