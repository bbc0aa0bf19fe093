package wallet

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

func TestDepositAndBalance(t *testing.T) {
	w := New()
	id := uuid.New()

	assert.Zero(t, w.Balance(id))
	assert.NoError(t, w.Deposit(id, 100))
	assert.NoError(t, w.Deposit(id, 50))
	assert.Equal(t, uint64(150), w.Balance(id))

	err := w.Deposit(id, 0)
	assert.Equal(t, apperror.ErrCodeValidation, apperror.CodeOf(err))
}

func TestDebit(t *testing.T) {
	w := New()
	id := uuid.New()
	assert.NoError(t, w.Deposit(id, 100))

	assert.NoError(t, w.Debit(id, 60))
	assert.Equal(t, uint64(40), w.Balance(id))

	err := w.Debit(id, 41)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, uint64(40), w.Balance(id))
}

func TestCredit_FrozenAccountRejects(t *testing.T) {
	w := New()
	id := uuid.New()

	assert.NoError(t, w.Credit(id, 30))

	w.Freeze(id)
	err := w.Credit(id, 10)
	assert.ErrorIs(t, err, ErrAccountFrozen)
	assert.Equal(t, apperror.ErrCodeTransferFailed, apperror.CodeOf(err))
	assert.Equal(t, uint64(30), w.Balance(id))

	w.Unfreeze(id)
	assert.NoError(t, w.Credit(id, 10))
	assert.Equal(t, uint64(40), w.Balance(id))
}
