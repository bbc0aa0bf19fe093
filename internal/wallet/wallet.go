package wallet

import (
	"sync"

	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
)

var (
	// ErrInsufficientFunds возвращается при списании сверх доступного баланса.
	ErrInsufficientFunds = apperror.New(apperror.ErrCodeValidation, "недостаточно средств на балансе")
	// ErrAccountFrozen возвращается при зачислении на замороженный счёт.
	ErrAccountFrozen = apperror.New(apperror.ErrCodeTransferFailed, "счёт получателя заморожен")
)

// Wallet ведёт счета участников в единой неделимой единице стоимости.
// Леджер использует его как банк: депозит под этап списывается со счёта
// клиента, выплаты и возвраты зачисляются обратно. Замороженный счёт
// отклоняет зачисления, что моделирует внешний сбой перевода.
type Wallet struct {
	mu       sync.RWMutex
	balances map[uuid.UUID]uint64
	frozen   map[uuid.UUID]struct{}
}

// New создаёт пустой кошелёк.
func New() *Wallet {
	return &Wallet{
		balances: make(map[uuid.UUID]uint64),
		frozen:   make(map[uuid.UUID]struct{}),
	}
}

// Deposit пополняет счёт участника извне.
func (w *Wallet) Deposit(id uuid.UUID, amount uint64) error {
	if amount == 0 {
		return apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[id] += amount
	return nil
}

// Debit списывает средства со счёта. Используется леджером при
// депонировании под этап.
func (w *Wallet) Debit(id uuid.UUID, amount uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.balances[id] < amount {
		return ErrInsufficientFunds
	}
	w.balances[id] -= amount
	return nil
}

// Credit зачисляет средства на счёт. Замороженный счёт отклоняет перевод.
func (w *Wallet) Credit(id uuid.UUID, amount uint64) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.frozen[id]; ok {
		return ErrAccountFrozen
	}
	w.balances[id] += amount
	return nil
}

// Balance возвращает доступный баланс счёта.
func (w *Wallet) Balance(id uuid.UUID) uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.balances[id]
}

// Freeze замораживает счёт: все зачисления на него будут отклонены.
func (w *Wallet) Freeze(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.frozen[id] = struct{}{}
}

// Unfreeze размораживает счёт.
func (w *Wallet) Unfreeze(id uuid.UUID) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.frozen, id)
}
