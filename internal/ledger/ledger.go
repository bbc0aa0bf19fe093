package ledger

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/config"
	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
	"github.com/Lynndabel/Bloconnect/internal/state"
)

// Bank выполняет переводы стоимости между леджером и счетами участников.
// Это единственная операция, которая может отказать по внешним причинам;
// такой отказ откатывает все изменения состояния текущей операции.
type Bank interface {
	Debit(id uuid.UUID, amount uint64) error
	Credit(id uuid.UUID, amount uint64) error
}

// Notifier получает события об успешных мутациях. События публикуются
// только после фиксации состояния.
type Notifier interface {
	Notify(userID uuid.UUID, event string, data any)
}

// Ledger — ядро площадки: реестр участников, матчинг заказов и
// предложений, эскроу по этапам, арбитраж споров и рейтинг. Все операции
// выполняются строго последовательно под общим мьютексом; каждая либо
// завершается целиком, либо не меняет состояние вовсе.
type Ledger struct {
	mu       sync.RWMutex
	st       *state.State
	bank     Bank
	notifier Notifier

	arbitrator uuid.UUID
	feeBps     uint64
	paused     bool

	// payoutLock поднят на время исходящего перевода в ApproveMilestone и
	// ResolveDispute. Любая мутация, пришедшая при поднятом флаге, — это
	// повторный вход через банк, она отклоняется немедленно.
	payoutLock atomic.Bool

	now func() time.Time
}

type pendingEvent struct {
	userID uuid.UUID
	name   string
	data   map[string]any
}

// New создаёт леджер с пустым состоянием.
func New(bank Bank, arbitrator uuid.UUID, feeBps uint64) *Ledger {
	return &Ledger{
		st:         state.New(),
		bank:       bank,
		arbitrator: arbitrator,
		feeBps:     feeBps,
		now:        time.Now,
	}
}

// SetNotifier устанавливает получателя событий.
func (l *Ledger) SetNotifier(n Notifier) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notifier = n
}

// SetClock подменяет источник времени (для тестов).
func (l *Ledger) SetClock(now func() time.Time) {
	l.now = now
}

// checkReentrancy выполняется до захвата мьютекса: повторный вход идёт
// в том же потоке и на мьютексе повис бы намертво.
func (l *Ledger) checkReentrancy() error {
	if l.payoutLock.Load() {
		return apperror.ErrReentrancy
	}
	return nil
}

// guardMutate — общие предикаты для всех мутаций под паузой:
// сначала пауза, затем регистрация вызывающего.
func (l *Ledger) guardMutate(caller uuid.UUID) (*models.User, error) {
	if l.paused {
		return nil, apperror.ErrPaused
	}
	user, ok := l.st.Users[caller]
	if !ok || !user.IsActive {
		return nil, apperror.ErrNotRegistered
	}
	return user, nil
}

// emit публикует события после фиксации операции.
func (l *Ledger) emit(events []pendingEvent) {
	if l.notifier == nil {
		return
	}
	for _, ev := range events {
		l.notifier.Notify(ev.userID, ev.name, ev.data)
	}
}

// UpdateFeeBps меняет комиссию площадки. Только арбитр; работает и под паузой.
func (l *Ledger) UpdateFeeBps(caller uuid.UUID, feeBps uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	if caller != l.arbitrator {
		l.mu.Unlock()
		return apperror.ErrForbidden
	}
	if feeBps > config.MaxFeeBps {
		l.mu.Unlock()
		return apperror.New(apperror.ErrCodeValidation, "комиссия не может превышать 1000 базисных пунктов")
	}
	l.feeBps = feeBps
	l.mu.Unlock()

	l.emit([]pendingEvent{{caller, models.EventFeeUpdated, map[string]any{"fee_bps": feeBps}}})
	return nil
}

// TogglePause переключает глобальную паузу. Только арбитр.
func (l *Ledger) TogglePause(caller uuid.UUID) (bool, error) {
	if err := l.checkReentrancy(); err != nil {
		return false, err
	}
	l.mu.Lock()
	if caller != l.arbitrator {
		l.mu.Unlock()
		return false, apperror.ErrForbidden
	}
	l.paused = !l.paused
	paused := l.paused
	l.mu.Unlock()

	l.emit([]pendingEvent{{caller, models.EventPauseToggled, map[string]any{"paused": paused}}})
	return paused, nil
}

// EmergencyWithdraw выводит удерживаемые леджером средства на счёт
// получателя. Только арбитр; доступно и под паузой. Сумма не может
// превышать общий удерживаемый баланс.
func (l *Ledger) EmergencyWithdraw(caller, recipient uuid.UUID, amount uint64) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()

	if caller != l.arbitrator {
		l.mu.Unlock()
		return apperror.ErrForbidden
	}
	if amount == 0 {
		l.mu.Unlock()
		return apperror.New(apperror.ErrCodeValidation, "сумма должна быть положительной")
	}
	if amount > l.st.HeldTotal {
		l.mu.Unlock()
		return apperror.New(apperror.ErrCodeValidation, "сумма превышает удерживаемый баланс")
	}

	l.st.HeldTotal -= amount
	if err := l.bank.Credit(recipient, amount); err != nil {
		l.st.HeldTotal += amount
		l.mu.Unlock()
		return apperror.Wrap(err, apperror.ErrCodeTransferFailed, "не удалось выполнить перевод")
	}
	l.mu.Unlock()

	l.emit([]pendingEvent{{caller, models.EventEmergencyWithdraw, map[string]any{
		"recipient": recipient,
		"amount":    amount,
	}}})
	return nil
}

// FeeBps возвращает текущую комиссию площадки.
func (l *Ledger) FeeBps() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.feeBps
}

// Paused сообщает, остановлена ли система.
func (l *Ledger) Paused() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.paused
}

// Arbitrator возвращает идентичность арбитра.
func (l *Ledger) Arbitrator() uuid.UUID {
	return l.arbitrator
}
