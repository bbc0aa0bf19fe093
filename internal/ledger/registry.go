package ledger

import (
	"github.com/google/uuid"

	"github.com/Lynndabel/Bloconnect/internal/models"
	"github.com/Lynndabel/Bloconnect/internal/pkg/apperror"
	"github.com/Lynndabel/Bloconnect/internal/validation"
)

// Register создаёт пользователя со стартовым рейтингом.
// Регистрация не требует предварительной регистрации, но подчиняется паузе.
func (l *Ledger) Register(caller uuid.UUID, profileRef string) (*models.User, error) {
	if err := l.checkReentrancy(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	user, events, err := l.register(caller, profileRef)
	l.mu.Unlock()
	if err != nil {
		return nil, err
	}
	l.emit(events)
	return user, nil
}

func (l *Ledger) register(caller uuid.UUID, profileRef string) (*models.User, []pendingEvent, error) {
	if l.paused {
		return nil, nil, apperror.ErrPaused
	}
	if existing, ok := l.st.Users[caller]; ok && existing.IsActive {
		return nil, nil, apperror.ErrAlreadyRegistered
	}
	if err := validation.ValidateContentRef("профиль", profileRef); err != nil {
		return nil, nil, err
	}

	user := &models.User{
		ID:         caller,
		ProfileRef: profileRef,
		Reputation: models.InitialReputation,
		IsActive:   true,
		CreatedAt:  l.now(),
	}
	l.st.Users[caller] = user

	events := []pendingEvent{{caller, models.EventUserRegistered, map[string]any{
		"profile_ref": profileRef,
	}}}
	return user, events, nil
}

// UpdateProfile обновляет ссылку на профиль активного пользователя.
func (l *Ledger) UpdateProfile(caller uuid.UUID, profileRef string) error {
	if err := l.checkReentrancy(); err != nil {
		return err
	}
	l.mu.Lock()
	events, err := l.updateProfile(caller, profileRef)
	l.mu.Unlock()
	if err != nil {
		return err
	}
	l.emit(events)
	return nil
}

func (l *Ledger) updateProfile(caller uuid.UUID, profileRef string) ([]pendingEvent, error) {
	user, err := l.guardMutate(caller)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidateContentRef("профиль", profileRef); err != nil {
		return nil, err
	}

	user.ProfileRef = profileRef

	return []pendingEvent{{caller, models.EventProfileUpdated, map[string]any{
		"profile_ref": profileRef,
	}}}, nil
}

// IsRegistered сообщает, зарегистрирована ли идентичность.
func (l *Ledger) IsRegistered(id uuid.UUID) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	user, ok := l.st.Users[id]
	return ok && user.IsActive
}

// UserByID возвращает пользователя.
func (l *Ledger) UserByID(id uuid.UUID) (*models.User, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	user, err := l.st.UserByID(id)
	if err != nil {
		return nil, err
	}
	copied := *user
	return &copied, nil
}
