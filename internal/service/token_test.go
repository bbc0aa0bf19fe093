package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15*time.Minute, 720*time.Hour)
}

func TestGeneratePairAndParse(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	pair, err := m.GeneratePair(userID, RoleUser)
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 15*time.Minute, pair.ExpiresIn)

	parsedID, role, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, RoleUser, role)

	parsedID, role, err = m.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, parsedID)
	assert.Equal(t, RoleUser, role)
}

func TestParseAccess_RejectsRefreshToken(t *testing.T) {
	m := newTestManager()

	pair, err := m.GeneratePair(uuid.New(), RoleUser)
	require.NoError(t, err)

	// Токены подписаны разными секретами и не взаимозаменяемы.
	_, _, err = m.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)

	_, _, err = m.ParseRefresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestParseAccess_RejectsGarbage(t *testing.T) {
	m := newTestManager()

	_, _, err := m.ParseAccess("not-a-token")
	assert.Error(t, err)
}

func TestParseAccess_RejectsExpired(t *testing.T) {
	m := NewTokenManager("access-secret", "refresh-secret", -time.Minute, -time.Minute)

	pair, err := m.GeneratePair(uuid.New(), RoleUser)
	require.NoError(t, err)

	_, _, err = m.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestGeneratePair_ArbitratorRole(t *testing.T) {
	m := newTestManager()
	arbitratorID := uuid.New()

	pair, err := m.GeneratePair(arbitratorID, RoleArbitrator)
	require.NoError(t, err)

	parsedID, role, err := m.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, arbitratorID, parsedID)
	assert.Equal(t, RoleArbitrator, role)
}
