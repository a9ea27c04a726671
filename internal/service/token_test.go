package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phtrivia/phtrivia-backend/internal/models"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RolePlayer}

	pair, accessExp, refreshExp, err := manager.GeneratePair(user)
	require.NoError(t, err)
	assert.True(t, accessExp.Before(refreshExp))

	userID, role, err := manager.ParseAccess(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)
	assert.Equal(t, models.RolePlayer, role)

	claims, err := manager.ParseRefresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestTokenManager_WrongSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", "secret-a", time.Minute, time.Hour)
	verifier := NewTokenManager("secret-b", "secret-b", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RoleAdmin}

	pair, _, _, err := issuer.GeneratePair(user)
	require.NoError(t, err)

	_, _, err = verifier.ParseAccess(pair.AccessToken)
	assert.Error(t, err)

	_, err = verifier.ParseRefresh(pair.RefreshToken)
	assert.Error(t, err)
}

func TestTokenManager_ExpiredAccess(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", -time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RolePlayer}

	pair, _, _, err := manager.GeneratePair(user)
	require.NoError(t, err)

	_, _, err = manager.ParseAccess(pair.AccessToken)
	assert.Error(t, err)
}

func TestTokenManager_RefreshNotValidAsAccess(t *testing.T) {
	manager := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	user := &models.User{ID: uuid.New(), Role: models.RolePlayer}

	pair, _, _, err := manager.GeneratePair(user)
	require.NoError(t, err)

	// Different signing secrets keep the two token families apart.
	_, _, err = manager.ParseAccess(pair.RefreshToken)
	assert.Error(t, err)
}
