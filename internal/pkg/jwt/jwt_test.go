//go:build unit

package jwt_test

import (
	"testing"
	"time"

	"blib-backend/internal/domain/subscriber"
	"blib-backend/internal/pkg/jwt"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := jwt.NewService("test-secret", time.Hour)

	t.Run("subscriber role", func(t *testing.T) {
		token, err := svc.GenerateToken(42, subscriber.ActorSelf)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, 42, claims.UserID)
		assert.Equal(t, subscriber.ActorSelf, claims.Role)
		assert.False(t, claims.IsLibrarian())
	})

	t.Run("any other role is staff", func(t *testing.T) {
		token, err := svc.GenerateToken(7, "carla")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)
		require.NoError(t, err)
		assert.True(t, claims.IsLibrarian())
	})
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	token, err := jwt.NewService("secret-a", time.Hour).GenerateToken(1, subscriber.ActorSelf)
	require.NoError(t, err)

	_, err = jwt.NewService("secret-b", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrInvalidToken)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	token, err := jwt.NewService("test-secret", -time.Minute).GenerateToken(1, subscriber.ActorSelf)
	require.NoError(t, err)

	_, err = jwt.NewService("test-secret", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, jwt.ErrExpiredToken)
}
