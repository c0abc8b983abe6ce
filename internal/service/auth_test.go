package service_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-v2/discovery/internal/service"
	"github.com/pageza/alchemorsel-v2/discovery/internal/types"
)

func TestAuthService(t *testing.T) {
	authSvc := service.NewAuthService("test-secret")

	t.Run("should validate a token it generated", func(t *testing.T) {
		token, err := authSvc.GenerateToken(&types.TokenClaims{UserID: "user-1", Username: "ana"})
		require.NoError(t, err)

		claims, err := authSvc.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, types.ID("user-1"), claims.UserID)
		assert.Equal(t, "ana", claims.Username)
		assert.NotNil(t, claims.ExpiresAt)
	})

	t.Run("should accept a numeric user id", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 42,
			"exp":     time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("test-secret"))
		require.NoError(t, err)

		claims, err := authSvc.ValidateToken(signed)
		require.NoError(t, err)
		assert.Equal(t, "42", claims.UserID.String())
	})

	t.Run("should reject a token signed with another secret", func(t *testing.T) {
		other := service.NewAuthService("other-secret")
		token, err := other.GenerateToken(&types.TokenClaims{UserID: "user-1"})
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})

	t.Run("should reject an expired token", func(t *testing.T) {
		claims := &types.TokenClaims{UserID: "user-1"}
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		token, err := authSvc.GenerateToken(claims)
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidToken)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("should reject a token without a user id", func(t *testing.T) {
		token, err := authSvc.GenerateToken(&types.TokenClaims{Username: "ana"})
		require.NoError(t, err)

		_, err = authSvc.ValidateToken(token)
		assert.ErrorIs(t, err, service.ErrInvalidTokenClaims)
	})

	t.Run("should reject garbage", func(t *testing.T) {
		_, err := authSvc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, service.ErrInvalidToken)
	})
}
