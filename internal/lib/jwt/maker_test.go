package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		username string
		role     string
	}{
		{
			name:     "admin user",
			username: "admin_user",
			role:     "admin",
		},
		{
			name:     "developer user",
			username: "dev_user",
			role:     "developer",
		},
		{
			name:     "user with email username",
			username: "dev@finconnect.io",
			role:     "developer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.username, tt.role)
			require.NoError(t, err)
			require.NotEmpty(t, token)

			claims, err := maker.ParseToken(token)
			require.NoError(t, err)
			assert.Equal(t, tt.username, claims.Username)
			assert.Equal(t, tt.role, claims.Role)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Minute)
		})
	}
}

func TestJWTMaker_ParseToken_InvalidCases(t *testing.T) {
	maker := NewJWTMaker("secret_one_1234567890", time.Minute)

	t.Run("garbage token", func(t *testing.T) {
		_, err := maker.ParseToken("not-a-jwt")
		assert.Error(t, err)
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := NewJWTMaker("secret_two_0987654321", time.Minute)
		token, err := other.GenerateToken("dev_user", "developer")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := NewJWTMaker("secret_one_1234567890", -time.Minute)
		token, err := expired.GenerateToken("dev_user", "developer")
		require.NoError(t, err)

		_, err = maker.ParseToken(token)
		assert.Error(t, err)
	})
}
