package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Run("hashes a password", func(t *testing.T) {
		hash, err := HashPassword("correct horse battery staple")
		require.NoError(t, err)
		assert.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		_, err := HashPassword("")
		assert.Error(t, err)
	})

	t.Run("produces different hashes for the same password", func(t *testing.T) {
		hash1, err := HashPassword("same-password")
		require.NoError(t, err)
		hash2, err := HashPassword("same-password")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret-password-123")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"matching password", hash, "secret-password-123", true},
		{"wrong password", hash, "wrong-password", false},
		{"empty password", hash, "", false},
		{"malformed hash", "not-a-bcrypt-hash", "secret-password-123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hash, tt.password))
		})
	}
}
