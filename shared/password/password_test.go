package password_test

import (
	"strings"
	"studio/shared/password"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHash(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "valid password", password: "validPassword123"},
		{name: "special characters", password: "P@ssw0rd!#$%^&*()"},
		{name: "unicode", password: "пароль123"},
		{name: "exactly max length", password: strings.Repeat("a", password.MaxLength)},
		{name: "empty password", password: "", wantErr: password.ErrEmptyPassword},
		{name: "longer than bcrypt accepts", password: strings.Repeat("a", password.MaxLength+1), wantErr: password.ErrHashingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := password.Hash(tt.password)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, hash)

				return
			}

			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$2a$"), "bcrypt hash expected, got %s", hash)
			assert.NoError(t, password.Verify(tt.password, hash))
			assert.False(t, password.NeedsRehash(hash))
		})
	}
}

func TestHash_Salted(t *testing.T) {
	first, err := password.Hash("samePassword")
	require.NoError(t, err)

	second, err := password.Hash("samePassword")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerify(t *testing.T) {
	const secret = "testPassword123"

	validHash, err := password.Hash(secret)
	require.NoError(t, err)

	tests := []struct {
		name     string
		password string
		hash     string
		wantErr  error
	}{
		{name: "matching password", password: secret, hash: validHash},
		{name: "wrong password", password: "wrongPassword", hash: validHash, wantErr: password.ErrInvalidPassword},
		{name: "suffix does not match", password: secret + "x", hash: validHash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", password: "", hash: validHash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", password: secret, hash: "", wantErr: password.ErrInvalidPassword},
		{name: "malformed hash", password: secret, hash: "invalid_hash", wantErr: password.ErrVerifyingPassword},
		{name: "truncated hash", password: secret, hash: validHash[:10], wantErr: password.ErrVerifyingPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.password, tt.hash)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	cheap, err := bcrypt.GenerateFromPassword([]byte("legacy"), bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, password.NeedsRehash(string(cheap)))
	assert.True(t, password.NeedsRehash("not a hash"))
}
