package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("mySecurePassword123")
	require.NoError(t, err)
	assert.NotEqual(t, "mySecurePassword123", hash)
	assert.Contains(t, hash, "$2a$")

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{name: "Correct password", password: "mySecurePassword123", want: true},
		{name: "Wrong password", password: "wrongPassword", want: false},
		{name: "Empty password", password: "", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(hash, tt.password))
		})
	}
}

func TestCheckPasswordPolicy(t *testing.T) {
	assert.ErrorIs(t, CheckPasswordPolicy("short"), ErrPasswordTooShort)
	assert.NoError(t, CheckPasswordPolicy("long-enough"))
	assert.NoError(t, CheckPasswordPolicy("비밀번호여덟글자"), "counts characters, not bytes")
}
