package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{name: "Simple password", password: "password123"},
		{name: "Unicode password", password: "비밀번호123"},
		{name: "Empty password", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := HashPassword(tt.password)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
			assert.NotEqual(t, tt.password, hash)
			assert.True(t, VerifyPassword(hash, tt.password))
		})
	}
}

func TestHashPassword_SaltedTwice(t *testing.T) {
	first, err := HashPassword("same-password")
	require.NoError(t, err)
	second, err := HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, VerifyPassword(first, "same-password"))
	assert.True(t, VerifyPassword(second, "same-password"))
}

func TestVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{name: "Correct password", hash: hash, password: "correct-horse", want: true},
		{name: "Wrong password", hash: hash, password: "wrong-horse", want: false},
		{name: "Malformed hash", hash: "not-a-hash", password: "correct-horse", want: false},
		{name: "Bcrypt style hash", hash: "$2a$12$abcdefghijklmnopqrstuv", password: "correct-horse", want: false},
		{name: "Empty hash", hash: "", password: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, VerifyPassword(tt.hash, tt.password))
		})
	}
}
