package util

import (
	"regexp"
	"testing"

	"github.com/ikkim/canteen-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateVerificationCode(t *testing.T) {
	digits := regexp.MustCompile(`^[0-9]+$`)

	for _, length := range []int{4, 6, 8} {
		code, err := GenerateVerificationCode(length)
		require.NoError(t, err)
		assert.Len(t, code, length)
		assert.Regexp(t, digits, code)
	}

	_, err := GenerateVerificationCode(0)
	assert.Error(t, err)
}

func TestHashVerificationCode(t *testing.T) {
	hash := HashVerificationCode("123456")
	assert.Len(t, hash, 64)
	assert.Equal(t, hash, HashVerificationCode("123456"))
	assert.NotEqual(t, hash, HashVerificationCode("654321"))
	// sha256("123456")
	assert.Equal(t, "8d969eef6ecad3c29a3a629280e686cf0c3f5d5a86aff3ca12020c923adc6c92", hash)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestSMTPMailer_DevMode(t *testing.T) {
	mailer := NewSMTPMailer(smtpDevConfig())
	assert.NoError(t, mailer.Send("user@example.com", "subject", "body"))
}

func smtpDevConfig() config.SMTPConfig {
	return config.SMTPConfig{Port: 587}
}
