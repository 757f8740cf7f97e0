package util

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "canteen-jwt-test-secret"

func issue(t *testing.T, userID uint, role string, accessExpiry, refreshExpiry time.Duration) *TokenPair {
	pair, err := GenerateTokenPair(userID, "u"+strconv.Itoa(int(userID))+"@canteen.test", role, testSecret, accessExpiry, refreshExpiry)
	require.NoError(t, err)
	return pair
}

func TestGenerateTokenPair_TypedTokensPerRole(t *testing.T) {
	for i, role := range []string{"customer", "vendor", "admin"} {
		t.Run(role, func(t *testing.T) {
			userID := uint(i + 10)
			pair := issue(t, userID, role, 30*time.Minute, 168*time.Hour)
			assert.Equal(t, "bearer", pair.TokenType)

			access, err := ValidateToken(pair.AccessToken, testSecret)
			require.NoError(t, err)
			refresh, err := ValidateToken(pair.RefreshToken, testSecret)
			require.NoError(t, err)

			assert.Equal(t, TokenTypeAccess, access.TokenType)
			assert.Equal(t, TokenTypeRefresh, refresh.TokenType)

			for _, c := range []*Claims{access, refresh} {
				assert.Equal(t, userID, c.UserID)
				assert.Equal(t, strconv.Itoa(int(userID)), c.Subject)
				assert.Equal(t, role, c.Role)
				assert.NotEmpty(t, c.ID)
			}
			assert.NotEqual(t, access.ID, refresh.ID)
			assert.Greater(t, refresh.RemainingTTL(), access.RemainingTTL())
		})
	}
}

func TestGenerateTokenPair_FreshJTIOnReissue(t *testing.T) {
	first := issue(t, 3, "customer", time.Minute, time.Hour)
	second := issue(t, 3, "customer", time.Minute, time.Hour)

	assert.NotEqual(t, first.AccessToken, second.AccessToken)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
}

func TestValidateToken_Rejects(t *testing.T) {
	pair := issue(t, 5, "vendor", 30*time.Minute, 168*time.Hour)

	// refresh 토큰의 클레임을 access 토큰 서명에 붙여 종류를 바꿔치기
	access := strings.Split(pair.AccessToken, ".")
	refresh := strings.Split(pair.RefreshToken, ".")
	spliced := access[0] + "." + refresh[1] + "." + access[2]

	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 5, TokenType: TokenTypeAccess}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "other secret", token: pair.AccessToken, secret: "another-secret"},
		{name: "spliced claims", token: spliced, secret: testSecret},
		{name: "alg none", token: noneAlg, secret: testSecret},
		{name: "garbage", token: "not.a.jwt", secret: testSecret},
		{name: "empty", token: "", secret: testSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.NotErrorIs(t, err, ErrExpiredToken)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateToken_AccessExpiresBeforeRefresh(t *testing.T) {
	pair := issue(t, 8, "customer", -time.Second, time.Hour)

	claims, err := ValidateToken(pair.AccessToken, testSecret)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)

	refresh, err := ValidateToken(pair.RefreshToken, testSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
}

func TestClaims_RemainingTTL(t *testing.T) {
	pair := issue(t, 9, "admin", 30*time.Minute, time.Hour)
	access, err := ValidateToken(pair.AccessToken, testSecret)
	require.NoError(t, err)

	ttl := access.RemainingTTL()
	assert.LessOrEqual(t, ttl, 30*time.Minute)
	assert.Greater(t, ttl, 29*time.Minute)

	assert.Zero(t, (&Claims{}).RemainingTTL())

	past := &Claims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))}}
	assert.LessOrEqual(t, past.RemainingTTL(), time.Duration(0))
}
