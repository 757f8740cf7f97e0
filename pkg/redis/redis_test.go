package redis

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestBlacklistKey(t *testing.T) {
	key := blacklistKey("some.jwt.token")

	assert.True(t, strings.HasPrefix(key, blacklistPrefix))
	assert.NotContains(t, key, "some.jwt.token")
	assert.Equal(t, key, blacklistKey("some.jwt.token"))
	assert.NotEqual(t, key, blacklistKey("other.jwt.token"))
}

func TestTokenBlacklist_RevokeExpiredTokenIsNoop(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	blacklist := NewTokenBlacklist(client)
	assert.NoError(t, blacklist.Revoke(context.Background(), "token", 0))
	assert.NoError(t, blacklist.Revoke(context.Background(), "token", -time.Second))
}

func TestTokenBlacklist_ConnectionError(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	blacklist := NewTokenBlacklist(client)

	err := blacklist.Revoke(context.Background(), "token", time.Minute)
	assert.Error(t, err)

	revoked, err := blacklist.IsRevoked(context.Background(), "token")
	assert.Error(t, err)
	assert.False(t, revoked)
}
