package cache

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisCache_WrapKey(t *testing.T) {
	c := newRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "tradebot")
	defer c.Close()
	assert.Equal(t, "tradebot:history:AAPL", c.wrapKey("history:AAPL"))

	bare := newRedisCacheWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	defer bare.Close()
	assert.Equal(t, "k", bare.wrapKey("k"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(
		WithRedisAddr("127.0.0.1:1"),
		WithRedisDialTimeout(200*time.Millisecond),
	)
	assert.Error(t, err)
}
