package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoginPolicyIsPerKey(t *testing.T) {
	rl := NewRateLimiter(map[string]Policy{ActionLogin: PerMinute(3)}, PerMinute(60))

	for i := 0; i < 3; i++ {
		ok, _ := rl.Allow("10.0.0.1", ActionLogin)
		assert.True(t, ok)
	}

	ok, wait := rl.Allow("10.0.0.1", ActionLogin)
	assert.False(t, ok)
	assert.True(t, wait > 0 && wait <= 20*time.Second)

	ok, _ = rl.Allow("10.0.0.2", ActionLogin)
	assert.True(t, ok, "another IP has its own bucket")

	ok, _ = rl.Allow("10.0.0.1", ActionRegister)
	assert.True(t, ok, "other actions use the fallback policy")

	tokens, max := rl.GetStatus("10.0.0.1", ActionLogin)
	assert.Equal(t, 0, tokens)
	assert.Equal(t, 3, max)
}

func TestTokenBucketRefills(t *testing.T) {
	tb := NewTokenBucket(1, 1, 20*time.Millisecond)

	ok, _ := tb.Allow()
	assert.True(t, ok)
	ok, _ = tb.Allow()
	assert.False(t, ok)

	time.Sleep(30 * time.Millisecond)
	ok, _ = tb.Allow()
	assert.True(t, ok)
}

func TestCleanupDropsIdleBuckets(t *testing.T) {
	rl := NewRateLimiter(nil, PerMinute(10))
	rl.Allow("a", ActionLogin)

	rl.Cleanup(time.Hour)
	_, max := rl.GetStatus("a", ActionLogin)
	assert.Equal(t, 10, max)

	time.Sleep(5 * time.Millisecond)
	rl.Cleanup(time.Millisecond)
	_, max = rl.GetStatus("a", ActionLogin)
	assert.Equal(t, 0, max)
}
