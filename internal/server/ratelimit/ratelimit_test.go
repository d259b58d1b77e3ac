package ratelimit

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(configs []EndpointConfig) *Limiter {
	return NewLimiter(&Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
		EndpointConfigs: configs,
	})
}

func TestBucket_BurstThenDeny(t *testing.T) {
	now := time.Now()
	b := &bucket{capacity: 5, perSecond: 1, tokens: 5, updated: now}

	for i := 0; i < 5; i++ {
		assert.True(t, b.take(now), "request %d within burst", i+1)
	}
	assert.False(t, b.take(now), "burst exhausted")
}

func TestBucket_Refill(t *testing.T) {
	now := time.Now()
	b := &bucket{capacity: 5, perSecond: 10, tokens: 0, updated: now}

	// 200ms at 10 tokens/s yields 2 tokens
	later := now.Add(200 * time.Millisecond)
	assert.True(t, b.take(later))
	assert.True(t, b.take(later))
	assert.False(t, b.take(later))
}

func TestBucket_RefillCapped(t *testing.T) {
	now := time.Now()
	b := &bucket{capacity: 5, perSecond: 100, tokens: 5, updated: now}

	b.refill(now.Add(time.Minute))
	assert.Equal(t, 5.0, b.tokens)
}

func TestBucket_ResetAt(t *testing.T) {
	now := time.Now()
	b := &bucket{capacity: 4, perSecond: 2, tokens: 0, updated: now}

	// Empty bucket at 2 tokens/s refills in 2s
	assert.WithinDuration(t, now.Add(2*time.Second), b.resetAt(now), 50*time.Millisecond)

	b.tokens = 4
	assert.Equal(t, now, b.resetAt(now))
}

func TestLimiter_EndpointTier(t *testing.T) {
	l := newTestLimiter([]EndpointConfig{
		{Path: "/projects/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 2},
	})
	defer l.Stop()

	allowed, info := l.Allow("203.0.113.9", "/projects/abc/qa", "POST")
	assert.True(t, allowed)
	assert.Equal(t, 60, info.Limit)
	assert.Equal(t, 1, info.Remaining)

	allowed, _ = l.Allow("203.0.113.9", "/projects/abc/qa", "POST")
	assert.True(t, allowed)

	allowed, info = l.Allow("203.0.113.9", "/projects/abc/qa", "POST")
	assert.False(t, allowed, "burst of 2 exhausted")
	assert.Greater(t, info.RetryAfter, time.Duration(0))
}

func TestLimiter_ExactMatchBeatsPrefix(t *testing.T) {
	configs := []EndpointConfig{
		{Path: "/projects/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 5},
		{Path: "/projects", Method: "POST", Limit: 100, Window: time.Minute, Burst: 10},
	}

	ec := MatchEndpoint("/projects", "POST", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 100, ec.Limit, "project creation gets the write tier")

	ec = MatchEndpoint("/projects/abc/hooks", "POST", configs)
	require.NotNil(t, ec)
	assert.Equal(t, 60, ec.Limit, "generation gets the strict tier")
}

func TestLimiter_HealthUnlimited(t *testing.T) {
	l := newTestLimiter(DefaultEndpointConfigs())
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("203.0.113.9", "/health", "GET")
		require.True(t, allowed)
	}
}

func TestLimiter_ClientsAreIndependent(t *testing.T) {
	l := newTestLimiter([]EndpointConfig{
		{Path: "/auth/login", Method: "POST", Limit: 30, Window: time.Minute, Burst: 1},
	})
	defer l.Stop()

	allowed, _ := l.Allow("client-a", "/auth/login", "POST")
	assert.True(t, allowed)
	allowed, _ = l.Allow("client-a", "/auth/login", "POST")
	assert.False(t, allowed)

	allowed, _ = l.Allow("client-b", "/auth/login", "POST")
	assert.True(t, allowed, "other clients keep their own bucket")
}

func TestLimiter_Whitelist(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:   true,
		Whitelist: map[string]bool{"10.0.0.1": true},
		Blacklist: make(map[string]bool),
		EndpointConfigs: []EndpointConfig{
			{Path: "/auth/login", Method: "POST", Limit: 1, Window: time.Hour, Burst: 1},
		},
	})
	defer l.Stop()

	for i := 0; i < 10; i++ {
		allowed, _ := l.Allow("10.0.0.1", "/auth/login", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_Blacklist(t *testing.T) {
	l := NewLimiter(&Config{
		Enabled:   true,
		Whitelist: make(map[string]bool),
		Blacklist: map[string]bool{"198.51.100.7": true},
	})
	defer l.Stop()

	allowed, info := l.Allow("198.51.100.7", "/projects", "GET")
	assert.False(t, allowed)
	assert.False(t, info.Allowed)
}

func TestLimiter_Disabled(t *testing.T) {
	l := NewLimiter(&Config{Enabled: false})
	defer l.Stop()

	for i := 0; i < 100; i++ {
		allowed, _ := l.Allow("anyone", "/projects", "POST")
		require.True(t, allowed)
	}
}

func TestLimiter_ConcurrentAccess(t *testing.T) {
	l := newTestLimiter([]EndpointConfig{
		{Path: "/projects/", Method: "POST", Limit: 1000, Window: time.Minute, Burst: 1000},
	})
	defer l.Stop()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			client := fmt.Sprintf("client-%d", n%3)
			for j := 0; j < 50; j++ {
				l.Allow(client, "/projects/abc/scripts", "POST")
			}
		}(i)
	}
	wg.Wait()
}

func TestLoadConfig_Disabled(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := LoadConfig()
	assert.False(t, cfg.Enabled)
}

func TestLoadConfig_Lists(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_WHITELIST", "10.0.0.1, 10.0.0.2")
	t.Setenv("RATE_LIMIT_BLACKLIST", "198.51.100.7")

	cfg := LoadConfig()
	assert.True(t, cfg.Whitelist["10.0.0.1"])
	assert.True(t, cfg.Whitelist["10.0.0.2"])
	assert.True(t, cfg.Blacklist["198.51.100.7"])
	assert.NotEmpty(t, cfg.EndpointConfigs)
}
