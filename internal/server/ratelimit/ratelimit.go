// Package ratelimit throttles API callers with per-client token buckets keyed
// by the route tier a request falls into.
package ratelimit

import (
	"sync"
	"time"
)

// defaultIdleTTL is how long an untouched bucket survives cleanup.
const defaultIdleTTL = time.Hour

// TokenBucket holds up to capacity tokens and refills at refillRate per second.
type TokenBucket struct {
	mu         sync.Mutex
	capacity   float64
	refillRate float64
	tokens     float64
	lastRefill time.Time
	lastSeen   time.Time
}

func newTokenBucket(capacity int, refillRate float64) *TokenBucket {
	return newTokenBucketAt(capacity, refillRate, time.Now())
}

func newTokenBucketAt(capacity int, refillRate float64, now time.Time) *TokenBucket {
	return &TokenBucket{
		capacity:   float64(capacity),
		refillRate: refillRate,
		tokens:     float64(capacity),
		lastRefill: now,
		lastSeen:   now,
	}
}

// refill adds the tokens earned since the last refill. Callers hold tb.mu.
func (tb *TokenBucket) refill(now time.Time) {
	if elapsed := now.Sub(tb.lastRefill); elapsed > 0 {
		tb.tokens = min(tb.capacity, tb.tokens+elapsed.Seconds()*tb.refillRate)
	}
	tb.lastRefill = now
}

// take consumes one token if available and reports the bucket state afterwards.
func (tb *TokenBucket) take(now time.Time) (ok bool, remaining int, full time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill(now)
	tb.lastSeen = now
	if tb.tokens >= 1 {
		tb.tokens--
		ok = true
	}
	return ok, int(tb.tokens), tb.fullAt(now)
}

// fullAt is when the bucket will be back at capacity. Callers hold tb.mu.
func (tb *TokenBucket) fullAt(now time.Time) time.Time {
	missing := tb.capacity - tb.tokens
	if missing <= 0 || tb.refillRate <= 0 {
		return now
	}
	return now.Add(time.Duration(missing / tb.refillRate * float64(time.Second)))
}

func (tb *TokenBucket) allow() bool {
	ok, _, _ := tb.take(time.Now())
	return ok
}

// getStatus reports remaining tokens and the refill horizon without consuming.
func (tb *TokenBucket) getStatus() (remaining int, resetTime time.Time) {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	tb.refill(now)
	return int(tb.tokens), tb.fullAt(now)
}

func (tb *TokenBucket) idleSince(cutoff time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.lastSeen.Before(cutoff)
}

// Info contains information about rate limit status.
type Info struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetTime  time.Time
	RetryAfter time.Duration
}

// Config holds rate limiting configuration.
type Config struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	CleanupInterval time.Duration
	Whitelist       map[string]bool
	Blacklist       map[string]bool
	EndpointConfigs []EndpointConfig
}

func defaultConfig() *Config {
	return &Config{
		Enabled:         true,
		DefaultLimit:    1000,
		DefaultWindow:   time.Minute,
		CleanupInterval: 5 * time.Minute,
		Whitelist:       make(map[string]bool),
		Blacklist:       make(map[string]bool),
	}
}

// tier is the resolved budget for one request: the route whose bucket it
// draws from and that route's limits.
type tier struct {
	route  string
	method string
	limit  int
	window time.Duration
	burst  int
}

func (t tier) unlimited() bool {
	return t.limit <= 0
}

// bucketKey identifies the bucket of clientID within t. Requests under a
// prefix route such as "/sessions/" share the route's key, so the budget
// covers every session a client touches.
func (t tier) bucketKey(clientID string) string {
	return clientID + ":" + t.route + ":" + t.method
}

func (t tier) newBucket(now time.Time) *TokenBucket {
	capacity := t.burst
	if capacity <= 0 {
		capacity = t.limit
	}
	return newTokenBucketAt(capacity, float64(t.limit)/t.window.Seconds(), now)
}

// Limiter tracks one token bucket per client and route tier.
type Limiter struct {
	config  *Config
	now     func() time.Time
	idleTTL time.Duration

	mu      sync.Mutex
	buckets map[string]*TokenBucket

	stop     chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter. A nil config allows 1000 requests a minute per
// client and route. Idle buckets are swept every CleanupInterval.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = defaultConfig()
	}
	l := &Limiter{
		config:  config,
		now:     time.Now,
		idleTTL: defaultIdleTTL,
		buckets: make(map[string]*TokenBucket),
	}
	if config.Enabled && config.CleanupInterval > 0 {
		l.stop = make(chan struct{})
		go l.sweepEvery(config.CleanupInterval)
	}
	return l
}

// resolve picks the tier for a request, falling back to the global default.
func (l *Limiter) resolve(path, method string) tier {
	match := MatchEndpoint(path, method, l.config.EndpointConfigs)
	if match == nil {
		return tier{
			route:  path,
			method: method,
			limit:  l.config.DefaultLimit,
			window: l.config.DefaultWindow,
			burst:  l.config.DefaultLimit,
		}
	}
	route := match.Path
	if route == "" {
		route = path
	}
	return tier{route: route, method: method, limit: match.Limit, window: match.Window, burst: match.Burst}
}

// Allow spends one token from clientID's bucket for the tier of endpoint and
// method. Whitelisted clients and unlimited tiers pass with a zero Limit, as
// does everything when limiting is disabled. Blacklisted clients never pass.
func (l *Limiter) Allow(clientID string, endpoint string, method string) (bool, Info) {
	switch {
	case !l.config.Enabled, l.config.Whitelist[clientID]:
		return true, Info{Allowed: true}
	case l.config.Blacklist[clientID]:
		return false, Info{}
	}

	t := l.resolve(endpoint, method)
	if t.unlimited() {
		return true, Info{Allowed: true}
	}

	now := l.now()
	ok, remaining, full := l.bucketFor(t, clientID, now).take(now)
	info := Info{
		Allowed:   ok,
		Limit:     t.limit,
		Remaining: remaining,
		ResetTime: full,
	}
	if !ok {
		info.RetryAfter = max(full.Sub(now), 0)
	}
	return ok, info
}

func (l *Limiter) bucketFor(t tier, clientID string, now time.Time) *TokenBucket {
	key := t.bucketKey(clientID)

	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[key]
	if !ok {
		b = t.newBucket(now)
		l.buckets[key] = b
	}
	return b
}

func (l *Limiter) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.sweep()
		case <-l.stop:
			return
		}
	}
}

// sweep drops buckets untouched for longer than the idle TTL and returns how
// many were removed.
func (l *Limiter) sweep() int {
	cutoff := l.now().Add(-l.idleTTL)

	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, b := range l.buckets {
		if b.idleSince(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

func (l *Limiter) bucketCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// Stop ends the sweep goroutine. It is safe to call more than once.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() {
		if l.stop != nil {
			close(l.stop)
		}
	})
}
