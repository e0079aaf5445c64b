package middleware

import (
	"sync"
	"time"
)

// TokenBucket implements a per-key token bucket refilled continuously at
// perMinute tokens per minute.
type TokenBucket struct {
	buckets    sync.Map // map[string]*bucket
	maxTokens  float64
	refillRate float64 // tokens per second
	idleTTL    time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
	now        func() time.Time
}

type bucket struct {
	tokens     float64
	lastRefill time.Time
	mu         sync.Mutex
}

// NewTokenBucket creates a limiter with background cleanup of idle keys.
// Call Stop() on shutdown.
func NewTokenBucket(perMinute int, cleanupInterval time.Duration) *TokenBucket {
	perMinute = max(perMinute, 1)
	tb := &TokenBucket{
		maxTokens:  float64(perMinute),
		refillRate: float64(perMinute) / 60.0,
		idleTTL:    2 * time.Minute,
		stop:       make(chan struct{}),
		now:        time.Now,
	}
	go tb.cleanup(cleanupInterval)
	return tb
}

// Stop terminates the background cleanup goroutine. It is safe to call twice.
func (tb *TokenBucket) Stop() {
	tb.stopOnce.Do(func() { close(tb.stop) })
}

// Allow implements Limiter.
func (tb *TokenBucket) Allow(key string) (bool, time.Duration) {
	val, _ := tb.buckets.LoadOrStore(key, &bucket{tokens: tb.maxTokens, lastRefill: tb.now()})
	b := val.(*bucket)

	b.mu.Lock()
	defer b.mu.Unlock()

	now := tb.now()
	b.tokens = min(tb.maxTokens, b.tokens+now.Sub(b.lastRefill).Seconds()*tb.refillRate)
	b.lastRefill = now

	if b.tokens < 1 {
		wait := (1 - b.tokens) / tb.refillRate
		return false, time.Duration(wait * float64(time.Second))
	}
	b.tokens--
	return true, 0
}

func (tb *TokenBucket) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-tb.stop:
			return
		case <-ticker.C:
			now := tb.now()
			tb.buckets.Range(func(key, value any) bool {
				b := value.(*bucket)
				b.mu.Lock()
				idle := now.Sub(b.lastRefill)
				b.mu.Unlock()
				if idle > tb.idleTTL {
					tb.buckets.Delete(key)
				}
				return true
			})
		}
	}
}
