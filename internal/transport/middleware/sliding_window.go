package middleware

import (
	"sync"
	"time"
)

// SlidingWindow admits at most limit requests per key within any window.
// It keeps the admitted timestamps per key in memory; a process restart
// forgets them.
type SlidingWindow struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	limit  int
	window time.Duration
	stop   chan struct{}
	once   sync.Once
	now    func() time.Time
}

// NewSlidingWindow creates a limiter that prunes idle keys every
// cleanupInterval. Call Stop() on shutdown.
func NewSlidingWindow(limit int, window, cleanupInterval time.Duration) *SlidingWindow {
	sw := &SlidingWindow{
		hits:   make(map[string][]time.Time),
		limit:  max(limit, 1),
		window: window,
		stop:   make(chan struct{}),
		now:    time.Now,
	}
	go sw.cleanup(cleanupInterval)
	return sw
}

// Allow implements Limiter.
func (sw *SlidingWindow) Allow(key string) (bool, time.Duration) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := sw.now()
	recent := prune(sw.hits[key], now.Add(-sw.window))

	if len(recent) >= sw.limit {
		sw.hits[key] = recent
		return false, recent[0].Add(sw.window).Sub(now)
	}
	sw.hits[key] = append(recent, now)
	return true, 0
}

// Len returns the number of tracked keys.
func (sw *SlidingWindow) Len() int {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return len(sw.hits)
}

// Stop terminates the cleanup goroutine. It is safe to call twice.
func (sw *SlidingWindow) Stop() {
	sw.once.Do(func() { close(sw.stop) })
}

func (sw *SlidingWindow) sweep() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	cutoff := sw.now().Add(-sw.window)
	for key, ts := range sw.hits {
		if recent := prune(ts, cutoff); len(recent) == 0 {
			delete(sw.hits, key)
		} else {
			sw.hits[key] = recent
		}
	}
}

func (sw *SlidingWindow) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-sw.stop:
			return
		case <-ticker.C:
			sw.sweep()
		}
	}
}

// prune drops timestamps at or before cutoff; ts is ascending.
func prune(ts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(ts) && !ts[i].After(cutoff) {
		i++
	}
	return ts[i:]
}
