package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter decides whether the client identified by key may make another request
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// Limits are the request caps per sliding window. Zero disables a window.
type Limits struct {
	PerMinute int
	PerHour   int
	PerDay    int
}

// RateLimiter tracks and enforces request rate limits in memory, per client key
type RateLimiter struct {
	limits  Limits
	enabled bool
	now     func() time.Time

	clients map[string]*windows
	mu      sync.Mutex
}

// windows holds the request timestamps of one client
type windows struct {
	minute []time.Time
	hour   []time.Time
	day    []time.Time
}

// NewRateLimiter creates a new rate limiter with the given limits
func NewRateLimiter(limits Limits, enabled bool) *RateLimiter {
	return &RateLimiter{
		limits:  limits,
		enabled: enabled,
		now:     time.Now,
		clients: make(map[string]*windows),
	}
}

// Allow checks if a request is allowed and records it when it is
func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	if !rl.enabled {
		return true, nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients[key]
	if !ok {
		w = &windows{}
		rl.clients[key] = w
	}
	w.cleanup(now)

	// Check limits
	if rl.limits.PerMinute > 0 && len(w.minute) >= rl.limits.PerMinute {
		return false, nil
	}
	if rl.limits.PerHour > 0 && len(w.hour) >= rl.limits.PerHour {
		return false, nil
	}
	if rl.limits.PerDay > 0 && len(w.day) >= rl.limits.PerDay {
		return false, nil
	}

	// Record the request
	w.minute = append(w.minute, now)
	w.hour = append(w.hour, now)
	w.day = append(w.day, now)

	return true, nil
}

// cleanup removes expired entries from the time windows
func (w *windows) cleanup(now time.Time) {
	w.minute = filterTimes(w.minute, now.Add(-time.Minute))
	w.hour = filterTimes(w.hour, now.Add(-time.Hour))
	w.day = filterTimes(w.day, now.Add(-24*time.Hour))
}

// filterTimes keeps only times after the cutoff
func filterTimes(times []time.Time, cutoff time.Time) []time.Time {
	result := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			result = append(result, t)
		}
	}
	return result
}

// Prune drops clients with no requests in the last day
func (rl *RateLimiter) Prune() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	removed := 0
	for key, w := range rl.clients {
		w.cleanup(now)
		if len(w.day) == 0 {
			delete(rl.clients, key)
			removed++
		}
	}
	return removed
}

// GetStats returns current rate limiter statistics for one client
func (rl *RateLimiter) GetStats(key string) Stats {
	if !rl.enabled {
		return Stats{Enabled: false}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	var minute, hour, day int
	if w, ok := rl.clients[key]; ok {
		w.cleanup(rl.now())
		minute, hour, day = len(w.minute), len(w.hour), len(w.day)
	}

	return Stats{
		Enabled:             true,
		RequestsLastMinute:  minute,
		RequestsLastHour:    hour,
		RequestsLastDay:     day,
		LimitPerMinute:      rl.limits.PerMinute,
		LimitPerHour:        rl.limits.PerHour,
		LimitPerDay:         rl.limits.PerDay,
		RemainingThisMinute: max(0, rl.limits.PerMinute-minute),
		RemainingThisHour:   max(0, rl.limits.PerHour-hour),
		RemainingThisDay:    max(0, rl.limits.PerDay-day),
	}
}

// Stats contains rate limiter statistics
type Stats struct {
	Enabled             bool `json:"enabled"`
	RequestsLastMinute  int  `json:"requests_last_minute"`
	RequestsLastHour    int  `json:"requests_last_hour"`
	RequestsLastDay     int  `json:"requests_last_day"`
	LimitPerMinute      int  `json:"limit_per_minute"`
	LimitPerHour        int  `json:"limit_per_hour"`
	LimitPerDay         int  `json:"limit_per_day"`
	RemainingThisMinute int  `json:"remaining_this_minute"`
	RemainingThisHour   int  `json:"remaining_this_hour"`
	RemainingThisDay    int  `json:"remaining_this_day"`
}

// Reset clears all tracked requests (useful for testing)
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.clients = make(map[string]*windows)
}
