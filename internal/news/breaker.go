package news

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"burim-estate/internal/logger"
)

// ErrCircuitOpen is returned for a feed that is skipped after repeated failures
var ErrCircuitOpen = errors.New("circuit breaker open")

// CircuitBreaker stops calling a feed after consecutive failures
type CircuitBreaker struct {
	failureThreshold int
	resetTimeout     time.Duration

	consecutiveFailures int
	totalRequests       int
	failures            int
	isOpen              bool
	lastFailureTime     time.Time

	mutex sync.Mutex
}

// NewCircuitBreaker creates a new circuit breaker
func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	if failureThreshold <= 0 {
		failureThreshold = 3
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
	}
}

// RecordSuccess records a successful fetch and closes the circuit
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.totalRequests++
	cb.consecutiveFailures = 0
	cb.isOpen = false
}

// RecordFailure records a failed fetch; it reports whether the circuit just opened
func (cb *CircuitBreaker) RecordFailure(now time.Time) bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	cb.failures++
	cb.totalRequests++
	cb.consecutiveFailures++
	cb.lastFailureTime = now

	if !cb.isOpen && cb.consecutiveFailures >= cb.failureThreshold {
		cb.isOpen = true
		return true
	}
	return false
}

// CanProceed checks if a fetch is allowed. After the reset timeout one
// attempt is let through (half-open).
func (cb *CircuitBreaker) CanProceed(now time.Time) bool {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()

	if !cb.isOpen {
		return true
	}
	return now.Sub(cb.lastFailureTime) > cb.resetTimeout
}

// GetStatus returns current circuit breaker status
func (cb *CircuitBreaker) GetStatus() (isOpen bool, failures int, total int) {
	cb.mutex.Lock()
	defer cb.mutex.Unlock()
	return cb.isOpen, cb.failures, cb.totalRequests
}

// BreakerFetcher wraps a FeedFetcher with one circuit breaker per feed URL
type BreakerFetcher struct {
	next             FeedFetcher
	failureThreshold int
	resetTimeout     time.Duration
	log              *logger.Logger
	now              func() time.Time

	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
}

// NewBreakerFetcher creates a fetcher that skips a feed for resetTimeout
// once it has failed failureThreshold times in a row.
func NewBreakerFetcher(next FeedFetcher, failureThreshold int, resetTimeout time.Duration, log *logger.Logger) *BreakerFetcher {
	if log == nil {
		log = logger.Nop()
	}
	return &BreakerFetcher{
		next:             next,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		log:              log,
		now:              time.Now,
		breakers:         make(map[string]*CircuitBreaker),
	}
}

func (f *BreakerFetcher) breaker(url string) *CircuitBreaker {
	f.mu.Lock()
	defer f.mu.Unlock()

	cb, ok := f.breakers[url]
	if !ok {
		cb = NewCircuitBreaker(f.failureThreshold, f.resetTimeout)
		f.breakers[url] = cb
	}
	return cb
}

// Fetch fetches url unless its circuit is open
func (f *BreakerFetcher) Fetch(ctx context.Context, url string) (*Feed, error) {
	cb := f.breaker(url)
	if !cb.CanProceed(f.now()) {
		_, failures, total := cb.GetStatus()
		return nil, fmt.Errorf("%w for %s (%d/%d failures)", ErrCircuitOpen, url, failures, total)
	}

	feed, err := f.next.Fetch(ctx, url)
	if err != nil {
		if cb.RecordFailure(f.now()) {
			f.log.Warn("[News] Circuit breaker open for %s, skipping it for %v", url, f.resetTimeout)
		}
		return nil, err
	}

	cb.RecordSuccess()
	return feed, nil
}
