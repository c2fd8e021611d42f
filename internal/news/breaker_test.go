package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCircuitBreaker(t *testing.T) {
	start := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(2, time.Minute)

	assert.True(t, cb.CanProceed(start))
	assert.False(t, cb.RecordFailure(start))
	assert.True(t, cb.CanProceed(start))
	assert.True(t, cb.RecordFailure(start), "second failure opens the circuit")
	assert.False(t, cb.CanProceed(start.Add(30*time.Second)))

	// half-open after the timeout
	assert.True(t, cb.CanProceed(start.Add(61*time.Second)))
	cb.RecordSuccess()

	isOpen, failures, total := cb.GetStatus()
	assert.False(t, isOpen)
	assert.Equal(t, 2, failures)
	assert.Equal(t, 3, total)
}

func TestBreakerFetcher_SkipsFailingFeed(t *testing.T) {
	clock := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	next := &mockFetcher{}
	next.On("Fetch", mock.Anything, "https://bad.example.com/rss").Return(nil, errors.New("502"))
	next.On("Fetch", mock.Anything, "https://good.example.com/rss").Return(&Feed{Title: "good"}, nil)

	f := NewBreakerFetcher(next, 2, 10*time.Minute, nil)
	f.now = func() time.Time { return clock }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := f.Fetch(ctx, "https://bad.example.com/rss")
		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrCircuitOpen)
	}

	_, err := f.Fetch(ctx, "https://bad.example.com/rss")
	assert.ErrorIs(t, err, ErrCircuitOpen)
	next.AssertNumberOfCalls(t, "Fetch", 2)

	// other feeds keep their own circuit
	feed, err := f.Fetch(ctx, "https://good.example.com/rss")
	require.NoError(t, err)
	assert.Equal(t, "good", feed.Title)

	clock = clock.Add(11 * time.Minute)
	_, err = f.Fetch(ctx, "https://bad.example.com/rss")
	assert.NotErrorIs(t, err, ErrCircuitOpen, "half-open attempt reaches the feed")
	next.AssertNumberOfCalls(t, "Fetch", 4)
}
