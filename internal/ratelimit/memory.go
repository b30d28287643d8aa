package ratelimit

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/feral-file/og-claim/internal/adapter"
	"github.com/feral-file/og-claim/internal/logger"
)

type windowEntry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a process-local fixed window limiter.
// Counters are not shared between replicas.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*windowEntry
	clock   adapter.Clock

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

// NewMemoryLimiter creates an in-memory limiter. A positive sweepInterval starts a
// background goroutine that evicts expired windows until Stop is called.
func NewMemoryLimiter(clock adapter.Clock, sweepInterval time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		entries: make(map[string]*windowEntry),
		clock:   clock,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if sweepInterval > 0 {
		go l.run(sweepInterval)
	} else {
		close(l.done)
	}

	return l
}

// Allow implements Limiter
func (l *MemoryLimiter) Allow(_ context.Context, key string, window time.Duration, max int) (bool, error) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[key]
	if !ok || !now.Before(entry.resetAt) {
		l.entries[key] = &windowEntry{count: 1, resetAt: now.Add(window)}
		return 1 <= max, nil
	}

	entry.count++
	return entry.count <= max, nil
}

// Sweep removes every expired window and returns how many were evicted
func (l *MemoryLimiter) Sweep() int {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	evicted := 0
	for key, entry := range l.entries {
		if !now.Before(entry.resetAt) {
			delete(l.entries, key)
			evicted++
		}
	}

	return evicted
}

// Len returns the number of tracked keys
func (l *MemoryLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Stop ends the sweep goroutine and waits for it to exit
func (l *MemoryLimiter) Stop() {
	l.stopOnce.Do(func() {
		close(l.stop)
	})
	<-l.done
}

func (l *MemoryLimiter) run(interval time.Duration) {
	defer close(l.done)

	for {
		select {
		case <-l.stop:
			return
		case <-l.clock.After(interval):
			if evicted := l.Sweep(); evicted > 0 {
				logger.Debug("Swept expired rate limit windows", zap.Int("evicted", evicted))
			}
		}
	}
}
