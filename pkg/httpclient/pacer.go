package httpclient

import (
	"context"
	"sync"
	"time"
)

// Pacer enforces a fixed pause between successive requests.
type Pacer struct {
	delay time.Duration
	last  time.Time
	mu    sync.Mutex
}

// NewPacer creates a pacer; a non-positive delay disables pacing.
func NewPacer(delay time.Duration) *Pacer {
	return &Pacer{delay: delay}
}

// Wait blocks until the delay has elapsed since the last Mark.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	var wait time.Duration
	if !p.last.IsZero() {
		wait = p.delay - time.Since(p.last)
	}
	p.mu.Unlock()

	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Mark records that a request has just completed.
func (p *Pacer) Mark() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.last = time.Now()
}
