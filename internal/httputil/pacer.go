// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"
)

// Pacer spaces outbound requests by a fresh uniform random interval drawn
// from [min, max]. It is shared by all workers of a batch, so the spacing
// holds across the whole process, not per goroutine.
type Pacer struct {
	mu   sync.Mutex
	min  time.Duration
	max  time.Duration
	next time.Time
}

// NewPacer returns a pacer drawing intervals from [min, max]. A max at or
// below min degenerates to a fixed min interval; a non-positive min means
// no delay at all.
func NewPacer(min, max time.Duration) *Pacer {
	if min < 0 {
		min = 0
	}
	if max < min {
		max = min
	}
	return &Pacer{min: min, max: max}
}

// Wait blocks until the politeness interval since the previous Wait has
// elapsed, or returns ctx.Err() if the context is cancelled first. The
// first call never blocks. Callers are serialized, so concurrent workers
// still produce spaced requests.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if p.next.After(now) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.next.Sub(now)):
		}
	}

	p.next = time.Now().Add(p.interval())
	return nil
}

func (p *Pacer) interval() time.Duration {
	if p.min <= 0 && p.max <= 0 {
		return 0
	}
	if p.max <= p.min {
		return p.min
	}
	return p.min + rand.N(p.max-p.min)
}
