// Package clock indirects the parts of package time the firmware waits on, so
// tests can control apparent time.
package clock

import (
	"context"
	"time"
)

// Clock abstracts time.Now and time.After.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

type wallClock struct{}

func (wallClock) Now() time.Time                         { return time.Now() }
func (wallClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// Real is the process wall clock.
var Real Clock = wallClock{}

// Sleep blocks for d on c, returning early with ctx.Err() if ctx ends first.
// A non-positive d only checks ctx.
func Sleep(ctx context.Context, c Clock, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	if c == nil {
		c = Real
	}
	select {
	case <-c.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
