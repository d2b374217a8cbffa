package scraper

import (
	"context"
	"math/rand"
	"time"
)

// sleepJitter blocks for a uniform random duration in [min, max], returning
// early if ctx is cancelled.
func sleepJitter(ctx context.Context, min, max time.Duration) {
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
