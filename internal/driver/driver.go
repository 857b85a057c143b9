// Package driver paces an engine: it calls Tick on a fixed real-time
// interval and turns user-facing text input into a run configuration.
package driver

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/piwi3910/SquarePack/internal/engine"
)

// DefaultInterval is the frame period of the interactive animation.
const DefaultInterval = 50 * time.Millisecond

// Options controls a Run.
type Options struct {
	// Interval between ticks. Zero runs ticks back to back.
	Interval time.Duration
	// MaxTicks stops the run after this many ticks of this call. Zero means
	// no limit.
	MaxTicks int
	// OnTick, if set, receives every tick result. It runs on the driver
	// goroutine between ticks, so it may read the engine.
	OnTick func(engine.TickResult)
}

// Run ticks e until it leaves the Running state, MaxTicks is reached or ctx
// is cancelled, and returns the last tick result. Cancellation returns the
// context error together with the state reached so far; no tick is ever
// interrupted midway.
func Run(ctx context.Context, e *engine.Engine, opts Options) (engine.TickResult, error) {
	var ticker *time.Ticker
	if opts.Interval > 0 {
		ticker = time.NewTicker(opts.Interval)
		defer ticker.Stop()
	}

	var last engine.TickResult
	for n := 0; opts.MaxTicks <= 0 || n < opts.MaxTicks; n++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		last = e.Tick()
		if opts.OnTick != nil {
			opts.OnTick(last)
		}
		if last.State != engine.Running {
			logrus.WithFields(logrus.Fields{
				"state": last.State,
				"count": len(last.Squares),
				"ticks": last.Tick,
			}).Debug("driver stopped")
			return last, nil
		}

		if ticker != nil {
			select {
			case <-ctx.Done():
				return last, ctx.Err()
			case <-ticker.C:
			}
		}
	}
	return last, nil
}
