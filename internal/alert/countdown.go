package alert

import (
	"time"

	"github.com/sweeney/quick-alert/internal/loop"
)

// TickInterval is the countdown resolution.
const TickInterval = 50 * time.Millisecond

// Countdown decrements a remaining duration by TickInterval on every tick
// and reports each tick to its owner. It does not detect expiry itself:
// ticks keep arriving, whatever the sign of the remaining time, until Cancel.
type Countdown struct {
	sched     loop.Scheduler
	onTick    func(remaining time.Duration)
	timer     loop.Timer
	remaining time.Duration
}

// NewCountdown creates an unarmed countdown. onTick runs on the scheduler's
// thread after each decrement.
func NewCountdown(sched loop.Scheduler, onTick func(remaining time.Duration)) *Countdown {
	return &Countdown{sched: sched, onTick: onTick}
}

// Arm starts counting down from d, replacing any countdown in progress.
func (c *Countdown) Arm(d time.Duration) {
	c.Cancel()
	c.remaining = d
	c.timer = c.sched.Every(TickInterval, c.tick)
}

// Cancel stops future ticks. Cancelling an unarmed countdown does nothing.
func (c *Countdown) Cancel() {
	if c.timer == nil {
		return
	}
	c.timer.Stop()
	c.timer = nil
}

// armed reports whether ticks are scheduled.
func (c *Countdown) armed() bool {
	return c.timer != nil
}

// Remaining returns the time left, which may be negative after expiry.
func (c *Countdown) Remaining() time.Duration {
	return c.remaining
}

func (c *Countdown) tick() {
	c.remaining -= TickInterval
	if c.onTick != nil {
		c.onTick(c.remaining)
	}
}
