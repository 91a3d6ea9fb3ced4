// Package loop provides the single-threaded callback queue that drives the
// daemon. Every callback runs on the goroutine that called Run, so state owned
// by those callbacks needs no locking.
package loop

import (
	"context"
	"sync/atomic"
	"time"
)

// Timer is a scheduled callback. Stop is idempotent; once Stop returns, the
// callback will not run again even if a firing was already queued.
type Timer interface {
	Stop()
}

// Scheduler schedules callbacks onto a single logical thread.
type Scheduler interface {
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Timer
	// Every runs fn every d until the returned Timer is stopped.
	Every(d time.Duration, fn func()) Timer
}

// Loop is the real-time Scheduler. Work from other goroutines (link inbox,
// timers) enters through Post and is executed in order by Run.
type Loop struct {
	queue chan func()
	done  chan struct{}
}

// New creates a Loop whose queue holds up to depth pending callbacks.
func New(depth int) *Loop {
	if depth < 1 {
		depth = 1
	}
	return &Loop{
		queue: make(chan func(), depth),
		done:  make(chan struct{}),
	}
}

// Post queues fn for execution on the loop goroutine. It blocks while the
// queue is full and returns false once Run has returned.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.queue <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes queued callbacks until ctx is cancelled. It must be called
// at most once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-l.queue:
			fn()
		}
	}
}

type loopTimer struct {
	stopped atomic.Bool
	timer   *time.Timer
	quit    chan struct{}
}

func (t *loopTimer) Stop() {
	if !t.stopped.CompareAndSwap(false, true) {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.quit != nil {
		close(t.quit)
	}
}

// AfterFunc implements Scheduler.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if !t.stopped.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

// Every implements Scheduler. Ticks that arrive while the loop is busy are
// coalesced by the underlying time.Ticker.
func (l *Loop) Every(d time.Duration, fn func()) Timer {
	t := &loopTimer{quit: make(chan struct{})}
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				ok := l.Post(func() {
					if t.stopped.Load() {
						return
					}
					fn()
				})
				if !ok {
					return
				}
			case <-t.quit:
				return
			case <-l.done:
				return
			}
		}
	}()
	return t
}
