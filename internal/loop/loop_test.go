package loop

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func runLoop(t *testing.T) (*Loop, context.CancelFunc) {
	t.Helper()
	l := New(16)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return l, cancel
}

func TestLoopPostRunsInOrder(t *testing.T) {
	l, _ := runLoop(t)

	results := make(chan int, 3)
	for i := 1; i <= 3; i++ {
		i := i
		l.Post(func() { results <- i })
	}
	for want := 1; want <= 3; want++ {
		select {
		case got := <-results:
			if got != want {
				t.Errorf("got %d, want %d", got, want)
			}
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for posted callback")
		}
	}
}

func TestLoopAfterFunc(t *testing.T) {
	l, _ := runLoop(t)

	fired := make(chan struct{}, 1)
	l.AfterFunc(10*time.Millisecond, func() { fired <- struct{}{} })

	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("AfterFunc did not fire")
	}
}

func TestLoopAfterFuncStopped(t *testing.T) {
	l, _ := runLoop(t)

	var fired atomic.Bool
	tm := l.AfterFunc(20*time.Millisecond, func() { fired.Store(true) })
	l.Post(tm.Stop)

	time.Sleep(60 * time.Millisecond)
	if fired.Load() {
		t.Error("stopped timer fired")
	}
}

func TestLoopEveryStops(t *testing.T) {
	l, _ := runLoop(t)

	ticks := make(chan struct{}, 100)
	l.Post(func() {
		var tm Timer
		tm = l.Every(5*time.Millisecond, func() {
			ticks <- struct{}{}
			if len(ticks) >= 3 {
				tm.Stop()
			}
		})
	})

	deadline := time.After(time.Second)
	for len(ticks) < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d ticks", len(ticks))
		case <-time.After(5 * time.Millisecond):
		}
	}
	time.Sleep(30 * time.Millisecond)
	if n := len(ticks); n != 3 {
		t.Errorf("ticks after Stop: got %d, want 3", n)
	}
}

func TestLoopPostAfterRunReturns(t *testing.T) {
	l := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := l.Run(ctx); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if l.Post(func() {}) {
		t.Error("Post succeeded after Run returned")
	}
}
