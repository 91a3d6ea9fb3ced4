package haptic

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
)

// Player plays patterns on a Motor without blocking the caller. Starting a
// pattern interrupts the one playing.
type Player struct {
	motor Motor
	sleep func(ctx context.Context, d time.Duration) bool

	mu     sync.Mutex
	cancel context.CancelFunc
	last   chan struct{} // closed when the newest pattern goroutine exits
	wg     sync.WaitGroup
}

// NewPlayer creates a Player for m.
func NewPlayer(m Motor) *Player {
	return &Player{motor: m, sleep: sleepCtx}
}

// Vibrate implements alert.Haptics.
func (p *Player) Vibrate(v alert.Vibe) {
	pattern := PatternFor(v)
	if pattern == nil {
		log.Printf("haptic: unknown vibe %d", int(v))
		return
	}
	p.Play(pattern)
}

// Play starts pattern in the background and returns at once.
func (p *Player) Play(pattern Pattern) {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	prev := p.last
	done := make(chan struct{})
	p.last = done
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer close(done)
		// The previous pattern must release the motor before this one drives it.
		if prev != nil {
			<-prev
		}
		if ctx.Err() != nil {
			return
		}
		p.run(ctx, pattern)
	}()
}

func (p *Player) run(ctx context.Context, pattern Pattern) {
	defer func() {
		if err := p.motor.Set(false); err != nil {
			log.Printf("haptic: motor off: %v", err)
		}
	}()
	for i, seg := range pattern {
		on := i%2 == 0
		if err := p.motor.Set(on); err != nil {
			log.Printf("haptic: motor set %v: %v", on, err)
			return
		}
		if !p.sleep(ctx, seg) {
			return
		}
	}
}

// Close stops playback and releases the motor.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Unlock()
	p.wg.Wait()
	return p.motor.Close()
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
