package haptic

import (
	"sync"

	"github.com/sweeney/quick-alert/internal/alert"
)

// FakeMotor records motor switching for test assertions.
type FakeMotor struct {
	mu sync.Mutex

	// Changes contains every value passed to Set.
	Changes []bool

	// Closed tracks if Close was called.
	Closed bool
}

// Set records the value.
func (m *FakeMotor) Set(on bool) error {
	m.mu.Lock()
	m.Changes = append(m.Changes, on)
	m.mu.Unlock()
	return nil
}

// Close marks the motor as closed.
func (m *FakeMotor) Close() error {
	m.mu.Lock()
	m.Closed = true
	m.mu.Unlock()
	return nil
}

// Snapshot returns a copy of Changes.
func (m *FakeMotor) Snapshot() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.Changes...)
}

// Recorder implements alert.Haptics by recording requested vibes.
type Recorder struct {
	Vibes []alert.Vibe
}

// Vibrate records v.
func (r *Recorder) Vibrate(v alert.Vibe) {
	r.Vibes = append(r.Vibes, v)
}
