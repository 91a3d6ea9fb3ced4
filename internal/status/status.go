// Package status provides a thread-safe status tracker for the quick-alert
// daemon. The event loop writes it; HTTP handlers and system events read it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
)

// NetworkInfo contains network state reported by the host.
type NetworkInfo struct {
	Type       string
	IP         string
	Status     string
	Gateway    string
	WifiStatus string
	SSID       string
}

// Config contains daemon configuration for display.
type Config struct {
	Link        string
	Device      string
	Broker      string
	PollMs      int64
	LongPressMs int64
	HeartbeatMs int64
	HTTPAddr    string
}

// Snapshot is a point-in-time view of daemon state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	State              alert.State
	Blocked            bool
	Remaining          time.Duration
	PasscodeConfigured bool
	Countdown          time.Duration
	Counts             alert.Counts
	StartTime          time.Time
	Now                time.Time
	LinkConnected      bool
	Network            *NetworkInfo
	Config             Config
}

// Uptime returns the duration since the daemon started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable daemon state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker with the given start time and config.
func NewTracker(startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update records the machine's state. The daemon calls it from the event
// loop on every button poll, settings change and heartbeat, not on countdown
// ticks, so Remaining can trail the machine by up to one poll interval.
func (t *Tracker) Update(state alert.State, blocked bool, remaining time.Duration, counts alert.Counts) {
	t.mu.Lock()
	t.snap.State = state
	t.snap.Blocked = blocked
	t.snap.Remaining = remaining
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetSettings records the configured values.
func (t *Tracker) SetSettings(passcodeConfigured bool, countdown time.Duration) {
	t.mu.Lock()
	t.snap.PasscodeConfigured = passcodeConfigured
	t.snap.Countdown = countdown
	t.mu.Unlock()
}

// SetLinkConnected sets the companion link status.
func (t *Tracker) SetLinkConnected(connected bool) {
	t.mu.Lock()
	t.snap.LinkConnected = connected
	t.mu.Unlock()
}

// SetNetwork sets the network info.
func (t *Tracker) SetNetwork(info *NetworkInfo) {
	t.mu.Lock()
	t.snap.Network = info
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the daemon state.
// The Now field is set at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
