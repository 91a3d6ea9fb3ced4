// Package haptic drives the vibration motor.
package haptic

import (
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
)

// Pattern alternates motor-on and motor-off durations, starting with on.
type Pattern []time.Duration

// total returns the playback length of p.
func (p Pattern) total() time.Duration {
	var d time.Duration
	for _, seg := range p {
		d += seg
	}
	return d
}

// Patterns for each vibe the controller requests.
var (
	ShortPulse    = Pattern{150 * time.Millisecond}
	DoublePulse   = Pattern{150 * time.Millisecond, 150 * time.Millisecond, 150 * time.Millisecond}
	LongShortLong = Pattern{
		500 * time.Millisecond, 150 * time.Millisecond,
		150 * time.Millisecond, 150 * time.Millisecond,
		500 * time.Millisecond,
	}
)

// PatternFor maps a vibe to its pattern. Unknown vibes map to nil.
func PatternFor(v alert.Vibe) Pattern {
	switch v {
	case alert.VibeShort:
		return ShortPulse
	case alert.VibeDouble:
		return DoublePulse
	case alert.VibeLongShortLong:
		return LongShortLong
	}
	return nil
}

// Motor switches the vibration motor.
type Motor interface {
	Set(on bool) error
	Close() error
}
