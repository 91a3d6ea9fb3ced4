// Package input turns raw button samples into user inputs.
// It has no hardware dependencies; time is passed in with each sample.
package input

import (
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
	"github.com/sweeney/quick-alert/internal/gpio"
)

// DefaultLongPress is the hold time after which select arms instead of
// clicking.
const DefaultLongPress = 500 * time.Millisecond

// Recognizer detects clicks and the select long press.
//
// Up, down and back click on release. Select clicks on release if held for
// less than the long-press time; otherwise it reports InputLongPressStart as
// soon as the hold time is reached and InputLongPressRelease on release.
type Recognizer struct {
	longPress time.Duration

	prev        gpio.Buttons
	selectSince time.Time
	selectLong  bool
}

// NewRecognizer creates a recognizer with the given long-press threshold.
func NewRecognizer(longPress time.Duration) *Recognizer {
	return &Recognizer{longPress: longPress}
}

// Process takes a new sample and returns the inputs it completes, in
// up, select, down, back order.
func (r *Recognizer) Process(b gpio.Buttons, now time.Time) []alert.Input {
	var out []alert.Input

	if r.prev.Up && !b.Up {
		out = append(out, alert.InputUp)
	}

	switch {
	case b.Select && !r.prev.Select:
		r.selectSince = now
		r.selectLong = false
	case b.Select && r.prev.Select:
		if !r.selectLong && now.Sub(r.selectSince) >= r.longPress {
			r.selectLong = true
			out = append(out, alert.InputLongPressStart)
		}
	case !b.Select && r.prev.Select:
		switch {
		case r.selectLong:
			out = append(out, alert.InputLongPressRelease)
		case now.Sub(r.selectSince) >= r.longPress:
			// Held past the threshold but released before the next sample.
			out = append(out, alert.InputLongPressStart, alert.InputLongPressRelease)
		default:
			out = append(out, alert.InputSelect)
		}
		r.selectLong = false
	}

	if r.prev.Down && !b.Down {
		out = append(out, alert.InputDown)
	}
	if r.prev.Back && !b.Back {
		out = append(out, alert.InputBack)
	}

	r.prev = b
	return out
}

// holding reports whether select is currently past the long-press threshold.
func (r *Recognizer) holding() bool {
	return r.selectLong
}
