package alert

import "time"

// View is everything the renderer needs to paint one frame. It is
// comparable, so the machine redraws only when it changes.
type View struct {
	State State
	// Blocked is set while no passcode is configured; the renderer shows
	// the warning screen regardless of State.
	Blocked bool
	// RemainingSeconds is the countdown shown in entry states, zero
	// otherwise.
	RemainingSeconds int
	Entry            [PasscodeLength]Symbol
	Entered          int
}

// RemainingSeconds converts a remaining duration into the displayed whole
// seconds. The final sub-second window shows 1, not 0.
func RemainingSeconds(remaining time.Duration) int {
	if remaining < 0 {
		return 0
	}
	return int(remaining/time.Second) + 1
}
