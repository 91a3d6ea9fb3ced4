// Package alert contains the personal-safety alert controller: the state
// machine, the countdown and the passcode entry buffer.
// Hardware, transport and drawing are reached only through the interfaces
// declared here; time is reached only through a loop.Scheduler.
package alert

import "strings"

// State is the controller's current screen-level state.
//
// The countdown runs while in StatePasscodeEntry or StatePasscodeError;
// there is no separate counting state because entry starts the moment the
// arm button is released.
type State int

const (
	StateIdle State = iota
	StateArming
	StatePasscodeEntry
	StateCancelled
	StatePasscodeError
	StateAlerting
	// StateUnknown is never entered by the machine. It is the result of
	// decoding a state name that is not recognized.
	StateUnknown
)

var stateNames = map[State]string{
	StateIdle:          "IDLE",
	StateArming:        "ARMING",
	StatePasscodeEntry: "PASSCODE_ENTRY",
	StateCancelled:     "CANCELLED",
	StatePasscodeError: "PASSCODE_ERROR",
	StateAlerting:      "ALERTING",
	StateUnknown:       "UNKNOWN",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return stateNames[StateUnknown]
}

// Entering reports whether passcode input is accepted (and the countdown is
// running) in this state.
func (s State) Entering() bool {
	return s == StatePasscodeEntry || s == StatePasscodeError
}

// ParseState decodes a state name such as "passcode_entry". Unrecognized
// names yield StateUnknown.
func ParseState(name string) State {
	want := strings.ToUpper(strings.TrimSpace(name))
	for s, n := range stateNames {
		if n == want {
			return s
		}
	}
	return StateUnknown
}
