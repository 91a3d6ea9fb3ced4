// Package display turns machine views into screens.
package display

import "github.com/sweeney/quick-alert/internal/alert"

// Screen identifies one painted layout.
type Screen int

const (
	ScreenWarning Screen = iota
	ScreenTitle
	ScreenArming
	ScreenPasscode
	ScreenPasscodeError
	ScreenCancelled
	ScreenCalling
	ScreenBadRequest
)

var screenNames = [...]string{
	ScreenWarning:       "warning",
	ScreenTitle:         "title",
	ScreenArming:        "arming",
	ScreenPasscode:      "passcode",
	ScreenPasscodeError: "passcode_error",
	ScreenCancelled:     "cancelled",
	ScreenCalling:       "calling",
	ScreenBadRequest:    "bad_request",
}

func (s Screen) String() string {
	if s < 0 || int(s) >= len(screenNames) {
		return "unknown"
	}
	return screenNames[s]
}

// ScreenFor selects the screen for v. The warning screen wins over any
// state while no passcode is configured.
func ScreenFor(v alert.View) Screen {
	if v.Blocked {
		return ScreenWarning
	}
	switch v.State {
	case alert.StateIdle:
		return ScreenTitle
	case alert.StateArming:
		return ScreenArming
	case alert.StatePasscodeEntry:
		return ScreenPasscode
	case alert.StatePasscodeError:
		return ScreenPasscodeError
	case alert.StateCancelled:
		return ScreenCancelled
	case alert.StateAlerting:
		return ScreenCalling
	}
	return ScreenBadRequest
}

// Text returns the message lines shown on s.
func Text(s Screen) []string {
	switch s {
	case ScreenWarning:
		return []string{"Please create a passcode", "prior to using app"}
	case ScreenTitle:
		return []string{"Hold button until safe"}
	case ScreenArming:
		return []string{"Release when safe"}
	case ScreenPasscode:
		return []string{"Enter passcode:"}
	case ScreenPasscodeError:
		return []string{"Invalid passcode.", "Please try again:"}
	case ScreenCancelled:
		return []string{"Alert canceled"}
	case ScreenCalling:
		return []string{"Location data sent", "Calling for help"}
	}
	return []string{"400 Error:", "Bad Request"}
}

// showsEntry reports whether s carries the entry row and timer.
func showsEntry(s Screen) bool {
	return s == ScreenPasscode || s == ScreenPasscodeError
}
