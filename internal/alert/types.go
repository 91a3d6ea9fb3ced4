package alert

import "time"

// Input is a recognized user input event.
type Input int

const (
	InputUp Input = iota + 1
	InputSelect
	InputDown
	InputLongPressStart
	InputLongPressRelease
	InputBack
)

func (in Input) String() string {
	switch in {
	case InputUp:
		return "UP"
	case InputSelect:
		return "SELECT"
	case InputDown:
		return "DOWN"
	case InputLongPressStart:
		return "LONG_PRESS_START"
	case InputLongPressRelease:
		return "LONG_PRESS_RELEASE"
	case InputBack:
		return "BACK"
	}
	return "UNKNOWN"
}

// Symbol returns the passcode symbol entered by a data-entry button.
func (in Input) Symbol() (Symbol, bool) {
	switch in {
	case InputUp:
		return SymbolUp, true
	case InputSelect:
		return SymbolSelect, true
	case InputDown:
		return SymbolDown, true
	}
	return SymbolNone, false
}

// Vibe is a haptic feedback pattern requested by the machine.
type Vibe int

const (
	VibeShort Vibe = iota + 1
	VibeDouble
	VibeLongShortLong
)

func (v Vibe) String() string {
	switch v {
	case VibeShort:
		return "SHORT"
	case VibeDouble:
		return "DOUBLE"
	case VibeLongShortLong:
		return "LONG_SHORT_LONG"
	}
	return "UNKNOWN"
}

// Settings is the read side of the settings store.
type Settings interface {
	// Passcode returns the configured passcode; ok is false when none has
	// been configured yet.
	Passcode() (code string, ok bool)
	// Countdown returns the configured countdown duration.
	Countdown() time.Duration
}

// Renderer paints the screen for a view.
type Renderer interface {
	Draw(v View)
}

// Haptics drives the vibration motor. Playback must not block.
type Haptics interface {
	Vibrate(v Vibe)
}

// Signaler delivers the alert to the companion. SendAlert must not block;
// a returned error is logged and otherwise ignored.
type Signaler interface {
	SendAlert() error
}

// Navigator handles back navigation outside the entry states.
type Navigator interface {
	Back()
}

// Counts tracks activity since startup.
type Counts struct {
	Arms          int
	AlertsSent    int
	AlertFailures int
	Cancels       int
	WrongAttempts int
}
