package alert

import (
	"log"
	"time"

	"github.com/sweeney/quick-alert/internal/loop"
)

const (
	// CancelledPause is how long the "alert canceled" screen stays up.
	CancelledPause = 1000 * time.Millisecond
	// AlertingPause is how long the calling screen stays up.
	AlertingPause = 5000 * time.Millisecond
)

// Deps are the collaborators of a Machine. All are required except
// Navigator.
type Deps struct {
	Scheduler loop.Scheduler
	Settings  Settings
	Renderer  Renderer
	Haptics   Haptics
	Signaler  Signaler
	Navigator Navigator
}

// Machine is the alert controller. It is not safe for concurrent use: all
// methods and every callback it schedules must run on the scheduler's
// thread.
type Machine struct {
	deps      Deps
	state     State
	entry     Entry
	countdown *Countdown
	reset     loop.Timer
	counts    Counts

	drawn    bool
	lastView View
}

// NewMachine creates a machine in StateIdle. Nothing is drawn until Start.
func NewMachine(deps Deps) *Machine {
	m := &Machine{deps: deps, state: StateIdle}
	m.countdown = NewCountdown(deps.Scheduler, m.onTick)
	return m
}

// Start paints the initial screen.
func (m *Machine) Start() {
	if m.blocked() {
		log.Printf("alert: no passcode configured, showing warning")
	}
	m.refresh()
}

// Stop cancels every pending timer. The machine must not be used after.
func (m *Machine) Stop() {
	m.countdown.Cancel()
	m.cancelReset()
}

// State returns the current state.
func (m *Machine) State() State {
	return m.state
}

// Blocked reports whether the machine is waiting for a passcode to be
// configured.
func (m *Machine) Blocked() bool {
	return m.blocked()
}

// Remaining returns the countdown time left; zero outside entry states.
func (m *Machine) Remaining() time.Duration {
	if !m.state.Entering() {
		return 0
	}
	return m.countdown.Remaining()
}

// Counts returns activity counters since startup.
func (m *Machine) Counts() Counts {
	return m.counts
}

// View returns the view for the current state.
func (m *Machine) View() View {
	v := View{State: m.state, Blocked: m.blocked()}
	if m.state.Entering() {
		v.RemainingSeconds = RemainingSeconds(m.countdown.Remaining())
		v.Entry = m.entry.Symbols()
		v.Entered = m.entry.Len()
	}
	return v
}

// Handle applies a user input.
func (m *Machine) Handle(in Input) {
	if in == InputBack {
		m.back()
		return
	}
	if m.blocked() {
		return
	}

	switch {
	case in == InputLongPressStart && m.state == StateIdle:
		m.transition(StateArming)
		m.vibrate(VibeShort)

	case in == InputLongPressRelease && m.state == StateArming:
		m.entry.Reset()
		m.countdown.Arm(m.deps.Settings.Countdown())
		m.counts.Arms++
		m.transition(StatePasscodeEntry)
		m.vibrate(VibeShort)

	case m.state.Entering():
		if sym, ok := in.Symbol(); ok {
			m.entry.Append(sym)
		}
	}
	m.refresh()
}

// SettingsChanged re-reads the settings after an inbound update. A newly
// configured passcode lifts the warning screen; a new duration applies from
// the next arming.
func (m *Machine) SettingsChanged() {
	m.refresh()
}

func (m *Machine) back() {
	if m.state.Entering() && !m.blocked() {
		return
	}
	if m.deps.Navigator != nil {
		m.deps.Navigator.Back()
	}
}

func (m *Machine) onTick(remaining time.Duration) {
	if !m.state.Entering() {
		// A tick can only get here if the countdown was not cancelled on
		// the way out of the entry states.
		log.Printf("alert: stray tick in %s", m.state)
		m.countdown.Cancel()
		return
	}

	if remaining <= 0 {
		m.fire()
	} else if m.entry.IsComplete() {
		code, _ := m.deps.Settings.Passcode()
		if m.entry.Matches(code) {
			m.unlock()
		} else {
			m.reject()
		}
	}
	m.refresh()
}

func (m *Machine) fire() {
	m.countdown.Cancel()
	m.transition(StateAlerting)
	if err := m.deps.Signaler.SendAlert(); err != nil {
		m.counts.AlertFailures++
		log.Printf("alert: send alert signal: %v", err)
	} else {
		m.counts.AlertsSent++
	}
	m.vibrate(VibeLongShortLong)
	m.scheduleReset(AlertingPause)
}

func (m *Machine) unlock() {
	m.countdown.Cancel()
	m.counts.Cancels++
	m.transition(StateCancelled)
	m.scheduleReset(CancelledPause)
}

func (m *Machine) reject() {
	m.counts.WrongAttempts++
	m.entry.Reset()
	m.transition(StatePasscodeError)
	m.vibrate(VibeDouble)
}

func (m *Machine) scheduleReset(after time.Duration) {
	m.cancelReset()
	m.reset = m.deps.Scheduler.AfterFunc(after, func() {
		m.reset = nil
		m.entry.Reset()
		m.transition(StateIdle)
		m.refresh()
	})
}

func (m *Machine) cancelReset() {
	if m.reset != nil {
		m.reset.Stop()
		m.reset = nil
	}
}

func (m *Machine) transition(to State) {
	if to == m.state {
		return
	}
	log.Printf("alert: %s -> %s", m.state, to)
	m.state = to
}

func (m *Machine) vibrate(v Vibe) {
	if m.deps.Haptics != nil {
		m.deps.Haptics.Vibrate(v)
	}
}

func (m *Machine) blocked() bool {
	_, ok := m.deps.Settings.Passcode()
	return !ok
}

func (m *Machine) refresh() {
	v := m.View()
	if m.drawn && v == m.lastView {
		return
	}
	m.drawn = true
	m.lastView = v
	m.deps.Renderer.Draw(v)
}
