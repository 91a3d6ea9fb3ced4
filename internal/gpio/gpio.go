// Package gpio samples the physical buttons with hardware abstraction.
// The real implementation uses the Linux GPIO character device.
// The fake implementation allows testing without hardware.
package gpio

// Buttons is one sample of the button states; true = pressed.
type Buttons struct {
	Up     bool
	Select bool
	Down   bool
	Back   bool
}

// Reader reads button states.
type Reader interface {
	// Read returns the logical (pressed = true) state of every button.
	Read() (Buttons, error)

	// Close releases GPIO resources.
	Close() error
}

// Pins holds line offsets (BCM numbering) for the buttons.
type Pins struct {
	Up     int
	Select int
	Down   int
	Back   int
}

// Default pin assignments (BCM numbering).
const (
	DefaultPinUp     = 5
	DefaultPinSelect = 6
	DefaultPinDown   = 13
	DefaultPinBack   = 19
	DefaultPinMotor  = 12
)

// DefaultChip is the GPIO character device used when none is configured.
const DefaultChip = "gpiochip0"
