//go:build linux

package haptic

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// RealMotor drives a vibration motor transistor from a GPIO output line.
type RealMotor struct {
	line *gpiocdev.Line
}

// NewRealMotor requests the motor line on the named chip, initially off.
func NewRealMotor(chip string, pin int) (*RealMotor, error) {
	line, err := gpiocdev.RequestLine(chip, pin,
		gpiocdev.AsOutput(0),
		gpiocdev.WithConsumer("quick-alert-haptic"),
	)
	if err != nil {
		return nil, fmt.Errorf("request motor pin %d on %s: %w", pin, chip, err)
	}
	return &RealMotor{line: line}, nil
}

// Set switches the motor.
func (m *RealMotor) Set(on bool) error {
	v := 0
	if on {
		v = 1
	}
	if err := m.line.SetValue(v); err != nil {
		return fmt.Errorf("set motor: %w", err)
	}
	return nil
}

// Close switches the motor off, returns the line to an input with
// pull-down (matching Pi boot defaults) and releases it.
func (m *RealMotor) Close() error {
	var errs []error
	if err := m.line.SetValue(0); err != nil {
		errs = append(errs, fmt.Errorf("motor off: %w", err))
	}
	if err := m.line.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure motor pin: %w", err))
	}
	if err := m.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close motor pin: %w", err))
	}
	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
