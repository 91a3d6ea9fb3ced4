//go:build !linux

package haptic

import "github.com/sweeney/quick-alert/internal/gpio"

// RealMotor is a placeholder so the daemon builds on development hosts.
type RealMotor struct{}

// NewRealMotor always fails off Linux.
func NewRealMotor(chip string, pin int) (*RealMotor, error) {
	return nil, gpio.ErrUnsupported
}

func (m *RealMotor) Set(on bool) error { return gpio.ErrUnsupported }
func (m *RealMotor) Close() error      { return nil }
