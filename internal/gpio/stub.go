//go:build !linux

package gpio

import "errors"

// ErrUnsupported is returned by every hardware operation off Linux, where
// the GPIO character device does not exist.
var ErrUnsupported = errors.New("gpio: requires the Linux GPIO character device")

// RealReader is a placeholder so the daemon builds on development hosts.
type RealReader struct{}

// NewRealReader always fails off Linux.
func NewRealReader(chip string, pins Pins) (*RealReader, error) {
	return nil, ErrUnsupported
}

func (r *RealReader) Read() (Buttons, error) { return Buttons{}, ErrUnsupported }
func (r *RealReader) Close() error           { return nil }
