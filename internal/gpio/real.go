//go:build linux

package gpio

import (
	"fmt"
	"time"

	"github.com/warthog618/go-gpiocdev"
)

// debouncePeriod filters contact bounce in the kernel before samples reach
// the recognizer.
const debouncePeriod = 10 * time.Millisecond

// RealReader reads buttons from actual hardware using the Linux GPIO
// character device. Buttons short the line to ground, so lines are
// requested active-low with pull-up.
type RealReader struct {
	lines  *gpiocdev.Lines
	values []int
}

// NewRealReader requests the button lines on the named chip.
func NewRealReader(chip string, pins Pins) (*RealReader, error) {
	offsets := []int{pins.Up, pins.Select, pins.Down, pins.Back}
	lines, err := gpiocdev.RequestLines(chip, offsets,
		gpiocdev.AsInput,
		gpiocdev.AsActiveLow,
		gpiocdev.WithPullUp,
		gpiocdev.WithDebounce(debouncePeriod),
		gpiocdev.WithConsumer("quick-alert"),
	)
	if err != nil {
		return nil, fmt.Errorf("request button pins %v on %s: %w", offsets, chip, err)
	}

	return &RealReader{
		lines:  lines,
		values: make([]int, len(offsets)),
	}, nil
}

// Read returns the logical button states. Active-low is handled by the
// kernel: a value of 1 means pressed.
func (r *RealReader) Read() (Buttons, error) {
	if err := r.lines.Values(r.values); err != nil {
		return Buttons{}, fmt.Errorf("read buttons: %w", err)
	}
	return Buttons{
		Up:     r.values[0] == 1,
		Select: r.values[1] == 1,
		Down:   r.values[2] == 1,
		Back:   r.values[3] == 1,
	}, nil
}

// Close releases GPIO resources.
// Reconfigures the lines to plain inputs with pull-down (matching Pi boot
// defaults) before closing.
func (r *RealReader) Close() error {
	var errs []error

	if r.lines != nil {
		if err := r.lines.Reconfigure(gpiocdev.AsInput, gpiocdev.WithPullDown); err != nil {
			errs = append(errs, fmt.Errorf("reconfigure button pins: %w", err))
		}
		if err := r.lines.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close button pins: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
