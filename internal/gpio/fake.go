package gpio

import "errors"

// FakeReader replays a scripted sequence of button samples. Once the
// script runs out the last sample repeats, so a script ending with all
// buttons released leaves the device idle.
type FakeReader struct {
	Samples []Buttons

	// ReadError, if set, is returned by Read instead of a sample. It does
	// not consume a sample.
	ReadError error

	// Reads counts successful reads.
	Reads int

	Closed bool

	index int
}

// NewFakeReader creates a FakeReader over samples.
func NewFakeReader(samples []Buttons) *FakeReader {
	return &FakeReader{Samples: samples}
}

// Read returns the next scripted sample.
func (f *FakeReader) Read() (Buttons, error) {
	if f.ReadError != nil {
		return Buttons{}, f.ReadError
	}
	if len(f.Samples) == 0 {
		return Buttons{}, errors.New("no samples configured")
	}

	sample := f.Samples[f.index]
	if f.index < len(f.Samples)-1 {
		f.index++
	}
	f.Reads++
	return sample, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Hold returns n copies of b: a button held for n samples.
func Hold(b Buttons, n int) []Buttons {
	out := make([]Buttons, n)
	for i := range out {
		out[i] = b
	}
	return out
}

// Clicks presses and releases each of bs for one sample each.
func Clicks(bs ...Buttons) []Buttons {
	out := make([]Buttons, 0, 2*len(bs))
	for _, b := range bs {
		out = append(out, b, Buttons{})
	}
	return out
}

// Script joins sample sequences.
func Script(parts ...[]Buttons) []Buttons {
	var out []Buttons
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}
