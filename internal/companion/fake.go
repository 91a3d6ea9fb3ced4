package companion

// FakeLink records outbound messages for test assertions.
type FakeLink struct {
	// Alerts counts SendAlert calls that succeeded.
	Alerts int

	// ConfigRequests counts RequestConfig calls that succeeded.
	ConfigRequests int

	// SystemEvents contains all system events that were published.
	SystemEvents []SystemEvent

	// SendError, if set, is returned by SendAlert and RequestConfig.
	SendError error

	// PublishSystemError, if set, is returned by PublishSystem.
	PublishSystemError error

	// Closed tracks if Close was called.
	Closed bool

	// Connected controls the return value of IsConnected.
	Connected bool
}

// NewFakeLink creates a FakeLink for testing.
func NewFakeLink() *FakeLink {
	return &FakeLink{}
}

// SendAlert records the alert.
func (f *FakeLink) SendAlert() error {
	if f.SendError != nil {
		return f.SendError
	}
	f.Alerts++
	return nil
}

// RequestConfig records the request.
func (f *FakeLink) RequestConfig() error {
	if f.SendError != nil {
		return f.SendError
	}
	f.ConfigRequests++
	return nil
}

// PublishSystem records the system event.
func (f *FakeLink) PublishSystem(event SystemEvent) error {
	if f.PublishSystemError != nil {
		return f.PublishSystemError
	}
	f.SystemEvents = append(f.SystemEvents, event)
	return nil
}

// Close marks the link as closed.
func (f *FakeLink) Close() error {
	f.Closed = true
	return nil
}

// IsConnected reports whether the fake link is "connected".
func (f *FakeLink) IsConnected() bool {
	return f.Connected
}
