package companion

import "errors"

// ErrNoLink is returned by NopLink.SendAlert: with no transport the alert
// reaches nobody and is counted as a failure.
var ErrNoLink = errors.New("companion: no link configured, alert not delivered")

// NopLink discards outbound messages and never receives anything. It stands
// in when no companion transport is configured.
type NopLink struct{}

func (NopLink) SendAlert() error                      { return ErrNoLink }
func (NopLink) RequestConfig() error                  { return nil }
func (NopLink) PublishSystem(event SystemEvent) error { return nil }
func (NopLink) Close() error                          { return nil }
func (NopLink) IsConnected() bool                     { return false }
