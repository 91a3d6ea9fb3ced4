//go:build !linux

package companion

import "errors"

// BLELink is not available on non-Linux platforms.
type BLELink struct{}

// NewBLELink returns an error on non-Linux platforms.
func NewBLELink(name string, inbox InboxHandler) (*BLELink, error) {
	return nil, errors.New("companion: ble not supported on this platform (requires Linux)")
}

func (l *BLELink) IsConnected() bool                     { return false }
func (l *BLELink) SendAlert() error                      { return errors.New("companion: ble not supported") }
func (l *BLELink) RequestConfig() error                  { return errors.New("companion: ble not supported") }
func (l *BLELink) PublishSystem(event SystemEvent) error { return nil }
func (l *BLELink) Close() error                          { return nil }
