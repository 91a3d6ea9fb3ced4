//go:build linux

package companion

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/go-ble/ble"
	"github.com/go-ble/ble/linux"
)

// GATT identifiers of the companion service. Fixed: the phone app matches
// on them.
var (
	serviceUUID = ble.MustParse("6c1a0f7e-3b0e-4e52-9d3c-2a8f4f0d5a01")
	inboxUUID   = ble.MustParse("6c1a0f7e-3b0e-4e52-9d3c-2a8f4f0d5a02")
	outboxUUID  = ble.MustParse("6c1a0f7e-3b0e-4e52-9d3c-2a8f4f0d5a03")
	statusUUID  = ble.MustParse("6c1a0f7e-3b0e-4e52-9d3c-2a8f4f0d5a04")
)

var errNoSubscriber = errors.New("companion not subscribed")

// BLELink exposes a GATT service the phone connects to: it writes
// configuration dictionaries to the inbox characteristic, subscribes to the
// outbox characteristic for alert markers, and reads the status
// characteristic.
type BLELink struct {
	device ble.Device
	inbox  InboxHandler
	cancel context.CancelFunc

	mu             sync.Mutex
	notifier       ble.Notifier
	pendingRequest bool
	status         []byte
}

// NewBLELink opens the default HCI device and starts advertising as name.
func NewBLELink(name string, inbox InboxHandler) (*BLELink, error) {
	d, err := linux.NewDevice()
	if err != nil {
		return nil, fmt.Errorf("open ble device: %w", err)
	}
	ble.SetDefaultDevice(d)

	l := &BLELink{device: d, inbox: inbox}

	svc := ble.NewService(serviceUUID)

	svc.NewCharacteristic(inboxUUID).HandleWrite(ble.WriteHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
		l.handleInbox(req.Data())
	}))

	svc.NewCharacteristic(outboxUUID).HandleNotify(ble.NotifyHandlerFunc(func(req ble.Request, n ble.Notifier) {
		l.subscribe(n)
		<-n.Context().Done()
		l.unsubscribe(n)
	}))

	svc.NewCharacteristic(statusUUID).HandleRead(ble.ReadHandlerFunc(func(req ble.Request, rsp ble.ResponseWriter) {
		l.mu.Lock()
		status := l.status
		l.mu.Unlock()
		if status == nil {
			status = []byte(`{}`)
		}
		rsp.Write(status)
	}))

	if err := ble.AddService(svc); err != nil {
		d.Stop()
		return nil, fmt.Errorf("add ble service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	go func() {
		log.Printf("companion: advertising as %q", name)
		if err := ble.AdvertiseNameAndServices(ctx, name, serviceUUID); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("companion: advertising stopped: %v", err)
		}
	}()

	return l, nil
}

func (l *BLELink) handleInbox(payload []byte) {
	updates, err := DecodeConfig(payload)
	if err != nil {
		log.Printf("companion: inbox message dropped in part: %v", err)
	}
	if len(updates) == 0 {
		return
	}
	log.Printf("companion: message received (%d fields)", len(updates))
	if l.inbox != nil {
		l.inbox(updates)
	}
}

func (l *BLELink) subscribe(n ble.Notifier) {
	l.mu.Lock()
	l.notifier = n
	pending := l.pendingRequest
	l.pendingRequest = false
	l.mu.Unlock()

	log.Printf("companion: phone subscribed")
	if pending {
		l.notify(n, ConfigRequestPayload(), "config request")
	}
}

func (l *BLELink) unsubscribe(n ble.Notifier) {
	l.mu.Lock()
	if l.notifier == n {
		l.notifier = nil
	}
	l.mu.Unlock()
	log.Printf("companion: phone unsubscribed")
}

// IsConnected implements ConnectionStatus: true while the phone is
// subscribed to the outbox.
func (l *BLELink) IsConnected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notifier != nil
}

// SendAlert notifies the alert marker. It fails if no phone is subscribed.
func (l *BLELink) SendAlert() error {
	l.mu.Lock()
	n := l.notifier
	l.mu.Unlock()
	if n == nil {
		return errNoSubscriber
	}
	l.notify(n, AlertPayload(), "alert")
	return nil
}

// RequestConfig notifies the configuration request, or defers it to the
// next subscription if no phone is subscribed.
func (l *BLELink) RequestConfig() error {
	l.mu.Lock()
	n := l.notifier
	if n == nil {
		l.pendingRequest = true
	}
	l.mu.Unlock()
	if n != nil {
		l.notify(n, ConfigRequestPayload(), "config request")
	}
	return nil
}

// PublishSystem stores the event payload for the status characteristic.
func (l *BLELink) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}
	l.mu.Lock()
	l.status = payload
	l.mu.Unlock()
	return nil
}

func (l *BLELink) notify(n ble.Notifier, payload []byte, what string) {
	go func() {
		if _, err := n.Write(payload); err != nil {
			log.Printf("companion: outbox send failed: %s: %v", what, err)
			return
		}
		log.Printf("companion: outbox send success: %s", what)
	}()
}

// Close stops advertising and releases the HCI device.
func (l *BLELink) Close() error {
	l.cancel()
	if err := l.device.Stop(); err != nil {
		return fmt.Errorf("stop ble device: %w", err)
	}
	return nil
}
