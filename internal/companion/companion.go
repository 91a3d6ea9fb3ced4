// Package companion is the message boundary to the paired phone app.
// Messages are small dictionaries keyed by integers, carried as JSON objects
// with decimal keys, over MQTT or BLE.
package companion

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/sweeney/quick-alert/internal/settings"
)

// Outbound marker keys and values.
const (
	AlertKey   = 42
	AlertValue = 42

	ConfigRequestKey   = 0
	ConfigRequestValue = 1
)

// Update is one field of an inbound configuration message.
type Update struct {
	Field settings.Field
	// Value is a uint8 for settings.FieldCountdown and a string for
	// settings.FieldPasscode.
	Value any
}

// InboxHandler receives decoded configuration updates. It is called on the
// link's own goroutine.
type InboxHandler func(updates []Update)

// Link is a transport to the companion. Sends are fire-and-forget: they do
// not wait for delivery, and failures after the call returns are only
// logged.
type Link interface {
	// SendAlert sends the alert marker.
	SendAlert() error
	// RequestConfig asks the companion to push the current settings.
	RequestConfig() error
	// PublishSystem publishes a lifecycle/status event.
	PublishSystem(event SystemEvent) error
	// Close disconnects.
	Close() error
}

// ConnectionStatus reports whether the link currently reaches the companion.
type ConnectionStatus interface {
	IsConnected() bool
}

// SystemEvent is a lifecycle event (STARTUP, HEARTBEAT, SHUTDOWN).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string
	Reason     string // e.g. "SIGTERM" (shutdown only)
	RawPayload []byte // pre-formatted JSON; if set, FormatSystemPayload returns it directly
	Retained   bool
}

// SystemPayload is the JSON body for system events without a status
// snapshot (last will, plain lifecycle notices).
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}
	return json.Marshal(SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	})
}

// EncodeMarker encodes a single-key dictionary such as {"42":42}.
func EncodeMarker(key uint32, value uint8) []byte {
	data, _ := json.Marshal(map[string]uint8{strconv.FormatUint(uint64(key), 10): value})
	return data
}

// AlertPayload is the encoded alert marker.
func AlertPayload() []byte {
	return EncodeMarker(AlertKey, AlertValue)
}

// ConfigRequestPayload is the encoded startup configuration request.
func ConfigRequestPayload() []byte {
	return EncodeMarker(ConfigRequestKey, ConfigRequestValue)
}

// DecodeConfig decodes an inbound configuration dictionary. Updates are
// returned in key order, at most one per field. Unknown keys, including
// non-canonical spellings such as "01", are skipped silently; known keys
// with a malformed value are skipped and reported in the returned error,
// which may accompany a non-empty result.
func DecodeConfig(payload []byte) ([]Update, error) {
	var dict map[string]json.RawMessage
	if err := json.Unmarshal(payload, &dict); err != nil {
		return nil, fmt.Errorf("decode config dict: %w", err)
	}

	keys := make([]uint64, 0, len(dict))
	raw := make(map[uint64]json.RawMessage, len(dict))
	for k, v := range dict {
		n, err := strconv.ParseUint(k, 10, 32)
		// Only canonical spellings count, so "00" cannot shadow "0".
		if err != nil || strconv.FormatUint(n, 10) != k {
			continue
		}
		keys = append(keys, n)
		raw[n] = v
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var updates []Update
	var errs []error
	for _, k := range keys {
		field := settings.Field(k)
		switch field {
		case settings.FieldCountdown:
			var secs uint8
			if err := json.Unmarshal(raw[k], &secs); err != nil {
				errs = append(errs, fmt.Errorf("key %d: %w", k, err))
				continue
			}
			updates = append(updates, Update{Field: field, Value: secs})
		case settings.FieldPasscode:
			var text string
			if err := json.Unmarshal(raw[k], &text); err != nil {
				errs = append(errs, fmt.Errorf("key %d: %w", k, err))
				continue
			}
			updates = append(updates, Update{Field: field, Value: text})
		}
	}
	return updates, errors.Join(errs...)
}
