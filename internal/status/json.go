package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event              string       `json:"event,omitempty"`
	Reason             string       `json:"reason,omitempty"`
	State              string       `json:"state"`
	Blocked            bool         `json:"blocked"`
	RemainingMs        int64        `json:"remaining_ms"`
	PasscodeConfigured bool         `json:"passcode_configured"`
	CountdownMs        int64        `json:"countdown_ms"`
	UptimeSeconds      int64        `json:"uptime_seconds"`
	StartTime          string       `json:"start_time"`
	Timestamp          string       `json:"timestamp"`
	Link               LinkStatus   `json:"link"`
	Counts             CountsJSON   `json:"counts"`
	Network            *NetworkJSON `json:"network,omitempty"`
	Config             ConfigJSON   `json:"config"`
}

// LinkStatus reports companion link state.
type LinkStatus struct {
	Kind      string `json:"kind"`
	Connected bool   `json:"connected"`
}

// CountsJSON is the JSON representation of machine counters.
type CountsJSON struct {
	Arms          int `json:"arms"`
	AlertsSent    int `json:"alerts_sent"`
	AlertFailures int `json:"alert_failures"`
	Cancels       int `json:"cancels"`
	WrongAttempts int `json:"wrong_attempts"`
}

// NetworkJSON is the JSON representation of network info.
type NetworkJSON struct {
	Type       string `json:"type"`
	IP         string `json:"ip"`
	Status     string `json:"status"`
	Gateway    string `json:"gateway"`
	WifiStatus string `json:"wifi_status"`
	SSID       string `json:"ssid"`
}

// ConfigJSON is the JSON representation of daemon config.
type ConfigJSON struct {
	Device      string `json:"device"`
	Broker      string `json:"broker,omitempty"`
	PollMs      int64  `json:"poll_ms"`
	LongPressMs int64  `json:"long_press_ms"`
	HeartbeatMs int64  `json:"heartbeat_ms"`
	HTTPAddr    string `json:"http_addr"`
}

func buildInner(snap Snapshot) StatusInner {
	remaining := int64(0)
	if snap.State.Entering() && snap.Remaining > 0 {
		remaining = snap.Remaining.Milliseconds()
	}

	inner := StatusInner{
		State:              snap.State.String(),
		Blocked:            snap.Blocked,
		RemainingMs:        remaining,
		PasscodeConfigured: snap.PasscodeConfigured,
		CountdownMs:        snap.Countdown.Milliseconds(),
		UptimeSeconds:      int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:          snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:          snap.Now.UTC().Format(time.RFC3339),
		Link:               LinkStatus{Kind: snap.Config.Link, Connected: snap.LinkConnected},
		Counts: CountsJSON{
			Arms:          snap.Counts.Arms,
			AlertsSent:    snap.Counts.AlertsSent,
			AlertFailures: snap.Counts.AlertFailures,
			Cancels:       snap.Counts.Cancels,
			WrongAttempts: snap.Counts.WrongAttempts,
		},
		Config: ConfigJSON{
			Device:      snap.Config.Device,
			Broker:      snap.Config.Broker,
			PollMs:      snap.Config.PollMs,
			LongPressMs: snap.Config.LongPressMs,
			HeartbeatMs: snap.Config.HeartbeatMs,
			HTTPAddr:    snap.Config.HTTPAddr,
		},
	}
	if snap.Network != nil {
		inner.Network = &NetworkJSON{
			Type:       snap.Network.Type,
			IP:         snap.Network.IP,
			Status:     snap.Network.Status,
			Gateway:    snap.Network.Gateway,
			WifiStatus: snap.Network.WifiStatus,
			SSID:       snap.Network.SSID,
		}
	}
	return inner
}

// FormatJSON returns the indented JSON status for the web endpoint.
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the compact JSON status for a system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason
	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
