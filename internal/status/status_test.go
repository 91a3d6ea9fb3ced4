package status

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
)

func fixedTracker(start, now time.Time, cfg Config) *Tracker {
	tr := NewTracker(start, cfg)
	tr.now = func() time.Time { return now }
	return tr
}

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Link: "mqtt", Device: "wrist", PollMs: 10, HTTPAddr: ":8080"}
	tr := NewTracker(start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Config.Device != "wrist" {
		t.Errorf("Config.Device: got %q", snap.Config.Device)
	}
	if snap.State != alert.StateIdle {
		t.Errorf("State: got %s, want IDLE", snap.State)
	}
	if snap.LinkConnected {
		t.Error("expected LinkConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.Update(alert.StatePasscodeEntry, false, 4200*time.Millisecond, alert.Counts{Arms: 2, WrongAttempts: 1})
	tr.SetSettings(true, 30*time.Second)

	snap := tr.Snapshot()
	if snap.State != alert.StatePasscodeEntry {
		t.Errorf("State: got %s", snap.State)
	}
	if snap.Remaining != 4200*time.Millisecond {
		t.Errorf("Remaining: got %v", snap.Remaining)
	}
	if snap.Counts.Arms != 2 || snap.Counts.WrongAttempts != 1 {
		t.Errorf("Counts: got %+v", snap.Counts)
	}
	if !snap.PasscodeConfigured || snap.Countdown != 30*time.Second {
		t.Errorf("settings: configured=%v countdown=%v", snap.PasscodeConfigured, snap.Countdown)
	}
}

func TestSetLinkConnected(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	tr.SetLinkConnected(true)
	if !tr.Snapshot().LinkConnected {
		t.Error("expected LinkConnected=true")
	}
	tr.SetLinkConnected(false)
	if tr.Snapshot().LinkConnected {
		t.Error("expected LinkConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := fixedTracker(start, start.Add(90*time.Second), Config{})

	if got := tr.Snapshot().Uptime(); got != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(alert.StateArming, false, 0, alert.Counts{Arms: 1})

	snap := tr.Snapshot()
	tr.Update(alert.StateIdle, false, 0, alert.Counts{Arms: 5})

	if snap.State != alert.StateArming || snap.Counts.Arms != 1 {
		t.Errorf("snapshot changed after update: %+v", snap)
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := fixedTracker(start, start.Add(time.Hour), Config{Link: "mqtt", Device: "wrist", Broker: "tcp://localhost:1883", HTTPAddr: ":8080"})
	tr.Update(alert.StatePasscodeError, false, 2500*time.Millisecond, alert.Counts{AlertsSent: 1, Cancels: 3})
	tr.SetSettings(true, 10*time.Second)
	tr.SetLinkConnected(true)

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := out.Status
	if s.State != "PASSCODE_ERROR" {
		t.Errorf("state: got %q", s.State)
	}
	if s.RemainingMs != 2500 {
		t.Errorf("remaining_ms: got %d", s.RemainingMs)
	}
	if s.CountdownMs != 10000 {
		t.Errorf("countdown_ms: got %d", s.CountdownMs)
	}
	if s.UptimeSeconds != 3600 {
		t.Errorf("uptime_seconds: got %d", s.UptimeSeconds)
	}
	if !s.Link.Connected || s.Link.Kind != "mqtt" {
		t.Errorf("link: got %+v", s.Link)
	}
	if s.Counts.AlertsSent != 1 || s.Counts.Cancels != 3 {
		t.Errorf("counts: got %+v", s.Counts)
	}
	if s.Event != "" || s.Reason != "" {
		t.Errorf("web status should carry no event: %+v", s)
	}
	if s.Network != nil {
		t.Error("network should be omitted when unknown")
	}
}

func TestFormatJSONHidesRemainingOutsideEntry(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(alert.StateCancelled, false, 700*time.Millisecond, alert.Counts{})

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status.RemainingMs != 0 {
		t.Errorf("remaining_ms: got %d, want 0", out.Status.RemainingMs)
	}
}

func TestFormatJSONUnknownState(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(alert.State(99), false, 0, alert.Counts{})

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status.State != "UNKNOWN" {
		t.Errorf("state: got %q, want UNKNOWN", out.Status.State)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.Update(alert.StateIdle, true, 0, alert.Counts{})

	var out StatusJSON
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "SHUTDOWN", "SIGTERM"), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status.Event != "SHUTDOWN" || out.Status.Reason != "SIGTERM" {
		t.Errorf("event/reason: got %q/%q", out.Status.Event, out.Status.Reason)
	}
	if !out.Status.Blocked {
		t.Error("expected blocked=true")
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var raw map[string]map[string]any
	if err := json.Unmarshal(FormatStatusEvent(tr.Snapshot(), "HEARTBEAT", ""), &raw); err != nil {
		t.Fatal(err)
	}
	if _, ok := raw["status"]["reason"]; ok {
		t.Error("reason should be omitted")
	}
	if raw["status"]["event"] != "HEARTBEAT" {
		t.Errorf("event: got %v", raw["status"]["event"])
	}
}

func TestFormatJSONWithNetwork(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})
	tr.SetNetwork(&NetworkInfo{Type: "wifi", IP: "192.168.1.42", Status: "connected", SSID: "home"})

	var out StatusJSON
	if err := json.Unmarshal(FormatJSON(tr.Snapshot()), &out); err != nil {
		t.Fatal(err)
	}
	if out.Status.Network == nil {
		t.Fatal("expected network")
	}
	if out.Status.Network.IP != "192.168.1.42" || out.Status.Network.SSID != "home" {
		t.Errorf("network: got %+v", out.Status.Network)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(time.Now(), Config{})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Update(alert.StatePasscodeEntry, false, time.Duration(j)*time.Millisecond, alert.Counts{Arms: i})
				tr.SetLinkConnected(j%2 == 0)
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = FormatJSON(tr.Snapshot())
			}
		}()
	}
	wg.Wait()
}
