package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/sweeney/quick-alert/internal/gpio"
)

func noEnv(string) (string, bool) { return "", false }

func mapEnv(m map[string]string) lookupFunc {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestDefaults(t *testing.T) {
	cfg, err := parse([]string{"--device", "wrist"}, noEnv)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Link != LinkMQTT {
		t.Errorf("Link: got %q", cfg.Link)
	}
	if cfg.Poll != 10*time.Millisecond {
		t.Errorf("Poll: got %v", cfg.Poll)
	}
	if cfg.LongPress != 500*time.Millisecond {
		t.Errorf("LongPress: got %v", cfg.LongPress)
	}
	if cfg.Heartbeat != 15*time.Minute {
		t.Errorf("Heartbeat: got %v", cfg.Heartbeat)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("HTTPAddr: got %q", cfg.HTTPAddr)
	}
	want := gpio.Pins{Up: gpio.DefaultPinUp, Select: gpio.DefaultPinSelect, Down: gpio.DefaultPinDown, Back: gpio.DefaultPinBack}
	if cfg.Pins != want {
		t.Errorf("Pins: got %+v, want %+v", cfg.Pins, want)
	}
	if cfg.MotorPin != gpio.DefaultPinMotor {
		t.Errorf("MotorPin: got %d", cfg.MotorPin)
	}
	if cfg.Preview != "" {
		t.Errorf("Preview: got %q", cfg.Preview)
	}
}

func TestClientID(t *testing.T) {
	re := regexp.MustCompile(`^quick-alert-wrist-[0-9a-f]{8}$`)
	a, b := ClientID("wrist"), ClientID("wrist")
	if !re.MatchString(a) {
		t.Errorf("ClientID = %q", a)
	}
	if a == b {
		t.Errorf("client ids should differ: %q", a)
	}
}

func TestFlagsOverrideEnv(t *testing.T) {
	env := mapEnv(map[string]string{
		"LINK":      "ble",
		"POLL":      "20ms",
		"PIN_UP":    "22",
		"HEARTBEAT": "1m",
	})
	cfg, err := parse([]string{"--device", "wrist", "--poll", "5ms", "--heartbeat", "0"}, env)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Link != LinkBLE {
		t.Errorf("Link from env: got %q", cfg.Link)
	}
	if cfg.Pins.Up != 22 {
		t.Errorf("Pins.Up from env: got %d", cfg.Pins.Up)
	}
	if cfg.Poll != 5*time.Millisecond {
		t.Errorf("Poll flag: got %v", cfg.Poll)
	}
	if cfg.Heartbeat != 0 {
		t.Errorf("Heartbeat flag: got %v", cfg.Heartbeat)
	}
}

func TestInvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		args []string
		env  map[string]string
		want string
	}{
		{"unknown link", []string{"--link", "carrier-pigeon"}, nil, "unknown link"},
		{"mqtt without broker", []string{"--broker", ""}, nil, "--broker is required"},
		{"zero poll", []string{"--poll", "0"}, nil, "poll must be positive"},
		{"negative heartbeat", []string{"--heartbeat", "-1s"}, nil, "heartbeat must not be negative"},
		{"topic wildcard device", []string{"--device", "a/b"}, nil, "invalid device"},
		{"bad env duration", nil, map[string]string{"POLL": "soon"}, "QUICK_ALERT_POLL"},
		{"bad env pin", nil, map[string]string{"PIN_BACK": "x"}, "QUICK_ALERT_PIN_BACK"},
		{"unknown flag", []string{"--frobnicate"}, nil, "frobnicate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--device", "wrist"}, tt.args...)
			_, err := parse(args, mapEnv(tt.env))
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestBLEDoesNotNeedBroker(t *testing.T) {
	if _, err := parse([]string{"--device", "wrist", "--link", "ble", "--broker", ""}, noEnv); err != nil {
		t.Errorf("parse: %v", err)
	}
}

func TestEnvFileArg(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, DefaultEnvFile},
		{[]string{"--env-file", "/tmp/a.env"}, "/tmp/a.env"},
		{[]string{"-env-file=/tmp/b.env", "--poll", "5ms"}, "/tmp/b.env"},
		{[]string{"--", "--env-file", "/tmp/c.env"}, DefaultEnvFile},
	}
	for _, tt := range tests {
		if got := envFileArg(tt.args); got != tt.want {
			t.Errorf("envFileArg(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-alert.env")
	data := "QUICK_ALERT_LINK=none\nQUICK_ALERT_DEVICE=bench\nQUICK_ALERT_LONG_PRESS=750ms\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load([]string{"--env-file", path})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Link != LinkNone || cfg.Device != "bench" {
		t.Errorf("got link=%q device=%q", cfg.Link, cfg.Device)
	}
	if cfg.LongPress != 750*time.Millisecond {
		t.Errorf("LongPress: got %v", cfg.LongPress)
	}
}

func TestLoadProcessEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quick-alert.env")
	if err := os.WriteFile(path, []byte("QUICK_ALERT_DEVICE=file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUICK_ALERT_DEVICE", "process")

	cfg, err := Load([]string{"--env-file", path, "--link", "none"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Device != "process" {
		t.Errorf("Device: got %q, want process", cfg.Device)
	}
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.env")
	if _, err := Load([]string{"--env-file", path, "--link", "none", "--device", "x"}); err != nil {
		t.Errorf("Load: %v", err)
	}
}
