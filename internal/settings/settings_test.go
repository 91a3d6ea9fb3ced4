package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"
	"unicode/utf8"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "settings.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := s.Passcode(); ok {
		t.Error("expected no passcode")
	}
	if s.Countdown() != DefaultCountdown {
		t.Errorf("Countdown: got %v, want %v", s.Countdown(), DefaultCountdown)
	}
}

func TestLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for corrupt file")
	}
}

func TestApplyUpdatePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "settings.json")
	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if err := s.ApplyUpdate(FieldCountdown, uint8(30)); err != nil {
		t.Fatalf("ApplyUpdate countdown: %v", err)
	}
	if err := s.ApplyUpdate(FieldPasscode, "12312"); err != nil {
		t.Fatalf("ApplyUpdate passcode: %v", err)
	}

	if s.Countdown() != 30*time.Second {
		t.Errorf("Countdown: got %v, want 30s", s.Countdown())
	}

	reloaded, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	code, ok := reloaded.Passcode()
	if !ok || code != "12312" {
		t.Errorf("Passcode after reload: got (%q, %v), want (12312, true)", code, ok)
	}
	if reloaded.Countdown() != 30*time.Second {
		t.Errorf("Countdown after reload: got %v, want 30s", reloaded.Countdown())
	}
}

func TestApplyUpdateFieldsIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, _ := Load(path)

	if err := s.ApplyUpdate(FieldCountdown, uint8(5)); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	reloaded, _ := Load(path)
	if _, ok := reloaded.Passcode(); ok {
		t.Error("setting countdown must not define a passcode")
	}
	if reloaded.Countdown() != 5*time.Second {
		t.Errorf("Countdown: got %v, want 5s", reloaded.Countdown())
	}
}

func TestApplyUpdatePasscodeTruncated(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "settings.json"))

	if err := s.ApplyUpdate(FieldPasscode, "1231231"); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if code, _ := s.Passcode(); code != "12312" {
		t.Errorf("Passcode: got %q, want 12312", code)
	}
}

func TestApplyUpdatePasscodeTruncatedOnRuneBoundary(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "settings.json"))

	// "é" is two bytes starting at byte 4: it does not fit and is dropped whole.
	if err := s.ApplyUpdate(FieldPasscode, "1231é"); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	code, _ := s.Passcode()
	if code != "1231" {
		t.Errorf("Passcode: got %q, want 1231", code)
	}
	if !utf8.ValidString(code) {
		t.Errorf("Passcode %q is not valid UTF-8", code)
	}
}

func TestApplyUpdateEmptyPasscodeIsDefined(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "settings.json"))

	if err := s.ApplyUpdate(FieldPasscode, ""); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}
	if _, ok := s.Passcode(); !ok {
		t.Error("an empty passcode is still a configured passcode")
	}
}

func TestApplyUpdateUnknownFieldIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s, _ := Load(path)

	if err := s.ApplyUpdate(Field(7), "whatever"); err != nil {
		t.Errorf("unknown field: got error %v, want nil", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("unknown field should not write the file")
	}
}

func TestApplyUpdateWrongType(t *testing.T) {
	s, _ := Load(filepath.Join(t.TempDir(), "settings.json"))

	if err := s.ApplyUpdate(FieldCountdown, "30"); err == nil {
		t.Error("expected error for string countdown")
	}
	if err := s.ApplyUpdate(FieldPasscode, 12312); err == nil {
		t.Error("expected error for numeric passcode")
	}
	if s.Countdown() != DefaultCountdown {
		t.Errorf("Countdown changed by rejected update: %v", s.Countdown())
	}
}

func TestApplyUpdateWriteFailureKeepsValue(t *testing.T) {
	dir := t.TempDir()
	// A directory where the file should be makes the rename fail.
	path := filepath.Join(dir, "settings.json")
	if err := os.MkdirAll(filepath.Join(path, "blocker"), 0755); err != nil {
		t.Fatal(err)
	}
	s := &Store{path: path}

	if err := s.ApplyUpdate(FieldPasscode, "11111"); err == nil {
		t.Error("expected persistence error")
	}
	if code, ok := s.Passcode(); !ok || code != "11111" {
		t.Errorf("Passcode: got (%q, %v), want (11111, true)", code, ok)
	}
}

func TestEnterable(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"12312", true},
		{"33333", true},
		{"1231", false},
		{"12345", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := enterable(tt.code); got != tt.want {
			t.Errorf("enterable(%q): got %v, want %v", tt.code, got, tt.want)
		}
	}
}
