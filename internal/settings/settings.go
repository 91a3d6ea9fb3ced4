// Package settings is the durable store for the configured passcode and
// countdown duration. Values change only through ApplyUpdate, which persists
// before returning.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sweeney/quick-alert/internal/alert"
)

// DefaultCountdown applies until a duration has been configured.
const DefaultCountdown = 10 * time.Second

// Field identifies a configurable value in an inbound update.
type Field uint32

const (
	// FieldCountdown carries the countdown in whole seconds (uint8).
	FieldCountdown Field = 0
	// FieldPasscode carries the passcode text (string).
	FieldPasscode Field = 1
)

func (f Field) String() string {
	switch f {
	case FieldCountdown:
		return "countdown"
	case FieldPasscode:
		return "passcode"
	}
	return fmt.Sprintf("field(%d)", uint32(f))
}

// file is the on-disk form. An absent key means the value was never
// configured.
type file struct {
	CountdownMs *int64  `json:"countdown_ms,omitempty"`
	Passcode    *string `json:"passcode,omitempty"`
}

// Store holds the settings. It is not safe for concurrent use.
type Store struct {
	path string
	data file
}

// Load reads the settings file at path. A missing file yields an empty
// store: no passcode and the default countdown.
func Load(path string) (*Store, error) {
	s := &Store{path: path}

	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", path, err)
	}
	return s, nil
}

// Passcode returns the configured passcode. ok is false until one has been
// configured.
func (s *Store) Passcode() (string, bool) {
	if s.data.Passcode == nil {
		return "", false
	}
	return *s.data.Passcode, true
}

// Countdown returns the configured countdown, or DefaultCountdown.
func (s *Store) Countdown() time.Duration {
	if s.data.CountdownMs == nil {
		return DefaultCountdown
	}
	return time.Duration(*s.data.CountdownMs) * time.Millisecond
}

// ApplyUpdate sets one field and persists the store. FieldCountdown takes a
// uint8 number of seconds; FieldPasscode takes a string, truncated to
// alert.PasscodeLength characters. Unknown fields are ignored. If writing
// the file fails the new value is still in effect and the error is returned.
func (s *Store) ApplyUpdate(field Field, value any) error {
	switch field {
	case FieldCountdown:
		secs, ok := value.(uint8)
		if !ok {
			return fmt.Errorf("%s: want uint8 seconds, got %T", field, value)
		}
		ms := int64(secs) * 1000
		s.data.CountdownMs = &ms
		log.Printf("settings: countdown set to %ds", secs)

	case FieldPasscode:
		text, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s: want string, got %T", field, value)
		}
		code := fitPasscode(text)
		s.data.Passcode = &code
		if !enterable(code) {
			log.Printf("settings: passcode of %d characters cannot be entered with the buttons", len(code))
		} else {
			log.Printf("settings: passcode updated")
		}

	default:
		return nil
	}

	return s.save()
}

// fitPasscode keeps at most PasscodeLength bytes, cutting on a rune boundary
// so a multibyte character is never split.
func fitPasscode(text string) string {
	if len(text) <= alert.PasscodeLength {
		return text
	}
	n := 0
	for n < len(text) {
		_, size := utf8.DecodeRuneInString(text[n:])
		if n+size > alert.PasscodeLength {
			break
		}
		n += size
	}
	return text[:n]
}

// enterable reports whether code is exactly PasscodeLength symbols 1-3.
func enterable(code string) bool {
	return len(code) == alert.PasscodeLength && strings.Trim(code, "123") == ""
}

// save writes the file atomically (temp file + rename).
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create settings directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings: %w", err)
	}
	return nil
}
