// Package config assembles daemon configuration from an optional env file,
// the process environment and command-line flags, in increasing priority.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/sweeney/quick-alert/internal/gpio"
	"github.com/sweeney/quick-alert/internal/input"
)

// Link kinds.
const (
	LinkMQTT = "mqtt"
	LinkBLE  = "ble"
	LinkNone = "none"
)

// DefaultEnvFile is read when --env-file is not given.
const DefaultEnvFile = "/etc/quick-alert.env"

// envPrefix namespaces the environment variables.
const envPrefix = "QUICK_ALERT_"

// Config is the complete daemon configuration.
type Config struct {
	Link     string
	Broker   string
	Username string
	Password string
	Device   string
	BLEName  string
	ClientID string

	SettingsPath string

	Poll      time.Duration
	LongPress time.Duration
	Heartbeat time.Duration
	HTTPAddr  string

	Chip     string
	Pins     gpio.Pins
	MotorPin int

	// Preview names a state to render once before exiting. Empty runs the
	// daemon.
	Preview string
}

// Load parses args (without the program name). Values come from flags,
// then QUICK_ALERT_* environment variables, then the env file, then
// built-in defaults.
func Load(args []string) (Config, error) {
	fileEnv, err := readEnvFile(envFileArg(args))
	if err != nil {
		return Config{}, err
	}
	env := func(key string) (string, bool) {
		if v, ok := os.LookupEnv(envPrefix + key); ok {
			return v, true
		}
		v, ok := fileEnv[envPrefix+key]
		return v, ok
	}
	return parse(args, env)
}

type lookupFunc func(key string) (string, bool)

func parse(args []string, env lookupFunc) (Config, error) {
	var cfg Config
	var errs []error

	str := func(key, def string) string {
		if v, ok := env(key); ok {
			return v
		}
		return def
	}
	dur := func(key string, def time.Duration) time.Duration {
		v, ok := env(key)
		if !ok {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return def
		}
		return d
	}
	num := func(key string, def int) int {
		v, ok := env(key)
		if !ok {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s%s: %w", envPrefix, key, err))
			return def
		}
		return n
	}

	flags := flag.NewFlagSet("quick-alert", flag.ContinueOnError)
	flags.String("env-file", DefaultEnvFile, "Optional dotenv file with QUICK_ALERT_* defaults")
	flags.StringVar(&cfg.Link, "link", str("LINK", LinkMQTT), "Companion link: mqtt, ble or none")
	flags.StringVar(&cfg.Broker, "broker", str("BROKER", "tcp://localhost:1883"), "MQTT broker address")
	flags.StringVar(&cfg.Username, "mqtt-user", str("MQTT_USER", ""), "MQTT username")
	flags.StringVar(&cfg.Password, "mqtt-password", str("MQTT_PASSWORD", ""), "MQTT password")
	flags.StringVar(&cfg.Device, "device", str("DEVICE", hostname()), "Device name used in MQTT topics")
	flags.StringVar(&cfg.BLEName, "ble-name", str("BLE_NAME", "QuickAlert"), "BLE advertised name")
	flags.StringVar(&cfg.SettingsPath, "settings", str("SETTINGS", "/var/lib/quick-alert/settings.json"), "Durable settings file")
	flags.DurationVar(&cfg.Poll, "poll", dur("POLL", 10*time.Millisecond), "Button sampling interval")
	flags.DurationVar(&cfg.LongPress, "long-press", dur("LONG_PRESS", input.DefaultLongPress), "Select hold time that arms")
	flags.DurationVar(&cfg.Heartbeat, "heartbeat", dur("HEARTBEAT", 15*time.Minute), "Heartbeat interval (0 to disable)")
	flags.StringVar(&cfg.HTTPAddr, "http", str("HTTP", ":8080"), "HTTP status address (empty to disable)")
	flags.StringVar(&cfg.Chip, "gpio-chip", str("GPIO_CHIP", gpio.DefaultChip), "GPIO character device")
	flags.IntVar(&cfg.Pins.Up, "pin-up", num("PIN_UP", gpio.DefaultPinUp), "BCM pin for the up button")
	flags.IntVar(&cfg.Pins.Select, "pin-select", num("PIN_SELECT", gpio.DefaultPinSelect), "BCM pin for the select/arm button")
	flags.IntVar(&cfg.Pins.Down, "pin-down", num("PIN_DOWN", gpio.DefaultPinDown), "BCM pin for the down button")
	flags.IntVar(&cfg.Pins.Back, "pin-back", num("PIN_BACK", gpio.DefaultPinBack), "BCM pin for the back button")
	flags.IntVar(&cfg.MotorPin, "pin-motor", num("PIN_MOTOR", gpio.DefaultPinMotor), "BCM pin for the vibration motor")
	flags.StringVar(&cfg.Preview, "preview", "", "Render the screen for STATE and exit")

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.ClientID = ClientID(cfg.Device)
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.Link {
	case LinkMQTT:
		if c.Broker == "" {
			errs = append(errs, errors.New("--broker is required for the mqtt link"))
		}
	case LinkBLE, LinkNone:
	default:
		errs = append(errs, fmt.Errorf("unknown link %q (want mqtt, ble or none)", c.Link))
	}
	if c.Device == "" || strings.ContainsAny(c.Device, "/+#") {
		errs = append(errs, fmt.Errorf("invalid device name %q", c.Device))
	}
	if c.Poll <= 0 {
		errs = append(errs, fmt.Errorf("poll must be positive, got %v", c.Poll))
	}
	if c.LongPress <= 0 {
		errs = append(errs, fmt.Errorf("long-press must be positive, got %v", c.LongPress))
	}
	if c.Heartbeat < 0 {
		errs = append(errs, fmt.Errorf("heartbeat must not be negative, got %v", c.Heartbeat))
	}
	if c.SettingsPath == "" {
		errs = append(errs, errors.New("--settings must not be empty"))
	}
	return errors.Join(errs...)
}

// ClientID returns a unique MQTT client id for device.
func ClientID(device string) string {
	return fmt.Sprintf("quick-alert-%s-%s", device, uuid.NewString()[:8])
}

// envFileArg finds --env-file in args ahead of full flag parsing, since the
// file supplies flag defaults.
func envFileArg(args []string) string {
	for i, a := range args {
		if a == "--" {
			break
		}
		name := strings.TrimLeft(a, "-")
		if name == a {
			continue
		}
		if v, ok := strings.CutPrefix(name, "env-file="); ok {
			return v
		}
		if name == "env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return DefaultEnvFile
}

func readEnvFile(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	m, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read env file %s: %w", path, err)
	}
	return m, nil
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil || h == "" {
		return "wearable"
	}
	if i := strings.IndexByte(h, '.'); i > 0 {
		h = h[:i]
	}
	return h
}
