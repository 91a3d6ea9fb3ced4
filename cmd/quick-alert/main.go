// Command quick-alert runs the personal-safety alert on a wearable: hold the
// select button to arm, release to start the countdown, enter the passcode
// to cancel, or let the countdown expire to alert the companion phone.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
	"github.com/sweeney/quick-alert/internal/companion"
	"github.com/sweeney/quick-alert/internal/config"
	"github.com/sweeney/quick-alert/internal/display"
	"github.com/sweeney/quick-alert/internal/gpio"
	"github.com/sweeney/quick-alert/internal/haptic"
	"github.com/sweeney/quick-alert/internal/loop"
	"github.com/sweeney/quick-alert/internal/settings"
	"github.com/sweeney/quick-alert/internal/status"
	"github.com/sweeney/quick-alert/internal/web"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if cfg.Preview != "" {
		if err := preview(os.Stdout, cfg.Preview); err != nil {
			log.Fatalf("preview: %v", err)
		}
		return
	}

	if err := run(cfg); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

// shutdown is the cancellation cause of the run context; its text becomes
// the SHUTDOWN event reason.
type shutdown string

func (s shutdown) Error() string { return string(s) }

func run(cfg config.Config) error {
	store, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	lp := loop.New(64)
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	// The inbox handler runs on the link's goroutine; updates are applied
	// on the loop.
	var a *app
	inbox := func(updates []companion.Update) {
		if !lp.Post(func() { a.applyUpdates(updates) }) {
			log.Printf("companion: dropped config update, shutting down")
		}
	}

	link, err := openLink(cfg, inbox)
	if err != nil {
		return fmt.Errorf("open %s link: %w", cfg.Link, err)
	}
	defer link.Close()

	reader, err := gpio.NewRealReader(cfg.Chip, cfg.Pins)
	if err != nil {
		return fmt.Errorf("init gpio: %w", err)
	}
	defer reader.Close()

	motor, err := haptic.NewRealMotor(cfg.Chip, cfg.MotorPin)
	if err != nil {
		return fmt.Errorf("init haptic: %w", err)
	}
	player := haptic.NewPlayer(motor)
	defer player.Close()

	term := display.NewTerminal(os.Stdout, display.NewAssets())
	defer term.Close()

	tracker := status.NewTracker(time.Now(), status.Config{
		Link:        cfg.Link,
		Device:      cfg.Device,
		Broker:      brokerFor(cfg),
		PollMs:      cfg.Poll.Milliseconds(),
		LongPressMs: cfg.LongPress.Milliseconds(),
		HeartbeatMs: cfg.Heartbeat.Milliseconds(),
		HTTPAddr:    cfg.HTTPAddr,
	})

	a = newApp(appDeps{
		Scheduler:   lp,
		Now:         time.Now,
		Reader:      reader,
		LongPress:   cfg.LongPress,
		Store:       store,
		Link:        link,
		Renderer:    term,
		Haptics:     player,
		Navigator:   navigator(func() { cancel(shutdown("BACK")) }),
		Tracker:     tracker,
		ReadNetwork: readNetworkInfo,
	})

	if cfg.HTTPAddr != "" {
		srv := web.New(cfg.HTTPAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.HTTPAddr)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case s := <-sigCh:
			log.Printf("received %v, shutting down", s)
			cancel(shutdown(signalName(s)))
		case <-ctx.Done():
		}
	}()

	log.Printf("started: link=%s device=%s poll=%v long-press=%v heartbeat=%v",
		cfg.Link, cfg.Device, cfg.Poll, cfg.LongPress, cfg.Heartbeat)

	lp.Post(func() { a.start(cfg.Poll, cfg.Heartbeat) })
	if err := lp.Run(ctx); err != nil {
		return err
	}

	// The loop has returned, so the app is no longer touched elsewhere.
	a.stop(shutdownReason(ctx))
	return nil
}

// navigator adapts a function to alert.Navigator.
type navigator func()

func (n navigator) Back() { n() }

func openLink(cfg config.Config, inbox companion.InboxHandler) (companion.Link, error) {
	switch cfg.Link {
	case config.LinkMQTT:
		return companion.NewMQTTLink(companion.MQTTConfig{
			Broker:   cfg.Broker,
			ClientID: cfg.ClientID,
			Device:   cfg.Device,
			Username: cfg.Username,
			Password: cfg.Password,
		}, inbox)
	case config.LinkBLE:
		return companion.NewBLELink(cfg.BLEName, inbox)
	case config.LinkNone:
		log.Printf("companion: link disabled, alerts are only logged")
		return companion.NopLink{}, nil
	}
	return nil, fmt.Errorf("unknown link %q", cfg.Link)
}

func brokerFor(cfg config.Config) string {
	if cfg.Link == config.LinkMQTT {
		return cfg.Broker
	}
	return ""
}

func signalName(s os.Signal) string {
	switch s {
	case syscall.SIGINT:
		return "SIGINT"
	case syscall.SIGTERM:
		return "SIGTERM"
	}
	return "UNKNOWN"
}

func shutdownReason(ctx context.Context) string {
	var s shutdown
	if errors.As(context.Cause(ctx), &s) {
		return string(s)
	}
	return "UNKNOWN"
}

// preview renders the screen for one state name. "warning" shows the
// missing-passcode screen; unrecognized names show the bad request screen.
func preview(w io.Writer, name string) error {
	v := alert.View{State: alert.ParseState(name)}
	if strings.EqualFold(strings.TrimSpace(name), "warning") {
		v = alert.View{Blocked: true}
	}
	if v.State.Entering() {
		v.RemainingSeconds = int(settings.DefaultCountdown / time.Second)
	}

	assets := display.NewAssets()
	defer assets.ReleaseAll()

	art, err := assets.Art(display.ScreenFor(v))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, display.Compose(v, art))
	return err
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
