package main

import (
	"log"
	"time"

	"github.com/sweeney/quick-alert/internal/alert"
	"github.com/sweeney/quick-alert/internal/companion"
	"github.com/sweeney/quick-alert/internal/gpio"
	"github.com/sweeney/quick-alert/internal/input"
	"github.com/sweeney/quick-alert/internal/loop"
	"github.com/sweeney/quick-alert/internal/settings"
	"github.com/sweeney/quick-alert/internal/status"
)

// app owns the running daemon. Every method runs on the scheduler's
// thread.
type app struct {
	sched      loop.Scheduler
	now        func() time.Time
	reader     gpio.Reader
	recognizer *input.Recognizer
	store      *settings.Store
	link       companion.Link
	linkStatus companion.ConnectionStatus
	tracker    *status.Tracker
	machine    *alert.Machine
	network    func() *status.NetworkInfo

	timers []loop.Timer
}

type appDeps struct {
	Scheduler   loop.Scheduler
	Now         func() time.Time
	Reader      gpio.Reader
	LongPress   time.Duration
	Store       *settings.Store
	Link        companion.Link
	Renderer    alert.Renderer
	Haptics     alert.Haptics
	Navigator   alert.Navigator
	Tracker     *status.Tracker
	ReadNetwork func() *status.NetworkInfo
}

func newApp(d appDeps) *app {
	a := &app{
		sched:      d.Scheduler,
		now:        d.Now,
		reader:     d.Reader,
		recognizer: input.NewRecognizer(d.LongPress),
		store:      d.Store,
		link:       d.Link,
		tracker:    d.Tracker,
		network:    d.ReadNetwork,
	}
	if cs, ok := d.Link.(companion.ConnectionStatus); ok {
		a.linkStatus = cs
	}
	if a.network == nil {
		a.network = func() *status.NetworkInfo { return nil }
	}
	a.machine = alert.NewMachine(alert.Deps{
		Scheduler: d.Scheduler,
		Settings:  d.Store,
		Renderer:  d.Renderer,
		Haptics:   d.Haptics,
		Signaler:  d.Link,
		Navigator: d.Navigator,
	})
	return a
}

// start paints the first screen, announces startup, asks the companion for
// current settings and begins sampling buttons.
func (a *app) start(poll, heartbeat time.Duration) {
	a.machine.Start()
	if net := a.network(); net != nil {
		a.tracker.SetNetwork(net)
	}
	a.sync()
	a.publishStatus("STARTUP", "")

	if err := a.link.RequestConfig(); err != nil {
		log.Printf("companion: config request failed: %v", err)
	}

	a.timers = append(a.timers, a.sched.Every(poll, a.poll))
	if heartbeat > 0 {
		a.timers = append(a.timers, a.sched.Every(heartbeat, a.heartbeat))
	}
}

// poll samples the buttons and feeds recognized inputs to the machine.
func (a *app) poll() {
	b, err := a.reader.Read()
	if err != nil {
		log.Printf("gpio read error: %v", err)
		return
	}
	for _, in := range a.recognizer.Process(b, a.now()) {
		a.machine.Handle(in)
	}
	a.sync()
}

// applyUpdates stores inbound settings and lets the machine re-read them.
func (a *app) applyUpdates(updates []companion.Update) {
	for _, u := range updates {
		if err := a.store.ApplyUpdate(u.Field, u.Value); err != nil {
			log.Printf("settings: update %s: %v", u.Field, err)
			continue
		}
		log.Printf("settings: %s updated from companion", u.Field)
	}
	a.machine.SettingsChanged()
	a.sync()
}

func (a *app) heartbeat() {
	if net := a.network(); net != nil {
		a.tracker.SetNetwork(net)
	}
	a.sync()
	c := a.machine.Counts()
	log.Printf("heartbeat: state=%s arms=%d alerts=%d cancels=%d",
		a.machine.State(), c.Arms, c.AlertsSent, c.Cancels)
	a.publishStatus("HEARTBEAT", "")
}

// stop halts sampling and every machine timer, then announces shutdown.
func (a *app) stop(reason string) {
	for _, t := range a.timers {
		t.Stop()
	}
	a.timers = nil
	a.machine.Stop()
	a.sync()
	a.publishStatus("SHUTDOWN", reason)
}

// sync copies machine and settings state into the tracker.
func (a *app) sync() {
	a.tracker.Update(a.machine.State(), a.machine.Blocked(), a.machine.Remaining(), a.machine.Counts())
	_, configured := a.store.Passcode()
	a.tracker.SetSettings(configured, a.store.Countdown())
	if a.linkStatus != nil {
		a.tracker.SetLinkConnected(a.linkStatus.IsConnected())
	}
}

func (a *app) publishStatus(event, reason string) {
	snap := a.tracker.Snapshot()
	ev := companion.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   event != "HEARTBEAT",
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := a.link.PublishSystem(ev); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
		return
	}
	log.Printf("published %s event", event)
}
