package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/quick-alert/internal/status"
)

var indexTmpl = template.Must(template.New("index").Funcs(template.FuncMap{
	"uptime": func(d time.Duration) string {
		d = d.Truncate(time.Second)
		days := int(d.Hours()) / 24
		h := int(d.Hours()) % 24
		m := int(d.Minutes()) % 60
		s := int(d.Seconds()) % 60
		if days > 0 {
			return fmt.Sprintf("%dd %dh %dm %ds", days, h, m, s)
		}
		if h > 0 {
			return fmt.Sprintf("%dh %dm %ds", h, m, s)
		}
		if m > 0 {
			return fmt.Sprintf("%dm %ds", m, s)
		}
		return fmt.Sprintf("%ds", s)
	},
	"stateClass": func(s string) string {
		switch s {
		case "ALERTING", "PASSCODE_ERROR":
			return "alarm"
		case "PASSCODE_ENTRY", "ARMING":
			return "armed"
		case "UNKNOWN":
			return "unknown"
		}
		return "calm"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="5">
<title>Quick Alert</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.calm { color: green; font-weight: bold; }
.armed { color: orange; font-weight: bold; }
.alarm { color: red; font-weight: bold; }
.unknown { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
</style>
</head>
<body>
<h1>Quick Alert{{if .Config.Device}} ({{.Config.Device}}){{end}}</h1>

<h2>State</h2>
<table>
<tr><th>State</th><td id="state" class="{{stateClass .StateName}}">{{.StateName}}</td></tr>
{{if .Entering}}<tr><th>Remaining</th><td id="remaining">{{.Remaining}}</td></tr>{{end}}
<tr><th>Passcode</th><td>{{if .PasscodeConfigured}}configured{{else}}<span class="alarm">not configured</span>{{end}}</td></tr>
<tr><th>Countdown</th><td>{{.Countdown}}</td></tr>
</table>

<h2>Companion</h2>
<table>
<tr><th>Link</th><td>{{.Config.Link}}</td></tr>
<tr><th>Status</th><td class="{{if .LinkConnected}}connected{{else}}disconnected{{end}}">{{if .LinkConnected}}connected{{else}}disconnected{{end}}</td></tr>
{{if .Config.Broker}}<tr><th>Broker</th><td>{{.Config.Broker}}</td></tr>{{end}}
{{if .Network}}<tr><th>Network</th><td>{{.Network.Status}} ({{.Network.Type}}{{if .Network.SSID}}, {{.Network.SSID}}{{end}})</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>{{end}}
</table>

<h2>Counts</h2>
<table>
<tr><th>Arms</th><td>{{.Counts.Arms}}</td></tr>
<tr><th>Alerts sent</th><td>{{.Counts.AlertsSent}}</td></tr>
<tr><th>Alert failures</th><td>{{.Counts.AlertFailures}}</td></tr>
<tr><th>Cancels</th><td>{{.Counts.Cancels}}</td></tr>
<tr><th>Wrong attempts</th><td>{{.Counts.WrongAttempts}}</td></tr>
</table>

<h2>System</h2>
<table>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>Started</th><td>{{.StartTime.UTC.Format "2006-01-02T15:04:05Z"}}</td></tr>
<tr><th>Poll</th><td>{{.Config.PollMs}}ms</td></tr>
<tr><th>Long press</th><td>{{.Config.LongPressMs}}ms</td></tr>
<tr><th>Heartbeat</th><td>{{if eq .Config.HeartbeatMs 0}}disabled{{else}}{{.Config.HeartbeatMs}}ms{{end}}</td></tr>
<tr><th>HTTP</th><td>{{.Config.HTTPAddr}}</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>
`

func renderHTML(w io.Writer, snap status.Snapshot) {
	// The template needs plain fields for the method results.
	data := struct {
		status.Snapshot
		StateName string
		Entering  bool
		Uptime    time.Duration
	}{
		Snapshot:  snap,
		StateName: snap.State.String(),
		Entering:  snap.State.Entering(),
		Uptime:    snap.Uptime(),
	}
	if err := indexTmpl.Execute(w, data); err != nil {
		log.Printf("web: render index: %v", err)
	}
}
