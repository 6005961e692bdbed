package web

import (
	"fmt"
	"html/template"
	"io"
	"log"
	"time"

	"github.com/sweeney/sign-lamp/internal/status"
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
	"phaseOrUnknown": func(s string) string {
		if s == "" {
			return "UNKNOWN"
		}
		return s
	},
	"clock": func(t time.Time) string {
		if t.IsZero() {
			return "—"
		}
		return t.Format("15:04")
	},
	"pct": func(duty, max int) int {
		if max == 0 {
			return 0
		}
		return duty * 100 / max
	},
	"onOff": func(b bool) string {
		if b {
			return "ON"
		}
		return "OFF"
	},
}).Parse(indexHTML))

const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<meta http-equiv="refresh" content="30">
<title>Sign Lamp</title>
<style>
body { font-family: monospace; max-width: 600px; margin: 2em auto; padding: 0 1em; }
h1 { font-size: 1.4em; }
table { border-collapse: collapse; width: 100%; margin: 1em 0; }
td, th { text-align: left; padding: 4px 8px; border-bottom: 1px solid #ddd; }
th { width: 40%; }
.dark { color: #225; font-weight: bold; }
.light { color: #b80; font-weight: bold; }
.unknown { color: orange; }
.on { color: green; font-weight: bold; }
.off { color: #888; }
.connected { color: green; }
.disconnected { color: red; }
.bar { background: #eee; height: 10px; width: 100%; }
.bar span { display: block; background: #fc0; height: 10px; }
</style>
</head>
<body>
<h1>Sign Lamp</h1>

<table>
<tr><th>Phase</th><td class="{{if eq (phaseOrUnknown (printf "%s" .Phase)) "DARK"}}dark{{else if eq (phaseOrUnknown (printf "%s" .Phase)) "LIGHT"}}light{{else}}unknown{{end}}">{{phaseOrUnknown (printf "%s" .Phase)}}</td></tr>
<tr><th>Output duty</th><td>{{.CurrentDuty}} / {{.Config.MaxDuty}} ({{pct .CurrentDuty .Config.MaxDuty}}%)
<div class="bar"><span style="width: {{pct .CurrentDuty .Config.MaxDuty}}%"></span></div></td></tr>
<tr><th>Target duty</th><td>{{.TargetDuty}}</td></tr>
{{if .SolarValid}}
<tr><th>Sunrise</th><td>{{clock .Sunrise}}</td></tr>
<tr><th>Sunset</th><td>{{clock .Sunset}}</td></tr>
{{else}}
<tr><th>Sun times</th><td class="unknown">unavailable (always-dark fallback)</td></tr>
{{end}}
<tr><th>Override</th><td>{{if .Override.Active}}<span class="on">ACTIVE</span> (lamp {{onOff .Override.On}}){{else}}<span class="off">inactive</span>{{end}}</td></tr>
<tr><th>Time synced</th><td>{{if .TimeSynced}}<span class="connected">yes</span>{{else}}<span class="disconnected">waiting</span>{{end}}</td></tr>
<tr><th>Uptime</th><td>{{uptime .Uptime}}</td></tr>
<tr><th>MQTT</th><td>{{if .MQTTConnected}}<span class="connected">connected</span>{{else}}<span class="disconnected">disconnected</span>{{end}} ({{.Config.Broker}})</td></tr>
</table>

<h1>Counters</h1>
<table>
<tr><th>Ticks</th><td>{{.Counts.Ticks}}</td></tr>
<tr><th>Dark transitions</th><td>{{.Counts.DarkTransitions}}</td></tr>
<tr><th>Light transitions</th><td>{{.Counts.LightTransitions}}</td></tr>
<tr><th>Button toggles</th><td>{{.Counts.ButtonToggles}}</td></tr>
<tr><th>Fade steps written</th><td>{{.Counts.FadeStepsWritten}}</td></tr>
</table>

{{if .Network}}
<h1>Network</h1>
<table>
<tr><th>Type</th><td>{{.Network.Type}}</td></tr>
<tr><th>IP</th><td>{{.Network.IP}}</td></tr>
<tr><th>Status</th><td>{{.Network.Status}}</td></tr>
{{if .Network.SSID}}<tr><th>SSID</th><td>{{.Network.SSID}}</td></tr>{{end}}
</table>
{{end}}

<h1>Config</h1>
<table>
<tr><th>Site</th><td>{{printf "%.4f" .Config.Latitude}}, {{printf "%.4f" .Config.Longitude}}</td></tr>
<tr><th>UTC offset (std/dst)</th><td>{{.Config.StdOffsetHours}} / {{.Config.DSTOffsetHours}}</td></tr>
<tr><th>Tick</th><td>{{.Config.TickMs}} ms</td></tr>
<tr><th>Mode</th><td>{{.Config.Mode}}</td></tr>
<tr><th>Policy</th><td>{{.Config.Policy}}</td></tr>
<tr><th>Fade step</th><td>{{.Config.FadeStepMs}} ms</td></tr>
</table>

<p><a href="/index.json">JSON</a></p>
</body>
</html>`

// renderHTML writes the status page. Template errors are logged, not fatal;
// the page is best-effort.
func renderHTML(w io.Writer, snap status.Snapshot) {
	if err := indexTmpl.Execute(w, snap); err != nil {
		log.Printf("web: render template: %v", err)
	}
}
