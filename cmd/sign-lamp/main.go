// Command sign-lamp drives an address-sign LED fixture: off during daylight,
// a configured brightness after dusk, based on locally calculated sunrise
// and sunset times, with a momentary button override.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/sign-lamp/internal/button"
	"github.com/sweeney/sign-lamp/internal/dimmer"
	"github.com/sweeney/sign-lamp/internal/logic"
	"github.com/sweeney/sign-lamp/internal/mqtt"
	"github.com/sweeney/sign-lamp/internal/pwm"
	"github.com/sweeney/sign-lamp/internal/solar"
	"github.com/sweeney/sign-lamp/internal/status"
	"github.com/sweeney/sign-lamp/internal/web"
)

// timeSyncYear gates the control loop until NTP has landed: a Pi without an
// RTC boots with an epoch-adjacent clock, and solar math on that date would
// be garbage.
const timeSyncYear = 2020

func main() {
	lat := flag.Float64("lat", 41.2565, "Site latitude in decimal degrees (+ is north)")
	lon := flag.Float64("lon", -95.9345, "Site longitude in decimal degrees (+ is east)")
	tzOffset := flag.Int("tz-offset", -6, "Standard-time UTC offset in hours")
	dstOffset := flag.Int("dst-offset", -5, "Daylight-saving UTC offset in hours")
	tick := flag.Duration("tick", time.Minute, "Control tick interval")
	maxDuty := flag.Int("max-duty", 192, fmt.Sprintf("Duty commanded when dark (0-%d)", pwm.Scale))
	fadeStep := flag.Duration("fade-step", dimmer.DefaultStepDelay, "Delay between fade steps")
	modeFlag := flag.String("mode", "fade", `Transition mode: "instant" or "fade"`)
	policyFlag := flag.String("policy", "latch", `Button override policy: "latch" or "tracksun"`)
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")
	pwmPin := flag.String("pwm-pin", pwm.DefaultPin, "MOSFET gate pin name")
	buttonPin := flag.Int("button-pin", button.DefaultPin, "Button BCM pin number")
	printSun := flag.Bool("print-sun", false, "Print today's sunrise/sunset and exit")

	flag.Parse()

	place := solar.Place{
		Latitude:       *lat,
		Longitude:      *lon,
		StdOffsetHours: *tzOffset,
		DSTOffsetHours: *dstOffset,
	}

	policy, ok := logic.ParsePolicy(*policyFlag)
	if !ok {
		log.Fatalf("invalid -policy %q (want latch or tracksun)", *policyFlag)
	}
	mode, ok := logic.ParseMode(*modeFlag)
	if !ok {
		log.Fatalf("invalid -mode %q (want instant or fade)", *modeFlag)
	}
	if *maxDuty < 0 || *maxDuty > pwm.Scale {
		log.Fatalf("invalid -max-duty %d (want 0-%d)", *maxDuty, pwm.Scale)
	}

	// Print sun times mode
	if *printSun {
		day := place.Day(time.Now())
		if !day.Valid {
			fmt.Printf("%s: sun never rises or never sets at this latitude\n", day.Date.Format("2006-01-02"))
			return
		}
		fmt.Printf("%s: sunrise %s, sunset %s\n",
			day.Date.Format("2006-01-02"),
			day.Sunrise.Format("15:04"),
			day.Sunset.Format("15:04"))
		return
	}

	if err := run(place, policy, mode, *maxDuty, *tick, *fadeStep, *heartbeat, *broker, *httpAddr, *pwmPin, *buttonPin); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run(place solar.Place, policy logic.Policy, mode logic.Mode, maxDuty int, tick, fadeStep, heartbeat time.Duration, broker, httpAddr, pwmPin string, buttonPin int) error {
	// Initialize the output and start with the lamp off.
	out, err := pwm.NewRealWriter(pwmPin)
	if err != nil {
		return fmt.Errorf("init pwm: %w", err)
	}
	defer out.Close()

	dim := dimmer.New(out, maxDuty)
	if err := dim.Set(0); err != nil {
		return fmt.Errorf("clear output: %w", err)
	}

	// Initialize the button
	btn, err := button.NewRealSource(buttonPin)
	if err != nil {
		return fmt.Errorf("init button: %w", err)
	}
	defer btn.Close()

	// Initialize MQTT
	publisher := mqtt.NewRealPublisher(broker)
	defer publisher.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		Latitude:       place.Latitude,
		Longitude:      place.Longitude,
		StdOffsetHours: place.StdOffsetHours,
		DSTOffsetHours: place.DSTOffsetHours,
		TickMs:         tick.Milliseconds(),
		MaxDuty:        maxDuty,
		FadeStepMs:     fadeStep.Milliseconds(),
		Mode:           string(mode),
		Policy:         string(policy),
		Broker:         broker,
		HTTPAddr:       httpAddr,
		HeartbeatMs:    heartbeat.Milliseconds(),
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if httpAddr != "" {
		srv := web.New(httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", httpAddr)
	}

	log.Printf("started: site=%.4f,%.4f tick=%v mode=%s policy=%s max-duty=%d broker=%s",
		place.Latitude, place.Longitude, tick, mode, policy, maxDuty, broker)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	// Hold off all solar computation until the clock is believable.
	retry := time.NewTicker(time.Second)
	synced := awaitTimeSync(time.Now, retry.C, sigCh)
	retry.Stop()
	if !synced {
		return nil
	}
	tracker.SetTimeSynced(true)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	stepTicker := time.NewTicker(fadeStep)
	defer stepTicker.Stop()

	cfg := loopConfig{
		place:     place,
		policy:    policy,
		mode:      mode,
		maxDuty:   maxDuty,
		heartbeat: heartbeat,
	}
	return runLoop(cfg, dim, publisher, publisher, tracker, time.Now, ticker.C, stepTicker.C, btn.Edges(), sigCh)
}

// awaitTimeSync blocks until the wall clock reports a plausible year,
// re-checking on every retry tick. Returns false if a shutdown signal
// arrives first.
func awaitTimeSync(now func() time.Time, retry <-chan time.Time, sig <-chan os.Signal) bool {
	logged := false
	for {
		if now().Year() >= timeSyncYear {
			if logged {
				log.Printf("time sync detected: %s", now().Format("2006-01-02 15:04:05"))
			}
			return true
		}
		if !logged {
			log.Printf("waiting for time sync (clock reads %s)", now().Format("2006-01-02 15:04:05"))
			logged = true
		}
		select {
		case <-retry:
		case s := <-sig:
			log.Printf("received %v while waiting for time sync, shutting down", s)
			return false
		}
	}
}

// loopConfig carries the fixed parameters of the control loop.
type loopConfig struct {
	place     solar.Place
	policy    logic.Policy
	mode      logic.Mode
	maxDuty   int
	heartbeat time.Duration
}

// runLoop is the control loop: one immediate tick, then event-driven.
// Ticks recompute the solar day and decide the target; step ticks advance an
// in-progress fade; button edges toggle the override. Everything runs on
// this one goroutine, so a fade never blocks a button press.
func runLoop(cfg loopConfig, dim *dimmer.Dimmer, publisher mqtt.Publisher, mqttStatus mqtt.ConnectionStatus, tracker *status.Tracker, now func() time.Time, ticks, steps <-chan time.Time, edges <-chan button.Edge, sig <-chan os.Signal) error {
	decider := logic.NewDecider(cfg.policy, cfg.maxDuty)
	override := &logic.Override{}
	debounce := logic.NewDebounce(logic.DefaultDebounce)

	var counts status.Counts
	lastHeartbeat := now()

	doTick := func(t time.Time) {
		counts.Ticks++
		day := cfg.place.Day(t)
		if !day.Valid {
			log.Printf("solar events unavailable for %s, treating as dark", day.Date.Format("2006-01-02"))
		}
		ov := override.State()
		dec := decider.Decide(t, day, ov)

		log.Printf("tick: now=%s sunrise=%s sunset=%s phase=%s override=%v lamp_on=%v duty=%d target=%d",
			t.Format("2006-01-02 15:04:05"), clockOrDash(day.Sunrise, day.Valid), clockOrDash(day.Sunset, day.Valid),
			dec.Phase, ov.Active, ov.On, dim.Current(), dec.Target)

		if dec.Changed {
			evType := logic.EventLight
			if dec.Phase == logic.PhaseDark {
				evType = logic.EventDark
				counts.DarkTransitions++
			} else {
				counts.LightTransitions++
			}
			event := logic.Event{Timestamp: t, Type: evType, Phase: dec.Phase, Duty: dec.Target, Override: ov}
			log.Printf("event: %s (target=%d)", event.Type, event.Duty)
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
			}
		}

		if dec.Act {
			if cfg.mode == logic.ModeFade {
				dim.SetTarget(dec.Target)
			} else if err := dim.Set(dec.Target); err != nil {
				log.Printf("output write error: %v", err)
			}
		}

		// Check for heartbeat
		if cfg.heartbeat > 0 && t.Sub(lastHeartbeat) >= cfg.heartbeat {
			lastHeartbeat = t
			log.Printf("heartbeat: ticks=%d dark=%d light=%d toggles=%d",
				counts.Ticks, counts.DarkTransitions, counts.LightTransitions, counts.ButtonToggles)

			if net := readNetworkInfo(); net != nil {
				tracker.SetNetwork(net)
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			tracker.Update(dec.Phase, ov, dim.Current(), dim.Target(), day, counts)
			hbEvent := mqtt.SystemEvent{
				Timestamp:  t,
				Event:      "HEARTBEAT",
				RawPayload: status.FormatStatusEvent(tracker.Snapshot(), "HEARTBEAT", ""),
			}
			if err := publisher.PublishSystem(hbEvent); err != nil {
				log.Printf("heartbeat publish error: %v", err)
			}
		}

		// Update status tracker for HTTP consumers
		if mqttStatus != nil {
			tracker.SetMQTTConnected(mqttStatus.IsConnected())
		}
		tracker.Update(dec.Phase, ov, dim.Current(), dim.Target(), day, counts)
	}

	// First tick immediately; the ticker only fires after one interval.
	doTick(now())

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// Leave the output in a defined state.
			if err := dim.Set(0); err != nil {
				log.Printf("output write error: %v", err)
			}
			tracker.SetDuty(dim.Current(), dim.Target())

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if mqttStatus != nil {
				tracker.SetMQTTConnected(mqttStatus.IsConnected())
			}
			event.RawPayload = status.FormatStatusEvent(tracker.Snapshot(), "SHUTDOWN", signalName)
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case t := <-ticks:
			doTick(t)

		case <-steps:
			if !dim.Fading() {
				continue
			}
			done, err := dim.Step()
			if err != nil {
				log.Printf("output write error: %v", err)
				continue
			}
			counts.FadeStepsWritten++
			tracker.SetDuty(dim.Current(), dim.Target())
			tracker.SetCounts(counts)
			if done {
				log.Printf("fade complete: duty=%d", dim.Current())
			}

		case e := <-edges:
			if !debounce.Accept(e.Time) {
				continue
			}
			st := override.Toggle(cfg.policy)
			counts.ButtonToggles++
			log.Printf("button: override=%v lamp_on=%v policy=%s", st.Active, st.On, cfg.policy)

			if cfg.policy == logic.PolicyLatch {
				// The press itself drives the output, instant mode,
				// regardless of any fade in progress.
				target := 0
				if st.On {
					target = cfg.maxDuty
				}
				if err := dim.Set(target); err != nil {
					log.Printf("output write error: %v", err)
				}
			}

			evType := logic.EventOverrideOff
			if st.Active {
				evType = logic.EventOverrideOn
			}
			event := logic.Event{Timestamp: e.Time, Type: evType, Phase: decider.Phase(), Duty: dim.Target(), Override: st}
			if err := publisher.Publish(event); err != nil {
				log.Printf("publish error: %v", err)
			}

			tracker.SetOverride(st)
			tracker.SetDuty(dim.Current(), dim.Target())
			tracker.SetCounts(counts)
		}
	}
}

func clockOrDash(t time.Time, valid bool) string {
	if !valid {
		return "-"
	}
	return t.Format("15:04")
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
