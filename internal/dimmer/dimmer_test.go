package dimmer

import (
	"errors"
	"testing"
	"time"

	"github.com/sweeney/sign-lamp/internal/pwm"
)

func noSleep(time.Duration) {}

func TestSetWritesOnce(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	if err := d.Set(100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Writes) != 1 {
		t.Fatalf("expected exactly 1 write, got %d: %v", len(out.Writes), out.Writes)
	}
	if out.Writes[0] != 100 {
		t.Errorf("write: got %d, want 100", out.Writes[0])
	}
	if d.Current() != 100 || d.Target() != 100 {
		t.Errorf("current/target: got %d/%d, want 100/100", d.Current(), d.Target())
	}
}

func TestSetClampsToMaxDuty(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	if err := d.Set(500); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Current() != 192 {
		t.Errorf("current: got %d, want 192", d.Current())
	}

	if err := d.Set(-3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Current() != 0 {
		t.Errorf("current: got %d, want 0", d.Current())
	}
}

func TestFadeToVisitsEveryValueUpward(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	if err := d.FadeTo(192, DefaultStepDelay, noSleep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Writes) != 192 {
		t.Fatalf("expected 192 writes, got %d", len(out.Writes))
	}
	for i, w := range out.Writes {
		if w != i+1 {
			t.Fatalf("write %d: got %d, want %d (monotonic, no skips)", i, w, i+1)
		}
	}
	if d.Current() != 192 {
		t.Errorf("final current: got %d, want 192", d.Current())
	}
}

func TestFadeToVisitsEveryValueDownward(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)
	if err := d.Set(150); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	if err := d.FadeTo(50, DefaultStepDelay, noSleep); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Writes) != 100 {
		t.Fatalf("expected 100 writes, got %d", len(out.Writes))
	}
	for i, w := range out.Writes {
		if w != 149-i {
			t.Fatalf("write %d: got %d, want %d", i, w, 149-i)
		}
	}
	if d.Current() != 50 {
		t.Errorf("final current: got %d, want 50", d.Current())
	}
}

func TestFadeToIdempotent(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)
	if err := d.Set(80); err != nil {
		t.Fatal(err)
	}
	out.Reset()

	slept := 0
	if err := d.FadeTo(80, DefaultStepDelay, func(time.Duration) { slept++ }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Writes) != 0 {
		t.Errorf("fade to current duty should perform zero writes, got %v", out.Writes)
	}
	if slept != 0 {
		t.Errorf("fade to current duty should not sleep, slept %d times", slept)
	}
}

func TestFadeToSleepsPerStep(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	var total time.Duration
	if err := d.FadeTo(10, 20*time.Millisecond, func(dur time.Duration) { total += dur }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 10 steps at 20ms each.
	if total != 200*time.Millisecond {
		t.Errorf("total sleep: got %v, want 200ms", total)
	}
}

func TestStepDrivenFade(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	d.SetTarget(3)
	if len(out.Writes) != 0 {
		t.Fatalf("SetTarget must not write, got %v", out.Writes)
	}
	if !d.Fading() {
		t.Fatal("expected Fading after SetTarget")
	}

	for i, wantDone := range []bool{false, false, true} {
		done, err := d.Step()
		if err != nil {
			t.Fatalf("step %d: unexpected error: %v", i, err)
		}
		if done != wantDone {
			t.Errorf("step %d: done=%v, want %v", i, done, wantDone)
		}
	}

	if d.Fading() {
		t.Error("fade should be complete")
	}
	// Step at target is a no-op.
	done, err := d.Step()
	if err != nil || !done {
		t.Errorf("step at target: got done=%v err=%v, want true nil", done, err)
	}
	if len(out.Writes) != 3 {
		t.Errorf("expected 3 writes, got %v", out.Writes)
	}
}

func TestSetCancelsFade(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	d.SetTarget(100)
	for i := 0; i < 40; i++ {
		if _, err := d.Step(); err != nil {
			t.Fatal(err)
		}
	}
	if d.Current() != 40 {
		t.Fatalf("mid-fade current: got %d, want 40", d.Current())
	}

	// A press under the latch policy lands here: instant write mid-fade.
	if err := d.Set(192); err != nil {
		t.Fatal(err)
	}
	if d.Fading() {
		t.Error("Set must cancel the fade")
	}
	if out.Last() != 192 {
		t.Errorf("last write: got %d, want 192", out.Last())
	}
}

func TestStepRetriesAfterWriteError(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 192)

	d.SetTarget(2)
	out.WriteError = errors.New("simulated error")

	if _, err := d.Step(); err == nil {
		t.Fatal("expected error")
	}
	if d.Current() != 0 {
		t.Errorf("failed write must not advance current, got %d", d.Current())
	}

	out.WriteError = nil
	done, err := d.Step()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if done {
		t.Error("first successful step of two should not be done")
	}
	if out.Last() != 1 {
		t.Errorf("retried write: got %d, want 1", out.Last())
	}
}

func TestNewClampsMaxDutyToScale(t *testing.T) {
	out := pwm.NewFakeWriter()
	d := New(out, 1000)
	if d.MaxDuty() != pwm.Scale {
		t.Errorf("maxDuty: got %d, want %d", d.MaxDuty(), pwm.Scale)
	}
}
