package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/wyohack/ledctl/internal/infrastructure/mqtt"
)

func commandMsg(payload string) mqtt.Message {
	return mqtt.Message{
		Topic:   "wyohack/dev1/led/command",
		Payload: []byte(payload),
	}
}

func TestDispatch_OnAppliesBeforePublishing(t *testing.T) {
	f := newFixtures()
	ctrl := newTestController(t, testConfig(), f)

	if err := ctrl.dispatch(commandMsg("ON")); err != nil {
		t.Fatalf("dispatch() error = %v", err)
	}

	events := f.trace.snapshot()
	setIdx := indexOf(events, "sink.set:ON")
	pubIdx := indexOf(events, "publish:ON")
	if setIdx < 0 || pubIdx < 0 {
		t.Fatalf("trace missing events: %v", events)
	}
	if setIdx > pubIdx {
		t.Errorf("status published before output applied: %v", events)
	}

	if !ctrl.OutputOn() {
		t.Error("OutputOn() = false, want true")
	}
}

func TestDispatch_OffAfterOn(t *testing.T) {
	f := newFixtures()
	ctrl := newTestController(t, testConfig(), f)

	if err := ctrl.dispatch(commandMsg("ON")); err != nil {
		t.Fatalf("dispatch(ON) error = %v", err)
	}
	if err := ctrl.dispatch(commandMsg("OFF")); err != nil {
		t.Fatalf("dispatch(OFF) error = %v", err)
	}

	if ctrl.OutputOn() {
		t.Error("OutputOn() = true, want false")
	}
	if got := ctrl.Stats().CommandsApplied; got != 2 {
		t.Errorf("Stats().CommandsApplied = %d, want 2", got)
	}
}

func TestDispatch_MessyPayloadsStillApply(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantOn  bool
	}{
		{"quoted on", `"ON"`, true},
		{"lowercase off", "off", false},
		{"padded with newline", " on\n", true},
		{"trailing garbage", "ON_CONFIRMED", true},
		{"single quoted off", "'OFF'", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixtures()
			ctrl := newTestController(t, testConfig(), f)

			if err := ctrl.dispatch(commandMsg(tt.payload)); err != nil {
				t.Fatalf("dispatch(%q) error = %v", tt.payload, err)
			}
			if got := ctrl.OutputOn(); got != tt.wantOn {
				t.Errorf("OutputOn() = %v, want %v", got, tt.wantOn)
			}
			if got := ctrl.Stats().CommandsApplied; got != 1 {
				t.Errorf("Stats().CommandsApplied = %d, want 1", got)
			}
		})
	}
}

func TestDispatch_UnrecognizedIsInert(t *testing.T) {
	f := newFixtures()
	ctrl := newTestController(t, testConfig(), f)

	payloads := []string{
		"", "TOGGLE", "1", "0", "true", "NO", "N", "enable",
		"\x00\x00", "💡",
	}
	for _, payload := range payloads {
		if err := ctrl.dispatch(commandMsg(payload)); err != nil {
			t.Fatalf("dispatch(%q) error = %v", payload, err)
		}
	}

	stats := ctrl.Stats()
	if got := stats.Unrecognized; got != uint64(len(payloads)) {
		t.Errorf("Stats().Unrecognized = %d, want %d", got, len(payloads))
	}
	if stats.CommandsApplied != 0 {
		t.Errorf("Stats().CommandsApplied = %d, want 0", stats.CommandsApplied)
	}
	if got := len(f.broker.publishedSnapshot()); got != 0 {
		t.Errorf("published %d status messages, want 0", got)
	}
	if got := len(f.sink.states); got != 0 {
		t.Errorf("sink received %d writes, want 0", got)
	}
	if ctrl.OutputOn() {
		t.Error("OutputOn() = true, want false")
	}
}

func TestDispatch_SinkFailureSkipsStateAndStatus(t *testing.T) {
	f := newFixtures()
	f.sink.err = fmt.Errorf("gpio: %w", errors.New("line busy"))
	ctrl := newTestController(t, testConfig(), f)

	if err := ctrl.dispatch(commandMsg("ON")); err != nil {
		t.Fatalf("dispatch() error = %v, want nil (sink faults are not transport faults)", err)
	}

	if ctrl.OutputOn() {
		t.Error("OutputOn() = true, want false after failed Set")
	}
	if got := len(f.broker.publishedSnapshot()); got != 0 {
		t.Errorf("published %d status messages, want 0", got)
	}
	if got := ctrl.Stats().SinkFailures; got != 1 {
		t.Errorf("Stats().SinkFailures = %d, want 1", got)
	}
}

func TestDispatch_PublishFailureKeepsState(t *testing.T) {
	f := newFixtures()
	f.broker.publishErr = mqtt.ErrPublishFailed
	ctrl := newTestController(t, testConfig(), f)

	err := ctrl.dispatch(commandMsg("ON"))
	if !errors.Is(err, mqtt.ErrPublishFailed) {
		t.Fatalf("dispatch() error = %v, want ErrPublishFailed", err)
	}

	if !ctrl.OutputOn() {
		t.Error("OutputOn() = false, want true (hardware changed before publish)")
	}
	if got := ctrl.Stats().PublishFailures; got != 1 {
		t.Errorf("Stats().PublishFailures = %d, want 1", got)
	}
}

func TestStatusPayload(t *testing.T) {
	if got := statusPayload(true); got != "ON" {
		t.Errorf("statusPayload(true) = %q, want %q", got, "ON")
	}
	if got := statusPayload(false); got != "OFF" {
		t.Errorf("statusPayload(false) = %q, want %q", got, "OFF")
	}
}
