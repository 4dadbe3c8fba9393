package controller

import (
	"fmt"

	"github.com/wyohack/ledctl/internal/command"
	"github.com/wyohack/ledctl/internal/infrastructure/mqtt"
)

// dispatch normalises one inbound message and acts on it.
//
// Unrecognised payloads are logged and counted; they never change the output
// or produce a status publish. A returned error means the broker session is
// suspect and the caller should run transient-fault recovery.
func (c *Controller) dispatch(msg mqtt.Message) error {
	cmd := command.Normalize(msg.Payload)

	switch cmd {
	case command.On:
		return c.apply(true)
	case command.Off:
		return c.apply(false)
	default:
		c.bump(func(s *Stats) { s.Unrecognized++ })
		c.logger.Warn("unrecognized command payload",
			"topic", msg.Topic,
			"payload", command.Canonical(msg.Payload),
			"bytes", len(msg.Payload),
		)
		return nil
	}
}

// apply drives the output, then updates the tracked state, then publishes
// status. The ordering is deliberate: the status topic reports what the
// hardware is actually doing, so nothing is announced until Set succeeds.
//
// A sink failure leaves state and status untouched. A publish failure keeps
// the new state (the hardware did change) and surfaces as a transport error.
func (c *Controller) apply(on bool) error {
	if err := c.sink.Set(on); err != nil {
		c.bump(func(s *Stats) { s.SinkFailures++ })
		c.logger.Error("output apply failed",
			"requested", statusPayload(on),
			"error", err,
		)
		return nil
	}

	c.mu.Lock()
	c.outputOn = on
	c.stats.CommandsApplied++
	c.mu.Unlock()

	c.logger.Info("output state changed", "state", statusPayload(on))
	c.recordState(on)

	if err := c.broker.PublishString(c.id.StatusTopic(), statusPayload(on)); err != nil {
		c.bump(func(s *Stats) { s.PublishFailures++ })
		return fmt.Errorf("status publish: %w", err)
	}

	return nil
}

// statusPayload is the wire form of an output state on the status topic.
func statusPayload(on bool) string {
	if on {
		return "ON"
	}
	return "OFF"
}
