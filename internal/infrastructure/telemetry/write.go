package telemetry

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// RecordState writes an output state change.
//
// The write is non-blocking; data is batched and sent asynchronously.
//
// Parameters:
//   - deviceID: The device identifier
//   - on: The state actually applied to the hardware
func (c *Client) RecordState(deviceID string, on bool) {
	if !c.IsConnected() {
		return
	}

	value := 0
	if on {
		value = 1
	}

	point := write.NewPoint(
		"output_state",
		map[string]string{
			"device_id": deviceID,
		},
		map[string]interface{}{
			"value": value,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}

// RecordEvent writes a connectivity lifecycle event.
//
// Used for tracking how often an unattended device loses and regains its
// link or broker session.
//
// Parameters:
//   - deviceID: The device identifier
//   - phase: The affected layer ("link" or "broker")
//   - event: The event kind ("connect", "reconnect", "fault", "restart")
func (c *Client) RecordEvent(deviceID, phase, event string) {
	if !c.IsConnected() {
		return
	}

	point := write.NewPoint(
		"connectivity",
		map[string]string{
			"device_id": deviceID,
			"phase":     phase,
		},
		map[string]interface{}{
			"event": event,
		},
		time.Now(),
	)

	c.writeAPI.WritePoint(point)
}
