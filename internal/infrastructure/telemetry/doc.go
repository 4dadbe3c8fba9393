// Package telemetry records device events to InfluxDB.
//
// Recording is optional (disabled by default) and strictly best-effort:
// writes are batched and asynchronous, and a telemetry failure never
// influences the control loop. Two measurements are written:
//
//   - output_state: the boolean output as 0/1, tagged by device, written
//     after each applied state change
//   - connectivity: link/broker lifecycle events (connect, reconnect,
//     fault, restart), for tracking how a remote device weathers its network
//
// Command payloads are never recorded; only resulting state and
// connectivity events are.
package telemetry
