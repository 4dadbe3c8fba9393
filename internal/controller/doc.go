// Package controller implements the device's control loop.
//
// A single Controller owns the device identity, the tracked output state and
// the connection state of both connectivity layers. It runs one loop:
//
//	link up -> broker session -> subscribe -> poll / dispatch / publish
//
// Recovery policy is split by phase. Failures before the subscription is in
// place are fatal: the controller logs, waits, and invokes its Restarter to
// replace the whole process, returning the device to a known-clean state.
// Failures after that point are transient: the controller reconnects in
// place, retrying indefinitely, and resumes listening without a restart.
//
// Collaborators (link, broker, output sink, restarter, telemetry recorder)
// are consumed through interfaces declared in this package, keeping the loop
// testable with in-memory fakes.
package controller
