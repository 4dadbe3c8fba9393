// Package identity derives the device's MQTT identity.
//
// The identity is computed once at startup from the configured namespace and
// identifier plus a hardware unique id (machine id, falling back to a MAC
// address, falling back to a random UUID). It yields the client id and the
// command/status topic pair and is immutable thereafter.
package identity
