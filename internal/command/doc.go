// Package command normalises raw MQTT payloads into actuator commands.
//
// Inbound payloads come from a public broker and are treated as hostile
// input: quoting, padding, embedded nulls, invalid UTF-8 and trailing noise
// are all tolerated. Normalisation is a pure function with no side effects;
// malformed input is classified as Unrecognized rather than surfaced as an
// error, so a garbage topic can never trip the controller's fault handling.
package command
