package command

import (
	"strings"
	"unicode/utf8"
)

// Command is the canonical form of an inbound actuator command.
type Command int

const (
	// Unrecognized is any payload that does not normalise to a known command.
	// It never causes a hardware change or a status publish.
	Unrecognized Command = iota

	// On switches the output on.
	On

	// Off switches the output off.
	Off
)

// String returns a human-readable name for logging.
func (c Command) String() string {
	switch c {
	case On:
		return "on"
	case Off:
		return "off"
	default:
		return "unrecognized"
	}
}

// cutset is every character stripped from the edges of a payload: whitespace,
// line endings, and both quote styles. Some broker/client combinations wrap
// payloads in quotes or append line endings.
const cutset = " \t\n\r\"'"

// Normalize parses a raw inbound payload into a Command.
//
// The payload arrives from a public broker and is untrusted: it may be empty,
// quoted, padded, interleaved with null bytes, not valid UTF-8, or arbitrarily
// large. Normalize never fails; anything it cannot classify is Unrecognized.
//
// Cleaning steps:
//  1. Replace invalid UTF-8 sequences with the replacement character
//  2. Strip leading/trailing whitespace, CR/LF, and single/double quotes
//  3. Remove embedded null bytes anywhere in the payload
//  4. Upper-case the result
//
// Classification is by prefix, not equality: "ON_CONFIRMED" is On. Prefix
// matching tolerates trailing garbage appended by some MQTT client stacks.
func Normalize(raw []byte) Command {
	cleaned := Canonical(raw)

	switch {
	case strings.HasPrefix(cleaned, "ON"):
		return On
	case strings.HasPrefix(cleaned, "OFF"):
		return Off
	default:
		return Unrecognized
	}
}

// Canonical returns the cleaned, upper-cased form of a raw payload.
// Useful for logging what an unrecognised payload looked like after cleaning.
func Canonical(raw []byte) string {
	s := string(raw)
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}

	s = strings.Trim(s, cutset)
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.ToUpper(s)
}
