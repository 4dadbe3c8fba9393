package command

import (
	"bytes"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		expected Command
	}{
		{
			name:     "plain on",
			raw:      []byte("on"),
			expected: On,
		},
		{
			name:     "plain off",
			raw:      []byte("off"),
			expected: Off,
		},
		{
			name:     "upper case",
			raw:      []byte("ON"),
			expected: On,
		},
		{
			name:     "mixed case",
			raw:      []byte("oFf"),
			expected: Off,
		},
		{
			name:     "padded with whitespace",
			raw:      []byte("  on\n"),
			expected: On,
		},
		{
			name:     "double quoted",
			raw:      []byte(`"ON"`),
			expected: On,
		},
		{
			name:     "single quoted",
			raw:      []byte("'off'"),
			expected: Off,
		},
		{
			name:     "crlf terminated",
			raw:      []byte("OFF\r\n"),
			expected: Off,
		},
		{
			name:     "prefix tolerance",
			raw:      []byte("ON_CONFIRMED"),
			expected: On,
		},
		{
			name:     "off prefix tolerance",
			raw:      []byte("OFFLINE"),
			expected: Off,
		},
		{
			name:     "embedded null bytes",
			raw:      []byte("O\x00N"),
			expected: On,
		},
		{
			name:     "only null bytes",
			raw:      []byte("\x00\x00"),
			expected: Unrecognized,
		},
		{
			name:     "unknown verb",
			raw:      []byte("toggle"),
			expected: Unrecognized,
		},
		{
			name:     "empty payload",
			raw:      []byte{},
			expected: Unrecognized,
		},
		{
			name:     "nil payload",
			raw:      nil,
			expected: Unrecognized,
		},
		{
			name:     "invalid utf8",
			raw:      []byte{0xff, 0xfe, 0xfd},
			expected: Unrecognized,
		},
		{
			name:     "trailing invalid utf8 after quoted command",
			raw:      []byte("\"on\"\xff"),
			expected: On,
		},
		{
			name:     "o alone",
			raw:      []byte("o"),
			expected: Unrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Normalize(tt.raw)
			if result != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.raw, result, tt.expected)
			}
		})
	}
}

// Normalising the canonical form again must yield the same classification.
func TestNormalize_Idempotent(t *testing.T) {
	payloads := [][]byte{
		[]byte("  on\n"),
		[]byte(`"OFF"`),
		[]byte("ON_CONFIRMED"),
		[]byte("toggle"),
		[]byte("\x00\x00"),
		{},
	}

	for _, raw := range payloads {
		first := Normalize(raw)
		second := Normalize([]byte(Canonical(raw)))
		if first != second {
			t.Errorf("Normalize(%q) = %v, but Normalize(Canonical(...)) = %v", raw, first, second)
		}
	}
}

func TestNormalize_OversizedPayload(t *testing.T) {
	// A payload far beyond any reasonable command must classify, not crash.
	raw := bytes.Repeat([]byte("x"), 1<<20)

	if got := Normalize(raw); got != Unrecognized {
		t.Errorf("Normalize(1MB garbage) = %v, want Unrecognized", got)
	}

	padded := append(append([]byte("  \"on"), bytes.Repeat([]byte("!"), 1<<20)...), '"')
	if got := Normalize(padded); got != On {
		t.Errorf("Normalize(1MB on-prefixed) = %v, want On", got)
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		raw      []byte
		expected string
	}{
		{
			name:     "quoted and padded",
			raw:      []byte(" 'on'\r\n"),
			expected: "ON",
		},
		{
			name:     "embedded nulls removed",
			raw:      []byte("o\x00ff"),
			expected: "OFF",
		},
		{
			name:     "empty",
			raw:      []byte{},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Canonical(tt.raw)
			if result != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.raw, result, tt.expected)
			}
		})
	}
}

func TestCommand_String(t *testing.T) {
	tests := []struct {
		cmd      Command
		expected string
	}{
		{On, "on"},
		{Off, "off"},
		{Unrecognized, "unrecognized"},
		{Command(99), "unrecognized"},
	}

	for _, tt := range tests {
		if got := tt.cmd.String(); got != tt.expected {
			t.Errorf("Command(%d).String() = %q, want %q", int(tt.cmd), got, tt.expected)
		}
	}
}

func TestNormalize_NeverPanics(t *testing.T) {
	// A spread of awkward byte sequences; the function must always return.
	inputs := [][]byte{
		nil,
		{0x00},
		{0xc3},       // truncated utf8 sequence
		{0xe2, 0x80}, // truncated multibyte
		[]byte(strings.Repeat("'", 1000)),
		[]byte("\r\n\r\n\r\n"),
	}

	for _, raw := range inputs {
		got := Normalize(raw)
		if got != On && got != Off && got != Unrecognized {
			t.Errorf("Normalize(%v) returned out-of-range command %d", raw, int(got))
		}
	}
}
