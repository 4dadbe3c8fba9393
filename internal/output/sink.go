package output

import (
	"errors"
	"fmt"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// Sentinel errors for output drivers.
var (
	// ErrSetFailed is returned when the driver cannot apply the requested value.
	ErrSetFailed = errors.New("output: set failed")

	// ErrUnknownDriver is returned for an unrecognised output.driver value.
	ErrUnknownDriver = errors.New("output: unknown driver")
)

// Sink is the physical boolean output the controller drives.
//
// Implementations must be safe to call from the single control loop; no
// concurrent use occurs. Set must only return nil once the value has actually
// been applied, because the controller's state mirror (and the status it
// publishes) follows a successful Set.
type Sink interface {
	// Set drives the output: true is on, false is off.
	Set(on bool) error

	// Close releases the underlying resource.
	Close() error
}

// New constructs the Sink selected by configuration.
//
// Drivers:
//   - "gpio": a GPIO character-device line (production hardware)
//   - "file": writes "0"/"1" to a file (containers, development)
//   - "null": discards writes (dry runs)
func New(cfg config.OutputConfig) (Sink, error) {
	switch cfg.Driver {
	case "gpio":
		return newGPIO(cfg.GPIO)
	case "file":
		return newFile(cfg.File.Path), nil
	case "null":
		return Null{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}

// Null is a Sink that discards writes. Used for dry runs and tests.
type Null struct{}

// Set implements Sink.
func (Null) Set(bool) error { return nil }

// Close implements Sink.
func (Null) Close() error { return nil }
