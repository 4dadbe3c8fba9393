package output

import (
	"fmt"

	gpiod "github.com/warthog618/go-gpiocdev"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// GPIO drives a single output line through the Linux GPIO character device.
type GPIO struct {
	chip *gpiod.Chip
	line *gpiod.Line
}

// newGPIO opens the configured chip and requests the line as an output,
// initially low (off). Requesting the line claims it exclusively until Close.
func newGPIO(cfg config.GPIOConfig) (*GPIO, error) {
	chip, err := gpiod.NewChip(cfg.Chip)
	if err != nil {
		return nil, fmt.Errorf("opening gpio chip %s: %w", cfg.Chip, err)
	}

	line, err := chip.RequestLine(cfg.Line, gpiod.AsOutput(0))
	if err != nil {
		_ = chip.Close()
		return nil, fmt.Errorf("requesting gpio line %d on %s: %w", cfg.Line, cfg.Chip, err)
	}

	return &GPIO{chip: chip, line: line}, nil
}

// Set implements Sink.
func (g *GPIO) Set(on bool) error {
	value := 0
	if on {
		value = 1
	}

	if err := g.line.SetValue(value); err != nil {
		return fmt.Errorf("%w: gpio set %d: %w", ErrSetFailed, value, err)
	}

	return nil
}

// Close releases the line and chip.
func (g *GPIO) Close() error {
	var errs []error
	if err := g.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing gpio line: %w", err))
	}
	if err := g.chip.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing gpio chip: %w", err))
	}
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}
