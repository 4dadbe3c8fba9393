package netlink

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// nmcliBinary is resolved from PATH at Connect time.
const nmcliBinary = "nmcli"

// operstatePattern locates the kernel's link state file for an interface.
const operstatePattern = "/sys/class/net/%s/operstate"

// Manager establishes Wi-Fi connectivity through NetworkManager's nmcli.
//
// Connect runs a single association attempt; IsConnected reads the kernel's
// operstate for the interface, which is cheap enough for one-second polling.
type Manager struct {
	ssid     string
	password string
	iface    string

	// timeout bounds the nmcli invocation; a hung NetworkManager must not
	// stall startup past the configured link-wait ceiling.
	timeout time.Duration

	// binary and sysfsRoot are overridable for tests.
	binary    string
	sysfsRoot string
}

// NewManager creates a Wi-Fi link manager from configuration.
func NewManager(cfg config.WiFiConfig) *Manager {
	return &Manager{
		ssid:      cfg.SSID,
		password:  cfg.Password,
		iface:     cfg.Interface,
		timeout:   time.Duration(cfg.ConnectTimeout) * time.Second,
		binary:    nmcliBinary,
		sysfsRoot: "/",
	}
}

// Connect runs `nmcli dev wifi connect <ssid>` bound to the configured
// interface. The password never appears in error text or logs; nmcli output
// is discarded for the same reason.
//
// Connect only starts the association; the link is operational once
// IsConnected reports true, which the caller polls during its bounded wait.
func (m *Manager) Connect(ctx context.Context) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	args := []string{"dev", "wifi", "connect", m.ssid}
	if m.password != "" {
		args = append(args, "password", m.password)
	}
	if m.iface != "" {
		args = append(args, "ifname", m.iface)
	}

	cmd := exec.CommandContext(ctx, m.binary, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: nmcli connect %q on %q: %v", ErrConnectFailed, m.ssid, m.iface, exitReason(err))
	}

	return nil
}

// exitReason reduces an exec error to its exit status, keeping command
// output (which can echo credentials) out of the error chain.
func exitReason(err error) string {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Sprintf("exit status %d", exitErr.ExitCode())
	}
	return err.Error()
}

// IsConnected reads the interface operstate from sysfs.
// "up" means the link carries traffic; anything else (down, dormant,
// unknown, or a missing interface) reports false.
func (m *Manager) IsConnected() bool {
	path := filepath.Join(m.sysfsRoot, fmt.Sprintf(operstatePattern, m.iface))
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(data)) == "up"
}
