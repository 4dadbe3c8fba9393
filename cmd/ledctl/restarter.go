package main

import (
	"fmt"
	"os"
	"syscall"

	"github.com/wyohack/ledctl/internal/infrastructure/logging"
)

// restarter replaces the running process with a fresh copy of itself, the
// userspace analogue of a device reset. Every startup step runs again from
// a clean slate: link association, identity, broker session.
type restarter struct {
	log *logging.Logger
}

// Restart re-execs the current binary with the same arguments and
// environment. On success it does not return.
func (r *restarter) Restart() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolving executable: %w", err)
	}

	r.log.Info("re-executing process", "path", exe)

	if err := syscall.Exec(exe, os.Args, os.Environ()); err != nil {
		return fmt.Errorf("exec %s: %w", exe, err)
	}

	return nil
}
