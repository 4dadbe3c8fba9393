package netlink

import "errors"

// Domain-specific errors for link operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrConnectFailed is returned when the association attempt fails.
	ErrConnectFailed = errors.New("netlink: connect failed")
)
