package controller

import "errors"

// Domain-specific errors for controller operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrMissingDependency is returned by New when a required collaborator
	// is absent.
	ErrMissingDependency = errors.New("controller: missing dependency")

	// ErrLinkTimeout is returned when the network link does not come up
	// within the bounded startup wait.
	ErrLinkTimeout = errors.New("controller: link timeout")
)
