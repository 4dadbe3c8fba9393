package netlink

import "context"

// Link reports and establishes network connectivity.
//
// The controller only ever calls Connect once per startup and then polls
// IsConnected during its bounded wait; implementations do not retry on their
// own, since recovery policy belongs to the controller.
type Link interface {
	// Connect initiates link establishment. It may return before the link
	// is fully up; callers poll IsConnected to observe completion.
	Connect(ctx context.Context) error

	// IsConnected reports whether the link currently carries traffic.
	IsConnected() bool
}

// Static is a Link for devices whose connectivity is managed externally
// (wired ethernet, pre-provisioned Wi-Fi). Connect is a no-op and the link
// is always considered up.
type Static struct{}

// Connect implements Link.
func (Static) Connect(context.Context) error { return nil }

// IsConnected implements Link.
func (Static) IsConnected() bool { return true }
