package controller

// State is the controller's lifecycle phase.
type State int

const (
	// StateBooting is the initial phase before Run is called.
	StateBooting State = iota

	// StateLinkEstablishing covers the bounded wait for the network link.
	StateLinkEstablishing

	// StateBrokerEstablishing covers the broker dial and command subscription.
	StateBrokerEstablishing

	// StateListening is the steady state: polling, dispatching, publishing.
	StateListening

	// StateRecovering is the transient-fault phase: the broker session was
	// lost and the controller is reconnecting.
	StateRecovering

	// StateRestarting is the terminal phase after a fatal startup fault.
	StateRestarting
)

// String returns a human-readable phase name for logging.
func (s State) String() string {
	switch s {
	case StateBooting:
		return "booting"
	case StateLinkEstablishing:
		return "link_establishing"
	case StateBrokerEstablishing:
		return "broker_establishing"
	case StateListening:
		return "listening"
	case StateRecovering:
		return "recovering"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// ConnectionState tracks one connectivity layer (link or broker session).
type ConnectionState int

const (
	ConnDisconnected ConnectionState = iota
	ConnConnecting
	ConnConnected
	ConnFaulted
)

// String returns a human-readable state name for logging.
func (c ConnectionState) String() string {
	switch c {
	case ConnDisconnected:
		return "disconnected"
	case ConnConnecting:
		return "connecting"
	case ConnConnected:
		return "connected"
	case ConnFaulted:
		return "faulted"
	default:
		return "unknown"
	}
}
