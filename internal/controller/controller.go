package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/wyohack/ledctl/internal/identity"
	"github.com/wyohack/ledctl/internal/infrastructure/config"
	"github.com/wyohack/ledctl/internal/infrastructure/logging"
	"github.com/wyohack/ledctl/internal/infrastructure/mqtt"
)

// linkPollInterval is the pause between link-state checks during the bounded
// startup wait.
var linkPollInterval = time.Second

// Link is the network link the controller brings up before dialling the
// broker. Connect activates the link; IsConnected reports operational state.
type Link interface {
	Connect(ctx context.Context) error
	IsConnected() bool
}

// Broker is the MQTT session as the controller sees it: explicit connect
// and reconnect, poll-based delivery, and plain string publishes.
type Broker interface {
	Connect() error
	Subscribe(topic string) error
	Poll() (mqtt.Message, bool, error)
	PublishString(topic, payload string) error
	Reconnect() error
}

// Sink is the physical output the controller drives.
type Sink interface {
	Set(on bool) error
}

// Restarter performs the full-restart escape hatch for fatal startup faults.
// A successful Restart does not return.
type Restarter interface {
	Restart() error
}

// Recorder receives best-effort telemetry. A nil Recorder disables recording.
type Recorder interface {
	RecordState(deviceID string, on bool)
	RecordEvent(deviceID, phase, event string)
}

// Stats counts controller activity since startup.
type Stats struct {
	CommandsApplied   uint64
	Unrecognized      uint64
	SinkFailures      uint64
	PublishFailures   uint64
	Reconnects        uint64
	ReconnectFailures uint64
}

// Deps holds the controller's collaborators. Config, Link, Broker, Sink and
// Restarter are required; Recorder and Logger are optional.
type Deps struct {
	Config    *config.Config
	Identity  identity.Identity
	Link      Link
	Broker    Broker
	Sink      Sink
	Restarter Restarter
	Recorder  Recorder
	Logger    *logging.Logger
}

// Controller owns the device's runtime state and runs its single control
// loop: establish the link, establish the broker session, then poll for
// commands and drive the output.
//
// All connectivity recovery policy lives here. The broker wrapper never
// reconnects on its own; the controller decides when to retry and when a
// fault is fatal enough to restart the whole process.
//
// Thread Safety:
//   - Run executes on one goroutine. The read accessors (State, OutputOn,
//     Stats and friends) are safe to call concurrently with Run.
type Controller struct {
	cfg       *config.Config
	id        identity.Identity
	link      Link
	broker    Broker
	sink      Sink
	restarter Restarter
	recorder  Recorder
	logger    *logging.Logger

	mu          sync.RWMutex
	state       State
	linkState   ConnectionState
	brokerState ConnectionState
	outputOn    bool
	stats       Stats
}

// New builds a Controller from its collaborators.
//
// Returns:
//   - *Controller: Ready to Run
//   - error: ErrMissingDependency if a required collaborator is nil
func New(deps Deps) (*Controller, error) {
	switch {
	case deps.Config == nil:
		return nil, fmt.Errorf("%w: config", ErrMissingDependency)
	case deps.Link == nil:
		return nil, fmt.Errorf("%w: link", ErrMissingDependency)
	case deps.Broker == nil:
		return nil, fmt.Errorf("%w: broker", ErrMissingDependency)
	case deps.Sink == nil:
		return nil, fmt.Errorf("%w: sink", ErrMissingDependency)
	case deps.Restarter == nil:
		return nil, fmt.Errorf("%w: restarter", ErrMissingDependency)
	}

	logger := deps.Logger
	if logger == nil {
		logger = logging.Default()
	}

	return &Controller{
		cfg:       deps.Config,
		id:        deps.Identity,
		link:      deps.Link,
		broker:    deps.Broker,
		sink:      deps.Sink,
		restarter: deps.Restarter,
		recorder:  deps.Recorder,
		logger:    logger,
		state:     StateBooting,
	}, nil
}

// Run executes the controller until ctx is cancelled.
//
// Startup (link, broker, subscription) is all-or-nothing: any failure there
// is fatal, and after RestartDelay the Restarter is invoked. Once listening,
// transport faults are transient and handled by reconnecting in place.
//
// Returns:
//   - error: nil on clean shutdown, or the Restarter's error if the
//     post-fault restart itself fails
func (c *Controller) Run(ctx context.Context) error {
	if err := c.startup(ctx); err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			return nil
		}
		return c.restart(ctx, err)
	}

	return c.listen(ctx)
}

// startup brings up the link and the broker session in order.
func (c *Controller) startup(ctx context.Context) error {
	c.setState(StateLinkEstablishing)
	c.setLinkState(ConnConnecting)
	c.logger.Info("establishing network link")

	if err := c.link.Connect(ctx); err != nil {
		c.setLinkState(ConnFaulted)
		return fmt.Errorf("link connect: %w", err)
	}

	deadline := time.Now().Add(c.cfg.WiFiConnectTimeout())
	for !c.link.IsConnected() {
		if time.Now().After(deadline) {
			c.setLinkState(ConnFaulted)
			return fmt.Errorf("%w: link not up after %v", ErrLinkTimeout, c.cfg.WiFiConnectTimeout())
		}
		if !sleep(ctx, linkPollInterval) {
			return ctx.Err()
		}
	}

	c.setLinkState(ConnConnected)
	c.logger.Info("network link established")
	c.recordEvent("link", "connect")

	c.setState(StateBrokerEstablishing)
	c.setBrokerState(ConnConnecting)
	c.logger.Info("connecting to broker",
		"host", c.cfg.MQTT.Broker.Host,
		"port", c.cfg.MQTT.Broker.Port,
		"client_id", c.id.ClientID(),
	)

	if err := c.broker.Connect(); err != nil {
		c.setBrokerState(ConnFaulted)
		return fmt.Errorf("broker connect: %w", err)
	}

	if err := c.broker.Subscribe(c.id.CommandTopic()); err != nil {
		c.setBrokerState(ConnFaulted)
		return fmt.Errorf("subscribe %q: %w", c.id.CommandTopic(), err)
	}

	c.setBrokerState(ConnConnected)
	c.logger.Info("broker session established",
		"command_topic", c.id.CommandTopic(),
		"status_topic", c.id.StatusTopic(),
	)
	c.recordEvent("broker", "connect")

	return nil
}

// listen is the steady-state loop: poll one message, dispatch, pause.
func (c *Controller) listen(ctx context.Context) error {
	c.setState(StateListening)
	c.logger.Info("listening for commands", "poll_interval", c.cfg.PollInterval().String())

	for {
		if ctx.Err() != nil {
			c.logger.Info("shutdown requested, stopping")
			return nil
		}

		msg, ok, err := c.broker.Poll()
		if err != nil {
			c.recoverSession(ctx, err)
			continue
		}

		if ok {
			if err := c.dispatch(msg); err != nil {
				c.recoverSession(ctx, err)
				continue
			}
		}

		if !sleep(ctx, c.cfg.PollInterval()) {
			c.logger.Info("shutdown requested, stopping")
			return nil
		}
	}
}

// recoverSession handles a transient broker fault: wait, reconnect, and on
// failure keep retrying with the longer delay until it works or ctx ends.
func (c *Controller) recoverSession(ctx context.Context, cause error) {
	c.setState(StateRecovering)
	c.setBrokerState(ConnFaulted)
	c.logger.Warn("broker session lost",
		"error", cause,
		"reconnect_in", c.cfg.ReconnectDelay().String(),
	)
	c.recordEvent("broker", "fault")

	delay := c.cfg.ReconnectDelay()
	for {
		if !sleep(ctx, delay) {
			return
		}

		if err := c.broker.Reconnect(); err != nil {
			c.bump(func(s *Stats) { s.ReconnectFailures++ })
			c.logger.Error("reconnect failed",
				"error", err,
				"retry_in", c.cfg.RetryDelay().String(),
			)
			delay = c.cfg.RetryDelay()
			continue
		}

		c.bump(func(s *Stats) { s.Reconnects++ })
		c.setBrokerState(ConnConnected)
		c.setState(StateListening)
		c.logger.Info("broker session restored")
		c.recordEvent("broker", "reconnect")
		return
	}
}

// restart handles a fatal startup fault: log, wait, hand over to the
// Restarter. Reached only from Run.
func (c *Controller) restart(ctx context.Context, cause error) error {
	c.setState(StateRestarting)
	c.logger.Error("fatal startup fault, restarting",
		"error", cause,
		"restart_in", c.cfg.RestartDelay().String(),
	)
	c.recordEvent("controller", "restart")
	c.flushRecorder()

	if !sleep(ctx, c.cfg.RestartDelay()) {
		return nil
	}

	if err := c.restarter.Restart(); err != nil {
		return fmt.Errorf("restart after startup fault: %w (fault: %v)", err, cause)
	}

	return nil
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LinkState returns the network link's connection state.
func (c *Controller) LinkState() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.linkState
}

// BrokerState returns the broker session's connection state.
func (c *Controller) BrokerState() ConnectionState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.brokerState
}

// OutputOn returns the last state successfully applied to the output.
func (c *Controller) OutputOn() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.outputOn
}

// Stats returns a snapshot of the activity counters.
func (c *Controller) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

func (c *Controller) setLinkState(s ConnectionState) {
	c.mu.Lock()
	c.linkState = s
	c.mu.Unlock()
}

func (c *Controller) setBrokerState(s ConnectionState) {
	c.mu.Lock()
	c.brokerState = s
	c.mu.Unlock()
}

// bump applies a counter mutation under the lock.
func (c *Controller) bump(mutate func(*Stats)) {
	c.mu.Lock()
	mutate(&c.stats)
	c.mu.Unlock()
}

// recordEvent forwards a connectivity event to the recorder, if present.
func (c *Controller) recordEvent(phase, event string) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordEvent(c.id.Identifier(), phase, event)
}

// recordState forwards an applied output state to the recorder, if present.
func (c *Controller) recordState(on bool) {
	if c.recorder == nil {
		return
	}
	c.recorder.RecordState(c.id.Identifier(), on)
}

// flushRecorder pushes out buffered telemetry before the process goes away.
func (c *Controller) flushRecorder() {
	if f, ok := c.recorder.(interface{ Flush() }); ok {
		f.Flush()
	}
}

// sleep waits for d unless ctx ends first; it reports whether the full wait
// elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
