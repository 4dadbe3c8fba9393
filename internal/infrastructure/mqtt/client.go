package mqtt

import (
	"fmt"
	"sync"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// Client wraps paho.mqtt.golang for the device controller.
//
// The wrapper reframes paho's callback-driven delivery as an explicit poll
// step: inbound messages are parked in a bounded inbox and handed out one at
// a time via Poll, inside the controller's single loop. This removes any
// re-entrancy between dispatch logic and message arrival.
//
// The library's automatic reconnection is disabled on purpose. Recovery
// policy (when to reconnect, how long to wait, when to give up) belongs to
// the controller, which calls Reconnect explicitly.
type Client struct {
	client  pahomqtt.Client
	options *pahomqtt.ClientOptions
	cfg     config.MQTTConfig

	inbox *inbox

	// subscriptions tracks topics for re-subscription after Reconnect.
	subscriptions map[string]byte
	subMu         sync.Mutex

	// connected tracks current session state.
	connected bool
	connMu    sync.RWMutex

	// logger for inbox overflow and connection-loss logging (optional).
	logger   Logger
	loggerMu sync.RWMutex
}

// Logger interface for optional logging support.
// Compatible with logging.Logger and slog.Logger.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
}

// Message is a single inbound MQTT message returned by Poll.
type Message struct {
	Topic   string
	Payload []byte
}

// New builds a client without dialling the broker.
//
// It performs the following setup:
//  1. Builds connection options from config (broker URL, auth, client id)
//  2. Disables paho auto-reconnect (the controller owns recovery)
//  3. Registers the connection-lost handler
//
// The caller establishes the session with Connect; a failed first dial is a
// startup fault the caller handles with its own recovery policy.
//
// Parameters:
//   - cfg: MQTT configuration from config.yaml
//   - clientID: unique client identifier (identity.ClientID())
func New(cfg config.MQTTConfig, clientID string) *Client {
	opts := buildClientOptions(cfg, clientID)

	c := &Client{
		cfg:           cfg,
		options:       opts,
		inbox:         newInbox(inboxCapacity),
		subscriptions: make(map[string]byte),
	}

	opts.SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
		c.handleConnectionLost(err)
	})

	c.client = pahomqtt.NewClient(opts)

	return c
}

// Connect builds a client and establishes a session with the MQTT broker.
//
// Returns:
//   - *Client: Connected client ready for use
//   - error: If the connection fails within the timeout
func Connect(cfg config.MQTTConfig, clientID string) (*Client, error) {
	c := New(cfg, clientID)
	if err := c.Connect(); err != nil {
		return nil, err
	}

	return c, nil
}

// Connect attempts the initial session with a bounded timeout.
func (c *Client) Connect() error {
	return c.dial()
}

// dial runs a single connection attempt against the broker.
func (c *Client) dial() error {
	token := c.client.Connect()
	if !token.WaitTimeout(defaultConnectTimeout) {
		return fmt.Errorf("%w: timeout after %v", ErrConnectionFailed, defaultConnectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}

	c.connMu.Lock()
	c.connected = true
	c.connMu.Unlock()

	return nil
}

// handleConnectionLost marks the session down. The controller discovers this
// on its next Poll and runs its transient-fault recovery.
func (c *Client) handleConnectionLost(err error) {
	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	if logger := c.getLogger(); logger != nil {
		logger.Warn("MQTT connection lost", "error", err)
	}
}

// Reconnect re-dials the broker and restores all tracked subscriptions.
//
// The session uses a clean start, so subscriptions do not survive on the
// broker side; they are replayed from the client's tracking map.
//
// Recovery can be triggered while the session is still live: a publish can
// time out on a congested broker without the connection dropping. Paho
// rejects a dial on a connected client, so any live session is torn down
// before dialling.
//
// Returns:
//   - error: If the dial or any re-subscription fails
func (c *Client) Reconnect() error {
	if c.client.IsConnected() {
		c.client.Disconnect(defaultDisconnectQuiesce)

		c.connMu.Lock()
		c.connected = false
		c.connMu.Unlock()
	}

	if err := c.dial(); err != nil {
		return err
	}

	c.subMu.Lock()
	defer c.subMu.Unlock()

	for topic, qos := range c.subscriptions {
		token := c.client.Subscribe(topic, qos, c.enqueue)
		if !token.WaitTimeout(defaultSubscribeTimeout) {
			return fmt.Errorf("%w: re-subscribe %q: timeout after %v", ErrSubscribeFailed, topic, defaultSubscribeTimeout)
		}
		if err := token.Error(); err != nil {
			return fmt.Errorf("%w: re-subscribe %q: %w", ErrSubscribeFailed, topic, err)
		}
	}

	return nil
}

// Subscribe registers interest in a topic. Messages arriving on it are
// parked in the inbox until drained by Poll.
//
// Parameters:
//   - topic: The topic to subscribe to (no wildcards needed for this device)
//
// Returns:
//   - error: nil on success, or wrapped error describing the failure
func (c *Client) Subscribe(topic string) error {
	if topic == "" {
		return ErrInvalidTopic
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	qos := byte(c.cfg.QoS)

	c.subMu.Lock()
	c.subscriptions[topic] = qos
	c.subMu.Unlock()

	token := c.client.Subscribe(topic, qos, c.enqueue)
	if !token.WaitTimeout(defaultSubscribeTimeout) {
		c.forgetSubscription(topic)
		return fmt.Errorf("%w: timeout after %v", ErrSubscribeFailed, defaultSubscribeTimeout)
	}
	if err := token.Error(); err != nil {
		c.forgetSubscription(topic)
		return fmt.Errorf("%w: %w", ErrSubscribeFailed, err)
	}

	return nil
}

// forgetSubscription removes a topic from re-subscription tracking.
func (c *Client) forgetSubscription(topic string) {
	c.subMu.Lock()
	delete(c.subscriptions, topic)
	c.subMu.Unlock()
}

// enqueue is the paho message handler: it parks the message in the inbox.
// Runs on a paho goroutine; the inbox provides the synchronisation.
func (c *Client) enqueue(_ pahomqtt.Client, msg pahomqtt.Message) {
	// Payload() returns a buffer paho may reuse; copy before parking.
	payload := make([]byte, len(msg.Payload()))
	copy(payload, msg.Payload())

	if dropped := c.inbox.put(Message{Topic: msg.Topic(), Payload: payload}); dropped {
		if logger := c.getLogger(); logger != nil {
			logger.Warn("MQTT inbox full, dropped oldest message",
				"topic", msg.Topic(),
				"dropped_total", c.inbox.droppedTotal(),
			)
		}
	}
}

// Poll returns at most one pending inbound message.
//
// It never blocks. The boolean reports whether a message was returned. When
// the session is down Poll returns ErrNotConnected so the caller can run its
// transient-fault recovery; any messages already parked are still delivered
// first.
//
// Returns:
//   - Message: The oldest pending message, if any
//   - bool: Whether a message was returned
//   - error: ErrNotConnected when the session is down and the inbox is empty
func (c *Client) Poll() (Message, bool, error) {
	if msg, ok := c.inbox.take(); ok {
		return msg, true, nil
	}

	if !c.IsConnected() {
		return Message{}, false, ErrNotConnected
	}

	return Message{}, false, nil
}

// Close gracefully disconnects from the MQTT broker.
//
// Returns:
//   - error: nil (disconnecting an already-closed session is not an error)
func (c *Client) Close() error {
	if c.client == nil {
		return nil
	}

	c.client.Disconnect(defaultDisconnectQuiesce)

	c.connMu.Lock()
	c.connected = false
	c.connMu.Unlock()

	return nil
}

// IsConnected returns the current session state.
func (c *Client) IsConnected() bool {
	c.connMu.RLock()
	defer c.connMu.RUnlock()
	return c.connected && c.client != nil && c.client.IsConnected()
}

// SetLogger sets a logger for connection-loss and overflow logging.
// If not set, these events are silently counted but not logged.
func (c *Client) SetLogger(logger Logger) {
	c.loggerMu.Lock()
	c.logger = logger
	c.loggerMu.Unlock()
}

// getLogger returns the current logger (may be nil).
func (c *Client) getLogger() Logger {
	c.loggerMu.RLock()
	defer c.loggerMu.RUnlock()
	return c.logger
}

// Dropped returns the number of inbound messages discarded to inbox overflow.
func (c *Client) Dropped() uint64 {
	return c.inbox.droppedTotal()
}
