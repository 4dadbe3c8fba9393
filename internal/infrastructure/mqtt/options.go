package mqtt

import (
	"fmt"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// Connection constants.
const (
	// defaultConnectTimeout is the maximum time to wait for a connection attempt.
	defaultConnectTimeout = 10 * time.Second

	// defaultPublishTimeout is the maximum time to wait for publish acknowledgment.
	defaultPublishTimeout = 5 * time.Second

	// defaultSubscribeTimeout is the maximum time to wait for a subscribe to complete.
	defaultSubscribeTimeout = 5 * time.Second

	// defaultDisconnectQuiesce is the time to wait for pending operations on disconnect.
	defaultDisconnectQuiesce = 1000 // milliseconds

	// defaultKeepAlive is the keepalive interval for the connection.
	// The broker's keepalive probes are what surface a dead link as a
	// connection-lost event between polls.
	defaultKeepAlive = 60 * time.Second

	// inboxCapacity bounds the number of undrained inbound messages.
	// The device consumes one command per poll tick; anything beyond this
	// backlog is stale remote input and the oldest entries are dropped.
	inboxCapacity = 64
)

// buildClientOptions creates paho MQTT options from ledctl config.
//
// This configures:
//   - Broker URL (plain tcp; TLS is out of scope for this device)
//   - Client ID for identification
//   - Authentication credentials (if provided)
//   - Clean session mode
//   - Auto-reconnect DISABLED: the controller drives reconnection itself
func buildClientOptions(cfg config.MQTTConfig, clientID string) *pahomqtt.ClientOptions {
	opts := pahomqtt.NewClientOptions()

	// Broker URL
	brokerURL := fmt.Sprintf("tcp://%s:%d", cfg.Broker.Host, cfg.Broker.Port)
	opts.AddBroker(brokerURL)

	// Client identification
	opts.SetClientID(clientID)

	// Authentication (if credentials provided)
	if cfg.Auth.Username != "" {
		opts.SetUsername(cfg.Auth.Username)
		opts.SetPassword(cfg.Auth.Password)
	}

	// Clean session - start fresh on connect (no persistent session on broker)
	opts.SetCleanSession(true)

	// The controller owns the reconnect policy; paho must not race it with
	// its own retry loop.
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)

	// Connection timeout
	opts.SetConnectTimeout(defaultConnectTimeout)

	// Keepalive - broker PINGs detect dead connections
	opts.SetKeepAlive(defaultKeepAlive)

	return opts
}
