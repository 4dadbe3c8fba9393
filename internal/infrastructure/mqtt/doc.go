// Package mqtt provides the broker session for the device controller.
//
// This package manages:
//   - Connection to the broker with a bounded connect timeout
//   - Poll-based inbound delivery through a bounded inbox
//   - Status publishing with timeout and sentinel errors
//   - Controller-driven reconnection with subscription replay
//
// # Delivery model
//
// The paho library delivers messages on its own goroutines. For a device
// with a single control loop that is the wrong shape: dispatch could re-enter
// while a previous command is mid-flight. The Client therefore parks inbound
// messages in a bounded FIFO inbox and the controller drains them one per
// Poll call, synchronously, inside its loop.
//
// # Recovery model
//
// paho's auto-reconnect and connect-retry are disabled. A lost connection is
// surfaced to the controller as ErrNotConnected from Poll (or a failed
// Publish), and the controller decides when to call Reconnect and how long
// to back off. Reconnect replays tracked subscriptions because sessions use
// a clean start.
//
// # Usage
//
//	client, err := mqtt.Connect(cfg.MQTT, identity.ClientID())
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	if err := client.Subscribe(identity.CommandTopic()); err != nil {
//	    return err
//	}
//
//	msg, ok, err := client.Poll()
package mqtt
