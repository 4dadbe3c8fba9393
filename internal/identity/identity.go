package identity

import (
	"encoding/hex"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/wyohack/ledctl/internal/infrastructure/config"
)

// machineIDPath is the systemd machine id, the preferred hardware identifier.
const machineIDPath = "/etc/machine-id"

// Identity is the device's immutable network identity, derived once at
// startup and owned by the controller for the process lifetime.
//
// It combines the configured namespace and identifier with a hardware unique
// id so that two devices sharing a config file can never collide on the
// broker (duplicate client ids cause mutual session eviction).
type Identity struct {
	namespace  string
	identifier string
	rolePrefix string
	hardwareID string
}

// Source describes where the hardware unique id came from.
type Source string

const (
	SourceMachineID Source = "machine-id"
	SourceMAC       Source = "mac"
	SourceRandom    Source = "random"
)

// New derives the device identity from configuration and the local hardware.
//
// The hardware unique id is resolved in order of preference:
//  1. /etc/machine-id contents
//  2. MAC address of the first non-loopback interface, hex encoded
//  3. A random UUID (logged by the caller; identity is not stable across restarts)
//
// Returns the identity and the source the hardware id was derived from.
func New(cfg config.DeviceConfig) (Identity, Source) {
	hwID, source := hardwareID()

	return Identity{
		namespace:  cfg.Namespace,
		identifier: cfg.Identifier,
		rolePrefix: cfg.RolePrefix,
		hardwareID: hwID,
	}, source
}

// hardwareID resolves the hardware unique id fallback chain.
func hardwareID() (string, Source) {
	if data, err := os.ReadFile(machineIDPath); err == nil {
		if id := strings.TrimSpace(string(data)); id != "" {
			return id, SourceMachineID
		}
	}

	if mac := firstMAC(); mac != "" {
		return mac, SourceMAC
	}

	return strings.ReplaceAll(uuid.NewString(), "-", ""), SourceRandom
}

// firstMAC returns the hex-encoded MAC of the first non-loopback interface
// that has one, or "" if none is found.
func firstMAC() string {
	ifaces, err := net.Interfaces()
	if err != nil {
		return ""
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if len(iface.HardwareAddr) == 0 {
			continue
		}
		return hex.EncodeToString(iface.HardwareAddr)
	}

	return ""
}

// ClientID returns the MQTT client identifier:
// "<role-prefix>_<identifier>_<hardware-id>".
//
// The hardware id suffix guarantees uniqueness per physical device even when
// two devices are configured with the same identifier.
func (i Identity) ClientID() string {
	return fmt.Sprintf("%s_%s_%s", i.rolePrefix, i.identifier, i.hardwareID)
}

// TopicBase returns "<namespace>/<identifier>/led", the root of this
// device's topic tree.
func (i Identity) TopicBase() string {
	return fmt.Sprintf("%s/%s/led", i.namespace, i.identifier)
}

// CommandTopic returns the subscribed inbound command topic.
func (i Identity) CommandTopic() string {
	return i.TopicBase() + "/command"
}

// StatusTopic returns the outbound status topic.
func (i Identity) StatusTopic() string {
	return i.TopicBase() + "/status"
}

// Identifier returns the configured device identifier.
func (i Identity) Identifier() string {
	return i.identifier
}
