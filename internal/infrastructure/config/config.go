package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for ledctl.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	Device   DeviceConfig   `yaml:"device"`
	WiFi     WiFiConfig     `yaml:"wifi"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
	Control  ControlConfig  `yaml:"control"`
	Output   OutputConfig   `yaml:"output"`
	InfluxDB InfluxDBConfig `yaml:"influxdb"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DeviceConfig identifies this device within its MQTT namespace.
type DeviceConfig struct {
	// Identifier is the operator-chosen name, unique within the namespace.
	// It appears in the topic base and the MQTT client id.
	Identifier string `yaml:"identifier"`

	// Namespace is the leading topic segment shared by a fleet of devices.
	Namespace string `yaml:"namespace"`

	// RolePrefix is the leading segment of the MQTT client id.
	RolePrefix string `yaml:"role_prefix"`
}

// WiFiConfig contains Wi-Fi link settings.
type WiFiConfig struct {
	// Enabled selects the managed Wi-Fi link. When false the device is
	// assumed to have connectivity already (wired or pre-provisioned).
	Enabled   bool   `yaml:"enabled"`
	SSID      string `yaml:"ssid"`
	Password  string `yaml:"password"`
	Interface string `yaml:"interface"`

	// ConnectTimeout is the bounded wait ceiling for link establishment,
	// in seconds. The link is polled at one-second intervals.
	ConnectTimeout int `yaml:"connect_timeout"`
}

// MQTTConfig contains MQTT broker connection settings.
type MQTTConfig struct {
	Broker MQTTBrokerConfig `yaml:"broker"`
	Auth   MQTTAuthConfig   `yaml:"auth"`
	QoS    int              `yaml:"qos"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
// Both fields empty means anonymous access (the public-broker default).
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ControlConfig contains the controller's timing parameters.
// All delays are in seconds unless noted otherwise.
type ControlConfig struct {
	// PollIntervalMs is the pause between inbound message polls, in milliseconds.
	PollIntervalMs int `yaml:"poll_interval_ms"`

	// ReconnectDelay is the wait after a transport error before reconnecting.
	ReconnectDelay int `yaml:"reconnect_delay"`

	// RetryDelay is the longer wait applied when a reconnect attempt fails.
	RetryDelay int `yaml:"retry_delay"`

	// RestartDelay is the wait before a full restart on a fatal startup fault.
	RestartDelay int `yaml:"restart_delay"`
}

// OutputConfig selects and configures the physical output driver.
type OutputConfig struct {
	// Driver is one of "gpio", "file" or "null".
	Driver string     `yaml:"driver"`
	GPIO   GPIOConfig `yaml:"gpio"`
	File   FileConfig `yaml:"file"`
}

// GPIOConfig contains GPIO character-device settings for the gpio driver.
type GPIOConfig struct {
	Chip string `yaml:"chip"`
	Line int    `yaml:"line"`
}

// FileConfig contains settings for the file output driver.
type FileConfig struct {
	Path string `yaml:"path"`
}

// InfluxDBConfig contains optional telemetry recording settings.
type InfluxDBConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	Token         string `yaml:"token"`
	Org           string `yaml:"org"`
	Bucket        string `yaml:"bucket"`
	BatchSize     int    `yaml:"batch_size"`
	FlushInterval int    `yaml:"flush_interval"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: LEDCTL_SECTION_KEY
// For example: LEDCTL_MQTT_HOST, LEDCTL_WIFI_PASSWORD
//
// Parameters:
//   - path: Path to the YAML configuration file
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
//
// The timing defaults mirror the controller's recovery policy: a ten-second
// Wi-Fi wait, half-second message polls, a two-second pause before reconnect,
// five seconds when a reconnect fails, five seconds before a full restart.
func defaultConfig() *Config {
	return &Config{
		Device: DeviceConfig{
			Namespace:  "wyohack",
			RolePrefix: "ledctl",
		},
		WiFi: WiFiConfig{
			Enabled:        true,
			Interface:      "wlan0",
			ConnectTimeout: 10,
		},
		MQTT: MQTTConfig{
			Broker: MQTTBrokerConfig{
				Host: "broker.hivemq.com",
				Port: 1883,
			},
			QoS: 0,
		},
		Control: ControlConfig{
			PollIntervalMs: 500,
			ReconnectDelay: 2,
			RetryDelay:     5,
			RestartDelay:   5,
		},
		Output: OutputConfig{
			Driver: "gpio",
			GPIO: GPIOConfig{
				Chip: "gpiochip0",
				Line: 2,
			},
			File: FileConfig{
				Path: "/tmp/ledctl-output",
			},
		},
		InfluxDB: InfluxDBConfig{
			Enabled:       false,
			URL:           "http://localhost:8086",
			Bucket:        "ledctl",
			BatchSize:     100,
			FlushInterval: 10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Output: "stdout",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: LEDCTL_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	// Device
	if v := os.Getenv("LEDCTL_DEVICE_IDENTIFIER"); v != "" {
		cfg.Device.Identifier = v
	}

	// Wi-Fi (credentials should come from the environment, not the file)
	if v := os.Getenv("LEDCTL_WIFI_SSID"); v != "" {
		cfg.WiFi.SSID = v
	}
	if v := os.Getenv("LEDCTL_WIFI_PASSWORD"); v != "" {
		cfg.WiFi.Password = v
	}

	// MQTT
	if v := os.Getenv("LEDCTL_MQTT_HOST"); v != "" {
		cfg.MQTT.Broker.Host = v
	}
	if v := os.Getenv("LEDCTL_MQTT_USERNAME"); v != "" {
		cfg.MQTT.Auth.Username = v
	}
	if v := os.Getenv("LEDCTL_MQTT_PASSWORD"); v != "" {
		cfg.MQTT.Auth.Password = v
	}

	// InfluxDB
	if v := os.Getenv("LEDCTL_INFLUXDB_TOKEN"); v != "" {
		cfg.InfluxDB.Token = v
	}
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Device validation
	if c.Device.Identifier == "" {
		errs = append(errs, "device.identifier is required (set LEDCTL_DEVICE_IDENTIFIER environment variable)")
	}
	if c.Device.Namespace == "" {
		errs = append(errs, "device.namespace is required")
	}
	if strings.ContainsAny(c.Device.Identifier, "#+") {
		errs = append(errs, "device.identifier must not contain MQTT wildcard characters")
	}

	// Wi-Fi validation
	if c.WiFi.Enabled && c.WiFi.SSID == "" {
		errs = append(errs, "wifi.ssid is required when wifi is enabled")
	}
	if c.WiFi.ConnectTimeout < 1 {
		errs = append(errs, "wifi.connect_timeout must be at least 1 second")
	}

	// MQTT validation
	if c.MQTT.Broker.Host == "" {
		errs = append(errs, "mqtt.broker.host is required")
	}
	if c.MQTT.Broker.Port < 1 || c.MQTT.Broker.Port > 65535 {
		errs = append(errs, "mqtt.broker.port must be between 1 and 65535")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		errs = append(errs, "mqtt.qos must be 0, 1, or 2")
	}

	// Control validation
	const minPollIntervalMs = 50
	if c.Control.PollIntervalMs < minPollIntervalMs {
		errs = append(errs, "control.poll_interval_ms must be at least 50")
	}

	// Output validation
	switch c.Output.Driver {
	case "gpio", "file", "null":
	default:
		errs = append(errs, "output.driver must be one of: gpio, file, null")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// WiFiConnectTimeout returns the Wi-Fi bounded-wait ceiling as a Duration.
func (c *Config) WiFiConnectTimeout() time.Duration {
	return time.Duration(c.WiFi.ConnectTimeout) * time.Second
}

// PollInterval returns the steady-state poll interval as a Duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Control.PollIntervalMs) * time.Millisecond
}

// ReconnectDelay returns the post-error reconnect delay as a Duration.
func (c *Config) ReconnectDelay() time.Duration {
	return time.Duration(c.Control.ReconnectDelay) * time.Second
}

// RetryDelay returns the reconnect-failed retry delay as a Duration.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.Control.RetryDelay) * time.Second
}

// RestartDelay returns the pre-restart delay as a Duration.
func (c *Config) RestartDelay() time.Duration {
	return time.Duration(c.Control.RestartDelay) * time.Second
}
