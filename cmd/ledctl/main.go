// ledctl - network-connected actuator controller
//
// This is the main entry point for the ledctl daemon. It drives a single
// binary output (an LED, a relay) from MQTT commands:
//   - Brings up the Wi-Fi link, then the broker session
//   - Subscribes to <namespace>/<identifier>/led/command
//   - Applies ON/OFF commands to the output and publishes the result on
//     <namespace>/<identifier>/led/status
//   - Reconnects on transient broker faults; re-execs itself on fatal
//     startup faults
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/wyohack/ledctl/internal/controller"
	"github.com/wyohack/ledctl/internal/identity"
	"github.com/wyohack/ledctl/internal/infrastructure/config"
	"github.com/wyohack/ledctl/internal/infrastructure/logging"
	"github.com/wyohack/ledctl/internal/infrastructure/mqtt"
	"github.com/wyohack/ledctl/internal/infrastructure/netlink"
	"github.com/wyohack/ledctl/internal/infrastructure/telemetry"
	"github.com/wyohack/ledctl/internal/output"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting ledctl",
		"version", version,
		"commit", commit,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Derive the device identity
	id, source := identity.New(cfg.Device)
	log.Info("device identity derived",
		"client_id", id.ClientID(),
		"topic_base", id.TopicBase(),
		"hardware_id_source", string(source),
	)
	if source == identity.SourceRandom {
		log.Warn("hardware id is random, client id will change on restart")
	}

	// Open the physical output
	sink, err := output.New(cfg.Output)
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer func() {
		log.Info("closing output")
		if closeErr := sink.Close(); closeErr != nil {
			log.Error("error closing output", "error", closeErr)
		}
	}()
	log.Info("output opened", "driver", cfg.Output.Driver)

	// Select the network link
	var link controller.Link
	if cfg.WiFi.Enabled {
		link = netlink.NewManager(cfg.WiFi)
		log.Info("wifi link managed",
			"ssid", cfg.WiFi.SSID,
			"interface", cfg.WiFi.Interface,
		)
	} else {
		link = netlink.Static{}
		log.Info("wifi disabled, assuming existing connectivity")
	}

	// Build the MQTT client; the controller dials it during startup
	broker := mqtt.New(cfg.MQTT, id.ClientID())
	broker.SetLogger(log)
	defer func() {
		log.Info("disconnecting from MQTT")
		if closeErr := broker.Close(); closeErr != nil {
			log.Error("error closing MQTT", "error", closeErr)
		}
	}()

	// Connect to InfluxDB (optional)
	var recorder controller.Recorder
	if cfg.InfluxDB.Enabled {
		teleClient, teleErr := telemetry.Connect(cfg.InfluxDB)
		if teleErr != nil {
			// Telemetry is best-effort; a dead InfluxDB must not stop the device
			log.Warn("telemetry unavailable, continuing without", "error", teleErr)
		} else {
			teleClient.SetOnError(func(err error) {
				log.Warn("telemetry write failed", "error", err)
			})
			defer func() {
				log.Info("closing telemetry connection")
				if closeErr := teleClient.Close(); closeErr != nil {
					log.Error("error closing telemetry", "error", closeErr)
				}
			}()
			recorder = teleClient
			log.Info("telemetry connected",
				"url", cfg.InfluxDB.URL,
				"bucket", cfg.InfluxDB.Bucket,
			)

			if hcErr := teleClient.HealthCheck(ctx); hcErr != nil {
				log.Warn("telemetry health check failed", "error", hcErr)
			} else {
				log.Info("telemetry health check passed")
			}
		}
	} else {
		log.Info("telemetry disabled")
	}

	// Assemble and run the controller
	ctrl, err := controller.New(controller.Deps{
		Config:    cfg,
		Identity:  id,
		Link:      link,
		Broker:    broker,
		Sink:      sink,
		Restarter: &restarter{log: log},
		Recorder:  recorder,
		Logger:    log,
	})
	if err != nil {
		return fmt.Errorf("building controller: %w", err)
	}

	if err := ctrl.Run(ctx); err != nil {
		return fmt.Errorf("controller: %w", err)
	}

	log.Info("ledctl stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses LEDCTL_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("LEDCTL_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}
