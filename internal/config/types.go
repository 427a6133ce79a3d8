package config

// Config represents the complete hubgate configuration.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	State    StateConfig    `yaml:"state"`
	Webhooks WebhooksConfig `yaml:"webhooks"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name      string `yaml:"name"`
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// StateConfig defines delivery store settings.
type StateConfig struct {
	Path string `yaml:"path"`
}

// WebhooksConfig defines the webhook listener and its receivers.
type WebhooksConfig struct {
	Listen    string           `yaml:"listen"`
	Receivers []ReceiverConfig `yaml:"receivers"`
}

// ReceiverConfig defines a single hub-style webhook receiver.
type ReceiverConfig struct {
	// Name identifies the receiver in logs and the delivery store.
	Name string `yaml:"name"`

	// Path is the URL prefix for this receiver (e.g. "/hooks/facebook").
	// Subscription ids are taken from the trailing path segment.
	Path string `yaml:"path"`

	// Secrets is the shared-secret table: a default plus per-subscription
	// overrides. Values support ${VAR} interpolation.
	Secrets SecretTableConfig `yaml:"secrets"`

	// Hints are opaque action hints forwarded with each delivery.
	Hints []string `yaml:"hints,omitempty"`

	// MaxBodySize is the maximum request body size (e.g. "1MB", "65536").
	MaxBodySize string `yaml:"max_body_size,omitempty"`
}

// SecretTableConfig is the named-secret table for one receiver.
type SecretTableConfig struct {
	Default string            `yaml:"default,omitempty"`
	ByID    map[string]string `yaml:"by_id,omitempty"`
}

// ChecksumManifest pins configuration file hashes for integrity checks.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:      "hubgate",
			LogLevel:  "info",
			LogFormat: "json",
		},
		State: StateConfig{
			Path: "./data/hubgate.db",
		},
		Webhooks: WebhooksConfig{
			Listen: "127.0.0.1:8081",
		},
	}
}
