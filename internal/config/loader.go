package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file (or a directory
// containing config.yaml), applies defaults, verifies integrity hashes
// when a .checksums file is present, and validates the result.
func Load(configPath string) (*Config, error) {
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	if info.IsDir() {
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	// Apply environment variable interpolation before parsing.
	interpolated := interpolateEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(interpolated), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(&cfg)

	if err := verifyConfigHash(absPath); err != nil {
		return nil, err
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// DiscoverConfigPath finds the configuration by checking standard
// locations: $HUBGATE_CONFIG, ~/.config/hubgate, /etc/hubgate,
// ./config.yaml.
func DiscoverConfigPath() (string, error) {
	if p := os.Getenv("HUBGATE_CONFIG"); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userConfigDir := filepath.Join(homeDir, ".config", "hubgate")
		if _, err := os.Stat(userConfigDir); err == nil {
			return userConfigDir, nil
		}
	}

	systemConfigDir := "/etc/hubgate"
	if _, err := os.Stat(systemConfigDir); err == nil {
		return systemConfigDir, nil
	}

	legacyConfigPath := "./config.yaml"
	if _, err := os.Stat(legacyConfigPath); err == nil {
		return legacyConfigPath, nil
	}

	return "", fmt.Errorf("no config found (checked: $HUBGATE_CONFIG, ~/.config/hubgate, /etc/hubgate, ./config.yaml)")
}

// verifyConfigHash checks the config file against .checksums in its
// directory. A missing .checksums skips verification.
func verifyConfigHash(configPath string) error {
	dir := filepath.Dir(configPath)
	manifest, err := LoadChecksums(dir)
	if err != nil {
		return nil
	}

	basename := filepath.Base(configPath)
	expectedHash, ok := manifest.Hashes[basename]
	if !ok {
		return fmt.Errorf("config file %s has no hash in checksums at %s\n"+
			"Run: hubgate config lock --config %s", basename, dir, configPath)
	}

	if err := VerifyFileHash(configPath, expectedHash); err != nil {
		return fmt.Errorf("config verification failed for %s: %w\n"+
			"This indicates tampering or unauthorized modification.\n"+
			"If you edited this file intentionally, run: hubgate config lock --config %s", configPath, err, configPath)
	}
	return nil
}

// applyDefaults merges default values into config where not explicitly set.
func applyDefaults(cfg *Config) {
	defaults := Defaults()

	if cfg.Service.Name == "" {
		cfg.Service.Name = defaults.Service.Name
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = defaults.Service.LogLevel
	}
	if cfg.Service.LogFormat == "" {
		cfg.Service.LogFormat = defaults.Service.LogFormat
	}
	if cfg.State.Path == "" {
		cfg.State.Path = defaults.State.Path
	}
	if cfg.Webhooks.Listen == "" {
		cfg.Webhooks.Listen = defaults.Webhooks.Listen
	}
}

// interpolateEnv replaces ${VAR} with environment variable values.
// Undefined variables are left as-is (they fail validation if required).
func interpolateEnv(input string) string {
	return envVarPattern.ReplaceAllStringFunc(input, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if value, exists := os.LookupEnv(varName); exists {
			return value
		}
		return match
	})
}

// validate performs basic validation on the configuration.
func validate(cfg *Config) error {
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[cfg.Service.LogLevel] {
		return fmt.Errorf("service.log_level must be one of: debug, info, warn, error (got %q)", cfg.Service.LogLevel)
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[cfg.Service.LogFormat] {
		return fmt.Errorf("service.log_format must be one of: json, text (got %q)", cfg.Service.LogFormat)
	}

	if cfg.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}

	if len(cfg.Webhooks.Receivers) == 0 {
		return fmt.Errorf("webhooks.receivers must not be empty")
	}

	seenNames := make(map[string]bool)
	seenPaths := make(map[string]bool)
	for i, rc := range cfg.Webhooks.Receivers {
		if rc.Name == "" {
			return fmt.Errorf("webhooks.receivers[%d].name is required", i)
		}
		if seenNames[rc.Name] {
			return fmt.Errorf("webhooks.receivers[%d]: duplicate name %q", i, rc.Name)
		}
		seenNames[rc.Name] = true

		if !strings.HasPrefix(rc.Path, "/") {
			return fmt.Errorf("webhooks.receivers[%d].path must start with '/' (got %q)", i, rc.Path)
		}
		if seenPaths[rc.Path] {
			return fmt.Errorf("webhooks.receivers[%d]: duplicate path %q", i, rc.Path)
		}
		seenPaths[rc.Path] = true

		if rc.Secrets.Default == "" && len(rc.Secrets.ByID) == 0 {
			return fmt.Errorf("webhooks.receivers[%d] (%s): no secrets configured", i, rc.Name)
		}

		// Unresolved env vars in secrets are configuration errors, caught
		// here so they never surface as signature mismatches at runtime.
		if err := checkUnresolvedSecret(rc.Name, "default", rc.Secrets.Default); err != nil {
			return err
		}
		for id, secret := range rc.Secrets.ByID {
			if err := checkUnresolvedSecret(rc.Name, "by_id."+id, secret); err != nil {
				return err
			}
		}

		if rc.MaxBodySize != "" {
			if _, err := ParseMaxBodySize(rc.MaxBodySize); err != nil {
				return fmt.Errorf("webhooks.receivers[%d] (%s): invalid max_body_size %q: %w", i, rc.Name, rc.MaxBodySize, err)
			}
		}
	}

	return nil
}

func checkUnresolvedSecret(receiver, key, value string) error {
	if envVarPattern.MatchString(value) {
		matches := envVarPattern.FindStringSubmatch(value)
		if len(matches) > 1 {
			return fmt.Errorf("receiver %q: environment variable ${%s} is not set", receiver, matches[1])
		}
		return fmt.Errorf("receiver %q: unresolved environment variable in secrets.%s", receiver, key)
	}
	return nil
}

// ParseMaxBodySize parses size strings like "1MB", "64KB", "2048576" to bytes.
func ParseMaxBodySize(size string) (int64, error) {
	upper := strings.ToUpper(size)
	multiplier := int64(1)

	if strings.HasSuffix(upper, "KB") {
		multiplier = 1024
		size = strings.TrimSuffix(upper, "KB")
	} else if strings.HasSuffix(upper, "MB") {
		multiplier = 1024 * 1024
		size = strings.TrimSuffix(upper, "MB")
	} else if strings.HasSuffix(upper, "GB") {
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result < 0 { // overflow
		return 0, fmt.Errorf("size too large")
	}

	return result, nil
}
