package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the environment variable that points at the YAML configuration file
const EnvConfigPath = "CONFIG_PATH"

// DefaultBindingVersion is reported by version() when no override is configured
const DefaultBindingVersion = "0.9.0"

// Config is the root configuration document
type Config struct {
	Logger   LoggerSettings   `yaml:"logger"`
	Provider ProviderSettings `yaml:"provider"`
	Metrics  MetricsSettings  `yaml:"metrics"`
}

// Default returns a configuration usable without any file
func Default() *Config {
	return &Config{
		Logger: LoggerSettings{
			LogLevel: LogLevelInfo,
			LogType:  LogTypeConsole,
		},
		Provider: ProviderSettings{
			BindingVersion: DefaultBindingVersion,
		},
		Metrics: MetricsSettings{
			Namespace: "crypto_binding",
		},
	}
}

// Validate checks every section
func (c *Config) Validate() error {
	return errors.Join(
		c.Logger.Validate(),
		c.Provider.Validate(),
		c.Metrics.Validate(),
	)
}

// InitializeConfig reads the YAML file at path on top of the defaults and validates the result.
// An empty path yields the validated defaults.
func InitializeConfig(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	if cfg.Provider.BindingVersion == "" {
		cfg.Provider.BindingVersion = DefaultBindingVersion
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// InitializeConfigFromEnv loads the file named by CONFIG_PATH, or the defaults when unset
func InitializeConfigFromEnv() (*Config, error) {
	return InitializeConfig(os.Getenv(EnvConfigPath))
}
