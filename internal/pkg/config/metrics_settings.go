package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MetricsSettings controls the prometheus exposition of provider counters
type MetricsSettings struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace" validate:"max=64"`
	Addr      string `yaml:"addr" validate:"omitempty,hostname_port"`
}

// Validate checks that all fields in MetricsSettings are valid
func (s *MetricsSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for MetricsSettings: %w", err)
	}

	if s.Enabled && s.Namespace == "" {
		return fmt.Errorf("namespace is required when metrics are enabled")
	}
	return nil
}
