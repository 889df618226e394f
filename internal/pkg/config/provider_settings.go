package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DynamicEngineSettings names an engine the dynamic loader brings up during initialization
type DynamicEngineSettings struct {
	ID   string `yaml:"id" validate:"required,max=64"`
	Path string `yaml:"path" validate:"omitempty,max=4096"`
}

// ProviderSettings configures the process-wide provider state
type ProviderSettings struct {
	// RandFile overrides $RANDFILE / $HOME/.rnd as the default seed file.
	RandFile string `yaml:"rand_file" validate:"omitempty,max=4096"`
	// SeedOnInit loads the default seed file once the provider is ready.
	SeedOnInit bool `yaml:"seed_on_init"`
	// VerboseErrors makes error() dump the remaining queue to the diagnostic stream.
	VerboseErrors  bool                    `yaml:"verbose_errors"`
	DynamicEngines []DynamicEngineSettings `yaml:"dynamic_engines" validate:"omitempty,max=32,dive"`
	BindingVersion string                  `yaml:"binding_version" validate:"omitempty,max=32"`
}

// Validate checks that all fields in ProviderSettings are valid
func (s *ProviderSettings) Validate() error {
	validate := validator.New()

	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("validation failed for ProviderSettings: %w", err)
	}

	seen := make(map[string]struct{}, len(s.DynamicEngines))
	for _, e := range s.DynamicEngines {
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("dynamic engine %q configured twice", e.ID)
		}
		seen[e.ID] = struct{}{}
	}

	return nil
}
