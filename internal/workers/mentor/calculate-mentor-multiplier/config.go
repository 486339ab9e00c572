package calculatementormultiplier

import (
	"errors"
	"fmt"
	"time"

	"mentor-pricing-workers/internal/common/config"
	"mentor-pricing-workers/internal/common/validation"
	"mentor-pricing-workers/pkg/registry"
)

type Config struct {
	Timeout          time.Duration `validate:"required,gt=0"`
	StrictValidation bool
	// InputSchema is only consulted in strict mode.
	InputSchema *validation.Schema
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}

// ErrMissingInputSchema is returned when strict validation is enabled but the
// activity registry carries no input schema for the task.
var ErrMissingInputSchema = errors.New("strict validation requires the activity input schema")

// NewConfig combines the worker section, the pricing section and the
// activity's registry entry. The registry timeout takes precedence.
func NewConfig(workerCfg config.WorkerConfig, pricingCfg config.PricingConfig, activity *registry.Activity) (*Config, error) {
	cfg := LoadConfig()
	if workerCfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(workerCfg.Timeout)
	}
	cfg.StrictValidation = pricingCfg.StrictValidation

	if activity != nil {
		if activity.Timeout != "" {
			d, err := time.ParseDuration(activity.Timeout)
			if err != nil {
				return nil, fmt.Errorf("activity %s timeout: %w", activity.ID, err)
			}
			cfg.Timeout = d
		}
		if len(activity.InputSchema) > 0 {
			schema, err := validation.Compile(activity.InputSchema)
			if err != nil {
				return nil, fmt.Errorf("activity %s input schema: %w", activity.ID, err)
			}
			cfg.InputSchema = schema
		}
	}

	if cfg.StrictValidation && cfg.InputSchema == nil {
		return nil, fmt.Errorf("%s: %w", TaskType, ErrMissingInputSchema)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	return validation.Struct(c)
}
