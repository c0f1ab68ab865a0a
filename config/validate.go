package config

import (
	"errors"
	"fmt"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure.
func (c *Config) Validate() error {
	var errs []error

	switch c.Model.ProviderName() {
	case ProviderOpenAI, ProviderOpenRouter, ProviderAnthropic:
		// valid
	default:
		errs = append(errs, fmt.Errorf("model.provider must be one of openai, openrouter, anthropic, got %q", c.Model.Provider))
	}

	if c.Model.Name == "" {
		errs = append(errs, fmt.Errorf("model.name is required"))
	}

	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		errs = append(errs, fmt.Errorf("model.temperature must be within [0, 2], got %g", c.Model.Temperature))
	}

	if c.Pup.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("pup.max_iterations must be > 0, got %d", c.Pup.MaxIterations))
	}

	if c.Pup.MaxParallelTools < 0 {
		errs = append(errs, fmt.Errorf("pup.max_parallel_tools must be >= 0, got %d", c.Pup.MaxParallelTools))
	}

	if c.Pup.BailSentinel == "" {
		errs = append(errs, fmt.Errorf("pup.bail_sentinel is required"))
	}

	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level))
	}

	switch c.Logging.Format {
	case "text", "json":
		// valid
	default:
		errs = append(errs, fmt.Errorf("logging.format must be \"text\" or \"json\", got %q", c.Logging.Format))
	}

	return errors.Join(errs...)
}
