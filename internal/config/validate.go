package config

import (
	"fmt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "file":
		if c.Storage.File.Path == "" {
			return fmt.Errorf("storage.file.path must be set for the file driver")
		}
	case "postgres":
		if c.Storage.Postgres.DSN == "" {
			return fmt.Errorf("storage.postgres.dsn must be set for the postgres driver")
		}
	default:
		return fmt.Errorf("storage.driver must be \"file\" or \"postgres\" (got %q)", c.Storage.Driver)
	}

	if c.Remote.Timeout <= 0 {
		return fmt.Errorf("remote.timeout must be > 0 (got %v)", c.Remote.Timeout)
	}

	if err := c.Engine.validate(); err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	return nil
}

func (e *EngineConfig) validate() error {
	if e.PageSize < 1 {
		return fmt.Errorf("page_size must be >= 1 (got %d)", e.PageSize)
	}
	if e.SearchDebounce < 0 {
		return fmt.Errorf("search_debounce must be >= 0 (got %v)", e.SearchDebounce)
	}
	if e.SimulatedAgeDays < 1 {
		return fmt.Errorf("simulated_age_days must be >= 1 (got %d)", e.SimulatedAgeDays)
	}
	return nil
}
