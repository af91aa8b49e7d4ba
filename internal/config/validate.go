package config

import (
	"fmt"
	"slices"

	"lingovibe/backend/internal/model"
)

var (
	validProviders = []string{"gemini", "openai", "anthropic", "compatible"}
	validDrivers   = []string{"sqlite", "badger"}
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if !slices.Contains(validDrivers, c.Storage.Driver) {
		return fmt.Errorf("storage.driver must be one of %v (got %q)", validDrivers, c.Storage.Driver)
	}
	if c.Storage.MaintenanceInterval < 0 {
		return fmt.Errorf("storage.maintenance_interval must be >= 0 (got %v)", c.Storage.MaintenanceInterval)
	}
	if !slices.Contains(validProviders, c.AI.Provider) {
		return fmt.Errorf("ai.provider must be one of %v (got %q)", validProviders, c.AI.Provider)
	}
	if c.AI.Provider == "compatible" && c.AI.BaseURL == "" && c.AI.APIKey != "" {
		return fmt.Errorf("ai.base_url is required for the compatible provider")
	}
	if c.AI.RequestTimeout <= 0 {
		return fmt.Errorf("ai.request_timeout must be > 0 (got %v)", c.AI.RequestTimeout)
	}
	if c.AI.RateLimit < 0 {
		return fmt.Errorf("ai.rate_limit must be >= 0 (got %d)", c.AI.RateLimit)
	}
	if c.Session.FlipDelay < 0 {
		return fmt.Errorf("session.flip_delay must be >= 0 (got %v)", c.Session.FlipDelay)
	}
	if !model.IsSupportedLanguage(c.Session.NativeLang) {
		return fmt.Errorf("session.native_lang %q is not a supported language", c.Session.NativeLang)
	}
	if !model.IsSupportedLanguage(c.Session.TargetLang) {
		return fmt.Errorf("session.target_lang %q is not a supported language", c.Session.TargetLang)
	}
	if c.Snowflake.NodeID < 0 || c.Snowflake.NodeID > 1023 {
		return fmt.Errorf("snowflake.node_id must be within 0..1023 (got %d)", c.Snowflake.NodeID)
	}
	return nil
}
