package config

import (
	"fmt"
	"time"
)

// Config holds the admission policy. It is immutable once handed to the service.
type Config struct {
	// AdminKey enables the override when non-empty.
	AdminKey string
	// Window is the trailing period evaluated per source address.
	Window time.Duration
	// MaxPerWindow is how many audits one address may run per Window.
	MaxPerWindow int
	// HistoryLimit bounds how many prior records the history lookup fetches.
	HistoryLimit int
}

// DefaultConfig returns one audit per address per day with no admin override.
func DefaultConfig() Config {
	return Config{
		Window:       24 * time.Hour,
		MaxPerWindow: 1,
		HistoryLimit: 1,
	}
}

// Validate rejects settings the evaluator cannot work with.
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("rate window must be positive, got %s", c.Window)
	}
	if c.MaxPerWindow < 1 {
		return fmt.Errorf("max audits per window must be at least 1, got %d", c.MaxPerWindow)
	}
	if c.HistoryLimit < 1 {
		return fmt.Errorf("history limit must be at least 1, got %d", c.HistoryLimit)
	}
	return nil
}

// AdminOverrideEnabled reports whether an admin key is configured.
func (c Config) AdminOverrideEnabled() bool {
	return c.AdminKey != ""
}
