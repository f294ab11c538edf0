package config

import "time"

// RateLimitRule is one fixed-window limit: at most Limit requests per Window.
type RateLimitRule struct {
	Limit  int           `koanf:"limit"`
	Window time.Duration `koanf:"window"`
}

// RateLimitConfig configures per-route fixed-window limits and the global
// burst guard applied to every request.
type RateLimitConfig struct {
	// Disabled turns off both the route limits and the global guard.
	Disabled bool `koanf:"disabled"`

	// GlobalRPS and GlobalBurst feed the token-bucket guard in front of all routes.
	GlobalRPS   float64 `koanf:"global_rps"`
	GlobalBurst int     `koanf:"global_burst"`

	Waitlist   RateLimitRule `koanf:"waitlist"`
	Consulting RateLimitRule `koanf:"consulting"`
	Events     RateLimitRule `koanf:"events"`
	Content    RateLimitRule `koanf:"content"`
	APIKey     RateLimitRule `koanf:"api_key"`
}

// DefaultRateLimitConfig returns the limits used when none are configured.
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		GlobalRPS:   20,
		GlobalBurst: 40,
		Waitlist:    RateLimitRule{Limit: 5, Window: time.Hour},
		Consulting:  RateLimitRule{Limit: 3, Window: time.Hour},
		Events:      RateLimitRule{Limit: 120, Window: time.Minute},
		Content:     RateLimitRule{Limit: 300, Window: time.Minute},
		APIKey:      RateLimitRule{Limit: 1000, Window: time.Minute},
	}
}

// fillDefaults replaces zero-valued rules with their defaults so partially
// configured blocks still behave.
func (c *RateLimitConfig) fillDefaults() {
	d := DefaultRateLimitConfig()

	if c.GlobalRPS <= 0 {
		c.GlobalRPS = d.GlobalRPS
	}
	if c.GlobalBurst <= 0 {
		c.GlobalBurst = d.GlobalBurst
	}

	for _, pair := range []struct {
		dst *RateLimitRule
		def RateLimitRule
	}{
		{&c.Waitlist, d.Waitlist},
		{&c.Consulting, d.Consulting},
		{&c.Events, d.Events},
		{&c.Content, d.Content},
		{&c.APIKey, d.APIKey},
	} {
		if pair.dst.Limit <= 0 {
			pair.dst.Limit = pair.def.Limit
		}
		if pair.dst.Window <= 0 {
			pair.dst.Window = pair.def.Window
		}
	}
}
