package config

import "strings"

// SessionConfig contains staff session configuration. Durations are fixed by
// the session contract (24h short, 180d extended); only storage naming is
// configurable.
type SessionConfig struct {
	// CookieName is the name of the fallback store cookie.
	CookieName string `env:"COOKIE_NAME" envDefault:"staff_session"`

	// RedisPrefix is the key prefix for the primary session store.
	RedisPrefix string `env:"REDIS_PREFIX" envDefault:"staff_session:"`
}

// Sanitize applies guardrails to session configuration values.
func (c *SessionConfig) Sanitize() {
	c.CookieName = strings.TrimSpace(c.CookieName)
	if c.CookieName == "" {
		c.CookieName = "staff_session"
	}
	c.RedisPrefix = strings.TrimSpace(c.RedisPrefix)
	if c.RedisPrefix == "" {
		c.RedisPrefix = "staff_session:"
	}
}
