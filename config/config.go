package config

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config files for
// details on available environment variables:
//   - auth.go: staff and patient authentication configuration
//   - database.go: database and Redis configuration
//   - http.go: HTTP server configuration
//   - session.go: staff session configuration
//   - observability.go: metrics emission configuration
type AppConfig struct {
	// IsDev controls development mode behavior (dev auth provider, seeding).
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Staff session configuration
	Session SessionConfig `envPrefix:"SESSION_"`

	// Metrics emission configuration
	Metrics MetricsConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Auth.Sanitize()
	c.Session.Sanitize()
	c.Metrics.Sanitize()
}
