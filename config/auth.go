package config

import (
	"fmt"
	"strings"
)

// PatientAuthMode represents the authentication mode for patient sign-in.
type PatientAuthMode string

const (
	// PatientAuthModeOAuth uses OIDC for patient authentication.
	PatientAuthModeOAuth PatientAuthMode = "oauth"
	// PatientAuthModeMock uses a local dev provider (development only).
	PatientAuthModeMock PatientAuthMode = "mock"
)

// UnmarshalText implements encoding.TextUnmarshaler for PatientAuthMode.
func (a *PatientAuthMode) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "oauth", "mock":
		*a = PatientAuthMode(v)
		return nil
	default:
		return fmt.Errorf("invalid PatientAuthMode: %q (valid options: oauth, mock)", v)
	}
}

// OAuthConfig contains OIDC configuration for the patient identity provider.
type OAuthConfig struct {
	ClientID     string `env:"CLIENT_ID"     envDefault:"clinic-access"`
	ClientSecret string `env:"CLIENT_SECRET"`
	RedirectURL  string `env:"REDIRECT_URL"  envDefault:"http://localhost:8080/auth/patient/callback"`
	Scope        string `env:"SCOPE"         envDefault:"openid profile email"`
	DiscoveryURL string `env:"DISCOVERY_URL"`
}

// DevAuthConfig controls the mock patient identity used when
// PATIENT_AUTH_MODE=mock for development and testing.
type DevAuthConfig struct {
	SubjectID string `env:"SUBJECT_ID" envDefault:"dev-patient"`
	Email     string `env:"EMAIL"      envDefault:"patient@example.com"`
}

// StaffAuthConfig tunes the staff credential store.
type StaffAuthConfig struct {
	// BcryptCost is the bcrypt work factor for stored password hashes.
	BcryptCost int `env:"BCRYPT_COST" envDefault:"12"`

	// MaxFailedAttempts is the consecutive-failure threshold before the
	// account is temporarily locked.
	MaxFailedAttempts int `env:"MAX_FAILED_ATTEMPTS" envDefault:"5"`

	// LockoutMinutes is how long a locked account stays locked.
	LockoutMinutes int `env:"LOCKOUT_MINUTES" envDefault:"15"`
}

// AuthConfig groups all authentication-related configuration.
type AuthConfig struct {
	// Staff credential store tuning.
	Staff StaffAuthConfig `envPrefix:"STAFF_AUTH_"`

	// PatientMode determines which patient auth provider to use.
	PatientMode PatientAuthMode `env:"PATIENT_AUTH_MODE" envDefault:"mock"`

	// OAuth configuration (used when PatientMode=oauth).
	OAuth OAuthConfig `envPrefix:"PATIENT_OAUTH_"`

	// DevAuth configuration (used when PatientMode=mock).
	DevAuth DevAuthConfig `envPrefix:"DEV_PATIENT_"`
}

// Sanitize applies guardrails to auth configuration values.
func (c *AuthConfig) Sanitize() {
	const (
		minBcryptCost = 10
		maxBcryptCost = 16
	)
	if c.Staff.BcryptCost < minBcryptCost {
		c.Staff.BcryptCost = minBcryptCost
	}
	if c.Staff.BcryptCost > maxBcryptCost {
		c.Staff.BcryptCost = maxBcryptCost
	}
	if c.Staff.MaxFailedAttempts < 1 {
		c.Staff.MaxFailedAttempts = 5
	}
	if c.Staff.LockoutMinutes < 1 {
		c.Staff.LockoutMinutes = 15
	}
}
