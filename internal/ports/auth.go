package ports

// Package ports defines interfaces (hexagonal ports) for auth-related behavior.
// Implementations live in internal/adapters and internal/data; orchestration
// in internal/service.

import (
	"context"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
)

// CredentialStore authenticates (email, password) pairs and returns an opaque
// identity. Failures are reported as taxonomy errors from internal/errors
// (invalid_credential, too_many_attempts, network_error); raw provider detail
// never crosses this boundary.
type CredentialStore interface {
	// SignIn verifies the password for the normalized email and returns the
	// subject identity on success.
	SignIn(ctx context.Context, email, password string) (domainauth.Identity, error)

	// SignOut revokes any authentication state held for the subject. Called
	// by the staff protocol whenever a post-auth check fails, so a completed
	// credential handshake never outlives a rejected sign-in.
	SignOut(ctx context.Context, subjectID string) error
}

// RoleDirectory is the document store holding authoritative role records.
// Lookups that find nothing return an error satisfying errors.IsNotFound.
type RoleDirectory interface {
	// GetByKey performs a point read by record key: a subject id under the
	// canonical scheme, or a normalized email under the oldest scheme.
	GetByKey(ctx context.Context, key string) (*domainauth.RoleRecord, error)

	// FindByEmail queries on the exact email field.
	FindByEmail(ctx context.Context, email string) (*domainauth.RoleRecord, error)

	// FindByEmailLower queries on the legacy emailLower field.
	FindByEmailLower(ctx context.Context, emailLower string) (*domainauth.RoleRecord, error)

	// FindByStaffID queries on staffId (case-insensitive) constrained to the
	// given role.
	FindByStaffID(ctx context.Context, staffID string, role domainauth.Role) (*domainauth.RoleRecord, error)
}

// SessionStore persists and retrieves staff sessions. Two independent
// implementations back the session manager: a durable primary store and a
// cookie fallback. Both hold the full serialized session.
type SessionStore interface {
	// Write persists the session keyed by its ID.
	Write(ctx context.Context, sess domainauth.StaffSession) error

	// Read returns the session for the given ID. Implementations holding a
	// single ambient session (the cookie store) may ignore a non-matching or
	// empty ID and return whatever they hold.
	Read(ctx context.Context, id string) (domainauth.StaffSession, error)

	// Clear removes the session. Clearing an absent session is not an error.
	Clear(ctx context.Context, id string) error
}

// BeginInput carries inputs for initiating a patient auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// PatientAuthProvider initiates and completes the patient sign-in flow
// against the identity provider. Patient sessions ride entirely on the
// provider's persistence; the staff protocol never touches this port.
type PatientAuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an
	// opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and
	// returns the authenticated patient identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainauth.PatientIdentity, error)
}

// PatientSessionStore persists server-side patient sessions.
type PatientSessionStore interface {
	Save(ctx context.Context, sess domainauth.PatientSession) error
	Get(ctx context.Context, id string) (domainauth.PatientSession, error)
	Delete(ctx context.Context, id string) error
}
