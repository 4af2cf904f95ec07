package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/ports"
)

// PatientAuthServiceOptions groups dependencies for PatientAuthService.
type PatientAuthServiceOptions struct {
	Provider ports.PatientAuthProvider
	Sessions ports.PatientSessionStore
}

// PatientAuthService orchestrates the patient sign-in flow: provider
// handshake, session persistence, lookup, and logout. Patient sessions ride
// on the identity provider's expiry; the staff protocol and its dual-store
// session manager are not involved.
type PatientAuthService struct {
	provider ports.PatientAuthProvider
	sessions ports.PatientSessionStore
}

var errPatientSessionExpired = errors.New("patient session expired")

// NewPatientAuthService constructs a new PatientAuthService.
func NewPatientAuthService(opts PatientAuthServiceOptions) *PatientAuthService {
	return &PatientAuthService{
		provider: opts.Provider,
		sessions: opts.Sessions,
	}
}

// BeginLoginResult contains the result of beginning a login flow.
type BeginLoginResult struct {
	AuthURL string
	State   string
	Nonce   string
}

// BeginLogin initiates the provider flow and returns the auth URL with state
// and nonce.
func (s *PatientAuthService) BeginLogin(ctx context.Context, redirectURL string) (*BeginLoginResult, error) {
	if redirectURL == "" {
		return nil, errors.New("redirect URL is required")
	}

	authURL, state, nonce, err := s.provider.Begin(ctx, ports.BeginInput{RedirectURL: redirectURL})
	if err != nil {
		return nil, fmt.Errorf("begin auth flow: %w", err)
	}
	return &BeginLoginResult{AuthURL: authURL, State: state, Nonce: nonce}, nil
}

// CompleteLoginInput groups parameters for completing a login flow.
type CompleteLoginInput struct {
	Code  string
	State string
	Nonce string
}

// CompleteLogin exchanges the code for an identity and persists a patient
// session.
func (s *PatientAuthService) CompleteLogin(ctx context.Context, in CompleteLoginInput) (*domainauth.PatientSession, error) {
	if in.Code == "" {
		return nil, errors.New("authorization code is required")
	}
	if in.State == "" {
		return nil, errors.New("state parameter is required")
	}
	if in.Nonce == "" {
		return nil, errors.New("nonce parameter is required")
	}

	identity, err := s.provider.Exchange(ctx, ports.ExchangeInput{
		Code:  in.Code,
		State: in.State,
		Nonce: in.Nonce,
	})
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	session := domainauth.PatientSession{
		ID:        uuid.NewString(),
		SubjectID: identity.SubjectID,
		FirstName: identity.FirstName,
		LastName:  identity.LastName,
		Email:     domainauth.NormalizeEmail(identity.Email),
		Role:      domainauth.RolePatient,
		ExpiresAt: identity.ExpiresAt,
	}
	if saveErr := s.sessions.Save(ctx, session); saveErr != nil {
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	return &session, nil
}

// GetSession retrieves a patient session by ID, clearing it when expired.
func (s *PatientAuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.PatientSession, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, err
		}
		return nil, fmt.Errorf("get session: %w", err)
	}

	if session.Expired(time.Now()) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errPatientSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errPatientSessionExpired
	}
	return &session, nil
}

// Logout removes a patient session.
func (s *PatientAuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
