package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/ports"
)

// StaffAuthServiceOptions groups dependencies for StaffAuthService.
type StaffAuthServiceOptions struct {
	Credentials ports.CredentialStore
	Directory   ports.RoleDirectory
	Resolver    *RoleResolver
	Metrics     *AuthMetrics
	Logger      *slog.Logger
}

// StaffAuthService runs the staff sign-in protocol: identifier resolution,
// pre-auth role validation, credential authentication, and a mandatory
// post-auth role re-validation that forces sign-out on any mismatch. Every
// step short-circuits on failure; the protocol fails closed and never trusts
// a single check.
type StaffAuthService struct {
	creds    ports.CredentialStore
	dir      ports.RoleDirectory
	resolver *RoleResolver
	metrics  *AuthMetrics
	logger   *slog.Logger
}

// NewStaffAuthService constructs a new StaffAuthService.
func NewStaffAuthService(opts StaffAuthServiceOptions) *StaffAuthService {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	resolver := opts.Resolver
	if resolver == nil {
		resolver = NewRoleResolver(opts.Directory)
	}
	return &StaffAuthService{
		creds:    opts.Credentials,
		dir:      opts.Directory,
		resolver: resolver,
		metrics:  opts.Metrics,
		logger:   logger,
	}
}

// SignInInput carries one sign-in attempt. Identifier is either an email or
// an opaque staff ID; RequiredRole is the role of the login surface the
// attempt came from.
type SignInInput struct {
	Identifier     string
	Password       string
	RequiredRole   domainauth.Role
	RememberDevice bool
}

// SignInResult is returned on full protocol success. The caller establishes
// the session and performs the redirect.
type SignInResult struct {
	Identity     domainauth.Identity
	Record       *domainauth.RoleRecord
	LandingRoute string
}

// SignIn executes the protocol. Each step short-circuits:
//
//  1. staff-ID identifiers resolve to an email via a directory query
//     constrained to the required role; a credential lookup never sees an
//     unresolved identifier
//  2. pre-auth role check by email, so a credential handshake is never
//     completed for a user who would immediately be rejected
//  3. credential authentication
//  4. post-auth re-validation with the full id-first resolver chain; any
//     absence or mismatch forces sign-out before the failure is returned
func (s *StaffAuthService) SignIn(ctx context.Context, in SignInInput) (res *SignInResult, err error) {
	defer func() { s.metrics.RecordSignIn(in.RequiredRole, err) }()

	if !in.RequiredRole.IsStaff() {
		return nil, apperrors.Validationf("role %q is not a staff role", in.RequiredRole)
	}

	email, err := s.resolveIdentifier(ctx, in.Identifier, in.RequiredRole)
	if err != nil {
		return nil, err
	}

	// Pre-auth role check, by email only: no subject id exists yet.
	if err := s.preAuthCheck(ctx, email, in.RequiredRole); err != nil {
		return nil, err
	}

	identity, err := s.creds.SignIn(ctx, email, in.Password)
	if err != nil {
		return nil, mapCredentialError(err)
	}

	// Post-auth re-validation is mandatory even though the pre-auth check
	// passed: the record may have changed in between, and the id-first chain
	// may resolve a different record than the email lookup did.
	record, err := s.postAuthCheck(ctx, identity, in.RequiredRole)
	if err != nil {
		s.forceSignOut(ctx, identity.SubjectID)
		s.metrics.RecordForcedSignOut(in.RequiredRole)
		return nil, err
	}

	s.logger.InfoContext(ctx, "staff sign-in",
		slog.String("role", string(record.Role)),
		slog.String("subject", identity.SubjectID))

	return &SignInResult{
		Identity:     identity,
		Record:       record,
		LandingRoute: domainauth.LandingRoute(record.Role),
	}, nil
}

// resolveIdentifier turns the submitted identifier into an email. Anything
// without an "@" is treated as a staff ID and looked up case-insensitively,
// constrained to the required role.
func (s *StaffAuthService) resolveIdentifier(ctx context.Context, identifier string, role domainauth.Role) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", apperrors.Validation("email or staff ID is required")
	}
	if strings.Contains(identifier, "@") {
		return domainauth.NormalizeEmail(identifier), nil
	}

	rec, err := s.dir.FindByStaffID(ctx, identifier, role)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return "", apperrors.NoProfileFound(
				fmt.Sprintf("No %s account matches this staff ID.", role))
		}
		return "", apperrors.Wrap(err, apperrors.ErrCodeNetworkError,
			"The directory did not respond. Please try again.")
	}
	// Legacy records carry the address in emailLower only.
	email := rec.Email
	if email == "" {
		email = rec.EmailLower
	}
	return domainauth.NormalizeEmail(email), nil
}

func (s *StaffAuthService) preAuthCheck(ctx context.Context, email string, required domainauth.Role) error {
	res, err := s.resolver.ResolveByEmail(ctx, email)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeNetworkError,
			"The directory did not respond. Please try again.")
	}
	if !res.Exists {
		return apperrors.NoProfileFound("No staff profile found for this account.")
	}
	if res.Record.Role != required {
		return roleMismatchError(res.Record.Role)
	}
	return nil
}

func (s *StaffAuthService) postAuthCheck(ctx context.Context, identity domainauth.Identity, required domainauth.Role) (*domainauth.RoleRecord, error) {
	res, err := s.resolver.Resolve(ctx, identity.SubjectID, identity.Email)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeNetworkError,
			"The directory did not respond. Please try again.")
	}
	if !res.Exists {
		return nil, apperrors.NoProfileFound("No staff profile found for this account.")
	}
	if res.Record.Role != required {
		return nil, roleMismatchError(res.Record.Role)
	}
	return res.Record, nil
}

// SignOut revokes the subject's authentication state. Used by callers that
// must tear down a completed handshake, such as when session persistence
// fails after a successful sign-in.
func (s *StaffAuthService) SignOut(ctx context.Context, subjectID string) error {
	return s.creds.SignOut(ctx, subjectID)
}

// forceSignOut revokes the just-completed credential handshake. Called exactly
// once per failed post-auth check; a revocation failure is logged but cannot
// change the (already failing) outcome.
func (s *StaffAuthService) forceSignOut(ctx context.Context, subjectID string) {
	if err := s.creds.SignOut(ctx, subjectID); err != nil {
		s.logger.ErrorContext(ctx, "forced sign-out failed",
			slog.String("subject", subjectID), slog.Any("error", err))
	}
}

// roleMismatchError builds the mismatch failure, carrying the actual role and
// pointing at the login surface that would accept it.
func roleMismatchError(actual domainauth.Role) *apperrors.AppError {
	var msg string
	switch actual {
	case domainauth.RoleAdmin:
		msg = "This is an admin account. Please use the admin login."
	case domainauth.RoleDoctor:
		msg = "This is a doctor account. Please use the doctor login."
	default:
		msg = "This is a patient account. Please use the patient login."
	}
	return apperrors.RoleMismatch(string(actual), msg)
}

// mapCredentialError confines credential-store failures to the closed
// taxonomy; anything unmapped becomes unknown with a safe message.
func mapCredentialError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case apperrors.ErrCodeInvalidCredential,
			apperrors.ErrCodeTooManyAttempts,
			apperrors.ErrCodeNetworkError:
			return appErr
		}
	}
	return apperrors.Wrap(err, apperrors.ErrCodeUnknown, "Sign-in failed. Please try again.")
}
