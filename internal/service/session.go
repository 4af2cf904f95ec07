package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/ports"
)

// SessionManagerOptions groups dependencies for SessionManager.
type SessionManagerOptions struct {
	// Primary is the durable store (Redis).
	Primary ports.SessionStore
	// Fallback is the cookie store bound to the current HTTP exchange.
	Fallback ports.SessionStore
	Logger   *slog.Logger
	// Now overrides the clock for tests.
	Now func() time.Time
}

// SessionManager owns all staff-session persistence I/O. Sessions are written
// to both stores; reads prefer the primary and fall back to the cookie, so
// loss of one store does not silently end the session. Malformed or expired
// payloads are never partially trusted: they clear both stores and read as
// absent. Storage failures degrade to "no session" rather than propagate;
// session absence must never break navigation.
//
// GetSession, CreateSession, ClearSession, and ExtendSession are the entire
// public surface.
type SessionManager struct {
	primary  ports.SessionStore
	fallback ports.SessionStore
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionManager constructs a SessionManager.
func NewSessionManager(opts SessionManagerOptions) *SessionManager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &SessionManager{
		primary:  opts.Primary,
		fallback: opts.Fallback,
		logger:   logger,
		now:      now,
	}
}

// CreateSessionInput carries the fields cached into a new staff session.
type CreateSessionInput struct {
	SubjectID      string
	Email          string
	Role           domainauth.Role
	Name           string
	RememberDevice bool
}

// CreateSession establishes a new session in both stores. Duration is 180
// days with RememberDevice, 24 hours without.
func (m *SessionManager) CreateSession(ctx context.Context, in CreateSessionInput) (*domainauth.StaffSession, error) {
	now := m.now()
	sess := domainauth.StaffSession{
		ID:             uuid.NewString(),
		SubjectID:      in.SubjectID,
		Email:          domainauth.NormalizeEmail(in.Email),
		Role:           in.Role,
		Name:           in.Name,
		LoggedInAt:     now,
		RememberDevice: in.RememberDevice,
	}
	sess.ExpiresAt = now.Add(sess.Duration())

	if err := sess.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, "invalid session")
	}
	if err := m.writeBoth(ctx, sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetSession returns the current valid session, or nil when there is none.
// Expired, malformed, or unreadable sessions are cleared from both stores and
// reported as absent.
func (m *SessionManager) GetSession(ctx context.Context) *domainauth.StaffSession {
	// The cookie carries both the session payload and the key into the
	// primary store.
	cookieSess, cookieErr := m.fallback.Read(ctx, "")
	if cookieErr != nil {
		if apperrors.IsMalformedSession(cookieErr) {
			m.logger.WarnContext(ctx, "malformed session cookie, clearing", slog.Any("error", cookieErr))
			m.ClearSession(ctx)
		}
		return nil
	}

	if sess, err := m.primary.Read(ctx, cookieSess.ID); err == nil {
		return m.vet(ctx, sess)
	} else if apperrors.IsMalformedSession(err) {
		m.logger.WarnContext(ctx, "malformed primary session, clearing", slog.Any("error", err))
		m.ClearSession(ctx)
		return nil
	}

	// Primary miss or unavailable: the cookie copy alone still authenticates.
	return m.vet(ctx, cookieSess)
}

// ExtendSession pushes the current session's expiry forward by its own
// duration class and rewrites both stores. The RememberDevice flag is sticky:
// a short session stays short, it never jumps to the extended class. Returns
// the extended session, or nil when no valid session exists.
func (m *SessionManager) ExtendSession(ctx context.Context) *domainauth.StaffSession {
	sess := m.GetSession(ctx)
	if sess == nil {
		return nil
	}

	extended := *sess
	extended.ExpiresAt = m.now().Add(extended.Duration())
	if err := m.writeBoth(ctx, extended); err != nil {
		m.logger.WarnContext(ctx, "session extension failed", slog.Any("error", err))
		return sess
	}
	return &extended
}

// ClearSession removes the session from both stores. Both clears are always
// attempted; a failure in one never skips the other.
func (m *SessionManager) ClearSession(ctx context.Context) {
	// The ID is taken even when the read errors: a malformed cookie can still
	// carry the primary-store key. An undecodable cookie yields no key, and
	// the orphaned primary entry then expires on its own TTL.
	sess, _ := m.fallback.Read(ctx, "")
	id := sess.ID
	if err := m.primary.Clear(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "clear primary session failed", slog.Any("error", err))
	}
	if err := m.fallback.Clear(ctx, id); err != nil {
		m.logger.WarnContext(ctx, "clear fallback session failed", slog.Any("error", err))
	}
}

// IsLoggedIn reports whether a valid staff session exists.
func (m *SessionManager) IsLoggedIn(ctx context.Context) bool {
	return m.GetSession(ctx) != nil
}

// vet structurally validates a deserialized session and checks expiry. Any
// failure clears both stores and reads as absence.
func (m *SessionManager) vet(ctx context.Context, sess domainauth.StaffSession) *domainauth.StaffSession {
	if err := sess.Validate(); err != nil {
		m.logger.WarnContext(ctx, "session failed validation, clearing", slog.Any("error", err))
		m.ClearSession(ctx)
		return nil
	}
	if sess.Expired(m.now()) {
		m.ClearSession(ctx)
		return nil
	}
	return &sess
}

// writeBoth writes the session to both stores. One store failing is tolerated
// (the other copy keeps the session alive); both failing is an error.
func (m *SessionManager) writeBoth(ctx context.Context, sess domainauth.StaffSession) error {
	primaryErr := m.primary.Write(ctx, sess)
	if primaryErr != nil {
		m.logger.WarnContext(ctx, "primary session write failed", slog.Any("error", primaryErr))
	}
	fallbackErr := m.fallback.Write(ctx, sess)
	if fallbackErr != nil {
		m.logger.WarnContext(ctx, "fallback session write failed", slog.Any("error", fallbackErr))
	}
	if primaryErr != nil && fallbackErr != nil {
		return apperrors.Wrap(fallbackErr, apperrors.ErrCodeInternal, "session could not be persisted")
	}
	return nil
}
