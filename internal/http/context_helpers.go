package httpx

import (
	"context"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
)

// sessionKey is an unexported context key type to avoid collisions across packages.
// Centralized in this file so all handlers/middleware use the same key.
type sessionKey struct{}

// SetSessionInContext returns a child context that carries the given staff session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.StaffSession) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetStaffSessionFromContext returns the staff session from context and a boolean indicating presence.
func GetStaffSessionFromContext(ctx context.Context) (*domainauth.StaffSession, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.StaffSession); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the staff session from the request context.
// Maintained for convenience; prefer GetStaffSessionFromContext when you need presence info.
func GetSessionFromContext(ctx context.Context) *domainauth.StaffSession {
	if s, ok := GetStaffSessionFromContext(ctx); ok {
		return s
	}
	return nil
}
