package cookiestore

// Package cookiestore provides the cookie-backed fallback session store. The
// cookie carries the full serialized session so the session survives loss of
// the primary store, and it doubles as the client's key into the primary.

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// Config controls cookie naming and attributes.
type Config struct {
	// Name is the cookie name.
	Name string
	// Domain is the cookie domain; empty uses the request domain.
	Domain string
}

// Store is a request-scoped session store over one HTTP exchange. Reads come
// from the request's cookie jar; writes and clears go to the response.
type Store struct {
	w   http.ResponseWriter
	r   *http.Request
	cfg Config
}

// New binds a cookie store to an HTTP exchange.
func New(w http.ResponseWriter, r *http.Request, cfg Config) *Store {
	if cfg.Name == "" {
		cfg.Name = "staff_session"
	}
	return &Store{w: w, r: r, cfg: cfg}
}

// Write serializes the session into the cookie. MaxAge matches the session's
// remaining lifetime; SameSite=Lax, Secure when the request arrived over TLS.
func (s *Store) Write(_ context.Context, sess domainauth.StaffSession) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeInternal, "marshal session")
	}

	maxAge := int(time.Until(sess.ExpiresAt).Seconds())
	if maxAge <= 0 {
		return apperrors.Validation("session is already expired")
	}

	http.SetCookie(s.w, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		Domain:   s.cfg.Domain,
		HttpOnly: true,
		Secure:   s.isSecure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
	return nil
}

// Read returns the session held by the request cookie. The cookie store holds
// a single ambient session, so a non-matching ID is still returned; the
// session manager decides what to trust. Undecodable payloads surface as
// malformed_session so the manager clears both stores.
func (s *Store) Read(_ context.Context, _ string) (domainauth.StaffSession, error) {
	cookie, err := s.r.Cookie(s.cfg.Name)
	if err != nil {
		return domainauth.StaffSession{}, apperrors.NotFound("session cookie not present")
	}

	raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(cookie.Value))
	if err != nil {
		return domainauth.StaffSession{}, apperrors.Wrap(err,
			apperrors.ErrCodeMalformedSession, "decode session cookie")
	}

	var sess domainauth.StaffSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		// A shape mismatch can still yield the primary-store key, so the
		// manager gets to clear the primary entry rather than leave it to
		// expire on its own TTL.
		var key struct {
			ID string `json:"id"`
		}
		_ = json.Unmarshal(raw, &key)
		return domainauth.StaffSession{ID: key.ID}, apperrors.Wrap(err,
			apperrors.ErrCodeMalformedSession, "unmarshal session cookie")
	}
	return sess, nil
}

// Clear expires the cookie on the response, mirroring the attributes used
// when setting it so deletion works across browsers.
func (s *Store) Clear(_ context.Context, _ string) error {
	http.SetCookie(s.w, &http.Cookie{
		Name:     s.cfg.Name,
		Value:    "",
		Path:     "/",
		Domain:   s.cfg.Domain,
		HttpOnly: true,
		Secure:   s.isSecure(),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
	})
	return nil
}

func (s *Store) isSecure() bool {
	return s.r.TLS != nil || strings.EqualFold(s.r.Header.Get("X-Forwarded-Proto"), "https")
}
