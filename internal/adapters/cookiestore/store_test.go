package cookiestore

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

func testSession() domainauth.StaffSession {
	now := time.Now().UTC().Truncate(time.Second)
	return domainauth.StaffSession{
		ID:         "sess-1",
		SubjectID:  "sub-1",
		Email:      "admin@clinic.test",
		Role:       domainauth.RoleAdmin,
		Name:       "Alice",
		LoggedInAt: now,
		ExpiresAt:  now.Add(domainauth.SessionDurationShort),
	}
}

func TestStore_WriteSetsCookieAttributes(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(w, r, Config{Name: "staff_session", Domain: "clinic.test"})

	require.NoError(t, store.Write(context.Background(), testSession()))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "staff_session", c.Name)
	assert.NotEmpty(t, c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "clinic.test", c.Domain)
	assert.True(t, c.HttpOnly)
	assert.False(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Greater(t, c.MaxAge, 0)
	assert.LessOrEqual(t, c.MaxAge, int(domainauth.SessionDurationShort.Seconds()))
}

func TestStore_WriteSecureBehindProxy(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	store := New(w, r, Config{})

	require.NoError(t, store.Write(context.Background(), testSession()))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].Secure)
	assert.Equal(t, "staff_session", cookies[0].Name)
}

func TestStore_WriteExpiredSessionRejected(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(w, r, Config{})

	sess := testSession()
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	err := store.Write(context.Background(), sess)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, w.Result().Cookies())
}

func TestStore_RoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(w, r, Config{})

	sess := testSession()
	require.NoError(t, store.Write(context.Background(), sess))

	// Replay the response cookie on a fresh request.
	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(w.Result().Cookies()[0])
	store2 := New(httptest.NewRecorder(), r2, Config{})

	got, err := store2.Read(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
	assert.Equal(t, sess.Email, got.Email)
	assert.Equal(t, sess.Role, got.Role)
	assert.True(t, sess.ExpiresAt.Equal(got.ExpiresAt))
}

func TestStore_ReadNoCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(httptest.NewRecorder(), r, Config{})

	_, err := store.Read(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestStore_ReadTamperedCookieIsMalformed(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", "bm90LWpzb24"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: "staff_session", Value: tc.value})
			store := New(httptest.NewRecorder(), r, Config{})

			_, err := store.Read(context.Background(), "")
			require.Error(t, err)
			assert.True(t, apperrors.IsMalformedSession(err))
		})
	}
}

func TestStore_ReadMalformedPayloadKeepsID(t *testing.T) {
	// Valid JSON with a broken field still reads as malformed, but the
	// session ID comes back so the primary-store entry can be cleared.
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"id":"sess-1","role":42}`))
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: "staff_session", Value: payload})
	store := New(httptest.NewRecorder(), r, Config{})

	got, err := store.Read(context.Background(), "")
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedSession(err))
	assert.Equal(t, "sess-1", got.ID)
}

func TestStore_ClearExpiresCookie(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	store := New(w, r, Config{Domain: "clinic.test"})

	require.NoError(t, store.Clear(context.Background(), ""))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "staff_session", c.Name)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Equal(t, "clinic.test", c.Domain)
}
