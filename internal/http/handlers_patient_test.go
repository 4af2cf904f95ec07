package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	mockauth "github.com/clinicore/clinic-access/internal/mocks/auth"
	"github.com/clinicore/clinic-access/internal/ports"
	"github.com/clinicore/clinic-access/internal/service"
)

func newPatientHandlers() (*PatientHandlers, *mockauth.MockPatientAuthProvider) {
	provider := mockauth.NewMockPatientAuthProvider()
	svc := service.NewPatientAuthService(service.PatientAuthServiceOptions{
		Provider: provider,
		Sessions: mockauth.NewMemoryPatientSessionStore(),
	})
	return &PatientHandlers{Svc: svc, Logger: discardLogger()}, provider
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestPatientHandlers_Login_RedirectsToProvider(t *testing.T) {
	h, _ := newPatientHandlers()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/login?redirect_uri=/records", nil)
	h.Login(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Contains(t, w.Header().Get("Location"), "https://mock-idp/auth")

	cookies := w.Result().Cookies()
	state := cookieByName(cookies, "oauth_state")
	nonce := cookieByName(cookies, "oauth_nonce")
	redirect := cookieByName(cookies, "post_login_redirect")
	require.NotNil(t, state)
	require.NotNil(t, nonce)
	require.NotNil(t, redirect)
	assert.Equal(t, "/records", redirect.Value)
	assert.Equal(t, 600, state.MaxAge)
	assert.True(t, state.HttpOnly)
}

func TestPatientHandlers_Login_RejectsAbsoluteRedirect(t *testing.T) {
	h, _ := newPatientHandlers()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/login?redirect_uri=https://evil.example/phish", nil)
	h.Login(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	redirect := cookieByName(w.Result().Cookies(), "post_login_redirect")
	require.NotNil(t, redirect)
	assert.Equal(t, "/", redirect.Value)
}

func TestPatientHandlers_Callback_FullFlow(t *testing.T) {
	h, _ := newPatientHandlers()

	// Begin the flow to capture state and nonce.
	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/patient/login?redirect_uri=/records", nil))
	loginCookies := w.Result().Cookies()
	state := cookieByName(loginCookies, "oauth_state")
	require.NotNil(t, state)

	// Complete it.
	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/callback?code=abc&state="+state.Value, nil)
	for _, c := range loginCookies {
		r.AddCookie(c)
	}
	h.Callback(w, r)

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/records", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	sessionCookie := cookieByName(cookies, patientSessionCookie)
	require.NotNil(t, sessionCookie)
	assert.NotEmpty(t, sessionCookie.Value)
	assert.Greater(t, sessionCookie.MaxAge, 0)

	// State and nonce cookies are cleared after use.
	assert.Equal(t, -1, cookieByName(cookies, "oauth_state").MaxAge)
	assert.Equal(t, -1, cookieByName(cookies, "oauth_nonce").MaxAge)
}

func TestPatientHandlers_Callback_MissingParams(t *testing.T) {
	h, _ := newPatientHandlers()

	w := httptest.NewRecorder()
	h.Callback(w, httptest.NewRequest(http.MethodGet, "/auth/patient/callback?state=s", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	h.Callback(w, httptest.NewRequest(http.MethodGet, "/auth/patient/callback?code=c", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatientHandlers_Callback_StateMismatch(t *testing.T) {
	h, _ := newPatientHandlers()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/callback?code=abc&state=forged", nil)
	r.AddCookie(&http.Cookie{Name: "oauth_state", Value: "genuine"})
	r.AddCookie(&http.Cookie{Name: "oauth_nonce", Value: "nonce"})
	h.Callback(w, r)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_state", body["error"])
}

func TestPatientHandlers_Status(t *testing.T) {
	h, provider := newPatientHandlers()
	provider.DefaultIdentity = domainauth.PatientIdentity{
		SubjectID: "patient-1",
		FirstName: "Pat",
		LastName:  "Example",
		Email:     "pat@example.com",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	// No cookie means unauthenticated.
	w := httptest.NewRecorder()
	h.Status(w, httptest.NewRequest(http.MethodGet, "/auth/patient/status", nil))
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["authenticated"])

	// Complete a login and replay the session cookie.
	sess, err := h.Svc.CompleteLogin(context.Background(), service.CompleteLoginInput{
		Code: "abc", State: "s", Nonce: "n",
	})
	require.NoError(t, err)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/status", nil)
	r.AddCookie(&http.Cookie{Name: patientSessionCookie, Value: sess.ID})
	h.Status(w, r)

	resp = nil
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["authenticated"])
	patient, ok := resp["patient"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "patient-1", patient["id"])
	assert.Equal(t, "pat@example.com", patient["email"])
}

func TestPatientHandlers_Status_StaleCookieCleared(t *testing.T) {
	h, _ := newPatientHandlers()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/status", nil)
	r.AddCookie(&http.Cookie{Name: patientSessionCookie, Value: "gone"})
	h.Status(w, r)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["authenticated"])

	cleared := cookieByName(w.Result().Cookies(), patientSessionCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestPatientHandlers_Logout(t *testing.T) {
	h, _ := newPatientHandlers()

	sess, err := h.Svc.CompleteLogin(context.Background(), service.CompleteLoginInput{
		Code: "abc", State: "s", Nonce: "n",
	})
	require.NoError(t, err)

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/auth/patient/logout", nil)
	r.AddCookie(&http.Cookie{Name: patientSessionCookie, Value: sess.ID})
	h.Logout(w, r)

	assert.Equal(t, http.StatusOK, w.Code)

	_, err = h.Svc.GetSession(context.Background(), sess.ID)
	assert.Error(t, err)

	cleared := cookieByName(w.Result().Cookies(), patientSessionCookie)
	require.NotNil(t, cleared)
	assert.Equal(t, -1, cleared.MaxAge)
}

func TestPatientHandlers_Callback_ProviderErrorNotLeaked(t *testing.T) {
	h, provider := newPatientHandlers()
	provider.ExchangeFunc = func(context.Context, ports.ExchangeInput) (domainauth.PatientIdentity, error) {
		return domainauth.PatientIdentity{}, errors.New("oauth2: cannot fetch token: client_secret=s3cr3t rejected by https://idp.internal")
	}

	w := httptest.NewRecorder()
	h.Login(w, httptest.NewRequest(http.MethodGet, "/auth/patient/login", nil))
	loginCookies := w.Result().Cookies()
	state := cookieByName(loginCookies, "oauth_state")
	require.NotNil(t, state)

	w = httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/auth/patient/callback?code=abc&state="+state.Value, nil)
	for _, c := range loginCookies {
		r.AddCookie(c)
	}
	h.Callback(w, r)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "login_completion_failed", body["error"])
	assert.NotContains(t, body["message"], "client_secret")
	assert.NotContains(t, body["message"], "idp.internal")
}
