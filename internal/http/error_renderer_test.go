package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

func renderedError(t *testing.T, err error) (int, errorBody) {
	t.Helper()
	w := httptest.NewRecorder()
	RenderError(w, err)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestRenderError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid credential", apperrors.InvalidCredential("wrong password"), http.StatusUnauthorized, "invalid_credential"},
		{"malformed session", apperrors.MalformedSession("bad payload"), http.StatusUnauthorized, "malformed_session"},
		{"role mismatch", apperrors.RoleMismatch("doctor", "wrong surface"), http.StatusForbidden, "role_mismatch"},
		{"no profile", apperrors.NoProfileFound("no profile"), http.StatusNotFound, "no_profile_found"},
		{"not found", apperrors.NotFound("missing"), http.StatusNotFound, "not_found"},
		{"conflict", apperrors.Conflict("duplicate"), http.StatusConflict, "conflict"},
		{"too many attempts", apperrors.TooManyAttempts("locked"), http.StatusTooManyRequests, "too_many_attempts"},
		{"validation", apperrors.Validation("bad input"), http.StatusBadRequest, "validation"},
		{"network error", apperrors.NetworkError("unreachable"), http.StatusBadGateway, "network_error"},
		{"unknown", apperrors.Unknown("mystery"), http.StatusInternalServerError, "unknown"},
		{"internal", apperrors.Internal("broken"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := renderedError(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body.Error)
		})
	}
}

func TestRenderError_RoleMismatchCarriesActualRole(t *testing.T) {
	status, body := renderedError(t, apperrors.RoleMismatch("doctor", "use the doctor login"))

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "doctor", body.ActualRole)
	assert.Equal(t, "/doctor/login", body.LoginSurface)
	assert.Equal(t, "use the doctor login", body.Message)
}

func TestRenderError_MasksUnclassifiedDetail(t *testing.T) {
	status, body := renderedError(t, errors.New("pq: connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "unknown", body.Error)
	assert.Equal(t, "an unexpected error occurred", body.Message)
}

func TestRenderError_MasksInternalCause(t *testing.T) {
	wrapped := apperrors.Wrap(errors.New("dial tcp: refused"), apperrors.ErrCodeUnknown, "sign-in failed")

	_, body := renderedError(t, wrapped)
	assert.Equal(t, "an unexpected error occurred", body.Message)
}

func TestRenderError_WrappedCauseStaysOutOfBody(t *testing.T) {
	cause := errors.New("failed to connect to host=10.0.0.5 user=clinic database=clinic_prod: password authentication failed")
	err := apperrors.Wrap(cause, apperrors.ErrCodeNetworkError,
		"The directory did not respond. Please try again.")

	status, body := renderedError(t, err)
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "network_error", body.Error)
	assert.Equal(t, "The directory did not respond. Please try again.", body.Message)
	assert.NotContains(t, body.Message, "host=")
	assert.NotContains(t, body.Message, "password authentication failed")
}

func TestRenderError_NestedAppErrorMessageSurvivesWrapping(t *testing.T) {
	inner := apperrors.InvalidCredential("Incorrect email or password.")
	wrapped := fmt.Errorf("sign-in: %w", inner)

	status, body := renderedError(t, wrapped)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid_credential", body.Error)
	assert.Equal(t, "Incorrect email or password.", body.Message)
}
