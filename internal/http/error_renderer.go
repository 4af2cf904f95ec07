package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// errorBody is the JSON shape every failed request renders. ActualRole and
// LoginSurface are populated only for role_mismatch so a client can point the
// user at the surface matching their actual role.
type errorBody struct {
	Error        string `json:"error"`
	Message      string `json:"message"`
	ActualRole   string `json:"actual_role,omitempty"`
	LoginSurface string `json:"login_surface,omitempty"`
}

// maskedMessage is rendered whenever no curated message exists for an error.
const maskedMessage = "an unexpected error occurred"

// RenderError maps an error onto the wire: HTTP status from the taxonomy
// code, JSON body with the code and the curated message. The cause chain
// never reaches the body; Error() output includes wrapped provider detail
// and belongs in logs only.
func RenderError(w http.ResponseWriter, err error) {
	code := apperrors.GetCode(err)
	if code == "" {
		code = apperrors.ErrCodeUnknown
	}

	message := maskedMessage
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		message = appErr.Message
	}

	body := errorBody{
		Error:   string(code),
		Message: message,
	}
	if code == apperrors.ErrCodeRoleMismatch {
		if actual := apperrors.GetActualRole(err); actual != "" {
			body.ActualRole = actual
			if role, parseErr := domainauth.ParseRole(actual); parseErr == nil {
				body.LoginSurface = domainauth.LoginSurface(role)
			}
		}
	}
	if code == apperrors.ErrCodeUnknown || code == apperrors.ErrCodeInternal {
		body.Message = maskedMessage
	}

	WriteJSON(w, statusForCode(code), body)
}

func statusForCode(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInvalidCredential:
		return http.StatusUnauthorized
	case apperrors.ErrCodeMalformedSession:
		return http.StatusUnauthorized
	case apperrors.ErrCodeRoleMismatch:
		return http.StatusForbidden
	case apperrors.ErrCodeNoProfileFound:
		return http.StatusNotFound
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTooManyAttempts:
		return http.StatusTooManyRequests
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
