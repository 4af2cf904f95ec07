package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	"github.com/clinicore/clinic-access/internal/service"
)

// StaffAuthInterface defines the staff sign-in protocol surface the handlers need.
type StaffAuthInterface interface {
	SignIn(ctx context.Context, in service.SignInInput) (*service.SignInResult, error)
	SignOut(ctx context.Context, subjectID string) error
}

// StaffHandlers provides HTTP handlers for staff authentication operations.
type StaffHandlers struct {
	Svc      StaffAuthInterface
	Sessions SessionFactory
	Logger   *slog.Logger
}

func (h *StaffHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type staffLoginRequest struct {
	Identifier     string `json:"identifier"`
	Password       string `json:"password"`
	Role           string `json:"role"`
	RememberDevice bool   `json:"remember_device"`
}

type staffLoginResponse struct {
	Session      *domainauth.StaffSession `json:"session"`
	LandingRoute string                   `json:"landing_route"`
}

// Login handles the staff login endpoint.
// POST /auth/staff/login.
func (h *StaffHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req staffLoginRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	role, err := domainauth.ParseRole(req.Role)
	if err != nil || !role.IsStaff() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_role",
			Err:     errors.New("role must be admin or doctor"),
		})
		return
	}

	result, err := h.Svc.SignIn(r.Context(), service.SignInInput{
		Identifier:     req.Identifier,
		Password:       req.Password,
		RequiredRole:   role,
		RememberDevice: req.RememberDevice,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	// Legacy role records may not carry the exact email field; the verified
	// identity email is always present.
	email := result.Record.Email
	if email == "" {
		email = result.Identity.Email
	}

	session, err := h.Sessions(w, r).CreateSession(r.Context(), service.CreateSessionInput{
		SubjectID:      result.Identity.SubjectID,
		Email:          email,
		Role:           result.Record.Role,
		Name:           result.Record.Name,
		RememberDevice: req.RememberDevice,
	})
	if err != nil {
		// The credential handshake succeeded but the session could not be
		// stored. Revoke it so there is no signed-in-but-sessionless state.
		if signOutErr := h.Svc.SignOut(r.Context(), result.Identity.SubjectID); signOutErr != nil {
			h.logger().WarnContext(r.Context(), "sign-out after session failure failed",
				slog.Any("error", signOutErr))
		}
		RenderError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, staffLoginResponse{
		Session:      session,
		LandingRoute: result.LandingRoute,
	})
}

// Logout handles the staff logout endpoint.
// POST /auth/logout.
func (h *StaffHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Sessions(w, r).ClearSession(r.Context())
	WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
}

// Session returns the current staff session.
// GET /auth/session.
func (h *StaffHandlers) Session(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions(w, r).GetSession(r.Context())
	if session == nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"session":       session,
	})
}

// ExtendSession slides the current session's expiry forward.
// POST /auth/session/extend.
func (h *StaffHandlers) ExtendSession(w http.ResponseWriter, r *http.Request) {
	session := h.Sessions(w, r).ExtendSession(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("no session to extend"),
		})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"session": session})
}
