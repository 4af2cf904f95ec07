package httpx

import (
	"errors"
	"net/http"

	"github.com/clinicore/clinic-access/internal/policy"
)

// AuthzHandlers exposes the access policy engine over HTTP so backend peers
// can ask access questions without embedding the rule set.
type AuthzHandlers struct {
	Engine *policy.Engine
}

type authzCheckRequest struct {
	Action     string `json:"action"`
	ResourceID string `json:"resource_id"`
}

type authzCheckResponse struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Check evaluates an access request for the authenticated staff session.
// POST /api/authz/check.
func (h *AuthzHandlers) Check(w http.ResponseWriter, r *http.Request) {
	session := GetSessionFromContext(r.Context())
	if session == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req authzCheckRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Action == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "missing_action",
			Err:     errors.New("action is required"),
		})
		return
	}

	principal := policy.Principal{SubjectID: session.SubjectID, Role: session.Role}
	if principal.SubjectID == "" {
		// Sessions issued before subject ids were cached fall back to the
		// normalized email as the principal key.
		principal.SubjectID = session.Email
	}

	decision := h.Engine.Check(r.Context(), policy.Request{
		Principal:  principal,
		Action:     policy.Action(req.Action),
		ResourceID: req.ResourceID,
	})

	WriteJSON(w, http.StatusOK, authzCheckResponse{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	})
}
