package auth

import "time"

// PatientIdentity is the principal returned by the patient identity provider.
// Adapters map provider-specific claims into this shape.
type PatientIdentity struct {
	SubjectID string
	FirstName string
	LastName  string
	Email     string
	ExpiresAt time.Time // absolute expiry from the provider token
}

// PatientSession is the server-side record persisted for a signed-in patient.
// Patient sessions ride on the identity provider's own expiry and never carry
// staff privileges.
type PatientSession struct {
	ID        string    `json:"id"`
	SubjectID string    `json:"subject_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the patient session has passed its expiry.
func (s PatientSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
