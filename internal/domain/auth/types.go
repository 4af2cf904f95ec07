package auth

// Package auth contains domain-level types for staff authentication, role
// records, and sessions. It is pure and free of framework/adapter concerns.

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Role represents an application's authorization role.
// Keep string form for easy persistence and cookies.
// Valid values are defined as constants below.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// Session duration classes. RememberDevice selects the extended class.
const (
	SessionDurationShort    = 24 * time.Hour
	SessionDurationExtended = 180 * 24 * time.Hour
)

// ParseRole converts a string to a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleDoctor:
		return RoleDoctor, nil
	case RolePatient:
		return RolePatient, nil
	default:
		return "", fmt.Errorf("invalid role: %q", s)
	}
}

// IsStaff reports whether the role is one of the two privileged staff roles.
func (r Role) IsStaff() bool { return r == RoleAdmin || r == RoleDoctor }

// NormalizeEmail applies the canonical email normalization (trim + lowercase)
// used for every email comparison in the role directory. Case or whitespace
// differences must never cause a false negative lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Identity represents the authenticated principal returned by the credential
// store. It is immutable once issued; the application never mutates it.
type Identity struct {
	SubjectID string // stable provider-issued identifier
	Email     string // verified email
}

// RoleRecord is the authoritative document stating which role a subject holds.
// DocKey is the record's key in the directory: the subject id under the
// canonical scheme, or the normalized email under the oldest scheme.
type RoleRecord struct {
	DocKey     string
	SubjectID  string
	Email      string
	EmailLower string // legacy schema field; empty on canonical records
	Role       Role
	StaffID    string // opaque staff login identifier, staff records only
	Name       string
}

// StaffSession is the client-held session for a staff member. It caches
// (email, role, name) plus its own temporal validity; the RoleRecord remains
// the source of truth for role.
type StaffSession struct {
	ID             string    `json:"id"`
	SubjectID      string    `json:"subject_id,omitempty"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	Name           string    `json:"name"`
	LoggedInAt     time.Time `json:"logged_in_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	RememberDevice bool      `json:"remember_device"`
}

// Validate checks the session structurally before it may be trusted. A
// malformed or tampered payload must be treated as no session at all.
func (s StaffSession) Validate() error {
	if s.ID == "" {
		return errors.New("session id is empty")
	}
	if s.Email == "" {
		return errors.New("session email is empty")
	}
	if !s.Role.IsStaff() {
		return fmt.Errorf("session role %q is not a staff role", s.Role)
	}
	if s.LoggedInAt.IsZero() || s.ExpiresAt.IsZero() {
		return errors.New("session timestamps are missing")
	}
	if !s.ExpiresAt.After(s.LoggedInAt) {
		return errors.New("session expiry precedes login time")
	}
	return nil
}

// Expired reports whether the session has passed its expiry at the given time.
func (s StaffSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Duration returns the session's duration class. The RememberDevice flag is
// sticky: extension re-applies the same class, never upgrades it.
func (s StaffSession) Duration() time.Duration {
	if s.RememberDevice {
		return SessionDurationExtended
	}
	return SessionDurationShort
}

// IsAdmin reports whether the session belongs to an admin.
func (s StaffSession) IsAdmin() bool { return s.Role == RoleAdmin }

// IsDoctor reports whether the session belongs to a doctor.
func (s StaffSession) IsDoctor() bool { return s.Role == RoleDoctor }

// LandingRoute returns the canonical post-login route for a staff role.
func LandingRoute(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin"
	case RoleDoctor:
		return "/doctor/dashboard"
	default:
		return "/"
	}
}

// LoginSurface returns the login page for a role, used to point a mismatched
// sign-in attempt at the surface that would actually accept it.
func LoginSurface(role Role) string {
	switch role {
	case RoleAdmin:
		return "/admin/login"
	case RoleDoctor:
		return "/doctor/login"
	default:
		return "/login"
	}
}
