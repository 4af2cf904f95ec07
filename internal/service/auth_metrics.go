package service

import (
	"sync"
	"time"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
)

// AuthMetrics tracks sign-in protocol outcomes. All methods are nil-safe so
// services can carry an optional tracker without guarding every call.
type AuthMetrics struct {
	mu sync.RWMutex

	// Sign-in outcome counters
	SignInSuccesses    int64 `json:"sign_in_successes"`
	NoProfileRejects   int64 `json:"no_profile_rejects"`
	RoleMismatches     int64 `json:"role_mismatches"`
	CredentialFailures int64 `json:"credential_failures"`
	LockoutRejects     int64 `json:"lockout_rejects"`
	ForcedSignOuts     int64 `json:"forced_sign_outs"`

	LastSignInAt time.Time `json:"last_sign_in_at"`

	sink metricsSink
}

type metricsSink interface {
	Count(name string, value int64, tags map[string]string)
}

// NewAuthMetrics creates a new outcome tracker.
func NewAuthMetrics() *AuthMetrics {
	return &AuthMetrics{}
}

// SetSink wires a metrics sink used to emit external metrics (e.g., StatsD).
func (m *AuthMetrics) SetSink(sink metricsSink) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sink = sink
}

// RecordSignIn records one sign-in attempt for the given surface role. The
// outcome is nil on success or the protocol error otherwise.
func (m *AuthMetrics) RecordSignIn(role domainauth.Role, err error) {
	if m == nil {
		return
	}

	outcome := signInOutcome(err)

	m.mu.Lock()
	switch outcome {
	case "success":
		m.SignInSuccesses++
		m.LastSignInAt = time.Now()
	case string(apperrors.ErrCodeNoProfileFound):
		m.NoProfileRejects++
	case string(apperrors.ErrCodeRoleMismatch):
		m.RoleMismatches++
	case string(apperrors.ErrCodeTooManyAttempts):
		m.LockoutRejects++
	default:
		m.CredentialFailures++
	}
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		sink.Count("auth.sign_in", 1, map[string]string{
			"role":    string(role),
			"outcome": outcome,
		})
	}
}

// RecordForcedSignOut records a post-auth revocation.
func (m *AuthMetrics) RecordForcedSignOut(role domainauth.Role) {
	if m == nil {
		return
	}

	m.mu.Lock()
	m.ForcedSignOuts++
	sink := m.sink
	m.mu.Unlock()

	if sink != nil {
		sink.Count("auth.forced_sign_out", 1, map[string]string{"role": string(role)})
	}
}

// Snapshot returns a copy of the current counters.
func (m *AuthMetrics) Snapshot() AuthMetrics {
	if m == nil {
		return AuthMetrics{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return AuthMetrics{
		SignInSuccesses:    m.SignInSuccesses,
		NoProfileRejects:   m.NoProfileRejects,
		RoleMismatches:     m.RoleMismatches,
		CredentialFailures: m.CredentialFailures,
		LockoutRejects:     m.LockoutRejects,
		ForcedSignOuts:     m.ForcedSignOuts,
		LastSignInAt:       m.LastSignInAt,
	}
}

func signInOutcome(err error) string {
	if err == nil {
		return "success"
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeUnknown)
}
