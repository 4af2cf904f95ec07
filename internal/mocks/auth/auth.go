// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainauth "github.com/clinicore/clinic-access/internal/domain/auth"
	apperrors "github.com/clinicore/clinic-access/internal/errors"
	"github.com/clinicore/clinic-access/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.PatientAuthProvider = (*MockPatientAuthProvider)(nil)
	_ ports.SessionStore        = (*MemorySessionStore)(nil)
	_ ports.PatientSessionStore = (*MemoryPatientSessionStore)(nil)
)

// MockPatientAuthProvider simulates an IdP for tests with deterministic state/nonce handling.
type MockPatientAuthProvider struct {
	BeginFunc    func(ctx context.Context, in ports.BeginInput) (authURL, state, nonce string, err error)
	ExchangeFunc func(ctx context.Context, in ports.ExchangeInput) (domainauth.PatientIdentity, error)

	// Deterministic values for predictable testing
	AuthURL         string
	StatePrefix     string
	NoncePrefix     string
	DefaultIdentity domainauth.PatientIdentity

	// Internal state tracking for deterministic behavior
	callCount int
}

// NewMockPatientAuthProvider creates a MockPatientAuthProvider with sensible defaults.
func NewMockPatientAuthProvider() *MockPatientAuthProvider {
	return &MockPatientAuthProvider{
		AuthURL:     "https://mock-idp/auth",
		StatePrefix: "state",
		NoncePrefix: "nonce",
		DefaultIdentity: domainauth.PatientIdentity{
			SubjectID: "mock-patient-1",
			FirstName: "Mock",
			LastName:  "Patient",
			Email:     "mock.patient@example.com",
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
}

// Begin returns a deterministic auth URL, state, and nonce.
func (m *MockPatientAuthProvider) Begin(ctx context.Context, in ports.BeginInput) (string, string, string, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx, in)
	}

	m.callCount++
	state := fmt.Sprintf("%s-%d", m.StatePrefix, m.callCount)
	nonce := fmt.Sprintf("%s-%d", m.NoncePrefix, m.callCount)
	return m.AuthURL, state, nonce, nil
}

// Exchange returns the configured default identity.
func (m *MockPatientAuthProvider) Exchange(ctx context.Context, in ports.ExchangeInput) (domainauth.PatientIdentity, error) {
	if m.ExchangeFunc != nil {
		return m.ExchangeFunc(ctx, in)
	}
	return m.DefaultIdentity, nil
}

// MemorySessionStore is an in-memory ports.SessionStore for staff sessions.
// Safe for concurrent use. Error fields force failures for degraded-store
// tests.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.StaffSession

	WriteErr error
	ReadErr  error
	ClearErr error

	// ReadErrSession is returned alongside ReadErr, mirroring the cookie
	// store's partial reads of malformed payloads.
	ReadErrSession domainauth.StaffSession
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.StaffSession)}
}

// Write stores the session keyed by its ID.
func (s *MemorySessionStore) Write(_ context.Context, sess domainauth.StaffSession) error {
	if s.WriteErr != nil {
		return s.WriteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Read returns the session for the given ID. An empty ID returns the single
// held session if there is exactly one, mirroring the cookie store's ambient
// behavior.
func (s *MemorySessionStore) Read(_ context.Context, id string) (domainauth.StaffSession, error) {
	if s.ReadErr != nil {
		return s.ReadErrSession, s.ReadErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" && len(s.sessions) == 1 {
		for _, sess := range s.sessions {
			return sess, nil
		}
	}
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.StaffSession{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

// Clear removes the session. Clearing an absent session is not an error.
func (s *MemorySessionStore) Clear(_ context.Context, id string) error {
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id == "" {
		clear(s.sessions)
		return nil
	}
	delete(s.sessions, id)
	return nil
}

// Len reports how many sessions the store holds.
func (s *MemorySessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// MemoryPatientSessionStore is an in-memory ports.PatientSessionStore.
type MemoryPatientSessionStore struct {
	mu       sync.Mutex
	sessions map[string]domainauth.PatientSession
}

// NewMemoryPatientSessionStore creates an empty MemoryPatientSessionStore.
func NewMemoryPatientSessionStore() *MemoryPatientSessionStore {
	return &MemoryPatientSessionStore{sessions: make(map[string]domainauth.PatientSession)}
}

// Save stores the patient session keyed by its ID.
func (s *MemoryPatientSessionStore) Save(_ context.Context, sess domainauth.PatientSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return nil
}

// Get returns the patient session for the given ID.
func (s *MemoryPatientSessionStore) Get(_ context.Context, id string) (domainauth.PatientSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return domainauth.PatientSession{}, apperrors.NotFound("session not found")
	}
	return sess, nil
}

// Delete removes the patient session.
func (s *MemoryPatientSessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}
