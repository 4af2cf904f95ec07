package devauth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinicore/clinic-access/internal/ports"
)

func TestNewProvider_RequiresIdentity(t *testing.T) {
	_, err := NewProvider(Config{Email: "pat@example.com"})
	assert.Error(t, err)

	_, err = NewProvider(Config{SubjectID: "dev-patient-1"})
	assert.Error(t, err)
}

func TestProvider_Begin(t *testing.T) {
	p, err := NewProvider(Config{SubjectID: "dev-patient-1", Email: "pat@example.com"})
	require.NoError(t, err)

	authURL, state, nonce, err := p.Begin(context.Background(), ports.BeginInput{RedirectURL: "http://localhost/cb"})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(authURL, "/auth/patient/callback?code=dev&state="))
	assert.Len(t, state, 24)
	assert.Len(t, nonce, 24)
	assert.Contains(t, authURL, state)

	// State and nonce are fresh per flow.
	_, state2, nonce2, err := p.Begin(context.Background(), ports.BeginInput{})
	require.NoError(t, err)
	assert.NotEqual(t, state, state2)
	assert.NotEqual(t, nonce, nonce2)
}

func TestProvider_Exchange(t *testing.T) {
	p, err := NewProvider(Config{
		SubjectID:       "dev-patient-1",
		Email:           "pat@example.com",
		SessionDuration: time.Hour,
	})
	require.NoError(t, err)

	identity, err := p.Exchange(context.Background(), ports.ExchangeInput{Code: "dev"})
	require.NoError(t, err)
	assert.Equal(t, "dev-patient-1", identity.SubjectID)
	assert.Equal(t, "pat@example.com", identity.Email)
	assert.True(t, identity.ExpiresAt.After(time.Now()))
}
