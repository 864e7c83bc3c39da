package sandbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenIssuer_RoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)

	token, err := issuer.Issue("session-1")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	assert.NoError(t, issuer.Verify(token, "session-1"))
}

func TestTokenIssuer_RejectsOtherSession(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	token, err := issuer.Issue("session-1")
	require.NoError(t, err)

	assert.ErrorIs(t, issuer.Verify(token, "session-2"), ErrInvalidCSRF)
}

func TestTokenIssuer_RejectsOtherSecret(t *testing.T) {
	token, err := NewTokenIssuer("secret", time.Minute).Issue("s")
	require.NoError(t, err)

	assert.ErrorIs(t, NewTokenIssuer("other", time.Minute).Verify(token, "s"), ErrInvalidCSRF)
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Minute)
	now := time.Now()
	issuer.now = func() time.Time { return now }

	token, err := issuer.Issue("s")
	require.NoError(t, err)

	issuer.now = func() time.Time { return now.Add(2 * time.Minute) }
	assert.ErrorIs(t, issuer.Verify(token, "s"), ErrInvalidCSRF)
}

func TestTokenIssuer_RejectsEmpty(t *testing.T) {
	issuer := NewTokenIssuer("secret", 0)
	assert.Equal(t, defaultTokenTTL, issuer.ttl)
	assert.ErrorIs(t, issuer.Verify("", "s"), ErrInvalidCSRF)
	assert.ErrorIs(t, issuer.Verify("garbage", ""), ErrInvalidCSRF)
	assert.ErrorIs(t, issuer.Verify("garbage", "s"), ErrInvalidCSRF)
}
