package participant

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_TokenCaching(t *testing.T) {
	f := newFakeParticipant(t, nil)
	prompts := 0
	c := f.client(&Session{}, &prompts)
	ctx := context.Background()

	token1, err := c.auth.EnsureToken(ctx)
	require.NoError(t, err)
	token2, err := c.auth.EnsureToken(ctx)
	require.NoError(t, err)

	assert.Equal(t, "test-access-token", token1)
	assert.Equal(t, token1, token2)
	assert.Equal(t, 1, f.tokenRequests)
	assert.Equal(t, 1, prompts, "missing secret is asked for once")
	assert.Equal(t, "prompted-secret", f.lastForm["client_secret"])
}

func TestAuthenticator_InvalidateForcesNewToken(t *testing.T) {
	f := newFakeParticipant(t, nil)
	f.tokens = []string{"first", "second"}
	prompts := 0
	c := f.client(&Session{ClientSecret: "configured"}, &prompts)
	ctx := context.Background()

	_, err := c.auth.EnsureToken(ctx)
	require.NoError(t, err)
	c.auth.Invalidate()
	assert.Empty(t, c.auth.Session().Token)

	token, err := c.auth.EnsureToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", token)
	assert.Equal(t, 0, prompts, "secret survives invalidation")
}

func TestAuthenticator_FailureClearsSecret(t *testing.T) {
	f := newFakeParticipant(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"result":[]}`)
	})
	f.tokenStatus = http.StatusUnauthorized
	session := &Session{ClientSecret: "stale", Token: "old"}
	prompts := 0
	c := f.client(session, &prompts)
	ctx := context.Background()

	err := c.auth.Authenticate(ctx)

	var authErr *AuthenticationFailure
	require.True(t, errors.As(err, &authErr), "got %v", err)
	assert.Equal(t, http.StatusUnauthorized, authErr.Status)
	assert.Empty(t, session.ClientSecret)
	assert.Empty(t, session.Token)

	// the next authenticated call asks for credentials again
	f.tokenStatus = http.StatusOK
	_, err = c.ListUsers(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, prompts)
	assert.Equal(t, "prompted-secret", session.ClientSecret)
	assert.Equal(t, "test-access-token", session.Token)
}

func TestAuthenticator_SecretPromptError(t *testing.T) {
	f := newFakeParticipant(t, nil)
	promptErr := errors.New("stdin closed")
	auth := NewAuthenticator(f.server.URL+"/auth/token", "devnet", nil,
		func(string) (string, error) { return "", promptErr }, f.server.Client(), nil)

	err := auth.Authenticate(context.Background())

	assert.ErrorIs(t, err, promptErr)
	assert.Equal(t, 0, f.tokenRequests)
}

func TestAuthenticator_EmptyAccessToken(t *testing.T) {
	f := newFakeParticipant(t, nil)
	f.tokens = []string{""}
	prompts := 0
	c := f.client(&Session{ClientSecret: "configured"}, &prompts)

	_, err := c.auth.EnsureToken(context.Background())

	var authErr *AuthenticationFailure
	require.True(t, errors.As(err, &authErr), "got %v", err)
	assert.Empty(t, c.auth.Session().Token)
}
