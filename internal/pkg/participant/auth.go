package participant

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	log "github.com/sirupsen/logrus"
)

// SecretFunc supplies the client secret for clientID when none is cached
type SecretFunc func(clientID string) (string, error)

// Authenticator obtains bearer tokens through the OAuth2 client_credentials
// grant and caches them in the Session until invalidated.
type Authenticator struct {
	authURL    string
	clientID   string
	secret     SecretFunc
	session    *Session
	httpClient *http.Client
	logger     log.FieldLogger
}

// NewAuthenticator returns an Authenticator for authURL. session may already
// carry a configured client secret; secret is asked otherwise.
func NewAuthenticator(authURL, clientID string, session *Session, secret SecretFunc,
	httpClient *http.Client, logger log.FieldLogger) *Authenticator {
	if session == nil {
		session = &Session{}
	}
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Authenticator{
		authURL:    authURL,
		clientID:   clientID,
		secret:     secret,
		session:    session,
		httpClient: httpClient,
		logger:     logger.WithField("component", "authenticator"),
	}
}

// Session returns the session the authenticator updates
func (a *Authenticator) Session() *Session {
	return a.session
}

// EnsureToken returns the cached token, authenticating first if there is none
func (a *Authenticator) EnsureToken(ctx context.Context) (string, error) {
	if a.session.Token != "" {
		return a.session.Token, nil
	}
	if err := a.Authenticate(ctx); err != nil {
		return "", err
	}
	return a.session.Token, nil
}

// Invalidate drops the cached token so the next call authenticates again
func (a *Authenticator) Invalidate() {
	a.session.Token = ""
}

// Authenticate requests a new token unconditionally. A non-200 response
// clears the cached client secret and returns an *AuthenticationFailure;
// the session is then left without a token.
func (a *Authenticator) Authenticate(ctx context.Context) error {
	a.session.Token = ""

	if a.session.ClientSecret == "" {
		if a.secret == nil {
			return &AuthenticationFailure{Reason: "no client secret available for " + a.clientID}
		}
		s, err := a.secret(a.clientID)
		if err != nil {
			return err
		}
		a.session.ClientSecret = s
	}

	a.logger.Info("Authenticating...")

	data := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {a.clientID},
		"client_secret": {a.session.ClientSecret},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.authURL, strings.NewReader(data.Encode()))
	if err != nil {
		return &NetworkError{Method: http.MethodPost, URL: a.authURL, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Method: http.MethodPost, URL: a.authURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		a.session.ClientSecret = ""
		a.logger.WithField("status", resp.StatusCode).
			Error("Failed to get auth token. Please reauthenticate.")
		return &AuthenticationFailure{Status: resp.StatusCode}
	}

	var token TokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return &AuthenticationFailure{Status: resp.StatusCode, Reason: "decoding token response: " + err.Error()}
	}
	if token.AccessToken == "" {
		return &AuthenticationFailure{Status: resp.StatusCode, Reason: "empty access_token in token response"}
	}

	a.session.Token = token.AccessToken
	a.logger.WithField("expires_in", token.ExpiresIn).Debug("token acquired")
	return nil
}
