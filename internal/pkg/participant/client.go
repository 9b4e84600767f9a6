package participant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// DefaultTimeout applies to every request made by the tool
const DefaultTimeout = 10 * time.Second

// NewHTTPClient returns an http.Client with a fixed request timeout
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:           http.ProxyFromEnvironment,
			IdleConnTimeout: 1 * time.Second,
		},
	}
}

// Client issues bearer-authenticated JSON requests to the participant API
type Client struct {
	baseURL    string
	auth       *Authenticator
	httpClient *http.Client
	logger     log.FieldLogger
}

// NewClient returns a Client for the API rooted at baseURL
func NewClient(baseURL string, auth *Authenticator, httpClient *http.Client, logger log.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient(DefaultTimeout)
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: httpClient,
		logger:     logger.WithField("component", "participant_client"),
	}
}

// Call sends body as JSON to url with the current bearer token. Non-2xx
// responses are returned as *APIError. A 401 invalidates the token and the
// request is retried once after authenticating again. On success the
// response's top-level "result" value is returned when present, otherwise
// the whole body.
func (c *Client) Call(ctx context.Context, method, url string, body interface{}) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding %s %s request: %w", method, url, err)
		}
	}

	respBody, status, err := c.apiRequest(ctx, method, url, payload)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		c.logger.WithFields(log.Fields{"method": method, "url": url}).
			Warn("token rejected, authenticating again")
		c.auth.Invalidate()
		respBody, status, err = c.apiRequest(ctx, method, url, payload)
		if err != nil {
			return nil, err
		}
	}

	c.logger.WithFields(log.Fields{"method": method, "status": status}).Debug(url)

	if status < 200 || status > 299 {
		return nil, &APIError{Method: method, URL: url, Status: status, Body: string(respBody)}
	}
	raw, err := unwrapResult(respBody)
	if err != nil {
		return nil, fmt.Errorf("decoding %s %s response: %w", method, url, err)
	}
	return raw, nil
}

func (c *Client) apiRequest(ctx context.Context, method, url string, payload []byte) ([]byte, int, error) {
	token, err := c.auth.EnsureToken(ctx)
	if err != nil {
		return nil, 0, err
	}

	var data io.Reader = http.NoBody
	if payload != nil {
		data = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, data)
	if err != nil {
		return nil, 0, &NetworkError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &NetworkError{Method: method, URL: url, Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &NetworkError{Method: method, URL: url, Err: err}
	}
	return respBody, resp.StatusCode, nil
}

// unwrapResult returns the "result" member of a JSON object body, or the
// body itself when there is no such member. An empty body yields nil.
func unwrapResult(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("invalid JSON: %.64q", trimmed)
	}
	if trimmed[0] == '{' {
		var envelope map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, err
		}
		if result, ok := envelope["result"]; ok {
			return result, nil
		}
	}
	return json.RawMessage(trimmed), nil
}
