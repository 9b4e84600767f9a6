package participant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func (c *Client) listUsersURI() string      { return c.baseURL + "/users" }
func (c *Client) listUserRightsURI() string { return c.baseURL + "/user/rights" }
func (c *Client) createUserURI() string     { return c.baseURL + "/user/create" }

// ListUsers returns the users known to the participant
func (c *Client) ListUsers(ctx context.Context) ([]UserRecord, error) {
	raw, err := c.Call(ctx, http.MethodGet, c.listUsersURI(), nil)
	if err != nil {
		return nil, err
	}
	users := []UserRecord{}
	if len(raw) == 0 {
		return users, nil
	}
	if err := json.Unmarshal(raw, &users); err != nil {
		return nil, fmt.Errorf("decoding user list: %w", err)
	}
	c.logger.WithField("count", len(users)).Debug("retrieved users")
	return users, nil
}

// ListUserRights returns the rights granted to userID, as sent by the API
func (c *Client) ListUserRights(ctx context.Context, userID string) (json.RawMessage, error) {
	raw, err := c.Call(ctx, http.MethodPost, c.listUserRightsURI(), UserRightsRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	c.logger.WithField("userId", userID).Debugf("retrieved rights: %s", raw)
	return raw, nil
}

// CreateUser replays a backed-up user record. A 409 response means the user
// already exists; see IsConflict.
func (c *Client) CreateUser(ctx context.Context, user UserRecord) (json.RawMessage, error) {
	return c.Call(ctx, http.MethodPost, c.createUserURI(), user)
}
