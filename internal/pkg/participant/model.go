package participant

import (
	"encoding/json"
	"fmt"
)

// SESSION STATE
// =================================================================================================

// Session holds the mutable credentials for the current run. Token is empty
// until the first successful authentication; ClientSecret is empty until it
// is configured or entered.
type Session struct {
	Token        string
	ClientSecret string
}

// API REQUEST & RESPONSE DATA STRUCTURES
// =================================================================================================

// TokenResponse to unmarshal the OAuth2 client_credentials response
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// UserRightsRequest is the body posted to /user/rights
type UserRightsRequest struct {
	UserID string `json:"userId"`
}

// UserRecord is a participant user as listed by /users, with its rights
// attached during backup. Fields the tool does not interpret are kept in Extra
// and written back unchanged.
type UserRecord struct {
	UserID       string
	PrimaryParty string
	Rights       json.RawMessage
	Extra        map[string]json.RawMessage
}

// UnmarshalJSON splits the known keys out of a user object
func (u *UserRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*u = UserRecord{}

	if raw, ok := fields["userId"]; ok {
		if err := json.Unmarshal(raw, &u.UserID); err != nil {
			return fmt.Errorf("userId: %w", err)
		}
		delete(fields, "userId")
	}
	// a null or non-string primaryParty stays in Extra as it was
	if raw, ok := fields["primaryParty"]; ok {
		var party string
		if err := json.Unmarshal(raw, &party); err == nil && party != "" {
			u.PrimaryParty = party
			delete(fields, "primaryParty")
		}
	}
	if raw, ok := fields["rights"]; ok {
		u.Rights = raw
		delete(fields, "rights")
	}
	if len(fields) > 0 {
		u.Extra = fields
	}
	return nil
}

// MarshalJSON writes the user back as a single flat object
func (u UserRecord) MarshalJSON() ([]byte, error) {
	fields := make(map[string]json.RawMessage, len(u.Extra)+3)
	for k, v := range u.Extra {
		fields[k] = v
	}
	id, err := json.Marshal(u.UserID)
	if err != nil {
		return nil, err
	}
	fields["userId"] = id
	if u.PrimaryParty != "" {
		party, err := json.Marshal(u.PrimaryParty)
		if err != nil {
			return nil, err
		}
		fields["primaryParty"] = party
	}
	if u.Rights != nil {
		fields["rights"] = u.Rights
	}
	return json.Marshal(fields)
}
