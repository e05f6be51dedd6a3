// Package models holds the client-side identity types.
package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrIncompleteUser is returned when a decoded identity lacks an ID or name.
var ErrIncompleteUser = errors.New("incomplete user identity")

// User is the identity behind an authenticated session. It is a value:
// a new identity replaces the old one wholesale.
type User struct {
	UserID   string `json:"userID"`
	Username string `json:"username"`
}

// IsZero reports whether u carries no identity.
func (u User) IsZero() bool {
	return u.UserID == "" && u.Username == ""
}

// Validate checks that both fields are present.
func (u User) Validate() error {
	if u.UserID == "" || u.Username == "" {
		return ErrIncompleteUser
	}
	return nil
}

// UnmarshalJSON accepts userID as either a string or a JSON number; older
// backends emit integer IDs.
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		UserID   json.RawMessage `json:"userID"`
		Username string          `json:"username"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	id, err := decodeID(raw.UserID)
	if err != nil {
		return err
	}

	*u = User{UserID: id, Username: raw.Username}
	return nil
}

func decodeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("userID: %w", err)
	}
	return n.String(), nil
}

// UserList is the payload of the all-users listing.
type UserList struct {
	Users []User `json:"users"`
}

// Without returns the users other than the one with the given ID.
func (l UserList) Without(userID string) []User {
	out := make([]User, 0, len(l.Users))
	for _, u := range l.Users {
		if u.UserID != userID {
			out = append(out, u)
		}
	}
	return out
}
