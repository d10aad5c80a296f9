package apiclient

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// User mirrors the backend user representation.
type User struct {
	ID        int64      `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	IsActive  bool       `json:"is_active"`
	IsAdmin   bool       `json:"is_admin"`
	Groups    []GroupRef `json:"groups"`
	CreatedAt Timestamp  `json:"created_at"`
}

// GroupRef is a group as embedded in a user payload.
type GroupRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Group mirrors the backend group representation.
type Group struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	UserCount   int       `json:"user_count"`
	CreatedAt   Timestamp `json:"created_at"`
}

// CreateUserRequest is the body of POST /api/users.
type CreateUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Password string  `json:"password"`
	IsAdmin  bool    `json:"is_admin"`
	IsActive bool    `json:"is_active"`
	GroupIDs []int64 `json:"group_ids"`
}

// UpdateUserRequest is the body of PUT /api/users/{id}.
type UpdateUserRequest struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	IsAdmin  bool    `json:"is_admin"`
	IsActive bool    `json:"is_active"`
	GroupIDs []int64 `json:"group_ids"`
}

// GroupRequest is the body of group create and update calls.
type GroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type resetPasswordRequest struct {
	NewPassword string `json:"new_password"`
}

type groupIDsRequest struct {
	GroupIDs []int64 `json:"group_ids"`
}

// MessageResponse is returned by endpoints that acknowledge without an entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// Timestamp accepts RFC 3339 and the naive ISO form some backends emit.
// A null or empty value decodes to the zero time.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02 15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		t.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		t.Time = time.Time{}
		return nil
	}
	var lastErr error
	for _, layout := range timestampLayouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			t.Time = parsed
			return nil
		}
		lastErr = err
	}
	return lastErr
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
