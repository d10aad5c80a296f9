package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// ListUsers fetches every user with its embedded groups.
func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	return request[[]User](ctx, c, http.MethodGet, "/api/users", nil)
}

// CreateUser creates a user.
func (c *Client) CreateUser(ctx context.Context, payload CreateUserRequest) (User, error) {
	return request[User](ctx, c, http.MethodPost, "/api/users", payload)
}

// UpdateUser replaces the editable fields of a user.
func (c *Client) UpdateUser(ctx context.Context, id int64, payload UpdateUserRequest) (User, error) {
	return request[User](ctx, c, http.MethodPut, userPath(id), payload)
}

// DeleteUser removes a user.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	_, err := request[MessageResponse](ctx, c, http.MethodDelete, userPath(id), nil)
	return err
}

// ActivateUser marks a user active.
func (c *Client) ActivateUser(ctx context.Context, id int64) (User, error) {
	return request[User](ctx, c, http.MethodPost, userPath(id)+"/activate", nil)
}

// DeactivateUser marks a user inactive.
func (c *Client) DeactivateUser(ctx context.Context, id int64) (User, error) {
	return request[User](ctx, c, http.MethodPost, userPath(id)+"/deactivate", nil)
}

// MakeAdmin grants administrator privileges.
func (c *Client) MakeAdmin(ctx context.Context, id int64) (User, error) {
	return request[User](ctx, c, http.MethodPost, userPath(id)+"/make-admin", nil)
}

// RemoveAdmin revokes administrator privileges.
func (c *Client) RemoveAdmin(ctx context.Context, id int64) (User, error) {
	return request[User](ctx, c, http.MethodPost, userPath(id)+"/remove-admin", nil)
}

// ResetPassword sets a new password for a user.
func (c *Client) ResetPassword(ctx context.Context, id int64, newPassword string) error {
	_, err := request[MessageResponse](ctx, c, http.MethodPost, userPath(id)+"/reset-password", resetPasswordRequest{NewPassword: newPassword})
	return err
}

// AddUserToGroups attaches a user to the given groups, keeping existing memberships.
func (c *Client) AddUserToGroups(ctx context.Context, userID int64, groupIDs []int64) (User, error) {
	if groupIDs == nil {
		groupIDs = []int64{}
	}
	return request[User](ctx, c, http.MethodPost, userPath(userID)+"/groups", groupIDsRequest{GroupIDs: groupIDs})
}

// RemoveUserFromGroup detaches a user from one group.
func (c *Client) RemoveUserFromGroup(ctx context.Context, userID, groupID int64) (User, error) {
	return request[User](ctx, c, http.MethodDelete, fmt.Sprintf("%s/groups/%d", userPath(userID), groupID), nil)
}

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d", id)
}
