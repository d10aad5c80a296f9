package apiclient

import (
	"context"
	"fmt"
	"net/http"
)

// ListGroups fetches every group with its member count.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	return request[[]Group](ctx, c, http.MethodGet, "/api/groups", nil)
}

// CreateGroup creates a group.
func (c *Client) CreateGroup(ctx context.Context, payload GroupRequest) (Group, error) {
	return request[Group](ctx, c, http.MethodPost, "/api/groups", payload)
}

// UpdateGroup renames or re-describes a group.
func (c *Client) UpdateGroup(ctx context.Context, id int64, payload GroupRequest) (Group, error) {
	return request[Group](ctx, c, http.MethodPut, groupPath(id), payload)
}

// DeleteGroup removes a group.
func (c *Client) DeleteGroup(ctx context.Context, id int64) error {
	_, err := request[MessageResponse](ctx, c, http.MethodDelete, groupPath(id), nil)
	return err
}

// ListGroupUsers fetches the current members of a group.
func (c *Client) ListGroupUsers(ctx context.Context, id int64) ([]User, error) {
	return request[[]User](ctx, c, http.MethodGet, groupPath(id)+"/users", nil)
}

func groupPath(id int64) string {
	return fmt.Sprintf("/api/groups/%d", id)
}
