package users

import (
	"context"
	"fmt"

	"github.com/vetcare/portal/api"
)

// CreateRequest is the administrator's user-creation payload. On updates
// the password fields are omitted when empty so the password is kept.
type CreateRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password,omitempty"`
	Password2 string `json:"password2,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      Role   `json:"role"`
}

// RoleOption is a selectable role as served by the backend
type RoleOption struct {
	Value Role   `json:"value"`
	Label string `json:"label"`
}

// Client performs user management against the backend. All of its
// endpoints are administrator-only; the backend enforces that.
type Client struct {
	api *api.Client
}

// NewClient creates a user management client on top of the shared pipeline
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns every staff account
func (c *Client) List(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.api.Get(ctx, "/auth/users/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Create adds a staff account
func (c *Client) Create(ctx context.Context, req CreateRequest) (*User, error) {
	var out User
	if err := c.api.Post(ctx, "/auth/users/", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update modifies a staff account; empty password fields leave it unchanged
func (c *Client) Update(ctx context.Context, id int, req CreateRequest) (*User, error) {
	var out User
	if err := c.api.Put(ctx, fmt.Sprintf("/auth/users/%d/", id), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a staff account
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, fmt.Sprintf("/auth/users/%d/", id))
}

// Roles returns the assignable roles with display labels
func (c *Client) Roles(ctx context.Context) ([]RoleOption, error) {
	var out []RoleOption
	if err := c.api.Get(ctx, "/auth/roles/", &out); err != nil {
		return nil, err
	}
	return out, nil
}
