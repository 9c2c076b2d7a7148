// Package owners is the typed client for the backend's owner records.
package owners

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vetcare/portal/api"
)

// Owner is a pet owner as served by the backend
type Owner struct {
	ID        int    `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// FullName returns the owner's display name
func (o Owner) FullName() string {
	return o.FirstName + " " + o.LastName
}

// Client performs owner CRUD against the backend
type Client struct {
	api *api.Client
}

// NewClient creates an owners client on top of the shared request pipeline
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns all owners
func (c *Client) List(ctx context.Context) ([]Owner, error) {
	var out []Owner
	if err := c.api.Get(ctx, "/owners/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single owner by id
func (c *Client) Get(ctx context.Context, id int) (*Owner, error) {
	var out Owner
	if err := c.api.Get(ctx, fmt.Sprintf("/owners/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new owner and returns it with its assigned id
func (c *Client) Create(ctx context.Context, owner Owner) (*Owner, error) {
	var out Owner
	if err := c.api.Post(ctx, "/owners/", owner, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing owner
func (c *Client) Update(ctx context.Context, id int, owner Owner) (*Owner, error) {
	var out Owner
	if err := c.api.Put(ctx, fmt.Sprintf("/owners/%d/", id), owner, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes an owner
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, fmt.Sprintf("/owners/%d/", id))
}

// CheckEmail reports whether an owner with the given email already exists
func (c *Client) CheckEmail(ctx context.Context, email string) (bool, error) {
	var out struct {
		Exists bool `json:"exists"`
	}
	path := "/owners/check-email/?email=" + url.QueryEscape(email)
	if err := c.api.Get(ctx, path, &out); err != nil {
		return false, err
	}
	return out.Exists, nil
}
