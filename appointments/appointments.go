// Package appointments is the typed client for the clinic's scheduling API.
package appointments

import (
	"context"
	"fmt"
	"time"

	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/patients"
	"github.com/vetcare/portal/users"
)

// Status is an appointment's lifecycle state
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	StatusNoShow    Status = "no_show"
)

// Statuses lists the states the backend accepts, in display order.
var Statuses = []Status{StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow}

// Appointment is a scheduled visit. Patient and Vet carry ids on writes;
// the *Details fields are populated on reads.
type Appointment struct {
	ID             int               `json:"id,omitempty"`
	Patient        int               `json:"patient"`
	Vet            int               `json:"vet"`
	DateTime       time.Time         `json:"date_time"`
	Reason         string            `json:"reason,omitempty"`
	Status         Status            `json:"status,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at,omitempty"`
	UpdatedAt      time.Time         `json:"updated_at,omitempty"`
	PatientDetails *patients.Patient `json:"patient_details,omitempty"`
	VetDetails     *users.User       `json:"vet_details,omitempty"`
	IsPastDue      bool              `json:"is_past_due,omitempty"`
}

// Client performs appointment operations against the backend
type Client struct {
	api *api.Client
}

// NewClient creates an appointments client on top of the shared pipeline
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns the appointments visible to the current user; the backend
// scopes veterinarians to their own schedule.
func (c *Client) List(ctx context.Context) ([]Appointment, error) {
	var out []Appointment
	if err := c.api.Get(ctx, "/appointments/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single appointment by id
func (c *Client) Get(ctx context.Context, id int) (*Appointment, error) {
	var out Appointment
	if err := c.api.Get(ctx, fmt.Sprintf("/appointments/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create schedules a new appointment
func (c *Client) Create(ctx context.Context, appointment Appointment) (*Appointment, error) {
	var out Appointment
	if err := c.api.Post(ctx, "/appointments/", appointment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing appointment
func (c *Client) Update(ctx context.Context, id int, appointment Appointment) (*Appointment, error) {
	var out Appointment
	if err := c.api.Put(ctx, fmt.Sprintf("/appointments/%d/", id), appointment, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus moves an appointment to a new lifecycle state
func (c *Client) UpdateStatus(ctx context.Context, id int, status Status) (*Appointment, error) {
	body := map[string]Status{"status": status}
	var out Appointment
	if err := c.api.Put(ctx, fmt.Sprintf("/appointments/%d/status/", id), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete cancels and removes an appointment
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, fmt.Sprintf("/appointments/%d/", id))
}
