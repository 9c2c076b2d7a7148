// Package patients is the typed client for the backend's animal records.
package patients

import (
	"context"
	"fmt"
	"net/url"

	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/owners"
)

// Species values the backend accepts for a patient's type field
const (
	SpeciesDog    = "dog"
	SpeciesCat    = "cat"
	SpeciesRabbit = "rabbit"
)

// Patient is an animal under the clinic's care. Owner carries the owning
// record's id on writes; OwnerDetails is populated on reads.
type Patient struct {
	ID           int           `json:"id,omitempty"`
	Name         string        `json:"name"`
	Type         string        `json:"type"`
	Breed        string        `json:"breed"`
	BirthDate    string        `json:"birth_date"`
	Weight       string        `json:"weight"`
	Sex          string        `json:"sex"`
	Owner        int           `json:"owner"`
	OwnerDetails *owners.Owner `json:"owner_details,omitempty"`
	TypeDisplay  string        `json:"type_display,omitempty"`
	SexDisplay   string        `json:"sex_display,omitempty"`
}

// MedicalRecord is the veterinarian-editable part of a patient's file
type MedicalRecord struct {
	Weight string `json:"weight,omitempty"`
	Notes  string `json:"notes,omitempty"`
}

// Client performs patient operations against the backend
type Client struct {
	api *api.Client
}

// NewClient creates a patients client on top of the shared request pipeline
func NewClient(apiClient *api.Client) *Client {
	return &Client{api: apiClient}
}

// List returns all patients visible to the current user
func (c *Client) List(ctx context.Context) ([]Patient, error) {
	var out []Patient
	if err := c.api.Get(ctx, "/patients/", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a single patient by id
func (c *Client) Get(ctx context.Context, id int) (*Patient, error) {
	var out Patient
	if err := c.api.Get(ctx, fmt.Sprintf("/patients/%d/", id), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Create stores a new patient
func (c *Client) Create(ctx context.Context, patient Patient) (*Patient, error) {
	var out Patient
	if err := c.api.Post(ctx, "/patients/", patient, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Update replaces an existing patient
func (c *Client) Update(ctx context.Context, id int, patient Patient) (*Patient, error) {
	var out Patient
	if err := c.api.Put(ctx, fmt.Sprintf("/patients/%d/", id), patient, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a patient
func (c *Client) Delete(ctx context.Context, id int) error {
	return c.api.Delete(ctx, fmt.Sprintf("/patients/%d/", id))
}

// UpdateMedicalRecord updates the medical fields; veterinarians only
func (c *Client) UpdateMedicalRecord(ctx context.Context, id int, record MedicalRecord) (*Patient, error) {
	var out Patient
	if err := c.api.Put(ctx, fmt.Sprintf("/patients/%d/medical-record/", id), record, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignOwner reassigns a patient to another owner; administrators only
func (c *Client) AssignOwner(ctx context.Context, patientID, ownerID int) (*Patient, error) {
	body := map[string]int{"owner": ownerID}
	var out Patient
	if err := c.api.Post(ctx, fmt.Sprintf("/patients/%d/assign-owner/", patientID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search finds patients matching the query string
func (c *Client) Search(ctx context.Context, query string) ([]Patient, error) {
	var out []Patient
	path := "/patients/search/?query=" + url.QueryEscape(query)
	if err := c.api.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	return out, nil
}
