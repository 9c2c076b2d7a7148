package users

import (
	"strings"

	apperrors "github.com/vetcare/portal/internal/errors"
)

// Role represents a clinic staff role as returned by the backend
type Role string

const (
	RoleAdministrator Role = "administrator" // Full access, including user management
	RoleVeterinarian  Role = "veterinarian"  // Medical records and appointments
	RoleReceptionist  Role = "receptionist"  // Owners, patients and scheduling
)

// Roles lists every role the backend accepts, in display order.
var Roles = []Role{RoleAdministrator, RoleVeterinarian, RoleReceptionist}

var roleLabels = map[Role]string{
	RoleAdministrator: "Administrator",
	RoleVeterinarian:  "Veterinarian",
	RoleReceptionist:  "Receptionist",
}

// ParseRole validates a raw role string from a form or the backend
func ParseRole(raw string) (Role, error) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := roleLabels[role]; !ok {
		return "", apperrors.Wrapf(apperrors.ErrInvalidRole, "users.ParseRole %q", raw)
	}
	return role, nil
}

// Label returns the human readable name of the role
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// User is the immutable snapshot of the authenticated user, refreshed only
// by re-fetching it from the backend.
type User struct {
	ID        int    `json:"id,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	FullName  string `json:"full_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// DisplayName prefers the backend-computed full name, falling back to the
// name parts and finally the email address.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return u.Email
}

// Is reports whether the user holds the given role
func (u *User) Is(role Role) bool {
	return u != nil && u.Role == role
}

// IsAny reports whether the user holds one of the given roles. An empty
// role set matches nobody.
func (u *User) IsAny(roles ...Role) bool {
	if u == nil {
		return false
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}
