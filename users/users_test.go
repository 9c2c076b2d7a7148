package users_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	apperrors "github.com/vetcare/portal/internal/errors"
	"github.com/vetcare/portal/users"
)

func TestParseRole(t *testing.T) {
	role, err := users.ParseRole("administrator")
	require.NoError(t, err)
	require.Equal(t, users.RoleAdministrator, role)

	role, err = users.ParseRole("  Veterinarian ")
	require.NoError(t, err)
	require.Equal(t, users.RoleVeterinarian, role)

	_, err = users.ParseRole("janitor")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrInvalidRole))
}

func TestRoleLabel(t *testing.T) {
	require.Equal(t, "Administrator", users.RoleAdministrator.Label())
	require.Equal(t, "Receptionist", users.RoleReceptionist.Label())
	require.Equal(t, "something", users.Role("something").Label())
}

func TestDisplayName(t *testing.T) {
	u := &users.User{FullName: "Alice Martin", FirstName: "Alice", Email: "a@b.c"}
	require.Equal(t, "Alice Martin", u.DisplayName())

	u = &users.User{FirstName: "Alice", LastName: "Martin", Email: "a@b.c"}
	require.Equal(t, "Alice Martin", u.DisplayName())

	u = &users.User{Email: "a@b.c"}
	require.Equal(t, "a@b.c", u.DisplayName())
}

func TestRolePredicates(t *testing.T) {
	u := &users.User{Role: users.RoleVeterinarian}
	require.True(t, u.Is(users.RoleVeterinarian))
	require.False(t, u.Is(users.RoleAdministrator))
	require.True(t, u.IsAny(users.RoleAdministrator, users.RoleVeterinarian))
	require.False(t, u.IsAny())

	var nobody *users.User
	require.False(t, nobody.Is(users.RoleAdministrator))
	require.False(t, nobody.IsAny(users.Roles...))
}
