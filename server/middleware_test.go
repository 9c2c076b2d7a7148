package server_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vetcare/portal/server"
	"github.com/vetcare/portal/session"
)

func TestAnonymousVisitorIsSentToLogin(t *testing.T) {
	f := setupServerFixture(t)

	for _, path := range []string{server.RouteAdmin, server.RouteVet, server.RouteReception, server.RouteOwnerCreate} {
		rec := f.get(path)
		require.Equal(t, http.StatusSeeOther, rec.Code, path)
		require.Equal(t, server.RouteLogin+"?session=expired", rec.Header().Get("Location"), path)
	}
}

func TestRoleGateRejectsOutsideRoles(t *testing.T) {
	f := setupServerFixture(t)
	f.login(t, "vet")

	// A veterinarian's own subtree is reachable.
	rec := f.get(server.RouteVet)
	require.Equal(t, http.StatusOK, rec.Code)

	// The administrator subtree is not.
	rec = f.get(server.RouteAdmin)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteUnauthorized, rec.Header().Get("Location"))

	rec = f.get(server.RouteUnauthorized)
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Contains(t, rec.Body.String(), "permission")
	require.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestAdministratorRetainsVeterinarianAccess(t *testing.T) {
	f := setupServerFixture(t)
	f.login(t, "admin")

	rec := f.get(server.RouteVetAppointments)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestReceptionistCannotReachVetSubtree(t *testing.T) {
	f := setupServerFixture(t)
	f.login(t, "reception")

	rec := f.get(server.RouteReception)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.get(server.RouteVetAppointments)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, server.RouteUnauthorized, rec.Header().Get("Location"))
}

func TestLoadingStateRendersPlaceholderNotRedirect(t *testing.T) {
	f := setupServerFixture(t)
	f.meGate = make(chan struct{})
	require.NoError(t, f.store.SetAccessToken("tok-admin"))
	require.NoError(t, f.store.SetRefreshToken("ref-admin"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = f.manager.LoadSession(context.Background())
	}()

	require.Eventually(t, func() bool {
		return f.manager.State() == session.StateLoading
	}, time.Second, 5*time.Millisecond)

	// While the startup check is in flight a navigation shows the
	// placeholder instead of bouncing to the login page.
	rec := f.get(server.RouteAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Checking your session")
	require.Equal(t, "1", rec.Header().Get("Refresh"))

	close(f.meGate)
	<-done
	require.True(t, f.manager.IsAuthenticated())

	rec = f.get(server.RouteAdmin)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Dashboard")
}
