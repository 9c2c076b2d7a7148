package owners_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/owners"
	"github.com/vetcare/portal/tokens/storefakes"
)

func setupOwnersClient(t *testing.T, handler http.Handler) *owners.Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetAccessToken("tok1"))
	apiClient, err := api.New(server.URL, store)
	require.NoError(t, err)
	return owners.NewClient(apiClient)
}

func TestOwnersCRUD(t *testing.T) {
	stored := map[int]owners.Owner{
		1: {ID: 1, FirstName: "Jean", LastName: "Dupont", Email: "jean@example.com", Phone: "0601020304", Address: "12 rue des Lilas"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /owners/", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok1", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode([]owners.Owner{stored[1]})
	})
	mux.HandleFunc("GET /owners/1/", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(stored[1])
	})
	mux.HandleFunc("POST /owners/", func(w http.ResponseWriter, r *http.Request) {
		var owner owners.Owner
		_ = json.NewDecoder(r.Body).Decode(&owner)
		owner.ID = 2
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(owner)
	})
	mux.HandleFunc("PUT /owners/1/", func(w http.ResponseWriter, r *http.Request) {
		var owner owners.Owner
		_ = json.NewDecoder(r.Body).Decode(&owner)
		owner.ID = 1
		_ = json.NewEncoder(w).Encode(owner)
	})
	mux.HandleFunc("DELETE /owners/1/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	client := setupOwnersClient(t, mux)
	ctx := context.Background()

	list, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "Jean Dupont", list[0].FullName())

	got, err := client.Get(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "jean@example.com", got.Email)

	created, err := client.Create(ctx, owners.Owner{FirstName: "Marie", LastName: "Curie"})
	require.NoError(t, err)
	require.Equal(t, 2, created.ID)

	updated, err := client.Update(ctx, 1, owners.Owner{FirstName: "Jean", LastName: "Durand"})
	require.NoError(t, err)
	require.Equal(t, "Durand", updated.LastName)

	require.NoError(t, client.Delete(ctx, 1))
}

func TestOwnersCheckEmail(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /owners/check-email/", func(w http.ResponseWriter, r *http.Request) {
		exists := r.URL.Query().Get("email") == "jean@example.com"
		_ = json.NewEncoder(w).Encode(map[string]bool{"exists": exists})
	})

	client := setupOwnersClient(t, mux)
	ctx := context.Background()

	exists, err := client.CheckEmail(ctx, "jean@example.com")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = client.CheckEmail(ctx, "new+person@example.com")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestOwnersValidationErrorSurfaced(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /owners/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"email":["owner with this email already exists."]}`))
	})

	client := setupOwnersClient(t, mux)

	_, err := client.Create(context.Background(), owners.Owner{Email: "jean@example.com"})
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	require.Equal(t, 400, apiErr.Status)
	require.Equal(t, []string{"owner with this email already exists."}, apiErr.Errors["email"])
}
