package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vetcare/portal/api"
	apperrors "github.com/vetcare/portal/internal/errors"
	"github.com/vetcare/portal/tokens/storefakes"
)

// backendRecorder is a minimal stand-in for the clinic's REST API. It records
// the Authorization header per request and serves a refresh endpoint.
type backendRecorder struct {
	mu           sync.Mutex
	authHeaders  map[string][]string
	refreshCalls int32
	validAccess  string
	validRefresh string
	newAccess    string
}

func newBackendRecorder() *backendRecorder {
	return &backendRecorder{
		authHeaders:  make(map[string][]string),
		validAccess:  "tok1",
		validRefresh: "ref1",
		newAccess:    "tok2",
	}
}

func (b *backendRecorder) record(r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.authHeaders[r.URL.Path] = append(b.authHeaders[r.URL.Path], r.Header.Get("Authorization"))
}

func (b *backendRecorder) headersFor(path string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.authHeaders[path]...)
}

func (b *backendRecorder) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+api.RefreshPath, func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		atomic.AddInt32(&b.refreshCalls, 1)

		var body struct {
			Refresh string `json:"refresh"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Refresh != b.validRefresh {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Token is invalid or expired"}`))
			return
		}
		b.mu.Lock()
		b.validAccess = b.newAccess
		b.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"access": b.newAccess})
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		b.record(r)
		b.mu.Lock()
		expected := "Bearer " + b.validAccess
		b.mu.Unlock()
		if r.Header.Get("Authorization") != expected {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"detail":"Given token not valid for any token type"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
	return mux
}

type clientFixture struct {
	backend *backendRecorder
	server  *httptest.Server
	store   *storefakes.FakeStore
	client  *api.Client
}

func setupClientFixture(t *testing.T) *clientFixture {
	t.Helper()

	backend := newBackendRecorder()
	server := httptest.NewServer(backend.handler())
	t.Cleanup(server.Close)

	store := storefakes.NewFakeStore()
	client, err := api.New(server.URL, store)
	require.NoError(t, err)

	return &clientFixture{backend: backend, server: server, store: store, client: client}
}

func TestBearerAttachedExceptUnauthenticatedAuthPaths(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("tok1"))
	require.NoError(t, f.store.SetRefreshToken("ref1"))
	ctx := context.Background()

	var out map[string]any
	require.NoError(t, f.client.Get(ctx, "/owners/", &out))
	require.NoError(t, f.client.Get(ctx, api.MePath, &out))
	_ = f.client.Post(ctx, api.LoginPath, map[string]string{"identifier": "admin"}, nil)
	_ = f.client.Post(ctx, api.RegisterPath, map[string]string{"email": "a@b.c"}, nil)
	_ = f.client.Post(ctx, api.RefreshPath, map[string]string{"refresh": "ref1"}, nil)

	require.Equal(t, []string{"Bearer tok1"}, f.backend.headersFor("/owners/"))
	require.Equal(t, []string{"Bearer tok1"}, f.backend.headersFor(api.MePath))
	require.Equal(t, []string{""}, f.backend.headersFor(api.LoginPath))
	require.Equal(t, []string{""}, f.backend.headersFor(api.RegisterPath))
	require.Equal(t, []string{""}, f.backend.headersFor(api.RefreshPath))
}

func TestRefreshOn401RetriesExactlyOnceWithNewToken(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("expired"))
	require.NoError(t, f.store.SetRefreshToken("ref1"))

	var out map[string]any
	require.NoError(t, f.client.Get(context.Background(), "/patients/", &out))

	require.Equal(t, int32(1), atomic.LoadInt32(&f.backend.refreshCalls))
	require.Equal(t, []string{"Bearer expired", "Bearer tok2"}, f.backend.headersFor("/patients/"))

	access, ok := f.store.AccessToken()
	require.True(t, ok)
	require.Equal(t, "tok2", access)
}

func TestMissingRefreshTokenExpiresSession(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("expired"))

	expired := false
	f.client.OnSessionExpired(func() { expired = true })

	err := f.client.Get(context.Background(), "/owners/", nil)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrSessionExpired))
	require.True(t, expired)
	require.Equal(t, int32(0), atomic.LoadInt32(&f.backend.refreshCalls))
}

func TestRefreshFailureExpiresSessionWithoutRetry(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("expired"))
	require.NoError(t, f.store.SetRefreshToken("wrong-refresh"))

	expired := false
	f.client.OnSessionExpired(func() { expired = true })

	err := f.client.Get(context.Background(), "/owners/", nil)
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrSessionExpired))
	require.True(t, expired)
	require.Equal(t, int32(1), atomic.LoadInt32(&f.backend.refreshCalls))
	// The original request was never replayed with a stale token.
	require.Equal(t, []string{"Bearer expired"}, f.backend.headersFor("/owners/"))
}

func TestWithoutRefreshSurfaces401Untouched(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("expired"))
	require.NoError(t, f.store.SetRefreshToken("ref1"))

	err := f.client.Get(api.WithoutRefresh(context.Background()), "/owners/", nil)
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	require.Equal(t, 401, apiErr.Status)
	require.Equal(t, int32(0), atomic.LoadInt32(&f.backend.refreshCalls))
}

func TestParallel401sShareOneRefresh(t *testing.T) {
	f := setupClientFixture(t)
	require.NoError(t, f.store.SetAccessToken("expired"))
	require.NoError(t, f.store.SetRefreshToken("ref1"))

	const callers = 5
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.client.Get(context.Background(), "/owners/", nil)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), atomic.LoadInt32(&f.backend.refreshCalls))
}

func TestErrorNormalization(t *testing.T) {
	responses := map[string]struct {
		status int
		body   string
	}{
		"/validation/": {400, `{"email":["This field is required."],"role":["Invalid role."]}`},
		"/forbidden/":  {403, `{"detail":"You do not have permission to perform this action."}`},
		"/missing/":    {404, `{}`},
		"/broken/":     {500, `<html>Internal Server Error</html>`},
		"/teapot/":     {418, `{"message":"short and stout"}`},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := responses[r.URL.Path]
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	defer server.Close()

	store := storefakes.NewFakeStore()
	require.NoError(t, store.SetAccessToken("tok1"))
	client, err := api.New(server.URL, store)
	require.NoError(t, err)
	ctx := context.Background()

	apiErr, ok := api.AsError(client.Get(ctx, "/validation/", nil))
	require.True(t, ok)
	require.Equal(t, 400, apiErr.Status)
	require.Equal(t, "invalid data", apiErr.Message)
	require.Equal(t, []string{"This field is required."}, apiErr.Errors["email"])
	require.Equal(t, []string{"Invalid role."}, apiErr.Errors["role"])

	apiErr, ok = api.AsError(client.Get(ctx, "/forbidden/", nil))
	require.True(t, ok)
	require.Equal(t, 403, apiErr.Status)
	require.Equal(t, "You do not have permission to perform this action.", apiErr.Message)
	require.True(t, apperrors.Is(apiErr, apperrors.ErrForbidden))

	apiErr, ok = api.AsError(client.Get(ctx, "/missing/", nil))
	require.True(t, ok)
	require.Equal(t, 404, apiErr.Status)
	require.Equal(t, "resource not found", apiErr.Message)

	apiErr, ok = api.AsError(client.Get(ctx, "/broken/", nil))
	require.True(t, ok)
	require.Equal(t, 500, apiErr.Status)
	require.Equal(t, "a server error occurred", apiErr.Message)

	apiErr, ok = api.AsError(client.Get(ctx, "/teapot/", nil))
	require.True(t, ok)
	require.Equal(t, 418, apiErr.Status)
	require.Equal(t, "short and stout", apiErr.Message)
}

func TestNetworkFailureNormalizesToStatusZero(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing listens anymore

	client, err := api.New(server.URL, storefakes.NewFakeStore())
	require.NoError(t, err)

	callErr := client.Get(context.Background(), "/owners/", nil)
	require.Error(t, callErr)

	apiErr, ok := api.AsError(callErr)
	require.True(t, ok)
	require.True(t, apiErr.IsNetwork())
	require.Equal(t, "cannot reach server", apiErr.Message)
	require.True(t, apperrors.Is(apiErr, apperrors.ErrUnreachable))
}

func TestTimeoutIsTreatedAsNetworkFailure(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		server.Close()
	}()

	client, err := api.New(server.URL, storefakes.NewFakeStore(), api.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)

	callErr := client.Get(context.Background(), "/owners/", nil)
	require.Error(t, callErr)

	apiErr, ok := api.AsError(callErr)
	require.True(t, ok)
	require.True(t, apiErr.IsNetwork())
}
