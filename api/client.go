// Package api is the single point of outbound communication with the
// clinic's backend REST API. It owns bearer-token attachment and the silent
// refresh-on-401 recovery; callers only ever see normalized errors.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	apperrors "github.com/vetcare/portal/internal/errors"
	"github.com/vetcare/portal/tokens"
)

// Backend endpoint paths owned by this package
const (
	LoginPath    = "/auth/login/"
	RegisterPath = "/auth/register/"
	RefreshPath  = "/auth/token/refresh/"
	MePath       = "/auth/me/"
	LogoutPath   = "/auth/logout/"
)

// DefaultTimeout is the fixed per-request budget
const DefaultTimeout = 10 * time.Second

// unauthenticatedPaths never receive the bearer token. MePath is NOT in this
// set; the who-am-I lookup requires authentication.
var unauthenticatedPaths = map[string]struct{}{
	LoginPath:    {},
	RegisterPath: {},
	RefreshPath:  {},
}

// Client is the configured request pipeline towards the backend
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      tokens.Store

	// refreshMu serializes refresh attempts so a burst of parallel 401s
	// performs a single call to the refresh endpoint.
	refreshMu sync.Mutex

	hookMu           sync.Mutex
	onSessionExpired func()
}

// Option modifies a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout overrides the fixed per-request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a Client for the given backend base URL. The token store is
// read on every attempt so a token refreshed elsewhere is picked up
// immediately.
func New(baseURL string, store tokens.Store, options ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("[api.New] baseURL is required")
	}
	if store == nil {
		return nil, fmt.Errorf("[api.New] token store is required")
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		store:      store,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

// OnSessionExpired registers the hook invoked when a 401 cannot be recovered
// by a refresh. The session manager uses it to clear user state and force
// the login redirect.
func (c *Client) OnSessionExpired(hook func()) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.onSessionExpired = hook
}

// Get issues an authenticated GET and decodes the response into out
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.call(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT with a JSON body and decodes the response into out
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, http.MethodPut, path, body, out)
}

// Delete issues a DELETE; the backend answers these with 204
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.call(ctx, http.MethodDelete, path, nil, nil)
}

func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return apperrors.Wrapf(err, "[api.Client] marshal %s %s", method, path)
		}
	}
	return c.do(ctx, method, path, payload, out, 0)
}

// do performs a single attempt. The attempt count replaces the mutable
// retried flag of earlier portal versions: a request refreshed once is never
// refreshed again, even across concurrent callers.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, out any, attempt int) error {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.Wrapf(err, "[api.Client] build %s %s", method, path)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	usedToken := ""
	if _, unauthenticated := unauthenticatedPaths[path]; !unauthenticated {
		if token, ok := c.store.AccessToken(); ok {
			usedToken = token
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return networkError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return networkError(err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, out); err != nil {
				return apperrors.Wrapf(err, "[api.Client] decode %s %s", method, path)
			}
		}
		return nil
	}

	if resp.StatusCode == http.StatusUnauthorized && attempt == 0 && !refreshSuppressed(ctx) {
		if _, unauthenticated := unauthenticatedPaths[path]; !unauthenticated {
			if refreshErr := c.refreshAccessToken(ctx, usedToken); refreshErr != nil {
				log.Warn().Err(refreshErr).Str("path", path).Msg("Token refresh failed, expiring session")
				c.expireSession()
				return sessionExpiredError(refreshErr)
			}
			return c.do(ctx, method, path, payload, out, attempt+1)
		}
	}

	return normalizeError(resp.StatusCode, respBody)
}

// refreshAccessToken obtains a new access token via the refresh endpoint and
// stores it. When several requests hit a 401 at once, the first caller does
// the refresh and the rest reuse its result.
func (c *Client) refreshAccessToken(ctx context.Context, staleToken string) error {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()

	// Another request may have refreshed while this one waited on the lock.
	if current, ok := c.store.AccessToken(); ok && staleToken != "" && current != staleToken {
		return nil
	}

	refresh, ok := c.store.RefreshToken()
	if !ok {
		return apperrors.ErrNoRefreshToken
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return apperrors.Wrapf(err, "[api.Client] marshal refresh request")
	}

	var result struct {
		Access string `json:"access"`
	}
	// Attempt 1 so a 401 from the refresh endpoint itself can never recurse.
	if err := c.do(ctx, http.MethodPost, RefreshPath, payload, &result, 1); err != nil {
		return err
	}
	if result.Access == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	if err := c.store.SetAccessToken(result.Access); err != nil {
		return apperrors.Wrapf(err, "[api.Client] store refreshed token")
	}
	log.Debug().Msg("Access token refreshed")
	return nil
}

// expireSession signals unrecoverable 401. With no hook registered the
// client still clears the token pair itself, keeping both fields in step.
func (c *Client) expireSession() {
	c.hookMu.Lock()
	hook := c.onSessionExpired
	c.hookMu.Unlock()

	if hook != nil {
		hook()
		return
	}
	_ = c.store.ClearAccessToken()
	_ = c.store.ClearRefreshToken()
}

type noRefreshKey struct{}

// WithoutRefresh marks a context so a 401 response is surfaced as-is instead
// of triggering a refresh. The login handlers use it: a rejected login must
// not be mistaken for an expired session.
func WithoutRefresh(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRefreshKey{}, true)
}

func refreshSuppressed(ctx context.Context) bool {
	suppressed, _ := ctx.Value(noRefreshKey{}).(bool)
	return suppressed
}
