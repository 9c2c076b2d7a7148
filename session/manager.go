// Package session owns the portal's authentication state: the current user,
// the token pair lifecycle and the role predicates every guard relies on.
// Views never touch tokens directly; everything goes through the Manager.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/vetcare/portal/api"
	"github.com/vetcare/portal/tokens"
	"github.com/vetcare/portal/users"
)

// State is the session lifecycle phase
type State string

const (
	StateAnonymous     State = "anonymous"
	StateLoading       State = "loading"
	StateAuthenticated State = "authenticated"
)

// Manager is the single owner of the client-side session. Tokens and the
// current user are always set or cleared together, never independently.
type Manager struct {
	mu          sync.RWMutex
	state       State
	currentUser *users.User

	client *api.Client
	store  tokens.Store
}

// NewManager creates a session manager and registers itself as the client's
// session-expiry hook so an unrecoverable 401 anywhere forces a logout.
func NewManager(client *api.Client, store tokens.Store) (*Manager, error) {
	if client == nil {
		return nil, errors.New("[NewManager] api client is required")
	}
	if store == nil {
		return nil, errors.New("[NewManager] token store is required")
	}

	m := &Manager{
		state:  StateAnonymous,
		client: client,
		store:  store,
	}

	client.OnSessionExpired(m.Expire)
	return m, nil
}

// loginResponse is the login endpoint's payload
type loginResponse struct {
	Token   string      `json:"token"`
	Refresh string      `json:"refresh"`
	User    *users.User `json:"user"`
}

// RegisterRequest is the self-registration payload. Password2 mirrors the
// backend's confirmation field.
type RegisterRequest struct {
	Email     string     `json:"email"`
	Password  string     `json:"password"`
	Password2 string     `json:"password2"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Role      users.Role `json:"role"`
}

// LoadSession restores the session at startup. With a persisted token it
// asks the backend who the token belongs to; any failure degrades to
// anonymous and clears the stale pair.
func (m *Manager) LoadSession(ctx context.Context) error {
	if _, ok := m.store.AccessToken(); !ok {
		m.setAnonymous()
		return nil
	}

	m.setState(StateLoading)

	var user users.User
	if err := m.client.Get(ctx, api.MePath, &user); err != nil {
		log.Warn().Err(err).Msg("Stored token rejected, starting anonymous")
		m.Expire()
		return nil
	}

	m.setAuthenticated(&user)
	log.Info().Str("user", user.Email).Str("role", string(user.Role)).Msg("Session restored")
	return nil
}

// Login exchanges credentials for a token pair and the user snapshot. On
// failure the state stays anonymous and the backend's message is surfaced.
func (m *Manager) Login(ctx context.Context, identifier, password string) (*users.User, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	var resp loginResponse
	// A rejected login is a credential problem, not an expired session.
	if err := m.client.Post(api.WithoutRefresh(ctx), api.LoginPath, body, &resp); err != nil {
		return nil, errors.Wrap(err, "[Login] login request failed")
	}
	if resp.Token == "" || resp.User == nil {
		return nil, errors.New("[Login] malformed login response")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.store.SetAccessToken(resp.Token); err != nil {
		return nil, errors.Wrap(err, "[Login] persist access token")
	}
	if err := m.store.SetRefreshToken(resp.Refresh); err != nil {
		_ = m.store.ClearAccessToken() // never leave a half-written pair
		return nil, errors.Wrap(err, "[Login] persist refresh token")
	}
	m.currentUser = resp.User
	m.state = StateAuthenticated

	log.Info().Str("user", resp.User.Email).Str("role", string(resp.User.Role)).Msg("Logged in")
	return resp.User, nil
}

// Register creates a new account. It does NOT authenticate the new user;
// validation errors come back in the normalized error shape.
func (m *Manager) Register(ctx context.Context, req RegisterRequest) (*users.User, error) {
	var resp struct {
		User *users.User `json:"user"`
	}
	if err := m.client.Post(api.WithoutRefresh(ctx), api.RegisterPath, req, &resp); err != nil {
		return nil, errors.Wrap(err, "[Register] register request failed")
	}
	return resp.User, nil
}

// Logout clears the session unconditionally. The backend is notified on a
// best-effort basis so it can blacklist the refresh token; its failure never
// blocks the local logout. Calling Logout while anonymous is a no-op.
func (m *Manager) Logout(ctx context.Context) {
	if refresh, ok := m.store.RefreshToken(); ok {
		body := map[string]string{"refresh": refresh}
		if err := m.client.Post(api.WithoutRefresh(ctx), api.LogoutPath, body, nil); err != nil {
			log.Debug().Err(err).Msg("Best-effort logout call failed")
		}
	}
	m.Expire()
}

// Expire drops the user and both tokens together. It is the hook the HTTP
// client invokes on an unrecoverable 401, and is safe to call repeatedly.
func (m *Manager) Expire() {
	m.mu.Lock()
	defer m.mu.Unlock()

	_ = m.store.ClearAccessToken()
	_ = m.store.ClearRefreshToken()
	m.currentUser = nil
	m.state = StateAnonymous
}

// State returns the current lifecycle phase
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// IsAuthenticated reports whether a user is logged in
func (m *Manager) IsAuthenticated() bool {
	return m.State() == StateAuthenticated
}

// CurrentUser returns a copy of the authenticated user, or nil
func (m *Manager) CurrentUser() *users.User {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.currentUser == nil {
		return nil
	}
	user := *m.currentUser
	return &user
}

// HasRole reports whether the current user holds the role; always false
// while anonymous or loading.
func (m *Manager) HasRole(role users.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated && m.currentUser.Is(role)
}

// HasAnyRole reports whether the current user holds one of the roles
func (m *Manager) HasAnyRole(roles ...users.Role) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state == StateAuthenticated && m.currentUser.IsAny(roles...)
}

// LandingRoute returns the role-dependent page to show after login
func (m *Manager) LandingRoute() string {
	switch {
	case m.HasRole(users.RoleAdministrator):
		return "/admin"
	case m.HasRole(users.RoleVeterinarian):
		return "/vet"
	case m.HasRole(users.RoleReceptionist):
		return "/reception"
	default:
		return "/login"
	}
}

// TokenExpiry decodes the access token's exp claim for display purposes.
// The token is not verified here; the backend remains the authority.
func (m *Manager) TokenExpiry() (time.Time, bool) {
	token, ok := m.store.AccessToken()
	if !ok {
		return time.Time{}, false
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	expiry, err := parsed.Claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}

func (m *Manager) setState(state State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = state
}

func (m *Manager) setAnonymous() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = nil
	m.state = StateAnonymous
}

func (m *Manager) setAuthenticated(user *users.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.currentUser = user
	m.state = StateAuthenticated
}
