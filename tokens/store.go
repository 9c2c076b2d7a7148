// Package tokens persists the credential pair obtained from the backend.
// Tokens are opaque strings here; nothing in this package inspects them.
package tokens

// Fixed storage keys, shared with earlier releases of the portal.
const (
	AccessTokenKey  = "vetcare_token"
	RefreshTokenKey = "vetcare_refresh_token"
)

// Store is the persistence contract for the access/refresh token pair.
// Writes must survive a process restart for persistent implementations.
type Store interface {
	// AccessToken returns the stored access token, or false if absent
	AccessToken() (string, bool)

	// SetAccessToken stores the access token
	SetAccessToken(token string) error

	// ClearAccessToken removes the access token
	ClearAccessToken() error

	// RefreshToken returns the stored refresh token, or false if absent
	RefreshToken() (string, bool)

	// SetRefreshToken stores the refresh token
	SetRefreshToken(token string) error

	// ClearRefreshToken removes the refresh token
	ClearRefreshToken() error
}
