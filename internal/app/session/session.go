// Package session holds the client's single bearer credential.
//
// A Store is the only place the token lives between page loads. Every
// implementation follows the same rules: both fields must be present for a
// Session to exist, Write overwrites, Clear is idempotent, and each
// mutation bumps Generation so callers can tell that a response they were
// waiting on belongs to a session that no longer exists.
package session

// Keys under which the credential is persisted.
const (
	KeyAccessToken = "access_token"
	KeyTokenType   = "token_type"
)

// Session is the client-held proof of authentication.
type Session struct {
	TokenValue string `json:"access_token"`
	TokenType  string `json:"token_type"`
}

// Valid reports whether both fields are set. Partial state counts as absent.
func (s Session) Valid() bool {
	return s.TokenValue != "" && s.TokenType != ""
}

// AuthorizationHeader renders the credential as a bearer header value.
// The stored token type is informational; the gateway only accepts Bearer.
func (s Session) AuthorizationHeader() string {
	return "Bearer " + s.TokenValue
}

// Store persists at most one Session per client.
type Store interface {
	Read() (Session, bool)
	Write(Session)
	Clear()
	Generation() uint64
}
