// Package session holds the credential store: the single persisted session
// token shared by the gateway, the controllers and the commands.
package session

import (
	"errors"

	"golang.org/x/oauth2"
)

// TokenType is the authorization scheme the backend expects.
const TokenType = "Token"

// ErrNoToken is returned by a TokenSource when the store is empty.
var ErrNoToken = errors.New("not logged in")

// Store persists one session token.
// Validity is never checked here; the server rejecting a request is the
// only expiry signal.
type Store interface {
	// Token returns the stored token and whether one is present.
	Token() (string, bool)

	// SetToken replaces the stored token.
	SetToken(token string) error

	// Clear erases the stored token. Clearing an empty store is not an error.
	Clear() error
}

// TokenSource adapts a Store to an oauth2.TokenSource. The returned tokens
// carry TokenType so oauth2 formats the header as "Token <value>".
func TokenSource(s Store) oauth2.TokenSource {
	return storeSource{store: s}
}

type storeSource struct {
	store Store
}

func (s storeSource) Token() (*oauth2.Token, error) {
	value, ok := s.store.Token()
	if !ok {
		return nil, ErrNoToken
	}
	return newToken(value), nil
}

func newToken(value string) *oauth2.Token {
	return &oauth2.Token{AccessToken: value, TokenType: TokenType}
}
