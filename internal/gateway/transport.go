package gateway

import (
	"net/http"

	"taskcli/internal/session"
)

// Transport attaches the session token to every outgoing request.
// The store is consulted synchronously for each request, whatever its
// method; with no token the Authorization header is omitted.
type Transport struct {
	// Store supplies the token. It is read, never written.
	Store session.Store

	// Base is the underlying transport. Defaults to http.DefaultTransport.
	Base http.RoundTripper
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	// RoundTrippers must not modify the caller's request.
	out := req.Clone(req.Context())

	tok, err := session.TokenSource(t.Store).Token()
	if err == nil {
		tok.SetAuthHeader(out)
	} else {
		out.Header.Del("Authorization")
	}

	return t.base().RoundTrip(out)
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
