package git

import (
	"fmt"
	"net/url"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// AuthProvider resolves authentication methods for remote operations.
type AuthProvider interface {
	// Method returns the appropriate transport.AuthMethod for the given
	// remote URL. Returns nil if no authentication is needed/available
	// for this URL. Returns an error if authentication setup fails.
	Method(remoteURL string) (transport.AuthMethod, error)
}

// TokenAuthProvider provides HTTPS token authentication for push
// operations. Most git providers (GitHub, GitLab, Bitbucket) accept
// the token as the basic-auth password.
type TokenAuthProvider struct {
	auth *http.BasicAuth
}

// NewTokenAuthProvider creates an HTTPS provider for token
// authentication.
func NewTokenAuthProvider(token string) *TokenAuthProvider {
	return &TokenAuthProvider{
		auth: &http.BasicAuth{
			Username: "token", // some providers need a non-empty username
			Password: token,
		},
	}
}

// Method returns the authentication method for the given remote URL.
// Non-HTTPS remotes (ssh, local paths) get no authentication from this
// provider.
//
//nolint:ireturn // go-git requires returning transport.AuthMethod interface
func (p *TokenAuthProvider) Method(remoteURL string) (transport.AuthMethod, error) {
	parsedURL, err := url.Parse(remoteURL)
	if err != nil {
		return nil, fmt.Errorf("invalid remote URL: %w", err)
	}
	if parsedURL.Scheme != "https" {
		return nil, nil
	}
	return p.auth, nil
}
