package provider

import (
	"context"

	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
)

// OAuthProvider is the contract an external identity provider client
// must implement. Implementations return identity facts only and must
// not perform user creation, linking, or token minting.
type OAuthProvider interface {
	// Name returns the provider identifier (e.g. "google").
	Name() string

	// AuthCodeURL returns the provider's authorization URL. State and
	// PKCE parameters are supplied by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// Exchange trades the authorization code for provider credentials,
	// fetches the user info, and returns a normalized identity.
	// codeVerifier may be empty when the flow was started without PKCE.
	Exchange(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
