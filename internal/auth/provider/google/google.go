package google

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
)

const providerName = "google"

// Config carries everything the client needs. Issuer is overridable so
// tests can point the client at a local fake provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string        // defaults to accounts.google.com
	Timeout      time.Duration // per outbound call, defaults to 5s
}

type Provider struct {
	oauthConfig  *oauth2.Config
	oidcProvider *oidc.Provider
	httpClient   *http.Client
}

// New fetches the provider's published endpoint set (OIDC discovery).
// The document is fetched once and reused for the provider's lifetime;
// a discovery failure aborts construction.
func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = "https://accounts.google.com"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := &http.Client{Timeout: cfg.Timeout}

	oidcProvider, err := oidc.NewProvider(oidc.ClientContext(ctx, client), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch provider config: %v", apperrors.ErrProviderUnreachable, err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		oidcProvider: oidcProvider,
		httpClient:   client,
	}, nil
}

func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the consent page URL with state and PKCE S256
// challenge embedded.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("prompt", "select_account"),
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange performs the two remaining provider calls in sequence:
// code exchange, then user-info fetch. Neither is retried; the first
// failure aborts and is surfaced with a distinct reason.
func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Identity, error) {

	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	opts := []oauth2.AuthCodeOption{}
	if codeVerifier != "" {
		opts = append(opts, oauth2.SetAuthURLParam("code_verifier", codeVerifier))
	}

	tok, err := p.oauthConfig.Exchange(ctx, code, opts...)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrProviderRejected, err)
		}
		return nil, fmt.Errorf("%w: token exchange: %v", apperrors.ErrProviderUnreachable, err)
	}

	userInfo, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(tok))
	if err != nil {
		return nil, fmt.Errorf("%w: fetch user info: %v", apperrors.ErrProviderUnreachable, err)
	}

	var claims struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := userInfo.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: parse user info: %v", apperrors.ErrProviderUnreachable, err)
	}

	if userInfo.Subject == "" || userInfo.Email == "" {
		return nil, apperrors.ErrIncompleteIdentity
	}

	logger.Info("google user info fetched", map[string]any{
		"subject_present": userInfo.Subject != "",
		"email_present":   userInfo.Email != "",
		"email_verified":  userInfo.EmailVerified,
	})

	return &auth.Identity{
		Provider:      providerName,
		SubjectID:     userInfo.Subject,
		Email:         userInfo.Email,
		EmailVerified: userInfo.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
