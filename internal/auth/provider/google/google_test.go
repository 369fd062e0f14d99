package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
)

// fakeOIDC serves discovery, token and userinfo endpoints the way a
// real provider would, with switchable failure behavior.
type fakeOIDC struct {
	server       *httptest.Server
	rejectCode   bool
	userinfoDown bool
	userinfo     map[string]any
}

func newFakeOIDC(t *testing.T) *fakeOIDC {
	t.Helper()
	f := &fakeOIDC{
		userinfo: map[string]any{
			"sub":            "google-sub-1",
			"email":          "alice@example.com",
			"email_verified": true,
			"name":           "Alice",
			"picture":        "https://cdn.example.com/alice.png",
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/.well-known/openid-configuration", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 f.server.URL,
			"authorization_endpoint": f.server.URL + "/auth",
			"token_endpoint":         f.server.URL + "/token",
			"userinfo_endpoint":      f.server.URL + "/userinfo",
			"jwks_uri":               f.server.URL + "/keys",
		})
	})
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		if f.rejectCode {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{"error": "invalid_grant"})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "at-1",
			"token_type":   "Bearer",
			"expires_in":   3600,
		})
	})
	mux.HandleFunc("/userinfo", func(w http.ResponseWriter, r *http.Request) {
		if f.userinfoDown {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(f.userinfo)
	})

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func (f *fakeOIDC) provider(t *testing.T) *Provider {
	t.Helper()
	p, err := New(context.Background(), Config{
		ClientID:     "client-1",
		ClientSecret: "secret-1",
		RedirectURL:  "http://localhost:8080/auth/google/callback",
		Issuer:       f.server.URL,
		Timeout:      2 * time.Second,
	})
	require.NoError(t, err)
	return p
}

func TestNewRequiresCredentials(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestNewDiscoveryFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	_, err := New(context.Background(), Config{
		ClientID:     "c",
		ClientSecret: "s",
		RedirectURL:  "http://localhost/cb",
		Issuer:       server.URL,
	})
	assert.ErrorIs(t, err, apperrors.ErrProviderUnreachable)
}

func TestAuthCodeURLCarriesStateAndChallenge(t *testing.T) {
	f := newFakeOIDC(t)
	p := f.provider(t)

	raw := p.AuthCodeURL("state-1", "challenge-1")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "state-1", q.Get("state"))
	assert.Equal(t, "challenge-1", q.Get("code_challenge"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.Equal(t, "select_account", q.Get("prompt"))
	assert.True(t, strings.HasPrefix(raw, f.server.URL+"/auth"))
}

func TestExchangeReturnsIdentity(t *testing.T) {
	f := newFakeOIDC(t)
	p := f.provider(t)

	identity, err := p.Exchange(context.Background(), "code-1", "verifier-1")
	require.NoError(t, err)

	assert.Equal(t, "google", identity.Provider)
	assert.Equal(t, "google-sub-1", identity.SubjectID)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Alice", identity.Name)
	assert.Equal(t, "https://cdn.example.com/alice.png", identity.Picture)
}

func TestExchangeRejectedCode(t *testing.T) {
	f := newFakeOIDC(t)
	p := f.provider(t)
	f.rejectCode = true

	_, err := p.Exchange(context.Background(), "bad-code", "")
	assert.ErrorIs(t, err, apperrors.ErrProviderRejected)
}

func TestExchangeUserInfoUnreachable(t *testing.T) {
	f := newFakeOIDC(t)
	p := f.provider(t)
	f.userinfoDown = true

	_, err := p.Exchange(context.Background(), "code-1", "")
	assert.ErrorIs(t, err, apperrors.ErrProviderUnreachable)
}

func TestExchangeIncompleteIdentity(t *testing.T) {
	f := newFakeOIDC(t)
	p := f.provider(t)
	f.userinfo = map[string]any{"sub": "google-sub-1"}

	_, err := p.Exchange(context.Background(), "code-1", "")
	assert.ErrorIs(t, err, apperrors.ErrIncompleteIdentity)
}
