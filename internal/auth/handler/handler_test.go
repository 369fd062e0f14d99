package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/credentials"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/resolver"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/token"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
	"github.com/salemmohdmohd/directory-for-charities/internal/notifications"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

type fakeProvider struct {
	identity *auth.Identity
	err      error
}

func (f *fakeProvider) Name() string { return "google" }

func (f *fakeProvider) AuthCodeURL(state, codeChallenge string) string {
	return "https://accounts.example.com/o/oauth2/auth?state=" + state
}

func (f *fakeProvider) Exchange(ctx context.Context, code, codeVerifier string) (*auth.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type env struct {
	router   *gin.Engine
	provider *fakeProvider
	store    *users.MemStore
	notifs   *notifications.MemStore
	issuer   *token.Issuer
}

func setup(t *testing.T) *env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := users.NewMemStore()
	notifs := notifications.NewMemStore()
	issuer := token.NewIssuer("test-secret", 24*time.Hour)
	fake := &fakeProvider{}

	h := NewHandler(
		fake,
		resolver.NewStoreResolver(store),
		credentials.NewService(store),
		issuer,
		nil,
		notifs,
	)

	router := gin.New()
	h.RegisterRoutes(router)
	protected := router.Group("/", middleware.NewAuth(issuer, nil, store).RequireAuth())
	h.RegisterProtectedRoutes(protected)

	return &env{router: router, provider: fake, store: store, notifs: notifs, issuer: issuer}
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func callbackRequest(code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code="+code+"&state=s1", nil)
	req.AddCookie(&http.Cookie{Name: stateCookieName, Value: "s1"})
	return req
}

func TestGoogleLoginReturnsAuthURL(t *testing.T) {
	e := setup(t)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body["auth_url"], "https://accounts.example.com")

	cookies := w.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, stateCookieName)
	assert.Contains(t, names, pkceCookieName)
}

func TestCallbackCreatesUserAndMintsToken(t *testing.T) {
	e := setup(t)
	e.provider.identity = &auth.Identity{
		Provider: "google", SubjectID: "g1", Email: "a@x.com",
		EmailVerified: true, Name: "Alice",
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, callbackRequest("code123"))

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, true, body["is_new_user"])

	user := body["user"].(map[string]any)
	assert.Equal(t, "a@x.com", user["email"])
	assert.Equal(t, true, user["is_verified"])

	tokens := body["tokens"].(map[string]any)
	assert.Equal(t, "Bearer", tokens["token_type"])
	assert.Equal(t, float64(86400), tokens["expires_in"])

	claims, err := e.issuer.Verify(tokens["access_token"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(user["id"].(float64)), claims.UserID)

	// New users get a welcome notification.
	notes, err := e.notifs.ListByUser(context.Background(), claims.UserID)
	require.NoError(t, err)
	assert.Len(t, notes, 1)
}

func TestCallbackSecondLoginReusesAccount(t *testing.T) {
	e := setup(t)
	e.provider.identity = &auth.Identity{
		Provider: "google", SubjectID: "g1", Email: "a@x.com", EmailVerified: true,
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, callbackRequest("code1"))
	first := decode(t, w)["user"].(map[string]any)

	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, callbackRequest("code2"))
	body := decode(t, w)

	assert.Equal(t, false, body["is_new_user"])
	assert.Equal(t, first["id"], body["user"].(map[string]any)["id"])

	all, err := e.store.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestCallbackProviderErrorParam(t *testing.T) {
	e := setup(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?error=access_denied", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestCallbackMissingCode(t *testing.T) {
	e := setup(t)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/google/callback", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCallbackInvalidState(t *testing.T) {
	e := setup(t)
	e.provider.identity = &auth.Identity{SubjectID: "g1", Email: "a@x.com"}

	// No state cookie to match the query parameter.
	req := httptest.NewRequest(http.MethodGet, "/auth/google/callback?code=c&state=s1", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCallbackRejectedCode(t *testing.T) {
	e := setup(t)
	e.provider.err = apperrors.ErrProviderRejected

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, callbackRequest("expired"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestSignupLoginAndLogoutFlow(t *testing.T) {
	e := setup(t)

	payload := bytes.NewBufferString(`{"name":"Alice","email":"a@x.com","password":"password1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/signup", payload)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	payload = bytes.NewBufferString(`{"email":"a@x.com","password":"password1"}`)
	req = httptest.NewRequest(http.MethodPost, "/auth/login", payload)
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	tokens := decode(t, w)["tokens"].(map[string]any)
	access := tokens["access_token"].(string)

	req = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+access)
	w = httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSignupDuplicateEmail(t *testing.T) {
	e := setup(t)

	for i, wantStatus := range []int{http.StatusCreated, http.StatusBadRequest} {
		payload := bytes.NewBufferString(`{"name":"Alice","email":"a@x.com","password":"password1"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", payload)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		e.router.ServeHTTP(w, req)
		assert.Equal(t, wantStatus, w.Code, "attempt %d", i+1)
	}
}

func TestLinkRefusedWhenOwnedElsewhere(t *testing.T) {
	e := setup(t)

	owner := &users.User{Name: "Owner", Email: "owner@x.com", GoogleID: "g1"}
	require.NoError(t, e.store.Create(context.Background(), owner))
	victim := &users.User{Name: "Victim", Email: "victim@x.com", PasswordHash: "hash"}
	require.NoError(t, e.store.Create(context.Background(), victim))

	e.provider.identity = &auth.Identity{SubjectID: "g1", Email: "owner@x.com"}
	victimTokens, err := e.issuer.Issue(victim)
	require.NoError(t, err)

	payload := bytes.NewBufferString(`{"code":"c1"}`)
	req := httptest.NewRequest(http.MethodPost, "/auth/google/link", payload)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+victimTokens.AccessToken)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	reloaded, err := e.store.FindByID(context.Background(), victim.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.GoogleID)
}

func TestUnlinkWithoutPassword(t *testing.T) {
	e := setup(t)

	u := &users.User{Name: "OAuth Only", Email: "o@x.com", GoogleID: "g1"}
	require.NoError(t, e.store.Create(context.Background(), u))
	tokens, err := e.issuer.Issue(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/google/unlink", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	reloaded, err := e.store.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "g1", reloaded.GoogleID)
}

func TestUnlinkHappyPath(t *testing.T) {
	e := setup(t)

	u := &users.User{Name: "Both", Email: "b@x.com", GoogleID: "g2", PasswordHash: "hash"}
	require.NoError(t, e.store.Create(context.Background(), u))
	tokens, err := e.issuer.Issue(u)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/auth/google/unlink", nil)
	req.Header.Set("Authorization", "Bearer "+tokens.AccessToken)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	reloaded, err := e.store.FindByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.GoogleID)
}
