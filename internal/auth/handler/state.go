package handler

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Short-lived cookies carry the OAuth state and PKCE verifier across
// the redirect round-trip.
const (
	stateCookieName = "__oauth_state"
	pkceCookieName  = "__oauth_pkce"
	oauthCookieTTL  = 5 * time.Minute
)

func randomToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}

func setOAuthCookie(c *gin.Context, name, value string) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(oauthCookieTTL.Seconds()),
	})
}

func generateState(c *gin.Context) string {
	state := randomToken()
	setOAuthCookie(c, stateCookieName, state)
	return state
}

func validateState(c *gin.Context) bool {
	stateQuery := c.Query("state")
	if stateQuery == "" {
		return false
	}
	cookie, err := c.Request.Cookie(stateCookieName)
	if err != nil {
		return false
	}
	return cookie.Value == stateQuery
}

func generatePKCE(c *gin.Context) (verifier string, challenge string) {
	verifier = randomToken()
	hash := sha256.Sum256([]byte(verifier))
	challenge = base64.RawURLEncoding.EncodeToString(hash[:])
	setOAuthCookie(c, pkceCookieName, verifier)
	return verifier, challenge
}

// getPKCEVerifier returns the stored verifier, or empty when the flow
// was started without PKCE (explicit account linking).
func getPKCEVerifier(c *gin.Context) string {
	cookie, err := c.Request.Cookie(pkceCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
