package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/auth/token"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

const (
	currentUserKey = users.ContextKey
	tokenClaimsKey = "tokenClaims"
)

// Auth validates bearer tokens and loads the account they belong to.
type Auth struct {
	issuer   *token.Issuer
	denylist *token.Denylist // nil disables revocation checks (tests)
	store    users.Store
}

func NewAuth(issuer *token.Issuer, denylist *token.Denylist, store users.Store) *Auth {
	return &Auth{issuer: issuer, denylist: denylist, store: store}
}

// CurrentUser returns the authenticated account set by RequireAuth.
func CurrentUser(c *gin.Context) *users.User {
	u, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	return u.(*users.User)
}

// TokenClaims returns the verified claims of the presented token.
func TokenClaims(c *gin.Context) *token.Claims {
	v, ok := c.Get(tokenClaimsKey)
	if !ok {
		return nil
	}
	return v.(*token.Claims)
}

func (a *Auth) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			abortUnauthorized(c)
			return
		}

		claims, err := a.issuer.Verify(raw)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		if a.denylist != nil {
			revoked, err := a.denylist.Revoked(c.Request.Context(), claims.TokenID)
			if err != nil || revoked {
				abortUnauthorized(c)
				return
			}
		}

		user, err := a.store.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(tokenClaimsKey, claims)
		c.Next()
	}
}

// RequireRole gates a route to the listed roles. Must run after
// RequireAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			abortUnauthorized(c)
			return
		}
		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"message": strings.Join(roles, " or ") + " role required",
		})
	}
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": "unauthorized",
	})
}
