package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/credentials"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/provider"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/resolver"
	"github.com/salemmohdmohd/directory-for-charities/internal/auth/token"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
	"github.com/salemmohdmohd/directory-for-charities/internal/notifications"
)

type Handler struct {
	provider provider.OAuthProvider
	resolver resolver.Resolver
	creds    *credentials.Service
	issuer   *token.Issuer
	denylist *token.Denylist // nil disables logout revocation (tests)
	notifs   notifications.Store
}

func NewHandler(
	p provider.OAuthProvider,
	r resolver.Resolver,
	creds *credentials.Service,
	issuer *token.Issuer,
	denylist *token.Denylist,
	notifs notifications.Store,
) *Handler {
	return &Handler{
		provider: p,
		resolver: r,
		creds:    creds,
		issuer:   issuer,
		denylist: denylist,
		notifs:   notifs,
	}
}

// RegisterRoutes mounts the unauthenticated auth endpoints.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/auth/google/login", h.googleLogin)
	r.GET("/auth/google/callback", h.googleCallback)
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
}

// RegisterProtectedRoutes mounts the endpoints that need a valid
// bearer token.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/google/link", h.LinkGoogle)
	rg.POST("/auth/google/unlink", h.UnlinkGoogle)
	rg.POST("/auth/logout", h.Logout)
}

func (h *Handler) googleLogin(c *gin.Context) {
	state := generateState(c)
	_, codeChallenge := generatePKCE(c)

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"auth_url": h.provider.AuthCodeURL(state, codeChallenge),
		"message":  "Redirect to this URL for Google OAuth",
	})
}

func (h *Handler) googleCallback(c *gin.Context) {
	// Provider-side denial arrives as an error query parameter and
	// short-circuits before any outbound call.
	if errParam := c.Query("error"); errParam != "" {
		logger.Warn("google callback returned error", map[string]any{
			"error": errParam,
			"desc":  c.Query("error_description"),
		})
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Google OAuth error: " + errParam,
		})
		return
	}

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Authorization code not received",
		})
		return
	}

	if !validateState(c) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"message": "Invalid OAuth state",
		})
		return
	}

	identity, err := h.provider.Exchange(c.Request.Context(), code, getPKCEVerifier(c))
	if err != nil {
		respondFailure(c, err)
		return
	}

	user, isNew, err := h.resolver.Resolve(c.Request.Context(), identity)
	if err != nil {
		respondFailure(c, err)
		return
	}

	tokens, err := h.issuer.Issue(user)
	if err != nil {
		respondFailure(c, err)
		return
	}

	if isNew {
		h.welcome(c, user.ID, user.Name)
	}

	logger.Info("google login succeeded", map[string]any{
		"user_id":     user.ID,
		"is_new_user": isNew,
	})

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"message":     "Successfully authenticated with Google",
		"is_new_user": isNew,
		"user":        user.Serialize(),
		"tokens":      tokens,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	claims := middleware.TokenClaims(c)
	if h.denylist != nil && claims != nil {
		if err := h.denylist.Revoke(c.Request.Context(), claims.TokenID, claims.ExpiresAt); err != nil {
			logger.Error("token revocation failed", map[string]any{"error": err.Error()})
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Logout failed",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

func (h *Handler) welcome(c *gin.Context, userID int64, name string) {
	if h.notifs == nil {
		return
	}
	err := h.notifs.Create(c.Request.Context(), &notifications.Notification{
		UserID:  userID,
		Message: "Welcome to Charity Directory, " + name + "!",
	})
	if err != nil {
		logger.Error("welcome notification failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

// respondFailure maps a typed failure to its status and a
// human-readable message. Callers never branch on message text.
func respondFailure(c *gin.Context, err error) {
	var message string
	switch {
	case errors.Is(err, apperrors.ErrProviderRejected):
		message = "Google rejected the authorization code"
	case errors.Is(err, apperrors.ErrProviderUnreachable):
		message = "Failed to reach Google"
	case errors.Is(err, apperrors.ErrIncompleteIdentity):
		message = "Incomplete user information from Google"
	case errors.Is(err, apperrors.ErrConflict):
		message = "Account already exists"
	case errors.Is(err, apperrors.ErrAlreadyLinked):
		message = "This Google account is already linked to another user"
	case errors.Is(err, apperrors.ErrNotLinked):
		message = "No Google account linked"
	case errors.Is(err, apperrors.ErrNoPassword):
		message = "Cannot unlink Google account. Please set a password first."
	case errors.Is(err, apperrors.ErrNotFound):
		message = "User not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		message = "Authentication failed"
	default:
		logger.Error("auth request failed", map[string]any{"error": err.Error()})
		message = "Unexpected error"
	}

	c.JSON(apperrors.Status(err), gin.H{
		"success": false,
		"message": message,
	})
}
