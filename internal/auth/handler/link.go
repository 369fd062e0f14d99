package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
)

type linkRequest struct {
	Code string `json:"code"`
}

// LinkGoogle attaches a Google account to the already-authenticated
// user. The code is exchanged first; linking is refused when the
// resolved subject belongs to a different account.
func (h *Handler) LinkGoogle(c *gin.Context) {
	user := middleware.CurrentUser(c)

	var req linkRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Code == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Authorization code required",
		})
		return
	}

	identity, err := h.provider.Exchange(c.Request.Context(), req.Code, getPKCEVerifier(c))
	if err != nil {
		respondFailure(c, err)
		return
	}

	linked, err := h.resolver.Link(c.Request.Context(), user.ID, identity)
	if err != nil {
		respondFailure(c, err)
		return
	}

	logger.Info("google account linked", map[string]any{"user_id": user.ID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Google account linked successfully",
		"user":    linked.Serialize(),
	})
}

// UnlinkGoogle detaches the Google account, provided the user keeps a
// password login path.
func (h *Handler) UnlinkGoogle(c *gin.Context) {
	user := middleware.CurrentUser(c)

	if err := h.resolver.Unlink(c.Request.Context(), user.ID); err != nil {
		respondFailure(c, err)
		return
	}

	logger.Info("google account unlinked", map[string]any{"user_id": user.ID})

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Google account unlinked successfully",
	})
}
