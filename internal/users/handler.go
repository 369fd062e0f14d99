package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/audit"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
)

// ContextKey is where the auth middleware stores the authenticated
// account on the request context.
const ContextKey = "currentUser"

// currentUser reads the account set by the auth middleware. Declared
// here instead of importing the middleware package to avoid an import
// cycle: the middleware loads accounts through this package's Store.
func currentUser(c *gin.Context) *User {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	return v.(*User)
}

type Handler struct {
	store   Store
	auditor audit.Recorder
}

func NewHandler(store Store, auditor audit.Recorder) *Handler {
	return &Handler{store: store, auditor: auditor}
}

// RegisterRoutes mounts the account endpoints on an authenticated
// group. The listing is additionally gated to admins inside the
// handler, again to avoid importing the middleware package.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/users/profile", h.profile)
	rg.PUT("/users/profile", h.updateProfile)
	rg.GET("/users", h.list)
}

func (h *Handler) profile(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Serialize()})
}

func (h *Handler) updateProfile(c *gin.Context) {
	user := currentUser(c)

	var req struct {
		Name           string `json:"name" binding:"required"`
		ProfilePicture string `json:"profile_picture"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name is required"})
		return
	}

	old := map[string]any{"name": user.Name}
	user.Name = req.Name
	if req.ProfilePicture != "" {
		user.ProfilePicture = req.ProfilePicture
	}

	if err := h.store.Update(c.Request.Context(), user); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
			return
		}
		logger.Error("profile update failed", map[string]any{"user_id": user.ID, "error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     user.ID,
		ActionType: "update",
		TargetType: "user",
		TargetID:   user.ID,
		OldValues:  old,
		NewValues:  map[string]any{"name": user.Name},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user.Serialize()})
}

func (h *Handler) list(c *gin.Context) {
	user := currentUser(c)
	if user == nil || user.Role != RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "admin role required"})
		return
	}

	all, err := h.store.List(c.Request.Context())
	if err != nil {
		logger.Error("user listing failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
		return
	}

	out := make([]map[string]any, 0, len(all))
	for i := range all {
		out = append(out, all[i].Serialize())
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": out})
}
