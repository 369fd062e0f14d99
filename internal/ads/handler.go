package ads

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/audit"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

type Handler struct {
	store   Store
	auditor audit.Recorder
}

func NewHandler(store Store, auditor audit.Recorder) *Handler {
	return &Handler{store: store, auditor: auditor}
}

// RegisterPublicRoutes mounts the read side plus the counter
// endpoints, which are hit by anonymous visitors.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/ads", h.list)
	rg.GET("/ads/:id", h.get)
	rg.POST("/ads/:id/click", h.click)
	rg.POST("/ads/:id/impression", h.impression)
}

// RegisterProtectedRoutes mounts the write side for charity and
// admin accounts.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	writes := rg.Group("/", middleware.RequireRole(users.RoleCharity, users.RoleAdmin))
	writes.POST("/ads", h.create)
	writes.PUT("/ads/:id", h.update)
	writes.DELETE("/ads/:id", h.delete)
}

type adRequest struct {
	OrgID       int64     `json:"org_id"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	TargetURL   string    `json:"target_url"`
	AdType      string    `json:"ad_type" binding:"required"`
	Placement   string    `json:"placement" binding:"required"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Budget      float64   `json:"budget"`
	IsActive    *bool     `json:"is_active"`
}

func (r *adRequest) apply(ad *Advertisement) {
	ad.OrgID = r.OrgID
	ad.Title = r.Title
	ad.Description = r.Description
	ad.ImageURL = r.ImageURL
	ad.TargetURL = r.TargetURL
	ad.AdType = r.AdType
	ad.Placement = r.Placement
	ad.StartDate = r.StartDate
	ad.EndDate = r.EndDate
	ad.Budget = r.Budget
	if r.IsActive != nil {
		ad.IsActive = *r.IsActive
	}
}

func actorID(c *gin.Context) int64 {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid ad id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "advertisement not found"})
		return
	}
	logger.Error("advertisement request failed", map[string]any{"error": err.Error()})
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
}

func (h *Handler) list(c *gin.Context) {
	// Active ads only unless ?all=true.
	activeOnly := c.Query("all") != "true"

	items, err := h.store.List(c.Request.Context(), activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}
	if items == nil {
		items = []Advertisement{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "advertisements": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ad, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "advertisement": ad})
}

func (h *Handler) create(c *gin.Context) {
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title, ad_type, placement and dates are required"})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "end_date must be after start_date"})
		return
	}

	ad := Advertisement{IsActive: true}
	req.apply(&ad)

	if err := h.store.Create(c.Request.Context(), &ad); err != nil {
		respondError(c, err)
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "create",
		TargetType: "advertisement",
		TargetID:   ad.ID,
		NewValues:  map[string]any{"title": ad.Title, "placement": ad.Placement},
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "advertisement": ad})
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	ad, err := h.store.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "title, ad_type, placement and dates are required"})
		return
	}
	if !req.EndDate.After(req.StartDate) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "end_date must be after start_date"})
		return
	}

	old := map[string]any{"title": ad.Title, "is_active": ad.IsActive}
	req.apply(ad)

	if err := h.store.Update(c.Request.Context(), ad); err != nil {
		respondError(c, err)
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "update",
		TargetType: "advertisement",
		TargetID:   ad.ID,
		OldValues:  old,
		NewValues:  map[string]any{"title": ad.Title, "is_active": ad.IsActive},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "advertisement": ad})
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "delete",
		TargetType: "advertisement",
		TargetID:   id,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Advertisement deleted"})
}

func (h *Handler) click(c *gin.Context) {
	h.bump(c, h.store.RecordClick)
}

func (h *Handler) impression(c *gin.Context) {
	h.bump(c, h.store.RecordImpression)
}

func (h *Handler) bump(c *gin.Context, record func(ctx context.Context, id int64) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := record(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
