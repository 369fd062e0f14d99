package directory

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
	"github.com/salemmohdmohd/directory-for-charities/internal/audit"
	"github.com/salemmohdmohd/directory-for-charities/internal/logger"
	"github.com/salemmohdmohd/directory-for-charities/internal/middleware"
	"github.com/salemmohdmohd/directory-for-charities/internal/notifications"
	"github.com/salemmohdmohd/directory-for-charities/internal/users"
)

// Handler serves the public charity directory plus the write paths:
// any authenticated user can submit an organization, admins approve
// or reject submissions and own the category and location taxonomies.
type Handler struct {
	orgs    OrgStore
	cats    CategoryStore
	locs    LocationStore
	notifs  notifications.Store
	auditor audit.Recorder
}

func NewHandler(orgs OrgStore, cats CategoryStore, locs LocationStore,
	notifs notifications.Store, auditor audit.Recorder) *Handler {
	return &Handler{orgs: orgs, cats: cats, locs: locs, notifs: notifs, auditor: auditor}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/orgs", h.listOrgs)
	rg.GET("/orgs/:id", h.getOrg)
	rg.GET("/categories", h.listCategories)
	rg.GET("/locations", h.listLocations)
}

func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.POST("/orgs", h.createOrg)
	rg.PUT("/orgs/:id", h.updateOrg)
	rg.DELETE("/orgs/:id", h.deleteOrg)

	admin := rg.Group("/", middleware.RequireRole(users.RoleAdmin))
	admin.POST("/orgs/:id/approve", h.approveOrg)
	admin.POST("/orgs/:id/reject", h.rejectOrg)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
	admin.POST("/locations", h.createLocation)
	admin.PUT("/locations/:id", h.updateLocation)
	admin.DELETE("/locations/:id", h.deleteLocation)
}

// actorID is the authenticated account performing a mutation. Audit
// call sites always run behind RequireAuth.
func actorID(c *gin.Context) int64 {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return 0
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid id"})
		return 0, false
	}
	return id, true
}

func respondError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": notFoundMsg})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "already exists"})
	default:
		logger.Error("directory request failed", map[string]any{"error": err.Error()})
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal error"})
	}
}

func (h *Handler) listOrgs(c *gin.Context) {
	f := OrgFilter{Status: c.Query("status")}
	if v := c.Query("category_id"); v != "" {
		f.CategoryID, _ = strconv.ParseInt(v, 10, 64)
	}
	if v := c.Query("location_id"); v != "" {
		f.LocationID, _ = strconv.ParseInt(v, 10, 64)
	}
	// Anonymous listings only ever see approved organizations.
	if middleware.CurrentUser(c) == nil {
		f.Status = StatusApproved
	}

	orgs, err := h.orgs.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if orgs == nil {
		orgs = []Organization{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "organizations": orgs})
}

func (h *Handler) getOrg(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	org, err := h.orgs.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "organization not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "organization": org})
}

type orgRequest struct {
	Name            string `json:"name" binding:"required"`
	Mission         string `json:"mission"`
	Description     string `json:"description"`
	CategoryID      int64  `json:"category_id"`
	LocationID      int64  `json:"location_id"`
	Address         string `json:"address"`
	Phone           string `json:"phone"`
	Email           string `json:"email"`
	Website         string `json:"website"`
	DonationLink    string `json:"donation_link"`
	LogoURL         string `json:"logo_url"`
	OperatingHours  string `json:"operating_hours"`
	EstablishedYear int    `json:"established_year"`
}

func (r *orgRequest) apply(org *Organization) {
	org.Name = r.Name
	org.Mission = r.Mission
	org.Description = r.Description
	org.CategoryID = r.CategoryID
	org.LocationID = r.LocationID
	org.Address = r.Address
	org.Phone = r.Phone
	org.Email = r.Email
	org.Website = r.Website
	org.DonationLink = r.DonationLink
	org.LogoURL = r.LogoURL
	org.OperatingHours = r.OperatingHours
	org.EstablishedYear = r.EstablishedYear
}

func (h *Handler) createOrg(c *gin.Context) {
	var req orgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name is required"})
		return
	}

	user := middleware.CurrentUser(c)
	org := Organization{Status: StatusPending, AdminUserID: user.ID}
	req.apply(&org)

	if err := h.orgs.Create(c.Request.Context(), &org); err != nil {
		respondError(c, err, "")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "create",
		TargetType: "organization",
		TargetID:   org.ID,
		NewValues:  map[string]any{"name": org.Name, "status": org.Status},
	})

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"message":      "Organization submitted for review",
		"organization": org,
	})
}

func (h *Handler) updateOrg(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	org, err := h.orgs.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "organization not found")
		return
	}

	user := middleware.CurrentUser(c)
	if user.Role != users.RoleAdmin && org.AdminUserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not your organization"})
		return
	}

	var req orgRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name is required"})
		return
	}

	old := map[string]any{"name": org.Name}
	req.apply(org)

	if err := h.orgs.Update(c.Request.Context(), org); err != nil {
		respondError(c, err, "organization not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "update",
		TargetType: "organization",
		TargetID:   org.ID,
		OldValues:  old,
		NewValues:  map[string]any{"name": org.Name},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "organization": org})
}

func (h *Handler) deleteOrg(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	org, err := h.orgs.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "organization not found")
		return
	}

	user := middleware.CurrentUser(c)
	if user.Role != users.RoleAdmin && org.AdminUserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "not your organization"})
		return
	}

	if err := h.orgs.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err, "organization not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "delete",
		TargetType: "organization",
		TargetID:   id,
		OldValues:  map[string]any{"name": org.Name},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Organization deleted"})
}

func (h *Handler) approveOrg(c *gin.Context) {
	h.review(c, StatusApproved)
}

func (h *Handler) rejectOrg(c *gin.Context) {
	h.review(c, StatusRejected)
}

// review moves a pending organization to its final status, records
// the decision and notifies the submitting user.
func (h *Handler) review(c *gin.Context, status string) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	org, err := h.orgs.FindByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "organization not found")
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)
	if status == StatusRejected && body.Reason == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "rejection reason is required"})
		return
	}

	admin := middleware.CurrentUser(c)
	oldStatus := org.Status
	now := time.Now()

	org.Status = status
	org.ApprovedBy = admin.ID
	org.ApprovalDate = &now
	org.RejectionReason = body.Reason

	if err := h.orgs.Update(c.Request.Context(), org); err != nil {
		respondError(c, err, "organization not found")
		return
	}

	action := "approve"
	message := "Your organization " + org.Name + " has been approved!"
	if status == StatusRejected {
		action = "reject"
		message = "Your organization " + org.Name + " was rejected: " + body.Reason
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: action,
		TargetType: "organization",
		TargetID:   org.ID,
		OldValues:  map[string]any{"status": oldStatus},
		NewValues:  map[string]any{"status": status},
	})

	if h.notifs != nil && org.AdminUserID != 0 {
		err := h.notifs.Create(c.Request.Context(), &notifications.Notification{
			UserID:  org.AdminUserID,
			Message: message,
		})
		if err != nil {
			logger.Error("review notification failed", map[string]any{
				"org_id": org.ID,
				"error":  err.Error(),
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "organization": org})
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
	ColorCode   string `json:"color_code"`
	IsActive    *bool  `json:"is_active"`
	SortOrder   int    `json:"sort_order"`
}

func (h *Handler) listCategories(c *gin.Context) {
	cats, err := h.cats.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	if cats == nil {
		cats = []Category{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": cats})
}

func (h *Handler) createCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name is required"})
		return
	}

	cat := Category{
		Name:        req.Name,
		Description: req.Description,
		IconURL:     req.IconURL,
		ColorCode:   req.ColorCode,
		IsActive:    true,
		SortOrder:   req.SortOrder,
	}
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.cats.CreateCategory(c.Request.Context(), &cat); err != nil {
		respondError(c, err, "")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "create",
		TargetType: "category",
		TargetID:   cat.ID,
		NewValues:  map[string]any{"name": cat.Name},
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "category": cat})
}

func (h *Handler) updateCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	cat, err := h.cats.FindCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "category not found")
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name is required"})
		return
	}

	old := map[string]any{"name": cat.Name}
	cat.Name = req.Name
	cat.Description = req.Description
	cat.IconURL = req.IconURL
	cat.ColorCode = req.ColorCode
	cat.SortOrder = req.SortOrder
	if req.IsActive != nil {
		cat.IsActive = *req.IsActive
	}

	if err := h.cats.UpdateCategory(c.Request.Context(), cat); err != nil {
		respondError(c, err, "category not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "update",
		TargetType: "category",
		TargetID:   cat.ID,
		OldValues:  old,
		NewValues:  map[string]any{"name": cat.Name},
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "category": cat})
}

func (h *Handler) deleteCategory(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.cats.DeleteCategory(c.Request.Context(), id); err != nil {
		respondError(c, err, "category not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "delete",
		TargetType: "category",
		TargetID:   id,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Category deleted"})
}

type locationRequest struct {
	Country       string  `json:"country" binding:"required"`
	StateProvince string  `json:"state_province"`
	City          string  `json:"city" binding:"required"`
	PostalCode    string  `json:"postal_code"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Timezone      string  `json:"timezone"`
	IsActive      *bool   `json:"is_active"`
}

func (h *Handler) listLocations(c *gin.Context) {
	locs, err := h.locs.ListLocations(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	if locs == nil {
		locs = []Location{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "locations": locs})
}

func (h *Handler) createLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "country and city are required"})
		return
	}

	loc := Location{
		Country:       req.Country,
		StateProvince: req.StateProvince,
		City:          req.City,
		PostalCode:    req.PostalCode,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Timezone:      req.Timezone,
		IsActive:      true,
	}
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	if err := h.locs.CreateLocation(c.Request.Context(), &loc); err != nil {
		respondError(c, err, "")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "create",
		TargetType: "location",
		TargetID:   loc.ID,
		NewValues:  map[string]any{"country": loc.Country, "city": loc.City},
	})

	c.JSON(http.StatusCreated, gin.H{"success": true, "location": loc})
}

func (h *Handler) updateLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	loc, err := h.locs.FindLocation(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "location not found")
		return
	}

	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "country and city are required"})
		return
	}

	loc.Country = req.Country
	loc.StateProvince = req.StateProvince
	loc.City = req.City
	loc.PostalCode = req.PostalCode
	loc.Latitude = req.Latitude
	loc.Longitude = req.Longitude
	loc.Timezone = req.Timezone
	if req.IsActive != nil {
		loc.IsActive = *req.IsActive
	}

	if err := h.locs.UpdateLocation(c.Request.Context(), loc); err != nil {
		respondError(c, err, "location not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "update",
		TargetType: "location",
		TargetID:   loc.ID,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "location": loc})
}

func (h *Handler) deleteLocation(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.locs.DeleteLocation(c.Request.Context(), id); err != nil {
		respondError(c, err, "location not found")
		return
	}

	audit.RecordChange(c, h.auditor, audit.Entry{
		UserID:     actorID(c),
		ActionType: "delete",
		TargetType: "location",
		TargetID:   id,
	})

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Location deleted"})
}
