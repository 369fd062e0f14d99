package directory

import (
	"context"
	"time"
)

// Organization statuses. New submissions start pending and move to
// approved or rejected by an admin.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Organization struct {
	ID              int64      `json:"org_id"`
	Name            string     `json:"name"`
	Mission         string     `json:"mission,omitempty"`
	Description     string     `json:"description,omitempty"`
	CategoryID      int64      `json:"category_id,omitempty"`
	LocationID      int64      `json:"location_id,omitempty"`
	Address         string     `json:"address,omitempty"`
	Phone           string     `json:"phone,omitempty"`
	Email           string     `json:"email,omitempty"`
	Website         string     `json:"website,omitempty"`
	DonationLink    string     `json:"donation_link,omitempty"`
	LogoURL         string     `json:"logo_url,omitempty"`
	OperatingHours  string     `json:"operating_hours,omitempty"`
	EstablishedYear int        `json:"established_year,omitempty"`
	Status          string     `json:"status"`
	AdminUserID     int64      `json:"admin_user_id,omitempty"`
	ApprovedBy      int64      `json:"approved_by,omitempty"`
	ApprovalDate    *time.Time `json:"approval_date,omitempty"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	ViewCount       int64      `json:"view_count"`
	BookmarkCount   int64      `json:"bookmark_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Category struct {
	ID          int64     `json:"category_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IconURL     string    `json:"icon_url,omitempty"`
	ColorCode   string    `json:"color_code,omitempty"`
	IsActive    bool      `json:"is_active"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Location struct {
	ID            int64     `json:"location_id"`
	Country       string    `json:"country"`
	StateProvince string    `json:"state_province,omitempty"`
	City          string    `json:"city"`
	PostalCode    string    `json:"postal_code,omitempty"`
	Latitude      float64   `json:"latitude,omitempty"`
	Longitude     float64   `json:"longitude,omitempty"`
	Timezone      string    `json:"timezone,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// OrgFilter narrows listings. Zero values mean no constraint.
type OrgFilter struct {
	Status     string
	CategoryID int64
	LocationID int64
}

// OrgStore persists organizations. Create assigns ID and sets status
// to pending unless already set. Update and Delete report a missing
// row as apperrors.ErrNotFound.
type OrgStore interface {
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id int64) (*Organization, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f OrgFilter) ([]Organization, error)
}

// CategoryStore reports a duplicate name as apperrors.ErrConflict.
type CategoryStore interface {
	CreateCategory(ctx context.Context, cat *Category) error
	FindCategory(ctx context.Context, id int64) (*Category, error)
	UpdateCategory(ctx context.Context, cat *Category) error
	DeleteCategory(ctx context.Context, id int64) error
	ListCategories(ctx context.Context) ([]Category, error)
}

type LocationStore interface {
	CreateLocation(ctx context.Context, loc *Location) error
	FindLocation(ctx context.Context, id int64) (*Location, error)
	UpdateLocation(ctx context.Context, loc *Location) error
	DeleteLocation(ctx context.Context, id int64) error
	ListLocations(ctx context.Context) ([]Location, error)
}
