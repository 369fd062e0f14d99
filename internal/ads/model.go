package ads

import (
	"context"
	"time"
)

// Advertisement is a paid placement bought by an organization. The
// click and impression counters are bumped server-side so totals
// survive client caching.
type Advertisement struct {
	ID          int64     `json:"ad_id"`
	OrgID       int64     `json:"org_id,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	TargetURL   string    `json:"target_url,omitempty"`
	AdType      string    `json:"ad_type"`
	Placement   string    `json:"placement"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Budget      float64   `json:"budget,omitempty"`
	Clicks      int64     `json:"clicks_count"`
	Impressions int64     `json:"impressions_count"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Running reports whether the ad should be served at the given time.
func (a *Advertisement) Running(at time.Time) bool {
	return a.IsActive && !at.Before(a.StartDate) && !at.After(a.EndDate)
}

// Store persists advertisements. RecordClick and RecordImpression
// increment atomically; a missing ad is apperrors.ErrNotFound.
type Store interface {
	Create(ctx context.Context, ad *Advertisement) error
	FindByID(ctx context.Context, id int64) (*Advertisement, error)
	Update(ctx context.Context, ad *Advertisement) error
	Delete(ctx context.Context, id int64) error
	// List returns all ads; activeOnly narrows to ads running now.
	List(ctx context.Context, activeOnly bool) ([]Advertisement, error)
	RecordClick(ctx context.Context, id int64) error
	RecordImpression(ctx context.Context, id int64) error
}
