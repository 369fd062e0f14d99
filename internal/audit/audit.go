package audit

import (
	"context"
	"time"
)

// Entry is one recorded mutation: who did what to which record, with
// before/after snapshots for the fields that changed.
type Entry struct {
	ID         int64          `json:"log_id"`
	UserID     int64          `json:"user_id"`
	ActionType string         `json:"action_type"` // create, update, delete, approve, reject
	TargetType string         `json:"target_type"` // organization, category, location, advertisement, user
	TargetID   int64          `json:"target_id"`
	OldValues  map[string]any `json:"old_values,omitempty"`
	NewValues  map[string]any `json:"new_values,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// Recorder persists audit entries. Recording is best-effort at call
// sites: a failed audit write is logged, never turned into a request
// failure.
type Recorder interface {
	Record(ctx context.Context, e *Entry) error
	List(ctx context.Context, limit int) ([]Entry, error)
}
