package audit

import (
	"context"
	"sync"
	"time"
)

// MemRecorder keeps entries in memory; tests inspect it directly.
type MemRecorder struct {
	mu      sync.Mutex
	nextID  int64
	Entries []Entry
}

func NewMemRecorder() *MemRecorder {
	return &MemRecorder{nextID: 1}
}

func (r *MemRecorder) Record(ctx context.Context, e *Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.ID = r.nextID
	r.nextID++
	e.CreatedAt = time.Now()
	r.Entries = append(r.Entries, *e)
	return nil
}

func (r *MemRecorder) List(ctx context.Context, limit int) ([]Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.Entries) {
		limit = len(r.Entries)
	}
	out := make([]Entry, 0, limit)
	for i := len(r.Entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.Entries[i])
	}
	return out, nil
}
