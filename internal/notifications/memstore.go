package notifications

import (
	"context"
	"sync"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
)

// MemStore is the in-memory Store used by tests.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	items  []Notification
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1}
}

func (s *MemStore) Create(ctx context.Context, n *Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n.ID = s.nextID
	s.nextID++
	n.CreatedAt = time.Now()
	s.items = append(s.items, *n)
	return nil
}

func (s *MemStore) ListByUser(ctx context.Context, userID int64) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Notification
	for i := len(s.items) - 1; i >= 0; i-- {
		if s.items[i].UserID == userID {
			out = append(out, s.items[i])
		}
	}
	return out, nil
}

func (s *MemStore) MarkRead(ctx context.Context, userID, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.items {
		if s.items[i].ID == notificationID && s.items[i].UserID == userID {
			s.items[i].IsRead = true
			return nil
		}
	}
	return apperrors.ErrNotFound
}

func (s *MemStore) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for _, n := range s.items {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}
