package users

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
)

// MemStore is an in-memory Store with the same conflict and not-found
// semantics as the Postgres implementation. Tests and local runs use it.
type MemStore struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]User
}

func NewMemStore() *MemStore {
	return &MemStore{nextID: 1, byID: make(map[int64]User)}
}

func (s *MemStore) FindByID(ctx context.Context, id int64) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (s *MemStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	email = NormalizeEmail(email)
	for _, u := range s.byID {
		if NormalizeEmail(u.Email) == email {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *MemStore) FindByExternalID(ctx context.Context, googleID string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if googleID == "" {
		return nil, apperrors.ErrNotFound
	}
	for _, u := range s.byID {
		if u.GoogleID == googleID {
			u := u
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (s *MemStore) Create(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.Email = NormalizeEmail(u.Email)
	for _, existing := range s.byID {
		if NormalizeEmail(existing.Email) == u.Email {
			return apperrors.ErrConflict
		}
		if u.GoogleID != "" && existing.GoogleID == u.GoogleID {
			return apperrors.ErrConflict
		}
	}

	if u.Role == "" {
		u.Role = RoleVisitor
	}
	u.ID = s.nextID
	s.nextID++
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	s.byID[u.ID] = *u
	return nil
}

func (s *MemStore) Update(ctx context.Context, u *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[u.ID]; !ok {
		return apperrors.ErrNotFound
	}

	u.Email = NormalizeEmail(u.Email)
	for id, existing := range s.byID {
		if id == u.ID {
			continue
		}
		if NormalizeEmail(existing.Email) == u.Email {
			return apperrors.ErrConflict
		}
		if u.GoogleID != "" && existing.GoogleID == u.GoogleID {
			return apperrors.ErrConflict
		}
	}

	u.UpdatedAt = time.Now()
	s.byID[u.ID] = *u
	return nil
}

func (s *MemStore) List(ctx context.Context) ([]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
