package ads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
)

type MemStore struct {
	mu     sync.Mutex
	ads    map[int64]*Advertisement
	nextID int64
}

func NewMemStore() *MemStore {
	return &MemStore{ads: make(map[int64]*Advertisement), nextID: 1}
}

func (s *MemStore) Create(ctx context.Context, ad *Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad.ID = s.nextID
	s.nextID++
	ad.CreatedAt = time.Now()
	ad.UpdatedAt = ad.CreatedAt

	cp := *ad
	s.ads[ad.ID] = &cp
	return nil
}

func (s *MemStore) FindByID(ctx context.Context, id int64) (*Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.ads[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *ad
	return &cp, nil
}

func (s *MemStore) Update(ctx context.Context, ad *Advertisement) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[ad.ID]; !ok {
		return apperrors.ErrNotFound
	}
	ad.UpdatedAt = time.Now()
	cp := *ad
	s.ads[ad.ID] = &cp
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ads[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.ads, id)
	return nil
}

func (s *MemStore) List(ctx context.Context, activeOnly bool) ([]Advertisement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var out []Advertisement
	for _, ad := range s.ads {
		if activeOnly && !ad.Running(now) {
			continue
		}
		out = append(out, *ad)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *MemStore) RecordClick(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.ads[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	ad.Clicks++
	return nil
}

func (s *MemStore) RecordImpression(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ad, ok := s.ads[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	ad.Impressions++
	return nil
}
