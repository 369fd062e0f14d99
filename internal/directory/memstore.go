package directory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/salemmohdmohd/directory-for-charities/internal/apperrors"
)

// MemStore is the in-memory counterpart of PostgresStore, used in
// tests. It mirrors the same conflict and not-found semantics.
type MemStore struct {
	mu         sync.Mutex
	orgs       map[int64]*Organization
	categories map[int64]*Category
	locations  map[int64]*Location
	nextOrg    int64
	nextCat    int64
	nextLoc    int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		orgs:       make(map[int64]*Organization),
		categories: make(map[int64]*Category),
		locations:  make(map[int64]*Location),
		nextOrg:    1,
		nextCat:    1,
		nextLoc:    1,
	}
}

func (s *MemStore) Create(ctx context.Context, org *Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if org.Status == "" {
		org.Status = StatusPending
	}
	org.ID = s.nextOrg
	s.nextOrg++
	org.CreatedAt = time.Now()
	org.UpdatedAt = org.CreatedAt

	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *MemStore) FindByID(ctx context.Context, id int64) (*Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *org
	return &cp, nil
}

func (s *MemStore) Update(ctx context.Context, org *Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[org.ID]; !ok {
		return apperrors.ErrNotFound
	}
	org.UpdatedAt = time.Now()
	cp := *org
	s.orgs[org.ID] = &cp
	return nil
}

func (s *MemStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orgs[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.orgs, id)
	return nil
}

func (s *MemStore) List(ctx context.Context, f OrgFilter) ([]Organization, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Organization
	for _, org := range s.orgs {
		if f.Status != "" && org.Status != f.Status {
			continue
		}
		if f.CategoryID != 0 && org.CategoryID != f.CategoryID {
			continue
		}
		if f.LocationID != 0 && org.LocationID != f.LocationID {
			continue
		}
		out = append(out, *org)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *MemStore) CreateCategory(ctx context.Context, cat *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.categories {
		if existing.Name == cat.Name {
			return apperrors.ErrConflict
		}
	}
	cat.ID = s.nextCat
	s.nextCat++
	cat.CreatedAt = time.Now()
	cat.UpdatedAt = cat.CreatedAt

	cp := *cat
	s.categories[cat.ID] = &cp
	return nil
}

func (s *MemStore) FindCategory(ctx context.Context, id int64) (*Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := s.categories[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *cat
	return &cp, nil
}

func (s *MemStore) UpdateCategory(ctx context.Context, cat *Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[cat.ID]; !ok {
		return apperrors.ErrNotFound
	}
	for id, existing := range s.categories {
		if id != cat.ID && existing.Name == cat.Name {
			return apperrors.ErrConflict
		}
	}
	cat.UpdatedAt = time.Now()
	cp := *cat
	s.categories[cat.ID] = &cp
	return nil
}

func (s *MemStore) DeleteCategory(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.categories, id)
	return nil
}

func (s *MemStore) ListCategories(ctx context.Context) ([]Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Category
	for _, cat := range s.categories {
		out = append(out, *cat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *MemStore) CreateLocation(ctx context.Context, loc *Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc.ID = s.nextLoc
	s.nextLoc++
	loc.CreatedAt = time.Now()
	loc.UpdatedAt = loc.CreatedAt

	cp := *loc
	s.locations[loc.ID] = &cp
	return nil
}

func (s *MemStore) FindLocation(ctx context.Context, id int64) (*Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loc, ok := s.locations[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *loc
	return &cp, nil
}

func (s *MemStore) UpdateLocation(ctx context.Context, loc *Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[loc.ID]; !ok {
		return apperrors.ErrNotFound
	}
	loc.UpdatedAt = time.Now()
	cp := *loc
	s.locations[loc.ID] = &cp
	return nil
}

func (s *MemStore) DeleteLocation(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.locations[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(s.locations, id)
	return nil
}

func (s *MemStore) ListLocations(ctx context.Context) ([]Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []Location
	for _, loc := range s.locations {
		out = append(out, *loc)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Country != out[j].Country {
			return out[i].Country < out[j].Country
		}
		return out[i].City < out[j].City
	})
	return out, nil
}
