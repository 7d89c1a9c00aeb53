package storage

import (
	"context"
	"slices"
	"sort"
	"sync"

	"phonexchange_backend/models"
)

// MemoryStore keeps everything in process. Insertion order is preserved for
// brands, models and listings; questions are kept sorted by position.
type MemoryStore struct {
	mu        sync.RWMutex
	brands    []models.Brand
	models    []models.PhoneModel
	questions []models.Question
	listings  []models.ResaleListing
	leads     []models.Lead
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return capped(s.brands), nil
}

func (s *MemoryStore) CountBrands(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.brands)), nil
}

func (s *MemoryStore) ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.PhoneModel{}
	for _, m := range s.models {
		if m.BrandID == brandID {
			out = append(out, m)
		}
	}
	return capped(out), nil
}

func (s *MemoryStore) GetModel(ctx context.Context, id string) (*models.PhoneModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, m := range s.models {
		if m.ID == id {
			m := m
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return capped(s.questions), nil
}

func (s *MemoryStore) ListListings(ctx context.Context, filter models.ListingFilter) ([]models.ResaleListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.ResaleListing{}
	for _, l := range s.listings {
		if filter.Matches(l) {
			out = append(out, l)
		}
	}
	return capped(out), nil
}

func (s *MemoryStore) GetListing(ctx context.Context, id string) (*models.ResaleListing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			l := l
			return &l, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) CreateLead(ctx context.Context, lead *models.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads = append(s.leads, *lead)
	return nil
}

func (s *MemoryStore) ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []models.Lead{}
	for i := len(s.leads) - 1; i >= 0; i-- {
		if filter.LeadType == "" || s.leads[i].LeadType == filter.LeadType {
			out = append(out, s.leads[i])
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return capped(out), nil
}

func (s *MemoryStore) InsertCatalog(ctx context.Context, catalog *Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.brands = append(s.brands, catalog.Brands...)
	s.models = append(s.models, catalog.Models...)
	s.listings = append(s.listings, catalog.Listings...)
	s.questions = append(s.questions, catalog.Questions...)
	slices.SortStableFunc(s.questions, models.CompareQuestions)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *MemoryStore) Close() error {
	return nil
}

// capped copies at most ListLimit records so callers never alias store state.
func capped[T any](in []T) []T {
	n := len(in)
	if n > ListLimit {
		n = ListLimit
	}
	out := make([]T, n)
	copy(out, in[:n])
	return out
}
