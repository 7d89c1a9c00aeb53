// Package storage holds the catalog store: brands, phone models, the
// questionnaire, resale listings and submitted leads.
//
// Every backend implements Store. The handle is opened once in main and
// passed to whoever issues queries.
package storage

import (
	"context"
	"errors"

	"phonexchange_backend/models"
)

// ListLimit caps every list query.
const ListLimit = 100

// ErrNotFound is returned by single-record lookups that match nothing.
var ErrNotFound = errors.New("record not found")

type Store interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	CountBrands(ctx context.Context) (int64, error)
	ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error)
	GetModel(ctx context.Context, id string) (*models.PhoneModel, error)
	// ListQuestions returns the questionnaire ordered by position, then id.
	ListQuestions(ctx context.Context) ([]models.Question, error)
	ListListings(ctx context.Context, filter models.ListingFilter) ([]models.ResaleListing, error)
	GetListing(ctx context.Context, id string) (*models.ResaleListing, error)
	CreateLead(ctx context.Context, lead *models.Lead) error
	// ListLeads returns leads newest first.
	ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error)
	InsertCatalog(ctx context.Context, catalog *Catalog) error
	Ping(ctx context.Context) error
	Close() error
}

// Catalog is the static reference data loaded at startup.
type Catalog struct {
	Brands    []models.Brand         `json:"brands"`
	Models    []models.PhoneModel    `json:"phone_models"`
	Questions []models.Question      `json:"questions"`
	Listings  []models.ResaleListing `json:"phones_for_sale"`
}
