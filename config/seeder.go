package config

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed catalog.json
var catalogJSON []byte

//go:embed catalog.schema.json
var catalogSchema []byte

// DefaultCatalog is the shop's built-in catalog.
func DefaultCatalog() (*storage.Catalog, error) {
	return LoadCatalog(catalogJSON)
}

// LoadCatalog validates raw against the catalog schema and decodes it.
// Questions get their evaluation position from document order, and every
// phone model must reference a brand in the same document.
func LoadCatalog(raw []byte) (*storage.Catalog, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(catalogSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("catalog validation error: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return nil, fmt.Errorf("catalog is invalid: %s", strings.Join(errs, "; "))
	}

	var catalog storage.Catalog
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	for i := range catalog.Questions {
		catalog.Questions[i].Position = i + 1
	}

	brands := make(map[string]bool, len(catalog.Brands))
	for _, b := range catalog.Brands {
		brands[b.ID] = true
	}
	for _, m := range catalog.Models {
		if !brands[m.BrandID] {
			return nil, fmt.Errorf("phone model %s references unknown brand %s", m.ID, m.BrandID)
		}
	}

	return &catalog, nil
}

// SeedCatalog inserts catalog unless the store already has brands. It
// reports whether anything was written. Concurrent first starts may both
// insert; startup is expected to run once before traffic.
func SeedCatalog(ctx context.Context, store storage.Store, catalog *storage.Catalog, log utils.Logger) (bool, error) {
	count, err := store.CountBrands(ctx)
	if err != nil {
		return false, fmt.Errorf("count brands: %w", err)
	}
	if count > 0 {
		log.Info("database already seeded", map[string]interface{}{"brands": count})
		return false, nil
	}

	log.Info("seeding database", nil)
	if err := store.InsertCatalog(ctx, catalog); err != nil {
		return false, fmt.Errorf("seed catalog: %w", err)
	}

	log.Info("database seeding completed", map[string]interface{}{
		"brands":          len(catalog.Brands),
		"phone_models":    len(catalog.Models),
		"questions":       len(catalog.Questions),
		"phones_for_sale": len(catalog.Listings),
	})
	return true, nil
}
