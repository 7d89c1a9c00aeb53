package config

import (
	"context"
	"errors"
	"testing"

	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	assert.Len(t, catalog.Brands, 6)
	assert.Len(t, catalog.Models, 10)
	assert.Len(t, catalog.Questions, 45)
	assert.Len(t, catalog.Listings, 6)

	for i, q := range catalog.Questions {
		assert.Equal(t, i+1, q.Position, q.ID)
	}
	assert.Equal(t, "q1", catalog.Questions[0].ID)
	assert.True(t, catalog.Questions[0].IsBlocking)
	assert.Equal(t, "12GB", catalog.Listings[0].Specs.Data()["RAM"])
}

func TestLoadCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			name:    "not json",
			raw:     `{`,
			wantErr: "catalog validation error",
		},
		{
			name:    "missing section",
			raw:     `{"brands": [], "phone_models": [], "questions": []}`,
			wantErr: "catalog is invalid",
		},
		{
			name: "wrong type",
			raw: `{"brands": [], "phone_models": [{"id": "m", "brand_id": "b", "name": "n", "base_price": "cheap", "image": ""}],
				"questions": [], "phones_for_sale": []}`,
			wantErr: "catalog is invalid",
		},
		{
			name: "dangling brand reference",
			raw: `{"brands": [], "phone_models": [{"id": "m", "brand_id": "b", "name": "n", "base_price": 100, "image": ""}],
				"questions": [], "phones_for_sale": []}`,
			wantErr: "references unknown brand",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCatalog([]byte(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSeedCatalog_OnlyOnce(t *testing.T) {
	store := storage.NewMemoryStore()
	catalog, err := DefaultCatalog()
	require.NoError(t, err)
	log := utils.NewTestLogger(t)
	ctx := context.Background()

	seeded, err := SeedCatalog(ctx, store, catalog, log)
	require.NoError(t, err)
	assert.True(t, seeded)

	seeded, err = SeedCatalog(ctx, store, catalog, log)
	require.NoError(t, err)
	assert.False(t, seeded)

	count, err := store.CountBrands(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(6), count)

	questions, err := store.ListQuestions(ctx)
	require.NoError(t, err)
	require.Len(t, questions, 45)
	assert.Equal(t, "q45", questions[44].ID)
}

type brokenStore struct {
	storage.Store
}

func (brokenStore) CountBrands(ctx context.Context) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestSeedCatalog_CountFails(t *testing.T) {
	catalog, err := DefaultCatalog()
	require.NoError(t, err)

	_, err = SeedCatalog(context.Background(), brokenStore{}, catalog, utils.NewTestLogger(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "count brands")
}
