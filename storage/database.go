package storage

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"phonexchange_backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormStore is the SQL backend.
type GormStore struct {
	DB *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{DB: db}
}

// OpenPostgres connects to dsn and tunes the pool.
func OpenPostgres(dsn string) (*GormStore, error) {
	if dsn == "" {
		return nil, errors.New("DATABASE_URL is required for the postgres store")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	return &GormStore{DB: db}, nil
}

func (s *GormStore) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands := []models.Brand{}
	if err := s.DB.WithContext(ctx).Limit(ListLimit).Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (s *GormStore) CountBrands(ctx context.Context) (int64, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Brand{}).Count(&count).Error
	return count, err
}

func (s *GormStore) ListModelsByBrand(ctx context.Context, brandID string) ([]models.PhoneModel, error) {
	phoneModels := []models.PhoneModel{}
	err := s.DB.WithContext(ctx).
		Where("brand_id = ?", brandID).
		Limit(ListLimit).
		Find(&phoneModels).Error
	if err != nil {
		return nil, err
	}
	return phoneModels, nil
}

func (s *GormStore) GetModel(ctx context.Context, id string) (*models.PhoneModel, error) {
	var phoneModel models.PhoneModel
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&phoneModel).Error; err != nil {
		return nil, translate(err)
	}
	return &phoneModel, nil
}

func (s *GormStore) ListQuestions(ctx context.Context) ([]models.Question, error) {
	questions := []models.Question{}
	err := s.DB.WithContext(ctx).
		Order("position asc").
		Limit(ListLimit).
		Find(&questions).Error
	if err != nil {
		return nil, err
	}
	// Ids tie-break numerically, which SQL string ordering cannot do.
	slices.SortStableFunc(questions, models.CompareQuestions)
	return questions, nil
}

func (s *GormStore) ListListings(ctx context.Context, filter models.ListingFilter) ([]models.ResaleListing, error) {
	query := s.DB.WithContext(ctx).Where("in_stock = ?", true)

	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}

	listings := []models.ResaleListing{}
	if err := query.Limit(ListLimit).Find(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (s *GormStore) GetListing(ctx context.Context, id string) (*models.ResaleListing, error) {
	var listing models.ResaleListing
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&listing).Error; err != nil {
		return nil, translate(err)
	}
	return &listing, nil
}

func (s *GormStore) CreateLead(ctx context.Context, lead *models.Lead) error {
	return s.DB.WithContext(ctx).Create(lead).Error
}

func (s *GormStore) ListLeads(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	query := s.DB.WithContext(ctx)
	if filter.LeadType != "" {
		query = query.Where("lead_type = ?", filter.LeadType)
	}

	leads := []models.Lead{}
	if err := query.Order("created_at desc").Limit(ListLimit).Find(&leads).Error; err != nil {
		return nil, err
	}
	return leads, nil
}

// InsertCatalog writes the whole catalog in one transaction.
func (s *GormStore) InsertCatalog(ctx context.Context, catalog *Catalog) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(catalog.Brands) > 0 {
			if err := tx.Create(&catalog.Brands).Error; err != nil {
				return fmt.Errorf("insert brands: %w", err)
			}
		}
		if len(catalog.Models) > 0 {
			if err := tx.Create(&catalog.Models).Error; err != nil {
				return fmt.Errorf("insert phone models: %w", err)
			}
		}
		if len(catalog.Questions) > 0 {
			if err := tx.Create(&catalog.Questions).Error; err != nil {
				return fmt.Errorf("insert questions: %w", err)
			}
		}
		if len(catalog.Listings) > 0 {
			if err := tx.Create(&catalog.Listings).Error; err != nil {
				return fmt.Errorf("insert listings: %w", err)
			}
		}
		return nil
	})
}

func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) Close() error {
	sqlDB, err := s.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
