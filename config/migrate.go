package config

import (
	"phonexchange_backend/models"
	"phonexchange_backend/utils"

	"gorm.io/gorm"
)

func catalogModels() []interface{} {
	return []interface{}{
		&models.Brand{},
		&models.PhoneModel{},
		&models.Question{},
		&models.ResaleListing{},
		&models.Lead{},
	}
}

// Migrate creates or updates the SQL schema.
func Migrate(db *gorm.DB, log utils.Logger) error {
	if err := db.AutoMigrate(catalogModels()...); err != nil {
		log.WithError(err).Error("failed to migrate database schema", nil)
		return err
	}

	log.Info("database migrations completed", nil)
	return nil
}

// ResetAndMigrate drops the catalog tables and recreates them empty. Leads
// are dropped too. Used by the -reset flag in development.
func ResetAndMigrate(db *gorm.DB, log utils.Logger) error {
	if err := db.Migrator().DropTable(catalogModels()...); err != nil {
		log.WithError(err).Error("failed to drop tables", nil)
		return err
	}

	log.Info("all tables dropped", nil)
	return Migrate(db, log)
}
