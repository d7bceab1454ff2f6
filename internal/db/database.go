package db

import (
	"errors"
	"fmt"
	"time"

	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/config"
	"github.com/AlexanderAdedeji/e-affidavit-demo-backend/internal/db/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func Initialize(cfg *config.Configuration) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		cfg.Database.Host,
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Name,
		cfg.Database.Port,
		cfg.Database.SSLMode,
	)

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// Unique-constraint violations must surface as gorm.ErrDuplicatedKey;
		// the constraints are the source of truth for email, user type name,
		// reference code and attestation uniqueness.
		TranslateError: true,
	}

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := database.DB()
	if err != nil {
		return nil, err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	if err := Migrate(database); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return database, nil
}

func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.UserType{},
		&models.User{},
		&models.Document{},
		&models.AttestedDocument{},
		&models.Attestation{},
	)
}

// SeedUserTypes creates any missing default user types. Existing rows are left
// untouched so renames done outside the directory are not reverted silently.
func SeedUserTypes(database *gorm.DB, cfg *config.Configuration) error {
	for _, name := range cfg.UserTypes.Defaults() {
		var existing models.UserType
		err := database.Where("name = ?", name).First(&existing).Error
		if err == nil {
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := database.Create(&models.UserType{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}
