package database

import (
	"fmt"

	"tinytreats/internal/model"
	"tinytreats/pkg/config"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the database connection, runs migrations and seeds the
// default admin password. The handle is returned rather than held in a
// package global so the application root owns all wiring.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	// Configure GORM logger
	logLevel := logger.Error
	if cfg.Server.Env == "development" {
		logLevel = logger.Info
	}

	// Create DSN string
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User,
		cfg.Database.Password, cfg.Database.Name, cfg.Database.SSLMode)

	// Configure Postgres options
	pgConfig := postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true, // Disables implicit prepared statement usage
	}

	// Open connection
	db, err := gorm.Open(postgres.New(pgConfig), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object SQL
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Set connection pool settings from config
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if err := SeedAdminPassword(db, cfg.Admin.DefaultPassword); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate runs the schema migrations for all models
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
		&model.Invoice{},
		&model.SyncLog{},
		&model.AdminConfig{},
	); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}
	return nil
}

// SeedAdminPassword stores a hash of the default admin password if no
// password has been configured yet
func SeedAdminPassword(db *gorm.DB, defaultPassword string) error {
	var existing model.AdminConfig
	result := db.First(&existing, "key = ?", model.AdminPasswordKey)
	if result.Error == nil {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(defaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash default admin password: %w", err)
	}

	seed := model.AdminConfig{Key: model.AdminPasswordKey, Value: string(hashed)}
	if result := db.Create(&seed); result.Error != nil {
		return fmt.Errorf("failed to seed admin password: %w", result.Error)
	}
	return nil
}
