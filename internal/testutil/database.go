// internal/testutil/database.go
package testutil

import (
	"io"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/your-org/gardenops-backend/internal/config"
	"github.com/your-org/gardenops-backend/internal/infrastructure/database/postgres"
)

// NewTestDB opens an isolated in-memory database with the full schema
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory DB
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get test database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := postgres.RunAutoMigrations(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// NewTestConfig returns a config with test-friendly defaults
func NewTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "gardenops-test"
	cfg.App.Environment = "test"
	cfg.JWT.Secret = "test-secret-at-least-32-characters-long"
	cfg.JWT.AccessTokenExpiry = time.Hour
	cfg.JWT.RefreshTokenExpiry = 24 * time.Hour
	cfg.Security.BcryptCost = 4
	cfg.Inventory.AlertCooldown = 24 * time.Hour
	cfg.Invoice.TaxRatePercent = 19
	cfg.Invoice.DueDays = 14
	cfg.External.Company.Name = "GardenOps Test Ltd"
	cfg.External.Storage.Provider = "local"
	cfg.External.Storage.PublicBase = "/uploads"
	cfg.Upload.MaxSize = 10 << 20
	cfg.Upload.AllowedExtensions = []string{"jpg", "png", "pdf"}
	return cfg
}

// NewTestLogger returns a logger that discards output
func NewTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}
