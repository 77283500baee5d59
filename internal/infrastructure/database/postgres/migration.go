// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/your-org/gardenops-backend/internal/domain/client"
	"github.com/your-org/gardenops-backend/internal/domain/inventory"
	"github.com/your-org/gardenops-backend/internal/domain/invoice"
	"github.com/your-org/gardenops-backend/internal/domain/notification"
	"github.com/your-org/gardenops-backend/internal/domain/storage"
	"github.com/your-org/gardenops-backend/internal/domain/task"
	"github.com/your-org/gardenops-backend/internal/domain/user"
)

// Models returns every entity the schema is built from, in dependency
// order. Shared with the test database helper.
func Models() []interface{} {
	return []interface{}{
		&user.User{},
		&client.Branch{},
		&client.Client{},
		&client.Site{},
		&client.Section{},
		&inventory.Item{},
		&inventory.Transaction{},
		&task.Task{},
		&task.Material{},
		&task.Image{},
		&notification.Notification{},
		&invoice.Invoice{},
		&invoice.Item{},
		&storage.UploadedFile{},
	}
}

// RunAutoMigrations runs gorm auto-migrations for all models
func RunAutoMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to run auto-migrations: %w", err)
	}
	return nil
}

// CreateIndexes creates additional indexes not covered by tags
func CreateIndexes(db *gorm.DB) error {
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_tasks_worker_status ON tasks(worker_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_client_status ON tasks(client_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_tasks_scheduled_date ON tasks(scheduled_date)",
		"CREATE INDEX IF NOT EXISTS idx_inventory_transactions_item_created ON inventory_transactions(item_id, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_notifications_user_read ON notifications(user_id, read_at)",
		"CREATE INDEX IF NOT EXISTS idx_invoices_client_status ON invoices(client_id, status)",
	}

	for _, idx := range indexes {
		if err := db.Exec(idx).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

// SeedInitialData creates the initial admin account in development
func SeedInitialData(db *gorm.DB, adminEmail, adminPassword string) error {
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var count int64
	if err := db.Model(&user.User{}).Where("role = ?", user.RoleAdmin).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &user.User{
		Email:     adminEmail,
		Password:  string(hashed),
		FirstName: "Admin",
		Role:      user.RoleAdmin,
		IsActive:  true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	return nil
}
