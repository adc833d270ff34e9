// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/foodorder-backend/internal/domain/product"
	"github.com/your-org/foodorder-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{
		db: db,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&product.Product{},
	}

	for _, model := range models {
		log.Printf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for better performance
func (m *Migration) CreateIndexes() error {
	log.Println("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_users_email_active ON users(email, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_available ON products(is_available)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",
	}

	for _, index := range indexes {
		if err := m.db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	log.Println("✅ Database indexes created successfully")
	return nil
}

// SeedInitialData seeds the development database with the admin account
// and the starter menu.
func (m *Migration) SeedInitialData() error {
	log.Println("🔄 Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return err
	}
	if err := m.seedMenu(); err != nil {
		return err
	}

	log.Println("✅ Initial data seeded successfully")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var count int64
	m.db.Model(&user.User{}).Where("is_admin = ?", true).Count(&count)
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("Admin123!"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := user.User{
		Email:    "test@mekdi.com",
		Password: string(hash),
		Name:     "Admin",
		IsActive: true,
		IsAdmin:  true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Printf("Seeded admin user: %s", admin.Email)
	return nil
}

func (m *Migration) seedMenu() error {
	var count int64
	m.db.Model(&product.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	menu := []product.Product{
		{Name: "Nasi Goreng Spesial", Price: 25000, ImageURL: "https://via.placeholder.com/100", IsAvailable: true},
		{Name: "Ayam Bakar Madu", Price: 30000, ImageURL: "https://via.placeholder.com/100", IsAvailable: true},
		{Name: "Es Teh Manis", Price: 5000, ImageURL: "https://via.placeholder.com/100", IsAvailable: true},
		{Name: "Kopi Susu Gula Aren", Price: 18000, ImageURL: "https://via.placeholder.com/100", IsAvailable: true},
	}

	for i := range menu {
		if err := m.db.Create(&menu[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %q: %w", menu[i].Name, err)
		}
	}

	log.Printf("Seeded %d menu items", len(menu))
	return nil
}

// GetTableInfo logs the row counts of the main tables
func (m *Migration) GetTableInfo() {
	tables := []string{"users", "products"}
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		log.Printf("Table %s: %d rows", table, count)
	}
}
