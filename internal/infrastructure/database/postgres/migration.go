// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"
	"log"

	"github.com/your-org/furniture-backend/internal/domain/cart"
	"github.com/your-org/furniture-backend/internal/domain/order"
	"github.com/your-org/furniture-backend/internal/domain/payment"
	"github.com/your-org/furniture-backend/internal/domain/product"
	"github.com/your-org/furniture-backend/internal/domain/upload"
	"github.com/your-org/furniture-backend/internal/domain/user"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db *gorm.DB
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB) *Migration {
	return &Migration{db: db}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	log.Println("Running database auto-migrations...")

	// Dependency order: referenced tables first.
	models := []interface{}{
		&user.User{},
		&user.Address{},

		&product.Product{},
		&product.MaterialOption{},
		&product.ColorOption{},
		&product.FabricOption{},
		&product.SizeOption{},
		&product.ProductImage{},

		&cart.Cart{},
		&cart.CartItem{},

		&order.Order{},
		&order.OrderItem{},
		&order.OrderStatusHistory{},
		&payment.Payment{},

		&upload.UploadedFile{},
	}

	for _, model := range models {
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	log.Println("Database auto-migrations completed")
	return nil
}

// CreateIndexes creates the indexes the services' correctness and query
// patterns depend on beyond what the model tags declare.
func (m *Migration) CreateIndexes() error {
	log.Println("Creating additional database indexes...")

	indexes := []string{
		// At most one default address per user, enforced by the database.
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_addresses_one_default ON addresses(user_id) WHERE is_default",
		"CREATE INDEX IF NOT EXISTS idx_addresses_user ON addresses(user_id)",

		// Catalog browsing
		"CREATE INDEX IF NOT EXISTS idx_products_category_active ON products(category, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_featured ON products(is_featured, is_active)",
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at DESC)",

		// Order queries
		"CREATE INDEX IF NOT EXISTS idx_orders_user_status ON orders(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_orders_status_created ON orders(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_order_status_history_order ON order_status_history(order_id, created_at)",

		// Payment queries
		"CREATE INDEX IF NOT EXISTS idx_payments_order_status ON payments(order_id, status)",
	}

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			log.Printf("Warning: failed to create index: %v", err)
		}
	}

	log.Println("Database indexes ready")
	return nil
}

// SeedInitialData inserts development fixtures: an admin account and a small
// configurable catalog.
func (m *Migration) SeedInitialData() error {
	log.Println("Seeding initial data...")

	if err := m.seedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if err := m.seedCatalog(); err != nil {
		return fmt.Errorf("failed to seed catalog: %w", err)
	}

	log.Println("Initial data seeded")
	return nil
}

func (m *Migration) seedAdminUser() error {
	var existing user.User
	result := m.db.Where("email = ?", "admin@example.com").First(&existing)
	if result.Error == nil {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := user.User{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		FirstName:    "Admin",
		LastName:     "User",
		Role:         user.RoleAdmin,
		IsActive:     true,
	}
	if err := m.db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Println("Created admin user: admin@example.com")
	return nil
}

func (m *Migration) seedCatalog() error {
	var count int64
	m.db.Model(&product.Product{}).Count(&count)
	if count > 0 {
		return nil
	}

	products := []product.Product{
		{
			SKU:          "SOFA-OSLO",
			Name:         "Oslo Sofa",
			Slug:         "oslo-sofa",
			Description:  "A made-to-order sofa with a solid wood frame and hand-finished upholstery.",
			ShortDesc:    "Made-to-order sofa, solid wood frame",
			BasePrice:    80000,
			Category:     product.CategorySofa,
			LeadTimeDays: 21,
			IsActive:     true,
			IsFeatured:   true,
			Materials: []product.MaterialOption{
				{Name: "Oak", PriceModifier: 0, IsDefault: true},
				{Name: "Walnut", PriceModifier: 15000},
			},
			Colors: []product.ColorOption{
				{Name: "Natural", HexCode: "#D9C7A7", PriceModifier: 0, IsDefault: true},
				{Name: "Ebony Stain", HexCode: "#2B2118", PriceModifier: 4000},
			},
			Fabrics: []product.FabricOption{
				{Name: "Linen Sand", FabricCategory: "linen", PriceModifier: 0, IsDefault: true},
				{Name: "Velvet Forest", FabricCategory: "velvet", PriceModifier: 12000},
				{Name: "Leather Cognac", FabricCategory: "leather", PriceModifier: 30000},
			},
			Sizes: []product.SizeOption{
				{Label: "2-seater", BasePrice: 80000, WidthCM: 160, DepthCM: 90, HeightCM: 80, IsDefault: true},
				{Label: "3-seater", BasePrice: 110000, WidthCM: 220, DepthCM: 90, HeightCM: 80},
			},
		},
		{
			SKU:          "TBL-BERGEN",
			Name:         "Bergen Dining Table",
			Slug:         "bergen-dining-table",
			Description:  "A dining table cut to size from a single slab, finished to order.",
			ShortDesc:    "Dining table, cut and finished to order",
			BasePrice:    60000,
			Category:     product.CategoryTable,
			LeadTimeDays: 14,
			IsActive:     true,
			Materials: []product.MaterialOption{
				{Name: "Oak", PriceModifier: 0, IsDefault: true},
				{Name: "Walnut", PriceModifier: 20000},
				{Name: "Reclaimed Pine", PriceModifier: -8000},
			},
			Colors: []product.ColorOption{
				{Name: "Natural", HexCode: "#D9C7A7", PriceModifier: 0, IsDefault: true},
				{Name: "Smoked", HexCode: "#6B5B4A", PriceModifier: 3000},
			},
			Sizes: []product.SizeOption{
				{Label: "180x90", BasePrice: 60000, WidthCM: 180, DepthCM: 90, HeightCM: 75, IsDefault: true},
				{Label: "220x100", BasePrice: 78000, WidthCM: 220, DepthCM: 100, HeightCM: 75},
			},
		},
	}

	for i := range products {
		if err := m.db.Create(&products[i]).Error; err != nil {
			return fmt.Errorf("failed to seed product %s: %w", products[i].SKU, err)
		}
		log.Printf("Created seed product: %s", products[i].Name)
	}
	return nil
}
